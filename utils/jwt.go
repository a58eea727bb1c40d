package utils

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Masood0319/Startups-platform/config"
	"github.com/Masood0319/Startups-platform/database"
	"github.com/Masood0319/Startups-platform/models"

	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type contextKey string

const UserIDKey = contextKey("userID")
const RequestIDKey = contextKey("requestID")

// TokenCookie is the cookie the login flow sets.
const TokenCookie = "token"

const revokedKeyPrefix = "jwt:blacklist:"

var jwtCfg config.JWTConfig

// InitJWT installs the signing secret and the expected audience and issuer.
func InitJWT(cfg config.JWTConfig) {
	jwtCfg = cfg
}

// GenerateAccessToken issues an HS256 token carrying the user id.
func GenerateAccessToken(userID string, expiry time.Duration) (string, error) {
	if jwtCfg.Secret == "" {
		return "", errors.New("JWT_SECRET is not set")
	}
	jti, err := generateJTI(16)
	if err != nil {
		return "", err
	}
	now := time.Now()
	claims := jwt.MapClaims{
		"id":  userID,
		"exp": now.Add(expiry).Unix(),
		"iat": now.Unix(),
		"nbf": now.Unix(),
		"jti": jti,
	}
	if jwtCfg.Audience != "" {
		claims["aud"] = jwtCfg.Audience
	}
	if jwtCfg.Issuer != "" {
		claims["iss"] = jwtCfg.Issuer
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(jwtCfg.Secret))
}

// ValidateAccessToken verifies signature, expiry, audience and issuer, then
// checks the jti against the revocation store.
func ValidateAccessToken(ctx context.Context, tokenStr string) (jwt.MapClaims, error) {
	if jwtCfg.Secret == "" {
		return nil, errors.New("JWT_SECRET is not set")
	}
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if jwtCfg.Audience != "" {
		opts = append(opts, jwt.WithAudience(jwtCfg.Audience))
	}
	if jwtCfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(jwtCfg.Issuer))
	}
	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(jwtCfg.Secret), nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, errors.New("token expired")
		}
		return nil, errors.New("invalid token")
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}

	if jti, ok := claims["jti"].(string); ok && jti != "" {
		if revoked(ctx, jti) {
			return nil, errors.New("token revoked")
		}
	}
	return claims, nil
}

// revoked checks Redis first when configured, otherwise the revoked_tokens table.
// Store outages do not fail authentication.
func revoked(ctx context.Context, jti string) bool {
	if RedisClient != nil {
		res, err := RedisClient.Get(ctx, revokedKeyPrefix+jti).Result()
		return err == nil && res == "1"
	}
	if database.DB != nil {
		var rec models.RevokedToken
		err := database.DB.WithContext(ctx).Where("id = ?", jti).First(&rec).Error
		if err == nil {
			return true
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			Logger.Sugar().Warnf("revocation lookup failed: %v", err)
		}
	}
	return false
}

// RevokeJTI records a revoked token id. Redis entries expire after ttl.
func RevokeJTI(ctx context.Context, jti string, ttl time.Duration) error {
	if jti == "" {
		return errors.New("empty jti")
	}
	if RedisClient != nil {
		return RedisClient.Set(ctx, revokedKeyPrefix+jti, "1", ttl).Err()
	}
	if database.DB != nil {
		return database.DB.WithContext(ctx).
			Clauses(clause.OnConflict{UpdateAll: true}).
			Create(&models.RevokedToken{ID: jti, RevokedAt: time.Now()}).Error
	}
	return errors.New("no revocation store configured")
}

// TokenFromRequest returns the bearer token, falling back to the token cookie.
func TokenFromRequest(r *http.Request) string {
	if authz := r.Header.Get("Authorization"); strings.HasPrefix(authz, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(authz, "Bearer "))
	}
	if c, err := r.Cookie(TokenCookie); err == nil {
		return c.Value
	}
	return ""
}

// SubjectID reads the id claim. Numeric ids are formatted without decimals.
func SubjectID(claims jwt.MapClaims) (string, bool) {
	switch v := claims["id"].(type) {
	case string:
		return v, v != ""
	case float64:
		return strconv.FormatInt(int64(v), 10), true
	case int64:
		return strconv.FormatInt(v, 10), true
	}
	return "", false
}

// GetUserID returns the authenticated user id set by the auth middleware.
func GetUserID(r *http.Request) (string, bool) {
	id, ok := r.Context().Value(UserIDKey).(string)
	return id, ok && id != ""
}

func generateJTI(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate jti: %w", err)
	}
	return hex.EncodeToString(b), nil
}
