package middleware

import (
	"context"
	"net/http"

	"github.com/Masood0319/Startups-platform/utils"

	"go.uber.org/zap"
)

// authenticate resolves the caller's user id from the bearer token or the token cookie.
func authenticate(r *http.Request) (string, error) {
	tokenStr := utils.TokenFromRequest(r)
	if tokenStr == "" {
		return "", errNoToken
	}
	claims, err := utils.ValidateAccessToken(r.Context(), tokenStr)
	if err != nil {
		return "", err
	}
	id, ok := utils.SubjectID(claims)
	if !ok {
		return "", errNoSubject
	}
	return id, nil
}

type authError string

func (e authError) Error() string { return string(e) }

const (
	errNoToken   = authError("missing token")
	errNoSubject = authError("token has no id claim")
)

// OptionalAuth attaches the user id when a valid token is present and passes
// anonymous requests through untouched.
func OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := authenticate(r)
		if err != nil {
			if err != errNoToken {
				utils.Logger.Debug("ignoring invalid token", zap.String("request_id", requestID(r.Context())), zap.Error(err))
			}
			next.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), utils.UserIDKey, id)))
	})
}

// RequireAuth rejects requests without a valid token with 401.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := utils.GetUserID(r); ok {
			next.ServeHTTP(w, r)
			return
		}
		id, err := authenticate(r)
		if err != nil {
			utils.WriteError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), utils.UserIDKey, id)))
	})
}
