package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Masood0319/Startups-platform/config"
	"github.com/Masood0319/Startups-platform/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func echoUser() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, _ := utils.GetUserID(r)
		_, _ = w.Write([]byte(id))
	})
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) utils.APIResponse {
	t.Helper()
	var resp utils.APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestRequireAuth(t *testing.T) {
	utils.InitJWT(config.JWTConfig{Secret: "mw-secret"})
	tok, err := utils.GenerateAccessToken("founder-1", time.Minute)
	require.NoError(t, err)
	h := RequireAuth(echoUser())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/investments/equity", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Unauthorized", decodeEnvelope(t, rec).Message)

	req := httptest.NewRequest(http.MethodPost, "/api/investments/equity", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/api/investments/equity", nil)
	req.AddCookie(&http.Cookie{Name: utils.TokenCookie, Value: tok})
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "founder-1", rec.Body.String())
}

func TestOptionalAuthPassesAnonymous(t *testing.T) {
	utils.InitJWT(config.JWTConfig{Secret: "mw-secret"})
	h := OptionalAuth(echoUser())

	req := httptest.NewRequest(http.MethodGet, "/api/investments/equity", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestAdminKeyMiddleware(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("open-sesame"), bcrypt.MinCost)
	require.NoError(t, err)
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) })

	cases := []struct {
		name string
		hash string
		key  string
		want int
	}{
		{"disabled", "", "open-sesame", http.StatusForbidden},
		{"missing key", string(hash), "", http.StatusUnauthorized},
		{"wrong key", string(hash), "guess", http.StatusUnauthorized},
		{"valid key", string(hash), "open-sesame", http.StatusNoContent},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/admin/reconcile", nil)
			if tc.key != "" {
				req.Header.Set(AdminKeyHeader, tc.key)
			}
			rec := httptest.NewRecorder()
			AdminKeyMiddleware(tc.hash)(ok).ServeHTTP(rec, req)
			assert.Equal(t, tc.want, rec.Code)
		})
	}
}

func TestValidateJSON(t *testing.T) {
	type body struct {
		ID     string      `json:"id" validate:"required"`
		Amount interface{} `json:"amount"`
	}

	req := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(`{"id":"x","amount":1000.50}`))
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	var b body
	require.NoError(t, ValidateJSON(httptest.NewRecorder(), req, &b))
	assert.Equal(t, json.Number("1000.50"), b.Amount)

	req = httptest.NewRequest(http.MethodPut, "/", strings.NewReader(`{"amount":1}`))
	rec := httptest.NewRecorder()
	assert.Error(t, ValidateJSON(rec, req, &body{}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, []string{"id is required"}, decodeEnvelope(t, rec).Errors)

	req = httptest.NewRequest(http.MethodPut, "/", strings.NewReader(`{`))
	rec = httptest.NewRecorder()
	assert.Error(t, ValidateJSON(rec, req, &body{}))
	assert.Equal(t, "Invalid JSON body", decodeEnvelope(t, rec).Message)

	req = httptest.NewRequest(http.MethodPut, "/", strings.NewReader(`id=1`))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec = httptest.NewRecorder()
	assert.Error(t, ValidateJSON(rec, req, &body{}))
	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
}

func TestRecoveryMiddleware(t *testing.T) {
	h := RequestIDMiddleware(RecoveryMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "rid-1")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "rid-1", rec.Header().Get("X-Request-ID"))
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "rid-1", body["request_id"])
}

func TestIPRateLimiter(t *testing.T) {
	l := NewIPRateLimiter(2, time.Minute)
	h := l.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/investments/equity", nil)
		req.RemoteAddr = "203.0.113.9:1234"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{200, 200, 429}, codes)
}

func TestUserRateLimiterPenalises(t *testing.T) {
	l := NewUserRateLimiter(10, 1, 60)
	h := OptionalAuth(l.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})))
	utils.InitJWT(config.JWTConfig{Secret: "mw-secret"})
	tok, err := utils.GenerateAccessToken("investor-3", time.Minute)
	require.NoError(t, err)

	post := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/investments/safe", nil)
		req.Header.Set("Authorization", "Bearer "+tok)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}
	assert.Equal(t, http.StatusOK, post().Code)
	rec := post()
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))
	assert.Equal(t, http.StatusTooManyRequests, post().Code)

	// reads have their own budget
	req := httptest.NewRequest(http.MethodGet, "/api/investments/safe", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSlowTrackerBlockExpires(t *testing.T) {
	orig := nowUnix
	defer func() { nowUnix = orig }()
	now := time.Unix(1_700_000_000, 0).UnixNano()
	nowUnix = func() int64 { return now }

	tr := NewSlowTracker(3, time.Minute)
	h := tr.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	call := func(port string) int {
		req := httptest.NewRequest(http.MethodGet, "/api/investments/equity", nil)
		req.RemoteAddr = "10.0.0.1:" + port
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	for _, port := range []string{"4001", "4002", "4003"} {
		req := httptest.NewRequest(http.MethodGet, "/api/investments/equity", nil)
		req.RemoteAddr = "10.0.0.1:" + port
		tr.Flag(req)
	}
	assert.Equal(t, http.StatusTooManyRequests, call("4004"))

	now += int64(61 * time.Second)
	assert.Equal(t, http.StatusOK, call("4005"))
	tr.mu.Lock()
	assert.Empty(t, tr.hits)
	tr.mu.Unlock()
}

func TestSlowTrackerSeparatesForwardedClients(t *testing.T) {
	tr := NewSlowTracker(2, time.Minute)
	tr.trustedCIDR = []string{"10.0.0.0/8"}
	viaProxy := func(client string) *http.Request {
		req := httptest.NewRequest(http.MethodGet, "/api/investments/equity", nil)
		req.RemoteAddr = "10.1.2.3:443"
		req.Header.Set("X-Forwarded-For", client)
		return req
	}

	tr.Flag(viaProxy("203.0.113.1"))
	tr.Flag(viaProxy("203.0.113.1"))
	assert.True(t, tr.Blocked(viaProxy("203.0.113.1")))
	assert.False(t, tr.Blocked(viaProxy("203.0.113.2")))
}

func TestSlowTrackerDisabledByZeroThreshold(t *testing.T) {
	tr := NewSlowTracker(0, time.Minute)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	for i := 0; i < 5; i++ {
		tr.Flag(req)
	}
	assert.False(t, tr.Blocked(req))
}
