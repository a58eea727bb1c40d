package middleware

import (
	"context"
	"net/http"
	"os"
	"runtime/debug"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/Masood0319/Startups-platform/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// SecurityHeadersMiddleware sets security headers. CORS is handled by the router.
func SecurityHeadersMiddleware(next http.Handler) http.Handler {
	env := strings.ToLower(getenv("ENV", "production"))
	hsts := getenv("SEC_HSTS", "false")
	csp := getenv("SEC_CSP", "default-src 'none'; frame-ancestors 'none'; base-uri 'self';")

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("Referrer-Policy", "no-referrer")
		if env != "development" {
			w.Header().Set("Content-Security-Policy", csp)
		}
		if hsts == "true" {
			// 1 year
			w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains; preload")
		}
		next.ServeHTTP(w, r)
	})
}

// responseRecorder wraps ResponseWriter to capture status code
type responseRecorder struct {
	http.ResponseWriter
	status int
}

func (r *responseRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func requestID(ctx context.Context) string {
	rid, _ := ctx.Value(utils.RequestIDKey).(string)
	return rid
}

// RequestLogMiddleware logs every request with its status and latency.
func RequestLogMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &responseRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		utils.Logger.Info("request",
			zap.String("request_id", requestID(r.Context())),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("latency", time.Since(start)))
	})
}

// RequestIDMiddleware injects a request id into context and response headers
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rid := r.Header.Get("X-Request-ID")
		if rid == "" || len(rid) > 64 {
			rid = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", rid)
		ctx := context.WithValue(r.Context(), utils.RequestIDKey, rid)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// TimeoutMiddleware cancels the request context after REQ_TIMEOUT_SEC (default 10).
func TimeoutMiddleware(next http.Handler) http.Handler {
	timeoutSec := atoi(getenv("REQ_TIMEOUT_SEC", "10"))
	if timeoutSec == 0 {
		timeoutSec = 10
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), time.Duration(timeoutSec)*time.Second)
		defer cancel()
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RecoveryMiddleware recovers from panics, logs the stack and returns a generic 500.
func RecoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				rid := requestID(r.Context())
				utils.Logger.Error("panic recovered",
					zap.String("request_id", rid),
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.Any("panic", rec),
					zap.ByteString("stack", debug.Stack()))
				utils.WriteJSON(w, http.StatusInternalServerError, map[string]interface{}{
					"success":    false,
					"message":    "Internal server error",
					"request_id": rid,
				})
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// SlowTracker counts slow responses per client IP over a sliding window and
// refuses clients that cross the threshold until their slow hits age out.
type SlowTracker struct {
	mu          sync.Mutex
	hits        map[string]timestamps
	window      time.Duration
	threshold   int
	trustedCIDR []string
	cleanupTick time.Duration
}

// NewSlowTracker refuses a client after threshold slow responses within
// window. A non-positive threshold disables refusal.
func NewSlowTracker(threshold int, window time.Duration) *SlowTracker {
	t := &SlowTracker{
		hits:        make(map[string]timestamps),
		window:      window,
		threshold:   threshold,
		trustedCIDR: trustedProxies(),
		cleanupTick: getEnvDuration("RATE_CLEANUP_SECONDS", 60*time.Second),
	}
	go t.cleanupLoop()
	return t
}

var (
	slowOnce    sync.Once
	slowClients *SlowTracker
)

func defaultSlowTracker() *SlowTracker {
	slowOnce.Do(func() {
		slowClients = NewSlowTracker(
			atoi(getenv("SUSPICIOUS_THRESHOLD", "10")),
			getEnvDuration("SUSPICIOUS_WINDOW_SECONDS", 5*time.Minute))
	})
	return slowClients
}

// Flag records a slow response against the client IP.
func (t *SlowTracker) Flag(r *http.Request) {
	ip := clientIPGeneric(r, t.trustedCIDR)
	now := nowUnix()
	t.mu.Lock()
	t.hits[ip] = append(prune(t.hits[ip], now-int64(t.window)), now)
	t.mu.Unlock()
}

// Blocked reports whether the client IP is over the threshold right now.
func (t *SlowTracker) Blocked(r *http.Request) bool {
	if t.threshold <= 0 {
		return false
	}
	ip := clientIPGeneric(r, t.trustedCIDR)
	cutoff := nowUnix() - int64(t.window)
	t.mu.Lock()
	defer t.mu.Unlock()
	recent := prune(t.hits[ip], cutoff)
	if len(recent) == 0 {
		delete(t.hits, ip)
		return false
	}
	t.hits[ip] = recent
	return len(recent) >= t.threshold
}

// Middleware refuses blocked clients with 429.
func (t *SlowTracker) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if t.Blocked(r) {
			utils.WriteError(w, http.StatusTooManyRequests, "Too many requests")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (t *SlowTracker) cleanupLoop() {
	tick := time.NewTicker(t.cleanupTick)
	defer tick.Stop()
	for range tick.C {
		t.mu.Lock()
		cutoff := nowUnix() - int64(t.window)
		for k, arr := range t.hits {
			if filtered := prune(arr, cutoff); len(filtered) == 0 {
				delete(t.hits, k)
			} else {
				t.hits[k] = filtered
			}
		}
		t.mu.Unlock()
	}
}

// flagSlow counts a slow response against the client IP.
func flagSlow(r *http.Request) {
	defaultSlowTracker().Flag(r)
}

// SuspiciousActivityMiddleware refuses IPs with repeated slow responses
// within SUSPICIOUS_WINDOW_SECONDS (default 300).
func SuspiciousActivityMiddleware(next http.Handler) http.Handler {
	return defaultSlowTracker().Middleware(next)
}

// Helper: atoi with default
func atoi(s string) int {
	v, _ := strconv.Atoi(s)
	if v <= 0 {
		return 0
	}
	return v
}
