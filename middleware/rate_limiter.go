package middleware

import (
	"fmt"
	"net"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/Masood0319/Startups-platform/utils"
)

// In-memory sliding-window rate limiters with per-route rules, trusted-proxy
// support, progressive penalties and periodic cleanup.

type timestamps []int64 // unix nanos

var nowUnix = func() int64 { return time.Now().UnixNano() }

const tooManyRequests = "Too many requests, please try again later"

// Configuration defaults (override via env)
func getEnvInt(key string, def int) int {
	if s := os.Getenv(key); s != "" {
		if v, err := strconv.Atoi(s); err == nil {
			return v
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if s := os.Getenv(key); s != "" {
		if v, err := strconv.Atoi(s); err == nil {
			return time.Duration(v) * time.Second
		}
	}
	return def
}

// prune keeps the timestamps at or after cutoff.
func prune(arr timestamps, cutoff int64) timestamps {
	var filtered timestamps
	for _, ts := range arr {
		if ts >= cutoff {
			filtered = append(filtered, ts)
		}
	}
	return filtered
}

func writeTooMany(w http.ResponseWriter, retryAfter int) {
	w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
	utils.WriteJSON(w, http.StatusTooManyRequests, utils.APIResponse{
		Success: false,
		Message: tooManyRequests,
		Data:    map[string]interface{}{"retry_after_seconds": retryAfter},
	})
}

// IPRateLimiter implements per-IP sliding windows with optional trusted-proxy parsing
type IPRateLimiter struct {
	window      time.Duration
	mu          sync.Mutex
	state       map[string]timestamps
	cleanupTick time.Duration
	trustedCIDR []string
	max         int
}

// NewIPRateLimiter allows maxReq requests per window per client IP. A
// non-positive maxReq falls back to RATE_IP_DEFAULT (200).
func NewIPRateLimiter(maxReq int, window time.Duration) *IPRateLimiter {
	if maxReq <= 0 {
		maxReq = getEnvInt("RATE_IP_DEFAULT", 200)
	}
	l := &IPRateLimiter{
		window:      window,
		state:       make(map[string]timestamps),
		cleanupTick: getEnvDuration("RATE_CLEANUP_SECONDS", 60*time.Second),
		max:         maxReq,
		trustedCIDR: trustedProxies(),
	}
	go l.cleanupLoop()
	return l
}

// trustedProxies reads the comma separated TRUSTED_PROXIES list.
func trustedProxies() []string {
	if v := os.Getenv("TRUSTED_PROXIES"); v != "" {
		return strings.Split(v, ",")
	}
	return nil
}

// clientIPGeneric returns the client IP string. If trustedCIDR is provided,
// X-Forwarded-For / X-Real-IP headers are honored when remote addr is inside
// one of the trusted CIDRs or IPs.
func clientIPGeneric(r *http.Request, trustedCIDR []string) string {
	remoteHost, _, _ := net.SplitHostPort(r.RemoteAddr)
	remoteIP := net.ParseIP(remoteHost)
	trusted := false
	for _, cidr := range trustedCIDR {
		cidr = strings.TrimSpace(cidr)
		if cidr == "" {
			continue
		}
		if strings.Contains(cidr, "/") {
			if _, ipnet, err := net.ParseCIDR(cidr); err == nil {
				if remoteIP != nil && ipnet.Contains(remoteIP) {
					trusted = true
					break
				}
			}
			continue
		}
		if ip := net.ParseIP(cidr); ip != nil && remoteIP != nil && ip.Equal(remoteIP) {
			trusted = true
			break
		}
	}
	if trusted {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			parts := strings.Split(xff, ",")
			if len(parts) > 0 {
				return strings.TrimSpace(parts[0])
			}
		}
		if xr := r.Header.Get("X-Real-IP"); xr != "" {
			return strings.TrimSpace(xr)
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// Middleware applies per-IP limits and sets rate-limit headers.
func (l *IPRateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := clientIPGeneric(r, l.trustedCIDR)
		now := nowUnix()
		windowNs := int64(l.window)

		l.mu.Lock()
		filtered := append(prune(l.state[ip], now-windowNs), now)
		l.state[ip] = filtered
		count := len(filtered)
		oldest := filtered[0]
		l.mu.Unlock()

		remaining := l.max - count
		if remaining < 0 {
			remaining = 0
		}
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", l.max))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", remaining))

		if count > l.max {
			// the oldest request in the window expires first
			retryAfter := int((oldest + windowNs - now) / 1e9)
			if retryAfter < 1 {
				retryAfter = 1
			}
			writeTooMany(w, retryAfter)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (l *IPRateLimiter) cleanupLoop() {
	tick := time.NewTicker(l.cleanupTick)
	defer tick.Stop()
	for range tick.C {
		l.mu.Lock()
		cutoff := nowUnix() - int64(l.window)
		for k, arr := range l.state {
			if filtered := prune(arr, cutoff); len(filtered) == 0 {
				delete(l.state, k)
			} else {
				l.state[k] = filtered
			}
		}
		l.mu.Unlock()
	}
}

// UserRateLimiter implements sliding windows per authenticated user with
// separate read and write budgets and progressive penalties.
type UserRateLimiter struct {
	mu          sync.Mutex
	state       map[string]timestamps // key = userID:category
	penalty     map[string]penaltyInfo
	window      time.Duration
	cleanupTick time.Duration
	maxRead     int
	maxWrite    int
}

type penaltyInfo struct {
	Level int
	Until int64 // unix nanos
}

// NewUserRateLimiter allows maxReqRead reads and maxReqWrite writes per user per window.
func NewUserRateLimiter(maxReqRead, maxReqWrite int, windowSec int) *UserRateLimiter {
	l := &UserRateLimiter{
		state:       make(map[string]timestamps),
		penalty:     make(map[string]penaltyInfo),
		window:      time.Duration(windowSec) * time.Second,
		cleanupTick: getEnvDuration("RATE_CLEANUP_SECONDS", 60*time.Second),
		maxRead:     maxReqRead,
		maxWrite:    maxReqWrite,
	}
	go l.cleanupLoop()
	return l
}

func requestCategory(r *http.Request) string {
	if strings.HasPrefix(r.URL.Path, "/api/admin") {
		return "admin"
	}
	switch r.Method {
	case http.MethodGet, http.MethodHead:
		return "read"
	}
	return "write"
}

func (l *UserRateLimiter) limitFor(cat string) int {
	switch cat {
	case "admin":
		return getEnvInt("RATE_USER_ADMIN", 50)
	case "read":
		if l.maxRead > 0 {
			return l.maxRead
		}
		return getEnvInt("RATE_USER_READ", 100)
	default:
		if l.maxWrite > 0 {
			return l.maxWrite
		}
		return getEnvInt("RATE_USER_WRITE", 30)
	}
}

// penaltyFor maps a penalty level to its lockout: 1, 5, 15, then 30 minutes.
func penaltyFor(level int) time.Duration {
	switch level {
	case 1:
		return time.Minute
	case 2:
		return 5 * time.Minute
	case 3:
		return 15 * time.Minute
	default:
		return 30 * time.Minute
	}
}

// Middleware must run after the auth middleware; anonymous requests pass through.
func (l *UserRateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		uid, ok := utils.GetUserID(r)
		if !ok {
			next.ServeHTTP(w, r)
			return
		}
		cat := requestCategory(r)
		limit := l.limitFor(cat)
		key := "u:" + uid + ":" + cat
		now := nowUnix()

		l.mu.Lock()
		pi := l.penalty[key]
		if pi.Until > now {
			l.mu.Unlock()
			writeTooMany(w, int(time.Duration(pi.Until-now).Seconds()))
			return
		}
		filtered := append(prune(l.state[key], now-int64(l.window)), now)
		l.state[key] = filtered
		count := len(filtered)
		if count > limit {
			level := pi.Level + 1
			d := penaltyFor(level)
			l.penalty[key] = penaltyInfo{Level: level, Until: now + int64(d)}
			l.mu.Unlock()
			writeTooMany(w, int(d.Seconds()))
			return
		}
		l.mu.Unlock()

		remaining := limit - count
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", remaining))
		next.ServeHTTP(w, r)
	})
}

func (l *UserRateLimiter) cleanupLoop() {
	tick := time.NewTicker(l.cleanupTick)
	defer tick.Stop()
	for range tick.C {
		l.mu.Lock()
		now := nowUnix()
		cutoff := now - int64(l.window)
		for k, arr := range l.state {
			if filtered := prune(arr, cutoff); len(filtered) == 0 {
				delete(l.state, k)
			} else {
				l.state[k] = filtered
			}
		}
		for k, p := range l.penalty {
			if p.Until < now {
				delete(l.penalty, k)
			}
		}
		l.mu.Unlock()
	}
}
