package middleware

import (
	"net/http"
	"os"
	"strconv"
)

const defaultMaxBody = int64(256 << 10)

// MaxBodyMiddleware caps request bodies at MAX_BODY_BYTES (default 256 KiB).
// Investment payloads are small JSON documents.
func MaxBodyMiddleware(next http.Handler) http.Handler {
	max := defaultMaxBody
	if s := os.Getenv("MAX_BODY_BYTES"); s != "" {
		if v, err := strconv.ParseInt(s, 10, 64); err == nil && v > 0 {
			max = v
		}
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Body != nil {
			r.Body = http.MaxBytesReader(w, r.Body, max)
		}
		next.ServeHTTP(w, r)
	})
}
