package middleware

import (
	"net/http"

	"github.com/Masood0319/Startups-platform/utils"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// AdminKeyHeader carries the operator key for maintenance endpoints.
const AdminKeyHeader = "X-Admin-Key"

// AdminKeyMiddleware admits requests whose X-Admin-Key matches the bcrypt hash.
// An empty hash disables the protected routes.
func AdminKeyMiddleware(hash string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if hash == "" {
				utils.WriteError(w, http.StatusForbidden, "Forbidden: Admin access disabled")
				return
			}
			key := r.Header.Get(AdminKeyHeader)
			if key == "" {
				utils.WriteError(w, http.StatusUnauthorized, "Unauthorized: No admin key provided")
				return
			}
			if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(key)); err != nil {
				utils.Logger.Warn("admin key rejected",
					zap.String("request_id", requestID(r.Context())),
					zap.String("ip", clientIPGeneric(r, nil)))
				utils.WriteError(w, http.StatusUnauthorized, "Unauthorized: Invalid admin key")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
