package routes

import (
	"net/http"
	"time"

	"github.com/Masood0319/Startups-platform/controllers"
	"github.com/Masood0319/Startups-platform/middleware"
	"github.com/Masood0319/Startups-platform/utils"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Deps carries what the router needs from the composition root.
type Deps struct {
	CORSOrigins  []string
	AdminKeyHash string
	Investments  *controllers.InvestmentController
	Admin        *controllers.AdminController
}

func optionsHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

func InitRouter(d Deps) *mux.Router {
	r := mux.NewRouter()

	r.Handle("/health", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		utils.WriteJSON(w, http.StatusOK, map[string]interface{}{
			"status":    "healthy",
			"timestamp": time.Now().Unix(),
			"service":   "travest-api",
		})
	})).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	r.Use(func(next http.Handler) http.Handler {
		return handlers.CORS(
			handlers.AllowedOrigins(d.CORSOrigins),
			handlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
			handlers.AllowedHeaders([]string{"Content-Type", "Authorization", "X-Requested-With", "X-Request-ID", middleware.AdminKeyHeader}),
			handlers.AllowCredentials(),
		)(next)
	})
	r.Use(middleware.MetricsMiddleware)

	api := r.PathPrefix("/api").Subrouter()
	api.PathPrefix("/").HandlerFunc(optionsHandler).Methods(http.MethodOptions)

	InvestmentRoutes(api, d.Investments)
	SetAdminRoutes(api, d.Admin, d.AdminKeyHash)

	return r
}

// Handler wraps the router with the global middleware chain.
// Logging -> Security headers -> Request ID -> Max Body -> Timeout -> Recovery -> Suspicious Activity
func Handler(router http.Handler) http.Handler {
	return middleware.RequestIDMiddleware(
		middleware.RequestLogMiddleware(
			middleware.SecurityHeadersMiddleware(
				middleware.MaxBodyMiddleware(
					middleware.TimeoutMiddleware(
						middleware.RecoveryMiddleware(
							middleware.SuspiciousActivityMiddleware(router),
						),
					),
				),
			),
		),
	)
}
