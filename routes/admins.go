package routes

import (
	"net/http"
	"time"

	"github.com/Masood0319/Startups-platform/controllers"
	"github.com/Masood0319/Startups-platform/middleware"

	"github.com/gorilla/mux"
)

// SetAdminRoutes registers maintenance endpoints behind the X-Admin-Key check.
func SetAdminRoutes(api *mux.Router, c *controllers.AdminController, keyHash string) {
	// brute-force guard on the key check
	adminLimiter := middleware.NewIPRateLimiter(10, time.Minute)

	adminRouter := api.PathPrefix("/admin").Subrouter()
	adminRouter.Use(adminLimiter.Middleware, middleware.AdminKeyMiddleware(keyHash))

	adminRouter.Handle("/reconcile", http.HandlerFunc(c.Reconcile)).Methods(http.MethodGet, http.MethodPost)
}
