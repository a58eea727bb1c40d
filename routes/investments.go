package routes

import (
	"net/http"
	"time"

	"github.com/Masood0319/Startups-platform/controllers"
	"github.com/Masood0319/Startups-platform/middleware"

	"github.com/gorilla/mux"
)

// InvestmentRoutes registers the investment lifecycle, preview and startup screen routes.
func InvestmentRoutes(api *mux.Router, c *controllers.InvestmentController) {
	// 120 reads, 30 writes per user per minute
	userLimiter := middleware.NewUserRateLimiter(120, 30, 60)
	// previews are anonymous and cheap but can archive to R2
	previewLimiter := middleware.NewIPRateLimiter(60, time.Minute)

	inv := api.PathPrefix("/investments/{type}").Subrouter()
	inv.Use(middleware.OptionalAuth, userLimiter.Middleware)

	inv.Handle("", http.HandlerFunc(c.List)).Methods(http.MethodGet)
	inv.Handle("", middleware.RequireAuth(http.HandlerFunc(c.Create))).Methods(http.MethodPost)
	inv.Handle("", middleware.RequireAuth(http.HandlerFunc(c.Update))).Methods(http.MethodPut)
	inv.Handle("", middleware.RequireAuth(http.HandlerFunc(c.Delete))).Methods(http.MethodDelete)
	inv.Handle("/preview", previewLimiter.Middleware(http.HandlerFunc(c.Preview))).Methods(http.MethodPost)

	api.Handle("/startups/{id}/compliance", http.HandlerFunc(c.StartupCompliance)).Methods(http.MethodGet)
}
