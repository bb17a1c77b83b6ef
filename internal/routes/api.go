package routes

import (
	"log/slog"
	"net/http"

	"github.com/dukerupert/megapdv/internal/auth"
	"github.com/dukerupert/megapdv/internal/handler"
	"github.com/dukerupert/megapdv/internal/handler/api"
	"github.com/dukerupert/megapdv/internal/middleware"
	"github.com/dukerupert/megapdv/internal/router"
	"github.com/dukerupert/megapdv/internal/telemetry"
)

// RegisterAPIRoutes registers the JSON API under /api.
// Every route except login requires a bearer token; role gates follow
// the permission table in package auth.
func RegisterAPIRoutes(r *router.Router, deps APIDeps) {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	// Authenticate only resolves the bearer token; RequireAuth rejects.
	// The request logger and Sentry scope run after it to pick up the user.
	apiRouter := r.Route("/api",
		middleware.Authenticate(deps.Tokens, deps.Users),
		middleware.WithRequestLogger(logger),
		telemetry.SentryUserMiddleware(),
	)

	// Login is public and rate limited per client IP
	login := apiRouter.Group()
	if deps.LoginRateLimiter != nil {
		login = apiRouter.Group(deps.LoginRateLimiter.Middleware)
	}
	login.Post("/auth/login", deps.AuthHandler.Login)

	authed := apiRouter.Group(middleware.RequireAuth)
	authed.Get("/auth/me", deps.AuthHandler.Me)
	authed.Get("/menu", deps.AuthHandler.Menu)

	// Dashboard
	dashboard := authed.Group(middleware.RequirePermission(auth.ActionViewDashboard))
	dashboard.Get("/dashboard", deps.ReportHandler.Dashboard)

	// Catalog: the register reads it, managers edit it
	catalog := authed.Group(middleware.RequirePermission(auth.ActionOperatePDV))
	catalog.Get("/products", deps.ProductHandler.List)
	catalog.Get("/products/categories", deps.ProductHandler.Categories)
	catalog.Get("/products/{id}", deps.ProductHandler.Get)

	products := authed.Group(middleware.RequirePermission(auth.ActionManageProducts))
	products.Get("/products/stats", deps.ProductHandler.Stats)
	products.Post("/products", deps.ProductHandler.Create)
	products.Put("/products/{id}", deps.ProductHandler.Update)
	products.Delete("/products/{id}", deps.ProductHandler.Delete)

	// User management
	users := authed.Group(middleware.RequirePermission(auth.ActionManageUsers))
	users.Get("/users", deps.UserHandler.List)
	users.Post("/users", deps.UserHandler.Create)
	users.Get("/users/stats", deps.UserHandler.Stats)
	users.Get("/users/{id}", deps.UserHandler.Get)
	users.Put("/users/{id}", deps.UserHandler.Update)
	users.Delete("/users/{id}", deps.UserHandler.Delete)
	users.Post("/users/{id}/password", deps.UserHandler.ChangePassword)

	// Register
	pdv := authed.Route("/checkout/sessions", middleware.RequirePermission(auth.ActionOperatePDV))
	pdv.Post("", deps.CheckoutHandler.Start)
	pdv.Get("", deps.CheckoutHandler.List)
	pdv.Get("/{id}", deps.CheckoutHandler.Get)
	pdv.Delete("/{id}", deps.CheckoutHandler.Abandon)
	pdv.Post("/{id}/items", deps.CheckoutHandler.AddItem)
	pdv.Delete("/{id}/items", deps.CheckoutHandler.Clear)
	pdv.Put("/{id}/items/{productID}", deps.CheckoutHandler.UpdateQuantity)
	pdv.Delete("/{id}/items/{productID}", deps.CheckoutHandler.RemoveItem)
	pdv.Put("/{id}/items/{productID}/discount", deps.CheckoutHandler.ItemDiscount)
	pdv.Put("/{id}/discount", deps.CheckoutHandler.GlobalDiscount)
	pdv.Post("/{id}/payment", deps.CheckoutHandler.BeginPayment)
	pdv.Delete("/{id}/payment", deps.CheckoutHandler.CancelPayment)
	pdv.Post("/{id}/finalize", deps.CheckoutHandler.Finalize)

	// Sales history
	sales := authed.Group(middleware.RequirePermission(auth.ActionViewSales))
	sales.Get("/sales", deps.SalesHandler.List)
	sales.Get("/sales/{id}", deps.SalesHandler.Get)

	// Reports
	reports := authed.Group(middleware.RequirePermission(auth.ActionViewReports))
	reports.Get("/reports", deps.ReportHandler.Report)
	reports.Get("/reports/export.pdf", deps.ReportHandler.ExportPDF)

	// Unknown /api paths answer with a JSON 404
	apiRouter.NotFound(handler.NotFoundResponse)
}

// RegisterOpsRoutes registers health and metrics endpoints.
// /metrics should be protected in production via firewall.
func RegisterOpsRoutes(r *router.Router, deps OpsDeps) {
	r.Get("/health", api.Health)
	if deps.MetricsHandler != nil {
		r.Handle(http.MethodGet, "/metrics", deps.MetricsHandler)
	}
	r.NotFound(handler.NotFoundResponse)
}
