package routes

import (
	"log/slog"
	"net/http"

	"github.com/dukerupert/megapdv/internal/auth"
	"github.com/dukerupert/megapdv/internal/handler/api"
	"github.com/dukerupert/megapdv/internal/middleware"
)

// APIDeps contains dependencies for the /api routes
type APIDeps struct {
	Logger *slog.Logger

	// Authentication
	Tokens *auth.TokenIssuer
	Users  middleware.UserLoader

	// Stricter limiter for the login endpoint
	LoginRateLimiter *middleware.RateLimiter

	AuthHandler     *api.AuthHandler
	ProductHandler  *api.ProductHandler
	UserHandler     *api.UserHandler
	CheckoutHandler *api.CheckoutHandler
	SalesHandler    *api.SalesHandler
	ReportHandler   *api.ReportHandler
}

// OpsDeps contains dependencies for operational endpoints
type OpsDeps struct {
	// MetricsHandler serves the Prometheus registry
	MetricsHandler http.Handler
}
