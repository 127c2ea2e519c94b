package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/iliyamo/restaurant-table-reservation/internal/handler"    // import the handlers that implement business logic
	"github.com/iliyamo/restaurant-table-reservation/internal/middleware" // import middleware for JWT authentication and role enforcement
)

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	// Map the GET request at path "/healthz" to the Health handler.  This
	// endpoint can be used by load balancers or monitoring systems to verify
	// that the service is up and running.
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers all authentication‑related routes and applies the
// necessary middleware.  Unauthenticated operations live under /v1/auth,
// while protected endpoints live under /v1.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	// Routes under /v1/auth do not require an existing session (register,
	// login, refresh).  Each handler generates or exchanges tokens.
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	// Refresh rotates the refresh token; refresh-access only issues a new
	// access token and keeps the refresh token as is.
	g.POST("/refresh", a.Refresh)
	g.POST("/refresh-access", a.RefreshAccess)
	// Logout accepts either a refresh token in the body (single session) or
	// a bearer access token (all sessions), so it lives outside JWT middleware.
	g.POST("/logout", a.Logout)
	e.POST("/v1/logout", a.Logout)

	// Protected routes require a valid access token and a known staff role.
	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.Use(middleware.RequireRole("HOST", "MANAGER"))
	auth.GET("/me", a.Me)
}

// RegisterReservations registers the reservation lifecycle and read routes.
// Every route requires a valid staff token with a HOST or MANAGER role.
func RegisterReservations(e *echo.Echo, h *handler.ReservationHandler, jwtSecret string, mw ...echo.MiddlewareFunc) {
	g := e.Group("/v1")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole("HOST", "MANAGER"))
	// Extra middleware (rate limiting, response caching) supplied by the
	// caller applies to the whole group.
	for _, m := range mw {
		g.Use(m)
	}

	// Lifecycle actions.  All are POSTs on the reservation resource; the
	// request body carries action-specific flags.
	g.POST("/reservations/:id/confirm", h.Confirm)
	g.POST("/reservations/:id/seat", h.Seat)
	g.POST("/reservations/:id/unseat", h.Unseat)
	g.POST("/reservations/:id/complete", h.Complete)
	g.POST("/reservations/:id/cancel", h.Cancel)
	g.POST("/reservations/:id/no-show", h.MarkNoShow)

	// Reads.
	g.GET("/reservations/:id", h.Get)
	g.GET("/restaurants/:id/reservations", h.ListByDate)
	g.GET("/restaurants/:id/tables", h.ListTables)
}
