package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/enigma-dining/reservation-backend/internal/handler"
	"github.com/enigma-dining/reservation-backend/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication on
// the provided Echo instance. Currently it exposes only a health check,
// used by load balancers and monitoring to verify the service is up.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the staff authentication routes and their
// middleware. Unauthenticated operations live under /v1/auth, while
// protected endpoints live under /v1.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	// Account provisioning is ADMIN-only; the remaining auth endpoints
	// work without a session because they carry their own credentials.
	g.POST("/register", a.Register,
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("ADMIN"))
	g.POST("/login", a.Login)
	// Rotating refresh: exchanges and revokes the presented token.
	g.POST("/refresh", a.Refresh)
	// Non-rotating variant: new access token, same refresh token.
	g.POST("/refresh-access", a.RefreshAccess)
	// Logout accepts either a refresh token in the body or a bearer
	// access token; it does not require the JWT middleware.
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("ADMIN", "MANAGER", "STAFF"),
	)
	auth.GET("/me", a.Me)
}
