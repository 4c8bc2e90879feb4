package router

import (
	"github.com/labstack/echo/v4"

	"github.com/enigma-dining/reservation-backend/internal/handler"
	"github.com/enigma-dining/reservation-backend/internal/middleware"
)

// RegisterAdmin registers the dashboard endpoints under /v1/admin. All
// routes require a valid JWT; reservation and customer screens are open
// to every staff role, while layout changes need MANAGER or above.
func RegisterAdmin(e *echo.Echo, res *handler.AdminReservationHandler, tab *handler.AdminTableHandler, cus *handler.AdminCustomerHandler, jwtSecret string) {
	g := e.Group(
		"/v1/admin",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("ADMIN", "MANAGER", "STAFF"),
	)

	// ---- Reservations ----
	g.GET("/reservations", res.List)
	g.POST("/reservations", res.Create)
	g.GET("/reservations/:id", res.Get)
	g.PUT("/reservations/:id", res.Update)
	g.POST("/reservations/:id/status", res.UpdateStatus)
	g.GET("/reservations/:id/selectable-tables", res.SelectableTables)
	g.GET("/menu-items", res.MenuItems)

	// ---- Tables and zones ----
	g.GET("/tables", tab.List)
	g.GET("/zones", tab.Zones)

	// Layout changes are MANAGER territory.
	mg := e.Group(
		"/v1/admin",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("ADMIN", "MANAGER"),
	)
	mg.POST("/tables", tab.Create)
	mg.PUT("/tables/:id", tab.Update)
	mg.DELETE("/tables/:id", tab.Deactivate)

	// ---- Customers ----
	g.GET("/customers", cus.List)
	g.GET("/customers/:id", cus.Get)
	g.GET("/customers/:id/consents", cus.ConsentLogs)
	g.PUT("/customers/:id/consents", cus.UpdateConsents)
	g.GET("/customers/:id/export", cus.Export)
	g.PUT("/customers/:id/vip", cus.SetVIP)

	// GDPR erasure is destructive, so it sits with the MANAGER routes.
	mg.DELETE("/customers/:id", cus.Erase)
}
