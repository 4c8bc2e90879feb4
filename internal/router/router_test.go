package router

import (
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/enigma-dining/reservation-backend/internal/config"
	"github.com/enigma-dining/reservation-backend/internal/handler"
	"github.com/enigma-dining/reservation-backend/internal/repository"
	"github.com/enigma-dining/reservation-backend/internal/service"
)

func TestRegisterAdminRoutes(t *testing.T) {
	e := echo.New()
	cfg := config.Config{}
	res := repository.NewReservationRepo(nil)
	tab := repository.NewTableRepo(nil)
	cus := repository.NewCustomerRepo(nil)

	RegisterAdmin(e,
		handler.NewAdminReservationHandler(cfg, res, tab, cus,
			repository.NewMenuRepo(nil), repository.NewManageTokenRepo(nil),
			service.NewAvailabilityService(tab, res, 0)),
		handler.NewAdminTableHandler(tab),
		handler.NewAdminCustomerHandler(cfg, cus, res, repository.NewManageTokenRepo(nil)),
		"secret")

	registered := make(map[string]bool)
	for _, r := range e.Routes() {
		registered[r.Method+" "+r.Path] = true
	}

	want := []string{
		"GET /v1/admin/reservations",
		"POST /v1/admin/reservations",
		"GET /v1/admin/reservations/:id",
		"PUT /v1/admin/reservations/:id",
		"POST /v1/admin/reservations/:id/status",
		"GET /v1/admin/reservations/:id/selectable-tables",
		"GET /v1/admin/menu-items",
		"GET /v1/admin/tables",
		"GET /v1/admin/zones",
		"POST /v1/admin/tables",
		"PUT /v1/admin/tables/:id",
		"DELETE /v1/admin/tables/:id",
		"GET /v1/admin/customers",
		"GET /v1/admin/customers/:id",
		"GET /v1/admin/customers/:id/consents",
		"PUT /v1/admin/customers/:id/consents",
		"GET /v1/admin/customers/:id/export",
		"PUT /v1/admin/customers/:id/vip",
		"DELETE /v1/admin/customers/:id",
	}
	for _, route := range want {
		if !registered[route] {
			t.Errorf("route %q not registered", route)
		}
	}
}
