package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/enigma-dining/reservation-backend/internal/policy"
	"github.com/enigma-dining/reservation-backend/internal/service"
)

// AvailabilityHandler serves the public table-availability query backing
// both the booking widget and the dashboard's table picker.
type AvailabilityHandler struct {
	Availability *service.AvailabilityService
}

func NewAvailabilityHandler(s *service.AvailabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{Availability: s}
}

type availabilityResp struct {
	Tables     []policy.SelectableTable `json:"tables"`
	Incomplete bool                     `json:"incomplete,omitempty"`
}

// Get handles GET /v1/availability?date&time&party_size[&zone][&reservation_id].
// An incomplete or malformed query is not an error: the widget polls
// while the guest is still filling the form, so it gets an empty list
// with incomplete=true and keeps whatever it was showing.
func (h *AvailabilityHandler) Get(c echo.Context) error {
	date := strings.TrimSpace(c.QueryParam("date"))
	timeOfDay := strings.TrimSpace(c.QueryParam("time"))
	partySize, _ := strconv.Atoi(c.QueryParam("party_size"))
	zone := strings.TrimSpace(c.QueryParam("zone"))

	if !policy.ValidAvailabilityQuery(date, timeOfDay, partySize) {
		return c.JSON(http.StatusOK, availabilityResp{Tables: []policy.SelectableTable{}, Incomplete: true})
	}

	startsAt, err := h.Availability.SlotStart(date, timeOfDay)
	if err != nil {
		return c.JSON(http.StatusOK, availabilityResp{Tables: []policy.SelectableTable{}, Incomplete: true})
	}

	// reservation_id lets an edit session see its own tables as free.
	var reservationID uint64
	if raw := c.QueryParam("reservation_id"); raw != "" {
		reservationID, _ = strconv.ParseUint(raw, 10, 64)
	}

	tables, err := h.Availability.SelectableOptions(c.Request().Context(), startsAt, zone, reservationID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "availability query failed"})
	}
	if tables == nil {
		tables = []policy.SelectableTable{}
	}
	return c.JSON(http.StatusOK, availabilityResp{Tables: tables})
}
