package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/enigma-dining/reservation-backend/internal/model"
	"github.com/enigma-dining/reservation-backend/internal/repository"
)

// AdminTableHandler manages the dining room layout: tables and zones.
type AdminTableHandler struct {
	Tables *repository.TableRepo
}

func NewAdminTableHandler(t *repository.TableRepo) *AdminTableHandler {
	if t == nil {
		panic("nil repository passed to NewAdminTableHandler")
	}
	return &AdminTableHandler{Tables: t}
}

type tableReq struct {
	Number   string `json:"number"`
	Capacity int    `json:"capacity"`
	Location string `json:"location"`
	IsActive *bool  `json:"is_active"`
}

// List handles GET /v1/admin/tables.
func (h *AdminTableHandler) List(c echo.Context) error {
	tables, err := h.Tables.ListAll(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if tables == nil {
		tables = []model.Table{}
	}
	return c.JSON(http.StatusOK, echo.Map{"tables": tables})
}

// Zones handles GET /v1/admin/zones: the zones that exist on active
// tables, with their display labels.
func (h *AdminTableHandler) Zones(c echo.Context) error {
	keys, err := h.Tables.Zones(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	type zoneView struct {
		Key   string `json:"key"`
		Label string `json:"label"`
	}
	zones := make([]zoneView, 0, len(keys))
	for _, k := range keys {
		zones = append(zones, zoneView{Key: k, Label: model.ZoneLabel(k)})
	}
	return c.JSON(http.StatusOK, echo.Map{"zones": zones})
}

// Create handles POST /v1/admin/tables.
func (h *AdminTableHandler) Create(c echo.Context) error {
	var req tableReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Number = strings.TrimSpace(req.Number)
	if req.Number == "" || req.Capacity <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "number and positive capacity required"})
	}
	if !model.KnownZone(req.Location) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown zone"})
	}
	t, err := h.Tables.Create(c.Request().Context(), req.Number, req.Capacity, req.Location)
	if err != nil {
		if errors.Is(err, repository.ErrTableNumberExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "table number already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "table save failed"})
	}
	return c.JSON(http.StatusCreated, t)
}

// Update handles PUT /v1/admin/tables/:id.
func (h *AdminTableHandler) Update(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid table id"})
	}
	var req tableReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Number = strings.TrimSpace(req.Number)
	if req.Number == "" || req.Capacity <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "number and positive capacity required"})
	}
	if !model.KnownZone(req.Location) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown zone"})
	}
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	t := model.Table{ID: id, Number: req.Number, Capacity: req.Capacity, Location: req.Location, IsActive: active}
	if err := h.Tables.Update(c.Request().Context(), t); err != nil {
		switch {
		case errors.Is(err, repository.ErrTableNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "table not found"})
		case errors.Is(err, repository.ErrTableNumberExists):
			return c.JSON(http.StatusConflict, echo.Map{"error": "table number already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "table save failed"})
	}
	return c.JSON(http.StatusOK, t)
}

// Deactivate handles DELETE /v1/admin/tables/:id. Tables are soft
// deleted so past reservations keep their table display.
func (h *AdminTableHandler) Deactivate(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid table id"})
	}
	if err := h.Tables.Deactivate(c.Request().Context(), id); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "table update failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
