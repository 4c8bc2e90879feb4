package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/enigma-dining/reservation-backend/internal/config"
	"github.com/enigma-dining/reservation-backend/internal/model"
	"github.com/enigma-dining/reservation-backend/internal/policy"
	"github.com/enigma-dining/reservation-backend/internal/queue"
	"github.com/enigma-dining/reservation-backend/internal/repository"
	"github.com/enigma-dining/reservation-backend/internal/service"
	"github.com/enigma-dining/reservation-backend/internal/utils"
)

// PublicReservationHandler serves the tokenized self-service surface
// reached from the link in a confirmation email. There is no account:
// the token is the whole identity, so every response is careful to
// collapse missing, rotated and expired tokens into the same 404.
type PublicReservationHandler struct {
	Cfg          config.Config
	Reservations *repository.ReservationRepo
	ManageTokens *repository.ManageTokenRepo
}

func NewPublicReservationHandler(cfg config.Config, res *repository.ReservationRepo, tok *repository.ManageTokenRepo) *PublicReservationHandler {
	if res == nil || tok == nil {
		panic("nil repository passed to NewPublicReservationHandler")
	}
	return &PublicReservationHandler{Cfg: cfg, Reservations: res, ManageTokens: tok}
}

// customerEditReq is the subset of reservation fields a guest may change
// through the link. Table assignment is staff territory.
type customerEditReq struct {
	PartySize       int    `json:"party_size"`
	ChildrenCount   *int   `json:"children_count"`
	Date            string `json:"date"` // YYYY-MM-DD
	Time            string `json:"time"` // HH:MM
	SpecialRequests string `json:"special_requests"`
	DietaryNotes    string `json:"dietary_notes"`
	Occasion        string `json:"occasion"`
	PreferredZone   string `json:"preferred_zone"`
}

// shouldClearTables decides whether a customer edit invalidates the
// current seating plan. Moving the slot or growing the party always
// does; a shrinking party keeps its tables only while the assignment
// still fits the smaller limit.
func shouldClearTables(slotChanged, partyGrew bool, partySize int, assigned []uint64) bool {
	if slotChanged || partyGrew {
		return true
	}
	return len(assigned) > 0 && policy.ValidateAssignment(partySize, assigned) != nil
}

// resolve validates token format and lookup in one step. Format failures
// skip the database entirely.
func (h *PublicReservationHandler) resolve(c echo.Context) (model.ManageToken, error) {
	raw := strings.TrimSpace(c.QueryParam("token"))
	if !utils.ValidManageTokenFormat(raw) {
		return model.ManageToken{}, repository.ErrTokenNotFound
	}
	return h.ManageTokens.Resolve(c.Request().Context(), raw, time.Now().UTC())
}

// Get handles GET /v1/my-reservation?token=. The response includes
// can_modify and can_cancel so the page renders the right buttons
// without re-deriving the cutoff rules.
func (h *PublicReservationHandler) Get(c echo.Context) error {
	tok, err := h.resolve(c)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
	}
	r, err := loadReservation(c.Request().Context(), h.Reservations, tok.ReservationID)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
	}
	now := time.Now().UTC()
	return c.JSON(http.StatusOK, echo.Map{
		"reservation": viewOf(r, now),
		"can_modify":  policy.CanModify(r.Status, r.StartsAt, now),
		"can_cancel":  policy.CanCancel(r.Status, r.StartsAt, now),
	})
}

// Update handles PATCH /v1/my-reservation?token=. An accepted change
// forces the reservation back to PENDING for staff re-confirmation and
// rotates the token; the response carries the replacement so the page
// can update its own link.
func (h *PublicReservationHandler) Update(c echo.Context) error {
	tok, err := h.resolve(c)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
	}
	var req customerEditReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.PartySize <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "party_size must be positive"})
	}
	if req.ChildrenCount != nil && (*req.ChildrenCount < 0 || *req.ChildrenCount >= req.PartySize) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "children_count must be below party_size"})
	}
	startsAt, err := time.Parse("2006-01-02 15:04", req.Date+" "+req.Time)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date and time are required as YYYY-MM-DD and HH:MM"})
	}
	if req.PreferredZone != "" && !model.KnownZone(req.PreferredZone) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown zone"})
	}

	ctx := c.Request().Context()
	tx, err := h.Reservations.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	rec, err := h.Reservations.GetByIDTx(ctx, tx, tok.ReservationID)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
	}
	now := time.Now().UTC()
	next, err := policy.ApplyCustomerEdit(policy.Status(rec.Status), rec.StartsAt, now)
	if err != nil {
		return c.JSON(http.StatusConflict, echo.Map{"error": "reservation can no longer be modified"})
	}

	slotChanged := !rec.StartsAt.Equal(startsAt)
	partyGrew := req.PartySize > rec.PartySize

	rec.PartySize = req.PartySize
	rec.ChildrenCount = req.ChildrenCount
	rec.StartsAt = startsAt
	rec.Status = string(next)
	rec.SpecialRequests = req.SpecialRequests
	rec.DietaryNotes = req.DietaryNotes
	rec.Occasion = req.Occasion
	rec.PreferredZone = req.PreferredZone

	if err := h.Reservations.UpdateTx(ctx, tx, &rec); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "reservation save failed"})
	}
	var assigned []uint64
	if !slotChanged && !partyGrew {
		tablesByRes, err := h.Reservations.TablesFor(ctx, []uint64{rec.ID})
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
		}
		for _, t := range tablesByRes[rec.ID] {
			assigned = append(assigned, t.ID)
		}
	}
	// Staff reassign on re-confirmation.
	if shouldClearTables(slotChanged, partyGrew, req.PartySize, assigned) {
		if err := h.Reservations.ReplaceTablesTx(ctx, tx, rec.ID, nil); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "table assignment failed"})
		}
	}

	fresh, err := utils.NewManageToken()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "token issue failed"})
	}
	newTok, err := h.ManageTokens.IssueTx(ctx, tx, rec.ID, fresh, rec.CustomerEmail, utils.ManageTokenExpiry(startsAt))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "token issue failed"})
	}

	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "commit failed"})
	}
	committed = true

	r, err := loadReservation(ctx, h.Reservations, rec.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"reservation":  viewOf(r, now),
		"manage_token": newTok.Token,
		"can_modify":   policy.CanModify(r.Status, r.StartsAt, now),
		"can_cancel":   policy.CanCancel(r.Status, r.StartsAt, now),
	})
}

// Cancel handles POST /v1/my-reservation/cancel?token=. Cancellation is
// terminal: the token is deactivated along with the reservation, so the
// link stops working immediately.
func (h *PublicReservationHandler) Cancel(c echo.Context) error {
	tok, err := h.resolve(c)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
	}

	ctx := c.Request().Context()
	tx, err := h.Reservations.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	rec, err := h.Reservations.GetByIDTx(ctx, tx, tok.ReservationID)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
	}
	now := time.Now().UTC()
	if !policy.CanCancel(policy.Status(rec.Status), rec.StartsAt, now) {
		return c.JSON(http.StatusConflict, echo.Map{"error": "reservation can no longer be cancelled"})
	}
	if err := h.Reservations.UpdateStatusTx(ctx, tx, rec.ID, policy.StatusCancelled); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "status save failed"})
	}
	if err := h.ManageTokens.DeactivateForReservationTx(ctx, tx, rec.ID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "token update failed"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "commit failed"})
	}
	committed = true

	_ = service.PublishReservationCancelled(ctx, queue.ReservationCancelledEvent{
		ReservationID: rec.ID,
		CustomerName:  rec.CustomerName,
		CustomerEmail: rec.CustomerEmail,
		PartySize:     rec.PartySize,
		StartsAt:      rec.StartsAt.Format(time.RFC3339),
		CancelledBy:   "customer",
		CancelledAt:   now.Format(time.RFC3339),
	})

	return c.JSON(http.StatusOK, echo.Map{"status": string(policy.StatusCancelled)})
}
