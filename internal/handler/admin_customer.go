package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/enigma-dining/reservation-backend/internal/config"
	"github.com/enigma-dining/reservation-backend/internal/model"
	"github.com/enigma-dining/reservation-backend/internal/repository"
)

// AdminCustomerHandler serves the customer-data screens: profile list,
// detail with contact deep-links, consent management and the GDPR
// export.
type AdminCustomerHandler struct {
	Cfg          config.Config
	Customers    *repository.CustomerRepo
	Reservations *repository.ReservationRepo
	ManageTokens *repository.ManageTokenRepo
}

func NewAdminCustomerHandler(cfg config.Config, cus *repository.CustomerRepo, res *repository.ReservationRepo, tok *repository.ManageTokenRepo) *AdminCustomerHandler {
	if cus == nil || res == nil || tok == nil {
		panic("nil repository passed to NewAdminCustomerHandler")
	}
	return &AdminCustomerHandler{Cfg: cfg, Customers: cus, Reservations: res, ManageTokens: tok}
}

// staffActor labels the acting staff member for the consent audit trail.
func staffActor(c echo.Context) string {
	if sid, err := getStaffID(c.Get("staff_id")); err == nil {
		return "staff:" + strconv.FormatUint(sid, 10)
	}
	return "staff"
}

type customerView struct {
	model.Customer
	WhatsAppLink string `json:"whatsapp_link,omitempty"`
}

func customerViewOf(c model.Customer) customerView {
	return customerView{Customer: c, WhatsAppLink: c.WhatsAppLink()}
}

// List handles GET /v1/admin/customers[?search=&limit=].
func (h *AdminCustomerHandler) List(c echo.Context) error {
	search := strings.TrimSpace(c.QueryParam("search"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	customers, err := h.Customers.List(c.Request().Context(), search, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	views := make([]customerView, 0, len(customers))
	for _, cu := range customers {
		views = append(views, customerViewOf(cu))
	}
	return c.JSON(http.StatusOK, echo.Map{"customers": views})
}

// Get handles GET /v1/admin/customers/:id.
func (h *AdminCustomerHandler) Get(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid customer id"})
	}
	cu, err := h.Customers.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrCustomerNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "customer not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, customerViewOf(cu))
}

type consentsReq struct {
	EmailConsent          *bool `json:"email_consent"`
	SMSConsent            *bool `json:"sms_consent"`
	MarketingConsent      *bool `json:"marketing_consent"`
	DataProcessingConsent *bool `json:"data_processing_consent"`
}

// UpdateConsents handles PUT /v1/admin/customers/:id/consents. Only the
// flags present in the body change; every flip lands in the consent log
// with the acting staff member and request origin.
func (h *AdminCustomerHandler) UpdateConsents(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid customer id"})
	}
	var req consentsReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	var changes []repository.ConsentChange
	if req.EmailConsent != nil {
		changes = append(changes, repository.ConsentChange{Type: model.ConsentTypeEmail, Granted: *req.EmailConsent})
	}
	if req.SMSConsent != nil {
		changes = append(changes, repository.ConsentChange{Type: model.ConsentTypeSMS, Granted: *req.SMSConsent})
	}
	if req.MarketingConsent != nil {
		changes = append(changes, repository.ConsentChange{Type: model.ConsentTypeMarketing, Granted: *req.MarketingConsent})
	}
	if req.DataProcessingConsent != nil {
		changes = append(changes, repository.ConsentChange{Type: model.ConsentTypeDataProcessing, Granted: *req.DataProcessingConsent})
	}
	if len(changes) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "no consent flags in body"})
	}

	origin := repository.ConsentOrigin{
		RecordedBy: staffActor(c),
		IPAddress:  c.RealIP(),
		UserAgent:  c.Request().UserAgent(),
	}

	err = h.Customers.UpdateConsents(c.Request().Context(), id, changes, h.Cfg.PolicyVersion, origin)
	if err != nil {
		if errors.Is(err, repository.ErrCustomerNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "customer not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "consent save failed"})
	}

	cu, err := h.Customers.GetByID(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, customerViewOf(cu))
}

type vipReq struct {
	IsVIP bool `json:"is_vip"`
}

// SetVIP handles PUT /v1/admin/customers/:id/vip: the VIP toggle on the
// customer detail screen.
func (h *AdminCustomerHandler) SetVIP(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid customer id"})
	}
	var req vipReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := h.Customers.SetVIP(c.Request().Context(), id, req.IsVIP); err != nil {
		if errors.Is(err, repository.ErrCustomerNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "customer not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	cu, err := h.Customers.GetByID(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, customerViewOf(cu))
}

// Erase handles DELETE /v1/admin/customers/:id: a GDPR erasure request.
// The profile and every reservation contact snapshot are blanked in
// place and the customer's self-service links die with them; reservation
// rows stay for seating statistics and the consent log records the
// erasure itself.
func (h *AdminCustomerHandler) Erase(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid customer id"})
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

	origin := repository.ConsentOrigin{
		RecordedBy: staffActor(c),
		IPAddress:  c.RealIP(),
		UserAgent:  c.Request().UserAgent(),
	}
	if err := h.Customers.EraseTx(ctx, tx, id, h.Cfg.PolicyVersion, origin); err != nil {
		if errors.Is(err, repository.ErrCustomerNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "customer not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "erasure failed"})
	}
	if err := h.Reservations.AnonymizeCustomerDataTx(ctx, tx, id); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "erasure failed"})
	}
	if err := h.ManageTokens.DeactivateForCustomerTx(ctx, tx, id); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "token update failed"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "commit failed"})
	}
	committed = true

	return c.NoContent(http.StatusNoContent)
}

// ConsentLogs handles GET /v1/admin/customers/:id/consents: the audit
// trail, newest first.
func (h *AdminCustomerHandler) ConsentLogs(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid customer id"})
	}
	logs, err := h.Customers.ConsentLogs(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if logs == nil {
		logs = []model.ConsentLog{}
	}
	return c.JSON(http.StatusOK, echo.Map{"consent_logs": logs})
}

// Export handles GET /v1/admin/customers/:id/export: everything held on
// the customer as one JSON document, for GDPR access requests.
func (h *AdminCustomerHandler) Export(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid customer id"})
	}
	ctx := c.Request().Context()

	cu, err := h.Customers.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrCustomerNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "customer not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	recs, err := h.Reservations.ListByCustomer(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	ids := make([]uint64, len(recs))
	for i, r := range recs {
		ids[i] = r.ID
	}
	tablesByRes, err := h.Reservations.TablesFor(ctx, ids)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	reservations := make([]*model.Reservation, len(recs))
	for i, rec := range recs {
		reservations[i] = toReservation(rec, tablesByRes[rec.ID], nil)
	}
	logs, err := h.Customers.ConsentLogs(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"exported_at":    time.Now().UTC().Format(time.RFC3339),
		"policy_version": h.Cfg.PolicyVersion,
		"customer":       customerViewOf(cu),
		"reservations":   reservations,
		"consent_logs":   logs,
	})
}
