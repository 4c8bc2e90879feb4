package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strconv"
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

// AdminReservationHandler groups the repositories the dashboard needs to
// list, create and edit reservations. All methods assume JWT and role
// middleware already ran. Writes happen inside transactions so a failed
// save leaves the stored reservation untouched and the editor keeps its
// state.
type AdminReservationHandler struct {
	Cfg          config.Config
	Reservations *repository.ReservationRepo
	Tables       *repository.TableRepo
	Customers    *repository.CustomerRepo
	Menu         *repository.MenuRepo
	ManageTokens *repository.ManageTokenRepo
	Availability *service.AvailabilityService
}

func NewAdminReservationHandler(cfg config.Config, res *repository.ReservationRepo, tab *repository.TableRepo, cus *repository.CustomerRepo, menu *repository.MenuRepo, tok *repository.ManageTokenRepo, avail *service.AvailabilityService) *AdminReservationHandler {
	if res == nil || tab == nil || cus == nil || menu == nil || tok == nil || avail == nil {
		panic("nil dependency passed to NewAdminReservationHandler")
	}
	return &AdminReservationHandler{
		Cfg: cfg, Reservations: res, Tables: tab, Customers: cus,
		Menu: menu, ManageTokens: tok, Availability: avail,
	}
}

// ----- DTOs -----

type reservationItemReq struct {
	MenuItemID uint64 `json:"menu_item_id"`
	Quantity   int    `json:"quantity"`
	Notes      string `json:"notes"`
}

type reservationReq struct {
	CustomerName          string               `json:"customer_name"`
	CustomerEmail         string               `json:"customer_email"`
	CustomerPhone         string               `json:"customer_phone"`
	PartySize             int                  `json:"party_size"`
	ChildrenCount         *int                 `json:"children_count"`
	Date                  string               `json:"date"` // YYYY-MM-DD
	Time                  string               `json:"time"` // HH:MM
	TableIDs              []uint64             `json:"table_ids"`
	SpecialRequests       string               `json:"special_requests"`
	DietaryNotes          string               `json:"dietary_notes"`
	Occasion              string               `json:"occasion"`
	PreferredZone         string               `json:"preferred_zone"`
	Items                 []reservationItemReq `json:"items"`
	DataProcessingConsent bool                 `json:"data_processing_consent"`
}

type statusReq struct {
	Status string `json:"status"`
}

// validate normalises the request and reports the first problem as a
// user-presentable message. Table-count enforcement happens separately
// because create and edit treat an empty selection differently.
func (r *reservationReq) validate() (time.Time, string) {
	r.CustomerName = strings.TrimSpace(r.CustomerName)
	r.CustomerEmail = strings.ToLower(strings.TrimSpace(r.CustomerEmail))
	r.CustomerPhone = strings.TrimSpace(r.CustomerPhone)
	if r.CustomerName == "" || r.CustomerPhone == "" {
		return time.Time{}, "customer name and phone are required"
	}
	if r.CustomerEmail == "" {
		return time.Time{}, "customer email is required"
	}
	if r.PartySize <= 0 {
		return time.Time{}, "party_size must be positive"
	}
	if r.ChildrenCount != nil && (*r.ChildrenCount < 0 || *r.ChildrenCount >= r.PartySize) {
		return time.Time{}, "children_count must be below party_size"
	}
	startsAt, err := time.Parse("2006-01-02 15:04", r.Date+" "+r.Time)
	if err != nil {
		return time.Time{}, "date and time are required as YYYY-MM-DD and HH:MM"
	}
	if r.PreferredZone != "" && !model.KnownZone(r.PreferredZone) {
		return time.Time{}, "unknown zone"
	}
	for _, it := range r.Items {
		if it.MenuItemID == 0 || it.Quantity <= 0 {
			return time.Time{}, "pre-order items need a menu_item_id and positive quantity"
		}
	}
	return startsAt, ""
}

// checkTables validates the selection against the party-size limit and
// slot conflicts. Returns a client message, or "" when the assignment is
// acceptable.
func (h *AdminReservationHandler) checkTables(ctx context.Context, tableIDs []uint64, partySize int, startsAt time.Time, excludeReservation uint64) string {
	if err := policy.ValidateAssignment(partySize, tableIDs); err != nil {
		return err.Error()
	}
	if len(tableIDs) == 0 {
		return ""
	}
	found, err := h.Tables.GetByIDs(ctx, tableIDs)
	if err != nil {
		return "table lookup failed"
	}
	active := make(map[uint64]bool, len(found))
	for _, t := range found {
		active[t.ID] = t.IsActive
	}
	for _, id := range tableIDs {
		if !active[id] {
			return "table " + strconv.FormatUint(id, 10) + " does not exist or is inactive"
		}
	}
	slot := time.Duration(h.Cfg.SlotMinutes) * time.Minute
	if slot <= 0 {
		slot = 2 * time.Hour
	}
	booked, err := h.Reservations.BookedTableIDs(ctx, startsAt.Add(-slot+time.Minute), startsAt.Add(slot), excludeReservation)
	if err != nil {
		return "availability check failed"
	}
	for _, id := range tableIDs {
		if _, held := booked[id]; held {
			return "table " + strconv.FormatUint(id, 10) + " is already booked for this slot"
		}
	}
	return ""
}

// resolveItems turns the request lines into persistable rows, dropping
// nothing: any stale or unknown menu item fails the whole request so a
// guest is never silently served a partial pre-order.
func (h *AdminReservationHandler) resolveItems(ctx context.Context, reqItems []reservationItemReq) ([]model.ReservationItem, string) {
	if len(reqItems) == 0 {
		return nil, ""
	}
	ids := make([]uint64, 0, len(reqItems))
	for _, it := range reqItems {
		ids = append(ids, it.MenuItemID)
	}
	available, err := h.Menu.AvailableByIDs(ctx, ids)
	if err != nil {
		return nil, "menu lookup failed"
	}
	out := make([]model.ReservationItem, 0, len(reqItems))
	for _, it := range reqItems {
		if _, ok := available[it.MenuItemID]; !ok {
			return nil, "menu item " + strconv.FormatUint(it.MenuItemID, 10) + " is not available"
		}
		out = append(out, model.ReservationItem{MenuItemID: it.MenuItemID, Quantity: it.Quantity, Notes: strings.TrimSpace(it.Notes)})
	}
	return out, ""
}

// List handles GET /v1/admin/reservations?from&to&status. Results come
// back grouped into PAST / TODAY / TOMORROW / UPCOMING with per-item
// urgency tags; PAST newest-first, the rest soonest-first.
func (h *AdminReservationHandler) List(c echo.Context) error {
	now := time.Now().UTC()
	from := now.AddDate(0, 0, -30)
	to := now.AddDate(0, 0, 60)
	if raw := c.QueryParam("from"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid from date"})
		}
		from = t
	}
	if raw := c.QueryParam("to"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid to date"})
		}
		to = t.AddDate(0, 0, 1) // inclusive end date
	}
	status := strings.ToUpper(strings.TrimSpace(c.QueryParam("status")))
	if status != "" {
		if _, err := policy.ParseStatus(status); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown status"})
		}
	}

	ctx := c.Request().Context()
	recs, err := h.Reservations.ListRange(ctx, from, to, status)
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

	// Pre-orders are not shown in list view, so items stay unloaded here.
	reservations := make([]*model.Reservation, len(recs))
	for i, rec := range recs {
		reservations[i] = toReservation(rec, tablesByRes[rec.ID], nil)
	}
	grouped := policy.GroupByBucket(reservations, now)

	resp := echo.Map{"total": len(reservations)}
	for _, bucket := range policy.BucketOrder {
		views := make([]reservationView, 0, len(grouped[bucket]))
		for _, r := range grouped[bucket] {
			views = append(views, viewOf(r, now))
		}
		resp[strings.ToLower(string(bucket))] = views
	}
	return c.JSON(http.StatusOK, resp)
}

// MenuItems handles GET /v1/admin/menu-items: the pre-order picker for
// the reservation form.  Only items currently offered come back.
func (h *AdminReservationHandler) MenuItems(c echo.Context) error {
	items, err := h.Menu.ListAvailable(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if items == nil {
		items = []model.MenuItem{}
	}
	return c.JSON(http.StatusOK, echo.Map{"menu_items": items})
}

// Get handles GET /v1/admin/reservations/:id.
func (h *AdminReservationHandler) Get(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	r, err := loadReservation(c.Request().Context(), h.Reservations, id)
	if err != nil {
		if errors.Is(err, repository.ErrReservationNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, viewOf(r, time.Now().UTC()))
}

// Create handles POST /v1/admin/reservations: the dashboard's quick
// create. The reservation starts PENDING; tables may be assigned right
// away or left for later, but an over-limit selection never reaches the
// database.
func (h *AdminReservationHandler) Create(c echo.Context) error {
	var req reservationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	startsAt, msg := req.validate()
	if msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	ctx := c.Request().Context()
	if msg := h.checkTables(ctx, req.TableIDs, req.PartySize, startsAt, 0); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	items, msg := h.resolveItems(ctx, req.Items)
	if msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

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

	customer, err := h.Customers.UpsertByEmailTx(ctx, tx, req.CustomerName, req.CustomerEmail, req.CustomerPhone, req.DataProcessingConsent, h.Cfg.PolicyVersion)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "customer save failed"})
	}

	rec := repository.ReservationRecord{
		CustomerID:      &customer.ID,
		CustomerName:    req.CustomerName,
		CustomerEmail:   req.CustomerEmail,
		CustomerPhone:   req.CustomerPhone,
		PartySize:       req.PartySize,
		ChildrenCount:   req.ChildrenCount,
		StartsAt:        startsAt,
		Status:          string(policy.StatusPending),
		SpecialRequests: req.SpecialRequests,
		DietaryNotes:    req.DietaryNotes,
		Occasion:        req.Occasion,
		PreferredZone:   req.PreferredZone,
	}
	if err := h.Reservations.CreateTx(ctx, tx, &rec); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "reservation save failed"})
	}
	if err := h.Reservations.ReplaceTablesTx(ctx, tx, rec.ID, req.TableIDs); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "table assignment failed"})
	}
	if err := h.Reservations.ReplaceItemsTx(ctx, tx, rec.ID, items); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "pre-order save failed"})
	}

	manage, err := h.issueToken(ctx, tx, rec.ID, req.CustomerEmail, startsAt)
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
	return c.JSON(http.StatusCreated, echo.Map{
		"reservation":  viewOf(r, time.Now().UTC()),
		"manage_token": manage.Token,
		"manage_url":   h.manageURL(manage.Token),
	})
}

// Update handles PUT /v1/admin/reservations/:id: the dashboard's full
// edit. Unlike quick create, an edited reservation must keep at least
// one table, so zero-table and over-limit selections are rejected before
// any write.
func (h *AdminReservationHandler) Update(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	var req reservationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	startsAt, msg := req.validate()
	if msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	if len(req.TableIDs) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "select at least one table"})
	}

	ctx := c.Request().Context()
	if msg := h.checkTables(ctx, req.TableIDs, req.PartySize, startsAt, id); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	items, msg := h.resolveItems(ctx, req.Items)
	if msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

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

	rec, err := h.Reservations.GetByIDTx(ctx, tx, id)
	if err != nil {
		if errors.Is(err, repository.ErrReservationNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if policy.Status(rec.Status).IsTerminal() {
		return c.JSON(http.StatusConflict, echo.Map{"error": "reservation is closed"})
	}

	tokenNeedsReissue := !rec.StartsAt.Equal(startsAt) || rec.CustomerEmail != req.CustomerEmail

	// The linked profile follows the edit the same way quick create
	// builds it, so the snapshot and the profile stay in step.
	customer, err := h.Customers.UpsertByEmailTx(ctx, tx, req.CustomerName, req.CustomerEmail, req.CustomerPhone, req.DataProcessingConsent, h.Cfg.PolicyVersion)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "customer save failed"})
	}

	rec.CustomerID = &customer.ID
	rec.CustomerName = req.CustomerName
	rec.CustomerEmail = req.CustomerEmail
	rec.CustomerPhone = req.CustomerPhone
	rec.PartySize = req.PartySize
	rec.ChildrenCount = req.ChildrenCount
	rec.StartsAt = startsAt
	rec.SpecialRequests = req.SpecialRequests
	rec.DietaryNotes = req.DietaryNotes
	rec.Occasion = req.Occasion
	rec.PreferredZone = req.PreferredZone

	if err := h.Reservations.UpdateTx(ctx, tx, &rec); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "reservation save failed"})
	}
	if err := h.Reservations.ReplaceTablesTx(ctx, tx, id, req.TableIDs); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "table assignment failed"})
	}
	if err := h.Reservations.ReplaceItemsTx(ctx, tx, id, items); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "pre-order save failed"})
	}
	if tokenNeedsReissue {
		if _, err := h.issueToken(ctx, tx, id, req.CustomerEmail, startsAt); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "token issue failed"})
		}
	}

	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "commit failed"})
	}
	committed = true

	r, err := loadReservation(ctx, h.Reservations, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, viewOf(r, time.Now().UTC()))
}

// UpdateStatus handles POST /v1/admin/reservations/:id/status. The
// requested transition is validated against the lifecycle under a row
// lock; illegal transitions return 409 with the offered alternatives.
func (h *AdminReservationHandler) UpdateStatus(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	var req statusReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	target, err := policy.ParseStatus(req.Status)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown status"})
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

	rec, err := h.Reservations.GetByIDTx(ctx, tx, id)
	if err != nil {
		if errors.Is(err, repository.ErrReservationNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	next, err := policy.ApplyStaff(policy.Status(rec.Status), target)
	if err != nil {
		return c.JSON(http.StatusConflict, echo.Map{
			"error":         err.Error(),
			"next_statuses": policy.NextStatuses(policy.Status(rec.Status)),
		})
	}
	if err := h.Reservations.UpdateStatusTx(ctx, tx, id, next); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "status save failed"})
	}
	if next == policy.StatusCancelled {
		if err := h.ManageTokens.DeactivateForReservationTx(ctx, tx, id); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "token update failed"})
		}
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "commit failed"})
	}
	committed = true

	r, err := loadReservation(ctx, h.Reservations, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	now := time.Now().UTC()

	// Confirmation and cancellation fan out to the broker; a publish
	// failure never fails the request.
	switch next {
	case policy.StatusConfirmed:
		manageURL := ""
		if tok, err := h.ManageTokens.ActiveFor(ctx, r.ID); err == nil {
			manageURL = h.manageURL(tok.Token)
		}
		_ = service.PublishReservationConfirmed(ctx, queue.ReservationConfirmedEvent{
			ReservationID: r.ID,
			CustomerName:  r.CustomerName,
			CustomerEmail: r.CustomerEmail,
			CustomerPhone: r.CustomerPhone,
			PartySize:     r.PartySize,
			StartsAt:      r.StartsAt.Format(time.RFC3339),
			Zone:          r.PreferredZone,
			TableNumbers:  r.TableNumbers(),
			ManageURL:     manageURL,
			ConfirmedAt:   now.Format(time.RFC3339),
		})
	case policy.StatusCancelled:
		_ = service.PublishReservationCancelled(ctx, queue.ReservationCancelledEvent{
			ReservationID: r.ID,
			CustomerName:  r.CustomerName,
			CustomerEmail: r.CustomerEmail,
			PartySize:     r.PartySize,
			StartsAt:      r.StartsAt.Format(time.RFC3339),
			CancelledBy:   "staff",
			CancelledAt:   now.Format(time.RFC3339),
		})
	}

	return c.JSON(http.StatusOK, viewOf(r, now))
}

// SelectableTables handles GET /v1/admin/reservations/:id/selectable-tables[?zone=]:
// the table picker for an edit session. Free tables for the slot are
// merged with the reservation's own assignment so current tables never
// vanish from the list.
func (h *AdminReservationHandler) SelectableTables(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	ctx := c.Request().Context()
	rec, err := h.Reservations.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrReservationNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	zone := strings.TrimSpace(c.QueryParam("zone"))
	tables, err := h.Availability.SelectableOptions(ctx, rec.StartsAt, zone, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "availability query failed"})
	}
	if tables == nil {
		tables = []policy.SelectableTable{}
	}
	return c.JSON(http.StatusOK, echo.Map{
		"tables":     tables,
		"max_tables": policy.MaxTablesForPartySize(rec.PartySize),
	})
}

// issueToken rotates the reservation's self-service token inside the
// caller's transaction.
func (h *AdminReservationHandler) issueToken(ctx context.Context, tx *sql.Tx, reservationID uint64, email string, startsAt time.Time) (model.ManageToken, error) {
	raw, err := utils.NewManageToken()
	if err != nil {
		return model.ManageToken{}, err
	}
	return h.ManageTokens.IssueTx(ctx, tx, reservationID, raw, email, utils.ManageTokenExpiry(startsAt))
}

func (h *AdminReservationHandler) manageURL(token string) string {
	if h.Cfg.PublicBaseURL == "" {
		return ""
	}
	return strings.TrimRight(h.Cfg.PublicBaseURL, "/") + "/my-reservation?token=" + token
}
