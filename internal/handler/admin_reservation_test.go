package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"

	"github.com/enigma-dining/reservation-backend/internal/config"
	"github.com/enigma-dining/reservation-backend/internal/repository"
	"github.com/enigma-dining/reservation-backend/internal/service"
)

var reservationColumns = []string{
	"id", "customer_id", "customer_name", "customer_email", "customer_phone",
	"party_size", "children_count", "starts_at", "status",
	"special_requests", "dietary_notes", "occasion", "preferred_zone",
	"created_at", "updated_at",
}

var tableColumns = []string{"id", "number", "capacity", "location", "is_active", "created_at", "updated_at"}

// An admin edit must keep the linked customer profile in step with the
// contact snapshot written onto the reservation row.
func TestUpdateRelinksCustomerProfile(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	cfg := config.Config{SlotMinutes: 120, PolicyVersion: "2026-01"}
	resRepo := repository.NewReservationRepo(db)
	tabRepo := repository.NewTableRepo(db)
	cusRepo := repository.NewCustomerRepo(db)
	h := NewAdminReservationHandler(cfg, resRepo, tabRepo, cusRepo,
		repository.NewMenuRepo(db), repository.NewManageTokenRepo(db),
		service.NewAvailabilityService(tabRepo, resRepo, cfg.SlotMinutes))

	now := time.Now().UTC()
	startsAt := time.Date(2026, 9, 12, 19, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT (.+) FROM tables WHERE id IN`).
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows(tableColumns).
			AddRow(5, "T5", 4, "main_hall", true, now, now))
	mock.ExpectQuery(`SELECT DISTINCT rt.table_id`).
		WithArgs(startsAt.Add(-119*time.Minute), startsAt.Add(2*time.Hour), 3).
		WillReturnRows(sqlmock.NewRows([]string{"table_id"}))

	mock.ExpectBegin()
	// Stored row carries no customer link: the profile drifted away.
	mock.ExpectQuery(`SELECT (.+) FROM reservations WHERE id = \? FOR UPDATE`).
		WithArgs(3).
		WillReturnRows(sqlmock.NewRows(reservationColumns).
			AddRow(3, nil, "Marta Ruiz", "marta@example.com", "+34600111222",
				4, nil, startsAt, "PENDING", nil, nil, nil, nil, now, now))
	mock.ExpectQuery(`SELECT (.+) FROM customers WHERE email = \?`).
		WithArgs("marta@example.com").
		WillReturnRows(sqlmock.NewRows(customerColumns).
			AddRow(7, "Marta Ruiz", "marta@example.com", "+34600111222", false,
				false, false, false, true, now, "2026-01", now, now))
	mock.ExpectExec(`UPDATE customers SET name=\?, phone=\?`).
		WithArgs("Marta Ruiz", "+34600111222", 7).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE reservations SET customer_id=\?`).
		WithArgs(7, "Marta Ruiz", "marta@example.com", "+34600111222", 4, nil,
			startsAt, "PENDING", nil, nil, nil, nil, 3).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM reservation_tables WHERE reservation_id=\?`).
		WithArgs(3).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO reservation_tables`).
		WithArgs(3, 5, 0).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`DELETE FROM reservation_items WHERE reservation_id=\?`).
		WithArgs(3).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	mock.ExpectQuery(`SELECT (.+) FROM reservations WHERE id = \?`).
		WithArgs(3).
		WillReturnRows(sqlmock.NewRows(reservationColumns).
			AddRow(3, 7, "Marta Ruiz", "marta@example.com", "+34600111222",
				4, nil, startsAt, "PENDING", nil, nil, nil, nil, now, now))
	mock.ExpectQuery(`SELECT rt.reservation_id, t.id`).
		WithArgs(3).
		WillReturnRows(sqlmock.NewRows([]string{"reservation_id", "id", "number", "capacity", "location", "is_active", "created_at", "updated_at"}).
			AddRow(3, 5, "T5", 4, "main_hall", true, now, now))
	mock.ExpectQuery(`SELECT id, reservation_id, menu_item_id`).
		WithArgs(3).
		WillReturnRows(sqlmock.NewRows([]string{"id", "reservation_id", "menu_item_id", "quantity", "notes"}))

	body := `{"customer_name":"Marta Ruiz","customer_email":"marta@example.com","customer_phone":"+34600111222",` +
		`"party_size":4,"date":"2026-09-12","time":"19:00","table_ids":[5]}`
	req := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rw := httptest.NewRecorder()
	c := echo.New().NewContext(req, rw)
	c.SetParamNames("id")
	c.SetParamValues("3")

	if err := h.Update(c); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if rw.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d (body %s)", rw.Code, http.StatusOK, rw.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
