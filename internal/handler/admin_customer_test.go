package handler

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"

	"github.com/enigma-dining/reservation-backend/internal/config"
	"github.com/enigma-dining/reservation-backend/internal/repository"
)

var customerColumns = []string{
	"id", "name", "email", "phone", "is_vip",
	"email_consent", "sms_consent", "marketing_consent", "data_processing_consent",
	"consent_updated_at", "gdpr_policy_version", "created_at", "updated_at",
}

func newCustomerHandler(t *testing.T) (*AdminCustomerHandler, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	h := NewAdminCustomerHandler(
		config.Config{PolicyVersion: "2026-01"},
		repository.NewCustomerRepo(db),
		repository.NewReservationRepo(db),
		repository.NewManageTokenRepo(db),
	)
	return h, mock, func() { db.Close() }
}

func customerCtx(e *echo.Echo, method, body, id string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, "/", strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rw := httptest.NewRecorder()
	c := e.NewContext(req, rw)
	c.SetParamNames("id")
	c.SetParamValues(id)
	c.Set("staff_id", float64(2))
	return c, rw
}

func TestEraseScrubsCustomerData(t *testing.T) {
	h, mock, closeDB := newCustomerHandler(t)
	defer closeDB()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE customers SET name='', email=CONCAT`).
		WithArgs(7).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO consent_logs`).
		WithArgs(7, "data_processing", "withdrawn", "staff:2", sqlmock.AnyArg(), sqlmock.AnyArg(), "2026-01").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`UPDATE reservations SET customer_name='', customer_email=''`).
		WithArgs(7).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`UPDATE reservation_tokens rt JOIN reservations res`).
		WithArgs(7).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	c, rw := customerCtx(echo.New(), http.MethodDelete, "", "7")
	if err := h.Erase(c); err != nil {
		t.Fatalf("Erase: %v", err)
	}
	if rw.Code != http.StatusNoContent {
		t.Errorf("status = %d, want %d", rw.Code, http.StatusNoContent)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestEraseUnknownCustomer(t *testing.T) {
	h, mock, closeDB := newCustomerHandler(t)
	defer closeDB()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE customers SET name='', email=CONCAT`).
		WithArgs(99).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT 1 FROM customers WHERE id=\?`).
		WithArgs(99).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	c, rw := customerCtx(echo.New(), http.MethodDelete, "", "99")
	if err := h.Erase(c); err != nil {
		t.Fatalf("Erase: %v", err)
	}
	if rw.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rw.Code, http.StatusNotFound)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestSetVIPFlipsFlag(t *testing.T) {
	h, mock, closeDB := newCustomerHandler(t)
	defer closeDB()
	now := time.Now().UTC()

	mock.ExpectExec(`UPDATE customers SET is_vip=\?`).
		WithArgs(true, 7).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT (.+) FROM customers WHERE id = \?`).
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows(customerColumns).
			AddRow(7, "Iker Ortega", "iker@example.com", "+34600333444", true,
				false, false, false, true, now, "2026-01", now, now))

	c, rw := customerCtx(echo.New(), http.MethodPut, `{"is_vip":true}`, "7")
	if err := h.SetVIP(c); err != nil {
		t.Fatalf("SetVIP: %v", err)
	}
	if rw.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rw.Code, http.StatusOK)
	}
	var resp struct {
		IsVIP bool `json:"is_vip"`
	}
	if err := json.Unmarshal(rw.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.IsVIP {
		t.Error("is_vip = false, want true")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
