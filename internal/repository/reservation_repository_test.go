package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
)

func TestUpdateTxWritesCustomerLink(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	custID := uint64(7)
	startsAt := time.Date(2026, 9, 12, 19, 0, 0, 0, time.UTC)
	rec := ReservationRecord{
		ID:            3,
		CustomerID:    &custID,
		CustomerName:  "Marta Ruiz",
		CustomerEmail: "marta@example.com",
		CustomerPhone: "+34600111222",
		PartySize:     4,
		StartsAt:      startsAt,
		Status:        "PENDING",
	}

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE reservations SET customer_id=\?, customer_name=\?`).
		WithArgs(custID, rec.CustomerName, rec.CustomerEmail, rec.CustomerPhone, rec.PartySize, nil,
			startsAt, rec.Status, nil, nil, nil, nil, rec.ID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	tx, err := db.Begin()
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	if err := NewReservationRepo(db).UpdateTx(context.Background(), tx, &rec); err != nil {
		t.Fatalf("UpdateTx: %v", err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
