package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/enigma-dining/reservation-backend/internal/model"
)

// ManageTokenRepo stores the self-service tokens mailed to customers.  A
// reservation holds at most one active token; issuing a new one
// deactivates the previous token in the same transaction.
type ManageTokenRepo struct {
	db *sql.DB
}

// NewManageTokenRepo returns a new ManageTokenRepo bound to the given database.
func NewManageTokenRepo(db *sql.DB) *ManageTokenRepo { return &ManageTokenRepo{db: db} }

// IssueTx deactivates any existing token for the reservation and inserts
// a fresh one, within the caller's transaction.  The returned record
// carries the generated ID.
func (r *ManageTokenRepo) IssueTx(ctx context.Context, tx *sql.Tx, reservationID uint64, token, customerEmail string, expiresAt time.Time) (model.ManageToken, error) {
	if _, err := tx.ExecContext(ctx,
		"UPDATE reservation_tokens SET is_active=0 WHERE reservation_id=? AND is_active=1",
		reservationID); err != nil {
		return model.ManageToken{}, err
	}
	res, err := tx.ExecContext(ctx,
		`INSERT INTO reservation_tokens (reservation_id, token, customer_email, expires_at, is_active, purpose)
		 VALUES (?, ?, ?, ?, 1, ?)`,
		reservationID, token, customerEmail, expiresAt.UTC(), model.TokenPurposeManage)
	if err != nil {
		return model.ManageToken{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.ManageToken{}, err
	}
	return model.ManageToken{
		ID: uint64(id), ReservationID: reservationID, Token: token,
		CustomerEmail: customerEmail, ExpiresAt: expiresAt.UTC(),
		IsActive: true, Purpose: model.TokenPurposeManage,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// Resolve looks up an active, unexpired token and returns it.  Missing,
// rotated and expired tokens all come back as ErrTokenNotFound so the
// public surface cannot be probed for which case applies.
func (r *ManageTokenRepo) Resolve(ctx context.Context, token string, now time.Time) (model.ManageToken, error) {
	var (
		t       model.ManageToken
		purpose sql.NullString
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, reservation_id, token, customer_email, expires_at, is_active, purpose, created_at
		 FROM reservation_tokens WHERE token = ? AND is_active = 1`, token).
		Scan(&t.ID, &t.ReservationID, &t.Token, &t.CustomerEmail, &t.ExpiresAt, &t.IsActive, &purpose, &t.CreatedAt)
	if err == sql.ErrNoRows {
		return model.ManageToken{}, ErrTokenNotFound
	}
	if err != nil {
		return model.ManageToken{}, err
	}
	t.Purpose = purpose.String
	if !t.ExpiresAt.After(now.UTC()) {
		return model.ManageToken{}, ErrTokenNotFound
	}
	return t, nil
}

// ActiveFor returns the reservation's current active token, if any.
func (r *ManageTokenRepo) ActiveFor(ctx context.Context, reservationID uint64) (model.ManageToken, error) {
	var (
		t       model.ManageToken
		purpose sql.NullString
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, reservation_id, token, customer_email, expires_at, is_active, purpose, created_at
		 FROM reservation_tokens WHERE reservation_id = ? AND is_active = 1
		 ORDER BY id DESC LIMIT 1`, reservationID).
		Scan(&t.ID, &t.ReservationID, &t.Token, &t.CustomerEmail, &t.ExpiresAt, &t.IsActive, &purpose, &t.CreatedAt)
	if err == sql.ErrNoRows {
		return model.ManageToken{}, ErrTokenNotFound
	}
	if err != nil {
		return model.ManageToken{}, err
	}
	t.Purpose = purpose.String
	return t, nil
}

// DeactivateForReservationTx clears any active token for a reservation,
// used when a reservation is cancelled so the mailed link dies with it.
func (r *ManageTokenRepo) DeactivateForReservationTx(ctx context.Context, tx *sql.Tx, reservationID uint64) error {
	_, err := tx.ExecContext(ctx,
		"UPDATE reservation_tokens SET is_active=0 WHERE reservation_id=? AND is_active=1",
		reservationID)
	return err
}

// DeactivateForCustomerTx kills every active token across a customer's
// reservations and blanks the email stored with them.  Part of the GDPR
// erasure path.
func (r *ManageTokenRepo) DeactivateForCustomerTx(ctx context.Context, tx *sql.Tx, customerID uint64) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE reservation_tokens rt
		 JOIN reservations res ON res.id = rt.reservation_id
		 SET rt.is_active=0, rt.customer_email=''
		 WHERE res.customer_id=?`, customerID)
	return err
}

// PurgeExpired removes tokens that expired more than the given age ago.
// Run periodically; returns how many rows were removed.
func (r *ManageTokenRepo) PurgeExpired(ctx context.Context, olderThan time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM reservation_tokens WHERE expires_at < ?", olderThan.UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
