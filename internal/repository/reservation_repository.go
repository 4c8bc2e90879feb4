package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/enigma-dining/reservation-backend/internal/model"
	"github.com/enigma-dining/reservation-backend/internal/policy"
)

// ReservationRepo provides CRUD operations for reservations, their table
// assignments and their pre-order items.  Table assignments live in the
// reservation_tables join table, pre-orders in reservation_items.  All
// timestamp fields are stored in UTC.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo returns a new ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

// DB exposes the underlying handle so handlers can open transactions that
// span repositories.
func (r *ReservationRepo) DB() *sql.DB { return r.db }

// ReservationRecord mirrors the schema of the reservations table.  It is
// used internally when constructing or scanning rows; business logic
// should use model.Reservation.
type ReservationRecord struct {
	ID              uint64
	CustomerID      *uint64
	CustomerName    string
	CustomerEmail   string
	CustomerPhone   string
	PartySize       int
	ChildrenCount   *int
	StartsAt        time.Time
	Status          string
	SpecialRequests string
	DietaryNotes    string
	Occasion        string
	PreferredZone   string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

const reservationCols = "id, customer_id, customer_name, customer_email, customer_phone, party_size, children_count, starts_at, status, special_requests, dietary_notes, occasion, preferred_zone, created_at, updated_at"

func scanReservation(row interface{ Scan(...any) error }) (ReservationRecord, error) {
	var (
		rec        ReservationRecord
		customerID sql.NullInt64
		children   sql.NullInt64
		special    sql.NullString
		dietary    sql.NullString
		occasion   sql.NullString
		zone       sql.NullString
	)
	err := row.Scan(
		&rec.ID, &customerID, &rec.CustomerName, &rec.CustomerEmail, &rec.CustomerPhone,
		&rec.PartySize, &children, &rec.StartsAt, &rec.Status,
		&special, &dietary, &occasion, &zone, &rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		return rec, err
	}
	if customerID.Valid {
		v := uint64(customerID.Int64)
		rec.CustomerID = &v
	}
	if children.Valid {
		v := int(children.Int64)
		rec.ChildrenCount = &v
	}
	rec.SpecialRequests = special.String
	rec.DietaryNotes = dietary.String
	rec.Occasion = occasion.String
	rec.PreferredZone = zone.String
	return rec, nil
}

// CreateTx inserts a new reservation within the scope of an existing
// transaction and populates the generated ID and timestamps on the
// provided record.  The caller must commit or rollback.  Status should be
// a valid lifecycle value; new reservations start as PENDING.
func (r *ReservationRepo) CreateTx(ctx context.Context, tx *sql.Tx, rec *ReservationRecord) error {
	const q = `INSERT INTO reservations
		(customer_id, customer_name, customer_email, customer_phone, party_size, children_count, starts_at, status, special_requests, dietary_notes, occasion, preferred_zone)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	result, err := tx.ExecContext(ctx, q,
		rec.CustomerID, rec.CustomerName, rec.CustomerEmail, rec.CustomerPhone,
		rec.PartySize, rec.ChildrenCount, rec.StartsAt.UTC(), rec.Status,
		nullStr(rec.SpecialRequests), nullStr(rec.DietaryNotes), nullStr(rec.Occasion), nullStr(rec.PreferredZone))
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	rec.ID = uint64(id)
	// Query back the full row to populate timestamps and defaults
	sel := "SELECT " + reservationCols + " FROM reservations WHERE id = ?"
	got, err := scanReservation(tx.QueryRowContext(ctx, sel, rec.ID))
	if err != nil {
		return err
	}
	*rec = got
	return nil
}

// UpdateTx rewrites the mutable fields of a reservation inside a
// transaction.  The row's updated_at is bumped by the database.
func (r *ReservationRepo) UpdateTx(ctx context.Context, tx *sql.Tx, rec *ReservationRecord) error {
	const q = `UPDATE reservations SET
		customer_id=?, customer_name=?, customer_email=?, customer_phone=?, party_size=?, children_count=?,
		starts_at=?, status=?, special_requests=?, dietary_notes=?, occasion=?, preferred_zone=?
		WHERE id=?`
	res, err := tx.ExecContext(ctx, q,
		rec.CustomerID, rec.CustomerName, rec.CustomerEmail, rec.CustomerPhone, rec.PartySize, rec.ChildrenCount,
		rec.StartsAt.UTC(), rec.Status,
		nullStr(rec.SpecialRequests), nullStr(rec.DietaryNotes), nullStr(rec.Occasion), nullStr(rec.PreferredZone),
		rec.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// either missing, or all columns identical; distinguish via exists
		var one int
		if err := tx.QueryRowContext(ctx, "SELECT 1 FROM reservations WHERE id=?", rec.ID).Scan(&one); err != nil {
			if err == sql.ErrNoRows {
				return ErrReservationNotFound
			}
			return err
		}
	}
	return nil
}

// GetByID loads a single reservation row.
func (r *ReservationRepo) GetByID(ctx context.Context, id uint64) (ReservationRecord, error) {
	q := "SELECT " + reservationCols + " FROM reservations WHERE id = ?"
	rec, err := scanReservation(r.db.QueryRowContext(ctx, q, id))
	if err == sql.ErrNoRows {
		return rec, ErrReservationNotFound
	}
	return rec, err
}

// GetByIDTx is GetByID inside an existing transaction, locking the row so
// concurrent status changes serialize.
func (r *ReservationRepo) GetByIDTx(ctx context.Context, tx *sql.Tx, id uint64) (ReservationRecord, error) {
	q := "SELECT " + reservationCols + " FROM reservations WHERE id = ? FOR UPDATE"
	rec, err := scanReservation(tx.QueryRowContext(ctx, q, id))
	if err == sql.ErrNoRows {
		return rec, ErrReservationNotFound
	}
	return rec, err
}

// ListRange returns reservations whose start instant falls inside
// [from, to), optionally filtered by status.  Results are ordered by
// start instant; display grouping happens in the policy layer.
func (r *ReservationRepo) ListRange(ctx context.Context, from, to time.Time, status string) ([]ReservationRecord, error) {
	q := "SELECT " + reservationCols + " FROM reservations WHERE starts_at >= ? AND starts_at < ?"
	args := []any{from.UTC(), to.UTC()}
	if status != "" {
		q += " AND status = ?"
		args = append(args, status)
	}
	q += " ORDER BY starts_at ASC"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ReservationRecord
	for rows.Next() {
		rec, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// ListByCustomer returns all reservations linked to a customer profile,
// newest first.  Used by the GDPR export.
func (r *ReservationRepo) ListByCustomer(ctx context.Context, customerID uint64) ([]ReservationRecord, error) {
	q := "SELECT " + reservationCols + " FROM reservations WHERE customer_id = ? ORDER BY starts_at DESC"
	rows, err := r.db.QueryContext(ctx, q, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ReservationRecord
	for rows.Next() {
		rec, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// UpdateStatusTx applies a status change inside a transaction.
func (r *ReservationRepo) UpdateStatusTx(ctx context.Context, tx *sql.Tx, id uint64, status policy.Status) error {
	res, err := tx.ExecContext(ctx, "UPDATE reservations SET status=? WHERE id=?", string(status), id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		var one int
		if err := tx.QueryRowContext(ctx, "SELECT 1 FROM reservations WHERE id=?", id).Scan(&one); err == sql.ErrNoRows {
			return ErrReservationNotFound
		}
	}
	return nil
}

// ReplaceTablesTx rewrites a reservation's table assignment inside a
// transaction: the old join rows are removed and the new set inserted in
// selection order.  Passing an empty slice leaves the reservation
// unassigned.
func (r *ReservationRepo) ReplaceTablesTx(ctx context.Context, tx *sql.Tx, reservationID uint64, tableIDs []uint64) error {
	if _, err := tx.ExecContext(ctx, "DELETE FROM reservation_tables WHERE reservation_id=?", reservationID); err != nil {
		return err
	}
	if len(tableIDs) == 0 {
		return nil
	}
	q := "INSERT INTO reservation_tables (reservation_id, table_id, position) VALUES "
	args := make([]any, 0, len(tableIDs)*3)
	for i, tid := range tableIDs {
		if i > 0 {
			q += ","
		}
		q += "(?, ?, ?)"
		args = append(args, reservationID, tid, i)
	}
	_, err := tx.ExecContext(ctx, q, args...)
	return err
}

// TablesFor resolves the table records assigned to each of the given
// reservations, keyed by reservation ID and ordered by assignment
// position.
func (r *ReservationRepo) TablesFor(ctx context.Context, reservationIDs []uint64) (map[uint64][]model.Table, error) {
	out := make(map[uint64][]model.Table, len(reservationIDs))
	if len(reservationIDs) == 0 {
		return out, nil
	}
	q := `SELECT rt.reservation_id, t.id, t.number, t.capacity, t.location, t.is_active, t.created_at, t.updated_at
		FROM reservation_tables rt
		JOIN tables t ON t.id = rt.table_id
		WHERE rt.reservation_id IN (` + placeholders(len(reservationIDs)) + `)
		ORDER BY rt.reservation_id, rt.position`
	args := make([]any, len(reservationIDs))
	for i, id := range reservationIDs {
		args[i] = id
	}
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			resID uint64
			t     model.Table
		)
		if err := rows.Scan(&resID, &t.ID, &t.Number, &t.Capacity, &t.Location, &t.IsActive, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		out[resID] = append(out[resID], t)
	}
	return out, rows.Err()
}

// ReplaceItemsTx rewrites a reservation's pre-order inside a transaction.
// Quantities must already be validated as positive by the caller.
func (r *ReservationRepo) ReplaceItemsTx(ctx context.Context, tx *sql.Tx, reservationID uint64, items []model.ReservationItem) error {
	if _, err := tx.ExecContext(ctx, "DELETE FROM reservation_items WHERE reservation_id=?", reservationID); err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}
	q := "INSERT INTO reservation_items (reservation_id, menu_item_id, quantity, notes) VALUES "
	args := make([]any, 0, len(items)*4)
	for i, it := range items {
		if i > 0 {
			q += ","
		}
		q += "(?, ?, ?, ?)"
		args = append(args, reservationID, it.MenuItemID, it.Quantity, nullStr(it.Notes))
	}
	_, err := tx.ExecContext(ctx, q, args...)
	return err
}

// ItemsFor loads the pre-order items for a reservation.
func (r *ReservationRepo) ItemsFor(ctx context.Context, reservationID uint64) ([]model.ReservationItem, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, reservation_id, menu_item_id, quantity, notes FROM reservation_items WHERE reservation_id=? ORDER BY id",
		reservationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.ReservationItem
	for rows.Next() {
		var (
			it    model.ReservationItem
			notes sql.NullString
		)
		if err := rows.Scan(&it.ID, &it.ReservationID, &it.MenuItemID, &it.Quantity, &notes); err != nil {
			return nil, err
		}
		it.Notes = notes.String
		out = append(out, it)
	}
	return out, rows.Err()
}

// BookedTableIDs returns the IDs of tables bound to any other reservation
// whose slot overlaps [slotStart, slotEnd) and whose status still holds
// the table (PENDING, CONFIRMED or SEATED).  excludeReservation removes
// the reservation being edited from the conflict set so its own tables do
// not count against it.
func (r *ReservationRepo) BookedTableIDs(ctx context.Context, slotStart, slotEnd time.Time, excludeReservation uint64) (map[uint64]struct{}, error) {
	const q = `SELECT DISTINCT rt.table_id
		FROM reservation_tables rt
		JOIN reservations res ON res.id = rt.reservation_id
		WHERE res.status IN ('PENDING','CONFIRMED','SEATED')
		  AND res.starts_at >= ? AND res.starts_at < ?
		  AND res.id <> ?`
	rows, err := r.db.QueryContext(ctx, q, slotStart.UTC(), slotEnd.UTC(), excludeReservation)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[uint64]struct{})
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out[id] = struct{}{}
	}
	return out, rows.Err()
}

// AnonymizeCustomerDataTx blanks the contact snapshot on every
// reservation of a customer.  Used by the GDPR erasure path; the rows
// themselves stay for seating statistics.
func (r *ReservationRepo) AnonymizeCustomerDataTx(ctx context.Context, tx *sql.Tx, customerID uint64) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE reservations SET customer_name='', customer_email='', customer_phone='', special_requests=NULL, dietary_notes=NULL
		 WHERE customer_id=?`, customerID)
	return err
}

// nullStr maps empty strings onto NULL so optional text columns stay NULL
// instead of accumulating empty strings.
func nullStr(s string) any {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return s
}

// placeholders builds a "?,?,?" list of the given length for IN clauses.
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat("?,", n-1) + "?"
}
