package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/enigma-dining/reservation-backend/internal/model"
)

// TableRepo provides access to the physical tables of the dining room.
type TableRepo struct {
	db *sql.DB
}

// NewTableRepo returns a new TableRepo bound to the given database.
func NewTableRepo(db *sql.DB) *TableRepo { return &TableRepo{db: db} }

// ErrTableNumberExists is returned when creating or renaming a table to a
// number that is already taken.
var ErrTableNumberExists = errors.New("table number already exists")

const tableCols = "id, number, capacity, location, is_active, created_at, updated_at"

func scanTable(row interface{ Scan(...any) error }) (model.Table, error) {
	var t model.Table
	err := row.Scan(&t.ID, &t.Number, &t.Capacity, &t.Location, &t.IsActive, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

// ListActive returns every active table, optionally restricted to a zone.
func (r *TableRepo) ListActive(ctx context.Context, zone string) ([]model.Table, error) {
	q := "SELECT " + tableCols + " FROM tables WHERE is_active = 1"
	args := []any{}
	if zone != "" {
		q += " AND location = ?"
		args = append(args, zone)
	}
	q += " ORDER BY id"
	return r.queryTables(ctx, q, args...)
}

// ListAll returns every table regardless of active flag.  Used by the
// admin table screen.
func (r *TableRepo) ListAll(ctx context.Context) ([]model.Table, error) {
	return r.queryTables(ctx, "SELECT "+tableCols+" FROM tables ORDER BY id")
}

func (r *TableRepo) queryTables(ctx context.Context, q string, args ...any) ([]model.Table, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Table
	for rows.Next() {
		t, err := scanTable(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// GetByIDs loads a set of tables by ID.  Missing IDs are simply absent
// from the result; the caller decides whether that is an error.
func (r *TableRepo) GetByIDs(ctx context.Context, ids []uint64) ([]model.Table, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	q := "SELECT " + tableCols + " FROM tables WHERE id IN (" + placeholders(len(ids)) + ")"
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return r.queryTables(ctx, q, args...)
}

// Create inserts a new table and returns it with generated fields filled.
func (r *TableRepo) Create(ctx context.Context, number string, capacity int, location string) (model.Table, error) {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO tables (number, capacity, location, is_active) VALUES (?, ?, ?, 1)",
		number, capacity, location)
	if err != nil {
		if strings.Contains(err.Error(), "1062") {
			return model.Table{}, ErrTableNumberExists
		}
		return model.Table{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Table{}, err
	}
	return model.Table{
		ID: uint64(id), Number: number, Capacity: capacity, Location: location,
		IsActive: true, CreatedAt: time.Now().UTC(), UpdatedAt: time.Now().UTC(),
	}, nil
}

// Update rewrites a table's number, capacity, zone and active flag.
func (r *TableRepo) Update(ctx context.Context, t model.Table) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE tables SET number=?, capacity=?, location=?, is_active=? WHERE id=?",
		t.Number, t.Capacity, t.Location, t.IsActive, t.ID)
	if err != nil {
		if strings.Contains(err.Error(), "1062") {
			return ErrTableNumberExists
		}
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		var one int
		if err := r.db.QueryRowContext(ctx, "SELECT 1 FROM tables WHERE id=?", t.ID).Scan(&one); err == sql.ErrNoRows {
			return ErrTableNotFound
		}
	}
	return nil
}

// Deactivate soft-deletes a table.  Existing assignments are untouched so
// historical reservations keep their table display.
func (r *TableRepo) Deactivate(ctx context.Context, id uint64) error {
	_, err := r.db.ExecContext(ctx, "UPDATE tables SET is_active=0 WHERE id=?", id)
	return err
}

// Zones returns the distinct zones present on active tables, so the
// dashboard's zone filter only offers zones that actually exist.
func (r *TableRepo) Zones(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT DISTINCT location FROM tables WHERE is_active = 1 ORDER BY location")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var z string
		if err := rows.Scan(&z); err != nil {
			return nil, err
		}
		out = append(out, z)
	}
	return out, rows.Err()
}
