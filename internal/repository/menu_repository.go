package repository

import (
	"context"
	"database/sql"

	"github.com/enigma-dining/reservation-backend/internal/model"
)

// MenuRepo reads the menu items referenced by pre-orders.
type MenuRepo struct {
	db *sql.DB
}

// NewMenuRepo returns a new MenuRepo bound to the given database.
func NewMenuRepo(db *sql.DB) *MenuRepo { return &MenuRepo{db: db} }

// ListAvailable returns every menu item currently offered for pre-order.
func (r *MenuRepo) ListAvailable(ctx context.Context) ([]model.MenuItem, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, name, price_cents, is_available FROM menu_items WHERE is_available = 1 ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.MenuItem
	for rows.Next() {
		var m model.MenuItem
		if err := rows.Scan(&m.ID, &m.Name, &m.PriceCents, &m.IsAvailable); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// AvailableByIDs resolves the given menu item IDs to items, skipping any
// that are missing or no longer available.  Callers compare the result
// length against the request to detect stale pre-order lines.
func (r *MenuRepo) AvailableByIDs(ctx context.Context, ids []uint64) (map[uint64]model.MenuItem, error) {
	out := make(map[uint64]model.MenuItem, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	q := "SELECT id, name, price_cents, is_available FROM menu_items WHERE is_available = 1 AND id IN (" + placeholders(len(ids)) + ")"
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var m model.MenuItem
		if err := rows.Scan(&m.ID, &m.Name, &m.PriceCents, &m.IsAvailable); err != nil {
			return nil, err
		}
		out[m.ID] = m
	}
	return out, rows.Err()
}
