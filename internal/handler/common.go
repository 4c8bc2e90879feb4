package handler // handler defines http handlers

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/enigma-dining/reservation-backend/internal/model"
	"github.com/enigma-dining/reservation-backend/internal/policy"
	"github.com/enigma-dining/reservation-backend/internal/repository"
)

// getStaffID extracts the staff_id from echo-style context values and
// converts it to uint64. JWT numeric claims decode as float64 or string
// depending on how the token was minted.
func getStaffID(v any) (uint64, error) {
	switch t := v.(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid staff_id in context")
}

// toReservation converts a stored record plus its joined rows into the
// domain model used for policy checks and JSON views.
func toReservation(rec repository.ReservationRecord, tables []model.Table, items []model.ReservationItem) *model.Reservation {
	return &model.Reservation{
		ID:              rec.ID,
		CustomerID:      rec.CustomerID,
		CustomerName:    rec.CustomerName,
		CustomerEmail:   rec.CustomerEmail,
		CustomerPhone:   rec.CustomerPhone,
		PartySize:       rec.PartySize,
		ChildrenCount:   rec.ChildrenCount,
		StartsAt:        rec.StartsAt,
		Status:          policy.Status(rec.Status),
		SpecialRequests: rec.SpecialRequests,
		DietaryNotes:    rec.DietaryNotes,
		Occasion:        rec.Occasion,
		PreferredZone:   rec.PreferredZone,
		CreatedAt:       rec.CreatedAt,
		UpdatedAt:       rec.UpdatedAt,
		Tables:          tables,
		Items:           items,
	}
}

// reservationView is the JSON shape the dashboard consumes: the model
// plus derived presentation fields the frontend never computes itself.
type reservationView struct {
	*model.Reservation
	Urgency      policy.Urgency  `json:"urgency,omitempty"`
	TableDisplay string          `json:"table_display"`
	NextStatuses []policy.Status `json:"next_statuses"`
	HasPreOrder  bool            `json:"has_pre_order"`
}

func viewOf(r *model.Reservation, now time.Time) reservationView {
	return reservationView{
		Reservation:  r,
		Urgency:      policy.UrgencyFor(r.StartsAt, now),
		TableDisplay: policy.FormatTableDisplay(r.TableNumbers()),
		NextStatuses: policy.NextStatuses(r.Status),
		HasPreOrder:  r.HasPreOrder(),
	}
}

// loadReservation pulls the record and its joined rows in one place so
// the admin and public handlers render identical shapes.
func loadReservation(ctx context.Context, repo *repository.ReservationRepo, id uint64) (*model.Reservation, error) {
	rec, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	byRes, err := repo.TablesFor(ctx, []uint64{id})
	if err != nil {
		return nil, err
	}
	items, err := repo.ItemsFor(ctx, id)
	if err != nil {
		return nil, err
	}
	return toReservation(rec, byRes[id], items), nil
}
