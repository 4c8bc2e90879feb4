package service

import (
	"context"
	"strings"
	"time"

	"github.com/enigma-dining/reservation-backend/internal/model"
	"github.com/enigma-dining/reservation-backend/internal/policy"
	"github.com/enigma-dining/reservation-backend/internal/repository"
)

// AvailabilityService computes which tables are free for a requested
// slot. Response caching happens at the HTTP layer; this service always
// reads current state.
type AvailabilityService struct {
	Tables       *repository.TableRepo
	Reservations *repository.ReservationRepo
	SlotMinutes  int
}

// NewAvailabilityService wires the service. slotMinutes is the seating
// duration used for overlap detection; zero falls back to two hours.
func NewAvailabilityService(tables *repository.TableRepo, reservations *repository.ReservationRepo, slotMinutes int) *AvailabilityService {
	if slotMinutes <= 0 {
		slotMinutes = 120
	}
	return &AvailabilityService{Tables: tables, Reservations: reservations, SlotMinutes: slotMinutes}
}

// SlotStart parses "YYYY-MM-DD" and "HH:MM" into the UTC start instant.
func (s *AvailabilityService) SlotStart(date, timeOfDay string) (time.Time, error) {
	return time.Parse("2006-01-02 15:04", date+" "+timeOfDay)
}

// FreeTables returns the active tables not held by another reservation
// whose slot overlaps the requested start. Two reservations overlap when
// their start instants are less than one slot apart. excludeReservation
// removes the reservation being edited from the conflict set, so a
// guest's own tables appear free while they rearrange.
func (s *AvailabilityService) FreeTables(ctx context.Context, startsAt time.Time, zone string, excludeReservation uint64) ([]policy.SelectableTable, error) {
	slot := time.Duration(s.SlotMinutes) * time.Minute
	booked, err := s.Reservations.BookedTableIDs(ctx, startsAt.Add(-slot+time.Minute), startsAt.Add(slot), excludeReservation)
	if err != nil {
		return nil, err
	}
	active, err := s.Tables.ListActive(ctx, "")
	if err != nil {
		return nil, err
	}

	var out []policy.SelectableTable
	for _, t := range active {
		if _, held := booked[t.ID]; held {
			continue
		}
		if zone != "" && !strings.EqualFold(t.Location, zone) {
			continue
		}
		out = append(out, SelectableFromTable(t, false))
	}
	return out, nil
}

// SelectableOptions computes the table options to present when editing a
// reservation: the free tables for the slot merged with the tables the
// reservation already holds, so the current assignment never vanishes
// from the picker. When the free-table query fails the assigned tables
// are still returned, flagged, so the dashboard degrades instead of
// blanking.
func (s *AvailabilityService) SelectableOptions(ctx context.Context, startsAt time.Time, zone string, reservationID uint64) ([]policy.SelectableTable, error) {
	var assigned []policy.SelectableTable
	if reservationID != 0 {
		byRes, err := s.Reservations.TablesFor(ctx, []uint64{reservationID})
		if err != nil {
			return nil, err
		}
		for _, t := range byRes[reservationID] {
			assigned = append(assigned, SelectableFromTable(t, true))
		}
	}

	free, err := s.FreeTables(ctx, startsAt, "", reservationID)
	if err != nil {
		return policy.MergeSelectable(nil, assigned, zone), nil
	}
	return policy.MergeSelectable(free, assigned, zone), nil
}

// SelectableFromTable converts a table row into its presentation form.
func SelectableFromTable(t model.Table, assigned bool) policy.SelectableTable {
	return policy.SelectableTable{
		ID:                t.ID,
		Number:            t.Number,
		Capacity:          t.Capacity,
		Location:          t.Location,
		CurrentlyAssigned: assigned,
	}
}
