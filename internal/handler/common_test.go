package handler

import (
	"testing"
	"time"

	"github.com/enigma-dining/reservation-backend/internal/model"
	"github.com/enigma-dining/reservation-backend/internal/policy"
	"github.com/enigma-dining/reservation-backend/internal/repository"
)

func TestGetStaffID(t *testing.T) {
	tests := []struct {
		name    string
		value   any
		want    uint64
		wantErr bool
	}{
		{name: "uint64", value: uint64(5), want: 5},
		{name: "float64 from jwt claim", value: float64(12), want: 12},
		{name: "numeric string", value: "33", want: 33},
		{name: "int", value: 7, want: 7},
		{name: "garbage string", value: "abc", wantErr: true},
		{name: "nil", value: nil, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := getStaffID(tt.value)
			if (err != nil) != tt.wantErr {
				t.Fatalf("getStaffID(%v) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("getStaffID(%v) = %d, want %d", tt.value, got, tt.want)
			}
		})
	}
}

func TestViewOfDerivedFields(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	r := &model.Reservation{
		ID:        1,
		PartySize: 4,
		StartsAt:  now.Add(90 * time.Minute),
		Status:    policy.StatusConfirmed,
		Tables: []model.Table{
			{ID: 1, Number: "T1"},
			{ID: 2, Number: "T4"},
		},
		Items: []model.ReservationItem{{MenuItemID: 3, Quantity: 1}},
	}
	v := viewOf(r, now)

	if v.Urgency != policy.UrgencyUrgent {
		t.Errorf("Urgency = %q, want %q", v.Urgency, policy.UrgencyUrgent)
	}
	if v.TableDisplay != "T1+T4" {
		t.Errorf("TableDisplay = %q, want T1+T4", v.TableDisplay)
	}
	if !v.HasPreOrder {
		t.Error("HasPreOrder = false, want true")
	}
	// Confirmed reservations offer seating or cancellation.
	want := map[policy.Status]bool{policy.StatusSeated: true, policy.StatusCancelled: true}
	if len(v.NextStatuses) != len(want) {
		t.Fatalf("NextStatuses = %v, want SEATED and CANCELLED", v.NextStatuses)
	}
	for _, s := range v.NextStatuses {
		if !want[s] {
			t.Errorf("NextStatuses contains unexpected %q", s)
		}
	}
}

func TestViewOfUnassignedTables(t *testing.T) {
	now := time.Now().UTC()
	r := toReservation(repository.ReservationRecord{ID: 2, PartySize: 2, StartsAt: now.AddDate(0, 0, 3), Status: "PENDING"}, nil, nil)
	v := viewOf(r, now)
	if v.TableDisplay != "N/A" {
		t.Errorf("TableDisplay = %q, want N/A for unassigned reservation", v.TableDisplay)
	}
	if v.Urgency != policy.UrgencyNone {
		t.Errorf("Urgency = %q, want none for a reservation days away", v.Urgency)
	}
}
