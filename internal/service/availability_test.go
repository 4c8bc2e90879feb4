package service

import (
	"testing"
	"time"

	"github.com/enigma-dining/reservation-backend/internal/model"
)

func TestSlotStart(t *testing.T) {
	s := NewAvailabilityService(nil, nil, 120)

	got, err := s.SlotStart("2024-06-01", "20:30")
	if err != nil {
		t.Fatalf("SlotStart returned error: %v", err)
	}
	want := time.Date(2024, 6, 1, 20, 30, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("SlotStart = %v, want %v", got, want)
	}

	if _, err := s.SlotStart("01/06/2024", "20:30"); err == nil {
		t.Error("SlotStart accepted a non-ISO date")
	}
	if _, err := s.SlotStart("2024-06-01", "8pm"); err == nil {
		t.Error("SlotStart accepted a non HH:MM time")
	}
}

func TestNewAvailabilityServiceDefaultsSlot(t *testing.T) {
	if s := NewAvailabilityService(nil, nil, 0); s.SlotMinutes != 120 {
		t.Errorf("SlotMinutes = %d, want 120 default", s.SlotMinutes)
	}
	if s := NewAvailabilityService(nil, nil, 90); s.SlotMinutes != 90 {
		t.Errorf("SlotMinutes = %d, want 90", s.SlotMinutes)
	}
}

func TestSelectableFromTable(t *testing.T) {
	tbl := model.Table{ID: 4, Number: "T7", Capacity: 6, Location: model.ZoneSalaVIP, IsActive: true}
	got := SelectableFromTable(tbl, true)
	if got.ID != 4 || got.Number != "T7" || got.Capacity != 6 || got.Location != model.ZoneSalaVIP {
		t.Errorf("SelectableFromTable = %+v, want fields copied from %+v", got, tbl)
	}
	if !got.CurrentlyAssigned {
		t.Error("CurrentlyAssigned = false, want true")
	}
	if SelectableFromTable(tbl, false).CurrentlyAssigned {
		t.Error("CurrentlyAssigned = true, want false")
	}
}
