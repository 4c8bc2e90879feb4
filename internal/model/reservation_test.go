package model

import (
	"testing"
	"time"
)

func TestReservationTableAccessors(t *testing.T) {
	r := Reservation{
		Tables: []Table{
			{ID: 7, Number: "T3"},
			{ID: 2, Number: "T11"},
		},
	}
	gotIDs := r.TableIDs()
	if len(gotIDs) != 2 || gotIDs[0] != 7 || gotIDs[1] != 2 {
		t.Errorf("TableIDs() = %v, want [7 2] in assignment order", gotIDs)
	}
	gotNums := r.TableNumbers()
	if len(gotNums) != 2 || gotNums[0] != "T3" || gotNums[1] != "T11" {
		t.Errorf("TableNumbers() = %v, want [T3 T11]", gotNums)
	}
}

func TestHasPreOrder(t *testing.T) {
	r := Reservation{}
	if r.HasPreOrder() {
		t.Error("HasPreOrder() = true for no items")
	}
	r.Items = []ReservationItem{{MenuItemID: 1, Quantity: 2}}
	if !r.HasPreOrder() {
		t.Error("HasPreOrder() = false with one item")
	}
}

func TestStartInstant(t *testing.T) {
	at := time.Date(2024, 6, 1, 20, 0, 0, 0, time.UTC)
	r := Reservation{StartsAt: at}
	if got := r.StartInstant(); !got.Equal(at) {
		t.Errorf("StartInstant() = %v, want %v", got, at)
	}
}
