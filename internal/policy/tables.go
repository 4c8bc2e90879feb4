// Package policy contains the pure business rules shared by the admin
// dashboard endpoints and the customer self-service endpoints: the
// table-count policy, the reservation status machine, the selectable-table
// merge and the urgency classifier.  Nothing in this package touches the
// network or the database; every function is deterministic given its
// inputs, which keeps the same rules from drifting apart across callers.
package policy

import (
	"errors"
	"fmt"
)

// MaxCombinedTables is the hard ceiling on how many tables may ever be
// combined into a single reservation, regardless of party size.
const MaxCombinedTables = 3

// MaxTablesForPartySize returns the maximum number of tables that may be
// combined for a group of the given size.  Small parties fit one table;
// combining is only permitted in bounded steps so the floor plan does not
// fragment.  Party sizes below 1 are treated as a single guest.
//
//	1–4 guests  → 1 table
//	5–8 guests  → 2 tables
//	9+  guests  → 3 tables
func MaxTablesForPartySize(partySize int) int {
	switch {
	case partySize <= 4:
		return 1
	case partySize <= 8:
		return 2
	default:
		return MaxCombinedTables
	}
}

// partySizeBand names the band a party size falls into.  It is used to
// build the user-facing rejection message when a selection would exceed
// the allowed table count.
func partySizeBand(partySize int) string {
	switch {
	case partySize <= 4:
		return "1-4"
	case partySize <= 8:
		return "5-8"
	default:
		return "9+"
	}
}

// TableLimitError reports an attempt to assign more tables than the
// table-count policy allows for a party size.  The message identifies the
// applicable band so the caller can surface it directly to the user.
type TableLimitError struct {
	PartySize int
	Max       int
}

func (e *TableLimitError) Error() string {
	return fmt.Sprintf("groups of %s guests may use at most %d table(s)", partySizeBand(e.PartySize), e.Max)
}

// ErrTableNotSelected is returned when a removal targets a table that is
// not part of the current selection.
var ErrTableNotSelected = errors.New("table is not part of the selection")

// TableSelection is the working copy of a reservation's table assignment
// held by one editing session.  Toggling a table adds it when absent and
// removes it when present; adds are validated against the table-count
// policy, removes always succeed.  Order of insertion is preserved.
type TableSelection struct {
	partySize int
	ids       []uint64
}

// NewTableSelection builds a selection seeded with the tables currently
// assigned to the reservation being edited.  Duplicate IDs in the seed are
// collapsed.  The seed is accepted even if it already exceeds the limit
// for the party size (historic over-assignments stay visible); only new
// adds are rejected.
func NewTableSelection(partySize int, current []uint64) *TableSelection {
	s := &TableSelection{partySize: partySize}
	seen := make(map[uint64]struct{}, len(current))
	for _, id := range current {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		s.ids = append(s.ids, id)
	}
	return s
}

// SetPartySize updates the party size the selection is validated against.
// Existing members are kept; subsequent adds use the new limit.
func (s *TableSelection) SetPartySize(partySize int) {
	s.partySize = partySize
}

// Toggle flips membership of the given table.  When the table is already
// selected it is removed and Toggle returns false.  When it is not
// selected it is added and Toggle returns true, unless the add would
// exceed MaxTablesForPartySize, in which case a *TableLimitError is
// returned and the selection is unchanged.
func (s *TableSelection) Toggle(id uint64) (added bool, err error) {
	for i, cur := range s.ids {
		if cur == id {
			s.ids = append(s.ids[:i], s.ids[i+1:]...)
			return false, nil
		}
	}
	max := MaxTablesForPartySize(s.partySize)
	if len(s.ids) >= max {
		return false, &TableLimitError{PartySize: s.partySize, Max: max}
	}
	s.ids = append(s.ids, id)
	return true, nil
}

// Remove deletes a table from the selection.  Removing is always
// permitted; targeting an unselected table returns ErrTableNotSelected.
func (s *TableSelection) Remove(id uint64) error {
	for i, cur := range s.ids {
		if cur == id {
			s.ids = append(s.ids[:i], s.ids[i+1:]...)
			return nil
		}
	}
	return ErrTableNotSelected
}

// Contains reports whether the table is currently selected.
func (s *TableSelection) Contains(id uint64) bool {
	for _, cur := range s.ids {
		if cur == id {
			return true
		}
	}
	return false
}

// LimitReached reports whether further adds would be rejected.  The UI
// renders limit-reached tables as inert rather than hiding them, so this
// state is distinct from a table being unavailable.
func (s *TableSelection) LimitReached() bool {
	return len(s.ids) >= MaxTablesForPartySize(s.partySize)
}

// IDs returns the selected table IDs in insertion order.  The returned
// slice is a copy; mutating it does not affect the selection.
func (s *TableSelection) IDs() []uint64 {
	out := make([]uint64, len(s.ids))
	copy(out, s.ids)
	return out
}

// Len returns the number of selected tables.
func (s *TableSelection) Len() int { return len(s.ids) }

// ValidateAssignment checks a final table assignment against the
// table-count policy before it is persisted.  An empty assignment is
// allowed (reservations may be unassigned); an over-limit assignment
// returns a *TableLimitError.
func ValidateAssignment(partySize int, tableIDs []uint64) error {
	max := MaxTablesForPartySize(partySize)
	seen := make(map[uint64]struct{}, len(tableIDs))
	for _, id := range tableIDs {
		seen[id] = struct{}{}
	}
	if len(seen) > max {
		return &TableLimitError{PartySize: partySize, Max: max}
	}
	return nil
}
