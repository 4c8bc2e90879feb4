package handler

import "testing"

func TestShouldClearTables(t *testing.T) {
	tests := []struct {
		name        string
		slotChanged bool
		partyGrew   bool
		partySize   int
		assigned    []uint64
		want        bool
	}{
		{"slot moved", true, false, 4, []uint64{1}, true},
		{"party grew", false, true, 6, []uint64{1, 2}, true},
		{"unchanged party keeps tables", false, false, 6, []uint64{1, 2}, false},
		{"shrink within limit keeps tables", false, false, 5, []uint64{1, 2}, false},
		{"shrink below band clears assignment", false, false, 2, []uint64{1, 2}, true},
		{"shrink with no assignment", false, false, 2, nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := shouldClearTables(tt.slotChanged, tt.partyGrew, tt.partySize, tt.assigned)
			if got != tt.want {
				t.Errorf("shouldClearTables() = %v, want %v", got, tt.want)
			}
		})
	}
}
