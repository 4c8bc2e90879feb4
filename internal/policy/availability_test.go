package policy

import (
	"reflect"
	"testing"
)

func TestValidAvailabilityQuery(t *testing.T) {
	tests := []struct {
		name      string
		date      string
		timeOfDay string
		partySize int
		want      bool
	}{
		{name: "complete", date: "2024-06-15", timeOfDay: "20:30", partySize: 4, want: true},
		{name: "emptyDate", date: "", timeOfDay: "20:30", partySize: 4, want: false},
		{name: "emptyTime", date: "2024-06-15", timeOfDay: "", partySize: 4, want: false},
		{name: "zeroParty", date: "2024-06-15", timeOfDay: "20:30", partySize: 0, want: false},
		{name: "malformedDate", date: "15/06/2024", timeOfDay: "20:30", partySize: 4, want: false},
		{name: "malformedTime", date: "2024-06-15", timeOfDay: "8pm", partySize: 4, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ValidAvailabilityQuery(tt.date, tt.timeOfDay, tt.partySize)
			if got != tt.want {
				t.Errorf("ValidAvailabilityQuery(%q, %q, %d) = %v, want %v", tt.date, tt.timeOfDay, tt.partySize, got, tt.want)
			}
		})
	}
}

func TestTableNumberValue(t *testing.T) {
	tests := []struct {
		name   string
		number string
		want   int
		wantOk bool
	}{
		{name: "plainNumber", number: "12", want: 12, wantOk: true},
		{name: "prefixedLabel", number: "T12", want: 12, wantOk: true},
		{name: "zoneLabel", number: "M3-terraza", want: 3, wantOk: true},
		{name: "noDigits", number: "bar", want: 0, wantOk: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := TableNumberValue(tt.number)
			if got != tt.want || ok != tt.wantOk {
				t.Errorf("TableNumberValue(%q) = (%d, %v), want (%d, %v)", tt.number, got, ok, tt.want, tt.wantOk)
			}
		})
	}
}

func TestMergeSelectableKeepsAssignedTables(t *testing.T) {
	// Table T2 is held by the reservation being edited, so the availability
	// service does not report it; it must still appear exactly once.
	available := []SelectableTable{
		{ID: 1, Number: "T1", Capacity: 2, Location: "SALA_PRINCIPAL"},
		{ID: 3, Number: "T3", Capacity: 4, Location: "SALA_PRINCIPAL"},
	}
	assigned := []SelectableTable{
		{ID: 2, Number: "T2", Capacity: 4, Location: "SALA_PRINCIPAL"},
	}

	got := MergeSelectable(available, assigned, "")
	if len(got) != 3 {
		t.Fatalf("merged list has %d entries, want 3: %v", len(got), got)
	}
	wantNumbers := []string{"T1", "T2", "T3"}
	for i, n := range wantNumbers {
		if got[i].Number != n {
			t.Errorf("merged[%d].Number = %q, want %q", i, got[i].Number, n)
		}
	}
	if !got[1].CurrentlyAssigned {
		t.Error("assigned table lost its CurrentlyAssigned flag in the merge")
	}
}

func TestMergeSelectableDeduplicatesOverlap(t *testing.T) {
	// A table both reported available and currently assigned appears once,
	// flagged as assigned.
	available := []SelectableTable{
		{ID: 5, Number: "T5", Capacity: 4, Location: "TERRACE_CAMPANARI"},
	}
	assigned := []SelectableTable{
		{ID: 5, Number: "T5", Capacity: 4, Location: "TERRACE_CAMPANARI"},
	}

	got := MergeSelectable(available, assigned, "")
	if len(got) != 1 {
		t.Fatalf("merged list has %d entries, want 1", len(got))
	}
	if !got[0].CurrentlyAssigned {
		t.Error("overlapping table not flagged CurrentlyAssigned")
	}
}

func TestMergeSelectableIdempotent(t *testing.T) {
	available := []SelectableTable{
		{ID: 10, Number: "T10"},
		{ID: 2, Number: "T2"},
	}
	assigned := []SelectableTable{
		{ID: 7, Number: "T7"},
	}

	first := MergeSelectable(available, assigned, "")
	second := MergeSelectable(first, assigned, "")
	if !reflect.DeepEqual(first, second) {
		t.Errorf("merge not idempotent:\nfirst  = %v\nsecond = %v", first, second)
	}
}

func TestMergeSelectableZoneFilter(t *testing.T) {
	available := []SelectableTable{
		{ID: 1, Number: "T1", Location: "SALA_VIP"},
		{ID: 2, Number: "T2", Location: "TERRACE_JUSTICIA"},
	}

	got := MergeSelectable(available, nil, "SALA_VIP")
	if len(got) != 1 || got[0].ID != 1 {
		t.Errorf("zone filter returned %v, want only table 1", got)
	}

	// unset preference passes everything through
	if got := MergeSelectable(available, nil, ""); len(got) != 2 {
		t.Errorf("empty zone filter returned %d entries, want 2", len(got))
	}
}

func TestMergeSelectableDegradedPicker(t *testing.T) {
	// Availability fetch failed (nil available): the reservation's own
	// tables must still be offered.
	assigned := []SelectableTable{
		{ID: 4, Number: "T4"},
		{ID: 1, Number: "T1"},
	}

	got := MergeSelectable(nil, assigned, "")
	if len(got) != 2 {
		t.Fatalf("degraded merge returned %d entries, want 2", len(got))
	}
	if got[0].Number != "T1" || got[1].Number != "T4" {
		t.Errorf("degraded merge order = [%s %s], want [T1 T4]", got[0].Number, got[1].Number)
	}
}

func TestMergeSelectableNumericSort(t *testing.T) {
	available := []SelectableTable{
		{ID: 1, Number: "T12"},
		{ID: 2, Number: "T2"},
		{ID: 3, Number: "bar"},
		{ID: 4, Number: "T1"},
	}

	got := MergeSelectable(available, nil, "")
	wantNumbers := []string{"T1", "T2", "T12", "bar"}
	for i, n := range wantNumbers {
		if got[i].Number != n {
			t.Errorf("merged[%d].Number = %q, want %q (numeric sort, not lexical)", i, got[i].Number, n)
		}
	}
}

func TestFormatTableDisplay(t *testing.T) {
	tests := []struct {
		name    string
		numbers []string
		want    string
	}{
		{name: "unassigned", numbers: nil, want: "N/A"},
		{name: "single", numbers: []string{"T3"}, want: "T3"},
		{name: "combined", numbers: []string{"T1", "T2", "T3"}, want: "T1+T2+T3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatTableDisplay(tt.numbers); got != tt.want {
				t.Errorf("FormatTableDisplay(%v) = %q, want %q", tt.numbers, got, tt.want)
			}
		})
	}
}
