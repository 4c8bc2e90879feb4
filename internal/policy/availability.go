package policy

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// SelectableTable is one entry in the table picker shown while editing a
// reservation's assignment.  CurrentlyAssigned marks tables that belong to
// the reservation being edited; the availability service reports those as
// taken (by this very reservation), so the merge re-adds them.
type SelectableTable struct {
	ID                uint64 `json:"id"`
	Number            string `json:"number"`
	Capacity          int    `json:"capacity"`
	Location          string `json:"location"`
	CurrentlyAssigned bool   `json:"currently_assigned"`
}

var (
	dateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	timeRe = regexp.MustCompile(`^\d{2}:\d{2}$`)
	digits = regexp.MustCompile(`\d+`)
)

// ValidAvailabilityQuery reports whether (date, time, partySize) form a
// complete, well-formed availability query.  An incomplete query yields an
// empty picker with a prompt to finish the form, never an error and never
// a terminal "no tables" answer.
func ValidAvailabilityQuery(date, timeOfDay string, partySize int) bool {
	return dateRe.MatchString(date) && timeRe.MatchString(timeOfDay) && partySize > 0
}

// TableNumberValue extracts the numeric portion of a table's display
// number so labels like "T12" sort as 12 rather than lexically.  Labels
// without digits sort last, tied labels fall back to the full string.
func TableNumberValue(number string) (int, bool) {
	m := digits.FindString(number)
	if m == "" {
		return 0, false
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return 0, false
	}
	return n, true
}

// MergeSelectable reconciles the two sources that feed the table picker:
// the availability service's answer for the requested slot (tables free of
// other reservations) and the tables already bound to the reservation
// being edited.  The union is de-duplicated by ID, optionally filtered to
// a preferred zone, and sorted by the numeric portion of the display
// number.
//
// available may be nil or empty: when the availability fetch failed or the
// query is incomplete the picker still surfaces the reservation's own
// tables, so editing degrades instead of presenting an empty, unusable
// list.  Marking assigned tables selectable is a presentation-only fact
// for this editing session; real availability is untouched.
func MergeSelectable(available, assigned []SelectableTable, preferredZone string) []SelectableTable {
	merged := make([]SelectableTable, 0, len(available)+len(assigned))
	index := make(map[uint64]int, len(available)+len(assigned))

	for _, t := range available {
		if i, ok := index[t.ID]; ok {
			// keep the first occurrence, but never lose the assignment flag
			if t.CurrentlyAssigned {
				merged[i].CurrentlyAssigned = true
			}
			continue
		}
		index[t.ID] = len(merged)
		merged = append(merged, t)
	}
	for _, t := range assigned {
		t.CurrentlyAssigned = true
		if i, ok := index[t.ID]; ok {
			merged[i].CurrentlyAssigned = true
			continue
		}
		index[t.ID] = len(merged)
		merged = append(merged, t)
	}

	if zone := strings.TrimSpace(preferredZone); zone != "" {
		filtered := merged[:0]
		for _, t := range merged {
			if strings.EqualFold(t.Location, zone) {
				filtered = append(filtered, t)
			}
		}
		merged = filtered
	}

	sort.SliceStable(merged, func(i, j int) bool {
		ni, iok := TableNumberValue(merged[i].Number)
		nj, jok := TableNumberValue(merged[j].Number)
		if iok && jok {
			if ni != nj {
				return ni < nj
			}
			return merged[i].Number < merged[j].Number
		}
		if iok != jok {
			return iok // numbered labels before unnumbered ones
		}
		return merged[i].Number < merged[j].Number
	})
	return merged
}

// FormatTableDisplay renders the compact multi-table label used in list
// views, e.g. "T1+T4".  An empty assignment renders as "N/A".
func FormatTableDisplay(numbers []string) string {
	if len(numbers) == 0 {
		return "N/A"
	}
	return strings.Join(numbers, "+")
}
