package policy

import (
	"testing"
	"time"
)

type stubReservation struct {
	id      int
	startAt time.Time
}

func (s stubReservation) StartInstant() time.Time { return s.startAt }

func TestUrgencyFor(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name    string
		startAt time.Time
		want    Urgency
	}{
		{name: "ninetyMinutesOut", startAt: now.Add(90 * time.Minute), want: UrgencyUrgent},
		{name: "exactlyTwoHours", startAt: now.Add(2 * time.Hour), want: UrgencyUrgent},
		{name: "fiveHoursOut", startAt: now.Add(5 * time.Hour), want: UrgencySoon},
		{name: "exactlySixHours", startAt: now.Add(6 * time.Hour), want: UrgencySoon},
		{name: "beyondSixHours", startAt: now.Add(7 * time.Hour), want: UrgencyNone},
		{name: "alreadyElapsed", startAt: now.Add(-3 * time.Hour), want: UrgencyNone},
		{name: "exactlyNow", startAt: now, want: UrgencyNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UrgencyFor(tt.startAt, now); got != tt.want {
				t.Errorf("UrgencyFor(%v) = %q, want %q", tt.startAt, got, tt.want)
			}
		})
	}
}

func TestBucketFor(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name    string
		startAt time.Time
		want    Bucket
	}{
		{name: "yesterday", startAt: now.AddDate(0, 0, -1), want: BucketPast},
		{name: "laterToday", startAt: time.Date(2024, 1, 1, 13, 30, 0, 0, time.UTC), want: BucketToday},
		// elapsed this morning: date-only comparison keeps it in TODAY
		{name: "earlierTodayElapsed", startAt: time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC), want: BucketToday},
		{name: "tomorrowEarlyMorning", startAt: time.Date(2024, 1, 2, 1, 0, 0, 0, time.UTC), want: BucketTomorrow},
		{name: "dayAfterTomorrow", startAt: time.Date(2024, 1, 3, 12, 0, 0, 0, time.UTC), want: BucketUpcoming},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BucketFor(tt.startAt, now); got != tt.want {
				t.Errorf("BucketFor(%v) = %q, want %q", tt.startAt, got, tt.want)
			}
		})
	}
}

func TestSpecExampleClassification(t *testing.T) {
	// now = 2024-01-01T12:00: 13:30 same day is URGENT, 17:00 is SOON,
	// 09:00 carries no tag but still buckets TODAY.
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	at1330 := time.Date(2024, 1, 1, 13, 30, 0, 0, time.UTC)
	if got := UrgencyFor(at1330, now); got != UrgencyUrgent {
		t.Errorf("13:30 urgency = %q, want URGENT", got)
	}
	at1700 := time.Date(2024, 1, 1, 17, 0, 0, 0, time.UTC)
	if got := UrgencyFor(at1700, now); got != UrgencySoon {
		t.Errorf("17:00 urgency = %q, want SOON", got)
	}
	at0900 := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	if got := UrgencyFor(at0900, now); got != UrgencyNone {
		t.Errorf("09:00 urgency = %q, want no tag", got)
	}
	if got := BucketFor(at0900, now); got != BucketToday {
		t.Errorf("09:00 bucket = %q, want TODAY (not demoted to PAST)", got)
	}
}

func TestGroupByBucketSorting(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	day := func(d, h int) time.Time { return time.Date(2024, 1, d, h, 0, 0, 0, time.UTC) }

	items := []stubReservation{
		{id: 1, startAt: day(1, 20)},  // today evening
		{id: 2, startAt: day(1, 13)},  // today sooner
		{id: 3, startAt: day(2, 21)},  // tomorrow late
		{id: 4, startAt: day(2, 13)},  // tomorrow early
		{id: 5, startAt: day(5, 20)},  // upcoming
		{id: 6, startAt: day(3, 14)},  // upcoming sooner
		{id: 7, startAt: day(1, 9)},   // today, elapsed, still TODAY
		{id: 8, startAt: day(1, 10)},  // today, elapsed, still TODAY
	}
	past := []stubReservation{
		{id: 20, startAt: time.Date(2023, 12, 30, 20, 0, 0, 0, time.UTC)},
		{id: 21, startAt: time.Date(2023, 12, 31, 20, 0, 0, 0, time.UTC)},
	}
	groups := GroupByBucket(append(items, past...), now)

	// past sorted descending: most recently past first
	gotPast := groups[BucketPast]
	if len(gotPast) != 2 || gotPast[0].id != 21 || gotPast[1].id != 20 {
		t.Errorf("PAST group = %v, want [21 20] (descending)", ids(gotPast))
	}

	// today ascending by full timestamp
	gotToday := ids(groups[BucketToday])
	wantToday := []int{7, 8, 2, 1}
	if len(gotToday) != len(wantToday) {
		t.Fatalf("TODAY group = %v, want %v", gotToday, wantToday)
	}
	for i := range wantToday {
		if gotToday[i] != wantToday[i] {
			t.Errorf("TODAY[%d] = %d, want %d", i, gotToday[i], wantToday[i])
		}
	}

	gotTomorrow := ids(groups[BucketTomorrow])
	if len(gotTomorrow) != 2 || gotTomorrow[0] != 4 || gotTomorrow[1] != 3 {
		t.Errorf("TOMORROW group = %v, want [4 3]", gotTomorrow)
	}

	gotUpcoming := ids(groups[BucketUpcoming])
	if len(gotUpcoming) != 2 || gotUpcoming[0] != 6 || gotUpcoming[1] != 5 {
		t.Errorf("UPCOMING group = %v, want [6 5]", gotUpcoming)
	}
}

func ids(items []stubReservation) []int {
	out := make([]int, len(items))
	for i, it := range items {
		out[i] = it.id
	}
	return out
}
