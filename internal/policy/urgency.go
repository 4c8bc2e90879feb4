package policy

import (
	"sort"
	"time"
)

// Urgency is a transient label recomputed on every view; it is never
// persisted on the reservation.
type Urgency string

const (
	// UrgencyNone means the reservation is not imminent (or already past).
	UrgencyNone Urgency = ""
	// UrgencyUrgent flags reservations starting within the next 2 hours.
	UrgencyUrgent Urgency = "URGENT"
	// UrgencySoon flags reservations starting in more than 2 and at most 6 hours.
	UrgencySoon Urgency = "SOON"
)

const (
	urgentWindow = 2 * time.Hour
	soonWindow   = 6 * time.Hour
)

// UrgencyFor classifies how imminent a start instant is relative to now.
// Starts in the past carry no tag; the bucket, not the tag, conveys that a
// reservation has elapsed.
func UrgencyFor(startsAt, now time.Time) Urgency {
	until := startsAt.Sub(now)
	switch {
	case until <= 0:
		return UrgencyNone
	case until <= urgentWindow:
		return UrgencyUrgent
	case until <= soonWindow:
		return UrgencySoon
	default:
		return UrgencyNone
	}
}

// Bucket names the display group a reservation's calendar date falls into.
type Bucket string

const (
	BucketPast     Bucket = "PAST"
	BucketToday    Bucket = "TODAY"
	BucketTomorrow Bucket = "TOMORROW"
	BucketUpcoming Bucket = "UPCOMING"
)

// BucketOrder lists the buckets in display order.
var BucketOrder = []Bucket{BucketPast, BucketToday, BucketTomorrow, BucketUpcoming}

// dateOnly strips the time of day, keeping the calendar date in the
// instant's own location.
func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// BucketFor compares a reservation's calendar date against today's.  The
// comparison is date-only: a reservation earlier today whose time has
// already elapsed still buckets as TODAY, not PAST.
func BucketFor(startsAt, now time.Time) Bucket {
	day := dateOnly(startsAt)
	today := dateOnly(now)
	tomorrow := today.AddDate(0, 0, 1)
	switch {
	case day.Before(today):
		return BucketPast
	case day.Equal(today):
		return BucketToday
	case day.Equal(tomorrow):
		return BucketTomorrow
	default:
		return BucketUpcoming
	}
}

// Groupable is the minimal view of a reservation the classifier needs.
type Groupable interface {
	StartInstant() time.Time
}

// GroupByBucket partitions reservations into the four display buckets and
// sorts each group by full timestamp: PAST descending (most recently past
// first), the other buckets ascending (soonest first).  Input order is
// otherwise preserved by the stable sort.
func GroupByBucket[T Groupable](items []T, now time.Time) map[Bucket][]T {
	groups := map[Bucket][]T{
		BucketPast:     {},
		BucketToday:    {},
		BucketTomorrow: {},
		BucketUpcoming: {},
	}
	for _, it := range items {
		b := BucketFor(it.StartInstant(), now)
		groups[b] = append(groups[b], it)
	}
	sort.SliceStable(groups[BucketPast], func(i, j int) bool {
		return groups[BucketPast][i].StartInstant().After(groups[BucketPast][j].StartInstant())
	})
	for _, b := range []Bucket{BucketToday, BucketTomorrow, BucketUpcoming} {
		g := groups[b]
		sort.SliceStable(g, func(i, j int) bool {
			return g[i].StartInstant().Before(g[j].StartInstant())
		})
	}
	return groups
}
