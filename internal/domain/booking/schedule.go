package booking

import "time"

// Schedule is a read-only view over one item's bookings, ordered ascending
// by start time. Callers must supply the bookings already sorted; the
// schedule does not re-sort and never mutates the slice.
type Schedule struct {
	bookings []*Booking
}

// NewSchedule wraps an item's bookings, ascending by start.
func NewSchedule(bookings []*Booking) Schedule {
	return Schedule{bookings: bookings}
}

// Conflicts reports whether the requested interval overlaps any booking in
// the schedule, regardless of status. Rejected bookings still block the
// slot (conservative blocking).
func (s Schedule) Conflicts(requested TimeRange) bool {
	for _, b := range s.bookings {
		if b.Interval().Overlaps(requested) {
			return true
		}
	}
	return false
}

// Annotate computes the item's last and next bookings relative to now in a
// single ascending pass. Last is the latest booking whose start is not
// after now; next is the earliest booking starting after now. Either may
// be nil.
func (s Schedule) Annotate(now time.Time) (last, next *Booking) {
	for i, b := range s.bookings {
		if b.Start().After(now) {
			if i > 0 {
				last = s.bookings[i-1]
			}
			return last, b
		}
	}
	if len(s.bookings) > 0 {
		last = s.bookings[len(s.bookings)-1]
	}
	return last, nil
}
