package booking

import (
	"time"

	"github.com/lendloop/service-lending/internal/domain/shared"
)

// TimeRange is a half-open time interval [start, end).
type TimeRange struct {
	start time.Time
	end   time.Time
}

// NewTimeRange validates a requested booking interval against the moment of
// creation. Both bounds must be strictly in the future and start must be
// strictly before end.
func NewTimeRange(start, end, now time.Time) (TimeRange, error) {
	if !start.After(now) || !end.After(now) {
		return TimeRange{}, shared.NewValidationError("can't book item in the past")
	}
	if !start.Before(end) {
		return TimeRange{}, shared.NewValidationError("booking start must be strictly before end")
	}
	return TimeRange{start: start, end: end}, nil
}

// Range reconstructs a TimeRange from persisted bounds without validation.
func Range(start, end time.Time) TimeRange {
	return TimeRange{start: start, end: end}
}

// Start returns the inclusive lower bound.
func (r TimeRange) Start() time.Time { return r.start }

// End returns the exclusive upper bound.
func (r TimeRange) End() time.Time { return r.end }

// Overlaps reports whether two half-open intervals share at least one
// instant: each must start before the other ends. Equal start times
// always overlap.
func (r TimeRange) Overlaps(other TimeRange) bool {
	return r.start.Before(other.end) && other.start.Before(r.end)
}
