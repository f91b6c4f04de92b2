package booking

import (
	"time"

	"github.com/lendloop/service-lending/internal/domain/shared"
)

// State is a named query filter selecting a subset of a user's bookings.
// PAST, FUTURE and CURRENT are purely temporal; WAITING and REJECTED match
// on status alone and ignore time.
type State string

const (
	StateAll      State = "ALL"
	StatePast     State = "PAST"
	StateFuture   State = "FUTURE"
	StateCurrent  State = "CURRENT"
	StateWaiting  State = "WAITING"
	StateRejected State = "REJECTED"
)

// ParseState converts a query value to a State. An empty value defaults to ALL.
func ParseState(s string) (State, error) {
	if s == "" {
		return StateAll, nil
	}
	switch state := State(s); state {
	case StateAll, StatePast, StateFuture, StateCurrent, StateWaiting, StateRejected:
		return state, nil
	default:
		return "", shared.NewValidationError("unknown state: " + s)
	}
}

// Predicate returns the filter predicate for this state, evaluated against
// the given moment.
func (s State) Predicate(now time.Time) func(*Booking) bool {
	switch s {
	case StatePast:
		return func(b *Booking) bool { return b.End().Before(now) }
	case StateFuture:
		return func(b *Booking) bool { return b.Start().After(now) }
	case StateCurrent:
		return func(b *Booking) bool { return b.Start().Before(now) && b.End().After(now) }
	case StateWaiting:
		return func(b *Booking) bool { return b.Status() == StatusWaiting }
	case StateRejected:
		return func(b *Booking) bool { return b.Status() == StatusRejected }
	default: // ALL
		return func(*Booking) bool { return true }
	}
}

// Filter returns the bookings matching the state at the given moment,
// preserving input order.
func Filter(bookings []*Booking, state State, now time.Time) []*Booking {
	matches := state.Predicate(now)
	result := make([]*Booking, 0, len(bookings))
	for _, b := range bookings {
		if matches(b) {
			result = append(result, b)
		}
	}
	return result
}
