package booking

import (
	"time"

	"github.com/google/uuid"

	"github.com/lendloop/service-lending/internal/domain/shared"
)

// Booking is the aggregate root for the booking domain: a reservation of one
// item for a half-open time interval, requested by a booker and subject to
// approval by the item's owner.
type Booking struct {
	id       uuid.UUID
	interval TimeRange
	itemID   uuid.UUID
	bookerID uuid.UUID
	status   BookingStatus

	version   int64
	createdAt time.Time
	updatedAt time.Time
}

// NewBooking creates a new Booking in WAITING status. The interval must have
// been validated with NewTimeRange; item availability and overlap checks are
// the application layer's responsibility.
func NewBooking(interval TimeRange, itemID, bookerID uuid.UUID) (*Booking, error) {
	if itemID == uuid.Nil {
		return nil, shared.NewValidationError("item ID is required")
	}
	if bookerID == uuid.Nil {
		return nil, shared.NewValidationError("booker ID is required")
	}

	now := time.Now().UTC()
	return &Booking{
		id:        uuid.New(),
		interval:  interval,
		itemID:    itemID,
		bookerID:  bookerID,
		status:    StatusWaiting,
		version:   1,
		createdAt: now,
		updatedAt: now,
	}, nil
}

// Reconstruct rebuilds a Booking from persistence data (no validation).
func Reconstruct(
	id uuid.UUID,
	interval TimeRange,
	itemID uuid.UUID,
	bookerID uuid.UUID,
	status BookingStatus,
	version int64,
	createdAt time.Time,
	updatedAt time.Time,
) *Booking {
	return &Booking{
		id:        id,
		interval:  interval,
		itemID:    itemID,
		bookerID:  bookerID,
		status:    status,
		version:   version,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

// ID returns the booking's unique identifier.
func (b *Booking) ID() uuid.UUID { return b.id }

// Interval returns the reserved time range.
func (b *Booking) Interval() TimeRange { return b.interval }

// Start returns the inclusive start of the reserved interval.
func (b *Booking) Start() time.Time { return b.interval.Start() }

// End returns the exclusive end of the reserved interval.
func (b *Booking) End() time.Time { return b.interval.End() }

// ItemID returns the reserved item's identifier.
func (b *Booking) ItemID() uuid.UUID { return b.itemID }

// BookerID returns the requesting user's identifier.
func (b *Booking) BookerID() uuid.UUID { return b.bookerID }

// Status returns the current booking status.
func (b *Booking) Status() BookingStatus { return b.status }

// Version returns the entity version for optimistic locking.
func (b *Booking) Version() int64 { return b.version }

// CreatedAt returns the creation timestamp.
func (b *Booking) CreatedAt() time.Time { return b.createdAt }

// UpdatedAt returns the last-updated timestamp.
func (b *Booking) UpdatedAt() time.Time { return b.updatedAt }

// Approve transitions the booking from WAITING to APPROVED.
func (b *Booking) Approve() error {
	return b.transitionTo(StatusApproved)
}

// Reject transitions the booking from WAITING to REJECTED.
func (b *Booking) Reject() error {
	return b.transitionTo(StatusRejected)
}

func (b *Booking) transitionTo(target BookingStatus) error {
	if !b.status.CanTransitionTo(target) {
		switch b.status {
		case StatusApproved:
			return shared.NewConflictError("booking is already approved")
		case StatusRejected:
			return shared.NewConflictError("booking is already rejected")
		default:
			return shared.NewConflictError("booking can't transition to " + target.String())
		}
	}
	b.status = target
	b.updatedAt = time.Now().UTC()
	return nil
}

// InvolvesUser reports whether the given user is the booker.
func (b *Booking) InvolvesUser(userID uuid.UUID) bool {
	return b.bookerID == userID
}

// IncrementVersion bumps the version for optimistic locking.
func (b *Booking) IncrementVersion() {
	b.version++
	b.updatedAt = time.Now().UTC()
}
