package events

import (
	"time"

	"github.com/google/uuid"
)

// TopicBookingEvents carries all booking lifecycle events.
const TopicBookingEvents = "booking.events"

// Booking event types.
const (
	BookingRequested = "booking.requested"
	BookingApproved  = "booking.approved"
	BookingRejected  = "booking.rejected"
)

// BookingRequestedEvent is published when a booker creates a WAITING booking.
type BookingRequestedEvent struct {
	BookingID  uuid.UUID `json:"booking_id"`
	ItemID     uuid.UUID `json:"item_id"`
	BookerID   uuid.UUID `json:"booker_id"`
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
	OccurredAt time.Time `json:"occurred_at"`
}

// BookingDecidedEvent is published when the item owner approves or rejects
// a waiting booking. The event type distinguishes the outcome.
type BookingDecidedEvent struct {
	BookingID  uuid.UUID `json:"booking_id"`
	ItemID     uuid.UUID `json:"item_id"`
	BookerID   uuid.UUID `json:"booker_id"`
	OwnerID    uuid.UUID `json:"owner_id"`
	Status     string    `json:"status"`
	OccurredAt time.Time `json:"occurred_at"`
}
