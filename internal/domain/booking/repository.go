package booking

import (
	"context"

	"github.com/google/uuid"
)

// BookingRepository defines the persistence contract for booking aggregates.
type BookingRepository interface {
	// FindByID retrieves a booking by its unique identifier.
	FindByID(ctx context.Context, id uuid.UUID) (*Booking, error)

	// FindByBookerID retrieves all bookings requested by a user.
	FindByBookerID(ctx context.Context, bookerID uuid.UUID) ([]*Booking, error)

	// FindByItemOwnerID retrieves all bookings for items owned by a user.
	FindByItemOwnerID(ctx context.Context, ownerID uuid.UUID) ([]*Booking, error)

	// FindByItemID retrieves all of an item's bookings, every status,
	// ordered ascending by start time.
	FindByItemID(ctx context.Context, itemID uuid.UUID) ([]*Booking, error)

	// FindByBookerIDAndItemID retrieves a user's bookings of a specific item.
	FindByBookerIDAndItemID(ctx context.Context, bookerID, itemID uuid.UUID) ([]*Booking, error)

	// CreateExclusive persists a new booking inside a serializable
	// transaction that re-checks the item's schedule for overlaps before
	// inserting. Returns a conflict error when the slot is taken.
	CreateExclusive(ctx context.Context, booking *Booking) error

	// Update persists changes to an existing booking with optimistic locking.
	Update(ctx context.Context, booking *Booking) error

	// CountByStatus returns booking counts grouped by status (admin).
	CountByStatus(ctx context.Context) (map[string]int64, error)

	// ListAll retrieves all bookings with pagination (admin).
	ListAll(ctx context.Context, page, limit int) ([]*Booking, int64, error)
}
