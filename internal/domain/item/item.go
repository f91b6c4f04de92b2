package item

import (
	"time"

	"github.com/google/uuid"

	"github.com/lendloop/service-lending/internal/domain/shared"
)

// Item is the aggregate root for a listed item. Bookings reference items by
// id; the item itself only carries the availability flag the booking engine
// consults.
type Item struct {
	id          uuid.UUID
	ownerID     uuid.UUID
	name        string
	description string
	available   bool

	version   int64
	createdAt time.Time
	updatedAt time.Time
}

// NewItem creates a new item listing with validated fields.
func NewItem(ownerID uuid.UUID, name, description string, available bool) (*Item, error) {
	if ownerID == uuid.Nil {
		return nil, shared.NewValidationError("owner ID is required")
	}
	if name == "" {
		return nil, shared.NewValidationError("item name is required")
	}
	if description == "" {
		return nil, shared.NewValidationError("item description is required")
	}

	now := time.Now().UTC()
	return &Item{
		id:          uuid.New(),
		ownerID:     ownerID,
		name:        name,
		description: description,
		available:   available,
		version:     1,
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

// Reconstruct rebuilds an Item from persistence data (no validation).
func Reconstruct(
	id, ownerID uuid.UUID,
	name, description string,
	available bool,
	version int64,
	createdAt, updatedAt time.Time,
) *Item {
	return &Item{
		id:          id,
		ownerID:     ownerID,
		name:        name,
		description: description,
		available:   available,
		version:     version,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

// --- Getters ---

func (i *Item) ID() uuid.UUID        { return i.id }
func (i *Item) OwnerID() uuid.UUID   { return i.ownerID }
func (i *Item) Name() string         { return i.name }
func (i *Item) Description() string  { return i.description }
func (i *Item) Available() bool      { return i.available }
func (i *Item) Version() int64       { return i.version }
func (i *Item) CreatedAt() time.Time { return i.createdAt }
func (i *Item) UpdatedAt() time.Time { return i.updatedAt }

// --- Behavior ---

// IsOwnedBy checks if the item belongs to the given owner.
func (i *Item) IsOwnedBy(ownerID uuid.UUID) bool {
	return i.ownerID == ownerID
}

// Update applies partial updates; nil fields are left unchanged.
func (i *Item) Update(name, description *string, available *bool) {
	if name != nil {
		i.name = *name
	}
	if description != nil {
		i.description = *description
	}
	if available != nil {
		i.available = *available
	}
	i.version++
	i.updatedAt = time.Now().UTC()
}
