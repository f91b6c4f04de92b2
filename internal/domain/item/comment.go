package item

import (
	"time"

	"github.com/google/uuid"

	"github.com/lendloop/service-lending/internal/domain/shared"
)

// Comment is feedback left on an item by a user who has completed a booking
// of it. The past-booking requirement is enforced by the application layer.
type Comment struct {
	id        uuid.UUID
	itemID    uuid.UUID
	authorID  uuid.UUID
	text      string
	createdAt time.Time
}

// NewComment creates a comment on an item.
func NewComment(itemID, authorID uuid.UUID, text string) (*Comment, error) {
	if text == "" {
		return nil, shared.NewValidationError("comment text is required")
	}

	return &Comment{
		id:        uuid.New(),
		itemID:    itemID,
		authorID:  authorID,
		text:      text,
		createdAt: time.Now().UTC(),
	}, nil
}

// ReconstructComment rebuilds a Comment from persistence data.
func ReconstructComment(id, itemID, authorID uuid.UUID, text string, createdAt time.Time) *Comment {
	return &Comment{
		id:        id,
		itemID:    itemID,
		authorID:  authorID,
		text:      text,
		createdAt: createdAt,
	}
}

func (c *Comment) ID() uuid.UUID        { return c.id }
func (c *Comment) ItemID() uuid.UUID    { return c.itemID }
func (c *Comment) AuthorID() uuid.UUID  { return c.authorID }
func (c *Comment) Text() string         { return c.text }
func (c *Comment) CreatedAt() time.Time { return c.createdAt }
