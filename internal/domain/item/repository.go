package item

import (
	"context"

	"github.com/google/uuid"
)

// ItemRepository defines persistence operations for item listings.
type ItemRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Item, error)
	FindByOwnerID(ctx context.Context, ownerID uuid.UUID) ([]*Item, error)
	// SearchByText finds available items whose name or description contains
	// the text, case-insensitively.
	SearchByText(ctx context.Context, text string) ([]*Item, error)
	Save(ctx context.Context, item *Item) error
	Update(ctx context.Context, item *Item) error
}

// CommentRepository defines persistence operations for item comments.
type CommentRepository interface {
	FindByItemID(ctx context.Context, itemID uuid.UUID) ([]*Comment, error)
	Save(ctx context.Context, comment *Comment) error
}
