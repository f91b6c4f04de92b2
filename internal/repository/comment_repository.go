package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	itemDomain "github.com/lendloop/service-lending/internal/domain/item"
)

// CommentModel is the GORM model for the comments table.
type CommentModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	ItemID    uuid.UUID `gorm:"type:uuid;index;not null"`
	AuthorID  uuid.UUID `gorm:"type:uuid;index;not null"`
	Text      string    `gorm:"not null;type:text"`
	CreatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (CommentModel) TableName() string {
	return "comments"
}

// GormCommentRepository is the GORM-based implementation of CommentRepository.
type GormCommentRepository struct {
	db *gorm.DB
}

// NewGormCommentRepository creates a new GormCommentRepository.
func NewGormCommentRepository(db *gorm.DB) *GormCommentRepository {
	return &GormCommentRepository{db: db}
}

// FindByItemID retrieves all comments on an item, oldest first.
func (r *GormCommentRepository) FindByItemID(ctx context.Context, itemID uuid.UUID) ([]*itemDomain.Comment, error) {
	var models []CommentModel
	if err := r.db.WithContext(ctx).
		Where("item_id = ?", itemID).
		Order("created_at ASC").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find comments by item: %w", err)
	}

	comments := make([]*itemDomain.Comment, len(models))
	for i, m := range models {
		comments[i] = itemDomain.ReconstructComment(m.ID, m.ItemID, m.AuthorID, m.Text, m.CreatedAt)
	}
	return comments, nil
}

// Save persists a new comment.
func (r *GormCommentRepository) Save(ctx context.Context, c *itemDomain.Comment) error {
	model := &CommentModel{
		ID:        c.ID(),
		ItemID:    c.ItemID(),
		AuthorID:  c.AuthorID(),
		Text:      c.Text(),
		CreatedAt: c.CreatedAt(),
	}
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to save comment: %w", err)
	}
	return nil
}
