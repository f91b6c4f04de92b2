package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	itemDomain "github.com/lendloop/service-lending/internal/domain/item"
	"github.com/lendloop/service-lending/internal/domain/shared"
)

// ItemModel is the GORM model for the items table.
type ItemModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	OwnerID     uuid.UUID `gorm:"type:uuid;index;not null"`
	Name        string    `gorm:"not null;size:255"`
	Description string    `gorm:"not null;type:text"`
	Available   bool      `gorm:"not null"`
	Version     int64     `gorm:"not null;default:1"`
	CreatedAt   time.Time `gorm:"not null"`
	UpdatedAt   time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (ItemModel) TableName() string {
	return "items"
}

// GormItemRepository is the GORM-based implementation of ItemRepository.
type GormItemRepository struct {
	db *gorm.DB
}

// NewGormItemRepository creates a new GormItemRepository.
func NewGormItemRepository(db *gorm.DB) *GormItemRepository {
	return &GormItemRepository{db: db}
}

// FindByID retrieves an item by its unique identifier.
func (r *GormItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*itemDomain.Item, error) {
	var model ItemModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("item", id.String())
		}
		return nil, fmt.Errorf("failed to find item by ID: %w", err)
	}
	return toDomainItem(&model), nil
}

// FindByOwnerID retrieves all items listed by a user.
func (r *GormItemRepository) FindByOwnerID(ctx context.Context, ownerID uuid.UUID) ([]*itemDomain.Item, error) {
	var models []ItemModel
	if err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at ASC").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find items by owner: %w", err)
	}
	return toDomainItems(models), nil
}

// SearchByText finds available items whose name or description contains the
// text, case-insensitively.
func (r *GormItemRepository) SearchByText(ctx context.Context, text string) ([]*itemDomain.Item, error) {
	pattern := "%" + text + "%"
	var models []ItemModel
	if err := r.db.WithContext(ctx).
		Where("available = true AND (name ILIKE ? OR description ILIKE ?)", pattern, pattern).
		Order("created_at ASC").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to search items: %w", err)
	}
	return toDomainItems(models), nil
}

// Save persists a new item.
func (r *GormItemRepository) Save(ctx context.Context, itm *itemDomain.Item) error {
	model := toItemModel(itm)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to save item: %w", err)
	}
	return nil
}

// Update persists changes to an item listing.
func (r *GormItemRepository) Update(ctx context.Context, itm *itemDomain.Item) error {
	model := toItemModel(itm)
	result := r.db.WithContext(ctx).
		Model(&ItemModel{}).
		Where("id = ?", model.ID).
		Updates(map[string]interface{}{
			"name":        model.Name,
			"description": model.Description,
			"available":   model.Available,
			"updated_at":  model.UpdatedAt,
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update item: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.NewNotFoundError("item", itm.ID().String())
	}
	return nil
}

// --- Conversion Helpers ---

func toItemModel(itm *itemDomain.Item) *ItemModel {
	return &ItemModel{
		ID:          itm.ID(),
		OwnerID:     itm.OwnerID(),
		Name:        itm.Name(),
		Description: itm.Description(),
		Available:   itm.Available(),
		Version:     itm.Version(),
		CreatedAt:   itm.CreatedAt(),
		UpdatedAt:   itm.UpdatedAt(),
	}
}

func toDomainItem(m *ItemModel) *itemDomain.Item {
	return itemDomain.Reconstruct(
		m.ID,
		m.OwnerID,
		m.Name,
		m.Description,
		m.Available,
		m.Version,
		m.CreatedAt,
		m.UpdatedAt,
	)
}

func toDomainItems(models []ItemModel) []*itemDomain.Item {
	items := make([]*itemDomain.Item, len(models))
	for i, m := range models {
		items[i] = toDomainItem(&m)
	}
	return items
}
