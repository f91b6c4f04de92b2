package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	bookingDomain "github.com/lendloop/service-lending/internal/domain/booking"
	"github.com/lendloop/service-lending/internal/domain/shared"
)

// Postgres error codes relevant to the no-overlap guarantee.
const (
	pgExclusionViolation  = "23P01"
	pgSerializationFailed = "40001"
)

// BookingModel is the GORM model for the bookings table. The table carries a
// GiST exclusion constraint on (item_id, tsrange(start_time, end_time)) as
// the storage-level guarantee against overlapping inserts; see
// MigrateBookingConstraints.
type BookingModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	StartTime time.Time `gorm:"not null;index"`
	EndTime   time.Time `gorm:"not null"`
	ItemID    uuid.UUID `gorm:"type:uuid;index;not null"`
	BookerID  uuid.UUID `gorm:"type:uuid;index;not null"`
	Status    string    `gorm:"not null;size:20;index"`
	Version   int64     `gorm:"not null;default:1"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (BookingModel) TableName() string {
	return "bookings"
}

// MigrateBookingConstraints installs the range-exclusion constraint that
// backs the engine's overlap-freedom guarantee. AutoMigrate can't express
// it, so it is applied as raw SQL after the table exists.
func MigrateBookingConstraints(db *gorm.DB) error {
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS btree_gist`).Error; err != nil {
		return fmt.Errorf("failed to create btree_gist extension: %w", err)
	}
	if db.Migrator().HasConstraint(&BookingModel{}, "bookings_no_overlap") {
		return nil
	}
	err := db.Exec(`ALTER TABLE bookings ADD CONSTRAINT bookings_no_overlap
		EXCLUDE USING gist (item_id WITH =, tsrange(start_time, end_time) WITH &&)`).Error
	if err != nil {
		return fmt.Errorf("failed to add exclusion constraint: %w", err)
	}
	return nil
}

// GormBookingRepository is the GORM-based implementation of BookingRepository.
type GormBookingRepository struct {
	db *gorm.DB
}

// NewGormBookingRepository creates a new GormBookingRepository.
func NewGormBookingRepository(db *gorm.DB) *GormBookingRepository {
	return &GormBookingRepository{db: db}
}

// FindByID retrieves a booking by its unique identifier.
func (r *GormBookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*bookingDomain.Booking, error) {
	var model BookingModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("booking", id.String())
		}
		return nil, fmt.Errorf("failed to find booking by ID: %w", err)
	}
	return toDomainBooking(&model)
}

// FindByBookerID retrieves all bookings requested by a user, ascending by start.
func (r *GormBookingRepository) FindByBookerID(ctx context.Context, bookerID uuid.UUID) ([]*bookingDomain.Booking, error) {
	var models []BookingModel
	if err := r.db.WithContext(ctx).
		Where("booker_id = ?", bookerID).
		Order("start_time ASC").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find bookings by booker: %w", err)
	}
	return toDomainBookings(models)
}

// FindByItemOwnerID retrieves all bookings for items owned by a user,
// ascending by start.
func (r *GormBookingRepository) FindByItemOwnerID(ctx context.Context, ownerID uuid.UUID) ([]*bookingDomain.Booking, error) {
	var models []BookingModel
	if err := r.db.WithContext(ctx).
		Joins("JOIN items ON items.id = bookings.item_id").
		Where("items.owner_id = ?", ownerID).
		Order("bookings.start_time ASC").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find bookings by item owner: %w", err)
	}
	return toDomainBookings(models)
}

// FindByItemID retrieves all of an item's bookings, every status, ordered
// ascending by start time.
func (r *GormBookingRepository) FindByItemID(ctx context.Context, itemID uuid.UUID) ([]*bookingDomain.Booking, error) {
	var models []BookingModel
	if err := r.db.WithContext(ctx).
		Where("item_id = ?", itemID).
		Order("start_time ASC").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find bookings by item: %w", err)
	}
	return toDomainBookings(models)
}

// FindByBookerIDAndItemID retrieves a user's bookings of a specific item.
func (r *GormBookingRepository) FindByBookerIDAndItemID(ctx context.Context, bookerID, itemID uuid.UUID) ([]*bookingDomain.Booking, error) {
	var models []BookingModel
	if err := r.db.WithContext(ctx).
		Where("booker_id = ? AND item_id = ?", bookerID, itemID).
		Order("start_time ASC").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find bookings by booker and item: %w", err)
	}
	return toDomainBookings(models)
}

// CreateExclusive persists a new booking inside a serializable transaction
// that re-checks the item's schedule before inserting. A concurrent insert
// that slips past the re-check is still stopped by the table's exclusion
// constraint; both paths surface as a conflict error.
func (r *GormBookingRepository) CreateExclusive(ctx context.Context, bk *bookingDomain.Booking) error {
	model := toBookingModel(bk)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&BookingModel{}).
			Where("item_id = ? AND start_time < ? AND end_time > ?",
				model.ItemID, model.EndTime, model.StartTime).
			Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check for overlapping bookings: %w", err)
		}
		if count > 0 {
			return shared.NewConflictError("item is already booked for this time")
		}
		if err := tx.Create(model).Error; err != nil {
			return fmt.Errorf("failed to save booking: %w", err)
		}
		return nil
	}, &sql.TxOptions{Isolation: sql.LevelSerializable})

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) &&
			(pgErr.Code == pgExclusionViolation || pgErr.Code == pgSerializationFailed) {
			return shared.NewConflictError("item is already booked for this time")
		}
		return err
	}
	return nil
}

// Update persists a booking's status change with optimistic locking.
func (r *GormBookingRepository) Update(ctx context.Context, bk *bookingDomain.Booking) error {
	model := toBookingModel(bk)

	// Only update if the version matches (current version - 1, since
	// IncrementVersion was called before persisting).
	expectedVersion := bk.Version() - 1
	result := r.db.WithContext(ctx).
		Model(&BookingModel{}).
		Where("id = ? AND version = ?", model.ID, expectedVersion).
		Updates(map[string]interface{}{
			"status":     model.Status,
			"version":    model.Version,
			"updated_at": model.UpdatedAt,
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update booking: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.NewConflictError("booking was modified by another transaction")
	}
	return nil
}

// CountByStatus returns booking counts grouped by status (admin).
func (r *GormBookingRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	type statusCount struct {
		Status string
		Count  int64
	}
	var results []statusCount
	if err := r.db.WithContext(ctx).Model(&BookingModel{}).
		Select("status, count(*) as count").
		Group("status").
		Find(&results).Error; err != nil {
		return nil, fmt.Errorf("failed to count by status: %w", err)
	}

	counts := make(map[string]int64)
	for _, sc := range results {
		counts[sc.Status] = sc.Count
	}
	return counts, nil
}

// ListAll retrieves all bookings with pagination (admin).
func (r *GormBookingRepository) ListAll(ctx context.Context, page, limit int) ([]*bookingDomain.Booking, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&BookingModel{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count bookings: %w", err)
	}

	var models []BookingModel
	offset := (page - 1) * limit
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list bookings: %w", err)
	}

	bookings, err := toDomainBookings(models)
	if err != nil {
		return nil, 0, err
	}
	return bookings, total, nil
}

// --- Conversion Helpers ---

func toBookingModel(bk *bookingDomain.Booking) *BookingModel {
	return &BookingModel{
		ID:        bk.ID(),
		StartTime: bk.Start(),
		EndTime:   bk.End(),
		ItemID:    bk.ItemID(),
		BookerID:  bk.BookerID(),
		Status:    string(bk.Status()),
		Version:   bk.Version(),
		CreatedAt: bk.CreatedAt(),
		UpdatedAt: bk.UpdatedAt(),
	}
}

func toDomainBooking(m *BookingModel) (*bookingDomain.Booking, error) {
	status, err := bookingDomain.ParseBookingStatus(m.Status)
	if err != nil {
		return nil, err
	}
	return bookingDomain.Reconstruct(
		m.ID,
		bookingDomain.Range(m.StartTime, m.EndTime),
		m.ItemID,
		m.BookerID,
		status,
		m.Version,
		m.CreatedAt,
		m.UpdatedAt,
	), nil
}

func toDomainBookings(models []BookingModel) ([]*bookingDomain.Booking, error) {
	bookings := make([]*bookingDomain.Booking, len(models))
	for i, m := range models {
		bk, err := toDomainBooking(&m)
		if err != nil {
			return nil, err
		}
		bookings[i] = bk
	}
	return bookings, nil
}
