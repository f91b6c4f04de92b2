package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	bookingDomain "github.com/lendloop/service-lending/internal/domain/booking"
	itemDomain "github.com/lendloop/service-lending/internal/domain/item"
	"github.com/lendloop/service-lending/internal/domain/shared"
	userDomain "github.com/lendloop/service-lending/internal/domain/user"
	"github.com/lendloop/service-lending/internal/events"
	"github.com/lendloop/service-lending/internal/pkg/kafka"
)

// CreateBookingRequest holds the data needed to request a booking.
type CreateBookingRequest struct {
	ItemID uuid.UUID `json:"item_id" binding:"required"`
	Start  time.Time `json:"start" binding:"required"`
	End    time.Time `json:"end" binding:"required"`
}

// BookingDTO is the response representation of a booking.
type BookingDTO struct {
	ID        uuid.UUID `json:"id"`
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	ItemID    uuid.UUID `json:"item_id"`
	BookerID  uuid.UUID `json:"booker_id"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BookingService orchestrates the booking scheduling engine: availability
// validation, the approval state machine and the temporal query filters.
type BookingService struct {
	bookingRepo bookingDomain.BookingRepository
	itemRepo    itemDomain.ItemRepository
	userRepo    userDomain.UserRepository
	producer    *kafka.Producer
	logger      *zap.Logger

	// clock supplies "now"; tests substitute a fixed moment.
	clock func() time.Time
}

// NewBookingService creates a new BookingService.
func NewBookingService(
	bookingRepo bookingDomain.BookingRepository,
	itemRepo itemDomain.ItemRepository,
	userRepo userDomain.UserRepository,
	producer *kafka.Producer,
	logger *zap.Logger,
) *BookingService {
	return &BookingService{
		bookingRepo: bookingRepo,
		itemRepo:    itemRepo,
		userRepo:    userRepo,
		producer:    producer,
		logger:      logger,
		clock:       func() time.Time { return time.Now().UTC() },
	}
}

// CreateBooking validates a requested reservation and persists it in WAITING
// status. Checks run in a fixed order so each failure mode is distinct:
// interval validity, item existence, self-booking, booker existence, item
// availability, then overlap against every existing booking of the item.
func (s *BookingService) CreateBooking(ctx context.Context, bookerID uuid.UUID, req CreateBookingRequest) (*BookingDTO, error) {
	interval, err := bookingDomain.NewTimeRange(req.Start, req.End, s.clock())
	if err != nil {
		return nil, err
	}

	itm, err := s.itemRepo.FindByID(ctx, req.ItemID)
	if err != nil {
		return nil, err
	}
	if itm.IsOwnedBy(bookerID) {
		return nil, shared.NewForbiddenError("can't book your own item")
	}

	exists, err := s.userRepo.ExistsByID(ctx, bookerID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, shared.NewNotFoundError("user", bookerID.String())
	}

	if !itm.Available() {
		return nil, shared.NewConflictError("item is not available")
	}

	existing, err := s.bookingRepo.FindByItemID(ctx, itm.ID())
	if err != nil {
		return nil, err
	}
	if bookingDomain.NewSchedule(existing).Conflicts(interval) {
		return nil, shared.NewConflictError("item is already booked for this time")
	}

	bk, err := bookingDomain.NewBooking(interval, itm.ID(), bookerID)
	if err != nil {
		return nil, err
	}

	// The pre-check above is advisory; CreateExclusive re-checks the
	// schedule inside a serializable transaction to close the
	// check-then-act race between concurrent requests.
	if err := s.bookingRepo.CreateExclusive(ctx, bk); err != nil {
		return nil, err
	}

	s.publishBookingRequested(ctx, bk)

	result := toBookingDTO(bk)
	return &result, nil
}

// Decide lets the item's owner approve or reject a waiting booking.
// Transitions out of APPROVED or REJECTED are refused.
func (s *BookingService) Decide(ctx context.Context, bookingID, actingUserID uuid.UUID, approve bool) (*BookingDTO, error) {
	bk, err := s.bookingRepo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	itm, err := s.itemRepo.FindByID(ctx, bk.ItemID())
	if err != nil {
		return nil, err
	}
	if !itm.IsOwnedBy(actingUserID) {
		return nil, shared.NewForbiddenError("user doesn't own item to approve booking")
	}

	if approve {
		err = bk.Approve()
	} else {
		err = bk.Reject()
	}
	if err != nil {
		return nil, err
	}

	bk.IncrementVersion()
	if err := s.bookingRepo.Update(ctx, bk); err != nil {
		return nil, err
	}

	s.publishBookingDecided(ctx, bk, itm.OwnerID())

	result := toBookingDTO(bk)
	return &result, nil
}

// GetBooking returns a booking to its booker or the item's owner.
func (s *BookingService) GetBooking(ctx context.Context, bookingID, requestingUserID uuid.UUID) (*BookingDTO, error) {
	bk, err := s.bookingRepo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	itm, err := s.itemRepo.FindByID(ctx, bk.ItemID())
	if err != nil {
		return nil, err
	}
	if !bk.InvolvesUser(requestingUserID) && !itm.IsOwnedBy(requestingUserID) {
		return nil, shared.NewForbiddenError("booking can only be seen by its booker or the item's owner")
	}

	result := toBookingDTO(bk)
	return &result, nil
}

// ListByBooker returns the user's bookings matching the state filter, in the
// order the repository supplies them.
func (s *BookingService) ListByBooker(ctx context.Context, bookerID uuid.UUID, state bookingDomain.State) ([]BookingDTO, error) {
	bookings, err := s.bookingRepo.FindByBookerID(ctx, bookerID)
	if err != nil {
		return nil, err
	}
	return toBookingDTOs(bookingDomain.Filter(bookings, state, s.clock())), nil
}

// ListByItemOwner returns bookings of all the owner's items matching the
// state filter. Owners without any items get a not-found error.
func (s *BookingService) ListByItemOwner(ctx context.Context, ownerID uuid.UUID, state bookingDomain.State) ([]BookingDTO, error) {
	items, err := s.itemRepo.FindByOwnerID(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, &shared.DomainError{Kind: shared.KindNotFound, Message: "user doesn't have any items"}
	}

	bookings, err := s.bookingRepo.FindByItemOwnerID(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return toBookingDTOs(bookingDomain.Filter(bookings, state, s.clock())), nil
}

// --- Admin methods ---

// BookingStatsDTO holds booking statistics for the admin dashboard.
type BookingStatsDTO struct {
	TotalBookings int64            `json:"total_bookings"`
	ByStatus      map[string]int64 `json:"by_status"`
}

// ListAllBookings returns a paginated list of all bookings (admin).
func (s *BookingService) ListAllBookings(ctx context.Context, page, limit int) ([]BookingDTO, int64, error) {
	bookings, total, err := s.bookingRepo.ListAll(ctx, page, limit)
	if err != nil {
		return nil, 0, err
	}
	return toBookingDTOs(bookings), total, nil
}

// GetBookingStats returns aggregate booking statistics (admin).
func (s *BookingService) GetBookingStats(ctx context.Context) (*BookingStatsDTO, error) {
	counts, err := s.bookingRepo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}

	var total int64
	for _, c := range counts {
		total += c
	}
	return &BookingStatsDTO{TotalBookings: total, ByStatus: counts}, nil
}

// --- Helpers ---

func toBookingDTO(bk *bookingDomain.Booking) BookingDTO {
	return BookingDTO{
		ID:        bk.ID(),
		Start:     bk.Start(),
		End:       bk.End(),
		ItemID:    bk.ItemID(),
		BookerID:  bk.BookerID(),
		Status:    string(bk.Status()),
		CreatedAt: bk.CreatedAt(),
		UpdatedAt: bk.UpdatedAt(),
	}
}

func toBookingDTOs(bookings []*bookingDomain.Booking) []BookingDTO {
	dtos := make([]BookingDTO, len(bookings))
	for i, bk := range bookings {
		dtos[i] = toBookingDTO(bk)
	}
	return dtos
}

func (s *BookingService) publishBookingRequested(ctx context.Context, bk *bookingDomain.Booking) {
	evt := events.BookingRequestedEvent{
		BookingID:  bk.ID(),
		ItemID:     bk.ItemID(),
		BookerID:   bk.BookerID(),
		Start:      bk.Start(),
		End:        bk.End(),
		OccurredAt: time.Now().UTC(),
	}
	s.publishEvent(ctx, events.TopicBookingEvents, events.BookingRequested, evt)
}

func (s *BookingService) publishBookingDecided(ctx context.Context, bk *bookingDomain.Booking, ownerID uuid.UUID) {
	eventType := events.BookingApproved
	if bk.Status() == bookingDomain.StatusRejected {
		eventType = events.BookingRejected
	}
	evt := events.BookingDecidedEvent{
		BookingID:  bk.ID(),
		ItemID:     bk.ItemID(),
		BookerID:   bk.BookerID(),
		OwnerID:    ownerID,
		Status:     string(bk.Status()),
		OccurredAt: time.Now().UTC(),
	}
	s.publishEvent(ctx, events.TopicBookingEvents, eventType, evt)
}

func (s *BookingService) publishEvent(ctx context.Context, topic, eventType string, data interface{}) {
	if s.producer == nil {
		return
	}

	cloudEvent, err := kafka.NewCloudEvent("service-lending", eventType, data)
	if err != nil {
		s.logger.Error("failed to create cloud event",
			zap.String("event_type", eventType),
			zap.Error(err),
		)
		return
	}

	if err := s.producer.PublishEvent(ctx, topic, cloudEvent); err != nil {
		s.logger.Error("failed to publish event",
			zap.String("topic", topic),
			zap.String("event_type", eventType),
			zap.Error(err),
		)
	}
}
