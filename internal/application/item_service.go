package application

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	bookingDomain "github.com/lendloop/service-lending/internal/domain/booking"
	itemDomain "github.com/lendloop/service-lending/internal/domain/item"
	"github.com/lendloop/service-lending/internal/domain/shared"
	userDomain "github.com/lendloop/service-lending/internal/domain/user"
)

// CreateItemRequest holds the data needed to list a new item.
type CreateItemRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description" binding:"required"`
	Available   *bool  `json:"available" binding:"required"`
}

// UpdateItemRequest holds partial updates to an item listing.
type UpdateItemRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Available   *bool   `json:"available"`
}

// CreateCommentRequest holds the text of a new item comment.
type CreateCommentRequest struct {
	Text string `json:"text" binding:"required"`
}

// ItemDTO is the response representation of an item. LastBooking and
// NextBooking are populated only in the owner's view.
type ItemDTO struct {
	ID          uuid.UUID    `json:"id"`
	OwnerID     uuid.UUID    `json:"owner_id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Available   bool         `json:"available"`
	LastBooking *BookingDTO  `json:"last_booking,omitempty"`
	NextBooking *BookingDTO  `json:"next_booking,omitempty"`
	Comments    []CommentDTO `json:"comments,omitempty"`
}

// CommentDTO is the response representation of an item comment.
type CommentDTO struct {
	ID        uuid.UUID `json:"id"`
	ItemID    uuid.UUID `json:"item_id"`
	AuthorID  uuid.UUID `json:"author_id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// ItemService manages item listings and their booking-derived views.
type ItemService struct {
	itemRepo    itemDomain.ItemRepository
	commentRepo itemDomain.CommentRepository
	bookingRepo bookingDomain.BookingRepository
	userRepo    userDomain.UserRepository
	logger      *zap.Logger

	clock func() time.Time
}

// NewItemService creates a new ItemService.
func NewItemService(
	itemRepo itemDomain.ItemRepository,
	commentRepo itemDomain.CommentRepository,
	bookingRepo bookingDomain.BookingRepository,
	userRepo userDomain.UserRepository,
	logger *zap.Logger,
) *ItemService {
	return &ItemService{
		itemRepo:    itemRepo,
		commentRepo: commentRepo,
		bookingRepo: bookingRepo,
		userRepo:    userRepo,
		logger:      logger,
		clock:       func() time.Time { return time.Now().UTC() },
	}
}

// CreateItem lists a new item for the given owner.
func (s *ItemService) CreateItem(ctx context.Context, ownerID uuid.UUID, req CreateItemRequest) (*ItemDTO, error) {
	exists, err := s.userRepo.ExistsByID(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, shared.NewNotFoundError("user", ownerID.String())
	}

	itm, err := itemDomain.NewItem(ownerID, req.Name, req.Description, *req.Available)
	if err != nil {
		return nil, err
	}
	if err := s.itemRepo.Save(ctx, itm); err != nil {
		return nil, err
	}

	result := toItemDTO(itm)
	return &result, nil
}

// UpdateItem applies partial updates; only the owner may change a listing.
func (s *ItemService) UpdateItem(ctx context.Context, ownerID, itemID uuid.UUID, req UpdateItemRequest) (*ItemDTO, error) {
	itm, err := s.itemRepo.FindByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if !itm.IsOwnedBy(ownerID) {
		return nil, shared.NewForbiddenError("only the owner can change an item")
	}

	itm.Update(req.Name, req.Description, req.Available)
	if err := s.itemRepo.Update(ctx, itm); err != nil {
		return nil, err
	}

	result := toItemDTO(itm)
	return &result, nil
}

// GetItem returns an item. The owner additionally sees the item's last and
// next bookings relative to now.
func (s *ItemService) GetItem(ctx context.Context, itemID, requestingUserID uuid.UUID) (*ItemDTO, error) {
	itm, err := s.itemRepo.FindByID(ctx, itemID)
	if err != nil {
		return nil, err
	}

	var result ItemDTO
	if itm.IsOwnedBy(requestingUserID) {
		result, err = s.toAnnotatedItemDTO(ctx, itm)
		if err != nil {
			return nil, err
		}
	} else {
		exists, err := s.userRepo.ExistsByID(ctx, requestingUserID)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, shared.NewNotFoundError("user", requestingUserID.String())
		}
		result = toItemDTO(itm)
	}

	comments, err := s.commentRepo.FindByItemID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	result.Comments = toCommentDTOs(comments)
	return &result, nil
}

// ListByOwner returns all of the owner's items, each annotated with its
// last and next bookings.
func (s *ItemService) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]ItemDTO, error) {
	items, err := s.itemRepo.FindByOwnerID(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	dtos := make([]ItemDTO, len(items))
	for i, itm := range items {
		dto, err := s.toAnnotatedItemDTO(ctx, itm)
		if err != nil {
			return nil, err
		}
		dtos[i] = dto
	}
	return dtos, nil
}

// Search finds available items matching the text. Blank text yields an
// empty result rather than everything.
func (s *ItemService) Search(ctx context.Context, text string) ([]ItemDTO, error) {
	if strings.TrimSpace(text) == "" {
		return []ItemDTO{}, nil
	}

	items, err := s.itemRepo.SearchByText(ctx, text)
	if err != nil {
		return nil, err
	}

	dtos := make([]ItemDTO, len(items))
	for i, itm := range items {
		dtos[i] = toItemDTO(itm)
	}
	return dtos, nil
}

// AddComment lets a user comment on an item they have finished a booking
// of. Users without a past booking of the item are refused.
func (s *ItemService) AddComment(ctx context.Context, authorID, itemID uuid.UUID, req CreateCommentRequest) (*CommentDTO, error) {
	exists, err := s.userRepo.ExistsByID(ctx, authorID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, shared.NewNotFoundError("user", authorID.String())
	}

	if _, err := s.itemRepo.FindByID(ctx, itemID); err != nil {
		return nil, err
	}

	bookings, err := s.bookingRepo.FindByBookerIDAndItemID(ctx, authorID, itemID)
	if err != nil {
		return nil, err
	}

	now := s.clock()
	hasPastBooking := false
	for _, bk := range bookings {
		if bk.End().Before(now) {
			hasPastBooking = true
			break
		}
	}
	if !hasPastBooking {
		return nil, shared.NewValidationError("user has never booked this item")
	}

	comment, err := itemDomain.NewComment(itemID, authorID, req.Text)
	if err != nil {
		return nil, err
	}
	if err := s.commentRepo.Save(ctx, comment); err != nil {
		return nil, err
	}

	result := toCommentDTO(comment)
	return &result, nil
}

// --- Helpers ---

func (s *ItemService) toAnnotatedItemDTO(ctx context.Context, itm *itemDomain.Item) (ItemDTO, error) {
	bookings, err := s.bookingRepo.FindByItemID(ctx, itm.ID())
	if err != nil {
		return ItemDTO{}, err
	}

	dto := toItemDTO(itm)
	last, next := bookingDomain.NewSchedule(bookings).Annotate(s.clock())
	if last != nil {
		d := toBookingDTO(last)
		dto.LastBooking = &d
	}
	if next != nil {
		d := toBookingDTO(next)
		dto.NextBooking = &d
	}
	return dto, nil
}

func toItemDTO(itm *itemDomain.Item) ItemDTO {
	return ItemDTO{
		ID:          itm.ID(),
		OwnerID:     itm.OwnerID(),
		Name:        itm.Name(),
		Description: itm.Description(),
		Available:   itm.Available(),
	}
}

func toCommentDTO(c *itemDomain.Comment) CommentDTO {
	return CommentDTO{
		ID:        c.ID(),
		ItemID:    c.ItemID(),
		AuthorID:  c.AuthorID(),
		Text:      c.Text(),
		CreatedAt: c.CreatedAt(),
	}
}

func toCommentDTOs(comments []*itemDomain.Comment) []CommentDTO {
	dtos := make([]CommentDTO, len(comments))
	for i, c := range comments {
		dtos[i] = toCommentDTO(c)
	}
	return dtos
}
