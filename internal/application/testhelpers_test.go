package application

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	bookingDomain "github.com/lendloop/service-lending/internal/domain/booking"
	itemDomain "github.com/lendloop/service-lending/internal/domain/item"
	"github.com/lendloop/service-lending/internal/domain/shared"
	userDomain "github.com/lendloop/service-lending/internal/domain/user"
)

// In-memory repository fakes for service-level tests. They reproduce the
// contracts the GORM implementations honor, notably ascending-by-start
// ordering and the overlap re-check in CreateExclusive.

type memBookingRepo struct {
	bookings map[uuid.UUID]*bookingDomain.Booking
	items    *memItemRepo
}

func newMemBookingRepo(items *memItemRepo) *memBookingRepo {
	return &memBookingRepo{
		bookings: make(map[uuid.UUID]*bookingDomain.Booking),
		items:    items,
	}
}

func (r *memBookingRepo) FindByID(_ context.Context, id uuid.UUID) (*bookingDomain.Booking, error) {
	bk, ok := r.bookings[id]
	if !ok {
		return nil, shared.NewNotFoundError("booking", id.String())
	}
	return bk, nil
}

func (r *memBookingRepo) FindByBookerID(_ context.Context, bookerID uuid.UUID) ([]*bookingDomain.Booking, error) {
	return r.collect(func(bk *bookingDomain.Booking) bool {
		return bk.BookerID() == bookerID
	}), nil
}

func (r *memBookingRepo) FindByItemOwnerID(_ context.Context, ownerID uuid.UUID) ([]*bookingDomain.Booking, error) {
	return r.collect(func(bk *bookingDomain.Booking) bool {
		itm, ok := r.items.items[bk.ItemID()]
		return ok && itm.IsOwnedBy(ownerID)
	}), nil
}

func (r *memBookingRepo) FindByItemID(_ context.Context, itemID uuid.UUID) ([]*bookingDomain.Booking, error) {
	return r.collect(func(bk *bookingDomain.Booking) bool {
		return bk.ItemID() == itemID
	}), nil
}

func (r *memBookingRepo) FindByBookerIDAndItemID(_ context.Context, bookerID, itemID uuid.UUID) ([]*bookingDomain.Booking, error) {
	return r.collect(func(bk *bookingDomain.Booking) bool {
		return bk.BookerID() == bookerID && bk.ItemID() == itemID
	}), nil
}

func (r *memBookingRepo) CreateExclusive(_ context.Context, bk *bookingDomain.Booking) error {
	existing := r.collect(func(other *bookingDomain.Booking) bool {
		return other.ItemID() == bk.ItemID()
	})
	if bookingDomain.NewSchedule(existing).Conflicts(bk.Interval()) {
		return shared.NewConflictError("item is already booked for this time")
	}
	r.bookings[bk.ID()] = bk
	return nil
}

func (r *memBookingRepo) Update(_ context.Context, bk *bookingDomain.Booking) error {
	if _, ok := r.bookings[bk.ID()]; !ok {
		return shared.NewNotFoundError("booking", bk.ID().String())
	}
	r.bookings[bk.ID()] = bk
	return nil
}

func (r *memBookingRepo) CountByStatus(_ context.Context) (map[string]int64, error) {
	counts := make(map[string]int64)
	for _, bk := range r.bookings {
		counts[string(bk.Status())]++
	}
	return counts, nil
}

func (r *memBookingRepo) ListAll(_ context.Context, page, limit int) ([]*bookingDomain.Booking, int64, error) {
	all := r.collect(func(*bookingDomain.Booking) bool { return true })
	total := int64(len(all))

	start := (page - 1) * limit
	if start >= len(all) {
		return []*bookingDomain.Booking{}, total, nil
	}
	end := start + limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

func (r *memBookingRepo) collect(match func(*bookingDomain.Booking) bool) []*bookingDomain.Booking {
	var result []*bookingDomain.Booking
	for _, bk := range r.bookings {
		if match(bk) {
			result = append(result, bk)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Start().Before(result[j].Start())
	})
	return result
}

type memItemRepo struct {
	items map[uuid.UUID]*itemDomain.Item
}

func newMemItemRepo() *memItemRepo {
	return &memItemRepo{items: make(map[uuid.UUID]*itemDomain.Item)}
}

func (r *memItemRepo) FindByID(_ context.Context, id uuid.UUID) (*itemDomain.Item, error) {
	itm, ok := r.items[id]
	if !ok {
		return nil, shared.NewNotFoundError("item", id.String())
	}
	return itm, nil
}

func (r *memItemRepo) FindByOwnerID(_ context.Context, ownerID uuid.UUID) ([]*itemDomain.Item, error) {
	var result []*itemDomain.Item
	for _, itm := range r.items {
		if itm.IsOwnedBy(ownerID) {
			result = append(result, itm)
		}
	}
	return result, nil
}

func (r *memItemRepo) SearchByText(_ context.Context, text string) ([]*itemDomain.Item, error) {
	var result []*itemDomain.Item
	for _, itm := range r.items {
		if !itm.Available() {
			continue
		}
		if containsFold(itm.Name(), text) || containsFold(itm.Description(), text) {
			result = append(result, itm)
		}
	}
	return result, nil
}

func (r *memItemRepo) Save(_ context.Context, itm *itemDomain.Item) error {
	r.items[itm.ID()] = itm
	return nil
}

func (r *memItemRepo) Update(_ context.Context, itm *itemDomain.Item) error {
	if _, ok := r.items[itm.ID()]; !ok {
		return shared.NewNotFoundError("item", itm.ID().String())
	}
	r.items[itm.ID()] = itm
	return nil
}

type memCommentRepo struct {
	comments []*itemDomain.Comment
}

func newMemCommentRepo() *memCommentRepo {
	return &memCommentRepo{}
}

func (r *memCommentRepo) FindByItemID(_ context.Context, itemID uuid.UUID) ([]*itemDomain.Comment, error) {
	var result []*itemDomain.Comment
	for _, c := range r.comments {
		if c.ItemID() == itemID {
			result = append(result, c)
		}
	}
	return result, nil
}

func (r *memCommentRepo) Save(_ context.Context, c *itemDomain.Comment) error {
	r.comments = append(r.comments, c)
	return nil
}

type memUserRepo struct {
	users map[uuid.UUID]*userDomain.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[uuid.UUID]*userDomain.User)}
}

func (r *memUserRepo) FindByID(_ context.Context, id uuid.UUID) (*userDomain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, shared.NewNotFoundError("user", id.String())
	}
	return u, nil
}

func (r *memUserRepo) ExistsByID(_ context.Context, id uuid.UUID) (bool, error) {
	_, ok := r.users[id]
	return ok, nil
}

func (r *memUserRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	for _, u := range r.users {
		if u.Email() == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *memUserRepo) Save(_ context.Context, u *userDomain.User) error {
	r.users[u.ID()] = u
	return nil
}

func (r *memUserRepo) Update(_ context.Context, u *userDomain.User) error {
	if _, ok := r.users[u.ID()]; !ok {
		return shared.NewNotFoundError("user", u.ID().String())
	}
	r.users[u.ID()] = u
	return nil
}

func (r *memUserRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.users, id)
	return nil
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

// fixture bundles the fakes and services wired the way main does it, with a
// deterministic clock.
type fixture struct {
	bookingRepo *memBookingRepo
	itemRepo    *memItemRepo
	commentRepo *memCommentRepo
	userRepo    *memUserRepo

	bookingSvc *BookingService
	itemSvc    *ItemService
	userSvc    *UserService

	now time.Time
}

func newFixture() *fixture {
	itemRepo := newMemItemRepo()
	bookingRepo := newMemBookingRepo(itemRepo)
	commentRepo := newMemCommentRepo()
	userRepo := newMemUserRepo()
	log := zap.NewNop()

	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	bookingSvc := NewBookingService(bookingRepo, itemRepo, userRepo, nil, log)
	bookingSvc.clock = clock
	itemSvc := NewItemService(itemRepo, commentRepo, bookingRepo, userRepo, log)
	itemSvc.clock = clock
	userSvc := NewUserService(userRepo, log)

	return &fixture{
		bookingRepo: bookingRepo,
		itemRepo:    itemRepo,
		commentRepo: commentRepo,
		userRepo:    userRepo,
		bookingSvc:  bookingSvc,
		itemSvc:     itemSvc,
		userSvc:     userSvc,
		now:         now,
	}
}

func (f *fixture) at(hours int) time.Time {
	return f.now.Add(time.Duration(hours) * time.Hour)
}

func (f *fixture) seedUser(name, email string) *userDomain.User {
	u, err := userDomain.NewUser(name, email)
	if err != nil {
		panic(err)
	}
	f.userRepo.users[u.ID()] = u
	return u
}

func (f *fixture) seedItem(ownerID uuid.UUID, name string, available bool) *itemDomain.Item {
	itm, err := itemDomain.NewItem(ownerID, name, name+" description", available)
	if err != nil {
		panic(err)
	}
	f.itemRepo.items[itm.ID()] = itm
	return itm
}

func (f *fixture) seedBooking(itemID, bookerID uuid.UUID, start, end time.Time, status bookingDomain.BookingStatus) *bookingDomain.Booking {
	bk := bookingDomain.Reconstruct(
		uuid.New(),
		bookingDomain.Range(start, end),
		itemID,
		bookerID,
		status,
		1,
		f.now,
		f.now,
	)
	f.bookingRepo.bookings[bk.ID()] = bk
	return bk
}
