package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"costume-rental/internal/data/entity"
	"costume-rental/internal/data/repository"
	"costume-rental/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock(now time.Time) *testClock {
	return &testClock{now: now.UTC()}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func (c *testClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t.UTC()
}

// fakeTx serialises transactions the way the costume row lock does.
type fakeTx struct {
	mu sync.Mutex
}

type fakeTxKey struct{}

func (f *fakeTx) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(fakeTxKey{}) != nil {
		return fn(ctx)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return fn(context.WithValue(ctx, fakeTxKey{}, true))
}

type fakeCostumeRepo struct {
	mu       sync.Mutex
	costumes map[uuid.UUID]entity.Costume
}

func (r *fakeCostumeRepo) put(c entity.Costume) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.costumes[c.ID] = c
}

func (r *fakeCostumeRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Costume, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.costumes[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *fakeCostumeRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Costume, error) {
	return r.FindByID(ctx, id)
}

type fakeBookingRepo struct {
	mu       sync.Mutex
	bookings map[uuid.UUID]entity.Booking

	// duplicateRefs makes the next n inserts fail as reference collisions
	duplicateRefs int
	expireErr     error
}

func (r *fakeBookingRepo) put(b entity.Booking) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bookings[b.ID] = b
}

func (r *fakeBookingRepo) get(id uuid.UUID) entity.Booking {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.bookings[id]
}

func (r *fakeBookingRepo) Create(ctx context.Context, booking *entity.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.duplicateRefs > 0 {
		r.duplicateRefs--
		return fmt.Errorf("create booking %s: %w", booking.BookingReference, repository.ErrDuplicateReference)
	}
	for _, b := range r.bookings {
		if b.BookingReference == booking.BookingReference {
			return fmt.Errorf("create booking %s: %w", booking.BookingReference, repository.ErrDuplicateReference)
		}
	}
	r.bookings[booking.ID] = *booking
	return nil
}

func (r *fakeBookingRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, nil
	}
	return &b, nil
}

func (r *fakeBookingRepo) FindByReference(ctx context.Context, reference string) (*entity.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.bookings {
		if b.BookingReference == reference {
			return &b, nil
		}
	}
	return nil, nil
}

func (r *fakeBookingRepo) matching(filter repository.BookingFilter) []*entity.Booking {
	var out []*entity.Booking
	for _, b := range r.bookings {
		if filter.Status != nil && b.Status != *filter.Status {
			continue
		}
		if filter.CostumeID != nil && b.CostumeID != *filter.CostumeID {
			continue
		}
		b := b
		out = append(out, &b)
	}
	return out
}

func (r *fakeBookingRepo) FindAll(ctx context.Context, filter repository.BookingFilter, limit, offset int) ([]*entity.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := r.matching(filter)
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if offset >= len(out) {
		return nil, nil
	}
	end := offset + limit
	if end > len(out) {
		end = len(out)
	}
	return out[offset:end], nil
}

func (r *fakeBookingRepo) Count(ctx context.Context, filter repository.BookingFilter) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.matching(filter))), nil
}

func (r *fakeBookingRepo) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.bookings[id]; !ok {
		return false, nil
	}
	delete(r.bookings, id)
	return true, nil
}

func (r *fakeBookingRepo) FindOverlapping(ctx context.Context, costumeID uuid.UUID, start, end time.Time, statuses []entity.BookingStatus) ([]*entity.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*entity.Booking
	for _, b := range r.bookings {
		if b.CostumeID != costumeID || !hasStatus(statuses, b.Status) {
			continue
		}
		if b.StartDate.After(end) || b.EndDate.Before(start) {
			continue
		}
		b := b
		out = append(out, &b)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out, nil
}

func (r *fakeBookingRepo) UpdateStatus(ctx context.Context, id uuid.UUID, from []entity.BookingStatus, to entity.BookingStatus, now time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.bookings[id]
	if !ok || !hasStatus(from, b.Status) {
		return false, nil
	}
	if b.Status == entity.BookingStatusPending && !b.BlockedUntil.After(now) {
		return false, nil
	}
	b.Status = to
	b.UpdatedAt = now
	r.bookings[id] = b
	return true, nil
}

func (r *fakeBookingRepo) MarkReturned(ctx context.Context, id uuid.UUID, returnedAt time.Time, lateFee float64, now time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.bookings[id]
	if !ok || b.Status != entity.BookingStatusConfirmed || b.ActualReturnDate != nil {
		return false, nil
	}
	b.Status = entity.BookingStatusCompleted
	b.ActualReturnDate = &returnedAt
	b.LateFeeAmount = lateFee
	b.UpdatedAt = now
	r.bookings[id] = b
	return true, nil
}

func (r *fakeBookingRepo) RecordRefund(ctx context.Context, id uuid.UUID, amount float64, notes *string, now time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.bookings[id]
	if !ok || b.ActualReturnDate == nil || b.SecurityDepositRefunded {
		return false, nil
	}
	b.SecurityDepositRefunded = true
	b.RefundAmount = &amount
	b.RefundNotes = notes
	b.RefundProcessedAt = &now
	b.UpdatedAt = now
	r.bookings[id] = b
	return true, nil
}

func (r *fakeBookingRepo) UpdateDetails(ctx context.Context, id uuid.UUID, details repository.BookingDetails, now time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.bookings[id]
	if !ok {
		return false, nil
	}
	b.CustomerName = details.CustomerName
	b.CustomerEmail = details.CustomerEmail
	b.CustomerPhone = details.CustomerPhone
	b.Notes = details.Notes
	b.UpdatedAt = now
	r.bookings[id] = b
	return true, nil
}

func (r *fakeBookingRepo) ExpireStale(ctx context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.expireErr != nil {
		return 0, r.expireErr
	}
	var n int64
	for id, b := range r.bookings {
		if b.Status == entity.BookingStatusPending && b.BlockedUntil.Before(now) {
			b.Status = entity.BookingStatusExpired
			b.UpdatedAt = now
			r.bookings[id] = b
			n++
		}
	}
	return n, nil
}

// fakeAvailabilityRepo stores block dates the way a DATE column returns them.
type fakeAvailabilityRepo struct {
	mu     sync.Mutex
	blocks map[uuid.UUID]entity.AvailabilityBlock
}

func asStoredDate(t time.Time) time.Time {
	d, _ := time.Parse(utils.DateLayout, utils.FormatDate(t))
	return d
}

func (r *fakeAvailabilityRepo) Create(ctx context.Context, block *entity.AvailabilityBlock) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b := *block
	b.StartDate = asStoredDate(b.StartDate)
	b.EndDate = asStoredDate(b.EndDate)
	r.blocks[b.ID] = b
	return nil
}

func (r *fakeAvailabilityRepo) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.blocks[id]; !ok {
		return false, nil
	}
	delete(r.blocks, id)
	return true, nil
}

func (r *fakeAvailabilityRepo) FindByCostume(ctx context.Context, costumeID uuid.UUID) ([]*entity.AvailabilityBlock, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*entity.AvailabilityBlock
	for _, b := range r.blocks {
		if b.CostumeID == costumeID {
			b := b
			out = append(out, &b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartDate.Before(out[j].StartDate) })
	return out, nil
}

func (r *fakeAvailabilityRepo) FindOverlapping(ctx context.Context, costumeID uuid.UUID, from, to time.Time) ([]*entity.AvailabilityBlock, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	fromDay, toDay := utils.FormatDate(from), utils.FormatDate(to)
	var out []*entity.AvailabilityBlock
	for _, b := range r.blocks {
		if b.CostumeID != costumeID {
			continue
		}
		if utils.FormatDate(b.StartDate) <= toDay && utils.FormatDate(b.EndDate) >= fromDay {
			b := b
			out = append(out, &b)
		}
	}
	return out, nil
}

func hasStatus(statuses []entity.BookingStatus, s entity.BookingStatus) bool {
	for _, st := range statuses {
		if st == s {
			return true
		}
	}
	return false
}

type testEnv struct {
	svc      *Service
	clock    *testClock
	costumes *fakeCostumeRepo
	bookings *fakeBookingRepo
	blocks   *fakeAvailabilityRepo
	costume  entity.Costume
}

func testConfig() *utils.Config {
	return &utils.Config{
		Booking: utils.BookingConfig{
			HoldMinutes:     10,
			SecurityDeposit: 100,
			LateFeePerHour:  30,
			PickupHour:      8,
			Timezone:        "UTC",
		},
		Messaging: utils.MessagingConfig{
			BaseURL:   "https://wa.me/",
			ShopPhone: "+62 812-3456-7890",
		},
	}
}

// newTestEnv starts the clock on 2024-06-01 09:00 UTC with one available
// costume renting at 50 per day and 250 per week.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		clock:    newTestClock(time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)),
		costumes: &fakeCostumeRepo{costumes: make(map[uuid.UUID]entity.Costume)},
		bookings: &fakeBookingRepo{bookings: make(map[uuid.UUID]entity.Booking)},
		blocks:   &fakeAvailabilityRepo{blocks: make(map[uuid.UUID]entity.AvailabilityBlock)},
	}

	env.costume = entity.Costume{
		Base:        entity.Base{ID: uuid.New()},
		Name:        "Vampire Count",
		DailyRate:   50,
		WeeklyRate:  250,
		Size:        "M",
		Difficulty:  "easy",
		IsAvailable: true,
	}
	env.costumes.put(env.costume)

	repo := &repository.Repository{
		Tx:           &fakeTx{},
		Costume:      env.costumes,
		Booking:      env.bookings,
		Availability: env.blocks,
	}

	svc, err := NewService(repo, testConfig(), env.clock, zap.NewNop())
	require.NoError(t, err)
	env.svc = svc

	return env
}

// seedBooking stores a booking directly, bypassing the ledger rules.
func (e *testEnv) seedBooking(status entity.BookingStatus, start, end time.Time) entity.Booking {
	now := e.clock.Now()
	b := entity.Booking{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		BookingReference: utils.GenerateBookingReference(now),
		CostumeID:        e.costume.ID,
		CustomerName:     "Seeded Customer",
		CustomerEmail:    "seed@example.com",
		CustomerPhone:    "0812000000",
		StartDate:        start,
		EndDate:          end,
		Status:           status,
		TotalPrice:       90,
		SecurityDeposit:  100,
	}
	if status == entity.BookingStatusPending {
		until := now.Add(10 * time.Minute)
		b.BlockedUntil = &until
	}
	e.bookings.put(b)
	return b
}
