package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"costume-rental/internal/data/entity"
	"costume-rental/internal/data/repository"
	"costume-rental/internal/dto/request"
	"costume-rental/internal/dto/response"
	"costume-rental/pkg/clock"
	"costume-rental/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const maxReferenceAttempts = 3

type BookingService interface {
	// Public endpoints
	CreateHold(ctx context.Context, req *request.CreateBookingRequest) (*response.HoldResponse, error)
	GetByReference(ctx context.Context, reference string) (*response.BookingResponse, error)
	CancelByReference(ctx context.Context, reference string, req *request.CustomerCancelRequest) (*response.BookingResponse, error)

	// Admin endpoints
	GetByID(ctx context.Context, bookingID string) (*response.BookingResponse, error)
	List(ctx context.Context, req *request.ListBookingsRequest) (*response.PaginatedResponse[response.BookingResponse], error)
	UpdateStatus(ctx context.Context, bookingID string, req *request.UpdateBookingStatusRequest) (*response.BookingResponse, error)
	Confirm(ctx context.Context, bookingID string) (*response.BookingResponse, error)
	Cancel(ctx context.Context, bookingID string) (*response.BookingResponse, error)
	MarkReturned(ctx context.Context, bookingID string, req *request.ReturnBookingRequest) (*response.BookingResponse, error)
	UpdateDetails(ctx context.Context, bookingID string, req *request.UpdateBookingRequest) (*response.BookingResponse, error)
	Delete(ctx context.Context, bookingID string) error

	// Sweep expires every lapsed hold and returns how many rows it touched.
	// Failures are logged and reported as zero.
	Sweep(ctx context.Context) int64
}

// HoldSweeper demotes lapsed holds to expired. It runs at the top of every
// ledger operation; concurrent sweeps converge on the same rows.
type HoldSweeper struct {
	bookings repository.BookingRepository
	clock    clock.Clock
	log      *zap.Logger
}

func NewHoldSweeper(bookings repository.BookingRepository, clk clock.Clock, log *zap.Logger) *HoldSweeper {
	return &HoldSweeper{
		bookings: bookings,
		clock:    clk,
		log:      log.With(zap.String("service", "sweeper")),
	}
}

func (h *HoldSweeper) Sweep(ctx context.Context) int64 {
	n, err := h.bookings.ExpireStale(ctx, h.clock.Now())
	if err != nil {
		h.log.Warn("Failed to sweep expired holds", zap.Error(err))
		return 0
	}
	if n > 0 {
		h.log.Info("Expired stale holds", zap.Int64("count", n))
	}
	return n
}

type bookingService struct {
	repo         *repository.Repository
	sweeper      *HoldSweeper
	policy       *SeasonalPolicy
	pricing      *PricingEngine
	availability AvailabilityService
	handoff      *HandoffBuilder
	clock        clock.Clock
	loc          *time.Location
	holdDuration time.Duration
	log          *zap.Logger
}

func NewBookingService(
	repo *repository.Repository,
	sweeper *HoldSweeper,
	policy *SeasonalPolicy,
	pricing *PricingEngine,
	availability AvailabilityService,
	handoff *HandoffBuilder,
	clk clock.Clock,
	loc *time.Location,
	holdDuration time.Duration,
	log *zap.Logger,
) BookingService {
	return &bookingService{
		repo:         repo,
		sweeper:      sweeper,
		policy:       policy,
		pricing:      pricing,
		availability: availability,
		handoff:      handoff,
		clock:        clk,
		loc:          loc,
		holdDuration: holdDuration,
		log:          log.With(zap.String("service", "booking")),
	}
}

func (s *bookingService) Sweep(ctx context.Context) int64 {
	return s.sweeper.Sweep(ctx)
}

func (s *bookingService) CreateHold(ctx context.Context, req *request.CreateBookingRequest) (*response.HoldResponse, error) {
	// Validate request
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create booking validation failed", zap.Any("errors", errs))
		return nil, &ValidationError{Fields: errs}
	}
	if strings.TrimSpace(req.CustomerName) == "" {
		return nil, validationError("customer_name", "This field is required")
	}

	costumeID, _ := uuid.Parse(req.CostumeID)
	var code *entity.DurationCode
	if req.DurationCode != "" {
		c := entity.DurationCode(req.DurationCode)
		code = &c
	}

	rng, err := s.requestedRange(req.StartDate, req.EndDate, code)
	if err != nil {
		return nil, err
	}

	s.sweeper.Sweep(ctx)

	// Season rules
	if err := s.policy.Validate(rng.Start, rng.End); err != nil {
		s.log.Info("Seasonal rule rejected booking",
			zap.String("costume_id", req.CostumeID),
			zap.Time("start", rng.Start),
			zap.Time("end", rng.End),
			zap.Error(err),
		)
		return nil, err
	}
	if code != nil {
		if err := s.policy.ValidateDuration(rng.Start, *code); err != nil {
			return nil, err
		}
	}

	var (
		booking *entity.Booking
		costume *entity.Costume
	)
	err = s.repo.Tx.WithTx(ctx, func(ctx context.Context) error {
		// The row lock serialises concurrent holds on the same costume
		// until this transaction ends.
		var err error
		costume, err = s.repo.Costume.FindByIDForUpdate(ctx, costumeID)
		if err != nil {
			return err
		}
		if costume == nil {
			return notFound("costume", costumeID)
		}
		if !costume.IsAvailable {
			return validationError("costume_id", "Costume is not available for rental")
		}

		availability, err := s.availability.IsBlocked(ctx, costumeID, rng, nil)
		if err != nil {
			return err
		}
		if conflict := availability.Conflict(); conflict != nil {
			return conflict
		}

		price := s.pricing.PriceForRange(costume, rng.Start, rng.End)
		if code != nil {
			if price, err = s.pricing.Price(costume, *code); err != nil {
				return err
			}
		}

		now := s.clock.Now()
		blockedUntil := now.Add(s.holdDuration)
		booking = &entity.Booking{
			Base: entity.Base{
				ID:        utils.GenerateUUID(),
				CreatedAt: now,
				UpdatedAt: now,
			},
			CostumeID:       costumeID,
			CustomerName:    strings.TrimSpace(req.CustomerName),
			CustomerEmail:   strings.TrimSpace(req.CustomerEmail),
			CustomerPhone:   strings.TrimSpace(req.CustomerPhone),
			StartDate:       rng.Start,
			EndDate:         rng.End,
			DurationCode:    code,
			Status:          entity.BookingStatusPending,
			BlockedUntil:    &blockedUntil,
			TotalPrice:      price,
			SecurityDeposit: s.pricing.SecurityDeposit(),
			Notes:           req.Notes,
		}

		return s.insertWithFreshReference(ctx, booking)
	})
	if err != nil {
		var conflict *AvailabilityConflict
		if errors.As(err, &conflict) {
			s.log.Info("Booking rejected by availability",
				zap.String("costume_id", req.CostumeID),
				zap.Bool("temporary", conflict.Temporary),
			)
			return nil, err
		}
		if errors.Is(err, ErrValidation) || errors.Is(err, ErrNotFound) {
			return nil, err
		}
		s.log.Error("Failed to create booking",
			zap.Error(err),
			zap.String("costume_id", req.CostumeID),
		)
		return nil, fmt.Errorf("create booking: %w", err)
	}

	s.log.Info("Hold placed",
		zap.String("booking_id", booking.ID.String()),
		zap.String("booking_reference", booking.BookingReference),
		zap.String("costume_id", req.CostumeID),
		zap.Float64("total_price", booking.TotalPrice),
		zap.Time("blocked_until", *booking.BlockedUntil),
	)

	return &response.HoldResponse{
		Booking:       response.BookingToResponse(booking, s.clock.Now()),
		CostumeName:   costume.Name,
		HoldExpiresAt: *booking.BlockedUntil,
		HandoffURL:    s.handoff.Link(booking, costume.Name),
	}, nil
}

// requestedRange resolves the rental span. Without an end date the span is
// the length of the duration code.
func (s *bookingService) requestedRange(startValue, endValue string, code *entity.DurationCode) (utils.DateRange, error) {
	start, err := utils.ParseDateTime(startValue, s.loc)
	if err != nil {
		return utils.DateRange{}, validationError("start_date", err.Error())
	}

	var end time.Time
	switch {
	case endValue != "":
		if end, err = utils.ParseDateTime(endValue, s.loc); err != nil {
			return utils.DateRange{}, validationError("end_date", err.Error())
		}
		if code != nil && code.Valid() && !end.Equal(start.Add(code.Length())) {
			return utils.DateRange{}, validationError("end_date",
				fmt.Sprintf("Must equal start_date plus duration_code %s", *code))
		}
	case code != nil:
		end = start.Add(code.Length())
	default:
		return utils.DateRange{}, validationError("end_date", "This field is required when duration_code is not provided")
	}

	if !end.After(start) {
		return utils.DateRange{}, validationError("end_date", "Must be after start_date")
	}
	return utils.DateRange{Start: start, End: end}, nil
}

// insertWithFreshReference retries reference collisions with a new reference.
// Each attempt runs under its own savepoint.
func (s *bookingService) insertWithFreshReference(ctx context.Context, booking *entity.Booking) error {
	var err error
	for attempt := 1; attempt <= maxReferenceAttempts; attempt++ {
		booking.BookingReference = utils.GenerateBookingReference(s.clock.Now())
		err = s.repo.Tx.WithTx(ctx, func(ctx context.Context) error {
			return s.repo.Booking.Create(ctx, booking)
		})
		if !errors.Is(err, repository.ErrDuplicateReference) {
			return err
		}
		s.log.Warn("Booking reference collision",
			zap.String("booking_reference", booking.BookingReference),
			zap.Int("attempt", attempt),
		)
	}
	return err
}

func (s *bookingService) GetByID(ctx context.Context, bookingID string) (*response.BookingResponse, error) {
	id, err := parseID("id", bookingID)
	if err != nil {
		return nil, err
	}

	s.sweeper.Sweep(ctx)

	booking, err := s.findBooking(ctx, id)
	if err != nil {
		return nil, err
	}

	resp := response.BookingToResponse(booking, s.clock.Now())
	return &resp, nil
}

func (s *bookingService) GetByReference(ctx context.Context, reference string) (*response.BookingResponse, error) {
	s.sweeper.Sweep(ctx)

	booking, err := s.findByReference(ctx, reference)
	if err != nil {
		return nil, err
	}

	resp := response.BookingToResponse(booking, s.clock.Now())
	return &resp, nil
}

func (s *bookingService) List(ctx context.Context, req *request.ListBookingsRequest) (*response.PaginatedResponse[response.BookingResponse], error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}

	var filter repository.BookingFilter
	if req.Status != "" {
		status, _ := entity.ParseBookingStatus(req.Status)
		filter.Status = &status
	}
	if req.CostumeID != "" {
		costumeID, _ := uuid.Parse(req.CostumeID)
		filter.CostumeID = &costumeID
	}

	s.sweeper.Sweep(ctx)

	limit := req.Limit()
	offset := req.Offset()

	bookings, err := s.repo.Booking.FindAll(ctx, filter, limit, offset)
	if err != nil {
		s.log.Error("Failed to list bookings", zap.Error(err))
		return nil, fmt.Errorf("list bookings: %w", err)
	}

	total, err := s.repo.Booking.Count(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("count bookings: %w", err)
	}

	now := s.clock.Now()
	data := make([]response.BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		data = append(data, response.BookingToResponse(b, now))
	}

	return response.NewPaginatedResponse(data, req.Page, limit, total), nil
}

func (s *bookingService) UpdateStatus(ctx context.Context, bookingID string, req *request.UpdateBookingStatusRequest) (*response.BookingResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}

	switch entity.BookingStatus(req.Status) {
	case entity.BookingStatusConfirmed:
		return s.Confirm(ctx, bookingID)
	default:
		return s.Cancel(ctx, bookingID)
	}
}

func (s *bookingService) Confirm(ctx context.Context, bookingID string) (*response.BookingResponse, error) {
	return s.transition(ctx, bookingID, entity.BookingStatusConfirmed)
}

func (s *bookingService) Cancel(ctx context.Context, bookingID string) (*response.BookingResponse, error) {
	return s.transition(ctx, bookingID, entity.BookingStatusCancelled)
}

func (s *bookingService) CancelByReference(ctx context.Context, reference string, req *request.CustomerCancelRequest) (*response.BookingResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}

	s.sweeper.Sweep(ctx)

	booking, err := s.findByReference(ctx, reference)
	if err != nil {
		return nil, err
	}
	// A wrong email must not reveal that the reference exists.
	if !strings.EqualFold(strings.TrimSpace(req.CustomerEmail), booking.CustomerEmail) {
		return nil, notFound("booking", reference)
	}

	return s.apply(ctx, booking, entity.BookingStatusCancelled)
}

func (s *bookingService) transition(ctx context.Context, bookingID string, to entity.BookingStatus) (*response.BookingResponse, error) {
	id, err := parseID("id", bookingID)
	if err != nil {
		return nil, err
	}

	s.sweeper.Sweep(ctx)

	booking, err := s.findBooking(ctx, id)
	if err != nil {
		return nil, err
	}

	return s.apply(ctx, booking, to)
}

// apply moves booking to status to through a guarded update, so a
// concurrent confirm, cancel or sweep leaves exactly one winner.
func (s *bookingService) apply(ctx context.Context, booking *entity.Booking, to entity.BookingStatus) (*response.BookingResponse, error) {
	now := s.clock.Now()
	current := booking.EffectiveStatus(now)
	if !current.CanTransitionTo(to) {
		return nil, invalidState("booking %s is %s and cannot become %s", booking.BookingReference, current, to)
	}

	updated, err := s.repo.Booking.UpdateStatus(ctx, booking.ID, entity.StatusesAllowing(to), to, now)
	if err != nil {
		s.log.Error("Failed to update booking status",
			zap.Error(err),
			zap.String("booking_id", booking.ID.String()),
			zap.String("status", string(to)),
		)
		return nil, fmt.Errorf("update booking status: %w", err)
	}
	if !updated {
		return nil, invalidState("booking %s changed state before it could become %s", booking.BookingReference, to)
	}

	s.log.Info("Booking status changed",
		zap.String("booking_id", booking.ID.String()),
		zap.String("booking_reference", booking.BookingReference),
		zap.String("from", string(current)),
		zap.String("to", string(to)),
		zap.String("actor", utils.GetActorFromContext(ctx)),
	)

	return s.reload(ctx, booking.ID)
}

func (s *bookingService) MarkReturned(ctx context.Context, bookingID string, req *request.ReturnBookingRequest) (*response.BookingResponse, error) {
	id, err := parseID("id", bookingID)
	if err != nil {
		return nil, err
	}
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}
	returnedAt, err := utils.ParseDateTime(req.ActualReturnDate, s.loc)
	if err != nil {
		return nil, validationError("actual_return_date", err.Error())
	}

	s.sweeper.Sweep(ctx)

	booking, err := s.findBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	if booking.ActualReturnDate != nil {
		return nil, invalidState("booking %s was already returned", booking.BookingReference)
	}
	if status := booking.EffectiveStatus(s.clock.Now()); status != entity.BookingStatusConfirmed {
		return nil, invalidState("booking %s is %s, only confirmed bookings can be returned", booking.BookingReference, status)
	}
	if returnedAt.Before(booking.StartDate) {
		return nil, validationError("actual_return_date", "Must not be before the rental start")
	}

	costume, err := s.repo.Costume.FindByID(ctx, booking.CostumeID)
	if err != nil {
		return nil, err
	}

	expected := s.pricing.ExpectedReturn(booking.EndDate)
	lateFee := s.pricing.LateFee(returnedAt, expected, s.pricing.LateFeeRate(costume))

	updated, err := s.repo.Booking.MarkReturned(ctx, id, returnedAt, lateFee, s.clock.Now())
	if err != nil {
		s.log.Error("Failed to mark booking returned",
			zap.Error(err),
			zap.String("booking_id", bookingID),
		)
		return nil, fmt.Errorf("mark booking returned: %w", err)
	}
	if !updated {
		return nil, invalidState("booking %s was returned or cancelled concurrently", booking.BookingReference)
	}

	s.log.Info("Booking returned",
		zap.String("booking_id", bookingID),
		zap.Time("expected_return", expected),
		zap.Time("actual_return", returnedAt),
		zap.Float64("late_fee", lateFee),
	)

	return s.reload(ctx, id)
}

func (s *bookingService) UpdateDetails(ctx context.Context, bookingID string, req *request.UpdateBookingRequest) (*response.BookingResponse, error) {
	id, err := parseID("id", bookingID)
	if err != nil {
		return nil, err
	}
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}

	s.sweeper.Sweep(ctx)

	details := repository.BookingDetails{
		CustomerName:  strings.TrimSpace(req.CustomerName),
		CustomerEmail: strings.TrimSpace(req.CustomerEmail),
		CustomerPhone: strings.TrimSpace(req.CustomerPhone),
		Notes:         req.Notes,
	}

	updated, err := s.repo.Booking.UpdateDetails(ctx, id, details, s.clock.Now())
	if err != nil {
		return nil, fmt.Errorf("update booking: %w", err)
	}
	if !updated {
		return nil, notFound("booking", id)
	}

	return s.reload(ctx, id)
}

func (s *bookingService) Delete(ctx context.Context, bookingID string) error {
	id, err := parseID("id", bookingID)
	if err != nil {
		return err
	}

	deleted, err := s.repo.Booking.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete booking: %w", err)
	}
	if !deleted {
		return notFound("booking", id)
	}
	return nil
}

func (s *bookingService) findBooking(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	booking, err := s.repo.Booking.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, notFound("booking", id)
	}
	return booking, nil
}

func (s *bookingService) findByReference(ctx context.Context, reference string) (*entity.Booking, error) {
	reference = strings.ToUpper(strings.TrimSpace(reference))
	if reference == "" {
		return nil, validationError("reference", "This field is required")
	}

	booking, err := s.repo.Booking.FindByReference(ctx, reference)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, notFound("booking", reference)
	}
	return booking, nil
}

func (s *bookingService) reload(ctx context.Context, id uuid.UUID) (*response.BookingResponse, error) {
	booking, err := s.findBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := response.BookingToResponse(booking, s.clock.Now())
	return &resp, nil
}
