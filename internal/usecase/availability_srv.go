package usecase

import (
	"context"
	"fmt"
	"sort"
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

// maxCalendarWindow caps BlockedDates lookups.
const maxCalendarWindow = 366 * 24 * time.Hour

var blockingStatuses = []entity.BookingStatus{entity.BookingStatusConfirmed, entity.BookingStatusPending}

// Availability is the outcome of an overlap check for one costume and range.
type Availability struct {
	Blocked bool
	// BlockingBooking is the earliest created confirmed booking in the
	// range, or the earliest active hold when no confirmed booking overlaps.
	BlockingBooking *entity.Booking
	// BlockedDates are the requested calendar days covered by admin blocks.
	BlockedDates []time.Time
}

// Conflict converts a blocked result into the error reported to callers.
// A hold is only reported as temporary when nothing permanent overlaps.
func (a *Availability) Conflict() *AvailabilityConflict {
	if !a.Blocked {
		return nil
	}

	b := a.BlockingBooking
	if b != nil && b.Status == entity.BookingStatusConfirmed {
		return &AvailabilityConflict{BookingID: &b.ID}
	}
	if len(a.BlockedDates) > 0 {
		return &AvailabilityConflict{BlockedDates: a.BlockedDates}
	}
	return &AvailabilityConflict{
		Temporary:    true,
		BlockedUntil: b.BlockedUntil,
		BookingID:    &b.ID,
	}
}

type AvailabilityService interface {
	IsBlocked(ctx context.Context, costumeID uuid.UUID, rng utils.DateRange, exclude *uuid.UUID) (*Availability, error)
	BlockedDates(ctx context.Context, costumeID uuid.UUID, from, to time.Time) ([]time.Time, error)

	Check(ctx context.Context, req *request.AvailabilityQuery) (*response.AvailabilityResponse, error)
	CreateBlock(ctx context.Context, req *request.CreateBlockRequest) (*response.AvailabilityBlockResponse, error)
	DeleteBlock(ctx context.Context, blockID string) error
	ListBlocks(ctx context.Context, costumeID string) ([]response.AvailabilityBlockResponse, error)
}

type availabilityService struct {
	repo    *repository.Repository
	sweeper *HoldSweeper
	clock   clock.Clock
	loc     *time.Location
	log     *zap.Logger
}

func NewAvailabilityService(repo *repository.Repository, sweeper *HoldSweeper, clk clock.Clock, loc *time.Location, log *zap.Logger) AvailabilityService {
	return &availabilityService{
		repo:    repo,
		sweeper: sweeper,
		clock:   clk,
		loc:     loc,
		log:     log.With(zap.String("service", "availability")),
	}
}

func (s *availabilityService) IsBlocked(ctx context.Context, costumeID uuid.UUID, rng utils.DateRange, exclude *uuid.UUID) (*Availability, error) {
	now := s.clock.Now()

	bookings, err := s.repo.Booking.FindOverlapping(ctx, costumeID, rng.Start, rng.End, blockingStatuses)
	if err != nil {
		return nil, fmt.Errorf("check bookings for costume %s: %w", costumeID.String(), err)
	}
	sortByCreation(bookings)

	result := &Availability{}
	var firstHold *entity.Booking
	for _, b := range bookings {
		if exclude != nil && b.ID == *exclude {
			continue
		}
		if !b.BlocksAvailability(now) {
			continue
		}
		if b.Status == entity.BookingStatusConfirmed {
			result.BlockingBooking = b
			break
		}
		if firstHold == nil {
			firstHold = b
		}
	}
	if result.BlockingBooking == nil {
		result.BlockingBooking = firstHold
	}

	blocks, err := s.repo.Availability.FindOverlapping(ctx, costumeID,
		utils.StartOfDay(rng.Start, s.loc), utils.StartOfDay(rng.End, s.loc))
	if err != nil {
		return nil, fmt.Errorf("check availability blocks for costume %s: %w", costumeID.String(), err)
	}
	result.BlockedDates = s.datesCoveredByBlocks(rng, blocks)

	result.Blocked = result.BlockingBooking != nil || len(result.BlockedDates) > 0
	return result, nil
}

func (s *availabilityService) BlockedDates(ctx context.Context, costumeID uuid.UUID, from, to time.Time) ([]time.Time, error) {
	window, err := utils.NewDateRange(utils.StartOfDay(from, s.loc), utils.StartOfDay(to, s.loc).Add(24*time.Hour-time.Nanosecond))
	if err != nil {
		return nil, validationError("end_date", "Must not be before start_date")
	}
	if window.Duration() > maxCalendarWindow {
		return nil, validationError("end_date", "Window must not exceed 366 days")
	}

	now := s.clock.Now()
	covered := make(map[string]time.Time)

	bookings, err := s.repo.Booking.FindOverlapping(ctx, costumeID, window.Start, window.End, blockingStatuses)
	if err != nil {
		return nil, fmt.Errorf("list bookings for costume %s: %w", costumeID.String(), err)
	}
	for _, b := range bookings {
		if !b.BlocksAvailability(now) {
			continue
		}
		overlap, ok := window.Intersect(utils.DateRange{Start: b.StartDate, End: b.EndDate})
		if !ok {
			continue
		}
		for _, d := range overlap.Dates(s.loc) {
			covered[utils.FormatDate(d)] = d
		}
	}

	blocks, err := s.repo.Availability.FindOverlapping(ctx, costumeID, window.Start, window.End)
	if err != nil {
		return nil, fmt.Errorf("list availability blocks for costume %s: %w", costumeID.String(), err)
	}
	for _, d := range s.datesCoveredByBlocks(window, blocks) {
		covered[utils.FormatDate(d)] = d
	}

	dates := make([]time.Time, 0, len(covered))
	for _, d := range covered {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates, nil
}

// datesCoveredByBlocks lists the calendar days of rng that fall inside any block.
func (s *availabilityService) datesCoveredByBlocks(rng utils.DateRange, blocks []*entity.AvailabilityBlock) []time.Time {
	if len(blocks) == 0 {
		return nil
	}

	var dates []time.Time
	for _, d := range rng.Dates(s.loc) {
		for _, block := range blocks {
			blocked := utils.DateRange{
				Start: utils.CalendarDate(block.StartDate, s.loc),
				End:   utils.CalendarDate(block.EndDate, s.loc),
			}
			if blocked.ContainsDate(d, s.loc) {
				dates = append(dates, d)
				break
			}
		}
	}
	return dates
}

func (s *availabilityService) Check(ctx context.Context, req *request.AvailabilityQuery) (*response.AvailabilityResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Availability query validation failed", zap.Any("errors", errs))
		return nil, &ValidationError{Fields: errs}
	}

	costumeID, _ := uuid.Parse(req.CostumeID)
	rng, err := parseRange(req.StartDate, req.EndDate, s.loc)
	if err != nil {
		return nil, err
	}

	s.sweeper.Sweep(ctx)

	var exclude *uuid.UUID
	if req.ExcludeBookingID != "" {
		id, _ := uuid.Parse(req.ExcludeBookingID)
		exclude = &id
	}

	availability, err := s.IsBlocked(ctx, costumeID, rng, exclude)
	if err != nil {
		s.log.Error("Failed to check availability",
			zap.Error(err),
			zap.String("costume_id", req.CostumeID),
		)
		return nil, err
	}

	calendar, err := s.BlockedDates(ctx, costumeID, rng.Start, rng.End)
	if err != nil {
		return nil, err
	}

	resp := &response.AvailabilityResponse{
		CostumeID:    req.CostumeID,
		StartDate:    rng.Start,
		EndDate:      rng.End,
		Available:    !availability.Blocked,
		BlockedDates: make([]string, 0, len(calendar)),
	}
	for _, d := range calendar {
		resp.BlockedDates = append(resp.BlockedDates, utils.FormatDate(d))
	}
	if conflict := availability.Conflict(); conflict != nil {
		resp.Temporary = conflict.Temporary
		resp.BlockedUntil = conflict.BlockedUntil
		resp.Message = conflict.Error()
	}

	return resp, nil
}

func (s *availabilityService) CreateBlock(ctx context.Context, req *request.CreateBlockRequest) (*response.AvailabilityBlockResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create availability block validation failed", zap.Any("errors", errs))
		return nil, &ValidationError{Fields: errs}
	}

	costumeID, _ := uuid.Parse(req.CostumeID)
	start, _ := time.Parse(utils.DateLayout, req.StartDate)
	end, _ := time.Parse(utils.DateLayout, req.EndDate)
	if end.Before(start) {
		return nil, validationError("end_date", "Must not be before start_date")
	}

	costume, err := s.repo.Costume.FindByID(ctx, costumeID)
	if err != nil {
		return nil, err
	}
	if costume == nil {
		return nil, notFound("costume", costumeID)
	}

	block := &entity.AvailabilityBlock{
		BaseSimple: entity.BaseSimple{
			ID:        utils.GenerateUUID(),
			CreatedAt: s.clock.Now(),
		},
		CostumeID: costumeID,
		StartDate: start,
		EndDate:   end,
		Reason:    req.Reason,
	}

	if err := s.repo.Availability.Create(ctx, block); err != nil {
		return nil, err
	}

	s.log.Info("Availability block created",
		zap.String("block_id", block.ID.String()),
		zap.String("costume_id", req.CostumeID),
		zap.String("start_date", req.StartDate),
		zap.String("end_date", req.EndDate),
	)

	resp := response.AvailabilityBlockToResponse(block)
	return &resp, nil
}

func (s *availabilityService) DeleteBlock(ctx context.Context, blockID string) error {
	id, err := parseID("id", blockID)
	if err != nil {
		return err
	}

	deleted, err := s.repo.Availability.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return notFound("availability block", id)
	}

	s.log.Info("Availability block deleted", zap.String("block_id", blockID))
	return nil
}

func (s *availabilityService) ListBlocks(ctx context.Context, costumeID string) ([]response.AvailabilityBlockResponse, error) {
	id, err := parseID("costume_id", costumeID)
	if err != nil {
		return nil, err
	}

	blocks, err := s.repo.Availability.FindByCostume(ctx, id)
	if err != nil {
		return nil, err
	}

	resp := make([]response.AvailabilityBlockResponse, 0, len(blocks))
	for _, b := range blocks {
		resp = append(resp, response.AvailabilityBlockToResponse(b))
	}
	return resp, nil
}

func sortByCreation(bookings []*entity.Booking) {
	sort.SliceStable(bookings, func(i, j int) bool {
		if !bookings[i].CreatedAt.Equal(bookings[j].CreatedAt) {
			return bookings[i].CreatedAt.Before(bookings[j].CreatedAt)
		}
		return bookings[i].ID.String() < bookings[j].ID.String()
	})
}

func parseID(field, value string) (uuid.UUID, error) {
	id, err := utils.ParseUUID(value)
	if err != nil {
		return uuid.Nil, validationError(field, "Must be a valid UUID")
	}
	return id, nil
}

func parseRange(startValue, endValue string, loc *time.Location) (utils.DateRange, error) {
	start, err := utils.ParseDateTime(startValue, loc)
	if err != nil {
		return utils.DateRange{}, validationError("start_date", err.Error())
	}
	end, err := utils.ParseDateTime(endValue, loc)
	if err != nil {
		return utils.DateRange{}, validationError("end_date", err.Error())
	}
	rng, err := utils.NewDateRange(start, end)
	if err != nil {
		return utils.DateRange{}, validationError("end_date", "Must not be before start_date")
	}
	return rng, nil
}
