package usecase

import (
	"context"
	"time"

	"costume-rental/internal/data/entity"
	"costume-rental/internal/data/repository"
	"costume-rental/internal/dto/request"
	"costume-rental/internal/dto/response"
	"costume-rental/pkg/utils"

	"go.uber.org/zap"
)

type CostumeService interface {
	// Quote prices a prospective rental without persisting anything.
	Quote(ctx context.Context, costumeID string, req *request.QuoteRequest) (*response.QuoteResponse, error)
}

type costumeService struct {
	repo         *repository.Repository
	sweeper      *HoldSweeper
	policy       *SeasonalPolicy
	pricing      *PricingEngine
	availability AvailabilityService
	loc          *time.Location
	log          *zap.Logger
}

func NewCostumeService(repo *repository.Repository, sweeper *HoldSweeper, policy *SeasonalPolicy, pricing *PricingEngine, availability AvailabilityService, loc *time.Location, log *zap.Logger) CostumeService {
	return &costumeService{
		repo:         repo,
		sweeper:      sweeper,
		policy:       policy,
		pricing:      pricing,
		availability: availability,
		loc:          loc,
		log:          log.With(zap.String("service", "costume")),
	}
}

func (s *costumeService) Quote(ctx context.Context, costumeID string, req *request.QuoteRequest) (*response.QuoteResponse, error) {
	id, err := parseID("id", costumeID)
	if err != nil {
		return nil, err
	}
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}

	start, err := utils.ParseDateTime(req.StartDate, s.loc)
	if err != nil {
		return nil, validationError("start_date", err.Error())
	}

	s.sweeper.Sweep(ctx)

	costume, err := s.repo.Costume.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if costume == nil {
		return nil, notFound("costume", id)
	}

	rules := s.policy.RulesFor(start)
	resp := &response.QuoteResponse{
		CostumeID:            costume.ID.String(),
		CostumeName:          costume.Name,
		Season:               string(rules.Season),
		AllowedDurationCodes: rules.AllowedDurationCodes,
		MinHours:             rules.MinHours,
		MaxHours:             rules.MaxHours,
		StartDate:            start,
		SecurityDeposit:      s.pricing.SecurityDeposit(),
	}

	var end *time.Time
	switch {
	case req.EndDate != "":
		e, err := utils.ParseDateTime(req.EndDate, s.loc)
		if err != nil {
			return nil, validationError("end_date", err.Error())
		}
		if !e.After(start) {
			return nil, validationError("end_date", "Must be after start_date")
		}
		end = &e
	case req.DurationCode != "":
		e := start.Add(entity.DurationCode(req.DurationCode).Length())
		end = &e
	}

	if req.DurationCode != "" {
		code := entity.DurationCode(req.DurationCode)
		if err := s.policy.ValidateDuration(start, code); err != nil {
			return nil, err
		}
		price, err := s.pricing.Price(costume, code)
		if err != nil {
			return nil, err
		}
		resp.DurationCode = &code
		resp.Price = &price
	}

	if end == nil {
		return resp, nil
	}

	if err := s.policy.Validate(start, *end); err != nil {
		return nil, err
	}
	if resp.Price == nil {
		price := s.pricing.PriceForRange(costume, start, *end)
		resp.Price = &price
	}
	resp.EndDate = end

	availability, err := s.availability.IsBlocked(ctx, id, utils.DateRange{Start: start, End: *end}, nil)
	if err != nil {
		s.log.Error("Failed to check availability for quote",
			zap.Error(err),
			zap.String("costume_id", costumeID),
		)
		return nil, err
	}
	available := costume.IsAvailable && !availability.Blocked
	resp.Available = &available

	return resp, nil
}
