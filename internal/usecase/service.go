package usecase

import (
	"fmt"

	"costume-rental/internal/data/repository"
	"costume-rental/pkg/clock"
	"costume-rental/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Booking      BookingService
	Refund       RefundService
	Availability AvailabilityService
	Costume      CostumeService
}

func NewService(repo *repository.Repository, config *utils.Config, clk clock.Clock, log *zap.Logger) (*Service, error) {
	loc, err := config.Booking.Location()
	if err != nil {
		return nil, fmt.Errorf("booking timezone: %w", err)
	}

	policy := NewSeasonalPolicy(loc)
	pricing := NewPricingEngine(config.Booking, loc)
	handoff := NewHandoffBuilder(config.Messaging, loc)
	sweeper := NewHoldSweeper(repo.Booking, clk, log)
	availability := NewAvailabilityService(repo, sweeper, clk, loc, log)

	return &Service{
		Booking:      NewBookingService(repo, sweeper, policy, pricing, availability, handoff, clk, loc, config.Booking.HoldDuration(), log),
		Refund:       NewRefundService(repo, sweeper, pricing, clk, log),
		Availability: availability,
		Costume:      NewCostumeService(repo, sweeper, policy, pricing, availability, loc, log),
	}, nil
}
