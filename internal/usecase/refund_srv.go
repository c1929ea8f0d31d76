package usecase

import (
	"context"
	"fmt"

	"costume-rental/internal/data/entity"
	"costume-rental/internal/data/repository"
	"costume-rental/internal/dto/request"
	"costume-rental/internal/dto/response"
	"costume-rental/pkg/clock"
	"costume-rental/pkg/utils"

	"go.uber.org/zap"
)

type RefundService interface {
	GetRefund(ctx context.Context, bookingID string) (*response.RefundResponse, error)
	ProcessRefund(ctx context.Context, bookingID string, req *request.ProcessRefundRequest) (*response.RefundResponse, error)
}

type refundService struct {
	repo    *repository.Repository
	sweeper *HoldSweeper
	pricing *PricingEngine
	clock   clock.Clock
	log     *zap.Logger
}

func NewRefundService(repo *repository.Repository, sweeper *HoldSweeper, pricing *PricingEngine, clk clock.Clock, log *zap.Logger) RefundService {
	return &refundService{
		repo:    repo,
		sweeper: sweeper,
		pricing: pricing,
		clock:   clk,
		log:     log.With(zap.String("service", "refund")),
	}
}

// GetRefund summarises the deposit settlement. Before a return is recorded
// the late fee is projected as if the costume came back now.
func (s *refundService) GetRefund(ctx context.Context, bookingID string) (*response.RefundResponse, error) {
	id, err := parseID("id", bookingID)
	if err != nil {
		return nil, err
	}

	s.sweeper.Sweep(ctx)

	booking, err := s.repo.Booking.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, notFound("booking", id)
	}

	lateFee := booking.LateFeeAmount
	projected := false
	if booking.ActualReturnDate == nil && booking.EffectiveStatus(s.clock.Now()) == entity.BookingStatusConfirmed {
		costume, err := s.repo.Costume.FindByID(ctx, booking.CostumeID)
		if err != nil {
			return nil, err
		}
		lateFee = s.pricing.LateFee(s.clock.Now(), s.pricing.ExpectedReturn(booking.EndDate), s.pricing.LateFeeRate(costume))
		projected = true
	}

	return s.toResponse(booking, lateFee, projected), nil
}

func (s *refundService) ProcessRefund(ctx context.Context, bookingID string, req *request.ProcessRefundRequest) (*response.RefundResponse, error) {
	id, err := parseID("id", bookingID)
	if err != nil {
		return nil, err
	}
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}

	s.sweeper.Sweep(ctx)

	booking, err := s.repo.Booking.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, notFound("booking", id)
	}
	if booking.ActualReturnDate == nil {
		return nil, invalidState("booking %s has no recorded return", booking.BookingReference)
	}
	if booking.SecurityDepositRefunded {
		return nil, invalidState("deposit for booking %s was already refunded", booking.BookingReference)
	}

	amount := s.pricing.EstimatedRefund(booking.SecurityDeposit, booking.LateFeeAmount)
	if req.Amount != nil {
		if *req.Amount > booking.SecurityDeposit {
			return nil, validationError("amount", fmt.Sprintf("Must not exceed the security deposit of %.2f", booking.SecurityDeposit))
		}
		amount = roundMoney(*req.Amount)
	}

	recorded, err := s.repo.Booking.RecordRefund(ctx, id, amount, req.Notes, s.clock.Now())
	if err != nil {
		s.log.Error("Failed to record refund",
			zap.Error(err),
			zap.String("booking_id", bookingID),
		)
		return nil, fmt.Errorf("record refund: %w", err)
	}
	if !recorded {
		return nil, invalidState("deposit for booking %s was already refunded", booking.BookingReference)
	}

	s.log.Info("Deposit refunded",
		zap.String("booking_id", bookingID),
		zap.String("booking_reference", booking.BookingReference),
		zap.Float64("amount", amount),
		zap.Bool("override", req.Amount != nil),
	)

	booking, err = s.repo.Booking.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, notFound("booking", id)
	}
	return s.toResponse(booking, booking.LateFeeAmount, false), nil
}

func (s *refundService) toResponse(booking *entity.Booking, lateFee float64, projected bool) *response.RefundResponse {
	return &response.RefundResponse{
		BookingID:          booking.ID.String(),
		BookingReference:   booking.BookingReference,
		SecurityDeposit:    booking.SecurityDeposit,
		ExpectedReturn:     s.pricing.ExpectedReturn(booking.EndDate),
		ActualReturnDate:   booking.ActualReturnDate,
		LateFeeAmount:      lateFee,
		LateFeeProjected:   projected,
		EstimatedRefund:    s.pricing.EstimatedRefund(booking.SecurityDeposit, lateFee),
		OutstandingLateFee: s.pricing.OutstandingLateFee(booking.SecurityDeposit, lateFee),
		Refunded:           booking.SecurityDepositRefunded,
		RefundAmount:       booking.RefundAmount,
		RefundProcessedAt:  booking.RefundProcessedAt,
		RefundNotes:        booking.RefundNotes,
	}
}
