package usecase

import (
	"math"
	"time"

	"costume-rental/internal/data/entity"
	"costume-rental/pkg/utils"
)

const (
	halfDayFactor      = 0.6
	multiDayDiscount   = 0.9
	longRentalDiscount = 0.85
)

// PricingEngine turns a costume rate card into rental prices and computes
// the deposit and late-return arithmetic.
type PricingEngine struct {
	securityDeposit float64
	lateFeePerHour  float64
	pickupHour      int
	loc             *time.Location
}

func NewPricingEngine(cfg utils.BookingConfig, loc *time.Location) *PricingEngine {
	if loc == nil {
		loc = time.UTC
	}
	return &PricingEngine{
		securityDeposit: cfg.SecurityDeposit,
		lateFeePerHour:  cfg.LateFeePerHour,
		pickupHour:      cfg.PickupHour,
		loc:             loc,
	}
}

// Price looks up or derives the price of a rental by duration code.
func (p *PricingEngine) Price(costume *entity.Costume, code entity.DurationCode) (float64, error) {
	switch code {
	case entity.Duration12h:
		if costume.Rate12h != nil {
			return roundMoney(*costume.Rate12h), nil
		}
		return roundMoney(costume.DailyRate * halfDayFactor), nil
	case entity.Duration1d:
		return roundMoney(costume.DailyRate), nil
	case entity.Duration3d:
		return roundMoney(costume.DailyRate * 3 * multiDayDiscount), nil
	case entity.Duration1w:
		return roundMoney(costume.WeeklyRate), nil
	default:
		return 0, validationError("duration_code", "Must be one of: 12h, 1d, 3d, 1w")
	}
}

// PriceForRange prices a rental from its dates alone, tiered by the number
// of calendar days it spans.
func (p *PricingEngine) PriceForRange(costume *entity.Costume, start, end time.Time) float64 {
	days := utils.DateRange{Start: start, End: end}.CalendarDays()

	switch {
	case days <= 1:
		return roundMoney(costume.DailyRate)
	case days <= 3:
		return roundMoney(costume.DailyRate * float64(days) * multiDayDiscount)
	case days <= 7:
		return roundMoney(costume.WeeklyRate)
	default:
		weeks := math.Ceil(float64(days) / 7)
		return roundMoney(costume.WeeklyRate * weeks * longRentalDiscount)
	}
}

func (p *PricingEngine) SecurityDeposit() float64 {
	return roundMoney(p.securityDeposit)
}

// LateFeeRate is the costume's own hourly late fee or the configured default.
func (p *PricingEngine) LateFeeRate(costume *entity.Costume) float64 {
	if costume != nil && costume.LateFeePerHour != nil {
		return *costume.LateFeePerHour
	}
	return p.lateFeePerHour
}

// ExpectedReturn is the start of the pickup window on the booking's end day,
// or the booked end itself when that falls later in the day.
func (p *PricingEngine) ExpectedReturn(endDate time.Time) time.Time {
	pickup := utils.AtHour(endDate, p.pickupHour, p.loc)
	if endDate.After(pickup) {
		return endDate
	}
	return pickup
}

// LateFee charges every started hour past expectedReturn. Returns on or
// before expectedReturn cost nothing.
func (p *PricingEngine) LateFee(actualReturn, expectedReturn time.Time, perHourRate float64) float64 {
	if !actualReturn.After(expectedReturn) {
		return 0
	}
	hoursLate := math.Ceil(actualReturn.Sub(expectedReturn).Hours())
	return roundMoney(hoursLate * perHourRate)
}

// EstimatedRefund is the deposit minus the late fee, never below zero.
func (p *PricingEngine) EstimatedRefund(deposit, lateFee float64) float64 {
	return roundMoney(math.Max(deposit-lateFee, 0))
}

// OutstandingLateFee is the part of the late fee the deposit does not cover.
func (p *PricingEngine) OutstandingLateFee(deposit, lateFee float64) float64 {
	return roundMoney(math.Max(lateFee-deposit, 0))
}

func roundMoney(v float64) float64 {
	return math.Round(v*100) / 100
}
