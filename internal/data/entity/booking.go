package entity

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCompleted BookingStatus = "completed"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusExpired   BookingStatus = "expired"
)

var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingStatusPending:   {BookingStatusConfirmed, BookingStatusCancelled, BookingStatusExpired},
	BookingStatusConfirmed: {BookingStatusCompleted, BookingStatusCancelled},
}

// ParseBookingStatus rejects anything outside the closed set of statuses.
func ParseBookingStatus(s string) (BookingStatus, bool) {
	switch st := BookingStatus(s); st {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusCompleted,
		BookingStatusCancelled, BookingStatusExpired:
		return st, true
	}
	return "", false
}

func (s BookingStatus) IsTerminal() bool {
	return len(bookingTransitions[s]) == 0
}

func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	for _, allowed := range bookingTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// StatusesAllowing lists the states from which next can be reached.
func StatusesAllowing(next BookingStatus) []BookingStatus {
	var from []BookingStatus
	for _, s := range []BookingStatus{BookingStatusPending, BookingStatusConfirmed} {
		if s.CanTransitionTo(next) {
			from = append(from, s)
		}
	}
	return from
}

type DurationCode string

const (
	Duration12h DurationCode = "12h"
	Duration1d  DurationCode = "1d"
	Duration3d  DurationCode = "3d"
	Duration1w  DurationCode = "1w"
)

var durationLengths = map[DurationCode]time.Duration{
	Duration12h: 12 * time.Hour,
	Duration1d:  24 * time.Hour,
	Duration3d:  72 * time.Hour,
	Duration1w:  7 * 24 * time.Hour,
}

func AllDurationCodes() []DurationCode {
	return []DurationCode{Duration12h, Duration1d, Duration3d, Duration1w}
}

func (c DurationCode) Valid() bool {
	_, ok := durationLengths[c]
	return ok
}

// Length is the rental span the code stands for.
func (c DurationCode) Length() time.Duration {
	return durationLengths[c]
}

type Booking struct {
	Base
	BookingReference        string        `db:"booking_reference"`
	CostumeID               uuid.UUID     `db:"costume_id"`
	CustomerName            string        `db:"customer_name"`
	CustomerEmail           string        `db:"customer_email"`
	CustomerPhone           string        `db:"customer_phone"`
	StartDate               time.Time     `db:"start_date"`
	EndDate                 time.Time     `db:"end_date"`
	DurationCode            *DurationCode `db:"duration_code"`
	Status                  BookingStatus `db:"status"`
	BlockedUntil            *time.Time    `db:"blocked_until"`
	TotalPrice              float64       `db:"total_price"`
	SecurityDeposit         float64       `db:"security_deposit"`
	ActualReturnDate        *time.Time    `db:"actual_return_date"`
	LateFeeAmount           float64       `db:"late_fee_amount"`
	SecurityDepositRefunded bool          `db:"security_deposit_refunded"`
	RefundAmount            *float64      `db:"refund_amount"`
	RefundProcessedAt       *time.Time    `db:"refund_processed_at"`
	RefundNotes             *string       `db:"refund_notes"`
	Notes                   *string       `db:"notes"`
}

// IsActiveHold reports whether a pending booking still blocks its dates.
func (b *Booking) IsActiveHold(now time.Time) bool {
	return b.Status == BookingStatusPending && b.BlockedUntil != nil && b.BlockedUntil.After(now)
}

// EffectiveStatus is the status every reader must act on: a pending
// booking whose hold has lapsed is expired even if the row still says
// pending.
func (b *Booking) EffectiveStatus(now time.Time) BookingStatus {
	if b.Status == BookingStatusPending && !b.IsActiveHold(now) {
		return BookingStatusExpired
	}
	return b.Status
}

// BlocksAvailability reports whether the booking occupies its range at now.
func (b *Booking) BlocksAvailability(now time.Time) bool {
	return b.Status == BookingStatusConfirmed || b.IsActiveHold(now)
}
