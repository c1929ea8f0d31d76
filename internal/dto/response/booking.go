package response

import (
	"time"

	"costume-rental/internal/data/entity"
)

type BookingResponse struct {
	ID                      string               `json:"id"`
	BookingReference        string               `json:"booking_reference"`
	CostumeID               string               `json:"costume_id"`
	CustomerName            string               `json:"customer_name"`
	CustomerEmail           string               `json:"customer_email"`
	CustomerPhone           string               `json:"customer_phone"`
	StartDate               time.Time            `json:"start_date"`
	EndDate                 time.Time            `json:"end_date"`
	DurationCode            *entity.DurationCode `json:"duration_code,omitempty"`
	Status                  entity.BookingStatus `json:"status"`
	BlockedUntil            *time.Time           `json:"blocked_until,omitempty"`
	TotalPrice              float64              `json:"total_price"`
	SecurityDeposit         float64              `json:"security_deposit"`
	ActualReturnDate        *time.Time           `json:"actual_return_date,omitempty"`
	LateFeeAmount           float64              `json:"late_fee_amount"`
	SecurityDepositRefunded bool                 `json:"security_deposit_refunded"`
	RefundAmount            *float64             `json:"refund_amount,omitempty"`
	RefundProcessedAt       *time.Time           `json:"refund_processed_at,omitempty"`
	RefundNotes             *string              `json:"refund_notes,omitempty"`
	Notes                   *string              `json:"notes,omitempty"`
	CreatedAt               time.Time            `json:"created_at"`
	UpdatedAt               time.Time            `json:"updated_at"`
}

// HoldResponse is returned to the customer right after a hold is placed.
type HoldResponse struct {
	Booking       BookingResponse `json:"booking"`
	CostumeName   string          `json:"costume_name"`
	HoldExpiresAt time.Time       `json:"hold_expires_at"`
	HandoffURL    string          `json:"handoff_url,omitempty"`
}

type RefundResponse struct {
	BookingID          string     `json:"booking_id"`
	BookingReference   string     `json:"booking_reference"`
	SecurityDeposit    float64    `json:"security_deposit"`
	ExpectedReturn     time.Time  `json:"expected_return"`
	ActualReturnDate   *time.Time `json:"actual_return_date,omitempty"`
	LateFeeAmount      float64    `json:"late_fee_amount"`
	LateFeeProjected   bool       `json:"late_fee_projected"`
	EstimatedRefund    float64    `json:"estimated_refund"`
	OutstandingLateFee float64    `json:"outstanding_late_fee"`
	Refunded           bool       `json:"refunded"`
	RefundAmount       *float64   `json:"refund_amount,omitempty"`
	RefundProcessedAt  *time.Time `json:"refund_processed_at,omitempty"`
	RefundNotes        *string    `json:"refund_notes,omitempty"`
}

// BookingToResponse reports the status as of now, so a lapsed hold shows
// as expired before the row is rewritten.
func BookingToResponse(b *entity.Booking, now time.Time) BookingResponse {
	resp := BookingResponse{
		ID:                      b.ID.String(),
		BookingReference:        b.BookingReference,
		CostumeID:               b.CostumeID.String(),
		CustomerName:            b.CustomerName,
		CustomerEmail:           b.CustomerEmail,
		CustomerPhone:           b.CustomerPhone,
		StartDate:               b.StartDate,
		EndDate:                 b.EndDate,
		DurationCode:            b.DurationCode,
		Status:                  b.EffectiveStatus(now),
		TotalPrice:              b.TotalPrice,
		SecurityDeposit:         b.SecurityDeposit,
		ActualReturnDate:        b.ActualReturnDate,
		LateFeeAmount:           b.LateFeeAmount,
		SecurityDepositRefunded: b.SecurityDepositRefunded,
		RefundAmount:            b.RefundAmount,
		RefundProcessedAt:       b.RefundProcessedAt,
		RefundNotes:             b.RefundNotes,
		Notes:                   b.Notes,
		CreatedAt:               b.CreatedAt,
		UpdatedAt:               b.UpdatedAt,
	}
	if resp.Status == entity.BookingStatusPending {
		resp.BlockedUntil = b.BlockedUntil
	}
	return resp
}
