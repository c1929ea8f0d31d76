package response

import (
	"time"

	"costume-rental/internal/data/entity"
	"costume-rental/pkg/utils"
)

type AvailabilityResponse struct {
	CostumeID    string     `json:"costume_id"`
	StartDate    time.Time  `json:"start_date"`
	EndDate      time.Time  `json:"end_date"`
	Available    bool       `json:"available"`
	Temporary    bool       `json:"temporary,omitempty"`
	BlockedUntil *time.Time `json:"blocked_until,omitempty"`
	Message      string     `json:"message,omitempty"`
	BlockedDates []string   `json:"blocked_dates"`
}

type AvailabilityBlockResponse struct {
	ID        string    `json:"id"`
	CostumeID string    `json:"costume_id"`
	StartDate string    `json:"start_date"`
	EndDate   string    `json:"end_date"`
	Reason    *string   `json:"reason,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func AvailabilityBlockToResponse(block *entity.AvailabilityBlock) AvailabilityBlockResponse {
	return AvailabilityBlockResponse{
		ID:        block.ID.String(),
		CostumeID: block.CostumeID.String(),
		StartDate: utils.FormatDate(block.StartDate),
		EndDate:   utils.FormatDate(block.EndDate),
		Reason:    block.Reason,
		CreatedAt: block.CreatedAt,
	}
}

type QuoteResponse struct {
	CostumeID            string                `json:"costume_id"`
	CostumeName          string                `json:"costume_name"`
	Season               string                `json:"season"`
	AllowedDurationCodes []entity.DurationCode `json:"allowed_duration_codes"`
	MinHours             float64               `json:"min_hours"`
	MaxHours             float64               `json:"max_hours,omitempty"`
	StartDate            time.Time             `json:"start_date"`
	EndDate              *time.Time            `json:"end_date,omitempty"`
	DurationCode         *entity.DurationCode  `json:"duration_code,omitempty"`
	Price                *float64              `json:"price,omitempty"`
	SecurityDeposit      float64               `json:"security_deposit"`
	Available            *bool                 `json:"available,omitempty"`
}
