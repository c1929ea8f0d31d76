package request

type AvailabilityQuery struct {
	CostumeID        string `json:"costume_id" validate:"required,uuid"`
	StartDate        string `json:"start_date" validate:"required"`
	EndDate          string `json:"end_date" validate:"required"`
	ExcludeBookingID string `json:"exclude_booking_id,omitempty" validate:"omitempty,uuid"`
}

type CreateBlockRequest struct {
	CostumeID string  `json:"costume_id" validate:"required,uuid"`
	StartDate string  `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate   string  `json:"end_date" validate:"required,datetime=2006-01-02"`
	Reason    *string `json:"reason,omitempty" validate:"omitempty,max=500"`
}

type QuoteRequest struct {
	StartDate    string `json:"start_date" validate:"required"`
	EndDate      string `json:"end_date,omitempty"`
	DurationCode string `json:"duration_code,omitempty" validate:"omitempty,oneof=12h 1d 3d 1w"`
}
