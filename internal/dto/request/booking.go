package request

type CreateBookingRequest struct {
	CostumeID     string  `json:"costume_id" validate:"required,uuid"`
	CustomerName  string  `json:"customer_name" validate:"required,max=255"`
	CustomerEmail string  `json:"customer_email" validate:"required,email"`
	CustomerPhone string  `json:"customer_phone" validate:"required,min=6,max=30"`
	StartDate     string  `json:"start_date" validate:"required"`
	EndDate       string  `json:"end_date,omitempty"`
	DurationCode  string  `json:"duration_code,omitempty" validate:"omitempty,oneof=12h 1d 3d 1w"`
	Notes         *string `json:"notes,omitempty" validate:"omitempty,max=1000"`
}

type ListBookingsRequest struct {
	PaginatedRequest
	Status    string `json:"status,omitempty" validate:"omitempty,oneof=pending confirmed completed cancelled expired"`
	CostumeID string `json:"costume_id,omitempty" validate:"omitempty,uuid"`
}

// UpdateBookingStatusRequest drives the admin PATCH on a booking.
type UpdateBookingStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=confirmed cancelled"`
}

// UpdateBookingRequest replaces the editable fields of a booking.
// Dates and price are fixed at creation.
type UpdateBookingRequest struct {
	CustomerName  string  `json:"customer_name" validate:"required,max=255"`
	CustomerEmail string  `json:"customer_email" validate:"required,email"`
	CustomerPhone string  `json:"customer_phone" validate:"required,min=6,max=30"`
	Notes         *string `json:"notes,omitempty" validate:"omitempty,max=1000"`
}

type ReturnBookingRequest struct {
	ActualReturnDate string `json:"actual_return_date" validate:"required"`
}

type ProcessRefundRequest struct {
	Amount *float64 `json:"amount,omitempty" validate:"omitempty,gte=0"`
	Notes  *string  `json:"notes,omitempty" validate:"omitempty,max=1000"`
}

type CustomerCancelRequest struct {
	CustomerEmail string `json:"customer_email" validate:"required,email"`
}
