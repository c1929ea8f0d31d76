package adaptor

import (
	"net/http"

	"costume-rental/internal/dto/request"
	"costume-rental/internal/usecase"
	"costume-rental/pkg/utils"

	"go.uber.org/zap"
)

type AvailabilityHandler struct {
	service usecase.AvailabilityService
	log     *zap.Logger
}

func NewAvailabilityHandler(service usecase.AvailabilityService, log *zap.Logger) *AvailabilityHandler {
	return &AvailabilityHandler{
		service: service,
		log:     log.With(zap.String("handler", "availability")),
	}
}

// CheckAvailability handles GET /api/availability (public).
// Without a date range it lists the admin blocks of the costume.
func (h *AvailabilityHandler) CheckAvailability(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	if query.Get("start_date") == "" && query.Get("end_date") == "" {
		blocks, err := h.service.ListBlocks(r.Context(), query.Get("costume_id"))
		if err != nil {
			handleServiceError(w, h.log, err, "list availability blocks")
			return
		}
		utils.ResponseSuccess(w, "success", blocks)
		return
	}

	req := &request.AvailabilityQuery{
		CostumeID:        query.Get("costume_id"),
		StartDate:        query.Get("start_date"),
		EndDate:          query.Get("end_date"),
		ExcludeBookingID: query.Get("exclude_booking_id"),
	}

	availability, err := h.service.Check(r.Context(), req)
	if err != nil {
		handleServiceError(w, h.log, err, "check availability")
		return
	}

	utils.ResponseSuccess(w, "success", availability)
}

// CreateBlock handles POST /api/availability (admin only)
func (h *AvailabilityHandler) CreateBlock(w http.ResponseWriter, r *http.Request) {
	var req request.CreateBlockRequest
	if err := decodeJSON(r, &req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	block, err := h.service.CreateBlock(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create availability block")
		return
	}

	utils.ResponseCreated(w, "Availability block created", block)
}

// DeleteBlock handles DELETE /api/availability?id= (admin only)
func (h *AvailabilityHandler) DeleteBlock(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		utils.ResponseBadRequest(w, "Block ID is required", nil)
		return
	}

	if err := h.service.DeleteBlock(r.Context(), id); err != nil {
		handleServiceError(w, h.log, err, "delete availability block")
		return
	}

	utils.ResponseSuccess(w, "Availability block deleted", nil)
}
