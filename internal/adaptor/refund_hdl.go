package adaptor

import (
	"errors"
	"io"
	"net/http"

	"costume-rental/internal/dto/request"
	"costume-rental/internal/usecase"
	"costume-rental/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type RefundHandler struct {
	service usecase.RefundService
	log     *zap.Logger
}

func NewRefundHandler(service usecase.RefundService, log *zap.Logger) *RefundHandler {
	return &RefundHandler{
		service: service,
		log:     log.With(zap.String("handler", "refund")),
	}
}

// GetRefund handles GET /api/bookings/{id}/refund (admin only)
func (h *RefundHandler) GetRefund(w http.ResponseWriter, r *http.Request) {
	refund, err := h.service.GetRefund(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "get refund")
		return
	}

	utils.ResponseSuccess(w, "success", refund)
}

// ProcessRefund handles PATCH /api/bookings/{id}/refund (admin only).
// An empty body refunds the estimated amount.
func (h *RefundHandler) ProcessRefund(w http.ResponseWriter, r *http.Request) {
	var req request.ProcessRefundRequest
	if err := decodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	refund, err := h.service.ProcessRefund(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "process refund")
		return
	}

	utils.ResponseSuccess(w, "Refund processed", refund)
}
