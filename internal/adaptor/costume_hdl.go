package adaptor

import (
	"net/http"

	"costume-rental/internal/dto/request"
	"costume-rental/internal/usecase"
	"costume-rental/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type CostumeHandler struct {
	service usecase.CostumeService
	log     *zap.Logger
}

func NewCostumeHandler(service usecase.CostumeService, log *zap.Logger) *CostumeHandler {
	return &CostumeHandler{
		service: service,
		log:     log.With(zap.String("handler", "costume")),
	}
}

// GetQuote handles GET /api/costumes/{id}/quote (public)
func (h *CostumeHandler) GetQuote(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := &request.QuoteRequest{
		StartDate:    query.Get("start_date"),
		EndDate:      query.Get("end_date"),
		DurationCode: query.Get("duration_code"),
	}

	quote, err := h.service.Quote(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		handleServiceError(w, h.log, err, "quote costume")
		return
	}

	utils.ResponseSuccess(w, "success", quote)
}
