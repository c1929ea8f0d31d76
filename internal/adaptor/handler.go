package adaptor

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"costume-rental/internal/usecase"
	"costume-rental/pkg/utils"

	"go.uber.org/zap"
)

type Handler struct {
	Booking      *BookingHandler
	Refund       *RefundHandler
	Availability *AvailabilityHandler
	Costume      *CostumeHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Booking:      NewBookingHandler(service.Booking, log),
		Refund:       NewRefundHandler(service.Refund, log),
		Availability: NewAvailabilityHandler(service.Availability, log),
		Costume:      NewCostumeHandler(service.Costume, log),
	}
}

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// handleServiceError maps usecase errors onto the response envelope
func handleServiceError(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	var (
		validationErr *usecase.ValidationError
		seasonalErr   *usecase.SeasonalViolation
		conflictErr   *usecase.AvailabilityConflict
	)

	switch {
	case errors.As(err, &validationErr):
		log.Warn(operation+" validation failed",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseBadRequest(w, "Validation failed", validationErr.Fields)

	case errors.As(err, &seasonalErr):
		log.Warn(operation+" rejected by season rules",
			zap.Error(err),
			zap.String("operation", operation))
		details := map[string]any{"season": seasonalErr.Season}
		if seasonalErr.Duration != "" {
			details["duration_code"] = seasonalErr.Duration
		} else {
			details["requested_hours"] = seasonalErr.Hours
		}
		utils.ResponseBadRequest(w, seasonalErr.Error(), details)

	case errors.As(err, &conflictErr):
		log.Warn(operation+" failed - costume unavailable",
			zap.Error(err),
			zap.String("operation", operation))
		details := map[string]any{"temporary": conflictErr.Temporary}
		if conflictErr.BlockedUntil != nil {
			details["blocked_until"] = conflictErr.BlockedUntil.Format(time.RFC3339)
		}
		if len(conflictErr.BlockedDates) > 0 {
			dates := make([]string, len(conflictErr.BlockedDates))
			for i, d := range conflictErr.BlockedDates {
				dates[i] = utils.FormatDate(d)
			}
			details["blocked_dates"] = dates
		}
		utils.ResponseConflict(w, conflictErr.Error(), details)

	case errors.Is(err, usecase.ErrInvalidState):
		log.Warn(operation+" failed - invalid state",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseConflict(w, err.Error(), nil)

	case errors.Is(err, usecase.ErrNotFound):
		log.Warn(operation+" failed - not found",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseNotFound(w, err.Error())

	default:
		log.Error("Failed to "+operation,
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseInternalError(w, "Internal server error")
	}
}
