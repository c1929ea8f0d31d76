package usecase

import (
	"errors"
	"fmt"
	"time"

	"costume-rental/pkg/utils"

	"github.com/google/uuid"
)

var (
	ErrValidation   = errors.New("validation failed")
	ErrNotFound     = errors.New("not found")
	ErrInvalidState = errors.New("invalid state")
)

// ValidationError describes a missing or malformed input field.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + utils.FormatValidationErrors(e.Fields)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

func validationError(field, msg string) error {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

// SeasonalViolation is returned when the requested rental length breaks the
// rules of the season the rental starts in.
type SeasonalViolation struct {
	Season    Season
	Hours     float64
	Duration  string
	Rule      string
	StartedOn time.Time
}

func (e *SeasonalViolation) Error() string {
	return e.Rule
}

// AvailabilityConflict is returned when the requested range overlaps a
// confirmed booking, an admin block or another customer's active hold.
// Holds are temporary: BlockedUntil tells the customer when to try again.
type AvailabilityConflict struct {
	Temporary    bool
	BlockedUntil *time.Time
	BookingID    *uuid.UUID
	BlockedDates []time.Time
}

func (e *AvailabilityConflict) Error() string {
	switch {
	case e.Temporary && e.BlockedUntil != nil:
		return fmt.Sprintf("costume is temporarily held by another customer until %s, please try again after that",
			e.BlockedUntil.Format(time.RFC3339))
	case e.BookingID != nil:
		return "costume is already booked for the selected dates"
	default:
		return "costume is not available on the selected dates"
	}
}

func notFound(what string, id any) error {
	return fmt.Errorf("%s %v %w", what, id, ErrNotFound)
}

func invalidState(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidState, fmt.Sprintf(format, args...))
}
