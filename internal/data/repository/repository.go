package repository

import (
	"errors"

	"costume-rental/pkg/database"

	"go.uber.org/zap"
)

// ErrDuplicateReference is returned when a booking reference is already taken.
var ErrDuplicateReference = errors.New("booking reference already exists")

type Repository struct {
	Tx           TxManager
	Costume      CostumeRepository
	Booking      BookingRepository
	Availability AvailabilityRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		Tx:           NewTxManager(db),
		Costume:      NewCostumeRepository(db, log),
		Booking:      NewBookingRepository(db, log),
		Availability: NewAvailabilityRepository(db, log),
	}
}
