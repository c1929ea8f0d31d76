package entity

import (
	"time"

	"github.com/google/uuid"
)

// AvailabilityBlock is an admin exclusion covering whole calendar days,
// start and end inclusive.
type AvailabilityBlock struct {
	BaseSimple
	CostumeID uuid.UUID `db:"costume_id"`
	StartDate time.Time `db:"start_date"`
	EndDate   time.Time `db:"end_date"`
	Reason    *string   `db:"reason"`
}
