package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"costume-rental/internal/data/entity"
	"costume-rental/pkg/database"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// Postgres integration tests run only when TEST_DATABASE_URL points at a
// disposable database; its tables are truncated between tests.
func newTestDB(t *testing.T) *database.DB {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("skipping Postgres integration tests: TEST_DATABASE_URL not set")
	}

	db, err := database.Open(dsn, 4)
	if err != nil {
		t.Skipf("skipping Postgres integration tests: %v", err)
	}
	t.Cleanup(db.Close)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	require.NoError(t, database.Migrate(ctx, db))

	truncateAll(t, db)
	return db
}

func newTestRepository(t *testing.T) (*database.DB, *Repository) {
	t.Helper()
	db := newTestDB(t)
	return db, NewRepository(db, zap.NewNop())
}

func truncateAll(t *testing.T, db *database.DB) {
	t.Helper()
	_, err := db.Exec(context.Background(), `TRUNCATE bookings, availability_blocks, costumes`)
	require.NoError(t, err)
}

func insertCostume(t *testing.T, db *database.DB, name string) uuid.UUID {
	t.Helper()
	id := uuid.New()
	_, err := db.Exec(context.Background(), `
		INSERT INTO costumes (id, name, rate_12h, daily_rate, weekly_rate)
		VALUES ($1, $2, 30, 50, 250)`,
		id, name,
	)
	require.NoError(t, err)
	return id
}

// testBooking builds a booking of the costume; pending bookings hold until
// blockedUntil.
func testBooking(costumeID uuid.UUID, status entity.BookingStatus, start, end time.Time, blockedUntil *time.Time) *entity.Booking {
	created := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	return &entity.Booking{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: created,
			UpdatedAt: created,
		},
		BookingReference: "BOOK-" + uuid.NewString()[:8],
		CostumeID:        costumeID,
		CustomerName:     "Jane Doe",
		CustomerEmail:    "jane@example.com",
		CustomerPhone:    "0811223344",
		StartDate:        start,
		EndDate:          end,
		Status:           status,
		BlockedUntil:     blockedUntil,
		TotalPrice:       90,
		SecurityDeposit:  100,
	}
}

func day(month time.Month, d int) time.Time {
	return time.Date(2024, month, d, 0, 0, 0, 0, time.UTC)
}
