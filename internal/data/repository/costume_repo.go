package repository

import (
	"context"
	"errors"
	"fmt"

	"costume-rental/internal/data/entity"
	"costume-rental/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type CostumeRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Costume, error)
	// FindByIDForUpdate locks the costume row until the surrounding
	// transaction ends, serialising bookings of the same costume.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Costume, error)
}

type costumeRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewCostumeRepository(db database.PgxIface, log *zap.Logger) CostumeRepository {
	return &costumeRepository{
		db:  db,
		log: log.With(zap.String("repository", "costume")),
	}
}

const costumeColumns = `id, name, rate_12h, daily_rate, weekly_rate, late_fee_per_hour,
		size, difficulty, setup_minutes, is_available, created_at, updated_at`

func (r *costumeRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Costume, error) {
	query := `SELECT ` + costumeColumns + ` FROM costumes WHERE id = $1`
	return r.findOne(ctx, query, id)
}

func (r *costumeRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Costume, error) {
	query := `SELECT ` + costumeColumns + ` FROM costumes WHERE id = $1 FOR UPDATE`
	return r.findOne(ctx, query, id)
}

func (r *costumeRepository) findOne(ctx context.Context, query string, id uuid.UUID) (*entity.Costume, error) {
	var c entity.Costume
	err := conn(ctx, r.db).QueryRow(ctx, query, id).Scan(
		&c.ID,
		&c.Name,
		&c.Rate12h,
		&c.DailyRate,
		&c.WeeklyRate,
		&c.LateFeePerHour,
		&c.Size,
		&c.Difficulty,
		&c.SetupMinutes,
		&c.IsAvailable,
		&c.CreatedAt,
		&c.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find costume by ID",
			zap.Error(err),
			zap.String("costume_id", id.String()),
		)
		return nil, fmt.Errorf("find costume by ID %s: %w", id.String(), err)
	}

	return &c, nil
}
