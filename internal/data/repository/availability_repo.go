package repository

import (
	"context"
	"fmt"
	"time"

	"costume-rental/internal/data/entity"
	"costume-rental/pkg/database"
	"costume-rental/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type AvailabilityRepository interface {
	Create(ctx context.Context, block *entity.AvailabilityBlock) error
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	FindByCostume(ctx context.Context, costumeID uuid.UUID) ([]*entity.AvailabilityBlock, error)
	// FindOverlapping returns blocks touching any calendar day in [from, to].
	// Both bounds are calendar dates.
	FindOverlapping(ctx context.Context, costumeID uuid.UUID, from, to time.Time) ([]*entity.AvailabilityBlock, error)
}

type availabilityRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewAvailabilityRepository(db database.PgxIface, log *zap.Logger) AvailabilityRepository {
	return &availabilityRepository{
		db:  db,
		log: log.With(zap.String("repository", "availability")),
	}
}

func (r *availabilityRepository) Create(ctx context.Context, block *entity.AvailabilityBlock) error {
	query := `
		INSERT INTO availability_blocks (id, costume_id, start_date, end_date, reason, created_at)
		VALUES ($1, $2, $3::date, $4::date, $5, $6)
	`

	_, err := conn(ctx, r.db).Exec(ctx, query,
		block.ID,
		block.CostumeID,
		utils.FormatDate(block.StartDate),
		utils.FormatDate(block.EndDate),
		block.Reason,
		block.CreatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create availability block",
			zap.Error(err),
			zap.String("costume_id", block.CostumeID.String()),
		)
		return fmt.Errorf("create availability block for costume %s: %w", block.CostumeID.String(), err)
	}

	return nil
}

func (r *availabilityRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	query := `DELETE FROM availability_blocks WHERE id = $1`

	result, err := conn(ctx, r.db).Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to delete availability block",
			zap.Error(err),
			zap.String("block_id", id.String()),
		)
		return false, fmt.Errorf("delete availability block %s: %w", id.String(), err)
	}

	return result.RowsAffected() == 1, nil
}

func (r *availabilityRepository) FindByCostume(ctx context.Context, costumeID uuid.UUID) ([]*entity.AvailabilityBlock, error) {
	query := `
		SELECT id, costume_id, start_date, end_date, reason, created_at
		FROM availability_blocks
		WHERE costume_id = $1
		ORDER BY start_date, created_at
	`

	return r.query(ctx, query, costumeID)
}

func (r *availabilityRepository) FindOverlapping(ctx context.Context, costumeID uuid.UUID, from, to time.Time) ([]*entity.AvailabilityBlock, error) {
	query := `
		SELECT id, costume_id, start_date, end_date, reason, created_at
		FROM availability_blocks
		WHERE costume_id = $1 AND start_date <= $2::date AND end_date >= $3::date
		ORDER BY start_date, created_at
	`

	return r.query(ctx, query, costumeID, utils.FormatDate(to), utils.FormatDate(from))
}

func (r *availabilityRepository) query(ctx context.Context, query string, args ...any) ([]*entity.AvailabilityBlock, error) {
	rows, err := conn(ctx, r.db).Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to query availability blocks", zap.Error(err))
		return nil, fmt.Errorf("query availability blocks: %w", err)
	}
	defer rows.Close()

	var blocks []*entity.AvailabilityBlock
	for rows.Next() {
		var b entity.AvailabilityBlock
		if err := rows.Scan(&b.ID, &b.CostumeID, &b.StartDate, &b.EndDate, &b.Reason, &b.CreatedAt); err != nil {
			r.log.Error("Failed to scan availability block row", zap.Error(err))
			return nil, fmt.Errorf("scan availability block row: %w", err)
		}
		blocks = append(blocks, &b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate availability block rows: %w", err)
	}

	return blocks, nil
}
