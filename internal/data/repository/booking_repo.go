package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"costume-rental/internal/data/entity"
	"costume-rental/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type BookingFilter struct {
	Status    *entity.BookingStatus
	CostumeID *uuid.UUID
}

type BookingDetails struct {
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	Notes         *string
}

type BookingRepository interface {
	Create(ctx context.Context, booking *entity.Booking) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error)
	FindByReference(ctx context.Context, reference string) (*entity.Booking, error)
	FindAll(ctx context.Context, filter BookingFilter, limit, offset int) ([]*entity.Booking, error)
	Count(ctx context.Context, filter BookingFilter) (int64, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)

	// FindOverlapping returns bookings of the costume in one of statuses whose
	// stored range intersects [start, end], endpoints inclusive, ordered by
	// creation time.
	FindOverlapping(ctx context.Context, costumeID uuid.UUID, start, end time.Time, statuses []entity.BookingStatus) ([]*entity.Booking, error)

	// Conditional updates. Each reports false when no row matched its guard.
	UpdateStatus(ctx context.Context, id uuid.UUID, from []entity.BookingStatus, to entity.BookingStatus, now time.Time) (bool, error)
	MarkReturned(ctx context.Context, id uuid.UUID, returnedAt time.Time, lateFee float64, now time.Time) (bool, error)
	RecordRefund(ctx context.Context, id uuid.UUID, amount float64, notes *string, now time.Time) (bool, error)
	UpdateDetails(ctx context.Context, id uuid.UUID, details BookingDetails, now time.Time) (bool, error)

	// ExpireStale moves every pending booking whose hold lapsed before now
	// to expired and returns the number of rows touched.
	ExpireStale(ctx context.Context, now time.Time) (int64, error)
}

type bookingRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewBookingRepository(db database.PgxIface, log *zap.Logger) BookingRepository {
	return &bookingRepository{
		db:  db,
		log: log.With(zap.String("repository", "booking")),
	}
}

const bookingColumns = `id, booking_reference, costume_id, customer_name, customer_email, customer_phone,
		start_date, end_date, duration_code, status, blocked_until, total_price, security_deposit,
		actual_return_date, late_fee_amount, security_deposit_refunded, refund_amount,
		refund_processed_at, refund_notes, notes, created_at, updated_at`

func scanBooking(row pgx.Row) (*entity.Booking, error) {
	var b entity.Booking
	err := row.Scan(
		&b.ID,
		&b.BookingReference,
		&b.CostumeID,
		&b.CustomerName,
		&b.CustomerEmail,
		&b.CustomerPhone,
		&b.StartDate,
		&b.EndDate,
		&b.DurationCode,
		&b.Status,
		&b.BlockedUntil,
		&b.TotalPrice,
		&b.SecurityDeposit,
		&b.ActualReturnDate,
		&b.LateFeeAmount,
		&b.SecurityDepositRefunded,
		&b.RefundAmount,
		&b.RefundProcessedAt,
		&b.RefundNotes,
		&b.Notes,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *bookingRepository) Create(ctx context.Context, booking *entity.Booking) error {
	query := `
		INSERT INTO bookings (id, booking_reference, costume_id, customer_name, customer_email, customer_phone,
			start_date, end_date, duration_code, status, blocked_until, total_price, security_deposit,
			late_fee_amount, security_deposit_refunded, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
	`

	_, err := conn(ctx, r.db).Exec(ctx, query,
		booking.ID,
		booking.BookingReference,
		booking.CostumeID,
		booking.CustomerName,
		booking.CustomerEmail,
		booking.CustomerPhone,
		booking.StartDate,
		booking.EndDate,
		booking.DurationCode,
		booking.Status,
		booking.BlockedUntil,
		booking.TotalPrice,
		booking.SecurityDeposit,
		booking.LateFeeAmount,
		booking.SecurityDepositRefunded,
		booking.Notes,
		booking.CreatedAt,
		booking.UpdatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("create booking %s: %w", booking.BookingReference, ErrDuplicateReference)
		}
		r.log.Error("Failed to create booking",
			zap.Error(err),
			zap.String("booking_reference", booking.BookingReference),
			zap.String("costume_id", booking.CostumeID.String()),
		)
		return fmt.Errorf("create booking %s: %w", booking.BookingReference, err)
	}

	return nil
}

func (r *bookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	booking, err := scanBooking(conn(ctx, r.db).QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find booking by ID",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return nil, fmt.Errorf("find booking by ID %s: %w", id.String(), err)
	}

	return booking, nil
}

func (r *bookingRepository) FindByReference(ctx context.Context, reference string) (*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE booking_reference = $1`

	booking, err := scanBooking(conn(ctx, r.db).QueryRow(ctx, query, reference))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find booking by reference",
			zap.Error(err),
			zap.String("booking_reference", reference),
		)
		return nil, fmt.Errorf("find booking by reference %s: %w", reference, err)
	}

	return booking, nil
}

func (f BookingFilter) where(args []any) (string, []any) {
	var conds []string
	if f.Status != nil {
		args = append(args, string(*f.Status))
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if f.CostumeID != nil {
		args = append(args, *f.CostumeID)
		conds = append(conds, fmt.Sprintf("costume_id = $%d", len(args)))
	}
	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func (r *bookingRepository) FindAll(ctx context.Context, filter BookingFilter, limit, offset int) ([]*entity.Booking, error) {
	where, args := filter.where(nil)
	args = append(args, limit, offset)
	query := fmt.Sprintf(`SELECT %s FROM bookings%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		bookingColumns, where, len(args)-1, len(args))

	rows, err := conn(ctx, r.db).Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to list bookings",
			zap.Error(err),
			zap.Int("limit", limit),
			zap.Int("offset", offset),
		)
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	defer rows.Close()

	return r.collect(rows)
}

func (r *bookingRepository) Count(ctx context.Context, filter BookingFilter) (int64, error) {
	where, args := filter.where(nil)
	query := `SELECT COUNT(*) FROM bookings` + where

	var count int64
	if err := conn(ctx, r.db).QueryRow(ctx, query, args...).Scan(&count); err != nil {
		r.log.Error("Failed to count bookings", zap.Error(err))
		return 0, fmt.Errorf("count bookings: %w", err)
	}

	return count, nil
}

func (r *bookingRepository) FindOverlapping(ctx context.Context, costumeID uuid.UUID, start, end time.Time, statuses []entity.BookingStatus) ([]*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + `
		FROM bookings
		WHERE costume_id = $1
		  AND status = ANY($2)
		  AND start_date <= $3
		  AND end_date >= $4
		ORDER BY created_at, id`

	rows, err := conn(ctx, r.db).Query(ctx, query, costumeID, statusStrings(statuses), end, start)
	if err != nil {
		r.log.Error("Failed to find overlapping bookings",
			zap.Error(err),
			zap.String("costume_id", costumeID.String()),
			zap.Time("start", start),
			zap.Time("end", end),
		)
		return nil, fmt.Errorf("find overlapping bookings for costume %s: %w", costumeID.String(), err)
	}
	defer rows.Close()

	return r.collect(rows)
}

func (r *bookingRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from []entity.BookingStatus, to entity.BookingStatus, now time.Time) (bool, error) {
	// A lapsed hold is never a valid source state even before the sweep ran.
	query := `
		UPDATE bookings
		SET status = $2, updated_at = $3
		WHERE id = $1
		  AND status = ANY($4)
		  AND (status <> 'pending' OR blocked_until > $3)
	`

	result, err := conn(ctx, r.db).Exec(ctx, query, id, to, now, statusStrings(from))
	if err != nil {
		r.log.Error("Failed to update booking status",
			zap.Error(err),
			zap.String("booking_id", id.String()),
			zap.String("status", string(to)),
		)
		return false, fmt.Errorf("update booking %s status to %s: %w", id.String(), string(to), err)
	}

	return result.RowsAffected() == 1, nil
}

func (r *bookingRepository) MarkReturned(ctx context.Context, id uuid.UUID, returnedAt time.Time, lateFee float64, now time.Time) (bool, error) {
	query := `
		UPDATE bookings
		SET status = 'completed', actual_return_date = $2, late_fee_amount = $3, updated_at = $4
		WHERE id = $1 AND status = 'confirmed' AND actual_return_date IS NULL
	`

	result, err := conn(ctx, r.db).Exec(ctx, query, id, returnedAt, lateFee, now)
	if err != nil {
		r.log.Error("Failed to mark booking returned",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return false, fmt.Errorf("mark booking %s returned: %w", id.String(), err)
	}

	return result.RowsAffected() == 1, nil
}

func (r *bookingRepository) RecordRefund(ctx context.Context, id uuid.UUID, amount float64, notes *string, now time.Time) (bool, error) {
	query := `
		UPDATE bookings
		SET security_deposit_refunded = TRUE, refund_amount = $2, refund_notes = $3,
		    refund_processed_at = $4, updated_at = $4
		WHERE id = $1 AND actual_return_date IS NOT NULL AND security_deposit_refunded = FALSE
	`

	result, err := conn(ctx, r.db).Exec(ctx, query, id, amount, notes, now)
	if err != nil {
		r.log.Error("Failed to record refund",
			zap.Error(err),
			zap.String("booking_id", id.String()),
			zap.Float64("amount", amount),
		)
		return false, fmt.Errorf("record refund for booking %s: %w", id.String(), err)
	}

	return result.RowsAffected() == 1, nil
}

func (r *bookingRepository) UpdateDetails(ctx context.Context, id uuid.UUID, details BookingDetails, now time.Time) (bool, error) {
	query := `
		UPDATE bookings
		SET customer_name = $2, customer_email = $3, customer_phone = $4, notes = $5, updated_at = $6
		WHERE id = $1
	`

	result, err := conn(ctx, r.db).Exec(ctx, query, id,
		details.CustomerName,
		details.CustomerEmail,
		details.CustomerPhone,
		details.Notes,
		now,
	)
	if err != nil {
		r.log.Error("Failed to update booking details",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return false, fmt.Errorf("update booking %s: %w", id.String(), err)
	}

	return result.RowsAffected() == 1, nil
}

func (r *bookingRepository) ExpireStale(ctx context.Context, now time.Time) (int64, error) {
	query := `
		UPDATE bookings
		SET status = 'expired', updated_at = $1
		WHERE status = 'pending' AND blocked_until < $1
	`

	result, err := conn(ctx, r.db).Exec(ctx, query, now)
	if err != nil {
		return 0, fmt.Errorf("expire stale holds: %w", err)
	}

	return result.RowsAffected(), nil
}

func (r *bookingRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	query := `DELETE FROM bookings WHERE id = $1`

	result, err := conn(ctx, r.db).Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to delete booking",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return false, fmt.Errorf("delete booking %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return false, nil
	}

	r.log.Info("Booking deleted", zap.String("booking_id", id.String()))
	return true, nil
}

func (r *bookingRepository) collect(rows pgx.Rows) ([]*entity.Booking, error) {
	var bookings []*entity.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			r.log.Error("Failed to scan booking row", zap.Error(err))
			return nil, fmt.Errorf("scan booking row: %w", err)
		}
		bookings = append(bookings, booking)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate booking rows: %w", err)
	}

	return bookings, nil
}

func statusStrings(statuses []entity.BookingStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}
