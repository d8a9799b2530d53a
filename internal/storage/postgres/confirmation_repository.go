package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aggarwalmoksh/event-management-sem1/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ConfirmationRepository struct {
	db
}

func NewConfirmationRepository(pool *pgxpool.Pool) *ConfirmationRepository {
	return &ConfirmationRepository{db: db{pool: pool}}
}

func (r *ConfirmationRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.pool, fn)
}

func (r *ConfirmationRepository) GetBookingForUpdate(ctx context.Context, bookingID string) (domain.Booking, error) {
	query := `SELECT ` + bookingColumns + `
FROM bookings
WHERE id = $1
FOR UPDATE`

	b, err := scanBooking(r.queryRow(ctx, query, bookingID))
	if err != nil {
		if isInvalidUUID(err) {
			return domain.Booking{}, domain.ErrInvalidID
		}
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Booking{}, domain.ErrBookingNotFound
		}
		return domain.Booking{}, fmt.Errorf("get booking: %w", err)
	}
	return b, nil
}

// ConfirmBooking marks a pending booking as sold. It affects nothing when the
// booking was confirmed in the meantime.
func (r *ConfirmationRepository) ConfirmBooking(ctx context.Context, bookingID, ticketCode, confirmKey string, at time.Time) error {
	const stmt = `
UPDATE bookings
SET status = 'confirmed', ticket_code = $2, confirm_key = $3, confirmed_at = $4
WHERE id = $1 AND status = 'pending'`

	tag, err := r.exec(ctx, stmt, bookingID, ticketCode, confirmKey, at)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		if isUniqueViolation(err) {
			return fmt.Errorf("ticket code collision: %w", err)
		}
		return fmt.Errorf("confirm booking: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrBookingAlreadyConfirmed
	}
	return nil
}

func (r *ConfirmationRepository) GetEvent(ctx context.Context, eventID string) (domain.Event, error) {
	return getEvent(ctx, r.db, eventID)
}

// CancelBooking releases a pending or confirmed booking. A booking that has
// already left those states is reported as ErrBookingCancelled.
func (r *ConfirmationRepository) CancelBooking(ctx context.Context, bookingID, reason string, at time.Time) error {
	const stmt = `
UPDATE bookings
SET status = 'cancelled', cancelled_at = $2, cancel_reason = $3
WHERE id = $1 AND status IN ('pending', 'confirmed')`

	tag, err := r.exec(ctx, stmt, bookingID, at, reason)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("cancel booking: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrBookingCancelled
	}
	return nil
}

// ExpireStale flips pending bookings past their expiry to expired and returns
// the events whose availability changed.
func (r *ConfirmationRepository) ExpireStale(ctx context.Context, now time.Time) ([]string, error) {
	const stmt = `
WITH expired AS (
	UPDATE bookings
	SET status = 'expired'
	WHERE status = 'pending' AND expires_at <= $1
	RETURNING event_id
)
SELECT DISTINCT event_id FROM expired`

	rows, err := r.query(ctx, stmt, now)
	if err != nil {
		return nil, fmt.Errorf("expire bookings: %w", err)
	}
	eventIDs, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("collect expired events: %w", err)
	}
	return eventIDs, nil
}
