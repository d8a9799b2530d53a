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

type BookingRepository struct {
	db
}

func NewBookingRepository(pool *pgxpool.Pool) *BookingRepository {
	return &BookingRepository{db: db{pool: pool}}
}

func (r *BookingRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.pool, fn)
}

func (r *BookingRepository) GetEvent(ctx context.Context, eventID string) (domain.Event, error) {
	return getEvent(ctx, r.db, eventID)
}

func (r *BookingRepository) FindBookingByIdempotencyKey(ctx context.Context, eventID, key string) (*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + `
FROM bookings
WHERE event_id = $1 AND idempotency_key = $2`

	b, err := scanBooking(r.queryRow(ctx, query, eventID, key))
	if err != nil {
		if isInvalidUUID(err) {
			return nil, domain.ErrInvalidID
		}
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find booking by idempotency key: %w", err)
	}
	return &b, nil
}

func (r *BookingRepository) GetSeatForUpdate(ctx context.Context, eventID, seatID string) (domain.Seat, error) {
	const query = `
SELECT id, event_id, row_label, number, category, price::text, available
FROM seats
WHERE id = $1 AND event_id = $2
FOR UPDATE`

	s, err := scanSeat(r.queryRow(ctx, query, seatID, eventID))
	if err != nil {
		if isInvalidUUID(err) {
			return domain.Seat{}, domain.ErrInvalidID
		}
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Seat{}, domain.ErrSeatNotFound
		}
		return domain.Seat{}, fmt.Errorf("get seat: %w", err)
	}
	return s, nil
}

// SeatTaken reports whether a confirmed booking or an unexpired pending one
// holds the seat.
func (r *BookingRepository) SeatTaken(ctx context.Context, seatID string, now time.Time) (bool, error) {
	const query = `
SELECT EXISTS (
	SELECT 1 FROM bookings
	WHERE seat_id = $1
	  AND (status = 'confirmed' OR (status = 'pending' AND expires_at > $2))
)`

	var taken bool
	if err := r.queryRow(ctx, query, seatID, now).Scan(&taken); err != nil {
		if isInvalidUUID(err) {
			return false, domain.ErrInvalidID
		}
		return false, fmt.Errorf("check seat taken: %w", err)
	}
	return taken, nil
}

func (r *BookingRepository) GetZoneForUpdate(ctx context.Context, eventID, zoneID string) (domain.Zone, error) {
	const query = `
SELECT id, event_id, name, capacity, price::text
FROM zones
WHERE id = $1 AND event_id = $2
FOR UPDATE`

	z, err := scanZone(r.queryRow(ctx, query, zoneID, eventID))
	if err != nil {
		if isInvalidUUID(err) {
			return domain.Zone{}, domain.ErrInvalidID
		}
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Zone{}, domain.ErrZoneNotFound
		}
		return domain.Zone{}, fmt.Errorf("get zone: %w", err)
	}
	return z, nil
}

func (r *BookingRepository) SumActiveBookings(ctx context.Context, eventID, zoneID string, now time.Time) (int, error) {
	const query = `
SELECT COALESCE(SUM(quantity), 0)
FROM bookings
WHERE event_id = $1 AND zone_id = $2 AND status = 'pending' AND expires_at > $3`

	var total int
	if err := r.queryRow(ctx, query, eventID, zoneID, now).Scan(&total); err != nil {
		if isInvalidUUID(err) {
			return 0, domain.ErrInvalidID
		}
		return 0, fmt.Errorf("sum active bookings: %w", err)
	}
	return total, nil
}

func (r *BookingRepository) SumConfirmed(ctx context.Context, eventID, zoneID string) (int, error) {
	const query = `
SELECT COALESCE(SUM(quantity), 0)
FROM bookings
WHERE event_id = $1 AND zone_id = $2 AND status = 'confirmed'`

	var total int
	if err := r.queryRow(ctx, query, eventID, zoneID).Scan(&total); err != nil {
		if isInvalidUUID(err) {
			return 0, domain.ErrInvalidID
		}
		return 0, fmt.Errorf("sum confirmed: %w", err)
	}
	return total, nil
}

// CreateBooking inserts b. A booking already stored under the same event and
// idempotency key leaves the table untouched and yields
// ErrIdempotencyConflict without aborting the surrounding transaction.
func (r *BookingRepository) CreateBooking(ctx context.Context, b domain.Booking) error {
	const stmt = `
INSERT INTO bookings (id, event_id, seat_id, zone_id, quantity, total_price, status, expires_at, idempotency_key, created_at)
VALUES ($1, $2, NULLIF($3, '')::uuid, NULLIF($4, '')::uuid, $5, $6::numeric, $7, $8, $9, $10)
ON CONFLICT (event_id, idempotency_key) DO NOTHING`

	tag, err := r.exec(ctx, stmt,
		b.ID,
		b.EventID,
		b.SeatID,
		b.ZoneID,
		b.Quantity,
		b.TotalPrice.StringFixed(2),
		string(b.Status),
		b.ExpiresAt,
		b.IdempotencyKey,
		b.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrIdempotencyConflict
		}
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		if isForeignKeyViolation(err) {
			return domain.ErrEventNotFound
		}
		return fmt.Errorf("create booking: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrIdempotencyConflict
	}
	return nil
}

const bookingColumns = `id, event_id, COALESCE(seat_id::text, ''), COALESCE(zone_id::text, ''), quantity,
	total_price::text, status, expires_at, idempotency_key, COALESCE(ticket_code, ''),
	COALESCE(confirm_key, ''), confirmed_at, cancelled_at, cancel_reason, created_at`

func scanBooking(row pgx.Row) (domain.Booking, error) {
	var (
		b      domain.Booking
		total  string
		status string
	)
	err := row.Scan(
		&b.ID, &b.EventID, &b.SeatID, &b.ZoneID, &b.Quantity,
		&total, &status, &b.ExpiresAt, &b.IdempotencyKey, &b.TicketCode,
		&b.ConfirmKey, &b.ConfirmedAt, &b.CancelledAt, &b.CancelReason, &b.CreatedAt,
	)
	if err != nil {
		return domain.Booking{}, err
	}
	if b.TotalPrice, err = parseMoney(total); err != nil {
		return domain.Booking{}, err
	}
	b.Status = domain.BookingStatus(status)
	return b, nil
}

func scanSeat(row pgx.Row) (domain.Seat, error) {
	var (
		s     domain.Seat
		price string
	)
	if err := row.Scan(&s.ID, &s.EventID, &s.Row, &s.Number, &s.Category, &price, &s.Available); err != nil {
		return domain.Seat{}, err
	}
	var err error
	if s.Price, err = parseMoney(price); err != nil {
		return domain.Seat{}, err
	}
	return s, nil
}

func scanZone(row pgx.Row) (domain.Zone, error) {
	var (
		z     domain.Zone
		price string
	)
	if err := row.Scan(&z.ID, &z.EventID, &z.Name, &z.Capacity, &price); err != nil {
		return domain.Zone{}, err
	}
	var err error
	if z.Price, err = parseMoney(price); err != nil {
		return domain.Zone{}, err
	}
	return z, nil
}

func getEvent(ctx context.Context, d db, eventID string) (domain.Event, error) {
	const query = `SELECT id, name, starts_at, layout, published FROM events WHERE id = $1`

	var (
		e      domain.Event
		layout string
	)
	err := d.queryRow(ctx, query, eventID).Scan(&e.ID, &e.Name, &e.StartsAt, &layout, &e.Published)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.Event{}, domain.ErrInvalidID
		}
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Event{}, domain.ErrEventNotFound
		}
		return domain.Event{}, fmt.Errorf("get event: %w", err)
	}
	e.Layout = domain.Layout(layout)
	return e, nil
}
