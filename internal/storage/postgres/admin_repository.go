package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/aggarwalmoksh/event-management-sem1/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

type AdminRepository struct {
	db
}

func NewAdminRepository(pool *pgxpool.Pool) *AdminRepository {
	return &AdminRepository{db: db{pool: pool}}
}

func (r *AdminRepository) CreateEvent(ctx context.Context, event domain.Event) error {
	const stmt = `
INSERT INTO events (id, name, starts_at, layout, published)
VALUES ($1, $2, $3, $4, $5)`
	_, err := r.exec(ctx, stmt, event.ID, event.Name, event.StartsAt, string(event.Layout), event.Published)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("create event: %w", err)
	}
	return nil
}

func (r *AdminRepository) GetEvent(ctx context.Context, eventID string) (domain.Event, error) {
	return getEvent(ctx, r.db, eventID)
}

func (r *AdminRepository) ListEvents(ctx context.Context) ([]domain.Event, error) {
	const query = `
SELECT id, name, starts_at, layout, published
FROM events
ORDER BY starts_at ASC, created_at ASC`
	return r.listEvents(ctx, query)
}

// ListUpcomingEvents returns the published events that have not started by
// now, soonest first.
func (r *AdminRepository) ListUpcomingEvents(ctx context.Context, now time.Time) ([]domain.Event, error) {
	const query = `
SELECT id, name, starts_at, layout, published
FROM events
WHERE published AND starts_at > $1
ORDER BY starts_at ASC, created_at ASC`
	return r.listEvents(ctx, query, now)
}

func (r *AdminRepository) listEvents(ctx context.Context, query string, args ...any) ([]domain.Event, error) {
	rows, err := r.query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var events []domain.Event
	for rows.Next() {
		var (
			event  domain.Event
			layout string
		)
		if err := rows.Scan(&event.ID, &event.Name, &event.StartsAt, &layout, &event.Published); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		event.Layout = domain.Layout(layout)
		events = append(events, event)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate events: %w", rows.Err())
	}
	return events, nil
}

func (r *AdminRepository) CreateZone(ctx context.Context, zone domain.Zone) error {
	const stmt = `
INSERT INTO zones (id, event_id, name, capacity, price)
VALUES ($1, $2, $3, $4, $5::numeric)`
	_, err := r.exec(ctx, stmt, zone.ID, zone.EventID, zone.Name, zone.Capacity, zone.Price.StringFixed(2))
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		if isUniqueViolation(err) {
			return domain.ErrZoneAlreadyExists
		}
		if isForeignKeyViolation(err) {
			return domain.ErrEventNotFound
		}
		return fmt.Errorf("create zone: %w", err)
	}
	return nil
}

func (r *AdminRepository) ListZonesByEvent(ctx context.Context, eventID string) ([]domain.Zone, error) {
	if err := r.ensureEvent(ctx, eventID); err != nil {
		return nil, err
	}

	const query = `
SELECT id, event_id, name, capacity, price::text
FROM zones
WHERE event_id = $1
ORDER BY created_at ASC`
	rows, err := r.query(ctx, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("list zones: %w", err)
	}
	defer rows.Close()

	var zones []domain.Zone
	for rows.Next() {
		zone, err := scanZone(rows)
		if err != nil {
			return nil, fmt.Errorf("scan zone: %w", err)
		}
		zones = append(zones, zone)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate zones: %w", rows.Err())
	}
	return zones, nil
}

func (r *AdminRepository) CreateSeat(ctx context.Context, seat domain.Seat) error {
	const stmt = `
INSERT INTO seats (id, event_id, row_label, number, category, price, available)
VALUES ($1, $2, $3, $4, $5, $6::numeric, $7)`
	_, err := r.exec(ctx, stmt,
		seat.ID, seat.EventID, seat.Row, seat.Number, seat.Category, seat.Price.StringFixed(2), seat.Available)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		if isUniqueViolation(err) {
			return domain.ErrSeatAlreadyExists
		}
		if isForeignKeyViolation(err) {
			return domain.ErrEventNotFound
		}
		return fmt.Errorf("create seat: %w", err)
	}
	return nil
}

func (r *AdminRepository) ListSeatsByEvent(ctx context.Context, eventID string) ([]domain.Seat, error) {
	if err := r.ensureEvent(ctx, eventID); err != nil {
		return nil, err
	}

	const query = `
SELECT id, event_id, row_label, number, category, price::text, available
FROM seats
WHERE event_id = $1
ORDER BY row_label ASC, number ASC`
	rows, err := r.query(ctx, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("list seats: %w", err)
	}
	defer rows.Close()

	var seats []domain.Seat
	for rows.Next() {
		seat, err := scanSeat(rows)
		if err != nil {
			return nil, fmt.Errorf("scan seat: %w", err)
		}
		seats = append(seats, seat)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate seats: %w", rows.Err())
	}
	return seats, nil
}

func (r *AdminRepository) ListBookingsByEvent(ctx context.Context, eventID string) ([]domain.Booking, error) {
	query := `SELECT ` + bookingColumns + `
FROM bookings
WHERE event_id = $1
ORDER BY created_at ASC`
	rows, err := r.query(ctx, query, eventID)
	if err != nil {
		if isInvalidUUID(err) {
			return nil, domain.ErrInvalidID
		}
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	defer rows.Close()

	var bookings []domain.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		if isInvalidUUID(err) {
			return nil, domain.ErrInvalidID
		}
		return nil, fmt.Errorf("iterate bookings: %w", err)
	}
	return bookings, nil
}

func (r *AdminRepository) ensureEvent(ctx context.Context, eventID string) error {
	const existsQuery = `SELECT EXISTS (SELECT 1 FROM events WHERE id = $1)`
	var exists bool
	if err := r.queryRow(ctx, existsQuery, eventID).Scan(&exists); err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("check event: %w", err)
	}
	if !exists {
		return domain.ErrEventNotFound
	}
	return nil
}
