package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/aggarwalmoksh/event-management-sem1/internal/clock"
	"github.com/aggarwalmoksh/event-management-sem1/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

// LayoutRepository reads the bookable state of an event straight from the
// bookings table. A booking holds inventory while it is confirmed, or pending
// and not yet expired.
type LayoutRepository struct {
	db
	clock clock.Clock
}

func NewLayoutRepository(pool *pgxpool.Pool, clk clock.Clock) *LayoutRepository {
	return &LayoutRepository{db: db{pool: pool}, clock: clk}
}

func (r *LayoutRepository) Layout(ctx context.Context, eventID string) (domain.EventLayout, error) {
	event, err := getEvent(ctx, r.db, eventID)
	if err != nil {
		return domain.EventLayout{}, err
	}

	layout := domain.EventLayout{Event: event}
	now := r.clock.Now()
	switch event.Layout {
	case domain.LayoutSeated:
		layout.Seats, err = r.seats(ctx, eventID, now)
	case domain.LayoutZoned:
		layout.Zones, err = r.zones(ctx, eventID, now)
	}
	if err != nil {
		return domain.EventLayout{}, err
	}
	return layout, nil
}

func (r *LayoutRepository) seats(ctx context.Context, eventID string, now time.Time) ([]domain.SeatAvailability, error) {
	const query = `
SELECT s.id, s.event_id, s.row_label, s.number, s.category, s.price::text, s.available,
	NOT s.available OR EXISTS (
		SELECT 1 FROM bookings b
		WHERE b.seat_id = s.id
		  AND (b.status = 'confirmed' OR (b.status = 'pending' AND b.expires_at > $2))
	)
FROM seats s
WHERE s.event_id = $1
ORDER BY s.row_label ASC, s.number ASC`

	rows, err := r.query(ctx, query, eventID, now)
	if err != nil {
		return nil, fmt.Errorf("list seat availability: %w", err)
	}
	defer rows.Close()

	var seats []domain.SeatAvailability
	for rows.Next() {
		var (
			sa    domain.SeatAvailability
			price string
		)
		if err := rows.Scan(&sa.ID, &sa.EventID, &sa.Row, &sa.Number, &sa.Category, &price, &sa.Available, &sa.Booked); err != nil {
			return nil, fmt.Errorf("scan seat availability: %w", err)
		}
		if sa.Price, err = parseMoney(price); err != nil {
			return nil, err
		}
		seats = append(seats, sa)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate seat availability: %w", rows.Err())
	}
	return seats, nil
}

func (r *LayoutRepository) zones(ctx context.Context, eventID string, now time.Time) ([]domain.ZoneAvailability, error) {
	const query = `
SELECT z.id, z.event_id, z.name, z.capacity, z.price::text,
	z.capacity - COALESCE((
		SELECT SUM(b.quantity) FROM bookings b
		WHERE b.zone_id = z.id
		  AND (b.status = 'confirmed' OR (b.status = 'pending' AND b.expires_at > $2))
	), 0)
FROM zones z
WHERE z.event_id = $1
ORDER BY z.created_at ASC`

	rows, err := r.query(ctx, query, eventID, now)
	if err != nil {
		return nil, fmt.Errorf("list zone availability: %w", err)
	}
	defer rows.Close()

	var zones []domain.ZoneAvailability
	for rows.Next() {
		var (
			za    domain.ZoneAvailability
			price string
		)
		if err := rows.Scan(&za.ID, &za.EventID, &za.Name, &za.Capacity, &price, &za.Remaining); err != nil {
			return nil, fmt.Errorf("scan zone availability: %w", err)
		}
		if za.Price, err = parseMoney(price); err != nil {
			return nil, err
		}
		if za.Remaining < 0 {
			za.Remaining = 0
		}
		zones = append(zones, za)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate zone availability: %w", rows.Err())
	}
	return zones, nil
}
