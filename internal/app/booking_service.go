package app

import (
	"context"
	"errors"
	"time"

	"github.com/aggarwalmoksh/event-management-sem1/internal/clock"
	"github.com/aggarwalmoksh/event-management-sem1/internal/domain"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type BookingRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	GetEvent(ctx context.Context, eventID string) (domain.Event, error)
	FindBookingByIdempotencyKey(ctx context.Context, eventID, key string) (*domain.Booking, error)
	GetSeatForUpdate(ctx context.Context, eventID, seatID string) (domain.Seat, error)
	SeatTaken(ctx context.Context, seatID string, now time.Time) (bool, error)
	GetZoneForUpdate(ctx context.Context, eventID, zoneID string) (domain.Zone, error)
	SumActiveBookings(ctx context.Context, eventID, zoneID string, now time.Time) (int, error)
	SumConfirmed(ctx context.Context, eventID, zoneID string) (int, error)
	CreateBooking(ctx context.Context, booking domain.Booking) error
}

// LayoutInvalidator drops cached availability for an event.
type LayoutInvalidator interface {
	Invalidate(ctx context.Context, eventID string) error
}

type BookingService struct {
	repo        BookingRepository
	clock       clock.Clock
	bookingTTL  time.Duration
	invalidator LayoutInvalidator
	logger      *zap.Logger
}

const defaultBookingTTL = 15 * time.Minute

func NewBookingService(repo BookingRepository, clk clock.Clock, opts ...BookingServiceOption) *BookingService {
	svc := &BookingService{
		repo:       repo,
		clock:      clk,
		bookingTTL: defaultBookingTTL,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

type BookingServiceOption func(*BookingService)

// WithBookingTTL overrides how long a pending booking holds its inventory.
func WithBookingTTL(d time.Duration) BookingServiceOption {
	return func(s *BookingService) {
		if d > 0 {
			s.bookingTTL = d
		}
	}
}

// WithLayoutInvalidator drops the event's cached layout after each new booking.
func WithLayoutInvalidator(inv LayoutInvalidator) BookingServiceOption {
	return func(s *BookingService) {
		s.invalidator = inv
	}
}

func WithBookingLogger(logger *zap.Logger) BookingServiceOption {
	return func(s *BookingService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// CreateBookingInput carries the hidden fields of the booking form. Exactly
// one of SeatID and ZoneID is set, matching the event layout.
type CreateBookingInput struct {
	EventID        string
	SeatID         string
	ZoneID         string
	Quantity       int
	IdempotencyKey string
}

func (s *BookingService) CreateBooking(ctx context.Context, in CreateBookingInput) (domain.Booking, error) {
	if in.IdempotencyKey == "" {
		return domain.Booking{}, domain.ErrIdempotencyKeyRequired
	}
	if in.SeatID != "" && in.ZoneID != "" {
		return domain.Booking{}, domain.ErrLayoutMismatch
	}
	if in.SeatID != "" {
		in.Quantity = 1
	}
	if in.ZoneID != "" && in.Quantity <= 0 {
		return domain.Booking{}, domain.ErrInvalidQuantity
	}

	now := s.clock.Now()
	var result domain.Booking
	created := false

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		event, err := s.repo.GetEvent(txCtx, in.EventID)
		if err != nil {
			return err
		}
		if err := checkOnSale(event, now); err != nil {
			return err
		}
		if err := checkLayout(event.Layout, in); err != nil {
			return err
		}

		// The key is looked up under the item lock so a concurrent submit with
		// the same key waits for the first one and then replays it.
		var (
			seat domain.Seat
			zone domain.Zone
		)
		if in.SeatID != "" {
			seat, err = s.repo.GetSeatForUpdate(txCtx, in.EventID, in.SeatID)
		} else {
			zone, err = s.repo.GetZoneForUpdate(txCtx, in.EventID, in.ZoneID)
		}
		if err != nil {
			return err
		}

		existing, err := s.findReplay(txCtx, in)
		if err != nil {
			return err
		}
		if existing != nil {
			result = *existing
			return nil
		}

		var total decimal.Decimal
		if in.SeatID != "" {
			total, err = s.reserveSeat(txCtx, seat, now)
		} else {
			total, err = s.reserveZone(txCtx, zone, in.Quantity, now)
		}
		if err != nil {
			return err
		}

		booking := domain.Booking{
			ID:             newUUID(),
			EventID:        in.EventID,
			SeatID:         in.SeatID,
			ZoneID:         in.ZoneID,
			Quantity:       in.Quantity,
			TotalPrice:     total,
			Status:         domain.BookingStatusPending,
			ExpiresAt:      now.Add(s.bookingTTL),
			IdempotencyKey: in.IdempotencyKey,
			CreatedAt:      now,
		}

		if err := s.repo.CreateBooking(txCtx, booking); err != nil {
			// Another item was booked under this key in the meantime.
			if errors.Is(err, domain.ErrIdempotencyConflict) {
				existing, ferr := s.findReplay(txCtx, in)
				if ferr != nil {
					return ferr
				}
				if existing != nil {
					result = *existing
					return nil
				}
			}
			return err
		}

		result = booking
		created = true
		return nil
	})
	if err != nil {
		return domain.Booking{}, err
	}

	if created {
		s.logger.Info("booking created",
			zap.String("booking_id", result.ID),
			zap.String("event_id", result.EventID),
			zap.Int("quantity", result.Quantity),
			zap.String("total", result.TotalPrice.StringFixed(2)),
		)
		invalidate(ctx, s.invalidator, s.logger, result.EventID)
	}
	return result, nil
}

// findReplay returns the booking already stored under the request's key, or
// ErrIdempotencyConflict when that booking was for something else.
func (s *BookingService) findReplay(ctx context.Context, in CreateBookingInput) (*domain.Booking, error) {
	existing, err := s.repo.FindBookingByIdempotencyKey(ctx, in.EventID, in.IdempotencyKey)
	if err != nil || existing == nil {
		return nil, err
	}
	if !sameRequest(*existing, in) {
		return nil, domain.ErrIdempotencyConflict
	}
	return existing, nil
}

func (s *BookingService) reserveSeat(ctx context.Context, seat domain.Seat, now time.Time) (decimal.Decimal, error) {
	if !seat.Available {
		return decimal.Decimal{}, domain.ErrSeatUnavailable
	}
	taken, err := s.repo.SeatTaken(ctx, seat.ID, now)
	if err != nil {
		return decimal.Decimal{}, err
	}
	if taken {
		return decimal.Decimal{}, domain.ErrSeatUnavailable
	}
	return seat.Price, nil
}

func (s *BookingService) reserveZone(ctx context.Context, zone domain.Zone, quantity int, now time.Time) (decimal.Decimal, error) {
	activeQty, err := s.repo.SumActiveBookings(ctx, zone.EventID, zone.ID, now)
	if err != nil {
		return decimal.Decimal{}, err
	}
	confirmedQty, err := s.repo.SumConfirmed(ctx, zone.EventID, zone.ID)
	if err != nil {
		return decimal.Decimal{}, err
	}

	available := zone.Capacity - activeQty - confirmedQty
	if quantity > available {
		return decimal.Decimal{}, domain.ErrInsufficientCapacity
	}
	return zone.Price.Mul(decimal.NewFromInt(int64(quantity))), nil
}

// checkOnSale hides drafts and closes sales once the event has started.
func checkOnSale(event domain.Event, now time.Time) error {
	if !event.Published {
		return domain.ErrEventNotFound
	}
	if event.Started(now) {
		return domain.ErrEventEnded
	}
	return nil
}

func checkLayout(layout domain.Layout, in CreateBookingInput) error {
	switch layout {
	case domain.LayoutSeated:
		if in.ZoneID != "" {
			return domain.ErrLayoutMismatch
		}
		if in.SeatID == "" {
			return domain.ErrSeatRequired
		}
	case domain.LayoutZoned:
		if in.SeatID != "" {
			return domain.ErrLayoutMismatch
		}
		if in.ZoneID == "" {
			return domain.ErrZoneRequired
		}
	default:
		return domain.ErrInvalidLayout
	}
	return nil
}

func sameRequest(b domain.Booking, in CreateBookingInput) bool {
	return b.SeatID == in.SeatID && b.ZoneID == in.ZoneID && b.Quantity == in.Quantity
}

func invalidate(ctx context.Context, inv LayoutInvalidator, logger *zap.Logger, eventID string) {
	if inv == nil {
		return
	}
	if err := inv.Invalidate(ctx, eventID); err != nil {
		logger.Warn("layout cache invalidation failed", zap.String("event_id", eventID), zap.Error(err))
	}
}
