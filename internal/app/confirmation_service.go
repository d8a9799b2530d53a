package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aggarwalmoksh/event-management-sem1/internal/clock"
	"github.com/aggarwalmoksh/event-management-sem1/internal/domain"
	"go.uber.org/zap"
)

type ConfirmationRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	GetEvent(ctx context.Context, eventID string) (domain.Event, error)
	GetBookingForUpdate(ctx context.Context, bookingID string) (domain.Booking, error)
	ConfirmBooking(ctx context.Context, bookingID, ticketCode, confirmKey string, at time.Time) error
	CancelBooking(ctx context.Context, bookingID, reason string, at time.Time) error
	ExpireStale(ctx context.Context, now time.Time) ([]string, error)
}

// ConfirmationService turns a pending booking into a sold ticket once payment
// has succeeded.
type ConfirmationService struct {
	repo        ConfirmationRepository
	clock       clock.Clock
	invalidator LayoutInvalidator
	logger      *zap.Logger
	ticketCode  func() (string, error)
}

type ConfirmationServiceOption func(*ConfirmationService)

func WithConfirmationInvalidator(inv LayoutInvalidator) ConfirmationServiceOption {
	return func(s *ConfirmationService) {
		s.invalidator = inv
	}
}

func WithConfirmationLogger(logger *zap.Logger) ConfirmationServiceOption {
	return func(s *ConfirmationService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func NewConfirmationService(repo ConfirmationRepository, clk clock.Clock, opts ...ConfirmationServiceOption) *ConfirmationService {
	svc := &ConfirmationService{
		repo:       repo,
		clock:      clk,
		logger:     zap.NewNop(),
		ticketCode: newTicketCode,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

type ConfirmBookingInput struct {
	BookingID      string
	IdempotencyKey string
}

type ConfirmBookingResult struct {
	Booking domain.Booking
	Created bool
}

func (s *ConfirmationService) ConfirmBooking(ctx context.Context, in ConfirmBookingInput) (ConfirmBookingResult, error) {
	if in.IdempotencyKey == "" {
		return ConfirmBookingResult{}, domain.ErrIdempotencyKeyRequired
	}

	now := s.clock.Now()
	var result ConfirmBookingResult

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		booking, err := s.repo.GetBookingForUpdate(txCtx, in.BookingID)
		if err != nil {
			return err
		}

		if booking.Status == domain.BookingStatusConfirmed {
			if booking.ConfirmKey == in.IdempotencyKey {
				result = ConfirmBookingResult{Booking: booking, Created: false}
				return nil
			}
			return domain.ErrBookingAlreadyConfirmed
		}
		if booking.Status == domain.BookingStatusCancelled {
			return domain.ErrBookingCancelled
		}
		if booking.Status == domain.BookingStatusExpired || !booking.ExpiresAt.After(now) {
			return domain.ErrBookingExpired
		}

		code, err := s.ticketCode()
		if err != nil {
			return fmt.Errorf("ticket code: %w", err)
		}
		if err := s.repo.ConfirmBooking(txCtx, booking.ID, code, in.IdempotencyKey, now); err != nil {
			return err
		}

		booking.Status = domain.BookingStatusConfirmed
		booking.TicketCode = code
		booking.ConfirmKey = in.IdempotencyKey
		booking.ConfirmedAt = &now
		result = ConfirmBookingResult{Booking: booking, Created: true}
		return nil
	})
	if err != nil {
		return ConfirmBookingResult{}, err
	}

	if result.Created {
		s.logger.Info("booking confirmed",
			zap.String("booking_id", result.Booking.ID),
			zap.String("ticket_code", result.Booking.TicketCode),
		)
		invalidate(ctx, s.invalidator, s.logger, result.Booking.EventID)
	}
	return result, nil
}

type CancelBookingInput struct {
	BookingID string
	Reason    string
}

// CancelBooking gives a pending or confirmed booking's inventory back. It is
// refused once the event has started.
func (s *ConfirmationService) CancelBooking(ctx context.Context, in CancelBookingInput) (domain.Booking, error) {
	if in.BookingID == "" {
		return domain.Booking{}, domain.ErrInvalidID
	}

	now := s.clock.Now()
	reason := strings.TrimSpace(in.Reason)
	var result domain.Booking

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		booking, err := s.repo.GetBookingForUpdate(txCtx, in.BookingID)
		if err != nil {
			return err
		}
		switch booking.Status {
		case domain.BookingStatusCancelled:
			return domain.ErrBookingCancelled
		case domain.BookingStatusExpired:
			return domain.ErrBookingExpired
		}

		event, err := s.repo.GetEvent(txCtx, booking.EventID)
		if err != nil {
			return err
		}
		if event.Started(now) {
			return domain.ErrEventStarted
		}

		if err := s.repo.CancelBooking(txCtx, booking.ID, reason, now); err != nil {
			return err
		}
		booking.Status = domain.BookingStatusCancelled
		booking.CancelledAt = &now
		booking.CancelReason = reason
		result = booking
		return nil
	})
	if err != nil {
		return domain.Booking{}, err
	}

	s.logger.Info("booking cancelled",
		zap.String("booking_id", result.ID),
		zap.String("event_id", result.EventID),
		zap.Bool("was_sold", result.TicketCode != ""),
	)
	invalidate(ctx, s.invalidator, s.logger, result.EventID)
	return result, nil
}

// Ticket is what a buyer downloads for a sold booking.
type Ticket struct {
	Booking domain.Booking
	Event   domain.Event
}

// Ticket returns the ticket of a confirmed booking that has not been
// cancelled.
func (s *ConfirmationService) Ticket(ctx context.Context, bookingID string) (Ticket, error) {
	if bookingID == "" {
		return Ticket{}, domain.ErrInvalidID
	}
	var ticket Ticket
	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		booking, err := s.repo.GetBookingForUpdate(txCtx, bookingID)
		if err != nil {
			return err
		}
		switch booking.Status {
		case domain.BookingStatusConfirmed:
		case domain.BookingStatusCancelled:
			return domain.ErrBookingCancelled
		default:
			return domain.ErrBookingNotConfirmed
		}
		event, err := s.repo.GetEvent(txCtx, booking.EventID)
		if err != nil {
			return err
		}
		ticket = Ticket{Booking: booking, Event: event}
		return nil
	})
	if err != nil {
		return Ticket{}, err
	}
	return ticket, nil
}

// ExpireStale marks lapsed pending bookings expired and drops the cached
// layouts of the events they belonged to.
func (s *ConfirmationService) ExpireStale(ctx context.Context) (int, error) {
	eventIDs, err := s.repo.ExpireStale(ctx, s.clock.Now())
	if err != nil {
		return 0, err
	}
	for _, id := range eventIDs {
		invalidate(ctx, s.invalidator, s.logger, id)
	}
	return len(eventIDs), nil
}

// RunExpiry calls ExpireStale every interval until ctx is done.
func (s *ConfirmationService) RunExpiry(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := s.ExpireStale(ctx)
			if err != nil {
				if ctx.Err() == nil {
					s.logger.Warn("booking expiry failed", zap.Error(err))
				}
				continue
			}
			if n > 0 {
				s.logger.Info("expired stale bookings", zap.Int("events", n))
			}
		}
	}
}
