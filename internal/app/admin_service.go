package app

import (
	"context"
	"strings"
	"time"

	"github.com/aggarwalmoksh/event-management-sem1/internal/clock"
	"github.com/aggarwalmoksh/event-management-sem1/internal/domain"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type AdminRepository interface {
	CreateEvent(ctx context.Context, event domain.Event) error
	GetEvent(ctx context.Context, eventID string) (domain.Event, error)
	ListEvents(ctx context.Context) ([]domain.Event, error)
	ListUpcomingEvents(ctx context.Context, now time.Time) ([]domain.Event, error)
	CreateZone(ctx context.Context, zone domain.Zone) error
	ListZonesByEvent(ctx context.Context, eventID string) ([]domain.Zone, error)
	CreateSeat(ctx context.Context, seat domain.Seat) error
	ListSeatsByEvent(ctx context.Context, eventID string) ([]domain.Seat, error)
	ListBookingsByEvent(ctx context.Context, eventID string) ([]domain.Booking, error)
}

type AdminService struct {
	repo        AdminRepository
	clock       clock.Clock
	invalidator LayoutInvalidator
	logger      *zap.Logger
}

type AdminServiceOption func(*AdminService)

func WithAdminLogger(logger *zap.Logger) AdminServiceOption {
	return func(s *AdminService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func NewAdminService(repo AdminRepository, clk clock.Clock, inv LayoutInvalidator, opts ...AdminServiceOption) *AdminService {
	svc := &AdminService{
		repo:        repo,
		clock:       clk,
		invalidator: inv,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// CreateEventInput describes a new event. A nil Published publishes it right
// away.
type CreateEventInput struct {
	Name      string
	StartsAt  *time.Time
	Layout    domain.Layout
	Published *bool
}

func (s *AdminService) CreateEvent(ctx context.Context, in CreateEventInput) (domain.Event, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return domain.Event{}, domain.ErrEventNameRequired
	}
	if in.Layout == "" {
		in.Layout = domain.LayoutZoned
	}
	if !in.Layout.Valid() {
		return domain.Event{}, domain.ErrInvalidLayout
	}
	startsAt := s.clock.Now()
	if in.StartsAt != nil {
		startsAt = *in.StartsAt
	}

	published := true
	if in.Published != nil {
		published = *in.Published
	}

	event := domain.Event{
		ID:        newUUID(),
		Name:      name,
		StartsAt:  startsAt,
		Layout:    in.Layout,
		Published: published,
	}

	if err := s.repo.CreateEvent(ctx, event); err != nil {
		return domain.Event{}, err
	}
	s.logger.Info("event created",
		zap.String("event_id", event.ID),
		zap.String("layout", string(event.Layout)),
		zap.Bool("published", event.Published),
	)
	return event, nil
}

func (s *AdminService) GetEvent(ctx context.Context, eventID string) (domain.Event, error) {
	if eventID == "" {
		return domain.Event{}, domain.ErrInvalidID
	}
	return s.repo.GetEvent(ctx, eventID)
}

func (s *AdminService) ListEvents(ctx context.Context) ([]domain.Event, error) {
	return s.repo.ListEvents(ctx)
}

// ListUpcomingEvents is the buyer-facing listing: published events that have
// not started yet.
func (s *AdminService) ListUpcomingEvents(ctx context.Context) ([]domain.Event, error) {
	return s.repo.ListUpcomingEvents(ctx, s.clock.Now())
}

type CreateZoneInput struct {
	EventID  string
	Name     string
	Capacity int
	Price    decimal.Decimal
}

func (s *AdminService) CreateZone(ctx context.Context, in CreateZoneInput) (domain.Zone, error) {
	if in.EventID == "" {
		return domain.Zone{}, domain.ErrInvalidID
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return domain.Zone{}, domain.ErrZoneNameRequired
	}
	if in.Capacity <= 0 {
		return domain.Zone{}, domain.ErrInvalidCapacity
	}
	if in.Price.IsNegative() {
		return domain.Zone{}, domain.ErrInvalidPrice
	}
	if err := s.expectLayout(ctx, in.EventID, domain.LayoutZoned); err != nil {
		return domain.Zone{}, err
	}

	zone := domain.Zone{
		ID:       newUUID(),
		EventID:  in.EventID,
		Name:     name,
		Capacity: in.Capacity,
		Price:    in.Price.Round(2),
	}

	if err := s.repo.CreateZone(ctx, zone); err != nil {
		return domain.Zone{}, err
	}
	invalidate(ctx, s.invalidator, s.logger, in.EventID)
	return zone, nil
}

func (s *AdminService) ListZones(ctx context.Context, eventID string) ([]domain.Zone, error) {
	if eventID == "" {
		return nil, domain.ErrInvalidID
	}
	return s.repo.ListZonesByEvent(ctx, eventID)
}

type CreateSeatInput struct {
	EventID  string
	Row      string
	Number   int
	Category string
	Price    decimal.Decimal
}

func (s *AdminService) CreateSeat(ctx context.Context, in CreateSeatInput) (domain.Seat, error) {
	if in.EventID == "" {
		return domain.Seat{}, domain.ErrInvalidID
	}
	row := strings.ToUpper(strings.TrimSpace(in.Row))
	if row == "" || in.Number <= 0 {
		return domain.Seat{}, domain.ErrInvalidSeat
	}
	if in.Price.IsNegative() {
		return domain.Seat{}, domain.ErrInvalidPrice
	}
	if err := s.expectLayout(ctx, in.EventID, domain.LayoutSeated); err != nil {
		return domain.Seat{}, err
	}

	category := strings.TrimSpace(in.Category)
	if category == "" {
		category = "Standard"
	}

	seat := domain.Seat{
		ID:        newUUID(),
		EventID:   in.EventID,
		Row:       row,
		Number:    in.Number,
		Category:  category,
		Price:     in.Price.Round(2),
		Available: true,
	}

	if err := s.repo.CreateSeat(ctx, seat); err != nil {
		return domain.Seat{}, err
	}
	invalidate(ctx, s.invalidator, s.logger, in.EventID)
	return seat, nil
}

func (s *AdminService) ListSeats(ctx context.Context, eventID string) ([]domain.Seat, error) {
	if eventID == "" {
		return nil, domain.ErrInvalidID
	}
	return s.repo.ListSeatsByEvent(ctx, eventID)
}

func (s *AdminService) ListBookings(ctx context.Context, eventID string) ([]domain.Booking, error) {
	if eventID == "" {
		return nil, domain.ErrInvalidID
	}
	if _, err := s.repo.GetEvent(ctx, eventID); err != nil {
		return nil, err
	}
	return s.repo.ListBookingsByEvent(ctx, eventID)
}

// BookingExport is what the booking spreadsheet of one event is built from.
type BookingExport struct {
	Event    domain.Event
	Bookings []domain.Booking
	// Items maps seat and zone IDs to display labels.
	Items map[string]string
}

func (s *AdminService) ExportBookings(ctx context.Context, eventID string) (BookingExport, error) {
	if eventID == "" {
		return BookingExport{}, domain.ErrInvalidID
	}
	event, err := s.repo.GetEvent(ctx, eventID)
	if err != nil {
		return BookingExport{}, err
	}
	bookings, err := s.repo.ListBookingsByEvent(ctx, eventID)
	if err != nil {
		return BookingExport{}, err
	}

	items := make(map[string]string)
	switch event.Layout {
	case domain.LayoutSeated:
		seats, err := s.repo.ListSeatsByEvent(ctx, eventID)
		if err != nil {
			return BookingExport{}, err
		}
		for _, seat := range seats {
			items[seat.ID] = seat.Label()
		}
	case domain.LayoutZoned:
		zones, err := s.repo.ListZonesByEvent(ctx, eventID)
		if err != nil {
			return BookingExport{}, err
		}
		for _, zone := range zones {
			items[zone.ID] = zone.Name
		}
	}
	return BookingExport{Event: event, Bookings: bookings, Items: items}, nil
}

func (s *AdminService) expectLayout(ctx context.Context, eventID string, want domain.Layout) error {
	event, err := s.repo.GetEvent(ctx, eventID)
	if err != nil {
		return err
	}
	if event.Layout != want {
		return domain.ErrLayoutMismatch
	}
	return nil
}
