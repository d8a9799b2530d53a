package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aggarwalmoksh/event-management-sem1/internal/clock"
	"github.com/aggarwalmoksh/event-management-sem1/internal/domain"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type fakeAdminRepo struct {
	events       map[string]domain.Event
	createdEvent domain.Event
	createdZone  domain.Zone
	createdSeat  domain.Seat
	bookings     []domain.Booking
	zones        []domain.Zone
	seats        []domain.Seat

	upcomingAt time.Time

	createEventErr error
	createZoneErr  error
	createSeatErr  error
}

func newFakeAdminRepo(events ...domain.Event) *fakeAdminRepo {
	repo := &fakeAdminRepo{events: make(map[string]domain.Event)}
	for _, e := range events {
		repo.events[e.ID] = e
	}
	return repo
}

func (f *fakeAdminRepo) CreateEvent(ctx context.Context, event domain.Event) error {
	f.createdEvent = event
	return f.createEventErr
}

func (f *fakeAdminRepo) GetEvent(ctx context.Context, eventID string) (domain.Event, error) {
	e, ok := f.events[eventID]
	if !ok {
		return domain.Event{}, domain.ErrEventNotFound
	}
	return e, nil
}

func (f *fakeAdminRepo) ListEvents(ctx context.Context) ([]domain.Event, error) {
	return nil, nil
}

func (f *fakeAdminRepo) ListUpcomingEvents(ctx context.Context, now time.Time) ([]domain.Event, error) {
	f.upcomingAt = now
	var events []domain.Event
	for _, e := range f.events {
		if e.Published && !e.Started(now) {
			events = append(events, e)
		}
	}
	return events, nil
}

func (f *fakeAdminRepo) CreateZone(ctx context.Context, zone domain.Zone) error {
	f.createdZone = zone
	return f.createZoneErr
}

func (f *fakeAdminRepo) ListZonesByEvent(ctx context.Context, eventID string) ([]domain.Zone, error) {
	return f.zones, nil
}

func (f *fakeAdminRepo) CreateSeat(ctx context.Context, seat domain.Seat) error {
	f.createdSeat = seat
	return f.createSeatErr
}

func (f *fakeAdminRepo) ListSeatsByEvent(ctx context.Context, eventID string) ([]domain.Seat, error) {
	return f.seats, nil
}

func (f *fakeAdminRepo) ListBookingsByEvent(ctx context.Context, eventID string) ([]domain.Booking, error) {
	return f.bookings, nil
}

func TestAdminService_CreateEvent_DefaultStartsAt(t *testing.T) {
	repo := newFakeAdminRepo()
	now := time.Date(2025, 1, 5, 10, 0, 0, 0, time.UTC)
	svc := NewAdminService(repo, clock.NewFixed(now), nil)

	got, err := svc.CreateEvent(context.Background(), CreateEventInput{Name: "Concert"})
	if err != nil {
		t.Fatalf("create event: %v", err)
	}
	if got.Name != "Concert" {
		t.Fatalf("expected name, got %q", got.Name)
	}
	if got.StartsAt != now {
		t.Fatalf("expected starts_at %v, got %v", now, got.StartsAt)
	}
	if got.Layout != domain.LayoutZoned {
		t.Fatalf("expected default layout zoned, got %q", got.Layout)
	}
	if repo.createdEvent.ID == "" {
		t.Fatalf("expected event ID to be set")
	}
	if !repo.createdEvent.Published {
		t.Fatalf("expected event published by default")
	}
}

func TestAdminService_CreateEvent_Draft(t *testing.T) {
	repo := newFakeAdminRepo()
	svc := NewAdminService(repo, clock.NewFixed(time.Now()), nil)

	draft := false
	got, err := svc.CreateEvent(context.Background(), CreateEventInput{Name: "Preview", Published: &draft})
	if err != nil {
		t.Fatalf("create event: %v", err)
	}
	if got.Published || repo.createdEvent.Published {
		t.Fatalf("expected unpublished draft, got %+v", got)
	}
}

func TestAdminService_ListUpcomingEvents(t *testing.T) {
	now := time.Date(2025, 1, 5, 10, 0, 0, 0, time.UTC)
	repo := newFakeAdminRepo(
		domain.Event{ID: "soon", Published: true, StartsAt: now.Add(time.Hour)},
		domain.Event{ID: "past", Published: true, StartsAt: now.Add(-time.Hour)},
		domain.Event{ID: "draft", StartsAt: now.Add(time.Hour)},
	)
	svc := NewAdminService(repo, clock.NewFixed(now), nil)

	events, err := svc.ListUpcomingEvents(context.Background())
	if err != nil {
		t.Fatalf("list upcoming: %v", err)
	}
	if len(events) != 1 || events[0].ID != "soon" {
		t.Fatalf("expected only the published upcoming event, got %+v", events)
	}
	if !repo.upcomingAt.Equal(now) {
		t.Fatalf("expected listing filtered at %v, got %v", now, repo.upcomingAt)
	}
}

func TestAdminService_LogsInvalidationFailure(t *testing.T) {
	repo := newFakeAdminRepo(
		domain.Event{ID: "zoned", Layout: domain.LayoutZoned},
		domain.Event{ID: "seated", Layout: domain.LayoutSeated},
	)
	inv := &fakeInvalidator{err: errors.New("redis down")}
	core, logs := observer.New(zap.WarnLevel)
	svc := NewAdminService(repo, clock.NewFixed(time.Now()), inv, WithAdminLogger(zap.New(core)))
	ctx := context.Background()

	if _, err := svc.CreateZone(ctx, CreateZoneInput{EventID: "zoned", Name: "Gold", Capacity: 10, Price: decimal.NewFromInt(100)}); err != nil {
		t.Fatalf("create zone: %v", err)
	}
	if _, err := svc.CreateSeat(ctx, CreateSeatInput{EventID: "seated", Row: "A", Number: 1, Price: decimal.NewFromInt(100)}); err != nil {
		t.Fatalf("create seat: %v", err)
	}

	warnings := logs.FilterMessage("layout cache invalidation failed").All()
	if len(warnings) != 2 {
		t.Fatalf("expected 2 invalidation warnings, got %d", len(warnings))
	}
	if got := warnings[0].ContextMap()["event_id"]; got != "zoned" {
		t.Fatalf("expected event_id zoned, got %v", got)
	}
}

func TestAdminService_CreateEvent_ValidatesInput(t *testing.T) {
	repo := newFakeAdminRepo()
	svc := NewAdminService(repo, clock.NewFixed(time.Now()), nil)
	ctx := context.Background()

	_, err := svc.CreateEvent(ctx, CreateEventInput{Name: "  "})
	if err != domain.ErrEventNameRequired {
		t.Fatalf("expected ErrEventNameRequired, got %v", err)
	}

	_, err = svc.CreateEvent(ctx, CreateEventInput{Name: "Concert", Layout: "standing"})
	if err != domain.ErrInvalidLayout {
		t.Fatalf("expected ErrInvalidLayout, got %v", err)
	}
}

func TestAdminService_CreateZone_ValidatesInput(t *testing.T) {
	repo := newFakeAdminRepo(
		domain.Event{ID: "event", Layout: domain.LayoutZoned},
		domain.Event{ID: "seated", Layout: domain.LayoutSeated},
	)
	svc := NewAdminService(repo, clock.NewFixed(time.Now()), nil)
	ctx := context.Background()
	price := decimal.NewFromInt(100)

	cases := []struct {
		name string
		in   CreateZoneInput
		want error
	}{
		{"missing event", CreateZoneInput{Name: "Zone A", Capacity: 10, Price: price}, domain.ErrInvalidID},
		{"missing name", CreateZoneInput{EventID: "event", Capacity: 10, Price: price}, domain.ErrZoneNameRequired},
		{"zero capacity", CreateZoneInput{EventID: "event", Name: "Zone A", Price: price}, domain.ErrInvalidCapacity},
		{"negative price", CreateZoneInput{EventID: "event", Name: "Zone A", Capacity: 10, Price: decimal.NewFromInt(-1)}, domain.ErrInvalidPrice},
		{"unknown event", CreateZoneInput{EventID: "nope", Name: "Zone A", Capacity: 10, Price: price}, domain.ErrEventNotFound},
		{"seated event", CreateZoneInput{EventID: "seated", Name: "Zone A", Capacity: 10, Price: price}, domain.ErrLayoutMismatch},
	}
	for _, tc := range cases {
		if _, err := svc.CreateZone(ctx, tc.in); err != tc.want {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}
}

func TestAdminService_CreateZone_InvalidatesLayout(t *testing.T) {
	repo := newFakeAdminRepo(domain.Event{ID: "event", Layout: domain.LayoutZoned})
	inv := &fakeInvalidator{}
	svc := NewAdminService(repo, clock.NewFixed(time.Now()), inv)

	zone, err := svc.CreateZone(context.Background(), CreateZoneInput{
		EventID:  "event",
		Name:     " Gold ",
		Capacity: 50,
		Price:    decimal.RequireFromString("1350.005"),
	})
	if err != nil {
		t.Fatalf("create zone: %v", err)
	}
	if zone.Name != "Gold" {
		t.Fatalf("expected trimmed name, got %q", zone.Name)
	}
	if zone.Price.StringFixed(2) != "1350.01" {
		t.Fatalf("expected price rounded to 1350.01, got %s", zone.Price.StringFixed(2))
	}
	if len(inv.events) != 1 || inv.events[0] != "event" {
		t.Fatalf("expected invalidation for event, got %v", inv.events)
	}
}

func TestAdminService_CreateSeat(t *testing.T) {
	repo := newFakeAdminRepo(
		domain.Event{ID: "seated", Layout: domain.LayoutSeated},
		domain.Event{ID: "zoned", Layout: domain.LayoutZoned},
	)
	svc := NewAdminService(repo, clock.NewFixed(time.Now()), nil)
	ctx := context.Background()

	seat, err := svc.CreateSeat(ctx, CreateSeatInput{
		EventID: "seated",
		Row:     "b",
		Number:  7,
		Price:   decimal.NewFromInt(900),
	})
	if err != nil {
		t.Fatalf("create seat: %v", err)
	}
	if seat.Label() != "B7" {
		t.Fatalf("expected label B7, got %s", seat.Label())
	}
	if seat.Category != "Standard" {
		t.Fatalf("expected default category, got %q", seat.Category)
	}
	if !seat.Available || repo.createdSeat.ID != seat.ID {
		t.Fatalf("unexpected stored seat: %+v", repo.createdSeat)
	}

	if _, err := svc.CreateSeat(ctx, CreateSeatInput{EventID: "seated", Row: "A", Number: 0}); err != domain.ErrInvalidSeat {
		t.Fatalf("expected ErrInvalidSeat, got %v", err)
	}
	if _, err := svc.CreateSeat(ctx, CreateSeatInput{EventID: "seated", Row: "A", Number: 1, Price: decimal.NewFromInt(-5)}); err != domain.ErrInvalidPrice {
		t.Fatalf("expected ErrInvalidPrice, got %v", err)
	}
	if _, err := svc.CreateSeat(ctx, CreateSeatInput{EventID: "zoned", Row: "A", Number: 1}); err != domain.ErrLayoutMismatch {
		t.Fatalf("expected ErrLayoutMismatch, got %v", err)
	}
}

func TestAdminService_ListBookings(t *testing.T) {
	repo := newFakeAdminRepo(domain.Event{ID: "event", Layout: domain.LayoutZoned})
	repo.bookings = []domain.Booking{{ID: "b1", EventID: "event"}}
	svc := NewAdminService(repo, clock.NewFixed(time.Now()), nil)

	got, err := svc.ListBookings(context.Background(), "event")
	if err != nil {
		t.Fatalf("list bookings: %v", err)
	}
	if len(got) != 1 || got[0].ID != "b1" {
		t.Fatalf("unexpected bookings: %+v", got)
	}

	if _, err := svc.ListBookings(context.Background(), "missing"); err != domain.ErrEventNotFound {
		t.Fatalf("expected ErrEventNotFound, got %v", err)
	}
}

func TestAdminService_ExportBookings(t *testing.T) {
	repo := newFakeAdminRepo(
		domain.Event{ID: "zoned", Name: "Festival", Layout: domain.LayoutZoned},
		domain.Event{ID: "seated", Name: "Recital", Layout: domain.LayoutSeated},
	)
	repo.zones = []domain.Zone{{ID: "z1", Name: "Gold"}}
	repo.seats = []domain.Seat{{ID: "s1", Row: "C", Number: 3}}
	repo.bookings = []domain.Booking{{ID: "b1"}}
	svc := NewAdminService(repo, clock.NewFixed(time.Now()), nil)
	ctx := context.Background()

	exp, err := svc.ExportBookings(ctx, "zoned")
	if err != nil {
		t.Fatalf("export zoned: %v", err)
	}
	if exp.Event.Name != "Festival" || len(exp.Bookings) != 1 || exp.Items["z1"] != "Gold" {
		t.Fatalf("unexpected export: %+v", exp)
	}

	exp, err = svc.ExportBookings(ctx, "seated")
	if err != nil {
		t.Fatalf("export seated: %v", err)
	}
	if exp.Items["s1"] != "C3" {
		t.Fatalf("expected seat label C3, got %q", exp.Items["s1"])
	}

	if _, err := svc.ExportBookings(ctx, ""); err != domain.ErrInvalidID {
		t.Fatalf("expected ErrInvalidID, got %v", err)
	}
}
