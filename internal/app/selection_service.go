package app

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/aggarwalmoksh/event-management-sem1/internal/clock"
	"github.com/aggarwalmoksh/event-management-sem1/internal/domain"
	"github.com/aggarwalmoksh/event-management-sem1/internal/selection"
	"go.uber.org/zap"
)

// LayoutReader loads what the booking page of an event renders.
type LayoutReader interface {
	Layout(ctx context.Context, eventID string) (domain.EventLayout, error)
}

const defaultSessionTTL = 30 * time.Minute

// SelectionService keeps one selection controller per open booking page.
// Sessions live in memory only and expire after a period without interaction.
type SelectionService struct {
	layouts LayoutReader
	clock   clock.Clock
	ttl     time.Duration
	symbol  string
	logger  *zap.Logger

	mu       sync.Mutex
	sessions map[string]*selectionSession
}

type selectionSession struct {
	mu         sync.Mutex
	id         string
	eventID    string
	expiresAt  time.Time
	surface    selection.Surface
	state      *selection.State
	dispatcher *selection.Dispatcher
	ctrl       *selection.Controller
}

type SelectionServiceOption func(*SelectionService)

func WithSessionTTL(d time.Duration) SelectionServiceOption {
	return func(s *SelectionService) {
		if d > 0 {
			s.ttl = d
		}
	}
}

func WithCurrencySymbol(symbol string) SelectionServiceOption {
	return func(s *SelectionService) {
		if symbol != "" {
			s.symbol = symbol
		}
	}
}

func WithSelectionLogger(logger *zap.Logger) SelectionServiceOption {
	return func(s *SelectionService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func NewSelectionService(layouts LayoutReader, clk clock.Clock, opts ...SelectionServiceOption) *SelectionService {
	svc := &SelectionService{
		layouts:  layouts,
		clock:    clk,
		ttl:      defaultSessionTTL,
		symbol:   selection.DefaultCurrencySymbol,
		logger:   zap.NewNop(),
		sessions: make(map[string]*selectionSession),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// Interaction is one user action on the booking page.
type Interaction struct {
	Target string
	Kind   selection.Kind
	Value  string
}

// SelectionView is a snapshot of a session as the page should render it.
type SelectionView struct {
	SessionID string                   `json:"session_id"`
	EventID   string                   `json:"event_id"`
	Mode      selection.Mode           `json:"mode"`
	ExpiresAt time.Time                `json:"expires_at"`
	Surface   selection.Surface        `json:"surface"`
	State     selection.State          `json:"state"`
	Selection selection.Selection      `json:"selection"`
	Summary   selection.PricingSummary `json:"summary"`
}

func (s *SelectionService) Open(ctx context.Context, eventID string) (SelectionView, error) {
	if eventID == "" {
		return SelectionView{}, domain.ErrInvalidID
	}
	layout, err := s.layouts.Layout(ctx, eventID)
	if err != nil {
		return SelectionView{}, err
	}
	now := s.clock.Now()
	if err := checkOnSale(layout.Event, now); err != nil {
		return SelectionView{}, err
	}

	sess := &selectionSession{
		id:         newUUID(),
		eventID:    eventID,
		surface:    renderSurface(layout),
		state:      selection.NewState(),
		dispatcher: selection.NewDispatcher(),
	}
	ctrl, err := selection.New(sess.surface, sess.state, sess.dispatcher, selection.WithCurrencySymbol(s.symbol))
	if err != nil {
		return SelectionView{}, err
	}
	sess.ctrl = ctrl
	sess.expiresAt = now.Add(s.ttl)

	s.mu.Lock()
	s.sweep(now)
	s.sessions[sess.id] = sess
	s.mu.Unlock()

	s.logger.Debug("selection session opened",
		zap.String("session_id", sess.id),
		zap.String("event_id", eventID),
		zap.String("mode", string(ctrl.Mode())),
	)
	return sess.view(), nil
}

// Dispatch delivers one interaction to the session's controller and extends
// the session's lifetime.
func (s *SelectionService) Dispatch(ctx context.Context, sessionID string, in Interaction) (SelectionView, error) {
	sess, err := s.lookup(sessionID)
	if err != nil {
		return SelectionView{}, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if !sess.dispatcher.Dispatch(in.Target, in.Kind, in.Value) {
		return SelectionView{}, domain.ErrNoHandler
	}
	sess.expiresAt = s.clock.Now().Add(s.ttl)
	return sess.view(), nil
}

func (s *SelectionService) Get(ctx context.Context, sessionID string) (SelectionView, error) {
	sess, err := s.lookup(sessionID)
	if err != nil {
		return SelectionView{}, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.view(), nil
}

func (s *SelectionService) lookup(sessionID string) (*selectionSession, error) {
	now := s.clock.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	sess.mu.Lock()
	expired := !sess.expiresAt.After(now)
	sess.mu.Unlock()
	if expired {
		delete(s.sessions, sessionID)
		return nil, domain.ErrSessionNotFound
	}
	return sess, nil
}

// sweep drops expired sessions. Callers hold s.mu.
func (s *SelectionService) sweep(now time.Time) {
	for id, sess := range s.sessions {
		sess.mu.Lock()
		expired := !sess.expiresAt.After(now)
		sess.mu.Unlock()
		if expired {
			delete(s.sessions, id)
		}
	}
}

func (sess *selectionSession) view() SelectionView {
	return SelectionView{
		SessionID: sess.id,
		EventID:   sess.eventID,
		Mode:      sess.ctrl.Mode(),
		ExpiresAt: sess.expiresAt,
		Surface:   sess.surface,
		State:     sess.state.Clone(),
		Selection: sess.ctrl.Selection(),
		Summary:   sess.ctrl.Summary(),
	}
}

// renderSurface lays the event out the way the booking page renders it.
func renderSurface(layout domain.EventLayout) selection.Surface {
	switch layout.Event.Layout {
	case domain.LayoutSeated:
		seats := make([]selection.Element, 0, len(layout.Seats))
		for _, seat := range layout.Seats {
			seats = append(seats, selection.Element{Data: map[string]string{
				selection.AttrSeatID:   seat.ID,
				selection.AttrRow:      seat.Row,
				selection.AttrNumber:   strconv.Itoa(seat.Number),
				selection.AttrPrice:    seat.Price.StringFixed(2),
				selection.AttrCategory: seat.Category,
				selection.AttrBooked:   strconv.FormatBool(seat.Booked),
			}})
		}
		return selection.Surface{SeatingMap: &selection.SeatingMap{Seats: seats}}
	case domain.LayoutZoned:
		zones := make([]selection.Element, 0, len(layout.Zones))
		for _, zone := range layout.Zones {
			remaining := zone.Remaining
			if remaining < 0 {
				remaining = 0
			}
			zones = append(zones, selection.Element{Data: map[string]string{
				selection.AttrZoneID:    zone.ID,
				selection.AttrName:      zone.Name,
				selection.AttrPrice:     zone.Price.StringFixed(2),
				selection.AttrAvailable: strconv.Itoa(remaining),
				selection.AttrSoldOut:   strconv.FormatBool(remaining == 0),
			}})
		}
		return selection.Surface{ZoneSelection: &selection.ZoneSelection{Zones: zones}}
	default:
		return selection.Surface{}
	}
}
