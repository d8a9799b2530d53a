package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/aggarwalmoksh/event-management-sem1/internal/app"
	"github.com/aggarwalmoksh/event-management-sem1/internal/domain"
	"github.com/aggarwalmoksh/event-management-sem1/internal/report"
	"github.com/shopspring/decimal"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// AdminEventService is the minimal interface needed for admin event endpoints.
type AdminEventService interface {
	CreateEvent(ctx context.Context, in app.CreateEventInput) (domain.Event, error)
	ListEvents(ctx context.Context) ([]domain.Event, error)
}

// AdminInventoryService covers the per-event admin endpoints.
type AdminInventoryService interface {
	CreateZone(ctx context.Context, in app.CreateZoneInput) (domain.Zone, error)
	ListZones(ctx context.Context, eventID string) ([]domain.Zone, error)
	CreateSeat(ctx context.Context, in app.CreateSeatInput) (domain.Seat, error)
	ListSeats(ctx context.Context, eventID string) ([]domain.Seat, error)
	ExportBookings(ctx context.Context, eventID string) (app.BookingExport, error)
}

// HandleAdminEvents returns an HTTP handler for admin event creation/listing.
func HandleAdminEvents(svc AdminEventService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			events, err := svc.ListEvents(r.Context())
			writeEvents(w, events, err)
		case http.MethodPost:
			var req createEventRequest
			if !decodeJSON(w, r, &req) {
				return
			}

			var startsAt *time.Time
			if req.StartsAt != "" {
				parsed, err := time.Parse(time.RFC3339, req.StartsAt)
				if err != nil {
					writeError(w, http.StatusBadRequest, codeValidationFailed, "starts_at must be an RFC 3339 timestamp")
					return
				}
				startsAt = &parsed
			}

			event, err := svc.CreateEvent(r.Context(), app.CreateEventInput{
				Name:      req.Name,
				StartsAt:  startsAt,
				Layout:    domain.Layout(req.Layout),
				Published: req.Published,
			})
			if err != nil {
				writeDomainError(w, err)
				return
			}
			writeJSON(w, http.StatusCreated, newEventResponse(event))
		default:
			methodNotAllowed(w)
		}
	}
}

// HandleAdminEventResources serves /admin/events/{id}/zones, /seats and
// /bookings/export.
func HandleAdminEventResources(svc AdminInventoryService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if params, ok := pathSegments(r.URL.Path, "admin/events/*/zones"); ok {
			handleAdminZones(w, r, svc, params[0])
			return
		}
		if params, ok := pathSegments(r.URL.Path, "admin/events/*/seats"); ok {
			handleAdminSeats(w, r, svc, params[0])
			return
		}
		if params, ok := pathSegments(r.URL.Path, "admin/events/*/bookings/export"); ok {
			handleBookingExport(w, r, svc, params[0])
			return
		}
		notFound(w)
	}
}

func handleAdminZones(w http.ResponseWriter, r *http.Request, svc AdminInventoryService, eventID string) {
	switch r.Method {
	case http.MethodGet:
		zones, err := svc.ListZones(r.Context(), eventID)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		resp := make([]zoneResponse, 0, len(zones))
		for _, zone := range zones {
			resp = append(resp, newZoneResponse(zone))
		}
		writeJSON(w, http.StatusOK, resp)
	case http.MethodPost:
		var req createZoneRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		zone, err := svc.CreateZone(r.Context(), app.CreateZoneInput{
			EventID:  eventID,
			Name:     req.Name,
			Capacity: req.Capacity,
			Price:    decimal.RequireFromString(req.Price),
		})
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, newZoneResponse(zone))
	default:
		methodNotAllowed(w)
	}
}

func handleAdminSeats(w http.ResponseWriter, r *http.Request, svc AdminInventoryService, eventID string) {
	switch r.Method {
	case http.MethodGet:
		seats, err := svc.ListSeats(r.Context(), eventID)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		resp := make([]seatResponse, 0, len(seats))
		for _, seat := range seats {
			resp = append(resp, newSeatResponse(seat))
		}
		writeJSON(w, http.StatusOK, resp)
	case http.MethodPost:
		var req createSeatRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		seat, err := svc.CreateSeat(r.Context(), app.CreateSeatInput{
			EventID:  eventID,
			Row:      req.Row,
			Number:   req.Number,
			Category: req.Category,
			Price:    decimal.RequireFromString(req.Price),
		})
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, newSeatResponse(seat))
	default:
		methodNotAllowed(w)
	}
}

func handleBookingExport(w http.ResponseWriter, r *http.Request, svc AdminInventoryService, eventID string) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	exp, err := svc.ExportBookings(r.Context(), eventID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	body, err := report.BookingsWorkbook(exp.Event, exp.Bookings, exp.Items)
	if err != nil {
		writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
		return
	}
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="bookings-%s.xlsx"`, exp.Event.ID))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

type createEventRequest struct {
	Name      string `json:"name" validate:"required,max=200"`
	StartsAt  string `json:"starts_at,omitempty" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	Layout    string `json:"layout,omitempty" validate:"omitempty,oneof=seated zoned"`
	Published *bool  `json:"published,omitempty"`
}

type eventResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	StartsAt  time.Time `json:"starts_at"`
	Layout    string    `json:"layout"`
	Published bool      `json:"published"`
}

func newEventResponse(e domain.Event) eventResponse {
	return eventResponse{ID: e.ID, Name: e.Name, StartsAt: e.StartsAt, Layout: string(e.Layout), Published: e.Published}
}

type createZoneRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Capacity int    `json:"capacity" validate:"gt=0"`
	Price    string `json:"price" validate:"required,money"`
}

type zoneResponse struct {
	ID       string `json:"id"`
	EventID  string `json:"event_id"`
	Name     string `json:"name"`
	Capacity int    `json:"capacity"`
	Price    string `json:"price"`
}

func newZoneResponse(z domain.Zone) zoneResponse {
	return zoneResponse{
		ID:       z.ID,
		EventID:  z.EventID,
		Name:     z.Name,
		Capacity: z.Capacity,
		Price:    z.Price.StringFixed(2),
	}
}

type createSeatRequest struct {
	Row      string `json:"row" validate:"required,max=8"`
	Number   int    `json:"number" validate:"gt=0"`
	Category string `json:"category,omitempty" validate:"max=50"`
	Price    string `json:"price" validate:"required,money"`
}

type seatResponse struct {
	ID        string `json:"id"`
	EventID   string `json:"event_id"`
	Row       string `json:"row"`
	Number    int    `json:"number"`
	Label     string `json:"label"`
	Category  string `json:"category"`
	Price     string `json:"price"`
	Available bool   `json:"available"`
}

func newSeatResponse(s domain.Seat) seatResponse {
	return seatResponse{
		ID:        s.ID,
		EventID:   s.EventID,
		Row:       s.Row,
		Number:    s.Number,
		Label:     s.Label(),
		Category:  s.Category,
		Price:     s.Price.StringFixed(2),
		Available: s.Available,
	}
}
