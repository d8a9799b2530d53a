package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/aggarwalmoksh/event-management-sem1/internal/app"
	"github.com/aggarwalmoksh/event-management-sem1/internal/domain"
)

const idempotencyHeader = "Idempotency-Key"

// BookingConfirmer is the minimal interface needed to confirm a booking.
type BookingConfirmer interface {
	ConfirmBooking(ctx context.Context, in app.ConfirmBookingInput) (app.ConfirmBookingResult, error)
}

type BookingCanceller interface {
	CancelBooking(ctx context.Context, in app.CancelBookingInput) (domain.Booking, error)
}

// TicketIssuer hands out the ticket of a sold booking.
type TicketIssuer interface {
	Ticket(ctx context.Context, bookingID string) (app.Ticket, error)
}

// HandleBookingRoutes serves POST /bookings/{id}/confirm,
// POST /bookings/{id}/cancel and GET /bookings/{id}/ticket.
func HandleBookingRoutes(confirmer BookingConfirmer, canceller BookingCanceller, tickets TicketIssuer) http.HandlerFunc {
	confirm := HandleConfirmBooking(confirmer)
	cancel := HandleCancelBooking(canceller)
	ticket := HandleTicket(tickets)
	return func(w http.ResponseWriter, r *http.Request) {
		switch {
		case matches(r.URL.Path, "bookings/*/confirm"):
			confirm(w, r)
		case matches(r.URL.Path, "bookings/*/cancel"):
			cancel(w, r)
		case matches(r.URL.Path, "bookings/*/ticket"):
			ticket(w, r)
		default:
			notFound(w)
		}
	}
}

func matches(path, pattern string) bool {
	_, ok := pathSegments(path, pattern)
	return ok
}

// HandleConfirmBooking returns an HTTP handler for confirming bookings.
func HandleConfirmBooking(svc BookingConfirmer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			methodNotAllowed(w)
			return
		}

		params, ok := pathSegments(r.URL.Path, "bookings/*/confirm")
		if !ok {
			notFound(w)
			return
		}

		key := r.Header.Get(idempotencyHeader)
		if key == "" {
			writeError(w, http.StatusBadRequest, codeIdempotencyRequired, domain.ErrIdempotencyKeyRequired.Error())
			return
		}

		res, err := svc.ConfirmBooking(r.Context(), app.ConfirmBookingInput{
			BookingID:      params[0],
			IdempotencyKey: key,
		})
		if err != nil {
			writeDomainError(w, err)
			return
		}

		status := http.StatusOK
		if res.Created {
			status = http.StatusCreated
		}
		writeJSON(w, status, newBookingResponse(res.Booking))
	}
}

type cancelRequest struct {
	Reason string `json:"reason" validate:"max=500"`
}

// HandleCancelBooking cancels a booking. The JSON body with a reason is
// optional.
func HandleCancelBooking(svc BookingCanceller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			methodNotAllowed(w)
			return
		}
		params, ok := pathSegments(r.URL.Path, "bookings/*/cancel")
		if !ok {
			notFound(w)
			return
		}

		var req cancelRequest
		if r.ContentLength != 0 {
			if !decodeJSON(w, r, &req) {
				return
			}
		}

		booking, err := svc.CancelBooking(r.Context(), app.CancelBookingInput{
			BookingID: params[0],
			Reason:    req.Reason,
		})
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, newBookingResponse(booking))
	}
}

type ticketResponse struct {
	TicketCode  string     `json:"ticket_code"`
	BookingID   string     `json:"booking_id"`
	EventID     string     `json:"event_id"`
	EventName   string     `json:"event_name"`
	StartsAt    time.Time  `json:"starts_at"`
	SeatID      string     `json:"seat_id,omitempty"`
	ZoneID      string     `json:"zone_id,omitempty"`
	Quantity    int        `json:"quantity"`
	TotalPrice  string     `json:"total_price"`
	ConfirmedAt *time.Time `json:"confirmed_at,omitempty"`
}

// HandleTicket serves the ticket of a confirmed booking as a JSON download.
func HandleTicket(svc TicketIssuer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			methodNotAllowed(w)
			return
		}
		params, ok := pathSegments(r.URL.Path, "bookings/*/ticket")
		if !ok {
			notFound(w)
			return
		}

		ticket, err := svc.Ticket(r.Context(), params[0])
		if err != nil {
			writeDomainError(w, err)
			return
		}
		b := ticket.Booking
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="ticket_%s.json"`, b.TicketCode))
		writeJSON(w, http.StatusOK, ticketResponse{
			TicketCode:  b.TicketCode,
			BookingID:   b.ID,
			EventID:     ticket.Event.ID,
			EventName:   ticket.Event.Name,
			StartsAt:    ticket.Event.StartsAt,
			SeatID:      b.SeatID,
			ZoneID:      b.ZoneID,
			Quantity:    b.Quantity,
			TotalPrice:  b.TotalPrice.StringFixed(2),
			ConfirmedAt: b.ConfirmedAt,
		})
	}
}
