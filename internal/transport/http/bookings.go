package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/aggarwalmoksh/event-management-sem1/internal/app"
	"github.com/aggarwalmoksh/event-management-sem1/internal/domain"
)

// sessionField is the hidden form field carrying the page session ID. It
// stands in for the Idempotency-Key header on plain HTML form posts.
const sessionField = "session_id"

// BookingCreator is the minimal interface needed to submit a booking form.
type BookingCreator interface {
	CreateBooking(ctx context.Context, in app.CreateBookingInput) (domain.Booking, error)
}

// SelectionOpener starts a page session for an event.
type SelectionOpener interface {
	Open(ctx context.Context, eventID string) (app.SelectionView, error)
}

// HandleEventRoutes serves POST /events/{id}/selection and
// POST /events/{id}/bookings.
func HandleEventRoutes(selections SelectionOpener, bookings BookingCreator) http.HandlerFunc {
	openSelection := HandleOpenSelection(selections)
	createBooking := HandleCreateBooking(bookings)
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := pathSegments(r.URL.Path, "events/*/selection"); ok {
			openSelection(w, r)
			return
		}
		if _, ok := pathSegments(r.URL.Path, "events/*/bookings"); ok {
			createBooking(w, r)
			return
		}
		notFound(w)
	}
}

// HandleCreateBooking accepts the booking form. The body is either
// form-encoded hidden fields or the same fields as JSON.
func HandleCreateBooking(svc BookingCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			methodNotAllowed(w)
			return
		}
		params, ok := pathSegments(r.URL.Path, "events/*/bookings")
		if !ok {
			notFound(w)
			return
		}

		form, ok := readBookingForm(w, r)
		if !ok {
			return
		}

		quantity := 0
		if form.Quantity != "" {
			n, err := strconv.Atoi(strings.TrimSpace(string(form.Quantity)))
			if err != nil {
				writeError(w, http.StatusBadRequest, codeInvalidQuantity, domain.ErrInvalidQuantity.Error())
				return
			}
			quantity = n
		}

		key := r.Header.Get(idempotencyHeader)
		if key == "" {
			key = form.SessionID
		}
		if key == "" {
			writeError(w, http.StatusBadRequest, codeIdempotencyRequired, domain.ErrIdempotencyKeyRequired.Error())
			return
		}

		booking, err := svc.CreateBooking(r.Context(), app.CreateBookingInput{
			EventID:        params[0],
			SeatID:         form.SeatID,
			ZoneID:         form.ZoneID,
			Quantity:       quantity,
			IdempotencyKey: key,
		})
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, newBookingResponse(booking))
	}
}

type bookingForm struct {
	SeatID    string       `json:"seat_id" form:"seat_id" validate:"omitempty,uuid,excluded_with=ZoneID"`
	ZoneID    string       `json:"zone_id" form:"zone_id" validate:"omitempty,uuid"`
	Quantity  formQuantity `json:"quantity" form:"quantity" validate:"omitempty,max=6"`
	SessionID string       `json:"session_id" form:"session_id" validate:"omitempty,max=128"`
}

// formQuantity is the quantity field as text. JSON clients may send it as a
// number or as the string a form post carries.
type formQuantity string

func (q *formQuantity) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*q = formQuantity(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*q = formQuantity(n)
	return nil
}

func readBookingForm(w http.ResponseWriter, r *http.Request) (bookingForm, bool) {
	var form bookingForm
	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "application/json") {
		return form, decodeJSON(w, r, &form)
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	var err error
	if strings.HasPrefix(contentType, "multipart/form-data") {
		err = r.ParseMultipartForm(maxBodyBytes)
	} else {
		err = r.ParseForm()
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
		return form, false
	}
	form = bookingForm{
		SeatID:    strings.TrimSpace(r.PostFormValue("seat_id")),
		ZoneID:    strings.TrimSpace(r.PostFormValue("zone_id")),
		Quantity:  formQuantity(r.PostFormValue("quantity")),
		SessionID: r.PostFormValue(sessionField),
	}
	return form, validateRequest(w, form)
}

type bookingResponse struct {
	ID          string     `json:"id"`
	EventID     string     `json:"event_id"`
	SeatID      string     `json:"seat_id,omitempty"`
	ZoneID      string     `json:"zone_id,omitempty"`
	Quantity    int        `json:"quantity"`
	TotalPrice  string     `json:"total_price"`
	Status      string     `json:"status"`
	ExpiresAt   time.Time  `json:"expires_at"`
	TicketCode  string     `json:"ticket_code,omitempty"`
	ConfirmedAt *time.Time `json:"confirmed_at,omitempty"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`
	Reason      string     `json:"cancel_reason,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

func newBookingResponse(b domain.Booking) bookingResponse {
	return bookingResponse{
		ID:          b.ID,
		EventID:     b.EventID,
		SeatID:      b.SeatID,
		ZoneID:      b.ZoneID,
		Quantity:    b.Quantity,
		TotalPrice:  b.TotalPrice.StringFixed(2),
		Status:      string(b.Status),
		ExpiresAt:   b.ExpiresAt,
		TicketCode:  b.TicketCode,
		ConfirmedAt: b.ConfirmedAt,
		CancelledAt: b.CancelledAt,
		Reason:      b.CancelReason,
		CreatedAt:   b.CreatedAt,
	}
}
