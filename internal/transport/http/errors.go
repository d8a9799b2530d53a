package http

import (
	"encoding/json"
	"net/http"

	"github.com/aggarwalmoksh/event-management-sem1/internal/domain"
)

const (
	codeMethodNotAllowed        = "method_not_allowed"
	codeNotFound                = "not_found"
	codeInvalidRequestBody      = "invalid_request_body"
	codeMissingRequiredField    = "missing_required_field"
	codeValidationFailed        = "validation_failed"
	codeInvalidID               = "invalid_id"
	codeEventNameRequired       = "event_name_required"
	codeInvalidLayout           = "invalid_layout"
	codeLayoutMismatch          = "layout_mismatch"
	codeZoneNameRequired        = "zone_name_required"
	codeSeatRequired            = "seat_required"
	codeZoneRequired            = "zone_required"
	codeInvalidSeat             = "invalid_seat"
	codeInvalidQuantity         = "invalid_quantity"
	codeInvalidCapacity         = "invalid_capacity"
	codeInvalidPrice            = "invalid_price"
	codeIdempotencyRequired     = "idempotency_key_required"
	codeIdempotencyConflict     = "idempotency_conflict"
	codeInsufficientCapacity    = "insufficient_capacity"
	codeSeatUnavailable         = "seat_unavailable"
	codeZoneNotFound            = "zone_not_found"
	codeSeatNotFound            = "seat_not_found"
	codeEventNotFound           = "event_not_found"
	codeZoneAlreadyExists       = "zone_already_exists"
	codeSeatAlreadyExists       = "seat_already_exists"
	codeBookingNotFound         = "booking_not_found"
	codeBookingExpired          = "booking_expired"
	codeBookingAlreadyConfirmed = "booking_already_confirmed"
	codeBookingCancelled        = "booking_cancelled"
	codeBookingNotConfirmed     = "booking_not_confirmed"
	codeEventEnded              = "event_ended"
	codeEventStarted            = "event_started"
	codeSessionNotFound         = "session_not_found"
	codeNoHandler               = "no_handler"
	codeForbidden               = "forbidden"
	codeUnavailable             = "unavailable"
	codeInternalError           = "internal_error"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	payload, err := json.Marshal(errorResponse{
		Error: msg,
		Code:  code,
	})
	if err != nil {
		_, _ = w.Write([]byte(`{"error":"internal error","code":"internal_error"}`))
		return
	}
	_, _ = w.Write(payload)
}

type errorMapping struct {
	status int
	code   string
}

var domainErrors = map[error]errorMapping{
	domain.ErrInvalidID:               {http.StatusBadRequest, codeInvalidID},
	domain.ErrEventNameRequired:       {http.StatusBadRequest, codeEventNameRequired},
	domain.ErrInvalidLayout:           {http.StatusBadRequest, codeInvalidLayout},
	domain.ErrZoneNameRequired:        {http.StatusBadRequest, codeZoneNameRequired},
	domain.ErrSeatRequired:            {http.StatusBadRequest, codeSeatRequired},
	domain.ErrZoneRequired:            {http.StatusBadRequest, codeZoneRequired},
	domain.ErrInvalidSeat:             {http.StatusBadRequest, codeInvalidSeat},
	domain.ErrInvalidQuantity:         {http.StatusBadRequest, codeInvalidQuantity},
	domain.ErrInvalidCapacity:         {http.StatusBadRequest, codeInvalidCapacity},
	domain.ErrInvalidPrice:            {http.StatusBadRequest, codeInvalidPrice},
	domain.ErrIdempotencyKeyRequired:  {http.StatusBadRequest, codeIdempotencyRequired},
	domain.ErrLayoutMismatch:          {http.StatusUnprocessableEntity, codeLayoutMismatch},
	domain.ErrEventNotFound:           {http.StatusNotFound, codeEventNotFound},
	domain.ErrZoneNotFound:            {http.StatusNotFound, codeZoneNotFound},
	domain.ErrSeatNotFound:            {http.StatusNotFound, codeSeatNotFound},
	domain.ErrBookingNotFound:         {http.StatusNotFound, codeBookingNotFound},
	domain.ErrSessionNotFound:         {http.StatusNotFound, codeSessionNotFound},
	domain.ErrNoHandler:               {http.StatusUnprocessableEntity, codeNoHandler},
	domain.ErrIdempotencyConflict:     {http.StatusConflict, codeIdempotencyConflict},
	domain.ErrInsufficientCapacity:    {http.StatusConflict, codeInsufficientCapacity},
	domain.ErrSeatUnavailable:         {http.StatusConflict, codeSeatUnavailable},
	domain.ErrZoneAlreadyExists:       {http.StatusConflict, codeZoneAlreadyExists},
	domain.ErrSeatAlreadyExists:       {http.StatusConflict, codeSeatAlreadyExists},
	domain.ErrBookingExpired:          {http.StatusConflict, codeBookingExpired},
	domain.ErrBookingAlreadyConfirmed: {http.StatusConflict, codeBookingAlreadyConfirmed},
	domain.ErrBookingCancelled:        {http.StatusConflict, codeBookingCancelled},
	domain.ErrBookingNotConfirmed:     {http.StatusConflict, codeBookingNotConfirmed},
	domain.ErrEventEnded:              {http.StatusConflict, codeEventEnded},
	domain.ErrEventStarted:            {http.StatusConflict, codeEventStarted},
}

// writeDomainError renders a service error. Anything that is not a domain
// sentinel becomes a 500 without leaking its message.
func writeDomainError(w http.ResponseWriter, err error) {
	if m, ok := domainErrors[err]; ok {
		writeError(w, m.status, m.code, err.Error())
		return
	}
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func methodNotAllowed(w http.ResponseWriter) {
	writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
}

func notFound(w http.ResponseWriter) {
	writeError(w, http.StatusNotFound, codeNotFound, "not found")
}
