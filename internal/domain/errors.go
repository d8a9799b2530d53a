package domain

import "errors"

var (
	ErrEventNotFound           = errors.New("event not found")
	ErrEventNameRequired       = errors.New("event name required")
	ErrEventEnded              = errors.New("this event has already ended")
	ErrEventStarted            = errors.New("event has already started")
	ErrInvalidLayout           = errors.New("invalid layout")
	ErrZoneNotFound            = errors.New("zone not found")
	ErrZoneNameRequired        = errors.New("zone name required")
	ErrZoneAlreadyExists       = errors.New("zone already exists")
	ErrSeatNotFound            = errors.New("seat not found")
	ErrSeatAlreadyExists       = errors.New("seat already exists")
	ErrSeatRequired            = errors.New("please select a seat")
	ErrZoneRequired            = errors.New("please select a zone")
	ErrSeatUnavailable         = errors.New("seat is already booked")
	ErrInvalidSeat             = errors.New("invalid seat")
	ErrInvalidCapacity         = errors.New("invalid capacity")
	ErrInvalidPrice            = errors.New("invalid price")
	ErrInsufficientCapacity    = errors.New("insufficient capacity")
	ErrInvalidQuantity         = errors.New("invalid quantity")
	ErrLayoutMismatch          = errors.New("item does not match event layout")
	ErrIdempotencyKeyRequired  = errors.New("idempotency key required")
	ErrIdempotencyConflict     = errors.New("idempotency conflict")
	ErrBookingNotFound         = errors.New("booking not found")
	ErrBookingExpired          = errors.New("booking expired")
	ErrBookingAlreadyConfirmed = errors.New("booking already confirmed")
	ErrBookingCancelled        = errors.New("booking already cancelled")
	ErrBookingNotConfirmed     = errors.New("booking is not confirmed")
	ErrSessionNotFound         = errors.New("selection session not found")
	ErrNoHandler               = errors.New("no handler for target")
	ErrInvalidID               = errors.New("invalid id")
)
