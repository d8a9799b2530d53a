package http

import (
	"context"
	"net/http"

	"github.com/aggarwalmoksh/event-management-sem1/internal/domain"
)

// EventLister lists the events open for booking.
type EventLister interface {
	ListUpcomingEvents(ctx context.Context) ([]domain.Event, error)
}

// HandleListEvents serves the public GET /events listing: published events
// that have not started.
func HandleListEvents(svc EventLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			methodNotAllowed(w)
			return
		}
		events, err := svc.ListUpcomingEvents(r.Context())
		writeEvents(w, events, err)
	}
}

func writeEvents(w http.ResponseWriter, events []domain.Event, err error) {
	if err != nil {
		writeDomainError(w, err)
		return
	}
	resp := make([]eventResponse, 0, len(events))
	for _, event := range events {
		resp = append(resp, newEventResponse(event))
	}
	writeJSON(w, http.StatusOK, resp)
}
