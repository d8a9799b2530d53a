package http

import (
	"context"
	"net/http"

	"github.com/aggarwalmoksh/event-management-sem1/internal/app"
	"github.com/aggarwalmoksh/event-management-sem1/internal/selection"
)

// SelectionSessions is what the page session endpoints need.
type SelectionSessions interface {
	Get(ctx context.Context, sessionID string) (app.SelectionView, error)
	Dispatch(ctx context.Context, sessionID string, in app.Interaction) (app.SelectionView, error)
}

// HandleOpenSelection serves POST /events/{id}/selection.
func HandleOpenSelection(svc SelectionOpener) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			methodNotAllowed(w)
			return
		}
		params, ok := pathSegments(r.URL.Path, "events/*/selection")
		if !ok {
			notFound(w)
			return
		}
		view, err := svc.Open(r.Context(), params[0])
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, view)
	}
}

// HandleSelections serves GET /selections/{sid} and
// POST /selections/{sid}/events.
func HandleSelections(svc SelectionSessions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if params, ok := pathSegments(r.URL.Path, "selections/*"); ok {
			if r.Method != http.MethodGet {
				methodNotAllowed(w)
				return
			}
			view, err := svc.Get(r.Context(), params[0])
			if err != nil {
				writeDomainError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, view)
			return
		}

		params, ok := pathSegments(r.URL.Path, "selections/*/events")
		if !ok {
			notFound(w)
			return
		}
		if r.Method != http.MethodPost {
			methodNotAllowed(w)
			return
		}
		var req interactionRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		view, err := svc.Dispatch(r.Context(), params[0], app.Interaction{
			Target: req.Target,
			Kind:   selection.Kind(req.Kind),
			Value:  req.Value,
		})
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, view)
	}
}

type interactionRequest struct {
	Target string `json:"target" validate:"required,max=128"`
	Kind   string `json:"kind" validate:"required,oneof=click change"`
	Value  string `json:"value,omitempty"`
}
