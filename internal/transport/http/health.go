package http

import (
	"context"
	stdhttp "net/http"
	"time"
)

// HealthHandler reports basic liveness for the service.
func HealthHandler(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(stdhttp.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// Check is one dependency checked by the readiness handler.
type Check struct {
	Name string
	Ping func(ctx context.Context) error
}

type readyResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// ReadyHandler pings every dependency and answers 503 if any of them fails.
func ReadyHandler(timeout time.Duration, checks ...Check) stdhttp.HandlerFunc {
	return func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
		if r.Method != stdhttp.MethodGet {
			methodNotAllowed(w)
			return
		}
		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		resp := readyResponse{Status: "ok", Checks: make(map[string]string, len(checks))}
		for _, c := range checks {
			if err := c.Ping(ctx); err != nil {
				resp.Status = codeUnavailable
				resp.Checks[c.Name] = err.Error()
				continue
			}
			resp.Checks[c.Name] = "ok"
		}

		status := stdhttp.StatusOK
		if resp.Status != "ok" {
			status = stdhttp.StatusServiceUnavailable
		}
		writeJSON(w, status, resp)
	}
}
