package server

import (
	"context"
	"net/http"
	"time"

	"discogsapi/logger"
)

// Pinger is a dependency whose reachability is reported by /healthz.
type Pinger interface {
	Ping(ctx context.Context) error
}

const healthTimeout = 2 * time.Second

// HealthHandler pings every dependency and reports 503 if any is down.
func HealthHandler(deps map[string]Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
		defer cancel()

		for name, p := range deps {
			if err := p.Ping(ctx); err != nil {
				logger.Warn("health check failed", logger.String("dependency", name), logger.ErrorField(err))
				writeJSON(w, http.StatusServiceUnavailable, map[string]string{
					"status": "unavailable",
					"error":  name + ": " + err.Error(),
				})
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
