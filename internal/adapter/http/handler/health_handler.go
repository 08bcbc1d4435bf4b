package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// Check reports whether a dependency is reachable.
type Check func(ctx context.Context) error

// HealthHandler handles health check requests.
type HealthHandler struct {
	names  []string
	checks map[string]Check
}

// NewHealthHandler creates a HealthHandler probing Postgres and Redis.
func NewHealthHandler(pool *pgxpool.Pool, redisClient redis.UniversalClient) *HealthHandler {
	h := NewHealthHandlerWithChecks()
	h.Register("postgres", pool.Ping)
	h.Register("redis", func(ctx context.Context) error {
		return redisClient.Ping(ctx).Err()
	})
	return h
}

// NewHealthHandlerWithChecks creates a HealthHandler with no checks registered.
func NewHealthHandlerWithChecks() *HealthHandler {
	return &HealthHandler{checks: make(map[string]Check)}
}

// Register adds a named readiness check. Checks run in registration order.
func (h *HealthHandler) Register(name string, check Check) {
	if _, ok := h.checks[name]; !ok {
		h.names = append(h.names, name)
	}
	h.checks[name] = check
}

// Liveness returns 200 if the service is alive.
func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Readiness returns 200 if the service is ready to accept traffic.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	resp := map[string]string{"status": "ready"}
	for _, name := range h.names {
		if err := h.checks[name](ctx); err != nil {
			writeError(w, http.StatusServiceUnavailable, "UNAVAILABLE", name+" unhealthy", nil)
			return
		}
		resp[name] = "ok"
	}

	writeJSON(w, http.StatusOK, resp)
}
