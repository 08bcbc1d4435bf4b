package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/goremit/internal/usecase"
)

const (
	// IdempotencyKeyHeader is the header name for idempotency keys.
	IdempotencyKeyHeader = "Idempotency-Key"
	// IdempotencyReplayHeader marks a response served from the store.
	IdempotencyReplayHeader = "X-Idempotency-Replay"

	pendingMarker = "processing"
)

// IdempotencyMiddleware replays the first successful response for a repeated
// Idempotency-Key. Keys are scoped per caller and route.
type IdempotencyMiddleware struct {
	store usecase.IdempotencyStore
	ttl   time.Duration
}

// NewIdempotencyMiddleware creates a new IdempotencyMiddleware.
func NewIdempotencyMiddleware(store usecase.IdempotencyStore, ttl time.Duration) *IdempotencyMiddleware {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &IdempotencyMiddleware{store: store, ttl: ttl}
}

type storedResponse struct {
	Status int    `json:"status"`
	Body   []byte `json:"body"`
}

// Wrap wraps an http.Handler with idempotency checking.
func (m *IdempotencyMiddleware) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost && r.Method != http.MethodPut {
			next.ServeHTTP(w, r)
			return
		}

		key := r.Header.Get(IdempotencyKeyHeader)
		if key == "" {
			next.ServeHTTP(w, r)
			return
		}
		key = scopedKey(r, key)

		ctx := r.Context()
		logger := zerolog.Ctx(ctx)

		exists, cached, err := m.store.CheckAndSet(ctx, key, nil, m.ttl)
		if err != nil {
			logger.Error().Err(err).Msg("idempotency check failed")
			writeError(w, http.StatusInternalServerError, codeInternal, "internal server error")
			return
		}

		if exists {
			m.replay(w, logger, cached)
			return
		}

		// The response may already be on the wire; the store calls must not
		// be cut short by a client that went away.
		storeCtx := context.WithoutCancel(ctx)
		release := func() {
			if err := m.store.Forget(storeCtx, key); err != nil {
				logger.Warn().Err(err).Msg("failed to release idempotency key")
			}
		}

		recorder := &responseRecorder{
			ResponseWriter: w,
			body:           &bytes.Buffer{},
			statusCode:     http.StatusOK,
		}
		m.serve(next, recorder, r, release)

		if recorder.statusCode < 200 || recorder.statusCode >= 300 {
			release()
			return
		}

		payload, err := json.Marshal(storedResponse{Status: recorder.statusCode, Body: recorder.body.Bytes()})
		if err == nil {
			err = m.store.Update(storeCtx, key, payload, m.ttl)
		}
		if err != nil {
			logger.Warn().Err(err).Msg("failed to store idempotent response")
		}
	})
}

// serve runs the handler and releases the claimed key if it panics. The
// panic is re-raised for the recovery middleware.
func (m *IdempotencyMiddleware) serve(next http.Handler, w http.ResponseWriter, r *http.Request, release func()) {
	defer func() {
		if p := recover(); p != nil {
			release()
			panic(p)
		}
	}()

	next.ServeHTTP(w, r)
}

func (m *IdempotencyMiddleware) replay(w http.ResponseWriter, logger *zerolog.Logger, cached []byte) {
	if cached == nil || string(cached) == pendingMarker {
		writeError(w, http.StatusConflict, "REQUEST_IN_PROGRESS", "a request with this idempotency key is still being processed")
		return
	}

	var stored storedResponse
	if err := json.Unmarshal(cached, &stored); err != nil {
		logger.Error().Err(err).Msg("corrupt idempotent response")
		writeError(w, http.StatusInternalServerError, codeInternal, "internal server error")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set(IdempotencyReplayHeader, "true")
	w.WriteHeader(stored.Status)
	w.Write(stored.Body)
}

func scopedKey(r *http.Request, key string) string {
	caller := "anonymous"
	if identity, ok := IdentityFromContext(r.Context()); ok {
		caller = identity.Email
	}
	return caller + ":" + r.Method + ":" + r.URL.Path + ":" + key
}

type responseRecorder struct {
	http.ResponseWriter
	statusCode int
	body       *bytes.Buffer
}

func (r *responseRecorder) Write(b []byte) (int, error) {
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}

func (r *responseRecorder) WriteHeader(statusCode int) {
	r.statusCode = statusCode
	r.ResponseWriter.WriteHeader(statusCode)
}
