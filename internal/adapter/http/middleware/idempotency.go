package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/gowallet/internal/usecase"
)

const (
	// IdempotencyKeyHeader is the header name for idempotency keys.
	IdempotencyKeyHeader = "Idempotency-Key"
	// IdempotencyReplayHeader marks a response served from the idempotency store.
	IdempotencyReplayHeader = "X-Idempotency-Replay"

	processingMarker = "processing"

	// idempotencyStoreTimeout bounds the store calls made after the handler returns.
	idempotencyStoreTimeout = 5 * time.Second
)

// cachedResponse is what the store keeps for a completed request.
type cachedResponse struct {
	StatusCode int    `json:"status_code"`
	Body       []byte `json:"body"`
}

// IdempotencyMiddleware replays the stored response of a mutating request that
// is sent again with the same Idempotency-Key.
type IdempotencyMiddleware struct {
	store  usecase.IdempotencyStore
	ttl    time.Duration
	logger zerolog.Logger
}

// NewIdempotencyMiddleware creates a new IdempotencyMiddleware.
func NewIdempotencyMiddleware(store usecase.IdempotencyStore, ttl time.Duration, logger zerolog.Logger) *IdempotencyMiddleware {
	if ttl <= 0 {
		ttl = usecase.IdempotencyKeyTTL
	}
	return &IdempotencyMiddleware{store: store, ttl: ttl, logger: logger}
}

// Wrap wraps an http.Handler with idempotency checking.
func (m *IdempotencyMiddleware) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Only apply to mutating requests
		if r.Method != http.MethodPost && r.Method != http.MethodPut {
			next.ServeHTTP(w, r)
			return
		}

		header := r.Header.Get(IdempotencyKeyHeader)
		if header == "" {
			next.ServeHTTP(w, r)
			return
		}
		// A key is only meaningful for the endpoint it was first used on.
		key := r.Method + " " + r.URL.Path + " " + header

		exists, stored, err := m.store.CheckAndSet(r.Context(), key, nil, m.ttl)
		if err != nil {
			m.logger.Error().Err(err).Msg("idempotency check failed")
			http.Error(w, "idempotency check failed", http.StatusInternalServerError)
			return
		}

		if exists {
			if stored == nil || string(stored) == processingMarker {
				http.Error(w, "request with this idempotency key is in progress", http.StatusConflict)
				return
			}
			replay(w, stored)
			return
		}

		// Capture response
		recorder := &responseRecorder{
			ResponseWriter: w,
			body:           &bytes.Buffer{},
			statusCode:     http.StatusOK,
		}

		// The outcome is recorded even when the client has gone away: the
		// mutation may already be durable.
		finishCtx := context.WithoutCancel(r.Context())

		completed := false
		defer func() {
			if !completed {
				// The handler panicked; free the key before the panic moves on.
				m.release(finishCtx, key, header)
			}
		}()

		next.ServeHTTP(recorder, r)
		completed = true

		// Only successful responses are replayed; anything else frees the key.
		if recorder.statusCode >= 200 && recorder.statusCode < 300 {
			m.remember(finishCtx, key, header, recorder)
			return
		}

		m.release(finishCtx, key, header)
	})
}

func (m *IdempotencyMiddleware) remember(ctx context.Context, key, header string, recorder *responseRecorder) {
	payload, err := json.Marshal(cachedResponse{
		StatusCode: recorder.statusCode,
		Body:       recorder.body.Bytes(),
	})
	if err == nil {
		ctx, cancel := context.WithTimeout(ctx, idempotencyStoreTimeout)
		defer cancel()
		err = m.store.Update(ctx, key, payload, m.ttl)
	}
	if err != nil {
		m.logger.Error().Err(err).Str("idempotency_key", header).Msg("failed to store idempotent response")
	}
}

func (m *IdempotencyMiddleware) release(ctx context.Context, key, header string) {
	ctx, cancel := context.WithTimeout(ctx, idempotencyStoreTimeout)
	defer cancel()

	if err := m.store.Release(ctx, key); err != nil {
		m.logger.Error().Err(err).Str("idempotency_key", header).Msg("failed to release idempotency key")
	}
}

func replay(w http.ResponseWriter, stored []byte) {
	resp := cachedResponse{StatusCode: http.StatusOK, Body: stored}
	var decoded cachedResponse
	if err := json.Unmarshal(stored, &decoded); err == nil && decoded.StatusCode != 0 {
		resp = decoded
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set(IdempotencyReplayHeader, "true")
	w.WriteHeader(resp.StatusCode)
	w.Write(resp.Body)
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
