package middleware

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/iho/goremit/internal/domain"
	"github.com/iho/goremit/internal/usecase/mocks"
)

type fakeIdempotencyStore struct {
	checkAndSetFn func(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	updateFn      func(ctx context.Context, key string, response []byte, ttl time.Duration) error
	forgetFn      func(ctx context.Context, key string) error
}

func (f *fakeIdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	if f.checkAndSetFn != nil {
		return f.checkAndSetFn(ctx, key, response, ttl)
	}
	return false, nil, nil
}

func (f *fakeIdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, key, response, ttl)
	}
	return nil
}

func (f *fakeIdempotencyStore) Forget(ctx context.Context, key string) error {
	if f.forgetFn != nil {
		return f.forgetFn(ctx, key)
	}
	return nil
}

func newIdempotentRequest(key, email string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/accounts", bytes.NewBufferString(`{}`))
	req.Header.Set(IdempotencyKeyHeader, key)
	if email != "" {
		req = req.WithContext(WithIdentity(req.Context(), domain.Identity{ID: email, Email: email}))
	}
	return req
}

func TestIdempotencyMiddleware_ReplaysSuccessfulResponse(t *testing.T) {
	store := mocks.NewInMemoryIdempotencyStore()
	mw := NewIdempotencyMiddleware(store, time.Hour)

	calls := 0
	handler := mw.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"accountNumber":"100000000000","accountStatus":"IN_USE"}`))
	}))

	first := httptest.NewRecorder()
	handler.ServeHTTP(first, newIdempotentRequest("key-1", "alice@example.com"))

	second := httptest.NewRecorder()
	handler.ServeHTTP(second, newIdempotentRequest("key-1", "alice@example.com"))

	if calls != 1 {
		t.Fatalf("expected handler to run once, ran %d times", calls)
	}
	if second.Code != http.StatusCreated {
		t.Fatalf("expected replayed status 201, got %d", second.Code)
	}
	if second.Header().Get(IdempotencyReplayHeader) != "true" {
		t.Fatalf("expected replay header")
	}
	if second.Body.String() != first.Body.String() {
		t.Fatalf("replayed body %q differs from original %q", second.Body.String(), first.Body.String())
	}
}

func TestIdempotencyMiddleware_KeysAreScopedPerCaller(t *testing.T) {
	store := mocks.NewInMemoryIdempotencyStore()
	mw := NewIdempotencyMiddleware(store, time.Hour)

	calls := 0
	handler := mw.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusCreated)
	}))

	handler.ServeHTTP(httptest.NewRecorder(), newIdempotentRequest("shared", "alice@example.com"))
	handler.ServeHTTP(httptest.NewRecorder(), newIdempotentRequest("shared", "bob@example.com"))

	if calls != 2 {
		t.Fatalf("expected separate callers not to share a key, handler ran %d times", calls)
	}
	if len(store.Keys()) != 2 {
		t.Fatalf("expected two stored keys, got %v", store.Keys())
	}
}

func TestIdempotencyMiddleware_PendingKeyConflicts(t *testing.T) {
	store := &fakeIdempotencyStore{
		checkAndSetFn: func(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
			return true, []byte(pendingMarker), nil
		},
	}
	mw := NewIdempotencyMiddleware(store, time.Hour)

	rr := httptest.NewRecorder()
	mw.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run while the first request is pending")
	})).ServeHTTP(rr, newIdempotentRequest("key-pending", "alice@example.com"))

	if rr.Code != http.StatusConflict {
		t.Fatalf("expected status 409, got %d", rr.Code)
	}
}

func TestIdempotencyMiddleware_StoreErrors(t *testing.T) {
	var called bool
	store := &fakeIdempotencyStore{
		checkAndSetFn: func(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
			return false, nil, context.DeadlineExceeded
		},
	}
	mw := NewIdempotencyMiddleware(store, time.Hour)

	rr := httptest.NewRecorder()
	mw.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})).ServeHTTP(rr, newIdempotentRequest("key-err", "alice@example.com"))

	if called {
		t.Fatalf("handler should not be called when store errors")
	}
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", rr.Code)
	}
}

func TestIdempotencyMiddleware_FailedResponsesReleaseKey(t *testing.T) {
	var updated, forgotten bool
	store := &fakeIdempotencyStore{
		updateFn: func(ctx context.Context, key string, response []byte, ttl time.Duration) error {
			updated = true
			return nil
		},
		forgetFn: func(ctx context.Context, key string) error {
			forgotten = true
			return nil
		},
	}
	mw := NewIdempotencyMiddleware(store, time.Hour)

	rr := httptest.NewRecorder()
	mw.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	})).ServeHTTP(rr, newIdempotentRequest("key-fail", "alice@example.com"))

	if updated {
		t.Fatalf("expected error responses not to be cached")
	}
	if !forgotten {
		t.Fatalf("expected the key to be released")
	}
}

func TestIdempotencyMiddleware_SkipsWithoutKeyOrForReads(t *testing.T) {
	store := &fakeIdempotencyStore{
		checkAndSetFn: func(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
			t.Fatal("store should not be consulted")
			return false, nil, nil
		},
	}
	mw := NewIdempotencyMiddleware(store, 0)
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})

	mw.Wrap(next).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/accounts", nil))

	get := httptest.NewRequest(http.MethodGet, "/accounts/100000000000", nil)
	get.Header.Set(IdempotencyKeyHeader, "key")
	mw.Wrap(next).ServeHTTP(httptest.NewRecorder(), get)
}

func TestIdempotencyMiddleware_PanicReleasesKey(t *testing.T) {
	store := mocks.NewInMemoryIdempotencyStore()
	mw := NewIdempotencyMiddleware(store, time.Hour)

	calls := 0
	handler := Recovery(mw.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			panic("remit exploded")
		}
		w.WriteHeader(http.StatusOK)
	})))

	first := httptest.NewRecorder()
	handler.ServeHTTP(first, newIdempotentRequest("key-panic", "alice@example.com"))
	if first.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 from recovery, got %d", first.Code)
	}
	if keys := store.Keys(); len(keys) != 0 {
		t.Fatalf("expected the key to be released, still holding %v", keys)
	}

	retry := httptest.NewRecorder()
	handler.ServeHTTP(retry, newIdempotentRequest("key-panic", "alice@example.com"))
	if retry.Code != http.StatusOK {
		t.Fatalf("expected retry to reach the handler, got %d: %s", retry.Code, retry.Body.String())
	}
	if calls != 2 {
		t.Fatalf("expected handler to run twice, ran %d times", calls)
	}
}
