package middleware

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DoonX23/ciseco-backend/pkg/logger"
)

type fakeIdempotencyStore struct {
	records map[string]string
	setTTL  time.Duration
}

func newFakeIdempotencyStore() *fakeIdempotencyStore {
	return &fakeIdempotencyStore{records: map[string]string{}}
}

func (f *fakeIdempotencyStore) Get(_ context.Context, key string) (string, error) {
	value, ok := f.records[key]
	if !ok {
		return "", redis.Nil
	}
	return value, nil
}

func (f *fakeIdempotencyStore) SetNX(_ context.Context, key string, value any, ttl time.Duration) (bool, error) {
	if _, ok := f.records[key]; ok {
		return false, nil
	}
	f.records[key] = value.(string)
	f.setTTL = ttl
	return true, nil
}

func (f *fakeIdempotencyStore) IdempotencyKey(scope, id string) string {
	return "ciseco:idempotency:" + scope + ":" + id
}

func (f *fakeIdempotencyStore) Del(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(f.records, key)
	}
	return nil
}

func idempotencyTestLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func countingHandler(calls *int) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"data":{"status":"success"}}`))
	})
}

func submitRequest(body, key, session string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/custom-orders", strings.NewReader(body))
	if key != "" {
		req.Header.Set("Idempotency-Key", key)
	}
	if session != "" {
		req.Header.Set(CartSessionHeader, session)
	}
	return req
}

func TestIdempotencyRequiresKey(t *testing.T) {
	calls := 0
	handler := Idempotency(newFakeIdempotencyStore(), idempotencyTestLogger())(countingHandler(&calls))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, submitRequest(`{"quantity":1}`, "", ""))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, calls)
}

func TestIdempotencyReplaysIdenticalRequest(t *testing.T) {
	calls := 0
	store := newFakeIdempotencyStore()
	handler := Idempotency(store, idempotencyTestLogger())(countingHandler(&calls))

	first := httptest.NewRecorder()
	handler.ServeHTTP(first, submitRequest(`{"quantity":1}`, "key-1", "cart-1"))
	require.Equal(t, http.StatusCreated, first.Code)
	require.Equal(t, 1, calls)
	assert.Equal(t, submissionIdempotencyTTL, store.setTTL)

	second := httptest.NewRecorder()
	handler.ServeHTTP(second, submitRequest(`{"quantity":1}`, "key-1", "cart-1"))
	assert.Equal(t, http.StatusCreated, second.Code)
	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Equal(t, "application/json", second.Header().Get("Content-Type"))
	assert.Equal(t, 1, calls, "handler must not run on replay")
}

func TestIdempotencyReplayKeepsCartSessionHeader(t *testing.T) {
	calls := 0
	handler := Idempotency(newFakeIdempotencyStore(), idempotencyTestLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set(CartSessionHeader, "gid://shopify/Cart/abc")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"data":{"status":"success"}}`))
	}))

	first := httptest.NewRecorder()
	handler.ServeHTTP(first, submitRequest(`{"quantity":1}`, "key-1", ""))
	require.Equal(t, "gid://shopify/Cart/abc", first.Header().Get(CartSessionHeader))

	second := httptest.NewRecorder()
	handler.ServeHTTP(second, submitRequest(`{"quantity":1}`, "key-1", ""))
	assert.Equal(t, 1, calls)
	assert.Equal(t, "gid://shopify/Cart/abc", second.Header().Get(CartSessionHeader))
}

func TestIdempotencyRejectsChangedBody(t *testing.T) {
	calls := 0
	handler := Idempotency(newFakeIdempotencyStore(), idempotencyTestLogger())(countingHandler(&calls))

	first := httptest.NewRecorder()
	handler.ServeHTTP(first, submitRequest(`{"quantity":1}`, "key-1", "cart-1"))
	require.Equal(t, 1, calls)

	second := httptest.NewRecorder()
	handler.ServeHTTP(second, submitRequest(`{"quantity":2}`, "key-1", "cart-1"))
	assert.Equal(t, http.StatusConflict, second.Code)
	assert.Equal(t, 1, calls)
}

func TestIdempotencyScopedByCartSession(t *testing.T) {
	calls := 0
	handler := Idempotency(newFakeIdempotencyStore(), idempotencyTestLogger())(countingHandler(&calls))

	first := httptest.NewRecorder()
	handler.ServeHTTP(first, submitRequest(`{"quantity":1}`, "key-1", "cart-1"))
	second := httptest.NewRecorder()
	handler.ServeHTTP(second, submitRequest(`{"quantity":1}`, "key-1", "cart-2"))

	assert.Equal(t, 2, calls, "different cart sessions are independent scopes")
}

func TestIdempotencySkipsUnruledRoutes(t *testing.T) {
	calls := 0
	handler := Idempotency(newFakeIdempotencyStore(), idempotencyTestLogger())(countingHandler(&calls))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/custom-orders/quote", nil)
	handler.ServeHTTP(rec, req)

	assert.Equal(t, 1, calls)
	assert.Equal(t, http.StatusCreated, rec.Code)
}
