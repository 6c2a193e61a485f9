package middleware

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"hrdesk/internal/domain/auth"
)

type memoryIdempotency struct {
	mu      sync.Mutex
	entries map[string]struct {
		hash string
		resp StoredResponse
	}
}

func newMemoryIdempotency() *memoryIdempotency {
	return &memoryIdempotency{entries: map[string]struct {
		hash string
		resp StoredResponse
	}{}}
}

func (m *memoryIdempotency) Check(_ context.Context, userID, endpoint, key, hash string) (StoredResponse, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, ok := m.entries[userID+"|"+endpoint+"|"+key]
	if !ok {
		return StoredResponse{}, false, nil
	}
	if entry.hash != hash {
		return StoredResponse{}, false, ErrIdempotencyConflict
	}
	return entry.resp, true, nil
}

func (m *memoryIdempotency) Save(_ context.Context, userID, endpoint, key, hash string, resp StoredResponse) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[userID+"|"+endpoint+"|"+key] = struct {
		hash string
		resp StoredResponse
	}{hash, resp}
	return nil
}

func TestRequestHashDeterministic(t *testing.T) {
	hash1 := RequestHash([]byte("payload"))
	hash2 := RequestHash([]byte("payload"))
	hash3 := RequestHash([]byte("other"))

	if hash1 != hash2 {
		t.Fatal("expected deterministic hash")
	}
	if hash1 == hash3 {
		t.Fatal("expected different hash for different payload")
	}
}

func idempotentPost(handler http.Handler, key, body string) *httptest.ResponseRecorder {
	ctx := WithUser(context.Background(), auth.Principal{UserID: "u1", Role: auth.RoleAdmin})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/payroll", bytes.NewBufferString(body)).WithContext(ctx)
	req.Header.Set(IdempotencyHeader, key)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestIdempotencyReplaysStoredResponse(t *testing.T) {
	calls := 0
	handler := Idempotency(newMemoryIdempotency())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"success":true,"data":{"id":"p1"}}`))
	}))

	first := idempotentPost(handler, "k1", `{"employeeId":"e1"}`)
	second := idempotentPost(handler, "k1", `{"employeeId":"e1"}`)

	if calls != 1 {
		t.Fatalf("expected handler to run once, ran %d times", calls)
	}
	if second.Code != http.StatusCreated || second.Body.String() != first.Body.String() {
		t.Fatalf("expected replayed response, got %d %s", second.Code, second.Body.String())
	}
	if second.Header().Get("Idempotent-Replayed") != "true" {
		t.Fatal("expected replay header")
	}
}

func TestIdempotencyRejectsKeyReuseWithDifferentPayload(t *testing.T) {
	handler := Idempotency(newMemoryIdempotency())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"success":true}`))
	}))

	idempotentPost(handler, "k1", `{"employeeId":"e1"}`)
	rec := idempotentPost(handler, "k1", `{"employeeId":"e2"}`)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestIdempotencyDoesNotStoreFailures(t *testing.T) {
	calls := 0
	handler := Idempotency(newMemoryIdempotency())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadRequest)
	}))

	idempotentPost(handler, "k1", `{}`)
	idempotentPost(handler, "k1", `{}`)
	if calls != 2 {
		t.Fatalf("expected failed responses to be retried, ran %d times", calls)
	}
}
