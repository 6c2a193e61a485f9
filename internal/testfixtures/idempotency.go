package testfixtures

import (
	"context"
	"sync"

	"hrdesk/internal/transport/http/middleware"
)

type idempotencyEntry struct {
	hash string
	resp middleware.StoredResponse
}

// IdempotencyStore is an in-memory middleware.IdempotencyBackend.
type IdempotencyStore struct {
	mu      sync.Mutex
	entries map[string]idempotencyEntry
}

func NewIdempotencyStore() *IdempotencyStore {
	return &IdempotencyStore{entries: map[string]idempotencyEntry{}}
}

func (s *IdempotencyStore) Check(_ context.Context, userID, endpoint, key, hash string) (middleware.StoredResponse, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[userID+"|"+endpoint+"|"+key]
	if !ok {
		return middleware.StoredResponse{}, false, nil
	}
	if entry.hash != hash {
		return middleware.StoredResponse{}, false, middleware.ErrIdempotencyConflict
	}
	return entry.resp, true, nil
}

func (s *IdempotencyStore) Save(_ context.Context, userID, endpoint, key, hash string, resp middleware.StoredResponse) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := userID + "|" + endpoint + "|" + key
	if entry, ok := s.entries[id]; ok && entry.hash != hash {
		return middleware.ErrIdempotencyConflict
	}
	s.entries[id] = idempotencyEntry{hash: hash, resp: resp}
	return nil
}
