package store

import (
	"context"
	"sync"
)

// InMemoryStore keeps everything in process memory. Used in tests and when
// no database is configured.
type InMemoryStore struct {
	mu        sync.Mutex
	users     map[string]User
	responses []ResponseRecord
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{users: map[string]User{}}
}

func (s *InMemoryStore) SaveUser(ctx context.Context, user User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[user.ID] = user
	return nil
}

func (s *InMemoryStore) SaveResponse(ctx context.Context, record ResponseRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.responses = append(s.responses, record)
	return nil
}

func (s *InMemoryStore) Close(ctx context.Context) error {
	return nil
}

// Users returns a snapshot of the stored users.
func (s *InMemoryStore) Users() []User {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u)
	}
	return out
}

// Responses returns a snapshot of the stored responses.
func (s *InMemoryStore) Responses() []ResponseRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]ResponseRecord, len(s.responses))
	copy(out, s.responses)
	return out
}
