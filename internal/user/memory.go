package user

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore is an in-memory Store used in tests and local development.
type MemoryStore struct {
	mu    sync.RWMutex
	users map[string]*User // keyed by lowercase email
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{users: make(map[string]*User)}
}

func (s *MemoryStore) FindByEmail(_ context.Context, email string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[strings.ToLower(email)]
	if !ok {
		return nil, ErrNotFound
	}
	clone := *u
	return &clone, nil
}

func (s *MemoryStore) Save(_ context.Context, u *User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if u.ID == uuid.Nil {
		u.ID = uuid.New()
		u.CreatedAt = time.Now()
	}
	if len(u.Roles) == 0 {
		u.Roles = []string{DefaultRole}
	}
	if len(u.OAuthProviders) == 0 {
		u.OAuthProviders = []string{DefaultProvider}
	}
	u.UpdatedAt = time.Now()

	clone := *u
	s.users[strings.ToLower(u.Email)] = &clone
	return nil
}

func (s *MemoryStore) UpdateAccessToken(_ context.Context, u *User, token string) error {
	return s.update(u.Email, func(stored *User) { stored.AccessToken = token })
}

func (s *MemoryStore) UpdateRefreshToken(_ context.Context, u *User, token string) error {
	return s.update(u.Email, func(stored *User) { stored.RefreshToken = token })
}

func (s *MemoryStore) update(email string, apply func(*User)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.users[strings.ToLower(email)]
	if !ok {
		return ErrNotFound
	}
	apply(stored)
	stored.UpdatedAt = time.Now()
	return nil
}
