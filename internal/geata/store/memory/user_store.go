package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/wakko59/Geata-api/internal/geata/store"
)

type UserStore struct {
	mu    sync.RWMutex
	users map[string]store.UserRecord

	memberships *MembershipStore
}

func NewUserStore() *UserStore {
	return &UserStore{users: make(map[string]store.UserRecord)}
}

// CascadeTo registers the membership store so Delete removes the user's
// memberships too, mirroring the sqlite schema's ON DELETE CASCADE.
func (s *UserStore) CascadeTo(memberships *MembershipStore) {
	s.memberships = memberships
}

func (s *UserStore) Create(_ context.Context, rec store.UserRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if rec.Email != "" && u.Email == rec.Email {
			return store.ErrExists
		}
		if rec.Phone != "" && u.Phone == rec.Phone {
			return store.ErrExists
		}
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	s.users[rec.ID] = rec
	return nil
}

func (s *UserStore) Get(_ context.Context, id string) (*store.UserRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (s *UserStore) GetByEmail(_ context.Context, email string) (*store.UserRecord, error) {
	if email == "" {
		return nil, nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, rec := range s.users {
		if rec.Email == email {
			r := rec
			return &r, nil
		}
	}
	return nil, nil
}

func (s *UserStore) GetByPhone(_ context.Context, phone string) (*store.UserRecord, error) {
	if phone == "" {
		return nil, nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, rec := range s.users {
		if rec.Phone == phone {
			r := rec
			return &r, nil
		}
	}
	return nil, nil
}

func (s *UserStore) List(_ context.Context) ([]store.UserRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]store.UserRecord, 0, len(s.users))
	for _, rec := range s.users {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out, nil
}

func (s *UserStore) Delete(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	if _, ok := s.users[id]; !ok {
		s.mu.Unlock()
		return false, nil
	}
	delete(s.users, id)
	s.mu.Unlock()

	if s.memberships != nil {
		s.memberships.deleteByUser(id)
	}
	return true, nil
}
