package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/wakko59/Geata-api/internal/geata/store"
)

type DeviceStore struct {
	mu      sync.RWMutex
	devices map[string]store.DeviceRecord
	secrets map[string]string

	memberships *MembershipStore
	commands    *CommandStore
}

func NewDeviceStore() *DeviceStore {
	return &DeviceStore{
		devices: make(map[string]store.DeviceRecord),
		secrets: make(map[string]string),
	}
}

// CascadeTo registers the stores whose rows reference devices.  Delete then
// removes their rows too, mirroring the sqlite schema's ON DELETE CASCADE.
func (s *DeviceStore) CascadeTo(memberships *MembershipStore, commands *CommandStore) {
	s.memberships = memberships
	s.commands = commands
}

func (s *DeviceStore) Create(_ context.Context, rec store.DeviceRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.devices[rec.ID]; ok {
		return store.ErrExists
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	s.devices[rec.ID] = rec
	return nil
}

func (s *DeviceStore) Get(_ context.Context, id string) (*store.DeviceRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.devices[id]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (s *DeviceStore) List(_ context.Context) ([]store.DeviceRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]store.DeviceRecord, 0, len(s.devices))
	for _, rec := range s.devices {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *DeviceStore) Delete(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	if _, ok := s.devices[id]; !ok {
		s.mu.Unlock()
		return false, nil
	}
	delete(s.devices, id)
	delete(s.secrets, id)
	s.mu.Unlock()

	if s.memberships != nil {
		s.memberships.deleteByDevice(id)
	}
	if s.commands != nil {
		s.commands.deleteByDevice(id)
	}
	return true, nil
}

func (s *DeviceStore) SetSecret(_ context.Context, id, secret string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.secrets[id] = secret
	return nil
}

func (s *DeviceStore) GetSecret(_ context.Context, id string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.secrets[id], nil
}
