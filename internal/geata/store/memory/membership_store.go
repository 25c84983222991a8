package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/wakko59/Geata-api/internal/geata/store"
)

type membershipKey struct {
	deviceID string
	userID   string
}

type MembershipStore struct {
	mu   sync.RWMutex
	rows map[membershipKey]store.MembershipRecord
}

func NewMembershipStore() *MembershipStore {
	return &MembershipStore{rows: make(map[membershipKey]store.MembershipRecord)}
}

func (s *MembershipStore) Upsert(_ context.Context, rec store.MembershipRecord) error {
	if rec.Role == "" {
		rec.Role = store.RoleOperator
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows[membershipKey{rec.DeviceID, rec.UserID}] = rec
	return nil
}

func (s *MembershipStore) Get(_ context.Context, deviceID, userID string) (*store.MembershipRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.rows[membershipKey{deviceID, userID}]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (s *MembershipStore) Delete(_ context.Context, deviceID, userID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := membershipKey{deviceID, userID}
	if _, ok := s.rows[key]; !ok {
		return false, nil
	}
	delete(s.rows, key)
	return true, nil
}

func (s *MembershipStore) ListByDevice(_ context.Context, deviceID string) ([]store.MembershipRecord, error) {
	return s.list(func(rec store.MembershipRecord) bool { return rec.DeviceID == deviceID })
}

func (s *MembershipStore) ListByUser(_ context.Context, userID string) ([]store.MembershipRecord, error) {
	return s.list(func(rec store.MembershipRecord) bool { return rec.UserID == userID })
}

func (s *MembershipStore) list(keep func(store.MembershipRecord) bool) ([]store.MembershipRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []store.MembershipRecord
	for _, rec := range s.rows {
		if keep(rec) {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].DeviceID != out[j].DeviceID {
			return out[i].DeviceID < out[j].DeviceID
		}
		return out[i].UserID < out[j].UserID
	})
	return out, nil
}

func (s *MembershipStore) deleteByDevice(deviceID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key := range s.rows {
		if key.deviceID == deviceID {
			delete(s.rows, key)
		}
	}
}

func (s *MembershipStore) deleteByUser(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key := range s.rows {
		if key.userID == userID {
			delete(s.rows, key)
		}
	}
}

func (s *MembershipStore) SetScheduleAssignment(_ context.Context, deviceID, userID string, scheduleID *int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := membershipKey{deviceID, userID}
	rec, ok := s.rows[key]
	if !ok {
		rec = store.MembershipRecord{DeviceID: deviceID, UserID: userID, Role: store.RoleOperator}
	}
	rec.ScheduleID = scheduleID
	s.rows[key] = rec
	return nil
}
