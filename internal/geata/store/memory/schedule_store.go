package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/wakko59/Geata-api/internal/geata/schedule"
)

type ScheduleStore struct {
	mu     sync.RWMutex
	nextID int64
	rows   map[int64]schedule.Schedule
}

func NewScheduleStore() *ScheduleStore {
	return &ScheduleStore{rows: make(map[int64]schedule.Schedule)}
}

func (s *ScheduleStore) Create(_ context.Context, name, description string, slots []schedule.Slot) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	id := s.nextID
	s.rows[id] = schedule.Schedule{
		ID:          id,
		Name:        name,
		Description: description,
		Slots:       append([]schedule.Slot(nil), slots...),
	}
	return id, nil
}

func (s *ScheduleStore) Get(_ context.Context, id int64) (*schedule.Schedule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sched, ok := s.rows[id]
	if !ok {
		return nil, nil
	}
	return &sched, nil
}

func (s *ScheduleStore) List(_ context.Context) ([]schedule.Schedule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]schedule.Schedule, 0, len(s.rows))
	for _, sched := range s.rows {
		out = append(out, sched)
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out, nil
}

func (s *ScheduleStore) Update(_ context.Context, id int64, name, description string, slots []schedule.Slot) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[id]; !ok {
		return false, nil
	}
	s.rows[id] = schedule.Schedule{
		ID:          id,
		Name:        name,
		Description: description,
		Slots:       append([]schedule.Slot(nil), slots...),
	}
	return true, nil
}

func (s *ScheduleStore) Delete(_ context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[id]; !ok {
		return false, nil
	}
	delete(s.rows, id)
	return true, nil
}
