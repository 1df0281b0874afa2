package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/clinicore/clinicore/internal/domain/staff"
)

type StaffStore struct {
	mu    sync.RWMutex
	byID  map[string]*staff.Staff
	order []string
}

var _ staff.Repository = (*StaffStore)(nil)

func NewStaffStore() *StaffStore {
	return &StaffStore{byID: make(map[string]*staff.Staff)}
}

func (s *StaffStore) Create(ctx context.Context, m *staff.Staff) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.byID {
		if strings.EqualFold(existing.Email, m.Email) {
			return staff.ErrEmailAlreadyExists
		}
	}

	now := time.Now().UTC()
	m.ID = nextID("S", keysOf(s.byID))
	m.CreatedAt = now
	m.UpdatedAt = now

	cp := *m
	s.byID[m.ID] = &cp
	s.order = append(s.order, m.ID)
	return nil
}

func (s *StaffStore) GetByID(ctx context.Context, id string) (*staff.Staff, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.byID[id]
	if !ok {
		return nil, staff.ErrStaffNotFound
	}
	cp := *m
	return &cp, nil
}

func (s *StaffStore) Update(ctx context.Context, id string, cmd *staff.UpdateStaffCommand) (*staff.Staff, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.byID[id]
	if !ok {
		return nil, staff.ErrStaffNotFound
	}

	if cmd.Name != nil {
		m.Name = *cmd.Name
	}
	if cmd.Phone != nil {
		m.Phone = *cmd.Phone
	}
	if cmd.Specialty != nil {
		m.Specialty = *cmd.Specialty
	}
	m.UpdatedAt = time.Now().UTC()

	cp := *m
	return &cp, nil
}

func (s *StaffStore) SetActive(ctx context.Context, id string, active bool) (*staff.Staff, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.byID[id]
	if !ok {
		return nil, staff.ErrStaffNotFound
	}
	m.IsActive = active
	m.UpdatedAt = time.Now().UTC()

	cp := *m
	return &cp, nil
}

func (s *StaffStore) List(ctx context.Context, q *staff.ListStaffQuery) ([]*staff.Staff, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*staff.Staff, 0, len(s.order))
	for _, id := range s.order {
		m := s.byID[id]
		if q != nil {
			if q.Role != nil && m.Role != *q.Role {
				continue
			}
			if q.ActiveOnly && !m.IsActive {
				continue
			}
		}
		cp := *m
		out = append(out, &cp)
	}
	return out, nil
}
