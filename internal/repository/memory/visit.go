package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/clinicore/clinicore/internal/domain/visit"
)

type VisitStore struct {
	mu   sync.RWMutex
	byID map[string]*visit.Visit
}

var _ visit.Repository = (*VisitStore)(nil)

func NewVisitStore() *VisitStore {
	return &VisitStore{byID: make(map[string]*visit.Visit)}
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}

func (s *VisitStore) Create(ctx context.Context, v *visit.Visit) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()

	// Queue numbers restart daily.
	number := 0
	for _, existing := range s.byID {
		if sameDay(existing.CheckedInAt, now) && existing.Number > number {
			number = existing.Number
		}
	}

	v.ID = nextID("Q", keysOf(s.byID))
	v.Number = number + 1
	v.CheckedInAt = now
	v.CreatedAt = now
	v.UpdatedAt = now

	cp := *v
	s.byID[v.ID] = &cp
	return nil
}

func (s *VisitStore) GetByID(ctx context.Context, id string) (*visit.Visit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.byID[id]
	if !ok {
		return nil, visit.ErrVisitNotFound
	}
	cp := *v
	return &cp, nil
}

func (s *VisitStore) Mutate(ctx context.Context, id string, fn func(v *visit.Visit) error) (*visit.Visit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.byID[id]
	if !ok {
		return nil, visit.ErrVisitNotFound
	}

	working := *stored
	if err := fn(&working); err != nil {
		return nil, err
	}
	working.UpdatedAt = time.Now().UTC()

	cp := working
	s.byID[id] = &cp
	return &working, nil
}

func (s *VisitStore) List(ctx context.Context, q *visit.ListVisitsQuery) ([]*visit.Visit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*visit.Visit, 0, len(s.byID))
	for _, v := range s.byID {
		if q != nil {
			if q.Status != nil && v.Status != *q.Status {
				continue
			}
			if q.PatientID != "" && v.PatientID != q.PatientID {
				continue
			}
			if q.Date != nil && !sameDay(v.CheckedInAt, *q.Date) {
				continue
			}
		}
		cp := *v
		out = append(out, &cp)
	}

	sort.Slice(out, func(i, j int) bool {
		if !sameDay(out[i].CheckedInAt, out[j].CheckedInAt) {
			return out[i].CheckedInAt.Before(out[j].CheckedInAt)
		}
		return out[i].Number < out[j].Number
	})
	return out, nil
}
