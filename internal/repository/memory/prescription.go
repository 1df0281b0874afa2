package memory

import (
	"context"
	"sync"
	"time"

	"github.com/clinicore/clinicore/internal/domain/prescription"
)

type PrescriptionStore struct {
	mu    sync.RWMutex
	byID  map[string]*prescription.Prescription
	order []string
}

var _ prescription.Repository = (*PrescriptionStore)(nil)

func NewPrescriptionStore() *PrescriptionStore {
	return &PrescriptionStore{byID: make(map[string]*prescription.Prescription)}
}

func copyPrescription(p *prescription.Prescription) *prescription.Prescription {
	cp := *p
	cp.Items = make([]prescription.Item, len(p.Items))
	copy(cp.Items, p.Items)
	return &cp
}

func (s *PrescriptionStore) Create(ctx context.Context, p *prescription.Prescription) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	p.ID = nextID("RX", keysOf(s.byID))
	p.CreatedAt = now
	p.UpdatedAt = now
	if p.Date.IsZero() {
		p.Date = now
	}

	s.byID[p.ID] = copyPrescription(p)
	s.order = append(s.order, p.ID)
	return nil
}

func (s *PrescriptionStore) GetByID(ctx context.Context, id string) (*prescription.Prescription, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.byID[id]
	if !ok {
		return nil, prescription.ErrPrescriptionNotFound
	}
	return copyPrescription(p), nil
}

// Mutate applies fn to a working copy under the write lock and persists it
// only if fn succeeds. Status transitions and their side effects run inside
// fn, so a concurrent caller observes either the old or the new state, never
// an intermediate one.
func (s *PrescriptionStore) Mutate(ctx context.Context, id string, fn func(p *prescription.Prescription) error) (*prescription.Prescription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.byID[id]
	if !ok {
		return nil, prescription.ErrPrescriptionNotFound
	}

	working := copyPrescription(stored)
	if err := fn(working); err != nil {
		return nil, err
	}
	working.UpdatedAt = time.Now().UTC()

	s.byID[id] = copyPrescription(working)
	return working, nil
}

func (s *PrescriptionStore) List(ctx context.Context, q *prescription.ListPrescriptionsQuery) ([]*prescription.Prescription, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*prescription.Prescription, 0, len(s.order))
	for _, id := range s.order {
		p := s.byID[id]
		if q != nil {
			if q.PatientID != "" && p.PatientID != q.PatientID {
				continue
			}
			if q.Status != nil && p.Status != *q.Status {
				continue
			}
			if q.DateFrom != nil && p.Date.Before(*q.DateFrom) {
				continue
			}
			if q.DateTo != nil && p.Date.After(*q.DateTo) {
				continue
			}
		}
		out = append(out, copyPrescription(p))
	}
	return out, nil
}

func (s *PrescriptionStore) AnyOpenReferencing(ctx context.Context, medicineID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.byID {
		if p.Status.IsTerminal() {
			continue
		}
		for _, it := range p.Items {
			if it.MedicineID == medicineID {
				return true, nil
			}
		}
	}
	return false, nil
}
