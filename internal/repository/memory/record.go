package memory

import (
	"context"
	"sync"
	"time"

	"github.com/clinicore/clinicore/internal/domain/record"
)

type RecordStore struct {
	mu    sync.RWMutex
	byID  map[string]*record.MedicalRecord
	order []string
}

var _ record.Repository = (*RecordStore)(nil)

func NewRecordStore() *RecordStore {
	return &RecordStore{byID: make(map[string]*record.MedicalRecord)}
}

func copyRecord(r *record.MedicalRecord) *record.MedicalRecord {
	cp := *r
	if r.Vitals != nil {
		v := *r.Vitals
		cp.Vitals = &v
	}
	return &cp
}

func (s *RecordStore) Create(ctx context.Context, r *record.MedicalRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r.ID = nextID("MR", keysOf(s.byID))
	r.CreatedAt = time.Now().UTC()

	s.byID[r.ID] = copyRecord(r)
	s.order = append(s.order, r.ID)
	return nil
}

func (s *RecordStore) GetByID(ctx context.Context, id string) (*record.MedicalRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.byID[id]
	if !ok {
		return nil, record.ErrRecordNotFound
	}
	return copyRecord(r), nil
}

func (s *RecordStore) List(ctx context.Context, q *record.ListRecordsQuery) ([]*record.MedicalRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*record.MedicalRecord, 0, len(s.order))
	for _, id := range s.order {
		r := s.byID[id]
		if q != nil {
			if q.PatientID != "" && r.PatientID != q.PatientID {
				continue
			}
			if q.DateFrom != nil && r.CreatedAt.Before(*q.DateFrom) {
				continue
			}
			if q.DateTo != nil && r.CreatedAt.After(*q.DateTo) {
				continue
			}
		}
		out = append(out, copyRecord(r))
	}
	return out, nil
}
