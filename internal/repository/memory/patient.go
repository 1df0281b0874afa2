package memory

import (
	"context"
	"sync"
	"time"

	"github.com/clinicore/clinicore/internal/domain/patient"
)

type PatientStore struct {
	mu    sync.RWMutex
	byID  map[string]*patient.Patient
	order []string
}

var _ patient.Repository = (*PatientStore)(nil)

func NewPatientStore() *PatientStore {
	return &PatientStore{byID: make(map[string]*patient.Patient)}
}

func copyPatient(p *patient.Patient) *patient.Patient {
	cp := *p
	if p.Allergies != nil {
		cp.Allergies = make([]string, len(p.Allergies))
		copy(cp.Allergies, p.Allergies)
	}
	return &cp
}

func (s *PatientStore) Create(ctx context.Context, p *patient.Patient) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	p.ID = nextID("P", keysOf(s.byID))
	p.CreatedAt = now
	p.UpdatedAt = now

	s.byID[p.ID] = copyPatient(p)
	s.order = append(s.order, p.ID)
	return nil
}

func (s *PatientStore) GetByID(ctx context.Context, id string) (*patient.Patient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.byID[id]
	if !ok {
		return nil, patient.ErrPatientNotFound
	}
	return copyPatient(p), nil
}

func (s *PatientStore) Update(ctx context.Context, id string, cmd *patient.UpdatePatientCommand) (*patient.Patient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.byID[id]
	if !ok {
		return nil, patient.ErrPatientNotFound
	}

	if cmd.Name != nil {
		p.Name = *cmd.Name
	}
	if cmd.Gender != nil {
		p.Gender = *cmd.Gender
	}
	if cmd.Phone != nil {
		p.Phone = *cmd.Phone
	}
	if cmd.Email != nil {
		p.Email = *cmd.Email
	}
	if cmd.Address != nil {
		p.Address = *cmd.Address
	}
	if cmd.Allergies != nil {
		p.Allergies = *cmd.Allergies
	}
	if cmd.BloodType != nil {
		p.BloodType = *cmd.BloodType
	}
	if cmd.Notes != nil {
		p.Notes = *cmd.Notes
	}
	p.UpdatedAt = time.Now().UTC()

	return copyPatient(p), nil
}

func (s *PatientStore) SetStatus(ctx context.Context, id string, status patient.Status) (*patient.Patient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.byID[id]
	if !ok {
		return nil, patient.ErrPatientNotFound
	}
	p.Status = status
	p.UpdatedAt = time.Now().UTC()
	return copyPatient(p), nil
}

func (s *PatientStore) List(ctx context.Context, q *patient.ListPatientsQuery) ([]*patient.Patient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*patient.Patient, 0, len(s.order))
	for _, id := range s.order {
		p := s.byID[id]
		if q != nil {
			if !p.MatchesSearch(q.Search) {
				continue
			}
			if q.Status != nil && p.Status != *q.Status {
				continue
			}
		}
		out = append(out, copyPatient(p))
	}
	return out, nil
}
