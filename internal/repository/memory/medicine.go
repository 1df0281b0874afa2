package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/clinicore/clinicore/internal/domain/medicine"
)

type MedicineStore struct {
	mu    sync.RWMutex
	byID  map[string]*medicine.Medicine
	order []string // insertion order for List
}

var _ medicine.Repository = (*MedicineStore)(nil)

func NewMedicineStore() *MedicineStore {
	return &MedicineStore{byID: make(map[string]*medicine.Medicine)}
}

func (s *MedicineStore) Create(ctx context.Context, m *medicine.Medicine) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	m.ID = nextID("M", keysOf(s.byID))
	m.CreatedAt = now
	m.UpdatedAt = now

	cp := *m
	s.byID[m.ID] = &cp
	s.order = append(s.order, m.ID)
	return nil
}

func (s *MedicineStore) GetByID(ctx context.Context, id string) (*medicine.Medicine, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.byID[id]
	if !ok {
		return nil, medicine.ErrMedicineNotFound
	}
	cp := *m
	return &cp, nil
}

func (s *MedicineStore) Update(ctx context.Context, id string, cmd *medicine.UpdateMedicineCommand) (*medicine.Medicine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.byID[id]
	if !ok {
		return nil, medicine.ErrMedicineNotFound
	}

	if cmd.Name != nil {
		m.Name = *cmd.Name
	}
	if cmd.Category != nil {
		m.Category = *cmd.Category
	}
	if cmd.MinStock != nil {
		m.MinStock = *cmd.MinStock
	}
	if cmd.Unit != nil {
		m.Unit = *cmd.Unit
	}
	if cmd.Price != nil {
		m.Price = *cmd.Price
	}
	m.UpdatedAt = time.Now().UTC()

	cp := *m
	return &cp, nil
}

func (s *MedicineStore) AdjustStock(ctx context.Context, id string, delta int) (*medicine.Medicine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.byID[id]
	if !ok {
		return nil, medicine.ErrMedicineNotFound
	}

	// Clamped at zero: over-deduction is absorbed, never an error.
	m.Stock += delta
	if m.Stock < 0 {
		m.Stock = 0
	}
	m.UpdatedAt = time.Now().UTC()

	cp := *m
	return &cp, nil
}

func (s *MedicineStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[id]; !ok {
		return medicine.ErrMedicineNotFound
	}
	delete(s.byID, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

func (s *MedicineStore) List(ctx context.Context, q *medicine.ListMedicinesQuery) ([]*medicine.Medicine, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*medicine.Medicine, 0, len(s.order))
	for _, id := range s.order {
		m := s.byID[id]
		if q != nil {
			if q.Search != "" && !strings.Contains(strings.ToLower(m.Name), strings.ToLower(q.Search)) {
				continue
			}
			if q.Category != "" && m.Category != q.Category {
				continue
			}
			if q.LowStockOnly && !m.LowStock() {
				continue
			}
		}
		cp := *m
		out = append(out, &cp)
	}
	return out, nil
}
