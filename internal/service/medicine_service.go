package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/clinicore/clinicore/internal/domain/medicine"
	"github.com/clinicore/clinicore/internal/domain/prescription"
	"github.com/clinicore/clinicore/pkg/metrics"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MedicineService owns the pharmacy inventory: CRUD plus the atomic
// clamp-at-zero stock adjustment other services build on.
type MedicineService struct {
	repo      medicine.Repository
	prescRepo prescription.Repository
	auditSvc  *AuditService
	metrics   *metrics.Collector
	log       *zap.Logger
}

func NewMedicineService(repo medicine.Repository, prescRepo prescription.Repository, auditSvc *AuditService, m *metrics.Collector, log *zap.Logger) *MedicineService {
	return &MedicineService{repo: repo, prescRepo: prescRepo, auditSvc: auditSvc, metrics: m, log: log}
}

func (s *MedicineService) ListMedicines(ctx context.Context, q *medicine.ListMedicinesQuery) ([]*medicine.Medicine, error) {
	return s.repo.List(ctx, q)
}

func (s *MedicineService) GetMedicine(ctx context.Context, id string) (*medicine.Medicine, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *MedicineService) CreateMedicine(ctx context.Context, cmd *medicine.CreateMedicineCommand, callerID uuid.UUID, callerRole string, ip string) (*medicine.Medicine, error) {
	if callerRole != "admin" && callerRole != "pharmacist" && callerRole != "owner" {
		return nil, ErrForbidden
	}

	var errs []string
	if strings.TrimSpace(cmd.Name) == "" {
		errs = append(errs, "name is required")
	}
	if strings.TrimSpace(cmd.Unit) == "" {
		errs = append(errs, "unit is required")
	}
	if cmd.Stock < 0 {
		errs = append(errs, "stock must not be negative")
	}
	if cmd.MinStock < 0 {
		errs = append(errs, "min_stock must not be negative")
	}
	if cmd.Price < 0 {
		errs = append(errs, "price must not be negative")
	}
	if len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}

	m := &medicine.Medicine{
		Name:     strings.TrimSpace(cmd.Name),
		Category: cmd.Category,
		Stock:    cmd.Stock,
		MinStock: cmd.MinStock,
		Unit:     strings.TrimSpace(cmd.Unit),
		Price:    cmd.Price,
	}

	if err := s.repo.Create(ctx, m); err != nil {
		s.log.Error("failed to create medicine", zap.Error(err))
		return nil, fmt.Errorf("creating medicine: %w", err)
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID: callerID, UserRole: callerRole,
		Action: "create", ResourceType: "medicine", ResourceID: m.ID, IPAddress: ip,
	})
	s.refreshLowStockGauge(ctx)

	return m, nil
}

func (s *MedicineService) UpdateMedicine(ctx context.Context, id string, cmd *medicine.UpdateMedicineCommand, callerID uuid.UUID, callerRole string, ip string) (*medicine.Medicine, error) {
	if callerRole != "admin" && callerRole != "pharmacist" && callerRole != "owner" {
		return nil, ErrForbidden
	}

	var errs []string
	if cmd.Name != nil && strings.TrimSpace(*cmd.Name) == "" {
		errs = append(errs, "name must not be empty")
	}
	if cmd.MinStock != nil && *cmd.MinStock < 0 {
		errs = append(errs, "min_stock must not be negative")
	}
	if cmd.Price != nil && *cmd.Price < 0 {
		errs = append(errs, "price must not be negative")
	}
	if len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}

	m, err := s.repo.Update(ctx, id, cmd)
	if err != nil {
		return nil, err
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID: callerID, UserRole: callerRole,
		Action: "update", ResourceType: "medicine", ResourceID: id, IPAddress: ip,
	})
	s.refreshLowStockGauge(ctx)

	return m, nil
}

// AdjustStock applies a delta to a medicine's stock, clamped at zero.
func (s *MedicineService) AdjustStock(ctx context.Context, id string, delta int, callerID uuid.UUID, callerRole string, ip string) (*medicine.Medicine, error) {
	if callerRole != "admin" && callerRole != "pharmacist" && callerRole != "owner" {
		return nil, ErrForbidden
	}

	m, err := s.repo.AdjustStock(ctx, id, delta)
	if err != nil {
		return nil, err
	}

	s.metrics.RecordStockAdjustment(delta)
	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID: callerID, UserRole: callerRole,
		Action: "update", ResourceType: "medicine", ResourceID: id, IPAddress: ip,
		Changes: fmt.Sprintf(`{"stock_delta":%d,"stock":%d}`, delta, m.Stock),
	})
	s.refreshLowStockGauge(ctx)

	return m, nil
}

// DeleteMedicine refuses while any open prescription still references the
// medicine: deleting it would orphan line items mid-lifecycle.
func (s *MedicineService) DeleteMedicine(ctx context.Context, id string, callerID uuid.UUID, callerRole string, ip string) error {
	if callerRole != "admin" && callerRole != "owner" {
		return ErrForbidden
	}

	inUse, err := s.prescRepo.AnyOpenReferencing(ctx, id)
	if err != nil {
		return fmt.Errorf("checking prescriptions: %w", err)
	}
	if inUse {
		return medicine.ErrMedicineInUse
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID: callerID, UserRole: callerRole,
		Action: "delete", ResourceType: "medicine", ResourceID: id, IPAddress: ip,
	})
	s.refreshLowStockGauge(ctx)

	return nil
}

func (s *MedicineService) refreshLowStockGauge(ctx context.Context) {
	low, err := s.repo.List(ctx, &medicine.ListMedicinesQuery{LowStockOnly: true})
	if err != nil {
		return
	}
	s.metrics.SetLowStockItems(len(low))
}
