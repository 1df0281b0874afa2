package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/clinicore/clinicore/internal/domain/patient"
	"github.com/clinicore/clinicore/pkg/metrics"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type PatientService struct {
	repo     patient.Repository
	auditSvc *AuditService
	metrics  *metrics.Collector
	log      *zap.Logger
}

func NewPatientService(repo patient.Repository, auditSvc *AuditService, m *metrics.Collector, log *zap.Logger) *PatientService {
	return &PatientService{repo: repo, auditSvc: auditSvc, metrics: m, log: log}
}

func (s *PatientService) RegisterPatient(ctx context.Context, cmd *patient.CreatePatientCommand, callerID uuid.UUID, callerRole string, ip string) (*patient.Patient, error) {
	if callerRole != "admin" && callerRole != "nurse" && callerRole != "doctor" {
		return nil, ErrForbidden
	}

	if err := validateRegisterCommand(cmd); err != nil {
		return nil, err
	}

	p := &patient.Patient{
		Name:        strings.TrimSpace(cmd.Name),
		DateOfBirth: cmd.DateOfBirth,
		Gender:      cmd.Gender,
		Phone:       strings.TrimSpace(cmd.Phone),
		Email:       strings.ToLower(strings.TrimSpace(cmd.Email)),
		Address:     cmd.Address,
		Allergies:   cmd.Allergies,
		BloodType:   cmd.BloodType,
		Notes:       cmd.Notes,
		Status:      patient.StatusActive,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		s.log.Error("failed to register patient", zap.Error(err))
		return nil, fmt.Errorf("registering patient: %w", err)
	}

	s.metrics.RecordPatientRegistered()
	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID: callerID, UserRole: callerRole,
		Action: "create", ResourceType: "patient", ResourceID: p.ID, IPAddress: ip,
	})

	s.log.Info("patient registered",
		zap.String("patient_id", p.ID),
		zap.String("registered_by", callerID.String()),
	)

	return p, nil
}

func (s *PatientService) GetPatient(ctx context.Context, id string, callerID uuid.UUID, callerRole string, callerPatientID *string, ip string) (*patient.Patient, error) {
	// Patients can only read their own record
	if callerRole == "patient" {
		if callerPatientID == nil || *callerPatientID != id {
			return nil, ErrForbidden
		}
	}

	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID: callerID, UserRole: callerRole,
		Action: "read", ResourceType: "patient", ResourceID: id, IPAddress: ip,
	})

	return p, nil
}

func (s *PatientService) UpdatePatient(ctx context.Context, id string, cmd *patient.UpdatePatientCommand, callerID uuid.UUID, callerRole string, ip string) (*patient.Patient, error) {
	if callerRole != "admin" && callerRole != "nurse" && callerRole != "doctor" {
		return nil, ErrForbidden
	}

	var errs []string
	if cmd.Name != nil && strings.TrimSpace(*cmd.Name) == "" {
		errs = append(errs, "name must not be empty")
	}
	if cmd.Gender != nil && !cmd.Gender.IsValid() {
		errs = append(errs, "gender is invalid")
	}
	if len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}

	p, err := s.repo.Update(ctx, id, cmd)
	if err != nil {
		return nil, err
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID: callerID, UserRole: callerRole,
		Action: "update", ResourceType: "patient", ResourceID: id, IPAddress: ip,
	})

	return p, nil
}

func (s *PatientService) DeactivatePatient(ctx context.Context, id string, callerID uuid.UUID, callerRole string, ip string) error {
	if callerRole != "admin" {
		return ErrForbidden
	}

	if _, err := s.repo.SetStatus(ctx, id, patient.StatusInactive); err != nil {
		return err
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID: callerID, UserRole: callerRole,
		Action: "delete", ResourceType: "patient", ResourceID: id, IPAddress: ip,
	})

	return nil
}

func (s *PatientService) ListPatients(ctx context.Context, q *patient.ListPatientsQuery, callerRole string) ([]*patient.Patient, error) {
	if callerRole == "patient" {
		return nil, ErrForbidden
	}
	return s.repo.List(ctx, q)
}

func validateRegisterCommand(cmd *patient.CreatePatientCommand) error {
	var errs []string

	if strings.TrimSpace(cmd.Name) == "" {
		errs = append(errs, "name is required")
	}
	if cmd.DateOfBirth.IsZero() {
		errs = append(errs, "date_of_birth is required")
	}
	if cmd.DateOfBirth.After(time.Now()) {
		errs = append(errs, "date_of_birth cannot be in the future")
	}
	if !cmd.Gender.IsValid() {
		errs = append(errs, "gender is invalid")
	}

	if len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}
	return nil
}
