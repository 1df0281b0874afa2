package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/clinicore/clinicore/internal/domain/patient"
	"github.com/clinicore/clinicore/internal/domain/record"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type RecordService struct {
	repo        record.Repository
	patientRepo patient.Repository
	auditSvc    *AuditService
	log         *zap.Logger
}

func NewRecordService(repo record.Repository, patientRepo patient.Repository, auditSvc *AuditService, log *zap.Logger) *RecordService {
	return &RecordService{repo: repo, patientRepo: patientRepo, auditSvc: auditSvc, log: log}
}

func (s *RecordService) CreateRecord(ctx context.Context, cmd *record.CreateRecordCommand, callerID uuid.UUID, callerRole string, ip string) (*record.MedicalRecord, error) {
	if callerRole != "doctor" && callerRole != "nurse" && callerRole != "admin" {
		return nil, ErrForbidden
	}

	if strings.TrimSpace(cmd.Diagnosis) == "" {
		return nil, record.ErrDiagnosisMissing
	}

	pat, err := s.patientRepo.GetByID(ctx, cmd.PatientID)
	if err != nil {
		return nil, fmt.Errorf("verifying patient: %w", err)
	}

	r := &record.MedicalRecord{
		PatientID:   pat.ID,
		PatientName: pat.Name,
		DoctorName:  cmd.DoctorName,
		VisitID:     cmd.VisitID,
		Diagnosis:   strings.TrimSpace(cmd.Diagnosis),
		Treatment:   cmd.Treatment,
		Vitals:      cmd.Vitals,
		Notes:       cmd.Notes,
	}

	if err := s.repo.Create(ctx, r); err != nil {
		return nil, fmt.Errorf("creating medical record: %w", err)
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID: callerID, UserRole: callerRole,
		Action: "create", ResourceType: "medical_record", ResourceID: r.ID, IPAddress: ip,
	})

	return r, nil
}

func (s *RecordService) GetRecord(ctx context.Context, id string, callerID uuid.UUID, callerRole string, callerPatientID *string, ip string) (*record.MedicalRecord, error) {
	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if callerRole == "patient" {
		if callerPatientID == nil || *callerPatientID != r.PatientID {
			return nil, ErrForbidden
		}
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID: callerID, UserRole: callerRole,
		Action: "read", ResourceType: "medical_record", ResourceID: id, IPAddress: ip,
	})

	return r, nil
}

func (s *RecordService) ListRecords(ctx context.Context, q *record.ListRecordsQuery, callerRole string, callerPatientID *string) ([]*record.MedicalRecord, error) {
	if callerRole == "patient" && callerPatientID != nil {
		q.PatientID = *callerPatientID
	}
	return s.repo.List(ctx, q)
}
