package service

import (
	"context"
	"fmt"
	"time"

	"github.com/clinicore/clinicore/internal/domain/patient"
	"github.com/clinicore/clinicore/internal/domain/visit"
	"github.com/clinicore/clinicore/pkg/metrics"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// VisitService manages the daily examination queue.
type VisitService struct {
	repo        visit.Repository
	patientRepo patient.Repository
	auditSvc    *AuditService
	metrics     *metrics.Collector
	log         *zap.Logger
}

func NewVisitService(repo visit.Repository, patientRepo patient.Repository, auditSvc *AuditService, m *metrics.Collector, log *zap.Logger) *VisitService {
	return &VisitService{repo: repo, patientRepo: patientRepo, auditSvc: auditSvc, metrics: m, log: log}
}

// CheckIn adds a patient to today's queue and assigns the next queue number.
// A patient already waiting or in the exam room cannot be queued twice.
func (s *VisitService) CheckIn(ctx context.Context, cmd *visit.CheckInCommand, callerID uuid.UUID, callerRole string, ip string) (*visit.Visit, error) {
	if callerRole != "admin" && callerRole != "nurse" {
		return nil, ErrForbidden
	}

	pat, err := s.patientRepo.GetByID(ctx, cmd.PatientID)
	if err != nil {
		return nil, fmt.Errorf("verifying patient: %w", err)
	}
	if !pat.IsActive() {
		return nil, patient.ErrPatientInactive
	}

	today := time.Now().UTC()
	open, err := s.repo.List(ctx, &visit.ListVisitsQuery{PatientID: cmd.PatientID, Date: &today})
	if err != nil {
		return nil, fmt.Errorf("checking queue: %w", err)
	}
	for _, v := range open {
		if v.Status == visit.StatusWaiting || v.Status == visit.StatusInExam {
			return nil, visit.ErrAlreadyQueued
		}
	}

	v := &visit.Visit{
		PatientID:   pat.ID,
		PatientName: pat.Name,
		Complaint:   cmd.Complaint,
		Status:      visit.StatusWaiting,
	}

	if err := s.repo.Create(ctx, v); err != nil {
		s.log.Error("failed to check in patient", zap.Error(err))
		return nil, fmt.Errorf("checking in: %w", err)
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID: callerID, UserRole: callerRole,
		Action: "create", ResourceType: "visit", ResourceID: v.ID, IPAddress: ip,
	})

	return v, nil
}

// StartExam moves a waiting patient into the exam room.
func (s *VisitService) StartExam(ctx context.Context, id string, doctorName string, callerID uuid.UUID, callerRole string, ip string) (*visit.Visit, error) {
	if callerRole != "doctor" && callerRole != "nurse" && callerRole != "admin" {
		return nil, ErrForbidden
	}

	return s.transition(ctx, id, visit.StatusInExam, callerID, callerRole, ip, func(v *visit.Visit) {
		now := time.Now().UTC()
		v.StartedAt = &now
		if doctorName != "" {
			v.DoctorName = doctorName
		}
	})
}

// FinishExam completes the visit.
func (s *VisitService) FinishExam(ctx context.Context, id string, callerID uuid.UUID, callerRole string, ip string) (*visit.Visit, error) {
	if callerRole != "doctor" && callerRole != "admin" {
		return nil, ErrForbidden
	}

	return s.transition(ctx, id, visit.StatusDone, callerID, callerRole, ip, func(v *visit.Visit) {
		now := time.Now().UTC()
		v.FinishedAt = &now
	})
}

// Skip marks a no-show; the queue number is not reused.
func (s *VisitService) Skip(ctx context.Context, id string, callerID uuid.UUID, callerRole string, ip string) (*visit.Visit, error) {
	if callerRole != "nurse" && callerRole != "admin" {
		return nil, ErrForbidden
	}

	return s.transition(ctx, id, visit.StatusSkipped, callerID, callerRole, ip, nil)
}

func (s *VisitService) ListVisits(ctx context.Context, q *visit.ListVisitsQuery, callerRole string, callerPatientID *string) ([]*visit.Visit, error) {
	if callerRole == "patient" && callerPatientID != nil {
		q.PatientID = *callerPatientID
	}
	return s.repo.List(ctx, q)
}

func (s *VisitService) transition(ctx context.Context, id string, next visit.Status, callerID uuid.UUID, callerRole string, ip string, apply func(*visit.Visit)) (*visit.Visit, error) {
	updated, err := s.repo.Mutate(ctx, id, func(v *visit.Visit) error {
		if !v.Status.CanTransitionTo(next) {
			return visit.ErrInvalidStatusTransition
		}
		v.Status = next
		if apply != nil {
			apply(v)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RecordVisit(string(next))
	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID: callerID, UserRole: callerRole,
		Action: "update", ResourceType: "visit", ResourceID: id, IPAddress: ip,
		Changes: fmt.Sprintf(`{"status":%q}`, next),
	})

	return updated, nil
}
