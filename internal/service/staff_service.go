package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/clinicore/clinicore/internal/domain"
	"github.com/clinicore/clinicore/internal/domain/staff"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// StaffService administers clinic employees and their login accounts.
type StaffService struct {
	repo     staff.Repository
	userRepo UserRepository
	auditSvc *AuditService
	log      *zap.Logger
}

func NewStaffService(repo staff.Repository, userRepo UserRepository, auditSvc *AuditService, log *zap.Logger) *StaffService {
	return &StaffService{repo: repo, userRepo: userRepo, auditSvc: auditSvc, log: log}
}

func (s *StaffService) CreateStaff(ctx context.Context, cmd *staff.CreateStaffCommand, callerID uuid.UUID, callerRole string, ip string) (*staff.Staff, error) {
	if callerRole != "admin" && callerRole != "owner" {
		return nil, ErrForbidden
	}

	var errs []string
	if strings.TrimSpace(cmd.Name) == "" {
		errs = append(errs, "name is required")
	}
	if strings.TrimSpace(cmd.Email) == "" {
		errs = append(errs, "email is required")
	}
	if !cmd.Role.IsValid() || cmd.Role == domain.RolePatient {
		errs = append(errs, "role is invalid")
	}
	if len(cmd.Password) < 8 {
		errs = append(errs, "password must be at least 8 characters")
	}
	if len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}

	m := &staff.Staff{
		Name:      strings.TrimSpace(cmd.Name),
		Role:      cmd.Role,
		Email:     strings.ToLower(strings.TrimSpace(cmd.Email)),
		Phone:     cmd.Phone,
		Specialty: cmd.Specialty,
		IsActive:  true,
	}

	if err := s.repo.Create(ctx, m); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cmd.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user := &domain.User{
		Email:        m.Email,
		PasswordHash: string(hash),
		Name:         m.Name,
		Role:         m.Role,
		StaffID:      &m.ID,
		IsActive:     true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		s.log.Error("staff record created but login account failed",
			zap.String("staff_id", m.ID),
			zap.Error(err),
		)
		return nil, fmt.Errorf("creating login account: %w", err)
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID: callerID, UserRole: callerRole,
		Action: "create", ResourceType: "staff", ResourceID: m.ID, IPAddress: ip,
	})

	return m, nil
}

func (s *StaffService) GetStaff(ctx context.Context, id string, callerRole string) (*staff.Staff, error) {
	if callerRole == "patient" {
		return nil, ErrForbidden
	}
	return s.repo.GetByID(ctx, id)
}

func (s *StaffService) UpdateStaff(ctx context.Context, id string, cmd *staff.UpdateStaffCommand, callerID uuid.UUID, callerRole string, ip string) (*staff.Staff, error) {
	if callerRole != "admin" && callerRole != "owner" {
		return nil, ErrForbidden
	}

	m, err := s.repo.Update(ctx, id, cmd)
	if err != nil {
		return nil, err
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID: callerID, UserRole: callerRole,
		Action: "update", ResourceType: "staff", ResourceID: id, IPAddress: ip,
	})

	return m, nil
}

// DeactivateStaff disables both the staff record and its login account.
func (s *StaffService) DeactivateStaff(ctx context.Context, id string, callerID uuid.UUID, callerRole string, ip string) error {
	if callerRole != "admin" && callerRole != "owner" {
		return ErrForbidden
	}

	if _, err := s.repo.SetActive(ctx, id, false); err != nil {
		return err
	}
	if err := s.userRepo.SetActiveByStaffID(ctx, id, false); err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return err
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID: callerID, UserRole: callerRole,
		Action: "delete", ResourceType: "staff", ResourceID: id, IPAddress: ip,
	})

	return nil
}

func (s *StaffService) ListStaff(ctx context.Context, q *staff.ListStaffQuery, callerRole string) ([]*staff.Staff, error) {
	if callerRole == "patient" {
		return nil, ErrForbidden
	}
	return s.repo.List(ctx, q)
}
