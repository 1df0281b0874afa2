package service

import (
	"context"
	"errors"
	"testing"

	"github.com/clinicore/clinicore/internal/domain"
	"github.com/clinicore/clinicore/internal/domain/staff"
	"github.com/clinicore/clinicore/internal/repository/memory"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type staffEnv struct {
	svc   *StaffService
	users *memory.UserStore
}

func newStaffEnv(t *testing.T) *staffEnv {
	t.Helper()

	auditSvc := NewAuditService(memory.NewAuditStore(), zap.NewNop(), nil)
	t.Cleanup(auditSvc.Shutdown)

	users := memory.NewUserStore()
	svc := NewStaffService(memory.NewStaffStore(), users, auditSvc, zap.NewNop())
	return &staffEnv{svc: svc, users: users}
}

func validStaffCommand() *staff.CreateStaffCommand {
	return &staff.CreateStaffCommand{
		Name:     "Cameron Williamson",
		Role:     domain.RolePharmacist,
		Email:    "Cameron@Clinicore.Local",
		Password: "correct-horse",
	}
}

func TestCreateStaffCreatesLinkedLogin(t *testing.T) {
	ctx := context.Background()
	env := newStaffEnv(t)

	m, err := env.svc.CreateStaff(ctx, validStaffCommand(), uuid.New(), "admin", "")
	if err != nil {
		t.Fatalf("CreateStaff: %v", err)
	}
	if m.ID != "S001" {
		t.Errorf("id = %q, want S001", m.ID)
	}
	if !m.IsActive {
		t.Error("new staff should be active")
	}

	u, err := env.users.GetByEmail(ctx, "cameron@clinicore.local")
	if err != nil {
		t.Fatalf("login account missing: %v", err)
	}
	if u.Role != domain.RolePharmacist {
		t.Errorf("login role = %q", u.Role)
	}
	if u.StaffID == nil || *u.StaffID != m.ID {
		t.Errorf("login not linked to staff record: %v", u.StaffID)
	}
}

func TestCreateStaffValidation(t *testing.T) {
	ctx := context.Background()
	env := newStaffEnv(t)

	cmd := &staff.CreateStaffCommand{
		Name:     "",
		Role:     domain.RolePatient,
		Email:    "",
		Password: "short",
	}
	_, err := env.svc.CreateStaff(ctx, cmd, uuid.New(), "admin", "")
	var validErr *ValidationError
	if !errors.As(err, &validErr) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
	if len(validErr.Fields) != 4 {
		t.Errorf("field errors = %v", validErr.Fields)
	}

	if _, err := env.svc.CreateStaff(ctx, validStaffCommand(), uuid.New(), "doctor", ""); !errors.Is(err, ErrForbidden) {
		t.Errorf("doctor create err = %v, want ErrForbidden", err)
	}
}

func TestCreateStaffDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	env := newStaffEnv(t)

	if _, err := env.svc.CreateStaff(ctx, validStaffCommand(), uuid.New(), "admin", ""); err != nil {
		t.Fatalf("CreateStaff: %v", err)
	}
	if _, err := env.svc.CreateStaff(ctx, validStaffCommand(), uuid.New(), "admin", ""); !errors.Is(err, staff.ErrEmailAlreadyExists) {
		t.Errorf("duplicate email err = %v, want ErrEmailAlreadyExists", err)
	}
}

func TestDeactivateStaffDisablesLogin(t *testing.T) {
	ctx := context.Background()
	env := newStaffEnv(t)

	m, err := env.svc.CreateStaff(ctx, validStaffCommand(), uuid.New(), "owner", "")
	if err != nil {
		t.Fatalf("CreateStaff: %v", err)
	}

	if err := env.svc.DeactivateStaff(ctx, m.ID, uuid.New(), "admin", ""); err != nil {
		t.Fatalf("DeactivateStaff: %v", err)
	}

	got, err := env.svc.GetStaff(ctx, m.ID, "admin")
	if err != nil {
		t.Fatalf("GetStaff: %v", err)
	}
	if got.IsActive {
		t.Error("staff still active after deactivation")
	}

	u, err := env.users.GetByEmail(ctx, "cameron@clinicore.local")
	if err != nil {
		t.Fatalf("GetByEmail: %v", err)
	}
	if u.IsActive {
		t.Error("login still active after staff deactivation")
	}
}

func TestListStaffFilters(t *testing.T) {
	ctx := context.Background()
	env := newStaffEnv(t)

	cmds := []*staff.CreateStaffCommand{
		{Name: "Dr. Leslie", Role: domain.RoleDoctor, Email: "leslie@x.local", Password: "password1"},
		{Name: "Esther", Role: domain.RoleNurse, Email: "esther@x.local", Password: "password2"},
		{Name: "Cameron", Role: domain.RolePharmacist, Email: "cameron@x.local", Password: "password3"},
	}
	for _, cmd := range cmds {
		if _, err := env.svc.CreateStaff(ctx, cmd, uuid.New(), "admin", ""); err != nil {
			t.Fatalf("CreateStaff(%q): %v", cmd.Name, err)
		}
	}

	role := domain.RoleDoctor
	got, err := env.svc.ListStaff(ctx, &staff.ListStaffQuery{Role: &role}, "admin")
	if err != nil {
		t.Fatalf("ListStaff: %v", err)
	}
	if len(got) != 1 || got[0].Name != "Dr. Leslie" {
		t.Errorf("role filter: %v", got)
	}
}
