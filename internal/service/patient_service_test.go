package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/clinicore/clinicore/internal/domain/patient"
	"github.com/clinicore/clinicore/internal/repository/memory"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

func newPatientService(t *testing.T) *PatientService {
	t.Helper()

	auditSvc := NewAuditService(memory.NewAuditStore(), zap.NewNop(), nil)
	t.Cleanup(auditSvc.Shutdown)

	return NewPatientService(memory.NewPatientStore(), auditSvc, nil, zap.NewNop())
}

func validRegisterCommand() *patient.CreatePatientCommand {
	return &patient.CreatePatientCommand{
		Name:        "Jane Cooper",
		DateOfBirth: time.Date(1987, 4, 12, 0, 0, 0, 0, time.UTC),
		Gender:      patient.GenderFemale,
		Email:       "Jane.Cooper@Example.com",
	}
}

func TestRegisterPatient(t *testing.T) {
	ctx := context.Background()
	svc := newPatientService(t)

	p, err := svc.RegisterPatient(ctx, validRegisterCommand(), uuid.New(), "nurse", "")
	if err != nil {
		t.Fatalf("RegisterPatient: %v", err)
	}
	if p.ID != "P001" {
		t.Errorf("id = %q, want P001", p.ID)
	}
	if p.Status != patient.StatusActive {
		t.Errorf("status = %q, want active", p.Status)
	}
	if p.Email != "jane.cooper@example.com" {
		t.Errorf("email not normalized: %q", p.Email)
	}
}

func TestRegisterPatientValidation(t *testing.T) {
	ctx := context.Background()
	svc := newPatientService(t)

	cmd := &patient.CreatePatientCommand{
		Name:        "  ",
		DateOfBirth: time.Now().Add(24 * time.Hour),
		Gender:      "invalid",
	}
	_, err := svc.RegisterPatient(ctx, cmd, uuid.New(), "nurse", "")
	var validErr *ValidationError
	if !errors.As(err, &validErr) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
	if len(validErr.Fields) < 3 {
		t.Errorf("field errors = %v", validErr.Fields)
	}

	if _, err := svc.RegisterPatient(ctx, validRegisterCommand(), uuid.New(), "pharmacist", ""); !errors.Is(err, ErrForbidden) {
		t.Errorf("pharmacist register err = %v, want ErrForbidden", err)
	}
}

func TestGetPatientSelfOnly(t *testing.T) {
	ctx := context.Background()
	svc := newPatientService(t)

	p, err := svc.RegisterPatient(ctx, validRegisterCommand(), uuid.New(), "admin", "")
	if err != nil {
		t.Fatalf("RegisterPatient: %v", err)
	}

	own := p.ID
	if _, err := svc.GetPatient(ctx, p.ID, uuid.New(), "patient", &own, ""); err != nil {
		t.Errorf("own record: %v", err)
	}

	other := "P999"
	if _, err := svc.GetPatient(ctx, p.ID, uuid.New(), "patient", &other, ""); !errors.Is(err, ErrForbidden) {
		t.Errorf("foreign record err = %v, want ErrForbidden", err)
	}

	if _, err := svc.GetPatient(ctx, p.ID, uuid.New(), "doctor", nil, ""); err != nil {
		t.Errorf("doctor read: %v", err)
	}
}

func TestDeactivatePatient(t *testing.T) {
	ctx := context.Background()
	svc := newPatientService(t)

	p, err := svc.RegisterPatient(ctx, validRegisterCommand(), uuid.New(), "admin", "")
	if err != nil {
		t.Fatalf("RegisterPatient: %v", err)
	}

	if err := svc.DeactivatePatient(ctx, p.ID, uuid.New(), "nurse", ""); !errors.Is(err, ErrForbidden) {
		t.Errorf("nurse deactivate err = %v, want ErrForbidden", err)
	}
	if err := svc.DeactivatePatient(ctx, p.ID, uuid.New(), "admin", ""); err != nil {
		t.Fatalf("DeactivatePatient: %v", err)
	}

	got, err := svc.GetPatient(ctx, p.ID, uuid.New(), "admin", nil, "")
	if err != nil {
		t.Fatalf("GetPatient: %v", err)
	}
	if got.IsActive() {
		t.Error("patient still active after deactivation")
	}
}

func TestListPatientsSearch(t *testing.T) {
	ctx := context.Background()
	svc := newPatientService(t)

	names := []string{"Jane Cooper", "Ronald Richards", "Jane Fonda"}
	for _, n := range names {
		cmd := validRegisterCommand()
		cmd.Name = n
		if _, err := svc.RegisterPatient(ctx, cmd, uuid.New(), "admin", ""); err != nil {
			t.Fatalf("RegisterPatient(%q): %v", n, err)
		}
	}

	got, err := svc.ListPatients(ctx, &patient.ListPatientsQuery{Search: "jane"}, "admin")
	if err != nil {
		t.Fatalf("ListPatients: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("search hits = %d, want 2", len(got))
	}

	if _, err := svc.ListPatients(ctx, &patient.ListPatientsQuery{}, "patient"); !errors.Is(err, ErrForbidden) {
		t.Errorf("patient list err = %v, want ErrForbidden", err)
	}
}
