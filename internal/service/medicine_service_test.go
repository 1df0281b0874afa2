package service

import (
	"context"
	"errors"
	"testing"

	"github.com/clinicore/clinicore/internal/domain/medicine"
	"github.com/clinicore/clinicore/internal/domain/prescription"
	"github.com/clinicore/clinicore/internal/repository/memory"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type medicineEnv struct {
	svc           *MedicineService
	prescriptions *memory.PrescriptionStore
}

func newMedicineEnv(t *testing.T) *medicineEnv {
	t.Helper()

	auditSvc := NewAuditService(memory.NewAuditStore(), zap.NewNop(), nil)
	t.Cleanup(auditSvc.Shutdown)

	prescriptions := memory.NewPrescriptionStore()
	svc := NewMedicineService(memory.NewMedicineStore(), prescriptions, auditSvc, nil, zap.NewNop())
	return &medicineEnv{svc: svc, prescriptions: prescriptions}
}

func TestCreateMedicineValidation(t *testing.T) {
	ctx := context.Background()
	env := newMedicineEnv(t)

	_, err := env.svc.CreateMedicine(ctx, &medicine.CreateMedicineCommand{
		Name: "", Unit: "", Stock: -1, Price: -0.5,
	}, uuid.New(), "pharmacist", "")
	var validErr *ValidationError
	if !errors.As(err, &validErr) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
	if len(validErr.Fields) != 4 {
		t.Errorf("got %d field errors, want 4: %v", len(validErr.Fields), validErr.Fields)
	}

	_, err = env.svc.CreateMedicine(ctx, &medicine.CreateMedicineCommand{
		Name: "Paracetamol", Unit: "tablet",
	}, uuid.New(), "doctor", "")
	if !errors.Is(err, ErrForbidden) {
		t.Errorf("doctor create err = %v, want ErrForbidden", err)
	}

	m, err := env.svc.CreateMedicine(ctx, &medicine.CreateMedicineCommand{
		Name: "  Paracetamol 500mg  ", Unit: "tablet", Stock: 100, MinStock: 20, Price: 0.15,
	}, uuid.New(), "pharmacist", "")
	if err != nil {
		t.Fatalf("CreateMedicine: %v", err)
	}
	if m.Name != "Paracetamol 500mg" {
		t.Errorf("name not trimmed: %q", m.Name)
	}
	if m.ID != "M001" {
		t.Errorf("id = %q, want M001", m.ID)
	}
}

func TestAdjustStockThroughService(t *testing.T) {
	ctx := context.Background()
	env := newMedicineEnv(t)

	m, err := env.svc.CreateMedicine(ctx, &medicine.CreateMedicineCommand{
		Name: "Cetirizine", Unit: "tablet", Stock: 10, Price: 0.25,
	}, uuid.New(), "admin", "")
	if err != nil {
		t.Fatalf("CreateMedicine: %v", err)
	}

	got, err := env.svc.AdjustStock(ctx, m.ID, -25, uuid.New(), "pharmacist", "")
	if err != nil {
		t.Fatalf("AdjustStock: %v", err)
	}
	if got.Stock != 0 {
		t.Errorf("stock = %d, want 0 (clamped)", got.Stock)
	}

	if _, err := env.svc.AdjustStock(ctx, m.ID, 5, uuid.New(), "nurse", ""); !errors.Is(err, ErrForbidden) {
		t.Errorf("nurse adjust err = %v, want ErrForbidden", err)
	}
}

func TestDeleteMedicineRefusedWhileReferenced(t *testing.T) {
	ctx := context.Background()
	env := newMedicineEnv(t)

	m, err := env.svc.CreateMedicine(ctx, &medicine.CreateMedicineCommand{
		Name: "Amoxicillin", Unit: "capsule", Stock: 50, Price: 0.45,
	}, uuid.New(), "admin", "")
	if err != nil {
		t.Fatalf("CreateMedicine: %v", err)
	}

	p := &prescription.Prescription{
		PatientName: "Jane",
		Status:      prescription.StatusPending,
		Items:       []prescription.Item{{MedicineID: m.ID, Amount: 2}},
	}
	if err := env.prescriptions.Create(ctx, p); err != nil {
		t.Fatalf("seeding prescription: %v", err)
	}

	if err := env.svc.DeleteMedicine(ctx, m.ID, uuid.New(), "admin", ""); !errors.Is(err, medicine.ErrMedicineInUse) {
		t.Fatalf("delete while referenced err = %v, want ErrMedicineInUse", err)
	}

	// Once the referencing prescription reaches a terminal state the delete
	// goes through.
	if _, err := env.prescriptions.Mutate(ctx, p.ID, func(w *prescription.Prescription) error {
		w.Status = prescription.StatusCancelled
		return nil
	}); err != nil {
		t.Fatalf("cancelling prescription: %v", err)
	}
	if err := env.svc.DeleteMedicine(ctx, m.ID, uuid.New(), "admin", ""); err != nil {
		t.Fatalf("delete after cancel: %v", err)
	}
	if _, err := env.svc.GetMedicine(ctx, m.ID); !errors.Is(err, medicine.ErrMedicineNotFound) {
		t.Errorf("medicine still present after delete")
	}
}

func TestDeleteMedicineRoleCheck(t *testing.T) {
	ctx := context.Background()
	env := newMedicineEnv(t)

	m, err := env.svc.CreateMedicine(ctx, &medicine.CreateMedicineCommand{
		Name: "Omeprazole", Unit: "capsule", Stock: 10, Price: 0.6,
	}, uuid.New(), "owner", "")
	if err != nil {
		t.Fatalf("CreateMedicine: %v", err)
	}

	if err := env.svc.DeleteMedicine(ctx, m.ID, uuid.New(), "pharmacist", ""); !errors.Is(err, ErrForbidden) {
		t.Errorf("pharmacist delete err = %v, want ErrForbidden", err)
	}
}
