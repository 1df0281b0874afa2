package service

import (
	"context"
	"fmt"
	"time"

	"github.com/clinicore/clinicore/internal/domain/medicine"
	"github.com/clinicore/clinicore/internal/domain/patient"
	"github.com/clinicore/clinicore/internal/domain/prescription"
	"github.com/clinicore/clinicore/pkg/metrics"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PrescriptionService drives the prescription lifecycle and owns the
// cross-entity invariant with the inventory: stock for a prescription's items
// is deducted exactly once, on the processing → ready transition. The
// transition guard runs inside the prescription store's Mutate boundary, so a
// repeated MarkReady is structurally rejected before it can touch stock.
type PrescriptionService struct {
	repo         prescription.Repository
	medicineRepo medicine.Repository
	patientRepo  patient.Repository
	auditSvc     *AuditService
	metrics      *metrics.Collector
	log          *zap.Logger
}

func NewPrescriptionService(
	repo prescription.Repository,
	medicineRepo medicine.Repository,
	patientRepo patient.Repository,
	auditSvc *AuditService,
	m *metrics.Collector,
	log *zap.Logger,
) *PrescriptionService {
	return &PrescriptionService{
		repo:         repo,
		medicineRepo: medicineRepo,
		patientRepo:  patientRepo,
		auditSvc:     auditSvc,
		metrics:      m,
		log:          log,
	}
}

func (s *PrescriptionService) GetPrescription(ctx context.Context, id string, callerRole string, callerPatientID *string) (*prescription.Prescription, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if callerRole == "patient" {
		if callerPatientID == nil || *callerPatientID != p.PatientID {
			return nil, ErrForbidden
		}
	}
	return p, nil
}

func (s *PrescriptionService) ListPrescriptions(ctx context.Context, q *prescription.ListPrescriptionsQuery, callerRole string, callerPatientID *string) ([]*prescription.Prescription, error) {
	// Patients can only see their own prescriptions
	if callerRole == "patient" && callerPatientID != nil {
		q.PatientID = *callerPatientID
	}
	return s.repo.List(ctx, q)
}

// CreatePrescription computes the total from current medicine prices and
// snapshots name and unit price into each line item. A missing medicine id is
// a validation failure, not a silently zero-priced line. The direct-dispense
// pharmacy checkout may create at ready, which commits stock immediately.
func (s *PrescriptionService) CreatePrescription(ctx context.Context, cmd *prescription.CreatePrescriptionCommand, callerID uuid.UUID, callerRole string, ip string) (*prescription.Prescription, error) {
	initial := cmd.InitialStatus
	if initial == "" {
		initial = prescription.StatusPending
	}

	switch initial {
	case prescription.StatusPending:
		if callerRole != "doctor" && callerRole != "admin" {
			return nil, ErrForbidden
		}
	case prescription.StatusReady:
		// Direct dispense: pharmacy checkout without a doctor's prescription.
		if callerRole != "pharmacist" && callerRole != "admin" {
			return nil, ErrForbidden
		}
	default:
		return nil, prescription.ErrInvalidStatus
	}

	if len(cmd.Items) == 0 {
		return nil, prescription.ErrNoItems
	}

	patientName := cmd.PatientName
	if cmd.PatientID != "" {
		pat, err := s.patientRepo.GetByID(ctx, cmd.PatientID)
		if err != nil {
			return nil, fmt.Errorf("verifying patient: %w", err)
		}
		if !pat.IsActive() {
			return nil, patient.ErrPatientInactive
		}
		patientName = pat.Name
	} else if patientName == "" {
		return nil, &ValidationError{Fields: []string{"patient_id or patient_name is required"}}
	}

	var errs []string
	items := make([]prescription.Item, 0, len(cmd.Items))
	total := 0.0
	for i, it := range cmd.Items {
		if it.Amount <= 0 {
			errs = append(errs, fmt.Sprintf("items[%d].amount must be a positive integer", i))
			continue
		}
		med, err := s.medicineRepo.GetByID(ctx, it.MedicineID)
		if err != nil {
			errs = append(errs, fmt.Sprintf("items[%d].medicine_id: medicine %s not found", i, it.MedicineID))
			continue
		}
		items = append(items, prescription.Item{
			MedicineID:   med.ID,
			MedicineName: med.Name,
			Amount:       it.Amount,
			UnitPrice:    med.Price,
			Instructions: it.Instructions,
		})
		total += float64(it.Amount) * med.Price
	}
	if len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}

	if initial == prescription.StatusReady {
		if err := s.checkStock(ctx, items); err != nil {
			return nil, err
		}
	}

	p := &prescription.Prescription{
		PatientID:   cmd.PatientID,
		PatientName: patientName,
		DoctorName:  cmd.DoctorName,
		Items:       items,
		Status:      initial,
		TotalPrice:  total,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		s.log.Error("failed to create prescription", zap.Error(err))
		return nil, fmt.Errorf("creating prescription: %w", err)
	}

	if initial == prescription.StatusReady {
		// Stock commitment for the direct-dispense flow happens here instead
		// of on a later MarkReady.
		s.deductStock(ctx, p.Items)
	}

	s.metrics.RecordPrescription(string(initial))
	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID: callerID, UserRole: callerRole,
		Action: "create", ResourceType: "prescription", ResourceID: p.ID, IPAddress: ip,
	})

	return p, nil
}

// StartProcessing is guarded: if any line item's amount exceeds current
// stock the transition is refused and nothing changes.
func (s *PrescriptionService) StartProcessing(ctx context.Context, id string, processedBy string, callerID uuid.UUID, callerRole string, ip string) (*prescription.Prescription, error) {
	if callerRole != "pharmacist" && callerRole != "admin" {
		return nil, ErrForbidden
	}

	updated, err := s.repo.Mutate(ctx, id, func(p *prescription.Prescription) error {
		if !p.Status.CanTransitionTo(prescription.StatusProcessing) {
			return prescription.ErrInvalidStatusTransition
		}
		if err := s.checkStock(ctx, p.Items); err != nil {
			return err
		}
		now := time.Now().UTC()
		p.Status = prescription.StatusProcessing
		p.ProcessedBy = processedBy
		p.ProcessedAt = &now
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RecordPrescription(string(prescription.StatusProcessing))
	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID: callerID, UserRole: callerRole,
		Action: "update", ResourceType: "prescription", ResourceID: id, IPAddress: ip,
		Changes: `{"status":"processing"}`,
	})

	return updated, nil
}

// MarkReady commits stock: one AdjustStock(-amount) per line item, exactly
// once. The transition guard inside Mutate forbids re-entry from ready, so a
// second call cannot deduct again.
func (s *PrescriptionService) MarkReady(ctx context.Context, id string, callerID uuid.UUID, callerRole string, ip string) (*prescription.Prescription, error) {
	if callerRole != "pharmacist" && callerRole != "admin" {
		return nil, ErrForbidden
	}

	updated, err := s.repo.Mutate(ctx, id, func(p *prescription.Prescription) error {
		if !p.Status.CanTransitionTo(prescription.StatusReady) {
			return prescription.ErrInvalidStatusTransition
		}
		s.deductStock(ctx, p.Items)
		p.Status = prescription.StatusReady
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RecordPrescription(string(prescription.StatusReady))
	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID: callerID, UserRole: callerRole,
		Action: "update", ResourceType: "prescription", ResourceID: id, IPAddress: ip,
		Changes: `{"status":"ready"}`,
	})

	return updated, nil
}

// Dispense hands the medicine over, concluding the lifecycle. Payment
// collection is assumed to precede it; no payment ledger is modeled.
func (s *PrescriptionService) Dispense(ctx context.Context, id string, dispensedBy string, callerID uuid.UUID, callerRole string, ip string) (*prescription.Prescription, error) {
	if callerRole != "pharmacist" && callerRole != "admin" {
		return nil, ErrForbidden
	}

	updated, err := s.repo.Mutate(ctx, id, func(p *prescription.Prescription) error {
		if !p.Status.CanTransitionTo(prescription.StatusDispensed) {
			return prescription.ErrInvalidStatusTransition
		}
		now := time.Now().UTC()
		p.Status = prescription.StatusDispensed
		p.DispensedBy = dispensedBy
		p.DispensedAt = &now
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RecordPrescription(string(prescription.StatusDispensed))
	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID: callerID, UserRole: callerRole,
		Action: "update", ResourceType: "prescription", ResourceID: id, IPAddress: ip,
		Changes: `{"status":"dispensed"}`,
	})

	return updated, nil
}

// Cancel aborts a non-terminal prescription. Cancelling from ready restocks
// what the ready transition deducted; earlier states never touched stock.
func (s *PrescriptionService) Cancel(ctx context.Context, id string, reason string, callerID uuid.UUID, callerRole string, ip string) (*prescription.Prescription, error) {
	if callerRole != "pharmacist" && callerRole != "admin" && callerRole != "doctor" {
		return nil, ErrForbidden
	}

	updated, err := s.repo.Mutate(ctx, id, func(p *prescription.Prescription) error {
		if !p.Status.CanTransitionTo(prescription.StatusCancelled) {
			return prescription.ErrInvalidStatusTransition
		}
		if p.Status == prescription.StatusReady {
			for _, it := range p.Items {
				if _, err := s.medicineRepo.AdjustStock(ctx, it.MedicineID, it.Amount); err != nil {
					s.log.Warn("restock on cancel skipped",
						zap.String("medicine_id", it.MedicineID),
						zap.Error(err),
					)
				}
			}
		}
		p.Status = prescription.StatusCancelled
		if reason != "" {
			p.Notes = reason
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RecordPrescription(string(prescription.StatusCancelled))
	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID: callerID, UserRole: callerRole,
		Action: "update", ResourceType: "prescription", ResourceID: id, IPAddress: ip,
		Changes: fmt.Sprintf(`{"status":"cancelled","reason":%q}`, reason),
	})

	return updated, nil
}

// BatchProcess applies StartProcessing to each id in order. A refusal for one
// id does not roll back earlier successes; each outcome is reported.
func (s *PrescriptionService) BatchProcess(ctx context.Context, ids []string, processedBy string, callerID uuid.UUID, callerRole string, ip string) ([]prescription.BatchResult, error) {
	if callerRole != "pharmacist" && callerRole != "admin" {
		return nil, ErrForbidden
	}

	results := make([]prescription.BatchResult, 0, len(ids))
	for _, id := range ids {
		if _, err := s.StartProcessing(ctx, id, processedBy, callerID, callerRole, ip); err != nil {
			results = append(results, prescription.BatchResult{ID: id, OK: false, Error: err.Error()})
			continue
		}
		results = append(results, prescription.BatchResult{ID: id, OK: true})
	}
	return results, nil
}

// checkStock verifies every line item fits current stock before any mutation.
func (s *PrescriptionService) checkStock(ctx context.Context, items []prescription.Item) error {
	for _, it := range items {
		med, err := s.medicineRepo.GetByID(ctx, it.MedicineID)
		if err != nil {
			return fmt.Errorf("checking stock for %s: %w", it.MedicineID, err)
		}
		if med.Stock < it.Amount {
			return &prescription.InsufficientStockError{
				MedicineID: it.MedicineID,
				Requested:  it.Amount,
				Available:  med.Stock,
			}
		}
	}
	return nil
}

// deductStock is the single point of stock commitment. Deductions are clamped
// at zero by the inventory store; a vanished medicine is logged and skipped
// rather than failing the transition halfway through.
func (s *PrescriptionService) deductStock(ctx context.Context, items []prescription.Item) {
	for _, it := range items {
		if _, err := s.medicineRepo.AdjustStock(ctx, it.MedicineID, -it.Amount); err != nil {
			s.log.Warn("stock deduction skipped",
				zap.String("medicine_id", it.MedicineID),
				zap.Error(err),
			)
		}
		s.metrics.RecordStockAdjustment(-it.Amount)
	}
}
