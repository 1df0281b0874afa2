package prescription

import (
	"time"
)

// Status is the canonical prescription lifecycle vocabulary.
//
// State transition possibilities:
//
//	pending → processing → ready → dispensed
//	pending, processing, ready → cancelled
//
// Stock is deducted exactly once, on the processing → ready transition.
// Cancelling from ready restocks what that transition deducted.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusReady      Status = "ready"
	StatusDispensed  Status = "dispensed"
	StatusCancelled  Status = "cancelled"
)

// ParseStatus normalizes a status string. The legacy two-step vocabulary
// ("processed", "paid") used by older clients maps onto the canonical one.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPending, StatusProcessing, StatusReady, StatusDispensed, StatusCancelled:
		return Status(s), nil
	}
	switch s {
	case "processed":
		return StatusReady, nil
	case "paid":
		return StatusDispensed, nil
	}
	return "", ErrInvalidStatus
}

func (s Status) CanTransitionTo(next Status) bool {
	allowed := map[Status][]Status{
		StatusPending:    {StatusProcessing, StatusCancelled},
		StatusProcessing: {StatusReady, StatusCancelled},
		StatusReady:      {StatusDispensed, StatusCancelled},
		StatusDispensed:  {},
		StatusCancelled:  {},
	}

	for _, n := range allowed[s] {
		if n == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition is possible.
func (s Status) IsTerminal() bool {
	return s == StatusDispensed || s == StatusCancelled
}

// Item is one prescribed line. Items are fixed at creation and never edited.
type Item struct {
	MedicineID   string  `json:"medicine_id"`
	MedicineName string  `json:"medicine_name"` // denormalized snapshot
	Amount       int     `json:"amount"`
	UnitPrice    float64 `json:"unit_price"` // price at creation time
	Instructions string  `json:"instructions,omitempty"`
}

// Prescription references medicines by id only; the medicine lifecycle is
// independent. TotalPrice is computed once at creation and never recomputed,
// even if a referenced medicine's price changes afterwards.
type Prescription struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	PatientID   string `json:"patient_id"`
	PatientName string `json:"patient_name"` // denormalized snapshot
	DoctorName  string `json:"doctor_name"`

	Date       time.Time `json:"date"` // creation date, immutable
	Items      []Item    `json:"items"`
	Status     Status    `json:"status"`
	TotalPrice float64   `json:"total_price"`

	Notes string `json:"notes,omitempty"`

	ProcessedBy string     `json:"processed_by,omitempty"`
	ProcessedAt *time.Time `json:"processed_at,omitempty"`
	DispensedBy string     `json:"dispensed_by,omitempty"`
	DispensedAt *time.Time `json:"dispensed_at,omitempty"`
}

type CreateItemCommand struct {
	MedicineID   string
	Amount       int
	Instructions string
}

type CreatePrescriptionCommand struct {
	PatientID   string
	PatientName string
	DoctorName  string
	Items       []CreateItemCommand

	// InitialStatus defaults to pending. The direct-dispense pharmacy checkout
	// flow creates prescriptions already at ready.
	InitialStatus Status
}

type ListPrescriptionsQuery struct {
	PatientID string
	Status    *Status
	DateFrom  *time.Time
	DateTo    *time.Time
}

// BatchResult reports the per-id outcome of a batch operation. Earlier
// successes are not rolled back when a later id fails.
type BatchResult struct {
	ID    string `json:"id"`
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}
