package prescription

import "errors"

var (
	ErrPrescriptionNotFound    = errors.New("prescription not found")
	ErrInvalidStatus           = errors.New("invalid prescription status")
	ErrInvalidStatusTransition = errors.New("invalid prescription status transition")
	ErrNoItems                 = errors.New("prescription must have at least one item")
	ErrInvalidAmount           = errors.New("item amount must be a positive integer")
)

// InsufficientStockError is a business-rule refusal, not a failure: the
// transition is declined and no state changes.
type InsufficientStockError struct {
	MedicineID string
	Requested  int
	Available  int
}

func (e *InsufficientStockError) Error() string {
	return "insufficient stock for medicine " + e.MedicineID
}
