package medicine

import "errors"

var (
	ErrMedicineNotFound = errors.New("medicine not found")
	ErrMedicineInUse    = errors.New("medicine is referenced by an open prescription")
	ErrInvalidPrice     = errors.New("price must not be negative")
	ErrInvalidStock     = errors.New("stock must not be negative")
)
