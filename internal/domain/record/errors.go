package record

import "errors"

var (
	ErrRecordNotFound   = errors.New("medical record not found")
	ErrDiagnosisMissing = errors.New("diagnosis is required")
)
