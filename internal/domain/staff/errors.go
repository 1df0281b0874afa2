package staff

import "errors"

var (
	ErrStaffNotFound      = errors.New("staff member not found")
	ErrEmailAlreadyExists = errors.New("staff member with this email already exists")
	ErrInvalidRole        = errors.New("invalid staff role")
)
