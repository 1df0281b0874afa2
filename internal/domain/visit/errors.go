package visit

import "errors"

var (
	ErrVisitNotFound           = errors.New("visit not found")
	ErrInvalidStatusTransition = errors.New("invalid visit status transition")
	ErrAlreadyQueued           = errors.New("patient is already in today's queue")
)
