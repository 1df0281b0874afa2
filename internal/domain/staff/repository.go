package staff

import (
	"context"
)

type Repository interface {
	// Create persists a new staff record and assigns its sequential ID.
	Create(ctx context.Context, s *Staff) error

	// GetByID returns ErrStaffNotFound if the id is absent.
	GetByID(ctx context.Context, id string) (*Staff, error)

	// Update applies partial updates to an existing staff record.
	Update(ctx context.Context, id string, cmd *UpdateStaffCommand) (*Staff, error)

	// SetActive toggles whether the staff member can log in.
	SetActive(ctx context.Context, id string, active bool) (*Staff, error)

	// List returns staff in insertion order, filtered by q.
	List(ctx context.Context, q *ListStaffQuery) ([]*Staff, error)
}
