package patient

import (
	"context"
)

type Repository interface {
	// Create persists a new patient and assigns its sequential ID.
	Create(ctx context.Context, p *Patient) error

	// GetByID returns ErrPatientNotFound if the id is absent.
	GetByID(ctx context.Context, id string) (*Patient, error)

	// Update applies partial updates to an existing patient record.
	Update(ctx context.Context, id string, cmd *UpdatePatientCommand) (*Patient, error)

	// SetStatus activates or deactivates a patient.
	SetStatus(ctx context.Context, id string, status Status) (*Patient, error)

	// List returns patients in insertion order, filtered by q.
	List(ctx context.Context, q *ListPatientsQuery) ([]*Patient, error)
}
