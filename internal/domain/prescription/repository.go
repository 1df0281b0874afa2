package prescription

import (
	"context"
)

type Repository interface {
	Create(ctx context.Context, p *Prescription) error
	GetByID(ctx context.Context, id string) (*Prescription, error)
	List(ctx context.Context, q *ListPrescriptionsQuery) ([]*Prescription, error)

	// Mutate runs fn against the stored prescription while holding the
	// store's write lock, then persists the result. If fn returns an error
	// nothing is written. This is the single-writer boundary that makes
	// status transitions (and their stock side effects) atomic.
	Mutate(ctx context.Context, id string, fn func(p *Prescription) error) (*Prescription, error)

	// AnyOpenReferencing reports whether any non-terminal prescription has a
	// line item for the given medicine.
	AnyOpenReferencing(ctx context.Context, medicineID string) (bool, error)
}
