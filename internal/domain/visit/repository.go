package visit

import (
	"context"
)

type Repository interface {
	// Create persists a new visit, assigning its sequential ID and the next
	// queue number for the check-in day.
	Create(ctx context.Context, v *Visit) error

	// GetByID returns ErrVisitNotFound if the id is absent.
	GetByID(ctx context.Context, id string) (*Visit, error)

	// Mutate runs fn against the stored visit while holding the store's write
	// lock, then persists the result. If fn returns an error nothing is written.
	Mutate(ctx context.Context, id string, fn func(v *Visit) error) (*Visit, error)

	// List returns visits ordered by queue number, filtered by q.
	List(ctx context.Context, q *ListVisitsQuery) ([]*Visit, error)
}
