package medicine

import (
	"context"
)

type Repository interface {
	// Create persists a new medicine and assigns its sequential ID.
	Create(ctx context.Context, m *Medicine) error

	// GetByID returns ErrMedicineNotFound if the id is absent.
	GetByID(ctx context.Context, id string) (*Medicine, error)

	// Update applies partial updates to an existing medicine.
	Update(ctx context.Context, id string, cmd *UpdateMedicineCommand) (*Medicine, error)

	// AdjustStock applies delta atomically, clamping the result at zero.
	AdjustStock(ctx context.Context, id string, delta int) (*Medicine, error)

	// Delete removes the medicine. Returns ErrMedicineNotFound if absent.
	Delete(ctx context.Context, id string) error

	// List returns medicines in insertion order, filtered by q.
	List(ctx context.Context, q *ListMedicinesQuery) ([]*Medicine, error)
}
