package record

import (
	"context"
)

// Repository is append-only: there is no update or delete.
type Repository interface {
	Create(ctx context.Context, r *MedicalRecord) error
	GetByID(ctx context.Context, id string) (*MedicalRecord, error)
	List(ctx context.Context, q *ListRecordsQuery) ([]*MedicalRecord, error)
}
