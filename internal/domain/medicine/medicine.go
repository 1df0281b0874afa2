package medicine

import (
	"time"
)

// Medicine is a pharmacy stock item. IDs follow the "M###" pattern and are
// assigned by the store as max numeric suffix + 1 (gaps are never reused).
type Medicine struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Name     string  `json:"name"`
	Category string  `json:"category,omitempty"`
	Stock    int     `json:"stock"`
	MinStock int     `json:"min_stock"`
	Unit     string  `json:"unit"`
	Price    float64 `json:"price"`
}

// LowStock reports whether the item needs reordering.
func (m *Medicine) LowStock() bool {
	return m.Stock <= m.MinStock
}

type CreateMedicineCommand struct {
	Name     string
	Category string
	Stock    int
	MinStock int
	Unit     string
	Price    float64
}

type UpdateMedicineCommand struct {
	Name     *string
	Category *string
	MinStock *int
	Unit     *string
	Price    *float64
}

type ListMedicinesQuery struct {
	Search       string // case-insensitive substring match on name
	Category     string
	LowStockOnly bool
}
