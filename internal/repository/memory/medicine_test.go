package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/clinicore/clinicore/internal/domain/medicine"
)

func TestMedicineStoreSequentialIDs(t *testing.T) {
	ctx := context.Background()
	store := NewMedicineStore()

	for i := 0; i < 3; i++ {
		m := &medicine.Medicine{Name: "med", Unit: "tablet"}
		if err := store.Create(ctx, m); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	items, err := store.List(ctx, nil)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	want := []string{"M001", "M002", "M003"}
	for i, m := range items {
		if m.ID != want[i] {
			t.Errorf("id[%d] = %q, want %q", i, m.ID, want[i])
		}
	}
}

func TestMedicineStoreIDsNotReusedAfterDelete(t *testing.T) {
	ctx := context.Background()
	store := NewMedicineStore()

	for i := 0; i < 3; i++ {
		if err := store.Create(ctx, &medicine.Medicine{Name: "med", Unit: "tablet"}); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}
	if err := store.Delete(ctx, "M002"); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	m := &medicine.Medicine{Name: "med", Unit: "tablet"}
	if err := store.Create(ctx, m); err != nil {
		t.Fatalf("Create: %v", err)
	}
	// Highest suffix is M003, so the gap at M002 must not be refilled.
	if m.ID != "M004" {
		t.Errorf("new id = %q, want M004", m.ID)
	}
}

func TestMedicineStoreAdjustStockClampsAtZero(t *testing.T) {
	ctx := context.Background()
	store := NewMedicineStore()

	m := &medicine.Medicine{Name: "Paracetamol", Unit: "tablet", Stock: 5}
	if err := store.Create(ctx, m); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := store.AdjustStock(ctx, m.ID, -8)
	if err != nil {
		t.Fatalf("AdjustStock: %v", err)
	}
	if got.Stock != 0 {
		t.Errorf("stock = %d, want 0 (clamped)", got.Stock)
	}

	got, err = store.AdjustStock(ctx, m.ID, 3)
	if err != nil {
		t.Fatalf("AdjustStock: %v", err)
	}
	if got.Stock != 3 {
		t.Errorf("stock = %d, want 3", got.Stock)
	}
}

func TestMedicineStoreGetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	store := NewMedicineStore()

	m := &medicine.Medicine{Name: "Ibuprofen", Unit: "tablet", Stock: 10}
	if err := store.Create(ctx, m); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := store.GetByID(ctx, m.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	got.Stock = 999

	again, err := store.GetByID(ctx, m.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if again.Stock != 10 {
		t.Errorf("stored stock mutated through returned copy: %d", again.Stock)
	}
}

func TestMedicineStoreListFilters(t *testing.T) {
	ctx := context.Background()
	store := NewMedicineStore()

	seed := []*medicine.Medicine{
		{Name: "Paracetamol 500mg", Category: "analgesic", Unit: "tablet", Stock: 100, MinStock: 20},
		{Name: "Amoxicillin 250mg", Category: "antibiotic", Unit: "capsule", Stock: 5, MinStock: 30},
		{Name: "Ibuprofen 400mg", Category: "analgesic", Unit: "tablet", Stock: 50, MinStock: 10},
	}
	for _, m := range seed {
		if err := store.Create(ctx, m); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	got, err := store.List(ctx, &medicine.ListMedicinesQuery{Category: "analgesic"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("category filter: got %d items, want 2", len(got))
	}

	got, err = store.List(ctx, &medicine.ListMedicinesQuery{Search: "paraceta"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 1 || got[0].Name != "Paracetamol 500mg" {
		t.Errorf("search filter: got %v", got)
	}

	got, err = store.List(ctx, &medicine.ListMedicinesQuery{LowStockOnly: true})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 1 || got[0].Name != "Amoxicillin 250mg" {
		t.Errorf("low stock filter: got %v", got)
	}
}

func TestMedicineStoreNotFound(t *testing.T) {
	ctx := context.Background()
	store := NewMedicineStore()

	if _, err := store.GetByID(ctx, "M999"); !errors.Is(err, medicine.ErrMedicineNotFound) {
		t.Errorf("GetByID error = %v, want ErrMedicineNotFound", err)
	}
	if _, err := store.AdjustStock(ctx, "M999", 1); !errors.Is(err, medicine.ErrMedicineNotFound) {
		t.Errorf("AdjustStock error = %v, want ErrMedicineNotFound", err)
	}
	if err := store.Delete(ctx, "M999"); !errors.Is(err, medicine.ErrMedicineNotFound) {
		t.Errorf("Delete error = %v, want ErrMedicineNotFound", err)
	}
}
