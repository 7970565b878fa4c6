package services

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/ghuser/lenos/services/shop/domain"
	"github.com/ghuser/lenos/services/shop/domain/models"
	"github.com/ghuser/lenos/services/shop/domain/repositories"
)

func TestInventoryService_CreateAndList(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, p := range []models.NewInventoryItemParams{
		{Name: "Steel sheet", QuantityInStock: 3, ReorderLevel: 5},
		{Name: "Aluminium rod", QuantityInStock: 10, ReorderLevel: 5},
		{Name: "Bolts", QuantityInStock: 5, ReorderLevel: 5},
	} {
		if _, err := f.svc.Inventory.Create(ctx, p); err != nil {
			t.Fatalf("create %s: %v", p.Name, err)
		}
	}

	all, err := f.svc.Inventory.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	wantNames := []string{"Aluminium rod", "Bolts", "Steel sheet"}
	wantLow := []bool{false, true, true}
	if len(all) != len(wantNames) {
		t.Fatalf("len = %d", len(all))
	}
	for i := range all {
		if all[i].Name.String() != wantNames[i] || all[i].LowStock != wantLow[i] {
			t.Errorf("item %d = %s low=%v, want %s low=%v", i, all[i].Name, all[i].LowStock, wantNames[i], wantLow[i])
		}
	}

	low, err := f.svc.Inventory.LowStock(ctx)
	if err != nil {
		t.Fatalf("low stock: %v", err)
	}
	if len(low) != 2 || low[0].Name != "Bolts" || low[1].Name != "Steel sheet" {
		t.Fatalf("unexpected low stock: %+v", low)
	}
}

func TestInventoryService_CreateValidation(t *testing.T) {
	tests := []struct {
		name   string
		params models.NewInventoryItemParams
	}{
		{"blank name", models.NewInventoryItemParams{Name: " "}},
		{"negative stock", models.NewInventoryItemParams{Name: "x", QuantityInStock: -1}},
		{"negative reorder", models.NewInventoryItemParams{Name: "x", ReorderLevel: -1}},
		{"negative cost", models.NewInventoryItemParams{Name: "x", UnitCost: money("-0.01")}},
		{"control character", models.NewInventoryItemParams{Name: "bad\x00name"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			if _, err := f.svc.Inventory.Create(context.Background(), tt.params); !errors.Is(err, domain.ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
		})
	}
}

func TestInventoryService_Adjust(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	item, _ := f.svc.Inventory.Create(ctx, models.NewInventoryItemParams{Name: "Steel", QuantityInStock: 2, ReorderLevel: 5})

	v, err := f.svc.Inventory.Adjust(ctx, item.ID, models.InventoryPatch{QuantityInStock: ptr(20)})
	if err != nil {
		t.Fatalf("adjust: %v", err)
	}
	if v.QuantityInStock != 20 || v.LowStock {
		t.Fatalf("unexpected view: %+v", v)
	}

	if _, err := f.svc.Inventory.Adjust(ctx, item.ID, models.InventoryPatch{ReorderLevel: ptr(-1)}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if _, err := f.svc.Inventory.Adjust(ctx, 404, models.InventoryPatch{QuantityInStock: ptr(1)}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

// consumesBeforeWrite books usage against the item just before the
// patch reaches the store.
type consumesBeforeWrite struct {
	repositories.InventoryRepository
	usage models.InventoryUsage
}

func (r *consumesBeforeWrite) Update(ctx context.Context, id int64, patch models.InventoryPatch) (*models.InventoryItem, error) {
	u := r.usage
	if _, err := r.InventoryRepository.RecordUsage(ctx, &u); err != nil {
		return nil, err
	}
	return r.InventoryRepository.Update(ctx, id, patch)
}

func TestInventoryService_AdjustKeepsConcurrentUsage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	job, _ := f.svc.Jobs.Create(ctx, models.NewJobParams{Description: "Weld"})
	item, _ := f.svc.Inventory.Create(ctx, models.NewInventoryItemParams{Name: "Steel", QuantityInStock: 10, ReorderLevel: 2})
	f.svc.Inventory.repo = &consumesBeforeWrite{
		InventoryRepository: f.store.Registry().Inventory,
		usage:               models.InventoryUsage{JobID: job.ID, InventoryID: item.ID, QuantityUsed: 4, RecordedAt: fixedNow},
	}

	v, err := f.svc.Inventory.Adjust(ctx, item.ID, models.InventoryPatch{Supplier: ptr("Steelworks Ltd")})
	if err != nil {
		t.Fatalf("adjust: %v", err)
	}
	if v.QuantityInStock != 6 || v.Supplier != "Steelworks Ltd" {
		t.Fatalf("unexpected view: %+v", v)
	}
	stored, _ := f.store.Registry().Inventory.GetByID(ctx, item.ID)
	usage, _ := f.store.Registry().Inventory.ListUsage(ctx, job.ID)
	if stored.QuantityInStock != 6 || len(usage) != 1 {
		t.Fatalf("usage rows=%d quantity_in_stock=%d, want 1 and 6", len(usage), stored.QuantityInStock)
	}
}

func TestInventoryService_RecordUsage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	job, _ := f.svc.Jobs.Create(ctx, models.NewJobParams{Description: "Weld"})
	item, _ := f.svc.Inventory.Create(ctx, models.NewInventoryItemParams{Name: "Steel", QuantityInStock: 10, ReorderLevel: 5, UnitCost: money("2.50")})

	u, after, err := f.svc.Inventory.RecordUsage(ctx, models.NewInventoryUsageParams{JobID: job.ID, InventoryID: item.ID, QuantityUsed: 6})
	if err != nil {
		t.Fatalf("record usage: %v", err)
	}
	if after.QuantityInStock != 4 || !after.LowStock {
		t.Fatalf("unexpected item after usage: %+v", after)
	}
	if !u.CostPerUnit.Valid || !u.CostPerUnit.Decimal.Equal(decimal.RequireFromString("2.5")) {
		t.Fatalf("cost per unit should default to the item's unit cost, got %v", u.CostPerUnit)
	}

	t.Run("exceeding stock leaves it unchanged", func(t *testing.T) {
		_, _, err := f.svc.Inventory.RecordUsage(ctx, models.NewInventoryUsageParams{JobID: job.ID, InventoryID: item.ID, QuantityUsed: 5})
		if !errors.Is(err, domain.ErrInsufficientStock) {
			t.Fatalf("expected ErrInsufficientStock, got %v", err)
		}
		stored, _ := f.store.Registry().Inventory.GetByID(ctx, item.ID)
		if stored.QuantityInStock != 4 {
			t.Fatalf("stock = %d, want 4", stored.QuantityInStock)
		}
	})

	t.Run("unknown job", func(t *testing.T) {
		_, _, err := f.svc.Inventory.RecordUsage(ctx, models.NewInventoryUsageParams{JobID: 404, InventoryID: item.ID, QuantityUsed: 1})
		if !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("zero quantity", func(t *testing.T) {
		_, _, err := f.svc.Inventory.RecordUsage(ctx, models.NewInventoryUsageParams{JobID: job.ID, InventoryID: item.ID})
		if !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("expected ErrValidation, got %v", err)
		}
	})

	usage, err := f.svc.Inventory.ListUsage(ctx, job.ID)
	if err != nil {
		t.Fatalf("list usage: %v", err)
	}
	if len(usage) != 1 || usage[0].QuantityUsed != 6 {
		t.Fatalf("unexpected usage: %+v", usage)
	}
}

func TestCustomerAndQualityCheckServices(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.svc.Customers.Create(ctx, models.NewCustomerParams{Name: ""}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation for blank name, got %v", err)
	}
	a, _ := f.svc.Customers.Create(ctx, models.NewCustomerParams{Name: "Acme", Email: " ops@acme.test "})
	b, _ := f.svc.Customers.Create(ctx, models.NewCustomerParams{Name: "Bolt Co"})
	customers, err := f.svc.Customers.List(ctx)
	if err != nil {
		t.Fatalf("list customers: %v", err)
	}
	if len(customers) != 2 || customers[0].ID != b.ID || customers[1].ID != a.ID || customers[1].Email != "ops@acme.test" {
		t.Fatalf("unexpected customers: %+v", customers)
	}

	job, _ := f.svc.Jobs.Create(ctx, models.NewJobParams{CustomerID: &a.ID, Description: "Weld"})
	qc, err := f.svc.QualityChecks.Record(ctx, models.NewQualityCheckParams{JobID: job.ID, CheckType: "weld", Result: "pass", CheckedBy: "sam"})
	if err != nil {
		t.Fatalf("record check: %v", err)
	}
	if qc.ID == 0 || !qc.CheckedAt.Equal(fixedNow) {
		t.Fatalf("unexpected check: %+v", qc)
	}
	stored, _ := f.store.Registry().Jobs.GetByID(ctx, job.ID)
	if stored.Status != models.JobStatusQuoted {
		t.Fatal("a quality check must not change the job")
	}

	if _, err := f.svc.QualityChecks.Record(ctx, models.NewQualityCheckParams{JobID: 404, CheckType: "weld", Result: "pass"}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	checks, err := f.svc.QualityChecks.ListByJob(ctx, job.ID)
	if err != nil || len(checks) != 1 {
		t.Fatalf("list checks: %+v, %v", checks, err)
	}
	none, err := f.svc.QualityChecks.ListByJob(ctx, 404)
	if err != nil || len(none) != 0 {
		t.Fatalf("unknown job should list no checks: %+v, %v", none, err)
	}
}
