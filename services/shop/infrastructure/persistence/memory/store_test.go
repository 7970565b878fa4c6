package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ghuser/lenos/services/shop/domain"
	"github.com/ghuser/lenos/services/shop/domain/models"
)

var base = time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)

func ptrTo[T any](v T) *T { return &v }

func newJob(number string, customerID *int64, at time.Time) *models.Job {
	return &models.Job{
		JobNumber:   number,
		CustomerID:  customerID,
		Description: "job " + number,
		Status:      models.JobStatusQuoted,
		QuotedDate:  models.DateOf(at),
		CreatedAt:   at,
	}
}

func TestCustomers_IDsAndOrdering(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	reg := New().Registry()

	for i, name := range []string{"Ada", "Grace", "Linus"} {
		c := &models.Customer{Name: models.Name(name), CreatedAt: base.Add(time.Duration(i) * time.Minute)}
		if err := reg.Customers.Save(ctx, c); err != nil {
			t.Fatalf("Save: %v", err)
		}
		if c.ID != int64(i+1) {
			t.Fatalf("ID: got %d, want %d", c.ID, i+1)
		}
	}

	list, err := reg.Customers.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 3 || list[0].Name != "Linus" || list[2].Name != "Ada" {
		t.Fatalf("expected newest first, got %v", list)
	}

	_, err = reg.Customers.GetByID(ctx, 99)
	var nf *domain.NotFoundError
	if !errors.As(err, &nf) || nf.Kind != "customer" || nf.ID != 99 {
		t.Fatalf("expected customer NotFoundError, got %v", err)
	}
}

func TestJobs_SameTimestampOrdersByID(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	reg := New().Registry()

	for _, n := range []string{"JOB-1", "JOB-2", "JOB-3"} {
		if err := reg.Jobs.Save(ctx, newJob(n, nil, base)); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}
	list, err := reg.Jobs.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if list[0].JobNumber != "JOB-3" || list[2].JobNumber != "JOB-1" {
		t.Fatalf("unexpected order: %s %s %s", list[0].JobNumber, list[1].JobNumber, list[2].JobNumber)
	}
	for _, v := range list {
		if v.CustomerName != models.UnknownCustomerName {
			t.Errorf("orphaned job %s: CustomerName %q", v.JobNumber, v.CustomerName)
		}
	}
}

func TestJobs_DuplicateNumber(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	reg := New().Registry()

	if err := reg.Jobs.Save(ctx, newJob("JOB-1", nil, base)); err != nil {
		t.Fatalf("Save: %v", err)
	}
	dup := newJob("JOB-1", nil, base)
	if err := reg.Jobs.Save(ctx, dup); !errors.Is(err, domain.ErrDuplicateNumber) {
		t.Fatalf("expected ErrDuplicateNumber, got %v", err)
	}
	if dup.ID != 0 {
		t.Errorf("rejected job must not get an ID, got %d", dup.ID)
	}
	if err := reg.Jobs.Save(ctx, newJob("JOB-2", nil, base)); err != nil {
		t.Fatalf("Save: %v", err)
	}
	list, _ := reg.Jobs.List(ctx)
	if len(list) != 2 || list[0].ID != 2 {
		t.Fatalf("expected two jobs with ids 1..2, got %d", len(list))
	}
}

func TestJobs_ViewResolvesCustomerName(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	reg := New().Registry()

	c := &models.Customer{Name: "Acme", CreatedAt: base}
	_ = reg.Customers.Save(ctx, c)
	dangling := int64(42)
	_ = reg.Jobs.Save(ctx, newJob("JOB-1", &c.ID, base))
	_ = reg.Jobs.Save(ctx, newJob("JOB-2", &dangling, base))

	v, err := reg.Jobs.GetView(ctx, 1)
	if err != nil || v.CustomerName != "Acme" {
		t.Fatalf("GetView(1): %v, %v", v, err)
	}
	v, err = reg.Jobs.GetView(ctx, 2)
	if err != nil || v.CustomerName != models.UnknownCustomerName {
		t.Fatalf("GetView(2): %v, %v", v, err)
	}
}

func TestJobs_ReturnsCopies(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	reg := New().Registry()

	cid := int64(5)
	job := newJob("JOB-1", &cid, base)
	_ = reg.Jobs.Save(ctx, job)
	job.Description = "mutated after save"
	cid = 6

	got, _ := reg.Jobs.GetByID(ctx, job.ID)
	if got.Description != "job JOB-1" || *got.CustomerID != 5 {
		t.Fatalf("store shares memory with caller: %+v", got)
	}
	got.Status = models.JobStatusCompleted
	again, _ := reg.Jobs.GetByID(ctx, job.ID)
	if again.Status != models.JobStatusQuoted {
		t.Fatal("mutating a read result changed the store")
	}
}

func TestJobs_TransitionStatus(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	reg := New().Registry()
	_ = reg.Jobs.Save(ctx, newJob("JOB-1", nil, base))

	done := models.DateOf(base)
	if _, err := reg.Jobs.TransitionStatus(ctx, models.StatusChange{JobID: 1, From: models.JobStatusQuoted, To: models.JobStatusInProgress}); err != nil {
		t.Fatalf("start: %v", err)
	}
	got, err := reg.Jobs.TransitionStatus(ctx, models.StatusChange{
		JobID:          1,
		From:           models.JobStatusInProgress,
		To:             models.JobStatusCompleted,
		CompletionDate: &done,
		ActualPrice:    decimal.NewNullDecimal(decimal.NewFromInt(95)),
	})
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if got.Status != models.JobStatusCompleted || got.CompletionDate == nil || !got.ActualPrice.Valid {
		t.Fatalf("unexpected job: %+v", got)
	}

	_, err = reg.Jobs.TransitionStatus(ctx, models.StatusChange{JobID: 1, From: models.JobStatusInProgress, To: models.JobStatusCompleted})
	var te *domain.InvalidTransitionError
	if !errors.As(err, &te) || te.From != "completed" {
		t.Fatalf("stale CAS: expected InvalidTransitionError from completed, got %v", err)
	}

	_, err = reg.Jobs.TransitionStatus(ctx, models.StatusChange{JobID: 9, From: models.JobStatusQuoted, To: models.JobStatusInProgress})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestJobs_ConcurrentTransitionOneWinner(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	reg := New().Registry()
	_ = reg.Jobs.Save(ctx, newJob("JOB-1", nil, base))

	const racers = 32
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		wins    int
		refused int
	)
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := reg.Jobs.TransitionStatus(ctx, models.StatusChange{JobID: 1, From: models.JobStatusQuoted, To: models.JobStatusInProgress})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				wins++
			case errors.Is(err, domain.ErrInvalidTransition):
				refused++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if wins != 1 || refused != racers-1 {
		t.Fatalf("wins=%d refused=%d, want 1 and %d", wins, refused, racers-1)
	}
}

func TestJobs_UpdateAppliesOnlySetFields(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	reg := New().Registry()
	_ = reg.Jobs.Save(ctx, newJob("JOB-1", nil, base))
	_, _ = reg.Jobs.TransitionStatus(ctx, models.StatusChange{JobID: 1, From: models.JobStatusQuoted, To: models.JobStatusInProgress})
	done := base
	_, _ = reg.Jobs.TransitionStatus(ctx, models.StatusChange{
		JobID: 1, From: models.JobStatusInProgress, To: models.JobStatusCompleted,
		CompletionDate: &done, ActualPrice: decimal.NewNullDecimal(decimal.RequireFromString("500")),
	})

	notes := "  ring first "
	got, err := reg.Jobs.Update(ctx, 1, models.JobPatch{Notes: &notes})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got.Notes != "ring first" || got.Description != "job JOB-1" || got.JobNumber != "JOB-1" {
		t.Fatalf("unexpected job after update: %+v", got)
	}
	if got.Status != models.JobStatusCompleted || !got.ActualPrice.Valid || got.CompletionDate == nil {
		t.Fatalf("lifecycle fields lost: %+v", got)
	}

	tests := []struct {
		name    string
		id      int64
		patch   models.JobPatch
		wantErr error
	}{
		{"unknown job", 7, models.JobPatch{Notes: &notes}, domain.ErrNotFound},
		{"unknown customer", 1, models.JobPatch{CustomerID: ptrTo(int64(9))}, domain.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := reg.Jobs.Update(ctx, tt.id, tt.patch); !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestJobs_UpdateActualPriceNeedsCompletedJob(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	reg := New().Registry()
	_ = reg.Jobs.Save(ctx, newJob("JOB-1", nil, base))

	price := decimal.RequireFromString("12.5")
	if _, err := reg.Jobs.Update(ctx, 1, models.JobPatch{ActualPrice: &price}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	got, _ := reg.Jobs.GetByID(ctx, 1)
	if got.ActualPrice.Valid {
		t.Fatalf("refused patch still wrote actual price: %v", got.ActualPrice)
	}
}

func TestJobs_Stats(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	reg := New().Registry()

	stats, err := reg.Jobs.Stats(ctx)
	if err != nil || stats.TotalJobs != 0 || !stats.TotalRevenue.IsZero() {
		t.Fatalf("empty stats: %+v, %v", stats, err)
	}

	_ = reg.Jobs.Save(ctx, newJob("JOB-1", nil, base))
	_ = reg.Jobs.Save(ctx, newJob("JOB-2", nil, base))
	_, _ = reg.Jobs.TransitionStatus(ctx, models.StatusChange{JobID: 1, From: models.JobStatusQuoted, To: models.JobStatusInProgress})

	stats, _ = reg.Jobs.Stats(ctx)
	if stats.TotalJobs != 2 || stats.InProgressJobs != 1 || stats.CompletedJobs != 0 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestInventory_OrderingAndLowStock(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	reg := New().Registry()

	for _, item := range []*models.InventoryItem{
		{Name: "Washer", QuantityInStock: 100, ReorderLevel: 10},
		{Name: "Bolt", QuantityInStock: 3, ReorderLevel: 5},
		{Name: "Nut", QuantityInStock: 5, ReorderLevel: 5},
	} {
		if err := reg.Inventory.Save(ctx, item); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}

	all, _ := reg.Inventory.List(ctx)
	if len(all) != 3 || all[0].Name != "Bolt" || all[1].Name != "Nut" || all[2].Name != "Washer" {
		t.Fatalf("expected name order, got %v", all)
	}
	low, _ := reg.Inventory.ListLowStock(ctx)
	if len(low) != 2 || low[0].Name != "Bolt" || low[1].Name != "Nut" {
		t.Fatalf("unexpected low stock: %v", low)
	}
}

func TestInventory_RecordUsage(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	reg := New().Registry()
	_ = reg.Jobs.Save(ctx, newJob("JOB-1", nil, base))
	_ = reg.Inventory.Save(ctx, &models.InventoryItem{Name: "Steel", QuantityInStock: 10, ReorderLevel: 5})

	item, err := reg.Inventory.RecordUsage(ctx, &models.InventoryUsage{JobID: 1, InventoryID: 1, QuantityUsed: 6, RecordedAt: base})
	if err != nil {
		t.Fatalf("RecordUsage: %v", err)
	}
	if item.QuantityInStock != 4 || !item.IsLowStock() {
		t.Fatalf("unexpected item after usage: %+v", item)
	}

	_, err = reg.Inventory.RecordUsage(ctx, &models.InventoryUsage{JobID: 1, InventoryID: 1, QuantityUsed: 5, RecordedAt: base})
	if !errors.Is(err, domain.ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}
	stored, _ := reg.Inventory.GetByID(ctx, 1)
	if stored.QuantityInStock != 4 {
		t.Fatalf("failed usage changed stock to %d", stored.QuantityInStock)
	}

	usage, _ := reg.Inventory.ListUsage(ctx, 1)
	if len(usage) != 1 || usage[0].QuantityUsed != 6 {
		t.Fatalf("unexpected usage rows: %v", usage)
	}

	_, err = reg.Inventory.RecordUsage(ctx, &models.InventoryUsage{JobID: 2, InventoryID: 1, QuantityUsed: 1})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("unknown job: expected ErrNotFound, got %v", err)
	}
}

func TestInventory_UpdateKeepsConsumedStock(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	reg := New().Registry()
	_ = reg.Jobs.Save(ctx, newJob("JOB-1", nil, base))
	_ = reg.Inventory.Save(ctx, &models.InventoryItem{Name: "Steel", QuantityInStock: 10, ReorderLevel: 2})
	if _, err := reg.Inventory.RecordUsage(ctx, &models.InventoryUsage{JobID: 1, InventoryID: 1, QuantityUsed: 4, RecordedAt: base}); err != nil {
		t.Fatalf("RecordUsage: %v", err)
	}

	supplier := " Steelworks "
	got, err := reg.Inventory.Update(ctx, 1, models.InventoryPatch{Supplier: &supplier})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got.QuantityInStock != 6 || got.Supplier != "Steelworks" || got.Name != "Steel" {
		t.Fatalf("unexpected item after update: %+v", got)
	}

	if _, err := reg.Inventory.Update(ctx, 9, models.InventoryPatch{Supplier: &supplier}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestQualityChecks_ListByJob(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	reg := New().Registry()

	_ = reg.QualityChecks.Save(ctx, &models.QualityCheck{JobID: 1, CheckType: "visual", Result: "pass", CheckedAt: base})
	_ = reg.QualityChecks.Save(ctx, &models.QualityCheck{JobID: 2, CheckType: "visual", Result: "fail", CheckedAt: base})
	_ = reg.QualityChecks.Save(ctx, &models.QualityCheck{JobID: 1, CheckType: "pressure", Result: "pass", CheckedAt: base.Add(time.Hour)})

	checks, err := reg.QualityChecks.ListByJob(ctx, 1)
	if err != nil {
		t.Fatalf("ListByJob: %v", err)
	}
	if len(checks) != 2 || checks[0].CheckType != "pressure" {
		t.Fatalf("expected newest first for job 1, got %v", checks)
	}
	none, _ := reg.QualityChecks.ListByJob(ctx, 3)
	if none == nil || len(none) != 0 {
		t.Fatalf("expected empty non-nil slice, got %v", none)
	}
}

func TestInvoices_ViewsAndDuplicates(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	reg := New().Registry()

	c := &models.Customer{Name: "Acme", CreatedAt: base}
	_ = reg.Customers.Save(ctx, c)
	_ = reg.Jobs.Save(ctx, newJob("JOB-1", &c.ID, base))

	older := &models.Invoice{JobID: 1, InvoiceNumber: "INV-1", Amount: decimal.NewFromInt(10), IssueDate: base.AddDate(0, 0, -1)}
	newer := &models.Invoice{JobID: 1, InvoiceNumber: "INV-2", Amount: decimal.NewFromInt(20), IssueDate: base}
	for _, inv := range []*models.Invoice{older, newer} {
		if err := reg.Invoices.Save(ctx, inv); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}
	if err := reg.Invoices.Save(ctx, &models.Invoice{JobID: 1, InvoiceNumber: "INV-2"}); !errors.Is(err, domain.ErrDuplicateNumber) {
		t.Fatalf("expected ErrDuplicateNumber, got %v", err)
	}

	views, err := reg.Invoices.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(views) != 2 || views[0].InvoiceNumber != "INV-2" {
		t.Fatalf("expected issue date desc, got %v", views)
	}
	if views[0].JobNumber != "JOB-1" || views[0].CustomerName != "Acme" {
		t.Fatalf("unexpected join: %+v", views[0])
	}
}
