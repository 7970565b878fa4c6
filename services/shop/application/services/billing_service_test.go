package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/ghuser/lenos/services/shop/domain"
	"github.com/ghuser/lenos/services/shop/domain/models"
)

func TestBillingService_CreateInvoice(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	job := f.completedJob(t, money("95"))
	due := models.DateOf(fixedNow.AddDate(0, 0, 30))

	inv, err := f.svc.Billing.CreateInvoice(ctx, models.NewInvoiceParams{JobID: job.ID, Amount: decimal.RequireFromString("95.00"), DueDate: &due})
	if err != nil {
		t.Fatalf("create invoice: %v", err)
	}
	if !strings.HasPrefix(inv.InvoiceNumber, "INV-") || inv.Status != models.InvoiceStatusPending {
		t.Fatalf("unexpected invoice: %+v", inv)
	}
	if !inv.IssueDate.Equal(models.DateOf(fixedNow)) || inv.PaidDate != nil {
		t.Fatalf("unexpected dates: %+v", inv)
	}

	second, err := f.svc.Billing.CreateInvoice(ctx, models.NewInvoiceParams{JobID: job.ID, Amount: decimal.NewFromInt(10)})
	if err != nil {
		t.Fatalf("second invoice for the same job: %v", err)
	}
	if second.InvoiceNumber == inv.InvoiceNumber {
		t.Fatal("invoice numbers must be unique")
	}

	list, err := f.svc.Billing.ListInvoices(ctx)
	if err != nil {
		t.Fatalf("list invoices: %v", err)
	}
	if len(list) != 2 || list[0].JobNumber != job.JobNumber || list[0].CustomerName != "Acme" {
		t.Fatalf("unexpected invoice views: %+v", list)
	}
}

func TestBillingService_CreateInvoiceGate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	quoted, _ := f.svc.Jobs.Create(ctx, models.NewJobParams{Description: "quoted"})
	started, _ := f.svc.Jobs.Create(ctx, models.NewJobParams{Description: "started"})
	if _, err := f.svc.Jobs.ChangeStatus(ctx, started.ID, "in_progress", nil); err != nil {
		t.Fatalf("start: %v", err)
	}
	done := f.completedJob(t, nil)

	tests := []struct {
		name       string
		params     models.NewInvoiceParams
		wantErr    error
		wantStatus string
	}{
		{"quoted job", models.NewInvoiceParams{JobID: quoted.ID, Amount: decimal.NewFromInt(1)}, domain.ErrPrecondition, "quoted"},
		{"in progress job", models.NewInvoiceParams{JobID: started.ID, Amount: decimal.NewFromInt(1)}, domain.ErrPrecondition, "in_progress"},
		{"unknown job", models.NewInvoiceParams{JobID: 999, Amount: decimal.NewFromInt(1)}, domain.ErrNotFound, ""},
		{"negative amount", models.NewInvoiceParams{JobID: done.ID, Amount: decimal.NewFromInt(-1)}, domain.ErrValidation, ""},
		{"due before issue", models.NewInvoiceParams{JobID: done.ID, Amount: decimal.NewFromInt(1), DueDate: ptr(fixedNow.AddDate(0, 0, -1))}, domain.ErrValidation, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Billing.CreateInvoice(ctx, tt.params)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			if tt.wantStatus != "" {
				var pe *domain.PreconditionError
				if !errors.As(err, &pe) || pe.Status != tt.wantStatus {
					t.Fatalf("expected PreconditionError with status %q, got %v", tt.wantStatus, err)
				}
			}
		})
	}

	invoices, _ := f.svc.Billing.ListInvoices(ctx)
	if len(invoices) != 0 {
		t.Fatalf("rejected invoices were stored: %+v", invoices)
	}
}

func TestBillingService_Dashboard(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	empty, err := f.svc.Billing.Dashboard(ctx)
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if empty.TotalJobs != 0 || !empty.TotalRevenue.IsZero() {
		t.Fatalf("unexpected empty stats: %+v", empty)
	}

	f.completedJob(t, money("95"))
	f.completedJob(t, nil)
	started, _ := f.svc.Jobs.Create(ctx, models.NewJobParams{Description: "started"})
	if _, err := f.svc.Jobs.ChangeStatus(ctx, started.ID, "in_progress", nil); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := f.svc.Jobs.Create(ctx, models.NewJobParams{Description: "quoted"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	stats, err := f.svc.Billing.Dashboard(ctx)
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	want := models.DashboardStats{TotalJobs: 4, InProgressJobs: 1, CompletedJobs: 2, TotalRevenue: decimal.NewFromInt(95)}
	if stats.TotalJobs != want.TotalJobs || stats.InProgressJobs != want.InProgressJobs ||
		stats.CompletedJobs != want.CompletedJobs || !stats.TotalRevenue.Equal(want.TotalRevenue) {
		t.Fatalf("stats = %+v, want %+v", stats, want)
	}

	if f.dashboard.entry == nil || f.dashboard.entry.TotalRevenue != "95.00" {
		t.Fatalf("expected dashboard cached, got %+v", f.dashboard.entry)
	}

	// A mutation drops the cached aggregate.
	if _, err := f.svc.Jobs.Create(ctx, models.NewJobParams{Description: "another"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if f.dashboard.entry != nil {
		t.Fatal("job creation must invalidate the dashboard cache")
	}
	stats, _ = f.svc.Billing.Dashboard(ctx)
	if stats.TotalJobs != 5 {
		t.Fatalf("total jobs after invalidation = %d, want 5", stats.TotalJobs)
	}
}

func TestBillingService_DashboardServedFromCache(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_ = f.dashboard.Set(ctx, toCachedDashboard(models.DashboardStats{TotalJobs: 42, TotalRevenue: decimal.NewFromInt(7)}))

	stats, err := f.svc.Billing.Dashboard(ctx)
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if stats.TotalJobs != 42 || !stats.TotalRevenue.Equal(decimal.NewFromInt(7)) {
		t.Fatalf("expected cached stats, got %+v", stats)
	}
}
