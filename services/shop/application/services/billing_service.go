package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ghuser/lenos/pkg/logger"
	"github.com/ghuser/lenos/pkg/telemetry"
	"github.com/ghuser/lenos/services/shop/domain"
	"github.com/ghuser/lenos/services/shop/domain/models"
	"github.com/ghuser/lenos/services/shop/domain/repositories"
	domainsvcs "github.com/ghuser/lenos/services/shop/domain/services"
)

// BillingService issues invoices for completed jobs and serves the dashboard.
type BillingService struct {
	invoices repositories.InvoiceRepository
	jobs     repositories.JobRepository
	cache    DashboardCache
	numbers  *domainsvcs.NumberGenerator
	metrics  *telemetry.ShopMetrics
	now      func() time.Time
	log      logger.Logger
}

// CreateInvoice bills a completed job. The amount is taken as given; it is not
// checked against the job's quoted or actual price. A job may be invoiced
// more than once.
//
// Completed is terminal, so the gate read here cannot be invalidated by a
// concurrent transition before the invoice is stored.
func (s *BillingService) CreateInvoice(ctx context.Context, p models.NewInvoiceParams) (*models.Invoice, error) {
	inv, err := models.NewInvoice(p, s.now())
	if err != nil {
		return nil, err
	}
	job, err := s.jobs.GetByID(ctx, inv.JobID)
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}
	if err := domainsvcs.CheckInvoiceable(job); err != nil {
		return nil, err
	}

	for attempt := 1; ; attempt++ {
		inv.InvoiceNumber = s.numbers.Next()
		if err := domainsvcs.ValidateInvoiceForCreation(inv); err != nil {
			return nil, err
		}
		err := s.invoices.Save(ctx, inv)
		if err == nil {
			break
		}
		if !errors.Is(err, domain.ErrDuplicateNumber) || attempt == maxNumberAttempts {
			return nil, fmt.Errorf("save invoice: %w", err)
		}
		s.log.WarnContext(ctx, "invoice number collision, regenerating",
			"invoice_number", inv.InvoiceNumber, "attempt", attempt)
	}

	s.metrics.InvoiceIssued(ctx, inv.Amount)
	s.log.InfoContext(ctx, "invoice issued",
		"invoice_id", inv.ID, "invoice_number", inv.InvoiceNumber,
		"job_id", inv.JobID, "amount", inv.Amount.StringFixed(2))
	return inv, nil
}

// ListInvoices returns every invoice with job number and customer name,
// most recently issued first.
func (s *BillingService) ListInvoices(ctx context.Context) ([]*models.InvoiceView, error) {
	out, err := s.invoices.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	return out, nil
}

// Dashboard returns job counts and realized revenue, served from the
// dashboard cache until a job mutation invalidates it.
func (s *BillingService) Dashboard(ctx context.Context) (models.DashboardStats, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx)
		switch {
		case err == nil:
			stats, convErr := fromCachedDashboard(cached)
			if convErr == nil {
				return stats, nil
			}
			s.log.WarnContext(ctx, "discarding unreadable cached dashboard", "error", convErr)
		case !errors.Is(err, redis.Nil):
			s.log.WarnContext(ctx, "dashboard cache read failed", "error", err)
		}
	}

	stats, err := s.jobs.Stats(ctx)
	if err != nil {
		return models.DashboardStats{}, fmt.Errorf("dashboard stats: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, toCachedDashboard(stats)); err != nil {
			s.log.WarnContext(ctx, "dashboard cache warm failed", "error", err)
		}
	}
	return stats, nil
}
