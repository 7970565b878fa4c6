package services

import (
	"context"
	"fmt"
	"strconv"
	"sync/atomic"

	"github.com/shopspring/decimal"

	"github.com/ghuser/lenos/pkg/cache"
	"github.com/ghuser/lenos/pkg/logger"
	"github.com/ghuser/lenos/services/shop/domain/models"
)

// JobCache is the read-through cache of single job views. Get returns
// redis.Nil on a miss. Satisfied by *cache.JobCache.
type JobCache interface {
	Get(ctx context.Context, jobID int64) (*cache.CachedJob, error)
	Set(ctx context.Context, job *cache.CachedJob) error
	Delete(ctx context.Context, jobID int64) error
}

// DashboardCache holds the dashboard aggregate. Get returns redis.Nil on a
// miss. Satisfied by *cache.DashboardCache.
type DashboardCache interface {
	Get(ctx context.Context) (*cache.CachedDashboard, error)
	Set(ctx context.Context, d *cache.CachedDashboard) error
	Delete(ctx context.Context) error
}

// invalidator drops cache entries after a successful mutation. Failures are
// logged and swallowed: a stale entry expires with its TTL.
//
// jobGen counts job invalidations in this process. A read-through fill that
// sees it move while the fill was in flight deletes what it just wrote.
type invalidator struct {
	jobs      JobCache
	dashboard DashboardCache
	log       logger.Logger
	jobGen    atomic.Uint64
}

func newInvalidator(jobs JobCache, dashboard DashboardCache, log logger.Logger) *invalidator {
	return &invalidator{jobs: jobs, dashboard: dashboard, log: log}
}

func (i *invalidator) job(ctx context.Context, jobID int64) {
	if i.jobs == nil {
		return
	}
	i.jobGen.Add(1)
	if err := i.jobs.Delete(ctx, jobID); err != nil {
		i.log.WarnContext(ctx, "job cache invalidation failed", "job_id", jobID, "error", err)
	}
}

func (i *invalidator) generation() uint64 {
	return i.jobGen.Load()
}

func (i *invalidator) stats(ctx context.Context) {
	if i.dashboard == nil {
		return
	}
	if err := i.dashboard.Delete(ctx); err != nil {
		i.log.WarnContext(ctx, "dashboard cache invalidation failed", "error", err)
	}
}

func toCachedJob(v *models.JobView) *cache.CachedJob {
	c := &cache.CachedJob{
		ID:             v.ID,
		JobNumber:      v.JobNumber,
		CustomerName:   v.CustomerName,
		Description:    v.Description,
		Status:         v.Status.String(),
		QuotedPrice:    nullMoneyString(v.QuotedPrice),
		ActualPrice:    nullMoneyString(v.ActualPrice),
		QuotedDate:     models.FormatDate(&v.QuotedDate),
		ScheduledDate:  models.FormatDate(v.ScheduledDate),
		CompletionDate: models.FormatDate(v.CompletionDate),
		Notes:          v.Notes,
		CreatedAt:      v.CreatedAt,
	}
	if v.CustomerID != nil {
		c.CustomerID = strconv.FormatInt(*v.CustomerID, 10)
	}
	return c
}

func fromCachedJob(c *cache.CachedJob) (*models.JobView, error) {
	status, err := models.ParseJobStatus(c.Status)
	if err != nil {
		return nil, fmt.Errorf("cached status: %w", err)
	}
	v := &models.JobView{
		Job: models.Job{
			ID:          c.ID,
			JobNumber:   c.JobNumber,
			Description: c.Description,
			Status:      status,
			Notes:       c.Notes,
			CreatedAt:   c.CreatedAt,
		},
		CustomerName: c.CustomerName,
	}
	if c.CustomerID != "" {
		id, err := strconv.ParseInt(c.CustomerID, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("cached customer id: %w", err)
		}
		v.CustomerID = &id
	}
	if v.QuotedPrice, err = parseNullMoney(c.QuotedPrice); err != nil {
		return nil, fmt.Errorf("cached quoted price: %w", err)
	}
	if v.ActualPrice, err = parseNullMoney(c.ActualPrice); err != nil {
		return nil, fmt.Errorf("cached actual price: %w", err)
	}
	quoted, err := models.ParseDate("quoted_date", c.QuotedDate)
	if err != nil || quoted == nil {
		return nil, fmt.Errorf("cached quoted date %q", c.QuotedDate)
	}
	v.QuotedDate = *quoted
	if v.ScheduledDate, err = models.ParseDate("scheduled_date", c.ScheduledDate); err != nil {
		return nil, err
	}
	if v.CompletionDate, err = models.ParseDate("completion_date", c.CompletionDate); err != nil {
		return nil, err
	}
	return v, nil
}

func toCachedDashboard(s models.DashboardStats) *cache.CachedDashboard {
	return &cache.CachedDashboard{
		TotalJobs:      s.TotalJobs,
		InProgressJobs: s.InProgressJobs,
		CompletedJobs:  s.CompletedJobs,
		TotalRevenue:   s.TotalRevenue.StringFixed(2),
	}
}

func fromCachedDashboard(c *cache.CachedDashboard) (models.DashboardStats, error) {
	revenue, err := decimal.NewFromString(c.TotalRevenue)
	if err != nil {
		return models.DashboardStats{}, fmt.Errorf("cached revenue: %w", err)
	}
	return models.DashboardStats{
		TotalJobs:      c.TotalJobs,
		InProgressJobs: c.InProgressJobs,
		CompletedJobs:  c.CompletedJobs,
		TotalRevenue:   revenue,
	}, nil
}

func nullMoneyString(d decimal.NullDecimal) string {
	if !d.Valid {
		return ""
	}
	return d.Decimal.StringFixed(2)
}

func parseNullMoney(s string) (decimal.NullDecimal, error) {
	if s == "" {
		return decimal.NullDecimal{}, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}, err
	}
	return decimal.NewNullDecimal(d), nil
}
