package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/ghuser/lenos/pkg/cache"
	"github.com/ghuser/lenos/services/shop/domain/models"
	"github.com/ghuser/lenos/services/shop/infrastructure/persistence/memory"
)

var fixedNow = time.Date(2026, 10, 14, 15, 4, 5, 0, time.UTC)

func ptr[T any](v T) *T { return &v }

func money(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

type fakeJobCache struct {
	mu      sync.Mutex
	entries map[int64]*cache.CachedJob
	deletes []int64
	getErr  error
}

func newFakeJobCache() *fakeJobCache {
	return &fakeJobCache{entries: make(map[int64]*cache.CachedJob)}
}

func (c *fakeJobCache) Get(_ context.Context, id int64) (*cache.CachedJob, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return nil, c.getErr
	}
	e, ok := c.entries[id]
	if !ok {
		return nil, redis.Nil
	}
	cp := *e
	return &cp, nil
}

func (c *fakeJobCache) Set(_ context.Context, j *cache.CachedJob) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	cp := *j
	c.entries[j.ID] = &cp
	return nil
}

func (c *fakeJobCache) Delete(_ context.Context, id int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, id)
	c.deletes = append(c.deletes, id)
	return nil
}

func (c *fakeJobCache) has(id int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[id]
	return ok
}

type fakeDashboardCache struct {
	mu      sync.Mutex
	entry   *cache.CachedDashboard
	deletes int
}

func (c *fakeDashboardCache) Get(_ context.Context) (*cache.CachedDashboard, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.entry == nil {
		return nil, redis.Nil
	}
	cp := *c.entry
	return &cp, nil
}

func (c *fakeDashboardCache) Set(_ context.Context, d *cache.CachedDashboard) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	cp := *d
	c.entry = &cp
	return nil
}

func (c *fakeDashboardCache) Delete(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entry = nil
	c.deletes++
	return nil
}

type fixture struct {
	svc       *Services
	store     *memory.Store
	jobCache  *fakeJobCache
	dashboard *fakeDashboardCache
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		store:     memory.New(),
		jobCache:  newFakeJobCache(),
		dashboard: &fakeDashboardCache{},
	}
	f.svc = NewServices(Deps{
		Repos:          f.store.Registry(),
		JobCache:       f.jobCache,
		DashboardCache: f.dashboard,
		Now:            func() time.Time { return fixedNow },
	})
	return f
}

// completedJob creates a customer and a job and drives it to completed.
func (f *fixture) completedJob(t *testing.T, actual *decimal.Decimal) *models.Job {
	t.Helper()
	ctx := context.Background()
	c, err := f.svc.Customers.Create(ctx, models.NewCustomerParams{Name: "Acme"})
	if err != nil {
		t.Fatalf("create customer: %v", err)
	}
	job, err := f.svc.Jobs.Create(ctx, models.NewJobParams{CustomerID: &c.ID, Description: "Weld bracket", QuotedPrice: money("100")})
	if err != nil {
		t.Fatalf("create job: %v", err)
	}
	if _, err := f.svc.Jobs.ChangeStatus(ctx, job.ID, "in_progress", nil); err != nil {
		t.Fatalf("start job: %v", err)
	}
	done, err := f.svc.Jobs.ChangeStatus(ctx, job.ID, "completed", actual)
	if err != nil {
		t.Fatalf("complete job: %v", err)
	}
	return done
}

func TestNewServices_NilCaches(t *testing.T) {
	store := memory.New()
	svc := NewServices(Deps{Repos: store.Registry()})
	ctx := context.Background()

	job, err := svc.Jobs.Create(ctx, models.NewJobParams{Description: "Cut plate"})
	if err != nil {
		t.Fatalf("create job: %v", err)
	}
	if _, err := svc.Jobs.Get(ctx, job.ID); err != nil {
		t.Fatalf("get job without cache: %v", err)
	}
	if _, err := svc.Billing.Dashboard(ctx); err != nil {
		t.Fatalf("dashboard without cache: %v", err)
	}
}

func TestCachedJobConversion(t *testing.T) {
	sched := models.DateOf(fixedNow.AddDate(0, 0, 3))
	v := &models.JobView{
		Job: models.Job{
			ID:            4,
			JobNumber:     "JOB-1",
			CustomerID:    ptr(int64(2)),
			Description:   "Weld",
			Status:        models.JobStatusInProgress,
			QuotedPrice:   decimal.NewNullDecimal(decimal.RequireFromString("100.5")),
			QuotedDate:    models.DateOf(fixedNow),
			ScheduledDate: &sched,
			CreatedAt:     fixedNow,
		},
		CustomerName: "Acme",
	}
	c := toCachedJob(v)
	if c.QuotedPrice != "100.50" || c.ActualPrice != "" || c.CustomerID != "2" || c.QuotedDate != "2026-10-14" {
		t.Fatalf("unexpected cached job: %+v", c)
	}
	back, err := fromCachedJob(c)
	if err != nil {
		t.Fatalf("fromCachedJob: %v", err)
	}
	if *back.CustomerID != 2 || back.Status != models.JobStatusInProgress || back.ActualPrice.Valid ||
		!back.QuotedPrice.Decimal.Equal(decimal.RequireFromString("100.5")) ||
		!back.ScheduledDate.Equal(sched) || back.CompletionDate != nil {
		t.Fatalf("unexpected view: %+v", back)
	}

	c.Status = "cancelled"
	if _, err := fromCachedJob(c); err == nil {
		t.Fatal("expected error for unknown cached status")
	}
}

func TestCacheErrorsFallThrough(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	job, err := f.svc.Jobs.Create(ctx, models.NewJobParams{Description: "Cut plate"})
	if err != nil {
		t.Fatalf("create job: %v", err)
	}
	f.jobCache.getErr = errors.New("redis down")

	v, err := f.svc.Jobs.Get(ctx, job.ID)
	if err != nil {
		t.Fatalf("expected store fallback, got %v", err)
	}
	if v.JobNumber != job.JobNumber {
		t.Fatalf("got %+v", v)
	}
}
