package services

import (
	"time"

	"github.com/ghuser/lenos/pkg/app"
	"github.com/ghuser/lenos/pkg/cache"
	"github.com/ghuser/lenos/pkg/logger"
	"github.com/ghuser/lenos/pkg/telemetry"
	"github.com/ghuser/lenos/services/shop/domain/repositories"
	domainsvcs "github.com/ghuser/lenos/services/shop/domain/services"
	"github.com/ghuser/lenos/services/shop/infrastructure/persistence/postgres"
)

// Services is the application-layer service container for the shop bounded
// context and the single entry point the HTTP handlers call. It wires domain
// services with their infrastructure implementations.
type Services struct {
	Customers     *CustomerService
	Jobs          *JobService
	Inventory     *InventoryService
	QualityChecks *QualityCheckService
	Billing       *BillingService
}

// Deps are the collaborators NewServices wires together. Caches and Metrics
// may be nil; Now defaults to time.Now and Logger to a discarding logger.
type Deps struct {
	Repos          repositories.Registry
	JobCache       JobCache
	DashboardCache DashboardCache
	Metrics        *telemetry.ShopMetrics
	Logger         logger.Logger
	Now            func() time.Time
}

// New wires all shop application services with infrastructure from the
// Application container: Postgres repositories publishing through the event
// bus, and Redis caches when a.Redis is set.
func New(a *app.Application) *Services {
	d := Deps{
		Repos:   postgres.NewRegistry(a.Db, a.EventBus),
		Metrics: a.Metrics,
		Logger:  a.Logger,
	}
	if a.Redis != nil {
		d.JobCache = cache.NewJobCache(a.Redis, a.Config.JobCacheTTL)
		d.DashboardCache = cache.NewDashboardCache(a.Redis, a.Config.DashboardCacheTTL)
	}
	return NewServices(d)
}

// NewServices builds the container from explicit dependencies.
func NewServices(d Deps) *Services {
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.Logger == nil {
		d.Logger = logger.Discard()
	}
	inv := newInvalidator(d.JobCache, d.DashboardCache, d.Logger)
	return &Services{
		Customers: &CustomerService{repo: d.Repos.Customers, now: d.Now, log: d.Logger},
		Jobs: &JobService{
			repo:      d.Repos.Jobs,
			customers: d.Repos.Customers,
			cache:     d.JobCache,
			inval:     inv,
			numbers:   domainsvcs.NewJobNumberGenerator(d.Now),
			metrics:   d.Metrics,
			now:       d.Now,
			log:       d.Logger,
		},
		Inventory: &InventoryService{
			repo:    d.Repos.Inventory,
			jobs:    d.Repos.Jobs,
			metrics: d.Metrics,
			now:     d.Now,
			log:     d.Logger,
		},
		QualityChecks: &QualityCheckService{
			repo: d.Repos.QualityChecks,
			jobs: d.Repos.Jobs,
			now:  d.Now,
			log:  d.Logger,
		},
		Billing: &BillingService{
			invoices: d.Repos.Invoices,
			jobs:     d.Repos.Jobs,
			cache:    d.DashboardCache,
			numbers:  domainsvcs.NewInvoiceNumberGenerator(d.Now),
			metrics:  d.Metrics,
			now:      d.Now,
			log:      d.Logger,
		},
	}
}

// maxNumberAttempts bounds how often a generated job or invoice number is
// regenerated after colliding with one another process stored.
const maxNumberAttempts = 3
