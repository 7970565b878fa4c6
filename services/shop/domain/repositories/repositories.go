package repositories

import (
	"context"

	"github.com/ghuser/lenos/services/shop/domain/models"
)

// The domain layer owns these interfaces; infrastructure implements them.
// Save assigns the record's ID. Lookups of a missing record return a
// *domain.NotFoundError and persistence failures a *domain.StorageError.

// CustomerRepository is the persistence interface for customers.
type CustomerRepository interface {
	Save(ctx context.Context, c *models.Customer) error
	GetByID(ctx context.Context, id int64) (*models.Customer, error)
	// List returns every customer, newest first.
	List(ctx context.Context) ([]*models.Customer, error)
}

// JobRepository is the persistence interface for the Job aggregate.
type JobRepository interface {
	// Save persists a new job. Returns domain.ErrDuplicateNumber when the job
	// number is already taken.
	Save(ctx context.Context, job *models.Job) error
	GetByID(ctx context.Context, id int64) (*models.Job, error)
	GetView(ctx context.Context, id int64) (*models.JobView, error)
	// List returns every job joined with its customer's name, newest first.
	List(ctx context.Context) ([]*models.JobView, error)

	// Update applies patch to the stored job as one atomic write, leaving
	// unset fields as stored, and returns the result. A patch setting
	// ActualPrice is refused with a *domain.ValidationError unless the stored
	// job is completed. Status and completion date are only changed through
	// TransitionStatus.
	Update(ctx context.Context, id int64, patch models.JobPatch) (*models.Job, error)

	// TransitionStatus applies change only while the stored status equals
	// change.From. If another writer moved the job first it returns a
	// *domain.InvalidTransitionError carrying the status actually stored.
	TransitionStatus(ctx context.Context, change models.StatusChange) (*models.Job, error)

	// Stats aggregates counts and revenue over all jobs.
	Stats(ctx context.Context) (models.DashboardStats, error)
}

// InventoryRepository is the persistence interface for stock and its consumption.
type InventoryRepository interface {
	Save(ctx context.Context, item *models.InventoryItem) error
	GetByID(ctx context.Context, id int64) (*models.InventoryItem, error)
	// List returns every item ordered by name.
	List(ctx context.Context) ([]*models.InventoryItem, error)
	// ListLowStock returns items at or below their reorder level, ordered by name.
	ListLowStock(ctx context.Context) ([]*models.InventoryItem, error)
	// Update applies patch to the stored item as one atomic write and returns
	// the result. Unset fields, stock included, keep their stored values.
	Update(ctx context.Context, id int64, patch models.InventoryPatch) (*models.InventoryItem, error)

	// RecordUsage stores u and decrements the item's stock by u.QuantityUsed
	// as one unit. Returns domain.ErrInsufficientStock, leaving stock
	// unchanged, when the item holds less than requested. The returned item
	// reflects the new stock level.
	RecordUsage(ctx context.Context, u *models.InventoryUsage) (*models.InventoryItem, error)
	// ListUsage returns the usage recorded against jobID, newest first.
	ListUsage(ctx context.Context, jobID int64) ([]*models.InventoryUsage, error)
}

// QualityCheckRepository is the persistence interface for inspection records.
type QualityCheckRepository interface {
	Save(ctx context.Context, qc *models.QualityCheck) error
	// ListByJob returns the checks recorded for jobID, newest first.
	ListByJob(ctx context.Context, jobID int64) ([]*models.QualityCheck, error)
}

// InvoiceRepository is the persistence interface for invoices.
type InvoiceRepository interface {
	// Save persists a new invoice. Returns domain.ErrDuplicateNumber when the
	// invoice number is already taken.
	Save(ctx context.Context, inv *models.Invoice) error
	// List returns every invoice joined with job number and customer name,
	// most recently issued first.
	List(ctx context.Context) ([]*models.InvoiceView, error)
}

// Registry bundles one backend's repositories.
type Registry struct {
	Customers     CustomerRepository
	Jobs          JobRepository
	Inventory     InventoryRepository
	QualityChecks QualityCheckRepository
	Invoices      InvoiceRepository
}
