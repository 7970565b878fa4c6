// Package memory is an in-memory implementation of the shop repositories.
// Safe for concurrent access. Intended for unit testing and development.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/ghuser/lenos/services/shop/domain"
	"github.com/ghuser/lenos/services/shop/domain/models"
	"github.com/ghuser/lenos/services/shop/domain/repositories"
	domainsvcs "github.com/ghuser/lenos/services/shop/domain/services"
)

var (
	_ repositories.CustomerRepository     = (*CustomerRepository)(nil)
	_ repositories.JobRepository          = (*JobRepository)(nil)
	_ repositories.InventoryRepository    = (*InventoryRepository)(nil)
	_ repositories.QualityCheckRepository = (*QualityCheckRepository)(nil)
	_ repositories.InvoiceRepository      = (*InvoiceRepository)(nil)
)

// Store holds every shop table behind one lock, so operations that touch two
// tables (usage plus stock) are atomic. Records are copied on the way in and
// out; callers never share memory with the store.
type Store struct {
	mu sync.RWMutex

	customers map[int64]*models.Customer
	jobs      map[int64]*models.Job
	inventory map[int64]*models.InventoryItem
	usage     map[int64]*models.InventoryUsage
	checks    map[int64]*models.QualityCheck
	invoices  map[int64]*models.Invoice

	jobNumbers     map[string]struct{}
	invoiceNumbers map[string]struct{}

	// seq holds the last identifier handed out per table. Never reused.
	seq map[string]int64
}

// New returns an empty Store.
func New() *Store {
	return &Store{
		customers:      make(map[int64]*models.Customer),
		jobs:           make(map[int64]*models.Job),
		inventory:      make(map[int64]*models.InventoryItem),
		usage:          make(map[int64]*models.InventoryUsage),
		checks:         make(map[int64]*models.QualityCheck),
		invoices:       make(map[int64]*models.Invoice),
		jobNumbers:     make(map[string]struct{}),
		invoiceNumbers: make(map[string]struct{}),
		seq:            make(map[string]int64),
	}
}

// Registry returns the repositories backed by s.
func (s *Store) Registry() repositories.Registry {
	return repositories.Registry{
		Customers:     &CustomerRepository{s: s},
		Jobs:          &JobRepository{s: s},
		Inventory:     &InventoryRepository{s: s},
		QualityChecks: &QualityCheckRepository{s: s},
		Invoices:      &InvoiceRepository{s: s},
	}
}

// Ping always succeeds for the memory store.
func (s *Store) Ping(_ context.Context) error { return nil }

// nextID must be called with mu held for writing.
func (s *Store) nextID(table string) int64 {
	s.seq[table]++
	return s.seq[table]
}

func (s *Store) customerName(id *int64) string {
	if id == nil {
		return models.UnknownCustomerName
	}
	c, ok := s.customers[*id]
	if !ok {
		return models.UnknownCustomerName
	}
	return c.Name.String()
}

// ──────────────────────────────────────────────────
// Customers
// ──────────────────────────────────────────────────

// CustomerRepository implements repositories.CustomerRepository.
type CustomerRepository struct{ s *Store }

// Save assigns c.ID and stores a copy.
func (r *CustomerRepository) Save(_ context.Context, c *models.Customer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c.ID = r.s.nextID("customers")
	cp := *c
	r.s.customers[c.ID] = &cp
	return nil
}

func (r *CustomerRepository) GetByID(_ context.Context, id int64) (*models.Customer, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	c, ok := r.s.customers[id]
	if !ok {
		return nil, domain.NewNotFoundError("customer", id)
	}
	cp := *c
	return &cp, nil
}

// List returns customers newest first.
func (r *CustomerRepository) List(_ context.Context) ([]*models.Customer, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*models.Customer, 0, len(r.s.customers))
	for _, c := range r.s.customers {
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, k int) bool {
		if !out[i].CreatedAt.Equal(out[k].CreatedAt) {
			return out[i].CreatedAt.After(out[k].CreatedAt)
		}
		return out[i].ID > out[k].ID
	})
	return out, nil
}

// ──────────────────────────────────────────────────
// Jobs
// ──────────────────────────────────────────────────

// JobRepository implements repositories.JobRepository.
type JobRepository struct{ s *Store }

// Save assigns job.ID and stores a copy. Job numbers are unique.
func (r *JobRepository) Save(_ context.Context, job *models.Job) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, taken := r.s.jobNumbers[job.JobNumber]; taken {
		return domain.ErrDuplicateNumber
	}
	job.ID = r.s.nextID("jobs")
	r.s.jobNumbers[job.JobNumber] = struct{}{}
	r.s.jobs[job.ID] = copyJob(job)
	return nil
}

func (r *JobRepository) GetByID(_ context.Context, id int64) (*models.Job, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	job, ok := r.s.jobs[id]
	if !ok {
		return nil, domain.NewNotFoundError("job", id)
	}
	return copyJob(job), nil
}

func (r *JobRepository) GetView(_ context.Context, id int64) (*models.JobView, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	job, ok := r.s.jobs[id]
	if !ok {
		return nil, domain.NewNotFoundError("job", id)
	}
	return &models.JobView{Job: *copyJob(job), CustomerName: r.s.customerName(job.CustomerID)}, nil
}

// List returns jobs newest first with their customer names.
func (r *JobRepository) List(_ context.Context) ([]*models.JobView, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*models.JobView, 0, len(r.s.jobs))
	for _, job := range r.s.jobs {
		out = append(out, &models.JobView{Job: *copyJob(job), CustomerName: r.s.customerName(job.CustomerID)})
	}
	sort.Slice(out, func(i, k int) bool {
		if !out[i].CreatedAt.Equal(out[k].CreatedAt) {
			return out[i].CreatedAt.After(out[k].CreatedAt)
		}
		return out[i].ID > out[k].ID
	})
	return out, nil
}

// Update applies patch to the stored job under the write lock.
func (r *JobRepository) Update(_ context.Context, id int64, patch models.JobPatch) (*models.Job, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.jobs[id]
	if !ok {
		return nil, domain.NewNotFoundError("job", id)
	}
	if err := patch.ValidateFor(stored); err != nil {
		return nil, err
	}
	if patch.CustomerID != nil {
		if _, ok := r.s.customers[*patch.CustomerID]; !ok {
			return nil, domain.NewNotFoundError("customer", *patch.CustomerID)
		}
	}
	next := copyJob(stored)
	patch.Apply(next)
	r.s.jobs[id] = next
	return copyJob(next), nil
}

// TransitionStatus swaps the status under the write lock when it still equals change.From.
func (r *JobRepository) TransitionStatus(_ context.Context, change models.StatusChange) (*models.Job, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.jobs[change.JobID]
	if !ok {
		return nil, domain.NewNotFoundError("job", change.JobID)
	}
	if stored.Status != change.From {
		return nil, &domain.InvalidTransitionError{
			JobID: change.JobID,
			From:  stored.Status.String(),
			To:    change.To.String(),
		}
	}
	next := domainsvcs.ApplyTransition(*copyJob(stored), change)
	r.s.jobs[change.JobID] = &next
	return copyJob(&next), nil
}

func (r *JobRepository) Stats(_ context.Context) (models.DashboardStats, error) {
	r.s.mu.RLock()
	jobs := make([]models.Job, 0, len(r.s.jobs))
	for _, job := range r.s.jobs {
		jobs = append(jobs, *job)
	}
	r.s.mu.RUnlock()

	return domainsvcs.ComputeDashboardStats(jobs), nil
}

func copyJob(j *models.Job) *models.Job {
	cp := *j
	cp.CustomerID = copyPtr(j.CustomerID)
	cp.ScheduledDate = copyPtr(j.ScheduledDate)
	cp.CompletionDate = copyPtr(j.CompletionDate)
	return &cp
}

func copyPtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// ──────────────────────────────────────────────────
// Inventory
// ──────────────────────────────────────────────────

// InventoryRepository implements repositories.InventoryRepository.
type InventoryRepository struct{ s *Store }

func (r *InventoryRepository) Save(_ context.Context, item *models.InventoryItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	item.ID = r.s.nextID("inventory")
	cp := *item
	r.s.inventory[item.ID] = &cp
	return nil
}

func (r *InventoryRepository) GetByID(_ context.Context, id int64) (*models.InventoryItem, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	item, ok := r.s.inventory[id]
	if !ok {
		return nil, domain.NewNotFoundError("inventory item", id)
	}
	cp := *item
	return &cp, nil
}

// List returns every item ordered by name, then id.
func (r *InventoryRepository) List(_ context.Context) ([]*models.InventoryItem, error) {
	return r.list(false), nil
}

func (r *InventoryRepository) ListLowStock(_ context.Context) ([]*models.InventoryItem, error) {
	return r.list(true), nil
}

func (r *InventoryRepository) list(lowOnly bool) []*models.InventoryItem {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*models.InventoryItem, 0, len(r.s.inventory))
	for _, item := range r.s.inventory {
		if lowOnly && !item.IsLowStock() {
			continue
		}
		cp := *item
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, k int) bool {
		if out[i].Name != out[k].Name {
			return out[i].Name < out[k].Name
		}
		return out[i].ID < out[k].ID
	})
	return out
}

// Update applies patch to the stored item under the write lock.
func (r *InventoryRepository) Update(_ context.Context, id int64, patch models.InventoryPatch) (*models.InventoryItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.inventory[id]
	if !ok {
		return nil, domain.NewNotFoundError("inventory item", id)
	}
	next := *stored
	patch.Apply(&next)
	r.s.inventory[id] = &next
	cp := next
	return &cp, nil
}

// RecordUsage stores u and decrements the item's stock under one lock.
func (r *InventoryRepository) RecordUsage(_ context.Context, u *models.InventoryUsage) (*models.InventoryItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.jobs[u.JobID]; !ok {
		return nil, domain.NewNotFoundError("job", u.JobID)
	}
	item, ok := r.s.inventory[u.InventoryID]
	if !ok {
		return nil, domain.NewNotFoundError("inventory item", u.InventoryID)
	}
	if item.QuantityInStock < u.QuantityUsed {
		return nil, domain.ErrInsufficientStock
	}

	next := *item
	next.QuantityInStock -= u.QuantityUsed
	r.s.inventory[item.ID] = &next

	u.ID = r.s.nextID("usage")
	cp := *u
	r.s.usage[u.ID] = &cp

	out := next
	return &out, nil
}

// ListUsage returns the usage recorded against jobID, newest first.
func (r *InventoryRepository) ListUsage(_ context.Context, jobID int64) ([]*models.InventoryUsage, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*models.InventoryUsage, 0)
	for _, u := range r.s.usage {
		if u.JobID != jobID {
			continue
		}
		cp := *u
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, k int) bool {
		if !out[i].RecordedAt.Equal(out[k].RecordedAt) {
			return out[i].RecordedAt.After(out[k].RecordedAt)
		}
		return out[i].ID > out[k].ID
	})
	return out, nil
}

// ──────────────────────────────────────────────────
// Quality checks
// ──────────────────────────────────────────────────

// QualityCheckRepository implements repositories.QualityCheckRepository.
type QualityCheckRepository struct{ s *Store }

func (r *QualityCheckRepository) Save(_ context.Context, qc *models.QualityCheck) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	qc.ID = r.s.nextID("quality_checks")
	cp := *qc
	r.s.checks[qc.ID] = &cp
	return nil
}

// ListByJob returns the checks for jobID, newest first.
func (r *QualityCheckRepository) ListByJob(_ context.Context, jobID int64) ([]*models.QualityCheck, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*models.QualityCheck, 0)
	for _, qc := range r.s.checks {
		if qc.JobID != jobID {
			continue
		}
		cp := *qc
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, k int) bool {
		if !out[i].CheckedAt.Equal(out[k].CheckedAt) {
			return out[i].CheckedAt.After(out[k].CheckedAt)
		}
		return out[i].ID > out[k].ID
	})
	return out, nil
}

// ──────────────────────────────────────────────────
// Invoices
// ──────────────────────────────────────────────────

// InvoiceRepository implements repositories.InvoiceRepository.
type InvoiceRepository struct{ s *Store }

// Save assigns inv.ID and stores a copy. Invoice numbers are unique.
func (r *InvoiceRepository) Save(_ context.Context, inv *models.Invoice) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, taken := r.s.invoiceNumbers[inv.InvoiceNumber]; taken {
		return domain.ErrDuplicateNumber
	}
	inv.ID = r.s.nextID("invoices")
	r.s.invoiceNumbers[inv.InvoiceNumber] = struct{}{}
	r.s.invoices[inv.ID] = copyInvoice(inv)
	return nil
}

// List returns invoices most recently issued first, joined with job number and customer name.
func (r *InvoiceRepository) List(_ context.Context) ([]*models.InvoiceView, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*models.InvoiceView, 0, len(r.s.invoices))
	for _, inv := range r.s.invoices {
		view := &models.InvoiceView{Invoice: *copyInvoice(inv), CustomerName: models.UnknownCustomerName}
		if job, ok := r.s.jobs[inv.JobID]; ok {
			view.JobNumber = job.JobNumber
			view.CustomerName = r.s.customerName(job.CustomerID)
		}
		out = append(out, view)
	}
	sort.Slice(out, func(i, k int) bool {
		if !out[i].IssueDate.Equal(out[k].IssueDate) {
			return out[i].IssueDate.After(out[k].IssueDate)
		}
		return out[i].ID > out[k].ID
	})
	return out, nil
}

func copyInvoice(inv *models.Invoice) *models.Invoice {
	cp := *inv
	cp.DueDate = copyPtr(inv.DueDate)
	cp.PaidDate = copyPtr(inv.PaidDate)
	return &cp
}
