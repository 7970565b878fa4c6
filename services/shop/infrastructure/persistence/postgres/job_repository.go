package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ghuser/lenos/pkg/database"
	"github.com/ghuser/lenos/pkg/events"
	"github.com/ghuser/lenos/services/shop/domain"
	domainevents "github.com/ghuser/lenos/services/shop/domain/events"
	"github.com/ghuser/lenos/services/shop/domain/models"
)

// JobRepository implements repositories.JobRepository against PostgreSQL.
type JobRepository struct {
	db  *database.Database
	bus *events.EventBus
}

// NewJobRepository returns a JobRepository backed by the given pool and event
// bus. The bus publishes JobCreated and JobStatusChanged events.
func NewJobRepository(db *database.Database, bus *events.EventBus) *JobRepository {
	return &JobRepository{db: db, bus: bus}
}

const jobColumns = `j.id, j.job_number, j.customer_id, j.description, j.status,
	j.quoted_price, j.actual_price, j.quoted_date, j.scheduled_date,
	j.completion_date, j.notes, j.created_at`

const jobViewQuery = `SELECT ` + jobColumns + `, COALESCE(c.name, '` + models.UnknownCustomerName + `')
	FROM jobs j
	LEFT JOIN customers c ON c.id = j.customer_id`

// Save inserts job, assigns its ID and publishes JobCreatedEvent in the same
// transaction. Returns domain.ErrDuplicateNumber on a job number collision.
func (r *JobRepository) Save(ctx context.Context, job *models.Job) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx, `
			INSERT INTO jobs (job_number, customer_id, description, status, quoted_price,
				actual_price, quoted_date, scheduled_date, completion_date, notes, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			RETURNING id`,
			job.JobNumber, nullInt64(job.CustomerID), job.Description, string(job.Status),
			job.QuotedPrice, job.ActualPrice, job.QuotedDate, nullTime(job.ScheduledDate),
			nullTime(job.CompletionDate), job.Notes, job.CreatedAt,
		).Scan(&job.ID)
		if err != nil {
			if isUniqueViolation(err) {
				return domain.ErrDuplicateNumber
			}
			if foreignKeyTarget(err) != "" && job.CustomerID != nil {
				return domain.NewNotFoundError("customer", *job.CustomerID)
			}
			return storageErr("insert job", err)
		}

		eventID := uuid.New()
		if err := publish(ctx, r.bus, tx, domainevents.TopicJobCreated, eventID, domainevents.JobCreatedEvent{
			EventID:    eventID,
			Version:    domainevents.Version,
			JobID:      job.ID,
			JobNumber:  job.JobNumber,
			CustomerID: job.CustomerID,
			OccurredAt: job.CreatedAt,
		}); err != nil {
			return fmt.Errorf("publish job created: %w", err)
		}
		return nil
	})
}

// GetByID returns the job or a *domain.NotFoundError.
func (r *JobRepository) GetByID(ctx context.Context, id int64) (*models.Job, error) {
	return getJob(ctx, r.db.DB(), id)
}

// GetView returns the job joined with its customer's name.
func (r *JobRepository) GetView(ctx context.Context, id int64) (*models.JobView, error) {
	row := r.db.DB().QueryRowContext(ctx, jobViewQuery+` WHERE j.id = $1`, id)
	v, err := scanJobView(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewNotFoundError("job", id)
		}
		return nil, storageErr("query job", err)
	}
	return v, nil
}

// List returns every job with its customer name, newest first.
func (r *JobRepository) List(ctx context.Context) ([]*models.JobView, error) {
	rows, err := r.db.DB().QueryContext(ctx, jobViewQuery+` ORDER BY j.created_at DESC, j.id DESC`)
	if err != nil {
		return nil, storageErr("query jobs", err)
	}
	defer rows.Close() //nolint:errcheck

	out := make([]*models.JobView, 0)
	for rows.Next() {
		v, err := scanJobView(rows)
		if err != nil {
			return nil, storageErr("scan job", err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("iterate jobs", err)
	}
	return out, nil
}

// Update writes only the fields patch sets, leaving status, number and the
// lifecycle dates alone. An actual price is only written while the stored job
// is completed; a miss is re-read to tell a missing job from one that is not.
func (r *JobRepository) Update(ctx context.Context, id int64, patch models.JobPatch) (*models.Job, error) {
	p := patch.Normalized()
	var out *models.Job
	err := r.db.WithTx(ctx, func(tx *sql.Tx) error {
		row := tx.QueryRowContext(ctx, `
			UPDATE jobs j
			SET customer_id = COALESCE($2, j.customer_id),
				description = COALESCE($3, j.description),
				quoted_price = COALESCE($4, j.quoted_price),
				actual_price = COALESCE($5::numeric, j.actual_price),
				scheduled_date = COALESCE($6, j.scheduled_date),
				notes = COALESCE($7, j.notes)
			WHERE j.id = $1 AND ($5::numeric IS NULL OR j.status = $8)
			RETURNING `+jobColumns,
			id, nullInt64(p.CustomerID), nullString(p.Description), nullDecimal(p.QuotedPrice),
			nullDecimal(p.ActualPrice), nullTime(p.ScheduledDate), nullString(p.Notes),
			string(models.JobStatusCompleted),
		)
		job, err := scanJob(row)
		if errors.Is(err, sql.ErrNoRows) {
			current, getErr := getJob(ctx, tx, id)
			if getErr != nil {
				return getErr
			}
			if vErr := patch.ValidateFor(current); vErr != nil {
				return vErr
			}
			return domain.NewValidationError("actual_price", "can only be set on a completed job")
		}
		if err != nil {
			if foreignKeyTarget(err) != "" && p.CustomerID != nil {
				return domain.NewNotFoundError("customer", *p.CustomerID)
			}
			return storageErr("update job", err)
		}
		out = job
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// TransitionStatus performs a compare-and-swap on the job's status and
// publishes JobStatusChangedEvent in the same transaction. When no row
// matches, the job is re-read inside the transaction to tell a missing job
// from one another writer already moved.
func (r *JobRepository) TransitionStatus(ctx context.Context, change models.StatusChange) (*models.Job, error) {
	var out *models.Job
	err := r.db.WithTx(ctx, func(tx *sql.Tx) error {
		row := tx.QueryRowContext(ctx, `
			UPDATE jobs j
			SET status = $3,
				completion_date = COALESCE($4, j.completion_date),
				actual_price = COALESCE($5, j.actual_price)
			WHERE j.id = $1 AND j.status = $2
			RETURNING `+jobColumns,
			change.JobID, string(change.From), string(change.To),
			nullTime(change.CompletionDate), change.ActualPrice,
		)
		job, err := scanJob(row)
		if errors.Is(err, sql.ErrNoRows) {
			current, getErr := getJob(ctx, tx, change.JobID)
			if getErr != nil {
				return getErr
			}
			return &domain.InvalidTransitionError{
				JobID: change.JobID,
				From:  current.Status.String(),
				To:    change.To.String(),
			}
		}
		if err != nil {
			return storageErr("transition job", err)
		}

		eventID := uuid.New()
		if err := publish(ctx, r.bus, tx, domainevents.TopicJobStatusChanged, eventID, domainevents.JobStatusChangedEvent{
			EventID:    eventID,
			Version:    domainevents.Version,
			JobID:      job.ID,
			From:       change.From.String(),
			To:         change.To.String(),
			OccurredAt: time.Now().UTC(),
		}); err != nil {
			return fmt.Errorf("publish job status changed: %w", err)
		}
		out = job
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Stats aggregates counts and revenue in one scan of jobs.
func (r *JobRepository) Stats(ctx context.Context) (models.DashboardStats, error) {
	var (
		stats   models.DashboardStats
		revenue decimal.Decimal
	)
	err := r.db.DB().QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status = 'in_progress'),
			COUNT(*) FILTER (WHERE status = 'completed'),
			COALESCE(SUM(actual_price) FILTER (WHERE status = 'completed'), 0)
		FROM jobs`,
	).Scan(&stats.TotalJobs, &stats.InProgressJobs, &stats.CompletedJobs, &revenue)
	if err != nil {
		return models.DashboardStats{}, storageErr("query dashboard stats", err)
	}
	stats.TotalRevenue = revenue
	return stats, nil
}

func getJob(ctx context.Context, q queryer, id int64) (*models.Job, error) {
	job, err := scanJob(q.QueryRowContext(ctx, `SELECT `+jobColumns+` FROM jobs j WHERE j.id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewNotFoundError("job", id)
		}
		return nil, storageErr("query job", err)
	}
	return job, nil
}

func scanJob(s scanner) (*models.Job, error) {
	var (
		j          models.Job
		customerID sql.NullInt64
		status     string
		scheduled  sql.NullTime
		completed  sql.NullTime
	)
	if err := s.Scan(
		&j.ID, &j.JobNumber, &customerID, &j.Description, &status,
		&j.QuotedPrice, &j.ActualPrice, &j.QuotedDate, &scheduled,
		&completed, &j.Notes, &j.CreatedAt,
	); err != nil {
		return nil, err
	}
	j.CustomerID = int64Ptr(customerID)
	j.Status = models.JobStatus(status)
	j.QuotedDate = j.QuotedDate.UTC()
	j.ScheduledDate = timePtr(scheduled)
	j.CompletionDate = timePtr(completed)
	j.CreatedAt = j.CreatedAt.UTC()
	return &j, nil
}

// jobRowScanner appends the customer name column to a job row.
type jobRowScanner struct {
	s    scanner
	name *string
}

func (w jobRowScanner) Scan(dest ...any) error {
	return w.s.Scan(append(dest, w.name)...)
}

func scanJobView(s scanner) (*models.JobView, error) {
	var name string
	job, err := scanJob(jobRowScanner{s: s, name: &name})
	if err != nil {
		return nil, err
	}
	return &models.JobView{Job: *job, CustomerName: name}, nil
}
