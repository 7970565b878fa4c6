package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/ghuser/lenos/pkg/logger"
	"github.com/ghuser/lenos/pkg/telemetry"
	"github.com/ghuser/lenos/services/shop/domain"
	"github.com/ghuser/lenos/services/shop/domain/models"
	"github.com/ghuser/lenos/services/shop/domain/repositories"
	domainsvcs "github.com/ghuser/lenos/services/shop/domain/services"
)

// JobService owns job creation, edits and the status lifecycle.
// Event publishing is handled by the repository layer (outbox pattern).
// Single-job reads are served from the job cache when available.
type JobService struct {
	repo      repositories.JobRepository
	customers repositories.CustomerRepository
	cache     JobCache
	inval     *invalidator
	numbers   *domainsvcs.NumberGenerator
	metrics   *telemetry.ShopMetrics
	now       func() time.Time
	log       logger.Logger
}

// Create validates p, numbers the job and persists it in status quoted.
// A number collision with another process is retried with a fresh number.
func (s *JobService) Create(ctx context.Context, p models.NewJobParams) (*models.Job, error) {
	job, err := models.NewJob(p, s.now())
	if err != nil {
		return nil, err
	}
	if job.CustomerID != nil {
		if _, err := s.customers.GetByID(ctx, *job.CustomerID); err != nil {
			return nil, fmt.Errorf("check customer: %w", err)
		}
	}

	for attempt := 1; ; attempt++ {
		job.JobNumber = s.numbers.Next()
		if err := domainsvcs.ValidateJobForCreation(job); err != nil {
			return nil, err
		}
		err := s.repo.Save(ctx, job)
		if err == nil {
			break
		}
		if !errors.Is(err, domain.ErrDuplicateNumber) || attempt == maxNumberAttempts {
			return nil, fmt.Errorf("save job: %w", err)
		}
		s.log.WarnContext(ctx, "job number collision, regenerating",
			"job_number", job.JobNumber, "attempt", attempt)
	}

	s.inval.stats(ctx)
	s.metrics.JobCreated(ctx)
	s.log.InfoContext(ctx, "job created", "job_id", job.ID, "job_number", job.JobNumber)
	return job, nil
}

// Get returns the job view using a read-through cache:
//  1. Check Redis first.
//  2. On a miss or cache error, query the store.
//  3. Warm the cache with the store's result.
//  4. Drop that entry again if a job was invalidated while the fill ran.
//
// Step 4 only sees mutations made by this process. For a status change made
// elsewhere the worker's JobStatusChanged handler deletes the key after
// commit; any other stale fill lives at most JOB_CACHE_TTL.
func (s *JobService) Get(ctx context.Context, id int64) (*models.JobView, error) {
	gen := s.inval.generation()

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, id)
		switch {
		case err == nil:
			v, convErr := fromCachedJob(cached)
			if convErr == nil {
				return v, nil
			}
			s.log.WarnContext(ctx, "discarding unreadable cached job", "job_id", id, "error", convErr)
		case !errors.Is(err, redis.Nil):
			s.log.WarnContext(ctx, "job cache read failed", "job_id", id, "error", err)
		}
	}

	v, err := s.repo.GetView(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, toCachedJob(v)); err != nil {
			s.log.WarnContext(ctx, "job cache warm failed", "job_id", id, "error", err)
		} else if s.inval.generation() != gen {
			s.inval.job(ctx, id)
		}
	}
	return v, nil
}

// List returns every job with its customer name, newest first.
func (s *JobService) List(ctx context.Context) ([]*models.JobView, error) {
	out, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	return out, nil
}

// Update applies a partial edit of the job's descriptive fields and returns
// the refreshed view. An empty patch returns the job unchanged. The store
// writes only the fields the patch sets and re-checks the completed status
// for actual_price, so a concurrent status change is never undone.
func (s *JobService) Update(ctx context.Context, id int64, patch models.JobPatch) (*models.JobView, error) {
	job, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}
	if patch.IsEmpty() {
		return s.view(ctx, id)
	}
	if err := patch.ValidateFor(job); err != nil {
		return nil, err
	}
	if patch.CustomerID != nil {
		if _, err := s.customers.GetByID(ctx, *patch.CustomerID); err != nil {
			return nil, fmt.Errorf("check customer: %w", err)
		}
	}

	if _, err := s.repo.Update(ctx, id, patch); err != nil {
		return nil, fmt.Errorf("update job: %w", err)
	}

	s.inval.job(ctx, id)
	if patch.ActualPrice != nil {
		s.inval.stats(ctx)
	}
	s.log.InfoContext(ctx, "job updated", "job_id", id)
	return s.view(ctx, id)
}

// ChangeStatus moves the job to the status named by to. Completion stamps
// today's date and optionally records actualPrice. The store applies the
// change only if no concurrent writer moved the job first; the loser gets
// a *domain.InvalidTransitionError.
func (s *JobService) ChangeStatus(ctx context.Context, id int64, to string, actualPrice *decimal.Decimal) (*models.Job, error) {
	target, err := models.ParseJobStatus(to)
	if err != nil {
		return nil, err
	}
	job, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}

	change, err := domainsvcs.PlanTransition(job, target, actualPrice, s.now())
	if err != nil {
		return nil, err
	}
	updated, err := s.repo.TransitionStatus(ctx, change)
	if err != nil {
		return nil, fmt.Errorf("transition job: %w", err)
	}

	s.inval.job(ctx, id)
	s.inval.stats(ctx)
	s.metrics.JobTransitioned(ctx, change.From.String(), change.To.String())
	s.log.InfoContext(ctx, "job status changed",
		"job_id", id, "from", change.From, "to", change.To)
	return updated, nil
}

func (s *JobService) view(ctx context.Context, id int64) (*models.JobView, error) {
	v, err := s.repo.GetView(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}
	return v, nil
}
