// Package services contains stateless domain services for the shop bounded context.
// Domain services enforce business rules that operate purely on domain types
// and have zero external dependencies beyond the domain layer and decimal math.
package services

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/ghuser/lenos/services/shop/domain"
	"github.com/ghuser/lenos/services/shop/domain/models"
)

// PlanTransition checks that job may move to the requested status and returns
// the change to apply. job is not modified.
//
// Completing a job stamps the completion date with now's calendar day and may
// carry the realized price. Supplying a price for any other target is a
// validation error.
func PlanTransition(job *models.Job, to models.JobStatus, actualPrice *decimal.Decimal, now time.Time) (models.StatusChange, error) {
	if !job.Status.CanTransitionTo(to) {
		return models.StatusChange{}, &domain.InvalidTransitionError{
			JobID: job.ID,
			From:  job.Status.String(),
			To:    to.String(),
		}
	}

	change := models.StatusChange{JobID: job.ID, From: job.Status, To: to}

	if to == models.JobStatusCompleted {
		completed := models.DateOf(now)
		change.CompletionDate = &completed
		price, err := models.NewOptionalMoney("actual_price", actualPrice)
		if err != nil {
			return models.StatusChange{}, err
		}
		change.ActualPrice = price
		return change, nil
	}

	if actualPrice != nil {
		return models.StatusChange{}, domain.NewValidationError("actual_price", "can only be set when completing a job")
	}
	return change, nil
}

// ApplyTransition returns a copy of job with change applied.
// An unset ActualPrice in change leaves the job's existing one in place.
func ApplyTransition(job models.Job, change models.StatusChange) models.Job {
	job.Status = change.To
	if change.CompletionDate != nil {
		d := *change.CompletionDate
		job.CompletionDate = &d
	}
	if change.ActualPrice.Valid {
		job.ActualPrice = change.ActualPrice
	}
	return job
}
