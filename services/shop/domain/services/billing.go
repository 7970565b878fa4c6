package services

import (
	"github.com/shopspring/decimal"

	"github.com/ghuser/lenos/services/shop/domain"
	"github.com/ghuser/lenos/services/shop/domain/models"
)

// CheckInvoiceable returns a *domain.PreconditionError unless job is completed.
func CheckInvoiceable(job *models.Job) error {
	if job.Status != models.JobStatusCompleted {
		return &domain.PreconditionError{JobID: job.ID, Status: job.Status.String()}
	}
	return nil
}

// ComputeDashboardStats aggregates job counts and revenue.
// Revenue sums the actual price of completed jobs; jobs without one contribute
// nothing and an empty input yields zero.
func ComputeDashboardStats(jobs []models.Job) models.DashboardStats {
	stats := models.DashboardStats{TotalRevenue: decimal.Zero}
	for i := range jobs {
		stats.TotalJobs++
		switch jobs[i].Status {
		case models.JobStatusInProgress:
			stats.InProgressJobs++
		case models.JobStatusCompleted:
			stats.CompletedJobs++
			if jobs[i].ActualPrice.Valid {
				stats.TotalRevenue = stats.TotalRevenue.Add(jobs[i].ActualPrice.Decimal)
			}
		}
	}
	return stats
}
