package services

import (
	"context"
	"fmt"
	"time"

	"github.com/ghuser/lenos/pkg/logger"
	"github.com/ghuser/lenos/services/shop/domain/models"
	"github.com/ghuser/lenos/services/shop/domain/repositories"
)

// QualityCheckService records inspections. A check never changes the job it
// references.
type QualityCheckService struct {
	repo repositories.QualityCheckRepository
	jobs repositories.JobRepository
	now  func() time.Time
	log  logger.Logger
}

// Record validates p and persists the check against an existing job.
func (s *QualityCheckService) Record(ctx context.Context, p models.NewQualityCheckParams) (*models.QualityCheck, error) {
	qc, err := models.NewQualityCheck(p, s.now())
	if err != nil {
		return nil, err
	}
	if _, err := s.jobs.GetByID(ctx, qc.JobID); err != nil {
		return nil, fmt.Errorf("check job: %w", err)
	}
	if err := s.repo.Save(ctx, qc); err != nil {
		return nil, fmt.Errorf("save quality check: %w", err)
	}
	s.log.InfoContext(ctx, "quality check recorded",
		"quality_check_id", qc.ID, "job_id", qc.JobID, "result", qc.Result)
	return qc, nil
}

// ListByJob returns the checks for jobID, newest first. An unknown job has none.
func (s *QualityCheckService) ListByJob(ctx context.Context, jobID int64) ([]*models.QualityCheck, error) {
	out, err := s.repo.ListByJob(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("list quality checks: %w", err)
	}
	return out, nil
}
