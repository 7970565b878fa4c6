package postgres

import (
	"context"

	"github.com/ghuser/lenos/pkg/database"
	"github.com/ghuser/lenos/services/shop/domain"
	"github.com/ghuser/lenos/services/shop/domain/models"
)

// QualityCheckRepository implements repositories.QualityCheckRepository against PostgreSQL.
type QualityCheckRepository struct {
	db *database.Database
}

// NewQualityCheckRepository returns a QualityCheckRepository backed by the given pool.
func NewQualityCheckRepository(db *database.Database) *QualityCheckRepository {
	return &QualityCheckRepository{db: db}
}

// Save inserts qc and assigns its ID.
func (r *QualityCheckRepository) Save(ctx context.Context, qc *models.QualityCheck) error {
	err := r.db.DB().QueryRowContext(ctx, `
		INSERT INTO quality_checks (job_id, check_type, result, notes, checked_by, checked_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`,
		qc.JobID, qc.CheckType, qc.Result, qc.Notes, qc.CheckedBy, qc.CheckedAt,
	).Scan(&qc.ID)
	if err != nil {
		if foreignKeyTarget(err) != "" {
			return domain.NewNotFoundError("job", qc.JobID)
		}
		return storageErr("insert quality check", err)
	}
	return nil
}

// ListByJob returns the checks recorded for jobID, newest first.
func (r *QualityCheckRepository) ListByJob(ctx context.Context, jobID int64) ([]*models.QualityCheck, error) {
	rows, err := r.db.DB().QueryContext(ctx, `
		SELECT id, job_id, check_type, result, notes, checked_by, checked_at
		FROM quality_checks
		WHERE job_id = $1
		ORDER BY checked_at DESC, id DESC`, jobID)
	if err != nil {
		return nil, storageErr("query quality checks", err)
	}
	defer rows.Close() //nolint:errcheck

	out := make([]*models.QualityCheck, 0)
	for rows.Next() {
		var qc models.QualityCheck
		if err := rows.Scan(&qc.ID, &qc.JobID, &qc.CheckType, &qc.Result, &qc.Notes, &qc.CheckedBy, &qc.CheckedAt); err != nil {
			return nil, storageErr("scan quality check", err)
		}
		qc.CheckedAt = qc.CheckedAt.UTC()
		out = append(out, &qc)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("iterate quality checks", err)
	}
	return out, nil
}
