package models

import (
	"strings"
	"time"

	"github.com/ghuser/lenos/services/shop/domain"
)

// QualityCheck is an informational inspection record attached to a Job.
// Recording one has no effect on the job's lifecycle.
type QualityCheck struct {
	ID        int64
	JobID     int64
	CheckType string
	Result    string
	Notes     string
	CheckedBy string
	CheckedAt time.Time
}

// NewQualityCheckParams holds caller input for NewQualityCheck.
type NewQualityCheckParams struct {
	JobID     int64
	CheckType string
	Result    string
	Notes     string
	CheckedBy string
}

// NewQualityCheck validates p and returns an unsaved QualityCheck stamped at now.
func NewQualityCheck(p NewQualityCheckParams, now time.Time) (*QualityCheck, error) {
	if p.JobID <= 0 {
		return nil, domain.NewValidationError("job_id", "is required")
	}
	checkType, err := NewName("check_type", p.CheckType)
	if err != nil {
		return nil, err
	}
	result, err := NewName("result", p.Result)
	if err != nil {
		return nil, err
	}
	return &QualityCheck{
		JobID:     p.JobID,
		CheckType: checkType.String(),
		Result:    result.String(),
		Notes:     strings.TrimSpace(p.Notes),
		CheckedBy: strings.TrimSpace(p.CheckedBy),
		CheckedAt: now.UTC(),
	}, nil
}
