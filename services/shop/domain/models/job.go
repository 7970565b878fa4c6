package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ghuser/lenos/services/shop/domain"
)

// Job is a unit of billable work, the aggregate the lifecycle state machine governs.
//
// CompletionDate is non-nil iff Status == JobStatusCompleted. ActualPrice is
// only meaningful once the job is completed.
type Job struct {
	ID             int64
	JobNumber      string
	CustomerID     *int64 // nil for orphaned jobs
	Description    string
	Status         JobStatus
	QuotedPrice    decimal.NullDecimal
	ActualPrice    decimal.NullDecimal
	QuotedDate     time.Time
	ScheduledDate  *time.Time
	CompletionDate *time.Time
	Notes          string
	CreatedAt      time.Time
}

// NewJobParams holds caller input for NewJob.
type NewJobParams struct {
	CustomerID    *int64
	Description   string
	QuotedPrice   *decimal.Decimal
	ScheduledDate *time.Time
	Notes         string
}

// NewJob validates p and returns an unsaved Job in status quoted with the
// quoted date set to now's calendar day. JobNumber is left for the caller.
func NewJob(p NewJobParams, now time.Time) (*Job, error) {
	desc := strings.TrimSpace(p.Description)
	if desc == "" {
		return nil, domain.NewValidationError("description", "is required")
	}
	if p.CustomerID != nil && *p.CustomerID <= 0 {
		return nil, domain.NewValidationError("customer_id", "must be a positive identifier")
	}
	quoted, err := NewOptionalMoney("quoted_price", p.QuotedPrice)
	if err != nil {
		return nil, err
	}
	var scheduled *time.Time
	if p.ScheduledDate != nil {
		d := DateOf(*p.ScheduledDate)
		scheduled = &d
	}
	return &Job{
		CustomerID:    p.CustomerID,
		Description:   desc,
		Status:        JobStatusQuoted,
		QuotedPrice:   quoted,
		QuotedDate:    DateOf(now),
		ScheduledDate: scheduled,
		Notes:         strings.TrimSpace(p.Notes),
		CreatedAt:     now.UTC(),
	}, nil
}

// JobPatch is a partial update of a Job's descriptive fields. Status and
// CompletionDate are owned by the lifecycle and cannot be patched.
type JobPatch struct {
	CustomerID    *int64
	Description   *string
	QuotedPrice   *decimal.Decimal
	ActualPrice   *decimal.Decimal
	ScheduledDate *time.Time
	Notes         *string
}

// IsEmpty reports whether the patch sets no fields.
func (p JobPatch) IsEmpty() bool {
	return p.CustomerID == nil && p.Description == nil && p.QuotedPrice == nil &&
		p.ActualPrice == nil && p.ScheduledDate == nil && p.Notes == nil
}

// ValidateFor checks the patch against its field domains and against job's state.
func (p JobPatch) ValidateFor(job *Job) error {
	if p.Description != nil && strings.TrimSpace(*p.Description) == "" {
		return domain.NewValidationError("description", "is required")
	}
	if p.CustomerID != nil && *p.CustomerID <= 0 {
		return domain.NewValidationError("customer_id", "must be a positive identifier")
	}
	if p.QuotedPrice != nil {
		if _, err := NewMoney("quoted_price", *p.QuotedPrice); err != nil {
			return err
		}
	}
	if p.ActualPrice != nil {
		if _, err := NewMoney("actual_price", *p.ActualPrice); err != nil {
			return err
		}
		if job.Status != JobStatusCompleted {
			return domain.NewValidationError("actual_price", "can only be set on a completed job")
		}
	}
	return nil
}

// Normalized returns the patch with strings trimmed, money rounded to cents
// and the scheduled date truncated to a calendar day.
func (p JobPatch) Normalized() JobPatch {
	out := p
	if p.Description != nil {
		d := strings.TrimSpace(*p.Description)
		out.Description = &d
	}
	if p.QuotedPrice != nil {
		v := p.QuotedPrice.Round(moneyScale)
		out.QuotedPrice = &v
	}
	if p.ActualPrice != nil {
		v := p.ActualPrice.Round(moneyScale)
		out.ActualPrice = &v
	}
	if p.ScheduledDate != nil {
		d := DateOf(*p.ScheduledDate)
		out.ScheduledDate = &d
	}
	if p.Notes != nil {
		n := strings.TrimSpace(*p.Notes)
		out.Notes = &n
	}
	return out
}

// Apply copies the set fields onto job. Call ValidateFor first.
func (p JobPatch) Apply(job *Job) {
	p = p.Normalized()
	if p.CustomerID != nil {
		id := *p.CustomerID
		job.CustomerID = &id
	}
	if p.Description != nil {
		job.Description = *p.Description
	}
	if p.QuotedPrice != nil {
		job.QuotedPrice = decimal.NewNullDecimal(*p.QuotedPrice)
	}
	if p.ActualPrice != nil {
		job.ActualPrice = decimal.NewNullDecimal(*p.ActualPrice)
	}
	if p.ScheduledDate != nil {
		d := *p.ScheduledDate
		job.ScheduledDate = &d
	}
	if p.Notes != nil {
		job.Notes = *p.Notes
	}
}
