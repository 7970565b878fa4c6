package services

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ghuser/lenos/services/shop/domain"
	"github.com/ghuser/lenos/services/shop/domain/models"
)

var now = time.Date(2026, 10, 14, 16, 30, 0, 0, time.UTC)

func TestPlanTransition(t *testing.T) {
	tests := []struct {
		name    string
		from    models.JobStatus
		to      models.JobStatus
		wantErr bool
	}{
		{"quoted to in_progress", models.JobStatusQuoted, models.JobStatusInProgress, false},
		{"in_progress to completed", models.JobStatusInProgress, models.JobStatusCompleted, false},
		{"quoted to completed skips a step", models.JobStatusQuoted, models.JobStatusCompleted, true},
		{"completed to quoted reverses", models.JobStatusCompleted, models.JobStatusQuoted, true},
		{"completed to in_progress reverses", models.JobStatusCompleted, models.JobStatusInProgress, true},
		{"in_progress to quoted reverses", models.JobStatusInProgress, models.JobStatusQuoted, true},
		{"quoted to quoted self loop", models.JobStatusQuoted, models.JobStatusQuoted, true},
		{"completed to completed self loop", models.JobStatusCompleted, models.JobStatusCompleted, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			job := &models.Job{ID: 7, Status: tt.from}
			change, err := PlanTransition(job, tt.to, nil, now)
			if (err != nil) != tt.wantErr {
				t.Fatalf("PlanTransition error = %v, wantErr = %v", err, tt.wantErr)
			}
			if job.Status != tt.from {
				t.Fatalf("input job mutated: status %q", job.Status)
			}
			if tt.wantErr {
				var te *domain.InvalidTransitionError
				if !errors.As(err, &te) {
					t.Fatalf("expected *InvalidTransitionError, got %T", err)
				}
				if te.From != tt.from.String() || te.To != tt.to.String() || te.JobID != 7 {
					t.Errorf("unexpected error details: %+v", te)
				}
				return
			}
			if change.From != tt.from || change.To != tt.to {
				t.Errorf("unexpected change: %+v", change)
			}
		})
	}
}

func TestPlanTransition_Completion(t *testing.T) {
	job := &models.Job{ID: 1, Status: models.JobStatusInProgress}

	t.Run("stamps completion date", func(t *testing.T) {
		change, err := PlanTransition(job, models.JobStatusCompleted, nil, now)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := models.FormatDate(change.CompletionDate); got != "2026-10-14" {
			t.Errorf("CompletionDate: got %q", got)
		}
		if change.ActualPrice.Valid {
			t.Error("actual price must stay unset when not supplied")
		}
	})

	t.Run("carries actual price", func(t *testing.T) {
		price := decimal.RequireFromString("95.00")
		change, err := PlanTransition(job, models.JobStatusCompleted, &price, now)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !change.ActualPrice.Valid || !change.ActualPrice.Decimal.Equal(price) {
			t.Errorf("ActualPrice: got %v", change.ActualPrice)
		}
		applied := ApplyTransition(*job, change)
		if applied.Status != models.JobStatusCompleted || applied.CompletionDate == nil {
			t.Errorf("unexpected applied job: %+v", applied)
		}
		if job.Status != models.JobStatusInProgress {
			t.Error("ApplyTransition must not modify the original")
		}
	})

	t.Run("rejects negative actual price", func(t *testing.T) {
		price := decimal.NewFromInt(-1)
		if _, err := PlanTransition(job, models.JobStatusCompleted, &price, now); !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("expected ErrValidation, got %v", err)
		}
	})

	t.Run("rejects actual price when starting", func(t *testing.T) {
		price := decimal.NewFromInt(10)
		quoted := &models.Job{ID: 2, Status: models.JobStatusQuoted}
		if _, err := PlanTransition(quoted, models.JobStatusInProgress, &price, now); !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("expected ErrValidation, got %v", err)
		}
	})

	t.Run("starting leaves completion date unset", func(t *testing.T) {
		quoted := &models.Job{ID: 2, Status: models.JobStatusQuoted}
		change, err := PlanTransition(quoted, models.JobStatusInProgress, nil, now)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if change.CompletionDate != nil {
			t.Error("CompletionDate must be nil outside completion")
		}
	})
}
