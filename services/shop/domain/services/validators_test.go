package services

import (
	"errors"
	"testing"
	"time"

	"github.com/ghuser/lenos/services/shop/domain"
	"github.com/ghuser/lenos/services/shop/domain/models"
)

func TestValidateDisplayName(t *testing.T) {
	tests := []struct {
		name    string
		input   models.Name
		wantErr bool
	}{
		{"plain", "Acme Fabrication", false},
		{"punctuation", "O'Neil & Sons, Ltd.", false},
		{"tab", "Acme\tFab", true},
		{"newline", "Acme\nFab", true},
		{"null byte", "Acme\x00", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDisplayName("name", tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateDisplayName(%q) error = %v, wantErr = %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, domain.ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
		})
	}
}

func TestValidateJobForCreation(t *testing.T) {
	valid := func() *models.Job {
		return &models.Job{JobNumber: "JOB-1", Status: models.JobStatusQuoted, Description: "x"}
	}

	if err := ValidateJobForCreation(nil); err == nil {
		t.Fatal("expected error for nil job")
	}
	if err := ValidateJobForCreation(valid()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	t.Run("wrong initial status", func(t *testing.T) {
		j := valid()
		j.Status = models.JobStatusCompleted
		if err := ValidateJobForCreation(j); !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("expected ErrValidation, got %v", err)
		}
	})

	t.Run("missing number", func(t *testing.T) {
		j := valid()
		j.JobNumber = ""
		if err := ValidateJobForCreation(j); err == nil {
			t.Fatal("expected error for missing job number")
		}
	})

	t.Run("completion date preset", func(t *testing.T) {
		j := valid()
		d := time.Now()
		j.CompletionDate = &d
		if err := ValidateJobForCreation(j); err == nil {
			t.Fatal("expected error for preset completion date")
		}
	})
}

func TestValidateInvoiceForCreation(t *testing.T) {
	issue := time.Date(2026, 10, 14, 0, 0, 0, 0, time.UTC)
	before := issue.AddDate(0, 0, -1)
	after := issue.AddDate(0, 1, 0)

	tests := []struct {
		name    string
		inv     *models.Invoice
		wantErr bool
	}{
		{"nil", nil, true},
		{"valid", &models.Invoice{InvoiceNumber: "INV-1", Status: models.InvoiceStatusPending, IssueDate: issue, DueDate: &after}, false},
		{"due same day", &models.Invoice{InvoiceNumber: "INV-1", Status: models.InvoiceStatusPending, IssueDate: issue, DueDate: &issue}, false},
		{"due before issue", &models.Invoice{InvoiceNumber: "INV-1", Status: models.InvoiceStatusPending, IssueDate: issue, DueDate: &before}, true},
		{"job prefix", &models.Invoice{InvoiceNumber: "JOB-1", Status: models.InvoiceStatusPending, IssueDate: issue}, true},
		{"paid on creation", &models.Invoice{InvoiceNumber: "INV-1", Status: models.InvoiceStatusPaid, IssueDate: issue}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateInvoiceForCreation(tt.inv)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateInvoiceForCreation error = %v, wantErr = %v", err, tt.wantErr)
			}
		})
	}
}
