package services

import (
	"fmt"
	"unicode"

	"github.com/ghuser/lenos/services/shop/domain"
	"github.com/ghuser/lenos/services/shop/domain/models"
)

// ValidateDisplayName enforces business rules for names beyond the structural
// constraints of models.NewName: no control characters.
func ValidateDisplayName(field string, name models.Name) error {
	for _, r := range name.String() {
		if unicode.IsControl(r) {
			return domain.NewValidationError(field, "must not contain control characters")
		}
	}
	return nil
}

// ValidateJobForCreation performs cross-field checks on a fully-constructed Job
// before it is persisted. It assumes the Job was built via models.NewJob and
// numbered by a NumberGenerator.
func ValidateJobForCreation(job *models.Job) error {
	if job == nil {
		return fmt.Errorf("job cannot be nil")
	}
	if job.Status != models.JobStatusQuoted {
		return domain.NewValidationError("status", "new jobs must start as quoted")
	}
	if job.CompletionDate != nil {
		return domain.NewValidationError("completion_date", "must not be set on a new job")
	}
	if !HasPrefix(job.JobNumber, JobNumberPrefix) {
		return domain.NewValidationError("job_number", "must be generated")
	}
	return nil
}

// ValidateInvoiceForCreation performs cross-field checks on a fully-constructed
// Invoice before it is persisted.
func ValidateInvoiceForCreation(inv *models.Invoice) error {
	if inv == nil {
		return fmt.Errorf("invoice cannot be nil")
	}
	if inv.Status != models.InvoiceStatusPending {
		return domain.NewValidationError("status", "new invoices must be pending")
	}
	if !HasPrefix(inv.InvoiceNumber, InvoiceNumberPrefix) {
		return domain.NewValidationError("invoice_number", "must be generated")
	}
	if inv.DueDate != nil && inv.DueDate.Before(inv.IssueDate) {
		return domain.NewValidationError("due_date", "must not be before the issue date")
	}
	return nil
}
