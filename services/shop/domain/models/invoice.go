package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/ghuser/lenos/services/shop/domain"
)

// InvoiceStatus is the payment state of an Invoice.
type InvoiceStatus string

const (
	InvoiceStatusPending InvoiceStatus = "pending"
	InvoiceStatusPaid    InvoiceStatus = "paid"
)

// Invoice bills a completed Job. Append-only.
type Invoice struct {
	ID            int64
	JobID         int64
	InvoiceNumber string
	Amount        decimal.Decimal
	Status        InvoiceStatus
	IssueDate     time.Time
	DueDate       *time.Time
	PaidDate      *time.Time
}

// NewInvoiceParams holds caller input for NewInvoice.
type NewInvoiceParams struct {
	JobID   int64
	Amount  decimal.Decimal
	DueDate *time.Time
}

// NewInvoice returns an unsaved pending Invoice issued on now's calendar day.
// The completed-job gate is checked by the billing engine, not here.
func NewInvoice(p NewInvoiceParams, now time.Time) (*Invoice, error) {
	if p.JobID <= 0 {
		return nil, domain.NewValidationError("job_id", "is required")
	}
	amount, err := NewMoney("amount", p.Amount)
	if err != nil {
		return nil, err
	}
	var due *time.Time
	if p.DueDate != nil {
		d := DateOf(*p.DueDate)
		due = &d
	}
	return &Invoice{
		JobID:     p.JobID,
		Amount:    amount,
		Status:    InvoiceStatusPending,
		IssueDate: DateOf(now),
		DueDate:   due,
	}, nil
}
