package models

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ghuser/lenos/services/shop/domain"
)

func TestNewInvoice(t *testing.T) {
	due := time.Date(2026, 11, 13, 18, 0, 0, 0, time.UTC)
	inv, err := NewInvoice(NewInvoiceParams{JobID: 9, Amount: decimal.RequireFromString("100.00"), DueDate: &due}, fixedNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inv.Status != InvoiceStatusPending {
		t.Errorf("Status: got %q, want pending", inv.Status)
	}
	if FormatDate(&inv.IssueDate) != "2026-10-14" {
		t.Errorf("IssueDate: got %v", inv.IssueDate)
	}
	if FormatDate(inv.DueDate) != "2026-11-13" {
		t.Errorf("DueDate: got %v", inv.DueDate)
	}
	if inv.PaidDate != nil {
		t.Error("PaidDate must be nil")
	}

	if _, err := NewInvoice(NewInvoiceParams{JobID: 9, Amount: decimal.NewFromInt(-5)}, fixedNow); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("negative amount must be rejected, got %v", err)
	}
	if _, err := NewInvoice(NewInvoiceParams{Amount: decimal.NewFromInt(5)}, fixedNow); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("missing job id must be rejected, got %v", err)
	}
}

func TestParseDate(t *testing.T) {
	if d, err := ParseDate("due_date", ""); err != nil || d != nil {
		t.Fatalf("empty input: got %v, %v", d, err)
	}
	d, err := ParseDate("due_date", "2026-12-01")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if FormatDate(d) != "2026-12-01" {
		t.Errorf("round trip: got %q", FormatDate(d))
	}
	var ve *domain.ValidationError
	if _, err := ParseDate("due_date", "12/01/2026"); !errors.As(err, &ve) || ve.Field != "due_date" {
		t.Fatalf("expected due_date validation error, got %v", err)
	}
}

func TestNewQualityCheck(t *testing.T) {
	qc, err := NewQualityCheck(NewQualityCheckParams{JobID: 1, CheckType: "weld", Result: "pass", CheckedBy: " Sam "}, fixedNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if qc.CheckedBy != "Sam" || !qc.CheckedAt.Equal(fixedNow) {
		t.Errorf("unexpected check: %+v", qc)
	}
	if _, err := NewQualityCheck(NewQualityCheckParams{JobID: 1, Result: "pass"}, fixedNow); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("missing check type must be rejected, got %v", err)
	}
}
