package events_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/ghuser/lenos/services/shop/domain/events"
)

func TestJobStatusChangedEvent_JSONRoundTrip(t *testing.T) {
	original := events.JobStatusChangedEvent{
		EventID:    uuid.MustParse("550e8400-e29b-41d4-a716-446655440001"),
		Version:    events.Version,
		JobID:      42,
		From:       "in_progress",
		To:         "completed",
		OccurredAt: time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC),
	}

	data, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("json.Marshal failed: %v", err)
	}

	var decoded events.JobStatusChangedEvent
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("json.Unmarshal failed: %v", err)
	}
	if decoded.EventID != original.EventID || decoded.JobID != 42 {
		t.Errorf("ids: got %v/%d", decoded.EventID, decoded.JobID)
	}
	if decoded.From != original.From || decoded.To != original.To {
		t.Errorf("states: got %s -> %s", decoded.From, decoded.To)
	}
	if !decoded.OccurredAt.Equal(original.OccurredAt) {
		t.Errorf("OccurredAt: got %v, want %v", decoded.OccurredAt, original.OccurredAt)
	}
}

func TestEvents_JSONFieldNames(t *testing.T) {
	tests := []struct {
		name   string
		evt    any
		fields []string
	}{
		{
			"job created",
			events.JobCreatedEvent{EventID: uuid.New(), Version: 1, JobID: 1, JobNumber: "JOB-1"},
			[]string{"event_id", "version", "job_id", "job_number", "occurred_at"},
		},
		{
			"invoice issued",
			events.InvoiceIssuedEvent{EventID: uuid.New(), Version: 1, InvoiceID: 1, InvoiceNumber: "INV-1", JobID: 1, Amount: "100.00"},
			[]string{"event_id", "invoice_id", "invoice_number", "job_id", "amount"},
		},
		{
			"inventory consumed",
			events.InventoryConsumedEvent{EventID: uuid.New(), Version: 1, JobID: 1, InventoryID: 2, QuantityUsed: 3},
			[]string{"event_id", "job_id", "inventory_id", "quantity_used", "remaining_stock", "low_stock"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.evt)
			if err != nil {
				t.Fatalf("json.Marshal failed: %v", err)
			}
			var raw map[string]interface{}
			if err := json.Unmarshal(data, &raw); err != nil {
				t.Fatalf("unmarshal to map failed: %v", err)
			}
			for _, field := range tt.fields {
				if _, ok := raw[field]; !ok {
					t.Errorf("expected JSON field %q not found in: %s", field, data)
				}
			}

			var env events.Envelope
			if err := json.Unmarshal(data, &env); err != nil {
				t.Fatalf("decode envelope: %v", err)
			}
			if env.JobID != 1 {
				t.Errorf("Envelope.JobID: got %d, want 1", env.JobID)
			}
		})
	}
}

func TestJobCreatedEvent_OmitsOrphanCustomer(t *testing.T) {
	data, err := json.Marshal(events.JobCreatedEvent{JobID: 1})
	if err != nil {
		t.Fatalf("json.Marshal failed: %v", err)
	}
	var raw map[string]interface{}
	_ = json.Unmarshal(data, &raw)
	if _, ok := raw["customer_id"]; ok {
		t.Errorf("customer_id must be omitted for orphaned jobs: %s", data)
	}
}
