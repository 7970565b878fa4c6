package events

import (
	"time"

	"github.com/google/uuid"
)

// Watermill topics published by the shop repositories inside the write transaction.
// Consumers subscribe via EventBus.Subscribe(ctx, topic).
const (
	TopicJobCreated        = "shop.job.created"
	TopicJobStatusChanged  = "shop.job.status_changed"
	TopicInvoiceIssued     = "shop.invoice.issued"
	TopicInventoryConsumed = "shop.inventory.consumed"
)

// Topics lists every shop topic, in publish order of a typical job.
var Topics = []string{
	TopicJobCreated,
	TopicJobStatusChanged,
	TopicInventoryConsumed,
	TopicInvoiceIssued,
}

// Version is the schema version stamped on every shop event.
const Version = 1

// JobCreatedEvent is published after a new Job is persisted.
type JobCreatedEvent struct {
	EventID    uuid.UUID `json:"event_id"`
	Version    int       `json:"version"`
	JobID      int64     `json:"job_id"`
	JobNumber  string    `json:"job_number"`
	CustomerID *int64    `json:"customer_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// JobStatusChangedEvent is published after a lifecycle transition commits.
type JobStatusChangedEvent struct {
	EventID    uuid.UUID `json:"event_id"`
	Version    int       `json:"version"`
	JobID      int64     `json:"job_id"`
	From       string    `json:"from"`
	To         string    `json:"to"`
	OccurredAt time.Time `json:"occurred_at"`
}

// InvoiceIssuedEvent is published after an Invoice is persisted.
// Amount is a decimal string.
type InvoiceIssuedEvent struct {
	EventID       uuid.UUID `json:"event_id"`
	Version       int       `json:"version"`
	InvoiceID     int64     `json:"invoice_id"`
	InvoiceNumber string    `json:"invoice_number"`
	JobID         int64     `json:"job_id"`
	Amount        string    `json:"amount"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// InventoryConsumedEvent is published after usage is recorded and stock decremented.
type InventoryConsumedEvent struct {
	EventID        uuid.UUID `json:"event_id"`
	Version        int       `json:"version"`
	UsageID        int64     `json:"usage_id"`
	JobID          int64     `json:"job_id"`
	InventoryID    int64     `json:"inventory_id"`
	QuantityUsed   int       `json:"quantity_used"`
	RemainingStock int       `json:"remaining_stock"`
	LowStock       bool      `json:"low_stock"`
	OccurredAt     time.Time `json:"occurred_at"`
}

// Envelope carries the fields every shop event shares. Consumers that only
// need the job reference decode into it.
type Envelope struct {
	EventID    uuid.UUID `json:"event_id"`
	Version    int       `json:"version"`
	JobID      int64     `json:"job_id"`
	OccurredAt time.Time `json:"occurred_at"`
}
