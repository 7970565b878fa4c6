package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/ghuser/lenos/pkg/app"
	"github.com/ghuser/lenos/pkg/cache"
	"github.com/ghuser/lenos/pkg/logger"
	shopEvents "github.com/ghuser/lenos/services/shop/domain/events"
)

type jobCacheDeleter interface {
	Delete(ctx context.Context, jobID int64) error
}

type dashboardCacheDeleter interface {
	Delete(ctx context.Context) error
}

// shopEventHandler keeps the read caches coherent with committed writes
// published from other API instances.
type shopEventHandler struct {
	jobs      jobCacheDeleter
	dashboard dashboardCacheDeleter
	log       logger.Logger
}

func newShopEventHandler(a *app.Application) *shopEventHandler {
	return &shopEventHandler{
		jobs:      cache.NewJobCache(a.Redis, a.Config.JobCacheTTL),
		dashboard: cache.NewDashboardCache(a.Redis, a.Config.DashboardCacheTTL),
		log:       a.Logger,
	}
}

// forTopic returns the subscriber callback for topic.
// Handlers must be idempotent; EventBus retries up to 3x on failure.
func (h *shopEventHandler) forTopic(topic string) func(context.Context, *message.Message) error {
	switch topic {
	case shopEvents.TopicJobCreated:
		return h.handleJobCreated
	case shopEvents.TopicJobStatusChanged:
		return h.handleJobStatusChanged
	case shopEvents.TopicInventoryConsumed:
		return h.handleInventoryConsumed
	case shopEvents.TopicInvoiceIssued:
		return h.handleInvoiceIssued
	default:
		return func(ctx context.Context, msg *message.Message) error {
			h.log.WarnContext(ctx, "no handler for topic", "topic", topic, "message_uuid", msg.UUID)
			return nil
		}
	}
}

func (h *shopEventHandler) handleJobCreated(ctx context.Context, msg *message.Message) error {
	var evt shopEvents.JobCreatedEvent
	if err := json.Unmarshal(msg.Payload, &evt); err != nil {
		return fmt.Errorf("decode %s: %w", shopEvents.TopicJobCreated, err)
	}
	if err := h.dashboard.Delete(ctx); err != nil {
		return fmt.Errorf("invalidate dashboard: %w", err)
	}
	h.log.InfoContext(ctx, "dashboard invalidated", "job_id", evt.JobID, "job_number", evt.JobNumber)
	return nil
}

func (h *shopEventHandler) handleJobStatusChanged(ctx context.Context, msg *message.Message) error {
	var evt shopEvents.JobStatusChangedEvent
	if err := json.Unmarshal(msg.Payload, &evt); err != nil {
		return fmt.Errorf("decode %s: %w", shopEvents.TopicJobStatusChanged, err)
	}
	if err := h.jobs.Delete(ctx, evt.JobID); err != nil {
		return fmt.Errorf("invalidate job %d: %w", evt.JobID, err)
	}
	if err := h.dashboard.Delete(ctx); err != nil {
		return fmt.Errorf("invalidate dashboard: %w", err)
	}
	h.log.InfoContext(ctx, "job caches invalidated", "job_id", evt.JobID, "from", evt.From, "to", evt.To)
	return nil
}

func (h *shopEventHandler) handleInventoryConsumed(ctx context.Context, msg *message.Message) error {
	var evt shopEvents.InventoryConsumedEvent
	if err := json.Unmarshal(msg.Payload, &evt); err != nil {
		return fmt.Errorf("decode %s: %w", shopEvents.TopicInventoryConsumed, err)
	}
	if evt.LowStock {
		h.log.WarnContext(ctx, "inventory at or below reorder level",
			"inventory_id", evt.InventoryID,
			"remaining_stock", evt.RemainingStock,
			"job_id", evt.JobID,
		)
	}
	return nil
}

func (h *shopEventHandler) handleInvoiceIssued(ctx context.Context, msg *message.Message) error {
	var evt shopEvents.InvoiceIssuedEvent
	if err := json.Unmarshal(msg.Payload, &evt); err != nil {
		return fmt.Errorf("decode %s: %w", shopEvents.TopicInvoiceIssued, err)
	}
	h.log.InfoContext(ctx, "invoice issued",
		"invoice_id", evt.InvoiceID,
		"invoice_number", evt.InvoiceNumber,
		"job_id", evt.JobID,
		"amount", evt.Amount,
	)
	return nil
}
