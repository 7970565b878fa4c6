package telemetry

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/ghuser/lenos/shop"

// ShopMetrics holds the business counters for the shop workflow.
// A nil *ShopMetrics records nothing.
type ShopMetrics struct {
	jobsCreated       metric.Int64Counter
	jobTransitions    metric.Int64Counter
	invoicesIssued    metric.Int64Counter
	invoicedAmount    metric.Float64Counter
	inventoryConsumed metric.Int64Counter
	lowStockEvents    metric.Int64Counter
}

// NewShopMetrics registers the shop counters on mp. Pass otel.GetMeterProvider()
// after Setup in the processes, or a test provider with a manual reader.
func NewShopMetrics(mp metric.MeterProvider) (*ShopMetrics, error) {
	m := mp.Meter(meterName)
	var (
		sm  ShopMetrics
		err error
	)
	if sm.jobsCreated, err = m.Int64Counter("shop.jobs.created",
		metric.WithDescription("Jobs created")); err != nil {
		return nil, fmt.Errorf("jobs created counter: %w", err)
	}
	if sm.jobTransitions, err = m.Int64Counter("shop.jobs.transitions",
		metric.WithDescription("Job status transitions, by from and to status")); err != nil {
		return nil, fmt.Errorf("job transitions counter: %w", err)
	}
	if sm.invoicesIssued, err = m.Int64Counter("shop.invoices.issued",
		metric.WithDescription("Invoices issued")); err != nil {
		return nil, fmt.Errorf("invoices issued counter: %w", err)
	}
	if sm.invoicedAmount, err = m.Float64Counter("shop.invoices.amount",
		metric.WithDescription("Total invoiced amount"), metric.WithUnit("{currency}")); err != nil {
		return nil, fmt.Errorf("invoiced amount counter: %w", err)
	}
	if sm.inventoryConsumed, err = m.Int64Counter("shop.inventory.consumed",
		metric.WithDescription("Inventory units consumed by jobs"), metric.WithUnit("{unit}")); err != nil {
		return nil, fmt.Errorf("inventory consumed counter: %w", err)
	}
	if sm.lowStockEvents, err = m.Int64Counter("shop.inventory.low_stock",
		metric.WithDescription("Usages that left an item at or below its reorder level")); err != nil {
		return nil, fmt.Errorf("low stock counter: %w", err)
	}
	return &sm, nil
}

// JobCreated counts one new job.
func (m *ShopMetrics) JobCreated(ctx context.Context) {
	if m == nil {
		return
	}
	m.jobsCreated.Add(ctx, 1)
}

// JobTransitioned counts one status change.
func (m *ShopMetrics) JobTransitioned(ctx context.Context, from, to string) {
	if m == nil {
		return
	}
	m.jobTransitions.Add(ctx, 1, metric.WithAttributes(
		attribute.String("from", from),
		attribute.String("to", to),
	))
}

// InvoiceIssued counts one invoice and adds its amount.
func (m *ShopMetrics) InvoiceIssued(ctx context.Context, amount decimal.Decimal) {
	if m == nil {
		return
	}
	m.invoicesIssued.Add(ctx, 1)
	f, _ := amount.Float64()
	m.invoicedAmount.Add(ctx, f)
}

// InventoryConsumed adds qty consumed units and flags usages that hit low stock.
func (m *ShopMetrics) InventoryConsumed(ctx context.Context, qty int, lowStock bool) {
	if m == nil {
		return
	}
	m.inventoryConsumed.Add(ctx, int64(qty))
	if lowStock {
		m.lowStockEvents.Add(ctx, 1)
	}
}
