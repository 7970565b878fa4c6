package services

import (
	"context"
	"fmt"
	"time"

	"github.com/ghuser/lenos/pkg/logger"
	"github.com/ghuser/lenos/pkg/telemetry"
	"github.com/ghuser/lenos/services/shop/domain/models"
	"github.com/ghuser/lenos/services/shop/domain/repositories"
	domainsvcs "github.com/ghuser/lenos/services/shop/domain/services"
)

// InventoryService manages stock items and their consumption by jobs.
type InventoryService struct {
	repo    repositories.InventoryRepository
	jobs    repositories.JobRepository
	metrics *telemetry.ShopMetrics
	now     func() time.Time
	log     logger.Logger
}

// Create validates and persists an InventoryItem.
func (s *InventoryService) Create(ctx context.Context, p models.NewInventoryItemParams) (*models.InventoryItem, error) {
	item, err := models.NewInventoryItem(p, s.now())
	if err != nil {
		return nil, err
	}
	if err := domainsvcs.ValidateDisplayName("name", item.Name); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, item); err != nil {
		return nil, fmt.Errorf("save inventory item: %w", err)
	}
	s.log.InfoContext(ctx, "inventory item created", "inventory_id", item.ID)
	return item, nil
}

// List returns every item ordered by name, each flagged for low stock.
func (s *InventoryService) List(ctx context.Context) ([]models.InventoryView, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list inventory: %w", err)
	}
	return views(items), nil
}

// LowStock returns the items at or below their reorder level.
func (s *InventoryService) LowStock(ctx context.Context) ([]models.InventoryView, error) {
	items, err := s.repo.ListLowStock(ctx)
	if err != nil {
		return nil, fmt.Errorf("list low stock: %w", err)
	}
	return views(items), nil
}

// Adjust applies a partial edit to an item, such as a restock count. Only
// the fields the patch sets are written, so stock consumed concurrently by
// RecordUsage is kept unless the patch sets quantity_in_stock itself.
func (s *InventoryService) Adjust(ctx context.Context, id int64, patch models.InventoryPatch) (models.InventoryView, error) {
	if err := patch.Validate(); err != nil {
		return models.InventoryView{}, err
	}
	if patch.IsEmpty() {
		item, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return models.InventoryView{}, fmt.Errorf("get inventory item: %w", err)
		}
		return models.NewInventoryView(*item), nil
	}
	item, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return models.InventoryView{}, fmt.Errorf("update inventory item: %w", err)
	}
	s.log.InfoContext(ctx, "inventory item adjusted",
		"inventory_id", id, "quantity_in_stock", item.QuantityInStock)
	return models.NewInventoryView(*item), nil
}

// RecordUsage books stock consumed by a job and decrements the item.
// Fails with domain.ErrInsufficientStock, leaving stock unchanged, when the
// item holds less than requested.
func (s *InventoryService) RecordUsage(ctx context.Context, p models.NewInventoryUsageParams) (*models.InventoryUsage, models.InventoryView, error) {
	if _, err := s.jobs.GetByID(ctx, p.JobID); err != nil {
		return nil, models.InventoryView{}, fmt.Errorf("check job: %w", err)
	}
	item, err := s.repo.GetByID(ctx, p.InventoryID)
	if err != nil {
		return nil, models.InventoryView{}, fmt.Errorf("get inventory item: %w", err)
	}
	u, err := models.NewInventoryUsage(p, item, s.now())
	if err != nil {
		return nil, models.InventoryView{}, err
	}

	after, err := s.repo.RecordUsage(ctx, u)
	if err != nil {
		return nil, models.InventoryView{}, fmt.Errorf("record usage: %w", err)
	}

	view := models.NewInventoryView(*after)
	s.metrics.InventoryConsumed(ctx, u.QuantityUsed, view.LowStock)
	s.log.InfoContext(ctx, "inventory consumed",
		"job_id", u.JobID, "inventory_id", u.InventoryID,
		"quantity_used", u.QuantityUsed, "remaining", after.QuantityInStock)
	if view.LowStock {
		s.log.WarnContext(ctx, "inventory item at or below reorder level",
			"inventory_id", after.ID, "quantity_in_stock", after.QuantityInStock,
			"reorder_level", after.ReorderLevel)
	}
	return u, view, nil
}

// ListUsage returns the stock consumed by jobID, newest first.
func (s *InventoryService) ListUsage(ctx context.Context, jobID int64) ([]*models.InventoryUsage, error) {
	out, err := s.repo.ListUsage(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("list usage: %w", err)
	}
	return out, nil
}

func views(items []*models.InventoryItem) []models.InventoryView {
	out := make([]models.InventoryView, 0, len(items))
	for _, it := range items {
		out = append(out, models.NewInventoryView(*it))
	}
	return out
}
