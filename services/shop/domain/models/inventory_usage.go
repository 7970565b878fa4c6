package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/ghuser/lenos/services/shop/domain"
)

// InventoryUsage records stock a Job consumed. Append-only.
type InventoryUsage struct {
	ID           int64
	JobID        int64
	InventoryID  int64
	QuantityUsed int
	CostPerUnit  decimal.NullDecimal
	RecordedAt   time.Time
}

// NewInventoryUsageParams holds caller input for NewInventoryUsage.
type NewInventoryUsageParams struct {
	JobID        int64
	InventoryID  int64
	QuantityUsed int
	CostPerUnit  *decimal.Decimal
}

// NewInventoryUsage validates p. When CostPerUnit is nil the item's unit cost is used.
func NewInventoryUsage(p NewInventoryUsageParams, item *InventoryItem, now time.Time) (*InventoryUsage, error) {
	if p.JobID <= 0 {
		return nil, domain.NewValidationError("job_id", "is required")
	}
	if p.InventoryID <= 0 {
		return nil, domain.NewValidationError("inventory_id", "is required")
	}
	if p.QuantityUsed <= 0 {
		return nil, domain.NewValidationError("quantity_used", "must be greater than zero")
	}
	cost, err := NewOptionalMoney("cost_per_unit", p.CostPerUnit)
	if err != nil {
		return nil, err
	}
	if !cost.Valid && item != nil {
		cost = item.UnitCost
	}
	return &InventoryUsage{
		JobID:        p.JobID,
		InventoryID:  p.InventoryID,
		QuantityUsed: p.QuantityUsed,
		CostPerUnit:  cost,
		RecordedAt:   now.UTC(),
	}, nil
}

// LineCost is QuantityUsed * CostPerUnit, or zero when no cost is known.
func (u *InventoryUsage) LineCost() decimal.Decimal {
	if !u.CostPerUnit.Valid {
		return decimal.Zero
	}
	return u.CostPerUnit.Decimal.Mul(decimal.NewFromInt(int64(u.QuantityUsed)))
}
