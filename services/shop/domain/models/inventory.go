package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ghuser/lenos/services/shop/domain"
)

// InventoryItem is a stocked material or part.
// QuantityInStock and ReorderLevel are tracked independently; low stock is derived.
type InventoryItem struct {
	ID              int64
	Name            Name
	Type            string
	QuantityInStock int
	UnitCost        decimal.NullDecimal
	Supplier        string
	ReorderLevel    int
	CreatedAt       time.Time
}

// IsLowStock reports whether the item is at or below its reorder level.
func (i *InventoryItem) IsLowStock() bool {
	return i.QuantityInStock <= i.ReorderLevel
}

// NewInventoryItemParams holds caller input for NewInventoryItem.
type NewInventoryItemParams struct {
	Name            string
	Type            string
	QuantityInStock int
	UnitCost        *decimal.Decimal
	Supplier        string
	ReorderLevel    int
}

// NewInventoryItem validates p and returns an unsaved InventoryItem.
func NewInventoryItem(p NewInventoryItemParams, now time.Time) (*InventoryItem, error) {
	name, err := NewName("name", p.Name)
	if err != nil {
		return nil, err
	}
	if err := nonNegative("quantity_in_stock", p.QuantityInStock); err != nil {
		return nil, err
	}
	if err := nonNegative("reorder_level", p.ReorderLevel); err != nil {
		return nil, err
	}
	cost, err := NewOptionalMoney("unit_cost", p.UnitCost)
	if err != nil {
		return nil, err
	}
	return &InventoryItem{
		Name:            name,
		Type:            strings.TrimSpace(p.Type),
		QuantityInStock: p.QuantityInStock,
		UnitCost:        cost,
		Supplier:        strings.TrimSpace(p.Supplier),
		ReorderLevel:    p.ReorderLevel,
		CreatedAt:       now.UTC(),
	}, nil
}

// InventoryPatch is a partial update of an InventoryItem. Nil fields are left untouched.
type InventoryPatch struct {
	Type            *string
	QuantityInStock *int
	UnitCost        *decimal.Decimal
	Supplier        *string
	ReorderLevel    *int
}

// Validate checks every set field against its domain.
func (p InventoryPatch) Validate() error {
	if p.QuantityInStock != nil {
		if err := nonNegative("quantity_in_stock", *p.QuantityInStock); err != nil {
			return err
		}
	}
	if p.ReorderLevel != nil {
		if err := nonNegative("reorder_level", *p.ReorderLevel); err != nil {
			return err
		}
	}
	if p.UnitCost != nil {
		if _, err := NewMoney("unit_cost", *p.UnitCost); err != nil {
			return err
		}
	}
	return nil
}

// Normalized returns the patch with strings trimmed and the unit cost rounded to cents.
func (p InventoryPatch) Normalized() InventoryPatch {
	out := p
	if p.Type != nil {
		t := strings.TrimSpace(*p.Type)
		out.Type = &t
	}
	if p.UnitCost != nil {
		v := p.UnitCost.Round(moneyScale)
		out.UnitCost = &v
	}
	if p.Supplier != nil {
		sup := strings.TrimSpace(*p.Supplier)
		out.Supplier = &sup
	}
	return out
}

// Apply copies the set fields onto item. Call Validate first.
func (p InventoryPatch) Apply(item *InventoryItem) {
	p = p.Normalized()
	if p.Type != nil {
		item.Type = *p.Type
	}
	if p.QuantityInStock != nil {
		item.QuantityInStock = *p.QuantityInStock
	}
	if p.UnitCost != nil {
		item.UnitCost = decimal.NewNullDecimal(*p.UnitCost)
	}
	if p.Supplier != nil {
		item.Supplier = *p.Supplier
	}
	if p.ReorderLevel != nil {
		item.ReorderLevel = *p.ReorderLevel
	}
}

// IsEmpty reports whether the patch sets no fields.
func (p InventoryPatch) IsEmpty() bool {
	return p.Type == nil && p.QuantityInStock == nil && p.UnitCost == nil && p.Supplier == nil && p.ReorderLevel == nil
}

func nonNegative(field string, v int) error {
	if v < 0 {
		return domain.NewValidationError(field, "must not be negative")
	}
	return nil
}
