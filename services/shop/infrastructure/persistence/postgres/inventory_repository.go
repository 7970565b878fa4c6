package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/ghuser/lenos/pkg/database"
	"github.com/ghuser/lenos/pkg/events"
	"github.com/ghuser/lenos/services/shop/domain"
	domainevents "github.com/ghuser/lenos/services/shop/domain/events"
	"github.com/ghuser/lenos/services/shop/domain/models"
)

// InventoryRepository implements repositories.InventoryRepository against PostgreSQL.
type InventoryRepository struct {
	db  *database.Database
	bus *events.EventBus
}

// NewInventoryRepository returns an InventoryRepository backed by the given pool
// and event bus. The bus publishes InventoryConsumed events.
func NewInventoryRepository(db *database.Database, bus *events.EventBus) *InventoryRepository {
	return &InventoryRepository{db: db, bus: bus}
}

const inventoryColumns = `id, name, type, quantity_in_stock, unit_cost, supplier, reorder_level, created_at`

const usageColumns = `id, job_id, inventory_id, quantity_used, cost_per_unit, recorded_at`

// Save inserts item and assigns its ID.
func (r *InventoryRepository) Save(ctx context.Context, item *models.InventoryItem) error {
	err := r.db.DB().QueryRowContext(ctx, `
		INSERT INTO inventory (name, type, quantity_in_stock, unit_cost, supplier, reorder_level, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`,
		item.Name.String(), item.Type, item.QuantityInStock, item.UnitCost,
		item.Supplier, item.ReorderLevel, item.CreatedAt,
	).Scan(&item.ID)
	if err != nil {
		return storageErr("insert inventory item", err)
	}
	return nil
}

// GetByID returns the item or a *domain.NotFoundError.
func (r *InventoryRepository) GetByID(ctx context.Context, id int64) (*models.InventoryItem, error) {
	return getInventoryItem(ctx, r.db.DB(), id)
}

// List returns every item ordered by name.
func (r *InventoryRepository) List(ctx context.Context) ([]*models.InventoryItem, error) {
	return r.list(ctx, `SELECT `+inventoryColumns+` FROM inventory ORDER BY name, id`)
}

// ListLowStock returns items at or below their reorder level, ordered by name.
func (r *InventoryRepository) ListLowStock(ctx context.Context) ([]*models.InventoryItem, error) {
	return r.list(ctx, `SELECT `+inventoryColumns+` FROM inventory WHERE quantity_in_stock <= reorder_level ORDER BY name, id`)
}

func (r *InventoryRepository) list(ctx context.Context, query string) ([]*models.InventoryItem, error) {
	rows, err := r.db.DB().QueryContext(ctx, query)
	if err != nil {
		return nil, storageErr("query inventory", err)
	}
	defer rows.Close() //nolint:errcheck

	out := make([]*models.InventoryItem, 0)
	for rows.Next() {
		item, err := scanInventoryItem(rows)
		if err != nil {
			return nil, storageErr("scan inventory item", err)
		}
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("iterate inventory", err)
	}
	return out, nil
}

// Update writes only the fields patch sets. COALESCE keeps the stored value
// of every other column, so a concurrent RecordUsage is never overwritten.
func (r *InventoryRepository) Update(ctx context.Context, id int64, patch models.InventoryPatch) (*models.InventoryItem, error) {
	p := patch.Normalized()
	row := r.db.DB().QueryRowContext(ctx, `
		UPDATE inventory
		SET type = COALESCE($2, type),
			quantity_in_stock = COALESCE($3, quantity_in_stock),
			unit_cost = COALESCE($4, unit_cost),
			supplier = COALESCE($5, supplier),
			reorder_level = COALESCE($6, reorder_level)
		WHERE id = $1
		RETURNING `+inventoryColumns,
		id, nullString(p.Type), nullInt(p.QuantityInStock), nullDecimal(p.UnitCost),
		nullString(p.Supplier), nullInt(p.ReorderLevel),
	)
	item, err := scanInventoryItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NewNotFoundError("inventory item", id)
	}
	if err != nil {
		return nil, storageErr("update inventory item", err)
	}
	return item, nil
}

// RecordUsage decrements stock with a guarded UPDATE and inserts the usage row
// in one transaction. A guard miss means the item is missing or short; the
// item is re-read to tell the two apart.
func (r *InventoryRepository) RecordUsage(ctx context.Context, u *models.InventoryUsage) (*models.InventoryItem, error) {
	var out *models.InventoryItem
	err := r.db.WithTx(ctx, func(tx *sql.Tx) error {
		row := tx.QueryRowContext(ctx, `
			UPDATE inventory
			SET quantity_in_stock = quantity_in_stock - $2
			WHERE id = $1 AND quantity_in_stock >= $2
			RETURNING `+inventoryColumns,
			u.InventoryID, u.QuantityUsed,
		)
		item, err := scanInventoryItem(row)
		if errors.Is(err, sql.ErrNoRows) {
			if _, getErr := getInventoryItem(ctx, tx, u.InventoryID); getErr != nil {
				return getErr
			}
			return domain.ErrInsufficientStock
		}
		if err != nil {
			return storageErr("decrement stock", err)
		}

		err = tx.QueryRowContext(ctx, `
			INSERT INTO job_inventory_usage (job_id, inventory_id, quantity_used, cost_per_unit, recorded_at)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id`,
			u.JobID, u.InventoryID, u.QuantityUsed, u.CostPerUnit, u.RecordedAt,
		).Scan(&u.ID)
		if err != nil {
			if foreignKeyTarget(err) != "" {
				return domain.NewNotFoundError("job", u.JobID)
			}
			return storageErr("insert inventory usage", err)
		}

		eventID := uuid.New()
		if err := publish(ctx, r.bus, tx, domainevents.TopicInventoryConsumed, eventID, domainevents.InventoryConsumedEvent{
			EventID:        eventID,
			Version:        domainevents.Version,
			UsageID:        u.ID,
			JobID:          u.JobID,
			InventoryID:    u.InventoryID,
			QuantityUsed:   u.QuantityUsed,
			RemainingStock: item.QuantityInStock,
			LowStock:       item.IsLowStock(),
			OccurredAt:     u.RecordedAt,
		}); err != nil {
			return fmt.Errorf("publish inventory consumed: %w", err)
		}
		out = item
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ListUsage returns the usage recorded against jobID, newest first.
func (r *InventoryRepository) ListUsage(ctx context.Context, jobID int64) ([]*models.InventoryUsage, error) {
	rows, err := r.db.DB().QueryContext(ctx, `
		SELECT `+usageColumns+`
		FROM job_inventory_usage
		WHERE job_id = $1
		ORDER BY recorded_at DESC, id DESC`, jobID)
	if err != nil {
		return nil, storageErr("query inventory usage", err)
	}
	defer rows.Close() //nolint:errcheck

	out := make([]*models.InventoryUsage, 0)
	for rows.Next() {
		var u models.InventoryUsage
		if err := rows.Scan(&u.ID, &u.JobID, &u.InventoryID, &u.QuantityUsed, &u.CostPerUnit, &u.RecordedAt); err != nil {
			return nil, storageErr("scan inventory usage", err)
		}
		u.RecordedAt = u.RecordedAt.UTC()
		out = append(out, &u)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("iterate inventory usage", err)
	}
	return out, nil
}

func getInventoryItem(ctx context.Context, q queryer, id int64) (*models.InventoryItem, error) {
	item, err := scanInventoryItem(q.QueryRowContext(ctx, `SELECT `+inventoryColumns+` FROM inventory WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewNotFoundError("inventory item", id)
		}
		return nil, storageErr("query inventory item", err)
	}
	return item, nil
}

func scanInventoryItem(s scanner) (*models.InventoryItem, error) {
	var (
		item models.InventoryItem
		name string
	)
	if err := s.Scan(
		&item.ID, &name, &item.Type, &item.QuantityInStock, &item.UnitCost,
		&item.Supplier, &item.ReorderLevel, &item.CreatedAt,
	); err != nil {
		return nil, err
	}
	item.Name = models.Name(name)
	item.CreatedAt = item.CreatedAt.UTC()
	return &item, nil
}
