package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/ghuser/lenos/pkg/database"
	"github.com/ghuser/lenos/services/shop/domain"
	"github.com/ghuser/lenos/services/shop/domain/models"
)

// CustomerRepository implements repositories.CustomerRepository against PostgreSQL.
type CustomerRepository struct {
	db *database.Database
}

// NewCustomerRepository returns a CustomerRepository backed by the given pool.
func NewCustomerRepository(db *database.Database) *CustomerRepository {
	return &CustomerRepository{db: db}
}

const customerColumns = `id, name, email, phone, address, created_at`

// Save inserts c and assigns its ID.
func (r *CustomerRepository) Save(ctx context.Context, c *models.Customer) error {
	err := r.db.DB().QueryRowContext(ctx, `
		INSERT INTO customers (name, email, phone, address, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		c.Name.String(), c.Email, c.Phone, c.Address, c.CreatedAt,
	).Scan(&c.ID)
	if err != nil {
		return storageErr("insert customer", err)
	}
	return nil
}

// GetByID returns the customer or a *domain.NotFoundError.
func (r *CustomerRepository) GetByID(ctx context.Context, id int64) (*models.Customer, error) {
	row := r.db.DB().QueryRowContext(ctx, `SELECT `+customerColumns+` FROM customers WHERE id = $1`, id)
	c, err := scanCustomer(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewNotFoundError("customer", id)
		}
		return nil, storageErr("query customer", err)
	}
	return c, nil
}

// List returns every customer, newest first.
func (r *CustomerRepository) List(ctx context.Context) ([]*models.Customer, error) {
	rows, err := r.db.DB().QueryContext(ctx, `SELECT `+customerColumns+` FROM customers ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, storageErr("query customers", err)
	}
	defer rows.Close() //nolint:errcheck

	out := make([]*models.Customer, 0)
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, storageErr("scan customer", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("iterate customers", err)
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCustomer(s scanner) (*models.Customer, error) {
	var (
		c    models.Customer
		name string
	)
	if err := s.Scan(&c.ID, &name, &c.Email, &c.Phone, &c.Address, &c.CreatedAt); err != nil {
		return nil, err
	}
	c.Name = models.Name(name)
	c.CreatedAt = c.CreatedAt.UTC()
	return &c, nil
}
