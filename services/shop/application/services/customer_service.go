package services

import (
	"context"
	"fmt"
	"time"

	"github.com/ghuser/lenos/pkg/logger"
	"github.com/ghuser/lenos/services/shop/domain/models"
	"github.com/ghuser/lenos/services/shop/domain/repositories"
	domainsvcs "github.com/ghuser/lenos/services/shop/domain/services"
)

// CustomerService creates and lists customers.
type CustomerService struct {
	repo repositories.CustomerRepository
	now  func() time.Time
	log  logger.Logger
}

// Create validates and persists a Customer.
func (s *CustomerService) Create(ctx context.Context, p models.NewCustomerParams) (*models.Customer, error) {
	c, err := models.NewCustomer(p, s.now())
	if err != nil {
		return nil, err
	}
	if err := domainsvcs.ValidateDisplayName("name", c.Name); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, c); err != nil {
		return nil, fmt.Errorf("save customer: %w", err)
	}
	s.log.InfoContext(ctx, "customer created", "customer_id", c.ID)
	return c, nil
}

// List returns all customers, newest first.
func (s *CustomerService) List(ctx context.Context) ([]*models.Customer, error) {
	out, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	return out, nil
}
