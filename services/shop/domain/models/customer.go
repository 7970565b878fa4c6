package models

import (
	"strings"
	"time"
)

// Customer places jobs. Immutable after creation.
type Customer struct {
	ID        int64
	Name      Name
	Email     string
	Phone     string
	Address   string
	CreatedAt time.Time
}

// NewCustomerParams holds caller input for NewCustomer.
type NewCustomerParams struct {
	Name    string
	Email   string
	Phone   string
	Address string
}

// NewCustomer validates p and returns an unsaved Customer (ID is assigned by the store).
func NewCustomer(p NewCustomerParams, now time.Time) (*Customer, error) {
	name, err := NewName("name", p.Name)
	if err != nil {
		return nil, err
	}
	return &Customer{
		Name:      name,
		Email:     strings.TrimSpace(p.Email),
		Phone:     strings.TrimSpace(p.Phone),
		Address:   strings.TrimSpace(p.Address),
		CreatedAt: now.UTC(),
	}, nil
}
