package models

import (
	"github.com/shopspring/decimal"

	"github.com/ghuser/lenos/services/shop/domain"
)

// moneyScale is the number of fractional digits kept for currency (NUMERIC(10,2)).
const moneyScale = 2

// MaxMoney is the largest amount a NUMERIC(10,2) column holds.
var MaxMoney = decimal.RequireFromString("99999999.99")

// NewMoney rounds v to cents and rejects negative amounts and amounts above MaxMoney.
func NewMoney(field string, v decimal.Decimal) (decimal.Decimal, error) {
	if v.IsNegative() {
		return decimal.Decimal{}, domain.NewValidationError(field, "must not be negative")
	}
	m := v.Round(moneyScale)
	if m.GreaterThan(MaxMoney) {
		return decimal.Decimal{}, domain.NewValidationError(field, "must not exceed "+MaxMoney.StringFixed(moneyScale))
	}
	return m, nil
}

// NewOptionalMoney is NewMoney for nullable amounts. A nil input yields an invalid NullDecimal.
func NewOptionalMoney(field string, v *decimal.Decimal) (decimal.NullDecimal, error) {
	if v == nil {
		return decimal.NullDecimal{}, nil
	}
	m, err := NewMoney(field, *v)
	if err != nil {
		return decimal.NullDecimal{}, err
	}
	return decimal.NewNullDecimal(m), nil
}
