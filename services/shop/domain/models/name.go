package models

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/ghuser/lenos/services/shop/domain"
)

// Name is a value object for required display names (customer, inventory item).
// Encapsulates validation rules: non-blank, 1 <= len(name) <= 255 runes.
type Name string

const maxNameLength = 255

// NewName trims s and returns a valid Name, or a *domain.ValidationError on field.
func NewName(field, s string) (Name, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", domain.NewValidationError(field, "is required")
	}
	if utf8.RuneCountInString(s) > maxNameLength {
		return "", domain.NewValidationError(field, fmt.Sprintf("must not exceed %d characters", maxNameLength))
	}
	return Name(s), nil
}

// String returns the underlying string value.
func (n Name) String() string {
	return string(n)
}
