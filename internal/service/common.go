package service

import (
	"github.com/shopspring/decimal"

	"finman/internal/errors"
)

// parseAmount parses a decimal amount from its wire representation. Negative
// and malformed values are rejected.
func parseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil || d.IsNegative() {
		return decimal.Decimal{}, errors.ErrInvalidAmount
	}
	return d, nil
}
