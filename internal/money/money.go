package money

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

var ErrInvalidAmount = errors.New("invalid amount")

// Round2 rounds to 2 decimal places, half away from zero. Applied after every
// addition or multiplication in a refund or balance chain so binary drift
// never reaches a persisted DZD figure.
func Round2(value decimal.Decimal) decimal.Decimal {
	return value.Round(2)
}

// Round4 rounds to 4 decimal places, the precision of the unit-cost columns.
func Round4(value decimal.Decimal) decimal.Decimal {
	return value.Round(4)
}

// Parse converts a user-supplied amount into a decimal. Empty strings and
// malformed input are rejected before any transaction opens.
func Parse(input string) (decimal.Decimal, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	value, err := decimal.NewFromString(trimmed)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	return value, nil
}

// ParsePositive is Parse restricted to amounts strictly greater than zero.
func ParsePositive(input string) (decimal.Decimal, error) {
	value, err := Parse(input)
	if err != nil {
		return decimal.Zero, err
	}
	if !value.IsPositive() {
		return decimal.Zero, ErrInvalidAmount
	}
	return value, nil
}
