package handlers

import (
	"errors"
	"time"

	"negoce/internal/money"

	"github.com/shopspring/decimal"
)

var errInvalidDate = errors.New("invalid date")
var errInvalidRate = errors.New("invalid rate")

func parseAmount(raw string) (decimal.Decimal, error) {
	return money.ParsePositive(raw)
}

func parseRate(raw string) (decimal.Decimal, error) {
	rate, err := decimal.NewFromString(raw)
	if err != nil || rate.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, errInvalidRate
	}
	if rate.Exponent() < -6 {
		return decimal.Zero, errInvalidRate
	}
	return rate, nil
}

// parseDate accepts RFC 3339 timestamps and bare dates, which is what the
// dashboard sends.
func parseDate(raw string) (time.Time, error) {
	if parsed, err := time.Parse(time.RFC3339, raw); err == nil {
		return parsed, nil
	}
	if parsed, err := time.Parse("2006-01-02", raw); err == nil {
		return parsed, nil
	}
	return time.Time{}, errInvalidDate
}
