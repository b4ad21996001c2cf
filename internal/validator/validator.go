package validator

import (
	"errors"
	"regexp"
	"strings"
)

var (
	ErrInvalidCurrencyCode = errors.New("invalid currency code")
	ErrInvalidDesignation  = errors.New("invalid designation")
)

var currencyCodeRegex = regexp.MustCompile(`^[A-Z]{3}$`)

func ValidateCurrencyCode(code string) error {
	if !currencyCodeRegex.MatchString(code) {
		return ErrInvalidCurrencyCode
	}
	return nil
}

func ValidateDesignation(designation string) error {
	if strings.TrimSpace(designation) == "" {
		return ErrInvalidDesignation
	}
	return nil
}

// NormalizeDesignation title-cases a free-text designation, the way account
// and currency names are stored ("caisse principale" -> "Caisse Principale").
func NormalizeDesignation(designation string) string {
	fields := strings.Fields(strings.ToLower(designation))
	for i, field := range fields {
		fields[i] = strings.ToUpper(field[:1]) + field[1:]
	}
	return strings.Join(fields, " ")
}

// NormalizeCode uppercases trimmed codes and type labels (COMMUN, DZD, ...).
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
