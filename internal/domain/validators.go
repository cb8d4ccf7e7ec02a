package domain

import (
	"fmt"
	"regexp"
)

var (
	countryRegex  = regexp.MustCompile(`^[A-Z]{2}$`)
	currencyRegex = regexp.MustCompile(`^[A-Z]{3}$`)
)

// ValidateCountry checks that a country code is ISO 3166 alpha-2 shaped.
func ValidateCountry(code string) error {
	if !countryRegex.MatchString(code) {
		return fmt.Errorf("invalid country code: %q", code)
	}
	return nil
}

// ValidateCurrency checks that a currency code is ISO 4217 alpha-3 shaped.
func ValidateCurrency(code string) error {
	if !currencyRegex.MatchString(code) {
		return fmt.Errorf("invalid currency code: %q", code)
	}
	return nil
}

// ValidatePositive checks that a required numeric setting is positive.
func ValidatePositive(name string, v int64) error {
	if v <= 0 {
		return fmt.Errorf("%s must be positive, got %d", name, v)
	}
	return nil
}
