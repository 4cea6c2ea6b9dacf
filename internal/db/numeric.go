package db

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Money columns are NUMERIC. Queries select them as col::text and bind them as strings,
// so values round-trip through pgx without float conversion.

// ParseNumeric converts a NUMERIC column read as text.
func ParseNumeric(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse numeric %q: %w", s, err)
	}
	return d, nil
}

// ParseNullNumeric converts a nullable NUMERIC column read as text.
func ParseNullNumeric(s *string) (decimal.NullDecimal, error) {
	if s == nil {
		return decimal.NullDecimal{}, nil
	}
	d, err := ParseNumeric(*s)
	if err != nil {
		return decimal.NullDecimal{}, err
	}
	return decimal.NewNullDecimal(d), nil
}

// NumericArg binds a decimal as a text parameter.
func NumericArg(d decimal.Decimal) string {
	return d.String()
}

// NullNumericArg binds a nullable decimal, mapping invalid values to NULL.
func NullNumericArg(d decimal.NullDecimal) *string {
	if !d.Valid {
		return nil
	}
	s := d.Decimal.String()
	return &s
}
