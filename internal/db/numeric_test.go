package db

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseNumeric_RoundTrip(t *testing.T) {
	d, err := ParseNumeric("179.8218")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if NumericArg(d) != "179.8218" {
		t.Fatalf("unexpected round trip %s", NumericArg(d))
	}
	if _, err := ParseNumeric("abc"); err == nil {
		t.Fatalf("expected error for non-numeric input")
	}
}

func TestParseNullNumeric(t *testing.T) {
	got, err := ParseNullNumeric(nil)
	if err != nil || got.Valid {
		t.Fatalf("expected invalid null decimal, got %+v err=%v", got, err)
	}
	s := "800.00"
	got, err = ParseNullNumeric(&s)
	if err != nil || !got.Valid || !got.Decimal.Equal(decimal.NewFromInt(800)) {
		t.Fatalf("unexpected value %+v err=%v", got, err)
	}
	if NullNumericArg(decimal.NullDecimal{}) != nil {
		t.Fatalf("expected nil arg for invalid decimal")
	}
	if arg := NullNumericArg(got); arg == nil || *arg != "800" {
		t.Fatalf("unexpected arg %v", arg)
	}
}
