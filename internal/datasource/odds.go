package datasource

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var decimalOne = decimal.NewFromInt(1)

// parseDecimal parses a string to decimal.Decimal, returning nil if invalid
func parseDecimal(s *string) *decimal.Decimal {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	d, err := decimal.NewFromString(strings.TrimSpace(*s))
	if err != nil {
		return nil
	}
	return &d
}

// parseDecimalOdds parses decimal ("4.5"), fractional ("7/2") or evens
// ("EVS") odds into decimal odds
func parseDecimalOdds(oddsStr string) (*decimal.Decimal, error) {
	s := strings.TrimSpace(oddsStr)
	if s == "" {
		return nil, fmt.Errorf("empty odds")
	}

	switch strings.ToLower(s) {
	case "evs", "evens", "evn":
		d := decimal.NewFromInt(2)
		return &d, nil
	}

	if num, den, ok := strings.Cut(s, "/"); ok {
		n, err := decimal.NewFromString(strings.TrimSpace(num))
		if err != nil {
			return nil, fmt.Errorf("invalid odds format: %s", oddsStr)
		}
		d, err := decimal.NewFromString(strings.TrimSpace(den))
		if err != nil || !d.IsPositive() || n.IsNegative() {
			return nil, fmt.Errorf("invalid odds format: %s", oddsStr)
		}
		odds := n.Div(d).Add(decimalOne).Round(4)
		return &odds, nil
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid odds format: %s", oddsStr)
	}
	if d.LessThan(decimalOne) {
		return nil, fmt.Errorf("decimal odds below 1: %s", oddsStr)
	}
	return &d, nil
}

// toFloat converts an optional decimal into the float form used by race records
func toFloat(d *decimal.Decimal) *float64 {
	if d == nil {
		return nil
	}
	f := d.InexactFloat64()
	return &f
}
