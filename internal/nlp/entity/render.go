package entity

import (
	"fmt"
	"strconv"
	"strings"
)

// UnitType selects how a raw field value is rendered for display.
type UnitType string

const (
	UnitPercent         UnitType = "percent"
	UnitCurrencyPerUnit UnitType = "currency_per_unit"
	UnitMW              UnitType = "mw"
	UnitRaw             UnitType = "raw"
)

// toFloat parses numbers as users and upstream APIs write them: optional
// percent sign, thousands separators, surrounding whitespace.
func toFloat(value interface{}) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	}
	s := strings.TrimSpace(fmt.Sprint(value))
	s = strings.TrimRight(s, "%")
	s = strings.ReplaceAll(s, ",", "")
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// TrimNumber renders f with two decimals, then strips trailing zeros and a
// dangling decimal point: 7.50 -> "7.5", 7.00 -> "7".
func TrimNumber(f float64) string {
	s := fmt.Sprintf("%.2f", f)
	s = strings.TrimRight(s, "0")
	return strings.TrimRight(s, ".")
}

// FormatValue renders a raw field value per its unit type. Percent values in
// [0,1] are treated as fractions and scaled to a percentage. Unparsable
// values fall through with the unit marker attached rather than erroring.
func FormatValue(value interface{}, unit UnitType, currencySymbol string) string {
	switch unit {
	case UnitPercent:
		f, ok := toFloat(value)
		if !ok {
			return strings.TrimRight(strings.TrimSpace(fmt.Sprint(value)), "%") + "%"
		}
		if f >= 0.0 && f <= 1.0 {
			f *= 100.0
		}
		return TrimNumber(f) + "%"

	case UnitCurrencyPerUnit:
		f, ok := toFloat(value)
		if !ok {
			return fmt.Sprintf("%s%v", currencySymbol, value)
		}
		return fmt.Sprintf("%s%s per unit", currencySymbol, TrimNumber(f))

	case UnitMW:
		f, ok := toFloat(value)
		if !ok {
			return fmt.Sprintf("%v MW", value)
		}
		return TrimNumber(f) + " MW"
	}

	return fmt.Sprint(value)
}

// FormatPrice renders a bare per-unit price: currency symbol plus trimmed
// number, no unit suffix.
func FormatPrice(value interface{}, currencySymbol string) string {
	f, ok := toFloat(value)
	if !ok {
		return fmt.Sprintf("%s%v", currencySymbol, value)
	}
	return currencySymbol + TrimNumber(f)
}
