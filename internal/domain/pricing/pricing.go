// internal/domain/pricing/pricing.go
package pricing

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// DefaultDiscountRate is the storewide markdown applied to every list price.
const DefaultDiscountRate = 0.30

// ErrUnparseableAmount is returned when a currency string cannot be
// interpreted as a numeric amount. Callers decide whether to fall back to
// zero or surface the error.
var ErrUnparseableAmount = fmt.Errorf("unparseable currency amount")

// ParseAmount converts a localized BRL currency string (e.g. "R$1.234,56")
// to its numeric value in reais. Comma is the decimal separator; periods are
// thousands separators when a comma is present.
func ParseAmount(s string) (float64, error) {
	cleaned := strings.TrimSpace(s)
	cleaned = strings.ReplaceAll(cleaned, "R$", "")
	cleaned = strings.ReplaceAll(cleaned, " ", "")

	// Keep only digits, separators and sign
	var b strings.Builder
	for _, r := range cleaned {
		if (r >= '0' && r <= '9') || r == ',' || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}
	cleaned = b.String()

	if cleaned == "" {
		return 0, fmt.Errorf("%w: %q", ErrUnparseableAmount, s)
	}

	if strings.Contains(cleaned, ",") {
		// Brazilian notation: strip grouping periods, comma becomes the
		// decimal point.
		cleaned = strings.ReplaceAll(cleaned, ".", "")
		cleaned = strings.Replace(cleaned, ",", ".", 1)
	}

	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrUnparseableAmount, s)
	}

	return value, nil
}

// FormatAmount renders a numeric value in reais as a localized BRL currency
// string ("R$1.234,56").
func FormatAmount(v float64) string {
	negative := v < 0
	cents := int64(math.Round(math.Abs(v) * 100))

	whole := cents / 100
	frac := cents % 100

	digits := strconv.FormatInt(whole, 10)

	// Insert period thousands separators right-to-left
	var groups []string
	for len(digits) > 3 {
		groups = append([]string{digits[len(digits)-3:]}, groups...)
		digits = digits[:len(digits)-3]
	}
	groups = append([]string{digits}, groups...)

	sign := ""
	if negative {
		sign = "-"
	}

	return fmt.Sprintf("%sR$%s,%02d", sign, strings.Join(groups, "."), frac)
}

// ApplyDiscount returns the price after applying the given discount rate,
// rounded to cents.
func ApplyDiscount(list float64, rate float64) float64 {
	discounted := list * (1 - rate)
	return math.Round(discounted*100) / 100
}

// DiscountPercentage returns the rounded integer percentage saved between the
// list and discounted prices. A zero list price yields 0.
func DiscountPercentage(list, discounted float64) int {
	if list == 0 {
		return 0
	}
	return int(math.Round(100 * (list - discounted) / list))
}

// ToMinorUnits converts a value in reais to integer centavos.
func ToMinorUnits(v float64) int64 {
	return int64(math.Round(v * 100))
}

// FromMinorUnits converts integer centavos to a value in reais.
func FromMinorUnits(cents int64) float64 {
	return float64(cents) / 100
}

// FormatMinorUnits renders integer centavos as a localized BRL string.
func FormatMinorUnits(cents int64) string {
	return FormatAmount(FromMinorUnits(cents))
}

// DiscountedMinorUnits applies the storewide discount to a list price held in
// centavos, rounding to whole centavos.
func DiscountedMinorUnits(listCents int64) int64 {
	return ToMinorUnits(ApplyDiscount(FromMinorUnits(listCents), DefaultDiscountRate))
}
