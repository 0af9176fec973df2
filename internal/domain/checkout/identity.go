package checkout

import "strings"

// NormalizeDigits strips everything but decimal digits, so formatted
// documents ("123.456.789-01") and postal codes ("01310-100") compare
// equal to their bare forms.
func NormalizeDigits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ValidCPF reports whether the value looks like a CPF: exactly 11
// digits after normalization, and not a single repeated digit
// ("11111111111" is a well-known placeholder).
func ValidCPF(cpf string) bool {
	digits := NormalizeDigits(cpf)
	if len(digits) != 11 {
		return false
	}
	first := digits[0]
	for i := 1; i < len(digits); i++ {
		if digits[i] != first {
			return true
		}
	}
	return false
}

// ValidCEP reports whether the value is an 8-digit postal code after
// normalization.
func ValidCEP(cep string) bool {
	return len(NormalizeDigits(cep)) == 8
}
