package ledger

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var brl = message.NewPrinter(language.BrazilianPortuguese)

// FormatBRL renders an amount expressed in minor units (centavos) as a
// Brazilian currency string, e.g. 150050 -> "R$ 1.500,50".
func FormatBRL(amount int64) (string, error) {
	return FormatMinor(strconv.FormatInt(amount, 10))
}

// FormatMinor applies the fixed two-digit decimal shift to a raw minor-unit
// string and renders it in pt-BR. Amounts under 100 minor units are zero
// padded before the shift, so "5" becomes "R$ 0,05". A raw value that is not
// an integer (or is too large to render) returns ErrInvalidAmount.
func FormatMinor(raw string) (string, error) {
	digits := strings.TrimSpace(raw)
	sign := ""
	if strings.HasPrefix(digits, "-") {
		sign, digits = "-", digits[1:]
	}
	if digits == "" {
		return "", fmt.Errorf("FormatMinor: empty amount: %w", ErrInvalidAmount)
	}
	for len(digits) < 3 {
		digits = "0" + digits
	}
	units, cents := digits[:len(digits)-2], digits[len(digits)-2:]

	if _, err := decimal.NewFromString(sign + units + "." + cents); err != nil {
		return "", fmt.Errorf("FormatMinor: amount %q: %w", raw, ErrInvalidAmount)
	}
	// The cent digits pass through untouched; only the unit part goes
	// through the locale for grouping, so the amount stays exact.
	n, err := strconv.ParseInt(units, 10, 64)
	if err != nil {
		return "", fmt.Errorf("FormatMinor: amount %q: %w", raw, ErrInvalidAmount)
	}
	return brl.Sprintf("R$ %s%v,%s", sign, number.Decimal(n), cents), nil
}
