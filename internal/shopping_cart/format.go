package shopping_cart

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatNumber приводит сумму к виду 1,234.50.
// Все, кроме цифр и точки, отбрасывается; пустая строка остается пустой.
func FormatNumber(n string) string {
	if n == "" {
		return ""
	}

	clean := nonDecimalChars.ReplaceAllString(n, "")
	d := decimal.Zero
	if clean != "" {
		parsed, err := decimal.NewFromString(clean)
		if err != nil {
			return ""
		}
		d = parsed
	}

	return FormatAmount(d)
}

// FormatAmount форматирует десятичную сумму с двумя знаками и разделителем тысяч
func FormatAmount(d decimal.Decimal) string {
	fixed := d.StringFixed(2)

	sign := ""
	if strings.HasPrefix(fixed, "-") {
		sign, fixed = "-", fixed[1:]
	}

	intPart, frac, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}

	return sign + b.String() + "." + frac
}
