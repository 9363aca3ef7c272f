package shopping_cart

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	// id товара: буквы, цифры, точки, подчеркивания и дефисы
	productIDRule = regexp.MustCompile(`(?i)^[.a-z0-9_-]+$`)
	// название: то же самое плюс пробелы и двоеточия
	productNameRule = regexp.MustCompile(`(?i)^[.:\-_ a-z0-9]+$`)

	nonDigits       = regexp.MustCompile(`[^0-9]`)
	nonDecimalChars = regexp.MustCompile(`[^0-9.]`)
)

func validProductID(id string) bool {
	return productIDRule.MatchString(id)
}

func validProductName(name string) bool {
	return productNameRule.MatchString(name)
}

// MaxQuantity наибольшее количество одной позиции.
// Сумма количеств по корзине при таком пределе не переполняет int64.
const MaxQuantity int64 = 1_000_000

// parseQuantity оставляет в количестве только цифры.
// Ноль допустим, без цифр или больше MaxQuantity нельзя.
func parseQuantity(raw string) (int64, bool) {
	digits := nonDigits.ReplaceAllString(raw, "")
	if digits == "" {
		return 0, false
	}

	qty := strings.TrimLeft(digits, "0")
	if qty == "" {
		return 0, true
	}

	n, err := strconv.ParseInt(qty, 10, 64)
	if err != nil || n > MaxQuantity {
		return 0, false
	}

	return n, true
}

// unitPrice оставляет в цене только цифры и точку и разбирает ее как десятичное число
func unitPrice(raw string) (decimal.Decimal, bool) {
	price := nonDecimalChars.ReplaceAllString(raw, "")
	if !strings.ContainsAny(price, "0123456789") {
		return decimal.Zero, false
	}

	price = strings.TrimLeft(price, "0")
	if price == "" {
		return decimal.Zero, true
	}
	if strings.HasPrefix(price, ".") {
		price = "0" + price
	}

	d, err := decimal.NewFromString(price)
	if err != nil {
		return decimal.Zero, false
	}

	return d, true
}
