package shopping_cart

import (
	"crypto/md5"
	"encoding/hex"
	"sort"
	"strings"
)

// RowID считает идентификатор позиции: md5 от id товара и значений опций.
// Значения опций берутся в порядке сортировки ключей, поэтому
// одинаковый набор опций всегда дает одинаковый rowid.
func RowID(productID string, options map[string]string) string {
	if len(options) == 0 {
		return digest(productID)
	}

	keys := make([]string, 0, len(options))
	for k := range options {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(productID)
	for _, k := range keys {
		b.WriteString(options[k])
	}

	return digest(b.String())
}

func digest(s string) string {
	sum := md5.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}
