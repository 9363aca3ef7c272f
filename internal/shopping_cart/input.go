package shopping_cart

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// ItemFromMap разбирает произвольную запись товара (например, из JSON).
// Обязательные поля id, qty, price, name и options забираются в Item,
// все остальное уходит в Extra как есть.
func ItemFromMap(m map[string]any) Item {
	item := Item{}

	for k, v := range m {
		switch k {
		case "id":
			item.ID = scalar(v)
		case "qty":
			item.Qty = scalar(v)
		case "price":
			item.Price = scalar(v)
		case "name":
			item.Name = scalar(v)
		case "options":
			item.Options = options(v)
		default:
			if item.Extra == nil {
				item.Extra = make(map[string]any)
			}
			item.Extra[k] = v
		}
	}

	return item
}

// UpdateFromMap разбирает запись {rowid, qty}
func UpdateFromMap(m map[string]any) Update {
	return Update{
		RowID: scalar(m["rowid"]),
		Qty:   scalar(m["qty"]),
	}
}

// DiscountFromMap разбирает запись {value, type, code}
func DiscountFromMap(m map[string]any) Discount {
	return Discount{
		Value: scalar(m["value"]),
		Type:  scalar(m["type"]),
		Code:  scalar(m["code"]),
	}
}

func scalar(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprint(t)
	}
}

func options(v any) map[string]string {
	raw, ok := v.(map[string]any)
	if !ok || len(raw) == 0 {
		return nil
	}

	out := make(map[string]string, len(raw))
	for k, val := range raw {
		out[k] = scalar(val)
	}
	return out
}
