package shopping_cart

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestItemFromMap(t *testing.T) {
	raw := `{"id":"sku1","qty":7,"price":19.99,"name":"Widget","options":{"size":"L"},"image":"w.png"}`

	var m map[string]any
	d := json.NewDecoder(strings.NewReader(raw))
	d.UseNumber()
	require.NoError(t, d.Decode(&m))

	item := ItemFromMap(m)
	assert.Equal(t, "sku1", item.ID)
	assert.Equal(t, "7", item.Qty)
	assert.Equal(t, "19.99", item.Price)
	assert.Equal(t, "Widget", item.Name)
	assert.Equal(t, map[string]string{"size": "L"}, item.Options)
	assert.Equal(t, map[string]any{"image": "w.png"}, item.Extra)
}

func TestUpdateAndDiscountFromMap(t *testing.T) {
	u := UpdateFromMap(map[string]any{"rowid": "r1", "qty": float64(3)})
	assert.Equal(t, Update{RowID: "r1", Qty: "3"}, u)

	d := DiscountFromMap(map[string]any{"value": "10", "type": "percentage"})
	assert.Equal(t, Discount{Value: "10", Type: "percentage"}, d)
}
