package shopping_cart

import (
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var hundred = decimal.NewFromInt(100)

// Cart корзина одной сессии. Создается на время запроса из снимка,
// после изменений сообщает через Pending, что делать со снимком.
// Не потокобезопасна: один экземпляр живет внутри одного запроса.
type Cart struct {
	state      CartState
	pending    Persist
	rejections []Rejection
	logger     *zap.SugaredLogger
}

// NewCart поднимает корзину из снимка; nil означает, что корзины еще нет
func NewCart(snapshot *CartState, logger *zap.SugaredLogger) *Cart {
	c := &Cart{logger: logger}

	if snapshot == nil {
		c.state = emptyState()
	} else {
		c.state = cloneState(snapshot)
		c.recalculate()
	}

	c.logger.Debugw("cart initialized", "items", len(c.state.Items))
	return c
}

func emptyState() CartState {
	return CartState{
		Items:           []*LineItem{},
		CartTotal:       decimal.Zero,
		DiscountAmount:  decimal.Zero,
		DiscountedTotal: decimal.Zero,
	}
}

// Insert добавляет один товар и возвращает его rowid.
// Товар с тем же id и теми же опциями заменяется целиком.
func (c *Cart) Insert(item Item) (string, bool) {
	rowID, ok := c.insert(item)
	if !ok {
		return "", false
	}

	c.save()
	return rowID, true
}

// InsertBatch добавляет несколько товаров. Невалидные пропускаются,
// true возвращается, если добавился хотя бы один.
func (c *Cart) InsertBatch(items []Item) bool {
	if len(items) == 0 {
		c.reject(Rejection{Reason: ReasonMissingField}, "insert must be passed at least one item")
		return false
	}

	saveCart := false
	for _, item := range items {
		if _, ok := c.insert(item); ok {
			saveCart = true
		}
	}

	if !saveCart {
		return false
	}

	c.save()
	return true
}

func (c *Cart) insert(item Item) (string, bool) {
	if item.ID == "" || item.Qty == "" || item.Price == "" || item.Name == "" {
		c.reject(Rejection{Reason: ReasonMissingField, ProductID: item.ID},
			"cart item must contain a product id, quantity, price and name")
		return "", false
	}

	qty, ok := parseQuantity(item.Qty)
	if !ok {
		c.reject(Rejection{Reason: ReasonInvalidQuantity, ProductID: item.ID}, "quantity is not a number or is too large")
		return "", false
	}
	if qty == 0 {
		// ноль, вставлять нечего, это не ошибка
		c.logger.Debugw("zero quantity, nothing to insert", "product_id", item.ID)
		return "", false
	}

	if !validProductID(item.ID) {
		c.reject(Rejection{Reason: ReasonInvalidID, ProductID: item.ID},
			"invalid product id, only alpha-numeric characters, dots, dashes and underscores are allowed")
		return "", false
	}

	if !validProductName(item.Name) {
		c.reject(Rejection{Reason: ReasonInvalidName, ProductID: item.ID},
			"invalid product name, only alpha-numeric characters, dashes, underscores, colons, dots and spaces are allowed")
		return "", false
	}

	price, ok := unitPrice(item.Price)
	if !ok {
		c.reject(Rejection{Reason: ReasonInvalidPrice, ProductID: item.ID}, "price is not a number")
		return "", false
	}

	rowID := RowID(item.ID, item.Options)
	if idx := c.indexOf(rowID); idx >= 0 {
		c.removeAt(idx)
	}

	c.state.Items = append(c.state.Items, &LineItem{
		RowID:     rowID,
		ProductID: item.ID,
		Name:      item.Name,
		Quantity:  qty,
		Price:     price,
		Options:   copyOptions(item.Options),
		Extra:     copyExtra(item.Extra),
	})

	return rowID, true
}

// Update меняет количество у позиции; ноль удаляет позицию
func (c *Cart) Update(u Update) bool {
	if !c.update(u) {
		return false
	}

	c.save()
	return true
}

// UpdateBatch применяет несколько изменений, true, если применилось хотя бы одно
func (c *Cart) UpdateBatch(updates []Update) bool {
	saveCart := false
	for _, u := range updates {
		if c.update(u) {
			saveCart = true
		}
	}

	if !saveCart {
		return false
	}

	c.save()
	return true
}

func (c *Cart) update(u Update) bool {
	if u.RowID == "" || u.Qty == "" {
		c.reject(Rejection{Reason: ReasonMissingField, RowID: u.RowID}, "update must contain a rowid and quantity")
		return false
	}

	qty, ok := parseQuantity(u.Qty)
	if !ok {
		c.reject(Rejection{Reason: ReasonInvalidQuantity, RowID: u.RowID}, "quantity is not a number or is too large")
		return false
	}

	idx := c.indexOf(u.RowID)
	if idx < 0 {
		c.logger.Debugw("row is not in the cart, skipping update", "row_id", u.RowID)
		return false
	}

	if c.state.Items[idx].Quantity == qty {
		return false
	}

	if qty == 0 {
		c.removeAt(idx)
	} else {
		c.state.Items[idx].Quantity = qty
	}

	return true
}

// ApplyDiscount ставит скидку вместо предыдущей.
// Процент считается от текущей суммы корзины.
func (c *Cart) ApplyDiscount(d Discount) bool {
	if d.Value == "" || d.Type == "" || d.Code == "" {
		c.reject(Rejection{Reason: ReasonMissingDiscountField}, "discount must contain a value, type and code")
		return false
	}

	value, err := decimal.NewFromString(strings.TrimSpace(d.Value))
	if err != nil || value.IsNegative() {
		c.reject(Rejection{Reason: ReasonInvalidDiscountValue}, "discount value is not a non-negative number")
		return false
	}

	var amount decimal.Decimal
	switch d.Type {
	case DiscountPercentage:
		amount = value.Div(hundred).Mul(c.state.CartTotal)
	case DiscountFixed:
		amount = value
	default:
		c.reject(Rejection{Reason: ReasonInvalidDiscountType}, "unknown discount type "+d.Type)
		return false
	}

	c.state.DiscountAmount = amount
	c.state.DiscountCode = d.Code
	c.save()

	return true
}

// Destroy очищает корзину и снимок в хранилище
func (c *Cart) Destroy() {
	c.state = emptyState()
	c.pending = PersistForget
}

// save пересчитывает итоги и решает, что делать со снимком
func (c *Cart) save() bool {
	c.recalculate()

	if len(c.state.Items) == 0 {
		c.pending = PersistForget
		return false
	}

	c.pending = PersistSave
	return true
}

func (c *Cart) recalculate() {
	total := decimal.Zero
	var count int64

	items := c.state.Items[:0]
	for _, item := range c.state.Items {
		if item == nil || item.Quantity <= 0 {
			continue
		}
		if item.Quantity > MaxQuantity {
			c.logger.Warnw("dropping row with quantity over the limit",
				"row_id", item.RowID,
				"quantity", item.Quantity,
			)
			continue
		}

		item.Subtotal = item.Price.Mul(decimal.NewFromInt(item.Quantity))
		total = total.Add(item.Subtotal)
		count += item.Quantity
		items = append(items, item)
	}

	c.state.Items = items
	c.state.TotalItems = count
	c.state.CartTotal = total
	c.state.DiscountedTotal = total.Sub(c.state.DiscountAmount)
}

func (c *Cart) reject(r Rejection, msg string) {
	c.rejections = append(c.rejections, r)
	c.logger.Warnw(msg,
		"reason", string(r.Reason),
		"product_id", r.ProductID,
		"row_id", r.RowID,
	)
}

func (c *Cart) indexOf(rowID string) int {
	for i, item := range c.state.Items {
		if item.RowID == rowID {
			return i
		}
	}
	return -1
}

func (c *Cart) removeAt(idx int) {
	c.state.Items = append(c.state.Items[:idx], c.state.Items[idx+1:]...)
}

// Pending что сделать со снимком после последней операции
func (c *Cart) Pending() Persist {
	return c.pending
}

// Rejections отказы, накопленные за время жизни корзины
func (c *Cart) Rejections() []Rejection {
	return append([]Rejection(nil), c.rejections...)
}

// Contents возвращает копию всего снимка
func (c *Cart) Contents() CartState {
	return cloneState(&c.state)
}

func (c *Cart) Total() decimal.Decimal {
	return c.state.CartTotal
}

func (c *Cart) TotalItems() int64 {
	return c.state.TotalItems
}

func (c *Cart) DiscountAmount() decimal.Decimal {
	return c.state.DiscountAmount
}

func (c *Cart) DiscountCode() string {
	return c.state.DiscountCode
}

func (c *Cart) DiscountedTotal() decimal.Decimal {
	return c.state.DiscountedTotal
}

// HasOptions есть ли у позиции выбранные опции
func (c *Cart) HasOptions(rowID string) bool {
	idx := c.indexOf(rowID)
	return idx >= 0 && len(c.state.Items[idx].Options) > 0
}

// ProductOptions опции позиции; для неизвестной позиции пустая мапа
func (c *Cart) ProductOptions(rowID string) map[string]string {
	idx := c.indexOf(rowID)
	if idx < 0 {
		return map[string]string{}
	}

	opts := copyOptions(c.state.Items[idx].Options)
	if opts == nil {
		return map[string]string{}
	}
	return opts
}

func cloneState(s *CartState) CartState {
	out := *s
	out.Items = make([]*LineItem, 0, len(s.Items))
	for _, item := range s.Items {
		if item == nil {
			continue
		}
		cp := *item
		cp.Options = copyOptions(item.Options)
		cp.Extra = copyExtra(item.Extra)
		out.Items = append(out.Items, &cp)
	}
	return out
}

func copyOptions(in map[string]string) map[string]string {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func copyExtra(in map[string]any) map[string]any {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
