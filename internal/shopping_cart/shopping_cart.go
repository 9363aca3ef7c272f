package shopping_cart

import (
	"context"

	"github.com/shopspring/decimal"
)

// LineItem одна позиция корзины: товар с выбранными опциями
type LineItem struct {
	RowID     string            `json:"rowid"`
	ProductID string            `json:"id"`
	Name      string            `json:"name"`
	Quantity  int64             `json:"qty"`
	Price     decimal.Decimal   `json:"price"`
	Options   map[string]string `json:"options,omitempty"`
	Subtotal  decimal.Decimal   `json:"subtotal"`
	// Extra произвольные поля, переданные вместе с товаром
	Extra map[string]any `json:"extra,omitempty"`
}

// CartState снимок корзины, который кладется в хранилище сессии.
// TotalItems, CartTotal и DiscountedTotal всегда вычисляются, а не задаются руками.
type CartState struct {
	Items           []*LineItem     `json:"items"`
	TotalItems      int64           `json:"total_items"`
	CartTotal       decimal.Decimal `json:"cart_total"`
	DiscountAmount  decimal.Decimal `json:"discount_amount"`
	DiscountCode    string          `json:"discount_code"`
	DiscountedTotal decimal.Decimal `json:"discounted_total"`
}

// Item входные данные для вставки товара.
// Qty и Price приходят строками и нормализуются перед проверкой.
type Item struct {
	ID      string
	Qty     string
	Price   string
	Name    string
	Options map[string]string
	Extra   map[string]any
}

// Update изменение количества у существующей позиции
type Update struct {
	RowID string `json:"rowid"`
	Qty   string `json:"qty"`
}

// Discount параметры скидки: Type: "percentage" или "fixed"
type Discount struct {
	Value string `json:"value"`
	Type  string `json:"type"`
	Code  string `json:"code"`
}

const (
	DiscountPercentage = "percentage"
	DiscountFixed      = "fixed"
)

// Persist что хранилищу нужно сделать со снимком после операции
type Persist int

const (
	PersistNone Persist = iota
	PersistSave
	PersistForget
)

func (p Persist) String() string {
	switch p {
	case PersistSave:
		return "save"
	case PersistForget:
		return "forget"
	default:
		return "none"
	}
}

// Reason причина отказа, уходит в лог и в ответ клиенту
type Reason string

const (
	ReasonMissingField         Reason = "missing-field"
	ReasonInvalidID            Reason = "invalid-id"
	ReasonInvalidName          Reason = "invalid-name"
	ReasonInvalidQuantity      Reason = "invalid-quantity"
	ReasonInvalidPrice         Reason = "invalid-price"
	ReasonMissingDiscountField Reason = "missing-discount-field"
	ReasonInvalidDiscountValue Reason = "invalid-discount-value"
	ReasonInvalidDiscountType  Reason = "invalid-discount-type"
)

// Rejection отклоненный товар или операция
type Rejection struct {
	Reason    Reason `json:"reason"`
	ProductID string `json:"id,omitempty"`
	RowID     string `json:"rowid,omitempty"`
}

// SnapshotStore хранилище снимков корзины по идентификатору сессии
//
//go:generate mockgen -source=shopping_cart.go -destination=../mocks/mock_snapshot_store.go -package=mocks
type SnapshotStore interface {
	// Get возвращает снимок или ErrNotFound, если корзины нет
	Get(ctx context.Context, sessionID string) (*CartState, error)
	// Put сохраняет снимок целиком
	Put(ctx context.Context, sessionID string, state *CartState) error
	// Forget удаляет снимок
	Forget(ctx context.Context, sessionID string) error
}
