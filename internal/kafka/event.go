package kafka

import "time"

type EventType string

const (
	EventTypeInserted        EventType = "cart.inserted"
	EventTypeUpdated         EventType = "cart.updated"
	EventTypeDiscountApplied EventType = "cart.discount_applied"
	EventTypeDestroyed       EventType = "cart.destroyed"
)

// Event событие изменения корзины сессии
type Event struct {
	SessionID    string    `json:"session_id"`
	Type         EventType `json:"type"`
	RowIDs       []string  `json:"row_ids,omitempty"`
	TotalItems   int64     `json:"total_items"`
	CartTotal    string    `json:"cart_total"`
	DiscountCode string    `json:"discount_code,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
}
