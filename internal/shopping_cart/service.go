package shopping_cart

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"gafroshka-cart/internal/kafka"
	myErr "gafroshka-cart/internal/types/errors"
)

// Service поднимает корзину сессии из хранилища и записывает результат обратно.
// Корзина живет только в рамках одного запроса.
type Service struct {
	Store  SnapshotStore
	Events kafka.EventProducer
	Logger *zap.SugaredLogger
}

func NewService(store SnapshotStore, events kafka.EventProducer, logger *zap.SugaredLogger) *Service {
	return &Service{
		Store:  store,
		Events: events,
		Logger: logger,
	}
}

// Load возвращает корзину сессии; если снимка нет, пустую
func (s *Service) Load(ctx context.Context, sessionID string) (*Cart, error) {
	state, err := s.Store.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, myErr.ErrNotFound) {
			return NewCart(nil, s.Logger), nil
		}

		return nil, err
	}

	return NewCart(state, s.Logger), nil
}

// Commit выполняет то, что корзина попросила сделать со снимком,
// и отправляет событие. Если корзина не менялась, ничего не пишет.
func (s *Service) Commit(ctx context.Context, sessionID string, c *Cart, eventType kafka.EventType, rowIDs ...string) error {
	for _, r := range c.Rejections() {
		cartRejectionsTotal.WithLabelValues(string(r.Reason)).Inc()
	}

	pending := c.Pending()
	switch pending {
	case PersistSave:
		state := c.Contents()
		if err := s.Store.Put(ctx, sessionID, &state); err != nil {
			return err
		}
	case PersistForget:
		if err := s.Store.Forget(ctx, sessionID); err != nil {
			return err
		}
	default:
		return nil
	}
	cartPersistTotal.WithLabelValues(pending.String()).Inc()

	event := kafka.Event{
		SessionID:    sessionID,
		Type:         eventType,
		RowIDs:       rowIDs,
		TotalItems:   c.TotalItems(),
		CartTotal:    c.Total().StringFixed(2),
		DiscountCode: c.DiscountCode(),
		Timestamp:    time.Now(),
	}
	if err := s.Events.SendEvent(ctx, event); err != nil {
		s.Logger.Warnf("failed to send %s event for cart %s: %v", eventType, sessionID, err)
	}

	return nil
}
