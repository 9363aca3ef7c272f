package contextutil

import (
	"context"

	"gafroshka-cart/internal/middleware"
)

// GetSessionIDFromContext извлекает id гостевой сессии из контекста
func GetSessionIDFromContext(ctx context.Context) (string, bool) {
	sess, ok := middleware.GetSessionFromContext(ctx)
	if !ok || sess == nil {
		return "", false
	}
	return sess.ID, true
}
