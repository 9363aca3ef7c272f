package middleware

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"gafroshka-cart/internal/session"
	myErr "gafroshka-cart/internal/types/errors"
)

type SessKey string

var sessKey SessKey = "sessionKey"

// SessionTokenHeader в этом заголовке отдаем токен новой гостевой сессии
const SessionTokenHeader = "X-Session-Token"

// Session находит гостевую сессию по токену или заводит новую.
// Живую сессию продлевает, новую отдает клиенту в заголовке X-Session-Token.
func Session(sm session.SessionRepo, logger *zap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Проверка сессии пользователя
			sess, err := sm.CheckSession(r)
			if err != nil {
				// сбой хранилища не повод терять корзину клиента
				if !needsNewSession(err) {
					myErr.SendErrorTo(w, err, http.StatusInternalServerError, logger)
					return
				}

				var token string
				sess, token, err = sm.CreateSession(r.Context())
				if err != nil {
					myErr.SendErrorTo(w, err, http.StatusInternalServerError, logger)
					return
				}
				w.Header().Set(SessionTokenHeader, token)
			} else if err := sm.ExtendSession(r.Context(), sess.ID); err != nil {
				logger.Warnf("failed to extend session %s: %v", sess.ID, err)
			}

			// Добавляем сессию в контекст и передаем дальше
			ctx := ContextWithSession(r.Context(), sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// needsNewSession новую сессию заводим, только если старой нет или она недействительна
func needsNewSession(err error) bool {
	return errors.Is(err, myErr.ErrNoAuth) ||
		errors.Is(err, myErr.ErrSessionNotFound) ||
		errors.Is(err, myErr.ErrSessionIsExpired)
}

func ContextWithSession(ctx context.Context, s *session.Session) context.Context {
	// создаем новый контекст с нашим ключом и сессией
	return context.WithValue(ctx, sessKey, s)
}

func GetSessionFromContext(ctx context.Context) (*session.Session, bool) {
	sess, ok := ctx.Value(sessKey).(*session.Session)
	return sess, ok
}
