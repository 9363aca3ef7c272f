package session

import (
	"context"
	"net/http"
	"time"
)

// Session - гостевая сессия, к которой привязана корзина
type Session struct {
	ID        string
	StartTime time.Time
	EndTime   time.Time
}

// SessionRepo - репозиторий для работы с сессиями
//
//go:generate mockgen -source=session.go -destination=../mocks/mock_session_repo.go -package=mocks
type SessionRepo interface {
	// CreateSession - создает новую сессию и кладет ее в Redis
	// Возвращает Session и подписанный JWT токен
	CreateSession(ctx context.Context) (*Session, string, error)
	// CheckSession - проверяет существование сессии в Redis и не истекла ли она
	// Возвращает *Session в случае успеха, иначе nil
	CheckSession(r *http.Request) (*Session, error)

	// ExtendSession - продлевает сессию, если пользователь активно пользуется корзиной
	// Возвращает error
	ExtendSession(ctx context.Context, sessionID string) error
}
