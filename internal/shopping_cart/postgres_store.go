package shopping_cart

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"go.uber.org/zap"

	myErr "gafroshka-cart/internal/types/errors"
)

// PostgresSnapshotStore хранит снимки корзин в таблице cart_snapshots
type PostgresSnapshotStore struct {
	DB     *sql.DB
	Logger *zap.SugaredLogger
}

func NewPostgresSnapshotStore(db *sql.DB, logger *zap.SugaredLogger) *PostgresSnapshotStore {
	return &PostgresSnapshotStore{
		DB:     db,
		Logger: logger,
	}
}

// Get получает снимок корзины сессии
func (ps *PostgresSnapshotStore) Get(ctx context.Context, sessionID string) (*CartState, error) {
	query := `
	SELECT contents FROM cart_snapshots
	WHERE session_id = $1
`
	var contents []byte
	err := ps.DB.QueryRowContext(ctx, query, sessionID).Scan(&contents)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, myErr.ErrNotFound
		}

		ps.Logger.Errorf("Ошибка при получении корзины сессии %v: %v", sessionID, err)
		return nil, myErr.ErrDBInternal
	}

	var state CartState
	if err := json.Unmarshal(contents, &state); err != nil {
		ps.Logger.Errorf("Ошибка при разборе корзины сессии %v: %v", sessionID, err)
		return nil, myErr.ErrDBInternal
	}

	return &state, nil
}

// Put сохраняет снимок, перезаписывая предыдущий
func (ps *PostgresSnapshotStore) Put(ctx context.Context, sessionID string, state *CartState) error {
	contents, err := json.Marshal(state)
	if err != nil {
		ps.Logger.Errorf("Ошибка при кодировании корзины: %v", err)
		return myErr.ErrDBInternal
	}

	query := `
	INSERT INTO cart_snapshots(session_id, contents, updated_at)
	VALUES ($1, $2, now()) ON CONFLICT (session_id)
	DO UPDATE SET contents = EXCLUDED.contents, updated_at = EXCLUDED.updated_at
`
	_, err = ps.DB.ExecContext(ctx, query, sessionID, contents)
	if err != nil {
		ps.Logger.Errorf("Ошибка при сохранении корзины: %v", err)
		return myErr.ErrDBInternal
	}

	return nil
}

// Forget удаляет снимок; отсутствие снимка не ошибка
func (ps *PostgresSnapshotStore) Forget(ctx context.Context, sessionID string) error {
	query := `
	DELETE FROM cart_snapshots
	WHERE session_id = $1
`
	_, err := ps.DB.ExecContext(ctx, query, sessionID)
	if err != nil {
		ps.Logger.Errorf("Ошибка при удалении корзины: %v", err)
		return myErr.ErrDBInternal
	}

	return nil
}
