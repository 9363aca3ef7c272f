package shopping_cart

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	myErr "gafroshka-cart/internal/types/errors"
)

func setupPostgres(t *testing.T) (*PostgresSnapshotStore, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("ошибка при создании mock db: %s", err)
	}

	store := &PostgresSnapshotStore{
		DB:     db,
		Logger: zaptest.NewLogger(t).Sugar(),
	}

	cleanup := func() {
		db.Close()
	}

	return store, mock, cleanup
}

func TestPostgresSnapshotStore_Get(t *testing.T) {
	c := newTestCart(t)
	c.Insert(Item{ID: "sku1", Qty: "2", Price: "5.25", Name: "Widget"})
	state := c.Contents()
	contents, err := json.Marshal(state)
	require.NoError(t, err)

	tests := []struct {
		name          string
		mockBehavior  func(mock sqlmock.Sqlmock)
		expectedError error
	}{
		{
			name: "успешное получение",
			mockBehavior: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows([]string{"contents"}).AddRow(contents)
				mock.ExpectQuery(regexp.QuoteMeta("SELECT contents FROM cart_snapshots WHERE session_id = $1")).
					WithArgs("sess-1").
					WillReturnRows(rows)
			},
		},
		{
			name: "корзины нет",
			mockBehavior: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(regexp.QuoteMeta("SELECT contents FROM cart_snapshots WHERE session_id = $1")).
					WithArgs("sess-1").
					WillReturnError(sql.ErrNoRows)
			},
			expectedError: myErr.ErrNotFound,
		},
		{
			name: "ошибка БД",
			mockBehavior: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(regexp.QuoteMeta("SELECT contents FROM cart_snapshots WHERE session_id = $1")).
					WithArgs("sess-1").
					WillReturnError(errors.New("db failure"))
			},
			expectedError: myErr.ErrDBInternal,
		},
		{
			name: "битый снимок",
			mockBehavior: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows([]string{"contents"}).AddRow([]byte("{oops"))
				mock.ExpectQuery(regexp.QuoteMeta("SELECT contents FROM cart_snapshots WHERE session_id = $1")).
					WithArgs("sess-1").
					WillReturnRows(rows)
			},
			expectedError: myErr.ErrDBInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, mock, cleanup := setupPostgres(t)
			defer cleanup()

			tt.mockBehavior(mock)

			got, err := store.Get(context.Background(), "sess-1")
			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.True(t, errors.Is(err, tt.expectedError))
			} else {
				require.NoError(t, err)
				require.Len(t, got.Items, 1)
				assert.True(t, got.CartTotal.Equal(dec("10.50")))
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestPostgresSnapshotStore_Put(t *testing.T) {
	tests := []struct {
		name          string
		mockBehavior  func(mock sqlmock.Sqlmock)
		expectedError error
	}{
		{
			name: "успешное сохранение",
			mockBehavior: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(regexp.QuoteMeta("INSERT INTO cart_snapshots(session_id, contents, updated_at) VALUES ($1, $2, now())")).
					WithArgs("sess-1", sqlmock.AnyArg()).
					WillReturnResult(sqlmock.NewResult(1, 1))
			},
		},
		{
			name: "ошибка БД",
			mockBehavior: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(regexp.QuoteMeta("INSERT INTO cart_snapshots(session_id, contents, updated_at) VALUES ($1, $2, now())")).
					WithArgs("sess-1", sqlmock.AnyArg()).
					WillReturnError(errors.New("db error"))
			},
			expectedError: myErr.ErrDBInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, mock, cleanup := setupPostgres(t)
			defer cleanup()

			tt.mockBehavior(mock)

			state := emptyState()
			err := store.Put(context.Background(), "sess-1", &state)
			if tt.expectedError != nil {
				assert.True(t, errors.Is(err, tt.expectedError))
			} else {
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestPostgresSnapshotStore_Forget(t *testing.T) {
	tests := []struct {
		name          string
		mockBehavior  func(mock sqlmock.Sqlmock)
		expectedError error
	}{
		{
			name: "успешное удаление",
			mockBehavior: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(regexp.QuoteMeta("DELETE FROM cart_snapshots WHERE session_id = $1")).
					WithArgs("sess-1").
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name: "ошибка БД",
			mockBehavior: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(regexp.QuoteMeta("DELETE FROM cart_snapshots WHERE session_id = $1")).
					WithArgs("sess-1").
					WillReturnError(errors.New("delete failed"))
			},
			expectedError: myErr.ErrDBInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, mock, cleanup := setupPostgres(t)
			defer cleanup()

			tt.mockBehavior(mock)

			err := store.Forget(context.Background(), "sess-1")
			if tt.expectedError != nil {
				assert.True(t, errors.Is(err, tt.expectedError))
			} else {
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
