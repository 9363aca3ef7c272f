package shopping_cart

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	myErr "gafroshka-cart/internal/types/errors"
)

func setupRedisStore(t *testing.T, ttl time.Duration) (*RedisSnapshotStore, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
	return NewRedisSnapshotStore(rdb, zaptest.NewLogger(t).Sugar(), ttl), mr
}

func TestRedisSnapshotStore_RoundTrip(t *testing.T) {
	store, mr := setupRedisStore(t, time.Hour)
	ctx := context.Background()

	c := newTestCart(t)
	c.Insert(Item{ID: "sku1", Qty: "007", Price: "19.99", Name: "Widget", Options: map[string]string{"size": "L"}})
	c.ApplyDiscount(Discount{Value: "10", Type: DiscountPercentage, Code: "SALE10"})
	state := c.Contents()

	require.NoError(t, store.Put(ctx, "sess-1", &state))
	assert.True(t, mr.Exists("cart:sess-1"))
	assert.Equal(t, time.Hour, mr.TTL("cart:sess-1"))

	got, err := store.Get(ctx, "sess-1")
	require.NoError(t, err)

	restored := NewCart(got, zaptest.NewLogger(t).Sugar())
	assert.True(t, restored.Total().Equal(dec("139.93")))
	assert.True(t, restored.DiscountAmount().Equal(dec("13.993")))
	assert.Equal(t, "SALE10", restored.DiscountCode())
	assert.Equal(t, int64(7), restored.TotalItems())
	assert.Equal(t, map[string]string{"size": "L"}, restored.ProductOptions(state.Items[0].RowID))
}

func TestRedisSnapshotStore_GetMissing(t *testing.T) {
	store, _ := setupRedisStore(t, 0)

	got, err := store.Get(context.Background(), "nope")
	assert.Nil(t, got)
	assert.ErrorIs(t, err, myErr.ErrNotFound)
}

func TestRedisSnapshotStore_GetCorrupted(t *testing.T) {
	store, mr := setupRedisStore(t, 0)
	require.NoError(t, mr.Set("cart:sess-1", "{not json"))

	_, err := store.Get(context.Background(), "sess-1")
	assert.ErrorIs(t, err, myErr.ErrStore)
}

func TestRedisSnapshotStore_Forget(t *testing.T) {
	store, mr := setupRedisStore(t, 0)
	require.NoError(t, mr.Set("cart:sess-1", "{}"))

	require.NoError(t, store.Forget(context.Background(), "sess-1"))
	assert.False(t, mr.Exists("cart:sess-1"))

	// повторное удаление не ошибка
	assert.NoError(t, store.Forget(context.Background(), "sess-1"))
}

func TestRedisSnapshotStore_Unavailable(t *testing.T) {
	store, mr := setupRedisStore(t, 0)
	mr.Close()

	state := emptyState()
	assert.ErrorIs(t, store.Put(context.Background(), "sess-1", &state), myErr.ErrStore)
}

func TestRedisSnapshotStore_LogsStructuredFields(t *testing.T) {
	store, mr := setupRedisStore(t, 0)
	core, logs := observer.New(zapcore.ErrorLevel)
	store.Logger = zap.New(core).Sugar()
	require.NoError(t, mr.Set("cart:sess-1", "{not json"))

	_, err := store.Get(context.Background(), "sess-1")
	require.Error(t, err)

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "Failed decode cart from JSON", entries[0].Message)
	fields := entries[0].ContextMap()
	assert.Equal(t, "sess-1", fields["sessionID"])
	assert.Contains(t, fields, "error")
}
