package shopping_cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	myErr "gafroshka-cart/internal/types/errors"
)

const redisKeyPrefix = "cart:"

// RedisSnapshotStore хранит снимки корзин в Redis в виде JSON
type RedisSnapshotStore struct {
	RedisClient *redis.Client
	Logger      *zap.SugaredLogger
	ttl         time.Duration
}

// NewRedisSnapshotStore ttl == 0, снимки живут без срока
func NewRedisSnapshotStore(redisClient *redis.Client, logger *zap.SugaredLogger, ttl time.Duration) *RedisSnapshotStore {
	return &RedisSnapshotStore{
		RedisClient: redisClient,
		Logger:      logger,
		ttl:         ttl,
	}
}

func redisKey(sessionID string) string {
	return redisKeyPrefix + sessionID
}

func (s *RedisSnapshotStore) Get(ctx context.Context, sessionID string) (*CartState, error) {
	data, err := s.RedisClient.Get(ctx, redisKey(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, myErr.ErrNotFound
		}

		s.Logger.Errorw("Failed get cart from Redis",
			"error", err,
			"sessionID", sessionID,
		)
		return nil, fmt.Errorf("%w: %v", myErr.ErrStore, err)
	}

	var state CartState
	if err = json.Unmarshal(data, &state); err != nil {
		s.Logger.Errorw("Failed decode cart from JSON",
			"error", err,
			"sessionID", sessionID,
		)
		return nil, fmt.Errorf("%w: %v", myErr.ErrStore, err)
	}

	return &state, nil
}

func (s *RedisSnapshotStore) Put(ctx context.Context, sessionID string, state *CartState) error {
	data, err := json.Marshal(state)
	if err != nil {
		s.Logger.Errorw("Failed encode cart to JSON",
			"error", err,
			"sessionID", sessionID,
		)
		return fmt.Errorf("%w: %v", myErr.ErrStore, err)
	}

	if err = s.RedisClient.Set(ctx, redisKey(sessionID), data, s.ttl).Err(); err != nil {
		s.Logger.Errorw("Failed save cart to Redis",
			"error", err,
			"sessionID", sessionID,
		)
		return fmt.Errorf("%w: %v", myErr.ErrStore, err)
	}

	s.Logger.Debugf("cart %s saved to Redis", sessionID)
	return nil
}

func (s *RedisSnapshotStore) Forget(ctx context.Context, sessionID string) error {
	if err := s.RedisClient.Del(ctx, redisKey(sessionID)).Err(); err != nil {
		s.Logger.Errorw("Failed delete cart from Redis",
			"error", err,
			"sessionID", sessionID,
		)
		return fmt.Errorf("%w: %v", myErr.ErrStore, err)
	}

	return nil
}
