package state

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix  = "dialog:"
	stateField = "__state"

	// DefaultTTL время жизни брошенного диалога
	DefaultTTL = 24 * time.Hour
)

// RedisStore хранит состояние диалога в хэше dialog:<telegramID>,
// поле __state содержит шаг, остальные поля это данные диалога
type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

var _ Store = (*RedisStore)(nil)

func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisStore{rdb: rdb, ttl: ttl}
}

func (s *RedisStore) key(telegramID int64) string {
	return keyPrefix + strconv.FormatInt(telegramID, 10)
}

func (s *RedisStore) GetState(ctx context.Context, telegramID int64) (UserState, error) {
	value, err := s.rdb.HGet(ctx, s.key(telegramID), stateField).Result()
	if errors.Is(err, redis.Nil) {
		return StateNone, nil
	}
	if err != nil {
		return StateNone, fmt.Errorf("get dialog state: %w", err)
	}
	return UserState(value), nil
}

func (s *RedisStore) SetState(ctx context.Context, telegramID int64, state UserState) error {
	if state == StateNone {
		return s.ClearState(ctx, telegramID)
	}
	return s.write(ctx, telegramID, stateField, string(state))
}

func (s *RedisStore) GetData(ctx context.Context, telegramID int64, key string) (string, bool, error) {
	value, err := s.rdb.HGet(ctx, s.key(telegramID), key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get dialog data %s: %w", key, err)
	}
	return value, true, nil
}

func (s *RedisStore) SetData(ctx context.Context, telegramID int64, key, value string) error {
	return s.write(ctx, telegramID, key, value)
}

func (s *RedisStore) GetAllData(ctx context.Context, telegramID int64) (map[string]string, error) {
	all, err := s.rdb.HGetAll(ctx, s.key(telegramID)).Result()
	if err != nil {
		return nil, fmt.Errorf("get dialog data: %w", err)
	}
	delete(all, stateField)
	return all, nil
}

func (s *RedisStore) ClearState(ctx context.Context, telegramID int64) error {
	if err := s.rdb.Del(ctx, s.key(telegramID)).Err(); err != nil {
		return fmt.Errorf("clear dialog state: %w", err)
	}
	return nil
}

// write обновляет поле и продлевает TTL одной транзакцией
func (s *RedisStore) write(ctx context.Context, telegramID int64, field, value string) error {
	key := s.key(telegramID)
	_, err := s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, field, value)
		pipe.Expire(ctx, key, s.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("write dialog %s: %w", field, err)
	}
	return nil
}
