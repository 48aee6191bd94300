package oauthstate

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "oauth_state:"

type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisStore{rdb: rdb, ttl: ttl}
}

func (s *RedisStore) Save(ctx context.Context, state string, login Login) error {
	payload, err := json.Marshal(login)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, keyPrefix+state, payload, s.ttl).Err()
}

func (s *RedisStore) Take(ctx context.Context, state string) (Login, bool, error) {
	payload, err := s.rdb.GetDel(ctx, keyPrefix+state).Bytes()
	if errors.Is(err, redis.Nil) {
		return Login{}, false, nil
	}
	if err != nil {
		return Login{}, false, err
	}

	var login Login
	if err := json.Unmarshal(payload, &login); err != nil {
		return Login{}, false, err
	}
	return login, true, nil
}
