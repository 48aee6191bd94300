package oauthstate

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"
)

type MemoryStore struct {
	cache *cache.Cache
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryStore{cache: cache.New(ttl, 2*ttl)}
}

func (s *MemoryStore) Save(_ context.Context, state string, login Login) error {
	s.cache.SetDefault(state, login)
	return nil
}

func (s *MemoryStore) Take(_ context.Context, state string) (Login, bool, error) {
	v, ok := s.cache.Get(state)
	if !ok {
		return Login{}, false, nil
	}
	s.cache.Delete(state)
	return v.(Login), true, nil
}
