package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"fxconvert-service/internal/application"
	"fxconvert-service/internal/domain"
	infraconfig "fxconvert-service/internal/infrastructure/config"

	"github.com/redis/go-redis/v9"
)

var _ application.RateStore = (*RateStore)(nil)

// RateStore keeps one JSON document per pair key. Redis expires keys after TTL.
type RateStore struct {
	Client *redis.Client
	TTL    time.Duration
	Prefix string
}

type rateDoc struct {
	Key       string    `json:"key"`
	Rate      *float64  `json:"rate"`
	CreatedAt time.Time `json:"createdAt"`
}

func New(client *redis.Client, ttl time.Duration) *RateStore {
	return &RateStore{Client: client, TTL: ttl, Prefix: infraconfig.DefaultRateKeyPrefix}
}

func (s *RateStore) Get(ctx context.Context, key string) (domain.RateCacheEntry, error) {
	raw, err := s.Client.Get(ctx, s.Prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.RateCacheEntry{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.RateCacheEntry{}, fmt.Errorf("redis get %s: %w", key, err)
	}
	var doc rateDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return domain.RateCacheEntry{}, fmt.Errorf("%w: %s: %v", domain.ErrMalformed, key, err)
	}
	if doc.Rate == nil {
		return domain.RateCacheEntry{}, fmt.Errorf("%w: %s: missing rate", domain.ErrMalformed, key)
	}
	return domain.RateCacheEntry{Key: key, Rate: *doc.Rate, CreatedAt: doc.CreatedAt}, nil
}

// Upsert replaces the pair document and restarts its expiry.
func (s *RateStore) Upsert(ctx context.Context, e domain.RateCacheEntry) error {
	rate := e.Rate
	b, err := json.Marshal(rateDoc{Key: e.Key, Rate: &rate, CreatedAt: e.CreatedAt.UTC()})
	if err != nil {
		return fmt.Errorf("encode %s: %w", e.Key, err)
	}
	if err := s.Client.Set(ctx, s.Prefix+e.Key, b, s.TTL).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", e.Key, err)
	}
	return nil
}

func (s *RateStore) Ping(ctx context.Context) error { return s.Client.Ping(ctx).Err() }
