package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/anyulbade/agency-platform/internal/model"
)

const keyPrefix = "traffic_analysis:"

// RedisReportStore keeps report cache entries in Redis. Keys expire after
// ttl; freshness is still decided from LastUpdated by the caller.
type RedisReportStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisClient(redisURL string) (*redis.Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	log.Info().Str("addr", opt.Addr).Msg("redis connection established")
	return client, nil
}

func NewRedisReportStore(client *redis.Client, ttl time.Duration) *RedisReportStore {
	return &RedisReportStore{client: client, ttl: ttl}
}

func (s *RedisReportStore) Get(ctx context.Context, domain, country string) (*model.ReportCacheEntry, error) {
	data, err := s.client.Get(ctx, Key(domain, country)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get cached report: %w", err)
	}

	var entry model.ReportCacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("decode cached report: %w", err)
	}
	return &entry, nil
}

func (s *RedisReportStore) Upsert(ctx context.Context, entry *model.ReportCacheEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	if err := s.client.Set(ctx, Key(entry.Domain, entry.Country), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("set cached report: %w", err)
	}
	return nil
}

func (s *RedisReportStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Key builds the composite cache key for (domain, country).
func Key(domain, country string) string {
	return keyPrefix + domain + ":" + country
}
