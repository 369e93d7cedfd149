package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/sangkips/hotelpos-api/internal/config"
	"github.com/sangkips/hotelpos-api/internal/domain/entity"
)

// ConnectRedis opens a client and checks it with a ping.
func ConnectRedis(cfg *config.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	log.Printf("Connected to Redis at %s", cfg.Addr)
	return rdb, nil
}

// SettingsCache keeps each business's settings document in Redis.
type SettingsCache interface {
	Get(ctx context.Context, businessID uuid.UUID) (*entity.Settings, error)
	Set(ctx context.Context, businessID uuid.UUID, s entity.Settings) error
	Delete(ctx context.Context, businessID uuid.UUID) error
}

// ErrMiss is returned by Get when nothing is cached.
var ErrMiss = errors.New("cache miss")

type redisSettingsCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewSettingsCache creates a Redis backed settings cache.
func NewSettingsCache(rdb *redis.Client, ttl time.Duration) SettingsCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &redisSettingsCache{rdb: rdb, ttl: ttl}
}

// SettingsKey is the Redis key holding a business's settings.
func SettingsKey(businessID uuid.UUID) string {
	return "hotelpos:settings:" + businessID.String()
}

func (c *redisSettingsCache) Get(ctx context.Context, businessID uuid.UUID) (*entity.Settings, error) {
	raw, err := c.rdb.Get(ctx, SettingsKey(businessID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, err
	}

	var s entity.Settings
	if err := json.Unmarshal(raw, &s); err != nil {
		// Drop an unreadable entry so the next read repopulates it.
		_ = c.rdb.Del(ctx, SettingsKey(businessID)).Err()
		return nil, ErrMiss
	}
	return &s, nil
}

func (c *redisSettingsCache) Set(ctx context.Context, businessID uuid.UUID, s entity.Settings) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, SettingsKey(businessID), raw, c.ttl).Err()
}

func (c *redisSettingsCache) Delete(ctx context.Context, businessID uuid.UUID) error {
	return c.rdb.Del(ctx, SettingsKey(businessID)).Err()
}

// NoopSettingsCache always misses. It is used when Redis is not configured.
type NoopSettingsCache struct{}

func (NoopSettingsCache) Get(context.Context, uuid.UUID) (*entity.Settings, error) {
	return nil, ErrMiss
}
func (NoopSettingsCache) Set(context.Context, uuid.UUID, entity.Settings) error { return nil }
func (NoopSettingsCache) Delete(context.Context, uuid.UUID) error               { return nil }
