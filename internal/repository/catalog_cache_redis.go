package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"coffee-reco/internal/domain"
)

type redisKVClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// redisCatalogCache guarda el catalogo completo en redis. Ante cualquier fallo de
// redis delega en el repositorio subyacente (fail-open).
type redisCatalogCache struct {
	next   CatalogRepository
	client redisKVClient
	ttl    time.Duration
	key    string
	logger *zap.Logger
}

// NewRedisCatalogCache envuelve next con una cache en redis. Con client nil devuelve next.
func NewRedisCatalogCache(next CatalogRepository, client *redis.Client, ttl time.Duration, logger *zap.Logger) CatalogRepository {
	if client == nil {
		return next
	}
	return newRedisCatalogCache(next, client, ttl, logger)
}

func newRedisCatalogCache(next CatalogRepository, client redisKVClient, ttl time.Duration, logger *zap.Logger) *redisCatalogCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &redisCatalogCache{
		next:   next,
		client: client,
		ttl:    ttl,
		key:    "catalog:profiles",
		logger: logger,
	}
}

func (c *redisCatalogCache) FetchProfiles(ctx context.Context) ([]domain.CoffeeProfile, error) {
	if cached, ok := c.load(ctx); ok {
		return cached, nil
	}

	profiles, err := c.next.FetchProfiles(ctx)
	if err != nil {
		return nil, err
	}
	c.store(ctx, profiles)
	return profiles, nil
}

func (c *redisCatalogCache) GetProfile(ctx context.Context, coffeeID int64) (domain.CoffeeProfile, error) {
	return c.next.GetProfile(ctx, coffeeID)
}

// Invalidate descarta el catalogo cacheado.
func (c *redisCatalogCache) Invalidate(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()
	return c.client.Del(ctx, c.key).Err()
}

func (c *redisCatalogCache) load(ctx context.Context) ([]domain.CoffeeProfile, bool) {
	ctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()

	raw, err := c.client.Get(ctx, c.key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("catalog cache get failed", zap.Error(err))
		}
		return nil, false
	}
	var profiles []domain.CoffeeProfile
	if err := json.Unmarshal(raw, &profiles); err != nil {
		c.logger.Warn("catalog cache decode failed", zap.Error(err))
		return nil, false
	}
	return profiles, true
}

func (c *redisCatalogCache) store(ctx context.Context, profiles []domain.CoffeeProfile) {
	payload, err := json.Marshal(profiles)
	if err != nil {
		c.logger.Warn("catalog cache encode failed", zap.Error(err))
		return
	}
	ctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()
	if err := c.client.Set(ctx, c.key, payload, c.ttl).Err(); err != nil {
		c.logger.Warn("catalog cache set failed", zap.Error(err))
	}
}
