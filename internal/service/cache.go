package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/xela07ax/playtrace/internal/domain"
	"github.com/xela07ax/playtrace/internal/infra"
	"go.uber.org/zap"
)

// ZoneCache — короткоживущий кэш результатов кластеризации в Redis.
// Инвалидация версионная: ингест и удаления инкрементят счетчик версии
// уровня, ключи старой версии перестают находиться и доживают TTL.
// Любая ошибка Redis мягкая: логируем и пересчитываем.
type ZoneCache struct {
	rdb     *redis.Client // nil — кэш выключен
	ttl     time.Duration
	metrics *infra.Metrics
	logger  *zap.Logger
}

func NewZoneCache(rdb *redis.Client, ttl time.Duration, metrics *infra.Metrics, logger *zap.Logger) *ZoneCache {
	return &ZoneCache{
		rdb:     rdb,
		ttl:     ttl,
		metrics: metrics,
		logger:  logger.Named("zone-cache"),
	}
}

func (c *ZoneCache) version(ctx context.Context, levelID string) int64 {
	v, err := c.rdb.Get(ctx, infra.LevelVersionKey(levelID)).Int64()
	if err != nil && err != redis.Nil {
		c.logger.Warn("level version lookup failed", zap.Error(err))
	}
	return v // redis.Nil дает 0 — исходная версия
}

// Get достает закэшированный результат для текущей версии данных уровня.
func (c *ZoneCache) Get(ctx context.Context, levelID, sessionID string, eps float64, minSamples int) (*domain.ZoneResult, bool) {
	if c.rdb == nil {
		return nil, false
	}

	key := infra.ZonesCacheKey(levelID, sessionID, c.version(ctx, levelID), eps, minSamples)
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("cache read failed", zap.String("key", key), zap.Error(err))
		}
		c.metrics.CacheMisses.Inc()
		return nil, false
	}

	var result domain.ZoneResult
	if err := json.Unmarshal(raw, &result); err != nil {
		c.logger.Warn("cache entry corrupted", zap.String("key", key), zap.Error(err))
		c.metrics.CacheMisses.Inc()
		return nil, false
	}

	c.metrics.CacheHits.Inc()
	return &result, true
}

// Put сохраняет результат под текущей версией уровня.
func (c *ZoneCache) Put(ctx context.Context, result *domain.ZoneResult) {
	if c.rdb == nil || result == nil {
		return
	}

	raw, err := json.Marshal(result)
	if err != nil {
		return
	}
	key := infra.ZonesCacheKey(result.LevelID, result.SessionID,
		c.version(ctx, result.LevelID), result.Parameters.Eps, result.Parameters.MinSamples)
	if err := c.rdb.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		c.logger.Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}
}

// Invalidate сдвигает версию данных уровня после записи или удаления.
func (c *ZoneCache) Invalidate(ctx context.Context, levelID string) {
	if c.rdb == nil || levelID == "" {
		return
	}
	if err := c.rdb.Incr(ctx, infra.LevelVersionKey(levelID)).Err(); err != nil {
		c.logger.Warn("cache invalidation failed", zap.String("level_id", levelID), zap.Error(err))
	}
}
