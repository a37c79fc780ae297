package quality

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/lk2023060901/rag-chunker/internal/knowledge/types"
	"github.com/lk2023060901/rag-chunker/internal/pkg/logger"
	"github.com/lk2023060901/rag-chunker/internal/pkg/redis"
)

// DefaultRedisPrefix 默认键前缀
const DefaultRedisPrefix = "chunker:quality:"

// RedisCache 基于 Redis 的共享缓存，Redis 异常时按未命中处理
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
	logger *logger.Logger
}

// NewRedisCache 创建 Redis 缓存，ttl 为 0 表示不过期
func NewRedisCache(client *redis.Client, ttl time.Duration, prefix string, log *logger.Logger) *RedisCache {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	if log == nil {
		log = logger.Nop()
	}
	return &RedisCache{
		client: client,
		ttl:    ttl,
		prefix: prefix,
		logger: log,
	}
}

// Get 读取缓存
func (c *RedisCache) Get(ctx context.Context, key string) (*types.QualityMetrics, bool) {
	data, err := c.client.GetBytes(ctx, c.prefix+key)
	if err != nil {
		if !redis.IsNil(err) {
			c.logger.Warn("quality cache get failed", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}

	var m types.QualityMetrics
	if err := json.Unmarshal(data, &m); err != nil {
		c.logger.Warn("quality cache entry corrupted", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return &m, true
}

// Set 写入缓存，失败只记录日志。Details 不写入，由评估器在命中时重建
func (c *RedisCache) Set(ctx context.Context, key string, m *types.QualityMetrics) {
	entry := m.Clone()
	entry.Details = nil
	data, err := json.Marshal(entry)
	if err != nil {
		c.logger.Warn("quality cache encode failed", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, c.prefix+key, data, c.ttl); err != nil {
		c.logger.Warn("quality cache set failed", zap.String("key", key), zap.Error(err))
	}
}

// Purge 删除前缀下的全部缓存
func (c *RedisCache) Purge(ctx context.Context) (int64, error) {
	return c.client.DeleteByPrefix(ctx, c.prefix, 100)
}
