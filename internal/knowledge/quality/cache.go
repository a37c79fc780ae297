package quality

import (
	"context"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/lk2023060901/rag-chunker/internal/knowledge/types"
)

// DefaultCacheSize 默认缓存条目数
const DefaultCacheSize = 1000

// Cache 评估结果缓存，实现须并发安全
type Cache interface {
	Get(ctx context.Context, key string) (*types.QualityMetrics, bool)
	Set(ctx context.Context, key string, m *types.QualityMetrics)
}

// LRUCache 进程内 LRU 缓存
type LRUCache struct {
	lru *lru.Cache[string, *types.QualityMetrics]
}

// NewLRUCache 创建 LRU 缓存，size <= 0 时使用 DefaultCacheSize
func NewLRUCache(size int) (*LRUCache, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	c, err := lru.New[string, *types.QualityMetrics](size)
	if err != nil {
		return nil, err
	}
	return &LRUCache{lru: c}, nil
}

// Get 返回缓存结果的副本
func (c *LRUCache) Get(_ context.Context, key string) (*types.QualityMetrics, bool) {
	m, ok := c.lru.Get(key)
	if !ok {
		return nil, false
	}
	return m.Clone(), true
}

// Set 写入结果副本
func (c *LRUCache) Set(_ context.Context, key string, m *types.QualityMetrics) {
	c.lru.Add(key, m.Clone())
}

// Len 当前条目数
func (c *LRUCache) Len() int {
	return c.lru.Len()
}

// Purge 清空缓存
func (c *LRUCache) Purge() {
	c.lru.Purge()
}
