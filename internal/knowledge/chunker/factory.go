package chunker

import (
	apperrors "github.com/lk2023060901/rag-chunker/internal/pkg/errors"
)

// Factory Chunker 工厂
type Factory struct {
	counter TokenCounter
}

// NewFactory 创建 Chunker 工厂，counter 为 nil 时使用 EstimateCounter
func NewFactory(counter TokenCounter) *Factory {
	if counter == nil {
		counter = EstimateCounter{}
	}
	return &Factory{counter: counter}
}

// TokenCounter 返回工厂使用的计数器
func (f *Factory) TokenCounter() TokenCounter {
	return f.counter
}

// CreateChunker 根据配置创建递归分块器
func (f *Factory) CreateChunker(cfg *Config) (*RecursiveChunker, error) {
	if cfg == nil {
		return nil, apperrors.New(apperrors.ErrChunkConfigInvalid, "config is required")
	}
	return NewRecursiveChunker(cfg, f.counter)
}
