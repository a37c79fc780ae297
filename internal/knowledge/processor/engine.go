package processor

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/lk2023060901/rag-chunker/internal/knowledge/chunker"
	"github.com/lk2023060901/rag-chunker/internal/knowledge/preset"
	"github.com/lk2023060901/rag-chunker/internal/knowledge/quality"
	"github.com/lk2023060901/rag-chunker/internal/knowledge/types"
	apperrors "github.com/lk2023060901/rag-chunker/internal/pkg/errors"
	"github.com/lk2023060901/rag-chunker/internal/pkg/logger"
	"github.com/lk2023060901/rag-chunker/internal/pkg/workerpool"
)

// CustomChunkType 显式配置产生的分块类型
const CustomChunkType = "custom"

// Option 引擎选项
type Option func(*Engine)

// WithRegistry 设置预设注册表
func WithRegistry(r *preset.Registry) Option {
	return func(e *Engine) {
		e.registry = r
	}
}

// WithResolver 设置预设解析器
func WithResolver(r *preset.Resolver) Option {
	return func(e *Engine) {
		e.resolver = r
	}
}

// WithTokenCounter 设置 token 计数器
func WithTokenCounter(c chunker.TokenCounter) Option {
	return func(e *Engine) {
		e.factory = chunker.NewFactory(c)
	}
}

// WithAssessor 设置质量评估器
func WithAssessor(a *quality.Assessor) Option {
	return func(e *Engine) {
		e.assessor = a
	}
}

// WithWorkerPool 设置批量处理使用的 worker pool（由调用方负责关闭）
func WithWorkerPool(p *workerpool.Pool) Option {
	return func(e *Engine) {
		e.pool = p
	}
}

// WithMetrics 设置 Prometheus 指标
func WithMetrics(m *Metrics) Option {
	return func(e *Engine) {
		e.metrics = m
	}
}

// WithLogger 设置日志，未设置时使用 context 中的 logger
func WithLogger(l *logger.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// Engine 分块编排器（并发安全）
type Engine struct {
	registry *preset.Registry
	resolver *preset.Resolver
	factory  *chunker.Factory
	assessor *quality.Assessor
	pool     *workerpool.Pool
	metrics  *Metrics
	logger   *logger.Logger

	stats statsCounters
}

// New 创建引擎
func New(opts ...Option) *Engine {
	e := &Engine{}
	for _, opt := range opts {
		opt(e)
	}

	if e.registry == nil {
		e.registry = preset.NewRegistry()
	}
	if e.resolver == nil {
		e.resolver = preset.NewResolver(e.registry.DefaultID())
	}
	if e.factory == nil {
		e.factory = chunker.NewFactory(nil)
	}
	if e.assessor == nil {
		e.assessor = quality.NewAssessor(quality.WithLogger(e.logger))
	}
	return e
}

// Registry 返回预设注册表
func (e *Engine) Registry() *preset.Registry {
	return e.registry
}

// Assessor 返回质量评估器
func (e *Engine) Assessor() *quality.Assessor {
	return e.assessor
}

// Stats 返回累计统计快照
func (e *Engine) Stats() Stats {
	return e.stats.snapshot()
}

func (e *Engine) log(ctx context.Context) *logger.Logger {
	if e.logger != nil {
		return e.logger.WithContext(ctx)
	}
	return logger.FromContext(ctx)
}

// ChunkDocument 按预设分块并评估质量，presetID 为空时根据元数据解析
func (e *Engine) ChunkDocument(ctx context.Context, text string, metadata types.Metadata, presetID string) ([]*types.Chunk, error) {
	rule := "explicit"
	if presetID == "" {
		res := e.resolver.ResolveWithReason(metadata)
		presetID, rule = res.PresetID, res.Rule
	}

	p, err := e.registry.Lookup(presetID)
	if err != nil {
		return nil, err
	}

	ctx = logger.WithPresetID(ctx, p.ID)
	e.log(ctx).Debug("preset resolved", zap.String("rule", rule))

	return e.chunk(ctx, text, metadata, p.ID, p.Config)
}

// ChunkDocumentWithConfig 使用显式配置分块
func (e *Engine) ChunkDocumentWithConfig(ctx context.Context, text string, metadata types.Metadata, cfg *chunker.Config) ([]*types.Chunk, error) {
	if cfg == nil {
		return nil, apperrors.New(apperrors.ErrChunkConfigInvalid, "config is required")
	}
	ctx = logger.WithPresetID(ctx, CustomChunkType)
	return e.chunk(ctx, text, metadata, CustomChunkType, cfg.Clone())
}

func (e *Engine) chunk(ctx context.Context, text string, metadata types.Metadata, chunkType string, cfg *chunker.Config) ([]*types.Chunk, error) {
	start := time.Now()

	if len(cfg.Separators) == 0 {
		cfg.Separators = chunker.DefaultSeparators()
	}
	if err := preset.ValidateConfig(cfg); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if strings.TrimSpace(text) == "" {
		e.stats.add(0, 0, time.Since(start))
		e.metrics.observe(chunkType, 0, 0, nil, time.Since(start))
		return []*types.Chunk{}, nil
	}

	splitter, err := e.factory.CreateChunker(cfg)
	if err != nil {
		return nil, err
	}
	source, raw := splitter.Split(ctx, text)

	contents := make([]string, len(raw))
	for i, tc := range raw {
		contents[i] = tc.Content
	}

	metrics, err := e.assessor.AssessBatch(ctx, cfg.QualityStrategy, cfg.QualityWeights, contents, quality.Input{
		ChunkSize:    cfg.ChunkSize,
		MinChunkSize: cfg.MinChunkSize,
		MaxChunkSize: cfg.MaxChunkSize,
		Metadata:     metadata,
	})
	if err != nil {
		return nil, err
	}

	kept := filterShort(raw, cfg.MinChunkSize, source)
	filtered := len(raw) - len(kept)

	docName := metadata.DocumentName()
	chunks := make([]*types.Chunk, 0, len(kept))
	scores := make([]float64, 0, len(kept))
	for _, k := range kept {
		tc := raw[k]
		i := len(chunks)
		c := &types.Chunk{
			ID:             types.ChunkUUID(docName, i),
			ChunkID:        types.FormatChunkID(docName, i),
			Index:          i,
			Content:        tc.Content,
			StartPosition:  tc.Start,
			EndPosition:    tc.End,
			CharacterCount: tc.RuneCount(),
			WordCount:      chunker.CountWords(tc.Content),
			TokenCount:     tc.TokenCount,
			QualityScore:   metrics[k].OverallScore,
			Quality:        metrics[k],
			ChunkType:      chunkType,
			Metadata:       metadata.Clone(),
		}
		if i > 0 && cfg.ChunkOverlap > 0 {
			c.OverlapContent = chunker.TailRunes(chunks[i-1].Content, cfg.ChunkOverlap)
		}
		chunks = append(chunks, c)
		scores = append(scores, c.QualityScore)
	}

	elapsed := time.Since(start)
	e.stats.add(len(chunks), filtered, elapsed)
	e.metrics.observe(chunkType, len(chunks), filtered, scores, elapsed)

	e.log(ctx).Info("document chunked",
		zap.String("strategy", cfg.QualityStrategy),
		zap.Int("chunks", len(chunks)),
		zap.Int("filtered", filtered),
		zap.Duration("elapsed", elapsed),
	)

	return chunks, nil
}

// filterShort 返回保留的分块下标；整篇文档不足 minSize 时全部保留
func filterShort(raw []*chunker.TextChunk, minSize int, source string) []int {
	keepAll := minSize <= 0 || chunker.RuneCount(strings.TrimSpace(source)) < minSize

	kept := make([]int, 0, len(raw))
	for i, tc := range raw {
		if keepAll || tc.RuneCount() >= minSize {
			kept = append(kept, i)
		}
	}
	return kept
}
