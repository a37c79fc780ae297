package quality

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/lk2023060901/rag-chunker/internal/knowledge/types"
	"github.com/lk2023060901/rag-chunker/internal/pkg/logger"
)

// fallbackConfidence 兜底结果的置信度
const fallbackConfidence = 0.3

// Option 评估器选项
type Option func(*Assessor)

// WithCache 设置评估结果缓存
func WithCache(c Cache) Option {
	return func(a *Assessor) {
		a.cache = c
	}
}

// WithLogger 设置日志
func WithLogger(l *logger.Logger) Option {
	return func(a *Assessor) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithDimensionFunc 替换或注册维度评分函数
func WithDimensionFunc(name string, fn DimensionFunc) Option {
	return func(a *Assessor) {
		if fn != nil {
			a.dims[name] = fn
		}
	}
}

// Stats 评估统计
type Stats struct {
	Assessed    int64
	CacheHits   int64
	CacheMisses int64
	Fallbacks   int64
}

// Assessor 分块质量评估器（并发安全）
type Assessor struct {
	dims   map[string]DimensionFunc
	cache  Cache
	logger *logger.Logger

	assessed    atomic.Int64
	cacheHits   atomic.Int64
	cacheMisses atomic.Int64
	fallbacks   atomic.Int64
}

// NewAssessor 创建评估器
func NewAssessor(opts ...Option) *Assessor {
	a := &Assessor{
		dims:   make(map[string]DimensionFunc, len(dimensionFuncs)),
		logger: logger.L(),
	}
	for name, fn := range dimensionFuncs {
		a.dims[name] = fn
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Assess 评估单个分块。weights 为空时使用策略默认权重
func (a *Assessor) Assess(ctx context.Context, strategy string, weights map[string]float64, in *Input) (*types.QualityMetrics, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s, err := LookupStrategy(strategy)
	if err != nil {
		return nil, err
	}
	if err := ValidateWeights(strategy, weights); err != nil {
		return nil, err
	}
	if in == nil {
		in = &Input{}
	}
	w := resolveWeights(s, weights)

	var key string
	if a.cache != nil {
		key = cacheKey(s.Name, w, in)
		if m, ok := a.cache.Get(ctx, key); ok {
			a.cacheHits.Add(1)
			m.Details = metricDetails(w, in, len(s.Dimensions()))
			return m, nil
		}
		a.cacheMisses.Add(1)
	}

	start := time.Now()
	m := a.evaluate(ctx, s, w, in)
	m.ProcessingTime = time.Since(start)
	a.assessed.Add(1)

	if a.cache != nil && m.StrategyName != StrategyFallback {
		a.cache.Set(ctx, key, m)
	}
	return m, nil
}

// AssessBatch 评估同一文档的一组分块，按位置填充相邻内容和长度分布
func (a *Assessor) AssessBatch(ctx context.Context, strategy string, weights map[string]float64, contents []string, base Input) ([]*types.QualityMetrics, error) {
	lengths := make([]int, len(contents))
	for i, c := range contents {
		lengths[i] = utf8.RuneCountInString(c)
	}

	out := make([]*types.QualityMetrics, len(contents))
	for i, c := range contents {
		in := base
		in.Content = c
		in.Index = i
		in.Lengths = lengths
		in.Previous, in.Next = "", ""
		if i > 0 {
			in.Previous = contents[i-1]
		}
		if i+1 < len(contents) {
			in.Next = contents[i+1]
		}

		m, err := a.Assess(ctx, strategy, weights, &in)
		if err != nil {
			return nil, err
		}
		out[i] = m
	}
	return out, nil
}

// Stats 返回评估统计快照
func (a *Assessor) Stats() Stats {
	return Stats{
		Assessed:    a.assessed.Load(),
		CacheHits:   a.cacheHits.Load(),
		CacheMisses: a.cacheMisses.Load(),
		Fallbacks:   a.fallbacks.Load(),
	}
}

// evaluate 计算所有维度并加权求和，任一维度 panic 时返回兜底结果
func (a *Assessor) evaluate(ctx context.Context, s *Strategy, weights map[string]float64, in *Input) (m *types.QualityMetrics) {
	defer func() {
		if r := recover(); r != nil {
			a.fallbacks.Add(1)
			a.logger.WithContext(ctx).Warn("quality assessment failed, using fallback score",
				zap.String("strategy", s.Name),
				zap.Int("chunk_index", in.Index),
				zap.Any("panic", r),
			)
			m = fallbackMetrics(in)
		}
	}()

	dims := s.Dimensions()
	scores := make(map[string]float64, len(dims))
	for _, name := range dims {
		fn, ok := a.dims[name]
		if !ok {
			panic(fmt.Sprintf("dimension %q not registered", name))
		}
		scores[name] = clamp(fn(in))
	}

	overall := 0.0
	for _, name := range sortedKeys(weights) {
		overall += weights[name] * scores[name]
	}

	m = &types.QualityMetrics{
		OverallScore:    overall,
		DimensionScores: scores,
		Confidence:      s.Confidence,
		StrategyName:    s.Name,
		Details:         metricDetails(weights, in, len(dims)),
	}
	m.Clamp()
	return m
}

// metricDetails 诊断信息，缓存命中时重新生成以保持值类型一致
func metricDetails(weights map[string]float64, in *Input, dimensionCount int) map[string]interface{} {
	return map[string]interface{}{
		"weights_used":    copyWeights(weights),
		"chunk_length":    in.runeCount(),
		"dimension_count": dimensionCount,
	}
}

// fallbackMetrics 按长度给出保守分数
func fallbackMetrics(in *Input) *types.QualityMetrics {
	n := in.runeCount()
	score := 0.5
	switch {
	case n < 50:
		score = 0.3
	case n > 2000:
		score = 0.4
	}
	return &types.QualityMetrics{
		OverallScore:    score,
		DimensionScores: map[string]float64{StrategyFallback: score},
		Confidence:      fallbackConfidence,
		StrategyName:    StrategyFallback,
		Details: map[string]interface{}{
			"chunk_length": n,
		},
	}
}

// cacheKey 覆盖影响评分的全部输入
func cacheKey(strategy string, weights map[string]float64, in *Input) string {
	h := sha256.New()
	var buf [8]byte

	writeString := func(s string) {
		binary.LittleEndian.PutUint64(buf[:], uint64(len(s)))
		h.Write(buf[:])
		h.Write([]byte(s))
	}
	writeInt := func(v int) {
		binary.LittleEndian.PutUint64(buf[:], uint64(v))
		h.Write(buf[:])
	}

	writeString(strategy)
	for _, name := range sortedKeys(weights) {
		writeString(name)
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(weights[name]))
		h.Write(buf[:])
	}
	writeInt(in.ChunkSize)
	writeInt(in.MinChunkSize)
	writeInt(in.MaxChunkSize)
	writeString(in.Content)
	writeString(in.Previous)
	writeString(in.Next)
	writeInt(in.Index)
	writeInt(len(in.Lengths))
	for _, l := range in.Lengths {
		writeInt(l)
	}
	for _, key := range []string{"figures", "tables", "sections"} {
		if in.Metadata.Has(key) {
			writeString(key)
		}
	}

	return hex.EncodeToString(h.Sum(nil))
}
