package quality

import (
	"context"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/lk2023060901/rag-chunker/internal/pkg/errors"
	"github.com/lk2023060901/rag-chunker/internal/pkg/logger"
)

const sampleChunk = "第一章 发动机维修\n\n1. 检查液压系统压力：3000 psi。\n2. 更换燃油滤芯。\n\n注意：必须在断电后进行操作，否则可能导致设备损坏和人身伤害。"

func TestAssessWeightedSum(t *testing.T) {
	a := NewAssessor(WithLogger(logger.Nop()))
	ctx := context.Background()

	for _, name := range Strategies() {
		t.Run(name, func(t *testing.T) {
			in := &Input{
				Content:  sampleChunk,
				Index:    1,
				Previous: "发动机检查前的准备工作。",
				Next:     "完成后记录检查结果。",
				Lengths:  []int{12, len([]rune(sampleChunk)), 10},
			}
			m, err := a.Assess(ctx, name, nil, in)
			require.NoError(t, err)

			weights := DefaultWeights(name)
			assert.Equal(t, name, m.StrategyName)
			assert.Len(t, m.DimensionScores, len(weights))

			sum := 0.0
			for dim, w := range weights {
				score, ok := m.DimensionScores[dim]
				require.True(t, ok, dim)
				assert.GreaterOrEqual(t, score, 0.0)
				assert.LessOrEqual(t, score, 1.0)
				sum += w * score
			}
			assert.InDelta(t, sum, m.OverallScore, 1e-9)
			assert.GreaterOrEqual(t, m.Confidence, 0.8)
			assert.Equal(t, weights, m.Details["weights_used"])
		})
	}
}

func TestAssessCustomWeights(t *testing.T) {
	a := NewAssessor()

	m, err := a.Assess(context.Background(), StrategyBasic,
		map[string]float64{DimLengthAppropriateness: 1}, &Input{Content: "short"})
	require.NoError(t, err)
	assert.InDelta(t, m.DimensionScores[DimLengthAppropriateness], m.OverallScore, 1e-9)
	// 未加权的维度仍然计算
	assert.Contains(t, m.DimensionScores, DimCompleteness)
}

func TestAssessErrors(t *testing.T) {
	a := NewAssessor()
	ctx := context.Background()

	_, err := a.Assess(ctx, "nope", nil, &Input{Content: "x"})
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrQualityStrategyNotFound))
	assert.Contains(t, err.Error(), "aviation")

	_, err = a.Assess(ctx, StrategyBasic, map[string]float64{DimDomainRelevance: 1}, &Input{Content: "x"})
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrQualityWeightsInvalid))
	assert.Equal(t, "quality_weights", apperrors.ExtractField(err))

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = a.Assess(cancelled, StrategyBasic, nil, &Input{Content: "x"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAssessClampsScores(t *testing.T) {
	a := NewAssessor(
		WithDimensionFunc(DimLengthAppropriateness, func(*Input) float64 { return 7 }),
		WithDimensionFunc(DimCompleteness, func(*Input) float64 { return math.NaN() }),
	)

	m, err := a.Assess(context.Background(), StrategyBasic, nil, &Input{Content: "short"})
	require.NoError(t, err)
	assert.Equal(t, 1.0, m.DimensionScores[DimLengthAppropriateness])
	assert.Equal(t, 0.0, m.DimensionScores[DimCompleteness])
	assert.InDelta(t, 0.6, m.OverallScore, 1e-9)
	assert.Equal(t, StrategyBasic, m.StrategyName)
}

func TestAssessFallback(t *testing.T) {
	a := NewAssessor(WithDimensionFunc(DimCompleteness, func(*Input) float64 {
		panic("boom")
	}))

	tests := []struct {
		content string
		want    float64
	}{
		{content: "short", want: 0.3},
		{content: strings.Repeat("a", 100), want: 0.5},
		{content: strings.Repeat("a", 2001), want: 0.4},
	}

	for _, tt := range tests {
		m, err := a.Assess(context.Background(), StrategyBasic, nil, &Input{Content: tt.content})
		require.NoError(t, err)
		assert.Equal(t, StrategyFallback, m.StrategyName)
		assert.Equal(t, tt.want, m.OverallScore)
		assert.Equal(t, fallbackConfidence, m.Confidence)
		assert.Equal(t, map[string]float64{StrategyFallback: tt.want}, m.DimensionScores)
	}
	assert.Equal(t, int64(3), a.Stats().Fallbacks)
}

func TestAssessCache(t *testing.T) {
	cache, err := NewLRUCache(10)
	require.NoError(t, err)
	a := NewAssessor(WithCache(cache))
	ctx := context.Background()

	in := &Input{Content: sampleChunk}
	first, err := a.Assess(ctx, StrategyAviation, nil, in)
	require.NoError(t, err)
	second, err := a.Assess(ctx, StrategyAviation, nil, in)
	require.NoError(t, err)

	assert.Equal(t, first.OverallScore, second.OverallScore)
	assert.Equal(t, first.DimensionScores, second.DimensionScores)

	stats := a.Stats()
	assert.Equal(t, int64(1), stats.CacheHits)
	assert.Equal(t, int64(1), stats.CacheMisses)
	assert.Equal(t, int64(1), stats.Assessed)

	// 相邻内容不同，不能命中
	_, err = a.Assess(ctx, StrategyAviation, nil, &Input{Content: sampleChunk, Previous: "x"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), a.Stats().CacheMisses)
}

func TestAssessBatch(t *testing.T) {
	a := NewAssessor()
	contents := []string{"first chunk.", "second chunk here.", "third."}

	metrics, err := a.AssessBatch(context.Background(), StrategyLengthUniformity, nil, contents, Input{ChunkSize: 20, MaxChunkSize: 40, MinChunkSize: 5})
	require.NoError(t, err)
	require.Len(t, metrics, 3)

	for i, m := range metrics {
		assert.Equal(t, len([]rune(contents[i])), m.Details["chunk_length"])
		assert.Contains(t, m.DimensionScores, DimRelativeConsistency)
	}

	_, err = a.AssessBatch(context.Background(), "nope", nil, contents, Input{})
	assert.True(t, apperrors.Is(err, apperrors.ErrQualityStrategyNotFound))
}

func TestAviationWeights(t *testing.T) {
	for _, docType := range []string{DocTypeMaintenance, DocTypeRegulation, DocTypeStandard, DocTypeTraining, "unknown"} {
		w := AviationWeights(docType)
		sum := 0.0
		for _, v := range w {
			sum += v
		}
		assert.InDelta(t, 1.0, sum, 1e-9, docType)
		assert.NoError(t, ValidateWeights(StrategyAviation, w))
	}
	assert.Equal(t, 0.30, AviationWeights(DocTypeMaintenance)[DimDomainRelevance])
	assert.Equal(t, DefaultWeights(StrategyAviation), AviationWeights("unknown"))
}

func TestStrategies(t *testing.T) {
	assert.Equal(t, []string{
		StrategyAviation, StrategyBasic, StrategyContentCompleteness, StrategyLengthUniformity, StrategySemantic,
	}, Strategies())
	assert.True(t, HasStrategy(StrategyBasic))
	assert.False(t, HasStrategy(StrategyFallback))
	assert.Nil(t, DefaultWeights("nope"))

	for _, name := range Strategies() {
		sum := 0.0
		for _, v := range DefaultWeights(name) {
			sum += v
		}
		assert.InDelta(t, 1.0, sum, 1e-9, name)
	}
}
