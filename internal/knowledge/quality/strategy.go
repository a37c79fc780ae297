package quality

import (
	"fmt"
	"sort"

	apperrors "github.com/lk2023060901/rag-chunker/internal/pkg/errors"
)

// 内置评估策略
const (
	StrategyBasic               = "basic"
	StrategyAviation            = "aviation"
	StrategySemantic            = "semantic"
	StrategyLengthUniformity    = "length_uniformity"
	StrategyContentCompleteness = "content_completeness"

	// StrategyFallback 评估失败时使用的兜底结果
	StrategyFallback = "fallback"
)

// Strategy 评估策略：固定的维度集合、默认权重和置信度
type Strategy struct {
	Name       string
	Weights    map[string]float64
	Confidence float64
}

// Dimensions 维度名称（排序）
func (s *Strategy) Dimensions() []string {
	names := make([]string, 0, len(s.Weights))
	for name := range s.Weights {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

var strategies = map[string]*Strategy{
	StrategyBasic: {
		Name:       StrategyBasic,
		Confidence: 0.8,
		Weights: map[string]float64{
			DimLengthAppropriateness: 0.6,
			DimCompleteness:          0.4,
		},
	},
	StrategyAviation: {
		Name:       StrategyAviation,
		Confidence: 0.9,
		Weights:    aviationWeights(0.25, 0.25, 0.25, 0.20, 0.05),
	},
	StrategySemantic: {
		Name:       StrategySemantic,
		Confidence: 0.8,
		Weights: map[string]float64{
			DimSemanticBoundary:     0.30,
			DimTopicConsistency:     0.25,
			DimContextCoherence:     0.25,
			DimSemanticCompleteness: 0.20,
		},
	},
	StrategyLengthUniformity: {
		Name:       StrategyLengthUniformity,
		Confidence: 0.9,
		Weights: map[string]float64{
			DimSizeAppropriateness:  0.4,
			DimLengthUniformity:     0.3,
			DimRelativeConsistency:  0.2,
			DimVariationCoefficient: 0.1,
		},
	},
	StrategyContentCompleteness: {
		Name:       StrategyContentCompleteness,
		Confidence: 0.8,
		Weights: map[string]float64{
			DimInformationUnit:       0.30,
			DimLogicalStructure:      0.25,
			DimReferenceCompleteness: 0.25,
			DimContextDependency:     0.20,
		},
	},
}

func aviationWeights(domain, semantic, density, structure, size float64) map[string]float64 {
	return map[string]float64{
		DimDomainRelevance:      domain,
		DimSemanticCompleteness: semantic,
		DimInformationDensity:   density,
		DimStructureQuality:     structure,
		DimSizeAppropriateness:  size,
	}
}

// 航空文档类型
const (
	DocTypeMaintenance = "maintenance"
	DocTypeRegulation  = "regulation"
	DocTypeStandard    = "standard"
	DocTypeTraining    = "training"
)

var aviationDocWeights = map[string]map[string]float64{
	DocTypeMaintenance: aviationWeights(0.30, 0.25, 0.20, 0.20, 0.05),
	DocTypeRegulation:  aviationWeights(0.20, 0.30, 0.25, 0.20, 0.05),
	DocTypeStandard:    aviationWeights(0.25, 0.25, 0.25, 0.20, 0.05),
	DocTypeTraining:    aviationWeights(0.20, 0.30, 0.20, 0.25, 0.05),
}

// Strategies 所有内置策略名称（排序）
func Strategies() []string {
	names := make([]string, 0, len(strategies))
	for name := range strategies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// HasStrategy 策略是否存在
func HasStrategy(name string) bool {
	_, ok := strategies[name]
	return ok
}

// LookupStrategy 查找策略，未知名称返回 ErrQualityStrategyNotFound
func LookupStrategy(name string) (*Strategy, error) {
	s, ok := strategies[name]
	if !ok {
		return nil, apperrors.NewStrategyNotFoundError(name, Strategies())
	}
	return s, nil
}

// DefaultWeights 策略默认权重的副本，未知策略返回 nil
func DefaultWeights(name string) map[string]float64 {
	s, ok := strategies[name]
	if !ok {
		return nil
	}
	return copyWeights(s.Weights)
}

// AviationWeights 按航空文档类型返回权重，未知类型使用通用航空权重
func AviationWeights(docType string) map[string]float64 {
	if w, ok := aviationDocWeights[docType]; ok {
		return copyWeights(w)
	}
	return DefaultWeights(StrategyAviation)
}

// ValidateWeights 校验权重只包含策略的维度，且都不为负
func ValidateWeights(strategy string, weights map[string]float64) error {
	s, err := LookupStrategy(strategy)
	if err != nil {
		return err
	}
	for _, name := range sortedKeys(weights) {
		if _, ok := s.Weights[name]; !ok {
			e := apperrors.Newf(apperrors.ErrQualityWeightsInvalid,
				"quality_weights[%s] is not a dimension of strategy %q, valid dimensions: %v", name, strategy, s.Dimensions())
			e.Field = "quality_weights"
			return e
		}
		if w := weights[name]; w < 0 {
			e := apperrors.Newf(apperrors.ErrQualityWeightsInvalid, "quality_weights[%s]=%v, valid range: 0 <= weight <= 1", name, w)
			e.Field = "quality_weights"
			return e
		}
	}
	return nil
}

// resolveWeights 显式权重优先，否则使用策略默认权重
func resolveWeights(s *Strategy, weights map[string]float64) map[string]float64 {
	if len(weights) == 0 {
		return s.Weights
	}
	return weights
}

func copyWeights(w map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(w))
	for k, v := range w {
		out[k] = v
	}
	return out
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// String 便于日志输出
func (s *Strategy) String() string {
	return fmt.Sprintf("%s%v", s.Name, s.Dimensions())
}
