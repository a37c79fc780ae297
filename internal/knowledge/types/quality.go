package types

import "time"

// QualityMetrics 分块质量评估结果
type QualityMetrics struct {
	OverallScore    float64                `json:"overall_score"`
	DimensionScores map[string]float64     `json:"dimension_scores"`
	Confidence      float64                `json:"confidence"`
	StrategyName    string                 `json:"strategy_name"`
	ProcessingTime  time.Duration          `json:"processing_time"`
	Details         map[string]interface{} `json:"details,omitempty"`
}

// Clamp 将所有分数限制在 [0,1]
func (m *QualityMetrics) Clamp() {
	m.OverallScore = clamp01(m.OverallScore)
	m.Confidence = clamp01(m.Confidence)
	for k, v := range m.DimensionScores {
		m.DimensionScores[k] = clamp01(v)
	}
}

// Clone 深拷贝（缓存命中时返回副本，避免共享可变 map）
func (m *QualityMetrics) Clone() *QualityMetrics {
	if m == nil {
		return nil
	}
	out := *m
	if m.DimensionScores != nil {
		out.DimensionScores = make(map[string]float64, len(m.DimensionScores))
		for k, v := range m.DimensionScores {
			out.DimensionScores[k] = v
		}
	}
	if m.Details != nil {
		out.Details = make(map[string]interface{}, len(m.Details))
		for k, v := range m.Details {
			out.Details[k] = v
		}
	}
	return &out
}

func clamp01(v float64) float64 {
	if v != v { // NaN
		return 0
	}
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
