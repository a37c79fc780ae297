package quality

import (
	"fmt"
	"math"
	"sort"

	"github.com/lk2023060901/rag-chunker/internal/knowledge/types"
)

// DefaultLowQualityThreshold 低质量阈值
const DefaultLowQualityThreshold = 0.5

// 质量等级
const (
	GradeExcellent = "excellent"
	GradeGood      = "good"
	GradeFair      = "fair"
	GradePoor      = "poor"
)

// Grade 按总分划分等级
func Grade(score float64) string {
	switch {
	case score >= 0.8:
		return GradeExcellent
	case score >= 0.6:
		return GradeGood
	case score >= 0.4:
		return GradeFair
	default:
		return GradePoor
	}
}

// Issue 单个分块的质量问题
type Issue struct {
	ChunkIndex int     `json:"chunk_index"`
	Dimension  string  `json:"dimension,omitempty"`
	Score      float64 `json:"score"`
	Message    string  `json:"message"`
}

// Report 一组分块的质量分布
type Report struct {
	Count           int                `json:"count"`
	Mean            float64            `json:"mean"`
	Min             float64            `json:"min"`
	Max             float64            `json:"max"`
	StdDev          float64            `json:"std_dev"`
	Grades          map[string]int     `json:"grades"`
	DimensionMeans  map[string]float64 `json:"dimension_means"`
	LowQualityCount int                `json:"low_quality_count"`
	Issues          []Issue            `json:"issues,omitempty"`
}

// Analyze 统计质量分布，threshold <= 0 时使用 DefaultLowQualityThreshold。nil 项跳过
func Analyze(metrics []*types.QualityMetrics, threshold float64) *Report {
	if threshold <= 0 {
		threshold = DefaultLowQualityThreshold
	}

	r := &Report{
		Grades:         map[string]int{GradeExcellent: 0, GradeGood: 0, GradeFair: 0, GradePoor: 0},
		DimensionMeans: make(map[string]float64),
	}

	var scores []float64
	dimSums := make(map[string]float64)
	dimCounts := make(map[string]int)

	for i, m := range metrics {
		if m == nil {
			continue
		}
		scores = append(scores, m.OverallScore)
		r.Grades[Grade(m.OverallScore)]++

		if m.OverallScore < threshold {
			r.LowQualityCount++
			r.Issues = append(r.Issues, Issue{
				ChunkIndex: i,
				Score:      m.OverallScore,
				Message:    fmt.Sprintf("overall score %.2f below %.2f", m.OverallScore, threshold),
			})
		}

		names := make([]string, 0, len(m.DimensionScores))
		for name := range m.DimensionScores {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			v := m.DimensionScores[name]
			dimSums[name] += v
			dimCounts[name]++
			if v < threshold {
				r.Issues = append(r.Issues, Issue{
					ChunkIndex: i,
					Dimension:  name,
					Score:      v,
					Message:    fmt.Sprintf("%s score %.2f below %.2f", name, v, threshold),
				})
			}
		}

		if m.Confidence < 0.5 {
			r.Issues = append(r.Issues, Issue{
				ChunkIndex: i,
				Score:      m.Confidence,
				Message:    fmt.Sprintf("low confidence %.2f", m.Confidence),
			})
		}
	}

	r.Count = len(scores)
	if r.Count == 0 {
		return r
	}

	r.Min, r.Max = math.Inf(1), math.Inf(-1)
	sum := 0.0
	for _, s := range scores {
		sum += s
		r.Min = math.Min(r.Min, s)
		r.Max = math.Max(r.Max, s)
	}
	r.Mean = sum / float64(r.Count)

	ss := 0.0
	for _, s := range scores {
		d := s - r.Mean
		ss += d * d
	}
	r.StdDev = math.Sqrt(ss / float64(r.Count))

	for name, total := range dimSums {
		r.DimensionMeans[name] = total / float64(dimCounts[name])
	}
	return r
}
