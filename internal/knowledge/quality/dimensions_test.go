package quality

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lk2023060901/rag-chunker/internal/knowledge/types"
)

func sized(n int) *Input {
	return &Input{
		Content:      strings.Repeat("a", n),
		ChunkSize:    100,
		MinChunkSize: 10,
		MaxChunkSize: 200,
	}
}

func TestLengthAppropriateness(t *testing.T) {
	tests := []struct {
		name string
		n    int
		want float64
	}{
		{name: "target", n: 100, want: 1},
		{name: "lower optimal bound", n: 80, want: 1},
		{name: "below min", n: 5, want: 0.15},
		{name: "between min and optimal", n: 45, want: 0.65},
		{name: "between optimal and max", n: 160, want: 0.65},
		{name: "above max", n: 250, want: 0.24},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, lengthAppropriateness(sized(tt.n)), 1e-9)
		})
	}
}

func TestSizeAppropriateness(t *testing.T) {
	tests := []struct {
		n    int
		want float64
	}{
		{n: 100, want: 1},
		{n: 5, want: 0.15},
		{n: 40, want: 0.5},
		{n: 150, want: 0.9},
		{n: 400, want: 0.25},
	}

	for _, tt := range tests {
		assert.InDelta(t, tt.want, sizeAppropriateness(sized(tt.n)), 1e-9, "n=%d", tt.n)
	}
}

func TestLengthUniformity(t *testing.T) {
	assert.InDelta(t, 1.0, lengthUniformity(sized(100)), 1e-9)
	assert.InDelta(t, 0.8, lengthUniformity(sized(130)), 1e-9)
	assert.InDelta(t, 0.31, lengthUniformity(sized(200)), 1e-9)

	in := sized(100)
	in.Lengths = []int{100, 100, 100}
	assert.Equal(t, 1.0, lengthUniformity(in))
}

func TestRelativeConsistency(t *testing.T) {
	in := sized(100)
	assert.Equal(t, 0.7, relativeConsistency(in))

	in.Index = 1
	in.Lengths = []int{100, 100, 100}
	assert.Equal(t, 1.0, relativeConsistency(in))

	in.Lengths = []int{50, 100}
	assert.Equal(t, 0.5, relativeConsistency(in))
}

func TestVariationCoefficient(t *testing.T) {
	in := sized(100)
	assert.Equal(t, 0.7, variationCoefficient(in))

	in.Lengths = []int{100, 100, 100}
	assert.Equal(t, 1.0, variationCoefficient(in))
}

func TestCompleteness(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    float64
	}{
		{name: "empty", content: "", want: 0},
		{name: "complete sentences", content: "The engine was inspected today. All checks passed.", want: 0.9},
		{name: "truncated", content: "The engine was inspected and", want: 0.2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, completeness(&Input{Content: tt.content}), 1e-9)
		})
	}
}

func TestDomainRelevance(t *testing.T) {
	assert.Equal(t, 0.0, domainRelevance(&Input{}))
	assert.InDelta(t, 0.7, domainRelevance(&Input{Content: "发动机和液压系统检查完毕。"}), 1e-9)
	// 安全提示缺少说明
	assert.InDelta(t, 0.3, domainRelevance(&Input{Content: "警告：小心"}), 1e-9)
}

func TestStructureQuality(t *testing.T) {
	assert.InDelta(t, 0.4, structureQuality(&Input{Content: "plain text"}), 1e-9)
	assert.Equal(t, 1.0, structureQuality(&Input{Content: "# Title\n\n- a\n- b"}))
}

func TestSemanticBoundary(t *testing.T) {
	assert.InDelta(t, 0.9, semanticBoundary(&Input{Content: "Hello world."}), 1e-9)
	assert.InDelta(t, 0.4, semanticBoundary(&Input{Content: "hello world"}), 1e-9)
}

func TestTopicConsistency(t *testing.T) {
	assert.Equal(t, 0.5, topicConsistency(&Input{Content: "abc"}))
	assert.InDelta(t, 0.9, topicConsistency(&Input{Content: "检查并更换滤芯"}), 1e-9)
}

func TestContextCoherence(t *testing.T) {
	assert.Equal(t, 0.7, contextCoherence(&Input{Content: "single sentence"}))

	same := &Input{Content: "engine check", Previous: "engine check", Next: "engine check"}
	assert.InDelta(t, 1.0, contextCoherence(same), 1e-9)
}

func TestLogicalStructure(t *testing.T) {
	assert.Equal(t, 0.7, logicalStructure(&Input{Content: "hello world"}))
	assert.InDelta(t, 0.9, logicalStructure(&Input{Content: "因为温度过高，所以关闭发动机。"}), 1e-9)
}

func TestInformationUnit(t *testing.T) {
	assert.Equal(t, 0.4, informationUnit(&Input{Content: "hello"}))
}

func TestReferenceCompleteness(t *testing.T) {
	assert.Equal(t, 0.8, referenceCompleteness(&Input{Content: "no references here"}))
	assert.Equal(t, 0.4, referenceCompleteness(&Input{Content: "see Figure 1."}))
	assert.Equal(t, 0.8, referenceCompleteness(&Input{
		Content:  "see Figure 1.",
		Metadata: types.Metadata{"figures": []string{"fig1.png"}},
	}))
}

func TestContextDependency(t *testing.T) {
	assert.Equal(t, 0.7, contextDependency(&Input{Content: "plain"}))
	assert.Equal(t, 0.4, contextDependency(&Input{Content: "As shown above, x."}))
	assert.Equal(t, 0.9, contextDependency(&Input{Content: "As shown above, x.", Previous: "p"}))
}

func TestDimensionsBounded(t *testing.T) {
	samples := []string{
		"",
		"   ",
		"第一章 总则\n\n1. 检查发动机。\n2. 更换滤芯。\n\n警告：必须在断电后进行操作，否则可能导致严重的人身伤害。",
		"Step 1 remove panel. Step 3 install cover",
		"| a | b |\n| 1 | 2 |",
		strings.Repeat("液压系统压力：3000 psi。", 200),
		"As shown above, see Table 2 and Section 4.",
	}

	for name, fn := range dimensionFuncs {
		for _, s := range samples {
			in := &Input{Content: s, Previous: "prev", Lengths: []int{10, len(s), 30}, Index: 1}
			got := fn(in)
			assert.GreaterOrEqual(t, got, 0.0, name)
			assert.LessOrEqual(t, got, 1.0, name)
		}
	}
}
