package chunker

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/lk2023060901/rag-chunker/internal/pkg/errors"
)

func newTestConfig(size, overlap int, seps ...string) *Config {
	return &Config{
		ChunkSize:       size,
		ChunkOverlap:    overlap,
		MinChunkSize:    0,
		MaxChunkSize:    size,
		Separators:      seps,
		KeepSeparator:   true,
		StripWhitespace: true,
		AddStartIndex:   true,
		QualityStrategy: "basic",
	}
}

func contents(chunks []*TextChunk) []string {
	out := make([]string, 0, len(chunks))
	for _, c := range chunks {
		out = append(out, c.Content)
	}
	return out
}

func TestRecursiveChunker_SentenceSeparator(t *testing.T) {
	c, err := NewRecursiveChunker(newTestConfig(4, 0, ". "), nil)
	require.NoError(t, err)

	chunks, err := c.Chunk(context.Background(), "A. B. C. D.")
	require.NoError(t, err)

	assert.Equal(t, []string{"A.", "B.", "C.", "D."}, contents(chunks))

	// 偏移量指向去除空白后的内容
	expected := [][2]int{{0, 2}, {3, 5}, {6, 8}, {9, 11}}
	for i, chunk := range chunks {
		assert.Equal(t, i, chunk.Index)
		assert.Equal(t, expected[i][0], chunk.Start)
		assert.Equal(t, expected[i][1], chunk.End)
	}
}

func TestRecursiveChunker_HardSliceTerminates(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ChunkSize = 500
	cfg.ChunkOverlap = 50
	cfg.MinChunkSize = 0

	c, err := NewRecursiveChunker(cfg, nil)
	require.NoError(t, err)

	text := strings.Repeat("a", 100000)
	chunks, err := c.Chunk(context.Background(), text)
	require.NoError(t, err)

	require.Len(t, chunks, 200)
	for _, chunk := range chunks {
		assert.Equal(t, 500, chunk.RuneCount())
	}
}

func TestRecursiveChunker_HardSliceMultibyte(t *testing.T) {
	c, err := NewRecursiveChunker(newTestConfig(3, 0), nil)
	require.NoError(t, err)

	chunks, err := c.Chunk(context.Background(), "航空器维修手册")
	require.NoError(t, err)

	assert.Equal(t, []string{"航空器", "维修手", "册"}, contents(chunks))
	assert.Equal(t, 0, chunks[0].Start)
	assert.Equal(t, 9, chunks[1].Start)
}

func TestRecursiveChunker_ChapterBoundaries(t *testing.T) {
	cfg := newTestConfig(50, 0, StructureSeparators()...)
	cfg.MaxChunkSize = 2000
	cfg.IsSeparatorRegex = true

	c, err := NewRecursiveChunker(cfg, nil)
	require.NoError(t, err)

	text := "第一章 概述\n\n本章介绍系统的总体设计和主要目标。\n\n" +
		"第二章 细节\n\n本章描述各个模块的实现细节与接口。\n\n" +
		"第三章 总结\n\n本章总结全文并给出后续的工作建议。"

	chunks, err := c.Chunk(context.Background(), text)
	require.NoError(t, err)
	require.Len(t, chunks, 3)

	for i, prefix := range []string{"第一章", "第二章", "第三章"} {
		assert.True(t, strings.HasPrefix(chunks[i].Content, prefix), "chunk %d: %q", i, chunks[i].Content)
		assert.Equal(t, chunks[i].Content, text[chunks[i].Start:chunks[i].End])
	}
}

func TestRecursiveChunker_OverlapSeeding(t *testing.T) {
	cfg := newTestConfig(10, 3, " ")
	cfg.StripWhitespace = false
	cfg.PreserveContext = true

	c, err := NewRecursiveChunker(cfg, nil)
	require.NoError(t, err)

	chunks, err := c.Chunk(context.Background(), "aaaa bbbb cccc dddd")
	require.NoError(t, err)

	assert.Equal(t, []string{"aaaa bbbb ", "bb cccc ", "cc dddd"}, contents(chunks))
	for i := 1; i < len(chunks); i++ {
		tail := TailRunes(chunks[i-1].Content, 3)
		assert.True(t, strings.HasPrefix(chunks[i].Content, tail))
		assert.LessOrEqual(t, chunks[i-1].Start, chunks[i].Start)
	}
}

func TestRecursiveChunker_DiscardSeparator(t *testing.T) {
	cfg := newTestConfig(5, 0, ", ")
	cfg.KeepSeparator = false

	c, err := NewRecursiveChunker(cfg, nil)
	require.NoError(t, err)

	chunks, err := c.Chunk(context.Background(), "ab, cd, ef")
	require.NoError(t, err)

	assert.Equal(t, []string{"ab", "cd", "ef"}, contents(chunks))
}

func TestRecursiveChunker_Empty(t *testing.T) {
	c, err := NewRecursiveChunker(DefaultConfig(), nil)
	require.NoError(t, err)

	tests := []struct {
		name string
		text string
	}{
		{name: "empty", text: ""},
		{name: "whitespace", text: "   \n\t\n  "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunks, err := c.Chunk(context.Background(), tt.text)
			require.NoError(t, err)
			assert.NotNil(t, chunks)
			assert.Empty(t, chunks)
		})
	}
}

func TestRecursiveChunker_CancelledContext(t *testing.T) {
	c, err := NewRecursiveChunker(newTestConfig(4, 0, ". "), nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	chunks, err := c.Chunk(ctx, "A. B. C. D.")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, chunks)
}

func TestRecursiveChunker_Invariants(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ChunkSize = 120
	cfg.ChunkOverlap = 20
	cfg.MinChunkSize = 10

	c, err := NewRecursiveChunker(cfg, EstimateCounter{})
	require.NoError(t, err)

	paragraph := "发动机起飞前必须检查滑油压力和燃油流量，确认参数在正常范围内。" +
		"Check the hydraulic pressure before engine start. " +
		"如发现异常，应立即停止操作并报告机务人员。\n\n"
	text := strings.Repeat(paragraph, 20)

	first, err := c.Chunk(context.Background(), text)
	require.NoError(t, err)
	require.NotEmpty(t, first)

	prevStart := -1
	for _, chunk := range first {
		assert.LessOrEqual(t, chunk.RuneCount(), cfg.ChunkSize)
		assert.Equal(t, chunk.Content, text[chunk.Start:chunk.End])
		assert.GreaterOrEqual(t, chunk.Start, prevStart)
		assert.Positive(t, chunk.TokenCount)
		prevStart = chunk.Start
	}

	// 相同输入得到相同输出
	second, err := c.Chunk(context.Background(), text)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestRecursiveChunker_NoStartIndex(t *testing.T) {
	cfg := newTestConfig(4, 0, ". ")
	cfg.AddStartIndex = false

	c, err := NewRecursiveChunker(cfg, nil)
	require.NoError(t, err)

	chunks, err := c.Chunk(context.Background(), "A. B.")
	require.NoError(t, err)
	require.Len(t, chunks, 2)
	for _, chunk := range chunks {
		assert.Equal(t, -1, chunk.Start)
		assert.Equal(t, -1, chunk.End)
	}
}

func TestRecursiveChunker_Normalize(t *testing.T) {
	cfg := newTestConfig(100, 0, "\n\n", "\n", "")
	cfg.NormalizeText = true

	c, err := NewRecursiveChunker(cfg, nil)
	require.NoError(t, err)

	text, chunks := c.Split(context.Background(), "第一行  \r\n第二行\r\n\r\n\r\n\r\n第三行")
	assert.Equal(t, "第一行\n第二行\n\n第三行", text)
	require.Len(t, chunks, 1)
	assert.Equal(t, text, chunks[0].Content)
}

func TestNewRecursiveChunker_InvalidConfig(t *testing.T) {
	tests := []struct {
		name  string
		cfg   func() *Config
		code  int
		field string
	}{
		{
			name: "overlap larger than size",
			cfg: func() *Config {
				cfg := DefaultConfig()
				cfg.ChunkSize = 400
				cfg.ChunkOverlap = 500
				return cfg
			},
			code:  apperrors.ErrChunkConfigInvalid,
			field: "chunk_overlap",
		},
		{
			name: "zero chunk size",
			cfg: func() *Config {
				cfg := DefaultConfig()
				cfg.ChunkSize = 0
				return cfg
			},
			code:  apperrors.ErrChunkConfigInvalid,
			field: "chunk_size",
		},
		{
			name: "chunk size above max",
			cfg: func() *Config {
				cfg := DefaultConfig()
				cfg.ChunkSize = 3000
				return cfg
			},
			code:  apperrors.ErrChunkConfigInvalid,
			field: "chunk_size",
		},
		{
			name: "min above max",
			cfg: func() *Config {
				cfg := DefaultConfig()
				cfg.MinChunkSize = 2500
				return cfg
			},
			code:  apperrors.ErrChunkConfigInvalid,
			field: "min_chunk_size",
		},
		{
			name: "invalid regex",
			cfg: func() *Config {
				cfg := DefaultConfig()
				cfg.IsSeparatorRegex = true
				cfg.Separators = []string{`(\n+`}
				return cfg
			},
			code:  apperrors.ErrSeparatorInvalid,
			field: "separators",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewRecursiveChunker(tt.cfg(), nil)
			require.Error(t, err)
			assert.Nil(t, c)
			assert.True(t, apperrors.Is(err, tt.code), "unexpected error: %v", err)
			assert.Equal(t, tt.field, apperrors.ExtractField(err))
		})
	}
}

func TestFactory_CreateChunker(t *testing.T) {
	f := NewFactory(nil)
	assert.IsType(t, EstimateCounter{}, f.TokenCounter())

	_, err := f.CreateChunker(nil)
	assert.True(t, apperrors.Is(err, apperrors.ErrChunkConfigInvalid))

	c, err := f.CreateChunker(DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, DefaultChunkSize, c.ChunkSize())
	assert.Equal(t, DefaultChunkOverlap, c.ChunkOverlap())
}
