package processor

import (
	"fmt"
	"strings"

	"github.com/lk2023060901/rag-chunker/internal/knowledge/chunker"
	"github.com/lk2023060901/rag-chunker/internal/knowledge/types"
)

// ValidationReport 分块结果校验报告
type ValidationReport struct {
	Valid            bool     `json:"valid"`
	TotalChunks      int      `json:"total_chunks"`
	EmptyChunks      int      `json:"empty_chunks"`
	UndersizedChunks int      `json:"undersized_chunks"`
	OversizedChunks  int      `json:"oversized_chunks"`
	MinSize          int      `json:"min_size"`
	MaxSize          int      `json:"max_size"`
	AvgSize          float64  `json:"avg_size"`
	Issues           []string `json:"issues,omitempty"`
}

// ValidateChunks 检查分块大小分布和顺序
func ValidateChunks(chunks []*types.Chunk, cfg *chunker.Config) *ValidationReport {
	r := &ValidationReport{Valid: true, TotalChunks: len(chunks)}
	if len(chunks) == 0 {
		return r
	}
	if cfg == nil {
		cfg = chunker.DefaultConfig()
	}

	// 整篇文档过短时允许唯一的分块低于下限
	allowShort := len(chunks) == 1

	total := 0
	lastStart := -1
	for i, c := range chunks {
		n := c.CharacterCount
		total += n
		if i == 0 || n < r.MinSize {
			r.MinSize = n
		}
		if n > r.MaxSize {
			r.MaxSize = n
		}

		switch {
		case strings.TrimSpace(c.Content) == "":
			r.EmptyChunks++
			r.Issues = append(r.Issues, fmt.Sprintf("chunk %d is empty", i))
		case n < cfg.MinChunkSize && !allowShort:
			r.UndersizedChunks++
			r.Issues = append(r.Issues, fmt.Sprintf("chunk %d has %d characters, below min_chunk_size %d", i, n, cfg.MinChunkSize))
		case n > cfg.MaxChunkSize:
			r.OversizedChunks++
			r.Issues = append(r.Issues, fmt.Sprintf("chunk %d has %d characters, above max_chunk_size %d", i, n, cfg.MaxChunkSize))
		}

		if c.Index != i {
			r.Issues = append(r.Issues, fmt.Sprintf("chunk %d has index %d", i, c.Index))
		}
		if c.StartPosition >= 0 {
			if c.StartPosition < lastStart {
				r.Issues = append(r.Issues, fmt.Sprintf("chunk %d starts before its predecessor", i))
			}
			lastStart = c.StartPosition
		}
	}
	r.AvgSize = float64(total) / float64(len(chunks))

	r.Valid = len(r.Issues) == 0
	return r
}
