package quality

import (
	"unicode/utf8"

	"github.com/lk2023060901/rag-chunker/internal/knowledge/types"
)

// 未配置大小时的默认值
const (
	defaultTargetSize = 1000
	defaultMinSize    = 100
	defaultMaxSize    = 2000
)

// Input 单个分块的评估输入
type Input struct {
	Content string
	Index   int

	// 相邻分块内容，首尾分块对应一侧为空
	Previous string
	Next     string

	// Lengths 同一文档所有分块的字符数（含当前分块，按 Index 对齐）
	Lengths []int

	ChunkSize    int
	MinChunkSize int
	MaxChunkSize int

	Metadata types.Metadata
}

func (in *Input) runeCount() int {
	return utf8.RuneCountInString(in.Content)
}

// sizes 返回目标、最小、最大字符数
func (in *Input) sizes() (target, lo, hi float64) {
	target, lo, hi = defaultTargetSize, defaultMinSize, defaultMaxSize
	if in.ChunkSize > 0 {
		target = float64(in.ChunkSize)
	}
	if in.MinChunkSize > 0 {
		lo = float64(in.MinChunkSize)
	}
	if in.MaxChunkSize > 0 {
		hi = float64(in.MaxChunkSize)
	}
	return target, lo, hi
}

// otherLengths 除当前分块外的所有分块长度
func (in *Input) otherLengths() []int {
	if len(in.Lengths) == 0 {
		return nil
	}
	out := make([]int, 0, len(in.Lengths))
	for i, l := range in.Lengths {
		if i == in.Index {
			continue
		}
		out = append(out, l)
	}
	return out
}

// neighbourLengths 前后分块的长度，不存在时为 0
func (in *Input) neighbourLengths() (prev, next int) {
	if in.Index > 0 && in.Index-1 < len(in.Lengths) {
		prev = in.Lengths[in.Index-1]
	}
	if in.Index+1 < len(in.Lengths) {
		next = in.Lengths[in.Index+1]
	}
	return prev, next
}
