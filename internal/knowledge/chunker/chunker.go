package chunker

import (
	"context"
)

// Chunker 文本分块接口
type Chunker interface {
	// Chunk 将文本分块
	Chunk(ctx context.Context, text string) ([]*TextChunk, error)

	// ChunkSize 返回分块大小（字符数）
	ChunkSize() int

	// ChunkOverlap 返回分块重叠大小（字符数）
	ChunkOverlap() int
}

// TextChunk 文本分块
type TextChunk struct {
	Index      int    // 块序号（从 0 开始）
	Content    string // 块内容
	TokenCount int    // Token 数量，未配置计数器时为 0
	Start      int    // 在原文中的起始字节位置，未开启 AddStartIndex 时为 -1
	End        int    // 在原文中的结束字节位置，未开启 AddStartIndex 时为 -1
}

// RuneCount 字符数
func (c *TextChunk) RuneCount() int {
	return RuneCount(c.Content)
}
