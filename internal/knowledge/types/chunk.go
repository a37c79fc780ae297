package types

import (
	"fmt"

	"github.com/google/uuid"
)

// chunkNamespace 分块 UUID 的命名空间（UUIDv5，保证同一文档同一序号得到相同 ID）
var chunkNamespace = uuid.MustParse("6f1c1d9e-3b0a-5c57-9a53-6a0f2b8c4e21")

// Chunk 分块结果，由编排器一次性创建，之后不再修改
type Chunk struct {
	ID      uuid.UUID `json:"id"`
	ChunkID string    `json:"chunk_id"`
	Index   int       `json:"index"`

	Content string `json:"content"`

	// 源文本中的字节偏移，未开启 add_start_index 时为 -1
	StartPosition int `json:"start_position"`
	EndPosition   int `json:"end_position"`

	CharacterCount int `json:"character_count"`
	WordCount      int `json:"word_count"`
	TokenCount     int `json:"token_count"`

	OverlapContent string `json:"overlap_content,omitempty"`

	QualityScore float64         `json:"quality_score"`
	Quality      *QualityMetrics `json:"quality,omitempty"`

	// ChunkType 产生该分块的预设 ID
	ChunkType string `json:"chunk_type"`

	// 预留给层级分块
	ParentID string   `json:"parent_id,omitempty"`
	ChildIDs []string `json:"child_ids,omitempty"`

	Metadata Metadata `json:"metadata,omitempty"`
}

// FormatChunkID 生成文档内有序的分块 ID
func FormatChunkID(documentName string, index int) string {
	return fmt.Sprintf("%s_%04d", documentName, index)
}

// ChunkUUID 根据文档名和序号生成确定性的 UUID
func ChunkUUID(documentName string, index int) uuid.UUID {
	return uuid.NewSHA1(chunkNamespace, []byte(FormatChunkID(documentName, index)))
}
