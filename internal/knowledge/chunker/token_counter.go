package chunker

import (
	"fmt"
	"unicode"

	"github.com/pkoukk/tiktoken-go"
)

// DefaultEncoding 默认 tiktoken 编码
const DefaultEncoding = "cl100k_base"

// TokenCounter Token 计数器
type TokenCounter interface {
	Count(text string) int
}

// TiktokenCounter 基于 tiktoken 的计数器
type TiktokenCounter struct {
	encoding *tiktoken.Tiktoken
}

// NewTiktokenCounter 创建 tiktoken 计数器（首次使用某编码时会下载词表）
func NewTiktokenCounter(encoding string) (*TiktokenCounter, error) {
	if encoding == "" {
		encoding = DefaultEncoding
	}

	enc, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		return nil, fmt.Errorf("failed to get encoding: %w", err)
	}

	return &TiktokenCounter{encoding: enc}, nil
}

// Count 计算 token 数量
func (c *TiktokenCounter) Count(text string) int {
	if text == "" {
		return 0
	}
	return len(c.encoding.Encode(text, nil, nil))
}

// EstimateCounter 离线估算：CJK 字符各算一个 token，其余字符约 4 个一个 token
type EstimateCounter struct{}

// Count 估算 token 数量
func (EstimateCounter) Count(text string) int {
	cjk, other := 0, 0
	for _, r := range text {
		switch {
		case isCJK(r):
			cjk++
		case unicode.IsSpace(r):
		default:
			other++
		}
	}
	return cjk + (other+3)/4
}
