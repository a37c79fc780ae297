package chunker

import (
	"context"
	"regexp"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	apperrors "github.com/lk2023060901/rag-chunker/internal/pkg/errors"
	"github.com/lk2023060901/rag-chunker/internal/pkg/logger"
)

// RecursiveChunker 递归分块器（按分隔符层级递归分割，再贪心合并）
type RecursiveChunker struct {
	cfg        *Config
	separators []separator
	counter    TokenCounter
}

// separator 编译后的分隔符
type separator struct {
	literal string
	re      *regexp.Regexp
}

// span 源文本中的字节区间 [start, end)
type span struct {
	start int
	end   int
}

// NewRecursiveChunker 创建递归分块器，counter 为 nil 时不计算 token
func NewRecursiveChunker(cfg *Config, counter TokenCounter) (*RecursiveChunker, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	cfg = cfg.Clone()

	if len(cfg.Separators) == 0 {
		cfg.Separators = DefaultSeparators()
	}

	if err := cfg.ValidateSplit(); err != nil {
		return nil, err
	}

	seps := make([]separator, 0, len(cfg.Separators))
	for i, s := range cfg.Separators {
		if !cfg.IsSeparatorRegex || s == "" {
			seps = append(seps, separator{literal: s})
			continue
		}
		re, err := regexp.Compile(s)
		if err != nil {
			e := apperrors.Wrapf(err, apperrors.ErrSeparatorInvalid, "separators[%d]=%q", i, s)
			e.Field = "separators"
			return nil, e
		}
		seps = append(seps, separator{re: re})
	}

	return &RecursiveChunker{
		cfg:        cfg,
		separators: seps,
		counter:    counter,
	}, nil
}

// ChunkSize 返回分块大小
func (c *RecursiveChunker) ChunkSize() int {
	return c.cfg.ChunkSize
}

// ChunkOverlap 返回分块重叠大小
func (c *RecursiveChunker) ChunkOverlap() int {
	return c.cfg.ChunkOverlap
}

// Chunk 将文本分块，context 已取消时返回其错误
func (c *RecursiveChunker) Chunk(ctx context.Context, text string) ([]*TextChunk, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	_, chunks := c.Split(ctx, text)
	return chunks, nil
}

// Split 分块并返回偏移量所对应的文本（开启 NormalizeText 时为规范化后的文本）
func (c *RecursiveChunker) Split(ctx context.Context, text string) (string, []*TextChunk) {
	if c.cfg.NormalizeText {
		text = Normalize(text)
	}
	if text == "" {
		return text, []*TextChunk{}
	}

	pieces := c.splitSpan(text, span{start: 0, end: len(text)}, c.separators, nil)
	merged := c.mergePieces(text, pieces)
	chunks := c.buildChunks(text, merged)

	logger.FromContext(ctx).Debug("text split",
		zap.Int("runes", utf8.RuneCountInString(text)),
		zap.Int("pieces", len(pieces)),
		zap.Int("chunks", len(chunks)),
	)

	return text, chunks
}

// splitSpan 递归分割，返回的每一段都不超过 ChunkSize 个字符
func (c *RecursiveChunker) splitSpan(text string, sp span, seps []separator, out []span) []span {
	if sp.end <= sp.start {
		return out
	}
	if utf8.RuneCountInString(text[sp.start:sp.end]) <= c.cfg.ChunkSize {
		return append(out, sp)
	}

	for i, sep := range seps {
		if sep.empty() {
			return c.hardSlice(text, sp, out)
		}

		bounds := sep.find(text[sp.start:sp.end])
		if len(bounds) == 0 {
			continue
		}

		rest := seps[i+1:]
		for _, p := range c.cut(sp, bounds) {
			out = c.splitSpan(text, p, rest, out)
		}
		return out
	}

	// 分隔符用尽
	return c.hardSlice(text, sp, out)
}

// cut 按分隔符位置切分区间
func (c *RecursiveChunker) cut(sp span, bounds [][2]int) []span {
	pieces := make([]span, 0, len(bounds)+1)
	cur := sp.start
	for _, b := range bounds {
		ms, me := sp.start+b[0], sp.start+b[1]
		if c.cfg.KeepSeparator {
			// 分隔符归属前一段
			if me > cur {
				pieces = append(pieces, span{start: cur, end: me})
			}
		} else if ms > cur {
			pieces = append(pieces, span{start: cur, end: ms})
		}
		cur = me
	}
	if sp.end > cur {
		pieces = append(pieces, span{start: cur, end: sp.end})
	}
	return pieces
}

// hardSlice 按固定字符数切分
func (c *RecursiveChunker) hardSlice(text string, sp span, out []span) []span {
	start := sp.start
	count := 0
	for i := range text[sp.start:sp.end] {
		if count == c.cfg.ChunkSize {
			out = append(out, span{start: start, end: sp.start + i})
			start = sp.start + i
			count = 0
		}
		count++
	}
	if start < sp.end {
		out = append(out, span{start: start, end: sp.end})
	}
	return out
}

// mergePieces 贪心合并相邻段，直到再加一段会超过 ChunkSize
func (c *RecursiveChunker) mergePieces(text string, pieces []span) []span {
	size := c.cfg.ChunkSize
	merged := make([]span, 0, len(pieces))

	cur := span{start: -1, end: -1}
	curLen := 0
	for _, p := range pieces {
		pLen := utf8.RuneCountInString(text[p.start:p.end])
		if cur.start < 0 {
			cur, curLen = p, pLen
			continue
		}

		// 被丢弃的分隔符在块内部保留
		gap := utf8.RuneCountInString(text[cur.end:p.start])
		if curLen+gap+pLen <= size {
			cur.end = p.end
			curLen += gap + pLen
			continue
		}

		merged = append(merged, cur)
		next, nextLen := p, pLen

		if c.cfg.PreserveContext && c.cfg.ChunkOverlap > 0 {
			seed := min(c.cfg.ChunkOverlap, size-gap-pLen, curLen)
			if seed > 0 {
				next = span{start: runesBefore(text, cur.end, seed), end: p.end}
				nextLen = seed + gap + pLen
			}
		}
		cur, curLen = next, nextLen
	}
	if cur.start >= 0 {
		merged = append(merged, cur)
	}
	return merged
}

// buildChunks 去除首尾空白并生成 TextChunk
func (c *RecursiveChunker) buildChunks(text string, spans []span) []*TextChunk {
	chunks := make([]*TextChunk, 0, len(spans))
	for _, sp := range spans {
		start, end := sp.start, sp.end
		if c.cfg.StripWhitespace {
			start, end = trimSpan(text, start, end)
		}
		if end <= start {
			continue
		}

		content := text[start:end]
		chunk := &TextChunk{
			Index:   len(chunks),
			Content: content,
			Start:   -1,
			End:     -1,
		}
		if c.cfg.AddStartIndex {
			chunk.Start, chunk.End = start, end
		}
		if c.counter != nil {
			chunk.TokenCount = c.counter.Count(content)
		}
		chunks = append(chunks, chunk)
	}
	return chunks
}

func (s separator) empty() bool {
	if s.re != nil {
		return s.re.String() == ""
	}
	return s.literal == ""
}

// find 返回分隔符在 text 中的所有位置；正则带捕获组时只取第一个捕获组
func (s separator) find(text string) [][2]int {
	var bounds [][2]int

	if s.re == nil {
		offset := 0
		for {
			i := strings.Index(text[offset:], s.literal)
			if i < 0 {
				break
			}
			start := offset + i
			bounds = append(bounds, [2]int{start, start + len(s.literal)})
			offset = start + len(s.literal)
		}
		return bounds
	}

	for _, m := range s.re.FindAllStringSubmatchIndex(text, -1) {
		start, end := m[0], m[1]
		if len(m) >= 4 && m[2] >= 0 {
			start, end = m[2], m[3]
		}
		// 空匹配不切分
		if end > start {
			bounds = append(bounds, [2]int{start, end})
		}
	}
	return bounds
}

// runesBefore 返回 end 之前第 n 个字符的字节位置
func runesBefore(text string, end, n int) int {
	i := end
	for count := 0; i > 0 && count < n; count++ {
		_, size := utf8.DecodeLastRuneInString(text[:i])
		i -= size
	}
	return i
}
