package loader

import (
	"bytes"
	"context"
	"html"
	"io"
	"regexp"
	"strings"

	"github.com/russross/blackfriday/v2"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	goldmarktext "github.com/yuin/goldmark/text"

	kbtypes "github.com/lk2023060901/rag-chunker/internal/knowledge/types"
	apperrors "github.com/lk2023060901/rag-chunker/internal/pkg/errors"
)

var (
	reScript       = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	reStyle        = regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`)
	reLineBreak    = regexp.MustCompile(`(?i)<br\s*/?>|</p>|</li>|</tr>`)
	reHeadingClose = regexp.MustCompile(`(?i)</h[1-6]>`)
	reTag          = regexp.MustCompile(`<[^>]+>`)
	reMultiNewline = regexp.MustCompile(`\n{3,}`)
)

// MarkdownLoader Markdown 加载器
type MarkdownLoader struct {
	md goldmark.Markdown
}

// NewMarkdownLoader 创建 Markdown 加载器
func NewMarkdownLoader() *MarkdownLoader {
	return &MarkdownLoader{md: goldmark.New()}
}

// Load 加载 Markdown 内容，输出纯文本，第一个标题作为 title
func (l *MarkdownLoader) Load(ctx context.Context, reader io.Reader) (*Document, error) {
	content, err := readAll(ctx, reader)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrDocumentLoadFailed, "read markdown content")
	}

	// 将 Markdown 转换为 HTML，再转换为纯文本
	rendered := blackfriday.Run(content)
	plainText := l.htmlToPlainText(string(rendered))

	metadata := kbtypes.Metadata{
		"loader":                 "markdown",
		kbtypes.MetaDocumentType: kbtypes.FileTypeMd.String(),
	}
	if title := l.firstHeading(content); title != "" {
		metadata[kbtypes.MetaTitle] = title
	}

	return &Document{
		Content:  plainText,
		Metadata: metadata,
	}, nil
}

// firstHeading 用 goldmark 解析 AST，返回第一个标题的文本
func (l *MarkdownLoader) firstHeading(source []byte) string {
	doc := l.md.Parser().Parse(goldmarktext.NewReader(source))

	var title string
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		heading, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}
		title = strings.TrimSpace(string(nodeText(heading, source)))
		return ast.WalkStop, nil
	})
	return title
}

// nodeText 拼接节点下所有文本段
func nodeText(n ast.Node, source []byte) []byte {
	var buf bytes.Buffer
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			buf.Write(t.Segment.Value(source))
			if t.SoftLineBreak() {
				buf.WriteByte(' ')
			}
			continue
		}
		buf.Write(nodeText(c, source))
	}
	return buf.Bytes()
}

// htmlToPlainText 将 HTML 转换为纯文本
func (l *MarkdownLoader) htmlToPlainText(s string) string {
	s = reScript.ReplaceAllString(s, "")
	s = reStyle.ReplaceAllString(s, "")

	// 标题后保留段落分隔
	s = reHeadingClose.ReplaceAllString(s, "\n\n")
	s = reLineBreak.ReplaceAllString(s, "\n")

	s = reTag.ReplaceAllString(s, "")
	s = html.UnescapeString(s)

	return l.cleanWhitespace(s)
}

// cleanWhitespace 清理行首行尾空白，最多保留一个空行
func (l *MarkdownLoader) cleanWhitespace(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	s = strings.Join(lines, "\n")
	s = reMultiNewline.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

// SupportedTypes 返回支持的文件类型
func (l *MarkdownLoader) SupportedTypes() []kbtypes.FileType {
	return []kbtypes.FileType{
		kbtypes.FileTypeMd,
	}
}
