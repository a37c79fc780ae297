package loader

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/tidwall/gjson"

	kbtypes "github.com/lk2023060901/rag-chunker/internal/knowledge/types"
	apperrors "github.com/lk2023060901/rag-chunker/internal/pkg/errors"
)

// contentPaths 依次尝试的正文字段
var contentPaths = []string{"content", "text", "body"}

// metadataPaths 复制到元数据的字段
var metadataPaths = []string{kbtypes.MetaTitle, kbtypes.MetaSubject, kbtypes.MetaDocumentType}

// JSONLoader JSON 文件加载器
type JSONLoader struct{}

// NewJSONLoader 创建 JSON 加载器
func NewJSONLoader() *JSONLoader {
	return &JSONLoader{}
}

// Load 加载 JSON 内容
//
// 顶层对象包含 content/text/body 字符串字段时直接使用该字段，
// 否则把整个文档展开为缩进的 key: value 文本
func (l *JSONLoader) Load(ctx context.Context, reader io.Reader) (*Document, error) {
	content, err := readAll(ctx, reader)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrDocumentLoadFailed, "read json content")
	}
	if !gjson.ValidBytes(content) {
		return nil, apperrors.New(apperrors.ErrDocumentLoadFailed, "invalid JSON format")
	}

	result := gjson.ParseBytes(content)
	metadata := kbtypes.Metadata{
		"loader":        "json",
		"original_size": len(content),
	}

	text, field := "", ""
	if result.IsObject() {
		for _, path := range contentPaths {
			if v := result.Get(path); v.Type == gjson.String && strings.TrimSpace(v.String()) != "" {
				text, field = v.String(), path
				break
			}
		}
		for _, path := range metadataPaths {
			if v := result.Get(path); v.Type == gjson.String && v.String() != "" {
				metadata[path] = v.String()
			}
		}
	}
	if field == "" {
		text = flatten(result)
	} else {
		metadata["content_field"] = field
	}
	if _, ok := metadata[kbtypes.MetaDocumentType]; !ok {
		metadata[kbtypes.MetaDocumentType] = kbtypes.FileTypeJson.String()
	}

	return &Document{
		Content:  text,
		Metadata: metadata,
	}, nil
}

// flatten 将 JSON 转换为可读文本
func flatten(result gjson.Result) string {
	var sb strings.Builder
	var write func(key string, value gjson.Result, depth int)
	write = func(key string, value gjson.Result, depth int) {
		indent := strings.Repeat("  ", depth)

		switch value.Type {
		case gjson.String:
			fmt.Fprintf(&sb, "%s%s: %s\n", indent, key, value.String())
		case gjson.Number:
			fmt.Fprintf(&sb, "%s%s: %s\n", indent, key, value.Raw)
		case gjson.True, gjson.False:
			fmt.Fprintf(&sb, "%s%s: %v\n", indent, key, value.Bool())
		case gjson.Null:
			fmt.Fprintf(&sb, "%s%s: null\n", indent, key)
		case gjson.JSON:
			if value.IsArray() {
				fmt.Fprintf(&sb, "%s%s: [\n", indent, key)
				for i, item := range value.Array() {
					write(fmt.Sprintf("[%d]", i), item, depth+1)
				}
				fmt.Fprintf(&sb, "%s]\n", indent)
			} else {
				fmt.Fprintf(&sb, "%s%s: {\n", indent, key)
				value.ForEach(func(k, v gjson.Result) bool {
					write(k.String(), v, depth+1)
					return true
				})
				fmt.Fprintf(&sb, "%s}\n", indent)
			}
		}
	}

	switch {
	case result.IsArray():
		for i, item := range result.Array() {
			write(fmt.Sprintf("Item %d", i), item, 0)
		}
	case result.IsObject():
		result.ForEach(func(key, value gjson.Result) bool {
			write(key.String(), value, 0)
			return true
		})
	default:
		return result.String()
	}
	return sb.String()
}

// SupportedTypes 返回支持的文件类型
func (l *JSONLoader) SupportedTypes() []kbtypes.FileType {
	return []kbtypes.FileType{
		kbtypes.FileTypeJson,
	}
}
