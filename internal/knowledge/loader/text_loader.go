package loader

import (
	"context"
	"io"
	"unicode/utf8"

	kbtypes "github.com/lk2023060901/rag-chunker/internal/knowledge/types"
	apperrors "github.com/lk2023060901/rag-chunker/internal/pkg/errors"
)

// TextLoader 纯文本加载器
type TextLoader struct{}

// NewTextLoader 创建纯文本加载器
func NewTextLoader() *TextLoader {
	return &TextLoader{}
}

// Load 加载纯文本内容，内容必须是合法的 UTF-8
func (l *TextLoader) Load(ctx context.Context, reader io.Reader) (*Document, error) {
	content, err := readAll(ctx, reader)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrDocumentLoadFailed, "read text content")
	}
	if !utf8.Valid(content) {
		return nil, apperrors.New(apperrors.ErrDocumentLoadFailed, "text content is not valid UTF-8")
	}

	return &Document{
		Content: string(content),
		Metadata: kbtypes.Metadata{
			"loader":                 "text",
			kbtypes.MetaDocumentType: kbtypes.FileTypeTxt.String(),
		},
	}, nil
}

// SupportedTypes 返回支持的文件类型
func (l *TextLoader) SupportedTypes() []kbtypes.FileType {
	return []kbtypes.FileType{
		kbtypes.FileTypeTxt,
	}
}
