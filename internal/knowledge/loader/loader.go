package loader

import (
	"context"
	"io"

	kbtypes "github.com/lk2023060901/rag-chunker/internal/knowledge/types"
)

// Loader 文档加载器接口
type Loader interface {
	// Load 读取文档并转换为纯文本
	Load(ctx context.Context, reader io.Reader) (*Document, error)

	// SupportedTypes 返回支持的文件类型
	SupportedTypes() []kbtypes.FileType
}

// Document 加载后的文档
type Document struct {
	Content  string           // 文档文本内容
	Metadata kbtypes.Metadata // 文档元数据，可直接用于预设解析
}

// LoaderFactory Loader 工厂接口
type LoaderFactory interface {
	// CreateLoader 根据文件类型创建 Loader
	CreateLoader(fileType kbtypes.FileType) (Loader, error)

	// SupportedTypes 返回所有支持的文件类型
	SupportedTypes() []kbtypes.FileType
}

// readAll 读取全部内容，读取前检查 context
func readAll(ctx context.Context, reader io.Reader) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return io.ReadAll(reader)
}
