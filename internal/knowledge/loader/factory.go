package loader

import (
	"context"
	"os"
	"path/filepath"
	"sort"

	kbtypes "github.com/lk2023060901/rag-chunker/internal/knowledge/types"
	apperrors "github.com/lk2023060901/rag-chunker/internal/pkg/errors"
)

// Factory Loader 工厂
type Factory struct {
	loaders map[kbtypes.FileType]Loader
}

// NewFactory 创建 Loader 工厂
func NewFactory() *Factory {
	factory := &Factory{
		loaders: make(map[kbtypes.FileType]Loader),
	}

	// 注册所有 Loaders
	factory.registerLoader(NewTextLoader())
	factory.registerLoader(NewMarkdownLoader())
	factory.registerLoader(NewJSONLoader())

	return factory
}

// registerLoader 注册 Loader
func (f *Factory) registerLoader(loader Loader) {
	for _, fileType := range loader.SupportedTypes() {
		f.loaders[fileType] = loader
	}
}

// CreateLoader 根据文件类型创建 Loader
func (f *Factory) CreateLoader(fileType kbtypes.FileType) (Loader, error) {
	loader, ok := f.loaders[fileType]
	if !ok {
		return nil, apperrors.Newf(apperrors.ErrDocumentTypeUnsupported, "unsupported file type: %q", fileType)
	}
	return loader, nil
}

// SupportedTypes 返回所有支持的文件类型（已排序）
func (f *Factory) SupportedTypes() []kbtypes.FileType {
	types := make([]kbtypes.FileType, 0, len(f.loaders))
	for fileType := range f.loaders {
		types = append(types, fileType)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}

// LoadFile 按扩展名选择 Loader 加载本地文件，并补充 file_name/file_extension 元数据
func (f *Factory) LoadFile(ctx context.Context, path string) (*Document, error) {
	fileType := kbtypes.FileTypeFromName(path)
	loader, err := f.CreateLoader(fileType)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrDocumentLoadFailed, path)
	}
	defer file.Close()

	doc, err := loader.Load(ctx, file)
	if err != nil {
		return nil, err
	}
	if doc.Metadata == nil {
		doc.Metadata = kbtypes.Metadata{}
	}
	doc.Metadata[kbtypes.MetaFileName] = filepath.Base(path)
	doc.Metadata[kbtypes.MetaFileExtension] = fileType.Extension()
	return doc, nil
}
