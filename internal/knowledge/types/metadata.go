package types

import (
	"fmt"
	"path/filepath"
	"strings"
)

// 文档元数据的约定键
const (
	MetaTitle         = "title"
	MetaSubject       = "subject"
	MetaDocumentType  = "document_type"
	MetaFileName      = "file_name"
	MetaFileExtension = "file_extension"
)

// Metadata 文档元数据（仅用于预设解析和分块命名，全部可选）
type Metadata map[string]interface{}

// String 读取字符串字段，非字符串值按 fmt 格式化
func (m Metadata) String(key string) string {
	if m == nil {
		return ""
	}
	v, ok := m[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// Title 文档标题
func (m Metadata) Title() string { return m.String(MetaTitle) }

// Subject 文档主题
func (m Metadata) Subject() string { return m.String(MetaSubject) }

// DocumentType 文档类型标签（如 pdf、word、excel）
func (m Metadata) DocumentType() string { return m.String(MetaDocumentType) }

// FileName 文件名
func (m Metadata) FileName() string { return m.String(MetaFileName) }

// FileExtension 返回小写带点的扩展名，缺省时从文件名推断
func (m Metadata) FileExtension() string {
	ext := strings.ToLower(strings.TrimSpace(m.String(MetaFileExtension)))
	if ext == "" {
		ext = strings.ToLower(filepath.Ext(m.FileName()))
	}
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

// DocumentName 分块 ID 使用的文档名，缺省为 doc
func (m Metadata) DocumentName() string {
	if name := strings.TrimSpace(m.FileName()); name != "" {
		return name
	}
	return "doc"
}

// Clone 浅拷贝
func (m Metadata) Clone() Metadata {
	if m == nil {
		return Metadata{}
	}
	out := make(Metadata, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Has 判断键是否存在且非空
func (m Metadata) Has(key string) bool {
	if m == nil {
		return false
	}
	v, ok := m[key]
	return ok && v != nil
}
