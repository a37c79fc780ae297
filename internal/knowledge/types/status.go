package types

import (
	"path/filepath"
	"strings"
)

// FileType 文件类型
type FileType string

const (
	FileTypeTxt  FileType = "txt"
	FileTypeMd   FileType = "md"
	FileTypeJson FileType = "json"
	FileTypeHtml FileType = "html"
	FileTypePdf  FileType = "pdf"
	FileTypeDoc  FileType = "doc"
	FileTypeDocx FileType = "docx"
	FileTypeXls  FileType = "xls"
	FileTypeXlsx FileType = "xlsx"
	FileTypePpt  FileType = "ppt"
	FileTypePptx FileType = "pptx"
)

// Valid 检查文件类型是否有效
func (ft FileType) Valid() bool {
	switch ft {
	case FileTypeTxt, FileTypeMd, FileTypeJson, FileTypeHtml, FileTypePdf,
		FileTypeDoc, FileTypeDocx, FileTypeXls, FileTypeXlsx, FileTypePpt, FileTypePptx:
		return true
	}
	return false
}

// String 返回字符串表示
func (ft FileType) String() string {
	return string(ft)
}

// Extension 返回带点的扩展名
func (ft FileType) Extension() string {
	if ft == "" {
		return ""
	}
	return "." + string(ft)
}

// FileTypeFromName 根据文件名推断文件类型，无法识别时返回空
func FileTypeFromName(name string) FileType {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".")
	if ext == "markdown" {
		ext = "md"
	}
	ft := FileType(ext)
	if !ft.Valid() {
		return ""
	}
	return ft
}
