package preset

import (
	"testing"

	"github.com/lk2023060901/rag-chunker/internal/knowledge/types"
)

func TestResolver_Resolve(t *testing.T) {
	resolver := NewResolver("")

	tests := []struct {
		name     string
		metadata types.Metadata
		expected string
	}{
		// 空元数据
		{
			name:     "nil metadata",
			metadata: nil,
			expected: IDDefault,
		},
		{
			name:     "empty metadata",
			metadata: types.Metadata{},
			expected: IDDefault,
		},

		// 领域关键词
		{
			name:     "maintenance - chinese title",
			metadata: types.Metadata{"title": "A320 维修手册"},
			expected: IDAviationMaintenance,
		},
		{
			name:     "maintenance - english subject",
			metadata: types.Metadata{"subject": "Aircraft Maintenance Manual"},
			expected: IDAviationMaintenance,
		},
		{
			name:     "regulation",
			metadata: types.Metadata{"title": "民航规章汇编"},
			expected: IDAviationRegulation,
		},
		{
			name:     "standard - case insensitive",
			metadata: types.Metadata{"title": "SPECIFICATION for fasteners"},
			expected: IDAviationStandard,
		},
		{
			name:     "training",
			metadata: types.Metadata{"title": "飞行员培训教材"},
			expected: IDAviationTraining,
		},
		{
			name:     "domain keyword wins over format",
			metadata: types.Metadata{"title": "Training slides", "document_type": "pptx"},
			expected: IDAviationTraining,
		},

		// 格式标签
		{
			name:     "format - pdf",
			metadata: types.Metadata{"document_type": "PDF"},
			expected: IDStructure,
		},
		{
			name:     "format - word",
			metadata: types.Metadata{"document_type": "word"},
			expected: IDRecursive,
		},
		{
			name:     "format - text",
			metadata: types.Metadata{"document_type": "txt"},
			expected: IDRecursive,
		},
		{
			name:     "format - excel",
			metadata: types.Metadata{"document_type": "Excel"},
			expected: IDTable,
		},
		{
			name:     "format - powerpoint",
			metadata: types.Metadata{"document_type": "powerpoint"},
			expected: IDSlide,
		},

		// 扩展名
		{
			name:     "extension field",
			metadata: types.Metadata{"file_extension": "xlsx"},
			expected: IDTable,
		},
		{
			name:     "extension from file name",
			metadata: types.Metadata{"file_name": "deck.PPT"},
			expected: IDSlide,
		},
		{
			name:     "markdown file",
			metadata: types.Metadata{"file_name": "notes.md"},
			expected: IDRecursive,
		},

		// 无法识别
		{
			name:     "unknown format",
			metadata: types.Metadata{"document_type": "image", "file_name": "scan.png"},
			expected: IDDefault,
		},
		{
			name:     "unrelated title",
			metadata: types.Metadata{"title": "Quarterly report"},
			expected: IDDefault,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := resolver.Resolve(tt.metadata)
			if got != tt.expected {
				t.Errorf("Resolve() = %v, expected %v", got, tt.expected)
			}
		})
	}
}

func TestResolver_ResolveWithReason(t *testing.T) {
	resolver := NewResolver(IDSemantic)

	r := resolver.ResolveWithReason(types.Metadata{"file_name": "a.pdf"})
	if r.PresetID != IDStructure || r.Rule != "extension:.pdf" {
		t.Errorf("ResolveWithReason() = %+v", r)
	}

	r = resolver.ResolveWithReason(types.Metadata{"title": "hello"})
	if r.PresetID != IDSemantic || r.Rule != "default" {
		t.Errorf("ResolveWithReason() = %+v, expected custom default", r)
	}
}

func TestResolver_AlwaysRegistered(t *testing.T) {
	registry := NewRegistry()
	resolver := NewResolver("")

	samples := []types.Metadata{
		nil,
		{"title": "维修"}, {"title": "规章"}, {"title": "标准"}, {"title": "培训"},
		{"document_type": "pdf"}, {"document_type": "docx"}, {"document_type": "xls"}, {"document_type": "ppt"},
		{"file_name": "x.txt"},
	}
	for _, md := range samples {
		if id := resolver.Resolve(md); !registry.Has(id) {
			t.Errorf("Resolve(%v) = %q, not a registered preset", md, id)
		}
	}
}
