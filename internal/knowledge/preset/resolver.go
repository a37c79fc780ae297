package preset

import (
	"regexp"
	"strings"

	"github.com/lk2023060901/rag-chunker/internal/knowledge/types"
)

// Resolution 预设解析结果
type Resolution struct {
	PresetID string // 预设 ID
	Rule     string // 命中的规则
}

// rule 关键词规则
type rule struct {
	name     string
	presetID string
	pattern  *regexp.Regexp
}

// Resolver 根据文档元数据选择预设（规则版本）
type Resolver struct {
	// 标题/主题中的领域关键词
	domainRules []rule
	// 格式标签
	formatRules []rule
	// 文件扩展名
	extensionRules map[string]string

	defaultID string
}

// NewResolver 创建解析器，defaultID 为空时使用 default
func NewResolver(defaultID string) *Resolver {
	if defaultID == "" {
		defaultID = IDDefault
	}
	return &Resolver{
		domainRules: []rule{
			{name: "domain:maintenance", presetID: IDAviationMaintenance, pattern: regexp.MustCompile(`(?i)维修|手册|maintenance|manual`)},
			{name: "domain:regulation", presetID: IDAviationRegulation, pattern: regexp.MustCompile(`(?i)规章|制度|regulation|policy`)},
			{name: "domain:standard", presetID: IDAviationStandard, pattern: regexp.MustCompile(`(?i)标准|规范|standard|specification`)},
			{name: "domain:training", presetID: IDAviationTraining, pattern: regexp.MustCompile(`(?i)培训|教学|training|education`)},
		},
		formatRules: []rule{
			{name: "format:pdf", presetID: IDStructure, pattern: regexp.MustCompile(`(?i)^pdf$`)},
			{name: "format:word", presetID: IDRecursive, pattern: regexp.MustCompile(`(?i)^(word|docx?)$`)},
			{name: "format:text", presetID: IDRecursive, pattern: regexp.MustCompile(`(?i)^(text|txt|md|markdown)$`)},
			{name: "format:excel", presetID: IDTable, pattern: regexp.MustCompile(`(?i)^(excel|xlsx?)$`)},
			{name: "format:powerpoint", presetID: IDSlide, pattern: regexp.MustCompile(`(?i)^(powerpoint|pptx?)$`)},
		},
		extensionRules: map[string]string{
			".pdf":  IDStructure,
			".doc":  IDRecursive,
			".docx": IDRecursive,
			".txt":  IDRecursive,
			".md":   IDRecursive,
			".xls":  IDTable,
			".xlsx": IDTable,
			".ppt":  IDSlide,
			".pptx": IDSlide,
		},
		defaultID: defaultID,
	}
}

// Resolve 返回预设 ID，从不失败
func (r *Resolver) Resolve(metadata types.Metadata) string {
	return r.ResolveWithReason(metadata).PresetID
}

// ResolveWithReason 返回预设 ID 及命中的规则
func (r *Resolver) ResolveWithReason(metadata types.Metadata) *Resolution {
	if len(metadata) == 0 {
		return &Resolution{PresetID: r.defaultID, Rule: "default"}
	}

	// 领域关键词
	text := strings.TrimSpace(metadata.Title() + " " + metadata.Subject())
	if text != "" {
		for _, rl := range r.domainRules {
			if rl.pattern.MatchString(text) {
				return &Resolution{PresetID: rl.presetID, Rule: rl.name}
			}
		}
	}

	// 格式标签
	if docType := strings.TrimSpace(metadata.DocumentType()); docType != "" {
		for _, rl := range r.formatRules {
			if rl.pattern.MatchString(docType) {
				return &Resolution{PresetID: rl.presetID, Rule: rl.name}
			}
		}
	}

	// 文件扩展名
	if ext := metadata.FileExtension(); ext != "" {
		if id, ok := r.extensionRules[ext]; ok {
			return &Resolution{PresetID: id, Rule: "extension:" + ext}
		}
	}

	return &Resolution{PresetID: r.defaultID, Rule: "default"}
}
