package preset

import (
	"github.com/lk2023060901/rag-chunker/internal/knowledge/chunker"
	"github.com/lk2023060901/rag-chunker/internal/knowledge/quality"
)

// 内置预设 ID
const (
	IDDefault             = "default"
	IDRecursive           = "recursive"
	IDStandard            = "standard"
	IDStructure           = "structure"
	IDSemantic            = "semantic"
	IDTable               = "table"
	IDSlide               = "slide"
	IDHighQuality         = "high_quality"
	IDAviationMaintenance = "aviation_maintenance"
	IDAviationRegulation  = "aviation_regulation"
	IDAviationStandard    = "aviation_standard"
	IDAviationTraining    = "aviation_training"
)

// sizing 大小参数
type sizing struct {
	size, overlap, min, max int
}

func newConfig(s sizing, separators []string, regex, preserve bool, strategy string, weights map[string]float64) *chunker.Config {
	return &chunker.Config{
		ChunkSize:        s.size,
		ChunkOverlap:     s.overlap,
		MinChunkSize:     s.min,
		MaxChunkSize:     s.max,
		Separators:       separators,
		IsSeparatorRegex: regex,
		KeepSeparator:    true,
		StripWhitespace:  true,
		AddStartIndex:    true,
		PreserveContext:  preserve,
		QualityStrategy:  strategy,
		QualityWeights:   weights,
	}
}

// builtins 内置预设
func builtins() []*Preset {
	general := sizing{chunker.DefaultChunkSize, chunker.DefaultChunkOverlap, chunker.DefaultMinChunkSize, chunker.DefaultMaxChunkSize}

	return []*Preset{
		{
			ID:          IDDefault,
			Description: "通用中英文分块",
			Config:      newConfig(general, chunker.DefaultSeparators(), false, true, quality.StrategyBasic, nil),
		},
		{
			ID:          IDRecursive,
			Description: "递归分块（Word/纯文本）",
			Config:      newConfig(general, chunker.DefaultSeparators(), false, true, quality.StrategyBasic, nil),
		},
		{
			ID:          IDStandard,
			Description: "精简分隔符的递归分块",
			Config:      newConfig(sizing{800, 100, 50, 1600}, chunker.StandardSeparators(), false, true, quality.StrategyBasic, nil),
		},
		{
			ID:          IDStructure,
			Description: "按章节条款结构分块",
			Config:      newConfig(sizing{1200, 0, 100, 2400}, chunker.StructureSeparators(), true, false, quality.StrategyContentCompleteness, nil),
		},
		{
			ID:          IDSemantic,
			Description: "按段落和句子分块，侧重语义连贯",
			Config:      newConfig(sizing{800, 100, 100, 1600}, chunker.SemanticSeparators(), false, true, quality.StrategySemantic, nil),
		},
		{
			ID:          IDTable,
			Description: "表格按行分块",
			Config:      newConfig(sizing{1500, 0, 50, 3000}, chunker.TableSeparators(), false, false, quality.StrategyLengthUniformity, nil),
		},
		{
			ID:          IDSlide,
			Description: "演示文稿按页分块",
			Config:      newConfig(sizing{600, 0, 20, 1200}, chunker.SlideSeparators(), false, false, quality.StrategyLengthUniformity, nil),
		},
		{
			ID:          IDHighQuality,
			Description: "高质量分块，侧重内容完整性",
			Config:      newConfig(sizing{800, 150, 150, 1600}, chunker.DefaultSeparators(), false, true, quality.StrategyContentCompleteness, nil),
		},
		{
			ID:          IDAviationMaintenance,
			Description: "航空维修手册（任务/步骤）",
			Config: newConfig(sizing{1200, 150, 100, 2400}, chunker.AviationMaintenanceSeparators(), true, true,
				quality.StrategyAviation, quality.AviationWeights(quality.DocTypeMaintenance)),
		},
		{
			ID:          IDAviationRegulation,
			Description: "航空规章制度（条款）",
			Config: newConfig(sizing{1000, 100, 100, 2000}, chunker.AviationRegulationSeparators(), true, true,
				quality.StrategyAviation, quality.AviationWeights(quality.DocTypeRegulation)),
		},
		{
			ID:          IDAviationStandard,
			Description: "航空技术标准（章节编号）",
			Config: newConfig(sizing{1000, 150, 100, 2000}, chunker.AviationStandardSeparators(), true, true,
				quality.StrategyAviation, quality.AviationWeights(quality.DocTypeStandard)),
		},
		{
			ID:          IDAviationTraining,
			Description: "航空培训教材（章/课）",
			Config: newConfig(sizing{1000, 200, 100, 2000}, chunker.AviationTrainingSeparators(), true, true,
				quality.StrategyAviation, quality.AviationWeights(quality.DocTypeTraining)),
		},
	}
}
