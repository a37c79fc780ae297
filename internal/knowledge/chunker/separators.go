package chunker

// 分隔符层级，均由粗到细排列，最后的 "" 表示按字符硬切

// DefaultSeparators 中英文通用分隔符
func DefaultSeparators() []string {
	return []string{
		"\n\n\n", "\n\n",
		"\n", "。", "！", "？", ". ", "! ", "? ",
		"；", "; ", "，", ", ", "、", "：", ": ",
		" ", "\t",
		"",
	}
}

// StandardSeparators 英文段落/句子/单词
func StandardSeparators() []string {
	return []string{"\n\n", "\n", ". ", " ", ""}
}

// SemanticSeparators 以段落和句子为主
func SemanticSeparators() []string {
	return []string{
		"\n\n", "\n",
		"。", "！", "？", ". ", "! ", "? ",
		"；", "; ",
		"",
	}
}

// TableSeparators 以行为单位
func TableSeparators() []string {
	return []string{"\n\n", "\n", "\t", " | ", ",", " ", ""}
}

// SlideSeparators 以分页为单位
func SlideSeparators() []string {
	return []string{"\f", "\n\n\n", "\n\n", "\n", "。", ". ", " ", ""}
}

// StructureSeparators 章节结构（正则）
//
// 带捕获组的模式只在捕获组处切分，标记本身保留在下一段开头
func StructureSeparators() []string {
	return []string{
		`(\n+)第[一二三四五六七八九十百千零〇\d]+[章部篇]`,
		`(\n+)(?:第[一二三四五六七八九十百千零〇\d]+节|Chapter\s+\d+|#{1,3}\s)`,
		`(\n+)(?:第[一二三四五六七八九十百千零〇\d]+条|Section\s+\d+|Article\s+\d+|\d+\.\d+\s)`,
		`\n\n+`,
		`\n`,
		`[。！？]|[.!?]\s`,
		`[；;]`,
		`[，,、]`,
		`\s+`,
		``,
	}
}

// AviationMaintenanceSeparators 维修手册：任务/步骤优先（正则）
func AviationMaintenanceSeparators() []string {
	return []string{
		`(\n+)(?:TASK|任务)\s*\d`,
		`(\n+)(?:第[一二三四五六七八九十百千零〇\d]+章|Chapter\s+\d+)`,
		`(\n+)(?:步骤\s*\d+|Step\s+\d+|\d+\.\s)`,
		`(\n+)(?:警告|注意|WARNING|CAUTION|NOTE)`,
		`\n\n+`,
		`\n`,
		`[。！？]|[.!?]\s`,
		`[；;]`,
		`[，,、]`,
		`\s+`,
		``,
	}
}

// AviationRegulationSeparators 规章制度：条款优先（正则）
func AviationRegulationSeparators() []string {
	return []string{
		`(\n+)第[一二三四五六七八九十百千零〇\d]+章`,
		`(\n+)第[一二三四五六七八九十百千零〇\d]+条`,
		`(\n+)(?:第[一二三四五六七八九十百千零〇\d]+款|[（(][一二三四五六七八九十\d]+[)）])`,
		`\n\n+`,
		`\n`,
		`[。！？]|[.!?]\s`,
		`[；;]`,
		`[，,、]`,
		`\s+`,
		``,
	}
}

// AviationStandardSeparators 技术标准：章节编号优先（正则）
func AviationStandardSeparators() []string {
	return []string{
		`(\n+)\d+\s+\S`,
		`(\n+)\d+\.\d+\s`,
		`(\n+)\d+\.\d+\.\d+\s`,
		`\n\n+`,
		`\n`,
		`[。！？]|[.!?]\s`,
		`[；;]`,
		`[，,、]`,
		`\s+`,
		``,
	}
}

// AviationTrainingSeparators 培训教材：章/课优先（正则）
func AviationTrainingSeparators() []string {
	return []string{
		`(\n+)(?:第[一二三四五六七八九十百千零〇\d]+[章课]|Lesson\s+\d+|Chapter\s+\d+)`,
		`(\n+)(?:第[一二三四五六七八九十百千零〇\d]+节|学习目标|练习|Exercise)`,
		`\n\n+`,
		`\n`,
		`[。！？]|[.!?]\s`,
		`[；;]`,
		`[，,、]`,
		`\s+`,
		``,
	}
}
