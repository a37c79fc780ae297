package quality

import "regexp"

// 词表和模式均为包级变量，可在初始化阶段按领域调整

// AviationTerms 航空术语
var AviationTerms = []string{
	"发动机", "液压系统", "燃油系统", "电气系统", "起落架",
	"飞行控制", "导航系统", "通信系统", "客舱", "货舱",
	"engine", "hydraulic", "fuel system", "electrical", "landing gear",
	"flight control", "navigation", "communication", "cabin", "cargo",
}

// SafetyKeywords 安全提示关键词
var SafetyKeywords = []string{
	"警告", "注意", "危险", "禁止", "必须",
	"warning", "caution", "danger", "prohibited", "must",
}

// SafetyActionKeywords 安全提示中的动作词
var SafetyActionKeywords = []string{
	"必须", "禁止", "应该", "不得", "must", "should", "do not", "never",
}

// InfoKeywords 信息量关键词
var InfoKeywords = []string{
	"参数", "数值", "规格", "标准", "要求", "步骤", "方法", "程序",
	"检查", "测试", "维修", "更换", "安装", "调整", "校准",
	"parameter", "value", "specification", "standard", "requirement",
	"step", "method", "procedure", "check", "test", "maintenance",
}

// TopicGroups 主题词组
var TopicGroups = map[string][]string{
	"maintenance": {"维修", "检查", "更换", "安装", "拆卸", "清洁", "maintenance", "repair", "replace", "install"},
	"operation":   {"操作", "启动", "关闭", "运行", "控制", "operation", "start", "stop", "run", "control"},
	"safety":      {"安全", "警告", "注意", "危险", "防护", "safety", "warning", "caution", "danger", "protection"},
	"technical":   {"参数", "规格", "标准", "技术", "性能", "parameter", "specification", "standard", "technical"},
	"procedure":   {"步骤", "程序", "流程", "方法", "过程", "procedure", "process", "method", "step"},
	"system":      {"系统", "设备", "装置", "组件", "部件", "system", "equipment", "device", "component"},
}

// topicOrder 固定遍历顺序
var topicOrder = []string{"maintenance", "operation", "safety", "technical", "procedure", "system"}

// ConnectiveWords 承接上文的连接词
var ConnectiveWords = []string{
	"此外", "另外", "因此", "所以", "然后", "同时", "但是", "然而", "其次", "最后",
	"however", "therefore", "moreover", "furthermore", "also", "then", "thus",
}

// TerminalPunctuation 句末标点
var TerminalPunctuation = []string{".", "。", "!", "！", "?", "？", ";", "；", "」", "』", "”", ")", "）"}

const unitPattern = `(?:rpm|psi|°c|°f|kg|lb|ft|m|v|a|bar|mpa)`

var (
	stepPatterns = []*regexp.Regexp{
		regexp.MustCompile(`步骤\s*\d+`),
		regexp.MustCompile(`第\s*\d+\s*步`),
		regexp.MustCompile(`(?i)step\s+\d+`),
		regexp.MustCompile(`\d+\.\s`),
		regexp.MustCompile(`\(\d+\)`),
		regexp.MustCompile(`(?i)\b[a-z]\)`),
	}
	stepNumberPattern = regexp.MustCompile(`(?im)步骤\s*(\d+)|第\s*(\d+)\s*步|step\s+(\d+)|^(\d+)\.`)

	paramPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\d+\s*` + unitPattern + `\b`),
		regexp.MustCompile(`压力[:：]\s*\d+`),
		regexp.MustCompile(`温度[:：]\s*\d+`),
		regexp.MustCompile(`转速[:：]\s*\d+`),
	}
	numberPattern    = regexp.MustCompile(`\d+(?:\.\d+)?`)
	unitValuePattern = regexp.MustCompile(`(?i)\d+\s*` + unitPattern + `\b`)

	safetyHeaders = []string{"警告:", "注意:", "危险:", "警告：", "注意：", "危险：", "WARNING:", "CAUTION:", "DANGER:"}

	listPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?m)^\s*[-•]\s`),
		regexp.MustCompile(`(?m)^\s*\d+\.\s`),
		regexp.MustCompile(`(?m)^\s*[a-zA-Z]\)\s`),
		regexp.MustCompile(`(?m)^\s*\([a-zA-Z0-9]+\)\s`),
	}
	specialEndingPattern = regexp.MustCompile(`(?i)[:：]\s*$|\d+\s*` + unitPattern + `\s*$`)

	structureMarkers = []*regexp.Regexp{
		regexp.MustCompile(`(?m)^第\s*[一二三四五六七八九十\d]+\s*[章节条]`),
		regexp.MustCompile(`(?im)^Chapter\s+\d+`),
		regexp.MustCompile(`(?im)^Section\s+\d+`),
		regexp.MustCompile(`(?m)^#{1,6}\s`),
		regexp.MustCompile(`(?m)^\d+\.\d+`),
		regexp.MustCompile(`(?m)^[A-Z][A-Z\s]+:$`),
	}
	specialStructures = []*regexp.Regexp{
		regexp.MustCompile(`\|.*\|`),
		regexp.MustCompile("(?s)```.*```"),
		regexp.MustCompile(`(?m)^\s*\w+[:：]\s*\w+`),
		regexp.MustCompile(`\d+\s*[x×]\s*\d+`),
	}
	unfinishedBlocks = []struct {
		start *regexp.Regexp
		end   *regexp.Regexp
	}{
		{regexp.MustCompile(`(?im)^\s*步骤\s*\d+`), regexp.MustCompile(`(?i)完成|结束|end|complete`)},
		{regexp.MustCompile(`(?m)^\s*注意[:：]`), regexp.MustCompile(`(?m)[.。!！]$`)},
		{regexp.MustCompile(`(?m)^\s*警告[:：]`), regexp.MustCompile(`(?m)[.。!！]$`)},
	}

	boundaryStartPatterns = []*regexp.Regexp{
		regexp.MustCompile(`^第\s*[一二三四五六七八九十\d]+\s*[章节条]`),
		regexp.MustCompile(`^[A-Z][A-Z\s]*[:：]`),
		regexp.MustCompile(`^\d+\.\s`),
		regexp.MustCompile(`^[-•]\s`),
	}
	boundaryEndPatterns = []*regexp.Regexp{
		regexp.MustCompile(`[.。!！?？]$`),
		regexp.MustCompile(`(?i)(?:完成|结束|end|done)$`),
		regexp.MustCompile(`:\s*$`),
	}

	sentenceSplitPattern = regexp.MustCompile(`[.。!！?？;；]`)
	hasWordPattern       = regexp.MustCompile(`\p{Han}+|[a-zA-Z]+`)
	hasPredicatePattern  = regexp.MustCompile(`是|为|有|在|的|了|过|着|[a-zA-Z]+`)

	semanticUnitPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?s).*[:：].*[.。!！]`),
		regexp.MustCompile(`(?s)步骤\s*\d+.*[.。!！]`),
		regexp.MustCompile(`(?s)注意.*[.。!！]`),
		regexp.MustCompile(`(?s)警告.*[.。!！]`),
	}
	truncationPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?:，|,)$`),
		regexp.MustCompile(`(?i)(?:和|与|及|\bor|\band)$`),
		regexp.MustCompile(`(?i)(?:的|之|\bfor|\bto)$`),
		regexp.MustCompile(`(?i)(?:如下|包括|\binclude|such as)$`),
		regexp.MustCompile(`(?:\.\.\.|…|——)$`),
	}
)

// informationUnitPatterns 信息单元模式
var informationUnitPatterns = []struct {
	kind    string
	pattern *regexp.Regexp
}{
	{kind: "definition", pattern: regexp.MustCompile(`(?s)[^:：\n]*?[:：].*?[.。!！]`)},
	{kind: "instruction", pattern: regexp.MustCompile(`(?s)步骤\s*\d+.*?[.。!！]`)},
	{kind: "warning", pattern: regexp.MustCompile(`(?s)警告[:：].*?[.。!！]`)},
	{kind: "note", pattern: regexp.MustCompile(`(?s)注意[:：].*?[.。!！]`)},
	{kind: "specification", pattern: regexp.MustCompile(`(?s)\w+[:：]\s*\d+.*?[.。!！]`)},
	{kind: "procedure", pattern: regexp.MustCompile(`(?s)\d+\.\s*.*?[.。!！]`)},
}

// logicalStructures 逻辑结构模式（按固定顺序）
var logicalStructures = []struct {
	kind    string
	pattern *regexp.Regexp
}{
	{kind: "enumeration", pattern: regexp.MustCompile(`第一|第二|第三|首先|其次|最后|1\.|2\.|3\.`)},
	{kind: "cause_effect", pattern: regexp.MustCompile(`(?i)因为|由于|所以|因此|导致|结果|because|therefore|result`)},
	{kind: "comparison", pattern: regexp.MustCompile(`(?i)相比|对比|而|但是|然而|相对|compared|however|while`)},
	{kind: "procedure", pattern: regexp.MustCompile(`(?i)步骤|程序|流程|方法|过程|step|procedure|process`)},
	{kind: "description", pattern: regexp.MustCompile(`(?i)包括|含有|具有|特点|特征|性质|include|feature|characteristic`)},
}

var (
	enumerationStartPattern    = regexp.MustCompile(`第一|首先|1\.`)
	enumerationContinuePattern = regexp.MustCompile(`第二|其次|2\.|第三|最后|3\.`)
	causePattern               = regexp.MustCompile(`(?i)因为|由于|because`)
	effectPattern              = regexp.MustCompile(`(?i)所以|因此|导致|结果|therefore|result`)
	procedureStepPattern       = regexp.MustCompile(`(?i)步骤\s*\d+|step\s+\d+|\d+\.`)
)

// referencePatterns 引用模式，值为引用类型
var referencePatterns = []struct {
	kind    string
	pattern *regexp.Regexp
}{
	{kind: "figure", pattern: regexp.MustCompile(`(?i)图\s*\d+|Figure\s+\d+|Fig\.\s*\d+`)},
	{kind: "table", pattern: regexp.MustCompile(`(?i)表\s*\d+|Table\s+\d+`)},
	{kind: "section", pattern: regexp.MustCompile(`(?i)第\s*\d+\s*[章节条]|Section\s+\d+|见\s*\d+\.\d+`)},
	{kind: "page", pattern: regexp.MustCompile(`(?i)第\s*\d+\s*页|Page\s+\d+|p\.\s*\d+`)},
	{kind: "step", pattern: regexp.MustCompile(`(?i)步骤\s*\d+|Step\s+\d+`)},
	{kind: "item", pattern: regexp.MustCompile(`(?i)项目\s*\d+|Item\s+\d+`)},
}

var dependencyPatterns = []*regexp.Regexp{
	regexp.MustCompile(`如上所述|如前所述|上述|前面提到|如下所示|下面将|接下来`),
	regexp.MustCompile(`(?i)as mentioned|as shown|above|below|following|previous|next`),
}
