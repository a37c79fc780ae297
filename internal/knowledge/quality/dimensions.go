package quality

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// 评估维度名称
const (
	DimLengthAppropriateness = "length_appropriateness"
	DimCompleteness          = "completeness"

	DimDomainRelevance       = "domain_relevance"
	DimSemanticCompleteness  = "semantic_completeness"
	DimInformationDensity    = "information_density"
	DimStructureQuality      = "structure_quality"
	DimSizeAppropriateness   = "size_appropriateness"
	DimSemanticBoundary      = "semantic_boundary"
	DimTopicConsistency      = "topic_consistency"
	DimContextCoherence      = "context_coherence"
	DimLengthUniformity      = "length_uniformity"
	DimRelativeConsistency   = "relative_consistency"
	DimVariationCoefficient  = "variation_coefficient"
	DimInformationUnit       = "information_unit"
	DimLogicalStructure      = "logical_structure"
	DimReferenceCompleteness = "reference_completeness"
	DimContextDependency     = "context_dependency"
)

// DimensionFunc 单维度评分函数，返回值会被截断到 [0,1]
type DimensionFunc func(in *Input) float64

// dimensionFuncs 内置维度
var dimensionFuncs = map[string]DimensionFunc{
	DimLengthAppropriateness: lengthAppropriateness,
	DimCompleteness:          completeness,
	DimDomainRelevance:       domainRelevance,
	DimSemanticCompleteness:  semanticCompleteness,
	DimInformationDensity:    informationDensity,
	DimStructureQuality:      structureQuality,
	DimSizeAppropriateness:   sizeAppropriateness,
	DimSemanticBoundary:      semanticBoundary,
	DimTopicConsistency:      topicConsistency,
	DimContextCoherence:      contextCoherence,
	DimLengthUniformity:      lengthUniformity,
	DimRelativeConsistency:   relativeConsistency,
	DimVariationCoefficient:  variationCoefficient,
	DimInformationUnit:       informationUnit,
	DimLogicalStructure:      logicalStructure,
	DimReferenceCompleteness: referenceCompleteness,
	DimContextDependency:     contextDependency,
}

// ---------- basic ----------

func lengthAppropriateness(in *Input) float64 {
	n := float64(in.runeCount())
	target, lo, hi := in.sizes()
	optMin, optMax := target*0.8, target*1.2

	switch {
	case n >= optMin && n <= optMax:
		return 1
	case n < optMin:
		if n < lo || optMin <= lo {
			return clamp(0.3 * n / lo)
		}
		return clamp(0.3 + 0.7*(n-lo)/(optMin-lo))
	default:
		if n > hi || optMax >= hi {
			return clamp(0.3 * hi / n)
		}
		return clamp(1 - 0.7*(n-optMax)/(hi-optMax))
	}
}

func completeness(in *Input) float64 {
	content := strings.TrimSpace(in.Content)
	if content == "" {
		return 0
	}

	score := 0.5
	switch {
	case matchAny(content, truncationPatterns):
		score -= 0.3
	case hasSuffixAny(content, TerminalPunctuation):
		score += 0.3
	}

	if first, _ := utf8.DecodeRuneInString(content); strings.ContainsRune("，,、；;)）", first) {
		score -= 0.1
	}
	if utf8.RuneCountInString(content) < 20 {
		score -= 0.2
	}
	if len(terms(content)) < 5 {
		score -= 0.1
	}
	if len(splitSentences(content)) >= 2 {
		score += 0.1
	}
	return clamp(score)
}

// ---------- aviation ----------

func domainRelevance(in *Input) float64 {
	content := strings.TrimSpace(in.Content)
	if content == "" {
		return 0
	}
	lower := strings.ToLower(content)

	score := 0.5
	if n := countContained(lower, AviationTerms); n > 0 {
		score += math.Min(0.3, 0.1*float64(n))
	}
	if hasTruncatedTerm(lower) {
		score -= 0.3
	}
	if containsAny(lower, SafetyKeywords) {
		score += 0.2
		if !safetyComplete(content) {
			score -= 0.4
		}
	}
	if matchAny(lower, stepPatterns) {
		score += 0.2
		if procedureIncomplete(content) {
			score -= 0.3
		}
	}
	if matchAny(lower, paramPatterns) {
		score += 0.2
	}
	return clamp(score)
}

// hasTruncatedTerm 首尾出现被截断的术语
func hasTruncatedTerm(lower string) bool {
	for _, term := range AviationTerms {
		rs := []rune(strings.ToLower(term))
		if len(rs) < 3 {
			continue
		}
		full := string(rs)
		head, tail := string(rs[1:]), string(rs[:len(rs)-1])
		if strings.HasPrefix(lower, head) && !strings.HasPrefix(lower, full) {
			return true
		}
		if strings.HasSuffix(lower, tail) && !strings.HasSuffix(lower, full) {
			return true
		}
	}
	return false
}

// safetyComplete 安全提示后须有足够说明、结束标点和动作词
func safetyComplete(content string) bool {
	for _, header := range safetyHeaders {
		idx := strings.Index(content, header)
		if idx < 0 {
			continue
		}
		after := strings.TrimSpace(content[idx+len(header):])
		if utf8.RuneCountInString(after) < 20 {
			return false
		}
		if !hasSuffixAny(after, []string{".", "。", "!", "！"}) {
			return false
		}
		if !containsAny(strings.ToLower(after), SafetyActionKeywords) {
			return false
		}
	}
	return true
}

// procedureIncomplete 步骤编号不连续或未正常结束
func procedureIncomplete(content string) bool {
	var steps []int
	for _, groups := range stepNumberPattern.FindAllStringSubmatch(content, -1) {
		for _, g := range groups[1:] {
			if g == "" {
				continue
			}
			if n, err := strconv.Atoi(g); err == nil {
				steps = append(steps, n)
			}
			break
		}
	}
	if len(steps) == 0 {
		return false
	}

	sort.Ints(steps)
	for i := 1; i < len(steps); i++ {
		if steps[i]-steps[i-1] > 1 {
			return true
		}
	}
	return !hasSuffixAny(strings.ToLower(content), []string{".", "。", "完成", "complete", "done"})
}

func semanticCompleteness(in *Input) float64 {
	content := strings.TrimSpace(in.Content)
	if content == "" {
		return 0
	}

	score := 0.6
	if sentences := splitSentences(content); len(sentences) > 0 {
		complete := 0
		for _, s := range sentences {
			if isCompleteSentence(s) {
				complete++
			}
		}
		score += float64(complete) / float64(len(sentences)) * 0.3
	}
	if matchAny(content, semanticUnitPatterns) {
		score += 0.2
	}
	if matchAny(content, truncationPatterns) {
		score -= 0.3
	}
	return clamp(score)
}

func isCompleteSentence(s string) bool {
	if utf8.RuneCountInString(s) < 3 {
		return false
	}
	return hasWordPattern.MatchString(s) && hasPredicatePattern.MatchString(s)
}

func informationDensity(in *Input) float64 {
	content := in.Content
	if strings.TrimSpace(content) == "" {
		return 0
	}

	score := 0.5
	switch ratio := nonSpaceRatio(content); {
	case ratio >= 0.8:
		score += 0.3
	case ratio >= 0.7:
		score += 0.2
	case ratio >= 0.6:
		score += 0.1
	case ratio < 0.5:
		score -= 0.4
	default:
		score -= 0.2
	}

	words := terms(content)
	wc := float64(max(1, len(words)))

	switch density := float64(countContained(strings.ToLower(content), InfoKeywords)) / wc; {
	case density >= 0.2:
		score += 0.3
	case density >= 0.1:
		score += 0.2
	case density >= 0.05:
		score += 0.1
	default:
		score -= 0.2
	}

	if nums := numberPattern.FindAllString(content, -1); len(nums) > 0 {
		switch nd := float64(len(nums)) / wc; {
		case nd > 0.2:
			score += 0.2
		case nd > 0.1:
			score += 0.1
		}
	}
	if unitValuePattern.MatchString(content) {
		score += 0.1
	}

	if len(words) > 5 {
		unique := make(map[string]struct{}, len(words))
		for _, w := range words {
			unique[w] = struct{}{}
		}
		switch rep := float64(len(words)) / float64(len(unique)); {
		case rep > 3:
			score -= 0.3
		case rep < 1.5:
			score += 0.1
		}
	}
	return clamp(score)
}

func structureQuality(in *Input) float64 {
	content := in.Content
	if strings.TrimSpace(content) == "" {
		return 0
	}

	score := 0.4
	if matchAny(content, structureMarkers) {
		score += 0.4
	}

	var items []string
	for _, p := range listPatterns {
		items = append(items, p.FindAllString(content, -1)...)
	}
	switch {
	case len(items) > 1:
		score += 0.3
		unique := make(map[string]struct{}, len(items))
		for _, it := range items {
			unique[strings.TrimSpace(it)] = struct{}{}
		}
		if len(unique) == len(items) {
			score += 0.1
		}
	case len(items) == 1:
		score += 0.1
	}

	if len(paragraphs(content)) > 1 {
		score += 0.2
	}
	if matchAny(content, specialStructures) {
		score += 0.1
	}
	for _, b := range unfinishedBlocks {
		if b.start.MatchString(content) && !b.end.MatchString(content) {
			score -= 0.2
			break
		}
	}
	return clamp(score)
}

func sizeAppropriateness(in *Input) float64 {
	n := float64(in.runeCount())
	target, lo, hi := in.sizes()
	optMin, optMax := target*0.8, target*1.2

	switch {
	case n >= optMin && n <= optMax:
		return 1
	case n < optMin:
		if n < lo {
			return clamp(0.3 * n / lo)
		}
		return clamp(0.3 + 0.4*n/optMin)
	default:
		if n > hi {
			return clamp(0.5 * hi / n)
		}
		return clamp(0.5 + 0.5*optMax/n)
	}
}

// ---------- semantic ----------

func semanticBoundary(in *Input) float64 {
	content := strings.TrimSpace(in.Content)
	if content == "" {
		return 0
	}

	score := 0.7
	if matchAny(content, boundaryStartPatterns) {
		score += 0.2
	}
	if matchAny(content, boundaryEndPatterns) {
		score += 0.2
	} else if !specialEndingPattern.MatchString(content) {
		score -= 0.3
	}
	return clamp(score)
}

// topicsOf 文本命中的主题
func topicsOf(lower string) map[string]int {
	found := make(map[string]int)
	for _, topic := range topicOrder {
		if c := countContained(lower, TopicGroups[topic]); c > 0 {
			found[topic] = c
		}
	}
	return found
}

func topicConsistency(in *Input) float64 {
	content := strings.TrimSpace(in.Content)
	topics := topicsOf(strings.ToLower(content))
	if len(topics) == 0 {
		return 0.5
	}

	total, top := 0, 0
	for _, topic := range topicOrder {
		c := topics[topic]
		total += c
		top = max(top, c)
	}

	score := 0.6
	switch conc := float64(top) / float64(total); {
	case conc >= 0.8:
		score += 0.3
	case conc >= 0.6:
		score += 0.2
	case conc >= 0.4:
		score += 0.1
	default:
		score -= 0.2
	}

	if sentences := splitSentences(content); len(sentences) > 2 {
		changes := 0
		var prev map[string]int
		for _, s := range sentences {
			cur := topicsOf(strings.ToLower(s))
			if len(prev) > 0 && len(cur) > 0 && disjoint(prev, cur) {
				changes++
			}
			if len(cur) > 0 {
				prev = cur
			}
		}
		if float64(changes) > 0.3*float64(len(sentences)) {
			score -= 0.2
		}
	}
	return clamp(score)
}

func disjoint(a, b map[string]int) bool {
	for k := range a {
		if _, ok := b[k]; ok {
			return false
		}
	}
	return true
}

func contextCoherence(in *Input) float64 {
	content := strings.TrimSpace(in.Content)
	if content == "" {
		return 0
	}
	if in.Previous == "" && in.Next == "" {
		return internalCoherence(content)
	}

	score := 0.7
	if in.Previous != "" {
		score += (jaccard(in.Previous, content) - 0.5) * 0.3
		if startsWithConnective(content) {
			score += 0.1
		}
	}
	if in.Next != "" {
		score += (jaccard(content, in.Next) - 0.5) * 0.3
	}
	return clamp(score)
}

// internalCoherence 相邻句子间词汇重叠
func internalCoherence(content string) float64 {
	sentences := splitSentences(content)
	if len(sentences) <= 1 {
		return 0.7
	}
	sum := 0.0
	for i := 1; i < len(sentences); i++ {
		sum += jaccard(sentences[i-1], sentences[i])
	}
	avg := sum / float64(len(sentences)-1)
	return clamp(0.7 + (avg-0.3)*0.5)
}

func startsWithConnective(content string) bool {
	lower := strings.ToLower(content)
	for _, w := range ConnectiveWords {
		if !strings.HasPrefix(lower, w) {
			continue
		}
		// 英文连接词须为完整单词
		rest := lower[len(w):]
		if r, _ := utf8.DecodeRuneInString(rest); rest == "" || !unicode.IsLetter(r) || unicode.Is(unicode.Han, r) {
			return true
		}
	}
	return false
}

// ---------- length_uniformity ----------

func lengthUniformity(in *Input) float64 {
	n := in.runeCount()
	others := in.otherLengths()
	if len(others) < 2 {
		target, _, _ := in.sizes()
		return targetDeviation(float64(n), target)
	}

	switch cv := coefficientOfVariation(append(others, n)); {
	case cv <= 0.1:
		return 1
	case cv <= 0.2:
		return 0.9
	case cv <= 0.3:
		return 0.7
	case cv <= 0.5:
		return 0.5
	default:
		return math.Max(0.1, 1-cv)
	}
}

// targetDeviation 与目标大小的偏差，容差为目标的 30%
func targetDeviation(n, target float64) float64 {
	dev := math.Abs(n - target)
	tolerance := target * 0.3
	if dev <= tolerance {
		if tolerance == 0 {
			return 1
		}
		return clamp(1 - dev/tolerance*0.2)
	}
	excess := math.Min(1, (dev-tolerance)/target)
	return math.Max(0.1, 0.8-excess*0.7)
}

func relativeConsistency(in *Input) float64 {
	n := in.runeCount()
	prev, next := in.neighbourLengths()

	var scores []float64
	if prev > 0 {
		scores = append(scores, ratioScore(n, prev))
	}
	if next > 0 {
		scores = append(scores, ratioScore(n, next))
	}
	if len(scores) == 0 {
		return 0.7
	}
	sum := 0.0
	for _, s := range scores {
		sum += s
	}
	return clamp(sum / float64(len(scores)))
}

func ratioScore(a, b int) float64 {
	if a <= 0 || b <= 0 {
		return 0
	}
	ratio := float64(min(a, b)) / float64(max(a, b))
	switch {
	case ratio >= 0.9:
		return 1
	case ratio >= 0.8:
		return 0.9
	case ratio >= 0.7:
		return 0.7
	case ratio >= 0.5:
		return 0.5
	default:
		return math.Max(0.1, ratio)
	}
}

func variationCoefficient(in *Input) float64 {
	others := in.otherLengths()
	if len(others) == 0 {
		return 0.7
	}

	switch cv := coefficientOfVariation(append(others, in.runeCount())); {
	case cv <= 0.15:
		return 1
	case cv <= 0.25:
		return 0.8
	case cv <= 0.35:
		return 0.6
	case cv <= 0.5:
		return 0.4
	default:
		return math.Max(0.1, 0.5-cv)
	}
}

// ---------- content_completeness ----------

func informationUnit(in *Input) float64 {
	content := in.Content
	total, complete := 0, 0
	for _, up := range informationUnitPatterns {
		for _, m := range up.pattern.FindAllString(content, -1) {
			total++
			if unitComplete(up.kind, strings.TrimSpace(m)) {
				complete++
			}
		}
	}
	if total == 0 {
		return 0.4
	}

	score := 0.6
	switch ratio := float64(complete) / float64(total); {
	case ratio >= 0.9:
		score += 0.4
	case ratio >= 0.7:
		score += 0.3
	case ratio >= 0.5:
		score += 0.2
	case ratio >= 0.3:
		score += 0.1
	default:
		score -= 0.2
	}
	return clamp(score)
}

func unitComplete(kind, unit string) bool {
	n := utf8.RuneCountInString(unit)
	if n < 10 {
		return false
	}
	terminal := hasSuffixAny(unit, []string{".", "。", "!", "！"})
	switch kind {
	case "definition":
		return strings.ContainsAny(unit, ":：")
	case "instruction":
		return terminal
	case "warning", "note":
		return n > 20 && terminal
	case "specification":
		return strings.ContainsFunc(unit, unicode.IsDigit)
	case "procedure":
		return n > 15
	}
	return true
}

func logicalStructure(in *Input) float64 {
	content := in.Content
	found, complete := 0, 0
	for _, ls := range logicalStructures {
		if !ls.pattern.MatchString(content) {
			continue
		}
		found++
		if structureComplete(ls.kind, content) {
			complete++
		}
	}
	if found == 0 {
		return 0.7
	}
	return clamp(0.7 + (float64(complete)/float64(found)-0.5)*0.4)
}

func structureComplete(kind, content string) bool {
	switch kind {
	case "enumeration":
		return enumerationStartPattern.MatchString(content) && enumerationContinuePattern.MatchString(content)
	case "cause_effect":
		return causePattern.MatchString(content) && effectPattern.MatchString(content)
	case "procedure":
		return len(procedureStepPattern.FindAllString(content, -1)) >= 2
	}
	return true
}

// referenceMetadataKeys 引用类型对应的元数据键
var referenceMetadataKeys = map[string]string{
	"figure":  "figures",
	"table":   "tables",
	"section": "sections",
}

func referenceCompleteness(in *Input) float64 {
	total, complete := 0, 0
	for _, rp := range referencePatterns {
		matches := rp.pattern.FindAllString(in.Content, -1)
		if len(matches) == 0 {
			continue
		}
		total += len(matches)
		key, needsMeta := referenceMetadataKeys[rp.kind]
		if !needsMeta || in.Metadata.Has(key) {
			complete += len(matches)
		}
	}
	if total == 0 {
		return 0.8
	}

	switch ratio := float64(complete) / float64(total); {
	case ratio < 0.5:
		return 0.4
	case ratio < 0.8:
		return 0.6
	default:
		return 0.8
	}
}

func contextDependency(in *Input) float64 {
	if !matchAny(in.Content, dependencyPatterns) {
		return 0.7
	}
	if in.Previous != "" || in.Next != "" {
		return 0.9
	}
	return 0.4
}
