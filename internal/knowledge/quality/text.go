package quality

import (
	"math"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

func clamp(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(0, math.Min(1, v))
}

// terms 分词：连续字母数字为一个词（小写），每个汉字单独成词
func terms(s string) []string {
	var out []string
	start := -1
	for i, r := range s {
		switch {
		case unicode.Is(unicode.Han, r):
			if start >= 0 {
				out = append(out, strings.ToLower(s[start:i]))
				start = -1
			}
			out = append(out, string(r))
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if start < 0 {
				start = i
			}
		default:
			if start >= 0 {
				out = append(out, strings.ToLower(s[start:i]))
				start = -1
			}
		}
	}
	if start >= 0 {
		out = append(out, strings.ToLower(s[start:]))
	}
	return out
}

func termSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, t := range terms(s) {
		set[t] = struct{}{}
	}
	return set
}

// jaccard 词集合的 Jaccard 相似度
func jaccard(a, b string) float64 {
	sa, sb := termSet(a), termSet(b)
	if len(sa) == 0 || len(sb) == 0 {
		return 0
	}
	inter := 0
	for t := range sa {
		if _, ok := sb[t]; ok {
			inter++
		}
	}
	union := len(sa) + len(sb) - inter
	return float64(inter) / float64(union)
}

// countContained 统计 words 中出现在 s 里的个数（s 需已转小写）
func countContained(s string, words []string) int {
	n := 0
	for _, w := range words {
		if strings.Contains(s, strings.ToLower(w)) {
			n++
		}
	}
	return n
}

func containsAny(s string, words []string) bool {
	return countContained(s, words) > 0
}

func hasSuffixAny(s string, suffixes []string) bool {
	for _, suf := range suffixes {
		if strings.HasSuffix(s, suf) {
			return true
		}
	}
	return false
}

func matchAny(s string, patterns []*regexp.Regexp) bool {
	for _, p := range patterns {
		if p.MatchString(s) {
			return true
		}
	}
	return false
}

// splitSentences 按句末标点和分号切分
func splitSentences(s string) []string {
	var out []string
	for _, part := range sentenceSplitPattern.Split(s, -1) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// paragraphs 按空行切分
func paragraphs(s string) []string {
	var out []string
	for _, p := range strings.Split(s, "\n\n") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// nonSpaceRatio 非空白字符占比
func nonSpaceRatio(s string) float64 {
	total := utf8.RuneCountInString(s)
	if total == 0 {
		return 0
	}
	nonSpace := 0
	for _, r := range s {
		if !unicode.IsSpace(r) {
			nonSpace++
		}
	}
	return float64(nonSpace) / float64(total)
}

// meanStdev 均值和样本标准差
func meanStdev(values []int) (float64, float64) {
	if len(values) == 0 {
		return 0, 0
	}
	sum := 0.0
	for _, v := range values {
		sum += float64(v)
	}
	mean := sum / float64(len(values))
	if len(values) < 2 {
		return mean, 0
	}
	ss := 0.0
	for _, v := range values {
		d := float64(v) - mean
		ss += d * d
	}
	return mean, math.Sqrt(ss / float64(len(values)-1))
}

// coefficientOfVariation 变异系数，均值为 0 时返回 1
func coefficientOfVariation(values []int) float64 {
	mean, sd := meanStdev(values)
	if mean <= 0 {
		return 1
	}
	return sd / mean
}
