package chunker

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	crlfPattern          = regexp.MustCompile(`\r\n?`)
	trailingSpacePattern = regexp.MustCompile(`[ \t]+\n`)
	blankLinesPattern    = regexp.MustCompile(`\n{3,}`)
)

// Normalize 规范化换行和行尾空白
//
// CRLF/CR 统一为 LF，去掉行尾空格，三个及以上连续换行压缩为两个
func Normalize(text string) string {
	text = crlfPattern.ReplaceAllString(text, "\n")
	text = trailingSpacePattern.ReplaceAllString(text, "\n")
	return blankLinesPattern.ReplaceAllString(text, "\n\n")
}

// RuneCount 字符数
func RuneCount(s string) int {
	return utf8.RuneCountInString(s)
}

// TailRunes 返回 s 的最后 n 个字符
func TailRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	return s[runesBefore(s, len(s), n):]
}

// CountWords 词数：连续的字母数字算一个词，每个汉字（及其他 CJK 字符）单独算一个词
func CountWords(s string) int {
	count := 0
	inWord := false
	for _, r := range s {
		switch {
		case isCJK(r):
			count++
			inWord = false
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if !inWord {
				count++
				inWord = true
			}
		default:
			inWord = false
		}
	}
	return count
}

func isCJK(r rune) bool {
	return unicode.Is(unicode.Han, r) ||
		unicode.Is(unicode.Hiragana, r) ||
		unicode.Is(unicode.Katakana, r) ||
		unicode.Is(unicode.Hangul, r)
}

// trimSpan 去掉 [start,end) 两端的空白，返回新的边界
func trimSpan(text string, start, end int) (int, int) {
	s := text[start:end]
	left := strings.TrimLeftFunc(s, unicode.IsSpace)
	start += len(s) - len(left)
	right := strings.TrimRightFunc(left, unicode.IsSpace)
	end = start + len(right)
	return start, end
}
