package extract

import (
	"regexp"
	"strings"
)

// universalNoise lists phrases the cleaner always removes: table headers,
// ads, and button labels that OCR mixes into holding rows. The list must
// never contain anything resembling a fund name or a numeric unit.
var universalNoise = []string{
	"市场解读", "行情能否延续", "持有收益率排序", "我的持有", "全部偏股", "偏债指数",
	"金选指数基金", "金额/昨日", "持有收益/率", "名称", "查看更多", "涨跌幅", "今日",
}

var (
	clockRemnantRe = regexp.MustCompile(`\d{1,2}:\d{1,2}\d?`)
	unsignedRateRe = regexp.MustCompile(`\d+[.,]\d{2}%`)
)

// Clean normalizes raw OCR text into the reduced alphabet the parser works
// on: CJK ideographs, ASCII digits, Latin letters, and the symbols
// , . % + - ( ) /. It removes known noise phrases, strips clock remnants,
// regroups glued digit runs into thousands.cents form, and infers a leading
// + for unsigned two-decimal rates. Clean is pure and idempotent; an empty
// result means the input carried no usable financial text.
func Clean(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if allowedRune(r) {
			b.WriteRune(r)
		}
	}
	s := b.String()
	for _, w := range universalNoise {
		s = strings.ReplaceAll(s, w, "")
	}
	s = clockRemnantRe.ReplaceAllString(s, "")
	s = regroupDigitRuns(s)
	s = inferRateSign(s)
	return s
}

func allowedRune(r rune) bool {
	switch {
	case r >= '0' && r <= '9':
		return true
	case r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z':
		return true
	case r >= 0x4E00 && r <= 0x9FA5: // CJK unified ideographs
		return true
	}
	return strings.ContainsRune(",.%+-()/", r)
}

// regroupDigitRuns rewrites maximal digit runs of 6+ characters that are not
// adjacent to a decimal point into thousands.cents form, treating the last
// two digits as the fractional part. OCR tends to drop the punctuation of
// amounts like 10,193.48; this repairs the common case and is a heuristic,
// not a guaranteed-correct transformation.
func regroupDigitRuns(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	i := 0
	for i < len(s) {
		if !isASCIIDigit(s[i]) {
			b.WriteByte(s[i])
			i++
			continue
		}
		j := i
		for j < len(s) && isASCIIDigit(s[j]) {
			j++
		}
		run := s[i:j]
		prevDot := i > 0 && s[i-1] == '.'
		nextDot := j < len(s) && s[j] == '.'
		if len(run) >= 6 && !prevDot && !nextDot {
			b.WriteString(groupThousands(run[:len(run)-2]))
			b.WriteByte('.')
			b.WriteString(run[len(run)-2:])
		} else {
			b.WriteString(run)
		}
		i = j
	}
	return b.String()
}

// inferRateSign prefixes + to unsigned two-decimal values immediately before
// a percent sign, also repairing a comma used as the decimal separator.
// Values already carrying a sign are left alone.
func inferRateSign(s string) string {
	matches := unsignedRateRe.FindAllStringIndex(s, -1)
	if len(matches) == 0 {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + len(matches))
	last := 0
	for _, m := range matches {
		start, end := m[0], m[1]
		if start > 0 && (s[start-1] == '+' || s[start-1] == '-') {
			b.WriteString(s[last:end])
			last = end
			continue
		}
		b.WriteString(s[last:start])
		b.WriteByte('+')
		b.WriteString(strings.Replace(s[start:end-1], ",", ".", 1))
		b.WriteByte('%')
		last = end
	}
	b.WriteString(s[last:])
	return b.String()
}

func isASCIIDigit(c byte) bool { return c >= '0' && c <= '9' }

// groupThousands inserts comma separators into a plain digit string.
func groupThousands(digits string) string {
	n := len(digits)
	if n <= 3 {
		return digits
	}
	var b strings.Builder
	b.Grow(n + n/3)
	head := n % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < n; i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
