package match

import (
	"regexp"
	"sort"
	"strings"

	"FundSnap/internal/model"
)

// MinFuzzyScore is the lowest token score an entry may have and still be
// returned; anything below falls through to the code fallback.
const MinFuzzyScore = 1

// nameGarbage lists name-specific junk OCR mixes into the name region:
// column headers, delete buttons, earlier UI hints. Distinct from the
// cleaner's noise list, which targets whole-screenshot noise.
var nameGarbage = []string{
	"金选指数基金", "金选 指数基金", "删除", "未匹配到基金", "将跳过",
	"市场解读", "有色金属大反攻", "行情能否延续", "持有金额", "昨日收益", "持有收益", "收益率",
}

// OCR drops the hyphens of the QDII-LOF-FOF structure designator in
// several consistent ways.
var qdiiVariantRe = regexp.MustCompile(`(?i)QDII?L?OFFOF?`)

var (
	leadingParenRe = regexp.MustCompile(`^\([^)]*\)`)
	embeddedCodeRe = regexp.MustCompile(`\d{6}`)
)

// CleanName repairs a recognized fund name: strips name-specific garbage,
// restores the QDII-LOF-FOF designator, and removes a single leading
// parenthesized group. The letter after that group is kept because it may
// be the share-class suffix.
func CleanName(raw string) string {
	clean := strings.TrimSpace(raw)
	if clean == "" {
		return ""
	}
	for _, w := range nameGarbage {
		clean = strings.ReplaceAll(clean, w, "")
	}
	clean = qdiiVariantRe.ReplaceAllString(clean, "QDII-LOF-FOF")
	clean = leadingParenRe.ReplaceAllString(clean, "")
	return strings.TrimSpace(clean)
}

// ExtractCode returns the first embedded 6-digit code in the text, or "".
func ExtractCode(text string) string {
	return embeddedCodeRe.FindString(text)
}

// shareClassSuffix returns the uppercased final letter when it is one of
// the recognized share classes. Different share classes are distinct
// investable instruments, so matching never crosses suffixes.
func shareClassSuffix(name string) (rune, bool) {
	runes := []rune(name)
	if len(runes) == 0 {
		return 0, false
	}
	last := runes[len(runes)-1]
	if last >= 'a' && last <= 'z' {
		last -= 'a' - 'A'
	}
	switch last {
	case 'A', 'C', 'E':
		return last, true
	}
	return 0, false
}

// Tokenize splits a cleaned name into matchable fragments: digit runs of
// 2+, sliding CJK bigrams and trigrams, and Latin/+ runs of 2+. Long index
// names like 大成中证360互联网+大数据100 survive OCR damage in pieces, and
// the pieces are what gets matched.
func Tokenize(name string) []string {
	runes := []rune(strings.Join(strings.Fields(name), ""))
	seen := make(map[string]bool)
	var tokens []string
	push := func(t string) {
		if !seen[t] {
			seen[t] = true
			tokens = append(tokens, t)
		}
	}
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case r >= '0' && r <= '9':
			j := i
			for j < len(runes) && runes[j] >= '0' && runes[j] <= '9' {
				j++
			}
			if j-i >= 2 {
				push(string(runes[i:j]))
			}
			i = j - 1
		case r >= 0x4E00 && r <= 0x9FA5:
			if i+2 <= len(runes) {
				push(string(runes[i : i+2]))
			}
			if i+3 <= len(runes) {
				push(string(runes[i : i+3]))
			}
		case isLatinOrPlus(r):
			j := i
			for j < len(runes) && isLatinOrPlus(runes[j]) {
				j++
			}
			if j-i >= 2 {
				push(string(runes[i:j]))
			}
			i = j - 1
		}
	}
	return tokens
}

func isLatinOrPlus(r rune) bool {
	return (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') || r == '+'
}

// Matcher scores recognized names against the catalog under the suffix
// constraint. The rule table is data so weights can grow without touching
// the algorithm.
type Matcher struct {
	Rules []BonusRule
}

// NewMatcher creates a Matcher with the default bonus rules.
func NewMatcher() *Matcher {
	return &Matcher{Rules: DefaultBonusRules}
}

// MatchOne resolves a recognized raw name against the catalog. Order:
// cleaned-name fuzzy match under the suffix constraint, embedded-code
// fallback (same suffix), then a suffix-independent raw equality /
// bidirectional containment fallback. Nil means the caller must ask the
// user for a manual code.
func (m *Matcher) MatchOne(raw string, list []model.CatalogEntry) *model.MatchResult {
	raw = strings.TrimSpace(raw)
	if raw == "" || len(list) == 0 {
		return nil
	}

	if clean := CleanName(raw); clean != "" {
		if res := m.matchClean(clean, list); res != nil {
			return res
		}
	}

	// Last resort when cleaning produced nothing usable: the raw name may
	// literally be a catalog name, or contain one.
	for _, e := range list {
		if e.FundName == raw {
			return &model.MatchResult{
				FundCode: e.FundCode, FundName: e.FundName,
				Score: 3, Label: model.ScoreLabel(3, false),
			}
		}
	}
	var contains []model.CatalogEntry
	for _, e := range list {
		if strings.Contains(raw, e.FundName) || strings.Contains(e.FundName, raw) {
			contains = append(contains, e)
		}
	}
	if len(contains) > 0 {
		sort.SliceStable(contains, func(i, j int) bool {
			return len([]rune(contains[i].FundName)) > len([]rune(contains[j].FundName))
		})
		e := contains[0]
		return &model.MatchResult{
			FundCode: e.FundCode, FundName: e.FundName,
			Score: 2, Label: model.ScoreLabel(2, false),
		}
	}
	return nil
}

// matchClean runs the suffix-constrained fuzzy scoring and the embedded
// 6-digit-code fallback over a cleaned name.
func (m *Matcher) matchClean(clean string, list []model.CatalogEntry) *model.MatchResult {
	suffix, ok := shareClassSuffix(clean)
	if !ok {
		// No recognized share class: never guess one.
		return nil
	}

	cleanLower := strings.ToLower(clean)
	tokens := Tokenize(clean)

	var best *model.CatalogEntry
	maxScore := 0
	for i := range list {
		entry := &list[i]
		entrySuffix, ok := shareClassSuffix(entry.FundName)
		if !ok || entrySuffix != suffix {
			continue
		}
		nameLower := strings.ToLower(entry.FundName)
		score := 0
		for _, tk := range tokens {
			if strings.Contains(nameLower, strings.ToLower(tk)) {
				score++
			}
		}
		for _, rule := range m.Rules {
			if !strings.Contains(entry.FundName, rule.NameTerm) {
				continue
			}
			for _, q := range rule.QueryTerms {
				if strings.Contains(cleanLower, strings.ToLower(q)) {
					score += rule.Weight
					break
				}
			}
		}
		if score > maxScore {
			maxScore = score
			best = entry
		} else if score == maxScore && best != nil &&
			len([]rune(entry.FundName)) > len([]rune(best.FundName)) {
			best = entry
		}
	}
	if best != nil && maxScore >= MinFuzzyScore {
		return &model.MatchResult{
			FundCode: best.FundCode, FundName: best.FundName,
			Score: maxScore, Label: model.ScoreLabel(maxScore, false),
		}
	}

	if code := ExtractCode(clean); code != "" {
		for i := range list {
			if list[i].FundCode != code {
				continue
			}
			if s, ok := shareClassSuffix(list[i].FundName); ok && s == suffix {
				return &model.MatchResult{
					FundCode: list[i].FundCode, FundName: list[i].FundName,
					ByCode: true, Label: model.ScoreLabel(0, true),
				}
			}
		}
	}
	return nil
}
