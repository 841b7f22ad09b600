package extract

import (
	"regexp"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"FundSnap/internal/model"
)

// UnrecognizedName is the sentinel used when a row has no readable name.
const UnrecognizedName = "(未识别名称)"

var (
	// numericBlockRe matches a grouped two-decimal number, optionally
	// signed; a trailing % marks the row's rate token, which is excluded
	// from field classification.
	numericBlockRe = regexp.MustCompile(`[+-]?[\d,]+[.,]\d{2}%?`)
	// Name extraction removes both plain and comma-grouped number shapes.
	nameNumberRe  = regexp.MustCompile(`[+-]?\d+[.,]?\d{2}%?`)
	nameGroupedRe = regexp.MustCompile(`[+-]?[\d,]+[.,]\d{2}`)
	spaceRunRe    = regexp.MustCompile(`\s+`)
)

// Classify extracts one ParsedRecord from a row candidate. Numbers are
// assigned meaning by relative magnitude: the largest token is the position
// amount, the second largest the holding profit, the smallest a reference
// (yesterday) value used only for validation. Rows with fewer than three
// distinct tokens, or whose magnitudes do not satisfy
// amount > profit > reference, are marked abnormal and carry no
// amount/profit. The ordering assumption is a layout heuristic and can
// misread rows where profit genuinely exceeds principal.
func Classify(row Row) model.ParsedRecord {
	pre := row.NameRegion()
	name := extractName(pre)
	if name == "" {
		name = UnrecognizedName
	}

	toks := numericTokens(pre)
	if len(toks) < 3 {
		return model.ParsedRecord{Name: name, IsAbnormal: true}
	}

	sort.SliceStable(toks, func(i, j int) bool { return toks[i].abs.GreaterThan(toks[j].abs) })
	amount, profit, reference := toks[0], toks[1], toks[len(toks)-1]
	if amount.abs.Cmp(profit.abs) <= 0 || profit.abs.Cmp(reference.abs) <= 0 {
		return model.ParsedRecord{Name: name, IsAbnormal: true}
	}

	return model.ParsedRecord{
		Name:       name,
		HoldAmount: strings.TrimLeft(amount.raw, "+-"),
		HoldProfit: profit.raw,
	}
}

// extractName strips every numeric substring from the pre-anchor text and
// collapses whitespace. A single trailing Latin letter (the share-class
// suffix) survives untouched because only digit shapes are removed.
func extractName(pre string) string {
	name := nameNumberRe.ReplaceAllString(pre, "")
	name = nameGroupedRe.ReplaceAllString(name, "")
	name = spaceRunRe.ReplaceAllString(name, " ")
	return strings.Trim(name, " ,.%+-()/")
}

type numericToken struct {
	raw string // normalized display form, sign preserved
	abs decimal.Decimal
}

// numericTokens pulls all non-rate numbers out of the pre-anchor text,
// normalizes them, and drops exact-string repeats and unparsable leftovers.
func numericTokens(pre string) []numericToken {
	seen := make(map[string]bool)
	var toks []numericToken
	for _, m := range numericBlockRe.FindAllString(pre, -1) {
		if strings.HasSuffix(m, "%") {
			continue
		}
		m = strings.TrimSpace(m)
		if m == "" || seen[m] {
			continue
		}
		seen[m] = true
		norm := NormalizeNumber(m)
		v, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimPrefix(norm, "+"), ",", ""))
		if err != nil {
			continue
		}
		toks = append(toks, numericToken{raw: norm, abs: v.Abs()})
	}
	return toks
}

// NormalizeNumber repairs a number's grouping and decimal point, assuming
// the last two digits are the fractional part, and preserves a leading
// minus sign. Inputs with fewer than two digits are returned unchanged; a
// trailing % survives.
func NormalizeNumber(s string) string {
	n := strings.TrimSpace(s)
	if n == "" {
		return ""
	}
	pct := ""
	if strings.Contains(n, "%") {
		pct = "%"
		n = strings.ReplaceAll(n, "%", "")
	}
	negative := strings.HasPrefix(n, "-")
	n = strings.TrimLeft(n, "+-")
	var digits strings.Builder
	for i := 0; i < len(n); i++ {
		if isASCIIDigit(n[i]) {
			digits.WriteByte(n[i])
		}
	}
	d := digits.String()
	if len(d) < 2 {
		return s
	}
	out := groupThousands(d[:len(d)-2]) + "." + d[len(d)-2:] + pct
	if negative {
		return "-" + out
	}
	return out
}

// ParseAmount converts a normalized display amount back into a decimal,
// returning zero for empty or unreadable input.
func ParseAmount(s string) decimal.Decimal {
	v, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimPrefix(strings.TrimSpace(s), "+"), ",", ""))
	if err != nil {
		return decimal.Zero
	}
	return v
}
