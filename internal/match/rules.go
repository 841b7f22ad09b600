package match

// BonusRule adds Weight to a candidate's score when the catalog name
// contains NameTerm and the cleaned query contains any of QueryTerms
// (Latin terms matched case-insensitively). Asymmetric rules cover families
// OCR tends to truncate, e.g. a query of 前海 against 前海开源 names.
type BonusRule struct {
	NameTerm   string
	QueryTerms []string
	Weight     int
}

// DefaultBonusRules carries the high-signal keyword weights: index-number
// markers, sector words, and fund families frequently mangled in
// screenshots. Extend the table rather than the scoring loop.
var DefaultBonusRules = []BonusRule{
	{NameTerm: "360", QueryTerms: []string{"360"}, Weight: 3},
	{NameTerm: "互联网", QueryTerms: []string{"互联网"}, Weight: 2},
	{NameTerm: "大数据", QueryTerms: []string{"大数据"}, Weight: 2},
	{NameTerm: "100", QueryTerms: []string{"100"}, Weight: 1},
	{NameTerm: "红利", QueryTerms: []string{"红利"}, Weight: 2},
	{NameTerm: "黄金ETF", QueryTerms: []string{"黄金", "etf"}, Weight: 2},
	{NameTerm: "汇添富", QueryTerms: []string{"汇添富"}, Weight: 2},
	{NameTerm: "大成中证", QueryTerms: []string{"大成"}, Weight: 1},
	{NameTerm: "前海开源", QueryTerms: []string{"前海"}, Weight: 2},
	{NameTerm: "国泰", QueryTerms: []string{"国泰"}, Weight: 1},
}
