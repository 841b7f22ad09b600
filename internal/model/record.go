package model

import "github.com/shopspring/decimal"

// ParsedRecord is the field classifier's output for one screenshot row.
// IsAbnormal marks rows that failed structural validation or carried fewer
// than three numeric tokens; such rows keep their name for discard reporting
// but have empty amount/profit.
type ParsedRecord struct {
	Name       string `json:"name"`
	HoldAmount string `json:"holdAmount"`
	HoldProfit string `json:"holdProfit"`
	IsAbnormal bool   `json:"isAbnormal"`
}

// Match confidence labels shown to the user.
const (
	MatchLabelHigh   = "高"
	MatchLabelMedium = "中"
	MatchLabelLow    = "低"
	MatchLabelCode   = "代码匹配"
)

// MatchResult is an accepted catalog reconciliation for a recognized name.
type MatchResult struct {
	FundCode string `json:"fundCode"`
	FundName string `json:"fundName"`
	Score    int    `json:"matchScore"`
	ByCode   bool   `json:"byCode"`
	Label    string `json:"matchLabel"`
}

// ScoreLabel maps a fuzzy score (or a code-exact match) to its display label.
func ScoreLabel(score int, byCode bool) string {
	switch {
	case byCode:
		return MatchLabelCode
	case score >= 3:
		return MatchLabelHigh
	case score >= 2:
		return MatchLabelMedium
	case score >= 1:
		return MatchLabelLow
	}
	return ""
}

// RecognizedItem is a ParsedRecord enriched with its catalog match and the
// numeric amount/profit pair, as returned by the recognition pipeline.
type RecognizedItem struct {
	RawName        string          `json:"rawName"`
	FundCode       string          `json:"fundCode"`
	FundName       string          `json:"fundName"`
	HoldAmount     string          `json:"holdAmount"`
	HoldProfit     string          `json:"holdProfit"`
	PositionAmount decimal.Decimal `json:"positionAmount"`
	HoldingProfit  decimal.Decimal `json:"holdingProfit"`
	MatchScore     int             `json:"matchScore"`
	MatchLabel     string          `json:"matchLabel"`
}

// Summary aggregates accepted records: total position amount and total
// holding profit, both two-decimal strings.
type Summary struct {
	TotalHoldAmount string `json:"totalHoldAmount"`
	TotalHoldProfit string `json:"totalHoldProfit"`
}
