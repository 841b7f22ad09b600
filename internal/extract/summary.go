package extract

import (
	"FundSnap/internal/model"

	"github.com/shopspring/decimal"
)

// Summarize totals hold amount and profit across records. Abnormal rows
// contribute nothing because their fields are empty.
func Summarize(records []model.ParsedRecord) model.Summary {
	amount := decimal.Zero
	profit := decimal.Zero
	for _, r := range records {
		amount = amount.Add(ParseAmount(r.HoldAmount))
		profit = profit.Add(ParseAmount(r.HoldProfit))
	}
	return model.Summary{
		TotalHoldAmount: amount.StringFixed(2),
		TotalHoldProfit: profit.StringFixed(2),
	}
}
