package model

import "time"

// Holding is one watchlist row persisted in the local store.
type Holding struct {
	FundCode       string    `json:"fundCode"`
	FundName       string    `json:"fundName"`
	PositionAmount float64   `json:"positionAmount"`
	HoldingProfit  float64   `json:"holdingProfit"`
	YesterdayNav   float64   `json:"yesterdayNav"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}
