package model

// Valuation is the realtime estimate payload for one fund.
// Upstream serves every field as a string (jsonpgz wrapper).
type Valuation struct {
	FundCode     string `json:"fundcode"`
	Name         string `json:"name"`
	NavDate      string `json:"jzrq"`
	YesterdayNav string `json:"dwjz"`
	Estimate     string `json:"gsz"`
	EstimateRate string `json:"gszzl"`
	EstimateTime string `json:"gztime"`
}
