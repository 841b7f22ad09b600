package model

// CatalogEntry is one fund in the authoritative code/name list.
// The catalog is append-only upstream; a loaded snapshot is never mutated.
type CatalogEntry struct {
	FundCode string `json:"fundCode"`
	FundName string `json:"fundName"`
}
