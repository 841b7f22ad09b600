package store

import (
	"errors"

	"FundSnap/internal/model"
)

// MaxHoldings caps the watchlist size.
const MaxHoldings = 20

var (
	// ErrFull is returned when adding a new fund to a full watchlist.
	ErrFull = errors.New("关注列表已满")
	// ErrNotFound is returned when removing a code that is not held.
	ErrNotFound = errors.New("未找到该基金")
)

// Store persists the user's watchlist. Adding an already-held fund updates
// it in place; the list is deduplicated by fund code.
type Store interface {
	Upsert(h *model.Holding) error
	List() ([]model.Holding, error)
	Remove(fundCode string) error
	Clear() error
	Close() error
}
