package store

import (
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"FundSnap/internal/model"
)

func holding(code string, amount float64) *model.Holding {
	return &model.Holding{
		FundCode:       code,
		FundName:       "基金" + code,
		PositionAmount: amount,
		HoldingProfit:  amount / 10,
		YesterdayNav:   1.5,
	}
}

// Both implementations must satisfy the same contract.
func runStoreContract(t *testing.T, s Store) {
	t.Helper()

	if err := s.Upsert(holding("005827", 10193.48)); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := s.Upsert(holding("161724", 5000)); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	list, err := s.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 holdings, got %d", len(list))
	}
	if list[0].FundCode != "005827" {
		t.Errorf("expected insertion order preserved, got %s first", list[0].FundCode)
	}

	// Updating an existing code must not consume a slot.
	updated := holding("005827", 20000)
	if err := s.Upsert(updated); err != nil {
		t.Fatalf("upsert update: %v", err)
	}
	list, err = s.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("update must not add a row, got %d", len(list))
	}
	for _, h := range list {
		if h.FundCode == "005827" && h.PositionAmount != 20000 {
			t.Errorf("expected updated amount 20000, got %v", h.PositionAmount)
		}
	}

	if err := s.Remove("161724"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := s.Remove("161724"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for a second removal, got %v", err)
	}

	if err := s.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	list, err = s.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("expected empty list after clear, got %d", len(list))
	}
}

func runStoreCap(t *testing.T, s Store) {
	t.Helper()
	for i := 0; i < MaxHoldings; i++ {
		if err := s.Upsert(holding(fmt.Sprintf("%06d", i), 100)); err != nil {
			t.Fatalf("upsert %d: %v", i, err)
		}
	}
	if err := s.Upsert(holding("999999", 100)); !errors.Is(err, ErrFull) {
		t.Errorf("expected ErrFull at the cap, got %v", err)
	}
	// Existing codes still update at the cap.
	if err := s.Upsert(holding("000000", 200)); err != nil {
		t.Errorf("update at the cap must succeed, got %v", err)
	}
}

func newTestSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "watchlist.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteStore_Contract(t *testing.T) {
	runStoreContract(t, newTestSQLite(t))
}

func TestSQLiteStore_Cap(t *testing.T) {
	runStoreCap(t, newTestSQLite(t))
}

func TestMemoryStore_Contract(t *testing.T) {
	runStoreContract(t, NewMemoryStore())
}

func TestMemoryStore_Cap(t *testing.T) {
	runStoreCap(t, NewMemoryStore())
}

func TestSQLiteStore_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "watchlist.db")
	s, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := s.Upsert(holding("005827", 100)); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	s.Close()

	s2, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("reopen sqlite: %v", err)
	}
	defer s2.Close()
	list, err := s2.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || list[0].FundCode != "005827" {
		t.Errorf("expected the holding to survive reopen, got %+v", list)
	}
}
