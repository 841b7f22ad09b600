package store

import (
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"FundSnap/internal/model"
)

// SQLiteStore persists the watchlist to a SQLite database.
type SQLiteStore struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteStore opens (or creates) the database and runs migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so reads don't block while recognition confirms batches.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite store opened: %s", dbPath)
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS watchlist (
			id              INTEGER PRIMARY KEY AUTOINCREMENT,
			fund_code       TEXT NOT NULL UNIQUE,
			fund_name       TEXT NOT NULL,
			position_amount REAL NOT NULL DEFAULT 0,
			holding_profit  REAL NOT NULL DEFAULT 0,
			yesterday_nav   REAL NOT NULL DEFAULT 0,
			created_at      INTEGER NOT NULL,
			updated_at      INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_watchlist_code ON watchlist(fund_code)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt[:40], err)
		}
	}
	return nil
}

func (s *SQLiteStore) Upsert(h *model.Holding) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var existing int
	if err := s.db.QueryRow(
		`SELECT COUNT(1) FROM watchlist WHERE fund_code = ?`, h.FundCode,
	).Scan(&existing); err != nil {
		return err
	}
	if existing == 0 {
		var total int
		if err := s.db.QueryRow(`SELECT COUNT(1) FROM watchlist`).Scan(&total); err != nil {
			return err
		}
		if total >= MaxHoldings {
			return ErrFull
		}
	}

	now := time.Now().Unix()
	_, err := s.db.Exec(`INSERT INTO watchlist
		(fund_code, fund_name, position_amount, holding_profit, yesterday_nav, created_at, updated_at)
		VALUES (?,?,?,?,?,?,?)
		ON CONFLICT(fund_code) DO UPDATE SET
			fund_name = excluded.fund_name,
			position_amount = excluded.position_amount,
			holding_profit = excluded.holding_profit,
			yesterday_nav = excluded.yesterday_nav,
			updated_at = excluded.updated_at`,
		h.FundCode, h.FundName, h.PositionAmount, h.HoldingProfit, h.YesterdayNav, now, now,
	)
	return err
}

func (s *SQLiteStore) List() ([]model.Holding, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(`SELECT fund_code, fund_name, position_amount, holding_profit,
		yesterday_nav, created_at, updated_at FROM watchlist ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Holding
	for rows.Next() {
		var h model.Holding
		var created, updated int64
		if err := rows.Scan(&h.FundCode, &h.FundName, &h.PositionAmount,
			&h.HoldingProfit, &h.YesterdayNav, &created, &updated); err != nil {
			return nil, err
		}
		h.CreatedAt = time.Unix(created, 0)
		h.UpdatedAt = time.Unix(updated, 0)
		out = append(out, h)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Remove(fundCode string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(`DELETE FROM watchlist WHERE fund_code = ?`, fundCode)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`DELETE FROM watchlist`)
	return err
}

func (s *SQLiteStore) Close() error {
	log.Println("[INFO] closing sqlite store")
	return s.db.Close()
}
