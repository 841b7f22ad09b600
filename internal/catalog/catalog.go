package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"regexp"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"FundSnap/internal/model"
)

// DefaultURL is the public bulk fund list (a JS file wrapping a JSON array).
const DefaultURL = "https://fund.eastmoney.com/js/fundcode_search.js"

var codeRe = regexp.MustCompile(`^\d{6}$`)

// Service lazily loads and memoizes the authoritative fund catalog.
// Concurrent Load calls during the initial fetch share a single in-flight
// request; a failed fetch leaves the cache empty so the next Load retries.
// The cached slice is replaced wholesale, never patched, and callers must
// treat it as read-only.
type Service struct {
	url    string
	client *http.Client

	mu      sync.Mutex
	entries []model.CatalogEntry

	group singleflight.Group
}

// NewService creates a catalog service for the given list URL.
func NewService(url string) *Service {
	if url == "" {
		url = DefaultURL
	}
	return &Service{
		url:    url,
		client: &http.Client{Timeout: 20 * time.Second},
	}
}

// Load returns the cached catalog, fetching it on first use. The context of
// the caller that triggers the fetch bounds the request; callers attached to
// an in-flight fetch share its result.
func (s *Service) Load(ctx context.Context) ([]model.CatalogEntry, error) {
	s.mu.Lock()
	if len(s.entries) > 0 {
		entries := s.entries
		s.mu.Unlock()
		return entries, nil
	}
	s.mu.Unlock()

	v, err, _ := s.group.Do("catalog", func() (interface{}, error) {
		// Re-check under the flight: a caller that lost the race to a
		// completed fetch must not trigger another one.
		s.mu.Lock()
		if len(s.entries) > 0 {
			entries := s.entries
			s.mu.Unlock()
			return entries, nil
		}
		s.mu.Unlock()

		entries, err := s.fetch(ctx)
		if err != nil {
			return nil, err
		}
		s.mu.Lock()
		s.entries = entries
		s.mu.Unlock()
		log.Printf("[INFO] fund catalog loaded: %d entries", len(entries))
		return entries, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]model.CatalogEntry), nil
}

// Invalidate clears the memoized list; the next Load refetches.
func (s *Service) Invalidate() {
	s.mu.Lock()
	s.entries = nil
	s.mu.Unlock()
}

// Refresh forces a refetch, used by the scheduled catalog refresh task.
func (s *Service) Refresh(ctx context.Context) error {
	s.Invalidate()
	_, err := s.Load(ctx)
	return err
}

// Search returns up to limit entries whose name contains the keyword,
// case-insensitive for Latin characters.
func (s *Service) Search(ctx context.Context, keyword string, limit int) ([]model.CatalogEntry, error) {
	k := strings.ToLower(strings.TrimSpace(keyword))
	if k == "" {
		return nil, nil
	}
	entries, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	var out []model.CatalogEntry
	for _, e := range entries {
		if strings.Contains(strings.ToLower(e.FundName), k) {
			out = append(out, e)
			if limit > 0 && len(out) >= limit {
				break
			}
		}
	}
	return out, nil
}

// FindByCode returns the entry for an exact 6-digit code, or nil.
func (s *Service) FindByCode(ctx context.Context, code string) (*model.CatalogEntry, error) {
	entries, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range entries {
		if entries[i].FundCode == code {
			return &entries[i], nil
		}
	}
	return nil, nil
}

func (s *Service) fetch(ctx context.Context) ([]model.CatalogEntry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch fund catalog: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch fund catalog: status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read fund catalog: %w", err)
	}
	return parseList(body)
}

// parseList extracts the bracketed JSON array out of the JS payload and
// keeps rows with an exactly-6-digit code (position 0) and a non-empty name
// (position 2); all other positions are ignored.
func parseList(body []byte) ([]model.CatalogEntry, error) {
	text := string(body)
	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")
	if start == -1 || end <= start {
		return nil, fmt.Errorf("fund catalog payload has no bracketed array")
	}
	var rows [][]any
	if err := json.Unmarshal([]byte(text[start:end+1]), &rows); err != nil {
		return nil, fmt.Errorf("decode fund catalog: %w", err)
	}
	entries := make([]model.CatalogEntry, 0, len(rows))
	for _, row := range rows {
		if len(row) < 3 {
			continue
		}
		code, _ := row[0].(string)
		name, _ := row[2].(string)
		code = strings.TrimSpace(code)
		name = strings.TrimSpace(name)
		if !codeRe.MatchString(code) || name == "" {
			continue
		}
		entries = append(entries, model.CatalogEntry{FundCode: code, FundName: name})
	}
	return entries, nil
}
