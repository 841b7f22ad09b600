package valuation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"time"

	"FundSnap/internal/model"
)

// DefaultBaseURL serves realtime fund estimates as jsonpgz-wrapped JSON.
const DefaultBaseURL = "https://fundgz.1234567.com.cn"

// ErrNotFound means the code has no valuation (unknown or delisted fund).
var ErrNotFound = errors.New("未查到")

var jsonpRe = regexp.MustCompile(`(?s)^jsonpgz\((.*)\);?\s*$`)

// Client fetches realtime valuations. The data is a public reference feed;
// callers should keep request rates modest.
type Client struct {
	BaseURL string
	Client  *http.Client
}

// NewClient creates a valuation client for the given base URL.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		BaseURL: baseURL,
		Client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// GetRealtime returns the current estimate for one fund code.
func (c *Client) GetRealtime(ctx context.Context, fundCode string) (*model.Valuation, error) {
	url := fmt.Sprintf("%s/js/%s.js?rt=%d", c.BaseURL, fundCode, time.Now().UnixMilli())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch valuation: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch valuation: status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read valuation: %w", err)
	}
	m := jsonpRe.FindSubmatch(body)
	if m == nil {
		return nil, fmt.Errorf("valuation payload is not jsonpgz-wrapped")
	}
	var val model.Valuation
	if err := json.Unmarshal(m[1], &val); err != nil {
		return nil, fmt.Errorf("decode valuation: %w", err)
	}
	if val.FundCode == "" {
		return nil, ErrNotFound
	}
	return &val, nil
}
