package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Server struct {
		ListenAddr string `yaml:"listen_addr"`
	} `yaml:"server"`
	Catalog struct {
		URL         string `yaml:"url"`
		RefreshCron string `yaml:"refresh_cron"`
	} `yaml:"catalog"`
	Valuation struct {
		BaseURL string `yaml:"base_url"`
	} `yaml:"valuation"`
	OCR struct {
		StartupTimeoutMS int `yaml:"startup_timeout_ms"`
		ResultTimeoutMS  int `yaml:"result_timeout_ms"`
	} `yaml:"ocr"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("LISTEN_ADDR"); v != "" {
		cfg.Server.ListenAddr = v
	}
	if v := os.Getenv("CATALOG_URL"); v != "" {
		cfg.Catalog.URL = v
	}
	if v := os.Getenv("CATALOG_REFRESH_CRON"); v != "" {
		cfg.Catalog.RefreshCron = v
	}
	if v := os.Getenv("VALUATION_BASE_URL"); v != "" {
		cfg.Valuation.BaseURL = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("OCR_STARTUP_TIMEOUT_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil {
			cfg.OCR.StartupTimeoutMS = ms
		}
	}
	if v := os.Getenv("OCR_RESULT_TIMEOUT_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil {
			cfg.OCR.ResultTimeoutMS = ms
		}
	}

	// Defaults
	if cfg.Server.ListenAddr == "" {
		cfg.Server.ListenAddr = ":8080"
	}
	if cfg.Catalog.URL == "" {
		cfg.Catalog.URL = "https://fund.eastmoney.com/js/fundcode_search.js"
	}
	if cfg.Catalog.RefreshCron == "" {
		// Daily at 06:30, before the trading session opens.
		cfg.Catalog.RefreshCron = "0 30 6 * * *"
	}
	if cfg.Valuation.BaseURL == "" {
		cfg.Valuation.BaseURL = "https://fundgz.1234567.com.cn"
	}
	if cfg.OCR.StartupTimeoutMS == 0 {
		cfg.OCR.StartupTimeoutMS = 5000
	}
	if cfg.OCR.ResultTimeoutMS == 0 {
		cfg.OCR.ResultTimeoutMS = 8000
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/fundsnap.db"
	}

	return cfg, nil
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	if c.Server.ListenAddr == "" {
		return fmt.Errorf("server.listen_addr is required")
	}
	if c.Catalog.URL == "" {
		return fmt.Errorf("catalog.url is required")
	}
	if c.Valuation.BaseURL == "" {
		return fmt.Errorf("valuation.base_url is required")
	}
	if c.OCR.StartupTimeoutMS <= 0 || c.OCR.ResultTimeoutMS <= 0 {
		return fmt.Errorf("ocr timeouts must be positive")
	}
	return nil
}
