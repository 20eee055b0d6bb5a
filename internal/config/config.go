package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Data struct {
		PriceDir         string `yaml:"price_dir"`
		EquityFile       string `yaml:"equity_file"`
		FundamentalsFile string `yaml:"fundamentals_file"`
	} `yaml:"data"`
	Cache struct {
		PerfDir string `yaml:"perf_dir"`
	} `yaml:"cache"`
	Output struct {
		Dir string `yaml:"dir"`
	} `yaml:"output"`
	Analyzer struct {
		Workers   int     `yaml:"workers"`
		MinPrice  float64 `yaml:"min_price"`
		MaxPrice  float64 `yaml:"max_price"`
		NumStocks int     `yaml:"num_stocks"`
	} `yaml:"analyzer"`
	Debug bool `yaml:"debug"`
}

// Load reads config from a YAML file, then applies environment variable
// overrides. A missing file is not an error; overrides and defaults still
// apply.
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
	if v := os.Getenv("ANALYZER_PRICE_DIR"); v != "" {
		cfg.Data.PriceDir = v
	}
	if v := os.Getenv("ANALYZER_EQUITY_FILE"); v != "" {
		cfg.Data.EquityFile = v
	}
	if v := os.Getenv("ANALYZER_FUNDAMENTALS_FILE"); v != "" {
		cfg.Data.FundamentalsFile = v
	}
	if v := os.Getenv("ANALYZER_PERF_DIR"); v != "" {
		cfg.Cache.PerfDir = v
	}
	if v := os.Getenv("ANALYZER_OUTPUT_DIR"); v != "" {
		cfg.Output.Dir = v
	}
	if v := os.Getenv("ANALYZER_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Analyzer.Workers = n
		}
	}
	if v := os.Getenv("ANALYZER_MIN_PRICE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Analyzer.MinPrice = f
		}
	}
	if v := os.Getenv("ANALYZER_MAX_PRICE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Analyzer.MaxPrice = f
		}
	}
	if v := os.Getenv("ANALYZER_NUM_STOCKS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Analyzer.NumStocks = n
		}
	}
	if v := os.Getenv("ANALYZER_DEBUG"); v != "" {
		cfg.Debug = v == "1" || v == "true"
	}

	// Defaults
	if cfg.Data.PriceDir == "" {
		cfg.Data.PriceDir = "data/prices"
	}
	if cfg.Data.EquityFile == "" {
		cfg.Data.EquityFile = "data/equity.csv"
	}
	if cfg.Data.FundamentalsFile == "" {
		cfg.Data.FundamentalsFile = "data/fundamentals.csv"
	}
	if cfg.Cache.PerfDir == "" {
		cfg.Cache.PerfDir = "data/perf_cache"
	}
	if cfg.Output.Dir == "" {
		cfg.Output.Dir = "output"
	}
	if cfg.Analyzer.MaxPrice == 0 {
		cfg.Analyzer.MaxPrice = 10000000
	}
	if cfg.Analyzer.NumStocks == 0 {
		cfg.Analyzer.NumStocks = 20
	}

	return cfg, nil
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	if c.Data.PriceDir == "" {
		return fmt.Errorf("data.price_dir is required")
	}
	if c.Data.EquityFile == "" {
		return fmt.Errorf("data.equity_file is required")
	}
	if c.Analyzer.MinPrice < 0 {
		return fmt.Errorf("analyzer.min_price must not be negative")
	}
	if c.Analyzer.MaxPrice <= c.Analyzer.MinPrice {
		return fmt.Errorf("analyzer.max_price must exceed analyzer.min_price")
	}
	if c.Analyzer.NumStocks <= 0 {
		return fmt.Errorf("analyzer.num_stocks must be positive")
	}
	return nil
}
