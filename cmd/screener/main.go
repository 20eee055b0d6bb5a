package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/niftylab/stock-analyzer/internal/config"
	"github.com/niftylab/stock-analyzer/internal/logger"
	"github.com/niftylab/stock-analyzer/internal/screener"
	"github.com/niftylab/stock-analyzer/pkg/data"
	"github.com/niftylab/stock-analyzer/pkg/reporting"
	"github.com/niftylab/stock-analyzer/pkg/types"
)

type screen struct {
	name string
	run  func(*screener.Screener) []types.Fundamentals
}

var screens = []screen{
	{"established_profitable_companies", func(s *screener.Screener) []types.Fundamentals {
		return s.EstablishedProfitable(screener.DefaultEstablishedProfitableOptions())
	}},
	{"strong_financial_health_and_liquidity", func(s *screener.Screener) []types.Fundamentals {
		return s.StrongFinancialHealth(screener.DefaultFinancialHealthOptions())
	}},
	{"defensive_stocks", func(s *screener.Screener) []types.Fundamentals {
		return s.Defensive(screener.DefaultDefensiveOptions())
	}},
	{"stocks_for_consistent_growth", func(s *screener.Screener) []types.Fundamentals {
		return s.ConsistentGrowth(screener.DefaultGrowthOptions())
	}},
	{"dividend_paying_stocks", func(s *screener.Screener) []types.Fundamentals {
		return s.DividendPayers()
	}},
}

func main() {
	var (
		configFile = flag.String("config", "config.yaml", "Configuration file path")
		envFile    = flag.String("env", ".env", "Environment file path")
		only       = flag.String("screen", "", "Run a single screen by name instead of all")
		save       = flag.Bool("save", false, "Write each screen's result under the output directory")
	)
	flag.Parse()

	if err := loadEnvFile(*envFile); err != nil {
		log.Printf("Warning: could not load env file (%v), relying on environment", err)
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zl := logger.New(cfg.Debug)
	defer zl.Sync()

	table, err := data.LoadFundamentals(cfg.Data.FundamentalsFile)
	if err != nil {
		log.Fatalf("Failed to load fundamentals: %v", err)
	}

	s := screener.New(table)

	ran := 0
	for _, sc := range screens {
		if *only != "" && sc.name != *only {
			continue
		}
		ran++

		rows := sc.run(s)
		reporting.PrintScreen(sc.name, rows)

		if *save {
			path := filepath.Join(cfg.Output.Dir, "safe_stocks", sc.name+".csv")
			if err := reporting.WriteScreenCSV(rows, path); err != nil {
				log.Fatalf("Failed to save screen %s: %v", sc.name, err)
			}
			fmt.Printf("Saved %s (%d rows)\n", path, len(rows))
		}
	}

	if ran == 0 {
		log.Fatalf("Unknown screen %q", *only)
	}
}

func loadEnvFile(envFile string) error {
	if _, err := os.Stat(envFile); err != nil {
		return err
	}
	return godotenv.Load(envFile)
}
