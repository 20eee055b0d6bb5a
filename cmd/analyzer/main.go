package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/niftylab/stock-analyzer/internal/analyzer"
	"github.com/niftylab/stock-analyzer/internal/config"
	"github.com/niftylab/stock-analyzer/internal/logger"
	"github.com/niftylab/stock-analyzer/pkg/data"
	"github.com/niftylab/stock-analyzer/pkg/reporting"
)

func main() {
	var (
		configFile = flag.String("config", "config.yaml", "Configuration file path")
		envFile    = flag.String("env", ".env", "Environment file path")
		variant    = flag.String("variant", analyzer.VariantLosers, "Portfolio variant (losers, winners, penny)")
		x          = flag.Float64("x", 1, "Future window length in years")
		y          = flag.Float64("y", 4, "Past window length in years")
		z          = flag.Float64("z", 0, "Reference date shift back from today, in years")
		numStocks  = flag.Int("n", 0, "Portfolio size (overrides config)")
		minPrice   = flag.Float64("min-price", 0, "Eligibility price floor (overrides config)")
		maxPrice   = flag.Float64("max-price", 0, "Eligibility price ceiling (overrides config)")
		save       = flag.Bool("save", false, "Persist the selection and analysis artifacts")
		excelPath  = flag.String("excel", "", "Also write the portfolio to this .xlsx file")
	)
	flag.Parse()

	if err := loadEnvFile(*envFile); err != nil {
		log.Printf("Warning: could not load env file (%v), relying on environment", err)
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	applyOverrides(cfg, *numStocks, *minPrice, *maxPrice)
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	zl := logger.New(cfg.Debug)
	defer zl.Sync()

	store := newStore(cfg, zl)

	window, err := analyzer.PlanWindows(*x, *y, *z, time.Now())
	if err != nil {
		log.Fatalf("Invalid window parameters: %v", err)
	}

	opts := analyzer.Options{
		MinPrice: cfg.Analyzer.MinPrice,
		MaxPrice: cfg.Analyzer.MaxPrice,
		Workers:  cfg.Analyzer.Workers,
		Logger:   zl,
	}
	a := analyzer.New(store, window, opts)

	portfolio, err := selectVariant(a, *variant, cfg.Analyzer.NumStocks)
	if err != nil {
		log.Fatalf("Portfolio selection failed: %v", err)
	}

	analysis := portfolio.Analyze(store)
	reporting.PrintPortfolio(portfolio, analysis)

	if *save {
		dir, err := reporting.SavePortfolioArtifacts(cfg.Output.Dir, portfolio, analysis)
		if err != nil {
			log.Fatalf("Failed to save artifacts: %v", err)
		}
		fmt.Printf("Artifacts written to %s\n", dir)
	}

	if *excelPath != "" {
		if err := reporting.WritePortfolioXLSX(portfolio, analysis, *excelPath); err != nil {
			log.Fatalf("Failed to write Excel report: %v", err)
		}
		fmt.Printf("Excel report written to %s\n", *excelPath)
	}
}

func newStore(cfg *config.Config, zl *zap.Logger) *data.HistoryStore {
	provider := data.NewCSVProvider(cfg.Data.PriceDir, zl)
	return data.NewHistoryStore(provider, cfg.Data.EquityFile, zl)
}

func selectVariant(a *analyzer.Analyzer, variant string, n int) (*analyzer.Portfolio, error) {
	switch variant {
	case analyzer.VariantLosers:
		return a.Losers(n)
	case analyzer.VariantWinners:
		return a.Winners(n)
	case analyzer.VariantPenny:
		return a.Penny(n)
	default:
		return nil, fmt.Errorf("unknown variant %q", variant)
	}
}

func applyOverrides(cfg *config.Config, numStocks int, minPrice, maxPrice float64) {
	if numStocks > 0 {
		cfg.Analyzer.NumStocks = numStocks
	}
	if minPrice > 0 {
		cfg.Analyzer.MinPrice = minPrice
	}
	if maxPrice > 0 {
		cfg.Analyzer.MaxPrice = maxPrice
	}
}

func loadEnvFile(envFile string) error {
	if _, err := os.Stat(envFile); err != nil {
		return err
	}
	return godotenv.Load(envFile)
}
