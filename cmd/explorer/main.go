package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

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
		mode       = flag.String("mode", "save", "Exploration mode: save (persist tables) or optimal (rank combinations)")
		xList      = flag.String("x", "1", "Comma-separated future window lengths in years")
		yList      = flag.String("y", "4", "Comma-separated past window lengths in years")
		zList      = flag.String("z", "0", "Comma-separated reference shifts in years (save mode)")
		nList      = flag.String("n", "20", "Comma-separated portfolio sizes (optimal mode)")
		limit      = flag.Int("limit", 20, "Number of ranked combinations to print (optimal mode)")
	)
	flag.Parse()

	if err := loadEnvFile(*envFile); err != nil {
		log.Printf("Warning: could not load env file (%v), relying on environment", err)
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	zl := logger.New(cfg.Debug)
	defer zl.Sync()

	provider := data.NewCSVProvider(cfg.Data.PriceDir, zl)
	store := data.NewHistoryStore(provider, cfg.Data.EquityFile, zl)

	xs, err := parseFloats(*xList)
	if err != nil {
		log.Fatalf("Invalid -x list: %v", err)
	}
	ys, err := parseFloats(*yList)
	if err != nil {
		log.Fatalf("Invalid -y list: %v", err)
	}

	opts := analyzer.Options{
		MinPrice: cfg.Analyzer.MinPrice,
		MaxPrice: cfg.Analyzer.MaxPrice,
		Workers:  cfg.Analyzer.Workers,
		Logger:   zl,
	}
	explorer := analyzer.NewExplorer(store, cfg.Cache.PerfDir, opts)

	switch *mode {
	case "save":
		zs, err := parseFloats(*zList)
		if err != nil {
			log.Fatalf("Invalid -z list: %v", err)
		}
		summary := explorer.SaveCombinations(xs, ys, zs, time.Now())
		fmt.Printf("Saved %d/%d combinations to %s\n", summary.Succeeded, summary.Total, cfg.Cache.PerfDir)
		for _, failure := range summary.Failures {
			fmt.Printf("  failed x=%g y=%g z=%g: %v\n",
				failure.Combination.X, failure.Combination.Y, failure.Combination.Z, failure.Err)
		}
	case "optimal":
		ns, err := parseInts(*nList)
		if err != nil {
			log.Fatalf("Invalid -n list: %v", err)
		}
		ranked := explorer.FindOptimal(xs, ys, ns, time.Now())
		if len(ranked) == 0 {
			log.Fatal("No combination produced a portfolio")
		}
		reporting.PrintRankedCombinations(ranked, *limit)
	default:
		log.Fatalf("Unknown mode %q (want save or optimal)", *mode)
	}
}

func parseFloats(list string) ([]float64, error) {
	var out []float64
	for _, part := range strings.Split(list, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		v, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("empty list")
	}
	return out, nil
}

func parseInts(list string) ([]int, error) {
	var out []int
	for _, part := range strings.Split(list, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		v, err := strconv.Atoi(part)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("empty list")
	}
	return out, nil
}

func loadEnvFile(envFile string) error {
	if _, err := os.Stat(envFile); err != nil {
		return err
	}
	return godotenv.Load(envFile)
}
