package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/ducminhle1904/options-dsl-bot/internal/backtest"
	"github.com/ducminhle1904/options-dsl-bot/internal/config"
	"github.com/ducminhle1904/options-dsl-bot/internal/dsl"
	"github.com/ducminhle1904/options-dsl-bot/pkg/data"
	"github.com/ducminhle1904/options-dsl-bot/pkg/reporting"
	"github.com/ducminhle1904/options-dsl-bot/pkg/types"
)

const (
	AppName    = "Options DSL Backtest"
	AppVersion = "1.0.0"
)

func main() {
	flags := NewBacktestFlags()
	flag.Parse()

	if err := ValidateBacktestFlags(flags); err != nil {
		log.Fatalf("❌ Flag validation error: %v", err)
	}

	if *flags.ShowVersion {
		fmt.Printf("%s v%s\n", AppName, AppVersion)
		return
	}

	loadEnvironment(*flags.EnvFile)

	portfolioCfg, err := loadPortfolioConfig(flags)
	if err != nil {
		log.Fatalf("❌ Configuration error: %v", err)
	}

	bars, err := loadBars(flags)
	if err != nil {
		log.Fatalf("❌ Data error: %v", err)
	}
	log.Printf("📈 Loaded %d bars (%s → %s)", len(bars),
		bars[0].Timestamp.Format("2006-01-02"), bars[len(bars)-1].Timestamp.Format("2006-01-02"))

	strategies, err := loadStrategies(flags.StrategyFiles())
	if err != nil {
		log.Fatalf("❌ Strategy error: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	results := backtest.RunBatch(ctx, strategies, bars, portfolioCfg, *flags.Workers)

	reporter := reporting.NewDefaultReporter()
	exitCode := 0
	for name, result := range results {
		if result.Error != nil {
			log.Printf("❌ %s: %v", name, result.Error)
			exitCode = 1
			continue
		}

		reporter.OutputResultsWithContext(result.Report, name, *flags.Interval)
		if *flags.ShowTrades > 0 {
			reporter.PrintRecentTrades(result.Report, *flags.ShowTrades)
		}
		log.Printf("⏱️  %s finished in %s", name, result.Duration.Round(time.Millisecond))

		outputDir := *flags.OutputDir
		if outputDir == "" {
			outputDir = reporting.DefaultOutputDir(name, *flags.Interval)
		}
		err := reporter.WriteAll(result.Report, outputDir, reporting.ReportingConfig{
			CSVEnabled:   *flags.WriteCSV,
			ExcelEnabled: *flags.WriteExcel,
			JSONEnabled:  *flags.WriteJSON,
		})
		if err != nil {
			log.Printf("❌ writing reports for %s: %v", name, err)
			exitCode = 1
			continue
		}
		log.Printf("📁 Reports written to %s", outputDir)
	}

	if ctx.Err() != nil {
		log.Println("⚠️  Run interrupted")
		exitCode = 1
	}
	os.Exit(exitCode)
}

func loadEnvironment(envFile string) {
	if err := godotenv.Load(envFile); err != nil && envFile != ".env" {
		log.Printf("⚠️  Could not load env file %s: %v", envFile, err)
	}
}

func loadPortfolioConfig(flags *BacktestFlags) (config.PortfolioConfig, error) {
	cfg := config.Default()
	if *flags.PortfolioFile != "" {
		loaded, err := config.Load(*flags.PortfolioFile)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}
	if *flags.InitialCapital > 0 {
		cfg.InitialCapital = *flags.InitialCapital
	}
	return cfg, cfg.Validate()
}

func loadBars(flags *BacktestFlags) ([]types.OHLCV, error) {
	dm := data.NewDataManager()
	bars, err := dm.LoadHistoricalData(*flags.DataFile)
	if err != nil {
		return nil, err
	}

	if *flags.Period != "" {
		period, ok := data.ParseTrailingPeriod(*flags.Period)
		if !ok {
			return nil, fmt.Errorf("invalid period %q (expected e.g. 30d, 180d)", *flags.Period)
		}
		bars = dm.FilterDataByPeriod(bars, period)
	}

	if len(bars) == 0 {
		return nil, fmt.Errorf("no bars after filtering")
	}
	return bars, nil
}

func loadStrategies(paths []string) (map[string]*dsl.Strategy, error) {
	strategies := make(map[string]*dsl.Strategy, len(paths))
	for _, path := range paths {
		strat, report, err := dsl.LoadFile(path)
		if err != nil {
			return nil, err
		}
		if !report.OK() {
			return nil, fmt.Errorf("strategy %s invalid:\n%v", path, report.Error())
		}

		name := strat.Name
		if name == "" {
			name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		}
		if _, exists := strategies[name]; exists {
			return nil, fmt.Errorf("duplicate strategy name %q", name)
		}
		strategies[name] = strat
	}
	return strategies, nil
}
