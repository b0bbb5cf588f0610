package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/ducminhle1904/options-dsl-bot/internal/backtest"
	"github.com/ducminhle1904/options-dsl-bot/internal/config"
	"github.com/ducminhle1904/options-dsl-bot/internal/dsl"
	"github.com/ducminhle1904/options-dsl-bot/internal/instruments"
	"github.com/ducminhle1904/options-dsl-bot/internal/live"
	"github.com/ducminhle1904/options-dsl-bot/internal/logger"
	"github.com/ducminhle1904/options-dsl-bot/internal/monitoring"
	"github.com/ducminhle1904/options-dsl-bot/internal/strategy"
	"github.com/ducminhle1904/options-dsl-bot/pkg/data"
	"github.com/ducminhle1904/options-dsl-bot/pkg/types"
)

const (
	AppName    = "Options DSL Live Bot"
	AppVersion = "1.0.0"
)

func main() {
	strategyFile := flag.String("strategy", "", "Path to strategy DSL JSON file")
	dataFile := flag.String("data", "", "Path to bar file replayed as the live feed")
	interval := flag.String("interval", "1h", "Bar interval label")
	envFile := flag.String("env", ".env", "Path to environment file")
	portfolioFile := flag.String("portfolio", "", "Path to portfolio config JSON file")
	metricsAddr := flag.String("metrics-addr", ":9090", "Address for metrics and health endpoints (empty disables)")
	replayDelay := flag.Duration("replay-delay", 0, "Delay between replayed bars")
	warmup := flag.Int("warmup", 200, "Number of leading bars used to seed indicators")
	showVersion := flag.Bool("version", false, "Show version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("%s v%s\n", AppName, AppVersion)
		return
	}
	if *strategyFile == "" || *dataFile == "" {
		log.Fatal("❌ -strategy and -data are required")
	}

	if err := godotenv.Load(*envFile); err != nil && *envFile != ".env" {
		log.Printf("⚠️  Could not load env file %s: %v", *envFile, err)
	}

	strat, report, err := dsl.LoadFile(*strategyFile)
	if err != nil {
		log.Fatalf("❌ Strategy error: %v", err)
	}
	if !report.OK() {
		log.Fatalf("❌ Strategy invalid:\n%v", report.Error())
	}

	portfolioCfg := config.Default()
	if *portfolioFile != "" {
		if portfolioCfg, err = config.Load(*portfolioFile); err != nil {
			log.Fatalf("❌ Configuration error: %v", err)
		}
	}
	if err := portfolioCfg.Validate(); err != nil {
		log.Fatalf("❌ Configuration error: %v", err)
	}

	bars, err := data.NewDataManager().LoadHistoricalData(*dataFile)
	if err != nil {
		log.Fatalf("❌ Data error: %v", err)
	}

	history, feed := splitWarmup(bars, *warmup)
	log.Printf("📈 Seeding %d bars, replaying %d as live feed", len(history), len(feed))

	sessionLog, err := logger.NewLogger(strat.Name, *interval)
	if err != nil {
		log.Fatalf("❌ Logger error: %v", err)
	}
	defer sessionLog.Close()

	selector := instruments.NewSelector(instruments.DefaultCatalog(), portfolioCfg.HighVolThresholdPct)
	executor := strategy.NewExecutor(strat, selector)
	source := live.NewReplaySource(feed, *replayDelay)

	runner := live.NewRunner(strat.Name, executor, source, sessionLog, func(signal types.Signal) {
		if signal.IsActionable() {
			log.Printf("⚡ %s %+d @ %.2f → %s", signal.Type, signal.Strength, signal.Price, signal.InstrumentType)
		}
	})
	runner.Seed(history)
	runner.TrackPortfolio(backtest.NewEngine(portfolioCfg))

	if *metricsAddr != "" {
		startMonitoringServer(*metricsAddr, runner)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Printf("🚀 %s v%s - strategy %s", AppName, AppVersion, strat.Name)
	if err := runner.Run(ctx); err != nil {
		sessionLog.LogError("runner", err)
		log.Fatalf("❌ Runner error: %v", err)
	}
	log.Println("🛑 Feed ended, shutting down")
}

func splitWarmup(bars []types.OHLCV, warmup int) (history, feed []types.OHLCV) {
	if warmup <= 0 || warmup >= len(bars) {
		return nil, bars
	}
	return bars[:warmup], bars[warmup:]
}

func startMonitoringServer(addr string, runner *live.Runner) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", monitoring.NewMetricsHandler())
	mux.Handle("/health", runner.Health())

	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Printf("📡 Monitoring endpoints on %s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("⚠️  Monitoring server: %v", err)
		}
	}()
}
