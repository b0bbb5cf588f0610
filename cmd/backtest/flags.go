package main

import (
	"flag"
	"fmt"
	"strings"
)

// BacktestFlags holds all command line flags for the backtest command
type BacktestFlags struct {
	StrategyFile *string
	DataFile     *string
	Interval     *string
	Period       *string
	EnvFile      *string

	InitialCapital *float64
	PortfolioFile  *string

	OutputDir   *string
	WriteCSV    *bool
	WriteExcel  *bool
	WriteJSON   *bool
	ShowTrades  *int
	Workers     *int
	ShowVersion *bool
}

// NewBacktestFlags registers all flags and returns the container
func NewBacktestFlags() *BacktestFlags {
	return &BacktestFlags{
		StrategyFile: flag.String("strategy", "", "Path to strategy DSL JSON file (comma-separated for multiple)"),
		DataFile:     flag.String("data", "", "Path to historical data file (CSV or JSON)"),
		Interval:     flag.String("interval", "1h", "Bar interval label used in output paths"),
		Period:       flag.String("period", "", "Trailing period filter, e.g. 30d, 180d"),
		EnvFile:      flag.String("env", ".env", "Path to environment file"),

		InitialCapital: flag.Float64("capital", 0, "Initial capital (overrides portfolio config)"),
		PortfolioFile:  flag.String("portfolio", "", "Path to portfolio config JSON file"),

		OutputDir:   flag.String("output", "", "Output directory (default results/<strategy>_<interval>)"),
		WriteCSV:    flag.Bool("csv", true, "Write trades CSV"),
		WriteExcel:  flag.Bool("xlsx", true, "Write Excel report"),
		WriteJSON:   flag.Bool("json", true, "Write JSON report"),
		ShowTrades:  flag.Int("show-trades", 10, "Number of recent trades to print (0 disables)"),
		Workers:     flag.Int("workers", 0, "Worker count for multi-strategy runs (0 = NumCPU)"),
		ShowVersion: flag.Bool("version", false, "Show version and exit"),
	}
}

// ValidateBacktestFlags checks required flags
func ValidateBacktestFlags(flags *BacktestFlags) error {
	if *flags.ShowVersion {
		return nil
	}
	if strings.TrimSpace(*flags.StrategyFile) == "" {
		return fmt.Errorf("missing required flag: -strategy")
	}
	if strings.TrimSpace(*flags.DataFile) == "" {
		return fmt.Errorf("missing required flag: -data")
	}
	if *flags.ShowTrades < 0 {
		return fmt.Errorf("-show-trades must be >= 0")
	}
	return nil
}

// StrategyFiles splits the comma-separated strategy flag
func (f *BacktestFlags) StrategyFiles() []string {
	var files []string
	for _, p := range strings.Split(*f.StrategyFile, ",") {
		if p = strings.TrimSpace(p); p != "" {
			files = append(files, p)
		}
	}
	return files
}
