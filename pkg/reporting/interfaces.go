package reporting

import (
	"github.com/ducminhle1904/options-dsl-bot/internal/backtest"
)

// Package reporting provides output generation for backtest results

// ConsoleReporter defines interface for console output
type ConsoleReporter interface {
	OutputResults(report *backtest.Report)
	OutputResultsWithContext(report *backtest.Report, strategyName, interval string)
}

// FileReporter defines interface for file output
type FileReporter interface {
	WriteTradesCSV(report *backtest.Report, path string) error
	WriteReportXLSX(report *backtest.Report, path string) error
	WriteReportJSON(report *backtest.Report, path string) error
}

// PathManager defines interface for output path management
type PathManager interface {
	GetDefaultOutputDir(strategyName, interval string) string
	EnsureDirectoryExists(path string) error
}

// Reporter combines all reporting interfaces
type Reporter interface {
	ConsoleReporter
	FileReporter
	PathManager
}

// ExcelStyles holds Excel formatting styles
type ExcelStyles struct {
	HeaderStyle       int
	CurrencyStyle     int
	PercentStyle      int
	BaseStyle         int
	RedPercentStyle   int
	GreenPercentStyle int
	SummaryStyle      int
}

// ReportingConfig holds configuration for reporting
type ReportingConfig struct {
	EnableConsole   bool
	OutputDirectory string
	ExcelEnabled    bool
	CSVEnabled      bool
	JSONEnabled     bool
}
