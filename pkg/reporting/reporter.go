package reporting

import (
	"path/filepath"

	"github.com/ducminhle1904/options-dsl-bot/internal/backtest"
)

// DefaultReporter combines console and file reporting
type DefaultReporter struct {
	*DefaultConsoleReporter
	*DefaultCSVReporter
	*DefaultExcelReporter
	*DefaultPathManager
}

// NewDefaultReporter creates a reporter with all default components
func NewDefaultReporter() *DefaultReporter {
	return &DefaultReporter{
		DefaultConsoleReporter: NewDefaultConsoleReporter(),
		DefaultCSVReporter:     NewDefaultCSVReporter(),
		DefaultExcelReporter:   NewDefaultExcelReporter(),
		DefaultPathManager:     NewDefaultPathManager(),
	}
}

// WriteReportJSON writes the report to a JSON file
func (r *DefaultReporter) WriteReportJSON(report *backtest.Report, path string) error {
	return WriteReportJSON(report, path)
}

// WriteAll emits every enabled file format into outputDir
func (r *DefaultReporter) WriteAll(report *backtest.Report, outputDir string, cfg ReportingConfig) error {
	if cfg.CSVEnabled {
		if err := r.WriteTradesCSV(report, filepath.Join(outputDir, "trades.csv")); err != nil {
			return err
		}
	}
	if cfg.ExcelEnabled {
		if err := r.WriteReportXLSX(report, filepath.Join(outputDir, "report.xlsx")); err != nil {
			return err
		}
	}
	if cfg.JSONEnabled {
		if err := r.WriteReportJSON(report, filepath.Join(outputDir, "report.json")); err != nil {
			return err
		}
	}
	return nil
}
