package reporting

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/ducminhle1904/options-dsl-bot/internal/backtest"
)

// DefaultJSONFormatter implements JSON output functionality
type DefaultJSONFormatter struct{}

// NewDefaultJSONFormatter creates a new JSON formatter
func NewDefaultJSONFormatter() *DefaultJSONFormatter {
	return &DefaultJSONFormatter{}
}

// FormatReport formats a backtest report as indented JSON bytes
func (f *DefaultJSONFormatter) FormatReport(report *backtest.Report) ([]byte, error) {
	return json.MarshalIndent(report, "", "  ")
}

// WriteReportJSON writes a backtest report to a JSON file
func WriteReportJSON(report *backtest.Report, path string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	return os.WriteFile(path, data, 0644)
}
