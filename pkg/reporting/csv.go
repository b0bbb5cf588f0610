package reporting

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/ducminhle1904/options-dsl-bot/internal/backtest"
)

// DefaultCSVReporter implements CSV output functionality
type DefaultCSVReporter struct{}

// NewDefaultCSVReporter creates a new CSV reporter
func NewDefaultCSVReporter() *DefaultCSVReporter {
	return &DefaultCSVReporter{}
}

// WriteTradesCSV writes the trade history to a CSV file
func (r *DefaultCSVReporter) WriteTradesCSV(report *backtest.Report, path string) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	defer w.Flush()

	header := []string{
		"trade_id", "entry_time", "exit_time", "instrument", "side",
		"strength", "rule", "entry_price", "exit_price", "notional",
		"premium_paid", "price_move_pct", "capped_move_pct", "payout",
		"net_pnl", "capital_after",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, t := range report.TradeHistory {
		side := "PUT"
		if t.IsCall {
			side = "CALL"
		}
		record := []string{
			t.TradeID,
			t.EntryTime.Format(time.RFC3339),
			t.ExitTime.Format(time.RFC3339),
			t.InstrumentType,
			side,
			strconv.Itoa(t.Strength),
			t.RuleTriggered,
			formatFloat(t.EntryPrice),
			formatFloat(t.ExitPrice),
			formatFloat(t.Notional),
			formatFloat(t.PremiumPaid),
			formatFloat(t.PriceMovePct),
			formatFloat(t.CappedMovePct),
			formatFloat(t.Payout),
			formatFloat(t.NetPnL),
			formatFloat(t.CapitalAfter),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}

	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}
