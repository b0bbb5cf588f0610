package reporting

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ducminhle1904/options-dsl-bot/internal/backtest"
)

func sampleReport() *backtest.Report {
	entry := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	exit := entry.Add(72 * time.Hour)

	return &backtest.Report{
		Stats: backtest.SimulationStats{
			TotalTrades:   1,
			WinningTrades: 1,
			WinRatePct:    100,
			FinalCapital:  10.28,
			InstrumentStats: map[string]backtest.InstrumentStats{
				"3D_5PCT": {Count: 1, Wins: 1, WinRatePct: 100, TotalPremium: 0.35, TotalPnL: 0.28},
			},
		},
		TradeHistory: []backtest.TradeRecord{
			{
				TradeID:        "ab12cd34",
				EntryTime:      entry,
				ExitTime:       exit,
				InstrumentType: "3D_5PCT",
				IsCall:         true,
				Strength:       7,
				RuleTriggered:  "above_trend",
				EntryPrice:     100,
				ExitPrice:      104,
				Notional:       15.909,
				PremiumPaid:    0.35,
				PriceMovePct:   4,
				CappedMovePct:  4,
				Payout:         0.636,
				NetPnL:         0.286,
				CapitalAfter:   10.28,
				Win:            true,
			},
		},
		EquityCurve: []backtest.EquityPoint{
			{Timestamp: entry, Equity: 9.65},
			{Timestamp: exit, Equity: 10.28},
		},
	}
}

func TestWriteReportJSON_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "report.json")
	require.NoError(t, WriteReportJSON(sampleReport(), path))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	var got backtest.Report
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, 1, got.Stats.TotalTrades)
	require.Len(t, got.TradeHistory, 1)
	assert.Equal(t, "ab12cd34", got.TradeHistory[0].TradeID)
	assert.True(t, got.TradeHistory[0].EntryTime.Equal(sampleReport().TradeHistory[0].EntryTime))
}

func TestWriteTradesCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trades.csv")
	require.NoError(t, NewDefaultCSVReporter().WriteTradesCSV(sampleReport(), path))

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "trade_id", rows[0][0])
	assert.Equal(t, "ab12cd34", rows[1][0])
	assert.Equal(t, "CALL", rows[1][4])
	assert.Equal(t, "above_trend", rows[1][6])
}

func TestDefaultOutputDir(t *testing.T) {
	assert.Equal(t, filepath.Join("results", "rsi_reversal_1h"), DefaultOutputDir("rsi_reversal", "1H"))
	assert.Equal(t, filepath.Join("results", "strategy_unknown"), DefaultOutputDir("", ""))
}
