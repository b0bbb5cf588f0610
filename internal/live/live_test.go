package live

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ducminhle1904/options-dsl-bot/internal/backtest"
	"github.com/ducminhle1904/options-dsl-bot/internal/config"
	"github.com/ducminhle1904/options-dsl-bot/internal/dsl"
	"github.com/ducminhle1904/options-dsl-bot/internal/instruments"
	"github.com/ducminhle1904/options-dsl-bot/internal/logger"
	"github.com/ducminhle1904/options-dsl-bot/internal/strategy"
	"github.com/ducminhle1904/options-dsl-bot/pkg/types"
)

const liveDocument = `{
	"dsl_version": "1.0",
	"name": "live_trend",
	"constants": {},
	"indicators": [
		{
			"name": "sma_trend",
			"type": "sma",
			"params": {"length": 2},
			"outputs": {"primary_output_column": "sma_2"}
		},
		{
			"name": "atr_vol",
			"type": "atr",
			"params": {"length": 2},
			"outputs": {"primary_output_column": "atr_2"}
		}
	],
	"signal_rules": [
		{
			"rule_name": "above_trend",
			"conditions_group": {"operator": ">", "series1": "close", "series2_or_value": "sma_2"},
			"action_on_true": {"signal_type": "CALL", "strength": 7, "profit_cap_pct": 10}
		}
	],
	"default_action_on_no_match": {"signal_type": "NEUTRAL", "strength": 0}
}`

func liveBars(t *testing.T, closes ...float64) []types.OHLCV {
	t.Helper()
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]types.OHLCV, len(closes))
	for i, c := range closes {
		bars[i] = types.OHLCV{
			Timestamp: start.Add(time.Duration(i) * time.Hour),
			Open:      c, High: c + 1, Low: c - 1, Close: c, Volume: 100,
		}
	}
	return bars
}

func newLiveRunner(t *testing.T, handler SignalHandler, source BarSource) *Runner {
	t.Helper()
	t.Chdir(t.TempDir()) // keep the session log out of the package dir

	s, report := dsl.Load([]byte(liveDocument))
	require.True(t, report.OK(), report.Error())

	selector := instruments.NewSelector(instruments.DefaultCatalog(), 3.0)
	executor := strategy.NewExecutor(s, selector)

	log, err := logger.NewLogger("live_trend", "1h")
	require.NoError(t, err)
	t.Cleanup(func() { log.Close() })

	return NewRunner("live_trend", executor, source, log, handler)
}

func TestReplaySource_DrainsThenEOF(t *testing.T) {
	bars := liveBars(t, 100, 101)
	source := NewReplaySource(bars, 0)

	for i := range bars {
		bar, err := source.Next(context.Background())
		require.NoError(t, err)
		assert.Equal(t, bars[i].Timestamp, bar.Timestamp)
	}

	_, err := source.Next(context.Background())
	assert.ErrorIs(t, err, io.EOF)
}

func TestReplaySource_CancelledContext(t *testing.T) {
	source := NewReplaySource(liveBars(t, 100), 0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := source.Next(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

// TestRunner_EvaluatesEveryBarOnce verifies the runner emits exactly one
// signal per closed bar and matches a batch replay of the same series.
func TestRunner_EvaluatesEveryBarOnce(t *testing.T) {
	bars := liveBars(t, 100, 101, 103, 102)

	var seen []types.Signal
	runner := newLiveRunner(t, func(s types.Signal) { seen = append(seen, s) }, NewReplaySource(bars, 0))

	require.NoError(t, runner.Run(context.Background()))
	require.Len(t, seen, len(bars))

	assert.Equal(t, types.SignalNeutral, seen[0].Type)
	assert.Equal(t, types.SignalCall, seen[2].Type)
	assert.Equal(t, 7, seen[2].Strength)
	assert.NotEmpty(t, seen[2].InstrumentType)

	for i, sig := range seen {
		assert.Equal(t, bars[i].Timestamp, sig.Timestamp, "bar %d", i)
	}
}

// TestRunner_SeededHistoryWarmsIndicators verifies seeded bars count
// toward warm-up so the first live bar can already be actionable.
func TestRunner_SeededHistoryWarmsIndicators(t *testing.T) {
	bars := liveBars(t, 100, 101, 103)

	var seen []types.Signal
	runner := newLiveRunner(t, func(s types.Signal) { seen = append(seen, s) }, NewReplaySource(bars[2:], 0))
	runner.Seed(bars[:2])

	require.NoError(t, runner.Run(context.Background()))
	require.Len(t, seen, 1)
	assert.Equal(t, types.SignalCall, seen[0].Type)
}

// TestRunner_TracksPaperPortfolio verifies an attached portfolio is
// stepped once per closed bar: each actionable signal debits a premium,
// so equity after the run reflects the opened paper positions.
func TestRunner_TracksPaperPortfolio(t *testing.T) {
	bars := liveBars(t, 100, 101, 103, 105)

	runner := newLiveRunner(t, nil, NewReplaySource(bars, 0))
	portfolio := backtest.NewEngine(config.Default())
	runner.TrackPortfolio(portfolio)

	require.NoError(t, runner.Run(context.Background()))

	// bars 1..3 close above the 2-bar SMA, so three positions open; each
	// premium is 70% of the 5% per-trade budget on the remaining capital
	cap := 10.0
	for i := 0; i < 3; i++ {
		cap -= cap * 0.05 * 0.7
	}
	assert.InDelta(t, cap, portfolio.Equity(), 1e-9)
	assert.Less(t, portfolio.Equity(), config.Default().InitialCapital)
}

// TestRunner_DropsOutOfOrderBars verifies a stale bar is skipped without
// an evaluation.
func TestRunner_DropsOutOfOrderBars(t *testing.T) {
	ordered := liveBars(t, 100, 101, 103)
	feed := []types.OHLCV{ordered[0], ordered[1], ordered[0], ordered[2]}

	var seen []types.Signal
	runner := newLiveRunner(t, func(s types.Signal) { seen = append(seen, s) }, NewReplaySource(feed, 0))

	require.NoError(t, runner.Run(context.Background()))
	require.Len(t, seen, 3)
	assert.Equal(t, ordered[2].Timestamp, seen[2].Timestamp)
}
