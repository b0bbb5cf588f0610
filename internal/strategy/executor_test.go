package strategy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ducminhle1904/options-dsl-bot/internal/dsl"
	"github.com/ducminhle1904/options-dsl-bot/internal/instruments"
	"github.com/ducminhle1904/options-dsl-bot/pkg/types"
)

const trendDocument = `{
	"dsl_version": "1.0",
	"name": "sma_trend",
	"constants": {"trend_len": 3},
	"indicators": [
		{
			"name": "sma_trend",
			"type": "sma",
			"params": {"length": "@trend_len"},
			"outputs": {"primary_output_column": "sma_3"}
		},
		{
			"name": "atr_vol",
			"type": "atr",
			"params": {"length": 3},
			"outputs": {"primary_output_column": "atr_3"}
		}
	],
	"signal_rules": [
		{
			"rule_name": "above_trend",
			"conditions_group": {"operator": ">", "series1": "close", "series2_or_value": "sma_3"},
			"action_on_true": {"signal_type": "CALL", "strength": 7, "profit_cap_pct": 10}
		},
		{
			"rule_name": "below_trend",
			"conditions_group": {"operator": "<", "series1": "close", "series2_or_value": "sma_3"},
			"action_on_true": {"signal_type": "PUT", "strength": -3, "profit_cap_pct": 5}
		}
	],
	"default_action_on_no_match": {"signal_type": "NEUTRAL", "strength": 0}
}`

func loadStrategy(t *testing.T) *dsl.Strategy {
	t.Helper()
	s, report := dsl.Load([]byte(trendDocument))
	require.True(t, report.OK(), report.Error())
	return s
}

func trendBars() []types.OHLCV {
	closes := []float64{100, 101, 102, 107, 95}
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	bars := make([]types.OHLCV, len(closes))
	for i, c := range closes {
		bars[i] = types.OHLCV{
			Timestamp: start.Add(time.Duration(i) * time.Hour),
			Open:      c,
			High:      c + 2,
			Low:       c - 2,
			Close:     c,
			Volume:    1000,
		}
	}
	return bars
}

func newTestExecutor(t *testing.T, highVolThreshold float64) *Executor {
	t.Helper()
	selector := instruments.NewSelector(instruments.DefaultCatalog(), highVolThreshold)
	return NewExecutor(loadStrategy(t), selector)
}

// TestExecutor_OneSignalPerBar verifies every bar yields exactly one
// signal, with NEUTRAL during indicator warm-up.
func TestExecutor_OneSignalPerBar(t *testing.T) {
	executor := newTestExecutor(t, 3.0)
	bars := trendBars()

	signals, err := executor.GenerateSignals(bars)
	require.NoError(t, err)
	require.Len(t, signals, len(bars))

	// SMA(3) is not ready before index 2, so the comparison leaves the
	// default action in place.
	assert.Equal(t, types.SignalNeutral, signals[0].Type)
	assert.Equal(t, types.SignalNeutral, signals[1].Type)

	assert.Equal(t, types.SignalCall, signals[2].Type)
	assert.Equal(t, 7, signals[2].Strength)
	assert.Equal(t, types.SignalCall, signals[3].Type)
	assert.Equal(t, types.SignalPut, signals[4].Type)
	assert.Equal(t, -3, signals[4].Strength)

	for i, sig := range signals {
		assert.Equal(t, bars[i].Timestamp, sig.Timestamp, "bar %d", i)
		assert.Equal(t, bars[i].Close, sig.Price, "bar %d", i)
	}
}

// TestExecutor_Deterministic verifies two fresh executors over the same
// inputs produce an identical signal stream.
func TestExecutor_Deterministic(t *testing.T) {
	bars := trendBars()

	first, err := newTestExecutor(t, 3.0).GenerateSignals(bars)
	require.NoError(t, err)
	second, err := newTestExecutor(t, 3.0).GenerateSignals(bars)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

// TestExecutor_InstrumentAnnotation verifies actionable signals come back
// with a contract chosen from ATR-based volatility.
func TestExecutor_InstrumentAnnotation(t *testing.T) {
	bars := trendBars()

	// Threshold far above any realistic ATR%: strong signals read as
	// low-volatility and take the long, low-cap contract.
	signals, err := newTestExecutor(t, 50.0).GenerateSignals(bars)
	require.NoError(t, err)
	assert.Equal(t, instruments.Long5, signals[2].InstrumentType)
	assert.Equal(t, 7, signals[2].DurationDays)
	assert.Positive(t, signals[2].VolatilityPct)
	assert.Equal(t, DefaultExpectedMovePct, signals[2].ExpectedMovePct)

	// Threshold near zero: the same strong signal reads as
	// high-volatility and takes the short, high-cap contract.
	signals, err = newTestExecutor(t, 0.001).GenerateSignals(bars)
	require.NoError(t, err)
	assert.Equal(t, instruments.Short10, signals[2].InstrumentType)
	assert.Equal(t, 3, signals[2].DurationDays)

	// Moderate strength stays on the conservative contract either way.
	assert.Equal(t, instruments.Short5, signals[4].InstrumentType)
}

// TestExecutor_NeutralNotAnnotated verifies warm-up NEUTRAL signals carry
// no instrument fields.
func TestExecutor_NeutralNotAnnotated(t *testing.T) {
	signals, err := newTestExecutor(t, 3.0).GenerateSignals(trendBars())
	require.NoError(t, err)

	assert.Empty(t, signals[0].InstrumentType)
	assert.Zero(t, signals[0].DurationDays)
	assert.Zero(t, signals[0].Confidence)
}

// TestExecutor_SingleCrossover verifies a fast average crossing above a
// slow one exactly once yields exactly one actionable signal, at that bar.
func TestExecutor_SingleCrossover(t *testing.T) {
	doc := `{
		"dsl_version": "1.0",
		"name": "golden_cross",
		"constants": {},
		"indicators": [
			{"name": "fast", "type": "sma", "params": {"length": 2}, "outputs": {"primary_output_column": "sma_fast"}},
			{"name": "slow", "type": "sma", "params": {"length": 3}, "outputs": {"primary_output_column": "sma_slow"}}
		],
		"signal_rules": [
			{
				"rule_name": "golden_cross",
				"conditions_group": {"operator": "crosses_above", "series1": "sma_fast", "series2_or_value": "sma_slow"},
				"action_on_true": {"signal_type": "CALL", "strength": 7, "profit_cap_pct": 10}
			}
		],
		"default_action_on_no_match": {"signal_type": "NEUTRAL", "strength": 0}
	}`
	s, report := dsl.Load([]byte(doc))
	require.True(t, report.OK(), report.Error())

	executor := NewExecutor(s, instruments.NewSelector(instruments.DefaultCatalog(), 3.0))

	closes := []float64{105, 103, 101, 106, 108}
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]types.OHLCV, len(closes))
	for i, c := range closes {
		bars[i] = types.OHLCV{
			Timestamp: start.Add(time.Duration(i) * time.Hour),
			Open:      c, High: c + 2, Low: c - 2, Close: c, Volume: 1000,
		}
	}

	signals, err := executor.GenerateSignals(bars)
	require.NoError(t, err)
	require.Len(t, signals, len(bars))

	for i, sig := range signals {
		if i == 3 {
			assert.Equal(t, types.SignalCall, sig.Type, "bar %d", i)
			assert.Equal(t, "golden_cross", sig.RuleTriggered)
		} else {
			assert.Equal(t, types.SignalNeutral, sig.Type, "bar %d", i)
		}
	}
}

// TestExecutor_StepFrameMatchesBatch verifies stepping a precomputed frame
// bar by bar reproduces the batch replay exactly.
func TestExecutor_StepFrameMatchesBatch(t *testing.T) {
	executor := newTestExecutor(t, 3.0)
	bars := trendBars()

	batch, err := executor.GenerateSignals(bars)
	require.NoError(t, err)

	frame, err := executor.ComputeFrame(bars)
	require.NoError(t, err)
	for i := range bars {
		assert.Equal(t, batch[i], executor.StepFrame(frame, i), "bar %d", i)
	}
}
