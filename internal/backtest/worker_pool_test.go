package backtest

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ducminhle1904/options-dsl-bot/internal/config"
	"github.com/ducminhle1904/options-dsl-bot/internal/dsl"
)

const batchDocument = `{
	"dsl_version": "1.0",
	"name": "%s",
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
			"action_on_true": {"signal_type": "CALL", "strength": %d, "profit_cap_pct": 10}
		}
	],
	"default_action_on_no_match": {"signal_type": "NEUTRAL", "strength": 0}
}`

func batchStrategy(t *testing.T, name string, strength int) *dsl.Strategy {
	t.Helper()
	s, report := dsl.Load([]byte(fmt.Sprintf(batchDocument, name, strength)))
	require.True(t, report.OK(), report.Error())
	return s
}

// TestRunBatch verifies every strategy comes back with its own report and
// that per-strategy results differ when the strategies do.
func TestRunBatch(t *testing.T) {
	strategies := map[string]*dsl.Strategy{
		"strong":   batchStrategy(t, "strong", 7),
		"moderate": batchStrategy(t, "moderate", 3),
	}
	bars := dailyBars(100, 102, 104, 106, 108, 110)

	results := RunBatch(context.Background(), strategies, bars, config.Default(), 2)

	require.Len(t, results, 2)
	for id, r := range results {
		require.NoError(t, r.Error, id)
		require.NotNil(t, r.Report, id)
		assert.False(t, r.Report.Aborted, id)
		assert.NotZero(t, r.Report.Stats.TotalTrades, id)
	}

	// stronger conviction commits more premium per trade
	assert.Greater(t,
		results["strong"].Report.Stats.TotalPremiumPaid,
		results["moderate"].Report.Stats.TotalPremiumPaid)
}

// TestRunBatch_CancelledContext verifies cancellation aborts instead of
// hanging on unfinished jobs.
func TestRunBatch_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	strategies := map[string]*dsl.Strategy{"only": batchStrategy(t, "only", 7)}

	done := make(chan map[string]JobResult, 1)
	go func() {
		done <- RunBatch(ctx, strategies, dailyBars(100, 101, 102), config.Default(), 1)
	}()

	select {
	case results := <-done:
		// either nothing came back before the abort, or the one job that
		// did ran against the cancelled context and reports as aborted
		for _, r := range results {
			if r.Report != nil {
				assert.True(t, r.Report.Aborted)
			}
		}
	case <-time.After(5 * time.Second):
		t.Fatal("RunBatch did not return after cancellation")
	}
}

// TestWorkerPool_SubmitAfterCancel verifies Submit fails fast once the
// pool context is gone.
func TestWorkerPool_SubmitAfterCancel(t *testing.T) {
	pool := NewWorkerPool(1, 0)
	pool.cancel()

	err := pool.Submit(Job{ID: "late"})
	assert.ErrorIs(t, err, context.Canceled)
}
