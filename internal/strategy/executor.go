package strategy

import (
	"fmt"
	"strings"

	"github.com/ducminhle1904/options-dsl-bot/internal/dsl"
	"github.com/ducminhle1904/options-dsl-bot/internal/indicators"
	"github.com/ducminhle1904/options-dsl-bot/internal/instruments"
	"github.com/ducminhle1904/options-dsl-bot/internal/rules"
	"github.com/ducminhle1904/options-dsl-bot/pkg/types"
)

// DefaultExpectedMovePct is assumed when a strategy does not annotate an
// expected move of its own.
const DefaultExpectedMovePct = 2.0

// expectedMoveColumn is the optional column a strategy may expose to feed
// the instrument selector a per-bar expected move.
const expectedMoveColumn = "expected_move_pct"

// Executor runs one validated strategy over a bar series: indicators,
// rule evaluation, instrument selection. Each Executor owns its indicator
// state exclusively; parallel runs need one Executor each.
type Executor struct {
	strategy  *dsl.Strategy
	engine    *indicators.Engine
	rules     *rules.Engine
	selector  *instruments.Selector
	volColumn string
}

// NewExecutor wires an executor for a strategy that already passed
// validation. The volatility context for instrument selection comes from
// the strategy's first ATR indicator, when it declares one.
func NewExecutor(s *dsl.Strategy, selector *instruments.Selector) *Executor {
	return &Executor{
		strategy:  s,
		engine:    indicators.NewEngine(),
		rules:     rules.NewEngine(s),
		selector:  selector,
		volColumn: volatilityColumn(s),
	}
}

// volatilityColumn returns the primary output of the first ATR spec.
func volatilityColumn(s *dsl.Strategy) string {
	for i := range s.Indicators {
		if strings.EqualFold(s.Indicators[i].Type, dsl.TypeATR) {
			return s.Indicators[i].Outputs.PrimaryOutputColumn
		}
	}
	return ""
}

// GenerateSignals replays the full bar series and returns exactly one
// signal per bar, instrument-annotated for non-NEUTRAL bars. The replay
// is strictly sequential and deterministic: the same strategy and bars
// always produce an identical signal stream.
func (e *Executor) GenerateSignals(bars []types.OHLCV) ([]types.Signal, error) {
	frame, err := e.engine.Compute(bars, e.strategy.Indicators)
	if err != nil {
		return nil, fmt.Errorf("indicator computation failed: %w", err)
	}

	signals := make([]types.Signal, 0, frame.Len())
	for i := 0; i < frame.Len(); i++ {
		signals = append(signals, e.step(frame, i))
	}
	return signals, nil
}

// Frame exposes the annotated series of the last computation; mainly for
// inspection and tests.
func (e *Executor) ComputeFrame(bars []types.OHLCV) (*indicators.Frame, error) {
	return e.engine.Compute(bars, e.strategy.Indicators)
}

// StepFrame evaluates a single bar of an already computed frame. The live
// runner uses this to process exactly one closed bar at a time.
func (e *Executor) StepFrame(frame *indicators.Frame, i int) types.Signal {
	return e.step(frame, i)
}

func (e *Executor) step(frame *indicators.Frame, i int) types.Signal {
	row := frame.Row(i)
	prev := frame.Row(i - 1)

	signal := e.rules.Step(row, prev)
	if !signal.IsActionable() {
		return signal
	}
	return e.selector.Annotate(signal, e.volatilityContext(row))
}

func (e *Executor) volatilityContext(row indicators.Row) instruments.VolatilityContext {
	ctx := instruments.VolatilityContext{ExpectedMovePct: DefaultExpectedMovePct}

	if move := row.Value(expectedMoveColumn); indicators.Ready(move) {
		ctx.ExpectedMovePct = move
	}

	if e.volColumn != "" {
		atr := row.Value(e.volColumn)
		closePrice := row.Value("close")
		if indicators.Ready(atr) && indicators.Ready(closePrice) && closePrice != 0 {
			ctx.VolatilityPct = atr / closePrice * 100
		}
	}
	return ctx
}
