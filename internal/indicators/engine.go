package indicators

import (
	"fmt"
	"strings"

	"github.com/ducminhle1904/options-dsl-bot/internal/dsl"
	"github.com/ducminhle1904/options-dsl-bot/pkg/types"
)

// Engine computes the annotated series for a strategy's indicator specs.
// Each Engine owns its output frame exclusively; strategies running in
// parallel must each use their own Engine.
type Engine struct{}

// NewEngine creates a new indicator engine.
func NewEngine() *Engine {
	return &Engine{}
}

// Compute runs every indicator spec over the bar series and returns the
// annotated frame. Specs are assumed validated; errors here indicate a
// document that bypassed validation and are fatal for this run.
func (e *Engine) Compute(bars []types.OHLCV, specs []dsl.IndicatorSpec) (*Frame, error) {
	frame := NewFrame(bars)

	for i := range specs {
		spec := &specs[i]
		outputs, err := e.compute(frame, spec)
		if err != nil {
			return nil, fmt.Errorf("indicator %q: %w", spec.Name, err)
		}
		if err := expose(frame, spec, outputs); err != nil {
			return nil, fmt.Errorf("indicator %q: %w", spec.Name, err)
		}
	}
	return frame, nil
}

// compute dispatches on the indicator type tag. The returned slice is
// ordered to match dsl.RawOutputKeys for the spec (primary first).
func (e *Engine) compute(frame *Frame, spec *dsl.IndicatorSpec) ([][]float64, error) {
	closes := frame.columns["close"]
	high := frame.columns["high"]
	low := frame.columns["low"]
	volume := frame.columns["volume"]

	switch strings.ToLower(spec.Type) {
	case dsl.TypeRSI:
		return [][]float64{NewRSI(spec.IntParam("length", 14)).Compute(closes)}, nil
	case dsl.TypeSMA:
		return [][]float64{NewSMA(spec.IntParam("length", 20)).Compute(closes)}, nil
	case dsl.TypeEMA:
		return [][]float64{NewEMA(spec.IntParam("length", 20)).Compute(closes)}, nil
	case dsl.TypeATR:
		return [][]float64{NewATR(spec.IntParam("length", 14)).Compute(high, low, closes)}, nil
	case dsl.TypeOBV:
		return [][]float64{NewOBV().Compute(closes, volume)}, nil
	case dsl.TypeMACD:
		macd := NewMACD(spec.IntParam("fast", 12), spec.IntParam("slow", 26), spec.IntParam("signal", 9))
		line, signal, hist := macd.Compute(closes)
		return [][]float64{line, signal, hist}, nil
	case dsl.TypeBBands:
		bb := NewBollingerBands(spec.IntParam("length", 20), spec.FloatParam("std", 2.0))
		middle, lower, upper := bb.Compute(closes)
		return [][]float64{middle, lower, upper}, nil
	case dsl.TypeStoch:
		stoch := NewStochastic(spec.IntParam("k", 14), spec.IntParam("d", 3))
		kLine, dLine := stoch.Compute(high, low, closes)
		return [][]float64{kLine, dLine}, nil
	case dsl.TypeDonchian:
		dc := NewDonchianChannels(spec.IntParam("length", 20))
		middle, lower, upper := dc.Compute(high, low)
		return [][]float64{middle, lower, upper}, nil
	}
	return nil, fmt.Errorf("unknown indicator type %q", spec.Type)
}

// expose attaches computed series to the frame under the names the spec
// asks for. With a component map every mapped sub-output is exposed;
// without one only the primary (first) series is.
func expose(frame *Frame, spec *dsl.IndicatorSpec, outputs [][]float64) error {
	if len(spec.Outputs.ComponentOutputMap) > 0 {
		rawKeys := spec.RawOutputKeys()
		byKey := make(map[string]string, len(spec.Outputs.ComponentOutputMap))
		for raw, col := range spec.Outputs.ComponentOutputMap {
			byKey[dsl.NormalizeOutputKey(raw)] = col
		}
		for i, raw := range rawKeys {
			col, mapped := byKey[dsl.NormalizeOutputKey(raw)]
			if !mapped {
				continue
			}
			if err := frame.AddColumn(col, outputs[i]); err != nil {
				return err
			}
		}
		return nil
	}

	return frame.AddColumn(spec.Outputs.PrimaryOutputColumn, outputs[0])
}
