package dsl

import (
	"fmt"
	"strconv"
	"strings"
)

// IntParam returns the named parameter as an int, or def when the parameter
// is absent. Params are literal after Resolve, so the value is a JSON number.
func (s *IndicatorSpec) IntParam(key string, def int) int {
	value, ok := s.Params[key]
	if !ok || value == nil {
		return def
	}
	switch v := value.(type) {
	case float64:
		return int(v)
	case int:
		return v
	}
	return def
}

// FloatParam returns the named parameter as a float64, or def when absent.
func (s *IndicatorSpec) FloatParam(key string, def float64) float64 {
	value, ok := s.Params[key]
	if !ok || value == nil {
		return def
	}
	switch v := value.(type) {
	case float64:
		return v
	case int:
		return float64(v)
	}
	return def
}

// Known indicator type tags.
const (
	TypeRSI      = "rsi"
	TypeMACD     = "macd"
	TypeSMA      = "sma"
	TypeEMA      = "ema"
	TypeBBands   = "bbands"
	TypeATR      = "atr"
	TypeStoch    = "stoch"
	TypeOBV      = "obv"
	TypeDonchian = "donchian"
)

// KnownIndicatorType reports whether tag is in the closed indicator
// vocabulary.
func KnownIndicatorType(tag string) bool {
	switch strings.ToLower(tag) {
	case TypeRSI, TypeMACD, TypeSMA, TypeEMA, TypeBBands, TypeATR, TypeStoch, TypeOBV, TypeDonchian:
		return true
	}
	return false
}

// MultiOutput reports whether the indicator type produces more than one
// component series.
func MultiOutput(tag string) bool {
	switch strings.ToLower(tag) {
	case TypeMACD, TypeBBands, TypeStoch, TypeDonchian:
		return true
	}
	return false
}

// RawOutputKeys returns the raw component names the indicator engine
// produces for this spec, in primary-first order. Single-output types
// return nil; their only series is exposed under the primary column.
// Both validation and the engine go through this so the naming never
// drifts between the two.
func (s *IndicatorSpec) RawOutputKeys() []string {
	switch strings.ToLower(s.Type) {
	case TypeMACD:
		fast := s.IntParam("fast", 12)
		slow := s.IntParam("slow", 26)
		signal := s.IntParam("signal", 9)
		return []string{
			fmt.Sprintf("MACD_%d_%d_%d", fast, slow, signal),
			fmt.Sprintf("MACDs_%d_%d_%d", fast, slow, signal),
			fmt.Sprintf("MACDh_%d_%d_%d", fast, slow, signal),
		}
	case TypeBBands:
		length := s.IntParam("length", 20)
		std := formatParam(s.FloatParam("std", 2.0))
		return []string{
			fmt.Sprintf("BBM_%d_%s", length, std),
			fmt.Sprintf("BBL_%d_%s", length, std),
			fmt.Sprintf("BBU_%d_%s", length, std),
		}
	case TypeStoch:
		k := s.IntParam("k", 14)
		d := s.IntParam("d", 3)
		return []string{
			fmt.Sprintf("STOCHk_%d_%d", k, d),
			fmt.Sprintf("STOCHd_%d_%d", k, d),
		}
	case TypeDonchian:
		length := s.IntParam("length", 20)
		return []string{
			fmt.Sprintf("DCM_%d", length),
			fmt.Sprintf("DCL_%d", length),
			fmt.Sprintf("DCU_%d", length),
		}
	}
	return nil
}

// NormalizeOutputKey collapses integral float segments so that keys written
// either way ("BBL_20_2.0" vs "BBL_20_2") compare equal.
func NormalizeOutputKey(key string) string {
	parts := strings.Split(key, "_")
	for i, part := range parts {
		if f, err := strconv.ParseFloat(part, 64); err == nil && f == float64(int64(f)) {
			parts[i] = strconv.FormatInt(int64(f), 10)
		}
	}
	return strings.Join(parts, "_")
}

func formatParam(f float64) string {
	if f == float64(int64(f)) {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}
