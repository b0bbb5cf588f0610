package types

import "time"

type OHLCV struct {
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    float64
	Timestamp time.Time
}

// SignalType is the direction of an options signal.
type SignalType string

const (
	SignalCall    SignalType = "CALL"
	SignalPut     SignalType = "PUT"
	SignalNeutral SignalType = "NEUTRAL"
)

// Signal is one discrete trading decision for a single closed bar.
// InstrumentType and the fields after it are filled in by instrument
// selection; they stay zero for NEUTRAL signals.
type Signal struct {
	Timestamp     time.Time
	Type          SignalType
	Strength      int // -7, -3, 0, 3, 7
	Price         float64
	RuleTriggered string
	Confidence    float64

	InstrumentType  string
	DurationDays    int
	ProfitCapPct    float64
	PremiumCostPct  float64
	ExpectedMovePct float64
	VolatilityPct   float64
}

// IsActionable reports whether the signal should open a position.
func (s Signal) IsActionable() bool {
	return s.Type != SignalNeutral && s.Strength != 0
}
