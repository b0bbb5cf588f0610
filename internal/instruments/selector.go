package instruments

import (
	"github.com/ducminhle1904/options-dsl-bot/pkg/types"
)

// VolatilityContext is the market context the selector decides on:
// volatility as a percentage of price (typically ATR/close*100) and the
// magnitude of the move the strategy expects before expiry.
type VolatilityContext struct {
	VolatilityPct   float64
	ExpectedMovePct float64
}

const strongStrength = 7

// Selector maps a signal plus volatility context onto a concrete contract.
// The decision table is deterministic; the catalog and the high-volatility
// threshold are configuration, not logic.
type Selector struct {
	catalog          Catalog
	highVolThreshold float64
}

// NewSelector creates a selector over the given catalog. threshold is the
// volatility percentage above which the market counts as high-volatility.
func NewSelector(catalog Catalog, threshold float64) *Selector {
	return &Selector{catalog: catalog, highVolThreshold: threshold}
}

// Select picks the contract for a signal. NEUTRAL signals select nothing
// and the second return is false.
//
// Strong signals (|strength| >= 7) get the best risk/reward for the
// regime: under high volatility the move should happen fast and theta is
// expensive, so the short duration with the high cap; under low
// volatility the longer duration with the lower cap. Moderate signals
// stay conservative: the shorter, lower-cap, cheapest contract.
func (s *Selector) Select(signal types.Signal, ctx VolatilityContext) (Spec, bool) {
	if !signal.IsActionable() {
		return Spec{}, false
	}

	strength := signal.Strength
	if strength < 0 {
		strength = -strength
	}

	name := Short5
	if strength >= strongStrength {
		if ctx.VolatilityPct > s.highVolThreshold {
			name = Short10
		} else {
			name = Long5
		}
	}

	spec, err := s.catalog.Get(name)
	if err != nil {
		return Spec{}, false
	}
	return spec, true
}

// Annotate fills the instrument fields of a signal in place and returns
// it; NEUTRAL signals pass through untouched.
func (s *Selector) Annotate(signal types.Signal, ctx VolatilityContext) types.Signal {
	spec, ok := s.Select(signal, ctx)
	if !ok {
		return signal
	}
	signal.InstrumentType = spec.Name
	signal.DurationDays = spec.DurationDays
	signal.ProfitCapPct = spec.ProfitCapPct
	signal.PremiumCostPct = spec.PremiumCostPct
	signal.ExpectedMovePct = ctx.ExpectedMovePct
	signal.VolatilityPct = ctx.VolatilityPct
	return signal
}
