package instruments

import "fmt"

// Spec describes one capped-payoff option contract: a fixed duration, a
// payout cap as a percentage of notional, and the upfront premium cost as
// a percentage of notional. The premium is the maximum possible loss.
type Spec struct {
	Name           string  `json:"name"`
	DurationDays   int     `json:"duration_days"`
	ProfitCapPct   float64 `json:"profit_cap_pct"`
	PremiumCostPct float64 `json:"premium_cost_pct"`
}

// DailyTheta is the per-day premium decay of the contract.
func (s Spec) DailyTheta() float64 {
	if s.DurationDays == 0 {
		return 0
	}
	return s.PremiumCostPct / float64(s.DurationDays)
}

// Catalog names for the standard (duration × cap) grid.
const (
	Short5  = "3D_5PCT"
	Short10 = "3D_10PCT"
	Long5   = "7D_5PCT"
	Long10  = "7D_10PCT"
)

// Catalog is an injectable instrument table keyed by name. The default
// catalog carries the standard four contracts; callers with different
// venue pricing supply their own.
type Catalog map[string]Spec

// DefaultCatalog returns the standard instrument grid.
func DefaultCatalog() Catalog {
	return Catalog{
		Short5:  {Name: Short5, DurationDays: 3, ProfitCapPct: 5.0, PremiumCostPct: 2.2},
		Short10: {Name: Short10, DurationDays: 3, ProfitCapPct: 10.0, PremiumCostPct: 2.6},
		Long5:   {Name: Long5, DurationDays: 7, ProfitCapPct: 5.0, PremiumCostPct: 2.8},
		Long10:  {Name: Long10, DurationDays: 7, ProfitCapPct: 10.0, PremiumCostPct: 2.8},
	}
}

// Get looks up an instrument by name.
func (c Catalog) Get(name string) (Spec, error) {
	spec, ok := c[name]
	if !ok {
		return Spec{}, fmt.Errorf("unknown instrument %q", name)
	}
	return spec, nil
}
