package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 10.0, cfg.InitialCapital)
	assert.Equal(t, 5.0, cfg.PremiumPerTradePct)
	assert.Equal(t, 15.0, cfg.MaxDailyPremiumPct)
	assert.Equal(t, 30.0, cfg.MaxTotalPremiumPct)
	assert.Equal(t, 10, cfg.MaxConcurrentPositions)
	assert.Equal(t, 25.0, cfg.MaxDrawdownPct)
	assert.Equal(t, 3.0, cfg.HighVolThresholdPct)
	assert.NoError(t, cfg.Validate())
}

func TestValidate_RejectsBadLimits(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*PortfolioConfig)
	}{
		{"zero capital", func(c *PortfolioConfig) { c.InitialCapital = 0 }},
		{"negative per-trade", func(c *PortfolioConfig) { c.PremiumPerTradePct = -1 }},
		{"per-trade over 100", func(c *PortfolioConfig) { c.PremiumPerTradePct = 150 }},
		{"zero daily cap", func(c *PortfolioConfig) { c.MaxDailyPremiumPct = 0 }},
		{"zero total cap", func(c *PortfolioConfig) { c.MaxTotalPremiumPct = 0 }},
		{"zero concurrent", func(c *PortfolioConfig) { c.MaxConcurrentPositions = 0 }},
		{"drawdown over 100", func(c *PortfolioConfig) { c.MaxDrawdownPct = 120 }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

// TestPremiumBudget verifies the per-trade cap and the remaining total
// headroom, whichever is tighter.
func TestPremiumBudget(t *testing.T) {
	cfg := Default()

	// nothing committed: the 5% per-trade cap binds
	assert.InDelta(t, 0.5, cfg.PremiumBudget(10.0, 0), 1e-9)

	// 2.8 of the 3.0 total already committed: headroom binds
	assert.InDelta(t, 0.2, cfg.PremiumBudget(10.0, 2.8), 1e-9)

	// over-committed: budget goes negative, caller must reject
	assert.Less(t, cfg.PremiumBudget(10.0, 3.5), 0.0)
}

func TestLoad_FileAndEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "portfolio.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"initial_capital": 50.0,
		"premium_per_trade_pct": 2.5
	}`), 0o644))

	// env wins over the file, the file wins over defaults
	t.Setenv("PORTFOLIO_INITIAL_CAPITAL", "100.0")
	t.Setenv("PORTFOLIO_MAX_CONCURRENT_POSITIONS", "4")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 100.0, cfg.InitialCapital)
	assert.Equal(t, 2.5, cfg.PremiumPerTradePct)
	assert.Equal(t, 4, cfg.MaxConcurrentPositions)
	assert.Equal(t, 15.0, cfg.MaxDailyPremiumPct)
}

func TestLoad_MissingPathUsesDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{not json"), 0o644))
	_, err = Load(bad)
	assert.Error(t, err)
}

func TestLoad_InvalidEnvValueIgnored(t *testing.T) {
	t.Setenv("PORTFOLIO_MAX_DRAWDOWN_PCT", "lots")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 25.0, cfg.MaxDrawdownPct)
}
