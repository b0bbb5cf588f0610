package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
)

// PortfolioConfig caps what the backtester may commit. Premium percentages
// are of current capital; the premium paid up front is the only capital at
// risk per position.
type PortfolioConfig struct {
	InitialCapital         float64 `json:"initial_capital"`
	PremiumPerTradePct     float64 `json:"premium_per_trade_pct"`
	MaxDailyPremiumPct     float64 `json:"max_daily_premium_pct"`
	MaxTotalPremiumPct     float64 `json:"max_total_premium_pct"`
	MaxConcurrentPositions int     `json:"max_concurrent_positions"`
	MaxDrawdownPct         float64 `json:"max_drawdown_pct"`

	// HighVolThresholdPct feeds instrument selection: volatility above it
	// counts as a high-volatility regime.
	HighVolThresholdPct float64 `json:"high_vol_threshold_pct"`
}

// Default returns the standard portfolio limits.
func Default() PortfolioConfig {
	return PortfolioConfig{
		InitialCapital:         10.0,
		PremiumPerTradePct:     5.0,
		MaxDailyPremiumPct:     15.0,
		MaxTotalPremiumPct:     30.0,
		MaxConcurrentPositions: 10,
		MaxDrawdownPct:         25.0,
		HighVolThresholdPct:    3.0,
	}
}

// Load reads a JSON portfolio config file and applies env overrides on
// top. A missing path returns defaults with env overrides only.
func Load(path string) (PortfolioConfig, error) {
	cfg := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("failed to read portfolio config: %w", err)
		}
		if err := json.Unmarshal(raw, &cfg); err != nil {
			return cfg, fmt.Errorf("malformed portfolio config: %w", err)
		}
	}

	cfg.applyEnv()
	return cfg, cfg.Validate()
}

// Validate checks the limits are internally consistent.
func (c PortfolioConfig) Validate() error {
	if c.InitialCapital <= 0 {
		return fmt.Errorf("initial capital must be positive, got: %.4f", c.InitialCapital)
	}
	if c.PremiumPerTradePct <= 0 || c.PremiumPerTradePct > 100 {
		return fmt.Errorf("premium per trade must be in (0, 100], got: %.2f", c.PremiumPerTradePct)
	}
	if c.MaxDailyPremiumPct <= 0 || c.MaxDailyPremiumPct > 100 {
		return fmt.Errorf("max daily premium must be in (0, 100], got: %.2f", c.MaxDailyPremiumPct)
	}
	if c.MaxTotalPremiumPct <= 0 || c.MaxTotalPremiumPct > 100 {
		return fmt.Errorf("max total premium must be in (0, 100], got: %.2f", c.MaxTotalPremiumPct)
	}
	if c.MaxConcurrentPositions <= 0 {
		return fmt.Errorf("max concurrent positions must be positive, got: %d", c.MaxConcurrentPositions)
	}
	if c.MaxDrawdownPct <= 0 || c.MaxDrawdownPct > 100 {
		return fmt.Errorf("max drawdown must be in (0, 100], got: %.2f", c.MaxDrawdownPct)
	}
	return nil
}

// PremiumBudget returns the premium spendable on one new position given
// the premium already committed to open positions.
func (c PortfolioConfig) PremiumBudget(capital, committedPremium float64) float64 {
	maxTotal := capital * (c.MaxTotalPremiumPct / 100)
	remaining := maxTotal - committedPremium
	perTrade := capital * (c.PremiumPerTradePct / 100)
	if remaining < perTrade {
		return remaining
	}
	return perTrade
}

func (c *PortfolioConfig) applyEnv() {
	c.InitialCapital = getEnvFloat("PORTFOLIO_INITIAL_CAPITAL", c.InitialCapital)
	c.PremiumPerTradePct = getEnvFloat("PORTFOLIO_PREMIUM_PER_TRADE_PCT", c.PremiumPerTradePct)
	c.MaxDailyPremiumPct = getEnvFloat("PORTFOLIO_MAX_DAILY_PREMIUM_PCT", c.MaxDailyPremiumPct)
	c.MaxTotalPremiumPct = getEnvFloat("PORTFOLIO_MAX_TOTAL_PREMIUM_PCT", c.MaxTotalPremiumPct)
	c.MaxConcurrentPositions = getEnvInt("PORTFOLIO_MAX_CONCURRENT_POSITIONS", c.MaxConcurrentPositions)
	c.MaxDrawdownPct = getEnvFloat("PORTFOLIO_MAX_DRAWDOWN_PCT", c.MaxDrawdownPct)
	c.HighVolThresholdPct = getEnvFloat("PORTFOLIO_HIGH_VOL_THRESHOLD_PCT", c.HighVolThresholdPct)
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if val := os.Getenv(key); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return defaultVal
}
