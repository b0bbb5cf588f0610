package backtest

import "time"

// TradeRecord archives one settled position for the report.
type TradeRecord struct {
	TradeID        string    `json:"trade_id"`
	EntryTime      time.Time `json:"entry_time"`
	ExitTime       time.Time `json:"exit_time"`
	InstrumentType string    `json:"instrument"`
	IsCall         bool      `json:"is_call"`
	Strength       int       `json:"signal_strength"`
	RuleTriggered  string    `json:"rule_triggered"`

	EntryPrice  float64 `json:"entry_price"`
	ExitPrice   float64 `json:"exit_price"`
	Notional    float64 `json:"notional"`
	PremiumPaid float64 `json:"premium_paid"`

	PriceMovePct       float64 `json:"price_move_pct"`
	CappedMovePct      float64 `json:"capped_move_pct"`
	Payout             float64 `json:"payout"`
	NetPnL             float64 `json:"net_pnl"`
	ReturnOnPremiumPct float64 `json:"return_on_premium_pct"`
	CapitalAfter       float64 `json:"capital_after"`
	Win                bool    `json:"win"`
}

// Rejection records a signal the constraint check refused.
type Rejection struct {
	Timestamp time.Time `json:"timestamp"`
	Rule      string    `json:"rule_triggered"`
	Reason    string    `json:"reason"`
}

// EquityPoint is one sample of the equity curve. Samples are taken only
// at premium-debit and settlement events, never interpolated.
type EquityPoint struct {
	Timestamp time.Time `json:"timestamp"`
	Equity    float64   `json:"equity"`
}

// DrawdownPeriod is one peak-to-trough-to-recovery segment of the equity
// curve. An unrecovered drawdown at the end of the run has a zero End.
type DrawdownPeriod struct {
	Start    time.Time `json:"start"`
	Trough   time.Time `json:"trough"`
	End      time.Time `json:"end,omitempty"`
	DepthPct float64   `json:"depth_pct"`
}

// SimulationStats aggregates one backtest run.
type SimulationStats struct {
	TotalTrades   int     `json:"total_trades"`
	WinningTrades int     `json:"winning_trades"`
	LosingTrades  int     `json:"losing_trades"`
	WinRatePct    float64 `json:"win_rate_pct"`

	TotalNetPnL    float64 `json:"total_net_pnl"`
	TotalReturnPct float64 `json:"total_return_pct"`
	FinalCapital   float64 `json:"final_capital"`
	APR            float64 `json:"apr"`

	SharpeRatio    float64 `json:"sharpe_ratio"`
	SortinoRatio   float64 `json:"sortino_ratio"`
	MaxDrawdownPct float64 `json:"max_drawdown_pct"`

	TotalPremiumPaid   float64 `json:"total_premium_paid"`
	TotalPayout        float64 `json:"total_payout"`
	ReturnOnPremiumPct float64 `json:"return_on_premium_pct"`

	TradingDays    int `json:"trading_days"`
	RejectedOpens  int `json:"rejected_opens"`
	DiscardedOpens int `json:"discarded_opens"`

	InstrumentStats map[string]InstrumentStats `json:"instrument_stats"`
}

// InstrumentStats breaks results down by contract type.
type InstrumentStats struct {
	Count        int     `json:"count"`
	Wins         int     `json:"wins"`
	WinRatePct   float64 `json:"win_rate_pct"`
	TotalPremium float64 `json:"total_premium"`
	TotalPnL     float64 `json:"total_pnl"`
}

// Report is the full output of one backtest run.
type Report struct {
	Stats           SimulationStats  `json:"simulation_stats"`
	TradeHistory    []TradeRecord    `json:"trade_history"`
	EquityCurve     []EquityPoint    `json:"equity_curve"`
	DrawdownPeriods []DrawdownPeriod `json:"drawdown_periods"`
	Rejections      []Rejection      `json:"rejections"`
	Aborted         bool             `json:"aborted,omitempty"`
}
