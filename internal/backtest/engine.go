package backtest

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/ducminhle1904/options-dsl-bot/internal/config"
	"github.com/ducminhle1904/options-dsl-bot/pkg/types"
)

// Engine replays a signal stream against the bar series it was generated
// from, opening and settling capped-payoff positions under the portfolio
// limits. One Engine owns one PortfolioState for exactly one run; it is
// not safe to share across concurrent runs.
type Engine struct {
	cfg config.PortfolioConfig

	capital   float64
	peak      float64
	committed float64
	open      []*Position

	trades     []TradeRecord
	rejections []Rejection
	equity     []EquityPoint
	daily      map[string]float64

	discarded int
}

// NewEngine creates a backtest engine with a fresh portfolio state.
func NewEngine(cfg config.PortfolioConfig) *Engine {
	return &Engine{
		cfg:     cfg,
		capital: cfg.InitialCapital,
		peak:    cfg.InitialCapital,
		daily:   make(map[string]float64),
	}
}

// Run replays bars in order. Signals must be aligned with the bars they
// were generated from (one per bar at most). Settlement happens at the
// close of the first bar at or past a position's expiry; positions still
// open at the end of the data settle at the final close. When ctx is
// cancelled mid-stream the run stops and any still-open position is
// discarded from the report, since an abort is not a market event.
func (e *Engine) Run(ctx context.Context, signals []types.Signal, bars []types.OHLCV) *Report {
	byBar := make(map[time.Time]types.Signal, len(signals))
	for _, s := range signals {
		byBar[s.Timestamp] = s
	}

	aborted := false
	for _, bar := range bars {
		if ctx.Err() != nil {
			aborted = true
			break
		}
		e.Step(byBar[bar.Timestamp], bar)
	}

	if aborted {
		e.discarded = len(e.open)
		e.open = nil
	} else if len(bars) > 0 {
		// end of data: settle what is left at the final close
		last := bars[len(bars)-1]
		for _, p := range append([]*Position(nil), e.open...) {
			e.settle(p, last.Close, last.Timestamp)
		}
	}

	return e.buildReport(aborted)
}

// StepResult summarizes what a single portfolio step did: the trades that
// settled on this bar, the position opened from this bar's signal (nil when
// none), the rejection that blocked it (nil when none), and the equity
// after all of it.
type StepResult struct {
	Settled  []TradeRecord
	Opened   *Position
	Rejected *Rejection
	Equity   float64
}

// Step advances the portfolio by one closed bar: expired positions settle
// at the bar close first, then an actionable signal goes through the
// constraint gate. Run composes Step over a recorded series; the live
// runner calls it directly to track a paper portfolio in real time.
func (e *Engine) Step(signal types.Signal, bar types.OHLCV) StepResult {
	tradesBefore := len(e.trades)
	rejectionsBefore := len(e.rejections)

	e.settleExpired(bar.Timestamp, bar.Close)

	var opened *Position
	if signal.IsActionable() {
		openBefore := len(e.open)
		e.tryOpen(signal, bar)
		if len(e.open) > openBefore {
			opened = e.open[len(e.open)-1]
		}
	}

	result := StepResult{Opened: opened, Equity: e.capital}
	if len(e.trades) > tradesBefore {
		result.Settled = e.trades[tradesBefore:]
	}
	if len(e.rejections) > rejectionsBefore {
		result.Rejected = &e.rejections[len(e.rejections)-1]
	}
	return result
}

// Equity returns the uncommitted capital after all settlements so far.
func (e *Engine) Equity() float64 {
	return e.capital
}

// tryOpen runs the constraint check and, on success, debits the premium
// and opens the position. A rejected signal leaves the portfolio state
// completely untouched.
func (e *Engine) tryOpen(signal types.Signal, bar types.OHLCV) {
	if signal.PremiumCostPct <= 0 || signal.DurationDays <= 0 {
		e.reject(signal, "signal carries no instrument")
		return
	}
	if len(e.open) >= e.cfg.MaxConcurrentPositions {
		e.reject(signal, fmt.Sprintf("max concurrent positions reached (%d)", e.cfg.MaxConcurrentPositions))
		return
	}
	if dd := e.currentDrawdownPct(); dd > e.cfg.MaxDrawdownPct {
		e.reject(signal, fmt.Sprintf("drawdown %.1f%% beyond %.1f%% ceiling", dd, e.cfg.MaxDrawdownPct))
		return
	}

	budget := e.cfg.PremiumBudget(e.capital, e.committed)
	if budget <= 0 {
		e.reject(signal, fmt.Sprintf("total premium cap %.1f%% exhausted", e.cfg.MaxTotalPremiumPct))
		return
	}

	// scale the premium with conviction; floor at 0.1% of capital
	premium := budget * strengthMultiplier(signal.Strength)
	if premium < e.capital*0.001 {
		e.reject(signal, "position below minimum premium size")
		return
	}

	day := bar.Timestamp.UTC().Format("2006-01-02")
	dailyLimit := e.capital * (e.cfg.MaxDailyPremiumPct / 100)
	if e.daily[day]+premium > dailyLimit {
		e.reject(signal, fmt.Sprintf("daily premium cap %.1f%% reached", e.cfg.MaxDailyPremiumPct))
		return
	}

	notional := premium / (signal.PremiumCostPct / 100)
	position := &Position{
		ID:             newPositionID(),
		Status:         StatusPendingOpen,
		EntryTime:      bar.Timestamp,
		ExpiryTime:     bar.Timestamp.Add(time.Duration(signal.DurationDays) * 24 * time.Hour),
		InstrumentType: signal.InstrumentType,
		IsCall:         signal.Type == types.SignalCall,
		Strength:       signal.Strength,
		RuleTriggered:  signal.RuleTriggered,
		EntryPrice:     bar.Close,
		Notional:       notional,
		PremiumPaid:    premium,
		ProfitCapPct:   signal.ProfitCapPct,
	}

	// premium debit is the open transition
	position.Status = StatusOpen
	e.capital -= premium
	e.committed += premium
	e.daily[day] += premium
	e.open = append(e.open, position)
	e.recordEquity(bar.Timestamp)

	log.Printf("opened %s %s: notional=%.4f premium=%.4f strength=%d rule=%s",
		position.InstrumentType, callOrPut(position.IsCall), notional, premium,
		signal.Strength, signal.RuleTriggered)
}

func (e *Engine) settleExpired(now time.Time, price float64) {
	expired := make([]*Position, 0)
	for _, p := range e.open {
		if !now.Before(p.ExpiryTime) {
			expired = append(expired, p)
		}
	}
	for _, p := range expired {
		e.settle(p, price, now)
	}
}

func (e *Engine) settle(p *Position, exitPrice float64, exitTime time.Time) {
	result := p.SettleAt(exitPrice)

	p.Status = StatusSettled
	e.capital += result.Payout
	e.committed -= p.PremiumPaid
	if e.capital > e.peak {
		e.peak = e.capital
	}

	e.trades = append(e.trades, TradeRecord{
		TradeID:            p.ID,
		EntryTime:          p.EntryTime,
		ExitTime:           exitTime,
		InstrumentType:     p.InstrumentType,
		IsCall:             p.IsCall,
		Strength:           p.Strength,
		RuleTriggered:      p.RuleTriggered,
		EntryPrice:         p.EntryPrice,
		ExitPrice:          exitPrice,
		Notional:           p.Notional,
		PremiumPaid:        p.PremiumPaid,
		PriceMovePct:       result.PriceMovePct,
		CappedMovePct:      result.CappedMovePct,
		Payout:             result.Payout,
		NetPnL:             result.NetPnL,
		ReturnOnPremiumPct: returnOnPremium(result.NetPnL, p.PremiumPaid),
		CapitalAfter:       e.capital,
		Win:                result.NetPnL > 0,
	})

	e.removeOpen(p)
	e.recordEquity(exitTime)

	log.Printf("settled %s %s: move=%.2f%% (capped %.2f%%) pnl=%.4f",
		p.InstrumentType, callOrPut(p.IsCall), result.PriceMovePct, result.CappedMovePct, result.NetPnL)
}

func (e *Engine) reject(signal types.Signal, reason string) {
	e.rejections = append(e.rejections, Rejection{
		Timestamp: signal.Timestamp,
		Rule:      signal.RuleTriggered,
		Reason:    reason,
	})
	log.Printf("rejected signal at %s (%s): %s", signal.Timestamp.Format(time.RFC3339), signal.RuleTriggered, reason)
}

func (e *Engine) removeOpen(target *Position) {
	for i, p := range e.open {
		if p == target {
			e.open = append(e.open[:i], e.open[i+1:]...)
			return
		}
	}
}

func (e *Engine) recordEquity(t time.Time) {
	if e.capital > e.peak {
		e.peak = e.capital
	}
	e.equity = append(e.equity, EquityPoint{Timestamp: t, Equity: e.capital})
}

func (e *Engine) currentDrawdownPct() float64 {
	if e.peak <= 0 {
		return 0
	}
	return (e.peak - e.capital) / e.peak * 100
}

func strengthMultiplier(strength int) float64 {
	if strength < 0 {
		strength = -strength
	}
	m := float64(strength) / 10.0
	if m > 1 {
		m = 1
	}
	if m == 0 {
		m = 0.5
	}
	return m
}

func returnOnPremium(netPnL, premium float64) float64 {
	if premium <= 0 {
		return 0
	}
	return netPnL / premium * 100
}

func callOrPut(isCall bool) string {
	if isCall {
		return "CALL"
	}
	return "PUT"
}
