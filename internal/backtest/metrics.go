package backtest

import "math"

func (e *Engine) buildReport(aborted bool) *Report {
	stats := SimulationStats{
		TotalTrades:     len(e.trades),
		FinalCapital:    e.capital,
		RejectedOpens:   len(e.rejections),
		DiscardedOpens:  e.discarded,
		InstrumentStats: make(map[string]InstrumentStats),
	}

	for _, t := range e.trades {
		if t.Win {
			stats.WinningTrades++
		} else {
			stats.LosingTrades++
		}
		stats.TotalNetPnL += t.NetPnL
		stats.TotalPremiumPaid += t.PremiumPaid
		stats.TotalPayout += t.Payout

		is := stats.InstrumentStats[t.InstrumentType]
		is.Count++
		if t.Win {
			is.Wins++
		}
		is.TotalPremium += t.PremiumPaid
		is.TotalPnL += t.NetPnL
		stats.InstrumentStats[t.InstrumentType] = is
	}

	if stats.TotalTrades > 0 {
		stats.WinRatePct = float64(stats.WinningTrades) / float64(stats.TotalTrades) * 100
	}
	for name, is := range stats.InstrumentStats {
		if is.Count > 0 {
			is.WinRatePct = float64(is.Wins) / float64(is.Count) * 100
		}
		stats.InstrumentStats[name] = is
	}
	if stats.TotalPremiumPaid > 0 {
		stats.ReturnOnPremiumPct = stats.TotalNetPnL / stats.TotalPremiumPaid * 100
	}
	if e.cfg.InitialCapital > 0 {
		stats.TotalReturnPct = (e.capital - e.cfg.InitialCapital) / e.cfg.InitialCapital * 100
	}

	stats.TradingDays = e.tradingDays()
	if stats.TradingDays > 0 {
		stats.APR = stats.TotalReturnPct / float64(stats.TradingDays) * 365
	}

	returns := make([]float64, 0, len(e.trades))
	for _, t := range e.trades {
		if t.PremiumPaid > 0 {
			returns = append(returns, t.NetPnL/t.PremiumPaid)
		}
	}
	stats.SharpeRatio = sharpe(returns)
	stats.SortinoRatio = sortino(returns)

	periods := drawdownPeriods(e.equity, e.cfg.InitialCapital)
	for _, p := range periods {
		if p.DepthPct > stats.MaxDrawdownPct {
			stats.MaxDrawdownPct = p.DepthPct
		}
	}

	return &Report{
		Stats:           stats,
		TradeHistory:    e.trades,
		EquityCurve:     e.equity,
		DrawdownPeriods: periods,
		Rejections:      e.rejections,
		Aborted:         aborted,
	}
}

// tradingDays spans first entry to last exit, minimum one day.
func (e *Engine) tradingDays() int {
	if len(e.trades) == 0 {
		return 0
	}
	first := e.trades[0].EntryTime
	last := e.trades[0].ExitTime
	for _, t := range e.trades {
		if t.EntryTime.Before(first) {
			first = t.EntryTime
		}
		if t.ExitTime.After(last) {
			last = t.ExitTime
		}
	}
	days := int(last.Sub(first).Hours() / 24)
	if days < 1 {
		days = 1
	}
	return days
}

func sharpe(returns []float64) float64 {
	if len(returns) < 2 {
		return 0
	}
	mean := meanOf(returns)
	variance := 0.0
	for _, r := range returns {
		d := r - mean
		variance += d * d
	}
	variance /= float64(len(returns))
	std := math.Sqrt(variance)
	if std == 0 {
		return 0
	}
	return mean / std
}

func sortino(returns []float64) float64 {
	if len(returns) < 2 {
		return 0
	}
	mean := meanOf(returns)
	downside := 0.0
	for _, r := range returns {
		if r < 0 {
			downside += r * r
		}
	}
	downside /= float64(len(returns))
	dd := math.Sqrt(downside)
	if dd == 0 {
		return 0
	}
	return mean / dd
}

func meanOf(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// drawdownPeriods walks the event-driven equity curve and extracts every
// peak-to-trough-to-recovery segment. A drawdown still open at the end of
// the curve is emitted with a zero End.
func drawdownPeriods(curve []EquityPoint, initial float64) []DrawdownPeriod {
	if len(curve) == 0 {
		return nil
	}

	periods := make([]DrawdownPeriod, 0)
	peak := initial
	peakTime := curve[0].Timestamp

	var current *DrawdownPeriod
	var trough float64

	for _, pt := range curve {
		if pt.Equity >= peak {
			if current != nil {
				current.End = pt.Timestamp
				periods = append(periods, *current)
				current = nil
			}
			peak = pt.Equity
			peakTime = pt.Timestamp
			continue
		}
		if current == nil {
			current = &DrawdownPeriod{Start: peakTime, Trough: pt.Timestamp}
			trough = pt.Equity
		}
		if pt.Equity <= trough {
			trough = pt.Equity
			current.Trough = pt.Timestamp
		}
		if peak > 0 {
			if depth := (peak - trough) / peak * 100; depth > current.DepthPct {
				current.DepthPct = depth
			}
		}
	}
	if current != nil {
		periods = append(periods, *current)
	}
	return periods
}
