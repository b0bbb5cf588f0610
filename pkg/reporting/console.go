package reporting

import (
	"fmt"
	"os"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/ducminhle1904/options-dsl-bot/internal/backtest"
)

// DefaultConsoleReporter implements console output functionality
type DefaultConsoleReporter struct{}

// NewDefaultConsoleReporter creates a new console reporter
func NewDefaultConsoleReporter() *DefaultConsoleReporter {
	return &DefaultConsoleReporter{}
}

// OutputResults prints backtest results to console
func (r *DefaultConsoleReporter) OutputResults(report *backtest.Report) {
	r.OutputResultsWithContext(report, "", "")
}

// OutputResultsWithContext prints results with the strategy name and
// interval in the header
func (r *DefaultConsoleReporter) OutputResultsWithContext(report *backtest.Report, strategyName, interval string) {
	stats := report.Stats

	title := "📊 BACKTEST RESULTS"
	if strategyName != "" {
		title = fmt.Sprintf("📊 BACKTEST RESULTS - %s (%s)", strategyName, interval)
	}
	if report.Aborted {
		title += " [ABORTED]"
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleRounded)
	t.SetTitle(title)
	t.AppendRows([]table.Row{
		{"💰 Final Capital", fmt.Sprintf("$%.2f", stats.FinalCapital)},
		{"📈 Total Return", fmt.Sprintf("%.2f%%", stats.TotalReturnPct)},
		{"📈 APR", fmt.Sprintf("%.2f%%", stats.APR)},
		{"📉 Max Drawdown", fmt.Sprintf("%.2f%%", stats.MaxDrawdownPct)},
		{"📊 Sharpe Ratio", fmt.Sprintf("%.2f", stats.SharpeRatio)},
		{"📊 Sortino Ratio", fmt.Sprintf("%.2f", stats.SortinoRatio)},
		{"🔄 Total Trades", fmt.Sprintf("%d", stats.TotalTrades)},
		{"✅ Win Rate", fmt.Sprintf("%.1f%% (%d/%d)", stats.WinRatePct, stats.WinningTrades, stats.TotalTrades)},
		{"💵 Premium Paid", fmt.Sprintf("$%.2f", stats.TotalPremiumPaid)},
		{"💵 Total Payout", fmt.Sprintf("$%.2f", stats.TotalPayout)},
		{"💹 Return on Premium", fmt.Sprintf("%.2f%%", stats.ReturnOnPremiumPct)},
		{"🚫 Rejected Signals", fmt.Sprintf("%d", stats.RejectedOpens)},
	})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, WidthMin: 22, WidthMax: 24, Align: text.AlignLeft},
		{Number: 2, WidthMin: 20, WidthMax: 30, Align: text.AlignLeft},
	})
	t.Render()

	if len(stats.InstrumentStats) > 0 {
		r.renderInstrumentBreakdown(report)
	}
}

func (r *DefaultConsoleReporter) renderInstrumentBreakdown(report *backtest.Report) {
	names := make([]string, 0, len(report.Stats.InstrumentStats))
	for name := range report.Stats.InstrumentStats {
		names = append(names, name)
	}
	sort.Strings(names)

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleRounded)
	t.SetTitle("🎯 BY INSTRUMENT")
	t.AppendHeader(table.Row{"Instrument", "Trades", "Win Rate", "Premium", "Net P&L"})
	for _, name := range names {
		is := report.Stats.InstrumentStats[name]
		t.AppendRow(table.Row{
			name,
			is.Count,
			fmt.Sprintf("%.1f%%", is.WinRatePct),
			fmt.Sprintf("$%.2f", is.TotalPremium),
			fmt.Sprintf("$%.2f", is.TotalPnL),
		})
	}
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft},
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
	})
	t.Render()
}

// PrintRecentTrades prints the last n trades as a table
func (r *DefaultConsoleReporter) PrintRecentTrades(report *backtest.Report, n int) {
	trades := report.TradeHistory
	if len(trades) == 0 {
		fmt.Println("No trades executed.")
		return
	}
	if n > 0 && len(trades) > n {
		trades = trades[len(trades)-n:]
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleRounded)
	t.SetTitle("🔄 RECENT TRADES")
	t.AppendHeader(table.Row{"ID", "Entry", "Instrument", "Side", "Premium", "Move", "Capped", "Net P&L"})
	for _, tr := range trades {
		side := "PUT"
		if tr.IsCall {
			side = "CALL"
		}
		t.AppendRow(table.Row{
			tr.TradeID,
			tr.EntryTime.Format("2006-01-02 15:04"),
			tr.InstrumentType,
			side,
			fmt.Sprintf("$%.2f", tr.PremiumPaid),
			fmt.Sprintf("%.2f%%", tr.PriceMovePct),
			fmt.Sprintf("%.2f%%", tr.CappedMovePct),
			fmt.Sprintf("$%.2f", tr.NetPnL),
		})
	}
	t.Render()
}
