package reporting

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/ducminhle1904/options-dsl-bot/internal/backtest"
)

// DefaultExcelReporter implements Excel output functionality
type DefaultExcelReporter struct{}

// NewDefaultExcelReporter creates a new Excel reporter
func NewDefaultExcelReporter() *DefaultExcelReporter {
	return &DefaultExcelReporter{}
}

// WriteReportXLSX writes the full backtest report to an Excel workbook
// with Summary, Trades and Equity sheets.
func (r *DefaultExcelReporter) WriteReportXLSX(report *backtest.Report, path string) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	fx := excelize.NewFile()
	defer fx.Close()

	const summarySheet = "Summary"
	const tradesSheet = "Trades"
	const equitySheet = "Equity"

	fx.SetSheetName(fx.GetSheetName(0), summarySheet)
	fx.NewSheet(tradesSheet)
	fx.NewSheet(equitySheet)

	styles, err := r.createExcelStyles(fx)
	if err != nil {
		return err
	}

	if err := r.writeSummarySheet(fx, summarySheet, report, styles); err != nil {
		return err
	}
	if err := r.writeTradesSheet(fx, tradesSheet, report, styles); err != nil {
		return err
	}
	if err := r.writeEquitySheet(fx, equitySheet, report, styles); err != nil {
		return err
	}

	return fx.SaveAs(path)
}

func (r *DefaultExcelReporter) createExcelStyles(fx *excelize.File) (ExcelStyles, error) {
	var styles ExcelStyles
	var err error

	styles.HeaderStyle, err = fx.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold:   true,
			Size:   11,
			Color:  "FFFFFF",
			Family: "Calibri",
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"2F4F4F"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		return styles, err
	}

	styles.CurrencyStyle, err = fx.NewStyle(&excelize.Style{
		NumFmt: 177, // $#,##0.00
	})
	if err != nil {
		return styles, err
	}

	styles.PercentStyle, err = fx.NewStyle(&excelize.Style{
		CustomNumFmt: strPtr("0.00\"%\""),
	})
	if err != nil {
		return styles, err
	}

	styles.GreenPercentStyle, err = fx.NewStyle(&excelize.Style{
		CustomNumFmt: strPtr("0.00\"%\""),
		Font:         &excelize.Font{Color: "006100"},
	})
	if err != nil {
		return styles, err
	}

	styles.RedPercentStyle, err = fx.NewStyle(&excelize.Style{
		CustomNumFmt: strPtr("0.00\"%\""),
		Font:         &excelize.Font{Color: "9C0006"},
	})
	if err != nil {
		return styles, err
	}

	styles.SummaryStyle, err = fx.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11, Family: "Calibri"},
	})
	return styles, err
}

func (r *DefaultExcelReporter) writeSummarySheet(fx *excelize.File, sheet string, report *backtest.Report, styles ExcelStyles) error {
	stats := report.Stats

	rows := []struct {
		label string
		value interface{}
	}{
		{"Final Capital", stats.FinalCapital},
		{"Total Return %", stats.TotalReturnPct},
		{"APR %", stats.APR},
		{"Max Drawdown %", stats.MaxDrawdownPct},
		{"Sharpe Ratio", stats.SharpeRatio},
		{"Sortino Ratio", stats.SortinoRatio},
		{"Total Trades", stats.TotalTrades},
		{"Winning Trades", stats.WinningTrades},
		{"Losing Trades", stats.LosingTrades},
		{"Win Rate %", stats.WinRatePct},
		{"Total Premium Paid", stats.TotalPremiumPaid},
		{"Total Payout", stats.TotalPayout},
		{"Return on Premium %", stats.ReturnOnPremiumPct},
		{"Trading Days", stats.TradingDays},
		{"Rejected Signals", stats.RejectedOpens},
		{"Discarded Opens", stats.DiscardedOpens},
	}

	fx.SetCellValue(sheet, "A1", "Metric")
	fx.SetCellValue(sheet, "B1", "Value")
	fx.SetCellStyle(sheet, "A1", "B1", styles.HeaderStyle)

	for i, row := range rows {
		cellA, _ := excelize.CoordinatesToCellName(1, i+2)
		cellB, _ := excelize.CoordinatesToCellName(2, i+2)
		fx.SetCellValue(sheet, cellA, row.label)
		fx.SetCellValue(sheet, cellB, row.value)
		fx.SetCellStyle(sheet, cellA, cellA, styles.SummaryStyle)
	}

	fx.SetColWidth(sheet, "A", "A", 24)
	fx.SetColWidth(sheet, "B", "B", 18)
	return nil
}

func (r *DefaultExcelReporter) writeTradesSheet(fx *excelize.File, sheet string, report *backtest.Report, styles ExcelStyles) error {
	headers := []string{
		"ID", "Entry Time", "Exit Time", "Instrument", "Side", "Strength",
		"Rule", "Entry Price", "Exit Price", "Notional", "Premium",
		"Move %", "Capped %", "Payout", "Net P&L", "Capital After",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		fx.SetCellValue(sheet, cell, h)
		fx.SetCellStyle(sheet, cell, cell, styles.HeaderStyle)
	}

	for i, t := range report.TradeHistory {
		row := i + 2
		side := "PUT"
		if t.IsCall {
			side = "CALL"
		}
		values := []interface{}{
			t.TradeID,
			t.EntryTime.Format("2006-01-02 15:04"),
			t.ExitTime.Format("2006-01-02 15:04"),
			t.InstrumentType,
			side,
			t.Strength,
			t.RuleTriggered,
			t.EntryPrice,
			t.ExitPrice,
			t.Notional,
			t.PremiumPaid,
			t.PriceMovePct,
			t.CappedMovePct,
			t.Payout,
			t.NetPnL,
			t.CapitalAfter,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			fx.SetCellValue(sheet, cell, v)
		}

		moveCell, _ := excelize.CoordinatesToCellName(12, row)
		if t.NetPnL >= 0 {
			fx.SetCellStyle(sheet, moveCell, moveCell, styles.GreenPercentStyle)
		} else {
			fx.SetCellStyle(sheet, moveCell, moveCell, styles.RedPercentStyle)
		}
	}

	fx.SetColWidth(sheet, "A", "A", 10)
	fx.SetColWidth(sheet, "B", "C", 17)
	fx.SetColWidth(sheet, "G", "G", 24)
	return nil
}

func (r *DefaultExcelReporter) writeEquitySheet(fx *excelize.File, sheet string, report *backtest.Report, styles ExcelStyles) error {
	fx.SetCellValue(sheet, "A1", "Timestamp")
	fx.SetCellValue(sheet, "B1", "Equity")
	fx.SetCellStyle(sheet, "A1", "B1", styles.HeaderStyle)

	for i, pt := range report.EquityCurve {
		row := i + 2
		cellA, _ := excelize.CoordinatesToCellName(1, row)
		cellB, _ := excelize.CoordinatesToCellName(2, row)
		fx.SetCellValue(sheet, cellA, pt.Timestamp.Format("2006-01-02 15:04"))
		fx.SetCellValue(sheet, cellB, pt.Equity)
		fx.SetCellStyle(sheet, cellB, cellB, styles.CurrencyStyle)
	}

	fx.SetColWidth(sheet, "A", "A", 17)
	fx.SetColWidth(sheet, "B", "B", 14)
	return nil
}

func strPtr(s string) *string { return &s }
