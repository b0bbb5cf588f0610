package logger

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/ducminhle1904/options-dsl-bot/pkg/types"
)

// Logger represents a file logger for one strategy session
type Logger struct {
	strategy string
	interval string
	logFile  *os.File
	logger   *log.Logger
	mu       sync.Mutex
	logDir   string
}

// LogLevel represents different types of log entries
type LogLevel string

const (
	LogLevelInfo     LogLevel = "INFO"
	LogLevelWarning  LogLevel = "WARN"
	LogLevelError    LogLevel = "ERROR"
	LogLevelSignal   LogLevel = "SIGNAL"
	LogLevelPosition LogLevel = "POSITION"
)

// NewLogger creates a new file logger for the specified strategy and interval
func NewLogger(strategyName, interval string) (*Logger, error) {
	logDir := "logs"
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	timestamp := time.Now().Format("2006-01-02")
	filename := fmt.Sprintf("%s_%s_%s.log", strategyName, interval, timestamp)
	logPath := filepath.Join(logDir, filename)

	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	l := &Logger{
		strategy: strategyName,
		interval: interval,
		logFile:  file,
		logger:   log.New(file, "", 0),
		logDir:   logDir,
	}

	l.writeSessionHeader()

	return l, nil
}

func (l *Logger) writeSessionHeader() {
	l.mu.Lock()
	defer l.mu.Unlock()

	header := fmt.Sprintf(`
================================================================================
🚀 STRATEGY SESSION STARTED
================================================================================
Strategy: %s | Interval: %s
Started: %s
================================================================================
`, l.strategy, l.interval, time.Now().Format("2006-01-02 15:04:05"))

	l.logger.Print(header)
}

// Log writes a formatted log entry with the specified level
func (l *Logger) Log(level LogLevel, format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	timestamp := time.Now().Format("2006-01-02 15:04:05")
	message := fmt.Sprintf(format, args...)

	l.logger.Printf("[%s] [%s] %s", timestamp, level, message)
}

// Info logs an info message
func (l *Logger) Info(format string, args ...interface{}) {
	l.Log(LogLevelInfo, format, args...)
}

// Warning logs a warning message
func (l *Logger) Warning(format string, args ...interface{}) {
	l.Log(LogLevelWarning, format, args...)
}

// Error logs an error message
func (l *Logger) Error(format string, args ...interface{}) {
	l.Log(LogLevelError, format, args...)
}

// LogSignal logs one evaluated bar and its outcome
func (l *Logger) LogSignal(signal types.Signal) {
	if !signal.IsActionable() {
		l.Log(LogLevelSignal, "%s NEUTRAL (rule: %s) price=%.2f",
			signal.Timestamp.Format("2006-01-02 15:04"), signal.RuleTriggered, signal.Price)
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	timestamp := time.Now().Format("2006-01-02 15:04:05")
	signalLog := fmt.Sprintf(`
[%s] [SIGNAL] ==================== %s SIGNAL ====================
📊 Bar: %s | Price: $%.2f
⚡ Strength: %+d | Confidence: %.2f
📋 Rule: %s
🎯 Instrument: %s (%dd, cap %.1f%%, premium %.1f%%)
📈 Volatility: %.2f%%
=============================================================`,
		timestamp, signal.Type, signal.Timestamp.Format("2006-01-02 15:04"), signal.Price,
		signal.Strength, signal.Confidence, signal.RuleTriggered,
		signal.InstrumentType, signal.DurationDays, signal.ProfitCapPct, signal.PremiumCostPct,
		signal.VolatilityPct)

	l.logger.Println(signalLog)
}

// LogPositionOpen logs a premium debit
func (l *Logger) LogPositionOpen(id, instrument string, notional, premium, capital float64) {
	l.Log(LogLevelPosition, "OPEN %s [%s] notional=$%.2f premium=$%.2f capital=$%.2f",
		id, instrument, notional, premium, capital)
}

// LogSettlement logs a position settlement
func (l *Logger) LogSettlement(id string, movePct, cappedPct, netPnL, capital float64) {
	l.Log(LogLevelPosition, "SETTLE %s move=%.2f%% capped=%.2f%% pnl=$%.2f capital=$%.2f",
		id, movePct, cappedPct, netPnL, capital)
}

// LogRejection logs a signal the portfolio refused
func (l *Logger) LogRejection(rule, reason string) {
	l.Warning("signal rejected (%s): %s", rule, reason)
}

// LogError logs error with context
func (l *Logger) LogError(context string, err error) {
	l.Error("%s: %v", context, err)
}

// Close closes the log file
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.logFile != nil {
		footer := fmt.Sprintf(`
================================================================================
🛑 STRATEGY SESSION ENDED
================================================================================
Ended: %s
================================================================================

`, time.Now().Format("2006-01-02 15:04:05"))
		l.logger.Print(footer)

		return l.logFile.Close()
	}
	return nil
}

// GetLogPath returns the current log file path
func (l *Logger) GetLogPath() string {
	timestamp := time.Now().Format("2006-01-02")
	filename := fmt.Sprintf("%s_%s_%s.log", l.strategy, l.interval, timestamp)
	return filepath.Join(l.logDir, filename)
}
