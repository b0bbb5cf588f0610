package live

import (
	"context"
	"errors"
	"io"

	"github.com/ducminhle1904/options-dsl-bot/internal/backtest"
	enginerrors "github.com/ducminhle1904/options-dsl-bot/internal/errors"
	"github.com/ducminhle1904/options-dsl-bot/internal/logger"
	"github.com/ducminhle1904/options-dsl-bot/internal/monitoring"
	"github.com/ducminhle1904/options-dsl-bot/internal/strategy"
	"github.com/ducminhle1904/options-dsl-bot/pkg/types"
)

// BarSource delivers closed bars from an external market data feed. Next
// blocks until the next bar closes or ctx is cancelled.
type BarSource interface {
	Next(ctx context.Context) (types.OHLCV, error)
	Close() error
}

// SignalHandler receives every signal the pipeline emits, actionable or not.
type SignalHandler func(types.Signal)

// Runner drives the strategy pipeline in live mode: exactly one
// evaluation per closed bar, over the full history seen so far. Results
// are identical to a batch run over the same bars.
type Runner struct {
	name     string
	executor *strategy.Executor
	source   BarSource
	log      *logger.Logger
	health   *monitoring.HealthChecker
	handler  SignalHandler

	portfolio *backtest.Engine
	bars      []types.OHLCV
}

// NewRunner creates a live runner. history seeds the indicator warm-up
// and may be nil.
func NewRunner(name string, executor *strategy.Executor, source BarSource, log *logger.Logger, handler SignalHandler) *Runner {
	return &Runner{
		name:     name,
		executor: executor,
		source:   source,
		log:      log,
		health:   monitoring.NewHealthChecker(),
		handler:  handler,
	}
}

// TrackPortfolio attaches a paper portfolio that is stepped on every
// closed bar, so live mode reports the same opens, rejections and
// settlements a backtest over the same stream would. Opens, rejections
// and equity feed the monitoring gauges.
func (r *Runner) TrackPortfolio(engine *backtest.Engine) {
	r.portfolio = engine
}

// Health exposes the health checker for the HTTP endpoint.
func (r *Runner) Health() *monitoring.HealthChecker {
	return r.health
}

// Seed preloads historical bars so indicators are warm before the first
// live evaluation. Bars must be strictly increasing in time.
func (r *Runner) Seed(history []types.OHLCV) {
	r.bars = append(r.bars, history...)
}

// Run consumes bars until the source ends or ctx is cancelled. io.EOF
// from the source is a clean shutdown.
func (r *Runner) Run(ctx context.Context) error {
	defer r.source.Close()
	r.health.SetConnected(true)
	defer r.health.SetConnected(false)

	for {
		bar, err := r.source.Next(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, context.Canceled) {
				return nil
			}
			engineErr := enginerrors.Categorize(err, "bar_source", "next")
			r.health.RecordError(engineErr.Error())
			monitoring.RecordError(string(engineErr.Category))
			if engineErr.IsRetryable() {
				r.log.Warning("transient feed error, retrying: %v", engineErr)
				continue
			}
			return engineErr
		}

		if n := len(r.bars); n > 0 && !bar.Timestamp.After(r.bars[n-1].Timestamp) {
			r.log.Warning("dropping out-of-order bar at %s", bar.Timestamp)
			continue
		}

		r.bars = append(r.bars, bar)
		r.health.RecordBar(bar.Timestamp, bar.Close)
		monitoring.UpdatePrice(r.name, bar.Close)

		signal, err := r.evaluate()
		if err != nil {
			r.log.LogError("pipeline", err)
			monitoring.RecordError("pipeline")
			continue
		}

		r.log.LogSignal(signal)
		monitoring.RecordSignal(r.name, string(signal.Type), signal.Strength)

		if r.portfolio != nil {
			r.stepPortfolio(signal, bar)
		}

		if r.handler != nil {
			r.handler(signal)
		}
	}
}

// stepPortfolio advances the paper portfolio by one closed bar and mirrors
// the outcome into the session log and the monitoring gauges.
func (r *Runner) stepPortfolio(signal types.Signal, bar types.OHLCV) {
	result := r.portfolio.Step(signal, bar)

	for _, trade := range result.Settled {
		r.log.LogSettlement(trade.TradeID, trade.PriceMovePct, trade.CappedMovePct, trade.NetPnL, trade.CapitalAfter)
	}
	if p := result.Opened; p != nil {
		r.log.LogPositionOpen(p.ID, p.InstrumentType, p.Notional, p.PremiumPaid, result.Equity)
		monitoring.RecordPositionOpen(r.name, p.InstrumentType, p.PremiumPaid)
	}
	if rej := result.Rejected; rej != nil {
		r.log.LogRejection(rej.Rule, rej.Reason)
		monitoring.RecordRejection(r.name)
	}
	monitoring.UpdateEquity(r.name, result.Equity)
}

func (r *Runner) evaluate() (types.Signal, error) {
	frame, err := r.executor.ComputeFrame(r.bars)
	if err != nil {
		return types.Signal{}, err
	}
	return r.executor.StepFrame(frame, len(r.bars)-1), nil
}
