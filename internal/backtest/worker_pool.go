package backtest

import (
	"context"
	"runtime"
	"sync"
	"time"

	"github.com/ducminhle1904/options-dsl-bot/internal/config"
	"github.com/ducminhle1904/options-dsl-bot/internal/dsl"
	enginerrors "github.com/ducminhle1904/options-dsl-bot/internal/errors"
	"github.com/ducminhle1904/options-dsl-bot/internal/instruments"
	"github.com/ducminhle1904/options-dsl-bot/internal/strategy"
	"github.com/ducminhle1904/options-dsl-bot/pkg/types"
)

// WorkerPool manages parallel backtest execution. Each job gets its own
// executor and engine, so strategies never share mutable state.
type WorkerPool struct {
	workerCount int
	jobQueue    chan Job
	resultQueue chan JobResult
	wg          sync.WaitGroup
	ctx         context.Context
	cancel      context.CancelFunc
}

// Job is one strategy document to replay against one bar series.
type Job struct {
	ID        string
	Strategy  *dsl.Strategy
	Bars      []types.OHLCV
	Portfolio config.PortfolioConfig
}

// JobResult is the outcome of one backtest job.
type JobResult struct {
	ID       string
	Report   *Report
	Duration time.Duration
	Error    error
}

// NewWorkerPool creates a pool sized to workerCount, defaulting to NumCPU.
func NewWorkerPool(workerCount, jobBufferSize int) *WorkerPool {
	if workerCount <= 0 {
		workerCount = runtime.NumCPU()
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &WorkerPool{
		workerCount: workerCount,
		jobQueue:    make(chan Job, jobBufferSize),
		resultQueue: make(chan JobResult, jobBufferSize),
		ctx:         ctx,
		cancel:      cancel,
	}
}

// Start launches the workers.
func (wp *WorkerPool) Start() {
	for i := 0; i < wp.workerCount; i++ {
		wp.wg.Add(1)
		go wp.worker()
	}
}

// Stop drains the queue and shuts the pool down gracefully.
func (wp *WorkerPool) Stop() {
	close(wp.jobQueue)
	wp.wg.Wait()
	close(wp.resultQueue)
	wp.cancel()
}

// Submit queues a job, failing fast if the pool is shutting down.
func (wp *WorkerPool) Submit(job Job) error {
	select {
	case wp.jobQueue <- job:
		return nil
	case <-wp.ctx.Done():
		return wp.ctx.Err()
	}
}

// Results returns the channel completed jobs arrive on.
func (wp *WorkerPool) Results() <-chan JobResult {
	return wp.resultQueue
}

func (wp *WorkerPool) worker() {
	defer wp.wg.Done()

	for {
		select {
		case job, ok := <-wp.jobQueue:
			if !ok {
				return
			}

			result := wp.processJob(job)

			select {
			case wp.resultQueue <- result:
			case <-wp.ctx.Done():
				return
			}

		case <-wp.ctx.Done():
			return
		}
	}
}

func (wp *WorkerPool) processJob(job Job) JobResult {
	startTime := time.Now()

	result := JobResult{ID: job.ID}
	defer func() { result.Duration = time.Since(startTime) }()

	selector := instruments.NewSelector(instruments.DefaultCatalog(), job.Portfolio.HighVolThresholdPct)
	executor := strategy.NewExecutor(job.Strategy, selector)

	signals, err := executor.GenerateSignals(job.Bars)
	if err != nil {
		result.Error = enginerrors.Wrap(err, enginerrors.ErrorCategoryIndicator, job.ID, "generate_signals")
		return result
	}

	result.Report = NewEngine(job.Portfolio).Run(wp.ctx, signals, job.Bars)
	return result
}

// RunBatch replays every strategy over the same bar series in parallel and
// returns results keyed by job ID. Cancelling ctx aborts in-flight runs.
func RunBatch(ctx context.Context, strategies map[string]*dsl.Strategy, bars []types.OHLCV, cfg config.PortfolioConfig, workers int) map[string]JobResult {
	pool := NewWorkerPool(workers, len(strategies))
	pool.Start()

	go func() {
		select {
		case <-ctx.Done():
			pool.cancel()
		case <-pool.ctx.Done():
		}
	}()

	// queue is sized to the batch, so submission never blocks
	for id, strat := range strategies {
		_ = pool.Submit(Job{ID: id, Strategy: strat, Bars: bars, Portfolio: cfg})
	}

	results := make(map[string]JobResult, len(strategies))
collect:
	for i := 0; i < len(strategies); i++ {
		select {
		case r := <-pool.Results():
			results[r.ID] = r
		case <-pool.ctx.Done():
			break collect
		}
	}
	pool.Stop()

	return results
}
