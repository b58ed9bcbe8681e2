package backtest

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/strategy-lab/dca-backtest/internal/monitoring"
	"github.com/strategy-lab/dca-backtest/internal/strategy"
	"github.com/strategy-lab/dca-backtest/pkg/config"
	"github.com/strategy-lab/dca-backtest/pkg/types"
)

// WorkerPool runs independent backtests in parallel. Each job carries
// its own immutable inputs, so workers never share mutable state.
type WorkerPool struct {
	workerCount int
	jobQueue    chan Job
	resultQueue chan Result
	wg          sync.WaitGroup
	ctx         context.Context
	cancel      context.CancelFunc
}

// Job is a single backtest task: one strategy config over one series.
type Job struct {
	ID     string
	Series *types.PriceSeries
	Config *config.StrategyConfig
}

// Result is the outcome of one job. Err is set when the backtest or
// its metrics computation failed; Ledger and Metrics are nil then.
type Result struct {
	ID       string
	Ledger   *Ledger
	Metrics  *MetricsRecord
	Duration time.Duration
	Err      error
}

// NewWorkerPool creates a pool with the given number of workers. A
// non-positive count defaults to the number of CPUs.
func NewWorkerPool(workerCount, jobBufferSize int) *WorkerPool {
	if workerCount <= 0 {
		workerCount = runtime.NumCPU()
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &WorkerPool{
		workerCount: workerCount,
		jobQueue:    make(chan Job, jobBufferSize),
		resultQueue: make(chan Result, jobBufferSize),
		ctx:         ctx,
		cancel:      cancel,
	}
}

// Start launches the workers.
func (wp *WorkerPool) Start(riskFreeRate float64) {
	for i := 0; i < wp.workerCount; i++ {
		wp.wg.Add(1)
		go wp.worker(riskFreeRate)
	}
}

// Stop drains the pool gracefully: no new jobs are accepted, queued
// jobs finish, then the result channel closes.
func (wp *WorkerPool) Stop() {
	close(wp.jobQueue)
	wp.wg.Wait()
	close(wp.resultQueue)
	wp.cancel()
}

// Submit queues a job, failing only when the pool is shutting down.
func (wp *WorkerPool) Submit(job Job) error {
	select {
	case wp.jobQueue <- job:
		return nil
	case <-wp.ctx.Done():
		return wp.ctx.Err()
	}
}

// Results returns the channel completed jobs arrive on. Arrival order
// is nondeterministic; callers match results to jobs by ID.
func (wp *WorkerPool) Results() <-chan Result {
	return wp.resultQueue
}

func (wp *WorkerPool) worker(riskFreeRate float64) {
	defer wp.wg.Done()

	engine := NewEngine()
	calculator := NewCalculator(riskFreeRate)

	for {
		select {
		case job, ok := <-wp.jobQueue:
			if !ok {
				return
			}

			result := processJob(engine, calculator, job)

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

func processJob(engine *Engine, calculator *Calculator, job Job) Result {
	start := time.Now()
	result := Result{ID: job.ID}

	rule, err := strategy.New(job.Config)
	if err != nil {
		result.Err = err
		result.Duration = time.Since(start)
		monitoring.RecordBacktest(string(job.Config.Variant), "error", result.Duration)
		return result
	}

	ledger, err := engine.Run(job.Series, job.Config, rule)
	if err != nil {
		result.Err = err
		result.Duration = time.Since(start)
		monitoring.RecordBacktest(string(job.Config.Variant), "error", result.Duration)
		return result
	}

	metrics, err := calculator.Compute(ledger)
	if err != nil {
		result.Err = err
		result.Duration = time.Since(start)
		monitoring.RecordBacktest(string(job.Config.Variant), "error", result.Duration)
		return result
	}

	result.Ledger = ledger
	result.Metrics = metrics
	result.Duration = time.Since(start)
	monitoring.RecordBacktest(string(job.Config.Variant), "ok", result.Duration)
	return result
}

// RunBatch executes one backtest per config in parallel and returns
// the results in the same order as the configs. Per-job failures land
// in the corresponding Result, not in the returned error.
func RunBatch(series *types.PriceSeries, configs []*config.StrategyConfig, workerCount int, riskFreeRate float64) []Result {
	pool := NewWorkerPool(workerCount, len(configs))
	pool.Start(riskFreeRate)

	go func() {
		for i, cfg := range configs {
			job := Job{
				ID:     fmt.Sprintf("%s_%s_%d", series.Symbol(), cfg.Variant, i),
				Series: series,
				Config: cfg,
			}
			if err := pool.Submit(job); err != nil {
				break
			}
		}
		pool.Stop()
	}()

	byID := make(map[string]Result, len(configs))
	for result := range pool.Results() {
		byID[result.ID] = result
	}

	ordered := make([]Result, 0, len(configs))
	for i, cfg := range configs {
		id := fmt.Sprintf("%s_%s_%d", series.Symbol(), cfg.Variant, i)
		ordered = append(ordered, byID[id])
	}
	return ordered
}
