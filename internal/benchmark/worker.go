package benchmark

import (
	"context"
	"sync"

	"golang.org/x/time/rate"

	"llm-bench/internal/provider"
)

// WorkerPool runs a fixed batch of identical requests across a bounded set
// of workers. Completion order is incidental; every dispatched request is
// recorded exactly once, or the first failure aborts the batch.
type WorkerPool struct {
	prov    provider.Provider
	metrics *Metrics
	workers int
	limiter *rate.Limiter
}

// NewWorkerPool creates a pool of the given size. A positive qps caps the
// dispatch rate; zero leaves dispatch unthrottled.
func NewWorkerPool(prov provider.Provider, metrics *Metrics, workers int, qps float64) *WorkerPool {
	var limiter *rate.Limiter
	if qps > 0 {
		limiter = rate.NewLimiter(rate.Limit(qps), 1)
	}
	return &WorkerPool{
		prov:    prov,
		metrics: metrics,
		workers: workers,
		limiter: limiter,
	}
}

// Run dispatches count requests and blocks until all have completed or one
// has failed. The first error cancels in-flight work and is returned.
func (wp *WorkerPool) Run(ctx context.Context, req provider.Request, count int) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	jobs := make(chan struct{})

	var wg sync.WaitGroup
	var once sync.Once
	var firstErr error

	fail := func(err error) {
		once.Do(func() {
			firstErr = err
			cancel()
		})
	}

	for i := 0; i < wp.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range jobs {
				result, err := wp.prov.Complete(ctx, req)
				if err != nil {
					fail(err)
					return
				}
				wp.metrics.Add(result)
			}
		}()
	}

dispatch:
	for i := 0; i < count; i++ {
		if wp.limiter != nil {
			if err := wp.limiter.Wait(ctx); err != nil {
				break
			}
		}
		select {
		case jobs <- struct{}{}:
		case <-ctx.Done():
			break dispatch
		}
	}
	close(jobs)
	wg.Wait()

	if firstErr != nil {
		return firstErr
	}
	return ctx.Err()
}
