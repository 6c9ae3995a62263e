package study

import (
	"context"
	"time"

	"github.com/raykavin/tasdk/pkg/core"
	"github.com/raykavin/tasdk/pkg/logger"
	"golang.org/x/sync/errgroup"
)

// Result pairs a study with the series it produced
type Result struct {
	Study  *Study
	Series []*core.DataSeries
}

// Runner calculates many studies over one read-only source
type Runner struct {
	log     logger.Logger
	workers int

	// OnDone is called after each study finishes, from the worker goroutine
	OnDone func(*Study)
}

// NewRunner creates a runner bounded to workers goroutines. Zero or less
// means one per study.
func NewRunner(log logger.Logger, workers int) *Runner {
	if log == nil {
		log = logger.Nop()
	}
	return &Runner{log: log, workers: workers}
}

// Run calculates every study. Results keep the order of studies. The first
// failure cancels the studies that have not started yet.
func (r *Runner) Run(ctx context.Context, src Source, studies ...*Study) ([]Result, error) {
	results := make([]Result, len(studies))

	g, ctx := errgroup.WithContext(ctx)
	if r.workers > 0 {
		g.SetLimit(r.workers)
	}

	for i, s := range studies {
		i, s := i, s
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			started := time.Now()
			series, err := s.Calculate(src)
			if err != nil {
				r.log.WithError(err).WithField("study", s.Alias()).Error("calculation failed")
				return err
			}
			r.log.WithFields(map[string]any{
				"study":   s.Alias(),
				"outputs": len(series),
				"elapsed": time.Since(started).String(),
			}).Debug("study calculated")

			results[i] = Result{Study: s, Series: series}
			if r.OnDone != nil {
				r.OnDone(s)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// CalculateAll runs studies concurrently with a silent logger
func CalculateAll(ctx context.Context, src Source, studies ...*Study) ([]Result, error) {
	return NewRunner(nil, 0).Run(ctx, src, studies...)
}
