package enrich

import (
	"context"
	"log/slog"
	"sync"
)

// Pipeline runs a sequence of stages over one item. Steps within the same
// stage run in parallel, and stages themselves run sequentially.
//
// Pipeline is generic over the item type T.
type Pipeline[T any] struct {
	stages []Stage[T]
	logger *slog.Logger
}

// NewPipeline constructs a Pipeline from the provided stages. Stages will be
// applied to each item in order.
func NewPipeline[T any](logger *slog.Logger, stages ...Stage[T]) *Pipeline[T] {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline[T]{stages: stages, logger: logger}
}

// Run applies every stage to item:
//   - All steps in a stage are started concurrently and must complete before
//     moving to the next stage (a stage barrier).
//   - Plain step errors are logged and ignored.
//   - If any step in a stage returns a Halt error, later stages are skipped
//     and the first halting error is returned unwrapped.
func (p *Pipeline[T]) Run(ctx context.Context, item *T) error {
	for _, stage := range p.stages {
		var (
			wg     sync.WaitGroup
			mu     sync.Mutex
			halted error
		)
		for _, step := range stage.steps {
			wg.Add(1)
			go func(step Step[T]) {
				defer wg.Done()
				err := step(ctx, item)
				if err == nil {
					return
				}
				if cause, ok := haltCause(err); ok {
					mu.Lock()
					if halted == nil {
						halted = cause
					}
					mu.Unlock()
					return
				}
				p.logger.Warn("step failed", "stage", stage.name, "error", err)
			}(step)
		}
		wg.Wait() // stage barrier: ensure all steps finished before the next stage

		if halted != nil {
			return halted
		}
	}
	return nil
}
