// Package enrich provides a small, generic pipeline abstraction that allows
// running independent steps in parallel within a stage, while enforcing
// sequential execution between stages.
package enrich

import (
	"context"
	"errors"
)

// Step represents a single operation on the item. Implementations should be
// safe to run concurrently with other steps in the same stage operating on
// the same item.
//
// A plain error is logged and the pipeline continues. Wrap it with Halt to
// stop the run before the next stage.
//
// Example:
//
//	func addTZ(ctx context.Context, s *Selection) error { s.Place.TZ = "..."; return nil }
type Step[T any] func(ctx context.Context, item *T) error

// Stage groups a set of steps that are safe to execute in parallel for a
// single item. All steps in a stage are started together, and the pipeline waits
// for them to complete before moving to the next stage.
//
// Note: Step functions must coordinate on shared fields if they might write to
// the same location concurrently.
type Stage[T any] struct {
	name  string
	steps []Step[T]
}

// NewStage constructs a named Stage from the provided steps.
// Steps in a stage are executed concurrently for each item.
func NewStage[T any](name string, steps ...Step[T]) Stage[T] {
	return Stage[T]{name: name, steps: steps}
}

type haltError struct{ err error }

func (h haltError) Error() string { return h.err.Error() }
func (h haltError) Unwrap() error { return h.err }

// Halt marks err as fatal for the current run.
func Halt(err error) error {
	if err == nil {
		return nil
	}
	return haltError{err: err}
}

// haltCause returns the error passed to Halt, if err carries one.
func haltCause(err error) (cause error, ok bool) {
	var h haltError
	if errors.As(err, &h) {
		return h.err, true
	}
	return nil, false
}
