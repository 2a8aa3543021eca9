// Package saga runs ordered multi-step flows with best-effort compensation.
// The stores involved cannot share a transaction, so a failed step triggers
// the completed steps' undo actions in reverse order instead.
package saga

import (
	"context"
	"fmt"
	"log/slog"
)

// Step is one unit of a saga. Compensate undoes Run and may be nil when the
// step has nothing to roll back (e.g. enqueueing a fire-and-forget message as
// the final step).
type Step struct {
	Name       string
	Run        func(ctx context.Context) error
	Compensate func(ctx context.Context) error
}

// Saga executes steps in order, compensating on failure
type Saga struct {
	name   string
	steps  []Step
	logger *slog.Logger
}

// New creates a saga with the given name for logging
func New(logger *slog.Logger, name string, steps ...Step) *Saga {
	return &Saga{
		name:   name,
		steps:  steps,
		logger: logger,
	}
}

// Execute runs every step in order. On a step failure it runs the completed
// steps' compensations in reverse and returns the original step error.
// Compensation failures are logged but do not mask the step error.
func (s *Saga) Execute(ctx context.Context) error {
	for i, step := range s.steps {
		if err := step.Run(ctx); err != nil {
			s.logger.Error("Saga step failed, compensating",
				"saga", s.name,
				"step", step.Name,
				"error", err)
			s.compensate(ctx, i-1)
			return fmt.Errorf("saga %s failed at step %s: %w", s.name, step.Name, err)
		}
	}

	return nil
}

// compensate undoes steps [0, last] in reverse order
func (s *Saga) compensate(ctx context.Context, last int) {
	for i := last; i >= 0; i-- {
		step := s.steps[i]
		if step.Compensate == nil {
			continue
		}
		if err := step.Compensate(ctx); err != nil {
			s.logger.Error("Saga compensation failed",
				"saga", s.name,
				"step", step.Name,
				"error", err)
		}
	}
}
