package actions

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/meetups/internal/logging"
)

type compensation struct {
	name string
	undo func(ctx context.Context) error
}

// saga collects undo steps for remote side effects already performed.
type saga struct {
	steps []compensation
}

func (s *saga) add(name string, undo func(ctx context.Context) error) {
	s.steps = append(s.steps, compensation{name: name, undo: undo})
}

// rollback runs the registered steps newest first. Every step is attempted;
// failures are logged and joined. Compensations run even when ctx is already
// canceled.
func (s *saga) rollback(ctx context.Context, logger logging.Logger) error {
	ctx = context.WithoutCancel(ctx)

	var errs []error
	for i := len(s.steps) - 1; i >= 0; i-- {
		step := s.steps[i]
		if err := step.undo(ctx); err != nil {
			logger.Error(ctx, "compensation failed", "step", step.name, "error", err)
			errs = append(errs, fmt.Errorf("compensate %s: %w", step.name, err))
			continue
		}
		logger.Info(ctx, "compensation applied", "step", step.name)
	}
	s.steps = nil
	return errors.Join(errs...)
}
