package core

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// TaskFactory runs one unit of work to completion. progress is nil when the
// caller did not ask for aggregated progress. Implementations should honor
// ctx at their own suspension points.
type TaskFactory func(ctx context.Context, progress Reporter) error

// RunParallel runs every factory concurrently and waits for all of them,
// regardless of individual failures. When overall is non-nil each factory
// gets its own slot of an Aggregator feeding overall, so progress streams in
// while tasks run rather than only on completion.
//
// Structural problems (a nil factory) are reported as ErrInvalidArgument
// before anything is started. Task failures are returned together as an
// *AggregateError in factory order once the join completes.
func RunParallel(ctx context.Context, factories []TaskFactory, overall Reporter) error {
	for i, f := range factories {
		if f == nil {
			return ErrInvalidArgument.Withf("task factory %d is nil", i)
		}
	}
	if len(factories) == 0 {
		return nil
	}

	sinks := make([]Reporter, len(factories))
	if overall != nil {
		agg, err := NewAggregator(len(factories), overall)
		if err != nil {
			return err
		}
		for i := range factories {
			// Cannot fail: i is always within [0, len(factories)).
			sinks[i], _ = agg.CreateSubProgress(i)
		}
	}

	// Each goroutine writes only its own index, so no lock is needed and the
	// aggregate keeps factory order.
	errs := make([]error, len(factories))

	// A plain errgroup.Group (no WithContext) never cancels siblings, which
	// gives run-to-completion semantics.
	var g errgroup.Group
	for i, f := range factories {
		g.Go(func() error {
			errs[i] = runTask(ctx, i, f, sinks[i])
			return nil
		})
	}
	_ = g.Wait()

	var failed []error
	for _, err := range errs {
		if err != nil {
			failed = append(failed, err)
		}
	}
	return newAggregateError(failed)
}

// runTask invokes f, converting a panic into an error so one misbehaving
// task cannot take down its siblings.
func runTask(ctx context.Context, index int, f TaskFactory, progress Reporter) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("task %d panicked: %v", index, r)
		}
	}()
	if err := f(ctx, progress); err != nil {
		return fmt.Errorf("task %d: %w", index, err)
	}
	return nil
}

// ParallelTasks collects factories fluently and runs them with RunParallel.
//
//	err := NewParallelTasks(progress).
//		Add(loadTerrain).
//		Add(loadAudio).
//		RunAll(ctx)
type ParallelTasks struct {
	factories []TaskFactory
	overall   Reporter
	addErrs   []error
}

// NewParallelTasks returns an empty collection. overall may be nil to skip
// progress aggregation.
func NewParallelTasks(overall Reporter) *ParallelTasks {
	return &ParallelTasks{overall: overall}
}

// Add appends a factory. A nil factory is recorded as ErrInvalidArgument and
// makes RunAll fail before starting any task.
func (p *ParallelTasks) Add(f TaskFactory) *ParallelTasks {
	if f == nil {
		p.addErrs = append(p.addErrs, ErrInvalidArgument.Withf("task factory %d is nil", len(p.factories)+len(p.addErrs)))
		return p
	}
	p.factories = append(p.factories, f)
	return p
}

// Len returns the number of accepted factories.
func (p *ParallelTasks) Len() int {
	return len(p.factories)
}

// RunAll runs every added factory concurrently. See RunParallel.
func (p *ParallelTasks) RunAll(ctx context.Context) error {
	if len(p.addErrs) > 0 {
		return errors.Join(p.addErrs...)
	}
	return RunParallel(ctx, p.factories, p.overall)
}
