package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/ib-77/checkchain/pkg/rop"
	"github.com/ib-77/checkchain/pkg/rop/solo"
)

// Validator is what a batch reads from a built chain. Both chain.Chain and
// check.Chain satisfy it.
type Validator[R any] interface {
	Outcome() rop.Result[bool]
	FailResult() R
}

// Report is the outcome of validating one target.
type Report[R any] struct {
	// ID correlates the report with the chain outcome it was produced from.
	ID     uuid.UUID
	Index  int
	Passed bool
	Result R
	// Err is the fault that aborted the target's chain, or the context error
	// for targets never validated.
	Err error
}

func (r Report[R]) Faulted() bool {
	return r.Err != nil
}

// Run validates every target with its own chain. Reports come back in input
// order. build must return a fresh chain per call; chains are never shared
// between goroutines.
//
// Without ProcessRemaining the first escaped fault cancels the batch: targets
// not yet started report the cancellation and Run returns the fault.
func Run[T, R any](ctx context.Context, targets []T,
	build func(ctx context.Context, target T) Validator[R],
	success func(target T) R,
	logger *slog.Logger) ([]Report[R], error) {

	if logger == nil {
		logger = slog.Default()
	}

	reports := make([]Report[R], len(targets))
	processRemaining := IsProcessRemainingEnabled(ctx, false)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(GetWorkerMaxCount(ctx, DefaultWorkers))

	for i, target := range targets {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				reports[i] = Report[R]{ID: uuid.New(), Index: i, Err: err}
				return nil
			}

			reports[i] = validate(gctx, i, target, build, success)
			logger.Debug("target validated", "index", i, "id", reports[i].ID,
				"passed", reports[i].Passed, "faulted", reports[i].Faulted())

			if reports[i].Faulted() && !processRemaining {
				return fmt.Errorf("target %d: %w", i, reports[i].Err)
			}
			return nil
		})
	}

	err := g.Wait()
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		logger.Warn("batch aborted", "error", err)
	}
	return reports, err
}

func validate[T, R any](ctx context.Context, index int, target T,
	build func(ctx context.Context, target T) Validator[R],
	success func(target T) R) (report Report[R]) {

	defer func() {
		if r := recover(); r != nil {
			report = Report[R]{ID: uuid.New(), Index: index, Err: rop.RecoveredFault(r)}
		}
	}()

	v := build(ctx, target)
	out := v.Outcome()

	return solo.Finally(out,
		func(bool) Report[R] {
			return Report[R]{ID: out.Id(), Index: index, Passed: true, Result: success(target)}
		},
		func(error) Report[R] {
			return Report[R]{ID: out.Id(), Index: index, Result: v.FailResult()}
		},
		func(err error) Report[R] {
			return Report[R]{ID: out.Id(), Index: index, Err: err}
		})
}

// Summary counts reports by outcome.
type Summary struct {
	Total   int
	Passed  int
	Failed  int
	Faulted int
}

func (s Summary) OK() bool {
	return s.Passed == s.Total
}

func Summarize[R any](reports []Report[R]) Summary {
	s := Summary{Total: len(reports)}
	for _, r := range reports {
		switch {
		case r.Faulted():
			s.Faulted++
		case r.Passed:
			s.Passed++
		default:
			s.Failed++
		}
	}
	return s
}

// Faults joins the errors of all faulted reports; nil when there are none.
func Faults[R any](reports []Report[R]) error {
	var errs []error
	for _, r := range reports {
		if r.Err != nil {
			errs = append(errs, fmt.Errorf("target %d: %w", r.Index, r.Err))
		}
	}
	return errors.Join(errs...)
}
