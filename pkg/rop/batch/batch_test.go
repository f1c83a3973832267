package batch

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ib-77/checkchain/pkg/rop"
	"github.com/ib-77/checkchain/pkg/rop/check"
)

var errBroken = errors.New("broken sensor")

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

type reading struct {
	Sensor string
	Value  int
	Broken bool
}

func buildWith(opts ...check.Option) func(context.Context, reading) Validator[string] {
	opts = append(opts, check.WithLogger(quiet))
	return func(_ context.Context, r reading) Validator[string] {
		return check.New("invalid "+r.Sensor, opts...).
			IsNotBlank(r.Sensor).
			AutoThen(func() (bool, error) {
				if r.Broken {
					return false, errBroken
				}
				return true, nil
			}).
			Between(r.Value, 0, 100)
	}
}

func ok(r reading) string {
	return "ok " + r.Sensor
}

func TestRun_InputOrder(t *testing.T) {
	t.Parallel()
	targets := []reading{
		{Sensor: "a", Value: 10},
		{Sensor: "b", Value: 200},
		{Sensor: "c", Value: 0},
		{Sensor: "d", Value: -1},
		{Sensor: "e", Value: 100},
	}
	ctx := WithWorkerOptions(context.Background(), 2)

	reports, err := Run(ctx, targets, buildWith(), ok, quiet)
	require.NoError(t, err)
	require.Len(t, reports, len(targets))

	want := []string{"ok a", "invalid b", "ok c", "invalid d", "ok e"}
	for i, r := range reports {
		assert.Equal(t, i, r.Index)
		assert.Equal(t, want[i], r.Result)
		assert.NotEqual(t, uuid.Nil, r.ID)
		assert.NoError(t, r.Err)
	}
	assert.Equal(t, Summary{Total: 5, Passed: 3, Failed: 2}, Summarize(reports))
	assert.False(t, Summarize(reports).OK())
	assert.NoError(t, Faults(reports))
}

func TestRun_FaultCancelsRemaining(t *testing.T) {
	t.Parallel()
	targets := []reading{
		{Sensor: "a", Value: 1},
		{Sensor: "b", Value: 1, Broken: true},
		{Sensor: "c", Value: 1},
		{Sensor: "d", Value: 1},
	}
	ctx := WithWorkerOptions(context.Background(), 1)

	reports, err := Run(ctx, targets, buildWith(), ok, quiet)
	require.Error(t, err)
	assert.ErrorIs(t, err, errBroken)
	assert.True(t, rop.IsFaultError(err))

	assert.True(t, reports[0].Passed)
	assert.True(t, reports[1].Faulted())
	assert.ErrorIs(t, reports[2].Err, context.Canceled)
	assert.ErrorIs(t, reports[3].Err, context.Canceled)
	assert.Equal(t, Summary{Total: 4, Passed: 1, Faulted: 3}, Summarize(reports))
}

func TestRun_ProcessRemaining(t *testing.T) {
	t.Parallel()
	targets := []reading{
		{Sensor: "a", Value: 1, Broken: true},
		{Sensor: "b", Value: 1},
		{Sensor: "c", Value: 1, Broken: true},
	}
	ctx := WithProcessOptions(WithWorkerOptions(context.Background(), 1), true)

	reports, err := Run(ctx, targets, buildWith(), ok, quiet)
	require.NoError(t, err)
	assert.True(t, reports[1].Passed)

	faults := Faults(reports)
	require.Error(t, faults)
	assert.Len(t, rop.GetErrors(faults), 2)
	assert.ErrorIs(t, faults, errBroken)
}

func TestRun_ContainedFaultIsFailure(t *testing.T) {
	t.Parallel()
	targets := []reading{{Sensor: "a", Value: 1, Broken: true}}

	reports, err := Run(context.Background(), targets, buildWith(check.WithCatch(true)), ok, quiet)
	require.NoError(t, err)
	assert.False(t, reports[0].Faulted())
	assert.False(t, reports[0].Passed)
	assert.Equal(t, "invalid a", reports[0].Result)
}

func TestRun_BuildPanicIsFault(t *testing.T) {
	t.Parallel()
	build := func(_ context.Context, r reading) Validator[string] {
		return check.New("invalid", check.WithLogger(quiet)).
			Then(func() bool { panic("sensor " + r.Sensor + " exploded") })
	}
	ctx := WithProcessOptions(context.Background(), true)

	reports, err := Run(ctx, []reading{{Sensor: "x"}}, build, ok, nil)
	require.NoError(t, err)

	var fe *rop.FaultError
	require.ErrorAs(t, reports[0].Err, &fe)
	assert.Equal(t, "sensor x exploded", fe.Recovered)
}

func TestRun_CanceledContext(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var built atomic.Int32
	build := func(ctx context.Context, r reading) Validator[string] {
		built.Add(1)
		return buildWith()(ctx, r)
	}

	reports, err := Run(ctx, []reading{{Sensor: "a"}, {Sensor: "b"}}, build, ok, quiet)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, int32(0), built.Load())
	for _, r := range reports {
		assert.ErrorIs(t, r.Err, context.Canceled)
	}
}

func TestRun_Empty(t *testing.T) {
	t.Parallel()
	reports, err := Run(context.Background(), nil, buildWith(), ok, quiet)
	require.NoError(t, err)
	assert.Empty(t, reports)
	assert.True(t, Summarize(reports).OK())
}

func TestOptions(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	assert.Equal(t, DefaultWorkers, GetWorkerMaxCount(ctx, DefaultWorkers))
	assert.Equal(t, 8, GetWorkerMaxCount(WithWorkerOptions(ctx, 8), DefaultWorkers))
	assert.Equal(t, 3, GetWorkerMaxCount(WithWorkerOptions(ctx, 0), 3))

	assert.False(t, IsProcessRemainingEnabled(ctx, false))
	assert.True(t, IsProcessRemainingEnabled(WithProcessOptions(ctx, true), false))
	assert.False(t, IsProcessRemainingEnabled(WithProcessOptions(ctx, false), true))
}
