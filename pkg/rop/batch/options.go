package batch

import "context"

type OptionKey string

const (
	ProcessOptionKey OptionKey = "batch_process_options"
	WorkerOptionKey  OptionKey = "batch_worker_options"
)

// DefaultWorkers is the number of targets validated at once when the context
// carries no WorkerOptions.
const DefaultWorkers = 4

type WorkerOptions struct {
	MaxCount int
}

type ProcessOptions struct {
	// ProcessRemaining keeps validating the other targets after a fault escapes
	// from one of them.
	ProcessRemaining bool
}

func WithProcessOptions(ctx context.Context, processRemaining bool) context.Context {
	return context.WithValue(ctx, ProcessOptionKey, ProcessOptions{ProcessRemaining: processRemaining})
}

func WithWorkerOptions(ctx context.Context, maxWorkers int) context.Context {
	return context.WithValue(ctx, WorkerOptionKey, WorkerOptions{MaxCount: maxWorkers})
}

// GetWorkerMaxCount returns the configured worker count, or defaultMaxWorkers
// when none is set or the value is not positive.
func GetWorkerMaxCount(ctx context.Context, defaultMaxWorkers int) int {
	options, ok := ctx.Value(WorkerOptionKey).(WorkerOptions)
	if ok && options.MaxCount > 0 {
		return options.MaxCount
	}
	return defaultMaxWorkers
}

func IsProcessRemainingEnabled(ctx context.Context, defaultProcessRemaining bool) bool {
	options, ok := ctx.Value(ProcessOptionKey).(ProcessOptions)
	if ok {
		return options.ProcessRemaining
	}
	return defaultProcessRemaining
}
