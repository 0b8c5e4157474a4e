package ann

import (
	"context"
	"time"

	"github.com/ludo-technologies/annforest/domain"
)

// ProgressReporter is the narrow slice of domain.ProgressManager that the
// forest builder needs: naming a task, reporting how far through it is, and
// marking it done. Callers typically hand in a domain.ProgressManager
// directly, since it already satisfies this interface.
type ProgressReporter interface {
	StartTask(name string)
	UpdateProgress(name string, processed, total int)
	CompleteTask(name string, success bool)
}

// inlineExecutor runs tasks sequentially on the calling goroutine. It is the
// fallback used when Fit is called with a nil domain.ParallelExecutor, which
// keeps this package usable (and its tests deterministic) without requiring
// every caller to wire up a concurrency-bounded executor first.
type inlineExecutor struct{}

func newInlineExecutor() domain.ParallelExecutor { return inlineExecutor{} }

func (inlineExecutor) Execute(ctx context.Context, tasks []domain.ExecutableTask) error {
	for _, t := range tasks {
		if !t.IsEnabled() {
			continue
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if _, err := t.Execute(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (inlineExecutor) SetMaxConcurrency(int)         {}
func (inlineExecutor) SetTimeout(time.Duration)      {}
