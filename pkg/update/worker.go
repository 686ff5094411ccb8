package update

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/aretw0/lifecycle/pkg/core/worker"
)

// Worker runs the checker in the background: once after a startup delay,
// then on a fixed interval when one is configured. It never blocks or gates
// entity resolution; it only pre-warms the persistent cache for next time.
type Worker struct {
	*worker.BaseWorker
	checker   *Checker
	delay     time.Duration
	interval  time.Duration
	autoApply bool
	logger    *slog.Logger
	cancel    context.CancelFunc
}

// NewWorker creates a background update worker. interval <= 0 means a single
// check after delay; autoApply controls whether a detected update is
// downloaded immediately or only reported.
func NewWorker(checker *Checker, delay, interval time.Duration, autoApply bool, logger *slog.Logger) *Worker {
	if delay <= 0 {
		delay = minCheckDelay
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Worker{
		BaseWorker: worker.NewBaseWorker("update-checker"),
		checker:    checker,
		delay:      delay,
		interval:   interval,
		autoApply:  autoApply,
		logger:     logger,
	}
}

// Start launches the background loop. Starting an already running worker is
// an error.
func (w *Worker) Start(ctx context.Context) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	status := w.State().Status
	if status != worker.StatusCreated && status != worker.StatusPending {
		return fmt.Errorf("update worker already started (status: %s)", status)
	}

	runCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	w.SetStatus(worker.StatusRunning)
	return w.StartFunc(runCtx, w.run)
}

// Stop cancels the loop and waits for shutdown.
func (w *Worker) Stop(ctx context.Context) error {
	if w.cancel != nil {
		w.StopRequested = true
		w.cancel()
	}
	return w.BaseWorker.Stop(ctx)
}

// State implements worker introspection.
func (w *Worker) State() worker.State {
	return w.ExportState(func(s *worker.State) {
		s.Metadata = map[string]string{
			worker.MetadataType: string(worker.TypeGoroutine),
		}
	})
}

func (w *Worker) run(ctx context.Context) (err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			panicErr := fmt.Errorf("update worker panic: %v", recovered)
			var stack string
			if w.logger.Enabled(ctx, slog.LevelDebug) {
				stack = string(debug.Stack())
			}
			if stack != "" {
				w.logger.Error("update worker panic", "error", panicErr, "stack", stack)
			} else {
				w.logger.Error("update worker panic", "error", panicErr)
			}
		}
	}()

	select {
	case <-ctx.Done():
		return nil
	case <-time.After(w.delay):
	}
	w.checkOnce(ctx)

	if w.interval <= 0 {
		return nil
	}
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			w.checkOnce(ctx)
		}
	}
}

func (w *Worker) checkOnce(ctx context.Context) {
	info := w.checker.Check(ctx)
	if info == nil {
		w.logger.Debug("no content update available")
		return
	}

	w.logger.Info("content update available",
		"current", info.CurrentVersion,
		"remote", info.RemoteVersion,
	)
	if !w.autoApply {
		return
	}
	if err := w.checker.Apply(ctx); err != nil {
		// Partial downloads are safe; the next interval retries.
		w.logger.Warn("content update failed", "error", err)
	}
}
