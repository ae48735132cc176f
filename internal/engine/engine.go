package engine

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/filehub/uploader/internal/uploadsdk"
)

var (
	ErrUploadInProgress = errors.New("upload already in progress")
	ErrNoFiles          = errors.New("no files to upload")
)

// Engine orchestrates one upload submission at a time. It partitions the
// submission across the direct and bulk paths, owns pause/resume/cancel
// semantics, and exposes progress only as immutable session snapshots.
// Task-level errors never surface through the API once a submission starts.
type Engine struct {
	cfg       Config
	transport Transport
	progress  *tracker
	run       *sessionRun
	mu        sync.Mutex
}

// sessionRun tracks the goroutine executing one submission
type sessionRun struct {
	strategy Strategy
	gate     *pauseGate
	cancel   context.CancelFunc
	done     chan struct{}
}

// New creates an engine over the given transport
func New(transport Transport, cfg Config) *Engine {
	return &Engine{
		cfg:       cfg.withDefaults(),
		transport: transport,
		progress:  newTracker(),
	}
}

// Start begins uploading the given files. Only one submission may be active;
// the previous one must finish or be dismissed first.
func (e *Engine) Start(ctx context.Context, refs []*uploadsdk.FileRef, category string) error {
	if len(refs) == 0 {
		return ErrNoFiles
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.run != nil {
		select {
		case <-e.run.done:
		default:
			return ErrUploadInProgress
		}
	}

	tasks := make([]*FileTask, len(refs))
	for i, ref := range refs {
		tasks[i] = newFileTask(ref)
	}

	strategy := selectStrategy(len(tasks), e.cfg.DirectThreshold)
	slog.Info("upload session start", "files", len(tasks), "strategy", strategy)

	runCtx, cancel := context.WithCancel(ctx)
	run := &sessionRun{
		strategy: strategy,
		gate:     newPauseGate(),
		cancel:   cancel,
		done:     make(chan struct{}),
	}
	e.run = run
	e.progress.begin(tasks)

	go func() {
		defer close(run.done)
		defer cancel()

		if strategy == StrategyDirect {
			e.runDirect(runCtx, run.gate, tasks, category)
		} else {
			e.runBulk(runCtx, tasks, category)
		}

		e.progress.finish()
		snap := e.progress.Snapshot()
		slog.Info("upload session finished",
			"completed", snap.Completed,
			"failed", snap.Failed,
			"cancelled", snap.Cancelled,
		)
	}()

	return nil
}

// Pause stops direct-path workers from pulling new tasks. Requests already
// in flight are allowed to finish. The bulk path is unaffected.
func (e *Engine) Pause() {
	e.mu.Lock()
	run := e.run
	e.mu.Unlock()

	if run == nil || run.strategy != StrategyDirect {
		return
	}

	run.gate.pause()
	e.progress.compareAndSetStatus(SessionUploading, SessionPaused)
}

// Resume reopens the worker gate after a pause
func (e *Engine) Resume() {
	e.mu.Lock()
	run := e.run
	e.mu.Unlock()

	if run == nil || run.strategy != StrategyDirect {
		return
	}

	run.gate.resume()
	e.progress.compareAndSetStatus(SessionPaused, SessionUploading)
}

// Cancel aborts the active submission. In-flight requests are aborted where
// possible; results of requests that cannot be aborted are discarded in
// favor of the cancelled status. Every task ends in a terminal status.
func (e *Engine) Cancel() {
	e.mu.Lock()
	run := e.run
	e.mu.Unlock()

	if run == nil {
		return
	}

	if !e.progress.compareAndSetStatus(SessionUploading, SessionCancelling) {
		e.progress.compareAndSetStatus(SessionPaused, SessionCancelling)
	}

	run.cancel()
	// paused workers must wake to observe the cancellation
	run.gate.wake()
}

// Dismiss tears down the finished (or active) session and resets to idle
func (e *Engine) Dismiss() {
	e.mu.Lock()
	run := e.run
	e.run = nil
	e.mu.Unlock()

	if run != nil {
		run.cancel()
		run.gate.wake()
		<-run.done
	}

	e.progress.reset()
}

// Wait blocks until the active submission finishes
func (e *Engine) Wait() {
	e.mu.Lock()
	run := e.run
	e.mu.Unlock()

	if run != nil {
		<-run.done
	}
}

// Snapshot returns the current session snapshot
func (e *Engine) Snapshot() Session {
	return e.progress.Snapshot()
}

// Subscribe returns a channel receiving a snapshot after every state change
func (e *Engine) Subscribe() <-chan Session {
	return e.progress.Subscribe()
}

// Unsubscribe removes a snapshot subscription
func (e *Engine) Unsubscribe(ch <-chan Session) {
	e.progress.Unsubscribe(ch)
}

// Close cancels any active submission and closes all subscriptions
func (e *Engine) Close() {
	e.Dismiss()
	e.progress.close()
}
