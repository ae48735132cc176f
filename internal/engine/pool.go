package engine

import (
	"context"
	"log/slog"
	"sync"

	"github.com/filehub/uploader/internal/queue"
	"github.com/filehub/uploader/internal/uploadsdk"
)

// pauseGate blocks direct-path workers while the session is paused.
// Workers wait on the condition instead of polling the flag; Cancel
// broadcasts so paused workers can observe context cancellation.
type pauseGate struct {
	mu     sync.Mutex
	cond   *sync.Cond
	paused bool
}

func newPauseGate() *pauseGate {
	g := &pauseGate{}
	g.cond = sync.NewCond(&g.mu)
	return g
}

func (g *pauseGate) pause() {
	g.mu.Lock()
	g.paused = true
	g.mu.Unlock()
}

func (g *pauseGate) resume() {
	g.mu.Lock()
	g.paused = false
	g.cond.Broadcast()
	g.mu.Unlock()
}

// wake unblocks waiters without clearing the pause flag. Broadcasting under
// the lock guarantees a worker between its ctx check and cond.Wait cannot
// miss the signal.
func (g *pauseGate) wake() {
	g.mu.Lock()
	g.cond.Broadcast()
	g.mu.Unlock()
}

// wait blocks while the gate is paused. It returns false once ctx is
// cancelled, whether or not the gate is open.
func (g *pauseGate) wait(ctx context.Context) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	for g.paused {
		if ctx.Err() != nil {
			return false
		}
		g.cond.Wait()
	}
	return ctx.Err() == nil
}

// runDirect executes tasks on the direct path: C workers pull from a shared
// FIFO queue, each file going single-shot or chunked per its size. Paused
// workers block before pulling the next task; cancellation stops the pulls
// and marks whatever never started as cancelled.
func (e *Engine) runDirect(ctx context.Context, gate *pauseGate, tasks []*FileTask, category string) {
	q := queue.New[*FileTask](len(tasks))
	for _, task := range tasks {
		q.Push(task)
	}

	// paused workers must also wake when the caller's context is cancelled,
	// not only on Resume/Cancel. The session context is always cancelled by
	// the time this run returns, so the watcher never leaks.
	go func() {
		<-ctx.Done()
		gate.wake()
	}()

	var wg sync.WaitGroup
	wg.Add(e.cfg.Concurrency)
	for range e.cfg.Concurrency {
		go func() {
			defer wg.Done()
			for {
				if !gate.wait(ctx) {
					return // cancelled
				}
				task, ok := q.Pop()
				if !ok {
					return // queue drained
				}
				e.runTask(ctx, task, category)
			}
		}()
	}
	wg.Wait()

	// tasks never pulled from the queue end cancelled
	for _, task := range q.DrainAll() {
		e.progress.taskCancelled(task.ID)
	}
}

// runTask executes one file transfer under the retry policy and records
// the terminal status
func (e *Engine) runTask(ctx context.Context, task *FileTask, category string) {
	e.progress.taskUploading(task.ID)

	policy := retryPolicy{
		maxRetries: e.cfg.MaxRetries,
		baseDelay:  e.cfg.RetryBase,
	}

	err := policy.run(ctx, task.Ref.Name, func(ctx context.Context) error {
		if needsChunking(task.Ref.Size, e.cfg.ChunkThreshold) {
			return e.uploadChunked(ctx, task)
		}
		return e.uploadSingle(ctx, task, category)
	})

	switch {
	case err == nil:
		slog.Debug("upload", "op", "completed", "file", task.Ref.Name)
		e.progress.taskCompleted(task.ID)
	case uploadsdk.IsCancellation(err):
		slog.Debug("upload", "op", "cancelled", "file", task.Ref.Name)
		e.progress.taskCancelled(task.ID)
	default:
		slog.Error("upload", "op", "failed", "file", task.Ref.Name, "error", err)
		e.progress.taskFailed(task.ID, err.Error())
	}
}

func (e *Engine) uploadSingle(ctx context.Context, task *FileTask, category string) error {
	_, err := e.transport.UploadSingle(ctx, task.Ref, category, func(uploadedBytes, totalBytes int64) {
		e.progress.taskBytes(task.ID, uploadedBytes)
	})
	return err
}
