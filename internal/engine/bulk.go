package engine

import (
	"context"
	"log/slog"
	"time"

	"github.com/filehub/uploader/internal/uploadsdk"
)

const bulkCancelTimeout = 5 * time.Second

// runBulk executes tasks on the bulk-job path: fixed-size batches submitted
// strictly sequentially, each polled to a terminal job status before the
// next batch starts. Aggregate counts accumulate across batches because
// every task feeds the same tracker.
func (e *Engine) runBulk(ctx context.Context, tasks []*FileTask, category string) {
	for start := 0; start < len(tasks); start += e.cfg.BatchSize {
		end := min(start+e.cfg.BatchSize, len(tasks))
		batch := tasks[start:end]

		if ctx.Err() != nil {
			// unsent batches are never submitted after cancellation
			e.cancelRemaining(batch)
			continue
		}

		e.runBatch(ctx, batch, category)
	}
}

func (e *Engine) runBatch(ctx context.Context, batch []*FileTask, category string) {
	refs := make([]*uploadsdk.FileRef, len(batch))
	for i, task := range batch {
		refs[i] = task.Ref
	}

	for _, task := range batch {
		e.progress.taskUploading(task.ID)
	}

	policy := retryPolicy{
		maxRetries: e.cfg.MaxRetries,
		baseDelay:  e.cfg.RetryBase,
	}

	var jobID string
	err := policy.run(ctx, "bulk batch", func(ctx context.Context) error {
		id, startErr := e.transport.StartBulkJob(ctx, refs, category)
		if startErr != nil {
			return startErr
		}
		jobID = id
		return nil
	})
	if err != nil {
		if uploadsdk.IsCancellation(err) {
			e.cancelRemaining(batch)
			return
		}
		slog.Error("bulk batch start failed", "files", len(batch), "error", err)
		for _, task := range batch {
			e.progress.taskFailed(task.ID, err.Error())
		}
		return
	}

	slog.Info("bulk job started", "job", jobID, "files", len(batch))
	e.progress.setActiveJob(jobID)

	timer := time.NewTimer(e.cfg.PollInterval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			e.cancelJob(jobID)
			e.cancelRemaining(batch)
			return
		case <-timer.C:
			status, pollErr := e.transport.PollBulkJob(ctx, jobID)
			if pollErr != nil {
				if uploadsdk.IsCancellation(pollErr) || ctx.Err() != nil {
					e.cancelJob(jobID)
					e.cancelRemaining(batch)
					return
				}
				// coordination failure, never a file failure: keep polling
				slog.Warn("bulk job poll failed", "job", jobID, "error", pollErr)
				timer.Reset(e.cfg.PollInterval)
				continue
			}

			if status.CurrentFile != "" {
				e.progress.setCurrentFile(status.CurrentFile)
			}

			if status.Status.Terminal() {
				e.reconcileBatch(batch, status)
				return
			}

			timer.Reset(e.cfg.PollInterval)
		}
	}
}

// cancelJob requests server-side cancellation outside the session context,
// which is already cancelled by the time this runs
func (e *Engine) cancelJob(jobID string) {
	ctx, cancel := context.WithTimeout(context.Background(), bulkCancelTimeout)
	defer cancel()

	if err := e.transport.CancelBulkJob(ctx, jobID); err != nil {
		slog.Warn("bulk job cancel failed", "job", jobID, "error", err)
	}
}

func (e *Engine) cancelRemaining(batch []*FileTask) {
	for _, task := range batch {
		e.progress.taskCancelled(task.ID)
	}
}

// reconcileBatch settles per-file outcomes from a terminal job status.
// Filenames listed in the job's error entries are failed, everything else
// in the batch is completed.
func (e *Engine) reconcileBatch(batch []*FileTask, status *uploadsdk.BulkJobStatus) {
	switch status.Status {
	case uploadsdk.JobStateCancelled:
		e.cancelRemaining(batch)
	case uploadsdk.JobStateFailed:
		for _, task := range batch {
			e.progress.taskFailed(task.ID, "bulk job failed")
		}
	default:
		failed := status.FailedFiles()
		for _, task := range batch {
			if message, ok := failed[task.Ref.Name]; ok {
				e.progress.taskFailed(task.ID, message)
			} else {
				e.progress.taskCompleted(task.ID)
			}
		}
	}
}
