package engine

import (
	"context"
	"fmt"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// uploadChunked transfers one large file via the chunked sub-protocol:
// init for a fresh upload id, then chunks with bounded sub-concurrency,
// then complete. Any chunk failure fails the whole attempt; the outer
// retry policy redoes the sequence including a fresh init.
func (e *Engine) uploadChunked(ctx context.Context, task *FileTask) error {
	plan, err := e.transport.InitChunked(ctx, task.Ref)
	if err != nil {
		return fmt.Errorf("init chunked: %w", err)
	}

	// a fresh plan restarts byte-level progress for this file
	e.progress.taskBytes(task.ID, 0)

	var uploaded atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.cfg.ChunkConcurrency)

	for index := range plan.TotalChunks {
		g.Go(func() error {
			offset := int64(index) * plan.ChunkSize
			size := chunkSizeAt(offset, plan.ChunkSize, task.Ref.Size)
			reader := task.Ref.ChunkReader(offset, size)

			if err := e.transport.UploadChunk(gctx, plan.UploadID, index, reader, size); err != nil {
				return err
			}

			e.progress.taskBytes(task.ID, uploaded.Add(size))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	if _, err := e.transport.CompleteChunked(ctx, plan.UploadID); err != nil {
		return fmt.Errorf("complete chunked: %w", err)
	}

	return nil
}

// chunkSizeAt returns the length of the chunk starting at offset, covering
// [offset, min(offset+chunkSize, fileSize))
func chunkSizeAt(offset, chunkSize, fileSize int64) int64 {
	if offset >= fileSize {
		return 0
	}
	if remaining := fileSize - offset; remaining < chunkSize {
		return remaining
	}
	return chunkSize
}
