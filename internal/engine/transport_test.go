package engine

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/filehub/uploader/internal/uploadsdk"
)

// fakeTransport implements Transport with overridable behavior per test.
// Unset hooks succeed immediately.
type fakeTransport struct {
	onUploadSingle    func(ctx context.Context, ref *uploadsdk.FileRef) error
	onInitChunked     func(ctx context.Context, ref *uploadsdk.FileRef) (*uploadsdk.ChunkPlan, error)
	onUploadChunk     func(ctx context.Context, uploadID string, index int, size int64) error
	onCompleteChunked func(ctx context.Context, uploadID string) error
	onStartBulkJob    func(ctx context.Context, refs []*uploadsdk.FileRef) (string, error)
	onPollBulkJob     func(ctx context.Context, jobID string) (*uploadsdk.BulkJobStatus, error)
	onCancelBulkJob   func(ctx context.Context, jobID string) error
}

func (f *fakeTransport) UploadSingle(ctx context.Context, ref *uploadsdk.FileRef, category string, callback uploadsdk.ProgressCallback) (*uploadsdk.FileRecord, error) {
	if f.onUploadSingle != nil {
		if err := f.onUploadSingle(ctx, ref); err != nil {
			return nil, err
		}
	}
	if callback != nil {
		callback(ref.Size, ref.Size)
	}
	return &uploadsdk.FileRecord{Name: ref.Name, Size: ref.Size}, nil
}

func (f *fakeTransport) InitChunked(ctx context.Context, ref *uploadsdk.FileRef) (*uploadsdk.ChunkPlan, error) {
	if f.onInitChunked != nil {
		return f.onInitChunked(ctx, ref)
	}
	const chunkSize = int64(5 * 1024 * 1024)
	return &uploadsdk.ChunkPlan{
		UploadID:    "upload-" + ref.Name,
		ChunkSize:   chunkSize,
		TotalChunks: int((ref.Size + chunkSize - 1) / chunkSize),
	}, nil
}

func (f *fakeTransport) UploadChunk(ctx context.Context, uploadID string, index int, body io.Reader, size int64) error {
	if f.onUploadChunk != nil {
		return f.onUploadChunk(ctx, uploadID, index, size)
	}
	return nil
}

func (f *fakeTransport) CompleteChunked(ctx context.Context, uploadID string) (*uploadsdk.FileRecord, error) {
	if f.onCompleteChunked != nil {
		if err := f.onCompleteChunked(ctx, uploadID); err != nil {
			return nil, err
		}
	}
	return &uploadsdk.FileRecord{}, nil
}

func (f *fakeTransport) StartBulkJob(ctx context.Context, refs []*uploadsdk.FileRef, category string) (string, error) {
	if f.onStartBulkJob != nil {
		return f.onStartBulkJob(ctx, refs)
	}
	return "job-1", nil
}

func (f *fakeTransport) PollBulkJob(ctx context.Context, jobID string) (*uploadsdk.BulkJobStatus, error) {
	if f.onPollBulkJob != nil {
		return f.onPollBulkJob(ctx, jobID)
	}
	return &uploadsdk.BulkJobStatus{Status: uploadsdk.JobStateCompleted}, nil
}

func (f *fakeTransport) CancelBulkJob(ctx context.Context, jobID string) error {
	if f.onCancelBulkJob != nil {
		return f.onCancelBulkJob(ctx, jobID)
	}
	return nil
}

// counter tracks concurrent invocations and the max observed
type counter struct {
	mu     sync.Mutex
	active int
	max    int
	total  int
}

func (c *counter) enter() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.active++
	c.total++
	if c.active > c.max {
		c.max = c.active
	}
}

func (c *counter) exit() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.active--
}

func (c *counter) stats() (max, total int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.max, c.total
}

// zeroSource is an io.ReaderAt of unlimited zeroes, so tests can describe
// arbitrarily large files without allocating them
type zeroSource struct{}

func (zeroSource) ReadAt(p []byte, off int64) (int, error) {
	for i := range p {
		p[i] = 0
	}
	return len(p), nil
}

func makeRefs(n int, size int64) []*uploadsdk.FileRef {
	refs := make([]*uploadsdk.FileRef, n)
	for i := range refs {
		refs[i] = &uploadsdk.FileRef{
			Name:   fmt.Sprintf("file-%03d.bin", i),
			Size:   size,
			Source: zeroSource{},
		}
	}
	return refs
}

// testConfig keeps retries and polling fast in tests
func testConfig() Config {
	return Config{
		RetryBase:    time.Millisecond,
		PollInterval: time.Millisecond,
	}
}
