package engine

import (
	"context"
	"io"

	"github.com/filehub/uploader/internal/uploadsdk"
)

// Transport is the set of server operations the engine coordinates.
// uploadsdk.Client satisfies it through NewSDKTransport; tests swap in fakes.
type Transport interface {
	UploadSingle(ctx context.Context, ref *uploadsdk.FileRef, category string, callback uploadsdk.ProgressCallback) (*uploadsdk.FileRecord, error)
	InitChunked(ctx context.Context, ref *uploadsdk.FileRef) (*uploadsdk.ChunkPlan, error)
	UploadChunk(ctx context.Context, uploadID string, index int, body io.Reader, size int64) error
	CompleteChunked(ctx context.Context, uploadID string) (*uploadsdk.FileRecord, error)
	StartBulkJob(ctx context.Context, refs []*uploadsdk.FileRef, category string) (string, error)
	PollBulkJob(ctx context.Context, jobID string) (*uploadsdk.BulkJobStatus, error)
	CancelBulkJob(ctx context.Context, jobID string) error
}

type sdkTransport struct {
	sdk *uploadsdk.Client
}

// NewSDKTransport adapts an uploadsdk client to the engine's Transport
func NewSDKTransport(sdk *uploadsdk.Client) Transport {
	return &sdkTransport{sdk: sdk}
}

func (t *sdkTransport) UploadSingle(ctx context.Context, ref *uploadsdk.FileRef, category string, callback uploadsdk.ProgressCallback) (*uploadsdk.FileRecord, error) {
	return t.sdk.Files.UploadSingle(ctx, ref, category, callback)
}

func (t *sdkTransport) InitChunked(ctx context.Context, ref *uploadsdk.FileRef) (*uploadsdk.ChunkPlan, error) {
	return t.sdk.Files.InitChunked(ctx, ref)
}

func (t *sdkTransport) UploadChunk(ctx context.Context, uploadID string, index int, body io.Reader, size int64) error {
	return t.sdk.Files.UploadChunk(ctx, uploadID, index, body, size)
}

func (t *sdkTransport) CompleteChunked(ctx context.Context, uploadID string) (*uploadsdk.FileRecord, error) {
	return t.sdk.Files.CompleteChunked(ctx, uploadID)
}

func (t *sdkTransport) StartBulkJob(ctx context.Context, refs []*uploadsdk.FileRef, category string) (string, error) {
	return t.sdk.Jobs.Start(ctx, refs, category)
}

func (t *sdkTransport) PollBulkJob(ctx context.Context, jobID string) (*uploadsdk.BulkJobStatus, error) {
	return t.sdk.Jobs.Status(ctx, jobID)
}

func (t *sdkTransport) CancelBulkJob(ctx context.Context, jobID string) error {
	return t.sdk.Jobs.Cancel(ctx, jobID)
}
