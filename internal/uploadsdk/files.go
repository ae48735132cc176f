package uploadsdk

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/imroc/req/v3"
)

const (
	v1FileUpload         = "/api/v1/files/upload"
	v1FileUploadInit     = "/api/v1/files/upload/init"
	v1FileUploadChunk    = "/api/v1/files/upload/chunk"
	v1FileUploadComplete = "/api/v1/files/upload/complete"
)

// FilesAPI covers single-shot and chunked file uploads
type FilesAPI struct {
	client  *req.Client
	baseURL string
}

func newFilesAPI(client *req.Client, baseURL string) *FilesAPI {
	return &FilesAPI{
		client:  client,
		baseURL: baseURL,
	}
}

// UploadSingle uploads one file in a single request
func (f *FilesAPI) UploadSingle(ctx context.Context, ref *FileRef, category string, callback ProgressCallback) (record *FileRecord, err error) {
	if ref.Source == nil {
		return nil, ErrNilSource
	}

	resp, err := f.client.R().
		SetContext(ctx).
		SetQueryParam("category", category).
		SetRetryCount(0).
		SetFileUpload(req.FileUpload{
			ParamName:   "file",
			FileName:    ref.Name,
			FileSize:    ref.Size,
			ContentType: ref.ContentType,
			GetFileContent: func() (io.ReadCloser, error) {
				return io.NopCloser(ref.Reader()), nil
			},
		}).
		SetSuccessResult(&record).
		SetUploadCallbackWithInterval(func(info req.UploadInfo) {
			// if file size is less than 1MB, don't report progress
			if info.FileSize < 1024*1024 || callback == nil {
				return
			}
			callback(info.UploadedSize, info.FileSize)
		}, time.Second).
		Put(v1FileUpload)

	if err := handleAPIError(resp, err, "file upload"); err != nil {
		return nil, err
	}

	return record, nil
}

// InitChunked announces a chunked upload and returns the server's chunk plan
func (f *FilesAPI) InitChunked(ctx context.Context, ref *FileRef) (plan *ChunkPlan, err error) {
	resp, err := f.client.R().
		SetContext(ctx).
		SetBody(&InitChunkedRequest{
			Name:        ref.Name,
			Size:        ref.Size,
			ContentType: ref.ContentType,
		}).
		SetSuccessResult(&plan).
		Post(v1FileUploadInit)

	if err := handleAPIError(resp, err, "file upload init"); err != nil {
		return nil, err
	}

	if plan == nil || plan.UploadID == "" || plan.ChunkSize <= 0 || plan.TotalChunks <= 0 {
		return nil, fmt.Errorf("invalid chunk plan response")
	}

	return plan, nil
}

// UploadChunk uploads the byte range for chunk `index` of an active upload.
/*
	not using req for the chunk body:
	- SetBody() reads the whole io.Reader into memory. we want to avoid that.
	- we need Content-Length set to the exact range size so the server can
	  validate the chunk without buffering it.
*/
func (f *FilesAPI) UploadChunk(ctx context.Context, uploadID string, index int, body io.Reader, size int64) error {
	chunkURL := fmt.Sprintf("%s%s?uploadId=%s&index=%d", f.baseURL, v1FileUploadChunk, url.QueryEscape(uploadID), index)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPut, chunkURL, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	httpReq.ContentLength = size
	httpReq.Header.Set("Content-Type", "application/octet-stream")
	httpReq.Header.Set(HeaderUserAgent, UserAgent)

	resp, err := http.DefaultClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("upload chunk %d: %w", index, err)
	}
	// drain so the connection can be reused by the next chunk
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusNoContent {
		return &StatusError{
			StatusCode: resp.StatusCode,
			Op:         fmt.Sprintf("upload chunk %d", index),
		}
	}

	return nil
}

// CompleteChunked finalizes a chunked upload and returns the resulting record
func (f *FilesAPI) CompleteChunked(ctx context.Context, uploadID string) (record *FileRecord, err error) {
	resp, err := f.client.R().
		SetContext(ctx).
		SetBody(&CompleteChunkedRequest{
			UploadID: uploadID,
		}).
		SetSuccessResult(&record).
		Post(v1FileUploadComplete)

	if err := handleAPIError(resp, err, "file upload complete"); err != nil {
		return nil, err
	}

	return record, nil
}
