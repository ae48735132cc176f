package uploadsdk

import (
	"context"
	"fmt"
	"io"

	"github.com/imroc/req/v3"
)

const (
	v1Jobs      = "/api/v1/jobs"
	v1JobStatus = "/api/v1/jobs/%s"
	v1JobCancel = "/api/v1/jobs/%s/cancel"
)

// JobsAPI covers server-side bulk upload jobs
type JobsAPI struct {
	client *req.Client
}

func newJobsAPI(client *req.Client) *JobsAPI {
	return &JobsAPI{
		client: client,
	}
}

// Start submits a group of files as one server-side bulk job
func (j *JobsAPI) Start(ctx context.Context, refs []*FileRef, category string) (string, error) {
	if len(refs) == 0 {
		return "", fmt.Errorf("no files provided")
	}

	r := j.client.R().
		SetContext(ctx).
		SetFormData(map[string]string{"category": category})

	for _, ref := range refs {
		if ref.Source == nil {
			return "", ErrNilSource
		}
		fileRef := ref
		r.SetFileUpload(req.FileUpload{
			ParamName:   "files",
			FileName:    fileRef.Name,
			FileSize:    fileRef.Size,
			ContentType: fileRef.ContentType,
			GetFileContent: func() (io.ReadCloser, error) {
				return io.NopCloser(fileRef.Reader()), nil
			},
		})
	}

	var result *StartBulkJobResponse
	resp, err := r.SetSuccessResult(&result).Post(v1Jobs)
	if err := handleAPIError(resp, err, "bulk job start"); err != nil {
		return "", err
	}

	if result == nil || result.JobID == "" {
		return "", fmt.Errorf("invalid bulk job response")
	}

	return result.JobID, nil
}

// Status polls the current status of a bulk job
func (j *JobsAPI) Status(ctx context.Context, jobID string) (status *BulkJobStatus, err error) {
	resp, err := j.client.R().
		SetContext(ctx).
		SetSuccessResult(&status).
		Get(fmt.Sprintf(v1JobStatus, jobID))

	if err := handleAPIError(resp, err, "bulk job status"); err != nil {
		return nil, err
	}

	// validate at the deserialization boundary, a poll with no
	// recognizable status is a coordination failure
	if status == nil || status.Status == "" {
		return nil, ErrInvalidJobStatus
	}

	return status, nil
}

// Cancel requests server-side cancellation of a bulk job
func (j *JobsAPI) Cancel(ctx context.Context, jobID string) error {
	resp, err := j.client.R().
		SetContext(ctx).
		Post(fmt.Sprintf(v1JobCancel, jobID))

	return handleAPIError(resp, err, "bulk job cancel")
}
