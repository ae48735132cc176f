package uploadsdk

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/imroc/req/v3"
)

var (
	// sdk common
	ErrNoServerURL = errors.New("sdk: server url missing")
	ErrNilSource   = errors.New("sdk: file source missing")

	// jobs
	ErrInvalidJobStatus = errors.New("sdk: invalid job status payload")
)

const (
	// Generic request/server errors
	CodeInvalidRequest = "E_INVALID_REQUEST" // bad or invalid request
	CodeRateLimited    = "E_RATE_LIMITED"    // rate limit exceeded
	CodeInternalError  = "E_INTERNAL_ERROR"  // internal server error
	CodeAccessDenied   = "E_ACCESS_DENIED"   // access denied
	CodeUnknownError   = "E_UNKNOWN_ERR"     // unknown error

	// File errors
	CodeFilePutFailed   = "E_FILE_PUT_OPERATION_FAILED" // a failure during a single-shot file upload
	CodeFileTooLarge    = "E_FILE_TOO_LARGE"            // the file exceeds the server-side size limit
	CodeUploadNotFound  = "E_UPLOAD_NOT_FOUND"          // the chunked upload id is unknown or expired
	CodeChunkOutOfRange = "E_CHUNK_OUT_OF_RANGE"        // the chunk index is outside the negotiated plan

	// Job errors
	CodeJobNotFound     = "E_JOB_NOT_FOUND"      // the specified bulk job could not be found
	CodeJobStartFailed  = "E_JOB_START_FAILED"   // a failure while creating a bulk job
	CodeJobCancelFailed = "E_JOB_CANCEL_FAILED"  // a failure while cancelling a bulk job
)

// APIError represents FileHub API errors
type APIError struct {
	Code       string `json:"code"`
	Message    string `json:"error"`
	StatusCode int    `json:"-"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error: %s - %s", e.Code, e.Message)
}

// StatusError represents a bare HTTP failure without an API error envelope,
// such as a raw chunk PUT rejected by an intermediary.
type StatusError struct {
	StatusCode int
	Op         string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s failed with status %d", e.Op, e.StatusCode)
}

// IsCancellation reports whether err is a user-initiated cancellation
func IsCancellation(err error) bool {
	return errors.Is(err, context.Canceled)
}

// IsTransient reports whether err is worth retrying: network-level failures
// and 5xx/429 responses are transient, everything else is permanent.
func IsTransient(err error) bool {
	if err == nil || IsCancellation(err) {
		return false
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode >= http.StatusInternalServerError ||
			apiErr.StatusCode == http.StatusTooManyRequests
	}

	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode >= http.StatusInternalServerError ||
			statusErr.StatusCode == http.StatusTooManyRequests
	}

	// the request never produced a response
	return true
}

// handleAPIError is a helper function that handles the common error pattern
func handleAPIError(resp *req.Response, requestErr error, operation string) error {
	if requestErr != nil {
		return fmt.Errorf("http request error: %s %w", operation, requestErr)
	}

	// got a response, but api returned an error
	if resp.IsErrorState() {
		if apiErr, ok := resp.ErrorResult().(*APIError); ok {
			apiErr.StatusCode = resp.StatusCode
			return fmt.Errorf("%s %w", operation, apiErr)
		}

		return fmt.Errorf("%s %w", operation, &APIError{
			Code:       CodeUnknownError,
			Message:    resp.Status,
			StatusCode: resp.StatusCode,
		})
	}

	return nil
}
