package uploadsdk

import "strings"

// BulkJobState is the server-side lifecycle state of a bulk upload job
type BulkJobState string

const (
	JobStatePending             BulkJobState = "pending"
	JobStateProcessing          BulkJobState = "processing"
	JobStateCompleted           BulkJobState = "completed"
	JobStateCompletedWithErrors BulkJobState = "completed_with_errors"
	JobStateFailed              BulkJobState = "failed"
	JobStateCancelled           BulkJobState = "cancelled"
)

// Terminal reports whether the job will make no further progress
func (s BulkJobState) Terminal() bool {
	switch s {
	case JobStateCompleted, JobStateCompletedWithErrors, JobStateFailed, JobStateCancelled:
		return true
	}
	return false
}

// StartBulkJobResponse is the response from creating a bulk job
type StartBulkJobResponse struct {
	JobID string `json:"job_id"`
}

// BulkJobStatus is one poll result for a bulk job. Errors entries are
// "<filename>: <message>" strings.
type BulkJobStatus struct {
	JobID        string       `json:"job_id,omitempty"`
	Status       BulkJobState `json:"status"`
	Progress     int          `json:"progress"`
	Total        int          `json:"total"`
	CurrentFile  string       `json:"current_file"`
	SuccessCount int          `json:"success_count"`
	ErrorCount   int          `json:"error_count"`
	Errors       []string     `json:"errors"`
}

// FailedFiles maps filenames from the job's error list to their messages.
// If a filename appears more than once, the first entry wins.
func (s *BulkJobStatus) FailedFiles() map[string]string {
	if len(s.Errors) == 0 {
		return nil
	}

	failed := make(map[string]string, len(s.Errors))
	for _, entry := range s.Errors {
		name, message, found := strings.Cut(entry, ": ")
		if !found {
			name = entry
			message = "upload failed"
		}
		if _, exists := failed[name]; !exists {
			failed[name] = message
		}
	}
	return failed
}
