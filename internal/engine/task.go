package engine

import (
	"github.com/filehub/uploader/internal/uploadsdk"
	"github.com/google/uuid"
)

// TaskStatus is the lifecycle state of one file transfer
type TaskStatus string

const (
	TaskPending   TaskStatus = "pending"
	TaskUploading TaskStatus = "uploading"
	TaskCompleted TaskStatus = "completed"
	TaskFailed    TaskStatus = "failed"
	TaskCancelled TaskStatus = "cancelled"
)

// Terminal reports whether the task will transition no further
func (s TaskStatus) Terminal() bool {
	switch s {
	case TaskCompleted, TaskFailed, TaskCancelled:
		return true
	}
	return false
}

// FileTask is one file's transfer unit within a submission.
// All mutation goes through the session tracker; snapshots hold value copies.
type FileTask struct {
	ID            string
	Ref           *uploadsdk.FileRef
	Status        TaskStatus
	Error         string
	BytesUploaded int64
}

func newFileTask(ref *uploadsdk.FileRef) *FileTask {
	return &FileTask{
		ID:     uuid.NewString(),
		Ref:    ref,
		Status: TaskPending,
	}
}
