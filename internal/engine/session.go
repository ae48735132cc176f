package engine

// SessionStatus is the lifecycle state of one multi-file submission
type SessionStatus string

const (
	SessionIdle       SessionStatus = "idle"
	SessionUploading  SessionStatus = "uploading"
	SessionPaused     SessionStatus = "paused"
	SessionCancelling SessionStatus = "cancelling"
	SessionComplete   SessionStatus = "complete"
)

// Session is an immutable snapshot of one submission's aggregate state
type Session struct {
	Status        SessionStatus
	TotalFiles    int
	TotalBytes    int64
	Pending       int
	Uploading     int
	Completed     int
	Failed        int
	Cancelled     int
	UploadedBytes int64
	CurrentFile   string
	ActiveJobID   string
	Tasks         []FileTask
}

// Done reports whether every task reached a terminal status
func (s *Session) Done() bool {
	return s.Completed+s.Failed+s.Cancelled == s.TotalFiles
}
