package engine

import (
	"sync"
)

const sessionEventBufferSize = 16

// tracker is the single owner of the TransferSession state. All task and
// session mutation funnels through it under one lock; readers only ever see
// value-copied snapshots. Terminal counters are monotonic until reset.
type tracker struct {
	status      SessionStatus
	tasks       []*FileTask
	byID        map[string]*FileTask
	totalBytes  int64
	uploaded    int64
	pending     int
	uploading   int
	completed   int
	failed      int
	cancelled   int
	currentFile string
	activeJobID string
	mu          sync.RWMutex

	// Event broadcasting for snapshot observers
	eventSubs []chan Session
	eventMu   sync.RWMutex
}

func newTracker() *tracker {
	return &tracker{
		status:    SessionIdle,
		byID:      make(map[string]*FileTask),
		eventSubs: make([]chan Session, 0),
	}
}

// Subscribe returns a channel receiving a session snapshot after every change
func (t *tracker) Subscribe() <-chan Session {
	t.eventMu.Lock()
	defer t.eventMu.Unlock()

	ch := make(chan Session, sessionEventBufferSize)
	t.eventSubs = append(t.eventSubs, ch)
	return ch
}

// Unsubscribe removes a subscription channel
func (t *tracker) Unsubscribe(ch <-chan Session) {
	t.eventMu.Lock()
	defer t.eventMu.Unlock()

	for i, sub := range t.eventSubs {
		if sub == ch {
			close(sub)
			t.eventSubs = append(t.eventSubs[:i], t.eventSubs[i+1:]...)
			break
		}
	}
}

// broadcast sends a snapshot to all subscribers without blocking
func (t *tracker) broadcast(snap Session) {
	t.eventMu.RLock()
	defer t.eventMu.RUnlock()

	for _, sub := range t.eventSubs {
		select {
		case sub <- snap:
		default:
			// Channel is full, skip to avoid blocking
		}
	}
}

// begin seeds the tracker with a new submission's tasks
func (t *tracker) begin(tasks []*FileTask) {
	t.mu.Lock()
	t.status = SessionUploading
	t.tasks = tasks
	t.byID = make(map[string]*FileTask, len(tasks))
	t.totalBytes = 0
	t.uploaded = 0
	t.pending = len(tasks)
	t.uploading, t.completed, t.failed, t.cancelled = 0, 0, 0, 0
	t.currentFile = ""
	t.activeJobID = ""
	for _, task := range tasks {
		t.byID[task.ID] = task
		t.totalBytes += task.Ref.Size
	}
	snap := t.snapshotLocked()
	t.mu.Unlock()

	t.broadcast(snap)
}

// reset clears the tracker back to idle
func (t *tracker) reset() {
	t.mu.Lock()
	t.status = SessionIdle
	t.tasks = nil
	t.byID = make(map[string]*FileTask)
	t.totalBytes = 0
	t.uploaded = 0
	t.pending, t.uploading, t.completed, t.failed, t.cancelled = 0, 0, 0, 0, 0
	t.currentFile = ""
	t.activeJobID = ""
	snap := t.snapshotLocked()
	t.mu.Unlock()

	t.broadcast(snap)
}

// compareAndSetStatus transitions the session to `to` only if it is
// currently in `from`, so a submission finishing concurrently can never be
// dragged back out of a terminal status.
func (t *tracker) compareAndSetStatus(from, to SessionStatus) bool {
	t.mu.Lock()
	if t.status != from {
		t.mu.Unlock()
		return false
	}
	t.status = to
	snap := t.snapshotLocked()
	t.mu.Unlock()

	t.broadcast(snap)
	return true
}

// finish marks the session complete unless it was already dismissed
func (t *tracker) finish() {
	t.mu.Lock()
	if t.status == SessionIdle {
		t.mu.Unlock()
		return
	}
	t.status = SessionComplete
	snap := t.snapshotLocked()
	t.mu.Unlock()

	t.broadcast(snap)
}

func (t *tracker) setCurrentFile(name string) {
	t.mu.Lock()
	t.currentFile = name
	snap := t.snapshotLocked()
	t.mu.Unlock()

	t.broadcast(snap)
}

func (t *tracker) setActiveJob(jobID string) {
	t.mu.Lock()
	t.activeJobID = jobID
	snap := t.snapshotLocked()
	t.mu.Unlock()

	t.broadcast(snap)
}

// taskUploading moves a pending task to uploading and makes it the current file
func (t *tracker) taskUploading(id string) {
	t.mu.Lock()
	task, ok := t.byID[id]
	if !ok || task.Status != TaskPending {
		t.mu.Unlock()
		return
	}
	task.Status = TaskUploading
	t.pending--
	t.uploading++
	t.currentFile = task.Ref.Name
	snap := t.snapshotLocked()
	t.mu.Unlock()

	t.broadcast(snap)
}

// taskBytes records absolute uploaded bytes for one task
func (t *tracker) taskBytes(id string, uploadedBytes int64) {
	t.mu.Lock()
	task, ok := t.byID[id]
	if !ok || task.Status.Terminal() {
		t.mu.Unlock()
		return
	}
	if uploadedBytes > task.Ref.Size {
		uploadedBytes = task.Ref.Size
	}
	t.uploaded += uploadedBytes - task.BytesUploaded
	task.BytesUploaded = uploadedBytes
	snap := t.snapshotLocked()
	t.mu.Unlock()

	t.broadcast(snap)
}

// taskCompleted marks a task completed. Late results for tasks that already
// reached a terminal status are discarded.
func (t *tracker) taskCompleted(id string) {
	t.terminate(id, TaskCompleted, "")
}

// taskFailed marks a task failed with the given message
func (t *tracker) taskFailed(id string, message string) {
	t.terminate(id, TaskFailed, message)
}

// taskCancelled marks a task cancelled
func (t *tracker) taskCancelled(id string) {
	t.terminate(id, TaskCancelled, "")
}

func (t *tracker) terminate(id string, status TaskStatus, message string) {
	t.mu.Lock()
	task, ok := t.byID[id]
	if !ok || task.Status.Terminal() {
		t.mu.Unlock()
		return
	}

	switch task.Status {
	case TaskPending:
		t.pending--
	case TaskUploading:
		t.uploading--
	}

	task.Status = status
	task.Error = message
	switch status {
	case TaskCompleted:
		t.completed++
		// a completed file is fully transferred regardless of what the
		// byte-level callbacks managed to report
		t.uploaded += task.Ref.Size - task.BytesUploaded
		task.BytesUploaded = task.Ref.Size
	case TaskFailed:
		t.failed++
	case TaskCancelled:
		t.cancelled++
	}
	snap := t.snapshotLocked()
	t.mu.Unlock()

	t.broadcast(snap)
}

// Snapshot returns an immutable copy of the session state
func (t *tracker) Snapshot() Session {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.snapshotLocked()
}

func (t *tracker) snapshotLocked() Session {
	tasks := make([]FileTask, len(t.tasks))
	for i, task := range t.tasks {
		tasks[i] = *task
	}
	return Session{
		Status:        t.status,
		TotalFiles:    len(t.tasks),
		TotalBytes:    t.totalBytes,
		Pending:       t.pending,
		Uploading:     t.uploading,
		Completed:     t.completed,
		Failed:        t.failed,
		Cancelled:     t.cancelled,
		UploadedBytes: t.uploaded,
		CurrentFile:   t.currentFile,
		ActiveJobID:   t.activeJobID,
		Tasks:         tasks,
	}
}

func (t *tracker) close() {
	t.eventMu.Lock()
	defer t.eventMu.Unlock()

	for _, sub := range t.eventSubs {
		close(sub)
	}
	t.eventSubs = make([]chan Session, 0)
}
