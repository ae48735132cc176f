package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func beginTasks(t *tracker, refs int, size int64) []*FileTask {
	tasks := make([]*FileTask, refs)
	for i, ref := range makeRefs(refs, size) {
		tasks[i] = newFileTask(ref)
	}
	t.begin(tasks)
	return tasks
}

func assertInvariants(t *testing.T, snap Session) {
	t.Helper()
	assert.LessOrEqual(t, snap.Completed+snap.Failed+snap.Cancelled, snap.TotalFiles)
	assert.LessOrEqual(t, snap.UploadedBytes, snap.TotalBytes)
	assert.GreaterOrEqual(t, snap.Pending, 0)
	assert.GreaterOrEqual(t, snap.Uploading, 0)
}

func TestTracker_TransitionsAndCounts(t *testing.T) {
	tr := newTracker()
	tasks := beginTasks(tr, 3, 100)

	snap := tr.Snapshot()
	assert.Equal(t, SessionUploading, snap.Status)
	assert.Equal(t, 3, snap.Pending)
	assert.Equal(t, int64(300), snap.TotalBytes)
	assertInvariants(t, snap)

	tr.taskUploading(tasks[0].ID)
	snap = tr.Snapshot()
	assert.Equal(t, 2, snap.Pending)
	assert.Equal(t, 1, snap.Uploading)
	assert.Equal(t, tasks[0].Ref.Name, snap.CurrentFile)
	assertInvariants(t, snap)

	tr.taskBytes(tasks[0].ID, 40)
	assert.Equal(t, int64(40), tr.Snapshot().UploadedBytes)

	tr.taskCompleted(tasks[0].ID)
	snap = tr.Snapshot()
	assert.Equal(t, 1, snap.Completed)
	assert.Equal(t, 0, snap.Uploading)
	assert.Equal(t, int64(100), snap.UploadedBytes, "completion accounts the full file size")
	assertInvariants(t, snap)

	tr.taskUploading(tasks[1].ID)
	tr.taskFailed(tasks[1].ID, "boom")
	tr.taskCancelled(tasks[2].ID)
	snap = tr.Snapshot()
	assert.Equal(t, 1, snap.Completed)
	assert.Equal(t, 1, snap.Failed)
	assert.Equal(t, 1, snap.Cancelled)
	assert.Equal(t, 0, snap.Pending)
	assert.True(t, snap.Done())
	assertInvariants(t, snap)

	for _, task := range snap.Tasks {
		if task.Status == TaskFailed {
			assert.Equal(t, "boom", task.Error)
		}
	}
}

func TestTracker_LateResultDiscardedAfterTerminal(t *testing.T) {
	tr := newTracker()
	tasks := beginTasks(tr, 1, 100)

	tr.taskUploading(tasks[0].ID)
	tr.taskCancelled(tasks[0].ID)

	// a request that could not be aborted finishes late; its result is
	// discarded in favor of the cancelled status
	tr.taskCompleted(tasks[0].ID)
	tr.taskBytes(tasks[0].ID, 100)

	snap := tr.Snapshot()
	assert.Equal(t, 1, snap.Cancelled)
	assert.Equal(t, 0, snap.Completed)
	assert.Equal(t, int64(0), snap.UploadedBytes)
	assertInvariants(t, snap)
}

func TestTracker_BytesClampedToFileSize(t *testing.T) {
	tr := newTracker()
	tasks := beginTasks(tr, 1, 50)

	tr.taskUploading(tasks[0].ID)
	tr.taskBytes(tasks[0].ID, 500)

	snap := tr.Snapshot()
	assert.Equal(t, int64(50), snap.UploadedBytes)
	assertInvariants(t, snap)
}

func TestTracker_ResetReturnsToIdle(t *testing.T) {
	tr := newTracker()
	tasks := beginTasks(tr, 4, 10)
	tr.taskUploading(tasks[0].ID)
	tr.taskCompleted(tasks[0].ID)
	tr.taskFailed(tasks[1].ID, "boom")
	tr.taskCancelled(tasks[2].ID)

	tr.reset()
	snap := tr.Snapshot()
	assert.Equal(t, SessionIdle, snap.Status)
	assert.Equal(t, 0, snap.TotalFiles)
	assert.Equal(t, 0, snap.Pending)
	assert.Equal(t, 0, snap.Uploading)
	assert.Equal(t, 0, snap.Completed)
	assert.Equal(t, 0, snap.Failed)
	assert.Equal(t, 0, snap.Cancelled)
	assert.Equal(t, int64(0), snap.UploadedBytes)
}

func TestTracker_SubscribeReceivesSnapshots(t *testing.T) {
	tr := newTracker()
	ch := tr.Subscribe()

	tasks := beginTasks(tr, 1, 10)
	tr.taskUploading(tasks[0].ID)
	tr.taskCompleted(tasks[0].ID)

	// begin, uploading and completed each broadcast one snapshot
	var last Session
	for range 3 {
		last = <-ch
	}
	require.Equal(t, 1, last.TotalFiles)
	require.Equal(t, 1, last.Completed)

	tr.Unsubscribe(ch)
	_, open := <-ch
	assert.False(t, open, "unsubscribed channel must be closed")
}

func TestTracker_CompareAndSetStatus(t *testing.T) {
	tr := newTracker()
	beginTasks(tr, 1, 10)

	assert.True(t, tr.compareAndSetStatus(SessionUploading, SessionPaused))
	assert.Equal(t, SessionPaused, tr.Snapshot().Status)

	// the submission finished in the meantime; a stale transition must not
	// drag the session back out of the terminal status
	tr.finish()
	assert.False(t, tr.compareAndSetStatus(SessionUploading, SessionPaused))
	assert.False(t, tr.compareAndSetStatus(SessionPaused, SessionUploading))
	assert.Equal(t, SessionComplete, tr.Snapshot().Status)
}

func TestTracker_FinishAfterDismissIsNoop(t *testing.T) {
	tr := newTracker()
	beginTasks(tr, 1, 10)

	tr.reset()
	tr.finish()

	assert.Equal(t, SessionIdle, tr.Snapshot().Status)
}
