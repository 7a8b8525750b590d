package state

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/notification-center/internal/event"
	"github.com/nhle/notification-center/internal/journal"
	"github.com/nhle/notification-center/internal/logger"
	"github.com/nhle/notification-center/internal/model"
)

func newMemoryState(t *testing.T) *State {
	t.Helper()
	return New("basil", nil, logger.Discard())
}

func notif(id string, created, updated time.Time) model.Notification {
	return model.Notification{
		ID:         id,
		NotifyType: "message",
		Created:    created,
		Updated:    updated,
	}
}

func TestState_MergeAndSnapshotOrder(t *testing.T) {
	st := newMemoryState(t)
	ctx := context.Background()
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	st.Apply(ctx, event.FullSetReceived{Payload: []model.Notification{
		notif("old", base, base),
		notif("new", base.Add(2*time.Hour), base.Add(2*time.Hour)),
		notif("mid", base.Add(time.Hour), base.Add(time.Hour)),
	}})

	snapshot := st.Snapshot()
	require.Len(t, snapshot, 3)
	assert.Equal(t, "new", snapshot[0].ID)
	assert.Equal(t, "mid", snapshot[1].ID)
	assert.Equal(t, "old", snapshot[2].ID, "snapshot must be reverse-sorted by creation")
}

func TestState_MergeUpserts(t *testing.T) {
	st := newMemoryState(t)
	ctx := context.Background()
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	st.Apply(ctx, event.FullSetReceived{Payload: []model.Notification{
		notif("n1", base, base),
	}})

	updated := notif("n1", base, base.Add(time.Hour))
	updated.Read = true
	st.Apply(ctx, event.NotificationsMerged{Payload: []model.Notification{updated}})

	require.Equal(t, 1, st.Len())
	n, ok := st.Get("n1")
	require.True(t, ok)
	assert.True(t, n.Read)
	assert.True(t, n.Updated.Equal(base.Add(time.Hour)))
}

func TestState_PendingQueues(t *testing.T) {
	st := newMemoryState(t)
	ctx := context.Background()

	require.NoError(t, st.MarkRead(ctx, "b", "a"))
	require.NoError(t, st.MarkRead(ctx, "a")) // duplicates collapse
	require.NoError(t, st.MarkUnread(ctx, "c"))
	require.NoError(t, st.MarkShown(ctx, "d"))

	assert.Equal(t, []string{"a", "b"}, st.Pending(journal.QueueRead))
	assert.Equal(t, []string{"c"}, st.Pending(journal.QueueUnread))
	assert.Equal(t, []string{"d"}, st.Pending(journal.QueueShown))
}

func TestState_ConfirmClearsQueueAndAppliesTransition(t *testing.T) {
	st := newMemoryState(t)
	ctx := context.Background()
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	st.Apply(ctx, event.FullSetReceived{Payload: []model.Notification{
		notif("n1", base, base),
		notif("n2", base, base),
	}})
	require.NoError(t, st.MarkRead(ctx, "n1", "n2", "n3"))

	// Only n1 and n2 were part of the drained snapshot.
	st.Apply(ctx, event.QueueSubmissionSucceeded{
		Change: model.MarkRead(true),
		IDs:    []string{"n1", "n2"},
	})

	assert.Equal(t, []string{"n3"}, st.Pending(journal.QueueRead),
		"IDs outside the confirmed snapshot stay queued")

	n1, _ := st.Get("n1")
	n2, _ := st.Get("n2")
	assert.True(t, n1.Read)
	assert.True(t, n2.Read)
}

func TestState_FailedSubmissionKeepsQueue(t *testing.T) {
	st := newMemoryState(t)
	ctx := context.Background()

	require.NoError(t, st.MarkShown(ctx, "n1"))
	st.Apply(ctx, event.QueueSubmissionFailed{Queue: journal.QueueShown, Message: "nope"})

	assert.Equal(t, []string{"n1"}, st.Pending(journal.QueueShown),
		"failure must not clear the queue")
}

func TestState_JournalRoundTrip(t *testing.T) {
	jnl, err := journal.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { jnl.Close() })

	ctx := context.Background()
	st := New("basil", jnl, logger.Discard())
	require.NoError(t, st.MarkRead(ctx, "n1"))
	require.NoError(t, st.MarkShown(ctx, "n2"))

	// A fresh state over the same journal restores the pending marks.
	restored := New("basil", jnl, logger.Discard())
	require.NoError(t, restored.Restore(ctx))
	assert.Equal(t, []string{"n1"}, restored.Pending(journal.QueueRead))
	assert.Equal(t, []string{"n2"}, restored.Pending(journal.QueueShown))

	// Confirmation clears the journal too.
	restored.Apply(ctx, event.QueueSubmissionSucceeded{
		Change: model.MarkRead(true),
		IDs:    []string{"n1"},
	})

	again := New("basil", jnl, logger.Discard())
	require.NoError(t, again.Restore(ctx))
	assert.Empty(t, again.Pending(journal.QueueRead))
	assert.Equal(t, []string{"n2"}, again.Pending(journal.QueueShown))
}

func TestState_IgnoredEvents(t *testing.T) {
	st := newMemoryState(t)
	ctx := context.Background()

	st.Apply(ctx, event.PollCancelled{Message: "poll cancelled"})
	st.Apply(ctx, event.FetchRequested{Direction: model.DirectionAfter})
	st.Apply(ctx, event.FullSetFetchFailed{Message: "x"})

	assert.Zero(t, st.Len())
}
