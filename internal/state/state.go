// Package state owns the shared notification map and the three
// pending-update queues. The orchestrator reads it through accessors
// and mutates it only by applying published events, so every change
// flows through one reducer.
package state

import (
	"context"
	"sort"
	"sync"

	"github.com/nhle/notification-center/internal/event"
	"github.com/nhle/notification-center/internal/journal"
	"github.com/nhle/notification-center/internal/logger"
	"github.com/nhle/notification-center/internal/model"
)

// State is the application state container for one user session.
// All methods are safe for concurrent use; no lock is held across a
// suspension point.
type State struct {
	mu            sync.RWMutex
	username      string
	notifications map[string]model.Notification
	pending       map[string]map[string]struct{} // queue name → pending IDs

	journal *journal.Journal // nil disables persistence of pending marks
	log     *logger.Logger
}

// New creates an empty state container for the given username.
// The journal may be nil for memory-only operation.
func New(username string, jnl *journal.Journal, log *logger.Logger) *State {
	return &State{
		username:      username,
		notifications: make(map[string]model.Notification),
		pending: map[string]map[string]struct{}{
			journal.QueueRead:   {},
			journal.QueueUnread: {},
			journal.QueueShown:  {},
		},
		journal: jnl,
		log:     log.WithComponent("state"),
	}
}

// Restore reloads journaled pending marks into the queues, typically
// once at startup before the supervisor runs.
func (s *State) Restore(ctx context.Context) error {
	if s.journal == nil {
		return nil
	}

	marks, err := s.journal.Load(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for queue, ids := range marks {
		set, ok := s.pending[queue]
		if !ok {
			s.log.Warn("dropping journaled marks for unknown queue", "queue", queue)
			continue
		}
		for _, id := range ids {
			set[id] = struct{}{}
		}
	}
	return nil
}

// Username returns the feed owner.
func (s *State) Username() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.username
}

// Get returns the notification with the given ID, if known.
func (s *State) Get(id string) (model.Notification, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n, ok := s.notifications[id]
	return n, ok
}

// Len returns the number of known notifications.
func (s *State) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.notifications)
}

// Snapshot returns the known notifications reverse-sorted by creation
// time (newest first), the order cursor derivation is defined over.
func (s *State) Snapshot() []model.Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ns := make([]model.Notification, 0, len(s.notifications))
	for _, n := range s.notifications {
		ns = append(ns, n)
	}
	sort.Slice(ns, func(i, j int) bool {
		if !ns[i].Created.Equal(ns[j].Created) {
			return ns[i].Created.After(ns[j].Created)
		}
		return ns[i].ID < ns[j].ID
	})
	return ns
}

// Pending returns a sorted snapshot of one pending queue. The snapshot
// is what a drain submits; IDs added afterwards wait for the next cycle.
func (s *State) Pending(queue string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	set := s.pending[queue]
	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// MarkRead queues notification IDs for a remote read submission.
func (s *State) MarkRead(ctx context.Context, ids ...string) error {
	return s.enqueue(ctx, journal.QueueRead, ids)
}

// MarkUnread queues notification IDs for a remote unread submission.
func (s *State) MarkUnread(ctx context.Context, ids ...string) error {
	return s.enqueue(ctx, journal.QueueUnread, ids)
}

// MarkShown queues notification IDs for a remote shown submission.
func (s *State) MarkShown(ctx context.Context, ids ...string) error {
	return s.enqueue(ctx, journal.QueueShown, ids)
}

// enqueue adds IDs to one pending queue and journals them. The journal
// write happens outside the lock; the in-memory set is authoritative.
func (s *State) enqueue(ctx context.Context, queue string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	s.mu.Lock()
	set := s.pending[queue]
	for _, id := range ids {
		set[id] = struct{}{}
	}
	s.mu.Unlock()

	if s.journal != nil {
		if err := s.journal.Record(ctx, queue, ids); err != nil {
			return err
		}
	}
	return nil
}

// Apply is the reducer: it folds one published event into the state.
// Events that carry no state change are ignored.
func (s *State) Apply(ctx context.Context, ev event.Event) {
	switch e := ev.(type) {
	case event.FullSetReceived:
		s.merge(e.Payload)
	case event.IncrementalSetReceived:
		s.merge(e.Payload)
	case event.NotificationsMerged:
		s.merge(e.Payload)
	case event.QueueSubmissionSucceeded:
		s.confirm(ctx, e.Change, e.IDs)
	}
}

// merge upserts remote records into the notification map.
func (s *State) merge(payload []model.Notification) {
	if len(payload) == 0 {
		return
	}

	s.mu.Lock()
	for _, n := range payload {
		s.notifications[n.ID] = n
	}
	s.mu.Unlock()

	s.log.Debug("merged notifications", "count", len(payload))
}

// confirm removes confirmed IDs from the drained queue and applies the
// transition to any locally-known records. Failed submissions never
// reach here, so their IDs stay queued for the next cycle.
func (s *State) confirm(ctx context.Context, change model.StatusChange, ids []string) {
	queue := change.Queue()
	if queue == "" {
		return
	}

	s.mu.Lock()
	set := s.pending[queue]
	for _, id := range ids {
		delete(set, id)
		if n, ok := s.notifications[id]; ok {
			s.notifications[id] = change.ApplyTo(n)
		}
	}
	s.mu.Unlock()

	if s.journal != nil {
		if err := s.journal.Clear(ctx, queue, ids); err != nil {
			s.log.Warn("clearing journaled marks failed",
				"queue", queue, "error", err)
		}
	}
}
