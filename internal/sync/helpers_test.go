package sync

import (
	"context"
	gosync "sync"
	"time"

	"github.com/nhle/notification-center/internal/event"
	"github.com/nhle/notification-center/internal/logger"
	"github.com/nhle/notification-center/internal/model"
	"github.com/nhle/notification-center/internal/remote"
)

// fakeService is a scriptable remote.Service that records every call.
type fakeService struct {
	mu gosync.Mutex

	fetchAllFn  func(username string) ([]model.Notification, error)
	fetchSomeFn func(params remote.FetchSomeParams) ([]model.Notification, error)
	markReadFn  func(ids []string) ([]model.Notification, error)
	markUnread  func(ids []string) ([]model.Notification, error)
	markShownFn func(ids []string) ([]model.Notification, error)

	fetchAllCalls  []string
	fetchSomeCalls []remote.FetchSomeParams
	readBatches    [][]string
	unreadBatches  [][]string
	shownBatches   [][]string
}

func (f *fakeService) FetchAll(ctx context.Context, username string) ([]model.Notification, error) {
	f.mu.Lock()
	f.fetchAllCalls = append(f.fetchAllCalls, username)
	fn := f.fetchAllFn
	f.mu.Unlock()
	if fn == nil {
		return nil, nil
	}
	return fn(username)
}

func (f *fakeService) FetchSome(ctx context.Context, params remote.FetchSomeParams) ([]model.Notification, error) {
	f.mu.Lock()
	f.fetchSomeCalls = append(f.fetchSomeCalls, params)
	fn := f.fetchSomeFn
	f.mu.Unlock()
	if fn == nil {
		return nil, nil
	}
	return fn(params)
}

func (f *fakeService) MarkRead(ctx context.Context, ids []string) ([]model.Notification, error) {
	f.mu.Lock()
	f.readBatches = append(f.readBatches, append([]string(nil), ids...))
	fn := f.markReadFn
	f.mu.Unlock()
	if fn == nil {
		return nil, nil
	}
	return fn(ids)
}

func (f *fakeService) MarkUnread(ctx context.Context, ids []string) ([]model.Notification, error) {
	f.mu.Lock()
	f.unreadBatches = append(f.unreadBatches, append([]string(nil), ids...))
	fn := f.markUnread
	f.mu.Unlock()
	if fn == nil {
		return nil, nil
	}
	return fn(ids)
}

func (f *fakeService) MarkShown(ctx context.Context, ids []string) ([]model.Notification, error) {
	f.mu.Lock()
	f.shownBatches = append(f.shownBatches, append([]string(nil), ids...))
	fn := f.markShownFn
	f.mu.Unlock()
	if fn == nil {
		return nil, nil
	}
	return fn(ids)
}

func (f *fakeService) calls() (fetchAll []string, fetchSome []remote.FetchSomeParams) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.fetchAllCalls...),
		append([]remote.FetchSomeParams(nil), f.fetchSomeCalls...)
}

// waitCall is one pending Wait on a fakeClock; the test decides when
// (and whether) it elapses.
type waitCall struct {
	d       time.Duration
	release chan struct{}
}

// fakeClock hands control of every Wait to the test.
type fakeClock struct {
	waits chan waitCall
}

func newFakeClock() *fakeClock {
	return &fakeClock{waits: make(chan waitCall, 4)}
}

func (c *fakeClock) Wait(ctx context.Context, d time.Duration) error {
	call := waitCall{d: d, release: make(chan struct{})}
	select {
	case c.waits <- call:
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case <-call.release:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// drainEvents returns everything currently buffered on the bus.
func drainEvents(bus *event.Bus) []event.Event {
	var evs []event.Event
	for {
		select {
		case ev := <-bus.Events():
			evs = append(evs, ev)
		default:
			return evs
		}
	}
}

// nextEvent blocks for the next event or fails the wait with a nil.
func nextEvent(bus *event.Bus, timeout time.Duration) event.Event {
	select {
	case ev := <-bus.Events():
		return ev
	case <-time.After(timeout):
		return nil
	}
}

func testLogger() *logger.Logger {
	return logger.Discard()
}

func notif(id string, created, updated time.Time) model.Notification {
	return model.Notification{
		ID:         id,
		NotifyType: "message",
		Created:    created,
		Updated:    updated,
	}
}
