// Package event defines the signals the sync orchestrator publishes
// for the surrounding state container to consume.
package event

import "github.com/nhle/notification-center/internal/model"

// Event is the common type for everything published on the Bus.
// Concrete events are small value structs; consumers type-switch.
type Event interface {
	event()
}

// FullSetReceived carries the complete notification set for the user.
type FullSetReceived struct {
	Payload []model.Notification
}

// FullSetFetchFailed reports a failed full fetch.
type FullSetFetchFailed struct {
	Message string
}

// IncrementalSetReceived carries notifications fetched past a cursor.
type IncrementalSetReceived struct {
	Payload []model.Notification
}

// IncrementalSetFetchFailed reports a failed incremental fetch.
type IncrementalSetFetchFailed struct {
	Message string
}

// QueueSubmissionSucceeded reports that one pending queue's snapshot
// was accepted by the remote service. It is always published strictly
// before the NotificationsMerged event carrying the response payload,
// so consumers can tell a submission echo from an unrelated fetch.
type QueueSubmissionSucceeded struct {
	Change model.StatusChange
	IDs    []string
}

// QueueSubmissionFailed reports that one pending queue's submission
// was rejected or failed. The attempted IDs stay queued.
type QueueSubmissionFailed struct {
	Queue   string
	Message string
}

// NotificationsMerged proposes merging updated records into the store.
type NotificationsMerged struct {
	Payload []model.Notification
}

// PollCancelled reports that a poll cycle was interrupted before its
// wait elapsed. A normal teardown outcome, not an error.
type PollCancelled struct {
	Message string
}

// FetchRequested asks the fetch controller for an incremental fetch.
type FetchRequested struct {
	Direction model.Direction
}

func (FullSetReceived) event()           {}
func (FullSetFetchFailed) event()        {}
func (IncrementalSetReceived) event()    {}
func (IncrementalSetFetchFailed) event() {}
func (QueueSubmissionSucceeded) event()  {}
func (QueueSubmissionFailed) event()     {}
func (NotificationsMerged) event()       {}
func (PollCancelled) event()             {}
func (FetchRequested) event()            {}
