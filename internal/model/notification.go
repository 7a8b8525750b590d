package model

import "time"

// NotifyType classifies a notification by the kind of activity
// that produced it.
type NotifyType string

// Direction selects which side of the cursor an incremental
// fetch pages toward.
type Direction string

const (
	// DirectionBefore pages backward for older items, bounded by
	// the creation time of the oldest known notification.
	DirectionBefore Direction = "before"

	// DirectionAfter pages forward for items changed since the
	// most recent known update.
	DirectionAfter Direction = "after"
)

// Notification is a single item in the user's notification feed.
// Records are immutable once merged except for the read/shown flags
// and the updated timestamp, which change as queue drains complete.
type Notification struct {
	// ID is the unique identifier assigned by the remote service.
	ID string `json:"id"`

	// NotifyType identifies the kind of activity behind this item.
	NotifyType NotifyType `json:"notify_type"`

	// Created is when the notification was generated remotely.
	Created time.Time `json:"created"`

	// Updated is when the notification last changed remotely.
	Updated time.Time `json:"updated"`

	// Read indicates whether the user has read this notification.
	Read bool `json:"read"`

	// Shown indicates whether this notification has been surfaced
	// to the user at least once.
	Shown bool `json:"shown"`
}

// StatusChange describes the local transition applied when a pending
// queue is drained successfully. Nil fields are left untouched.
type StatusChange struct {
	Read  *bool `json:"read,omitempty"`
	Shown *bool `json:"shown,omitempty"`
}

// MarkRead returns a StatusChange that sets the read flag.
func MarkRead(read bool) StatusChange {
	return StatusChange{Read: &read}
}

// MarkShown returns a StatusChange that sets the shown flag.
func MarkShown(shown bool) StatusChange {
	return StatusChange{Shown: &shown}
}

// Queue returns the pending-queue name this change drains:
// "read", "unread", or "shown". An empty change has no queue.
func (c StatusChange) Queue() string {
	switch {
	case c.Read != nil && *c.Read:
		return "read"
	case c.Read != nil:
		return "unread"
	case c.Shown != nil:
		return "shown"
	}
	return ""
}

// MarksRead reports whether the change sets the read flag to true.
func (c StatusChange) MarksRead() bool {
	return c.Read != nil && *c.Read
}

// ApplyTo returns a copy of n with the change applied.
func (c StatusChange) ApplyTo(n Notification) Notification {
	if c.Read != nil {
		n.Read = *c.Read
	}
	if c.Shown != nil {
		n.Shown = *c.Shown
	}
	return n
}
