package sync

import (
	"time"

	"github.com/nhle/notification-center/internal/model"
)

// SelectCursor chooses the timestamp boundary for the next incremental
// fetch. The notifications must be reverse-sorted by creation time, as
// returned by the state Snapshot. Returns false for an empty set: the
// fetch is then unbounded.
//
// "before" pages backward for older items, so the cursor is the
// creation time of the last (earliest-created) element. "after" pages
// forward for anything changed since the last known state, so the
// cursor is the maximum updated time across the set.
func SelectCursor(direction model.Direction, notifications []model.Notification) (time.Time, bool) {
	if len(notifications) == 0 {
		return time.Time{}, false
	}

	if direction == model.DirectionBefore {
		return notifications[len(notifications)-1].Created, true
	}

	latest := notifications[0].Updated
	for _, n := range notifications[1:] {
		if n.Updated.After(latest) {
			latest = n.Updated
		}
	}
	return latest, true
}
