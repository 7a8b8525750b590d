package sync

import (
	"context"

	"github.com/nhle/notification-center/internal/event"
	"github.com/nhle/notification-center/internal/logger"
	"github.com/nhle/notification-center/internal/model"
)

// DrainOutcome is the terminal result of one drain invocation.
type DrainOutcome int

const (
	// DrainSkipped means the queue was empty: no network call, no events.
	DrainSkipped DrainOutcome = iota

	// DrainSucceeded means the snapshot was accepted by the remote
	// service and the success events were published.
	DrainSucceeded

	// DrainFailed means the submission errored; the attempted IDs
	// stay queued for the next cycle.
	DrainFailed
)

// submitFunc sends an ordered list of IDs to the remote service and
// returns the updated records.
type submitFunc func(ctx context.Context, ids []string) ([]model.Notification, error)

// Drainer drains one pending-update queue: it snapshots the queue,
// submits the snapshot once, and publishes the resulting transition.
// Exactly one attempt per invocation; retry belongs to later cycles.
type Drainer struct {
	snapshot func() []string
	submit   submitFunc
	change   model.StatusChange
	bus      *event.Bus
	log      *logger.Logger
}

// NewDrainer creates a drainer for the queue implied by change.
func NewDrainer(
	snapshot func() []string,
	submit submitFunc,
	change model.StatusChange,
	bus *event.Bus,
	log *logger.Logger,
) *Drainer {
	return &Drainer{
		snapshot: snapshot,
		submit:   submit,
		change:   change,
		bus:      bus,
		log:      log.WithComponent("drain_" + change.Queue()),
	}
}

// Drain performs one snapshot-submit-publish sequence. IDs added to
// the queue while the submission is in flight are not part of the
// snapshot and remain pending.
func (d *Drainer) Drain(ctx context.Context) DrainOutcome {
	ids := d.snapshot()
	if len(ids) == 0 {
		return DrainSkipped
	}

	payload, err := d.submit(ctx, ids)
	if err != nil {
		d.log.Warn("queue submission failed",
			"queue", d.change.Queue(),
			"ids", len(ids),
			"error", err)
		d.bus.Publish(event.QueueSubmissionFailed{
			Queue:   d.change.Queue(),
			Message: err.Error(),
		})
		return DrainFailed
	}

	// The transition must be observable before the merged records so
	// consumers can tell a submission echo from an unrelated fetch.
	d.bus.Publish(event.QueueSubmissionSucceeded{Change: d.change, IDs: ids})
	d.bus.Publish(event.NotificationsMerged{Payload: payload})

	d.log.Debug("queue drained",
		"queue", d.change.Queue(),
		"submitted", len(ids),
		"merged", len(payload))
	return DrainSucceeded
}
