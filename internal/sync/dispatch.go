package sync

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/nhle/notification-center/internal/event"
	"github.com/nhle/notification-center/internal/journal"
	"github.com/nhle/notification-center/internal/logger"
	"github.com/nhle/notification-center/internal/model"
	"github.com/nhle/notification-center/internal/remote"
	"github.com/nhle/notification-center/internal/state"
)

// Dispatcher runs the three queue drains once per trigger. The drains
// run concurrently with no ordering between them, and each is an
// independent unit of failure: one queue's error never blocks or
// cancels the other two.
type Dispatcher struct {
	drainers []*Drainer
}

// NewDispatcher wires a drainer per pending queue against the state
// accessors and the matching remote submission operations.
func NewDispatcher(
	st *state.State,
	svc remote.Service,
	bus *event.Bus,
	log *logger.Logger,
) *Dispatcher {
	return &Dispatcher{
		drainers: []*Drainer{
			NewDrainer(
				func() []string { return st.Pending(journal.QueueRead) },
				svc.MarkRead,
				model.MarkRead(true),
				bus, log,
			),
			NewDrainer(
				func() []string { return st.Pending(journal.QueueUnread) },
				svc.MarkUnread,
				model.MarkRead(false),
				bus, log,
			),
			NewDrainer(
				func() []string { return st.Pending(journal.QueueShown) },
				svc.MarkShown,
				model.MarkShown(true),
				bus, log,
			),
		},
	}
}

// Dispatch runs all drains to completion. Drains on empty queues
// resolve immediately without network calls or events.
func (d *Dispatcher) Dispatch(ctx context.Context) {
	var g errgroup.Group
	for _, drainer := range d.drainers {
		drainer := drainer
		g.Go(func() error {
			drainer.Drain(ctx)
			return nil
		})
	}
	// Drain outcomes surface as events; nothing to return here.
	_ = g.Wait()
}
