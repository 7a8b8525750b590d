// Package sync implements the background synchronization core: a
// cancellable polling loop that coordinates the three pending-update
// queues, serializes their remote submission, and merges fetched
// notifications into the shared state.
package sync

import (
	"context"
	"time"

	"github.com/nhle/notification-center/internal/event"
	"github.com/nhle/notification-center/internal/logger"
	"github.com/nhle/notification-center/internal/remote"
	"github.com/nhle/notification-center/internal/state"
)

// Options tunes a Controller.
type Options struct {
	// PollInterval paces the poll cycles. Zero means DefaultPollInterval.
	PollInterval time.Duration

	// Types optionally restricts incremental fetches to these
	// notification types.
	Types []string

	// Clock overrides the pacing clock. Nil means the system clock.
	Clock Clock

	// BusCapacity sizes the event buffer. Zero means 16.
	BusCapacity int
}

// Controller wires the supervisor, fetch controllers, and state
// reducer together around one event bus. It is the single consumer of
// the bus: every published event is folded into the state and, where
// needed, forwarded as a signal.
type Controller struct {
	state      *state.State
	fetcher    *Fetcher
	supervisor *Supervisor
	bus        *event.Bus
	types      []string
	log        *logger.Logger
}

// NewController builds the orchestration core for one user session.
func NewController(st *state.State, svc remote.Service, log *logger.Logger, opts Options) *Controller {
	clock := opts.Clock
	if clock == nil {
		clock = SystemClock{}
	}
	capacity := opts.BusCapacity
	if capacity <= 0 {
		capacity = 16
	}

	bus := event.NewBus(capacity)
	dispatcher := NewDispatcher(st, svc, bus, log)
	cycle := NewPollCycle(clock, opts.PollInterval, bus)

	return &Controller{
		state:      st,
		fetcher:    NewFetcher(st, svc, bus, log),
		supervisor: NewSupervisor(dispatcher, cycle, log),
		bus:        bus,
		types:      opts.Types,
		log:        log.WithComponent("controller"),
	}
}

// Fetcher exposes the fetch controllers for explicit external
// requests (initial full fetch, manual updates).
func (c *Controller) Fetcher() *Fetcher {
	return c.fetcher
}

// Run pumps the event bus and runs the supervisor until the session
// context is cancelled (logout). Buffered events are still applied
// after the supervisor terminates, so no published event is lost.
func (c *Controller) Run(ctx context.Context) {
	done := make(chan struct{})
	go func() {
		defer close(done)
		c.supervisor.Run(ctx)
	}()

	for {
		select {
		case ev := <-c.bus.Events():
			c.handle(ctx, ev)
		case <-done:
			for {
				select {
				case ev := <-c.bus.Events():
					c.handle(ctx, ev)
				default:
					return
				}
			}
		}
	}
}

// handle folds one event into the state and routes the signals the
// loop depends on.
func (c *Controller) handle(ctx context.Context, ev event.Event) {
	c.state.Apply(ctx, ev)

	switch e := ev.(type) {
	case event.FullSetReceived:
		c.log.Info("full set received", "count", len(e.Payload))
		c.supervisor.NotifyData()

	case event.IncrementalSetReceived:
		if len(e.Payload) > 0 {
			c.log.Info("incremental set received", "count", len(e.Payload))
		}
		c.supervisor.NotifyData()

	case event.FetchRequested:
		go c.fetcher.FetchSome(ctx, FetchSomeRequest{
			Types:     c.types,
			Direction: e.Direction,
		})

	case event.FullSetFetchFailed:
		c.log.Warn("full fetch failed", "error", e.Message)

	case event.IncrementalSetFetchFailed:
		// A failed incremental fetch still re-arms the loop so the
		// next cycle can retry; see DESIGN.md.
		c.log.Warn("incremental fetch failed", "error", e.Message)
		c.supervisor.NotifyData()

	case event.QueueSubmissionFailed:
		c.log.Warn("queue submission failed",
			"queue", e.Queue, "error", e.Message)

	case event.PollCancelled:
		c.log.Debug("poll cancelled")
	}
}
