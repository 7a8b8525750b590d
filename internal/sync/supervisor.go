package sync

import (
	"context"

	"github.com/nhle/notification-center/internal/logger"
)

// Supervisor is the top-level control loop for one user session:
// await a received notification set, drain the pending queues, then
// race a single poll cycle against session cancellation. It loops
// until the session context is cancelled and never has two poll
// cycles in flight at once.
type Supervisor struct {
	dispatcher *Dispatcher
	cycle      *PollCycle
	log        *logger.Logger

	// dataCh is signalled when a full or incremental set arrives.
	// Capacity one: signals received while dispatching coalesce.
	dataCh chan struct{}
}

// NewSupervisor creates a supervisor over the given dispatcher and
// poll cycle.
func NewSupervisor(dispatcher *Dispatcher, cycle *PollCycle, log *logger.Logger) *Supervisor {
	return &Supervisor{
		dispatcher: dispatcher,
		cycle:      cycle,
		log:        log.WithComponent("supervisor"),
		dataCh:     make(chan struct{}, 1),
	}
}

// NotifyData signals that a full or incremental notification set was
// received. Never blocks; a signal already pending is enough.
func (s *Supervisor) NotifyData() {
	select {
	case s.dataCh <- struct{}{}:
	default:
	}
}

// Run blocks until the session context is cancelled. Cancellation
// while racing interrupts the clock wait promptly, so no fetch request
// is emitted after the race resolves.
func (s *Supervisor) Run(ctx context.Context) {
	s.log.Info("supervisor started")

	for {
		// AwaitingInitialOrIncrementalData
		select {
		case <-ctx.Done():
			s.log.Info("supervisor terminated")
			return
		case <-s.dataCh:
		}

		// Dispatching: all three drains finish or no-op before the race.
		s.dispatcher.Dispatch(ctx)

		// Racing: one new poll cycle against session cancellation.
		if s.cycle.Run(ctx) == OutcomeCancelled {
			s.log.Info("supervisor terminated")
			return
		}
	}
}
