package sync

import (
	"context"
	"time"

	"github.com/nhle/notification-center/internal/event"
	"github.com/nhle/notification-center/internal/model"
)

// DefaultPollInterval is how long a poll cycle waits before requesting
// the next incremental fetch.
const DefaultPollInterval = 5 * time.Second

// PollOutcome is the terminal result of one poll cycle.
type PollOutcome int

const (
	// OutcomeRequested means the wait elapsed and an incremental
	// fetch was requested.
	OutcomeRequested PollOutcome = iota

	// OutcomeCancelled means the wait was interrupted by session
	// teardown before it elapsed.
	OutcomeCancelled
)

// PollCycle is the unit the supervisor races against cancellation:
// one wait, then either a fetch request or a cancellation notice.
type PollCycle struct {
	clock    Clock
	interval time.Duration
	bus      *event.Bus
}

// NewPollCycle creates a poll cycle with the given pacing clock.
// A non-positive interval falls back to DefaultPollInterval.
func NewPollCycle(clock Clock, interval time.Duration, bus *event.Bus) *PollCycle {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &PollCycle{clock: clock, interval: interval, bus: bus}
}

// Run waits out the interval and publishes FetchRequested("after").
// If ctx is cancelled during the wait it publishes PollCancelled
// instead; the interrupted wait never emits a late fetch request.
func (p *PollCycle) Run(ctx context.Context) PollOutcome {
	if err := p.clock.Wait(ctx, p.interval); err != nil {
		p.bus.Publish(event.PollCancelled{Message: "poll cancelled"})
		return OutcomeCancelled
	}

	p.bus.Publish(event.FetchRequested{Direction: model.DirectionAfter})
	return OutcomeRequested
}
