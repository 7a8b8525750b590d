package sync

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/notification-center/internal/event"
	"github.com/nhle/notification-center/internal/model"
)

func TestPollCycle_WaitElapses(t *testing.T) {
	bus := event.NewBus(16)
	clock := newFakeClock()
	cycle := NewPollCycle(clock, 5*time.Second, bus)

	outcomeCh := make(chan PollOutcome, 1)
	go func() {
		outcomeCh <- cycle.Run(context.Background())
	}()

	call := <-clock.waits
	assert.Equal(t, 5*time.Second, call.d)
	close(call.release)

	select {
	case outcome := <-outcomeCh:
		assert.Equal(t, OutcomeRequested, outcome)
	case <-time.After(time.Second):
		t.Fatal("poll cycle did not finish")
	}

	evs := drainEvents(bus)
	require.Len(t, evs, 1)
	requested, ok := evs[0].(event.FetchRequested)
	require.True(t, ok, "expected FetchRequested, got %T", evs[0])
	assert.Equal(t, model.DirectionAfter, requested.Direction)
}

func TestPollCycle_Interrupted(t *testing.T) {
	bus := event.NewBus(16)
	clock := newFakeClock()
	cycle := NewPollCycle(clock, 5*time.Second, bus)

	ctx, cancel := context.WithCancel(context.Background())
	outcomeCh := make(chan PollOutcome, 1)
	go func() {
		outcomeCh <- cycle.Run(ctx)
	}()

	<-clock.waits
	cancel()

	select {
	case outcome := <-outcomeCh:
		assert.Equal(t, OutcomeCancelled, outcome)
	case <-time.After(time.Second):
		t.Fatal("interrupted cycle did not finish")
	}

	evs := drainEvents(bus)
	require.Len(t, evs, 1)
	cancelled, ok := evs[0].(event.PollCancelled)
	require.True(t, ok, "expected PollCancelled, got %T", evs[0])
	assert.Equal(t, "poll cancelled", cancelled.Message)
}

func TestPollCycle_DefaultInterval(t *testing.T) {
	bus := event.NewBus(16)
	clock := newFakeClock()
	cycle := NewPollCycle(clock, 0, bus)

	go cycle.Run(context.Background())

	call := <-clock.waits
	assert.Equal(t, DefaultPollInterval, call.d)
	close(call.release)
}
