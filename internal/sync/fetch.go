package sync

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/nhle/notification-center/internal/event"
	"github.com/nhle/notification-center/internal/journal"
	"github.com/nhle/notification-center/internal/logger"
	"github.com/nhle/notification-center/internal/model"
	"github.com/nhle/notification-center/internal/remote"
	"github.com/nhle/notification-center/internal/state"
)

// FetchSomeRequest asks for an incremental fetch, optionally filtered
// to a set of notification types. An empty direction means "after".
type FetchSomeRequest struct {
	Types     []string
	Direction model.Direction
}

// Fetcher runs the full and incremental fetch controllers. Concurrent
// requests of the same kind are de-duplicated with generation
// counters: only the latest request's result is honored, superseded
// in-flight responses are dropped without events.
type Fetcher struct {
	state   *state.State
	service remote.Service
	bus     *event.Bus
	log     *logger.Logger

	allGen  atomic.Uint64
	someGen atomic.Uint64
}

// NewFetcher creates a fetcher over the given state and remote service.
func NewFetcher(st *state.State, svc remote.Service, bus *event.Bus, log *logger.Logger) *Fetcher {
	return &Fetcher{
		state:   st,
		service: svc,
		bus:     bus,
		log:     log.WithComponent("fetch"),
	}
}

// FetchAll requests the complete notification set for the session user.
func (f *Fetcher) FetchAll(ctx context.Context) {
	gen := f.allGen.Add(1)

	payload, err := f.service.FetchAll(ctx, f.state.Username())

	if f.allGen.Load() != gen {
		f.log.Debug("dropping superseded full fetch", "generation", gen)
		return
	}
	if err != nil {
		f.bus.Publish(event.FullSetFetchFailed{Message: err.Error()})
		return
	}
	f.bus.Publish(event.FullSetReceived{Payload: payload})
}

// FetchSome computes the cursor from the currently known set and
// requests notifications past it. An empty store means no cursor: the
// fetch is unbounded.
func (f *Fetcher) FetchSome(ctx context.Context, req FetchSomeRequest) {
	direction := req.Direction
	if direction == "" {
		direction = model.DirectionAfter
	}

	gen := f.someGen.Add(1)

	known := f.state.Snapshot()
	if len(req.Types) > 0 {
		known = filterTypes(known, req.Types)
	}

	params := remote.FetchSomeParams{
		Username: f.state.Username(),
		Types:    req.Types,
	}
	if cursor, ok := SelectCursor(direction, known); ok {
		ts := cursor.UTC().Format(time.RFC3339Nano)
		if direction == model.DirectionBefore {
			params.Before = ts
		} else {
			params.After = ts
		}
	}

	payload, err := f.service.FetchSome(ctx, params)

	if f.someGen.Load() != gen {
		f.log.Debug("dropping superseded incremental fetch", "generation", gen)
		return
	}
	if err != nil {
		f.bus.Publish(event.IncrementalSetFetchFailed{Message: err.Error()})
		return
	}
	f.bus.Publish(event.IncrementalSetReceived{Payload: payload})
}

// Update is the manual update path for explicit IDs, bypassing the
// pending queues. Only read-marking transitions reach the remote
// service; the response payload is merged like any submission echo.
func (f *Fetcher) Update(ctx context.Context, ids []string, change model.StatusChange) {
	if len(ids) == 0 || !change.MarksRead() {
		return
	}

	payload, err := f.service.MarkRead(ctx, ids)
	if err != nil {
		f.bus.Publish(event.QueueSubmissionFailed{
			Queue:   journal.QueueRead,
			Message: err.Error(),
		})
		return
	}
	f.bus.Publish(event.NotificationsMerged{Payload: payload})
}

// filterTypes keeps only notifications whose type is in types.
func filterTypes(ns []model.Notification, types []string) []model.Notification {
	allowed := make(map[model.NotifyType]struct{}, len(types))
	for _, t := range types {
		allowed[model.NotifyType(t)] = struct{}{}
	}

	filtered := ns[:0:0]
	for _, n := range ns {
		if _, ok := allowed[n.NotifyType]; ok {
			filtered = append(filtered, n)
		}
	}
	return filtered
}
