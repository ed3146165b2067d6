package core

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

const inboxSize = 64

// Stats is a point-in-time view of hub counters.
type Stats struct {
	Endpoints int64
	Rooms     int64
	Delivered uint64
	Dropped   uint64
}

// endpointTable is the set of live connections; it implements Publisher.
type endpointTable map[string]*Endpoint

func (t endpointTable) Send(to string, event *Event) Outcome {
	ep, ok := t[to]
	if !ok {
		return DroppedNoRecipient
	}
	select {
	case ep.Events <- event:
		return Delivered
	default:
		// Drop if slow consumer.
		return DroppedBackpressure
	}
}

func (t endpointTable) Broadcast(except string, event *Event) Delivery {
	var d Delivery
	for id := range t {
		if id == except {
			continue
		}
		d.Add(t.Send(id, event))
	}
	return d
}

// Hub owns both registries and processes commands one at a time on the
// goroutine running Run.
type Hub struct {
	inbox     chan Command
	stopping  chan struct{}
	done      chan struct{}
	endpoints endpointTable
	router    *Router
	log       *zerolog.Logger

	endpointCount atomic.Int64
	roomCount     atomic.Int64
	delivered     atomic.Uint64
	dropped       atomic.Uint64
}

// NewHub creates a hub. A nil logger disables logging.
func NewHub(logger *zerolog.Logger) *Hub {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	endpoints := make(endpointTable)
	return &Hub{
		inbox:     make(chan Command, inboxSize),
		stopping:  make(chan struct{}),
		done:      make(chan struct{}),
		endpoints: endpoints,
		router:    NewRouter(NewRoomRegistry(time.Now), NewDirectory(), endpoints, time.Now),
		log:       logger,
	}
}

// Run processes commands until ctx is cancelled. On exit every connected
// endpoint's event queue is closed, including endpoints whose Connect was
// still queued.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.shutdown()
			return
		case cmd := <-h.inbox:
			h.handle(cmd)
		}
	}
}

// Done is closed once Run has returned.
func (h *Hub) Done() <-chan struct{} {
	return h.done
}

// Connect registers a new endpoint.
func (h *Hub) Connect(ep *Endpoint) error {
	return h.Dispatch(Command{Kind: CommandConnect, From: ep.ID, Endpoint: ep})
}

// Disconnect removes the endpoint and runs its room cleanup.
func (h *Hub) Disconnect(endpointID string) error {
	return h.Dispatch(Command{Kind: CommandDisconnect, From: endpointID})
}

// Dispatch queues a command. Commands from one caller are handled in the
// order they were dispatched.
func (h *Hub) Dispatch(cmd Command) error {
	select {
	case <-h.stopping:
		return ErrHubStopped
	default:
	}
	select {
	case h.inbox <- cmd:
		return nil
	case <-h.stopping:
		return ErrHubStopped
	}
}

// Stats returns the current counters. Safe for concurrent use.
func (h *Hub) Stats() Stats {
	return Stats{
		Endpoints: h.endpointCount.Load(),
		Rooms:     h.roomCount.Load(),
		Delivered: h.delivered.Load(),
		Dropped:   h.dropped.Load(),
	}
}

func (h *Hub) handle(cmd Command) {
	switch cmd.Kind {
	case CommandConnect:
		if cmd.Endpoint == nil {
			return
		}
		h.endpoints[cmd.From] = cmd.Endpoint
		h.log.Info().Str("endpoint_id", cmd.From).Msg("endpoint connected")
	case CommandJoinRoom:
		h.log.Info().Str("endpoint_id", cmd.From).Str("username", cmd.Username).Str("room", cmd.RoomID).Msg("endpoint joined room")
	case CommandLeaveRoom:
		h.log.Info().Str("endpoint_id", cmd.From).Str("room", cmd.RoomID).Msg("endpoint left room")
	}

	d := h.router.Handle(cmd)

	if cmd.Kind == CommandDisconnect {
		if ep, ok := h.endpoints[cmd.From]; ok {
			delete(h.endpoints, cmd.From)
			close(ep.Events)
		}
		h.log.Info().Str("endpoint_id", cmd.From).Msg("endpoint disconnected")
	}

	h.delivered.Add(uint64(d.Delivered))
	h.dropped.Add(uint64(d.Dropped))
	h.endpointCount.Store(int64(len(h.endpoints)))
	h.roomCount.Store(int64(h.router.Rooms().Len()))

	h.log.Debug().
		Str("kind", cmd.Kind.String()).
		Str("endpoint_id", cmd.From).
		Int("delivered", d.Delivered).
		Int("dropped", d.Dropped).
		Msg("command handled")
}

func (h *Hub) shutdown() {
	close(h.stopping)
	h.log.Info().Int("endpoints", len(h.endpoints)).Msg("hub shutting down")

	// Commands that raced the stop are discarded, but a queued Connect still
	// owns an event queue that its connection is waiting on.
	for drained := false; !drained; {
		select {
		case cmd := <-h.inbox:
			if cmd.Kind == CommandConnect && cmd.Endpoint != nil {
				h.endpoints[cmd.From] = cmd.Endpoint
			}
		default:
			drained = true
		}
	}

	for id, ep := range h.endpoints {
		close(ep.Events)
		delete(h.endpoints, id)
	}
	h.endpointCount.Store(0)
}
