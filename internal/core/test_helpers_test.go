package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func mustEvent(t *testing.T, ch <-chan *Event, kind EventKind) *Event {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		select {
		case ev, ok := <-ch:
			require.True(t, ok, "event channel closed while waiting for kind %v", kind)
			if ev != nil && ev.Kind == kind {
				return ev
			}
		default:
			time.Sleep(10 * time.Millisecond)
		}
	}
	require.FailNow(t, "event not received", "expected event kind %v", kind)
	return nil
}

// mustClose drains ch until it is closed.
func mustClose(t *testing.T, ch <-chan *Event) {
	t.Helper()

	deadline := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-ch:
			if !ok {
				return
			}
		case <-deadline:
			require.FailNow(t, "event channel was not closed")
		}
	}
}

type sent struct {
	to    string
	event *Event
}

// recorder is a Publisher that records every send instead of queueing it.
type recorder struct {
	connected map[string]bool
	sends     []sent
}

func newRecorder(ids ...string) *recorder {
	r := &recorder{connected: make(map[string]bool)}
	for _, id := range ids {
		r.connected[id] = true
	}
	return r
}

func (r *recorder) Send(to string, event *Event) Outcome {
	if !r.connected[to] {
		return DroppedNoRecipient
	}
	r.sends = append(r.sends, sent{to: to, event: event})
	return Delivered
}

func (r *recorder) Broadcast(except string, event *Event) Delivery {
	var d Delivery
	for id := range r.connected {
		if id != except {
			d.Add(r.Send(id, event))
		}
	}
	return d
}

// to returns the events delivered to one endpoint, in order.
func (r *recorder) to(id string) []*Event {
	var out []*Event
	for _, s := range r.sends {
		if s.to == id {
			out = append(out, s.event)
		}
	}
	return out
}

func (r *recorder) reset() {
	r.sends = nil
}

func kindsOf(events []*Event) []EventKind {
	out := make([]EventKind, 0, len(events))
	for _, ev := range events {
		out = append(out, ev.Kind)
	}
	return out
}

// waitStats polls hub counters, which are published after each command completes.
func waitStats(t *testing.T, hub *Hub, cond func(Stats) bool) {
	t.Helper()

	require.Eventually(t, func() bool { return cond(hub.Stats()) }, 2*time.Second, 5*time.Millisecond,
		"stats condition not met, last stats: %+v", hub.Stats())
}
