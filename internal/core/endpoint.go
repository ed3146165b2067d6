package core

// DefaultSendBuffer is the outbound queue size used when none is configured.
const DefaultSendBuffer = 256

// Endpoint is one live connection as seen by the core layer.
type Endpoint struct {
	ID     string
	Events chan *Event
}

// NewEndpoint constructs an endpoint with a bounded outbound queue.
// The hub closes Events once the endpoint is disconnected.
func NewEndpoint(id string, buffer int) *Endpoint {
	if buffer <= 0 {
		buffer = DefaultSendBuffer
	}
	return &Endpoint{
		ID:     id,
		Events: make(chan *Event, buffer),
	}
}
