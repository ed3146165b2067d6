package core

// Outcome tags the result of a single send. Nothing is surfaced to the
// sender; outcomes only feed logs and counters.
type Outcome int

const (
	// Delivered means the event was queued for the recipient.
	Delivered Outcome = iota
	// DroppedNoRecipient means the target is not connected or not addressable.
	DroppedNoRecipient
	// DroppedBackpressure means the recipient's queue was full.
	DroppedBackpressure
)

func (o Outcome) String() string {
	switch o {
	case Delivered:
		return "delivered"
	case DroppedNoRecipient:
		return "dropped_no_recipient"
	case DroppedBackpressure:
		return "dropped_backpressure"
	default:
		return "unknown"
	}
}

// Delivery aggregates outcomes for one inbound event.
type Delivery struct {
	Delivered int
	Dropped   int
}

// Add records a single outcome.
func (d *Delivery) Add(o Outcome) {
	if o == Delivered {
		d.Delivered++
		return
	}
	d.Dropped++
}

// Merge folds another delivery into d.
func (d *Delivery) Merge(other Delivery) {
	d.Delivered += other.Delivered
	d.Dropped += other.Dropped
}
