package workflow

// EventKind identifies a domain event emitted by a workflow.
type EventKind string

const (
	EventApplicationApproved EventKind = "application_approved"
	EventSlotBooked          EventKind = "slot_booked"
	EventTicketStatusChanged EventKind = "ticket_status_changed"
)

// Event is a fire-and-forget notification of a committed state change.
// Consumers (the push notifier, UI refresh logic) subscribe to the
// stream; nothing in the engine depends on an event being delivered.
type Event struct {
	Kind     EventKind
	HostelID int64
	Message  string
}

// Events is a bounded, non-blocking event stream. Publish drops the
// event when the buffer is full rather than stalling a workflow.
type Events struct {
	ch chan Event
}

// NewEvents creates an event stream with the given buffer size.
func NewEvents(buffer int) *Events {
	if buffer <= 0 {
		buffer = 1
	}
	return &Events{ch: make(chan Event, buffer)}
}

// Publish emits an event without blocking.
func (e *Events) Publish(ev Event) {
	if e == nil {
		return
	}
	select {
	case e.ch <- ev:
	default:
	}
}

// C returns the receive side of the stream.
func (e *Events) C() <-chan Event {
	return e.ch
}
