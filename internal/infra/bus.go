package infra

// EventType identifies what happened during a run.
type EventType int

const (
	ExtractLoaded EventType = iota
	StageCompleted
	CleaningCompleted
	CustomersSegmented
	OutputPublished
	RunFailed
)

// String returns the string representation of the EventType
func (et EventType) String() string {
	switch et {
	case ExtractLoaded:
		return "ExtractLoaded"
	case StageCompleted:
		return "StageCompleted"
	case CleaningCompleted:
		return "CleaningCompleted"
	case CustomersSegmented:
		return "CustomersSegmented"
	case OutputPublished:
		return "OutputPublished"
	case RunFailed:
		return "RunFailed"
	default:
		return "Unknown"
	}
}

type Event interface{ EventType() EventType }
type Handler func(Event)

// Bus delivers events synchronously, in subscription order, on the
// publisher's goroutine.
type Bus struct{ subs map[EventType][]Handler }

func NewBus() *Bus { return &Bus{subs: map[EventType][]Handler{}} }
func (b *Bus) Publish(e Event) {
	for _, h := range b.subs[e.EventType()] {
		h(e)
	}
}
func (b *Bus) Subscribe(evt EventType, h Handler) { b.subs[evt] = append(b.subs[evt], h) }
