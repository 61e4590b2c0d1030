package gravity

import "fmt"

type EventKind int

const (
	EventCreated EventKind = iota
	EventCollided
	EventMerged
	EventEscaped
	EventOverflow
	EventOverlap
)

func (k EventKind) String() string {
	switch k {
	case EventCreated:
		return "created"
	case EventCollided:
		return "collided"
	case EventMerged:
		return "merged"
	case EventEscaped:
		return "escaped"
	case EventOverflow:
		return "overflow"
	case EventOverlap:
		return "overlap"
	default:
		return fmt.Sprintf("event(%d)", int(k))
	}
}

// Event describes a state change of a body.
type Event struct {
	Kind EventKind
	Step int
	Time float64
	// Body is the id of the body the event is about.
	Body string
	// Others lists related bodies: the merge partner for EventCollided, the
	// parents for EventMerged, the overlapping body for EventOverlap.
	Others  []string
	Message string
}

func (e Event) String() string {
	s := fmt.Sprintf("[%d t=%.4f] %s %s", e.Step, e.Time, e.Kind, e.Body)
	if len(e.Others) > 0 {
		s += fmt.Sprintf(" %v", e.Others)
	}
	if e.Message != "" {
		s += ": " + e.Message
	}
	return s
}

type Observer interface {
	OnEvent(e Event)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(e Event)

func (f ObserverFunc) OnEvent(e Event) { f(e) }
