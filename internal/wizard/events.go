package wizard

import (
	"github.com/mark3labs/mgen/internal/logger"
)

// EventKind names a wizard lifecycle event.
type EventKind string

const (
	EventSwitched EventKind = "switched"
	EventFinished EventKind = "finished"
	EventCanceled EventKind = "canceled"
)

// Event is delivered to listeners after a transition. Step is the new index
// for switched and the current index for finished and canceled.
type Event struct {
	Kind      EventKind
	Wizard    string
	Step      int
	Direction Direction
}

// Listener receives events synchronously on the goroutine driving the wizard.
type Listener func(Event)

type listenerEntry struct {
	id   int
	kind EventKind // empty matches every kind
	fn   Listener
}

type subscriber struct {
	id int
	ch chan Event
}

// emitter fans events out to listeners and channel subscribers. It is not
// safe for concurrent use; the wizard is driven from one goroutine.
type emitter struct {
	nextID      int
	listeners   []listenerEntry
	subscribers []subscriber
}

func (e *emitter) on(kind EventKind, fn Listener) func() {
	e.nextID++
	id := e.nextID
	e.listeners = append(e.listeners, listenerEntry{id: id, kind: kind, fn: fn})
	return func() {
		for i, l := range e.listeners {
			if l.id == id {
				e.listeners = append(e.listeners[:i], e.listeners[i+1:]...)
				return
			}
		}
	}
}

func (e *emitter) subscribe(buffer int) (<-chan Event, func()) {
	if buffer < 1 {
		buffer = 1
	}
	e.nextID++
	id := e.nextID
	ch := make(chan Event, buffer)
	e.subscribers = append(e.subscribers, subscriber{id: id, ch: ch})
	return ch, func() {
		for i, s := range e.subscribers {
			if s.id == id {
				e.subscribers = append(e.subscribers[:i], e.subscribers[i+1:]...)
				close(s.ch)
				return
			}
		}
	}
}

func (e *emitter) emit(ev Event) {
	// Copy so a listener may unsubscribe itself while we iterate.
	listeners := append([]listenerEntry(nil), e.listeners...)
	for _, l := range listeners {
		if l.kind == "" || l.kind == ev.Kind {
			l.fn(ev)
		}
	}
	for _, s := range e.subscribers {
		select {
		case s.ch <- ev:
		default:
			logger.Warn("wizard %s: subscriber %d is full, dropping %s event", ev.Wizard, s.id, ev.Kind)
		}
	}
}
