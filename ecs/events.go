package ecs

// Event is a generic ECS event payload.
type Event struct {
	Type string
	Data any
}

const EventHarvestableDestroyed = "harvestable_destroyed"

// HarvestableDestroyed is broadcast exactly once for a harvestable whose
// health ran out.
type HarvestableDestroyed struct {
	Entity Entity
}

// EventQueue is a FIFO queue readable by any number of systems until the
// end of the tick.
type EventQueue struct {
	items []Event
}

// Push adds an event.
func (q *EventQueue) Push(evt Event) {
	if q == nil {
		return
	}
	q.items = append(q.items, evt)
}

func (q *EventQueue) flush() {
	if q == nil {
		return
	}
	q.items = nil
}

// Publish pushes a typed event onto the world queue.
func Publish[T any](w *World, eventType string, data T) {
	if w == nil {
		return
	}
	w.events.Push(Event{Type: eventType, Data: data})
}

// ReadEvents returns the payloads of the queued events of eventType that
// carry a T.
func ReadEvents[T any](w *World, eventType string) []T {
	if w == nil {
		return nil
	}
	var out []T
	for _, evt := range w.events.items {
		if evt.Type != eventType {
			continue
		}
		if data, ok := evt.Data.(T); ok {
			out = append(out, data)
		}
	}
	return out
}

// DestroyedHarvestables returns the set of harvestables reported destroyed
// this tick.
func DestroyedHarvestables(w *World) map[Entity]struct{} {
	events := ReadEvents[HarvestableDestroyed](w, EventHarvestableDestroyed)
	if len(events) == 0 {
		return nil
	}
	out := make(map[Entity]struct{}, len(events))
	for _, evt := range events {
		out[evt.Entity] = struct{}{}
	}
	return out
}
