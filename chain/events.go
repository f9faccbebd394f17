package chain

import "sync"

// Event is the attribute set emitted by one successfully executed contract
// call. Off-chain consumers (the relayer, indexers) key on the "action"
// attribute.
type Event struct {
	Contract   string
	Attributes []Attribute
}

// EventType returns the value of the "action" attribute, or "" when absent.
func (e Event) EventType() string {
	return e.Attribute("action")
}

// Attribute returns the value for key, or "" when the event does not carry it.
func (e Event) Attribute(key string) string {
	for _, attr := range e.Attributes {
		if attr.Key == key {
			return attr.Value
		}
	}
	return ""
}

// Emitter broadcasts committed events to downstream subscribers.
type Emitter interface {
	Emit(Event)
}

// NoopEmitter satisfies Emitter while discarding all events.
type NoopEmitter struct{}

// Emit implements the Emitter interface.
func (NoopEmitter) Emit(Event) {}

// CollectEmitter buffers events in memory. It backs the relayer's event feed
// and deterministic tests.
type CollectEmitter struct {
	mu     sync.Mutex
	events []Event
}

// Emit implements the Emitter interface.
func (c *CollectEmitter) Emit(event Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, event)
}

// Drain returns the buffered events and clears the buffer.
func (c *CollectEmitter) Drain() []Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := c.events
	c.events = nil
	return out
}
