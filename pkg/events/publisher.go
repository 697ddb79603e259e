// Package events carries clock and lifecycle outcomes from the game core to
// the delivery layer, so broadcasts never run inside a session's critical
// section.
package events

import "sync"

// EventType represents the type of event
type EventType string

// Define event types
const (
	EventSessionCreated    EventType = "SESSION_CREATED"
	EventClockUpdated      EventType = "CLOCK_UPDATED"
	EventTimeUp            EventType = "TIME_UP"
	EventSessionTerminated EventType = "SESSION_TERMINATED"
	EventConnectionClosed  EventType = "CONNECTION_CLOSED"
)

// Event represents an event in the system
type Event struct {
	Type    EventType
	GameID  string // Optional, can be empty for non-game events
	Payload interface{}
}

// ClockUpdatePayload carries both live remaining times.
type ClockUpdatePayload struct {
	WhiteTime    float64
	BlackTime    float64
	ActivePlayer string
}

// TimeUpPayload names the expired color and the resulting outcome.
type TimeUpPayload struct {
	Player string
	Result string
}

// Handler is a function that processes events
type Handler func(event Event)

// subscription feeds one handler from its own queue, so each subscriber
// observes events in publish order. Handlers on different subscriptions
// still run concurrently with each other.
type subscription struct {
	queue chan Event
}

// Publisher is the central event publisher
type Publisher struct {
	mu          sync.RWMutex
	subscribers map[EventType][]*subscription
}

// NewPublisher creates a new event publisher
func NewPublisher() *Publisher {
	return &Publisher{
		subscribers: make(map[EventType][]*subscription),
	}
}

// Subscribe registers a handler for a specific event type. The handler runs
// on its own goroutine for the publisher's lifetime.
func (p *Publisher) Subscribe(eventType EventType, handler Handler) {
	sub := &subscription{queue: make(chan Event, 64)}
	go func() {
		for ev := range sub.queue {
			handler(ev)
		}
	}()

	p.mu.Lock()
	defer p.mu.Unlock()

	p.subscribers[eventType] = append(p.subscribers[eventType], sub)
}

// Publish delivers an event to every subscriber's queue in order.
func (p *Publisher) Publish(event Event) {
	p.mu.RLock()
	subs := p.subscribers[event.Type]
	p.mu.RUnlock()

	for _, sub := range subs {
		sub.queue <- event
	}
}
