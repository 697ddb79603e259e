package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubscriberSeesPublishOrder(t *testing.T) {
	p := NewPublisher()

	const n = 200
	got := make(chan int, n)
	p.Subscribe(EventClockUpdated, func(ev Event) {
		got <- ev.Payload.(int)
	})

	for i := 0; i < n; i++ {
		p.Publish(Event{Type: EventClockUpdated, Payload: i})
	}

	for want := 0; want < n; want++ {
		select {
		case seq := <-got:
			require.Equal(t, want, seq)
		case <-time.After(time.Second):
			t.Fatalf("missing event %d", want)
		}
	}
}

func TestPublishOnlyMatchingType(t *testing.T) {
	p := NewPublisher()

	got := make(chan Event, 1)
	p.Subscribe(EventTimeUp, func(ev Event) {
		got <- ev
	})

	p.Publish(Event{Type: EventClockUpdated})
	p.Publish(Event{Type: EventTimeUp, GameID: "g1"})

	select {
	case ev := <-got:
		assert.Equal(t, EventTimeUp, ev.Type)
		assert.Equal(t, "g1", ev.GameID)
	case <-time.After(time.Second):
		t.Fatal("expected the time up event")
	}
	assert.Empty(t, got)
}

func TestMultipleSubscribersEachDelivered(t *testing.T) {
	p := NewPublisher()

	first := make(chan Event, 1)
	second := make(chan Event, 1)
	p.Subscribe(EventSessionCreated, func(ev Event) { first <- ev })
	p.Subscribe(EventSessionCreated, func(ev Event) { second <- ev })

	p.Publish(Event{Type: EventSessionCreated, GameID: "g2"})

	for _, ch := range []chan Event{first, second} {
		select {
		case ev := <-ch:
			assert.Equal(t, "g2", ev.GameID)
		case <-time.After(time.Second):
			t.Fatal("subscriber missed the event")
		}
	}
}
