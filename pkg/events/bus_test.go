package events

import (
	"testing"

	"github.com/jscyril/wavejukebox/api"
)

func TestPublishFiltersByType(t *testing.T) {
	bus := NewEventBus()
	paused := bus.Subscribe(4, api.EventTrackPaused)
	all := bus.Subscribe(4)

	bus.Publish(api.AudioEvent{Type: api.EventTrackStarted, Track: "a.wav"})
	bus.Publish(api.AudioEvent{Type: api.EventTrackPaused, Track: "a.wav", Frame: 128})

	if got := len(all); got != 2 {
		t.Fatalf("all subscriber got %d events, want 2", got)
	}
	if got := len(paused); got != 1 {
		t.Fatalf("paused subscriber got %d events, want 1", got)
	}
	ev := <-paused
	if ev.Frame != 128 {
		t.Errorf("Frame = %d, want 128", ev.Frame)
	}
}

func TestPublishDoesNotBlock(t *testing.T) {
	bus := NewEventBus()
	ch := bus.Subscribe(1)

	for i := 0; i < 5; i++ {
		bus.Publish(api.AudioEvent{Type: api.EventTrackEnded})
	}

	if len(ch) != 1 {
		t.Errorf("buffered %d events, want 1", len(ch))
	}
	if bus.Dropped() != 4 {
		t.Errorf("Dropped() = %d, want 4", bus.Dropped())
	}
}

func TestUnsubscribeAndClose(t *testing.T) {
	bus := NewEventBus()
	a := bus.Subscribe(1)
	b := bus.Subscribe(1)

	bus.Unsubscribe(a)
	if _, ok := <-a; ok {
		t.Error("unsubscribed channel should be closed")
	}

	bus.Close()
	bus.Close()
	if _, ok := <-b; ok {
		t.Error("channel should be closed after Close")
	}

	late := bus.Subscribe(1)
	if _, ok := <-late; ok {
		t.Error("subscription after Close should be closed")
	}
}

func TestNilBusPublish(t *testing.T) {
	var bus *EventBus
	bus.Publish(api.AudioEvent{Type: api.EventError})
}

func TestUnsubscribeKeepsBufferedEvents(t *testing.T) {
	bus := NewEventBus()
	ch := bus.Subscribe(4)
	bus.Publish(api.AudioEvent{Type: api.EventTrackStarted, Track: "a.wav"})
	bus.Publish(api.AudioEvent{Type: api.EventTrackEnded, Track: "a.wav"})

	bus.Unsubscribe(ch)
	bus.Publish(api.AudioEvent{Type: api.EventTrackStarted, Track: "b.wav"})

	var got []api.EventType
	for evt := range ch {
		got = append(got, evt.Type)
	}
	if len(got) != 2 || got[0] != api.EventTrackStarted || got[1] != api.EventTrackEnded {
		t.Errorf("drained %v, want started then ended", got)
	}
	if bus.Dropped() != 0 {
		t.Errorf("Dropped() = %d, want 0", bus.Dropped())
	}
}
