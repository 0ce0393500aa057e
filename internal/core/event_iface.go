package core

import "github.com/dkeye/stagecast/internal/domain"

type EventKind string

const (
	EventSubscribeToCamera     EventKind = "subscribeToCamera"
	EventUnsubscribeFromCamera EventKind = "unsubscribeFromCamera"
	EventStreamCreated         EventKind = "streamCreated"
	EventStreamDestroyed       EventKind = "streamDestroyed"
	EventSignal                EventKind = "signal"
	// EventSessionLost is emitted once when the provider drops the session
	// without a Disconnect call. Streams and subscribers are gone by then.
	EventSessionLost EventKind = "sessionLost"
)

var (
	StateEvents  = []EventKind{EventSubscribeToCamera, EventUnsubscribeFromCamera}
	StreamEvents = []EventKind{EventStreamCreated, EventStreamDestroyed}
)

// Count breaks publishers or subscribers down by source.
type Count struct {
	Camera int `json:"camera"`
	Screen int `json:"screen"`
	Total  int `json:"total"`
}

type Meta struct {
	Publisher  Count `json:"publisher"`
	Subscriber Count `json:"subscriber"`
}

// State is the provider's publish/subscribe state, relayed as-is on state events.
type State struct {
	Publishers  []string `json:"publishers"`
	Subscribers []string `json:"subscribers"`
	Meta        Meta     `json:"meta"`
}

// Event is what a provider session emits. Only the field matching Kind is set.
type Event struct {
	Kind   EventKind
	State  State
	Stream *Stream
	Signal domain.Signal
}

type Handler func(Event)

type ListenerID uint64
