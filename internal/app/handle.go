package app

import (
	"context"
	"errors"
	"sync"

	"github.com/dkeye/stagecast/internal/core"
	"github.com/dkeye/stagecast/internal/domain"
	"github.com/dkeye/stagecast/internal/metrics"
	"github.com/rs/zerolog/log"
)

var ErrUnknownStream = errors.New("unknown stream")

type ConnectionState int32

const (
	StateDisconnected ConnectionState = iota
	StateConnecting
	StateConnected
	StateFailed
)

func (s ConnectionState) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateFailed:
		return "failed"
	default:
		return "disconnected"
	}
}

// SubscriberInfo is a read-only view of one subscription.
type SubscriberInfo struct {
	ID       string `json:"id"`
	StreamID string `json:"streamId"`
}

// PubSub is a snapshot of what a handle publishes and subscribes to.
type PubSub struct {
	Kind        domain.SessionKind `json:"kind"`
	Publishing  bool               `json:"publishing"`
	Subscribers []SubscriberInfo   `json:"subscribers"`
	Meta        core.Meta          `json:"meta"`
}

// Handle wraps one provider session and mirrors the streams it announces.
// Streams are kept in arrival order.
type Handle struct {
	kind    domain.SessionKind
	sess    core.Session
	metrics metrics.Collector

	mu            sync.RWMutex
	state         ConnectionState
	streams       map[string]*core.Stream
	order         []string
	subscriptions map[string]core.Subscriber
	inflight      map[string]struct{}
	publishing    bool
	tracking      []core.ListenerID
}

func NewHandle(kind domain.SessionKind, sess core.Session, m metrics.Collector) *Handle {
	h := &Handle{
		kind:          kind,
		sess:          sess,
		metrics:       metrics.OrNop(m),
		streams:       make(map[string]*core.Stream),
		subscriptions: make(map[string]core.Subscriber),
		inflight:      make(map[string]struct{}),
	}
	// Registered before any binder so the stream set is current when listeners run.
	h.tracking = []core.ListenerID{
		sess.On(core.EventStreamCreated, h.onStreamCreated),
		sess.On(core.EventStreamDestroyed, h.onStreamDestroyed),
		sess.On(core.EventSessionLost, h.onSessionLost),
	}
	return h
}

func (h *Handle) Kind() domain.SessionKind { return h.kind }
func (h *Handle) Session() core.Session    { return h.sess }

func (h *Handle) State() ConnectionState {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.state
}

func (h *Handle) IsPublishing() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.publishing
}

func (h *Handle) setState(s ConnectionState) {
	h.mu.Lock()
	h.state = s
	h.mu.Unlock()
}

func (h *Handle) Connect(ctx context.Context) error {
	h.setState(StateConnecting)
	if err := h.sess.Connect(ctx); err != nil {
		h.setState(StateFailed)
		return err
	}
	h.setState(StateConnected)
	log.Info().Str("module", "app.handle").Str("kind", string(h.kind)).Msg("connected")
	return nil
}

// Disconnect stops mirroring and leaves the session. Local state is
// cleared even when the provider call fails.
func (h *Handle) Disconnect() error {
	for _, id := range h.tracking {
		h.sess.Off(id)
	}
	err := h.sess.Disconnect()

	h.mu.Lock()
	dropped := len(h.subscriptions)
	h.state = StateDisconnected
	h.publishing = false
	h.streams = make(map[string]*core.Stream)
	h.order = nil
	h.subscriptions = make(map[string]core.Subscriber)
	h.inflight = make(map[string]struct{})
	h.tracking = nil
	h.mu.Unlock()

	if dropped > 0 {
		h.metrics.SubscriptionsChanged(string(h.kind), -dropped)
	}
	log.Info().Str("module", "app.handle").Str("kind", string(h.kind)).Msg("disconnected")
	return err
}

func (h *Handle) Publish() error {
	if h.State() != StateConnected {
		return domain.ErrNotConnected
	}
	if err := h.sess.Publish(); err != nil {
		return err
	}
	h.mu.Lock()
	h.publishing = true
	h.mu.Unlock()
	log.Info().Str("module", "app.handle").Str("kind", string(h.kind)).Msg("publishing")
	return nil
}

// Subscribe subscribes to a known stream; an existing or in-flight
// subscription is kept. The stream is reserved before the provider call so
// concurrent callers never create a second provider subscriber.
func (h *Handle) Subscribe(stream *core.Stream) error {
	h.mu.Lock()
	_, known := h.streams[stream.ID]
	_, subscribed := h.subscriptions[stream.ID]
	_, busy := h.inflight[stream.ID]
	if known && !subscribed && !busy {
		h.inflight[stream.ID] = struct{}{}
	}
	h.mu.Unlock()
	if !known {
		return ErrUnknownStream
	}
	if subscribed || busy {
		return nil
	}

	sub, err := h.sess.Subscribe(stream)

	h.mu.Lock()
	delete(h.inflight, stream.ID)
	_, still := h.streams[stream.ID]
	if err == nil && still {
		h.subscriptions[stream.ID] = sub
	}
	h.mu.Unlock()

	if err != nil {
		return err
	}
	if !still {
		// The stream went away while the provider was subscribing.
		return errors.Join(ErrUnknownStream, h.sess.Unsubscribe(sub))
	}
	h.metrics.SubscriptionsChanged(string(h.kind), 1)
	log.Debug().Str("module", "app.handle").Str("kind", string(h.kind)).Str("stream", stream.ID).Msg("subscribed")
	return nil
}

func (h *Handle) Unsubscribe(streamID string) error {
	h.mu.Lock()
	sub, ok := h.subscriptions[streamID]
	delete(h.subscriptions, streamID)
	h.mu.Unlock()
	if !ok {
		return nil
	}
	h.metrics.SubscriptionsChanged(string(h.kind), -1)
	log.Debug().Str("module", "app.handle").Str("kind", string(h.kind)).Str("stream", streamID).Msg("unsubscribed")
	return h.sess.Unsubscribe(sub)
}

// SubscribeAll subscribes every known stream that has no subscription yet.
func (h *Handle) SubscribeAll() PubSub {
	for _, st := range h.Streams() {
		if err := h.Subscribe(st); err != nil {
			log.Error().Err(err).Str("module", "app.handle").Str("kind", string(h.kind)).Str("stream", st.ID).Msg("subscribe failed")
		}
	}
	return h.Snapshot()
}

func (h *Handle) UnsubscribeAll() PubSub {
	for _, sub := range h.Subscriptions() {
		if err := h.Unsubscribe(sub.StreamID()); err != nil {
			log.Error().Err(err).Str("module", "app.handle").Str("kind", string(h.kind)).Str("stream", sub.StreamID()).Msg("unsubscribe failed")
		}
	}
	return h.Snapshot()
}

func (h *Handle) Signal(sig domain.Signal) error { return h.sess.Signal(sig) }
func (h *Handle) ToggleLocalVideo(enable bool)   { h.sess.ToggleLocalVideo(enable) }
func (h *Handle) ToggleLocalAudio(enable bool)   { h.sess.ToggleLocalAudio(enable) }

// Streams returns the known streams in arrival order.
func (h *Handle) Streams() []*core.Stream {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]*core.Stream, 0, len(h.order))
	for _, id := range h.order {
		out = append(out, h.streams[id])
	}
	return out
}

func (h *Handle) Subscription(streamID string) (core.Subscriber, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	sub, ok := h.subscriptions[streamID]
	return sub, ok
}

// Subscriptions returns active subscriptions in stream arrival order.
func (h *Handle) Subscriptions() []core.Subscriber {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]core.Subscriber, 0, len(h.subscriptions))
	for _, id := range h.order {
		if sub, ok := h.subscriptions[id]; ok {
			out = append(out, sub)
		}
	}
	return out
}

func (h *Handle) Snapshot() PubSub {
	h.mu.RLock()
	defer h.mu.RUnlock()
	ps := PubSub{
		Kind:        h.kind,
		Publishing:  h.publishing,
		Subscribers: make([]SubscriberInfo, 0, len(h.subscriptions)),
	}
	for _, id := range h.order {
		if sub, ok := h.subscriptions[id]; ok {
			ps.Subscribers = append(ps.Subscribers, SubscriberInfo{ID: sub.ID(), StreamID: id})
		}
	}
	n := len(ps.Subscribers)
	ps.Meta.Subscriber = core.Count{Camera: n, Total: n}
	if h.publishing {
		ps.Meta.Publisher = core.Count{Camera: 1, Total: 1}
	}
	return ps
}

// onSessionLost marks the handle failed. The provider has already closed
// every subscriber, so only local state is dropped.
func (h *Handle) onSessionLost(core.Event) {
	h.mu.Lock()
	wasConnected := h.state == StateConnected
	dropped := len(h.subscriptions)
	h.state = StateFailed
	h.publishing = false
	h.streams = make(map[string]*core.Stream)
	h.order = nil
	h.subscriptions = make(map[string]core.Subscriber)
	h.mu.Unlock()

	if dropped > 0 {
		h.metrics.SubscriptionsChanged(string(h.kind), -dropped)
	}
	if wasConnected {
		h.metrics.SessionDisconnected(string(h.kind))
	}
	log.Warn().Str("module", "app.handle").Str("kind", string(h.kind)).Msg("session lost")
}

func (h *Handle) onStreamCreated(ev core.Event) {
	if ev.Stream == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.streams[ev.Stream.ID]; !ok {
		h.order = append(h.order, ev.Stream.ID)
	}
	h.streams[ev.Stream.ID] = ev.Stream
}

// onStreamDestroyed drops the stream and its subscription reference. The
// provider tears the subscriber itself down.
func (h *Handle) onStreamDestroyed(ev core.Event) {
	if ev.Stream == nil {
		return
	}
	h.mu.Lock()
	_, subscribed := h.subscriptions[ev.Stream.ID]
	delete(h.streams, ev.Stream.ID)
	delete(h.subscriptions, ev.Stream.ID)
	for i, id := range h.order {
		if id == ev.Stream.ID {
			h.order = append(h.order[:i], h.order[i+1:]...)
			break
		}
	}
	h.mu.Unlock()

	if subscribed {
		h.metrics.SubscriptionsChanged(string(h.kind), -1)
	}
}
