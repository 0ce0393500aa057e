package app

import (
	"context"
	"errors"
	"testing"

	"github.com/dkeye/stagecast/internal/core"
	"github.com/dkeye/stagecast/internal/core/fake"
	"github.com/dkeye/stagecast/internal/domain"
)

const (
	hostData      = `{"userType":"host"}`
	celebrityData = `{"userType":"celebrity"}`
	fanData       = `{"userType":"fan"}`
)

func newConnectedHandle(t *testing.T, kind domain.SessionKind) (*Handle, *fake.Session) {
	t.Helper()
	sess := fake.NewSession(kind)
	h := NewHandle(kind, sess, nil)
	if err := h.Connect(context.Background()); err != nil {
		t.Fatalf("connect: %v", err)
	}
	return h, sess
}

func TestHandleTracksStreams(t *testing.T) {
	h, sess := newConnectedHandle(t, domain.Stage)

	a := sess.CreateStream("a", hostData)
	sess.CreateStream("b", fanData)
	if got := len(h.Streams()); got != 2 {
		t.Fatalf("expected 2 streams, got %d", got)
	}
	if h.Streams()[0].ID != "a" {
		t.Errorf("streams not in arrival order")
	}

	sess.DestroyStream(a)
	streams := h.Streams()
	if len(streams) != 1 || streams[0].ID != "b" {
		t.Fatalf("unexpected streams after destroy: %v", streams)
	}
}

func TestHandleConnectFailure(t *testing.T) {
	sess := fake.NewSession(domain.Backstage)
	sess.ConnectErr = errors.New("rejected")
	h := NewHandle(domain.Backstage, sess, nil)

	if err := h.Connect(context.Background()); err == nil {
		t.Fatal("expected connect error")
	}
	if h.State() != StateFailed {
		t.Errorf("expected failed state, got %s", h.State())
	}
	if err := h.Publish(); !errors.Is(err, domain.ErrNotConnected) {
		t.Errorf("publish on failed handle: %v", err)
	}
}

func TestHandleSubscribeIsIdempotent(t *testing.T) {
	h, sess := newConnectedHandle(t, domain.Stage)
	st := sess.CreateStream("a", celebrityData)

	if err := h.Subscribe(st); err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	if err := h.Subscribe(st); err != nil {
		t.Fatalf("second subscribe: %v", err)
	}
	if sess.SubscriberCount() != 1 {
		t.Errorf("expected 1 provider subscriber, got %d", sess.SubscriberCount())
	}
}

func TestHandleSubscribeUnknownStream(t *testing.T) {
	h, sess := newConnectedHandle(t, domain.Stage)
	st := sess.CreateStream("a", celebrityData)
	sess.DestroyStream(st)

	if err := h.Subscribe(st); !errors.Is(err, ErrUnknownStream) {
		t.Fatalf("expected ErrUnknownStream, got %v", err)
	}
}

func TestHandleSubscriptionDroppedWithStream(t *testing.T) {
	h, sess := newConnectedHandle(t, domain.Stage)
	st := sess.CreateStream("a", celebrityData)
	if err := h.Subscribe(st); err != nil {
		t.Fatal(err)
	}

	sess.DestroyStream(st)
	if _, ok := h.Subscription("a"); ok {
		t.Error("subscription outlived its stream")
	}
}

func TestHandleUnsubscribeAllSubscribeAllRoundTrip(t *testing.T) {
	h, sess := newConnectedHandle(t, domain.Backstage)
	for _, id := range []string{"a", "b", "c"} {
		sess.CreateStream(id, fanData)
	}

	before := h.SubscribeAll()
	if len(before.Subscribers) != 3 {
		t.Fatalf("expected 3 subscriptions, got %d", len(before.Subscribers))
	}

	after := h.UnsubscribeAll()
	if len(after.Subscribers) != 0 || sess.SubscriberCount() != 0 {
		t.Fatalf("subscriptions left after UnsubscribeAll: %+v", after)
	}

	restored := h.SubscribeAll()
	if len(restored.Subscribers) != 3 {
		t.Fatalf("expected 3 subscriptions restored, got %d", len(restored.Subscribers))
	}
	for i, s := range restored.Subscribers {
		if s.StreamID != before.Subscribers[i].StreamID {
			t.Errorf("stream %d: got %s, want %s", i, s.StreamID, before.Subscribers[i].StreamID)
		}
	}
	if restored.Meta.Subscriber.Total != 3 {
		t.Errorf("unexpected meta %+v", restored.Meta)
	}
}

func TestHandleDisconnectClearsState(t *testing.T) {
	h, sess := newConnectedHandle(t, domain.Stage)
	st := sess.CreateStream("a", hostData)
	if err := h.Subscribe(st); err != nil {
		t.Fatal(err)
	}
	if err := h.Publish(); err != nil {
		t.Fatal(err)
	}

	if err := h.Disconnect(); err != nil {
		t.Fatalf("disconnect: %v", err)
	}
	if h.State() != StateDisconnected || h.IsPublishing() {
		t.Errorf("unexpected state after disconnect: %s publishing=%v", h.State(), h.IsPublishing())
	}
	if len(h.Streams()) != 0 || len(h.Subscriptions()) != 0 {
		t.Error("streams or subscriptions left after disconnect")
	}
	if sess.ListenerCount() != 0 {
		t.Errorf("tracking listeners left on session: %d", sess.ListenerCount())
	}

	sess.CreateStream("late", hostData)
	if len(h.Streams()) != 0 {
		t.Error("handle still tracks streams after disconnect")
	}
}

// gatedSession holds Subscribe in the provider until release is closed.
type gatedSession struct {
	*fake.Session
	entered chan struct{}
	release chan struct{}
}

func (g *gatedSession) Subscribe(st *core.Stream) (core.Subscriber, error) {
	g.entered <- struct{}{}
	<-g.release
	return g.Session.Subscribe(st)
}

func TestHandleConcurrentSubscribeCreatesOneSubscriber(t *testing.T) {
	sess := fake.NewSession(domain.Stage)
	gs := &gatedSession{Session: sess, entered: make(chan struct{}, 2), release: make(chan struct{})}
	h := NewHandle(domain.Stage, gs, nil)
	if err := h.Connect(context.Background()); err != nil {
		t.Fatal(err)
	}
	st := sess.CreateStream("a", celebrityData)

	first := make(chan error, 1)
	go func() { first <- h.Subscribe(st) }()
	<-gs.entered

	if err := h.Subscribe(st); err != nil {
		t.Fatalf("subscribe while in flight: %v", err)
	}
	close(gs.release)
	if err := <-first; err != nil {
		t.Fatalf("first subscribe: %v", err)
	}
	if sess.SubscriberCount() != 1 {
		t.Fatalf("expected 1 provider subscriber, got %d", sess.SubscriberCount())
	}

	h.UnsubscribeAll()
	if sess.SubscriberCount() != 0 {
		t.Errorf("provider subscribers left after UnsubscribeAll: %d", sess.SubscriberCount())
	}
}

func TestHandleSubscribeFailureReleasesStream(t *testing.T) {
	h, sess := newConnectedHandle(t, domain.Stage)
	st := sess.CreateStream("a", celebrityData)

	sess.SubscribeErr = errors.New("boom")
	if err := h.Subscribe(st); err == nil {
		t.Fatal("expected subscribe error")
	}
	sess.SubscribeErr = nil
	if err := h.Subscribe(st); err != nil {
		t.Fatalf("retry: %v", err)
	}
	if _, ok := h.Subscription("a"); !ok || sess.SubscriberCount() != 1 {
		t.Errorf("retry did not subscribe: provider has %d", sess.SubscriberCount())
	}
}

func TestHandleSessionLost(t *testing.T) {
	h, sess := newConnectedHandle(t, domain.Stage)
	st := sess.CreateStream("a", hostData)
	if err := h.Subscribe(st); err != nil {
		t.Fatal(err)
	}
	if err := h.Publish(); err != nil {
		t.Fatal(err)
	}

	sess.Lose()
	if h.State() != StateFailed || h.IsPublishing() {
		t.Errorf("unexpected state after loss: %s publishing=%v", h.State(), h.IsPublishing())
	}
	if len(h.Streams()) != 0 || len(h.Subscriptions()) != 0 {
		t.Error("streams or subscriptions kept after loss")
	}
	if err := h.Publish(); !errors.Is(err, domain.ErrNotConnected) {
		t.Errorf("publish after loss: %v", err)
	}
}
