// Package fake is an in-memory provider used by tests and local demos.
package fake

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dkeye/stagecast/internal/core"
	"github.com/dkeye/stagecast/internal/domain"
)

var ErrClosed = errors.New("fake session closed")

// DefaultVolume is the volume of a fresh subscriber.
const DefaultVolume = 100

type Subscriber struct {
	id       string
	streamID string

	mu     sync.Mutex
	volume int
}

func (s *Subscriber) ID() string       { return s.id }
func (s *Subscriber) StreamID() string { return s.streamID }

func (s *Subscriber) SetAudioVolume(v int) {
	s.mu.Lock()
	s.volume = v
	s.mu.Unlock()
}

func (s *Subscriber) Volume() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.volume
}

// Session records every call made through the core.Session surface.
// Error fields are returned by the matching call when set.
type Session struct {
	core.Emitter

	Kind  domain.SessionKind
	Creds domain.SessionCredentials
	Local domain.Role

	ConnectErr    error
	DisconnectErr error
	PublishErr    error
	SubscribeErr  error
	SignalErr     error
	// ConnectGate, when set, blocks Connect until closed.
	ConnectGate chan struct{}

	mu          sync.Mutex
	connected   bool
	publishing  bool
	video       bool
	audio       bool
	seq         int
	subscribers []*Subscriber
	signals     []domain.Signal
	connects    int
	disconnects int
}

func NewSession(kind domain.SessionKind) *Session {
	return &Session{Kind: kind, video: true, audio: true}
}

func (s *Session) Connect(ctx context.Context) error {
	s.mu.Lock()
	s.connects++
	gate := s.ConnectGate
	s.mu.Unlock()
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if s.ConnectErr != nil {
		return s.ConnectErr
	}
	s.mu.Lock()
	s.connected = true
	s.mu.Unlock()
	return nil
}

func (s *Session) Disconnect() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.disconnects++
	if s.DisconnectErr != nil {
		return s.DisconnectErr
	}
	if !s.connected {
		return domain.ErrNotConnected
	}
	s.connected = false
	s.publishing = false
	s.subscribers = nil
	return nil
}

func (s *Session) Publish() error {
	if s.PublishErr != nil {
		return s.PublishErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.connected {
		return domain.ErrNotConnected
	}
	s.publishing = true
	return nil
}

func (s *Session) Subscribe(stream *core.Stream) (core.Subscriber, error) {
	if s.SubscribeErr != nil {
		return nil, s.SubscribeErr
	}
	s.mu.Lock()
	s.seq++
	sub := &Subscriber{id: fmt.Sprintf("%s-sub-%d", s.Kind, s.seq), streamID: stream.ID, volume: DefaultVolume}
	s.subscribers = append(s.subscribers, sub)
	st := s.stateLocked()
	s.mu.Unlock()

	s.Emit(core.Event{Kind: core.EventSubscribeToCamera, State: st})
	return sub, nil
}

func (s *Session) Unsubscribe(sub core.Subscriber) error {
	s.mu.Lock()
	found := false
	for i, x := range s.subscribers {
		if x.id == sub.ID() {
			s.subscribers = append(s.subscribers[:i], s.subscribers[i+1:]...)
			found = true
			break
		}
	}
	st := s.stateLocked()
	s.mu.Unlock()
	if !found {
		return fmt.Errorf("unknown subscriber %s", sub.ID())
	}
	s.Emit(core.Event{Kind: core.EventUnsubscribeFromCamera, State: st})
	return nil
}

func (s *Session) SubscribersForStream(stream *core.Stream) []core.Subscriber {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.Subscriber
	for _, sub := range s.subscribers {
		if sub.streamID == stream.ID {
			out = append(out, sub)
		}
	}
	return out
}

func (s *Session) Signal(sig domain.Signal) error {
	if s.SignalErr != nil {
		return s.SignalErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.connected {
		return domain.ErrNotConnected
	}
	s.signals = append(s.signals, sig)
	return nil
}

func (s *Session) ToggleLocalVideo(enable bool) {
	s.mu.Lock()
	s.video = enable
	s.mu.Unlock()
}

func (s *Session) ToggleLocalAudio(enable bool) {
	s.mu.Lock()
	s.audio = enable
	s.mu.Unlock()
}

// CreateStream announces a remote stream as the provider would.
func (s *Session) CreateStream(id, connectionData string) *core.Stream {
	st := &core.Stream{
		ID:         id,
		HasAudio:   true,
		HasVideo:   true,
		Connection: core.Connection{ID: "conn-" + id, Data: connectionData},
	}
	s.Emit(core.Event{Kind: core.EventStreamCreated, Stream: st})
	return st
}

// DestroyStream drops the stream and its subscribers, then announces it.
func (s *Session) DestroyStream(st *core.Stream) {
	s.mu.Lock()
	kept := s.subscribers[:0]
	for _, sub := range s.subscribers {
		if sub.streamID != st.ID {
			kept = append(kept, sub)
		}
	}
	s.subscribers = kept
	s.mu.Unlock()
	s.Emit(core.Event{Kind: core.EventStreamDestroyed, Stream: st})
}

// Lose drops the session from the provider side.
func (s *Session) Lose() {
	s.mu.Lock()
	s.connected = false
	s.publishing = false
	s.subscribers = nil
	s.mu.Unlock()
	s.Emit(core.Event{Kind: core.EventSessionLost})
}

// ReceiveSignal delivers a signal from a remote connection.
func (s *Session) ReceiveSignal(sig domain.Signal) {
	s.Emit(core.Event{Kind: core.EventSignal, Signal: sig})
}

func (s *Session) stateLocked() core.State {
	st := core.State{}
	for _, sub := range s.subscribers {
		st.Subscribers = append(st.Subscribers, sub.id)
	}
	st.Meta.Subscriber = core.Count{Camera: len(s.subscribers), Total: len(s.subscribers)}
	if s.publishing {
		st.Publishers = []string{string(s.Kind) + "-publisher"}
		st.Meta.Publisher = core.Count{Camera: 1, Total: 1}
	}
	return st
}

func (s *Session) Connected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.connected
}

func (s *Session) Publishing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.publishing
}

func (s *Session) Video() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.video
}

func (s *Session) Audio() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.audio
}

func (s *Session) Signals() []domain.Signal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Signal(nil), s.signals...)
}

func (s *Session) SubscriberCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subscribers)
}

func (s *Session) Disconnects() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.disconnects
}

// Dialer hands out fake sessions. Sessions placed in Prepared before Dial
// are returned as-is so tests can configure failures up front.
type Dialer struct {
	mu       sync.Mutex
	Prepared map[domain.SessionKind]*Session
	DialErr  map[domain.SessionKind]error
	dialed   map[domain.SessionKind]*Session
}

func NewDialer() *Dialer {
	return &Dialer{
		Prepared: make(map[domain.SessionKind]*Session),
		DialErr:  make(map[domain.SessionKind]error),
		dialed:   make(map[domain.SessionKind]*Session),
	}
}

func (d *Dialer) Dial(kind domain.SessionKind, creds domain.SessionCredentials, local domain.Role) (core.Session, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.DialErr[kind]; err != nil {
		return nil, err
	}
	s, ok := d.Prepared[kind]
	if !ok {
		s = NewSession(kind)
	}
	delete(d.Prepared, kind)
	s.Creds = creds
	s.Local = local
	d.dialed[kind] = s
	return s, nil
}

// Last returns the most recent session dialed for kind.
func (d *Dialer) Last(kind domain.SessionKind) *Session {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.dialed[kind]
}
