package core

//go:generate mockgen -source=session_iface.go -destination=mocks/session_mock.go -package=mocks

import (
	"context"

	"github.com/dkeye/stagecast/internal/domain"
)

// Session is the capability surface of one real-time provider session.
// The orchestrator depends only on this, never on a concrete provider.
type Session interface {
	// Connect joins the session; it blocks until joined, rejected or ctx is done.
	Connect(ctx context.Context) error
	// Disconnect leaves the session. Calling it on a session that never
	// connected returns an error.
	Disconnect() error

	// On registers a handler for one event kind and returns its id for Off.
	On(kind EventKind, h Handler) ListenerID
	Off(id ListenerID)

	Publish() error
	Subscribe(stream *Stream) (Subscriber, error)
	Unsubscribe(sub Subscriber) error
	SubscribersForStream(stream *Stream) []Subscriber

	Signal(sig domain.Signal) error

	ToggleLocalVideo(enable bool)
	ToggleLocalAudio(enable bool)
}

// Subscriber is a live subscription to one remote stream.
type Subscriber interface {
	ID() string
	StreamID() string
	SetAudioVolume(volume int)
}

// Dialer creates provider sessions from credentials.
type Dialer interface {
	Dial(kind domain.SessionKind, creds domain.SessionCredentials, local domain.Role) (Session, error)
}
