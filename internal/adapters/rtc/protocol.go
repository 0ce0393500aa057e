package rtc

import (
	"errors"

	"github.com/dkeye/stagecast/internal/core"
	"github.com/dkeye/stagecast/internal/domain"
	"github.com/pion/webrtc/v4"
)

// Message types exchanged with the session server. Requests carry an id
// and are answered by a reply with the same id.
const (
	TypeConnect     = "connect"
	TypePublish     = "publish"
	TypeSubscribe   = "subscribe"
	TypeUnsubscribe = "unsubscribe"
	TypeSignal      = "signal"
	TypeDisconnect  = "disconnect"
	TypeReply       = "reply"

	TypeStreamCreated   = "streamCreated"
	TypeStreamDestroyed = "streamDestroyed"
)

var (
	ErrRemote        = errors.New("session server error")
	ErrSessionClosed = errors.New("session closed")
)

// Message is the single JSON envelope of the signaling channel.
type Message struct {
	ID    string `json:"id,omitempty"`
	Type  string `json:"type"`
	Error string `json:"error,omitempty"`

	APIKey       string `json:"apiKey,omitempty"`
	SessionID    string `json:"sessionId,omitempty"`
	Token        string `json:"token,omitempty"`
	Data         string `json:"data,omitempty"`
	ConnectionID string `json:"connectionId,omitempty"`

	Stream       *core.Stream               `json:"stream,omitempty"`
	StreamID     string                     `json:"streamId,omitempty"`
	SubscriberID string                     `json:"subscriberId,omitempty"`
	SDP          *webrtc.SessionDescription `json:"sdp,omitempty"`
	Signal       *domain.Signal             `json:"signal,omitempty"`
}
