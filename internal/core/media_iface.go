package core

import (
	"context"

	"github.com/pion/webrtc/v4"
)

// MediaConnection is one peer connection the provider adapter negotiates
// for a publisher or a subscriber. The adapter offers, the session server answers.
type MediaConnection interface {
	// Start configures internal callbacks and binds the connection lifetime to ctx.
	Start(ctx context.Context) error
	// Close should stop all underlying media resources.
	Close()
	// CreateAndSetOffer returns the local SDP once ICE gathering completes.
	CreateAndSetOffer() (*webrtc.SessionDescription, error)
	ApplyAnswer(webrtc.SessionDescription) error
	// OnTrack sets a callback that will be invoked when a new remote track arrives.
	OnTrack(func(ctx context.Context, track *webrtc.TrackRemote, receiver *webrtc.RTPReceiver))
	// AddLocalTrack attaches a local static RTP track to the underlying PeerConnection.
	AddLocalTrack(track *webrtc.TrackLocalStaticRTP) (*webrtc.RTPSender, error)
	// AddRecvTransceiver asks the remote side for a track of the given kind.
	AddRecvTransceiver(kind webrtc.RTPCodecType) error
	// OnClosed sets a callback for cleanup media session.
	OnClosed(func())
}
