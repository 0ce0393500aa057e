package rtc

import (
	"sync/atomic"

	"github.com/pion/rtp"
	"github.com/pion/webrtc/v4"
)

type TrackState int32

const (
	TrackStateOk TrackState = iota
	TrackStateMuted
	TrackStateClosed
)

// GatedTrack is a local outgoing track that can be muted without
// renegotiation. Packets written while muted are dropped.
type GatedTrack struct {
	Track *webrtc.TrackLocalStaticRTP
	state atomic.Int32
}

func NewGatedTrack(track *webrtc.TrackLocalStaticRTP) *GatedTrack {
	return &GatedTrack{Track: track}
}

// NewLocalTracks builds the opus and VP8 tracks a publisher sends.
func NewLocalTracks(streamID string) (audio, video *GatedTrack, err error) {
	a, err := webrtc.NewTrackLocalStaticRTP(webrtc.RTPCodecCapability{MimeType: webrtc.MimeTypeOpus}, "audio", streamID)
	if err != nil {
		return nil, nil, err
	}
	v, err := webrtc.NewTrackLocalStaticRTP(webrtc.RTPCodecCapability{MimeType: webrtc.MimeTypeVP8}, "video", streamID)
	if err != nil {
		return nil, nil, err
	}
	return NewGatedTrack(a), NewGatedTrack(v), nil
}

func (t *GatedTrack) State() TrackState { return TrackState(t.state.Load()) }

// SetEnabled unmutes or mutes the track. A closed track stays closed.
func (t *GatedTrack) SetEnabled(enable bool) {
	next := TrackStateMuted
	if enable {
		next = TrackStateOk
	}
	for {
		cur := t.state.Load()
		if TrackState(cur) == TrackStateClosed {
			return
		}
		if t.state.CompareAndSwap(cur, int32(next)) {
			return
		}
	}
}

func (t *GatedTrack) Enabled() bool { return t.State() == TrackStateOk }

func (t *GatedTrack) MarkClosed() { t.state.Store(int32(TrackStateClosed)) }

// WriteRTP forwards pkt unless the track is muted or closed.
func (t *GatedTrack) WriteRTP(pkt *rtp.Packet) error {
	if t.State() != TrackStateOk {
		return nil
	}
	return t.Track.WriteRTP(pkt)
}
