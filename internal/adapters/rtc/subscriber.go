package rtc

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/dkeye/stagecast/internal/core"
	"github.com/pion/rtp"
	"github.com/pion/webrtc/v4"
	"github.com/rs/zerolog"
)

// MediaSink receives the RTP of every subscribed stream, for playback or recording.
// Payloads are still encoded, so the relay can only mute: audio is dropped at
// volume zero and passed through otherwise. A sink that decodes audio must
// scale it by sub.Gain().
type MediaSink interface {
	WriteRTP(sub *Subscriber, kind webrtc.RTPCodecType, pkt *rtp.Packet) error
}

type DiscardSink struct{}

func (DiscardSink) WriteRTP(*Subscriber, webrtc.RTPCodecType, *rtp.Packet) error { return nil }

// Subscriber is one subscription to a remote stream.
type Subscriber struct {
	id       string
	streamID string
	media    core.MediaConnection
	sink     MediaSink
	volume   atomic.Int32

	closeOnce sync.Once
}

var _ core.Subscriber = (*Subscriber)(nil)

func newSubscriber(id, streamID string, media core.MediaConnection, sink MediaSink) *Subscriber {
	s := &Subscriber{id: id, streamID: streamID, media: media, sink: sink}
	s.volume.Store(100)
	return s
}

func (s *Subscriber) ID() string       { return s.id }
func (s *Subscriber) StreamID() string { return s.streamID }

func (s *Subscriber) SetAudioVolume(v int) { s.volume.Store(int32(v)) }
func (s *Subscriber) Volume() int          { return int(s.volume.Load()) }

// Gain is the volume as a linear factor in [0, 1].
func (s *Subscriber) Gain() float64 {
	v := s.Volume()
	switch {
	case v <= 0:
		return 0
	case v >= 100:
		return 1
	}
	return float64(v) / 100
}

// relay reads RTP from a remote track and hands it to the sink.
// Audio is dropped while the volume is zero.
func (s *Subscriber) relay(ctx context.Context, track *webrtc.TrackRemote, logger *zerolog.Logger) {
	kind := track.Kind()
	for {
		select {
		case <-ctx.Done():
			logger.Debug().Msg("relay ctx done")
			return
		default:
		}
		pkt, _, err := track.ReadRTP()
		if err != nil {
			logger.Debug().Err(err).Msg("relay read RTP stopped")
			return
		}
		if err := s.forward(kind, pkt); err != nil {
			logger.Error().Err(err).Msg("sink write error, stopping relay")
			return
		}
	}
}

func (s *Subscriber) forward(kind webrtc.RTPCodecType, pkt *rtp.Packet) error {
	if kind == webrtc.RTPCodecTypeAudio && s.Volume() <= 0 {
		return nil
	}
	return s.sink.WriteRTP(s, kind, pkt)
}

func (s *Subscriber) close() {
	s.closeOnce.Do(func() {
		if s.media != nil {
			s.media.Close()
		}
	})
}
