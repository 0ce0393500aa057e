package rtc

import (
	"time"

	"github.com/dkeye/stagecast/internal/core"
	"github.com/pion/webrtc/v4"
)

// MediaFactory opens a peer connection; tests swap it for a stub.
type MediaFactory func(cfg webrtc.Configuration, label string) (core.MediaConnection, error)

type Config struct {
	SignalingURL   string
	ICEServers     []string
	DialTimeout    time.Duration
	RequestTimeout time.Duration
	PingPeriod     time.Duration
	ReadLimit      int64
	EventBuffer    int

	NewMedia MediaFactory
	Sink     MediaSink
}

func (c Config) WebRTC() webrtc.Configuration { return WebRTCConfig(c.ICEServers) }

func (c Config) withDefaults() Config {
	if c.DialTimeout <= 0 {
		c.DialTimeout = 10 * time.Second
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = 10 * time.Second
	}
	if c.PingPeriod <= 0 {
		c.PingPeriod = (pongWait * 9) / 10
	}
	if c.ReadLimit == 0 {
		c.ReadLimit = 64 * 1024
	}
	if c.EventBuffer <= 0 {
		c.EventBuffer = 64
	}
	if c.NewMedia == nil {
		c.NewMedia = func(cfg webrtc.Configuration, label string) (core.MediaConnection, error) {
			return NewWebRTCConnection(cfg, label)
		}
	}
	if c.Sink == nil {
		c.Sink = DiscardSink{}
	}
	return c
}
