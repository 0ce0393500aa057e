package rtc

import (
	"errors"

	"github.com/dkeye/stagecast/internal/core"
	"github.com/dkeye/stagecast/internal/domain"
	"github.com/rs/zerolog/log"
)

var ErrNoSignalingURL = errors.New("no signaling url configured")

// Dialer creates sessions against one session server. Dial does no I/O;
// the websocket is opened by Session.Connect.
type Dialer struct {
	cfg Config
}

var _ core.Dialer = (*Dialer)(nil)

func NewDialer(cfg Config) *Dialer {
	return &Dialer{cfg: cfg.withDefaults()}
}

func (d *Dialer) Dial(kind domain.SessionKind, creds domain.SessionCredentials, local domain.Role) (core.Session, error) {
	if d.cfg.SignalingURL == "" {
		return nil, ErrNoSignalingURL
	}
	if creds.Token == "" {
		return nil, errors.New("empty token")
	}
	log.Debug().Str("module", "rtc").Str("kind", string(kind)).Str("session", creds.SessionID).Msg("dial")
	return newSession(kind, creds, local, d.cfg), nil
}
