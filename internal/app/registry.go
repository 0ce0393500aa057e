package app

import (
	"github.com/dkeye/stagecast/internal/core"
	"github.com/dkeye/stagecast/internal/domain"
	"github.com/rs/zerolog/log"
)

// FindStreamByRole returns the first stream, in arrival order, whose owner
// announced role. Streams with unreadable metadata are skipped.
func FindStreamByRole(role domain.Role, h *Handle) (*core.Stream, bool) {
	if h == nil {
		return nil, false
	}
	for _, st := range h.Streams() {
		r, err := st.Role()
		if err != nil {
			log.Warn().Err(err).Str("module", "app.registry").Str("kind", string(h.Kind())).Str("stream", st.ID).Msg("skipping stream")
			continue
		}
		if r == role {
			return st, true
		}
	}
	return nil, false
}

// Participant is what the presentation layer needs to render one role's tile.
type Participant struct {
	Role       domain.Role `json:"userType"`
	Container  string      `json:"container"`
	Connected  bool        `json:"connected"`
	StreamID   string      `json:"streamId,omitempty"`
	Subscribed bool        `json:"subscribed"`
}

// Participants reports, for every role, whether a stream of that role is live.
func Participants(h *Handle) map[domain.Role]Participant {
	out := make(map[domain.Role]Participant, len(domain.Roles))
	for _, role := range domain.Roles {
		p := Participant{Role: role, Container: role.Container()}
		if st, ok := FindStreamByRole(role, h); ok {
			p.Connected = true
			p.StreamID = st.ID
			_, p.Subscribed = h.Subscription(st.ID)
		}
		out[role] = p
	}
	return out
}
