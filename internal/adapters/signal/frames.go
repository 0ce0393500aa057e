package signal

import (
	"github.com/dkeye/stagecast/internal/app"
	"github.com/dkeye/stagecast/internal/core"
	"github.com/dkeye/stagecast/internal/domain"
)

// Frame types sent on the event feed.
const (
	FrameStateChanged  = "stateChanged"
	FrameStreamChanged = "streamChanged"
	FrameSignal        = "signal"
	FramePubSub        = "pubsub"
	FrameParticipants  = "participants"
	FramePong          = "pong"
	FrameError         = "error"
)

type stateFrame struct {
	Type  string     `json:"type"`
	State core.State `json:"state"`
}

type streamFrame struct {
	Type      string         `json:"type"`
	Event     core.EventKind `json:"event"`
	Role      domain.Role    `json:"role"`
	Container string         `json:"container"`
	Stream    *core.Stream   `json:"stream"`
}

type signalFrame struct {
	Type   string        `json:"type"`
	Signal domain.Signal `json:"signal"`
}

type pubSubFrame struct {
	Type   string     `json:"type"`
	PubSub app.PubSub `json:"pubsub"`
}

type participantsFrame struct {
	Type         string                          `json:"type"`
	Kind         domain.SessionKind              `json:"kind"`
	Participants map[domain.Role]app.Participant `json:"participants"`
}

type errorFrame struct {
	Type    string `json:"type"`
	Error   string `json:"error"`
	Command string `json:"command,omitempty"`
}

// listeners renders every callback as a frame on conn.
func (ctl *EventsController) listeners(conn *WsEventConn) app.Listeners {
	return app.Listeners{
		OnStateChanged: func(s core.State) {
			ctl.sendJSON(conn, stateFrame{Type: FrameStateChanged, State: s})
		},
		OnStreamChanged: func(role domain.Role, ev core.EventKind, st *core.Stream) {
			ctl.sendJSON(conn, streamFrame{
				Type:      FrameStreamChanged,
				Event:     ev,
				Role:      role,
				Container: role.Container(),
				Stream:    st,
			})
		},
		OnSignal: func(sig domain.Signal) {
			ctl.sendJSON(conn, signalFrame{Type: FrameSignal, Signal: sig})
		},
	}
}
