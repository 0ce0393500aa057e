package signal

import (
	"github.com/dkeye/stagecast/internal/app/orch"
	"github.com/dkeye/stagecast/internal/domain"
	"github.com/rs/zerolog/log"
)

// Commands accepted on the event feed.
const (
	cmdPing           = "ping"
	cmdSignal         = "signal"
	cmdVolume         = "volume"
	cmdVideo          = "video"
	cmdAudio          = "audio"
	cmdSubscribeAll   = "subscribe_all"
	cmdUnsubscribeAll = "unsubscribe_all"
	cmdParticipants   = "participants"
)

type command struct {
	Type     string         `json:"type"`
	UseStage bool           `json:"useStage"`
	Signal   *domain.Signal `json:"signal,omitempty"`
	Role     string         `json:"role,omitempty"`
	Volume   *int           `json:"volume,omitempty"`
	Enable   *bool          `json:"enable,omitempty"`
}

// enabled defaults to true so {"type":"video"} turns video on.
func (c command) enabled() bool { return c.Enable == nil || *c.Enable }

func (ctl *EventsController) handlePing(conn *WsEventConn) {
	resp := struct {
		Type string `json:"type"`
	}{
		Type: FramePong,
	}
	ctl.sendJSON(conn, resp)
}

func (ctl *EventsController) handleSignal(client *orch.Client, conn *WsEventConn, cmd command) {
	if cmd.Signal == nil || cmd.Signal.Type == "" {
		ctl.sendError(conn, cmd.Type, "empty signal")
		return
	}
	sig := *cmd.Signal
	sig.From = ""
	client.Signal(sig, cmd.UseStage)
}

func (ctl *EventsController) handleVolume(client *orch.Client, conn *WsEventConn, cmd command) {
	role, err := domain.ParseRole(cmd.Role)
	if err != nil {
		ctl.sendError(conn, cmd.Type, "invalid_role")
		return
	}
	if cmd.Volume == nil {
		ctl.sendError(conn, cmd.Type, "missing volume")
		return
	}
	log.Debug().Str("module", "signal").Str("client", string(client.ID)).Str("role", string(role)).Int("volume", *cmd.Volume).Msg("volume")
	client.ChangeVolume(role, *cmd.Volume, cmd.UseStage)
}

func (ctl *EventsController) handleParticipants(client *orch.Client, conn *WsEventConn, cmd command) {
	ctl.sendJSON(conn, participantsFrame{
		Type:         FrameParticipants,
		Kind:         domain.KindOf(cmd.UseStage),
		Participants: client.Participants(cmd.UseStage),
	})
}
