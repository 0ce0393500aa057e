package signal

import (
	"context"
	"encoding/json"
	"time"

	"github.com/dkeye/stagecast/internal/app/orch"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const writeWait = 5 * time.Second

func (ctl *EventsController) writePump(ctx context.Context, c *WsEventConn) {
	ticker := time.NewTicker(ctl.PingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Debug().Str("module", "signal").Msg("writePump ctx done")
			return
		case data, ok := <-c.send:
			if !ok {
				log.Debug().Str("module", "signal").Msg("writePump channel closed")
				return
			}
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				log.Error().Err(err).Str("module", "signal").Msg("writePump set deadline")
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Error().Err(err).Str("module", "signal").Msg("writePump write error")
				return
			}
		case <-ticker.C:
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				log.Warn().Err(err).Str("module", "signal").Msg("writePump ping error")
				return
			}
		}
	}
}

func (ctl *EventsController) readPump(ctx context.Context, client *orch.Client, c *WsEventConn) {
	defer func() {
		log.Info().Str("module", "signal").Str("client", string(client.ID)).Msg("readPump closing")
		c.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			log.Debug().Str("module", "signal").Str("client", string(client.ID)).Msg("readPump ctx done")
			return
		default:
			_, data, err := c.conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					log.Warn().Err(err).Str("module", "signal").Str("client", string(client.ID)).Msg("readPump read error")
				}
				return
			}
			ctl.handleCommand(client, c, data)
		}
	}
}

func (ctl *EventsController) handleCommand(client *orch.Client, c *WsEventConn, data []byte) {
	var cmd command
	if err := json.Unmarshal(data, &cmd); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad json")
		ctl.sendError(c, "", "bad_payload")
		return
	}
	if cmd.Type != cmdPing && ctl.Limiter != nil && !ctl.Limiter.Allow(client.ID) {
		ctl.sendError(c, cmd.Type, "rate_limited")
		return
	}

	switch cmd.Type {
	case cmdPing:
		ctl.handlePing(c)
	case cmdSignal:
		ctl.handleSignal(client, c, cmd)
	case cmdVolume:
		ctl.handleVolume(client, c, cmd)
	case cmdVideo:
		client.ToggleLocalVideo(cmd.enabled())
	case cmdAudio:
		client.ToggleLocalAudio(cmd.enabled())
	case cmdSubscribeAll:
		ctl.sendJSON(c, pubSubFrame{Type: FramePubSub, PubSub: client.SubscribeAll(cmd.UseStage)})
	case cmdUnsubscribeAll:
		ctl.sendJSON(c, pubSubFrame{Type: FramePubSub, PubSub: client.UnsubscribeAll(cmd.UseStage)})
	case cmdParticipants:
		ctl.handleParticipants(client, c, cmd)
	default:
		log.Warn().Str("module", "signal").Str("type", cmd.Type).Msg("unknown command")
		ctl.sendError(c, cmd.Type, "unknown_command")
	}
}

func (ctl *EventsController) sendJSON(c *WsEventConn, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("sendJSON marshal")
		return
	}
	if err := c.TrySend(b); err != nil {
		log.Warn().Err(err).Str("module", "signal").Msg("frame dropped")
	}
}

func (ctl *EventsController) sendError(c *WsEventConn, cmd, msg string) {
	ctl.sendJSON(c, errorFrame{Type: FrameError, Error: msg, Command: cmd})
}
