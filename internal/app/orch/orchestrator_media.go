package orch

import (
	"github.com/dkeye/stagecast/internal/app"
	"github.com/dkeye/stagecast/internal/domain"
	"github.com/rs/zerolog/log"
)

const (
	MinVolume = 0
	MaxVolume = 100
)

// ToggleLocalVideo applies to the stage only; without a stage it does nothing.
func (o *Orchestrator) ToggleLocalVideo(enable bool) {
	h := o.Stage()
	if h == nil {
		log.Debug().Str("module", "orch").Bool("enable", enable).Msg("toggle video without stage")
		return
	}
	h.ToggleLocalVideo(enable)
}

func (o *Orchestrator) ToggleLocalAudio(enable bool) {
	h := o.Stage()
	if h == nil {
		log.Debug().Str("module", "orch").Bool("enable", enable).Msg("toggle audio without stage")
		return
	}
	h.ToggleLocalAudio(enable)
}

// ChangeVolume sets the playback volume of every subscriber to role's stream.
func (o *Orchestrator) ChangeVolume(role domain.Role, volume int, useStage bool) {
	h := o.handle(useStage)
	if h == nil {
		return
	}
	stream, ok := app.FindStreamByRole(role, h)
	if !ok {
		return
	}
	volume = max(MinVolume, min(MaxVolume, volume))
	for _, sub := range h.Session().SubscribersForStream(stream) {
		sub.SetAudioVolume(volume)
	}
	log.Debug().Str("module", "orch").Str("kind", string(h.Kind())).Str("role", string(role)).Int("volume", volume).Msg("volume changed")
}

// SubscribeAll subscribes to every known stream regardless of role.
func (o *Orchestrator) SubscribeAll(useStage bool) app.PubSub {
	h := o.handle(useStage)
	if h == nil {
		return app.PubSub{Kind: domain.KindOf(useStage)}
	}
	return h.SubscribeAll()
}

func (o *Orchestrator) UnsubscribeAll(useStage bool) app.PubSub {
	h := o.handle(useStage)
	if h == nil {
		return app.PubSub{Kind: domain.KindOf(useStage)}
	}
	return h.UnsubscribeAll()
}

// Participants reports per-role presence on the chosen session. Every role
// is present in the result, disconnected when there is no session.
func (o *Orchestrator) Participants(useStage bool) map[domain.Role]app.Participant {
	return app.Participants(o.handle(useStage))
}
