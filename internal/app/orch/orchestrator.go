package orch

import (
	"sync"

	"github.com/dkeye/stagecast/internal/app"
	"github.com/dkeye/stagecast/internal/core"
	"github.com/dkeye/stagecast/internal/domain"
	"github.com/dkeye/stagecast/internal/metrics"
	"github.com/rs/zerolog/log"
)

// Orchestrator owns the stage and backstage handles of one participant's
// broadcast. Either handle may be absent.
type Orchestrator struct {
	Dialer  core.Dialer
	Policy  app.Policy
	Metrics metrics.Collector

	mu        sync.Mutex
	role      domain.Role
	stage     *app.Handle
	backstage *app.Handle
	bindings  []*app.Binding
}

func New(dialer core.Dialer, m metrics.Collector) *Orchestrator {
	return &Orchestrator{
		Dialer:  dialer,
		Policy:  app.RolePolicy{},
		Metrics: metrics.OrNop(m),
	}
}

func (o *Orchestrator) Stage() *app.Handle {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.stage
}

func (o *Orchestrator) Backstage() *app.Handle {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.backstage
}

func (o *Orchestrator) Role() domain.Role {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.role
}

func (o *Orchestrator) handle(useStage bool) *app.Handle {
	if useStage {
		return o.Stage()
	}
	return o.Backstage()
}

func (o *Orchestrator) metrics() metrics.Collector { return metrics.OrNop(o.Metrics) }

// Signal sends sig on the chosen session. Failures are logged, never returned.
func (o *Orchestrator) Signal(sig domain.Signal, useStage bool) {
	kind := domain.KindOf(useStage)
	h := o.handle(useStage)
	if h == nil {
		o.metrics().SignalFailed(string(kind))
		log.Warn().Err(&domain.SignalError{Kind: kind, Err: domain.ErrNoSession}).Str("module", "orch").Str("type", sig.Type).Msg("signal dropped")
		return
	}
	if err := h.Signal(sig); err != nil {
		o.metrics().SignalFailed(string(kind))
		log.Error().Err(&domain.SignalError{Kind: kind, Err: err}).Str("module", "orch").Str("type", sig.Type).Msg("signal failed")
		return
	}
	o.metrics().SignalSent(string(kind))
	log.Debug().Str("module", "orch").Str("kind", string(kind)).Str("type", sig.Type).Str("to", sig.To).Msg("signal sent")
}
