package orch

import (
	"context"
	"errors"

	"github.com/dkeye/stagecast/internal/app"
	"github.com/dkeye/stagecast/internal/domain"
	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc/pool"
)

// Connect joins every session the credentials carry a token for and binds
// listeners to each. Both connects run together and Connect waits for both
// to settle. On failure the handles are kept, connected or not, and nothing
// is published; Disconnect releases them.
func (o *Orchestrator) Connect(ctx context.Context, creds domain.Credentials, role domain.Role, l app.Listeners) error {
	o.mu.Lock()
	if o.stage != nil || o.backstage != nil {
		o.mu.Unlock()
		return domain.ErrAlreadyConnected
	}
	o.role = role
	binder := app.Binder{Policy: o.Policy, LocalRole: role, Metrics: o.metrics()}

	var handles []*app.Handle
	var dialErrs []error
	for _, kind := range []domain.SessionKind{domain.Stage, domain.Backstage} {
		sc, ok := creds.For(kind)
		if !ok {
			continue
		}
		sess, err := o.Dialer.Dial(kind, sc, role)
		if err != nil {
			o.metrics().SessionConnectFailed(string(kind))
			dialErrs = append(dialErrs, &domain.ConnectionError{Kind: kind, Op: "dial", Err: err})
			continue
		}
		h := app.NewHandle(kind, sess, o.metrics())
		o.bindings = append(o.bindings, binder.Bind(h, l))
		if kind == domain.Stage {
			o.stage = h
		} else {
			o.backstage = h
		}
		handles = append(handles, h)
	}
	stage, backstage := o.stage, o.backstage
	o.mu.Unlock()

	if len(handles) == 0 && len(dialErrs) == 0 {
		log.Warn().Str("module", "orch").Msg("connect without tokens, nothing to join")
		return nil
	}

	p := pool.New().WithErrors()
	for _, h := range handles {
		p.Go(func() error {
			if err := h.Connect(ctx); err != nil {
				o.metrics().SessionConnectFailed(string(h.Kind()))
				return &domain.ConnectionError{Kind: h.Kind(), Op: "connect", Err: err}
			}
			o.metrics().SessionConnected(string(h.Kind()))
			return nil
		})
	}
	if err := errors.Join(append(dialErrs, p.Wait())...); err != nil {
		log.Error().Err(err).Str("module", "orch").Str("role", string(role)).Msg("connect failed")
		return err
	}

	if stage != nil && o.Policy.ShouldPublish(domain.Stage, role) {
		if err := stage.Publish(); err != nil {
			log.Error().Err(err).Str("module", "orch").Str("role", string(role)).Msg("publish failed")
			return &domain.ConnectionError{Kind: domain.Stage, Op: "publish", Err: err}
		}
	}
	log.Info().Str("module", "orch").Str("role", string(role)).
		Bool("stage", stage != nil).Bool("backstage", backstage != nil).
		Msg("broadcast connected")
	return nil
}

// Disconnect leaves both sessions and forgets them. It never fails and may
// be called any number of times, before or after Connect.
func (o *Orchestrator) Disconnect() {
	o.mu.Lock()
	stage, backstage, bindings := o.stage, o.backstage, o.bindings
	o.stage, o.backstage, o.bindings = nil, nil, nil
	o.mu.Unlock()

	for _, bd := range bindings {
		bd.Detach()
	}
	for _, h := range []*app.Handle{stage, backstage} {
		if h == nil {
			continue
		}
		wasConnected := h.State() == app.StateConnected
		if err := h.Disconnect(); err != nil {
			log.Warn().Err(&domain.DisconnectError{Kind: h.Kind(), Err: err}).Str("module", "orch").Msg("disconnect failed")
		}
		if wasConnected {
			o.metrics().SessionDisconnected(string(h.Kind()))
		}
	}
}
