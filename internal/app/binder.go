package app

import (
	"sync"

	"github.com/dkeye/stagecast/internal/core"
	"github.com/dkeye/stagecast/internal/domain"
	"github.com/dkeye/stagecast/internal/metrics"
	"github.com/rs/zerolog/log"
)

// Listeners are the caller's callbacks. Nil callbacks are skipped.
type Listeners struct {
	OnStateChanged  func(state core.State)
	OnStreamChanged func(role domain.Role, event core.EventKind, stream *core.Stream)
	OnSignal        func(sig domain.Signal)
}

// Binder translates provider events of a handle into Listeners calls.
type Binder struct {
	Policy    Policy
	LocalRole domain.Role
	Metrics   metrics.Collector
}

// Binding is the set of provider listeners one Bind call added.
type Binding struct {
	sess core.Session
	ids  []core.ListenerID
	once sync.Once
}

func (b Binder) Bind(h *Handle, l Listeners) *Binding {
	sess := h.Session()
	bd := &Binding{sess: sess}

	for _, e := range core.StateEvents {
		bd.ids = append(bd.ids, sess.On(e, func(ev core.Event) {
			if l.OnStateChanged != nil {
				l.OnStateChanged(ev.State)
			}
		}))
	}
	for _, e := range core.StreamEvents {
		bd.ids = append(bd.ids, sess.On(e, func(ev core.Event) {
			b.onStream(h, l, ev)
		}))
	}
	bd.ids = append(bd.ids, sess.On(core.EventSignal, func(ev core.Event) {
		if l.OnSignal != nil {
			l.OnSignal(ev.Signal)
		}
	}))
	return bd
}

func (b Binder) onStream(h *Handle, l Listeners, ev core.Event) {
	if ev.Stream == nil {
		return
	}
	m := metrics.OrNop(b.Metrics)
	kind := string(h.Kind())
	m.StreamChanged(kind, string(ev.Kind))

	if ev.Kind == core.EventStreamCreated && b.Policy != nil && b.Policy.AutoSubscribe(h.Kind(), b.LocalRole) {
		if err := h.Subscribe(ev.Stream); err != nil {
			log.Error().Err(err).Str("module", "app.binder").Str("kind", kind).Str("stream", ev.Stream.ID).Msg("auto-subscribe failed")
		}
	}

	role, err := ev.Stream.Role()
	if err != nil {
		m.MetadataError(kind)
		log.Warn().Err(err).Str("module", "app.binder").Str("kind", kind).Str("stream", ev.Stream.ID).Msg("stream without role")
		return
	}
	if l.OnStreamChanged != nil {
		l.OnStreamChanged(role, ev.Kind, ev.Stream)
	}
}

// Detach removes exactly the listeners this binding added. Safe to call twice.
func (bd *Binding) Detach() {
	if bd == nil {
		return
	}
	bd.once.Do(func() {
		for _, id := range bd.ids {
			bd.sess.Off(id)
		}
	})
}
