package core

import "sync"

type listener struct {
	id   ListenerID
	kind EventKind
	h    Handler
}

// Emitter is a provider-side event emitter. Handlers run synchronously,
// in registration order, on the goroutine calling Emit.
type Emitter struct {
	mu        sync.RWMutex
	next      ListenerID
	listeners []listener
}

func (e *Emitter) On(kind EventKind, h Handler) ListenerID {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.next++
	e.listeners = append(e.listeners, listener{id: e.next, kind: kind, h: h})
	return e.next
}

func (e *Emitter) Off(id ListenerID) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i, l := range e.listeners {
		if l.id == id {
			e.listeners = append(e.listeners[:i], e.listeners[i+1:]...)
			return
		}
	}
}

// OffAll drops every handler.
func (e *Emitter) OffAll() {
	e.mu.Lock()
	e.listeners = nil
	e.mu.Unlock()
}

// ListenerCount is the number of registered handlers.
func (e *Emitter) ListenerCount() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.listeners)
}

func (e *Emitter) Emit(ev Event) {
	e.mu.RLock()
	hs := make([]Handler, 0, len(e.listeners))
	for _, l := range e.listeners {
		if l.kind == ev.Kind {
			hs = append(hs, l.h)
		}
	}
	e.mu.RUnlock()

	for _, h := range hs {
		h(ev)
	}
}
