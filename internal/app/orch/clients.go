package orch

import (
	"context"
	"sync"

	"github.com/dkeye/stagecast/internal/app"
	"github.com/dkeye/stagecast/internal/core"
	"github.com/dkeye/stagecast/internal/domain"
	"github.com/dkeye/stagecast/internal/metrics"
	"github.com/rs/zerolog/log"
)

type ClientID string

// Client is one browser's broadcast: its orchestrator plus the event feed
// currently attached to it. Feeds come and go, the listeners handed to
// Connect stay valid and forward to whichever feed is attached.
type Client struct {
	*Orchestrator
	ID ClientID

	mu     sync.RWMutex
	feed   app.Listeners
	cancel context.CancelFunc
	gen    uint64
}

// Attach makes l the client's feed and returns its generation for Detach.
// A previously attached feed is cancelled.
func (c *Client) Attach(l app.Listeners, cancel context.CancelFunc) uint64 {
	c.mu.Lock()
	prev := c.cancel
	c.gen++
	gen := c.gen
	c.feed, c.cancel = l, cancel
	c.mu.Unlock()
	if prev != nil {
		prev()
	}
	log.Info().Str("module", "orch.clients").Str("client", string(c.ID)).Uint64("gen", gen).Msg("feed attached")
	return gen
}

// Detach drops the feed if gen is still the attached one.
func (c *Client) Detach(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		return
	}
	c.feed, c.cancel = app.Listeners{}, nil
}

func (c *Client) current() app.Listeners {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.feed
}

// Listeners forwards every callback to the attached feed, dropping events
// while none is attached.
func (c *Client) Listeners() app.Listeners {
	return app.Listeners{
		OnStateChanged: func(s core.State) {
			if f := c.current().OnStateChanged; f != nil {
				f(s)
			}
		},
		OnStreamChanged: func(role domain.Role, ev core.EventKind, st *core.Stream) {
			if f := c.current().OnStreamChanged; f != nil {
				f(role, ev, st)
			}
		},
		OnSignal: func(sig domain.Signal) {
			if f := c.current().OnSignal; f != nil {
				f(sig)
			}
		},
	}
}

// Clients holds one Client per browser.
type Clients struct {
	dialer  core.Dialer
	metrics metrics.Collector

	mu      sync.RWMutex
	clients map[ClientID]*Client
}

func NewClients(dialer core.Dialer, m metrics.Collector) *Clients {
	return &Clients{
		dialer:  dialer,
		metrics: metrics.OrNop(m),
		clients: make(map[ClientID]*Client),
	}
}

func (r *Clients) GetOrCreate(id ClientID) *Client {
	r.mu.RLock()
	c, ok := r.clients[id]
	r.mu.RUnlock()
	if ok {
		return c
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok = r.clients[id]; ok {
		return c
	}
	c = &Client{Orchestrator: New(r.dialer, r.metrics), ID: id}
	r.clients[id] = c
	log.Info().Str("module", "orch.clients").Str("client", string(id)).Msg("created client")
	return c
}

func (r *Clients) Get(id ClientID) (*Client, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.clients[id]
	return c, ok
}

func (r *Clients) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.clients)
}

// Remove disconnects the client's broadcast, cancels its feed and forgets it.
func (r *Clients) Remove(id ClientID) bool {
	r.mu.Lock()
	c, ok := r.clients[id]
	delete(r.clients, id)
	r.mu.Unlock()
	if !ok {
		return false
	}
	c.close()
	log.Info().Str("module", "orch.clients").Str("client", string(id)).Msg("removed client")
	return true
}

// Shutdown removes every client.
func (r *Clients) Shutdown() {
	r.mu.Lock()
	all := r.clients
	r.clients = make(map[ClientID]*Client)
	r.mu.Unlock()
	for _, c := range all {
		c.close()
	}
	log.Info().Str("module", "orch.clients").Int("count", len(all)).Msg("all clients closed")
}

func (c *Client) close() {
	c.Disconnect()
	c.mu.Lock()
	cancel := c.cancel
	c.feed, c.cancel = app.Listeners{}, nil
	c.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}
