package orch

import (
	"context"
	"testing"

	"github.com/dkeye/stagecast/internal/app"
	"github.com/dkeye/stagecast/internal/core/fake"
	"github.com/dkeye/stagecast/internal/domain"
)

func TestClientsGetOrCreate(t *testing.T) {
	r := NewClients(fake.NewDialer(), nil)
	a := r.GetOrCreate("a")
	if r.GetOrCreate("a") != a {
		t.Fatal("same id must yield the same client")
	}
	if r.GetOrCreate("b") == a {
		t.Fatal("different ids share a client")
	}
	if r.Len() != 2 {
		t.Fatalf("expected 2 clients, got %d", r.Len())
	}
	if _, ok := r.Get("c"); ok {
		t.Fatal("unknown client found")
	}
}

func TestClientFeedForwarding(t *testing.T) {
	d := fake.NewDialer()
	r := NewClients(d, nil)
	c := r.GetOrCreate("a")
	if err := c.Connect(context.Background(), bothTokens, domain.RoleFan, c.Listeners()); err != nil {
		t.Fatalf("connect: %v", err)
	}

	// No feed attached: events are dropped.
	d.Last(domain.Backstage).ReceiveSignal(domain.Signal{Type: "early"})

	first := &recorder{}
	firstCtx, cancel1 := context.WithCancel(context.Background())
	defer cancel1()
	gen1 := c.Attach(first.listeners(), cancel1)

	second := &recorder{}
	gen2 := c.Attach(second.listeners(), func() {})
	if firstCtx.Err() == nil {
		t.Error("replaced feed was not cancelled")
	}
	c.Detach(gen1)

	d.Last(domain.Backstage).ReceiveSignal(domain.Signal{Type: "late"})
	if len(first.signals) != 0 {
		t.Errorf("old feed received %+v", first.signals)
	}
	if len(second.signals) != 1 || second.signals[0].Type != "late" {
		t.Fatalf("current feed received %+v", second.signals)
	}

	c.Detach(gen2)
	d.Last(domain.Backstage).ReceiveSignal(domain.Signal{Type: "after"})
	if len(second.signals) != 1 {
		t.Error("detached feed still receives events")
	}
}

func TestClientsRemoveDisconnects(t *testing.T) {
	d := fake.NewDialer()
	r := NewClients(d, nil)
	c := r.GetOrCreate("a")
	if err := c.Connect(context.Background(), bothTokens, domain.RoleHost, app.Listeners{}); err != nil {
		t.Fatalf("connect: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	c.Attach(app.Listeners{}, cancel)

	if !r.Remove("a") {
		t.Fatal("remove reported missing client")
	}
	if r.Remove("a") {
		t.Fatal("second remove should report false")
	}
	if d.Last(domain.Stage).Connected() || d.Last(domain.Backstage).Connected() {
		t.Error("sessions left connected")
	}
	if ctx.Err() == nil {
		t.Error("feed not cancelled")
	}
}

func TestClientsShutdown(t *testing.T) {
	d := fake.NewDialer()
	r := NewClients(d, nil)
	c := r.GetOrCreate("a")
	creds := domain.Credentials{BackstageToken: "bt"}
	if err := c.Connect(context.Background(), creds, domain.RoleFan, app.Listeners{}); err != nil {
		t.Fatalf("connect: %v", err)
	}
	r.GetOrCreate("b")

	r.Shutdown()
	if r.Len() != 0 {
		t.Fatalf("clients left: %d", r.Len())
	}
	if d.Last(domain.Backstage).Connected() {
		t.Error("session left connected")
	}
}
