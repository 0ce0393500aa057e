package app

import (
	"testing"

	"github.com/dkeye/stagecast/internal/domain"
)

func TestFindStreamByRole(t *testing.T) {
	h, sess := newConnectedHandle(t, domain.Stage)
	sess.CreateStream("broken", "{not json")
	sess.CreateStream("h1", hostData)
	sess.CreateStream("c1", celebrityData)
	sess.CreateStream("h2", hostData)

	st, ok := FindStreamByRole(domain.RoleHost, h)
	if !ok {
		t.Fatal("host stream not found")
	}
	if st.ID != "h1" {
		t.Errorf("expected first match h1, got %s", st.ID)
	}

	if _, ok := FindStreamByRole(domain.RoleFan, h); ok {
		t.Error("found a fan stream that does not exist")
	}
	if _, ok := FindStreamByRole(domain.RoleHost, nil); ok {
		t.Error("nil handle should find nothing")
	}
}

func TestParticipants(t *testing.T) {
	h, sess := newConnectedHandle(t, domain.Stage)
	c := sess.CreateStream("c1", celebrityData)
	if err := h.Subscribe(c); err != nil {
		t.Fatal(err)
	}

	ps := Participants(h)
	if len(ps) != 3 {
		t.Fatalf("expected a participant per role, got %d", len(ps))
	}
	celeb := ps[domain.RoleCelebrity]
	if !celeb.Connected || !celeb.Subscribed || celeb.StreamID != "c1" || celeb.Container != "videocelebrity" {
		t.Errorf("unexpected celebrity participant %+v", celeb)
	}
	if ps[domain.RoleHost].Connected {
		t.Error("host reported connected without a stream")
	}
}
