package app

import (
	"testing"

	"github.com/dkeye/stagecast/internal/domain"
)

func TestRolePolicy(t *testing.T) {
	p := RolePolicy{}
	tests := []struct {
		kind      domain.SessionKind
		role      domain.Role
		subscribe bool
		publish   bool
	}{
		{domain.Stage, domain.RoleHost, true, true},
		{domain.Stage, domain.RoleCelebrity, true, true},
		{domain.Stage, domain.RoleFan, false, false},
		{domain.Backstage, domain.RoleHost, false, false},
		{domain.Backstage, domain.RoleCelebrity, false, false},
		{domain.Backstage, domain.RoleFan, false, false},
	}
	for _, tt := range tests {
		if got := p.AutoSubscribe(tt.kind, tt.role); got != tt.subscribe {
			t.Errorf("AutoSubscribe(%s, %s) = %v, want %v", tt.kind, tt.role, got, tt.subscribe)
		}
		if got := p.ShouldPublish(tt.kind, tt.role); got != tt.publish {
			t.Errorf("ShouldPublish(%s, %s) = %v, want %v", tt.kind, tt.role, got, tt.publish)
		}
	}
}
