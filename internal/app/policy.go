package app

import "github.com/dkeye/stagecast/internal/domain"

// Policy decides who publishes and who subscribes on their own.
type Policy interface {
	// AutoSubscribe reports whether a new stream on a session of kind is
	// subscribed as soon as it is announced.
	AutoSubscribe(kind domain.SessionKind, local domain.Role) bool
	ShouldPublish(kind domain.SessionKind, local domain.Role) bool
}

// RolePolicy: host and celebrity publish to and auto-subscribe on the stage.
// Fans only watch, and backstage never fans out on its own.
type RolePolicy struct{}

func (RolePolicy) AutoSubscribe(kind domain.SessionKind, local domain.Role) bool {
	return kind == domain.Stage && !local.IsFan()
}

func (RolePolicy) ShouldPublish(kind domain.SessionKind, local domain.Role) bool {
	return kind == domain.Stage && local.IsOnStage()
}
