// Package domain contains entity without logic, just meta-data
package domain

import (
	"encoding/json"
	"errors"
	"strings"
)

var ErrUnknownRole = errors.New("unknown role")

// Role is the participant type a connection announces in its metadata.
type Role string

const (
	RoleHost      Role = "host"
	RoleCelebrity Role = "celebrity"
	RoleFan       Role = "fan"
)

// Roles lists every role in tile order.
var Roles = []Role{RoleHost, RoleCelebrity, RoleFan}

func ParseRole(s string) (Role, error) {
	switch r := Role(strings.ToLower(strings.TrimSpace(s))); r {
	case RoleHost, RoleCelebrity, RoleFan:
		return r, nil
	}
	return "", &MetadataError{Data: s, Err: ErrUnknownRole}
}

func (r Role) IsFan() bool { return r == RoleFan }

// IsOnStage reports whether the role publishes to the broadcast.
func (r Role) IsOnStage() bool { return r == RoleHost || r == RoleCelebrity }

// Container is the element id the presentation layer renders this role's tile into.
func (r Role) Container() string { return "video" + string(r) }

// ConnectionData is the payload every connection carries, serialized as JSON.
type ConnectionData struct {
	UserType Role `json:"userType"`
}

// ParseConnectionData decodes and validates the metadata of a remote connection.
func ParseConnectionData(data string) (ConnectionData, error) {
	var raw struct {
		UserType string `json:"userType"`
	}
	if err := json.Unmarshal([]byte(data), &raw); err != nil {
		return ConnectionData{}, &MetadataError{Data: data, Err: err}
	}
	role, err := ParseRole(raw.UserType)
	if err != nil {
		return ConnectionData{}, &MetadataError{Data: data, Err: ErrUnknownRole}
	}
	return ConnectionData{UserType: role}, nil
}

func (d ConnectionData) Encode() string {
	b, _ := json.Marshal(d)
	return string(b)
}
