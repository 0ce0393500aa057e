package domain

import (
	"errors"
	"fmt"
)

var (
	ErrAlreadyConnected = errors.New("broadcast already connected")
	ErrNoSession        = errors.New("no session")
	ErrNotConnected     = errors.New("session not connected")
)

// ConnectionError is returned by Connect when a session could not be joined.
type ConnectionError struct {
	Kind SessionKind
	Op   string
	Err  error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Kind, e.Op, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// MetadataError reports connection data that does not carry a valid role.
type MetadataError struct {
	Data string
	Err  error
}

func (e *MetadataError) Error() string {
	return fmt.Sprintf("bad connection data %q: %v", e.Data, e.Err)
}

func (e *MetadataError) Unwrap() error { return e.Err }

type SignalError struct {
	Kind SessionKind
	Err  error
}

func (e *SignalError) Error() string {
	return fmt.Sprintf("%s signal: %v", e.Kind, e.Err)
}

func (e *SignalError) Unwrap() error { return e.Err }

type DisconnectError struct {
	Kind SessionKind
	Err  error
}

func (e *DisconnectError) Error() string {
	return fmt.Sprintf("%s disconnect: %v", e.Kind, e.Err)
}

func (e *DisconnectError) Unwrap() error { return e.Err }
