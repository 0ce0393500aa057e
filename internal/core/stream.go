package core

import "github.com/dkeye/stagecast/internal/domain"

// Connection identifies the remote endpoint that published a stream.
type Connection struct {
	ID   string `json:"connectionId"`
	Data string `json:"data"`
}

// Stream is a remote participant's published media, scoped to one session.
type Stream struct {
	ID         string     `json:"streamId"`
	Name       string     `json:"name,omitempty"`
	HasAudio   bool       `json:"hasAudio"`
	HasVideo   bool       `json:"hasVideo"`
	Connection Connection `json:"connection"`

	// Raw is the provider's own stream object, if any.
	Raw any `json:"-"`
}

// Role parses the owner's role out of the connection metadata.
func (s *Stream) Role() (domain.Role, error) {
	d, err := domain.ParseConnectionData(s.Connection.Data)
	if err != nil {
		return "", err
	}
	return d.UserType, nil
}
