package domain

// SessionKind tells the two real-time sessions of a broadcast apart.
type SessionKind string

const (
	Stage     SessionKind = "stage"
	Backstage SessionKind = "backstage"
)

func KindOf(useStage bool) SessionKind {
	if useStage {
		return Stage
	}
	return Backstage
}

// SessionCredentials open exactly one provider session.
type SessionCredentials struct {
	APIKey    string `json:"apiKey"`
	SessionID string `json:"sessionId"`
	Token     string `json:"token"`
}

// Credentials is what a participant receives to join both sessions of an event.
type Credentials struct {
	APIKey         string `json:"apiKey"`
	BackstageToken string `json:"backstageToken,omitempty"`
	StageToken     string `json:"stageToken,omitempty"`
	StageSessionID string `json:"stageSessionId,omitempty"`
	SessionID      string `json:"sessionId,omitempty"`
}

// Stage returns the stage credentials, ok is false without a stage token.
func (c Credentials) Stage() (SessionCredentials, bool) {
	if c.StageToken == "" {
		return SessionCredentials{}, false
	}
	return SessionCredentials{APIKey: c.APIKey, SessionID: c.StageSessionID, Token: c.StageToken}, true
}

// Backstage returns the backstage credentials, ok is false without a backstage token.
func (c Credentials) Backstage() (SessionCredentials, bool) {
	if c.BackstageToken == "" {
		return SessionCredentials{}, false
	}
	return SessionCredentials{APIKey: c.APIKey, SessionID: c.SessionID, Token: c.BackstageToken}, true
}

// For returns the credentials of the given kind.
func (c Credentials) For(kind SessionKind) (SessionCredentials, bool) {
	if kind == Stage {
		return c.Stage()
	}
	return c.Backstage()
}

// Signal is a small out-of-band message relayed through a session.
// To is empty for a session-wide signal; From is set on received signals.
type Signal struct {
	Type string `json:"type"`
	Data string `json:"data"`
	To   string `json:"to,omitempty"`
	From string `json:"from,omitempty"`
}
