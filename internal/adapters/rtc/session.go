package rtc

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dkeye/stagecast/internal/core"
	"github.com/dkeye/stagecast/internal/domain"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/pion/webrtc/v4"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	writeWait = 10 * time.Second
	pongWait  = 60 * time.Second
)

// Session is one connection to the session server: a websocket for
// signaling plus a peer connection per publisher and subscriber.
type Session struct {
	core.Emitter

	kind  domain.SessionKind
	creds domain.SessionCredentials
	local domain.Role
	cfg   Config

	logger zerolog.Logger

	mu           sync.Mutex
	conn         *websocket.Conn
	ctx          context.Context
	cancel       context.CancelFunc
	send         chan Message
	events       chan Message
	pending      map[string]call
	connected    bool
	connectionID string
	streams      map[string]*core.Stream
	subscribers  map[string]*Subscriber
	publisher    core.MediaConnection
	audio        *GatedTrack
	video        *GatedTrack
	audioOn      bool
	videoOn      bool
}

var _ core.Session = (*Session)(nil)

// call is an outstanding request. apply, when set, runs on the reader under
// s.mu before the reply is handed over and before any later message is queued.
type call struct {
	reply chan Message
	apply func(Message)
}

func newSession(kind domain.SessionKind, creds domain.SessionCredentials, local domain.Role, cfg Config) *Session {
	return &Session{
		kind:        kind,
		creds:       creds,
		local:       local,
		cfg:         cfg,
		logger:      log.With().Str("module", "rtc").Str("kind", string(kind)).Str("session", creds.SessionID).Logger(),
		pending:     make(map[string]call),
		streams:     make(map[string]*core.Stream),
		subscribers: make(map[string]*Subscriber),
		audioOn:     true,
		videoOn:     true,
	}
}

// ConnectionID is the id the server assigned to this participant.
func (s *Session) ConnectionID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.connectionID
}

// LocalTracks returns the published tracks, nil before Publish.
// Media producers write RTP into them.
func (s *Session) LocalTracks() (audio, video *GatedTrack) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.audio, s.video
}

func (s *Session) Connect(ctx context.Context) error {
	s.mu.Lock()
	if s.conn != nil {
		s.mu.Unlock()
		return domain.ErrAlreadyConnected
	}
	s.mu.Unlock()

	dialer := websocket.Dialer{HandshakeTimeout: s.cfg.DialTimeout}
	conn, _, err := dialer.DialContext(ctx, s.cfg.SignalingURL, nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", s.cfg.SignalingURL, err)
	}
	if s.cfg.ReadLimit > 0 {
		conn.SetReadLimit(s.cfg.ReadLimit)
	}

	sctx, cancel := context.WithCancel(context.Background())
	s.mu.Lock()
	s.conn = conn
	s.ctx, s.cancel = sctx, cancel
	s.send = make(chan Message, 16)
	s.events = make(chan Message, s.cfg.EventBuffer)
	events := s.events
	s.mu.Unlock()

	go s.readPump(sctx, conn, events)
	go s.writePump(sctx, conn)
	go s.eventLoop(sctx, events)

	rctx, rcancel := context.WithTimeout(ctx, s.cfg.RequestTimeout)
	defer rcancel()
	// The server announces existing streams right after the reply, so the
	// session must count as connected before those reach listeners.
	reply, err := s.requestApply(rctx, Message{
		Type:      TypeConnect,
		APIKey:    s.creds.APIKey,
		SessionID: s.creds.SessionID,
		Token:     s.creds.Token,
		Data:      domain.ConnectionData{UserType: s.local}.Encode(),
	}, func(reply Message) {
		s.connected = true
		s.connectionID = reply.ConnectionID
	})
	if err != nil {
		s.teardown()
		return err
	}
	s.logger.Info().Str("connection", reply.ConnectionID).Msg("session connected")
	return nil
}

func (s *Session) Disconnect() error {
	s.mu.Lock()
	connected := s.connected
	s.mu.Unlock()
	if !connected {
		s.teardown()
		return domain.ErrNotConnected
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.RequestTimeout)
	defer cancel()
	if _, err := s.request(ctx, Message{Type: TypeDisconnect}); err != nil {
		s.logger.Warn().Err(err).Msg("disconnect request failed")
	}
	s.teardown()
	s.logger.Info().Msg("session disconnected")
	return nil
}

// teardown closes every peer connection and the signaling channel.
func (s *Session) teardown() {
	s.mu.Lock()
	conn, cancel := s.conn, s.cancel
	publisher := s.publisher
	subs := s.subscribers
	pending := s.pending
	audio, video := s.audio, s.video
	s.conn, s.cancel = nil, nil
	s.connected = false
	s.publisher, s.audio, s.video = nil, nil, nil
	s.subscribers = make(map[string]*Subscriber)
	s.streams = make(map[string]*core.Stream)
	s.pending = make(map[string]call)
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	for _, c := range pending {
		close(c.reply)
	}
	for _, sub := range subs {
		sub.close()
	}
	if audio != nil {
		audio.MarkClosed()
		video.MarkClosed()
	}
	if publisher != nil {
		publisher.Close()
	}
	if conn != nil {
		_ = conn.Close()
	}
}

func (s *Session) Publish() error {
	s.mu.Lock()
	if !s.connected {
		s.mu.Unlock()
		return domain.ErrNotConnected
	}
	if s.publisher != nil {
		s.mu.Unlock()
		return nil
	}
	ctx, connID := s.ctx, s.connectionID
	s.mu.Unlock()

	media, err := s.cfg.NewMedia(s.cfg.WebRTC(), "publish-"+string(s.kind))
	if err != nil {
		return fmt.Errorf("publisher peer connection: %w", err)
	}
	if err := media.Start(ctx); err != nil {
		media.Close()
		return err
	}
	audio, video, err := NewLocalTracks(connID)
	if err != nil {
		media.Close()
		return err
	}
	for _, t := range []*GatedTrack{audio, video} {
		if _, err := media.AddLocalTrack(t.Track); err != nil {
			media.Close()
			return fmt.Errorf("add local track: %w", err)
		}
	}
	offer, err := media.CreateAndSetOffer()
	if err != nil {
		media.Close()
		return fmt.Errorf("publish offer: %w", err)
	}
	reply, err := s.timedRequest(Message{Type: TypePublish, SDP: offer})
	if err == nil && reply.SDP == nil {
		err = fmt.Errorf("%w: publish reply without answer", ErrRemote)
	}
	if err == nil {
		err = media.ApplyAnswer(*reply.SDP)
	}
	if err != nil {
		media.Close()
		return err
	}

	s.mu.Lock()
	s.publisher, s.audio, s.video = media, audio, video
	audio.SetEnabled(s.audioOn)
	video.SetEnabled(s.videoOn)
	s.mu.Unlock()
	s.logger.Info().Msg("publishing")
	return nil
}

func (s *Session) Subscribe(stream *core.Stream) (core.Subscriber, error) {
	s.mu.Lock()
	if !s.connected {
		s.mu.Unlock()
		return nil, domain.ErrNotConnected
	}
	ctx := s.ctx
	s.mu.Unlock()

	id := uuid.NewString()
	media, err := s.cfg.NewMedia(s.cfg.WebRTC(), "sub-"+stream.ID)
	if err != nil {
		return nil, fmt.Errorf("subscriber peer connection: %w", err)
	}
	sub := newSubscriber(id, stream.ID, media, s.cfg.Sink)
	logger := s.logger.With().Str("stream", stream.ID).Str("subscriber", id).Logger()
	media.OnTrack(func(ctx context.Context, track *webrtc.TrackRemote, _ *webrtc.RTPReceiver) {
		go sub.relay(ctx, track, &logger)
	})
	if err := media.Start(ctx); err != nil {
		media.Close()
		return nil, err
	}
	if stream.HasAudio {
		if err := media.AddRecvTransceiver(webrtc.RTPCodecTypeAudio); err != nil {
			media.Close()
			return nil, err
		}
	}
	if stream.HasVideo {
		if err := media.AddRecvTransceiver(webrtc.RTPCodecTypeVideo); err != nil {
			media.Close()
			return nil, err
		}
	}
	offer, err := media.CreateAndSetOffer()
	if err != nil {
		media.Close()
		return nil, fmt.Errorf("subscribe offer: %w", err)
	}
	reply, err := s.timedRequest(Message{Type: TypeSubscribe, StreamID: stream.ID, SubscriberID: id, SDP: offer})
	if err == nil && reply.SDP == nil {
		err = fmt.Errorf("%w: subscribe reply without answer", ErrRemote)
	}
	if err == nil {
		err = media.ApplyAnswer(*reply.SDP)
	}
	if err != nil {
		media.Close()
		return nil, err
	}

	s.mu.Lock()
	s.subscribers[id] = sub
	st := s.stateLocked()
	s.mu.Unlock()

	logger.Info().Msg("subscribed")
	s.Emit(core.Event{Kind: core.EventSubscribeToCamera, State: st})
	return sub, nil
}

func (s *Session) Unsubscribe(sub core.Subscriber) error {
	s.mu.Lock()
	own, ok := s.subscribers[sub.ID()]
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("unknown subscriber %s", sub.ID())
	}
	_, err := s.timedRequest(Message{Type: TypeUnsubscribe, StreamID: own.StreamID(), SubscriberID: own.ID()})
	if err != nil {
		s.logger.Warn().Err(err).Str("subscriber", own.ID()).Msg("unsubscribe request failed")
	}
	own.close()

	s.mu.Lock()
	delete(s.subscribers, own.ID())
	st := s.stateLocked()
	s.mu.Unlock()

	s.Emit(core.Event{Kind: core.EventUnsubscribeFromCamera, State: st})
	return nil
}

func (s *Session) SubscribersForStream(stream *core.Stream) []core.Subscriber {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.Subscriber
	for _, sub := range s.subscribers {
		if sub.StreamID() == stream.ID {
			out = append(out, sub)
		}
	}
	return out
}

func (s *Session) Signal(sig domain.Signal) error {
	_, err := s.timedRequest(Message{Type: TypeSignal, Signal: &sig})
	return err
}

func (s *Session) ToggleLocalVideo(enable bool) {
	s.mu.Lock()
	s.videoOn = enable
	t := s.video
	s.mu.Unlock()
	if t != nil {
		t.SetEnabled(enable)
	}
}

func (s *Session) ToggleLocalAudio(enable bool) {
	s.mu.Lock()
	s.audioOn = enable
	t := s.audio
	s.mu.Unlock()
	if t != nil {
		t.SetEnabled(enable)
	}
}

func (s *Session) stateLocked() core.State {
	st := core.State{Subscribers: make([]string, 0, len(s.subscribers))}
	for id := range s.subscribers {
		st.Subscribers = append(st.Subscribers, id)
	}
	if s.publisher != nil {
		st.Publishers = []string{s.connectionID}
	}
	st.Meta.Publisher = core.Count{Camera: len(st.Publishers), Total: len(st.Publishers)}
	st.Meta.Subscriber = core.Count{Camera: len(st.Subscribers), Total: len(st.Subscribers)}
	return st
}

func (s *Session) timedRequest(msg Message) (Message, error) {
	s.mu.Lock()
	ctx := s.ctx
	s.mu.Unlock()
	if ctx == nil {
		return Message{}, domain.ErrNotConnected
	}
	ctx, cancel := context.WithTimeout(ctx, s.cfg.RequestTimeout)
	defer cancel()
	return s.request(ctx, msg)
}

// request sends msg and waits for the reply carrying the same id.
func (s *Session) request(ctx context.Context, msg Message) (Message, error) {
	return s.requestApply(ctx, msg, nil)
}

// requestApply is request with apply run for a successful reply, see call.
func (s *Session) requestApply(ctx context.Context, msg Message, apply func(Message)) (Message, error) {
	msg.ID = uuid.NewString()
	ch := make(chan Message, 1)

	s.mu.Lock()
	if s.send == nil || s.cancel == nil {
		s.mu.Unlock()
		return Message{}, domain.ErrNotConnected
	}
	s.pending[msg.ID] = call{reply: ch, apply: apply}
	send, sctx := s.send, s.ctx
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.pending, msg.ID)
		s.mu.Unlock()
	}()

	select {
	case send <- msg:
	case <-sctx.Done():
		return Message{}, ErrSessionClosed
	case <-ctx.Done():
		return Message{}, ctx.Err()
	}

	select {
	case reply, ok := <-ch:
		if !ok {
			return Message{}, ErrSessionClosed
		}
		if reply.Error != "" {
			return reply, fmt.Errorf("%s: %w: %s", msg.Type, ErrRemote, reply.Error)
		}
		return reply, nil
	case <-sctx.Done():
		return Message{}, ErrSessionClosed
	case <-ctx.Done():
		return Message{}, ctx.Err()
	}
}

// readPump answers pending requests inline and queues everything else for
// eventLoop, so listeners may issue requests without blocking the reader.
func (s *Session) readPump(ctx context.Context, conn *websocket.Conn, events chan<- Message) {
	defer func() {
		if ctx.Err() == nil {
			s.logger.Warn().Msg("signaling channel lost")
			s.teardown()
			s.Emit(core.Event{Kind: core.EventSessionLost})
		}
	}()

	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			if ctx.Err() == nil {
				s.logger.Debug().Err(err).Msg("readPump read error")
			}
			return
		}
		if msg.Type == TypeReply {
			s.mu.Lock()
			if c, ok := s.pending[msg.ID]; ok {
				delete(s.pending, msg.ID)
				if c.apply != nil && msg.Error == "" {
					c.apply(msg)
				}
				c.reply <- msg
			}
			s.mu.Unlock()
			continue
		}
		select {
		case events <- msg:
		case <-ctx.Done():
			return
		}
	}
}

func (s *Session) eventLoop(ctx context.Context, events <-chan Message) {
	for {
		select {
		case msg := <-events:
			s.dispatch(msg)
		case <-ctx.Done():
			return
		}
	}
}

func (s *Session) dispatch(msg Message) {
	switch msg.Type {
	case TypeStreamCreated:
		if msg.Stream == nil || msg.Stream.ID == "" {
			s.logger.Warn().Msg("streamCreated without stream")
			return
		}
		st := *msg.Stream
		s.mu.Lock()
		s.streams[st.ID] = &st
		s.mu.Unlock()
		s.Emit(core.Event{Kind: core.EventStreamCreated, Stream: &st})
	case TypeStreamDestroyed:
		id := msg.StreamID
		if msg.Stream != nil {
			id = msg.Stream.ID
		}
		s.mu.Lock()
		st, ok := s.streams[id]
		delete(s.streams, id)
		var gone []*Subscriber
		for sid, sub := range s.subscribers {
			if sub.StreamID() == id {
				gone = append(gone, sub)
				delete(s.subscribers, sid)
			}
		}
		s.mu.Unlock()
		if !ok {
			return
		}
		for _, sub := range gone {
			sub.close()
		}
		s.Emit(core.Event{Kind: core.EventStreamDestroyed, Stream: st})
	case TypeSignal:
		if msg.Signal == nil {
			return
		}
		s.Emit(core.Event{Kind: core.EventSignal, Signal: *msg.Signal})
	default:
		s.logger.Warn().Str("type", msg.Type).Msg("unknown message")
	}
}

func (s *Session) writePump(ctx context.Context, conn *websocket.Conn) {
	ticker := time.NewTicker(s.cfg.PingPeriod)
	defer ticker.Stop()

	s.mu.Lock()
	send := s.send
	s.mu.Unlock()

	for {
		select {
		case msg := <-send:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(msg); err != nil {
				s.logger.Error().Err(err).Msg("writePump write error")
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				s.logger.Error().Err(err).Msg("writePump ping error")
				return
			}
		case <-ctx.Done():
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}
