package signal

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/dkeye/stagecast/internal/app/orch"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

var (
	ErrBackpressure = errors.New("backpressure")
	ErrConnClosed   = errors.New("connection closed")
)

// EventsController serves the per-client event feed: listener callbacks
// go out as JSON frames, commands come in.
type EventsController struct {
	Clients    *orch.Clients
	Limiter    *RateLimiter
	Buffer     int
	PingPeriod time.Duration
}

func NewEventsController(clients *orch.Clients, buffer int, pingPeriod time.Duration) *EventsController {
	if buffer <= 0 {
		buffer = 32
	}
	if pingPeriod <= 0 {
		pingPeriod = 30 * time.Second
	}
	return &EventsController{
		Clients:    clients,
		Limiter:    NewRateLimiter(20, time.Second),
		Buffer:     buffer,
		PingPeriod: pingPeriod,
	}
}

type WsEventConn struct {
	conn *websocket.Conn
	send chan []byte

	mu     sync.RWMutex
	closed bool
}

func (c *WsEventConn) TrySend(b []byte) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return ErrConnClosed
	}
	select {
	case c.send <- b:
	default:
		return ErrBackpressure
	}
	return nil
}

func (c *WsEventConn) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
	_ = c.conn.Close()
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

func (ctl *EventsController) HandleEvents(ctx context.Context, c *gin.Context) {
	id := orch.ClientID(c.GetString("client_token"))
	if id == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "no client token"})
		return
	}

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("ws upgrade")
		return
	}
	log.Info().Str("module", "signal").Str("client", string(id)).Msg("new event feed")

	conn := &WsEventConn{conn: ws, send: make(chan []byte, ctl.Buffer)}
	client := ctl.Clients.GetOrCreate(id)

	ctx, cancel := context.WithCancel(ctx)
	gen := client.Attach(ctl.listeners(conn), cancel)

	go ctl.writePump(ctx, conn)
	go func() {
		ctl.readPump(ctx, client, conn)
		client.Detach(gen)
		if ctl.Limiter != nil {
			ctl.Limiter.Forget(id)
		}
		cancel()
	}()
	go func() {
		<-ctx.Done()
		conn.Close()
	}()
}
