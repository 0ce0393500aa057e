package http

import (
	"context"
	"time"

	"github.com/dkeye/stagecast/internal/adapters/signal"
	"github.com/dkeye/stagecast/internal/app/orch"
	"github.com/dkeye/stagecast/internal/config"
	"github.com/dkeye/stagecast/internal/logging"
	"github.com/dkeye/stagecast/internal/metrics"
	handlers "github.com/dkeye/stagecast/internal/transport/http"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	sessionName    = "stagecast"
	clientTokenKey = "ct"
)

// ClientTokenMiddleware gives every browser a stable id kept in the session cookie.
func ClientTokenMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		s := sessions.Default(c)
		token, _ := s.Get(clientTokenKey).(string)
		if token == "" {
			token = uuid.NewString()
			s.Set(clientTokenKey, token)
			if err := s.Save(); err != nil {
				log.Error().Err(err).Str("module", "adapters.http").Msg("save session")
			}
		}
		c.Set("client_token", token)
		c.Next()
	}
}

func SetupRouter(ctx context.Context, cfg *config.Config, clients *orch.Clients, m metrics.Collector) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(logging.GinMiddleware())
	}
	r.Use(gin.Recovery())

	store := cookie.NewStore([]byte(cfg.Secret))
	store.Options(sessions.Options{Path: "/", MaxAge: 3600 * 24 * 7, HttpOnly: true})
	r.Use(sessions.Sessions(sessionName, store))
	r.Use(ClientTokenMiddleware())

	if cfg.StaticPath != "" {
		r.Static("/static", cfg.StaticPath)
		r.GET("/", func(c *gin.Context) {
			c.File(cfg.StaticPath + "/index.html")
		})
	}

	r.GET("/metrics", gin.WrapH(metrics.OrNop(m).Handler()))
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "clients": clients.Len()})
	})

	timeout := cfg.Provider.DialTimeout + cfg.Provider.RequestTimeout
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	h := &handlers.BroadcastHandlers{Clients: clients, ConnectTimeout: timeout}
	events := signal.NewEventsController(clients, cfg.Events.Buffer, cfg.Events.PingPeriod)

	api := r.Group("/api")
	b := api.Group("/broadcast")
	b.POST("/connect", h.Connect)
	b.POST("/disconnect", h.Disconnect)
	b.DELETE("", h.Leave)
	b.GET("/state", h.State)
	b.GET("/participants", h.Participants)
	b.POST("/signal", h.Signal)

	api.GET("/ws/events", func(c *gin.Context) {
		log.Info().Str("module", "adapters.http").Str("client", c.GetString("client_token")).Msg("ws events endpoint hit")
		events.HandleEvents(ctx, c)
	})

	log.Info().Str("module", "adapters.http").Str("static", cfg.StaticPath).Msg("router setup")
	return r
}
