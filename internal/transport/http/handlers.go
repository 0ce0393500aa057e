package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/dkeye/stagecast/internal/app"
	"github.com/dkeye/stagecast/internal/app/orch"
	"github.com/dkeye/stagecast/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type ConnectRequest struct {
	domain.Credentials
	Role string `json:"role"`
}

type SessionsResponse struct {
	Role      domain.Role `json:"role,omitempty"`
	Stage     *app.PubSub `json:"stage"`
	Backstage *app.PubSub `json:"backstage"`
}

type ErrorResponse struct {
	Error string             `json:"error"`
	Kind  domain.SessionKind `json:"kind,omitempty"`
	Op    string             `json:"op,omitempty"`
}

type SignalRequest struct {
	domain.Signal
	UseStage bool `json:"useStage"`
}

// BroadcastHandlers drive the caller's own orchestrator, picked by client token.
type BroadcastHandlers struct {
	Clients        *orch.Clients
	ConnectTimeout time.Duration
}

func clientID(c *gin.Context) orch.ClientID {
	return orch.ClientID(c.GetString("client_token"))
}

func useStage(c *gin.Context) bool {
	v, err := strconv.ParseBool(c.DefaultQuery("useStage", "true"))
	return err != nil || v
}

// Connect joins the sessions in the request. A failed join is rolled back
// so the browser can retry right away.
func (h *BroadcastHandlers) Connect(c *gin.Context) {
	var req ConnectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
		return
	}
	role, err := domain.ParseRole(req.Role)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	if req.StageToken == "" && req.BackstageToken == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "no session token"})
		return
	}

	client := h.Clients.GetOrCreate(clientID(c))
	ctx := c.Request.Context()
	if h.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.ConnectTimeout)
		defer cancel()
	}

	err = client.Connect(ctx, req.Credentials, role, client.Listeners())
	var ce *domain.ConnectionError
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrAlreadyConnected):
		c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
		return
	case errors.As(err, &ce):
		client.Disconnect()
		log.Warn().Err(err).Str("module", "transport.http").Str("client", string(client.ID)).Msg("join failed")
		c.JSON(http.StatusBadGateway, ErrorResponse{Error: err.Error(), Kind: ce.Kind, Op: ce.Op})
		return
	default:
		client.Disconnect()
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, sessions(client))
}

func (h *BroadcastHandlers) Disconnect(c *gin.Context) {
	if client, ok := h.Clients.Get(clientID(c)); ok {
		client.Disconnect()
	}
	c.Status(http.StatusNoContent)
}

// Leave disconnects and forgets the client, closing its event feed.
func (h *BroadcastHandlers) Leave(c *gin.Context) {
	h.Clients.Remove(clientID(c))
	c.Status(http.StatusNoContent)
}

func (h *BroadcastHandlers) State(c *gin.Context) {
	client, ok := h.Clients.Get(clientID(c))
	if !ok {
		c.JSON(http.StatusOK, SessionsResponse{})
		return
	}
	c.JSON(http.StatusOK, sessions(client))
}

func (h *BroadcastHandlers) Participants(c *gin.Context) {
	stage := useStage(c)
	var view map[domain.Role]app.Participant
	if client, ok := h.Clients.Get(clientID(c)); ok {
		view = client.Participants(stage)
	} else {
		view = app.Participants(nil)
	}
	c.JSON(http.StatusOK, gin.H{"kind": domain.KindOf(stage), "participants": view})
}

func (h *BroadcastHandlers) Signal(c *gin.Context) {
	var req SignalRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Type == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid signal"})
		return
	}
	if client, ok := h.Clients.Get(clientID(c)); ok {
		req.From = ""
		client.Signal(req.Signal, req.UseStage)
	}
	c.Status(http.StatusAccepted)
}

func sessions(client *orch.Client) SessionsResponse {
	out := SessionsResponse{Role: client.Role()}
	if h := client.Stage(); h != nil {
		s := h.Snapshot()
		out.Stage = &s
	}
	if h := client.Backstage(); h != nil {
		s := h.Snapshot()
		out.Backstage = &s
	}
	return out
}
