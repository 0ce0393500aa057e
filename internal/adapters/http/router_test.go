package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dkeye/stagecast/internal/app/orch"
	"github.com/dkeye/stagecast/internal/config"
	"github.com/dkeye/stagecast/internal/core/fake"
	"github.com/dkeye/stagecast/internal/domain"
	"github.com/dkeye/stagecast/internal/metrics"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

type testServer struct {
	*httptest.Server
	dialer  *fake.Dialer
	clients *orch.Clients
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	d := fake.NewDialer()
	m := metrics.NewPrometheusCollector()
	clients := orch.NewClients(d, m)
	cfg := &config.Config{
		Mode:   "test",
		Secret: "test-secret",
		Events: config.EventsConfig{Buffer: 16, PingPeriod: time.Second},
	}
	ctx, cancel := context.WithCancel(context.Background())
	srv := httptest.NewServer(SetupRouter(ctx, cfg, clients, m))
	t.Cleanup(func() {
		cancel()
		clients.Shutdown()
		srv.Close()
	})
	return &testServer{Server: srv, dialer: d, clients: clients}
}

func newBrowser(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatal(err)
	}
	return &http.Client{Jar: jar, Timeout: 5 * time.Second}
}

func postJSON(t *testing.T, c *http.Client, url string, body any) (*http.Response, map[string]any) {
	t.Helper()
	b, _ := json.Marshal(body)
	resp, err := c.Post(url, "application/json", bytes.NewReader(b))
	if err != nil {
		t.Fatalf("post %s: %v", url, err)
	}
	return resp, decode(t, resp)
}

func getJSON(t *testing.T, c *http.Client, url string) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := c.Get(url)
	if err != nil {
		t.Fatalf("get %s: %v", url, err)
	}
	return resp, decode(t, resp)
}

func decode(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	raw, _ := io.ReadAll(resp.Body)
	if len(raw) == 0 {
		return nil
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("decode %q: %v", raw, err)
	}
	return out
}

var hostJoin = map[string]any{
	"apiKey":         "key",
	"stageToken":     "st",
	"stageSessionId": "stage-1",
	"backstageToken": "bt",
	"sessionId":      "back-1",
	"role":           "host",
}

func TestConnectAndState(t *testing.T) {
	srv := newTestServer(t)
	browser := newBrowser(t)

	resp, body := postJSON(t, browser, srv.URL+"/api/broadcast/connect", hostJoin)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("connect status %d: %v", resp.StatusCode, body)
	}
	stage, _ := body["stage"].(map[string]any)
	back, _ := body["backstage"].(map[string]any)
	if stage["publishing"] != true || back["publishing"] != false {
		t.Errorf("unexpected publish state %v", body)
	}

	_, body = getJSON(t, browser, srv.URL+"/api/broadcast/state")
	if body["role"] != "host" {
		t.Errorf("state %v", body)
	}

	resp, _ = postJSON(t, browser, srv.URL+"/api/broadcast/connect", hostJoin)
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("second connect status %d", resp.StatusCode)
	}

	resp, _ = postJSON(t, browser, srv.URL+"/api/broadcast/disconnect", nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("disconnect status %d", resp.StatusCode)
	}
	if srv.dialer.Last(domain.Stage).Connected() {
		t.Error("stage still connected")
	}
	_, body = getJSON(t, browser, srv.URL+"/api/broadcast/state")
	if body["stage"] != nil || body["backstage"] != nil {
		t.Errorf("handles left %v", body)
	}
}

func TestConnectValidation(t *testing.T) {
	srv := newTestServer(t)
	browser := newBrowser(t)

	resp, _ := postJSON(t, browser, srv.URL+"/api/broadcast/connect", map[string]any{"stageToken": "st", "role": "producer"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("bad role status %d", resp.StatusCode)
	}
	resp, _ = postJSON(t, browser, srv.URL+"/api/broadcast/connect", map[string]any{"apiKey": "k", "role": "fan"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("no token status %d", resp.StatusCode)
	}
	resp, err := browser.Post(srv.URL+"/api/broadcast/connect", "application/json", strings.NewReader("{"))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("bad json status %d", resp.StatusCode)
	}
}

func TestConnectFailureIsRolledBack(t *testing.T) {
	srv := newTestServer(t)
	browser := newBrowser(t)

	failing := fake.NewSession(domain.Backstage)
	failing.ConnectErr = errors.New("token expired")
	srv.dialer.Prepared[domain.Backstage] = failing

	resp, body := postJSON(t, browser, srv.URL+"/api/broadcast/connect", hostJoin)
	if resp.StatusCode != http.StatusBadGateway {
		t.Fatalf("status %d: %v", resp.StatusCode, body)
	}
	if body["kind"] != "backstage" || body["op"] != "connect" {
		t.Errorf("error body %v", body)
	}

	resp, body = postJSON(t, browser, srv.URL+"/api/broadcast/connect", hostJoin)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("retry status %d: %v", resp.StatusCode, body)
	}
}

func TestClientsAreSeparated(t *testing.T) {
	srv := newTestServer(t)
	a, b := newBrowser(t), newBrowser(t)

	if resp, _ := postJSON(t, a, srv.URL+"/api/broadcast/connect", hostJoin); resp.StatusCode != http.StatusOK {
		t.Fatalf("a connect %d", resp.StatusCode)
	}
	fan := map[string]any{"backstageToken": "bt", "sessionId": "back-1", "role": "fan"}
	if resp, _ := postJSON(t, b, srv.URL+"/api/broadcast/connect", fan); resp.StatusCode != http.StatusOK {
		t.Fatalf("b connect %d", resp.StatusCode)
	}
	if srv.clients.Len() != 2 {
		t.Fatalf("expected 2 clients, got %d", srv.clients.Len())
	}
	_, body := getJSON(t, b, srv.URL+"/api/broadcast/state")
	if body["role"] != "fan" || body["stage"] != nil {
		t.Errorf("b state %v", body)
	}
}

func TestParticipantsEndpoint(t *testing.T) {
	srv := newTestServer(t)
	browser := newBrowser(t)

	_, body := getJSON(t, browser, srv.URL+"/api/broadcast/participants")
	parts, _ := body["participants"].(map[string]any)
	if len(parts) != 3 || body["kind"] != "stage" {
		t.Fatalf("participants before connect %v", body)
	}

	postJSON(t, browser, srv.URL+"/api/broadcast/connect", hostJoin)
	srv.dialer.Last(domain.Backstage).CreateStream("b1", `{"userType":"fan"}`)

	_, body = getJSON(t, browser, srv.URL+"/api/broadcast/participants?useStage=false")
	parts, _ = body["participants"].(map[string]any)
	fanView, _ := parts["fan"].(map[string]any)
	if fanView["connected"] != true || fanView["streamId"] != "b1" || fanView["container"] != "videofan" {
		t.Errorf("fan participant %v", fanView)
	}
}

func TestSignalEndpoint(t *testing.T) {
	srv := newTestServer(t)
	browser := newBrowser(t)
	postJSON(t, browser, srv.URL+"/api/broadcast/connect", hostJoin)

	resp, _ := postJSON(t, browser, srv.URL+"/api/broadcast/signal", map[string]any{"type": "goLive", "data": "now", "useStage": true})
	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("status %d", resp.StatusCode)
	}
	if got := srv.dialer.Last(domain.Stage).Signals(); len(got) != 1 || got[0].Type != "goLive" {
		t.Errorf("stage signals %+v", got)
	}
	resp, _ = postJSON(t, browser, srv.URL+"/api/broadcast/signal", map[string]any{"data": "x"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("empty type status %d", resp.StatusCode)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t)
	browser := newBrowser(t)
	postJSON(t, browser, srv.URL+"/api/broadcast/connect", hostJoin)

	resp, err := browser.Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(raw), "stagecast_session_connects_total") {
		t.Errorf("metrics %d: %s", resp.StatusCode, raw)
	}
}

type frame map[string]any

func readFrame(t *testing.T, ws *websocket.Conn, typ string) frame {
	t.Helper()
	_ = ws.SetReadDeadline(time.Now().Add(3 * time.Second))
	for {
		var f frame
		if err := ws.ReadJSON(&f); err != nil {
			t.Fatalf("waiting for %s frame: %v", typ, err)
		}
		if f["type"] == typ {
			return f
		}
	}
}

func TestEventFeed(t *testing.T) {
	srv := newTestServer(t)
	browser := newBrowser(t)

	// First request sets the session cookie the websocket reuses.
	getJSON(t, browser, srv.URL+"/api/broadcast/state")
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/ws/events"
	ws, _, err := (&websocket.Dialer{Jar: browser.Jar}).Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("ws dial: %v", err)
	}
	defer ws.Close()

	if err := ws.WriteJSON(map[string]any{"type": "ping"}); err != nil {
		t.Fatal(err)
	}
	readFrame(t, ws, "pong")

	if resp, _ := postJSON(t, browser, srv.URL+"/api/broadcast/connect", hostJoin); resp.StatusCode != http.StatusOK {
		t.Fatalf("connect %d", resp.StatusCode)
	}

	srv.dialer.Last(domain.Stage).CreateStream("s1", `{"userType":"celebrity"}`)
	f := readFrame(t, ws, "streamChanged")
	if f["role"] != "celebrity" || f["event"] != "streamCreated" || f["container"] != "videocelebrity" {
		t.Errorf("stream frame %v", f)
	}

	if err := ws.WriteJSON(map[string]any{"type": "volume", "role": "celebrity", "volume": 30, "useStage": true}); err != nil {
		t.Fatal(err)
	}
	if err := ws.WriteJSON(map[string]any{"type": "unsubscribe_all", "useStage": true}); err != nil {
		t.Fatal(err)
	}
	f = readFrame(t, ws, "pubsub")
	ps, _ := f["pubsub"].(map[string]any)
	if subs, _ := ps["subscribers"].([]any); len(subs) != 0 {
		t.Errorf("subscribers after unsubscribe_all %v", ps)
	}

	if err := ws.WriteJSON(map[string]any{"type": "signal", "useStage": false, "signal": map[string]any{"type": "chatMessage", "data": "hi"}}); err != nil {
		t.Fatal(err)
	}
	if err := ws.WriteJSON(map[string]any{"type": "video", "enable": false}); err != nil {
		t.Fatal(err)
	}
	if err := ws.WriteJSON(map[string]any{"type": "participants", "useStage": true}); err != nil {
		t.Fatal(err)
	}
	f = readFrame(t, ws, "participants")
	if f["kind"] != "stage" {
		t.Errorf("participants frame %v", f)
	}
	if got := srv.dialer.Last(domain.Backstage).Signals(); len(got) != 1 || got[0].Data != "hi" {
		t.Errorf("backstage signals %+v", got)
	}
	if srv.dialer.Last(domain.Stage).Video() {
		t.Error("video command not applied")
	}

	srv.dialer.Last(domain.Backstage).ReceiveSignal(domain.Signal{Type: "chatMessage", Data: "hello", From: "c2"})
	f = readFrame(t, ws, "signal")
	sig, _ := f["signal"].(map[string]any)
	if sig["data"] != "hello" || sig["from"] != "c2" {
		t.Errorf("signal frame %v", f)
	}

	if err := ws.WriteJSON(map[string]any{"type": "dance"}); err != nil {
		t.Fatal(err)
	}
	f = readFrame(t, ws, "error")
	if f["error"] != "unknown_command" {
		t.Errorf("error frame %v", f)
	}
}
