package server

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ziadkadry99/codepane/internal/config"
	"github.com/ziadkadry99/codepane/internal/widget"
)

func dialWS(t *testing.T, srv *Server, query string) *websocket.Conn {
	t.Helper()
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/render" + query
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	return conn
}

func readView(t *testing.T, conn *websocket.Conn) *widget.ViewState {
	t.Helper()
	var resp wsResponse
	if err := conn.ReadJSON(&resp); err != nil {
		t.Fatalf("read: %v", err)
	}
	if resp.Type != "view" {
		t.Fatalf("expected view message, got %q (%s)", resp.Type, resp.Message)
	}
	return resp.View
}

func TestWSStreamsLoadingThenReady(t *testing.T) {
	src, _ := newSourceServer(t)
	cfg := config.DefaultConfig()
	cfg.SourceBase = src.URL
	cfg.Allowed = []string{"**"}
	srv := New(cfg, "test")

	conn := dialWS(t, srv, "?files=main.go")

	first := readView(t, conn)
	if first.Panels[0].Phase != widget.PhaseLoading {
		t.Fatalf("first emission must be the placeholder, got %s", first.Panels[0].Phase)
	}
	second := readView(t, conn)
	if second.Panels[0].Phase != widget.PhaseReady {
		t.Fatalf("second emission must carry content, got %s", second.Panels[0].Phase)
	}
}

func TestWSSwitchAndTheme(t *testing.T) {
	src, _ := newSourceServer(t)
	cfg := config.DefaultConfig()
	cfg.SourceBase = src.URL
	cfg.Allowed = []string{"**"}
	srv := New(cfg, "test")

	conn := dialWS(t, srv, "?files=a.go,b.go")
	readView(t, conn) // placeholder
	readView(t, conn) // tab 0 content

	if err := conn.WriteJSON(wsRequest{Type: "switch", Index: 1}); err != nil {
		t.Fatalf("write: %v", err)
	}
	switched := readView(t, conn)
	if switched.Active != 1 {
		t.Fatalf("active = %d after switch", switched.Active)
	}
	settled := readView(t, conn)
	if settled.Panels[1].Phase != widget.PhaseReady {
		t.Fatalf("switched tab did not settle: %s", settled.Panels[1].Phase)
	}

	if err := conn.WriteJSON(wsRequest{Type: "theme", Mode: "dark"}); err != nil {
		t.Fatalf("write: %v", err)
	}
	themed := readView(t, conn)
	if themed.Style != "github-dark" {
		t.Errorf("style = %q after theme change", themed.Style)
	}
}

func TestWSUnknownMessageType(t *testing.T) {
	srv := newTestServer(t)
	conn := dialWS(t, srv, "")

	if err := conn.WriteJSON(wsRequest{Type: "bogus"}); err != nil {
		t.Fatalf("write: %v", err)
	}
	var resp wsResponse
	if err := conn.ReadJSON(&resp); err != nil {
		t.Fatalf("read: %v", err)
	}
	if resp.Type != "error" || !strings.Contains(resp.Message, "bogus") {
		t.Errorf("expected error naming the type, got %+v", resp)
	}
}
