package server

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/ziadkadry99/codepane/internal/theme"
	"github.com/ziadkadry99/codepane/internal/widget"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// wsRequest is the incoming WebSocket message format.
type wsRequest struct {
	Type        string `json:"type"` // "render", "switch", "retry", "theme", "system_theme"
	Files       string `json:"files,omitempty"`
	Index       int    `json:"index,omitempty"`
	Mode        string `json:"mode,omitempty"`
	PrefersDark bool   `json:"prefers_dark,omitempty"`
}

// wsResponse is the outgoing WebSocket message format. Every view-state
// emission of the orchestrator streams out as a "view" message, so the
// client sees loading placeholders before content arrives.
type wsResponse struct {
	Type    string            `json:"type"` // "view" or "error"
	View    *widget.ViewState `json:"view,omitempty"`
	Message string            `json:"message,omitempty"`
}

// handleWS drives one widget instance over a websocket. The initial
// render comes from the query string; later client messages re-enter
// the orchestrator. All operations run on the read loop goroutine, so
// emissions are naturally ordered.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	mode, err := theme.ParseMode(q.Get("theme"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("codepane: websocket upgrade: %v", err)
		return
	}
	defer conn.Close()

	prefersDark := q.Get("dark") == "1"
	sink := widget.SinkFunc(func(v widget.ViewState) {
		if err := conn.WriteJSON(wsResponse{Type: "view", View: &v}); err != nil {
			log.Printf("codepane: websocket write: %v", err)
		}
	})
	orc := s.newOrchestrator(sink, mode, func() bool { return prefersDark })

	if files := q.Get("files"); files != "" {
		if err := orc.Render(r.Context(), files); err != nil {
			// The error view already streamed; this is advisory.
			sendWSError(conn, err.Error())
		}
	}

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("codepane: websocket read: %v", err)
			}
			return
		}

		var req wsRequest
		if err := json.Unmarshal(msg, &req); err != nil {
			sendWSError(conn, "invalid message format")
			continue
		}

		switch req.Type {
		case "render":
			if err := orc.Render(r.Context(), req.Files); err != nil {
				sendWSError(conn, err.Error())
			}
		case "switch":
			if err := orc.SwitchTab(r.Context(), req.Index); err != nil {
				sendWSError(conn, err.Error())
			}
		case "retry":
			if err := orc.Retry(r.Context(), req.Index); err != nil {
				sendWSError(conn, err.Error())
			}
		case "theme":
			m, err := theme.ParseMode(req.Mode)
			if err != nil {
				sendWSError(conn, err.Error())
				continue
			}
			orc.SetThemeMode(m)
		case "system_theme":
			prefersDark = req.PrefersDark
			orc.OnSystemThemeChange()
		default:
			sendWSError(conn, "unknown message type: "+req.Type)
		}
	}
}

func sendWSError(conn *websocket.Conn, message string) {
	if err := conn.WriteJSON(wsResponse{Type: "error", Message: message}); err != nil {
		log.Printf("codepane: websocket write error: %v", err)
	}
}
