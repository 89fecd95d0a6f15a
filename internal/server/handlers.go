package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/ziadkadry99/codepane/internal/theme"
	"github.com/ziadkadry99/codepane/internal/view"
	"github.com/ziadkadry99/codepane/internal/widget"
)

// handleEmbed renders the widget server-side and returns a full embed
// page. A per-panel error still renders (200); only configuration and
// capability failures change the status code.
func (s *Server) handleEmbed(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	files := q.Get("files")

	mode, err := theme.ParseMode(q.Get("theme"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	dark := q.Get("dark") == "1"
	tab, _ := strconv.Atoi(q.Get("tab"))

	sink := &widget.CollectingSink{}
	orc := s.newOrchestrator(sink, mode, func() bool { return dark })
	orc.SetInitialTab(tab)

	status := http.StatusOK
	renderErr := orc.Render(r.Context(), files)
	switch {
	case renderErr == nil:
		if q.Get("retry") == "1" {
			// A failed retry (out of range, non-retryable panel) still
			// has a displayable terminal view; fall through with it.
			if err := orc.Retry(r.Context(), tab); err != nil {
				var capErr *widget.CapabilityError
				if errors.As(err, &capErr) {
					status = http.StatusBadGateway
				}
			}
		}
	case errors.Is(renderErr, widget.ErrEmptyFileList):
		status = http.StatusBadRequest
	default:
		var valErr *widget.ValidationError
		var capErr *widget.CapabilityError
		if errors.As(renderErr, &valErr) {
			status = http.StatusBadRequest
		} else if errors.As(renderErr, &capErr) {
			status = http.StatusBadGateway
		} else {
			status = http.StatusInternalServerError
		}
	}

	terminal, ok := sink.Last()
	if !ok {
		http.Error(w, "no view produced", http.StatusInternalServerError)
		return
	}

	base := view.QueryBase(files, string(mode))
	if dark {
		base += "&dark=1"
	}
	title := "codepane"
	if terminal.Active >= 0 && terminal.Active < len(terminal.Panels) {
		title = terminal.Panels[terminal.Active].Title
	}
	page, err := view.RenderPage(terminal, title, theme.Resolve(mode, dark) == theme.ModeDark, base)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write([]byte(page))
}

// introspection is the /api/introspect response body.
type introspection struct {
	Version         string `json:"version"`
	HighlightSource string `json:"highlight_source"`
	Provenance      string `json:"provenance,omitempty"`
	Ready           bool   `json:"ready"`
}

func (s *Server) handleIntrospect(w http.ResponseWriter, r *http.Request) {
	snap := s.engine.Snapshot()
	source := snap.Source
	if source == "" {
		source = "auto"
	}
	resp := introspection{
		Version:         s.version,
		HighlightSource: source,
		Provenance:      string(snap.Provenance),
		Ready:           snap.Ready,
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// retryRequest is the JSON body for /api/retry.
type retryRequest struct {
	Files string `json:"files"`
	Theme string `json:"theme,omitempty"`
	Index int    `json:"index"`
}

// retryResponse carries the terminal view after a forced retry.
type retryResponse struct {
	View widget.ViewState `json:"view"`
}

func (s *Server) handleRetry(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var req retryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
		return
	}

	mode, err := theme.ParseMode(req.Theme)
	if err != nil {
		http.Error(w, fmt.Sprintf(`{"error":%q}`, err.Error()), http.StatusBadRequest)
		return
	}

	sink := &widget.CollectingSink{}
	orc := s.newOrchestrator(sink, mode, nil)
	orc.SetInitialTab(req.Index)

	if err := orc.Render(r.Context(), req.Files); err != nil {
		var capErr *widget.CapabilityError
		status := http.StatusBadRequest
		if errors.As(err, &capErr) {
			status = http.StatusBadGateway
		}
		http.Error(w, fmt.Sprintf(`{"error":%q}`, err.Error()), status)
		return
	}

	if err := orc.Retry(r.Context(), req.Index); err != nil {
		http.Error(w, fmt.Sprintf(`{"error":%q}`, err.Error()), http.StatusBadRequest)
		return
	}

	terminal, _ := sink.Last()
	json.NewEncoder(w).Encode(retryResponse{View: terminal})
}
