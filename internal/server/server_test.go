package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/ziadkadry99/codepane/internal/config"
	"github.com/ziadkadry99/codepane/internal/widget"
)

// newSourceServer serves fake raw file content for embed tests.
func newSourceServer(t *testing.T) (*httptest.Server, *sync.Map) {
	t.Helper()
	var hits sync.Map
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n, _ := hits.LoadOrStore(r.URL.Path, new(int))
		count := n.(*int)
		*count++
		switch r.URL.Path {
		case "/main.go":
			w.Write([]byte("package main\n\nfunc main() {}\n"))
		case "/a.go":
			w.Write([]byte("package a"))
		case "/b.go":
			w.Write([]byte("package b"))
		case "/flaky.go":
			if *count == 1 {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			w.Write([]byte("package flaky"))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	src, _ := newSourceServer(t)
	cfg := config.DefaultConfig()
	cfg.SourceBase = src.URL
	cfg.Allowed = []string{"**"}
	cfg.FetchTimeoutSeconds = 5
	return New(cfg, "test")
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest("GET", "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"status":"ok"`) {
		t.Errorf("body = %q", rec.Body.String())
	}
}

func TestEmbedSingleFile(t *testing.T) {
	srv := newTestServer(t)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest("GET", "/embed?files=main.go", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %q", rec.Code, rec.Body.String())
	}
	body := rec.Body.String()
	if !strings.Contains(body, `data-phase="ready"`) {
		t.Errorf("expected a ready panel: %q", body)
	}
	// The static CSS always mentions the tab classes, so check the
	// markup for the tab strip itself.
	if strings.Contains(body, `role="tablist"`) {
		t.Error("single file must not render tabs")
	}
	if !strings.Contains(body, "<title>main.go</title>") {
		t.Error("page title should be the active file name")
	}
}

func TestEmbedTabbedIsLazy(t *testing.T) {
	src, hits := newSourceServer(t)
	cfg := config.DefaultConfig()
	cfg.SourceBase = src.URL
	cfg.Allowed = []string{"**"}
	srv := New(cfg, "test")

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest("GET", "/embed?files=a.go,b.go", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `role="tablist"`) {
		t.Error("expected a tab strip")
	}
	if !strings.Contains(body, `data-index="0" data-phase="ready"`) {
		t.Errorf("active panel should be ready: %q", body)
	}
	if !strings.Contains(body, `data-index="1" data-phase="loading"`) {
		t.Errorf("hidden panel should still be loading: %q", body)
	}
	if _, fetched := hits.Load("/b.go"); fetched {
		t.Error("hidden tab must not be fetched")
	}
}

func TestEmbedTabParameter(t *testing.T) {
	srv := newTestServer(t)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest("GET", "/embed?files=a.go,b.go&tab=1", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `data-index="1" data-phase="ready"`) {
		t.Errorf("requested tab should be ready: %q", body)
	}
	if !strings.Contains(body, `data-index="0" data-phase="loading"`) {
		t.Errorf("other tab should stay lazy: %q", body)
	}
}

func TestEmbedEmptyFiles(t *testing.T) {
	srv := newTestServer(t)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest("GET", "/embed", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	// Even the failure is a rendered page, not a bare error.
	if !strings.Contains(rec.Body.String(), "codepane-error") {
		t.Errorf("expected rendered error view: %q", rec.Body.String())
	}
}

func TestEmbedInvalidLocator(t *testing.T) {
	srv := newTestServer(t)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest("GET", "/embed?files=%3Cscript%3E.js", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "<script>.js") {
		t.Error("offending locator leaked unescaped into the page")
	}
}

func TestEmbedBadTheme(t *testing.T) {
	srv := newTestServer(t)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest("GET", "/embed?files=main.go&theme=sepia", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestEmbedMissingFileStillRenders(t *testing.T) {
	srv := newTestServer(t)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest("GET", "/embed?files=nope.go", nil))

	// A per-panel failure is a successful render of an error view.
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "HTTP 404") {
		t.Errorf("expected status failure in view: %q", body)
	}
	if !strings.Contains(body, "retry=1") {
		t.Errorf("expected a retry link: %q", body)
	}
}

func TestIntrospect(t *testing.T) {
	srv := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest("GET", "/api/introspect", nil))
	var before introspection
	if err := json.NewDecoder(rec.Body).Decode(&before); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if before.Ready {
		t.Error("engine must not be loaded before any render")
	}
	if before.HighlightSource != "auto" {
		t.Errorf("unloaded source = %q, want auto", before.HighlightSource)
	}
	if before.Version != "test" {
		t.Errorf("version = %q", before.Version)
	}

	// A render loads the shared engine.
	srv.Router().ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/embed?files=main.go", nil))

	rec = httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest("GET", "/api/introspect", nil))
	var after introspection
	if err := json.NewDecoder(rec.Body).Decode(&after); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !after.Ready || after.HighlightSource != "chroma" || after.Provenance != "default" {
		t.Errorf("unexpected introspection after render: %+v", after)
	}
}

func TestRetryEndpoint(t *testing.T) {
	src, hits := newSourceServer(t)
	cfg := config.DefaultConfig()
	cfg.SourceBase = src.URL
	cfg.Allowed = []string{"**"}
	srv := New(cfg, "test")

	body, _ := json.Marshal(retryRequest{Files: "flaky.go", Index: 0})
	req := httptest.NewRequest("POST", "/api/retry", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %q", rec.Code, rec.Body.String())
	}
	var resp retryResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.View.Panels) != 1 || resp.View.Panels[0].Phase != widget.PhaseReady {
		t.Fatalf("expected ready panel after retry, got %+v", resp.View)
	}
	if !strings.Contains(resp.View.Panels[0].Content, "flaky") {
		t.Errorf("content = %q", resp.View.Panels[0].Content)
	}
	if n, ok := hits.Load("/flaky.go"); !ok || *(n.(*int)) != 2 {
		t.Error("retry must refetch exactly once more")
	}
}

func TestRetryEndpointRejectsBadBody(t *testing.T) {
	srv := newTestServer(t)
	req := httptest.NewRequest("POST", "/api/retry", strings.NewReader("not json"))
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestCORSHeaders(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.AllowAllOrigins = true
	srv := New(cfg, "test")

	req := httptest.NewRequest("GET", "/healthz", nil)
	req.Header.Set("Origin", "https://blog.example.com")
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Access-Control-Allow-Origin = %q, want *", got)
	}
}
