// Package widget implements the lazy multi-file render orchestrator: it
// decides what is fetched, when, how many times, and in what order view
// states are emitted to the renderer collaborator.
package widget

import (
	"context"
	"fmt"
	"html"
	"sync"

	"github.com/ziadkadry99/codepane/internal/fetch"
	"github.com/ziadkadry99/codepane/internal/highlight"
	"github.com/ziadkadry99/codepane/internal/loader"
	"github.com/ziadkadry99/codepane/internal/locator"
	"github.com/ziadkadry99/codepane/internal/theme"
)

// Options wires the orchestrator's collaborators. Engine must be the
// process-wide shared singleton so that many widgets trigger at most
// one highlight-engine load.
type Options struct {
	Fetcher         fetch.Fetcher
	Engine          *loader.Singleton[highlight.Engine]
	Theme           *theme.Resolver
	Sink            Sink
	BaseURL         string // relative locators resolve against this
	HighlightSource string // optional engine source override
}

// Orchestrator drives rendering for one widget instance. It validates
// configuration, builds file records, sequences skeleton, content and
// error views, and reacts to external re-render triggers.
type Orchestrator struct {
	mu              sync.Mutex
	cache           *LoadCache
	engineLoader    *loader.Singleton[highlight.Engine]
	theme           *theme.Resolver
	sink            Sink
	baseURL         string
	highlightSource string

	tabs    *TabState
	records []*FileRecord
}

// New creates an Orchestrator. A nil sink discards emissions.
func New(opts Options) *Orchestrator {
	sink := opts.Sink
	if sink == nil {
		sink = SinkFunc(func(ViewState) {})
	}
	th := opts.Theme
	if th == nil {
		th = theme.NewResolver(theme.ModeAuto, nil, "", "")
	}
	o := &Orchestrator{
		engineLoader:    opts.Engine,
		theme:           th,
		sink:            sink,
		baseURL:         opts.BaseURL,
		highlightSource: opts.HighlightSource,
		tabs:            NewTabState(),
	}
	// The cache shares o.mu so record writes and view snapshots never
	// interleave.
	o.cache = NewLoadCache(opts.Fetcher, &o.mu)
	return o
}

// SetInitialTab selects the tab the next Render should reveal. Out of
// range values are clamped during Render.
func (o *Orchestrator) SetInitialTab(i int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.tabs.SetActive(i)
}

// FileCount returns the number of configured records.
func (o *Orchestrator) FileCount() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.records)
}

// Render parses and renders the given configuration string. It emits a
// structural placeholder view before any asynchronous work, then the
// content or error view for the visible panel, and returns once a
// terminal view has been emitted. Calling Render again reconfigures
// the widget: records are replaced wholesale, rendered-tab tracking is
// reset, and the active tab is preserved only if still in bounds.
func (o *Orchestrator) Render(ctx context.Context, config string) error {
	refs := locator.Split(config)
	if len(refs) == 0 {
		o.emitConfigError("no files configured: list at least one file reference")
		return ErrEmptyFileList
	}
	// The first invalid reference wins; validation short-circuits
	// before any network access.
	for _, raw := range refs {
		if err := locator.Validate(raw); err != nil {
			o.emitConfigError(err.Error())
			return &ValidationError{Value: raw, Err: err}
		}
	}

	records := make([]*FileRecord, len(refs))
	for i, raw := range refs {
		records[i] = NewFileRecord(locator.Parse(raw, o.baseURL))
	}

	o.mu.Lock()
	o.records = records
	o.tabs.Reset()
	if o.tabs.Active() < 0 || o.tabs.Active() >= len(records) {
		o.tabs.SetActive(0)
	}
	active := o.tabs.Active()
	view := o.snapshotLocked(nil)
	if len(records) > 1 {
		o.tabs.SetScaffolded(true)
	}
	o.tabs.MarkRendered(active)
	o.mu.Unlock()

	// Placeholder view goes out before any suspension point.
	o.sink.Emit(view)

	engine, err := o.engineLoader.EnsureAvailable(ctx, o.highlightSource)
	if err != nil {
		o.emitCapabilityError(err)
		return &CapabilityError{Err: err}
	}

	o.settle(ctx, engine, records[active], false)
	return nil
}

// SwitchTab makes tab i active. Switching to a rendered, settled tab
// is a pure state update; a never-rendered tab is marked rendered
// immediately (a rapid second switch back must not trigger a duplicate
// build) and then settled like any visible panel. An unsettled record
// never short-circuits: a render pass that died on a capability
// failure leaves its tab marked rendered, and the switch back is what
// finally settles it.
func (o *Orchestrator) SwitchTab(ctx context.Context, i int) error {
	o.mu.Lock()
	if i < 0 || i >= len(o.records) {
		o.mu.Unlock()
		return fmt.Errorf("tab index %d out of range", i)
	}
	o.tabs.SetActive(i)
	rec := o.records[i]
	already := o.tabs.IsRendered(i) && rec.Settled
	o.tabs.MarkRendered(i)
	o.mu.Unlock()

	o.emit(ctx)
	if already {
		return nil
	}

	engine, err := o.engineLoader.EnsureAvailable(ctx, o.highlightSource)
	if err != nil {
		o.emitCapabilityError(err)
		return &CapabilityError{Err: err}
	}
	o.settle(ctx, engine, rec, false)
	return nil
}

// Retry forces a fresh load attempt for panel i, re-emitting loading
// and then content or error for that panel only. Records created from
// an undecomposable reference are never retried.
func (o *Orchestrator) Retry(ctx context.Context, i int) error {
	o.mu.Lock()
	if i < 0 || i >= len(o.records) {
		o.mu.Unlock()
		return fmt.Errorf("panel index %d out of range", i)
	}
	rec := o.records[i]
	if !rec.Retryable {
		o.mu.Unlock()
		return fmt.Errorf("panel %d (%s) is not retryable", i, rec.DisplayName)
	}
	rec.Settled = false
	rec.Failure = ""
	o.mu.Unlock()

	o.emit(ctx)

	engine, err := o.engineLoader.EnsureAvailable(ctx, o.highlightSource)
	if err != nil {
		o.emitCapabilityError(err)
		return &CapabilityError{Err: err}
	}
	o.settle(ctx, engine, rec, true)
	return nil
}

// SetThemeMode changes the requested theme mode. Only the theme cache
// is invalidated: the current view is re-emitted without refetching
// content or rebuilding tab scaffolding.
func (o *Orchestrator) SetThemeMode(mode theme.Mode) {
	o.mu.Lock()
	o.theme.SetMode(mode)
	o.mu.Unlock()
	o.emit(context.Background())
}

// OnSystemThemeChange is the re-entry point for the host's
// system-preference signal. Meaningful in auto mode; harmless otherwise.
func (o *Orchestrator) OnSystemThemeChange() {
	o.mu.Lock()
	o.theme.Invalidate()
	o.mu.Unlock()
	o.emit(context.Background())
}

// SettleAll loads every record (skipping settled ones) and emits one
// final view with all panels populated. Used by one-shot rendering,
// where laziness has no one to benefit. progress may be nil.
func (o *Orchestrator) SettleAll(ctx context.Context, progress func(done, total int)) error {
	o.mu.Lock()
	records := make([]*FileRecord, len(o.records))
	copy(records, o.records)
	o.mu.Unlock()

	engine, err := o.engineLoader.EnsureAvailable(ctx, o.highlightSource)
	if err != nil {
		o.emitCapabilityError(err)
		return &CapabilityError{Err: err}
	}

	for i, rec := range records {
		o.cache.EnsureLoaded(ctx, rec, false)
		o.mu.Lock()
		if idx := o.indexOfLocked(rec); idx >= 0 {
			o.tabs.MarkRendered(idx)
		}
		o.mu.Unlock()
		if progress != nil {
			progress(i+1, len(records))
		}
	}

	o.mu.Lock()
	view := o.snapshotLocked(engine)
	o.mu.Unlock()
	o.sink.Emit(view)
	return nil
}

// settle completes one load attempt for rec and emits the resulting
// view. A record that is no longer current (the configuration changed
// while the fetch was in flight) is identified by its ID and its
// settlement is ignored; there is no cancellation of in-flight fetches.
func (o *Orchestrator) settle(ctx context.Context, engine highlight.Engine, rec *FileRecord, forceRetry bool) {
	o.cache.EnsureLoaded(ctx, rec, forceRetry)

	o.mu.Lock()
	idx := o.indexOfLocked(rec)
	if idx < 0 {
		o.mu.Unlock()
		return
	}
	o.tabs.MarkRendered(idx)
	view := o.snapshotLocked(engine)
	o.mu.Unlock()

	o.sink.Emit(view)
}

// indexOfLocked finds rec in the current records by identity, not
// index: indices are reused across reconfiguration, IDs are not.
func (o *Orchestrator) indexOfLocked(rec *FileRecord) int {
	for i, r := range o.records {
		if r.ID == rec.ID {
			return i
		}
	}
	return -1
}

// emit sends a snapshot of the current state.
func (o *Orchestrator) emit(ctx context.Context) {
	engine := o.readyEngine(ctx)
	o.mu.Lock()
	view := o.snapshotLocked(engine)
	o.mu.Unlock()
	o.sink.Emit(view)
}

// readyEngine returns the engine only if it is already available; it
// never triggers a load.
func (o *Orchestrator) readyEngine(ctx context.Context) highlight.Engine {
	if !o.engineLoader.Snapshot().Ready {
		return nil
	}
	engine, err := o.engineLoader.EnsureAvailable(ctx, "")
	if err != nil {
		return nil
	}
	return engine
}

// snapshotLocked builds the view model for the current state. Callers
// must hold o.mu.
func (o *Orchestrator) snapshotLocked(engine highlight.Engine) ViewState {
	style := o.theme.Style()
	kind := KindSingle
	if len(o.records) > 1 {
		kind = KindTabbed
	}
	active := o.tabs.Active()
	if active < 0 || active >= len(o.records) {
		active = 0
	}

	panels := make([]Panel, len(o.records))
	for i, rec := range o.records {
		p := Panel{Title: rec.DisplayName, Language: rec.Language}
		switch {
		case !rec.Settled:
			p.Phase = PhaseLoading
		case rec.Failure != "":
			p.Phase = PhaseError
			p.Message = rec.Failure
			p.Retryable = rec.Retryable
		default:
			p.Phase = PhaseReady
			p.Content = markup(engine, rec, style)
		}
		panels[i] = p
	}

	return ViewState{Kind: kind, Active: active, Style: style, Panels: panels}
}

// markup highlights settled content, falling back to escaped plain
// text if the engine is unavailable or rejects the input.
func markup(engine highlight.Engine, rec *FileRecord, style string) string {
	if engine != nil {
		if out, err := engine.Highlight(rec.Content, rec.Language, style); err == nil {
			return out
		}
	}
	return "<pre><code>" + html.EscapeString(rec.Content) + "</code></pre>"
}

// emitConfigError emits the terminal validation view. The message is
// plain text; the renderer collaborator escapes it, so the offending
// value can never become live markup.
func (o *Orchestrator) emitConfigError(msg string) {
	o.mu.Lock()
	style := o.theme.Style()
	o.mu.Unlock()
	o.sink.Emit(ViewState{
		Kind:   KindSingle,
		Style:  style,
		Panels: []Panel{{Title: "configuration", Phase: PhaseError, Message: msg}},
	})
}

// emitCapabilityError emits a view reporting that the shared highlight
// engine is unavailable, distinctly from any per-file failure.
func (o *Orchestrator) emitCapabilityError(err error) {
	o.mu.Lock()
	view := o.capabilityViewLocked(err)
	o.mu.Unlock()
	o.sink.Emit(view)
}

func (o *Orchestrator) capabilityViewLocked(err error) ViewState {
	style := o.theme.Style()
	kind := KindSingle
	if len(o.records) > 1 {
		kind = KindTabbed
	}
	active := o.tabs.Active()
	if active < 0 || active >= len(o.records) {
		active = 0
	}
	msg := fmt.Sprintf("syntax highlighter unavailable: %v", err)
	panels := make([]Panel, len(o.records))
	for i, rec := range o.records {
		panels[i] = Panel{Title: rec.DisplayName, Language: rec.Language, Phase: PhaseError, Message: msg}
	}
	if len(panels) == 0 {
		panels = []Panel{{Title: "highlighter", Phase: PhaseError, Message: msg}}
	}
	return ViewState{Kind: kind, Active: active, Style: style, Panels: panels}
}
