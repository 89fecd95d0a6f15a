// Package highlight provides the syntax-highlighting capability used by
// widget rendering. The capability is loaded through a shared
// loader.Singleton so that many widgets trigger at most one load.
package highlight

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/ziadkadry99/codepane/internal/loader"
)

// Engine marks up source text as HTML. Implementations must be safe for
// concurrent use.
type Engine interface {
	// Name identifies the engine implementation.
	Name() string
	// Highlight converts code in the given language to HTML markup
	// using the named style.
	Highlight(code, lang, style string) (string, error)
}

// Factory builds an Engine for a registered source name.
type Factory func() (Engine, error)

var (
	regMu    sync.Mutex
	registry = map[string]Factory{}
	ambient  Engine
)

// Register makes an engine source available to Load.
func Register(name string, f Factory) {
	regMu.Lock()
	defer regMu.Unlock()
	registry[name] = f
}

// SetAmbient installs an engine that is treated as already present:
// EnsureAvailable resolves to it immediately with provenance "ambient"
// and no load attempt. A nil engine clears it.
func SetAmbient(e Engine) {
	regMu.Lock()
	defer regMu.Unlock()
	ambient = e
}

func detectAmbient() (Engine, bool) {
	regMu.Lock()
	defer regMu.Unlock()
	return ambient, ambient != nil
}

// Load builds the engine registered under source.
func Load(_ context.Context, source string) (Engine, error) {
	regMu.Lock()
	f, ok := registry[source]
	regMu.Unlock()
	if !ok {
		return nil, fmt.Errorf("unknown highlight source %q", source)
	}
	return f()
}

// Probe verifies that a loaded engine honors the highlight contract.
func Probe(e Engine) error {
	out, err := e.Highlight("package main", "go", "github")
	if err != nil {
		return err
	}
	if strings.TrimSpace(out) == "" {
		return fmt.Errorf("engine %q returned empty markup", e.Name())
	}
	return nil
}

// DefaultSource is the engine loaded when no override is configured.
const DefaultSource = "chroma"

// NewSingleton returns a loader for the highlight engine. One instance
// is shared by reference among all widgets in a process.
func NewSingleton(opts ...loader.Option[Engine]) *loader.Singleton[Engine] {
	all := append([]loader.Option[Engine]{
		loader.WithProbe[Engine](Probe),
		loader.WithAmbientDetect[Engine](detectAmbient),
	}, opts...)
	return loader.New(DefaultSource, Load, all...)
}

func init() {
	Register(DefaultSource, func() (Engine, error) {
		return NewMarkdownEngine(NewChromaEngine()), nil
	})
}
