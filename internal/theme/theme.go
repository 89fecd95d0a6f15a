package theme

import (
	"fmt"

	"github.com/alecthomas/chroma/v2/styles"
)

// Mode is the requested appearance mode of a widget.
type Mode string

const (
	ModeLight Mode = "light"
	ModeDark  Mode = "dark"
	ModeAuto  Mode = "auto"
)

// ParseMode validates a mode string. An empty string means auto.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "":
		return ModeAuto, nil
	case ModeLight, ModeDark, ModeAuto:
		return Mode(s), nil
	}
	return "", fmt.Errorf("invalid theme mode %q: must be one of light, dark, auto", s)
}

// Resolve maps a requested mode to a concrete one. Auto consults the
// live system preference at call time; light and dark pass through.
func Resolve(mode Mode, prefersDark bool) Mode {
	if mode == ModeAuto {
		if prefersDark {
			return ModeDark
		}
		return ModeLight
	}
	return mode
}

// Resolver caches the concrete highlight style for one widget instance.
// The cache is invalidated on a mode change or a system-preference event.
type Resolver struct {
	mode        Mode
	prefersDark func() bool
	lightStyle  string
	darkStyle   string
	resolved    string // empty means recompute
}

// NewResolver creates a Resolver. prefersDark supplies the live system
// preference; a nil func is treated as "prefers light".
func NewResolver(mode Mode, prefersDark func() bool, lightStyle, darkStyle string) *Resolver {
	if mode == "" {
		mode = ModeAuto
	}
	if lightStyle == "" {
		lightStyle = "github"
	}
	if darkStyle == "" {
		darkStyle = "github-dark"
	}
	return &Resolver{
		mode:        mode,
		prefersDark: prefersDark,
		lightStyle:  lightStyle,
		darkStyle:   darkStyle,
	}
}

// Mode returns the requested mode.
func (r *Resolver) Mode() Mode { return r.mode }

// SetMode changes the requested mode, invalidating the cache if it differs.
func (r *Resolver) SetMode(mode Mode) {
	if mode == r.mode {
		return
	}
	r.mode = mode
	r.resolved = ""
}

// Invalidate clears the cached style. Called when the system
// preference signal fires.
func (r *Resolver) Invalidate() { r.resolved = "" }

// Style returns the chroma style name for the active theme, computing
// and caching it on first use.
func (r *Resolver) Style() string {
	if r.resolved != "" {
		return r.resolved
	}
	dark := r.prefersDark != nil && r.prefersDark()
	name := r.lightStyle
	if Resolve(r.mode, dark) == ModeDark {
		name = r.darkStyle
	}
	if styles.Get(name) == styles.Fallback && name != styles.Fallback.Name {
		name = styles.Fallback.Name
	}
	r.resolved = name
	return name
}
