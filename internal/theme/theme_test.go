package theme

import "testing"

func TestParseMode(t *testing.T) {
	for _, s := range []string{"light", "dark", "auto"} {
		mode, err := ParseMode(s)
		if err != nil || string(mode) != s {
			t.Errorf("ParseMode(%q) = %q, %v", s, mode, err)
		}
	}
	if mode, err := ParseMode(""); err != nil || mode != ModeAuto {
		t.Errorf("ParseMode(\"\") = %q, %v, want auto", mode, err)
	}
	if _, err := ParseMode("solarized"); err == nil {
		t.Error("ParseMode(\"solarized\") = nil, want error")
	}
}

func TestResolve(t *testing.T) {
	if got := Resolve(ModeLight, true); got != ModeLight {
		t.Errorf("light must ignore the system preference, got %q", got)
	}
	if got := Resolve(ModeDark, false); got != ModeDark {
		t.Errorf("dark must ignore the system preference, got %q", got)
	}
	if got := Resolve(ModeAuto, true); got != ModeDark {
		t.Errorf("auto with dark preference = %q, want dark", got)
	}
	if got := Resolve(ModeAuto, false); got != ModeLight {
		t.Errorf("auto with light preference = %q, want light", got)
	}
}

func TestResolverCachesStyle(t *testing.T) {
	calls := 0
	prefersDark := func() bool {
		calls++
		return false
	}
	r := NewResolver(ModeAuto, prefersDark, "github", "github-dark")

	if got := r.Style(); got != "github" {
		t.Fatalf("Style() = %q, want github", got)
	}
	r.Style()
	r.Style()
	if calls != 1 {
		t.Errorf("expected the preference probe once while cached, got %d calls", calls)
	}
}

func TestResolverInvalidateRecomputes(t *testing.T) {
	dark := false
	r := NewResolver(ModeAuto, func() bool { return dark }, "github", "github-dark")

	if got := r.Style(); got != "github" {
		t.Fatalf("Style() = %q", got)
	}

	// The system preference flips; without invalidation the cache holds.
	dark = true
	if got := r.Style(); got != "github" {
		t.Fatalf("cached style must survive until invalidation, got %q", got)
	}
	r.Invalidate()
	if got := r.Style(); got != "github-dark" {
		t.Errorf("Style() after invalidation = %q, want github-dark", got)
	}
}

func TestResolverSetMode(t *testing.T) {
	r := NewResolver(ModeLight, nil, "github", "github-dark")
	if got := r.Style(); got != "github" {
		t.Fatalf("Style() = %q", got)
	}
	r.SetMode(ModeDark)
	if got := r.Style(); got != "github-dark" {
		t.Errorf("Style() after SetMode(dark) = %q", got)
	}
	// Setting the same mode keeps the cache.
	r.SetMode(ModeDark)
	if got := r.Style(); got != "github-dark" {
		t.Errorf("Style() = %q", got)
	}
}

func TestResolverUnknownStyleFallsBack(t *testing.T) {
	r := NewResolver(ModeLight, nil, "no-such-style", "github-dark")
	got := r.Style()
	if got == "no-such-style" {
		t.Error("unknown style name must fall back to a registered style")
	}
	if got == "" {
		t.Error("Style() returned empty name")
	}
}
