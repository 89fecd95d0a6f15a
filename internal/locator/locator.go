// Package locator parses and validates the file references a widget is
// configured with. A locator is either an absolute http(s) URL or a
// path resolved against the configured source base URL.
package locator

import (
	"fmt"
	"net/url"
	"path"
	"strings"
	"unicode"
)

// Ref is the structural decomposition of one locator.
type Ref struct {
	Raw         string // the original reference, kept for diagnostics
	DisplayName string // tab label, the last path segment
	URL         string // resolved fetch URL
	Err         error  // non-nil when the reference could not be decomposed
}

// Split breaks a comma-separated configuration string into locators,
// trimming whitespace and dropping empties.
func Split(config string) []string {
	parts := strings.Split(config, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Validate checks that a locator has the expected reference shape.
// Validation failures are terminal configuration errors; they are
// detected before any network access.
func Validate(raw string) error {
	if raw == "" {
		return fmt.Errorf("empty file reference")
	}
	for _, r := range raw {
		if unicode.IsSpace(r) || unicode.IsControl(r) {
			return fmt.Errorf("file reference %q contains whitespace or control characters", raw)
		}
	}
	if strings.ContainsAny(raw, `<>"'`+"`"+`\`) {
		return fmt.Errorf("file reference %q contains markup characters", raw)
	}
	if scheme := schemeOf(raw); scheme != "" && scheme != "http" && scheme != "https" {
		return fmt.Errorf("file reference %q uses unsupported scheme %q", raw, scheme)
	}
	return nil
}

// schemeOf returns the URL scheme of raw, or "" if it has none.
func schemeOf(raw string) string {
	idx := strings.Index(raw, ":")
	if idx <= 0 {
		return ""
	}
	candidate := raw[:idx]
	for i, r := range candidate {
		if i == 0 && !unicode.IsLetter(r) {
			return ""
		}
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '+' && r != '-' && r != '.' {
			return ""
		}
	}
	return strings.ToLower(candidate)
}

// Parse decomposes a validated locator into a Ref, resolving relative
// references against baseURL. A well-formed locator without a file
// component (such as a trailing slash) yields a Ref with Err set; the
// caller stores it as an already-failed record instead of aborting the
// whole batch.
func Parse(raw, baseURL string) Ref {
	ref := Ref{Raw: raw}

	target := raw
	if schemeOf(raw) == "" {
		joined, err := url.JoinPath(baseURL, strings.Split(strings.TrimPrefix(raw, "/"), "/")...)
		if err != nil {
			ref.Err = fmt.Errorf("resolving %q against %q: %w", raw, baseURL, err)
			return ref
		}
		target = joined
	}

	u, err := url.Parse(target)
	if err != nil {
		ref.Err = fmt.Errorf("parsing %q: %w", raw, err)
		return ref
	}
	ref.URL = u.String()

	// url.JoinPath drops a trailing slash from relative references, so
	// the raw form is checked as well.
	name := path.Base(u.Path)
	if name == "" || name == "." || name == "/" || strings.HasSuffix(u.Path, "/") || strings.HasSuffix(raw, "/") {
		ref.Err = fmt.Errorf("reference %q has no file component", raw)
		return ref
	}
	ref.DisplayName = name
	return ref
}
