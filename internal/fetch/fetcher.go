// Package fetch retrieves remote file content. It is the transport
// collaborator of the render core: timeouts and origin policy live
// here, never in the orchestrator.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
)

// Fetcher retrieves the bytes behind a resolved locator URL.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) ([]byte, error)
}

// StatusError reports an explicit non-success HTTP response.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: HTTP %d", e.URL, e.Code)
}

// TransportError reports a network-level failure where no response was
// received. Callers surface it with a cross-origin-access hint, since
// an opaque failure is the usual symptom of a host that does not permit
// access from other origins.
type TransportError struct {
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("GET %s: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ErrNotAllowed is returned when a URL matches no allowed pattern.
var ErrNotAllowed = errors.New("URL not covered by allowed patterns")

// maxBodySize caps fetched file content at 4 MiB.
const maxBodySize = 4 << 20

// HTTPFetcher fetches over HTTP(S) with a per-request timeout and a
// doublestar allowlist matched against host+path.
type HTTPFetcher struct {
	client  *http.Client
	allowed []string
}

// NewHTTP creates an HTTPFetcher. Allowed patterns are doublestar globs
// such as "raw.githubusercontent.com/myorg/**"; an empty list allows
// nothing, the pattern "**" allows everything.
func NewHTTP(timeout time.Duration, allowed []string) *HTTPFetcher {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &HTTPFetcher{
		client:  &http.Client{Timeout: timeout},
		allowed: allowed,
	}
}

// Allowed reports whether the URL matches the allowlist.
func (f *HTTPFetcher) Allowed(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	target := u.Host + u.Path
	for _, pat := range f.allowed {
		if ok, err := doublestar.Match(pat, target); err == nil && ok {
			return true
		}
	}
	return false
}

// Fetch retrieves the content at rawURL.
func (f *HTTPFetcher) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	if !f.Allowed(rawURL) {
		return nil, fmt.Errorf("%s: %w", rawURL, ErrNotAllowed)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("building request for %s: %w", rawURL, err)
	}
	req.Header.Set("Accept", "text/plain, */*")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &TransportError{URL: rawURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{URL: rawURL, Code: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize+1))
	if err != nil {
		return nil, &TransportError{URL: rawURL, Err: err}
	}
	if len(body) > maxBodySize {
		return nil, fmt.Errorf("%s: file exceeds %d byte limit", rawURL, maxBodySize)
	}
	return body, nil
}

// NormalizePatterns trims and drops empty allowlist entries.
func NormalizePatterns(patterns []string) []string {
	out := make([]string, 0, len(patterns))
	for _, p := range patterns {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
