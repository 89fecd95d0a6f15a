package widget

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/ziadkadry99/codepane/internal/fetch"
	"github.com/ziadkadry99/codepane/internal/locator"
)

// FileRecord is the load state of one configured file. Records are
// replaced wholesale on reconfiguration; the ID lets the orchestrator
// recognize a superseded record when a fetch settles late.
type FileRecord struct {
	ID          uuid.UUID
	DisplayName string
	SourceURL   string
	Original    string // the raw reference, for diagnostics
	Language    string
	Content     string
	Failure     string
	Retryable   bool
	Settled     bool

	loading bool // a fetch for this record is in flight
}

// NewFileRecord builds a record from a decomposed locator. A reference
// that failed structural decomposition yields a record that is already
// settled with a failure and is never retried.
func NewFileRecord(ref locator.Ref) *FileRecord {
	rec := &FileRecord{
		ID:          uuid.New(),
		DisplayName: ref.DisplayName,
		SourceURL:   ref.URL,
		Original:    ref.Raw,
	}
	if rec.DisplayName == "" {
		rec.DisplayName = ref.Raw
	}
	rec.Language = locator.Language(rec.DisplayName)
	if ref.Err != nil {
		rec.Settled = true
		rec.Failure = ref.Err.Error()
		return rec
	}
	rec.Retryable = true
	return rec
}

// LoadCache performs idempotent per-record loads through the transport
// collaborator. Record fields are read and written only while holding
// mu, which the orchestrator shares so its view snapshots see records
// consistently; the lock is released for the duration of the fetch.
type LoadCache struct {
	fetcher fetch.Fetcher
	mu      sync.Locker
}

// NewLoadCache creates a LoadCache over the given fetcher. mu guards
// record state; the orchestrator passes its own mutex.
func NewLoadCache(f fetch.Fetcher, mu sync.Locker) *LoadCache {
	return &LoadCache{fetcher: f, mu: mu}
}

// EnsureLoaded settles the record: an already-settled record is
// returned untouched unless forceRetry is set, in which case the
// settled/failure state is cleared first so the call never
// short-circuits. A record whose fetch is already in flight is left to
// that fetch. A failed attempt is itself a settled, displayable,
// retryable state.
func (c *LoadCache) EnsureLoaded(ctx context.Context, rec *FileRecord, forceRetry bool) {
	c.mu.Lock()
	if rec.loading || (rec.Settled && !rec.Retryable) || (rec.Settled && !forceRetry) {
		c.mu.Unlock()
		return
	}
	if forceRetry {
		rec.Settled = false
		rec.Failure = ""
	}
	rec.loading = true
	url := rec.SourceURL
	c.mu.Unlock()

	body, err := c.fetcher.Fetch(ctx, url)

	c.mu.Lock()
	rec.loading = false
	if err != nil {
		rec.Content = ""
		rec.Failure = failureMessage(rec, err)
	} else {
		rec.Content = string(body)
		rec.Failure = ""
	}
	rec.Settled = true
	c.mu.Unlock()
}

// failureMessage maps a fetch error to a user-facing message,
// distinguishing an explicit non-success response from an opaque
// transport failure.
func failureMessage(rec *FileRecord, err error) string {
	var statusErr *fetch.StatusError
	var transportErr *fetch.TransportError
	switch {
	case errors.As(err, &statusErr):
		return fmt.Sprintf("loading %s failed: the server responded with HTTP %d", rec.DisplayName, statusErr.Code)
	case errors.As(err, &transportErr):
		return fmt.Sprintf("could not reach %s: %v (the host may not permit cross-origin access)", rec.DisplayName, transportErr.Err)
	default:
		return fmt.Sprintf("loading %s failed: %v", rec.DisplayName, err)
	}
}
