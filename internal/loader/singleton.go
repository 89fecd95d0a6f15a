// Package loader provides a generic load-at-most-once primitive for
// shared external capabilities. All widget instances in a process share
// one Singleton per capability so that concurrent requesters attach to
// a single load attempt instead of each starting their own.
package loader

import (
	"context"
	"fmt"
	"log"
	"sync"
)

// Provenance records which mechanism supplied the capability.
type Provenance string

const (
	ProvenanceExplicit Provenance = "explicit" // caller-supplied source
	ProvenanceDefault  Provenance = "default"  // built-in source
	ProvenanceAmbient  Provenance = "ambient"  // already present, no load
)

// LoadFunc produces the capability from a source locator.
type LoadFunc[T any] func(ctx context.Context, source string) (T, error)

// LoadError is returned when a load attempt fails. Contract is true
// when the capability loaded but did not expose the expected contract,
// as opposed to a transport failure.
type LoadError struct {
	Source   string
	Contract bool
	Err      error
}

func (e *LoadError) Error() string {
	if e.Contract {
		return fmt.Sprintf("capability from %q loaded but does not expose the expected contract: %v", e.Source, e.Err)
	}
	return fmt.Sprintf("loading capability from %q: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Snapshot is a read-only view of the singleton state.
type Snapshot struct {
	Ready      bool
	Source     string // "auto" when the capability was ambient
	Provenance Provenance
}

type attempt[T any] struct {
	source   string
	explicit bool
	done     chan struct{}
	value    T
	err      error
}

// Singleton loads a shared capability at most once, regardless of how
// many concurrent callers request it. A failed attempt rolls the state
// back to empty so a later call starts a clean retry.
type Singleton[T any] struct {
	mu            sync.Mutex
	load          LoadFunc[T]
	probe         func(T) error      // optional contract check after load
	detect        func() (T, bool)   // optional ambient detection
	defaultSource string
	warnf         func(string, ...any)

	ready      bool
	value      T
	source     string
	provenance Provenance
	inflight   *attempt[T]
}

// Option configures a Singleton.
type Option[T any] func(*Singleton[T])

// WithProbe sets a contract check run against a freshly loaded value.
// A probe failure is reported as a contract LoadError, distinct from a
// transport failure.
func WithProbe[T any](probe func(T) error) Option[T] {
	return func(s *Singleton[T]) { s.probe = probe }
}

// WithAmbientDetect sets a check for an already-present capability.
func WithAmbientDetect[T any](detect func() (T, bool)) Option[T] {
	return func(s *Singleton[T]) { s.detect = detect }
}

// WithWarnf overrides where non-fatal warnings are written.
func WithWarnf[T any](warnf func(string, ...any)) Option[T] {
	return func(s *Singleton[T]) { s.warnf = warnf }
}

// New creates a Singleton that loads via load, using defaultSource when
// the caller supplies no override.
func New[T any](defaultSource string, load LoadFunc[T], opts ...Option[T]) *Singleton[T] {
	s := &Singleton[T]{
		load:          load,
		defaultSource: defaultSource,
		warnf:         log.Printf,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// EnsureAvailable returns the capability, loading it if necessary.
//
// If the capability is already present (from an earlier load or
// ambiently), it is returned immediately with no load attempt. If a
// load is in flight, the caller attaches to that attempt; a conflicting
// sourceOverride loses to the in-flight source with a warning, never an
// error. On failure all state is rolled back so the next call retries.
func (s *Singleton[T]) EnsureAvailable(ctx context.Context, sourceOverride string) (T, error) {
	s.mu.Lock()

	if s.ready {
		v := s.value
		s.mu.Unlock()
		return v, nil
	}

	if s.detect != nil {
		if v, ok := s.detect(); ok {
			s.value = v
			s.ready = true
			s.source = "auto"
			s.provenance = ProvenanceAmbient
			s.mu.Unlock()
			return v, nil
		}
	}

	if a := s.inflight; a != nil {
		if sourceOverride != "" && sourceOverride != a.source {
			s.warnf("loader: capability load already in flight from %q; ignoring override %q", a.source, sourceOverride)
		}
		s.mu.Unlock()
		return s.wait(ctx, a)
	}

	a := &attempt[T]{
		source:   s.defaultSource,
		explicit: sourceOverride != "",
		done:     make(chan struct{}),
	}
	if a.explicit {
		a.source = sourceOverride
	}
	s.inflight = a
	s.mu.Unlock()

	a.value, a.err = s.load(ctx, a.source)
	if a.err == nil && s.probe != nil {
		if perr := s.probe(a.value); perr != nil {
			a.err = &LoadError{Source: a.source, Contract: true, Err: perr}
		}
	}
	if a.err != nil {
		if _, ok := a.err.(*LoadError); !ok {
			a.err = &LoadError{Source: a.source, Err: a.err}
		}
	}

	s.mu.Lock()
	s.inflight = nil
	if a.err == nil {
		s.ready = true
		s.value = a.value
		s.source = a.source
		s.provenance = ProvenanceDefault
		if a.explicit {
			s.provenance = ProvenanceExplicit
		}
	}
	s.mu.Unlock()

	close(a.done)
	return a.value, a.err
}

// wait blocks until the in-flight attempt settles or ctx is cancelled.
// Cancellation detaches this caller only; the attempt keeps running for
// the others.
func (s *Singleton[T]) wait(ctx context.Context, a *attempt[T]) (T, error) {
	select {
	case <-a.done:
		return a.value, a.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Snapshot reports the current state for introspection.
func (s *Singleton[T]) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{Ready: s.ready, Source: s.source, Provenance: s.provenance}
}
