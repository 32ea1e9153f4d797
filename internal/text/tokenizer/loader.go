package tokenizer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ikawaha/kagome-dict/ipa"
	kagome "github.com/ikawaha/kagome/v2/tokenizer"

	"github.com/kailas-cloud/contentrec/internal/domain"
)

// BuildFunc constructs the morphological analyzer. It runs at most once per
// successful initialization.
type BuildFunc func() (*kagome.Tokenizer, error)

// InitObserver receives the outcome of every dictionary build.
type InitObserver interface {
	ObserveDictionaryInit(err error, took time.Duration)
}

type loaderState int

const (
	stateUninitialized loaderState = iota
	stateInitializing
	stateReady
	stateFailed
)

func (s loaderState) String() string {
	switch s {
	case stateUninitialized:
		return "uninitialized"
	case stateInitializing:
		return "initializing"
	case stateReady:
		return "ready"
	case stateFailed:
		return "failed"
	}
	return "unknown"
}

// Loader lazily builds the shared dictionary-backed analyzer.
// Concurrent callers during a build wait for the same outcome. A failure sticks
// until Init is called again.
type Loader struct {
	build BuildFunc

	mu       sync.Mutex
	state    loaderState
	flight   *flight
	tok      *kagome.Tokenizer
	err      error
	observer InitObserver
}

// flight is one build. Its result is written before done is closed and never
// changes afterwards.
type flight struct {
	done chan struct{}
	tok  *kagome.Tokenizer
	err  error
}

// NewLoader creates a Loader around build.
func NewLoader(build BuildFunc) *Loader {
	return &Loader{build: build}
}

// BuildIPA loads the embedded IPA dictionary.
func BuildIPA() (tok *kagome.Tokenizer, err error) {
	defer func() {
		// ipa.Dict panics on a corrupt embedded dictionary.
		if r := recover(); r != nil {
			err = fmt.Errorf("load ipa dictionary: %v", r)
		}
	}()
	return kagome.New(ipa.Dict(), kagome.OmitBosEos())
}

var shared = NewLoader(BuildIPA)

// Shared returns the process-wide loader for the IPA dictionary.
func Shared() *Loader { return shared }

// SetObserver attaches an observer for build outcomes.
func (l *Loader) SetObserver(o InitObserver) {
	l.mu.Lock()
	l.observer = o
	l.mu.Unlock()
}

// Observer returns the attached observer, if any.
func (l *Loader) Observer() InitObserver {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.observer
}

// Get returns the analyzer, starting the build on first use.
// A previously failed build returns its error without retrying.
func (l *Loader) Get(ctx context.Context) (*kagome.Tokenizer, error) {
	return l.acquire(ctx, false)
}

// Init starts (or retries after failure) the build and waits for it.
func (l *Loader) Init(ctx context.Context) error {
	_, err := l.acquire(ctx, true)
	return err
}

// Ready reports whether the analyzer is available without blocking.
func (l *Loader) Ready() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state == stateReady
}

// State returns the loader state name and the sticky error, if any.
func (l *Loader) State() (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state.String(), l.err
}

func (l *Loader) acquire(ctx context.Context, retry bool) (*kagome.Tokenizer, error) {
	l.mu.Lock()
	switch l.state {
	case stateReady:
		tok := l.tok
		l.mu.Unlock()
		return tok, nil
	case stateFailed:
		if !retry {
			err := l.err
			l.mu.Unlock()
			return nil, err
		}
		l.start()
	case stateUninitialized:
		l.start()
	case stateInitializing:
	}
	f := l.flight
	l.mu.Unlock()

	select {
	case <-f.done:
	case <-ctx.Done():
		return nil, fmt.Errorf("wait for dictionary: %w", ctx.Err())
	}
	return f.tok, f.err
}

// start must be called with l.mu held.
func (l *Loader) start() {
	l.state = stateInitializing
	l.flight = &flight{done: make(chan struct{})}
	l.err = nil
	go l.run(l.flight)
}

func (l *Loader) run(f *flight) {
	began := time.Now()
	tok, err := l.build()
	if err == nil && tok == nil {
		err = errors.New("dictionary build returned no analyzer")
	}

	l.mu.Lock()
	if err != nil {
		f.err = &domain.InitializationError{Component: "morphological dictionary", Err: err}
		l.state = stateFailed
		l.err = f.err
	} else {
		f.tok = tok
		l.state = stateReady
		l.tok = tok
	}
	observer := l.observer
	close(f.done)
	l.mu.Unlock()

	if observer != nil {
		observer.ObserveDictionaryInit(err, time.Since(began))
	}
}
