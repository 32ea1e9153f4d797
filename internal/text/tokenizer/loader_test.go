package tokenizer

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	kagome "github.com/ikawaha/kagome/v2/tokenizer"

	"github.com/kailas-cloud/contentrec/internal/domain"
)

type recordingObserver struct {
	mu   sync.Mutex
	errs []error
}

func (o *recordingObserver) ObserveDictionaryInit(err error, _ time.Duration) {
	o.mu.Lock()
	o.errs = append(o.errs, err)
	o.mu.Unlock()
}

func (o *recordingObserver) calls() []error {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]error(nil), o.errs...)
}

func TestLoader_SingleBuildUnderConcurrency(t *testing.T) {
	var builds atomic.Int32
	release := make(chan struct{})
	want := &kagome.Tokenizer{}
	l := NewLoader(func() (*kagome.Tokenizer, error) {
		builds.Add(1)
		<-release
		return want, nil
	})

	const callers = 16
	var wg sync.WaitGroup
	results := make([]*kagome.Tokenizer, callers)
	errs := make([]error, callers)
	for i := range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], errs[i] = l.Get(context.Background())
		}()
	}

	// Let every caller reach the wait before the build completes.
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	if n := builds.Load(); n != 1 {
		t.Errorf("builds = %d, want 1", n)
	}
	for i := range callers {
		if errs[i] != nil {
			t.Errorf("caller %d: unexpected error %v", i, errs[i])
		}
		if results[i] != want {
			t.Errorf("caller %d: got different analyzer", i)
		}
	}
	if !l.Ready() {
		t.Error("loader should be ready")
	}
}

func TestLoader_FailureIsSharedAndSticky(t *testing.T) {
	var builds atomic.Int32
	cause := errors.New("dictionary corrupt")
	l := NewLoader(func() (*kagome.Tokenizer, error) {
		builds.Add(1)
		return nil, cause
	})
	obs := &recordingObserver{}
	l.SetObserver(obs)

	_, err := l.Get(context.Background())
	if !errors.Is(err, domain.ErrInitialization) {
		t.Fatalf("expected ErrInitialization, got %v", err)
	}
	if !errors.Is(err, cause) {
		t.Errorf("expected cause in chain, got %v", err)
	}

	_, err2 := l.Get(context.Background())
	if !errors.Is(err2, domain.ErrInitialization) {
		t.Fatalf("second call: expected ErrInitialization, got %v", err2)
	}
	if n := builds.Load(); n != 1 {
		t.Errorf("builds = %d, Get must not retry after failure", n)
	}
	if state, serr := l.State(); state != "failed" || serr == nil {
		t.Errorf("State() = %q, %v", state, serr)
	}
	if calls := obs.calls(); len(calls) != 1 || calls[0] == nil {
		t.Errorf("observer calls = %v", calls)
	}
}

func TestLoader_InitRetriesAfterFailure(t *testing.T) {
	var builds atomic.Int32
	l := NewLoader(func() (*kagome.Tokenizer, error) {
		if builds.Add(1) == 1 {
			return nil, errors.New("transient")
		}
		return &kagome.Tokenizer{}, nil
	})

	if err := l.Init(context.Background()); err == nil {
		t.Fatal("first Init should fail")
	}
	if err := l.Init(context.Background()); err != nil {
		t.Fatalf("retry Init: unexpected error %v", err)
	}
	if _, err := l.Get(context.Background()); err != nil {
		t.Fatalf("Get after successful retry: %v", err)
	}
	if n := builds.Load(); n != 2 {
		t.Errorf("builds = %d, want 2", n)
	}
}

func TestLoader_InitWhenReadyDoesNotRebuild(t *testing.T) {
	var builds atomic.Int32
	l := NewLoader(func() (*kagome.Tokenizer, error) {
		builds.Add(1)
		return &kagome.Tokenizer{}, nil
	})
	for range 3 {
		if err := l.Init(context.Background()); err != nil {
			t.Fatalf("Init: %v", err)
		}
	}
	if n := builds.Load(); n != 1 {
		t.Errorf("builds = %d, want 1", n)
	}
}

func TestLoader_WaitHonoursContext(t *testing.T) {
	release := make(chan struct{})
	defer close(release)
	l := NewLoader(func() (*kagome.Tokenizer, error) {
		<-release
		return &kagome.Tokenizer{}, nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := l.Get(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected DeadlineExceeded, got %v", err)
	}
	if state, _ := l.State(); state != "initializing" {
		t.Errorf("abandoned wait must not cancel the build, state = %q", state)
	}
}

func TestLoader_NilAnalyzerIsFailure(t *testing.T) {
	l := NewLoader(func() (*kagome.Tokenizer, error) { return nil, nil })
	if _, err := l.Get(context.Background()); !errors.Is(err, domain.ErrInitialization) {
		t.Fatalf("expected ErrInitialization, got %v", err)
	}
}

func TestLoader_WaiterSeesOutcomeOfItsOwnBuild(t *testing.T) {
	release := make(chan struct{})
	defer close(release)
	l := NewLoader(func() (*kagome.Tokenizer, error) {
		<-release
		return &kagome.Tokenizer{}, nil
	})

	// A build is in flight that the test finishes by hand.
	first := &flight{done: make(chan struct{})}
	l.mu.Lock()
	l.state = stateInitializing
	l.flight = first
	l.mu.Unlock()

	type result struct {
		tok *kagome.Tokenizer
		err error
	}
	waited := make(chan result, 1)
	go func() {
		tok, err := l.Get(context.Background())
		waited <- result{tok, err}
	}()
	time.Sleep(20 * time.Millisecond)

	// The first build fails and a retry starts before the waiter wakes up.
	cause := &domain.InitializationError{Component: "morphological dictionary", Err: errors.New("boom")}
	l.mu.Lock()
	first.err = cause
	l.state = stateFailed
	l.err = cause
	close(first.done)
	l.start()
	l.mu.Unlock()

	select {
	case r := <-waited:
		if r.tok != nil || !errors.Is(r.err, domain.ErrInitialization) {
			t.Fatalf("waiter got (%v, %v), want the failed build's error", r.tok, r.err)
		}
	case <-time.After(time.Second):
		t.Fatal("waiter was not released by its build")
	}
	if state, _ := l.State(); state != "initializing" {
		t.Errorf("retry should be in flight, state = %q", state)
	}
}
