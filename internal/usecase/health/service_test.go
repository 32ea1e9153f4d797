package health

import (
	"context"
	"errors"
	"testing"
)

// --- Mocks ---

type mockDBPinger struct {
	err error
}

func (m *mockDBPinger) Ping(_ context.Context) error { return m.err }

type mockDictionary struct {
	state string
	err   error
}

func (m *mockDictionary) State() (string, error) { return m.state, m.err }

// --- Tests ---

func TestCheck_AllHealthy(t *testing.T) {
	svc := New(&mockDBPinger{}, &mockDictionary{state: "ready"})
	r := svc.Check(context.Background())

	if r.Status != Healthy {
		t.Errorf("expected %q, got %q", Healthy, r.Status)
	}
	if r.Checks["database"] != CheckOK {
		t.Errorf("expected database %q, got %q", CheckOK, r.Checks["database"])
	}
	if r.Checks["dictionary"] != CheckOK {
		t.Errorf("expected dictionary %q, got %q", CheckOK, r.Checks["dictionary"])
	}
}

func TestCheck_DBError(t *testing.T) {
	svc := New(&mockDBPinger{err: errors.New("conn refused")}, &mockDictionary{state: "ready"})
	r := svc.Check(context.Background())

	if r.Status != Degraded {
		t.Errorf("expected %q, got %q", Degraded, r.Status)
	}
	if r.Checks["database"] != CheckError {
		t.Errorf("expected database %q, got %q", CheckError, r.Checks["database"])
	}
}

func TestCheck_DictionaryPending(t *testing.T) {
	for _, state := range []string{"uninitialized", "initializing"} {
		svc := New(&mockDBPinger{}, &mockDictionary{state: state})
		r := svc.Check(context.Background())

		if r.Status != Healthy {
			t.Errorf("%s: expected %q, got %q", state, Healthy, r.Status)
		}
		if r.Checks["dictionary"] != CheckPending {
			t.Errorf("%s: expected dictionary %q, got %q", state, CheckPending, r.Checks["dictionary"])
		}
	}
}

func TestCheck_DictionaryFailed(t *testing.T) {
	svc := New(&mockDBPinger{}, &mockDictionary{state: "failed", err: errors.New("corrupt")})
	r := svc.Check(context.Background())

	if r.Status != Degraded {
		t.Errorf("expected %q, got %q", Degraded, r.Status)
	}
	if r.Checks["dictionary"] != CheckError {
		t.Errorf("expected dictionary %q, got %q", CheckError, r.Checks["dictionary"])
	}
}

func TestCheck_NoDatabase(t *testing.T) {
	svc := New(nil, &mockDictionary{state: "ready"})
	r := svc.Check(context.Background())

	if r.Status != Healthy {
		t.Errorf("expected %q, got %q", Healthy, r.Status)
	}
	if _, ok := r.Checks["database"]; ok {
		t.Error("database check should be absent when db is nil")
	}
}
