package presence

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/dropDatabas3/gatewarden/internal/cache"
)

func newRegistry(t *testing.T) *Registry {
	t.Helper()
	return NewRegistry(cache.NewMemory("test", time.Minute))
}

func TestAttachLookupDetach(t *testing.T) {
	r := newRegistry(t)
	ctx := context.Background()

	if err := r.Attach(ctx, "u1", "web", "h1"); err != nil {
		t.Fatalf("Attach err: %v", err)
	}
	handles, err := r.Lookup(ctx, "u1", "web")
	if err != nil {
		t.Fatalf("Lookup err: %v", err)
	}
	if len(handles) != 1 || handles[0] != "h1" {
		t.Fatalf("unexpected handles: %v", handles)
	}

	if err := r.Detach(ctx, "u1", "web", "h1"); err != nil {
		t.Fatalf("Detach err: %v", err)
	}
	handles, err = r.Lookup(ctx, "u1", "web")
	if err != nil {
		t.Fatalf("Lookup err: %v", err)
	}
	if len(handles) != 0 {
		t.Fatalf("expected empty set after detach, got %v", handles)
	}
}

func TestAttach_Idempotent(t *testing.T) {
	r := newRegistry(t)
	ctx := context.Background()

	if err := r.Attach(ctx, "u1", "web", "h1"); err != nil {
		t.Fatalf("Attach err: %v", err)
	}
	if err := r.Attach(ctx, "u1", "web", "h1"); err != nil {
		t.Fatalf("duplicate Attach err: %v", err)
	}
	handles, _ := r.Lookup(ctx, "u1", "web")
	if len(handles) != 1 {
		t.Fatalf("expected 1 handle after duplicate attach, got %v", handles)
	}
}

func TestDetach_AbsentIsNoop(t *testing.T) {
	r := newRegistry(t)
	if err := r.Detach(context.Background(), "u1", "web", "ghost"); err != nil {
		t.Fatalf("Detach of absent handle err: %v", err)
	}
}

func TestLookup_ScopesAreIsolated(t *testing.T) {
	r := newRegistry(t)
	ctx := context.Background()

	if err := r.Attach(ctx, "u1", "web", "h1"); err != nil {
		t.Fatalf("Attach err: %v", err)
	}
	handles, err := r.Lookup(ctx, "u1", "mobile")
	if err != nil {
		t.Fatalf("Lookup err: %v", err)
	}
	if len(handles) != 0 {
		t.Fatalf("expected empty set under other scope, got %v", handles)
	}
}

func TestRequireCurrent(t *testing.T) {
	r := newRegistry(t)
	ctx := context.Background()

	if _, err := r.RequireCurrent(ctx, "u1", "web"); err != ErrNotCurrent {
		t.Fatalf("expected ErrNotCurrent, got %v", err)
	}

	if err := r.Attach(ctx, "u1", "web", "h1"); err != nil {
		t.Fatalf("Attach err: %v", err)
	}
	handles, err := r.RequireCurrent(ctx, "u1", "web")
	if err != nil {
		t.Fatalf("RequireCurrent err: %v", err)
	}
	if len(handles) != 1 {
		t.Fatalf("unexpected handles: %v", handles)
	}
}

func TestAttach_ConcurrentHandlesConverge(t *testing.T) {
	r := newRegistry(t)
	ctx := context.Background()

	const n = 32
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			_ = r.Attach(ctx, "u1", "web", fmt.Sprintf("h%d", i))
		}(i)
	}
	wg.Wait()

	handles, err := r.Lookup(ctx, "u1", "web")
	if err != nil {
		t.Fatalf("Lookup err: %v", err)
	}
	if len(handles) != n {
		t.Fatalf("expected %d handles, got %d", n, len(handles))
	}
}
