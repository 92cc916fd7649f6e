package taskctx

import (
	"context"
	"fmt"
	"sync"
	"testing"
)

func TestWithAndFrom(t *testing.T) {
	rc := RequestContext{RequestID: "req-1", CorrelationID: "corr-1"}
	ctx := With(context.Background(), rc)

	got, ok := From(ctx)
	if !ok {
		t.Fatal("expected request context to be attached")
	}
	if got.RequestID != "req-1" {
		t.Errorf("expected RequestID 'req-1', got %q", got.RequestID)
	}
	if got.CorrelationID != "corr-1" {
		t.Errorf("expected CorrelationID 'corr-1', got %q", got.CorrelationID)
	}
}

func TestFrom_NotSet(t *testing.T) {
	if _, ok := From(context.Background()); ok {
		t.Error("expected no request context on a bare context")
	}
	if id := RequestID(context.Background()); id != "" {
		t.Errorf("expected empty request ID, got %q", id)
	}
	if id := CorrelationID(context.Background()); id != "" {
		t.Errorf("expected empty correlation ID, got %q", id)
	}
}

func TestRun_ScopesContext(t *testing.T) {
	outer := context.Background()

	err := Run(outer, RequestContext{RequestID: "scoped"}, func(ctx context.Context) error {
		if RequestID(ctx) != "scoped" {
			t.Errorf("expected 'scoped' inside Run, got %q", RequestID(ctx))
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The outer context is untouched.
	if RequestID(outer) != "" {
		t.Error("Run must not leak the request context to the outer context")
	}
}

func TestEnsureRequestID_MintsWhenAbsent(t *testing.T) {
	ctx, id := EnsureRequestID(context.Background())
	if id == "" {
		t.Fatal("expected a minted request ID")
	}
	if RequestID(ctx) != id {
		t.Errorf("expected context to carry minted ID %q, got %q", id, RequestID(ctx))
	}
}

func TestEnsureRequestID_KeepsExisting(t *testing.T) {
	ctx := With(context.Background(), RequestContext{RequestID: "keep-me", CorrelationID: "corr"})

	ctx2, id := EnsureRequestID(ctx)
	if id != "keep-me" {
		t.Errorf("expected existing ID to be kept, got %q", id)
	}
	if CorrelationID(ctx2) != "corr" {
		t.Error("correlation ID must survive EnsureRequestID")
	}
}

func TestConcurrentRequests_DoNotLeak(t *testing.T) {
	const requests = 50

	var wg sync.WaitGroup
	for i := 0; i < requests; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			want := fmt.Sprintf("req-%d", i)
			rc := RequestContext{RequestID: want, CorrelationID: fmt.Sprintf("corr-%d", i)}

			_ = Run(context.Background(), rc, func(ctx context.Context) error {
				// Interleave with other goroutines, then re-read.
				done := make(chan struct{})
				go func() {
					defer close(done)
					if got := RequestID(ctx); got != want {
						t.Errorf("nested goroutine saw %q, want %q", got, want)
					}
				}()
				<-done

				if got := RequestID(ctx); got != want {
					t.Errorf("saw %q, want %q", got, want)
				}
				return nil
			})
		}(i)
	}
	wg.Wait()
}
