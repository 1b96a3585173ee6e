package shutdownqueue

import (
	"context"
	"errors"
	"testing"
)

// resetQueue clears the package-level queue between tests.
func resetQueue(t *testing.T) {
	t.Helper()
	t.Cleanup(func() {
		mu.Lock()

		tasks = nil
		closed = false

		mu.Unlock()
	})
}

//nolint:paralleltest
func TestAddNilTaskIsNoop(t *testing.T) {
	resetQueue(t)

	Add(nil)

	err := Shutdown(context.Background())
	if err != nil {
		t.Fatalf("expected nil after adding nil task; got %v", err)
	}
}

//nolint:paralleltest
func TestLIFOOrder(t *testing.T) {
	resetQueue(t)

	var order []int

	makeTask := func(n int) Task {
		return func(context.Context) error {
			order = append(order, n)
			return nil
		}
	}

	for i := 1; i <= 3; i++ {
		Add(makeTask(i))
	}

	err := Shutdown(context.Background())
	if err != nil {
		t.Fatalf("Shutdown error: %v", err)
	}

	want := []int{3, 2, 1}
	if len(order) != len(want) {
		t.Fatalf("order len mismatch: got %v, want %v", order, want)
	}

	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order mismatch at %d: got %v, want %v", i, order, want)
		}
	}
}

//nolint:paralleltest
func TestErrorsAggregated(t *testing.T) {
	resetQueue(t)

	errA := errors.New("task a failed")

	Add(func(context.Context) error { return errA })
	Add(func(context.Context) error { return nil })
	Add(func(context.Context) error { panic("task c exploded") })

	err := Shutdown(context.Background())
	if err == nil {
		t.Fatal("expected aggregated error")
	}

	if !errors.Is(err, errA) {
		t.Fatalf("expected errA in aggregate, got %v", err)
	}
}

//nolint:paralleltest
func TestShutdownIdempotent(t *testing.T) {
	resetQueue(t)

	var runs int

	Add(func(context.Context) error {
		runs++
		return nil
	})

	err := Shutdown(context.Background())
	if err != nil {
		t.Fatalf("first shutdown: %v", err)
	}

	err = Shutdown(context.Background())
	if err != nil {
		t.Fatalf("second shutdown: %v", err)
	}

	if runs != 1 {
		t.Fatalf("task ran %d times, want 1", runs)
	}
}

//nolint:paralleltest
func TestAddAfterShutdownIgnored(t *testing.T) {
	resetQueue(t)

	err := Shutdown(context.Background())
	if err != nil {
		t.Fatalf("shutdown: %v", err)
	}

	var ran bool

	Add(func(context.Context) error {
		ran = true
		return nil
	})

	_ = Shutdown(context.Background())

	if ran {
		t.Fatal("task added after shutdown must not run")
	}
}

//nolint:paralleltest
func TestCanceledContextStopsDrain(t *testing.T) {
	resetQueue(t)

	var ran bool

	Add(func(context.Context) error {
		ran = true
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Shutdown(ctx)
	if err == nil {
		t.Fatal("expected context error")
	}

	if ran {
		t.Fatal("task must not run under canceled context")
	}
}
