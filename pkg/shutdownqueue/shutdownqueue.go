// Package shutdownqueue collects cleanup tasks during startup and drains
// them in LIFO order at the end of main:
//
//	shutdownqueue.Add(func(ctx context.Context) error { return srv.Shutdown(ctx) })
//	...
//	defer shutdownqueue.Shutdown(ctx)
//
// Shutdown is idempotent, recovers task panics, and aggregates failures with
// errors.Join.
package shutdownqueue

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// Task is a shutdown function. It should honor ctx and return an error if it
// can't finish in time.
type Task func(ctx context.Context) error

var (
	mu     sync.Mutex
	tasks  []Task
	closed bool
)

// Add registers a task to run on Shutdown. Nil tasks and tasks added after
// shutdown has started are ignored.
func Add(t Task) {
	if t == nil {
		return
	}

	mu.Lock()
	defer mu.Unlock()

	if closed {
		return
	}

	tasks = append(tasks, t)
}

// Shutdown drains registered tasks newest-first. A canceled ctx stops the
// drain early; the context error joins whatever task errors accumulated.
// Subsequent calls are no-ops.
func Shutdown(ctx context.Context) error {
	mu.Lock()
	pending := tasks
	tasks = nil
	closed = true
	mu.Unlock()

	var errs []error

	for i := len(pending) - 1; i >= 0; i-- {
		if ctx.Err() != nil {
			errs = append(errs, fmt.Errorf("shutdown canceled: %w", ctx.Err()))
			break
		}

		errs = append(errs, runTask(ctx, pending[i]))
	}

	return errors.Join(errs...)
}

func runTask(ctx context.Context, t Task) (err error) {
	defer func() {
		r := recover()
		if r != nil {
			err = fmt.Errorf("panic in shutdown task: %v", r)
		}
	}()

	return t(ctx)
}
