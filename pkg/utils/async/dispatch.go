package async

import (
	"context"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"golang.org/x/sync/semaphore"

	"github.com/fatmaann/agent-judgement-assistant/pkg/utils/logging"
)

// Dispatcher runs handlers on background goroutines with a bounded amount of
// concurrent work. Ingestion and retrieval turns are network-bound and slow;
// running them here keeps the webhook handler free to acknowledge further
// events for other conversations. Handlers sharing a key run one at a time,
// so a conversation's next turn waits for its in-flight turn to finish while
// other conversations proceed.
type Dispatcher struct {
	sem  *semaphore.Weighted
	mu   sync.Mutex
	keys map[string]*keyLock
}

type keyLock struct {
	mu   sync.Mutex
	refs int
}

// NewDispatcher creates a dispatcher that admits at most limit concurrent
// handlers. A non-positive limit falls back to 8.
func NewDispatcher(limit int64) *Dispatcher {
	if limit <= 0 {
		limit = 8
	}
	return &Dispatcher{
		sem:  semaphore.NewWeighted(limit),
		keys: make(map[string]*keyLock),
	}
}

func (d *Dispatcher) acquireKey(key string) *keyLock {
	d.mu.Lock()
	lock, ok := d.keys[key]
	if !ok {
		lock = &keyLock{}
		d.keys[key] = lock
	}
	lock.refs++
	d.mu.Unlock()

	lock.mu.Lock()
	return lock
}

func (d *Dispatcher) releaseKey(key string, lock *keyLock) {
	lock.mu.Unlock()

	d.mu.Lock()
	lock.refs--
	if lock.refs == 0 {
		delete(d.keys, key)
	}
	d.mu.Unlock()
}

// Dispatch executes the handler asynchronously. The handler receives a fresh
// background context (the HTTP request context dies when the webhook is
// acknowledged) that preserves the request logger. Errors and panics are
// logged, never propagated.
func (d *Dispatcher) Dispatch(ctx context.Context, key string, handler func(ctx context.Context) error) {
	bgCtx := logging.With(context.Background(), logging.From(ctx))

	go func() {
		lock := d.acquireKey(key)
		defer d.releaseKey(key, lock)

		if err := d.sem.Acquire(bgCtx, 1); err != nil {
			logging.From(bgCtx).Error("failed to acquire dispatch slot", "error", err.Error())
			return
		}
		defer d.sem.Release(1)

		defer func() {
			if r := recover(); r != nil {
				logging.From(bgCtx).Error("panic in async handler", "panic", r)
			}
		}()

		if err := handler(bgCtx); err != nil {
			logging.From(bgCtx).Error("async handler failed", "error", goerr.Unwrap(err))
		}
	}()
}
