package watch

import (
	"context"
	"sync"
	"time"
)

// debouncer coalesces triggers that arrive within delay of each other into a
// single request on C.
type debouncer struct {
	delay time.Duration
	C     chan struct{}

	mu    sync.Mutex
	timer *time.Timer
}

func newDebouncer(delay time.Duration) *debouncer {
	return &debouncer{delay: delay, C: make(chan struct{}, 1)}
}

// Trigger (re)starts the quiet window.
func (d *debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, d.request)
}

// request enqueues a rebuild unless one is already queued.
func (d *debouncer) request() {
	select {
	case d.C <- struct{}{}:
	default:
	}
}

// Stop cancels a pending quiet window.
func (d *debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
}

// runWorker serves rebuild requests one at a time until ctx is done. Because
// the request channel holds a single slot, any number of requests made while
// a rebuild runs collapse into one follow-up.
func runWorker(ctx context.Context, reqs <-chan struct{}, rebuild func(context.Context)) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-reqs:
			if ctx.Err() != nil {
				return
			}
			rebuild(ctx)
		}
	}
}
