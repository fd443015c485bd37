package services

import (
	"context"
	"sync"
	"time"

	"github.com/custodia-labs/estately-cli/internal/core/domain"
)

// Debouncer lets only the last call in a burst proceed.
// Each Wait restarts the quiet period and cancels the previous waiter.
type Debouncer struct {
	delay time.Duration

	mu      sync.Mutex
	pending chan struct{}
}

// NewDebouncer creates a debouncer with the given quiet period.
func NewDebouncer(delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay}
}

// Delay returns the quiet period.
func (d *Debouncer) Delay() time.Duration {
	return d.delay
}

// Wait blocks until the quiet period elapses with no newer Wait.
// It returns domain.ErrSuperseded if a newer call arrived first,
// or the context error if ctx is done.
func (d *Debouncer) Wait(ctx context.Context) error {
	token := d.replace()

	timer := time.NewTimer(d.delay)
	defer timer.Stop()

	select {
	case <-timer.C:
		d.mu.Lock()
		defer d.mu.Unlock()
		if d.pending != token {
			return domain.ErrSuperseded
		}
		d.pending = nil
		return nil
	case <-token:
		return domain.ErrSuperseded
	case <-ctx.Done():
		d.mu.Lock()
		if d.pending == token {
			d.pending = nil
		}
		d.mu.Unlock()
		return ctx.Err()
	}
}

// Cancel supersedes the pending waiter, if any.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.pending != nil {
		close(d.pending)
		d.pending = nil
	}
}

func (d *Debouncer) replace() chan struct{} {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.pending != nil {
		close(d.pending)
	}
	d.pending = make(chan struct{})
	return d.pending
}
