// Package debounce runs the last of a burst of triggers once input settles.
package debounce

import (
	"context"
	"sync"
	"time"
)

// Func is the debounced work. ctx is cancelled as soon as a newer trigger
// supersedes this run; gen identifies the run for Debouncer.IsCurrent.
type Func func(ctx context.Context, gen uint64)

type Debouncer struct {
	delay time.Duration

	mu     sync.Mutex
	gen    uint64
	timer  *time.Timer
	cancel context.CancelFunc
}

func New(delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay}
}

// Trigger schedules fn after the delay. Any pending run is dropped and any
// in-flight run has its context cancelled.
func (d *Debouncer) Trigger(parent context.Context, fn Func) uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopLocked()
	d.gen++
	gen := d.gen
	ctx, cancel := context.WithCancel(parent)
	d.cancel = cancel
	d.timer = time.AfterFunc(d.delay, func() {
		defer cancel()
		if ctx.Err() != nil || !d.IsCurrent(gen) {
			return
		}
		fn(ctx, gen)
	})
	return gen
}

// IsCurrent reports whether gen belongs to the latest trigger. Results from
// stale generations must be discarded.
func (d *Debouncer) IsCurrent(gen uint64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return gen == d.gen
}

// Cancel drops the pending run and invalidates any in-flight one.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopLocked()
	d.gen++
}

func (d *Debouncer) stopLocked() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
}
