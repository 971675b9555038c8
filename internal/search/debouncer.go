// Package search coalesces rapid search-box input into a single outstanding
// catalog query per idle gap.
package search

import (
	"sync"
	"time"
)

// DefaultQuiescence is the idle gap a burst of keystrokes must observe
// before a search request is issued.
const DefaultQuiescence = 500 * time.Millisecond

// Debouncer owns a single pending-timer slot. Each query change cancels any
// pending timer unconditionally and schedules a new one; at most one search
// fires per quiescence window, carrying the latest text at expiry time.
// In-flight requests are never cancelled, only the next scheduling is
// debounced.
//
// States: Idle (no timer) and Pending (one armed timer). QueryChanged moves
// to Pending from either state; the timer firing moves back to Idle.
type Debouncer struct {
	mu         sync.Mutex
	quiescence time.Duration
	timer      *time.Timer
	gen        uint64
	pending    string
	fire       func(text string)
}

// NewDebouncer constructs a Debouncer that invokes fire with the settled
// query text. A non-positive quiescence falls back to the default.
func NewDebouncer(quiescence time.Duration, fire func(text string)) *Debouncer {
	if quiescence <= 0 {
		quiescence = DefaultQuiescence
	}
	return &Debouncer{quiescence: quiescence, fire: fire}
}

// QueryChanged records the latest query text and (re)arms the timer. The
// generation counter makes a superseded timer a no-op even when it already
// fired and is waiting on the lock, so a search can never carry stale text.
func (d *Debouncer) QueryChanged(text string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.pending = text
	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.timer = time.AfterFunc(d.quiescence, func() { d.expire(gen) })
}

func (d *Debouncer) expire(gen uint64) {
	d.mu.Lock()
	if gen != d.gen || d.timer == nil {
		d.mu.Unlock()
		return
	}
	d.timer = nil
	text := d.pending
	fire := d.fire
	d.mu.Unlock()

	if fire != nil {
		fire(text)
	}
}

// Pending reports whether a timer is armed.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

// Stop cancels any pending timer without firing. Safe to call repeatedly;
// used at shutdown so no timer outlives the service.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.gen++
}
