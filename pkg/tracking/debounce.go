package tracking

import (
	"sync"
	"time"
)

// Debouncer collapses bursts of per-key triggers into one delayed fire.
// The fire callback reads current state, so the trailing event of a burst
// is always reflected; only intermediate re-renders are skipped.
type Debouncer struct {
	interval time.Duration
	fire     func(key string)

	mx      sync.Mutex
	pending map[string]*time.Timer
	stopped bool
}

func NewDebouncer(interval time.Duration, fire func(key string)) *Debouncer {
	return &Debouncer{
		interval: interval,
		fire:     fire,
		pending:  make(map[string]*time.Timer),
	}
}

func (d *Debouncer) Trigger(key string) {
	d.mx.Lock()
	defer d.mx.Unlock()

	if d.stopped {
		return
	}

	if _, ok := d.pending[key]; ok {
		return
	}

	d.pending[key] = time.AfterFunc(d.interval, func() {
		d.mx.Lock()
		delete(d.pending, key)
		stopped := d.stopped
		d.mx.Unlock()

		if !stopped {
			d.fire(key)
		}
	})
}

// Flush fires every pending key immediately.
func (d *Debouncer) Flush() {
	d.mx.Lock()

	keys := make([]string, 0, len(d.pending))

	for key, timer := range d.pending {
		timer.Stop()
		delete(d.pending, key)
		keys = append(keys, key)
	}

	d.mx.Unlock()

	for _, key := range keys {
		d.fire(key)
	}
}

func (d *Debouncer) Stop() {
	d.mx.Lock()
	defer d.mx.Unlock()

	d.stopped = true

	for key, timer := range d.pending {
		timer.Stop()
		delete(d.pending, key)
	}
}
