package clock

import (
	"sync"
	"time"
)

// Ticker runs at most one refresh loop at a time. Replace stops the current
// loop before starting the next, so two loops never overlap.
type Ticker struct {
	interval time.Duration

	mu   sync.Mutex
	stop chan struct{}
	done chan struct{}
}

func NewTicker(interval time.Duration) *Ticker {
	if interval <= 0 {
		interval = time.Second
	}
	return &Ticker{interval: interval}
}

// Replace stops the running loop, calls fn once synchronously and then on
// every tick until the next Replace or Stop.
func (t *Ticker) Replace(fn func(time.Time)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopLocked()

	fn(time.Now())

	stop, done := make(chan struct{}), make(chan struct{})
	t.stop, t.done = stop, done
	go func() {
		defer close(done)
		tk := time.NewTicker(t.interval)
		defer tk.Stop()
		for {
			select {
			case <-stop:
				return
			case now := <-tk.C:
				fn(now)
			}
		}
	}()
}

// Stop halts the running loop and waits for it to exit.
func (t *Ticker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopLocked()
}

func (t *Ticker) stopLocked() {
	if t.stop == nil {
		return
	}
	close(t.stop)
	<-t.done
	t.stop, t.done = nil, nil
}
