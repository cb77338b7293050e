// Package round holds the per-round runtime: the countdown timer and the
// autosaver for long-form answers.
package round

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Round time limits.
const (
	MCQDuration          = 300 * time.Second
	SystemDesignDuration = 900 * time.Second
)

// Countdown counts down in one-second ticks and calls onExpire exactly once
// when it reaches zero. Ticks after zero and ticks after Stop do nothing.
type Countdown struct {
	mu        sync.Mutex
	remaining int
	fired     bool
	stopped   bool
	onExpire  func()

	interval time.Duration
	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

// NewCountdown creates a stopped-at-start countdown of d, rounded down to whole seconds.
func NewCountdown(d time.Duration, onExpire func()) *Countdown {
	return &Countdown{
		remaining: int(d / time.Second),
		onExpire:  onExpire,
		interval:  time.Second,
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
	}
}

// Tick advances the countdown by one second and returns the seconds left.
func (c *Countdown) Tick() int {
	c.mu.Lock()
	if c.stopped || c.fired {
		left := c.remaining
		c.mu.Unlock()
		return left
	}
	if c.remaining > 0 {
		c.remaining--
	}
	fire := c.remaining == 0
	if fire {
		c.fired = true
	}
	left := c.remaining
	c.mu.Unlock()

	if fire && c.onExpire != nil {
		c.onExpire()
	}
	return left
}

// Start ticks every second in a goroutine until expiry, Stop or ctx ends.
func (c *Countdown) Start(ctx context.Context) {
	go func() {
		defer close(c.done)
		ticker := time.NewTicker(c.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				c.Stop()
				return
			case <-c.stop:
				return
			case <-ticker.C:
				if c.Tick() == 0 {
					return
				}
			}
		}
	}()
}

// Stop cancels the countdown. A Tick that already decided to fire still runs
// onExpire, which may itself call Stop, so Stop does not wait for it. Callers
// that reset state must check in onExpire that the countdown is still theirs.
func (c *Countdown) Stop() {
	c.mu.Lock()
	c.stopped = true
	c.mu.Unlock()
	c.stopOnce.Do(func() { close(c.stop) })
}

// Done is closed when a started countdown's goroutine exits.
func (c *Countdown) Done() <-chan struct{} {
	return c.done
}

// Remaining returns the time left.
func (c *Countdown) Remaining() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return time.Duration(c.remaining) * time.Second
}

// Expired reports whether the countdown reached zero.
func (c *Countdown) Expired() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fired
}

// Stopped reports whether Stop was called.
func (c *Countdown) Stopped() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stopped
}

// FormatClock renders d as m:ss.
func FormatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int(d / time.Second)
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}
