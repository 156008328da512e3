package clock

import (
	"sync"
	"time"
)

// FakeClock is a Clock whose time only advances when Advance is called.
// It is safe for concurrent use.
type FakeClock struct {
	mu      sync.Mutex
	now     time.Time
	seq     uint64
	waiters []*waiter
}

type waiter struct {
	seq      uint64
	deadline time.Time
	interval time.Duration
	callback func()
	stopped  bool
}

// Fake returns a FakeClock set to start.
func Fake(start time.Time) *FakeClock {
	return &FakeClock{now: start}
}

// Now returns the fake current time.
func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// AfterFunc schedules f to run during the Advance that reaches now+d.
// If d <= 0, f runs before AfterFunc returns.
func (c *FakeClock) AfterFunc(d time.Duration, f func()) *Timer {
	if d <= 0 {
		f()
		return &Timer{stopFunc: func() bool { return false }}
	}
	return c.schedule(d, 0, f)
}

// TickFunc schedules f to run every d of fake time.
func (c *FakeClock) TickFunc(d time.Duration, f func()) *Timer {
	if d <= 0 {
		panic("clock: non-positive interval for TickFunc")
	}
	return c.schedule(d, d, f)
}

func (c *FakeClock) schedule(d, interval time.Duration, f func()) *Timer {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.seq++
	w := &waiter{
		seq:      c.seq,
		deadline: c.now.Add(d),
		interval: interval,
		callback: f,
	}
	c.waiters = append(c.waiters, w)

	return &Timer{stopFunc: func() bool {
		c.mu.Lock()
		defer c.mu.Unlock()
		if w.stopped {
			return false
		}
		w.stopped = true
		c.removeLocked(w)
		return true
	}}
}

// Advance moves the clock forward by d, running every callback that
// falls due on the way in deadline order. Callbacks run without the
// clock's lock held, so they may schedule or stop timers. A periodic
// timer spanning several intervals fires once per interval.
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now.Add(d)
	for {
		w := c.nextDueLocked(target)
		if w == nil {
			break
		}
		c.now = w.deadline
		if w.interval > 0 {
			w.deadline = w.deadline.Add(w.interval)
		} else {
			w.stopped = true
			c.removeLocked(w)
		}
		c.mu.Unlock()
		w.callback()
		c.mu.Lock()
	}
	c.now = target
	c.mu.Unlock()
}

// Pending returns the number of live timers.
func (c *FakeClock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.waiters)
}

func (c *FakeClock) nextDueLocked(target time.Time) *waiter {
	var next *waiter
	for _, w := range c.waiters {
		if w.deadline.After(target) {
			continue
		}
		if next == nil || w.deadline.Before(next.deadline) ||
			(w.deadline.Equal(next.deadline) && w.seq < next.seq) {
			next = w
		}
	}
	return next
}

func (c *FakeClock) removeLocked(target *waiter) {
	for i, w := range c.waiters {
		if w == target {
			c.waiters = append(c.waiters[:i], c.waiters[i+1:]...)
			return
		}
	}
}
