package clock

import (
	"sync"
	"time"
)

// Real returns a Clock backed by the standard time package.
func Real() Clock { return realClock{} }

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

func (realClock) AfterFunc(d time.Duration, f func()) *Timer {
	t := time.AfterFunc(d, f)
	return &Timer{stopFunc: t.Stop}
}

func (realClock) TickFunc(d time.Duration, f func()) *Timer {
	if d <= 0 {
		panic("clock: non-positive interval for TickFunc")
	}
	ticker := time.NewTicker(d)
	done := make(chan struct{})
	var once sync.Once

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				// A tick and a stop can be ready together; stop wins.
				select {
				case <-done:
					return
				default:
				}
				f()
			}
		}
	}()

	return &Timer{stopFunc: func() bool {
		stopped := false
		once.Do(func() {
			close(done)
			stopped = true
		})
		return stopped
	}}
}
