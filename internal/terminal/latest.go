package terminal

import "sync"

// Latest is a one-slot mailbox for animator states. Push replaces an
// unread state with the newer of the two, so a slow reader always gets
// the most recent frame and the animator never blocks on it.
type Latest struct {
	mu sync.Mutex
	c  chan State
}

// NewLatest returns an empty mailbox.
func NewLatest() *Latest {
	return &Latest{c: make(chan State, 1)}
}

// Push stores s unless an unread state with a higher Version is pending.
// It has the signature WithObserver expects.
func (l *Latest) Push(s State) {
	l.mu.Lock()
	defer l.mu.Unlock()
	select {
	case old := <-l.c:
		if old.Version > s.Version {
			s = old
		}
	default:
	}
	l.c <- s
}

// C delivers the pending state.
func (l *Latest) C() <-chan State { return l.c }
