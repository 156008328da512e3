package terminal

import "testing"

func TestLatestKeepsNewest(t *testing.T) {
	l := NewLatest()
	l.Push(State{Version: 1})
	l.Push(State{Version: 3})
	l.Push(State{Version: 2})

	if got := (<-l.C()).Version; got != 3 {
		t.Fatalf("version = %d, want 3", got)
	}
	select {
	case s := <-l.C():
		t.Fatalf("unexpected second state %+v", s)
	default:
	}
}

func TestLatestWithAnimator(t *testing.T) {
	l := NewLatest()
	a, fake := newFakeAnimator(t, WithObserver(l.Push))

	fake.Advance(4 * DefaultPeriod)
	s := <-l.C()
	if s.Phase != PhaseSettled || s.Version != a.State().Version {
		t.Fatalf("state = %+v", s)
	}
	assertLines(t, s, "$ ls skills/", "", "L1", "L2", "L3", "L4")
}
