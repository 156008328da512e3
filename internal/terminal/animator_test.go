package terminal

import (
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/kevelmun/portfolio/internal/clock"
)

func testCatalog(t *testing.T) *Catalog {
	t.Helper()
	c, err := NewCatalog([]Command{
		{Category: Vision, Invocation: "ls skills/", Title: "Computer Vision", Lines: []string{"L1", "L2", "L3", "L4"}},
		{Category: Web, Invocation: "cat web-apis.txt", Title: "Web & APIs", Lines: []string{"W1", "W2", "W3", "W4"}},
		{Category: Data, Invocation: "python data_ai.py", Title: "Datos & IA", Lines: []string{"D1", "D2"}},
		{Category: Micro, Invocation: "docker ps", Title: "Microservicios", Lines: nil},
	})
	if err != nil {
		t.Fatalf("NewCatalog: %v", err)
	}
	return c
}

func newFakeAnimator(t *testing.T, opts ...Option) (*Animator, *clock.FakeClock) {
	t.Helper()
	fake := clock.Fake(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	a, err := New(testCatalog(t), append([]Option{WithClock(fake)}, opts...)...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(a.Close)
	return a, fake
}

func assertLines(t *testing.T, s State, want ...string) {
	t.Helper()
	if !reflect.DeepEqual(s.Lines, want) {
		t.Fatalf("lines = %q, want %q", s.Lines, want)
	}
}

func TestNewStartsRevealingDefault(t *testing.T) {
	a, fake := newFakeAnimator(t)

	s := a.State()
	if s.Category != Vision {
		t.Errorf("category = %q, want %q", s.Category, Vision)
	}
	if !s.Running || s.Phase != PhaseRevealing {
		t.Errorf("running=%v phase=%v, want running revealing", s.Running, s.Phase)
	}
	assertLines(t, s, "$ ls skills/", "")
	if fake.Pending() != 1 {
		t.Errorf("pending timers = %d, want 1", fake.Pending())
	}
}

func TestSelectShowsHeaderImmediately(t *testing.T) {
	cat := testCatalog(t)
	for _, cmd := range cat.Commands() {
		t.Run(string(cmd.Category), func(t *testing.T) {
			a, _ := newFakeAnimator(t)
			if err := a.Select(cmd.Category); err != nil {
				t.Fatalf("Select: %v", err)
			}
			s := a.State()
			assertLines(t, s, "$ "+cmd.Invocation, "")
			if !s.Running {
				t.Error("expected running after select")
			}
		})
	}
}

func TestTicksRevealAllLinesThenSettle(t *testing.T) {
	cat := testCatalog(t)
	for _, cmd := range cat.Commands() {
		t.Run(string(cmd.Category), func(t *testing.T) {
			a, fake := newFakeAnimator(t, WithInitial(cmd.Category))

			ticks := len(cmd.Lines)
			if ticks == 0 {
				ticks = 1
			}
			for i := 0; i < ticks; i++ {
				fake.Advance(DefaultPeriod)
			}

			s := a.State()
			assertLines(t, s, cmd.Transcript()...)
			if s.Running || s.Phase != PhaseSettled {
				t.Fatalf("running=%v phase=%v, want settled", s.Running, s.Phase)
			}
			if fake.Pending() != 0 {
				t.Errorf("timer still live after settling")
			}

			version := s.Version
			fake.Advance(10 * DefaultPeriod)
			if after := a.State(); after.Version != version || !reflect.DeepEqual(after.Lines, s.Lines) {
				t.Errorf("state changed after settling: %+v", after)
			}
		})
	}
}

func TestVisionScenario(t *testing.T) {
	a, fake := newFakeAnimator(t)
	if err := a.Select(Vision); err != nil {
		t.Fatal(err)
	}
	assertLines(t, a.State(), "$ ls skills/", "")

	for i := 0; i < 4; i++ {
		fake.Advance(DefaultPeriod)
	}
	s := a.State()
	assertLines(t, s, "$ ls skills/", "", "L1", "L2", "L3", "L4")
	if s.Running {
		t.Error("expected running=false after the fourth tick")
	}
	if !s.ShowPrompt() {
		t.Error("expected prompt cue once settled")
	}

	fake.Advance(DefaultPeriod)
	assertLines(t, a.State(), "$ ls skills/", "", "L1", "L2", "L3", "L4")
}

func TestSwitchMidRevealNeverLeaksOldLines(t *testing.T) {
	a, fake := newFakeAnimator(t)

	fake.Advance(DefaultPeriod)
	assertLines(t, a.State(), "$ ls skills/", "", "L1")

	if err := a.Select(Web); err != nil {
		t.Fatal(err)
	}
	assertLines(t, a.State(), "$ cat web-apis.txt", "")
	if fake.Pending() != 1 {
		t.Fatalf("pending timers after switch = %d, want 1", fake.Pending())
	}

	fake.Advance(DefaultPeriod)
	assertLines(t, a.State(), "$ cat web-apis.txt", "", "W1")

	fake.Advance(3 * DefaultPeriod)
	assertLines(t, a.State(), "$ cat web-apis.txt", "", "W1", "W2", "W3", "W4")
}

func TestSwitchRestartsCadence(t *testing.T) {
	a, fake := newFakeAnimator(t)

	// Half a period into vision, switch: web's first line is due a full
	// period after the switch, not at vision's next deadline.
	fake.Advance(DefaultPeriod / 2)
	if err := a.Select(Web); err != nil {
		t.Fatal(err)
	}
	fake.Advance(DefaultPeriod / 2)
	assertLines(t, a.State(), "$ cat web-apis.txt", "")
	fake.Advance(DefaultPeriod / 2)
	assertLines(t, a.State(), "$ cat web-apis.txt", "", "W1")
}

func TestStaleTickIsIgnored(t *testing.T) {
	a, _ := newFakeAnimator(t)

	a.mu.Lock()
	stale := a.generation
	a.mu.Unlock()

	if err := a.Select(Web); err != nil {
		t.Fatal(err)
	}
	before := a.State()
	a.tick(stale)
	if after := a.State(); after.Version != before.Version || !reflect.DeepEqual(after.Lines, before.Lines) {
		t.Fatalf("stale tick mutated state: %q", after.Lines)
	}
}

func TestCloseCancelsTimer(t *testing.T) {
	for _, ticksBefore := range []int{0, 2, 4} {
		a, fake := newFakeAnimator(t)
		for i := 0; i < ticksBefore; i++ {
			fake.Advance(DefaultPeriod)
		}
		a.Close()

		if fake.Pending() != 0 {
			t.Errorf("after %d ticks: pending timers = %d after Close", ticksBefore, fake.Pending())
		}
		s := a.State()
		fake.Advance(10 * DefaultPeriod)
		if after := a.State(); !reflect.DeepEqual(after, s) {
			t.Errorf("after %d ticks: state changed after Close", ticksBefore)
		}
		if s.Phase != PhaseClosed || s.Running {
			t.Errorf("phase=%v running=%v, want closed", s.Phase, s.Running)
		}

		a.Close()
		if err := a.Select(Web); !errors.Is(err, ErrClosed) {
			t.Errorf("Select after Close: err = %v, want ErrClosed", err)
		}
	}
}

func TestSelectUnknownCategory(t *testing.T) {
	a, fake := newFakeAnimator(t)
	fake.Advance(DefaultPeriod)
	before := a.State()

	err := a.Select("quantum")
	if !errors.Is(err, ErrUnknownCategory) {
		t.Fatalf("err = %v, want ErrUnknownCategory", err)
	}
	if after := a.State(); !reflect.DeepEqual(after, before) {
		t.Errorf("unknown category changed state")
	}
	if _, err := New(testCatalog(t), WithClock(fake), WithInitial("nope")); !errors.Is(err, ErrUnknownCategory) {
		t.Errorf("New with unknown initial: err = %v", err)
	}
}

func TestSelectFromSettledReentersRevealing(t *testing.T) {
	a, fake := newFakeAnimator(t, WithInitial(Data))
	fake.Advance(2 * DefaultPeriod)
	if a.State().Phase != PhaseSettled {
		t.Fatalf("expected settled, got %v", a.State().Phase)
	}

	if err := a.Select(Data); err != nil {
		t.Fatal(err)
	}
	s := a.State()
	if s.Phase != PhaseRevealing || !s.Running {
		t.Fatalf("phase=%v running=%v, want revealing", s.Phase, s.Running)
	}
	assertLines(t, s, "$ python data_ai.py", "")
}

func TestObserverSeesOrderedVersions(t *testing.T) {
	var (
		mu     sync.Mutex
		frames []State
	)
	a, fake := newFakeAnimator(t, WithObserver(func(s State) {
		mu.Lock()
		frames = append(frames, s)
		mu.Unlock()
	}))

	fake.Advance(DefaultPeriod)
	if err := a.Select(Data); err != nil {
		t.Fatal(err)
	}
	fake.Advance(5 * DefaultPeriod)

	mu.Lock()
	defer mu.Unlock()
	// vision header, L1, data header, D1, D2 (settled)
	if len(frames) != 5 {
		t.Fatalf("got %d frames, want 5", len(frames))
	}
	for i := 1; i < len(frames); i++ {
		if frames[i].Version <= frames[i-1].Version {
			t.Errorf("frame %d version %d not after %d", i, frames[i].Version, frames[i-1].Version)
		}
	}
	last := frames[len(frames)-1]
	if last.Category != Data || last.Running {
		t.Errorf("last frame = %+v", last)
	}
	for _, f := range frames[2:] {
		for _, line := range f.Lines {
			if line == "L2" {
				t.Errorf("vision line leaked into %q frame", f.Category)
			}
		}
	}
}

func TestRealClockSettles(t *testing.T) {
	done := make(chan State, 1)
	a, err := New(testCatalog(t), WithPeriod(time.Millisecond), WithObserver(func(s State) {
		if s.Phase == PhaseSettled {
			done <- s
		}
	}))
	if err != nil {
		t.Fatal(err)
	}
	defer a.Close()

	select {
	case s := <-done:
		assertLines(t, s, "$ ls skills/", "", "L1", "L2", "L3", "L4")
	case <-time.After(5 * time.Second):
		t.Fatal("animation never settled")
	}
}
