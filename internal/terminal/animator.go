package terminal

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/kevelmun/portfolio/internal/clock"
)

// DefaultPeriod is the delay between two revealed lines.
const DefaultPeriod = 200 * time.Millisecond

var (
	// ErrUnknownCategory is returned when selecting a category that is not
	// in the catalog.
	ErrUnknownCategory = errors.New("terminal: unknown category")

	// ErrClosed is returned when selecting on a closed animator.
	ErrClosed = errors.New("terminal: animator closed")
)

// Phase is the animator's position in its lifecycle.
type Phase int

const (
	// PhaseIdle is the zero value; New never leaves an animator in it.
	PhaseIdle Phase = iota
	// PhaseRevealing means a timer is appending lines.
	PhaseRevealing
	// PhaseSettled means every line is shown and no timer is live.
	PhaseSettled
	// PhaseClosed is terminal; the animator ignores further ticks.
	PhaseClosed
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseRevealing:
		return "revealing"
	case PhaseSettled:
		return "settled"
	case PhaseClosed:
		return "closed"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// State is a snapshot of the transcript being typed.
type State struct {
	Category Category
	Lines    []string
	Running  bool
	Phase    Phase

	// Version increases with every transition. Observers that may receive
	// snapshots out of order keep the highest one.
	Version uint64
}

// ShowPrompt reports whether the idle prompt cue belongs under the
// transcript: typing finished and at least one output line was printed.
func (s State) ShowPrompt() bool {
	return !s.Running && len(s.Lines) > 2
}

// Option configures an Animator.
type Option func(*Animator)

// WithClock sets the clock driving the reveal timer.
func WithClock(c clock.Clock) Option {
	return func(a *Animator) { a.clock = c }
}

// WithPeriod sets the delay between revealed lines. Non-positive values
// keep DefaultPeriod.
func WithPeriod(d time.Duration) Option {
	return func(a *Animator) {
		if d > 0 {
			a.period = d
		}
	}
}

// WithInitial sets the category revealed on construction instead of the
// catalog default.
func WithInitial(c Category) Option {
	return func(a *Animator) { a.initial = c }
}

// WithObserver registers fn to receive a snapshot after every transition.
// fn runs outside the animator's lock and may be called concurrently from
// the timer goroutine and the caller of Select.
func WithObserver(fn func(State)) Option {
	return func(a *Animator) { a.observer = fn }
}

// WithLogger sets the logger used for lifecycle events.
func WithLogger(l *slog.Logger) Option {
	return func(a *Animator) { a.logger = l }
}

// Animator reveals the lines of the selected category one per period.
// At most one reveal timer is live at a time: selecting a category or
// closing cancels the previous timer before anything new is scheduled.
type Animator struct {
	catalog  *Catalog
	clock    clock.Clock
	period   time.Duration
	initial  Category
	observer func(State)
	logger   *slog.Logger

	mu         sync.Mutex
	state      State
	pending    []string
	timer      *clock.Timer
	generation uint64
}

// New returns an animator already revealing its initial category.
func New(catalog *Catalog, opts ...Option) (*Animator, error) {
	a := &Animator{
		catalog: catalog,
		clock:   clock.Real(),
		period:  DefaultPeriod,
		initial: catalog.Default(),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	if err := a.Select(a.initial); err != nil {
		return nil, err
	}
	return a, nil
}

// Select restarts the animation for category. The transcript resets to
// the category's header immediately; lines follow one per period.
func (a *Animator) Select(category Category) error {
	cmd, ok := a.catalog.Lookup(category)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownCategory, category)
	}

	a.mu.Lock()
	if a.state.Phase == PhaseClosed {
		a.mu.Unlock()
		return ErrClosed
	}
	a.cancelLocked()

	a.state.Category = category
	a.state.Lines = cmd.Header()
	a.state.Running = true
	a.state.Phase = PhaseRevealing
	a.state.Version++
	a.pending = cmd.Lines

	gen := a.generation
	a.timer = a.clock.TickFunc(a.period, func() { a.tick(gen) })
	snap := a.snapshotLocked()
	a.mu.Unlock()

	a.logger.Debug("terminal category selected", "category", category, "lines", len(cmd.Lines))
	a.notify(snap)
	return nil
}

// tick reveals the next line for the timer generation gen. Ticks from a
// cancelled generation are ignored.
func (a *Animator) tick(gen uint64) {
	a.mu.Lock()
	if gen != a.generation || a.state.Phase != PhaseRevealing {
		a.mu.Unlock()
		return
	}
	if len(a.pending) > 0 {
		a.state.Lines = append(a.state.Lines, a.pending[0])
		a.pending = a.pending[1:]
	}
	if len(a.pending) == 0 {
		a.cancelLocked()
		a.state.Running = false
		a.state.Phase = PhaseSettled
	}
	a.state.Version++
	snap := a.snapshotLocked()
	a.mu.Unlock()

	a.notify(snap)
}

// Close stops the reveal timer. It is safe to call more than once.
func (a *Animator) Close() {
	a.mu.Lock()
	if a.state.Phase == PhaseClosed {
		a.mu.Unlock()
		return
	}
	a.cancelLocked()
	a.state.Running = false
	a.state.Phase = PhaseClosed
	a.state.Version++
	snap := a.snapshotLocked()
	a.mu.Unlock()

	a.logger.Debug("terminal animator closed", "category", snap.Category)
	a.notify(snap)
}

// State returns a snapshot of the current transcript.
func (a *Animator) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.snapshotLocked()
}

// cancelLocked stops the live timer and invalidates any tick of its
// generation that is already in flight.
func (a *Animator) cancelLocked() {
	a.generation++
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
}

func (a *Animator) snapshotLocked() State {
	s := a.state
	s.Lines = append([]string(nil), a.state.Lines...)
	return s
}

func (a *Animator) notify(s State) {
	if a.observer != nil {
		a.observer(s)
	}
}
