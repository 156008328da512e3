package tui

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kevelmun/portfolio/internal/clock"
	"github.com/kevelmun/portfolio/internal/content"
	"github.com/kevelmun/portfolio/internal/terminal"
)

const period = 200 * time.Millisecond

func newTestModel(t *testing.T) (Model, *clock.FakeClock, *content.Portfolio) {
	t.Helper()
	p, err := content.Default()
	if err != nil {
		t.Fatal(err)
	}
	fake := clock.Fake(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	m, err := New(p, Options{Period: period, Clock: fake})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(m.Close)
	return m, fake, p
}

// pump delivers the pending animator frame to the model.
func pump(t *testing.T, m Model) Model {
	t.Helper()
	next, _ := m.Update(m.waitForFrame())
	return next.(Model)
}

func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "left":
			msg = tea.KeyMsg{Type: tea.KeyLeft}
		case "right":
			msg = tea.KeyMsg{Type: tea.KeyRight}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

func lookup(t *testing.T, p *content.Portfolio, c terminal.Category) terminal.Command {
	t.Helper()
	cat, err := p.Catalog()
	if err != nil {
		t.Fatal(err)
	}
	cmd, ok := cat.Lookup(c)
	if !ok {
		t.Fatalf("no command for %s", c)
	}
	return cmd
}

func TestModelTypesAndSettles(t *testing.T) {
	m, fake, p := newTestModel(t)
	vision := lookup(t, p, terminal.Vision)

	view := m.View()
	if !strings.Contains(view, "$ ls skills/") || !strings.Contains(view, cursorGlyph) {
		t.Errorf("initial view missing header or cursor:\n%s", view)
	}
	if strings.Contains(view, "$ "+cursorGlyph) {
		t.Error("prompt shown while typing")
	}

	fake.Advance(period)
	m = pump(t, m)
	if got := len(m.State().Lines); got != 3 {
		t.Fatalf("lines after one tick = %d", got)
	}

	fake.Advance(time.Duration(len(vision.Lines)) * period)
	m = pump(t, m)
	st := m.State()
	if st.Running || st.Phase != terminal.PhaseSettled {
		t.Fatalf("state = %+v", st)
	}
	view = m.View()
	if !strings.Contains(view, "$ "+cursorGlyph) {
		t.Errorf("settled view has no prompt:\n%s", view)
	}
	if !strings.Contains(view, vision.Lines[len(vision.Lines)-1]) {
		t.Error("last line not rendered")
	}
}

func TestModelSwitchesMidAnimation(t *testing.T) {
	m, fake, p := newTestModel(t)
	web := lookup(t, p, terminal.Web)

	fake.Advance(2 * period)
	m = pump(t, m)

	m = press(t, m, "right")
	st := m.State()
	if st.Category != terminal.Web || len(st.Lines) != 2 || !st.Running {
		t.Fatalf("after switch = %+v", st)
	}

	fake.Advance(period)
	m = pump(t, m)
	st = m.State()
	if st.Category != terminal.Web || len(st.Lines) != 3 || st.Lines[2] != web.Lines[0] {
		t.Fatalf("after one tick = %+v", st)
	}
}

func TestModelCategoryKeys(t *testing.T) {
	m, _, _ := newTestModel(t)

	tests := []struct {
		keys []string
		want terminal.Category
	}{
		{[]string{"left"}, terminal.Micro},
		{[]string{"l"}, terminal.Vision},
		{[]string{"3"}, terminal.Data},
		{[]string{"h", "h"}, terminal.Vision},
		{[]string{"9"}, terminal.Vision},
	}
	for _, tt := range tests {
		m = press(t, m, tt.keys...)
		if got := m.State().Category; got != tt.want {
			t.Errorf("keys %v: category = %s, want %s", tt.keys, got, tt.want)
		}
	}
}

func TestModelProfilesPane(t *testing.T) {
	m, _, p := newTestModel(t)
	first := p.Radar.Profiles[0].ID

	m = press(t, m, "p")
	if !strings.Contains(m.View(), p.Radar.Profiles[0].Label) {
		t.Error("profiles pane not shown")
	}

	m = press(t, m, "1")
	if m.sel.Has(first) {
		t.Error("1 did not toggle the first profile")
	}
	if m.State().Category != terminal.Vision {
		t.Error("digits must not switch category while the pane is open")
	}

	m = press(t, m, "x")
	if m.sel.Len() != 0 || !strings.Contains(m.View(), "No profiles selected") {
		t.Error("hide all failed")
	}
	m = press(t, m, "a")
	if m.sel.Len() != len(p.Radar.Profiles) {
		t.Error("show all failed")
	}

	m = press(t, m, "p", "2")
	if m.State().Category != terminal.Web {
		t.Error("digits select categories once the pane is closed")
	}
}

func TestModelIgnoresStaleFrames(t *testing.T) {
	m, _, _ := newTestModel(t)
	m = press(t, m, "right")
	current := m.State()

	next, _ := m.Update(frameMsg(terminal.State{Category: terminal.Vision, Version: current.Version - 1}))
	if got := next.(Model).State(); got.Category != current.Category {
		t.Errorf("stale frame applied: %+v", got)
	}
}

func TestModelQuit(t *testing.T) {
	m, _, _ := newTestModel(t)

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatal("no quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("ctrl+c did not quit")
	}
	if next.(Model).View() != "" {
		t.Error("view should be empty after quit")
	}
	if phase := m.anim.State().Phase; phase != terminal.PhaseClosed {
		t.Errorf("animator phase = %s", phase)
	}
}

func TestTypewrite(t *testing.T) {
	p, err := content.Default()
	if err != nil {
		t.Fatal(err)
	}
	cat, err := p.Catalog()
	if err != nil {
		t.Fatal(err)
	}
	cmd, _ := cat.Lookup(terminal.Data)

	var out bytes.Buffer
	if err := Typewrite(context.Background(), &out, cat, terminal.Data, terminal.WithPeriod(time.Millisecond)); err != nil {
		t.Fatalf("Typewrite: %v", err)
	}
	want := strings.Join(cmd.Transcript(), "\n") + "\n"
	if out.String() != want {
		t.Errorf("output = %q, want %q", out.String(), want)
	}

	if err := Typewrite(context.Background(), &out, cat, "cobol"); !errors.Is(err, terminal.ErrUnknownCategory) {
		t.Errorf("unknown category err = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := Typewrite(ctx, &out, cat, terminal.Web, terminal.WithPeriod(time.Hour)); !errors.Is(err, context.Canceled) {
		t.Errorf("cancelled err = %v", err)
	}
}
