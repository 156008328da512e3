// Package tui is the terminal rendition of the portfolio's typing
// terminal, with the skill profiles plotted alongside.
package tui

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kevelmun/portfolio/internal/clock"
	"github.com/kevelmun/portfolio/internal/content"
	"github.com/kevelmun/portfolio/internal/radar"
	"github.com/kevelmun/portfolio/internal/terminal"
)

const (
	defaultWidth = 72
	cursorGlyph  = "▊"
)

// Options configures a Model.
type Options struct {
	Initial terminal.Category
	Period  time.Duration
	Dark    bool
	Clock   clock.Clock
	Logger  *slog.Logger
}

// frameMsg carries an animator state into Update.
type frameMsg terminal.State

// Model is the bubbletea model. It owns one animator for its lifetime.
type Model struct {
	catalog *terminal.Catalog
	anim    *terminal.Animator
	frames  *terminal.Latest
	state   terminal.State

	chart        *radar.Chart
	sel          radar.Selection
	showProfiles bool

	shellUser string
	hint      string
	keys      KeyMap
	styles    Styles
	width     int
	quitting  bool
}

// New builds a model over the portfolio's terminal commands and radar.
func New(p *content.Portfolio, opts Options) (Model, error) {
	catalog, err := p.Catalog()
	if err != nil {
		return Model{}, err
	}
	if opts.Initial == "" {
		opts.Initial = catalog.Default()
	}
	frames := terminal.NewLatest()
	animOpts := []terminal.Option{
		terminal.WithInitial(opts.Initial),
		terminal.WithObserver(frames.Push),
	}
	if opts.Period > 0 {
		animOpts = append(animOpts, terminal.WithPeriod(opts.Period))
	}
	if opts.Clock != nil {
		animOpts = append(animOpts, terminal.WithClock(opts.Clock))
	}
	if opts.Logger != nil {
		animOpts = append(animOpts, terminal.WithLogger(opts.Logger))
	}
	anim, err := terminal.New(catalog, animOpts...)
	if err != nil {
		return Model{}, err
	}

	return Model{
		catalog:   catalog,
		anim:      anim,
		frames:    frames,
		state:     anim.State(),
		chart:     &p.Radar,
		sel:       radar.NewSelection(p.Radar.IDs()),
		shellUser: p.Owner.ShellUser,
		hint:      p.Terminal.Hint,
		keys:      DefaultKeyMap(),
		styles:    NewStyles(opts.Dark),
		width:     defaultWidth,
	}, nil
}

// State returns the transcript currently displayed.
func (m Model) State() terminal.State { return m.state }

// Close stops the animator. Update calls it on quit.
func (m Model) Close() { m.anim.Close() }

func (m Model) waitForFrame() tea.Msg {
	return frameMsg(<-m.frames.C())
}

func (m Model) Init() tea.Cmd {
	return m.waitForFrame
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case frameMsg:
		st := terminal.State(msg)
		if st.Version >= m.state.Version {
			m.state = st
		}
		if st.Phase == terminal.PhaseClosed {
			return m, nil
		}
		return m, m.waitForFrame

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.anim.Close()
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Profiles):
		m.showProfiles = !m.showProfiles
		return m, nil

	case m.showProfiles && key.Matches(msg, m.keys.ShowAll):
		m.sel.ShowAll()
		return m, nil

	case m.showProfiles && key.Matches(msg, m.keys.HideAll):
		m.sel.HideAll()
		return m, nil

	case key.Matches(msg, m.keys.Prev):
		return m.selectIndex(m.catalog.IndexOf(m.state.Category) - 1), nil

	case key.Matches(msg, m.keys.Next):
		return m.selectIndex(m.catalog.IndexOf(m.state.Category) + 1), nil
	}

	if n, ok := digit(msg); ok {
		if m.showProfiles {
			if n < len(m.chart.Profiles) {
				m.sel.Toggle(m.chart.Profiles[n].ID)
			}
			return m, nil
		}
		if n < m.catalog.Len() {
			return m.selectIndex(n), nil
		}
	}
	return m, nil
}

// selectIndex restarts the animation on the i-th category, wrapping
// around both ends.
func (m Model) selectIndex(i int) Model {
	n := m.catalog.Len()
	i = ((i % n) + n) % n
	if err := m.anim.Select(m.catalog.At(i)); err != nil {
		return m
	}
	m.state = m.anim.State()
	return m
}

// digit maps "1".."9" to a zero-based index.
func digit(msg tea.KeyMsg) (int, bool) {
	s := msg.String()
	if len(s) != 1 || s[0] < '1' || s[0] > '9' {
		return 0, false
	}
	return int(s[0] - '1'), true
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	st := m.styles

	var b strings.Builder
	chrome := fmt.Sprintf("%s %s %s  %s",
		st.Dots[0].Render("●"), st.Dots[1].Render("●"), st.Dots[2].Render("●"),
		st.Chrome.Render(m.shellUser))
	b.WriteString(chrome + "\n")

	tabs := make([]string, 0, m.catalog.Len())
	for i, cmd := range m.catalog.Commands() {
		label := fmt.Sprintf("%d %s", i+1, cmd.Title)
		if cmd.Category == m.state.Category {
			tabs = append(tabs, st.Active.Render(label))
		} else {
			tabs = append(tabs, st.Inactive.Render(label))
		}
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...) + "\n\n")

	b.WriteString(m.renderTranscript())
	b.WriteString("\n\n" + st.Hint.Render(m.hint))

	view := st.Window.Width(m.paneWidth()).Render(b.String())
	if m.showProfiles {
		view = lipgloss.JoinVertical(lipgloss.Left, view, renderProfiles(m.chart, m.sel, m.paneWidth(), st))
	}
	return view + "\n" + st.Help.Render(m.helpLine()) + "\n"
}

// renderTranscript shows the typed lines with a block cursor on the last
// one while typing, and an idle prompt once done.
func (m Model) renderTranscript() string {
	st := m.styles
	lines := make([]string, len(m.state.Lines))
	for i, line := range m.state.Lines {
		if i == 0 {
			lines[i] = st.Command.Render(line)
		} else {
			lines[i] = st.Output.Render(line)
		}
	}
	if m.state.Running && len(lines) > 0 {
		last := len(lines) - 1
		lines[last] += st.Cursor.Render(cursorGlyph)
	}
	if m.state.ShowPrompt() {
		lines = append(lines, st.Command.Render("$ ")+st.Cursor.Render(cursorGlyph))
	}
	return strings.Join(lines, "\n")
}

func (m Model) paneWidth() int {
	if m.width <= 4 {
		return defaultWidth
	}
	return m.width - 4
}

func (m Model) helpLine() string {
	bindings := m.keys.ShortHelp(m.showProfiles)
	parts := make([]string, 0, len(bindings)+1)
	if m.showProfiles {
		parts = append(parts, "1-9 toggle")
	} else {
		parts = append(parts, "1-9 select")
	}
	for _, kb := range bindings {
		h := kb.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return strings.Join(parts, " • ")
}
