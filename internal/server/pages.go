package server

import (
	"net/http"
	"net/url"
	"os"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/kevelmun/portfolio/internal/content"
	"github.com/kevelmun/portfolio/internal/radar"
	"github.com/kevelmun/portfolio/internal/terminal"
)

const (
	themeCookie    = "darkMode"
	themeMaxAge    = 365 * 24 * 3600
	radarPlotSize  = 420
	cvDownloadName = "CV.pdf"
)

type pageData struct {
	Portfolio *content.Portfolio
	Dark      bool
	Terminal  terminalView
	Radar     radarView
	Skills    skillsView
	Contact   contactView
	HasCV     bool
	Year      int
}

type terminalButton struct {
	Category terminal.Category
	Title    string
	Active   bool
}

type terminalView struct {
	ShellUser string
	Hint      string
	Active    terminal.Category
	Buttons   []terminalButton
	Lines     []string
	Running   bool
	Prompt    bool
	Dark      bool
}

type radarButton struct {
	ID    string
	Label string
	On    bool
	Href  string
}

type radarView struct {
	Plot     radar.Plot
	Buttons  []radarButton
	ShowAll  string
	HideAll  string
	Selected []string
}

type skillsView struct {
	Tabs   []content.SkillTab
	Active content.SkillTab
}

// darkMode resolves the theme: explicit cookie first, then the client
// color-scheme hint, else light.
func darkMode(c *gin.Context) bool {
	if v, err := c.Cookie(themeCookie); err == nil {
		return v == "true"
	}
	return c.GetHeader("Sec-CH-Prefers-Color-Scheme") == "dark"
}

func (s *Server) index(c *gin.Context) {
	dark := darkMode(c)
	c.Header("Accept-CH", "Sec-CH-Prefers-Color-Scheme")

	category := s.catalog.Default()
	if q := terminal.Category(c.Query("category")); q != "" {
		if _, ok := s.catalog.Lookup(q); ok {
			category = q
		}
	}

	c.HTML(http.StatusOK, "index.html", pageData{
		Portfolio: s.content,
		Dark:      dark,
		Terminal:  s.terminalView(category, dark),
		Radar:     s.radarView(radar.NewSelection(s.content.Radar.IDs()), dark),
		Skills:    s.skillsView(s.content.DefaultTab()),
		Contact:   contactView{},
		HasCV:     s.cvAvailable(),
		Year:      s.clock.Now().Year(),
	})
}

func (s *Server) toggleTheme(c *gin.Context) {
	next := !darkMode(c)
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(themeCookie, strconv.FormatBool(next), themeMaxAge, "/", "", false, true)

	if isHTMX(c) {
		c.Header("HX-Refresh", "true")
		c.Status(http.StatusNoContent)
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

// terminalView renders the settled transcript for category. Clients with
// JavaScript replace it with the live stream.
func (s *Server) terminalView(active terminal.Category, dark bool) terminalView {
	v := terminalView{
		ShellUser: s.content.Owner.ShellUser,
		Hint:      s.content.Terminal.Hint,
		Active:    active,
		Dark:      dark,
	}
	for _, cmd := range s.catalog.Commands() {
		v.Buttons = append(v.Buttons, terminalButton{
			Category: cmd.Category,
			Title:    cmd.Title,
			Active:   cmd.Category == active,
		})
		if cmd.Category == active {
			v.Lines = cmd.Transcript()
		}
	}
	v.Prompt = len(v.Lines) > 2
	return v
}

func (s *Server) terminalFragment(c *gin.Context) {
	category := terminal.Category(c.DefaultQuery("category", string(s.catalog.Default())))
	if _, ok := s.catalog.Lookup(category); !ok {
		c.String(http.StatusBadRequest, "unknown category")
		return
	}
	c.HTML(http.StatusOK, "terminal.html", s.terminalView(category, darkMode(c)))
}

// radarView builds the chart and the toggle links. Every link carries the
// full next selection so the fragment endpoint stays stateless.
func (s *Server) radarView(sel radar.Selection, dark bool) radarView {
	chart := &s.content.Radar
	v := radarView{
		Plot:     chart.Plot(radarPlotSize, sel, dark),
		Selected: sel.IDs(),
		ShowAll:  radarHref(chart.IDs()),
		HideAll:  radarHref(nil),
	}
	for _, p := range chart.Profiles {
		next := radar.SelectionOf(chart.IDs(), sel.IDs())
		next.Toggle(p.ID)
		v.Buttons = append(v.Buttons, radarButton{
			ID:    p.ID,
			Label: p.Label,
			On:    sel.Has(p.ID),
			Href:  radarHref(next.IDs()),
		})
	}
	return v
}

func radarHref(selected []string) string {
	q := url.Values{}
	q.Set("set", "1")
	for _, id := range selected {
		q.Add("selected", id)
	}
	return "/radar?" + q.Encode()
}

func (s *Server) radarFragment(c *gin.Context) {
	ids := s.content.Radar.IDs()
	sel := radar.NewSelection(ids)
	// "set" marks an explicit selection, which may be empty.
	if c.Query("set") != "" {
		sel = radar.SelectionOf(ids, c.QueryArray("selected"))
	}
	switch c.Query("action") {
	case "all":
		sel.ShowAll()
	case "none":
		sel.HideAll()
	}
	if id := c.Query("toggle"); id != "" {
		sel.Toggle(id)
	}
	c.HTML(http.StatusOK, "radar.html", s.radarView(sel, darkMode(c)))
}

func (s *Server) skillsView(active string) skillsView {
	tab, _ := s.content.Tab(active)
	return skillsView{Tabs: s.content.Skills, Active: tab}
}

func (s *Server) skillsFragment(c *gin.Context) {
	key := c.Param("tab")
	if _, ok := s.content.Tab(key); !ok {
		c.String(http.StatusNotFound, "unknown tab")
		return
	}
	c.HTML(http.StatusOK, "skills.html", s.skillsView(key))
}

func (s *Server) cvAvailable() bool {
	if s.cfg.CVPath == "" {
		return false
	}
	info, err := os.Stat(s.cfg.CVPath)
	return err == nil && !info.IsDir()
}

func (s *Server) downloadCV(c *gin.Context) {
	if !s.cvAvailable() {
		c.String(http.StatusNotFound, "CV not available")
		return
	}
	c.FileAttachment(s.cfg.CVPath, cvDownloadName)
}
