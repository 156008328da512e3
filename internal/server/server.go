// Package server serves the portfolio page, its HTMX fragments, the live
// terminal stream and the admin dashboard.
package server

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kevelmun/portfolio/internal/clock"
	"github.com/kevelmun/portfolio/internal/config"
	"github.com/kevelmun/portfolio/internal/contact"
	"github.com/kevelmun/portfolio/internal/content"
	"github.com/kevelmun/portfolio/internal/store"
	"github.com/kevelmun/portfolio/internal/terminal"
)

//go:embed templates/*.html
var templatesFS embed.FS

//go:embed static
var staticFS embed.FS

// Options are the dependencies of a Server.
type Options struct {
	Config   config.Config
	Content  *content.Portfolio
	Store    *store.Store
	Notifier contact.Notifier
	Clock    clock.Clock
	Logger   *slog.Logger
}

// Server is the portfolio HTTP server.
type Server struct {
	cfg      config.Config
	content  *content.Portfolio
	catalog  *terminal.Catalog
	composer *contact.Composer
	store    *store.Store
	notifier contact.Notifier
	clock    clock.Clock
	logger   *slog.Logger
	admin    *adminAuth
	engine   *gin.Engine

	// background tracks fire-and-forget writes so Close can drain them.
	background sync.WaitGroup
}

// New wires the routes. The store must already be open.
func New(opts Options) (*Server, error) {
	if opts.Content == nil || opts.Store == nil {
		return nil, errors.New("server: content and store are required")
	}
	if opts.Clock == nil {
		opts.Clock = clock.Real()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Notifier == nil {
		opts.Notifier = contact.Discard{}
	}

	catalog, err := opts.Content.Catalog()
	if err != nil {
		return nil, fmt.Errorf("server: %w", err)
	}
	composer, err := contact.NewComposer(opts.Content.Contact.WhatsApp, opts.Content.Contact.Message)
	if err != nil {
		return nil, fmt.Errorf("server: %w", err)
	}
	admin, err := newAdminAuth(opts.Config.Admin)
	if err != nil {
		return nil, fmt.Errorf("server: %w", err)
	}

	s := &Server{
		cfg:      opts.Config,
		content:  opts.Content,
		catalog:  catalog,
		composer: composer,
		store:    opts.Store,
		notifier: opts.Notifier,
		clock:    opts.Clock,
		logger:   opts.Logger,
		admin:    admin,
	}
	if err := s.routes(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Server) routes() error {
	gin.SetMode(s.cfg.GinMode)
	r := gin.New()
	r.Use(gin.Recovery())
	if gin.Mode() == gin.DebugMode {
		r.Use(gin.Logger())
	}

	tmpl, err := parseTemplates()
	if err != nil {
		return err
	}
	r.SetHTMLTemplate(tmpl)

	static, err := fs.Sub(staticFS, "static")
	if err != nil {
		return fmt.Errorf("server: static files: %w", err)
	}
	r.StaticFS("/static", http.FS(static))

	r.Use(s.visitorTracking())

	r.GET("/", s.index)
	r.POST("/theme", s.toggleTheme)
	r.GET("/terminal", s.terminalFragment)
	r.GET("/terminal/stream", s.streamTerminal)
	r.GET("/radar", s.radarFragment)
	r.GET("/skills/:tab", s.skillsFragment)
	r.GET("/contact-form", s.contactForm)
	r.POST("/contact", s.submitContact)
	r.GET("/cv", s.downloadCV)
	r.GET("/privacy", func(c *gin.Context) {
		c.HTML(http.StatusOK, "privacy.html", gin.H{
			"title":         "Privacy Policy",
			"owner":         s.content.Owner,
			"retentionDays": int(s.cfg.VisitorRetention.Hours() / 24),
		})
	})
	r.GET("/healthz", func(c *gin.Context) {
		if err := s.store.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	s.setupAdminRoutes(r)
	s.engine = r
	return nil
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.engine }

// Run serves on the configured address until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) Run(ctx context.Context) error {
	s.purgeOldVisitors()

	srv := &http.Server{
		Addr:              s.cfg.Addr(),
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		s.logger.Info("portfolio listening", "addr", srv.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	s.logger.Info("portfolio stopped")
	return nil
}

// Close waits for background writes to finish.
func (s *Server) Close() {
	s.background.Wait()
}

// goBackground runs fn on its own goroutine with a bounded context that is
// independent of the request that triggered it.
func (s *Server) goBackground(name string, fn func(ctx context.Context) error) {
	s.background.Add(1)
	go func() {
		defer s.background.Done()
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := fn(ctx); err != nil {
			s.logger.Error("background task failed", "task", name, "error", err)
		}
	}()
}

func (s *Server) purgeOldVisitors() {
	cutoff := s.clock.Now().Add(-s.cfg.VisitorRetention)
	s.goBackground("purge visitors", func(ctx context.Context) error {
		n, err := s.store.PurgeVisitorsBefore(ctx, cutoff)
		if err != nil {
			return err
		}
		if n > 0 {
			s.logger.Info("privacy cleanup removed old visitor records", "rows", n, "cutoff", cutoff)
		}
		return nil
	})
}

func parseTemplates() (*template.Template, error) {
	tmpl, err := template.New("").Funcs(templateFuncs).ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("server: parse templates: %w", err)
	}
	return tmpl, nil
}

func isHTMX(c *gin.Context) bool {
	return c.GetHeader("HX-Request") == "true"
}

var templateFuncs = template.FuncMap{
	"markdown": content.Markdown,
	"inline":   content.InlineMarkdown,
	"join":     strings.Join,
	"last": func(i int, lines []string) bool {
		return i == len(lines)-1
	},
	"datetime": func(t time.Time) string {
		return t.UTC().Format("2006-01-02 15:04")
	},
}
