package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/kevelmun/portfolio/internal/config"
	"github.com/kevelmun/portfolio/internal/contact"
	"github.com/kevelmun/portfolio/internal/content"
	"github.com/kevelmun/portfolio/internal/server"
	"github.com/kevelmun/portfolio/internal/store"
	"github.com/kevelmun/portfolio/internal/terminal"
	"github.com/kevelmun/portfolio/internal/tui"
)

var (
	envFile  string
	addr     string
	category string
	plain    bool
	period   time.Duration
)

// main registers the serve and term commands. With no subcommand the web
// server runs.
func main() {
	rootCmd := &cobra.Command{
		Use:           "portfolio",
		Short:         "personal portfolio site with a live typing terminal",
		RunE:          runServe,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file to load (missing file is ignored)")
	rootCmd.Flags().StringVar(&addr, "addr", "", "listen address, overrides PORT")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "serve the portfolio over HTTP",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
	serveCmd.Flags().StringVar(&addr, "addr", "", "listen address, overrides PORT")

	termCmd := &cobra.Command{
		Use:   "term",
		Short: "play the skills terminal in this terminal",
		Args:  cobra.NoArgs,
		RunE:  runTerm,
	}
	termCmd.Flags().StringVar(&category, "category", "", "category to start with (vision, web, data, micro)")
	termCmd.Flags().BoolVar(&plain, "plain", false, "print the transcript without the interactive UI")
	termCmd.Flags().DurationVar(&period, "period", 0, "typing period, overrides TYPING_PERIOD")

	rootCmd.AddCommand(serveCmd, termCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "portfolio:", err)
		os.Exit(1)
	}
}

func newLogger(level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(envFile)
	if err != nil {
		return err
	}
	if addr != "" {
		cfg.Port = addr
	}
	logger := newLogger(cfg.LogLevel)
	slog.SetDefault(logger)
	gin.SetMode(cfg.GinMode)

	portfolio, err := content.Load(cfg.ContentPath)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := store.Open(ctx, cfg.DatabasePath)
	if err != nil {
		return err
	}
	defer st.Close()
	logger.Info("database ready", "path", cfg.DatabasePath)

	var notifier contact.Notifier = contact.Discard{}
	if cfg.SMTP.Configured() {
		if notifier, err = contact.NewSMTPNotifier(cfg.SMTP, logger); err != nil {
			return err
		}
	} else {
		logger.Warn("SMTP credentials not configured, contact emails disabled")
	}

	srv, err := server.New(server.Options{
		Config:   cfg,
		Content:  portfolio,
		Store:    st,
		Notifier: notifier,
		Logger:   logger,
	})
	if err != nil {
		return err
	}
	defer srv.Close()

	return srv.Run(ctx)
}

func runTerm(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(envFile)
	if err != nil {
		return err
	}
	if period > 0 {
		cfg.TypingPeriod = period
	}
	logger := newLogger(cfg.LogLevel)

	portfolio, err := content.Load(cfg.ContentPath)
	if err != nil {
		return err
	}
	catalog, err := portfolio.Catalog()
	if err != nil {
		return err
	}
	start := catalog.Default()
	if category != "" {
		start = terminal.Category(category)
		if _, ok := catalog.Lookup(start); !ok {
			return fmt.Errorf("%w: %q", terminal.ErrUnknownCategory, category)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if plain || !term.IsTerminal(int(os.Stdout.Fd())) {
		err := tui.Typewrite(ctx, os.Stdout, catalog, start,
			terminal.WithPeriod(cfg.TypingPeriod),
			terminal.WithLogger(logger))
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	}

	model, err := tui.New(portfolio, tui.Options{
		Initial: start,
		Period:  cfg.TypingPeriod,
		Dark:    tui.DetectDark(),
		Logger:  logger,
	})
	if err != nil {
		return err
	}
	defer model.Close()

	_, err = tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
