// Package cli is the spectalocks command line. With no subcommand it runs the
// terminal UI.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/sadopc/spectalocks/internal/app"
	"github.com/sadopc/spectalocks/internal/config"
	"github.com/sadopc/spectalocks/internal/di"
	"github.com/sadopc/spectalocks/internal/logging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// RootOptions are the flags shared by every command.
type RootOptions struct {
	ConfigPath string
	DBPath     string
	LogLevel   string
}

func addRootArgs(cmd *cobra.Command, o *RootOptions) {
	cmd.PersistentFlags().StringVar(&o.ConfigPath, "config", "",
		"Path to a config file (default: ~/.config/spectalocks/config.yaml).")
	cmd.PersistentFlags().StringVar(&o.DBPath, "db", "",
		"Path to the SQLite database.")
	cmd.PersistentFlags().StringVar(&o.LogLevel, "log-level", "",
		"Log level: debug, info, warn or error.")
}

func New() *cobra.Command {
	ro := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "spectalocks",
		Short:         "Delay purchases until the urge has passed.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUI(cmd.Context(), ro)
		},
	}
	addRootArgs(cmd, ro)

	AddCommands(cmd, ro)
	return cmd
}

func AddCommands(topLevel *cobra.Command, ro *RootOptions) {
	addAdd(topLevel, ro)
	addList(topLevel, ro)
	addRemove(topLevel, ro)
	addUnlock(topLevel, ro)
	addStats(topLevel, ro)
	addTheme(topLevel, ro)
	addExport(topLevel, ro)
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := New().ExecuteContext(ctx)
	stop()
	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, color.RedString("error: %v", err))
		os.Exit(1)
	}
}

// session is one command's view of the wired application.
type session struct {
	cfg *config.Config
	log *zap.Logger
	c   *di.Container
}

func (o *RootOptions) open() (*session, error) {
	cfg, err := config.Load(o.ConfigPath)
	if err != nil {
		return nil, err
	}
	if o.DBPath != "" {
		cfg.DBPath = o.DBPath
	}
	if o.LogLevel != "" {
		cfg.LogLevel = o.LogLevel
	}

	log, err := logging.New(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	c := app.NewContainer(cfg, log)
	if err := app.Verify(c); err != nil {
		_ = log.Sync()
		return nil, err
	}
	return &session{cfg: cfg, log: log, c: c}, nil
}

func (s *session) close() {
	if err := app.Shutdown(s.c); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, color.YellowString("warning: %v", err))
	}
}

// localized initializes UI text. Remote failures fall back to the built-in
// strings; only a broken embedded table is fatal.
func (s *session) localized(ctx context.Context) error {
	loc := di.Resolve(s.c, app.LocalizationKey)
	if err := loc.Initialize(ctx); err != nil {
		s.log.Warn("remote localization unavailable", zap.Error(err))
		return loc.Fallback()
	}
	return nil
}
