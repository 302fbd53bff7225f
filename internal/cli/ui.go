package cli

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sadopc/spectalocks/internal/app"
	"github.com/sadopc/spectalocks/internal/di"
	"github.com/sadopc/spectalocks/internal/tui"
)

func runUI(ctx context.Context, ro *RootOptions) error {
	s, err := ro.open()
	if err != nil {
		return err
	}
	defer s.close()

	c := s.c
	dash := di.Resolve(c, app.DashboardKey)
	defer dash.Close()
	stats := di.Resolve(c, app.StatisticsKey)
	defer stats.Close()

	a := tui.NewApp(tui.Deps{
		Dashboard:       dash,
		Statistics:      stats,
		Settings:        di.Resolve(c, app.SettingsKey),
		Welcome:         di.Resolve(c, app.WelcomeKey),
		Main:            di.Resolve(c, app.MainKey),
		Notifier:        di.Resolve(c, app.NotifierKey),
		Snapshot:        di.Resolve(c, app.StoreKey),
		Clock:           di.Resolve(c, app.ClockKey),
		RefreshInterval: s.cfg.RefreshInterval,
	})
	defer a.Close()

	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("run ui: %w", err)
	}
	return nil
}
