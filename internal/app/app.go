// Package app wires every service into a di.Container.
package app

import (
	"fmt"

	"github.com/sadopc/spectalocks/internal/appinfo"
	"github.com/sadopc/spectalocks/internal/clock"
	"github.com/sadopc/spectalocks/internal/config"
	"github.com/sadopc/spectalocks/internal/di"
	"github.com/sadopc/spectalocks/internal/localization"
	"github.com/sadopc/spectalocks/internal/notify"
	"github.com/sadopc/spectalocks/internal/remote"
	"github.com/sadopc/spectalocks/internal/store"
	"github.com/sadopc/spectalocks/internal/viewmodel"
	"go.uber.org/zap"
)

var (
	LoggerKey       = di.NewKey[*zap.Logger]("logger")
	ConfigKey       = di.NewKey[*config.Config]("config")
	ClockKey        = di.NewKey[clock.Clock]("clock")
	StoreKey        = di.NewKey[*store.Store]("store")
	PreferencesKey  = di.NewKey[*store.Preferences]("preferences")
	RemoteKey       = di.NewKey[*remote.Client]("remote")
	LocalizationKey = di.NewKey[*localization.Localization]("localization")
	AppInfoKey      = di.NewKey[*appinfo.AppInfo]("appinfo")
	NotifierKey     = di.NewKey[*notify.Scheduler]("notifier")

	DashboardKey  = di.NewKey[*viewmodel.Dashboard]("viewmodel.dashboard")
	StatisticsKey = di.NewKey[*viewmodel.Statistics]("viewmodel.statistics")
	SettingsKey   = di.NewKey[*viewmodel.Settings]("viewmodel.settings")
	WelcomeKey    = di.NewKey[*viewmodel.Welcome]("viewmodel.welcome")
	MainKey       = di.NewKey[*viewmodel.Main]("viewmodel.main")
)

var (
	_ viewmodel.Localization = (*localization.Localization)(nil)
	_ viewmodel.AppInfo      = (*appinfo.AppInfo)(nil)
	_ viewmodel.Notifier     = (*notify.Scheduler)(nil)
)

// Option adjusts the container after the defaults are registered.
type Option func(*di.Container)

// WithClock replaces the system clock.
func WithClock(c clock.Clock) Option {
	return func(ct *di.Container) {
		di.Register(ct, ClockKey, di.Singleton, func(*di.Container) clock.Clock { return c })
	}
}

// WithStore registers an already opened store instead of opening cfg.DBPath.
func WithStore(s *store.Store) Option {
	return func(ct *di.Container) {
		di.Register(ct, StoreKey, di.Singleton, func(*di.Container) *store.Store { return s })
	}
}

// NewContainer registers infrastructure as singletons and view-models as
// transients. Factories panic on failure; call Verify to surface that as an
// error at startup.
func NewContainer(cfg *config.Config, logger *zap.Logger, opts ...Option) *di.Container {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := di.New()

	di.Register(c, LoggerKey, di.Singleton, func(*di.Container) *zap.Logger { return logger })
	di.Register(c, ConfigKey, di.Singleton, func(*di.Container) *config.Config { return cfg })
	di.Register(c, ClockKey, di.Singleton, func(*di.Container) clock.Clock { return clock.System{} })

	di.Register(c, StoreKey, di.Singleton, func(c *di.Container) *store.Store {
		cfg := di.Resolve(c, ConfigKey)
		s, err := store.New(cfg.DBPath, store.WithLogger(di.Resolve(c, LoggerKey).Named("store")))
		if err != nil {
			panic(fmt.Errorf("open store: %w", err))
		}
		return s
	})
	di.Register(c, PreferencesKey, di.Singleton, func(c *di.Container) *store.Preferences {
		return di.Resolve(c, StoreKey).Preferences()
	})
	di.Register(c, RemoteKey, di.Singleton, func(c *di.Container) *remote.Client {
		cfg := di.Resolve(c, ConfigKey)
		return remote.New(cfg.AppInfoURL, cfg.LocalizationURL, remote.WithTimeout(cfg.HTTPTimeout))
	})
	di.Register(c, LocalizationKey, di.Singleton, func(c *di.Container) *localization.Localization {
		return localization.New(di.Resolve(c, RemoteKey))
	})
	di.Register(c, AppInfoKey, di.Singleton, func(c *di.Container) *appinfo.AppInfo {
		return appinfo.New(di.Resolve(c, RemoteKey))
	})
	di.Register(c, NotifierKey, di.Singleton, func(c *di.Container) *notify.Scheduler {
		return notify.New(di.Resolve(c, ClockKey), di.Resolve(c, LocalizationKey))
	})

	di.Register(c, DashboardKey, di.Transient, func(c *di.Container) *viewmodel.Dashboard {
		return viewmodel.NewDashboard(
			di.Resolve(c, StoreKey),
			di.Resolve(c, LocalizationKey),
			di.Resolve(c, NotifierKey),
			di.Resolve(c, ClockKey),
			di.Resolve(c, LoggerKey).Named("dashboard"),
		)
	})
	di.Register(c, StatisticsKey, di.Transient, func(c *di.Container) *viewmodel.Statistics {
		return viewmodel.NewStatistics(di.Resolve(c, StoreKey), di.Resolve(c, LocalizationKey))
	})
	di.Register(c, SettingsKey, di.Transient, func(c *di.Container) *viewmodel.Settings {
		return viewmodel.NewSettings(di.Resolve(c, PreferencesKey), di.Resolve(c, LocalizationKey))
	})
	di.Register(c, WelcomeKey, di.Transient, func(c *di.Container) *viewmodel.Welcome {
		return viewmodel.NewWelcome(
			di.Resolve(c, LocalizationKey),
			di.Resolve(c, AppInfoKey),
			di.Resolve(c, PreferencesKey),
			di.Resolve(c, LoggerKey).Named("welcome"),
		)
	})
	di.Register(c, MainKey, di.Transient, func(c *di.Container) *viewmodel.Main {
		return viewmodel.NewMain(di.Resolve(c, AppInfoKey), di.Resolve(c, LocalizationKey))
	})

	for _, opt := range opts {
		opt(c)
	}
	return c
}

type closer interface{ Close() }

// Verify resolves every key once so wiring and open failures show up before
// the UI starts. Transient instances created here are closed again.
func Verify(c *di.Container) (err error) {
	defer func() {
		if r := recover(); r != nil {
			switch e := r.(type) {
			case error:
				err = fmt.Errorf("verify container: %w", e)
			default:
				err = fmt.Errorf("verify container: %v", e)
			}
		}
	}()

	di.Resolve(c, LoggerKey)
	di.Resolve(c, ConfigKey)
	di.Resolve(c, ClockKey)
	di.Resolve(c, StoreKey)
	di.Resolve(c, PreferencesKey)
	di.Resolve(c, RemoteKey)
	di.Resolve(c, LocalizationKey)
	di.Resolve(c, AppInfoKey)
	di.Resolve(c, NotifierKey)

	transients := []func() any{
		func() any { return di.Resolve(c, DashboardKey) },
		func() any { return di.Resolve(c, StatisticsKey) },
		func() any { return di.Resolve(c, SettingsKey) },
		func() any { return di.Resolve(c, WelcomeKey) },
		func() any { return di.Resolve(c, MainKey) },
	}
	for _, resolve := range transients {
		if cl, ok := resolve().(closer); ok {
			cl.Close()
		}
	}
	return nil
}

// Shutdown stops timers and closes the store.
func Shutdown(c *di.Container) error {
	di.Resolve(c, NotifierKey).Stop()
	if err := di.Resolve(c, StoreKey).Close(); err != nil {
		return fmt.Errorf("close store: %w", err)
	}
	_ = di.Resolve(c, LoggerKey).Sync()
	return nil
}
