package viewmodel

import (
	"context"

	"github.com/sadopc/spectalocks/internal/derive"
	"github.com/sadopc/spectalocks/internal/observable"
	"github.com/sadopc/spectalocks/internal/store"
	"go.uber.org/zap"
)

type WelcomeState int

const (
	Initializing WelcomeState = iota
	ItemsReady
	NavigateToMain
	Failed
)

func (s WelcomeState) String() string {
	switch s {
	case Initializing:
		return "initializing"
	case ItemsReady:
		return "items-ready"
	case NavigateToMain:
		return "navigate-to-main"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// Welcome gates app start: it loads localization and the remote config, then
// either shows onboarding, goes straight to the main screen, or fails.
type Welcome struct {
	State    observable.Value[WelcomeState]
	Items    observable.Value[[]derive.WelcomeItem]
	Failure  observable.Event[derive.FailureEvent]
	Navigate observable.Event[struct{}]

	loc   Localization
	app   AppInfo
	prefs Preferences
	log   *zap.Logger
}

func NewWelcome(loc Localization, app AppInfo, prefs Preferences, log *zap.Logger) *Welcome {
	if log == nil {
		log = zap.NewNop()
	}
	return &Welcome{loc: loc, app: app, prefs: prefs, log: log}
}

// Ready runs the start sequence. It blocks on network access, so callers run
// it off the UI loop.
func (w *Welcome) Ready(ctx context.Context) {
	w.State.Set(Initializing)

	if err := w.loc.Initialize(ctx); err != nil {
		w.log.Warn("initialize localization", zap.Error(err))
		w.fail(derive.ConnectivityFailure(w.loc))
		return
	}
	if err := w.app.Initialize(ctx); err != nil {
		w.log.Warn("initialize app info", zap.Error(err))
		w.fail(derive.ConnectivityFailure(w.loc))
		return
	}
	if !w.app.Enabled() {
		w.fail(derive.DisabledFailure(w.loc))
		return
	}
	if w.prefs.Bool(store.WelcomeFinished) {
		w.navigate()
		return
	}
	w.Items.Set(derive.Welcome(w.loc))
	w.State.Set(ItemsReady)
}

// Retry restarts the sequence after a failure.
func (w *Welcome) Retry(ctx context.Context) {
	w.Ready(ctx)
}

// Complete records that onboarding was seen and moves on.
func (w *Welcome) Complete() {
	w.prefs.SetBool(store.WelcomeFinished, true)
	w.navigate()
}

func (w *Welcome) fail(ev derive.FailureEvent) {
	w.State.Set(Failed)
	w.Failure.Publish(ev)
}

func (w *Welcome) navigate() {
	w.State.Set(NavigateToMain)
	w.Navigate.Publish(struct{}{})
}
