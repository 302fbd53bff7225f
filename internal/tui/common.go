package tui

import (
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sadopc/spectalocks/internal/derive"
	"github.com/sadopc/spectalocks/internal/notify"
	"github.com/sadopc/spectalocks/internal/observable"
	"github.com/sadopc/spectalocks/internal/viewmodel"
)

// screen is the top-level mode: onboarding or the tabbed main view.
type screen int

const (
	screenWelcome screen = iota
	screenMain
)

// --- Messages ---

type statusMsg struct {
	text    string
	isError bool
}

type tickMsg time.Time

type exportDoneMsg struct {
	path string
}

type welcomeStateMsg viewmodel.WelcomeState
type welcomeItemsMsg []derive.WelcomeItem
type failureMsg derive.FailureEvent
type navigateMsg struct{}
type optionsMsg []derive.MainOption
type dashboardItemMsg derive.DashboardItem
type adderItemMsg derive.AdderItem
type statisticsItemMsg derive.StatisticItem
type settingsItemMsg derive.SettingsItem
type dueMsg notify.Notification

// bridge forwards view-model publications into the Bubble Tea loop. Every
// subscriber writes to one channel; wait reads the next message.
type bridge struct {
	ch     chan tea.Msg
	done   chan struct{}
	once   sync.Once
	mu     sync.Mutex
	unsubs []func()
}

func newBridge() *bridge {
	return &bridge{
		ch:   make(chan tea.Msg, 64),
		done: make(chan struct{}),
	}
}

func (b *bridge) send(msg tea.Msg) {
	select {
	case b.ch <- msg:
	case <-b.done:
	}
}

// wait must be re-issued after every message it delivers.
func (b *bridge) wait() tea.Cmd {
	return func() tea.Msg {
		select {
		case msg := <-b.ch:
			return msg
		case <-b.done:
			return nil
		}
	}
}

func (b *bridge) track(unsub func()) {
	b.mu.Lock()
	b.unsubs = append(b.unsubs, unsub)
	b.mu.Unlock()
}

func (b *bridge) close() {
	b.once.Do(func() {
		b.mu.Lock()
		for _, u := range b.unsubs {
			u()
		}
		b.unsubs = nil
		b.mu.Unlock()
		close(b.done)
	})
}

func watch[T any](b *bridge, v *observable.Value[T], wrap func(T) tea.Msg) {
	b.track(v.Subscribe(func(x T) { b.send(wrap(x)) }))
}

func listen[T any](b *bridge, e *observable.Event[T], wrap func(T) tea.Msg) {
	b.track(e.Subscribe(func(x T) { b.send(wrap(x)) }))
}

// --- Helpers ---

func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return string(r[:n-1]) + "…"
}
