package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/spectalocks/internal/derive"
	"github.com/sadopc/spectalocks/internal/viewmodel"
)

type welcomeActions interface {
	Ready(ctx context.Context)
	Retry(ctx context.Context)
	Complete()
}

type welcomeModel struct {
	vm     welcomeActions
	width  int
	height int

	state   viewmodel.WelcomeState
	items   []derive.WelcomeItem
	index   int
	failure *derive.FailureEvent
}

func newWelcomeModel(vm welcomeActions) welcomeModel {
	return welcomeModel{vm: vm}
}

func (w *welcomeModel) setSize(width, height int) {
	w.width = width
	w.height = height
}

func (w welcomeModel) start() tea.Cmd {
	vm := w.vm
	return func() tea.Msg {
		vm.Ready(context.Background())
		return nil
	}
}

func (w welcomeModel) update(msg tea.Msg) (welcomeModel, tea.Cmd) {
	switch msg := msg.(type) {
	case welcomeStateMsg:
		w.state = viewmodel.WelcomeState(msg)
		if w.state == viewmodel.Initializing {
			w.failure = nil
		}
		return w, nil

	case welcomeItemsMsg:
		w.items = msg
		w.index = 0
		return w, nil

	case failureMsg:
		ev := derive.FailureEvent(msg)
		w.failure = &ev
		return w, nil

	case tea.KeyMsg:
		if !key.Matches(msg, keys.Enter) {
			return w, nil
		}
		vm := w.vm
		switch {
		case w.failure != nil:
			w.failure = nil
			return w, func() tea.Msg {
				vm.Retry(context.Background())
				return nil
			}
		case w.state == viewmodel.ItemsReady && w.index < len(w.items)-1:
			w.index++
		case w.state == viewmodel.ItemsReady:
			return w, func() tea.Msg {
				vm.Complete()
				return nil
			}
		}
	}
	return w, nil
}

func (w welcomeModel) view() string {
	width := max(20, min(w.width-4, 72))

	if w.failure != nil {
		content := lipgloss.JoinVertical(lipgloss.Left,
			errorStyle.Bold(true).Render(w.failure.Title),
			"",
			w.failure.Description,
			"",
			highlightStyle.Render("[enter] ")+w.failure.RetryLabel,
		)
		return w.center(activePanelStyle.Width(width).Render(content))
	}

	if w.state != viewmodel.ItemsReady || len(w.items) == 0 {
		return w.center(mutedStyle.Render("Loading..."))
	}

	item := w.items[w.index]
	dots := make([]string, len(w.items))
	for i := range w.items {
		if i == w.index {
			dots[i] = selectedItemStyle.Render("●")
		} else {
			dots[i] = mutedStyle.Render("○")
		}
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(item.Title),
		"",
		lipgloss.NewStyle().Width(width-6).Render(item.Description),
		"",
		fmt.Sprintf("%s  %s%s", strings.Join(dots, " "), highlightStyle.Render("[enter] "), item.ButtonTitle),
	)
	return w.center(panelStyle.Width(width).Render(content))
}

func (w welcomeModel) center(s string) string {
	if w.width == 0 || w.height == 0 {
		return s
	}
	return lipgloss.Place(w.width, w.height, lipgloss.Center, lipgloss.Center, s)
}
