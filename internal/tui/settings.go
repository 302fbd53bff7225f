package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/spectalocks/internal/derive"
	"github.com/sadopc/spectalocks/internal/entity"
)

type settingsActions interface {
	Ready()
	SelectTheme(t entity.Theme)
}

type settingsModel struct {
	vm     settingsActions
	width  int
	height int

	item       derive.SettingsItem
	loaded     bool
	formActive bool
	form       *huh.Form

	// Form value as pointer (survives value copies)
	theme *entity.Theme
}

func newSettingsModel(vm settingsActions) settingsModel {
	t := entity.ThemeSystem
	return settingsModel{vm: vm, theme: &t}
}

func (s *settingsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

func (s settingsModel) refresh() tea.Cmd {
	vm := s.vm
	return func() tea.Msg {
		vm.Ready()
		return nil
	}
}

func (s settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	if s.formActive && s.form != nil {
		return s.updateForm(msg)
	}

	switch msg := msg.(type) {
	case settingsItemMsg:
		s.item = derive.SettingsItem(msg)
		s.loaded = true
		return s, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Enter), key.Matches(msg, keys.New):
			return s.showForm()
		}
	}
	return s, nil
}

func (s settingsModel) showForm() (settingsModel, tea.Cmd) {
	if !s.loaded {
		return s, nil
	}
	*s.theme = s.item.SelectedTheme()

	var options []huh.Option[entity.Theme]
	for _, o := range s.item.ThemeOptions {
		options = append(options, huh.NewOption(o.Title, o.Theme))
	}

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[entity.Theme]().Title(s.item.ThemeTitle).
				Options(options...).
				Value(s.theme),
		),
	).WithShowHelp(true)

	s.formActive = true
	return s, s.form.Init()
}

func (s settingsModel) updateForm(msg tea.Msg) (settingsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			s.formActive = false
			s.form = nil
			return s, nil
		}
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted {
		s.formActive = false
		theme, vm := *s.theme, s.vm
		return s, func() tea.Msg {
			vm.SelectTheme(theme)
			return statusMsg{text: "Theme set to " + string(theme)}
		}
	}

	return s, cmd
}

func (s settingsModel) view() string {
	w := s.width - 4
	title := titleStyle.Render(s.item.Title)

	if s.formActive && s.form != nil {
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", s.form.View()),
		)
	}
	if !s.loaded {
		return panelStyle.Width(w).Render(mutedStyle.Render("Loading..."))
	}

	label := lipgloss.NewStyle().Width(16)
	var current string
	for _, o := range s.item.ThemeOptions {
		if o.Selected {
			current = o.Title
		}
	}

	rows := []string{
		title,
		"",
		fmt.Sprintf("  %s %s", label.Render(s.item.ThemeTitle), highlightStyle.Render(current)),
		"",
		subtitleStyle.Render(s.item.SiteTitle),
		fmt.Sprintf("  %s %s", label.Render(s.item.SiteLinkTitle), highlightStyle.Render(s.item.SiteLink)),
		fmt.Sprintf("  %s %s", label.Render(s.item.ContactTitle), highlightStyle.Render(s.item.Contact)),
		"",
		mutedStyle.Render("Press enter to change the theme"),
	}
	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
