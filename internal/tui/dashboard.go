package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/spectalocks/internal/derive"
	"github.com/sadopc/spectalocks/internal/entity"
)

// dateLayout is what the add-lock form accepts, in local time.
const dateLayout = "2006-01-02 15:04"

type dashboardActions interface {
	Ready(ctx context.Context)
	AdderReady()
	AddLock(draft derive.LockDraft)
	RemoveLock(id string)
	Unlock(u derive.Unlock, bought bool)
}

type dashboardModel struct {
	vm     dashboardActions
	width  int
	height int

	item   derive.DashboardItem
	loaded bool
	cursor int
	bar    progress.Model

	adder          derive.AdderItem
	adderRequested bool
	formActive     bool
	form           *huh.Form

	// Form values as pointers (survive value copies)
	formName     *string
	formDate     *string
	formCategory *entity.Category
}

func newDashboardModel(vm dashboardActions) dashboardModel {
	name, date := "", ""
	cat := entity.Other
	return dashboardModel{
		vm:           vm,
		bar:          progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		formName:     &name,
		formDate:     &date,
		formCategory: &cat,
	}
}

func (d *dashboardModel) setSize(w, h int) {
	d.width = w
	d.height = h
	d.bar.Width = max(10, min(40, w/3))
}

func (d dashboardModel) refresh() tea.Cmd {
	return func() tea.Msg {
		d.vm.Ready(context.Background())
		return nil
	}
}

// ordered returns active locks in on-screen order: grouped by category.
func (d dashboardModel) ordered() []derive.DashboardLock {
	var out []derive.DashboardLock
	for _, g := range derive.GroupByCategory(d.item.Locks) {
		out = append(out, g.Locks...)
	}
	return out
}

func (d dashboardModel) selected() (derive.DashboardLock, bool) {
	locks := d.ordered()
	if d.cursor < 0 || d.cursor >= len(locks) {
		return derive.DashboardLock{}, false
	}
	return locks[d.cursor], true
}

func (d dashboardModel) update(msg tea.Msg) (dashboardModel, tea.Cmd) {
	// Snapshots keep arriving while the form is open.
	switch msg := msg.(type) {
	case dashboardItemMsg:
		d.item = derive.DashboardItem(msg)
		d.loaded = true
		if n := len(d.item.Locks); d.cursor >= n {
			d.cursor = max(0, n-1)
		}
		return d, nil

	case adderItemMsg:
		d.adder = derive.AdderItem(msg)
		if d.adderRequested && !d.formActive {
			d.adderRequested = false
			return d.showForm()
		}
		return d, nil
	}

	if d.formActive && d.form != nil {
		return d.updateForm(msg)
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if u := d.item.Unlock; u != nil {
			switch {
			case key.Matches(msg, keys.Buy):
				return d, d.resolve(*u, true)
			case key.Matches(msg, keys.Skip):
				return d, d.resolve(*u, false)
			}
		}

		switch {
		case key.Matches(msg, keys.Up):
			if d.cursor > 0 {
				d.cursor--
			}
		case key.Matches(msg, keys.Down):
			if d.cursor < len(d.item.Locks)-1 {
				d.cursor++
			}
		case key.Matches(msg, keys.New):
			d.adderRequested = true
			vm := d.vm
			return d, func() tea.Msg {
				vm.AdderReady()
				return nil
			}
		case key.Matches(msg, keys.Delete):
			l, ok := d.selected()
			if !ok {
				return d, nil
			}
			vm := d.vm
			return d, func() tea.Msg {
				vm.RemoveLock(l.ID)
				return statusMsg{text: "Removed " + l.Name}
			}
		}
	}
	return d, nil
}

func (d dashboardModel) resolve(u derive.Unlock, bought bool) tea.Cmd {
	vm := d.vm
	return func() tea.Msg {
		vm.Unlock(u, bought)
		verb := "skipped"
		if bought {
			verb = "bought"
		}
		return statusMsg{text: fmt.Sprintf("%s marked as %s", u.Name, verb)}
	}
}

func (d dashboardModel) showForm() (dashboardModel, tea.Cmd) {
	*d.formName = ""
	*d.formDate = d.adder.MinimumSelectableDate.Local().Add(24 * time.Hour).Format(dateLayout)
	*d.formCategory = entity.Other

	var options []huh.Option[entity.Category]
	for _, c := range d.adder.Categories {
		options = append(options, huh.NewOption(c.Name, c.Type))
	}
	minDate := d.adder.MinimumSelectableDate

	d.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title(d.adder.NameTitle).Value(d.formName).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("name is required")
					}
					return nil
				}),
			huh.NewInput().Title(d.adder.DateTitle).
				Description("YYYY-MM-DD HH:MM").
				Value(d.formDate).
				Validate(func(s string) error {
					t, err := parseLocalDate(s)
					if err != nil {
						return errors.New("use YYYY-MM-DD HH:MM")
					}
					if t.Before(minDate) {
						return fmt.Errorf("pick a time after %s", minDate.Local().Format(dateLayout))
					}
					return nil
				}),
			huh.NewSelect[entity.Category]().Title(d.adder.CategoryTitle).
				Options(options...).
				Value(d.formCategory),
		).Title(d.adder.Title),
	).WithShowHelp(true).WithShowErrors(true)

	d.formActive = true
	return d, d.form.Init()
}

func (d dashboardModel) updateForm(msg tea.Msg) (dashboardModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			d.formActive = false
			d.form = nil
			return d, nil
		}
	}

	form, cmd := d.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		d.form = f
	}

	if d.form.State == huh.StateCompleted {
		d.formActive = false
		return d, d.submit()
	}

	return d, cmd
}

func (d dashboardModel) submit() tea.Cmd {
	draft := derive.LockDraft{Name: strings.TrimSpace(*d.formName)}
	if t, err := parseLocalDate(*d.formDate); err == nil {
		draft.EndDate = &t
	}
	cat := *d.formCategory
	draft.Category = &cat

	vm := d.vm
	return func() tea.Msg {
		vm.AddLock(draft)
		return statusMsg{text: "Locked " + draft.Name}
	}
}

func parseLocalDate(s string) (time.Time, error) {
	return time.ParseInLocation(dateLayout, strings.TrimSpace(s), time.Local)
}

func (d dashboardModel) view() string {
	if d.width < 20 {
		return "Terminal too small"
	}
	w := d.width - 4

	if d.formActive && d.form != nil {
		return activePanelStyle.Width(w).Render(d.form.View())
	}
	if !d.loaded {
		return panelStyle.Width(w).Render(mutedStyle.Render("Loading..."))
	}

	var panels []string
	if d.item.Unlock != nil {
		panels = append(panels, d.renderUnlock(w))
	}
	panels = append(panels, d.renderLocks(w))
	return lipgloss.JoinVertical(lipgloss.Left, panels...)
}

func (d dashboardModel) renderUnlock(w int) string {
	u := d.item.Unlock
	content := lipgloss.JoinVertical(lipgloss.Left,
		successStyle.Bold(true).Render("🔓 "+u.Title),
		u.Message,
		"",
		fmt.Sprintf("%s %s    %s %s",
			highlightStyle.Render("[b]"), u.BuyTitle,
			highlightStyle.Render("[s]"), u.SkipTitle),
	)
	return activePanelStyle.Width(w).Render(content)
}

func (d dashboardModel) renderLocks(w int) string {
	title := titleStyle.Render(d.item.Title)
	if len(d.item.Locks) == 0 {
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
			title,
			"",
			mutedStyle.Render(d.item.EmptyHint),
		))
	}

	nameWidth := max(8, w-d.bar.Width-24)
	rows := []string{title}
	i := 0
	for _, g := range derive.GroupByCategory(d.item.Locks) {
		rows = append(rows, "", subtitleStyle.Render(derive.Glyph(g.Category.Type)+" "+g.Category.Name))
		for _, l := range g.Locks {
			cursor := "  "
			style := normalItemStyle
			if i == d.cursor {
				cursor = "> "
				style = selectedItemStyle
			}
			name := style.Render(fmt.Sprintf("%-*s", nameWidth, truncate(l.Name, nameWidth)))
			rows = append(rows, fmt.Sprintf("%s%s %s  %s",
				cursor, name, d.bar.ViewAs(l.Progress), mutedStyle.Render(l.RemainingLabel)))
			i++
		}
	}
	rows = append(rows, "", mutedStyle.Render("  n: new lock  d: remove  ↑/↓: select"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
