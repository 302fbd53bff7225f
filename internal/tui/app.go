package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/spectalocks/internal/clock"
	"github.com/sadopc/spectalocks/internal/derive"
	"github.com/sadopc/spectalocks/internal/entity"
	"github.com/sadopc/spectalocks/internal/export"
	"github.com/sadopc/spectalocks/internal/notify"
	"github.com/sadopc/spectalocks/internal/viewmodel"
)

// Snapshot is the read side used by export.
type Snapshot interface {
	ListLocks() ([]entity.Lock, error)
	ListStats() ([]entity.Stat, error)
}

// Deps are the view-models and services the UI drives.
type Deps struct {
	Dashboard  *viewmodel.Dashboard
	Statistics *viewmodel.Statistics
	Settings   *viewmodel.Settings
	Welcome    *viewmodel.Welcome
	Main       *viewmodel.Main
	Notifier   *notify.Scheduler
	Snapshot   Snapshot
	Clock      clock.Clock

	RefreshInterval time.Duration
	ExportDir       string
}

// App is the root Bubble Tea model.
type App struct {
	deps   Deps
	bridge *bridge
	width  int
	height int

	screen        screen
	options       []derive.MainOption
	active        int
	showHelp      bool
	exportPicking bool
	exportCursor  int

	welcome    welcomeModel
	dashboard  dashboardModel
	statistics statisticsModel
	settings   settingsModel

	help        help.Model
	status      string
	statusStyle lipgloss.Style
}

func NewApp(deps Deps) App {
	if deps.RefreshInterval <= 0 {
		deps.RefreshInterval = time.Second
	}
	if deps.Clock == nil {
		deps.Clock = clock.System{}
	}

	h := help.New()
	h.ShowAll = false

	b := newBridge()
	watch(b, &deps.Welcome.State, func(s viewmodel.WelcomeState) tea.Msg { return welcomeStateMsg(s) })
	watch(b, &deps.Welcome.Items, func(it []derive.WelcomeItem) tea.Msg { return welcomeItemsMsg(it) })
	listen(b, &deps.Welcome.Failure, func(ev derive.FailureEvent) tea.Msg { return failureMsg(ev) })
	listen(b, &deps.Welcome.Navigate, func(struct{}) tea.Msg { return navigateMsg{} })
	watch(b, &deps.Main.Options, func(o []derive.MainOption) tea.Msg { return optionsMsg(o) })
	watch(b, &deps.Dashboard.Item, func(it derive.DashboardItem) tea.Msg { return dashboardItemMsg(it) })
	watch(b, &deps.Dashboard.Adder, func(it derive.AdderItem) tea.Msg { return adderItemMsg(it) })
	watch(b, &deps.Statistics.Item, func(it derive.StatisticItem) tea.Msg { return statisticsItemMsg(it) })
	watch(b, &deps.Settings.Item, func(it derive.SettingsItem) tea.Msg { return settingsItemMsg(it) })
	if deps.Notifier != nil {
		listen(b, deps.Notifier.Due(), func(n notify.Notification) tea.Msg { return dueMsg(n) })
	}

	return App{
		deps:       deps,
		bridge:     b,
		screen:     screenWelcome,
		welcome:    newWelcomeModel(deps.Welcome),
		dashboard:  newDashboardModel(deps.Dashboard),
		statistics: newStatisticsModel(),
		settings:   newSettingsModel(deps.Settings),
		help:       h,
	}
}

// Close detaches the UI from the view-models.
func (a App) Close() {
	a.bridge.close()
}

func (a App) Init() tea.Cmd {
	applyTheme(a.deps.Settings.Theme())
	return tea.Batch(
		a.bridge.wait(),
		a.welcome.start(),
		a.tickCmd(),
	)
}

func (a App) tickCmd() tea.Cmd {
	return tea.Tick(a.deps.RefreshInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (a App) currentFeature() entity.Feature {
	if a.active < 0 || a.active >= len(a.options) {
		return ""
	}
	return a.options[a.active].Feature
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		contentHeight := a.height - 4 // header + footer
		a.welcome.setSize(a.width, a.height)
		a.dashboard.setSize(a.width, contentHeight)
		a.statistics.setSize(a.width, contentHeight)
		a.settings.setSize(a.width, contentHeight)
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if a.screen == screenWelcome {
			if key.Matches(msg, keys.Quit) {
				return a, tea.Quit
			}
			var cmd tea.Cmd
			a.welcome, cmd = a.welcome.update(msg)
			return a, cmd
		}
		return a.updateMainKeys(msg)

	case tickMsg:
		cmds := []tea.Cmd{a.tickCmd()}
		if a.screen == screenMain {
			cmds = append(cmds, a.dashboard.refresh())
		}
		return a, tea.Batch(cmds...)

	case statusMsg:
		a.status = msg.text
		a.statusStyle = mutedStyle
		if msg.isError {
			a.statusStyle = errorStyle
		}
		return a, nil

	case exportDoneMsg:
		a.status = "Exported to " + msg.path
		a.statusStyle = successStyle
		a.exportPicking = false
		return a, nil

	case welcomeStateMsg, welcomeItemsMsg, failureMsg:
		var cmd tea.Cmd
		a.welcome, cmd = a.welcome.update(msg)
		return a, tea.Batch(cmd, a.bridge.wait())

	case navigateMsg:
		a.screen = screenMain
		return a, tea.Batch(a.bridge.wait(), a.enterMain())

	case optionsMsg:
		a.options = msg
		if a.active >= len(a.options) {
			a.active = 0
		}
		return a, a.bridge.wait()

	case dashboardItemMsg, adderItemMsg:
		var cmd tea.Cmd
		a.dashboard, cmd = a.dashboard.update(msg)
		return a, tea.Batch(cmd, a.bridge.wait())

	case statisticsItemMsg:
		a.statistics, _ = a.statistics.update(msg)
		return a, a.bridge.wait()

	case settingsItemMsg:
		applyTheme(derive.SettingsItem(msg).SelectedTheme())
		var cmd tea.Cmd
		a.settings, cmd = a.settings.update(msg)
		return a, tea.Batch(cmd, a.bridge.wait())

	case dueMsg:
		a.status = "🔔 " + msg.Title
		a.statusStyle = warningStyle
		return a, tea.Batch(a.bridge.wait(), bell(), a.dashboard.refresh())
	}

	return a.updateActiveView(msg)
}

// enterMain loads every tab once the welcome flow hands over.
func (a App) enterMain() tea.Cmd {
	d := a.deps
	return func() tea.Msg {
		d.Main.Ready()
		d.Dashboard.Ready(context.Background())
		d.Statistics.Ready()
		d.Settings.Ready()
		return nil
	}
}

func bell() tea.Cmd {
	return func() tea.Msg {
		fmt.Fprint(os.Stderr, "\a")
		return nil
	}
}

func (a App) updateMainKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.exportPicking {
		return a.updateExportPicker(msg)
	}

	// An open form owns the keyboard.
	if a.isFormActive() {
		return a.updateActiveView(msg)
	}

	switch {
	case key.Matches(msg, keys.Export):
		a.exportPicking = true
		a.exportCursor = 0
		return a, nil
	case key.Matches(msg, keys.Quit):
		return a, tea.Quit
	case key.Matches(msg, keys.Help):
		a.showHelp = !a.showHelp
		a.help.ShowAll = a.showHelp
		return a, nil
	case key.Matches(msg, keys.Tab1):
		return a.selectTab(0)
	case key.Matches(msg, keys.Tab2):
		return a.selectTab(1)
	case key.Matches(msg, keys.Tab3):
		return a.selectTab(2)
	case key.Matches(msg, keys.Tab):
		if len(a.options) > 0 {
			return a.selectTab((a.active + 1) % len(a.options))
		}
		return a, nil
	}
	return a.updateActiveView(msg)
}

func (a App) selectTab(i int) (tea.Model, tea.Cmd) {
	if i < 0 || i >= len(a.options) {
		return a, nil
	}
	a.active = i
	return a, a.refreshCurrentView()
}

func (a App) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	if a.screen != screenMain {
		return a, nil
	}
	var cmd tea.Cmd
	switch a.currentFeature() {
	case entity.FeatureDashboard:
		a.dashboard, cmd = a.dashboard.update(msg)
	case entity.FeatureStatistics:
		a.statistics, cmd = a.statistics.update(msg)
	case entity.FeatureSettings:
		a.settings, cmd = a.settings.update(msg)
	}
	return a, cmd
}

func (a App) isFormActive() bool {
	switch a.currentFeature() {
	case entity.FeatureDashboard:
		return a.dashboard.formActive
	case entity.FeatureSettings:
		return a.settings.formActive
	}
	return false
}

func (a App) refreshCurrentView() tea.Cmd {
	switch a.currentFeature() {
	case entity.FeatureDashboard:
		return a.dashboard.refresh()
	case entity.FeatureSettings:
		return a.settings.refresh()
	}
	return nil
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}
	if a.screen == screenWelcome {
		return a.welcome.view()
	}

	header := a.renderHeader()
	footer := a.renderFooter()

	var content string
	switch a.currentFeature() {
	case entity.FeatureDashboard:
		content = a.dashboard.view()
	case entity.FeatureStatistics:
		content = a.statistics.view()
	case entity.FeatureSettings:
		content = a.settings.view()
	default:
		content = mutedStyle.Render("Nothing to show")
	}

	contentHeight := max(1, a.height-lipgloss.Height(header)-lipgloss.Height(footer))

	if a.exportPicking {
		content = a.renderExportPicker()
	}

	content = lipgloss.NewStyle().
		Width(a.width).
		Height(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (a App) renderHeader() string {
	var tabs []string
	for i, o := range a.options {
		if i == a.active {
			tabs = append(tabs, activeTabStyle.Render(o.Title))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(o.Title))
		}
	}

	tabRow := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	title := lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Render("spectalocks")
	gap := max(1, a.width-lipgloss.Width(title)-lipgloss.Width(tabRow)-4)
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return headerStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, title, spacer, tabRow),
	)
}

func (a App) renderFooter() string {
	helpView := a.help.View(keys)

	status := ""
	if a.status != "" {
		status = a.statusStyle.Render(" " + a.status)
	}

	left := footerStyle.Render(helpView)
	gap := max(1, a.width-lipgloss.Width(left)-lipgloss.Width(status)-2)
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, status)
}

var exportFormats = []string{"CSV", "JSON"}

func (a App) renderExportPicker() string {
	rows := []string{titleStyle.Render("Export Format"), ""}
	for i, f := range exportFormats {
		cursor := "  "
		style := normalItemStyle
		if i == a.exportCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(cursor+f))
	}
	rows = append(rows, "", mutedStyle.Render("  enter: export  esc: cancel"))

	return activePanelStyle.Width(a.width - 4).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (a App) updateExportPicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if a.exportCursor > 0 {
			a.exportCursor--
		}
	case key.Matches(msg, keys.Down):
		if a.exportCursor < len(exportFormats)-1 {
			a.exportCursor++
		}
	case key.Matches(msg, keys.Enter):
		a.exportPicking = false
		return a, a.doExport(a.exportCursor)
	case key.Matches(msg, keys.Back):
		a.exportPicking = false
	}
	return a, nil
}

func (a App) doExport(format int) tea.Cmd {
	deps := a.deps
	return func() tea.Msg {
		if deps.Snapshot == nil {
			return statusMsg{text: "Export unavailable", isError: true}
		}
		locks, err := deps.Snapshot.ListLocks()
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Export error: %v", err), isError: true}
		}
		stats, err := deps.Snapshot.ListStats()
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Export error: %v", err), isError: true}
		}

		dir := deps.ExportDir
		if dir == "" {
			dir, _ = os.UserHomeDir()
		}
		now := deps.Clock.Now()
		dateStr := now.Format("2006-01-02")

		var path string
		if format == 0 {
			path = filepath.Join(dir, fmt.Sprintf("spectalocks-export-%s.csv", dateStr))
			if err := export.ToCSV(locks, stats, path); err != nil {
				return statusMsg{text: fmt.Sprintf("CSV error: %v", err), isError: true}
			}
		} else {
			path = filepath.Join(dir, fmt.Sprintf("spectalocks-export-%s.json", dateStr))
			if err := export.ToJSON(locks, stats, now, path); err != nil {
				return statusMsg{text: fmt.Sprintf("JSON error: %v", err), isError: true}
			}
		}

		return exportDoneMsg{path: path}
	}
}
