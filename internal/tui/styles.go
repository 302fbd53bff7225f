package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/spectalocks/internal/entity"
)

type palette struct {
	primary   lipgloss.Color
	secondary lipgloss.Color
	muted     lipgloss.Color
	success   lipgloss.Color
	warning   lipgloss.Color
	errorC    lipgloss.Color
	fg        lipgloss.Color
	subtle    lipgloss.Color
	highlight lipgloss.Color
	bars      []lipgloss.Color
}

var darkPalette = palette{
	primary:   lipgloss.Color("#6C63FF"),
	secondary: lipgloss.Color("#2EC4B6"),
	muted:     lipgloss.Color("#666666"),
	success:   lipgloss.Color("#2ECC71"),
	warning:   lipgloss.Color("#F39C12"),
	errorC:    lipgloss.Color("#E74C3C"),
	fg:        lipgloss.Color("#C0CAF5"),
	subtle:    lipgloss.Color("#414868"),
	highlight: lipgloss.Color("#7AA2F7"),
	bars: []lipgloss.Color{
		"#6C63FF", "#2EC4B6", "#FF6B6B", "#F39C12", "#2ECC71",
		"#E74C3C", "#9B59B6", "#3498DB", "#95A5A6",
	},
}

var lightPalette = palette{
	primary:   lipgloss.Color("#4B3FD9"),
	secondary: lipgloss.Color("#16877C"),
	muted:     lipgloss.Color("#8A8A8A"),
	success:   lipgloss.Color("#1E8E4E"),
	warning:   lipgloss.Color("#B86E00"),
	errorC:    lipgloss.Color("#C0392B"),
	fg:        lipgloss.Color("#1A1B26"),
	subtle:    lipgloss.Color("#C8CCDA"),
	highlight: lipgloss.Color("#2F5FD0"),
	bars: []lipgloss.Color{
		"#4B3FD9", "#16877C", "#D64545", "#B86E00", "#1E8E4E",
		"#C0392B", "#7D3C98", "#2471A3", "#707B7C",
	},
}

// Current palette; replaced by applyTheme.
var (
	colorPrimary lipgloss.Color
	barColors    []lipgloss.Color
	activeTheme  entity.Theme
)

// Styles
var (
	activeTabStyle    lipgloss.Style
	inactiveTabStyle  lipgloss.Style
	panelStyle        lipgloss.Style
	activePanelStyle  lipgloss.Style
	titleStyle        lipgloss.Style
	subtitleStyle     lipgloss.Style
	successStyle      lipgloss.Style
	warningStyle      lipgloss.Style
	errorStyle        lipgloss.Style
	mutedStyle        lipgloss.Style
	highlightStyle    lipgloss.Style
	headerStyle       lipgloss.Style
	footerStyle       lipgloss.Style
	selectedItemStyle lipgloss.Style
	normalItemStyle   lipgloss.Style
)

func init() {
	applyPalette(darkPalette)
	activeTheme = entity.ThemeDark
}

// paletteFor resolves a theme; system follows the terminal background.
func paletteFor(t entity.Theme) palette {
	switch t {
	case entity.ThemeLight:
		return lightPalette
	case entity.ThemeDark:
		return darkPalette
	}
	if lipgloss.HasDarkBackground() {
		return darkPalette
	}
	return lightPalette
}

func applyTheme(t entity.Theme) {
	if t == activeTheme {
		return
	}
	applyPalette(paletteFor(t))
	activeTheme = t
}

func applyPalette(p palette) {
	colorPrimary = p.primary
	barColors = p.bars

	activeTabStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.primary).
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(p.primary).
		Padding(0, 2)

	inactiveTabStyle = lipgloss.NewStyle().
		Foreground(p.muted).
		Padding(0, 2)

	panelStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.subtle).
		Padding(1, 2)

	activePanelStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.primary).
		Padding(1, 2)

	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(p.fg)
	subtitleStyle = lipgloss.NewStyle().Foreground(p.secondary)
	successStyle = lipgloss.NewStyle().Foreground(p.success)
	warningStyle = lipgloss.NewStyle().Foreground(p.warning)
	errorStyle = lipgloss.NewStyle().Foreground(p.errorC)
	mutedStyle = lipgloss.NewStyle().Foreground(p.muted)
	highlightStyle = lipgloss.NewStyle().Foreground(p.highlight)

	headerStyle = lipgloss.NewStyle().Padding(0, 1)
	footerStyle = lipgloss.NewStyle().Foreground(p.muted).Padding(0, 1)

	selectedItemStyle = lipgloss.NewStyle().Foreground(p.primary).Bold(true)
	normalItemStyle = lipgloss.NewStyle().Foreground(p.fg)
}

func barColor(i int) lipgloss.Color {
	return barColors[i%len(barColors)]
}
