package tui

import (
	"fmt"
	"strings"

	"github.com/NimbleMarkets/ntcharts/barchart"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/spectalocks/internal/derive"
)

type statisticsModel struct {
	width  int
	height int

	item   derive.StatisticItem
	loaded bool
	chart  barchart.Model
}

func newStatisticsModel() statisticsModel {
	return statisticsModel{chart: barchart.New(60, 12)}
}

func (s *statisticsModel) setSize(w, h int) {
	s.width = w
	s.height = h
	if s.loaded {
		s.buildChart()
	}
}

func (s statisticsModel) update(msg tea.Msg) (statisticsModel, tea.Cmd) {
	if m, ok := msg.(statisticsItemMsg); ok {
		s.item = derive.StatisticItem(m)
		s.loaded = true
		s.buildChart()
	}
	return s, nil
}

func (s *statisticsModel) buildChart() {
	chartWidth := max(20, s.width-8)
	chartHeight := 12
	if s.height > 30 {
		chartHeight = 16
	}

	s.chart = barchart.New(chartWidth, chartHeight)

	var bars []barchart.BarData
	for i, g := range s.item.GraphItems {
		style := lipgloss.NewStyle().Foreground(barColor(i))
		bars = append(bars, barchart.BarData{
			Label: g.FooterTitle,
			Values: []barchart.BarValue{{
				Name:  string(g.Category),
				Value: g.Percentage * 100,
				Style: style,
			}},
		})
	}

	s.chart.PushAll(bars)
	s.chart.Draw()
}

func (s statisticsModel) view() string {
	w := s.width - 4
	if !s.loaded {
		return panelStyle.Width(w).Render(mutedStyle.Render("Loading..."))
	}

	header := titleStyle.Render(s.item.Title)
	hint := lipgloss.JoinVertical(lipgloss.Left,
		subtitleStyle.Render(s.item.HintTitle),
		mutedStyle.Render(s.item.Hint),
	)

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header, "", s.chart.View(), "", s.renderTable(w), "", hint,
		),
	)
}

func (s statisticsModel) renderTable(w int) string {
	var rows []string
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %-3s %-16s %8s %8s %8s", "", "Category", "Bought", "Skipped", "Share")))
	rows = append(rows, mutedStyle.Render("  "+strings.Repeat("─", min(w-6, 48))))

	for i, g := range s.item.GraphItems {
		dot := lipgloss.NewStyle().Foreground(barColor(i)).Render("●")
		rows = append(rows, fmt.Sprintf("  %s %-2s %-16s %8d %8d %8s",
			dot, g.FooterTitle, string(g.Category), g.Bought, g.Skipped, g.HeaderTitle,
		))
	}
	return strings.Join(rows, "\n")
}
