package tui

import (
	"fmt"
	"strings"

	"github.com/NimbleMarkets/ntcharts/barchart"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/dialclock/internal/dial"
	"github.com/sadopc/dialclock/internal/store"
)

// summaryModel charts how many scheduled minutes fall into each hour.
type summaryModel struct {
	store  *store.Store
	width  int
	height int

	load  []store.HourLoad
	chart barchart.Model
}

func newSummaryModel(s *store.Store) summaryModel {
	return summaryModel{
		store: s,
		chart: barchart.New(60, 12),
	}
}

func (m *summaryModel) setSize(w, h int) {
	m.width = w
	m.height = h
	if m.load != nil {
		m.buildChart()
	}
}

type summaryDataMsg struct {
	load []store.HourLoad
	err  error
}

func (m summaryModel) refresh() tea.Cmd {
	return func() tea.Msg {
		load, err := m.store.HourlyLoad()
		return summaryDataMsg{load: load, err: err}
	}
}

func (m summaryModel) update(msg tea.Msg) (summaryModel, tea.Cmd) {
	switch msg := msg.(type) {
	case summaryDataMsg:
		if msg.err != nil {
			return m, func() tea.Msg {
				return statusMsg{text: fmt.Sprintf("Summary error: %v", msg.err), isError: true}
			}
		}
		m.load = msg.load
		m.buildChart()
	}
	return m, nil
}

func (m *summaryModel) buildChart() {
	chartWidth := m.width - 8
	if chartWidth < 24 {
		chartWidth = 24
	}
	chartHeight := 12
	if m.height > 30 {
		chartHeight = 16
	}

	m.chart = barchart.New(chartWidth, chartHeight)

	activeStyle := lipgloss.NewStyle().Foreground(colorSecondary)
	doneStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(dial.CompletedColor))

	bars := make([]barchart.BarData, 0, len(m.load))
	for _, h := range m.load {
		bars = append(bars, barchart.BarData{
			Label: fmt.Sprintf("%d", h.Hour),
			Values: []barchart.BarValue{
				{Name: "Open", Value: float64(h.Minutes - h.Completed), Style: activeStyle},
				{Name: "Done", Value: float64(h.Completed), Style: doneStyle},
			},
		})
	}

	m.chart.PushAll(bars)
	m.chart.Draw()
}

// totals returns scheduled and completed minutes for the AM and PM halves.
func (m summaryModel) totals() (am, pm, done int) {
	for _, h := range m.load {
		if h.Hour < 12 {
			am += h.Minutes
		} else {
			pm += h.Minutes
		}
		done += h.Completed
	}
	return am, pm, done
}

func (m summaryModel) view() string {
	w := m.width - 4
	header := titleStyle.Render("Summary")

	am, pm, done := m.totals()
	if am+pm == 0 {
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
			header, "", mutedStyle.Render("Nothing scheduled yet"),
		))
	}

	legend := "  " + strings.Join([]string{
		successStyle.Render("●") + " open",
		lipgloss.NewStyle().Foreground(lipgloss.Color(dial.CompletedColor)).Render("●") + " done",
	}, "  ")

	rows := []string{
		fmt.Sprintf("  %-10s %s", "AM", highlightStyle.Render(dial.FormatSpan(am))),
		fmt.Sprintf("  %-10s %s", "PM", highlightStyle.Render(dial.FormatSpan(pm))),
		fmt.Sprintf("  %-10s %s", "Done", highlightStyle.Render(dial.FormatSpan(done))),
		fmt.Sprintf("  %-10s %s", "Free", highlightStyle.Render(dial.FormatSpan(max(dial.Day-am-pm, 0)))),
	}

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header, "", m.chart.View(), "", legend, "", strings.Join(rows, "\n"),
		),
	)
}
