package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/dialclock/internal/dial"
	"github.com/sadopc/dialclock/internal/store"
)

var filters = []store.Status{store.StatusAll, store.StatusActive, store.StatusCompleted}

type todosModel struct {
	store  *store.Store
	now    func() time.Time
	width  int
	height int

	intervals []store.Interval
	filter    int
	cursor    int
}

func newTodosModel(s *store.Store, now func() time.Time) todosModel {
	return todosModel{store: s, now: now}
}

func (t *todosModel) setSize(w, h int) {
	t.width = w
	t.height = h
}

type todosDataMsg struct {
	intervals []store.Interval
}

func (t todosModel) refresh() tea.Cmd {
	f := store.IntervalFilter{Status: filters[t.filter]}
	return func() tea.Msg {
		intervals, _ := t.store.ListIntervals(f)
		return todosDataMsg{intervals: intervals}
	}
}

func (t todosModel) selected() (store.Interval, bool) {
	if t.cursor < 0 || t.cursor >= len(t.intervals) {
		return store.Interval{}, false
	}
	return t.intervals[t.cursor], true
}

func (t todosModel) update(msg tea.Msg) (todosModel, tea.Cmd) {
	switch msg := msg.(type) {
	case todosDataMsg:
		t.intervals = msg.intervals
		if t.cursor >= len(t.intervals) {
			t.cursor = max(0, len(t.intervals)-1)
		}
		return t, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if t.cursor > 0 {
				t.cursor--
			}
		case key.Matches(msg, keys.Down):
			if t.cursor < len(t.intervals)-1 {
				t.cursor++
			}
		case key.Matches(msg, keys.Filter):
			t.filter = (t.filter + 1) % len(filters)
			t.cursor = 0
			return t, t.refresh()
		case key.Matches(msg, keys.New):
			now := t.now()
			p := defaultProposal(now, dial.HalfOf(now.Hour()*60))
			return t, func() tea.Msg { return proposalMsg{proposal: p} }
		case key.Matches(msg, keys.Edit):
			if iv, ok := t.selected(); ok {
				return t, func() tea.Msg { return editMsg{interval: iv} }
			}
		case key.Matches(msg, keys.Toggle):
			if iv, ok := t.selected(); ok {
				return t, t.do(func() error { return t.store.SetCompleted(iv.ID, !iv.Completed) })
			}
		case key.Matches(msg, keys.Delete):
			if iv, ok := t.selected(); ok {
				return t, t.do(func() error { return t.store.RemoveInterval(iv.ID) })
			}
		case key.Matches(msg, keys.ToggleAll):
			return t, t.do(t.store.ToggleAll)
		case key.Matches(msg, keys.Clear):
			return t, t.do(func() error {
				_, err := t.store.ClearCompleted()
				return err
			})
		}
	}
	return t, nil
}

// do runs a store mutation and reloads the list.
func (t todosModel) do(fn func() error) tea.Cmd {
	return func() tea.Msg {
		if err := fn(); err != nil {
			return statusMsg{text: err.Error(), isError: true}
		}
		intervals, _ := t.store.ListIntervals(store.IntervalFilter{Status: filters[t.filter]})
		return todosDataMsg{intervals: intervals}
	}
}

func (t todosModel) view() string {
	w := t.width - 4

	var tabs []string
	for i, f := range filters {
		name := strings.ToUpper(string(f[:1])) + string(f[1:])
		if i == t.filter {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}
	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("Todos"), "  ", lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...),
	)

	if len(t.intervals) == 0 {
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
			header,
			"",
			mutedStyle.Render("Nothing scheduled. Press n or drag on the clock to add a todo."),
		))
	}

	var rows []string
	rows = append(rows, header, "")
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %-3s %-5s %-5s %-8s %s", "", "From", "Until", "Length", "Title")))

	active := 0
	for i, iv := range t.intervals {
		if !iv.Completed {
			active++
		}
		fill := iv.Color
		if iv.Completed {
			fill = dial.CompletedColor
		}
		dot := lipgloss.NewStyle().Foreground(lipgloss.Color(fill)).Render("●")
		check := "[ ]"
		if iv.Completed {
			check = "[x]"
		}
		cursor := "  "
		style := normalItemStyle
		if iv.Completed {
			style = completedItemStyle
		}
		if i == t.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		line := fmt.Sprintf("%s %s %-5s %-5s %-8s %s",
			check, dot,
			dial.FormatClock(iv.Start), dial.FormatClock(iv.Start+iv.Duration),
			dial.FormatSpan(iv.Duration), iv.Title,
		)
		rows = append(rows, cursor+style.Render(line))
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %d left", active)))
	rows = append(rows, mutedStyle.Render("  n: new  e: edit  x: done  d: delete  a: toggle all  c: clear done  f: filter"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
