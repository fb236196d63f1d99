package tui

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mitchellh/go-homedir"
	"go.uber.org/zap"

	"github.com/sadopc/dialclock/internal/audio"
	"github.com/sadopc/dialclock/internal/dial"
	"github.com/sadopc/dialclock/internal/export"
	"github.com/sadopc/dialclock/internal/store"
)

// Options configures the TUI. Zero values fall back to defaults.
type Options struct {
	Tick       time.Duration
	Transition time.Duration
	Focus      string // auto, am or pm
	Logger     *zap.Logger
	Player     audio.Player
	Now        func() time.Time
	ExportDir  string
}

func (o Options) withDefaults() Options {
	if o.Tick <= 0 {
		o.Tick = 500 * time.Millisecond
	}
	if o.Transition <= 0 {
		o.Transition = time.Second
	}
	if o.Focus == "" {
		o.Focus = "auto"
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	if o.Player == nil {
		o.Player = audio.Mute{}
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

var exportFormats = []string{"CSV", "JSON", "Rings (JSON)"}

// App is the root Bubble Tea model.
type App struct {
	store  *store.Store
	opts   Options
	width  int
	height int

	activeView    viewState
	showHelp      bool
	exportPicking bool
	exportCursor  int

	clock    clockModel
	todos    todosModel
	summary  summaryModel
	settings settingsModel
	dialog   dialogModel

	changes     chan struct{}
	unsubscribe func()

	help          help.Model
	status        string
	statusIsError bool
}

func NewApp(s *store.Store, opts Options) App {
	opts = opts.withDefaults()
	h := help.New()
	h.ShowAll = false

	cs, err := s.ClockSettings()
	if err != nil {
		opts.Logger.Error("load clock settings", zap.Error(err))
		cs = store.ClockSettings{Descriptions: true}
	}

	changes := make(chan struct{}, 1)
	unsubscribe := s.Subscribe(func() {
		select {
		case changes <- struct{}{}:
		default:
		}
	})

	return App{
		store:       s,
		opts:        opts,
		activeView:  viewClock,
		clock:       newClockModel(s, opts, cs, opts.Now()),
		todos:       newTodosModel(s, opts.Now),
		summary:     newSummaryModel(s),
		settings:    newSettingsModel(s, cs),
		dialog:      newDialogModel(s),
		changes:     changes,
		unsubscribe: unsubscribe,
		help:        h,
	}
}

// Close stops listening for store changes.
func (a App) Close() {
	if a.unsubscribe != nil {
		a.unsubscribe()
	}
}

func (a App) Init() tea.Cmd {
	return tea.Batch(
		a.clock.loadData(),
		a.todos.refresh(),
		tickCmd(a.opts.Tick),
		waitForChange(a.changes),
	)
}

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// waitForChange blocks until the store reports a write.
func waitForChange(ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		<-ch
		return storeChangedMsg{}
	}
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		contentHeight := a.contentHeight()
		a.clock.setSize(a.width, contentHeight)
		a.todos.setSize(a.width, contentHeight)
		a.summary.setSize(a.width, contentHeight)
		a.settings.setSize(a.width, contentHeight)
		a.dialog.setSize(a.width)
		return a, nil

	case tea.KeyMsg:
		if a.exportPicking {
			return a.updateExportPicker(msg)
		}

		// The dialog and the settings form capture every key.
		if a.dialog.active {
			var cmd tea.Cmd
			a.dialog, cmd = a.dialog.update(msg)
			return a, cmd
		}
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
			a.activeView = viewClock
			return a, a.clock.loadData()
		case key.Matches(msg, keys.Tab2):
			a.activeView = viewTodos
			return a, a.todos.refresh()
		case key.Matches(msg, keys.Tab3):
			a.activeView = viewSummary
			return a, a.summary.refresh()
		case key.Matches(msg, keys.Tab4):
			a.activeView = viewSettings
			return a, a.settings.refresh()
		case key.Matches(msg, keys.Tab):
			a.activeView = (a.activeView + 1) % viewState(len(viewNames))
			return a, a.refreshCurrentView()
		}

	case tea.MouseMsg:
		if a.activeView != viewClock || a.dialog.active || a.exportPicking {
			return a, nil
		}
		msg.Y -= lipgloss.Height(a.renderHeader())
		var cmd tea.Cmd
		a.clock, cmd = a.clock.update(msg)
		return a, cmd

	case tickMsg:
		cmds = append(cmds, tickCmd(a.opts.Tick))
		var cmd tea.Cmd
		a.clock, cmd = a.clock.update(msg)
		cmds = append(cmds, cmd)
		return a, tea.Batch(cmds...)

	case frameMsg, intervalsMsg:
		var cmd tea.Cmd
		a.clock, cmd = a.clock.update(msg)
		return a, cmd

	case todosDataMsg:
		var cmd tea.Cmd
		a.todos, cmd = a.todos.update(msg)
		return a, cmd

	case summaryDataMsg:
		var cmd tea.Cmd
		a.summary, cmd = a.summary.update(msg)
		return a, cmd

	case settingsDataMsg:
		var cmd tea.Cmd
		a.settings, cmd = a.settings.update(msg)
		return a, cmd

	case storeChangedMsg:
		return a, tea.Batch(
			waitForChange(a.changes),
			a.clock.loadData(),
			a.todos.refresh(),
			a.summary.refresh(),
		)

	case settingsChangedMsg:
		var cmd tea.Cmd
		a.clock, cmd = a.clock.update(msg)
		cmds = append(cmds, cmd)
		a.settings, cmd = a.settings.update(msg)
		cmds = append(cmds, cmd)
		return a, tea.Batch(cmds...)

	case proposalMsg:
		var cmd tea.Cmd
		a.dialog, cmd = a.dialog.propose(msg.proposal)
		return a, cmd

	case editMsg:
		var cmd tea.Cmd
		a.dialog, cmd = a.dialog.edit(msg.interval)
		return a, cmd

	case statusMsg:
		a.status = msg.text
		a.statusIsError = msg.isError
		if msg.isError {
			a.opts.Logger.Warn(msg.text)
		}
		return a, nil

	case exportDoneMsg:
		a.status = "Exported to " + msg.path
		a.statusIsError = false
		a.exportPicking = false
		return a, nil
	}

	if a.dialog.active {
		var cmd tea.Cmd
		a.dialog, cmd = a.dialog.update(msg)
		return a, cmd
	}
	return a.updateActiveView(msg)
}

func (a App) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.activeView {
	case viewClock:
		a.clock, cmd = a.clock.update(msg)
	case viewTodos:
		a.todos, cmd = a.todos.update(msg)
	case viewSummary:
		a.summary, cmd = a.summary.update(msg)
	case viewSettings:
		a.settings, cmd = a.settings.update(msg)
	}
	return a, cmd
}

func (a App) isFormActive() bool {
	return a.activeView == viewSettings && a.settings.formActive
}

func (a App) refreshCurrentView() tea.Cmd {
	switch a.activeView {
	case viewClock:
		return a.clock.loadData()
	case viewTodos:
		return a.todos.refresh()
	case viewSummary:
		return a.summary.refresh()
	case viewSettings:
		return a.settings.refresh()
	}
	return nil
}

// contentHeight is the height left between header and footer.
func (a App) contentHeight() int {
	h := a.height - lipgloss.Height(a.renderHeader()) - lipgloss.Height(a.renderFooter())
	if h < 1 {
		h = 1
	}
	return h
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	header := a.renderHeader()
	footer := a.renderFooter()

	var content string
	switch a.activeView {
	case viewClock:
		content = a.clock.view()
	case viewTodos:
		content = a.todos.view()
	case viewSummary:
		content = a.summary.view()
	case viewSettings:
		content = a.settings.view()
	}

	contentHeight := a.height - lipgloss.Height(header) - lipgloss.Height(footer)
	if contentHeight < 1 {
		contentHeight = 1
	}

	switch {
	case a.exportPicking:
		content = a.renderExportPicker()
	case a.dialog.active:
		content = a.dialog.view()
	}

	content = lipgloss.NewStyle().
		Width(a.width).
		Height(contentHeight).
		MaxHeight(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (a App) renderHeader() string {
	var tabs []string
	for i, name := range viewNames {
		if viewState(i) == a.activeView {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}

	tabRow := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	title := lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Render("dialclock")
	gap := a.width - lipgloss.Width(title) - lipgloss.Width(tabRow) - 4
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return headerStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, title, spacer, tabRow),
	)
}

func (a App) renderFooter() string {
	helpView := a.help.View(keys)

	status := ""
	if a.status != "" {
		style := mutedStyle
		if a.statusIsError {
			style = errorStyle
		}
		status = style.Render(" " + a.status)
	}

	left := footerStyle.Render(helpView)
	gap := a.width - lipgloss.Width(left) - lipgloss.Width(status) - 2
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, status)
}

func (a App) renderExportPicker() string {
	var rows []string
	rows = append(rows, titleStyle.Render("Export Format"), "")
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
	st, dir, now := a.store, a.opts.ExportDir, a.opts.Now()
	return func() tea.Msg {
		intervals, err := st.ListIntervals(store.IntervalFilter{})
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Export error: %v", err), isError: true}
		}

		if dir == "" {
			if dir, err = homedir.Dir(); err != nil {
				return statusMsg{text: fmt.Sprintf("Export error: %v", err), isError: true}
			}
		}
		base := filepath.Join(dir, "dialclock-export-"+now.Format("2006-01-02"))

		var path string
		switch format {
		case 0:
			path = base + ".csv"
			err = export.ToCSV(intervals, path)
		case 1:
			path = base + ".json"
			err = export.ToJSON(intervals, path)
		default:
			path = base + "-rings.json"
			rings, dropped := dial.PartitionLenient(store.DialIntervals(intervals))
			err = export.RingsToJSON(rings, dropped, path)
		}
		if err != nil {
			return statusMsg{text: fmt.Sprintf("%s error: %v", exportFormats[format], err), isError: true}
		}
		return exportDoneMsg{path: path}
	}
}
