package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/sadopc/dialclock/internal/audio"
	"github.com/sadopc/dialclock/internal/dial"
	"github.com/sadopc/dialclock/internal/store"
)

const frameInterval = time.Second / 30

// clockModel is the dial view: the two rings, the drag selector and the
// focus animation.
type clockModel struct {
	store  *store.Store
	logger *zap.Logger
	player audio.Player
	width  int
	height int

	display  dial.Display
	selector dial.Selector
	chime    dial.Chime
	settings store.ClockSettings
	clock    func() time.Time
	now      time.Time

	intervals []store.Interval
	rings     dial.Rings
	dropped   []error
	lastDrop  string
}

func newClockModel(s *store.Store, opts Options, settings store.ClockSettings, now time.Time) clockModel {
	rings, _ := dial.Partition(nil)
	return clockModel{
		store:    s,
		logger:   opts.Logger,
		player:   opts.Player,
		display:  dial.NewDisplay(dial.NewLayout(0), initialFocus(opts.Focus, settings.Focus, now), opts.Transition),
		chime:    dial.NewChime(now, settings.Sound),
		settings: settings,
		clock:    opts.Now,
		now:      now,
		rings:    rings,
	}
}

// initialFocus resolves the configured focus. "auto" prefers the last focus
// the user picked and falls back to the current half of the day.
func initialFocus(configured, stored string, now time.Time) dial.DayHalf {
	if h, ok := parseHalf(configured); ok {
		return h
	}
	if h, ok := parseHalf(stored); ok {
		return h
	}
	return dial.HalfOf(now.Hour() * 60)
}

func parseHalf(s string) (dial.DayHalf, bool) {
	switch s {
	case "am":
		return dial.AM, true
	case "pm":
		return dial.PM, true
	}
	return dial.AM, false
}

func (c *clockModel) setSize(w, h int) {
	c.width = w
	c.height = h
	c.display = c.display.Resize(dial.NewLayout(deviceWidth(w, c.dialRows())))
}

// dialRows leaves one line for the status row under the dial.
func (c clockModel) dialRows() int {
	return max(c.height-1, 0)
}

func (c clockModel) loadData() tea.Cmd {
	return func() tea.Msg {
		intervals, err := c.store.ListIntervals(store.IntervalFilter{})
		return intervalsMsg{intervals: intervals, err: err}
	}
}

func (c clockModel) update(msg tea.Msg) (clockModel, tea.Cmd) {
	switch msg := msg.(type) {
	case intervalsMsg:
		if msg.err != nil {
			c.logger.Error("load intervals", zap.Error(msg.err))
			return c, nil
		}
		c.setIntervals(msg.intervals)
		return c, nil

	case tickMsg:
		c.now = time.Time(msg)
		var sound string
		c.chime, sound = c.chime.OnTick(c.now)
		return c, tea.Batch(c.loadData(), c.play(sound))

	case frameMsg:
		c.now = time.Time(msg)
		if c.display.Animating(c.now) {
			return c, frameCmd()
		}
		return c, nil

	case settingsChangedMsg:
		return c.applySettings(msg)

	case tea.MouseMsg:
		return c.updateMouse(msg)

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Focus):
			return c.toggleFocus()
		case key.Matches(msg, keys.Descriptions):
			s := c.settings
			s.Descriptions = !s.Descriptions
			return c.saveLocal(s)
		case key.Matches(msg, keys.Sound):
			s := c.settings
			s.Sound = !s.Sound
			return c.saveLocal(s)
		case key.Matches(msg, keys.New):
			p := defaultProposal(c.now, c.display.Focus())
			return c, func() tea.Msg { return proposalMsg{proposal: p} }
		case key.Matches(msg, keys.Back):
			c.selector = dial.Selector{}
			return c, nil
		}
	}
	return c, nil
}

// setIntervals re-partitions the day. Intervals that cannot be laid out are
// left off the dial and logged once.
func (c *clockModel) setIntervals(intervals []store.Interval) {
	c.intervals = intervals
	c.rings, c.dropped = dial.PartitionLenient(store.DialIntervals(intervals))

	var msgs []string
	for _, err := range c.dropped {
		msgs = append(msgs, err.Error())
	}
	sig := strings.Join(msgs, "\n")
	if sig != c.lastDrop {
		for _, err := range c.dropped {
			c.logger.Warn("interval left off the dial", zap.Error(err))
		}
		c.lastDrop = sig
	}
}

func (c clockModel) toggleFocus() (clockModel, tea.Cmd) {
	c.now = c.clock()
	c.display = c.display.Toggle(c.now)
	s := c.settings
	s.Focus = strings.ToLower(c.display.Focus().String())
	c, cmd := c.saveLocal(s)
	return c, tea.Batch(frameCmd(), cmd)
}

// saveLocal applies s right away and persists it in the background, so a
// second key press before the save returns builds on the new value.
func (c clockModel) saveLocal(s store.ClockSettings) (clockModel, tea.Cmd) {
	c, play := c.setSettings(s)
	return c, tea.Batch(play, c.save(s))
}

func (c clockModel) save(s store.ClockSettings) tea.Cmd {
	st := c.store
	return func() tea.Msg {
		if err := st.SaveClockSettings(s); err != nil {
			return statusMsg{text: fmt.Sprintf("Settings error: %v", err), isError: true}
		}
		return settingsChangedMsg{settings: s, fromClock: true}
	}
}

func (c clockModel) setSettings(s store.ClockSettings) (clockModel, tea.Cmd) {
	c.settings = s
	var sound string
	c.chime, sound = c.chime.SetEnabled(s.Sound)
	return c, c.play(sound)
}

// applySettings takes settings saved elsewhere, such as the settings form,
// and moves the dial when the focused ring changed.
func (c clockModel) applySettings(msg settingsChangedMsg) (clockModel, tea.Cmd) {
	if msg.fromClock {
		return c, nil
	}
	c, cmd := c.setSettings(msg.settings)
	if h, ok := parseHalf(msg.settings.Focus); ok && h != c.display.Focus() {
		c.now = c.clock()
		c.display = c.display.SetFocus(h, c.now)
		cmd = tea.Batch(cmd, frameCmd())
	}
	return c, cmd
}

func (c clockModel) play(sound string) tea.Cmd {
	if sound == "" || c.player == nil {
		return nil
	}
	p, logger := c.player, c.logger
	return func() tea.Msg {
		if err := p.Play(sound); err != nil {
			logger.Warn("play sound", zap.String("sound", sound), zap.Error(err))
		}
		return nil
	}
}

// pointer converts a mouse position inside the view into a pointer event.
func (c clockModel) pointer(msg tea.MouseMsg, kind dial.PointerKind) dial.PointerEvent {
	cv := newCanvas(c.width, c.dialRows(), c.display.Layout())
	x, y := cv.toDial(msg.X, msg.Y)
	return dial.PointerEvent{Kind: kind, DX: x, DY: y}
}

func (c clockModel) updateMouse(msg tea.MouseMsg) (clockModel, tea.Cmd) {
	var ev dial.PointerEvent
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return c, nil
		}
		ev = c.pointer(msg, dial.PointerDown)
		if r := math.Hypot(ev.DX, ev.DY); r > c.display.Layout().HourLabelRadius {
			return c, nil
		}
	case tea.MouseActionMotion:
		ev = c.pointer(msg, dial.PointerMove)
	case tea.MouseActionRelease:
		ev = c.pointer(msg, dial.PointerUp)
	default:
		return c, nil
	}

	var proposal *dial.Proposal
	c.selector, proposal = c.selector.Step(ev, c.display.Focus())
	if proposal == nil {
		return c, nil
	}
	p := *proposal
	c.logger.Debug("interval proposed", zap.Stringer("proposal", p))
	return c, func() tea.Msg { return proposalMsg{proposal: p} }
}

// defaultProposal suggests an hour starting at the next quarter hour.
func defaultProposal(now time.Time, focus dial.DayHalf) dial.Proposal {
	m := now.Hour()*60 + now.Minute()
	m = ((m + 14) / 15 * 15) % dial.Day
	if dial.HalfOf(m) != focus {
		m = int(focus) * dial.HalfDay
	}
	return dial.Proposal{
		FromHours:   (m / 60) % 12,
		FromMinutes: m % 60,
		FromPeriod:  dial.HalfOf(m),
		DiffMinutes: 60,
	}
}

func frameCmd() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

func (c clockModel) scene() dialScene {
	s := dialScene{
		layout:   c.display.Layout(),
		geometry: c.display.GeometryAt(c.now),
		rings:    c.rings,
		focus:    c.display.Focus(),
		labels:   dial.Labels(c.display.Focus(), c.settings.Descriptions),
		hands:    dial.HandsAt(c.now),
		face:     dial.ClockText(c.now),
	}
	if c.selector.Dragging() {
		sel := c.selector.Selection
		s.selection = &sel
		s.face = dial.SelectionText(sel)
	}
	return s
}

func (c clockModel) view() string {
	if c.width == 0 || c.height < 2 {
		return ""
	}
	dialView := renderDial(c.width, c.dialRows(), c.scene())
	return lipgloss.JoinVertical(lipgloss.Left, dialView, c.statusLine())
}

func (c clockModel) statusLine() string {
	parts := []string{
		highlightStyle.Render(c.display.Focus().String()),
		mutedStyle.Render("labels " + onOff(c.settings.Descriptions)),
		mutedStyle.Render("sound " + onOff(c.settings.Sound)),
		mutedStyle.Render(fmt.Sprintf("%d todos", len(c.intervals))),
	}
	if n := len(c.dropped); n > 0 {
		parts = append(parts, errorStyle.Render(fmt.Sprintf("%d not shown", n)))
	}
	return " " + strings.Join(parts, mutedStyle.Render(" · "))
}
