package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/dialclock/internal/dial"
	"github.com/sadopc/dialclock/internal/store"
)

// intervalForm holds the dialog fields. Pointers survive value copies of
// the model.
type intervalForm struct {
	title    *string
	color    *string
	hours    *string
	minutes  *string
	period   *string
	duration *string
}

func newIntervalForm() intervalForm {
	title, color, hours, minutes, period, duration := "", dial.Palette[1], "", "", "AM", ""
	return intervalForm{
		title:    &title,
		color:    &color,
		hours:    &hours,
		minutes:  &minutes,
		period:   &period,
		duration: &duration,
	}
}

func (f intervalForm) fill(title, color string, start, duration int) {
	*f.title = title
	*f.color = color
	*f.hours = strconv.Itoa((start / 60) % 12)
	*f.minutes = strconv.Itoa(start % 60)
	*f.period = dial.HalfOf(start).String()
	*f.duration = strconv.Itoa(duration)
}

// start returns period*720 + hours*60 + minutes.
func (f intervalForm) start() (int, error) {
	h, err := intRange(*f.hours, 0, 11)
	if err != nil {
		return 0, fmt.Errorf("hours: %w", err)
	}
	m, err := intRange(*f.minutes, 0, 59)
	if err != nil {
		return 0, fmt.Errorf("minutes: %w", err)
	}
	period := 0
	if *f.period == dial.PM.String() {
		period = 1
	}
	return period*dial.HalfDay + h*60 + m, nil
}

func intRange(s string, lo, hi int) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, errors.New("not a number")
	}
	if n < lo || n > hi {
		return 0, fmt.Errorf("must be between %d and %d", lo, hi)
	}
	return n, nil
}

func validator(lo, hi int) func(string) error {
	return func(s string) error {
		_, err := intRange(s, lo, hi)
		return err
	}
}

// dialogModel creates a new interval from a proposal, or edits an existing
// one.
type dialogModel struct {
	store  *store.Store
	width  int
	active bool
	form   *huh.Form
	fields intervalForm

	editingID int64
	completed bool
}

func newDialogModel(s *store.Store) dialogModel {
	return dialogModel{store: s, fields: newIntervalForm()}
}

func (d *dialogModel) setSize(w int) {
	d.width = w
}

// propose opens the dialog prefilled from a drag selection.
func (d dialogModel) propose(p dial.Proposal) (dialogModel, tea.Cmd) {
	d.fields.fill("", dial.Palette[1], p.Start(), p.DiffMinutes)
	d.editingID = 0
	return d.show()
}

func (d dialogModel) edit(iv store.Interval) (dialogModel, tea.Cmd) {
	d.fields.fill(iv.Title, iv.Color, iv.Start, iv.Duration)
	d.editingID = iv.ID
	d.completed = iv.Completed
	return d.show()
}

func (d dialogModel) show() (dialogModel, tea.Cmd) {
	colorOptions := make([]huh.Option[string], len(dial.Palette))
	for i, c := range dial.Palette {
		dot := lipgloss.NewStyle().Foreground(lipgloss.Color(c)).Render("●")
		colorOptions[i] = huh.NewOption(fmt.Sprintf("%s %s", dot, c), c)
	}

	d.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Title").Value(d.fields.title).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("title is required")
					}
					return nil
				}),
			huh.NewSelect[string]().Title("Color").Options(colorOptions...).Value(d.fields.color),
		),
		huh.NewGroup(
			huh.NewInput().Title("Hours (0-11)").Value(d.fields.hours).Validate(validator(0, 11)),
			huh.NewInput().Title("Minutes (0-59)").Value(d.fields.minutes).Validate(validator(0, 59)),
			huh.NewSelect[string]().Title("Period").
				Options(
					huh.NewOption("AM", dial.AM.String()),
					huh.NewOption("PM", dial.PM.String()),
				).Value(d.fields.period),
			huh.NewInput().Title("Duration (min)").Value(d.fields.duration).Validate(validator(1, dial.Day)),
		),
	).WithShowHelp(true).WithShowErrors(true)

	d.active = true
	return d, d.form.Init()
}

func (d dialogModel) update(msg tea.Msg) (dialogModel, tea.Cmd) {
	if !d.active || d.form == nil {
		return d, nil
	}
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			d.active = false
			d.form = nil
			return d, nil
		}
	}

	form, cmd := d.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		d.form = f
	}

	if d.form.State == huh.StateCompleted {
		d.active = false
		return d, d.submit()
	}
	return d, cmd
}

// submit stores the interval. Store errors such as an overlap come back as
// a status message.
func (d dialogModel) submit() tea.Cmd {
	fields, st, id, completed := d.fields, d.store, d.editingID, d.completed
	return func() tea.Msg {
		start, err := fields.start()
		if err != nil {
			return statusMsg{text: err.Error(), isError: true}
		}
		duration, err := intRange(*fields.duration, 1, dial.Day)
		if err != nil {
			return statusMsg{text: "duration: " + err.Error(), isError: true}
		}
		title := strings.TrimSpace(*fields.title)

		if id != 0 {
			err = st.UpdateInterval(store.Interval{
				ID: id, Title: title, Start: start, Duration: duration, Color: *fields.color, Completed: completed,
			})
			if err != nil {
				return statusMsg{text: fmt.Sprintf("Could not update: %v", err), isError: true}
			}
			return statusMsg{text: fmt.Sprintf("Updated %q", title)}
		}

		if _, err := st.AddInterval(title, start, duration, *fields.color); err != nil {
			return statusMsg{text: fmt.Sprintf("Could not add: %v", err), isError: true}
		}
		return statusMsg{text: fmt.Sprintf("Added %q at %s", title, dial.FormatClock(start))}
	}
}

func (d dialogModel) view() string {
	if !d.active || d.form == nil {
		return ""
	}
	title := titleStyle.Render("New Todo")
	if d.editingID != 0 {
		title = titleStyle.Render("Edit Todo")
	}
	return activePanelStyle.Width(max(d.width-4, 20)).Render(
		lipgloss.JoinVertical(lipgloss.Left, title, "", d.form.View()),
	)
}
