package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/dialclock/internal/store"
)

type settingsModel struct {
	store  *store.Store
	width  int
	height int

	settings   store.ClockSettings
	formActive bool
	form       *huh.Form

	// Form values as pointers (survive value copies)
	descriptions *bool
	sound        *bool
	focus        *string
}

func newSettingsModel(s *store.Store, current store.ClockSettings) settingsModel {
	d, snd, f := false, false, ""
	return settingsModel{
		store:        s,
		settings:     current,
		descriptions: &d,
		sound:        &snd,
		focus:        &f,
	}
}

func (s *settingsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

type settingsDataMsg struct {
	settings store.ClockSettings
}

func (s settingsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		cs, err := s.store.ClockSettings()
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Settings error: %v", err), isError: true}
		}
		return settingsDataMsg{settings: cs}
	}
}

func (s settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	if s.formActive && s.form != nil {
		return s.updateForm(msg)
	}

	switch msg := msg.(type) {
	case settingsDataMsg:
		s.settings = msg.settings
		return s, nil

	case settingsChangedMsg:
		s.settings = msg.settings
		return s, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Enter), key.Matches(msg, keys.Edit):
			return s.showForm()
		}
	}
	return s, nil
}

func (s settingsModel) showForm() (settingsModel, tea.Cmd) {
	*s.descriptions = s.settings.Descriptions
	*s.sound = s.settings.Sound
	*s.focus = s.settings.Focus
	if *s.focus == "" {
		*s.focus = "am"
	}

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().Title("Show descriptions").
				Affirmative("On").Negative("Off").
				Value(s.descriptions),
			huh.NewConfirm().Title("Hourly sound").
				Affirmative("On").Negative("Off").
				Value(s.sound),
			huh.NewSelect[string]().Title("Focused ring").
				Options(
					huh.NewOption("AM", "am"),
					huh.NewOption("PM", "pm"),
				).Value(s.focus),
		).Title("Clock"),
	).WithShowHelp(true).WithShowErrors(true)

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
		return s, s.save()
	}

	return s, cmd
}

func (s settingsModel) save() tea.Cmd {
	cs := store.ClockSettings{
		Descriptions: *s.descriptions,
		Sound:        *s.sound,
		Focus:        *s.focus,
	}
	st := s.store
	return func() tea.Msg {
		if err := st.SaveClockSettings(cs); err != nil {
			return statusMsg{text: fmt.Sprintf("Settings error: %v", err), isError: true}
		}
		return settingsChangedMsg{settings: cs}
	}
}

func (s settingsModel) view() string {
	w := s.width - 4
	title := titleStyle.Render("Settings")

	if s.formActive && s.form != nil {
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", s.form.View()),
		)
	}

	focus := s.settings.Focus
	if focus == "" {
		focus = "auto"
	}
	rows := []string{title, ""}
	for _, kv := range [][2]string{
		{"Descriptions", onOff(s.settings.Descriptions)},
		{"Hourly sound", onOff(s.settings.Sound)},
		{"Focused ring", focus},
	} {
		label := lipgloss.NewStyle().Width(24).Render(kv[0])
		rows = append(rows, fmt.Sprintf("  %s %s", label, highlightStyle.Render(kv[1])))
	}
	rows = append(rows, "", mutedStyle.Render("Press enter to edit settings"))

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
