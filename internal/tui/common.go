package tui

import (
	"time"

	"github.com/sadopc/dialclock/internal/dial"
	"github.com/sadopc/dialclock/internal/store"
)

// viewState represents the currently active view.
type viewState int

const (
	viewClock viewState = iota
	viewTodos
	viewSummary
	viewSettings
)

var viewNames = []string{"Clock", "Todos", "Summary", "Settings"}

// --- Messages ---

type statusMsg struct {
	text    string
	isError bool
}

type tickMsg time.Time

// frameMsg drives a running focus animation.
type frameMsg time.Time

// storeChangedMsg is sent when the store reports a change.
type storeChangedMsg struct{}

type intervalsMsg struct {
	intervals []store.Interval
	err       error
}

// proposalMsg asks the dialog to create an interval.
type proposalMsg struct {
	proposal dial.Proposal
}

type editMsg struct {
	interval store.Interval
}

// settingsChangedMsg reports saved clock settings. fromClock marks saves the
// clock view already applied when the key was pressed.
type settingsChangedMsg struct {
	settings  store.ClockSettings
	fromClock bool
}

type exportDoneMsg struct {
	path string
}

// --- Helpers ---

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
