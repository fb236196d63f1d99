package store

import (
	"time"

	"github.com/sadopc/dialclock/internal/dial"
)

// Interval is a stored todo occupying part of the day.
type Interval struct {
	ID        int64
	Title     string
	Start     int // minute of day, [0,1440)
	Duration  int // minutes
	Color     string
	Completed bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Dial returns the layout view of the interval.
func (iv Interval) Dial() dial.Interval {
	return dial.Interval{
		Title:     iv.Title,
		Start:     iv.Start,
		Duration:  iv.Duration,
		Color:     iv.Color,
		Completed: iv.Completed,
	}
}

// DialIntervals converts a sorted listing for the partitioner.
func DialIntervals(ivs []Interval) []dial.Interval {
	out := make([]dial.Interval, len(ivs))
	for i, iv := range ivs {
		out[i] = iv.Dial()
	}
	return out
}

type Setting struct {
	Key   string
	Value string
}

// Status selects intervals by completion.
type Status string

const (
	StatusAll       Status = "all"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
)

// ParseStatus accepts "", "all", "active" and "completed".
func ParseStatus(s string) (Status, bool) {
	switch Status(s) {
	case "", StatusAll:
		return StatusAll, true
	case StatusActive, StatusCompleted:
		return Status(s), true
	}
	return "", false
}

// IntervalFilter is used to filter intervals in queries.
type IntervalFilter struct {
	Status Status
	Limit  int
}

// ClockSettings are the persisted user toggles of the clock view.
type ClockSettings struct {
	Descriptions bool
	Sound        bool
	Focus        string // "am", "pm" or "" when never chosen
}

// HourLoad is the scheduled time falling into one hour of the day.
type HourLoad struct {
	Hour      int
	Minutes   int
	Completed int
}
