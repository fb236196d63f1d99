package dial

import (
	"fmt"
	"math"
	"time"
)

// SoundActivated is played when sound is switched on.
const SoundActivated = "soundactivated"

// Hands are the clock hand angles in radians.
type Hands struct {
	Hour   float64
	Minute float64
	Second float64
}

// HandsAt returns the hand angles for t. The hour hand also drives the hour
// progress ring.
func HandsAt(t time.Time) Hands {
	h, m, s := t.Clock()
	return Hands{
		Hour:   (2 * math.Pi / 12) * (float64(h%12) + float64(m)/60),
		Minute: (2 * math.Pi / 60) * float64(m),
		Second: (2 * math.Pi / 60) * float64(s),
	}
}

// FaceText is the three lines drawn in the central disc.
type FaceText struct {
	Top    string
	Middle string
	Bottom string
}

// ClockText shows weekday, time and date.
func ClockText(t time.Time) FaceText {
	return FaceText{
		Top:    t.Weekday().String(),
		Middle: t.Format("15:04"),
		Bottom: t.Format("02.01.2006"),
	}
}

// SelectionText shows the start, length and end of a drag selection on a
// 24-hour clock.
func SelectionText(sel DragSelection) FaceText {
	return FaceText{
		Top:    FormatClock(sel.FromMinutes),
		Middle: FormatSpan(sel.DiffMinutes),
		Bottom: FormatClock(sel.UntilMinutes),
	}
}

// HourSound names the announcement for an hour of the day, e.g. "12am" or
// "3pm".
func HourSound(hour int) string {
	h := hour % 12
	if h == 0 {
		h = 12
	}
	period := "am"
	if hour%24 >= 12 {
		period = "pm"
	}
	return fmt.Sprintf("%d%s", h, period)
}

// Chime announces each new hour while sound is enabled. The hour is tracked
// on every tick, so enabling sound never replays a missed hour.
type Chime struct {
	enabled  bool
	lastHour int
}

// NewChime starts tracking from now.
func NewChime(now time.Time, enabled bool) Chime {
	return Chime{enabled: enabled, lastHour: now.Hour()}
}

func (c Chime) Enabled() bool { return c.enabled }

// SetEnabled switches sound on or off. Switching it on returns the
// activation sound.
func (c Chime) SetEnabled(on bool) (Chime, string) {
	was := c.enabled
	c.enabled = on
	if on && !was {
		return c, SoundActivated
	}
	return c, ""
}

// OnTick returns the announcement due at now, if any. At most one sound is
// returned per hour change.
func (c Chime) OnTick(now time.Time) (Chime, string) {
	hour := now.Hour()
	if hour == c.lastHour {
		return c, ""
	}
	c.lastHour = hour
	if !c.enabled {
		return c, ""
	}
	return c, HourSound(hour)
}
