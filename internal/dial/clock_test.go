package dial

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestHandsAt(t *testing.T) {
	h := HandsAt(time.Date(2024, 1, 15, 15, 30, 45, 0, time.UTC))
	assert.InDelta(t, (2*math.Pi/12)*3.5, h.Hour, 1e-12)
	assert.InDelta(t, math.Pi, h.Minute, 1e-12)
	assert.InDelta(t, (2*math.Pi/60)*45, h.Second, 1e-12)
}

func TestClockText(t *testing.T) {
	got := ClockText(time.Date(2024, 1, 15, 9, 5, 0, 0, time.UTC))
	assert.Equal(t, FaceText{Top: "Monday", Middle: "09:05", Bottom: "15.01.2024"}, got)
}

func TestHourSound(t *testing.T) {
	assert.Equal(t, "12am", HourSound(0))
	assert.Equal(t, "1am", HourSound(1))
	assert.Equal(t, "12pm", HourSound(12))
	assert.Equal(t, "11pm", HourSound(23))
}

func TestChimeOncePerHour(t *testing.T) {
	day := func(h, m int) time.Time { return time.Date(2024, 1, 15, h, m, 0, 0, time.UTC) }
	c := NewChime(day(10, 59), true)

	c, sound := c.OnTick(day(10, 59))
	assert.Empty(t, sound)
	c, sound = c.OnTick(day(11, 0))
	assert.Equal(t, "11am", sound)
	c, sound = c.OnTick(day(11, 0))
	assert.Empty(t, sound)
	_, sound = c.OnTick(day(12, 0))
	assert.Equal(t, "12pm", sound)
}

func TestChimeSilentWhileDisabled(t *testing.T) {
	day := func(h, m int) time.Time { return time.Date(2024, 1, 15, h, m, 0, 0, time.UTC) }
	c := NewChime(day(10, 0), false)

	c, sound := c.OnTick(day(11, 0))
	assert.Empty(t, sound)

	c, sound = c.SetEnabled(true)
	assert.Equal(t, SoundActivated, sound)
	assert.True(t, c.Enabled())

	c, sound = c.OnTick(day(11, 10))
	assert.Empty(t, sound, "a missed hour is not replayed")

	c, sound = c.SetEnabled(true)
	assert.Empty(t, sound)

	_, sound = c.SetEnabled(false)
	assert.Empty(t, sound)
}
