package dial

import (
	"math"
	"time"
)

const (
	// MaxCanvasWidth caps the dial canvas, in device units.
	MaxCanvasWidth = 550
	// DefaultTransition is how long a focus change animates.
	DefaultTransition = time.Second
)

// Band is the radial extent of a ring.
type Band struct {
	Inner float64
	Outer float64
}

// Contains reports whether radius r lies inside the band.
func (b Band) Contains(r float64) bool {
	return r >= b.Inner && r < b.Outer
}

// Width returns the radial thickness of the band.
func (b Band) Width() float64 {
	return b.Outer - b.Inner
}

func (b Band) lerp(to Band, t float64) Band {
	return Band{
		Inner: b.Inner + (to.Inner-b.Inner)*t,
		Outer: b.Outer + (to.Outer-b.Outer)*t,
	}
}

// RingGeometry holds the radii of the AM ring, the PM ring and the border
// between them.
type RingGeometry struct {
	AM     Band
	PM     Band
	Border Band
}

// Ring returns the band of one ring.
func (g RingGeometry) Ring(h DayHalf) Band {
	if h == PM {
		return g.PM
	}
	return g.AM
}

// Interpolate returns a linear tween between two geometries. t is clamped to
// [0,1].
func Interpolate(from, to RingGeometry) func(t float64) RingGeometry {
	return func(t float64) RingGeometry {
		t = math.Max(0, math.Min(1, t))
		return RingGeometry{
			AM:     from.AM.lerp(to.AM, t),
			PM:     from.PM.lerp(to.PM, t),
			Border: from.Border.lerp(to.Border, t),
		}
	}
}

// Layout holds the fixed radii derived from the canvas size.
type Layout struct {
	CanvasWidth       float64
	ClockRadius       float64
	HourLabelRadius   float64
	DescriptionRadius float64
}

// NewLayout derives a layout from the available device width. It depends on
// nothing but its argument, so a resize can rebuild it from scratch.
func NewLayout(deviceWidth float64) Layout {
	canvas := math.Min(deviceWidth, MaxCanvasWidth)
	r := 0.25 * canvas
	return Layout{
		CanvasWidth:       canvas,
		ClockRadius:       r,
		HourLabelRadius:   r + 80,
		DescriptionRadius: r + 100,
	}
}

// InnerRadius is the radius of the central text disc.
func (l Layout) InnerRadius() float64 {
	return l.ClockRadius - 20
}

// Progress is the band of the hour progress ring.
func (l Layout) Progress() Band {
	return Band{Inner: l.ClockRadius, Outer: l.ClockRadius + 10}
}

// Geometry returns the ring radii for a focused day half. The focused ring
// is expanded and the other compressed.
func (l Layout) Geometry(focus DayHalf) RingGeometry {
	r := l.ClockRadius
	g := RingGeometry{
		AM:     Band{Inner: r + 12, Outer: r + 50},
		Border: Band{Inner: r + 50, Outer: r + 52},
		PM:     Band{Inner: r + 52, Outer: r + 60},
	}
	if focus == PM {
		g.AM.Outer -= 38
		g.Border.Inner -= 38
		g.Border.Outer -= 38
		g.PM.Inner -= 38
		g.PM.Outer -= 10
	}
	return g
}

// LabelOpacity is the opacity of each ring's description labels.
type LabelOpacity struct {
	AM float64
	PM float64
}

// Of returns the opacity for one ring.
func (o LabelOpacity) Of(h DayHalf) float64 {
	if h == PM {
		return o.PM
	}
	return o.AM
}

// Labels shows the focused ring's descriptions and hides the other's.
func Labels(focus DayHalf, descriptions bool) LabelOpacity {
	if !descriptions {
		return LabelOpacity{}
	}
	if focus == PM {
		return LabelOpacity{PM: 1}
	}
	return LabelOpacity{AM: 1}
}

// Display is the focus state of the dial together with any running focus
// animation.
type Display struct {
	layout   Layout
	focus    DayHalf
	duration time.Duration

	tween   func(float64) RingGeometry
	started time.Time
}

// NewDisplay returns a display resting in the given focus.
func NewDisplay(layout Layout, focus DayHalf, duration time.Duration) Display {
	if duration <= 0 {
		duration = DefaultTransition
	}
	return Display{layout: layout, focus: focus, duration: duration}
}

func (d Display) Focus() DayHalf { return d.focus }
func (d Display) Layout() Layout { return d.layout }

// SetFocus starts an animation from the geometry shown at now towards the
// geometry of focus. Setting the current focus is a no-op.
func (d Display) SetFocus(focus DayHalf, now time.Time) Display {
	if focus == d.focus {
		return d
	}
	current := d.GeometryAt(now)
	d.focus = focus
	d.tween = Interpolate(current, d.layout.Geometry(focus))
	d.started = now
	return d
}

// Toggle switches focus to the other day half.
func (d Display) Toggle(now time.Time) Display {
	return d.SetFocus(d.focus.Other(), now)
}

// Resize rebuilds the layout and drops any running animation.
func (d Display) Resize(layout Layout) Display {
	d.layout = layout
	d.tween = nil
	return d
}

// Progress returns how far the animation has run at now, in [0,1].
func (d Display) Progress(now time.Time) float64 {
	if d.tween == nil {
		return 1
	}
	return math.Max(0, math.Min(1, float64(now.Sub(d.started))/float64(d.duration)))
}

// Animating reports whether the geometry is still moving at now.
func (d Display) Animating(now time.Time) bool {
	return d.Progress(now) < 1
}

// GeometryAt returns the ring radii to draw at now.
func (d Display) GeometryAt(now time.Time) RingGeometry {
	if d.tween == nil {
		return d.layout.Geometry(d.focus)
	}
	return d.tween(d.Progress(now))
}
