package dial

import (
	"fmt"
	"math"
)

const (
	// SelectionStep is the quantisation step of a drag, in degrees. On a
	// 12-hour dial it equals a quarter of an hour.
	SelectionStep = (30.0 / 24 / 60) * 360
	// MinSelection is the shortest selection, in minutes, that proposes a new
	// interval.
	MinSelection = 15
)

// SelectorState is the phase of a drag gesture.
type SelectorState int

const (
	Idle SelectorState = iota
	Dragging
)

// PointerKind is the type of a pointer event.
type PointerKind int

const (
	PointerDown PointerKind = iota
	PointerMove
	PointerUp
)

// PointerEvent is a pointer position relative to the dial centre, in screen
// coordinates.
type PointerEvent struct {
	Kind   PointerKind
	DX, DY float64
}

// DragSelection is the quantised range of an in-progress drag. Angles use
// the continuous AM/PM domain of PointerAngle; minutes are absolute.
type DragSelection struct {
	AnchorAngle  float64
	CurrentAngle float64
	FromAngle    float64
	UntilAngle   float64
	FromMinutes  int
	DiffMinutes  int
	UntilMinutes int
}

// Proposal asks the dialog collaborator to create an interval.
type Proposal struct {
	FromHours   int
	FromMinutes int
	FromPeriod  DayHalf
	DiffMinutes int
}

// Start returns the absolute start minute of the proposal.
func (p Proposal) Start() int {
	return int(p.FromPeriod)*HalfDay + p.FromHours*60 + p.FromMinutes
}

func (p Proposal) String() string {
	return fmt.Sprintf("%02d:%02d %s +%dm", p.FromHours, p.FromMinutes, p.FromPeriod, p.DiffMinutes)
}

// Selector drives drag-to-select. The zero value is idle.
type Selector struct {
	State     SelectorState
	Selection DragSelection
}

// Dragging reports whether a gesture is in progress.
func (s Selector) Dragging() bool {
	return s.State == Dragging
}

// Step applies one pointer event. focus decides which ring the pointer
// angle refers to and becomes the proposal's period. A proposal is returned
// only on pointer-up after a selection of at least MinSelection minutes.
func (s Selector) Step(ev PointerEvent, focus DayHalf) (Selector, *Proposal) {
	switch ev.Kind {
	case PointerDown:
		angle := PointerAngle(ev.DX, ev.DY, focus)
		return Selector{
			State: Dragging,
			Selection: DragSelection{
				AnchorAngle:  angle,
				CurrentAngle: angle,
				FromAngle:    angle,
				UntilAngle:   angle,
			},
		}, nil

	case PointerMove:
		if s.State != Dragging {
			return s, nil
		}
		s.Selection = quantize(s.Selection.AnchorAngle, PointerAngle(ev.DX, ev.DY, focus))
		return s, nil

	case PointerUp:
		if s.State != Dragging {
			return s, nil
		}
		sel := s.Selection
		if sel.DiffMinutes < MinSelection {
			return Selector{}, nil
		}
		return Selector{}, &Proposal{
			FromHours:   (sel.FromMinutes / 60) % 12,
			FromMinutes: sel.FromMinutes % 60,
			FromPeriod:  focus,
			DiffMinutes: sel.DiffMinutes,
		}
	}
	return s, nil
}

func quantize(anchor, current float64) DragSelection {
	from := math.Floor(anchor/SelectionStep) * SelectionStep
	until := math.Ceil(current/SelectionStep) * SelectionStep
	if until < from {
		until += 360
	}
	return DragSelection{
		AnchorAngle:  anchor,
		CurrentAngle: current,
		FromAngle:    from,
		UntilAngle:   until,
		FromMinutes:  int(math.Round(MinutesOfAngle(from))),
		DiffMinutes:  int(math.Round(MinutesOfAngle(until - from))),
		UntilMinutes: int(math.Round(MinutesOfAngle(until))),
	}
}

// Arc is a preview arc on one ring, in degrees [0,360].
type Arc struct {
	Ring  DayHalf
	Start float64
	End   float64
}

// Arcs splits the selection into per-ring arcs for drawing, following the
// selection across noon and midnight.
func (d DragSelection) Arcs() []Arc {
	var arcs []Arc
	from, until := d.FromAngle, d.UntilAngle
	for from < until {
		turn := math.Floor(from / 360)
		end := math.Min(until, (turn+1)*360)
		ring := AM
		if int(turn)%2 == 1 {
			ring = PM
		}
		arcs = append(arcs, Arc{Ring: ring, Start: from - turn*360, End: end - turn*360})
		from = end
	}
	return arcs
}

// Covers reports whether the preview covers the ring angle (degrees).
func (d DragSelection) Covers(ring DayHalf, angle float64) bool {
	for _, a := range d.Arcs() {
		if a.Ring == ring && angle >= a.Start && angle < a.End {
			return true
		}
	}
	return false
}
