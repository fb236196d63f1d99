package dial

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMalformedInterval is returned for a non-positive duration, a start
	// outside the day, or an interval reaching past the following midnight.
	ErrMalformedInterval = errors.New("malformed interval")
	// ErrWrapOverlap is returned when the part of an interval that wraps past
	// midnight does not fit in front of the first AM interval.
	ErrWrapOverlap = errors.New("wrapped interval overlaps the start of the day")
	// ErrOverlap is returned when intervals overlap or are not sorted by start.
	ErrOverlap = errors.New("intervals overlap or are out of order")
)

// CompletedColor fills segments of completed intervals.
const CompletedColor = "#CCCCCC"

// Palette holds the colors an interval may be painted with.
var Palette = []string{"#002880", "#73BE84", "#B4D6CE", "#F5FFD7", "#FA2357", "#CDCDCD"}

// PaletteColor matches c against Palette, ignoring case, and returns the
// palette's spelling.
func PaletteColor(c string) (string, bool) {
	for _, p := range Palette {
		if strings.EqualFold(p, c) {
			return p, true
		}
	}
	return "", false
}

// Interval is a scheduled span of the day. Start is a minute of the day and
// Start+Duration may run past midnight once.
type Interval struct {
	Title     string
	Start     int
	Duration  int
	Color     string
	Completed bool
}

// End returns the absolute end minute, which exceeds Day for a wrapping
// interval.
func (iv Interval) End() int {
	return iv.Start + iv.Duration
}

// Wraps reports whether the interval runs past midnight.
func (iv Interval) Wraps() bool {
	return iv.End() > Day
}

// Validate checks the interval against the layout contract.
func (iv Interval) Validate() error {
	switch {
	case iv.Duration <= 0:
		return fmt.Errorf("%w: duration %d", ErrMalformedInterval, iv.Duration)
	case iv.Start < 0 || iv.Start >= Day:
		return fmt.Errorf("%w: start %d", ErrMalformedInterval, iv.Start)
	case iv.End() > 2*Day:
		return fmt.Errorf("%w: ends at %d", ErrMalformedInterval, iv.End())
	}
	return nil
}

// Overlaps reports whether two intervals share any minute on the circular
// day.
func (iv Interval) Overlaps(other Interval) bool {
	for _, shift := range []int{-Day, 0, Day} {
		s := other.Start + shift
		if iv.Start < s+other.Duration && s < iv.End() {
			return true
		}
	}
	return false
}

// IntervalError reports which input interval broke the layout.
type IntervalError struct {
	Index    int
	Interval Interval
	Err      error
}

func (e *IntervalError) Error() string {
	return fmt.Sprintf("interval %d (%q at %s): %v", e.Index, e.Interval.Title, FormatClock(e.Interval.Start), e.Err)
}

func (e *IntervalError) Unwrap() error { return e.Err }

// SegmentKind distinguishes scheduled arcs from empty ones.
type SegmentKind int

const (
	Gap SegmentKind = iota
	Data
)

func (k SegmentKind) String() string {
	if k == Data {
		return "data"
	}
	return "gap"
}

// Segment is one arc of a ring, Length minutes long.
type Segment struct {
	Length    int
	Kind      SegmentKind
	Title     string
	Color     string
	Completed bool
}

// Fill returns the color a renderer paints the segment with.
func (s Segment) Fill() string {
	switch {
	case s.Kind == Gap:
		return "transparent"
	case s.Completed:
		return CompletedColor
	}
	return s.Color
}

func gapOf(length int) Segment {
	return Segment{Length: length, Kind: Gap}
}

func dataOf(iv Interval, length int) Segment {
	return Segment{Length: length, Kind: Data, Title: iv.Title, Color: iv.Color, Completed: iv.Completed}
}

// Rings holds the segment sequences of both rings. Each sequence sums to
// HalfDay minutes.
type Rings struct {
	AM []Segment
	PM []Segment
}

// Ring returns the segments of one ring.
func (r Rings) Ring(h DayHalf) []Segment {
	if h == PM {
		return r.PM
	}
	return r.AM
}

// Lengths returns the segment lengths of a ring, aligned with Colors and
// Titles.
func (r Rings) Lengths(h DayHalf) []int {
	segs := r.Ring(h)
	out := make([]int, len(segs))
	for i, s := range segs {
		out[i] = s.Length
	}
	return out
}

// Colors returns the fill of each segment of a ring.
func (r Rings) Colors(h DayHalf) []string {
	segs := r.Ring(h)
	out := make([]string, len(segs))
	for i, s := range segs {
		out[i] = s.Fill()
	}
	return out
}

// Titles returns the label of each segment of a ring; gaps are empty.
func (r Rings) Titles(h DayHalf) []string {
	segs := r.Ring(h)
	out := make([]string, len(segs))
	for i, s := range segs {
		out[i] = s.Title
	}
	return out
}

// Pie returns the slice angles of a ring.
func (r Rings) Pie(h DayHalf) []PieSlice {
	return Pie(r.Lengths(h))
}

func total(segs []Segment) int {
	sum := 0
	for _, s := range segs {
		sum += s.Length
	}
	return sum
}

// Partition lays out intervals sorted by start and free of overlaps onto the
// AM and PM rings. Intervals crossing noon are split across both rings, and
// the tail of an interval running past midnight is placed at the very start
// of the AM ring. The result is all-or-nothing: any bad interval yields an
// *IntervalError and empty rings.
func Partition(intervals []Interval) (Rings, error) {
	for i, iv := range intervals {
		if err := iv.Validate(); err != nil {
			return Rings{}, &IntervalError{Index: i, Interval: iv, Err: err}
		}
	}

	var am, pm []Segment
	fail := func(i int, err error) (Rings, error) {
		return Rings{}, &IntervalError{Index: i, Interval: intervals[i], Err: err}
	}

	for i, iv := range intervals {
		start, end := iv.Start, iv.End()
		last := i+1 == len(intervals)

		if i == 0 && start > 0 {
			am = append(am, gapOf(min(start, HalfDay)))
		}

		if end <= HalfDay {
			am = append(am, dataOf(iv, iv.Duration))
			next := HalfDay
			if !last && intervals[i+1].Start < HalfDay {
				next = intervals[i+1].Start
			}
			if next < end {
				return fail(i+1, ErrOverlap)
			}
			am = append(am, gapOf(next-end))
			continue
		}

		if start < HalfDay {
			am = append(am, dataOf(iv, HalfDay-start))
			pm = append(pm, dataOf(iv, min(end, Day)-HalfDay))
		} else {
			if len(pm) == 0 && start > HalfDay {
				pm = append(pm, gapOf(start-HalfDay))
			}
			pm = append(pm, dataOf(iv, min(end, Day)-start))
		}

		if end > Day {
			if !last {
				return fail(i+1, ErrOverlap)
			}
			spliced, err := spliceWrap(am, iv, end-Day)
			if err != nil {
				return fail(i, err)
			}
			am = spliced
			continue
		}

		next := Day
		if !last {
			next = intervals[i+1].Start
		}
		if next < end {
			return fail(i+1, ErrOverlap)
		}
		pm = append(pm, gapOf(next-end))
	}

	if len(am) == 0 {
		am = []Segment{gapOf(HalfDay)}
	}
	if len(pm) == 0 {
		pm = []Segment{gapOf(HalfDay)}
	}
	if total(am) != HalfDay || total(pm) != HalfDay {
		return Rings{}, fmt.Errorf("%w: rings sum to %d and %d minutes", ErrOverlap, total(am), total(pm))
	}
	return Rings{AM: am, PM: pm}, nil
}

// spliceWrap rebuilds the AM sequence with the wrapped tail of iv carved out
// of the leading gap.
func spliceWrap(am []Segment, iv Interval, overflow int) ([]Segment, error) {
	if len(am) == 0 || am[0].Kind != Gap {
		return nil, fmt.Errorf("%w: no free time before the first AM interval", ErrWrapOverlap)
	}
	lead := am[0].Length
	if overflow >= lead {
		return nil, fmt.Errorf("%w: %d minutes past midnight, %d free", ErrWrapOverlap, overflow, lead)
	}
	out := make([]Segment, 0, len(am)+1)
	out = append(out, dataOf(iv, overflow), gapOf(lead-overflow))
	out = append(out, am[1:]...)
	return out, nil
}

// PartitionLenient partitions intervals, dropping any interval that cannot be
// laid out and retrying. The returned errors describe each dropped interval.
func PartitionLenient(intervals []Interval) (Rings, []error) {
	remaining := append([]Interval(nil), intervals...)
	var dropped []error
	for {
		rings, err := Partition(remaining)
		if err == nil {
			return rings, dropped
		}
		var ie *IntervalError
		if !errors.As(err, &ie) || ie.Index >= len(remaining) {
			dropped = append(dropped, err)
			rings, _ = Partition(nil)
			return rings, dropped
		}
		dropped = append(dropped, err)
		remaining = append(remaining[:ie.Index:ie.Index], remaining[ie.Index+1:]...)
	}
}
