package dial

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gap(n int) Segment { return Segment{Length: n, Kind: Gap} }

func todo(title string, start, duration int) Interval {
	return Interval{Title: title, Start: start, Duration: duration, Color: "#73BE84"}
}

func data(iv Interval, n int) Segment { return dataOf(iv, n) }

func assertSums(t *testing.T, r Rings) {
	t.Helper()
	assert.Equal(t, HalfDay, total(r.AM), "AM ring must cover half a day")
	assert.Equal(t, HalfDay, total(r.PM), "PM ring must cover half a day")
	for _, h := range []DayHalf{AM, PM} {
		for i, s := range r.Ring(h) {
			assert.GreaterOrEqual(t, s.Length, 0, "%s segment %d", h, i)
		}
	}
}

// ============================================================
// Scenarios
// ============================================================

func TestPartitionEmpty(t *testing.T) {
	r, err := Partition(nil)
	require.NoError(t, err)
	assert.Equal(t, []Segment{gap(720)}, r.AM)
	assert.Equal(t, []Segment{gap(720)}, r.PM)
}

func TestPartitionSingleMorningInterval(t *testing.T) {
	iv := todo("dentist", 240, 60)
	r, err := Partition([]Interval{iv})
	require.NoError(t, err)
	assert.Equal(t, []Segment{gap(240), data(iv, 60), gap(420)}, r.AM)
	assert.Equal(t, []Segment{gap(720)}, r.PM)
}

func TestPartitionCrossesNoon(t *testing.T) {
	iv := todo("lunch", 660, 120)
	r, err := Partition([]Interval{iv})
	require.NoError(t, err)
	assert.Equal(t, []Segment{gap(660), data(iv, 60)}, r.AM)
	assert.Equal(t, []Segment{data(iv, 60), gap(660)}, r.PM)
}

func TestPartitionWrapsPastMidnight(t *testing.T) {
	iv := todo("night shift", 1380, 180)
	r, err := Partition([]Interval{iv})
	require.NoError(t, err)
	assert.Equal(t, []Segment{data(iv, 120), gap(600)}, r.AM)
	assert.Equal(t, []Segment{gap(660), data(iv, 60)}, r.PM)
}

func TestPartitionFullDay(t *testing.T) {
	a := todo("a", 240, 60)
	b := todo("b", 480, 120)
	c := todo("c", 600, 240)
	d := todo("d", 840, 180)
	e := todo("e", 1380, 180)

	r, err := Partition([]Interval{a, b, c, d, e})
	require.NoError(t, err)
	assert.Equal(t, []Segment{
		data(e, 120), gap(120),
		data(a, 60), gap(180),
		data(b, 120), gap(0),
		data(c, 120),
	}, r.AM)
	assert.Equal(t, []Segment{
		data(c, 120), gap(0),
		data(d, 180), gap(360),
		data(e, 60),
	}, r.PM)
	assertSums(t, r)
}

func TestPartitionBoundaries(t *testing.T) {
	tests := []struct {
		name string
		in   Interval
		am   []int
		pm   []int
	}{
		{"whole morning", todo("x", 0, 720), []int{720, 0}, []int{720}},
		{"whole afternoon", todo("x", 720, 720), []int{720}, []int{720, 0}},
		{"whole day", todo("x", 0, 1440), []int{720}, []int{720, 0}},
		{"ends at noon", todo("x", 600, 120), []int{600, 120, 0}, []int{720}},
		{"starts at noon", todo("x", 720, 60), []int{720}, []int{60, 660}},
		{"ends at midnight", todo("x", 1380, 60), []int{720}, []int{660, 60, 0}},
		{"noon to past midnight", todo("x", 600, 900), []int{60, 540, 120}, []int{720}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := Partition([]Interval{tt.in})
			require.NoError(t, err)
			assert.Equal(t, tt.am, r.Lengths(AM))
			assert.Equal(t, tt.pm, r.Lengths(PM))
			assertSums(t, r)
		})
	}
}

func TestPartitionBackToBackKeepsZeroGap(t *testing.T) {
	a, b := todo("a", 60, 60), todo("b", 120, 60)
	r, err := Partition([]Interval{a, b})
	require.NoError(t, err)
	assert.Equal(t, []Segment{gap(60), data(a, 60), gap(0), data(b, 60), gap(540)}, r.AM)
}

func TestPartitionCompletedIsGrey(t *testing.T) {
	iv := todo("done", 60, 60)
	iv.Completed = true
	r, err := Partition([]Interval{iv})
	require.NoError(t, err)
	assert.Equal(t, []string{"transparent", CompletedColor, "transparent"}, r.Colors(AM))
	assert.Equal(t, []string{"", "done", ""}, r.Titles(AM))
}

// ============================================================
// Errors
// ============================================================

func TestPartitionMalformed(t *testing.T) {
	for _, iv := range []Interval{
		todo("zero", 10, 0),
		todo("negative", 10, -5),
		todo("late start", 1440, 10),
		todo("early start", -1, 10),
		todo("two wraps", 1400, 1500),
	} {
		t.Run(iv.Title, func(t *testing.T) {
			r, err := Partition([]Interval{todo("ok", 0, 30), iv})
			require.ErrorIs(t, err, ErrMalformedInterval)
			var ie *IntervalError
			require.True(t, errors.As(err, &ie))
			assert.Equal(t, 1, ie.Index)
			assert.Empty(t, r.AM)
			assert.Empty(t, r.PM)
		})
	}
}

func TestPartitionWrapOverlap(t *testing.T) {
	tests := []struct {
		name string
		in   []Interval
	}{
		{"overflow equals leading gap", []Interval{todo("a", 60, 60), todo("b", 1380, 120)}},
		{"overflow past leading gap", []Interval{todo("a", 60, 60), todo("b", 1380, 180)}},
		{"no leading gap", []Interval{todo("a", 0, 60), todo("b", 1380, 120)}},
		{"longer than a day", []Interval{todo("a", 100, 1500)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Partition(tt.in)
			require.ErrorIs(t, err, ErrWrapOverlap)
			var ie *IntervalError
			require.True(t, errors.As(err, &ie))
			assert.Equal(t, len(tt.in)-1, ie.Index)
		})
	}
}

func TestPartitionRejectsOverlapAndDisorder(t *testing.T) {
	tests := []struct {
		name string
		in   []Interval
	}{
		{"overlapping morning", []Interval{todo("a", 100, 60), todo("b", 120, 30)}},
		{"unsorted", []Interval{todo("a", 900, 60), todo("b", 100, 30)}},
		{"after a wrap", []Interval{todo("a", 1380, 120), todo("b", 1420, 10)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Partition(tt.in)
			assert.ErrorIs(t, err, ErrOverlap)
		})
	}
}

func TestPartitionLenientDropsOffender(t *testing.T) {
	a, b := todo("a", 0, 60), todo("b", 1380, 120)
	r, dropped := PartitionLenient([]Interval{a, b})
	require.Len(t, dropped, 1)
	assert.ErrorIs(t, dropped[0], ErrWrapOverlap)
	assert.Equal(t, []Segment{data(a, 60), gap(660)}, r.AM)
	assert.Equal(t, []Segment{gap(720)}, r.PM)
}

func TestPartitionLenientClean(t *testing.T) {
	in := []Interval{todo("a", 240, 60)}
	r, dropped := PartitionLenient(in)
	assert.Empty(t, dropped)
	want, _ := Partition(in)
	assert.Equal(t, want, r)
}

// ============================================================
// Properties
// ============================================================

// randomDay builds a sorted, non-overlapping day. The last interval may wrap
// past midnight into the free time before the first one.
func randomDay(rng *rand.Rand) []Interval {
	var out []Interval
	cursor := rng.Intn(180)
	for cursor < Day {
		d := 1 + rng.Intn(240)
		out = append(out, todo("t", cursor, d))
		cursor += d + rng.Intn(150)
	}
	if len(out) == 0 {
		return out
	}
	last := &out[len(out)-1]
	if over := last.End() - Day; over > 0 && over >= out[0].Start {
		last.Duration = Day - last.Start
		if out[0].Start > 1 && len(out) > 1 {
			last.Duration += rng.Intn(out[0].Start - 1)
		}
	}
	return out
}

func TestPartitionProperties(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 500; i++ {
		in := randomDay(rng)
		r, err := Partition(in)
		require.NoError(t, err, "input %v", in)
		assertSums(t, r)

		for _, h := range []DayHalf{AM, PM} {
			assert.Len(t, r.Colors(h), len(r.Lengths(h)))
			assert.Len(t, r.Titles(h), len(r.Lengths(h)))
			assert.Len(t, r.Pie(h), len(r.Lengths(h)))
		}

		again, err := Partition(in)
		require.NoError(t, err)
		assert.Equal(t, r, again)
	}
}

func TestPartitionDoesNotMutateInput(t *testing.T) {
	in := []Interval{todo("a", 0, 60), todo("b", 1380, 120)}
	orig := append([]Interval(nil), in...)
	PartitionLenient(in)
	assert.Equal(t, orig, in)
}

func TestIntervalOverlaps(t *testing.T) {
	night := todo("night", 1380, 180)
	assert.True(t, night.Overlaps(todo("early", 60, 30)))
	assert.False(t, night.Overlaps(todo("later", 120, 30)))
	assert.True(t, todo("a", 100, 60).Overlaps(todo("b", 150, 60)))
	assert.False(t, todo("a", 100, 60).Overlaps(todo("b", 160, 60)))
	assert.True(t, todo("b", 150, 60).Overlaps(todo("a", 100, 60)))
}

func TestPaletteColor(t *testing.T) {
	c, ok := PaletteColor("#fa2357")
	assert.True(t, ok)
	assert.Equal(t, "#FA2357", c)

	_, ok = PaletteColor("#123456")
	assert.False(t, ok)
	_, ok = PaletteColor("")
	assert.False(t, ok)
}
