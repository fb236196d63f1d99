package dial

import (
	"math"
	"sort"
)

// PieSlice is the angular extent of one segment, in radians clockwise from
// twelve o'clock.
type PieSlice struct {
	StartAngle float64
	EndAngle   float64
	Length     int
}

// Mid returns the angle halfway through the slice.
func (p PieSlice) Mid() float64 {
	return 0.5 * (p.StartAngle + p.EndAngle)
}

// Contains reports whether angle (radians, [0,2π)) falls inside the slice.
func (p PieSlice) Contains(angle float64) bool {
	return angle >= p.StartAngle && angle < p.EndAngle
}

// Pie converts segment lengths into cumulative angles proportional to their
// share of the total. Order is preserved and the last slice ends at exactly
// 2π. A zero total yields zero-width slices.
func Pie(lengths []int) []PieSlice {
	sum := 0
	for _, l := range lengths {
		sum += l
	}
	slices := make([]PieSlice, len(lengths))
	cum := 0
	for i, l := range lengths {
		p := PieSlice{Length: l}
		if sum > 0 {
			p.StartAngle = 2 * math.Pi * float64(cum) / float64(sum)
			cum += l
			p.EndAngle = 2 * math.Pi * float64(cum) / float64(sum)
		}
		slices[i] = p
	}
	return slices
}

// SliceAt returns the index of the slice covering angle (radians), or -1.
// Zero-width slices are never hit.
func SliceAt(slices []PieSlice, angle float64) int {
	angle = math.Mod(angle, 2*math.Pi)
	if angle < 0 {
		angle += 2 * math.Pi
	}
	i := sort.Search(len(slices), func(i int) bool {
		return slices[i].EndAngle > angle
	})
	if i < len(slices) && slices[i].Contains(angle) {
		return i
	}
	return -1
}
