// Package dial lays out a day's intervals on a two-ring, 12-hour clock dial.
//
// The AM ring covers minutes [0,720) and the PM ring [720,1440). Angles are
// measured clockwise from twelve o'clock, in degrees unless a name says
// otherwise.
package dial

import "math"

const (
	// HalfDay is the number of minutes covered by one ring.
	HalfDay = 12 * 60
	// Day is the number of minutes in a day.
	Day = 2 * HalfDay
)

// DayHalf selects one of the two rings.
type DayHalf int

const (
	AM DayHalf = iota
	PM
)

func (h DayHalf) String() string {
	if h == PM {
		return "PM"
	}
	return "AM"
}

// Other returns the opposite day half.
func (h DayHalf) Other() DayHalf {
	if h == PM {
		return AM
	}
	return PM
}

// HalfOf returns the day half an absolute minute-of-day falls into.
func HalfOf(minute int) DayHalf {
	if ((minute%Day)+Day)%Day >= HalfDay {
		return PM
	}
	return AM
}

// AngleOfMinutes maps minutes onto a 12-hour dial, independent of the ring.
func AngleOfMinutes(m float64) float64 {
	return math.Mod(m, HalfDay) / 60 / 12 * 360
}

// MinutesOfAngle is the inverse of AngleOfMinutes. No wrap is applied, so
// angles past 360 yield minutes past 720.
func MinutesOfAngle(a float64) float64 {
	return a / 360 * 60 * 12
}

// PointerAngle converts a pointer offset from the dial centre (screen
// coordinates, y pointing down) into a dial angle. PM angles are shifted into
// [360,720) so a drag can cross from one ring into the next without a jump.
func PointerAngle(dx, dy float64, half DayHalf) float64 {
	angle := Degrees(math.Atan2(dy, dx)) + 90
	angle = math.Mod(angle+720, 360)
	if half == PM {
		angle += 360
	}
	return angle
}

// Radians converts degrees to radians.
func Radians(deg float64) float64 {
	return deg * math.Pi / 180
}

// Degrees converts radians to degrees.
func Degrees(rad float64) float64 {
	return rad * 180 / math.Pi
}

// Polar returns the screen offset of a point at radius r and dial angle
// (radians), the inverse of PointerAngle for the AM ring.
func Polar(r, rad float64) (x, y float64) {
	return r * math.Sin(rad), -r * math.Cos(rad)
}
