// Package geom converts between zone angles and positions on the listening
// plane.
//
// Angles are in degrees with 0° pointing up (front) and, in the engine
// convention, increasing clockwise. Positions are plane coordinates with +y up.
package geom

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrInvalidRadius is returned for a radius that is not strictly positive.
	ErrInvalidRadius = errors.New("geom: radius must be positive")
	// ErrNaN is returned when an input is NaN or infinite.
	ErrNaN = errors.New("geom: not a number")
)

// Point is a position on the plane.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Len returns the distance from the origin.
func (p Point) Len() float64 {
	return math.Hypot(p.X, p.Y)
}

// Scale returns p multiplied by f.
func (p Point) Scale(f float64) Point {
	return Point{p.X * f, p.Y * f}
}

// Dist returns the distance between p and q.
func (p Point) Dist(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

func (p Point) valid() bool {
	return finite(p.X) && finite(p.Y)
}

func (p Point) String() string {
	return fmt.Sprintf("(%.3f, %.3f)", p.X, p.Y)
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Convention selects the direction in which angles increase.
type Convention int

const (
	// Clockwise is the audio engine convention: 0° up, 90° right.
	Clockwise Convention = iota
	// CounterClockwise is the scene convention: 0° up, 90° left.
	CounterClockwise
)

func (c Convention) String() string {
	switch c {
	case Clockwise:
		return "clockwise"
	case CounterClockwise:
		return "counterclockwise"
	}
	return fmt.Sprintf("Convention(%d)", int(c))
}

// ToCartesian returns the point at angle degrees on a circle of the given
// radius, using the Clockwise convention.
func ToCartesian(angle, radius float64) (Point, error) {
	return Codec{Radius: radius}.Position(angle)
}

// ToPolar returns the Clockwise angle of p in [0, 360).
func ToPolar(p Point) (float64, error) {
	return Codec{}.Angle(p)
}

// Codec maps angles to points on a circle of Radius in a given Convention.
type Codec struct {
	Radius     float64
	Convention Convention
}

// Position returns the point at angle on the codec's circle.
func (c Codec) Position(angle float64) (Point, error) {
	if !finite(angle) || !finite(c.Radius) {
		return Point{}, ErrNaN
	}
	if c.Radius <= 0 {
		return Point{}, fmt.Errorf("%w: %v", ErrInvalidRadius, c.Radius)
	}

	var rad float64
	switch c.Convention {
	case CounterClockwise:
		rad = (angle + 90) * math.Pi / 180
	default:
		rad = -(angle - 90) * math.Pi / 180
	}
	return Point{X: c.Radius * math.Cos(rad), Y: c.Radius * math.Sin(rad)}, nil
}

// Angle returns the angle of p in [0, 360). The radius is not consulted; the
// origin maps to 0° in both conventions.
func (c Codec) Angle(p Point) (float64, error) {
	if !p.valid() {
		return 0, ErrNaN
	}
	if p.X == 0 && p.Y == 0 {
		return 0, nil
	}

	var deg float64
	switch c.Convention {
	case CounterClockwise:
		deg = math.Atan2(p.Y, p.X)*180/math.Pi - 90
	default:
		deg = math.Atan2(-p.Y, p.X)*180/math.Pi + 90
	}
	return Wrap(deg), nil
}

// Wrap maps angle into [0, 360).
func Wrap(angle float64) float64 {
	a := math.Mod(angle, 360)
	if a < 0 {
		a += 360
	}
	if a >= 360 {
		a = 0
	}
	return a
}

// Degrees rounds angle to the nearest whole degree and wraps it into [0, 360).
// It is the only place an angle loses precision and is meant for values going
// out on the wire.
func Degrees(angle float64) int32 {
	return int32(Wrap(math.Round(angle)))
}

// CircularDistance returns the shortest arc between a and b in degrees.
func CircularDistance(a, b float64) float64 {
	d := math.Abs(Wrap(a) - Wrap(b))
	return math.Min(d, 360-d)
}

// Nearest returns the index of the candidate closest to angle along the
// circle. Ties go to the earlier candidate. It returns -1 when candidates is
// empty.
func Nearest(angle float64, candidates []float64) int {
	best, bestDist := -1, math.Inf(1)
	for i, c := range candidates {
		if d := CircularDistance(angle, c); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
