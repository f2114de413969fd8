package geom

import "math"

// Constrain keeps a dragged point on or inside the circle of radius. In free
// mode a point outside the circle is pulled back to its edge; otherwise the
// point is projected onto the circle. The origin stays put.
func Constrain(p Point, radius float64, free bool) Point {
	l := p.Len()
	if l == 0 || radius <= 0 {
		return p
	}
	if free && l <= radius {
		return p
	}
	return p.Scale(radius / l)
}

// Elevation maps the distance from the origin to an elevation in degrees:
// 90 at the centre falling to 0 at radius.
func Elevation(p Point, radius float64) float64 {
	if radius <= 0 {
		return 0
	}
	return Clamp(1-p.Len()/radius, 0, 1) * 90
}

// ReverbSend maps how far p lies beyond inner towards outer into [0, 1].
func ReverbSend(p Point, inner, outer float64) float64 {
	if outer <= inner {
		return 0
	}
	return Clamp((p.Len()-inner)/(outer-inner), 0, 1)
}

// Rect is an axis aligned rectangle.
type Rect struct {
	Min Point `json:"min" yaml:"min"`
	Max Point `json:"max" yaml:"max"`
}

// Contains reports whether p lies inside r, edges included.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Min.X && p.X <= r.Max.X && p.Y >= r.Min.Y && p.Y <= r.Max.Y
}

// Clamp returns the point of r closest to p.
func (r Rect) Clamp(p Point) Point {
	return Point{
		X: math.Max(r.Min.X, math.Min(r.Max.X, p.X)),
		Y: math.Max(r.Min.Y, math.Min(r.Max.Y, p.Y)),
	}
}
