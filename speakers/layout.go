// Package speakers keeps the loudspeaker layout used for distance based
// amplitude panning.
package speakers

import (
	"errors"
	"fmt"

	"github.com/chabad360/osc-spatial/engine"
	"github.com/chabad360/osc-spatial/geom"
	"github.com/chabad360/osc-spatial/osc"
)

var (
	ErrOutOfBounds = errors.New("speakers: position outside the panel")
	ErrFull        = errors.New("speakers: layout is full")
	ErrNotFound    = errors.New("speakers: no speaker at position")
	ErrEmpty       = errors.New("speakers: layout is empty")
)

// RemoveTolerance is how close a position must be to a speaker to remove it.
const RemoveTolerance = 0.01

// Layout is an ordered set of speaker positions inside Bounds.
type Layout struct {
	bounds    geom.Rect
	max       int
	positions []geom.Point
}

// NewLayout returns an empty layout.
func NewLayout(bounds geom.Rect, limit int) *Layout {
	if limit < 0 {
		limit = 0
	}
	return &Layout{bounds: bounds, max: limit}
}

// Place adds a speaker at p.
func (l *Layout) Place(p geom.Point) error {
	if !l.bounds.Contains(p) {
		return fmt.Errorf("%w: %v", ErrOutOfBounds, p)
	}
	if len(l.positions) >= l.max {
		return fmt.Errorf("%w: %d speakers", ErrFull, l.max)
	}
	l.positions = append(l.positions, p)
	return nil
}

// Remove deletes the first speaker within RemoveTolerance of p.
func (l *Layout) Remove(p geom.Point) error {
	for i, q := range l.positions {
		if q.Dist(p) <= RemoveTolerance {
			l.positions = append(l.positions[:i], l.positions[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %v", ErrNotFound, p)
}

// SetMax changes the capacity. Speakers beyond it are dropped.
func (l *Layout) SetMax(n int) {
	if n < 0 {
		n = 0
	}
	l.max = n
	if len(l.positions) > n {
		l.positions = l.positions[:n]
	}
}

func (l *Layout) Max() int          { return l.max }
func (l *Layout) Bounds() geom.Rect { return l.bounds }

// Positions returns a copy of the speaker positions.
func (l *Layout) Positions() []geom.Point {
	return append([]geom.Point(nil), l.positions...)
}

// Message encodes the layout for the engine.
func (l *Layout) Message() (*osc.Message, error) {
	if len(l.positions) == 0 {
		return nil, ErrEmpty
	}
	return engine.DBAPPositions(l.positions), nil
}
