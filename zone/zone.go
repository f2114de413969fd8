// Package zone holds the ring of zone slots that the operator edits and the
// marker state derived from it.
//
// A Model is not safe for concurrent use; it is owned by a single controller
// goroutine.
package zone

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/chabad360/osc-spatial/geom"
)

var (
	ErrIndexOutOfRange = errors.New("zone: index out of range")
	ErrNegativeCount   = errors.New("zone: count must not be negative")
	ErrNoCandidates    = errors.New("zone: no candidate angles")
)

// ParseError is returned when operator text is not a number. The model is left
// unchanged.
type ParseError struct {
	Field string
	Input string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("zone: %s: %q is not a number", e.Field, e.Input)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Slot is a single zone. Index is 1-based. Position always lies on the model's
// circle at Angle.
type Slot struct {
	Index    int        `json:"index"`
	Angle    float64    `json:"angle"`
	Position geom.Point `json:"position"`
}

// Model is an indexed ring of slots.
type Model struct {
	codec    geom.Codec
	bound    float64
	slots    []Slot
	markers  []Marker
	renderer Renderer
	gen      uint64
}

// Option configures a Model.
type Option func(*Model)

// WithRenderer sets the renderer that receives markers after every change.
func WithRenderer(r Renderer) Option {
	return func(m *Model) { m.renderer = r }
}

// WithConvention sets the direction used to place slots on the circle.
func WithConvention(c geom.Convention) Option {
	return func(m *Model) { m.codec.Convention = c }
}

// New returns an empty model on a circle of radius. Angles written through
// SetAngle are clamped to [-bound, bound].
func New(radius, bound float64, opts ...Option) (*Model, error) {
	if radius <= 0 {
		return nil, fmt.Errorf("%w: %v", geom.ErrInvalidRadius, radius)
	}
	if bound <= 0 {
		return nil, fmt.Errorf("zone: bound must be positive, got %v", bound)
	}
	m := &Model{codec: geom.Codec{Radius: radius}, bound: bound}
	for _, opt := range opts {
		opt(m)
	}
	m.reconcile()
	return m, nil
}

func (m *Model) Radius() float64 { return m.codec.Radius }
func (m *Model) Bound() float64  { return m.bound }
func (m *Model) Count() int      { return len(m.slots) }

// Slots returns a copy of the slots.
func (m *Model) Slots() []Slot {
	return append([]Slot(nil), m.slots...)
}

// Angles returns the slot angles in index order.
func (m *Model) Angles() []float64 {
	out := make([]float64, len(m.slots))
	for i, s := range m.slots {
		out[i] = s.Angle
	}
	return out
}

// Slot returns the slot at the 1-based index.
func (m *Model) Slot(index int) (Slot, error) {
	if err := m.check(index); err != nil {
		return Slot{}, err
	}
	return m.slots[index-1], nil
}

// SetCount resizes the ring to exactly n slots. New slots are spread evenly
// over the new count; existing slots keep their angles.
func (m *Model) SetCount(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %d", ErrNegativeCount, n)
	}
	if n <= len(m.slots) {
		m.slots = m.slots[:n]
	} else {
		step := 360 / float64(n)
		for i := len(m.slots); i < n; i++ {
			m.slots = append(m.slots, m.slotAt(i+1, float64(i)*step))
		}
	}
	m.reconcile()
	return nil
}

// SetCountText parses s as a slot count and applies it.
func (m *Model) SetCountText(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return &ParseError{Field: "count", Input: s, Err: err}
	}
	return m.SetCount(n)
}

// SetAngle clamps v to the model bound and stores it at index.
func (m *Model) SetAngle(index int, v float64) error {
	if err := m.check(index); err != nil {
		return err
	}
	if _, err := m.codec.Position(v); err != nil {
		return err
	}
	m.slots[index-1] = m.slotAt(index, geom.Clamp(v, -m.bound, m.bound))
	m.reconcile()
	return nil
}

// SetAngleText parses s and applies it with SetAngle.
func (m *Model) SetAngleText(index int, s string) error {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return &ParseError{Field: fmt.Sprintf("angle %d", index), Input: s, Err: err}
	}
	return m.SetAngle(index, v)
}

// SetPosition moves the slot at index towards p. The slot lands on the circle
// at the angle of p.
func (m *Model) SetPosition(index int, p geom.Point) error {
	if err := m.check(index); err != nil {
		return err
	}
	a, err := m.codec.Angle(p)
	if err != nil {
		return err
	}
	m.slots[index-1] = m.slotAt(index, a)
	m.reconcile()
	return nil
}

// SnapToNearest moves the slot at index to the candidate closest along the
// circle and returns the chosen angle.
func (m *Model) SnapToNearest(index int, candidates []float64) (float64, error) {
	if err := m.check(index); err != nil {
		return 0, err
	}
	i := geom.Nearest(m.slots[index-1].Angle, candidates)
	if i < 0 {
		return 0, ErrNoCandidates
	}
	a := candidates[i]
	m.slots[index-1] = m.slotAt(index, a)
	m.reconcile()
	return a, nil
}

// Replace rebuilds the ring from angles, clamping each one.
func (m *Model) Replace(angles []float64) error {
	for _, a := range angles {
		if _, err := m.codec.Position(a); err != nil {
			return err
		}
	}
	m.slots = m.slots[:0]
	for i, a := range angles {
		m.slots = append(m.slots, m.slotAt(i+1, geom.Clamp(a, -m.bound, m.bound)))
	}
	m.reconcile()
	return nil
}

func (m *Model) slotAt(index int, angle float64) Slot {
	// Radius and angle were validated by the callers.
	p, _ := m.codec.Position(angle)
	return Slot{Index: index, Angle: angle, Position: p}
}

func (m *Model) check(index int) error {
	if index < 1 || index > len(m.slots) {
		return fmt.Errorf("%w: %d not in [1, %d]", ErrIndexOutOfRange, index, len(m.slots))
	}
	return nil
}
