package zone

import (
	"strconv"

	"github.com/chabad360/osc-spatial/geom"
)

// Marker is the derived, displayable form of a slot.
type Marker struct {
	Index    int        `json:"index"`
	Label    string     `json:"label"`
	Degrees  int32      `json:"degrees"`
	Position geom.Point `json:"position"`
}

// Renderer receives the complete marker set after each change.
type Renderer interface {
	Render(markers []Marker)
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(markers []Marker)

func (f RendererFunc) Render(markers []Marker) { f(markers) }

// Markers returns a copy of the current markers.
func (m *Model) Markers() []Marker {
	return append([]Marker(nil), m.markers...)
}

// Generation counts how many times markers have been rebuilt.
func (m *Model) Generation() uint64 {
	return m.gen
}

// reconcile regenerates every marker from the slots. The marker slice is reused.
func (m *Model) reconcile() {
	m.markers = m.markers[:0]
	for _, s := range m.slots {
		m.markers = append(m.markers, Marker{
			Index:    s.Index,
			Label:    strconv.Itoa(s.Index),
			Degrees:  geom.Degrees(s.Angle),
			Position: s.Position,
		})
	}
	m.gen++
	if m.renderer != nil {
		m.renderer.Render(m.Markers())
	}
}
