// Package scene is the live, editable state of the console: sound objects,
// their labels, the zone ring and the global toggles.
//
// A Scene is owned by one goroutine and is not safe for concurrent use.
package scene

import (
	"fmt"
	"math"
	"strconv"

	"github.com/chabad360/osc-spatial/engine"
	"github.com/chabad360/osc-spatial/geom"
	"github.com/chabad360/osc-spatial/snapshot"
	"github.com/chabad360/osc-spatial/zone"
)

// Scene has a fixed number of objects and labels.
type Scene struct {
	objects       []geom.Point
	labels        []string
	zones         *zone.Model
	zoneCountText string
	headphones    bool
	delay         snapshot.Delay
	inputChannel  int
}

// New returns a scene with objects spread evenly around the zone circle and
// labels numbered from 1.
func New(objects, labels int, zones *zone.Model) (*Scene, error) {
	if objects < 0 || labels < 0 {
		return nil, fmt.Errorf("scene: negative size")
	}
	if zones == nil {
		return nil, fmt.Errorf("scene: no zone model")
	}
	s := &Scene{
		objects:       make([]geom.Point, objects),
		labels:        make([]string, labels),
		zones:         zones,
		zoneCountText: strconv.Itoa(zones.Count()),
		inputChannel:  1,
	}
	codec := geom.Codec{Radius: zones.Radius()}
	for i := range s.objects {
		s.objects[i], _ = codec.Position(float64(i) * 360 / float64(objects))
	}
	for i := range s.labels {
		s.labels[i] = strconv.Itoa(i + 1)
	}
	return s, nil
}

func (s *Scene) Zones() *zone.Model { return s.zones }

// Objects returns a copy of the object positions.
func (s *Scene) Objects() []geom.Point { return append([]geom.Point(nil), s.objects...) }

// Labels returns a copy of the labels.
func (s *Scene) Labels() []string { return append([]string(nil), s.labels...) }

// Object returns the position of the 1-based object index.
func (s *Scene) Object(index int) (geom.Point, error) {
	if index < 1 || index > len(s.objects) {
		return geom.Point{}, fmt.Errorf("%w: object %d", zone.ErrIndexOutOfRange, index)
	}
	return s.objects[index-1], nil
}

// SetObject moves the 1-based object index to p.
func (s *Scene) SetObject(index int, p geom.Point) error {
	if index < 1 || index > len(s.objects) {
		return fmt.Errorf("%w: object %d", zone.ErrIndexOutOfRange, index)
	}
	if math.IsNaN(p.X) || math.IsNaN(p.Y) {
		return geom.ErrNaN
	}
	s.objects[index-1] = p
	return nil
}

// SetLabel renames the 1-based label index.
func (s *Scene) SetLabel(index int, text string) error {
	if index < 1 || index > len(s.labels) {
		return fmt.Errorf("%w: label %d", zone.ErrIndexOutOfRange, index)
	}
	s.labels[index-1] = text
	return nil
}

func (s *Scene) Headphones() bool             { return s.headphones }
func (s *Scene) SetHeadphones(on bool)        { s.headphones = on }
func (s *Scene) Delay() snapshot.Delay        { return s.delay }
func (s *Scene) SetDelay(d snapshot.Delay)    { s.delay = d }
func (s *Scene) InputChannel() int            { return s.inputChannel }
func (s *Scene) SetInputChannel(n int)        { s.inputChannel = n }
func (s *Scene) ZoneCountText() string        { return s.zoneCountText }
func (s *Scene) SetZoneCountText(text string) { s.zoneCountText = text }

// Mode is the zone broadcast mode implied by the headphones toggle.
func (s *Scene) Mode() engine.Mode {
	if s.headphones {
		return engine.ModeB
	}
	return engine.ModeA
}

// Capture returns a snapshot of the scene.
func (s *Scene) Capture() *snapshot.Snapshot {
	d := s.delay
	ch := s.inputChannel
	return &snapshot.Snapshot{
		Version:       snapshot.CurrentVersion,
		Positions:     s.Objects(),
		Labels:        s.Labels(),
		ZoneAngles:    s.zones.Angles(),
		ZoneCountText: s.zoneCountText,
		Headphones:    s.headphones,
		Delay:         &d,
		InputChannel:  &ch,
	}
}

// Apply replaces the scene with snap. Nothing changes unless the whole
// snapshot fits: the position and label counts must match the scene and every
// value must be a number.
func (s *Scene) Apply(snap *snapshot.Snapshot) error {
	if snap == nil {
		return fmt.Errorf("scene: nothing to apply")
	}
	if len(snap.Positions) != len(s.objects) {
		return &snapshot.CardinalityError{Field: "positions", Want: len(s.objects), Got: len(snap.Positions)}
	}
	if len(snap.Labels) != len(s.labels) {
		return &snapshot.CardinalityError{Field: "labels", Want: len(s.labels), Got: len(snap.Labels)}
	}
	for i, p := range snap.Positions {
		if math.IsNaN(p.X) || math.IsNaN(p.Y) || math.IsInf(p.X, 0) || math.IsInf(p.Y, 0) {
			return fmt.Errorf("scene: position %d: %w", i+1, geom.ErrNaN)
		}
	}
	for i, a := range snap.ZoneAngles {
		if math.IsNaN(a) || math.IsInf(a, 0) {
			return fmt.Errorf("scene: zone %d: %w", i+1, geom.ErrNaN)
		}
	}

	// Validated above, so Replace cannot fail part way.
	if err := s.zones.Replace(snap.ZoneAngles); err != nil {
		return err
	}
	copy(s.objects, snap.Positions)
	copy(s.labels, snap.Labels)
	s.headphones = snap.Headphones
	if snap.ZoneCountText != "" {
		s.zoneCountText = snap.ZoneCountText
	} else {
		s.zoneCountText = strconv.Itoa(len(snap.ZoneAngles))
	}
	if snap.Delay != nil {
		s.delay = *snap.Delay
	}
	if snap.InputChannel != nil {
		s.inputChannel = *snap.InputChannel
	}
	return nil
}
