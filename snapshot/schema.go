package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/chabad360/osc-spatial/geom"
)

// CurrentVersion is the schema version written by this package.
//
// Version 1 is the flat record written by the original console: positions as
// {x, y, z}, texts, degreeAngles and a handful of toggles, with no version
// field. It is upgraded on read.
const CurrentVersion = 2

// Delay is the delay line state.
type Delay struct {
	Enabled bool `json:"enabled"`
	Time    int  `json:"time"`
}

// Snapshot is a named capture of the editable scene.
type Snapshot struct {
	Version int       `json:"version"`
	ID      string    `json:"id,omitempty"`
	Name    string    `json:"name"`
	SavedAt time.Time `json:"savedAt"`

	Positions  []geom.Point `json:"positions"`
	Labels     []string     `json:"labels"`
	ZoneAngles []float64    `json:"zoneAngles"`

	// Optional fields. Older records and simpler scenes leave them out.
	ZoneCountText string `json:"zoneCountText,omitempty"`
	Headphones    bool   `json:"headphones,omitempty"`
	Delay         *Delay `json:"delay,omitempty"`
	InputChannel  *int   `json:"inputChannel,omitempty"`
}

// Clone returns a deep copy of s.
func (s *Snapshot) Clone() *Snapshot {
	c := *s
	c.Positions = append([]geom.Point(nil), s.Positions...)
	c.Labels = append([]string(nil), s.Labels...)
	c.ZoneAngles = append([]float64(nil), s.ZoneAngles...)
	if s.Delay != nil {
		d := *s.Delay
		c.Delay = &d
	}
	if s.InputChannel != nil {
		n := *s.InputChannel
		c.InputChannel = &n
	}
	return &c
}

type legacyVector struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

type legacyRecord struct {
	Positions            []legacyVector `json:"positions"`
	Texts                []string       `json:"texts"`
	DegreeAngles         []int          `json:"degreeAngles"`
	CustomZoneInputValue string         `json:"customZoneInputValue"`
	HeadToggleState      bool           `json:"headToggleState"`
	DelayToggleState     *bool          `json:"delayToggleState"`
	DelayTime            *int           `json:"delayTime"`
	InputChannelNumber   *int           `json:"inputChannelNumber"`
}

// Encode serialises s at the current version.
func Encode(s *Snapshot) ([]byte, error) {
	c := *s
	c.Version = CurrentVersion
	return json.MarshalIndent(&c, "", "  ")
}

// Decode parses a stored record of any known version. name fills in the
// name of records that do not carry one.
func Decode(name string, data []byte) (*Snapshot, error) {
	var probe struct {
		Version int `json:"version"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("snapshot %q: %w", name, err)
	}

	switch probe.Version {
	case 0, 1:
		var rec legacyRecord
		if err := json.Unmarshal(data, &rec); err != nil {
			return nil, fmt.Errorf("snapshot %q: legacy record: %w", name, err)
		}
		return upgradeLegacy(name, &rec), nil
	case CurrentVersion:
		var s Snapshot
		if err := json.Unmarshal(data, &s); err != nil {
			return nil, fmt.Errorf("snapshot %q: %w", name, err)
		}
		if s.Name == "" {
			s.Name = name
		}
		return &s, nil
	}
	return nil, fmt.Errorf("snapshot %q: unsupported version %d", name, probe.Version)
}

func upgradeLegacy(name string, rec *legacyRecord) *Snapshot {
	s := &Snapshot{
		Version:       CurrentVersion,
		Name:          name,
		Positions:     make([]geom.Point, len(rec.Positions)),
		Labels:        append([]string(nil), rec.Texts...),
		ZoneAngles:    make([]float64, len(rec.DegreeAngles)),
		ZoneCountText: rec.CustomZoneInputValue,
		Headphones:    rec.HeadToggleState,
		InputChannel:  rec.InputChannelNumber,
	}
	for i, v := range rec.Positions {
		s.Positions[i] = geom.Point{X: v.X, Y: v.Y}
	}
	for i, a := range rec.DegreeAngles {
		s.ZoneAngles[i] = float64(a)
	}
	if rec.DelayToggleState != nil || rec.DelayTime != nil {
		s.Delay = &Delay{}
		if rec.DelayToggleState != nil {
			s.Delay.Enabled = *rec.DelayToggleState
		}
		if rec.DelayTime != nil {
			s.Delay.Time = *rec.DelayTime
		}
	}
	return s
}

// ErrCardinalityMismatch is matched by every *CardinalityError.
var ErrCardinalityMismatch = errors.New("snapshot: cardinality mismatch")

// CardinalityError reports a snapshot whose shape does not fit the scene.
type CardinalityError struct {
	Field string
	Want  int
	Got   int
}

func (e *CardinalityError) Error() string {
	return fmt.Sprintf("snapshot: %s: scene has %d, snapshot has %d", e.Field, e.Want, e.Got)
}

func (e *CardinalityError) Is(target error) bool { return target == ErrCardinalityMismatch }
