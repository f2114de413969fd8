// Package mixer holds the level, metering and solo logic of the operator
// console.
package mixer

import (
	"math"

	"github.com/chabad360/osc-spatial/geom"
)

const (
	// FloorDB is the bottom of channel meters and faders.
	FloorDB = -70.0
	// MasterFloorDB is the bottom of the master meter.
	MasterFloorDB = -80.0

	minAmplitude = 1e-4
)

// LinearToDecibels converts an amplitude to dB. Amplitudes below 1e-4 read
// as -80 dB.
func LinearToDecibels(v float64) float64 {
	return 20 * math.Log10(math.Max(v, minAmplitude))
}

// DecibelsToUnit maps db from [lo, hi] onto [0, 1], clamping.
func DecibelsToUnit(db, lo, hi float64) float64 {
	if hi <= lo {
		return 0
	}
	return geom.Clamp((db-lo)/(hi-lo), 0, 1)
}

// SliderToDecibels maps a fader position in [0, 1] onto [-70, 0] dB with a
// logarithmic taper.
func SliderToDecibels(s float64) float64 {
	s = geom.Clamp(s, 0, 1)
	t := math.Log10(1 + 9*s)
	return FloorDB + (0-FloorDB)*t
}

// Band classifies a normalised meter level for display.
type Band int

const (
	BandNormal Band = iota
	BandHot
	BandClip
)

// BandOf returns the display band of a level in [0, 1].
func BandOf(level float64) Band {
	switch {
	case level > 0.9:
		return BandClip
	case level > 0.7:
		return BandHot
	}
	return BandNormal
}

func (b Band) String() string {
	switch b {
	case BandHot:
		return "hot"
	case BandClip:
		return "clip"
	}
	return "normal"
}
