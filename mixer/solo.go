package mixer

import (
	"errors"
	"fmt"

	"github.com/chabad360/osc-spatial/engine"
	"github.com/chabad360/osc-spatial/osc"
)

// ErrNoChannel is returned for a channel outside the bank.
var ErrNoChannel = errors.New("mixer: no such channel")

// SoloBank implements exclusive solo over channels 1 … n.
type SoloBank struct {
	soloed []bool
}

// NewSoloBank returns a bank with no channel soloed.
func NewSoloBank(channels int) *SoloBank {
	return &SoloBank{soloed: make([]bool, channels)}
}

// Toggle flips the solo of ch and returns the messages that tell the engine.
// Turning a channel on clears every other solo first.
func (s *SoloBank) Toggle(ch int) ([]osc.Packet, error) {
	if ch < 1 || ch > len(s.soloed) {
		return nil, fmt.Errorf("%w: %d", ErrNoChannel, ch)
	}

	if s.soloed[ch-1] {
		s.soloed[ch-1] = false
		return []osc.Packet{engine.SoloOff(ch), engine.SoloAll(true)}, nil
	}

	var out []osc.Packet
	for i, on := range s.soloed {
		if on && i != ch-1 {
			s.soloed[i] = false
			out = append(out, engine.SoloOff(i+1))
		}
	}
	s.soloed[ch-1] = true
	return append(out, engine.SoloAll(false), engine.SoloOn(ch)), nil
}

// Clear turns every solo off.
func (s *SoloBank) Clear() []osc.Packet {
	out := make([]osc.Packet, 0, len(s.soloed)+1)
	for i := range s.soloed {
		s.soloed[i] = false
		out = append(out, engine.SoloOff(i+1))
	}
	return append(out, engine.SoloAll(true))
}

// Soloed returns the soloed channel, or 0.
func (s *SoloBank) Soloed() int {
	for i, on := range s.soloed {
		if on {
			return i + 1
		}
	}
	return 0
}
