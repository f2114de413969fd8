// Package engine builds the OSC messages understood by the spatial audio
// engine. It only encodes; delivery is up to an osc.Client.
package engine

import (
	"fmt"
	"math"
	"strconv"

	"github.com/chabad360/osc-spatial/geom"
	"github.com/chabad360/osc-spatial/osc"
)

// Addresses of the engine's OSC vocabulary.
const (
	AddrAngles             = "/2d"
	AddrAnglesHeadphones   = "/2dHeadphones"
	AddrObjectPosition     = "/objectPosition"
	AddrReverbSend         = "/revsend/"
	AddrObjectPositionDBAP = "/objectPositionDBAP/"
	AddrDBAPPositions      = "/DBAPpositions"
	AddrMasterFader        = "/MasterFader"
	AddrMonoFader          = "/MonoFader"
	AddrReverbFader        = "/ReverbFader"
	AddrSoloOn             = "/soloOn"
	AddrSoloOff            = "/soloOff"
	AddrSoloAll            = "/soloAll"
	AddrEngine             = "/Engine"
	AddrDelayToggle        = "/delay/toggle/"
	AddrDelayNumber        = "/delay/number/"
	AddrReverbSize         = "/reverb/size"
	AddrReverbDecay        = "/reverb/decay"
	AddrHeartbeat          = "/heartbeat"
	AddrHeartbeatAck       = "/heartbeat_ack"
	AddrChannelIn          = "/channelIn/"
	AddrChannelOut         = "/channelOut/"
)

// Mode selects the layout of a zone angle broadcast.
type Mode int

const (
	// ModeA sends one angle per slot to /2d.
	ModeA Mode = iota
	// ModeB sends angle, 0 pairs to /2dHeadphones.
	ModeB
)

func (m Mode) String() string {
	switch m {
	case ModeA:
		return "speakers"
	case ModeB:
		return "headphones"
	}
	return "Mode(" + strconv.Itoa(int(m)) + ")"
}

// ZoneAngles encodes angles for the given mode. Every angle is rounded and
// wrapped into [0, 360). angles is not modified.
func ZoneAngles(angles []float64, mode Mode) (*osc.Message, error) {
	switch mode {
	case ModeA:
		msg := osc.NewMessage(AddrAngles)
		msg.Arguments = make([]interface{}, 0, len(angles))
		for _, a := range angles {
			msg.Arguments = append(msg.Arguments, geom.Degrees(a))
		}
		return msg, nil
	case ModeB:
		msg := osc.NewMessage(AddrAnglesHeadphones)
		msg.Arguments = make([]interface{}, 0, 2*len(angles))
		for _, a := range angles {
			msg.Arguments = append(msg.Arguments, geom.Degrees(a), int32(0))
		}
		return msg, nil
	}
	return nil, fmt.Errorf("engine: unknown mode %d", int(mode))
}

// ObjectPosition places object n (1-based) at azimuth degrees. A negative
// elevation is left off the message.
func ObjectPosition(n int, azimuth float64, elevation float64) *osc.Message {
	msg := osc.NewMessage(AddrObjectPosition, int32(n), geom.Degrees(azimuth))
	if elevation >= 0 {
		msg.Arguments = append(msg.Arguments, int32(math.Round(geom.Clamp(elevation, 0, 90))))
	}
	return msg
}

// ObjectPositions builds one ObjectPosition per point, in index order. The
// azimuth comes from codec and the elevation from the distance to the centre
// when withElevation is set.
func ObjectPositions(points []geom.Point, codec geom.Codec, withElevation bool) ([]osc.Packet, error) {
	out := make([]osc.Packet, 0, len(points))
	for i, p := range points {
		a, err := codec.Angle(p)
		if err != nil {
			return nil, fmt.Errorf("object %d: %w", i+1, err)
		}
		el := -1.0
		if withElevation {
			el = geom.Elevation(p, codec.Radius)
		}
		out = append(out, ObjectPosition(i+1, a, el))
	}
	return out, nil
}

// ReverbSend sets the reverb send of object n to level in [0, 1].
func ReverbSend(n int, level float64) *osc.Message {
	return osc.NewMessage(AddrReverbSend+strconv.Itoa(n), float32(geom.Clamp(level, 0, 1)))
}

// ObjectPositionDBAP places object n at p in the rectangular panel.
func ObjectPositionDBAP(n int, p geom.Point) *osc.Message {
	return osc.NewMessage(AddrObjectPositionDBAP+strconv.Itoa(n), float32(p.X), float32(p.Y))
}

// DBAPPositions lists loudspeaker positions as x, y pairs.
func DBAPPositions(points []geom.Point) *osc.Message {
	msg := osc.NewMessage(AddrDBAPPositions)
	msg.Arguments = make([]interface{}, 0, 2*len(points))
	for _, p := range points {
		msg.Arguments = append(msg.Arguments, float32(p.X), float32(p.Y))
	}
	return msg
}

// Heartbeat is the liveness probe.
func Heartbeat() *osc.Message {
	return osc.NewMessage(AddrHeartbeat, int32(1))
}

// MasterFader sends the master level in whole dB.
func MasterFader(db float64) *osc.Message {
	return osc.NewMessage(AddrMasterFader, int32(math.Round(db)))
}

// MonoFader sends the mono level in whole dB as a float.
func MonoFader(db float64) *osc.Message {
	return osc.NewMessage(AddrMonoFader, float32(math.Round(db)))
}

// ReverbFader sends the reverb return level in dB.
func ReverbFader(db float64) *osc.Message {
	return osc.NewMessage(AddrReverbFader, float32(db))
}

func SoloOn(ch int) *osc.Message  { return osc.NewMessage(AddrSoloOn, int32(ch)) }
func SoloOff(ch int) *osc.Message { return osc.NewMessage(AddrSoloOff, int32(ch)) }

// SoloAll enables (true) or mutes (false) the unsoloed channels.
func SoloAll(on bool) *osc.Message {
	v := int32(0)
	if on {
		v = 1
	}
	return osc.NewMessage(AddrSoloAll, v)
}

// Engine selects rendering engine 1 or 2.
func Engine(n int) (*osc.Message, error) {
	if n != 1 && n != 2 {
		return nil, fmt.Errorf("engine: no engine %d", n)
	}
	return osc.NewMessage(AddrEngine, int32(n)), nil
}

// Delay returns the toggle and delay time messages.
func Delay(enabled bool, time int) []osc.Packet {
	return []osc.Packet{
		osc.NewMessage(AddrDelayToggle, enabled),
		osc.NewMessage(AddrDelayNumber, int32(time)),
	}
}

// ReverbSize sends a room size in [0, 100].
func ReverbSize(size int) *osc.Message {
	return osc.NewMessage(AddrReverbSize, int32(geom.Clamp(float64(size), 0, 100)))
}

// ReverbDecay sends a decay in [0, 1].
func ReverbDecay(decay float64) *osc.Message {
	return osc.NewMessage(AddrReverbDecay, float32(geom.Clamp(decay, 0, 1)))
}
