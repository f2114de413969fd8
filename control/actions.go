package control

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/chabad360/osc-spatial/engine"
	"github.com/chabad360/osc-spatial/geom"
	"github.com/chabad360/osc-spatial/heartbeat"
	"github.com/chabad360/osc-spatial/mixer"
	"github.com/chabad360/osc-spatial/osc"
	"github.com/chabad360/osc-spatial/snapshot"
	"github.com/chabad360/osc-spatial/zone"
)

// Status is a read-only view of the console.
type Status struct {
	Engine       string            `json:"engine"`
	Heartbeat    *heartbeat.Status `json:"heartbeat,omitempty"`
	Mode         string            `json:"mode"`
	Zones        []float64         `json:"zones"`
	ZoneText     string            `json:"zoneText"`
	Objects      []geom.Point      `json:"objects"`
	Labels       []string          `json:"labels"`
	Headphones   bool              `json:"headphones"`
	Delay        snapshot.Delay    `json:"delay"`
	InputChannel int               `json:"inputChannel"`
	Soloed       int               `json:"soloed"`
	Speakers     []geom.Point      `json:"speakers,omitempty"`
}

// Meters holds normalised meter levels.
type Meters struct {
	Inputs  []float64 `json:"inputs"`
	Outputs []float64 `json:"outputs"`
	Master  float64   `json:"master"`
}

// Status returns the current state.
func (c *Controller) Status(ctx context.Context) (Status, error) {
	var st Status
	err := c.do(ctx, func() error {
		st = Status{
			Mode:         c.scene.Mode().String(),
			Zones:        c.scene.Zones().Angles(),
			ZoneText:     c.scene.ZoneCountText(),
			Objects:      c.scene.Objects(),
			Labels:       c.scene.Labels(),
			Headphones:   c.scene.Headphones(),
			Delay:        c.scene.Delay(),
			InputChannel: c.scene.InputChannel(),
		}
		if c.tx != nil {
			st.Engine = c.tx.Remote()
		}
		if c.monitor != nil {
			hs := c.monitor.Status()
			st.Heartbeat = &hs
		}
		if c.solo != nil {
			st.Soloed = c.solo.Soloed()
		}
		if c.speakers != nil {
			st.Speakers = c.speakers.Positions()
		}
		return nil
	})
	return st, err
}

// Meters returns the latest meter levels. Meters are written by the OSC
// server, so this does not go through the action loop.
func (c *Controller) Meters() Meters {
	var m Meters
	if c.inputs != nil {
		m.Inputs = c.inputs.Levels()
	}
	if c.outputs != nil {
		m.Outputs = c.outputs.Levels()
	}
	if c.master != nil {
		if l := c.master.Levels(); len(l) > 0 {
			m.Master = l[0]
		}
	}
	return m
}

// Markers returns the zone markers.
func (c *Controller) Markers(ctx context.Context) ([]zone.Marker, error) {
	var out []zone.Marker
	err := c.do(ctx, func() error {
		out = c.scene.Zones().Markers()
		return nil
	})
	return out, err
}

// SetZoneCount parses text as the number of zones. Invalid text leaves the
// zones unchanged and returns a *zone.ParseError.
func (c *Controller) SetZoneCount(ctx context.Context, text string) error {
	return c.do(ctx, func() error {
		if err := c.scene.Zones().SetCountText(text); err != nil {
			return err
		}
		c.scene.SetZoneCountText(strings.TrimSpace(text))
		return nil
	})
}

// SetZoneAngle parses text as the angle of the 1-based zone index.
func (c *Controller) SetZoneAngle(ctx context.Context, index int, text string) error {
	return c.do(ctx, func() error {
		return c.scene.Zones().SetAngleText(index, text)
	})
}

// MoveZone drags the 1-based zone index onto the circle at the angle of p.
func (c *Controller) MoveZone(ctx context.Context, index int, p geom.Point) error {
	return c.do(ctx, func() error {
		return c.scene.Zones().SetPosition(index, p)
	})
}

// SnapZone moves the 1-based zone index onto the nearest object and returns
// the new angle.
func (c *Controller) SnapZone(ctx context.Context, index int) (float64, error) {
	var angle float64
	err := c.do(ctx, func() error {
		codec := c.codec()
		var candidates []float64
		for _, p := range c.scene.Objects() {
			a, err := codec.Angle(p)
			if err != nil {
				return err
			}
			candidates = append(candidates, a)
		}
		var err error
		angle, err = c.scene.Zones().SnapToNearest(index, candidates)
		return err
	})
	return angle, err
}

// SendZones broadcasts the zone angles in the mode selected by the
// headphones toggle.
func (c *Controller) SendZones(ctx context.Context) error {
	return c.do(ctx, c.sendZones)
}

func (c *Controller) sendZones() error {
	msg, err := engine.ZoneAngles(c.scene.Zones().Angles(), c.scene.Mode())
	if err != nil {
		return err
	}
	return c.send(msg)
}

// SetHeadphones switches the zone broadcast mode and resends the zones.
func (c *Controller) SetHeadphones(ctx context.Context, on bool) error {
	return c.do(ctx, func() error {
		c.scene.SetHeadphones(on)
		return c.sendZones()
	})
}

// MoveObject drags the 1-based object index to p. With free set the object
// may move inside the circle and carries an elevation; otherwise it is held
// on the circle.
func (c *Controller) MoveObject(ctx context.Context, index int, p geom.Point, free bool) error {
	return c.do(ctx, func() error {
		codec := c.codec()
		q := geom.Constrain(p, codec.Radius, free)
		if err := c.scene.SetObject(index, q); err != nil {
			return err
		}
		az, err := codec.Angle(q)
		if err != nil {
			return err
		}
		el := -1.0
		if free {
			el = geom.Elevation(p, codec.Radius)
		}
		return c.send(engine.ObjectPosition(index, az, el))
	})
}

// SetReverbSend sets the reverb send of object index from how far p lies
// between the zone circle and the outer ring.
func (c *Controller) SetReverbSend(ctx context.Context, index int, p geom.Point) error {
	return c.do(ctx, func() error {
		if _, err := c.scene.Object(index); err != nil {
			return err
		}
		level := geom.ReverbSend(p, c.scene.Zones().Radius(), c.outerRadius)
		return c.send(engine.ReverbSend(index, level))
	})
}

// SnapObject moves the 1-based object index to the nearest zone angle and
// returns that angle.
func (c *Controller) SnapObject(ctx context.Context, index int) (float64, error) {
	var angle float64
	err := c.do(ctx, func() error {
		p, err := c.scene.Object(index)
		if err != nil {
			return err
		}
		codec := c.codec()
		current, err := codec.Angle(p)
		if err != nil {
			return err
		}
		angles := c.scene.Zones().Angles()
		i := geom.Nearest(current, angles)
		if i < 0 {
			return zone.ErrNoCandidates
		}
		angle = angles[i]
		q, err := codec.Position(angle)
		if err != nil {
			return err
		}
		if err := c.scene.SetObject(index, q); err != nil {
			return err
		}
		return c.send(engine.ObjectPosition(index, angle, -1))
	})
	return angle, err
}

// SetLabel renames the 1-based label index.
func (c *Controller) SetLabel(ctx context.Context, index int, text string) error {
	return c.do(ctx, func() error {
		return c.scene.SetLabel(index, text)
	})
}

// SetInputChannel parses text as the engine input channel recorded in
// snapshots. Channels are numbered from 1.
func (c *Controller) SetInputChannel(ctx context.Context, text string) error {
	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return fmt.Errorf("%w: input channel %q", ErrInvalid, text)
	}
	if n < 1 {
		return fmt.Errorf("%w: input channel %d", ErrInvalid, n)
	}
	return c.do(ctx, func() error {
		c.scene.SetInputChannel(n)
		return nil
	})
}

// SendObjects streams every object position, in index order, as a paced
// burst. A burst already in flight is superseded.
func (c *Controller) SendObjects(ctx context.Context) error {
	return c.do(ctx, c.sendObjects)
}

func (c *Controller) sendObjects() error {
	if c.burst == nil {
		return fmt.Errorf("%w: transmitter", ErrMissingDependency)
	}
	ps, err := engine.ObjectPositions(c.scene.Objects(), c.codec(), false)
	if err != nil {
		return err
	}
	c.burst.Start(c.runCtx, ps)
	return nil
}

// WaitBurst blocks until the burst in flight, if any, finishes.
func (c *Controller) WaitBurst() {
	if c.burst != nil {
		c.burst.Wait()
	}
}

// SetEngineHost retargets the transmitter. An invalid host leaves the
// previous target in place.
func (c *Controller) SetEngineHost(ctx context.Context, host string) error {
	return c.do(ctx, func() error {
		if c.tx == nil {
			return fmt.Errorf("%w: transmitter", ErrMissingDependency)
		}
		if err := c.tx.SetHost(host); err != nil {
			return err
		}
		c.log.Info("engine host set", "remote", c.tx.Remote())
		return nil
	})
}

// Fader names accepted by SetFader.
const (
	FaderMaster = "master"
	FaderMono   = "mono"
	FaderReverb = "reverb"
)

var (
	// ErrUnknownFader is returned for a fader name SetFader does not know.
	ErrUnknownFader = errors.New("control: unknown fader")
	// ErrInvalid is returned for values the engine cannot take.
	ErrInvalid = errors.New("control: invalid value")
)

// SetFader moves the named fader to position in [0, 1] and returns the level
// sent, in dB.
func (c *Controller) SetFader(ctx context.Context, name string, position float64) (float64, error) {
	db := mixer.SliderToDecibels(position)
	var msg *osc.Message
	switch name {
	case FaderMaster:
		msg = engine.MasterFader(db)
	case FaderMono:
		msg = engine.MonoFader(db)
	case FaderReverb:
		msg = engine.ReverbFader(db)
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownFader, name)
	}
	return db, c.do(ctx, func() error { return c.send(msg) })
}

// ToggleSolo flips the solo of input ch. Soloing a channel releases any
// other.
func (c *Controller) ToggleSolo(ctx context.Context, ch int) (int, error) {
	var soloed int
	err := c.do(ctx, func() error {
		if c.solo == nil {
			return fmt.Errorf("%w: solo bank", ErrMissingDependency)
		}
		if c.tx == nil {
			return fmt.Errorf("%w: transmitter", ErrMissingDependency)
		}
		ps, err := c.solo.Toggle(ch)
		if err != nil {
			return err
		}
		soloed = c.solo.Soloed()
		return c.sendAll(ps)
	})
	return soloed, err
}

// ClearSolo releases every solo.
func (c *Controller) ClearSolo(ctx context.Context) error {
	return c.do(ctx, func() error {
		if c.solo == nil {
			return fmt.Errorf("%w: solo bank", ErrMissingDependency)
		}
		if c.tx == nil {
			return fmt.Errorf("%w: transmitter", ErrMissingDependency)
		}
		return c.sendAll(c.solo.Clear())
	})
}

// SetReverb sends the reverb room size and decay.
func (c *Controller) SetReverb(ctx context.Context, size int, decay float64) error {
	return c.do(ctx, func() error {
		return c.sendAll([]osc.Packet{engine.ReverbSize(size), engine.ReverbDecay(decay)})
	})
}

// SelectEngine switches the engine to panning algorithm n.
func (c *Controller) SelectEngine(ctx context.Context, n int) error {
	msg, err := engine.Engine(n)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return c.do(ctx, func() error { return c.send(msg) })
}

// SetDelay stores and sends the delay line state.
func (c *Controller) SetDelay(ctx context.Context, d snapshot.Delay) error {
	if d.Time < 0 {
		return fmt.Errorf("%w: negative delay %d", ErrInvalid, d.Time)
	}
	return c.do(ctx, func() error {
		c.scene.SetDelay(d)
		return c.sendAll(engine.Delay(d.Enabled, d.Time))
	})
}

// PlaceSpeaker adds a loudspeaker at p.
func (c *Controller) PlaceSpeaker(ctx context.Context, p geom.Point) error {
	return c.do(ctx, func() error {
		if c.speakers == nil {
			return fmt.Errorf("%w: speaker layout", ErrMissingDependency)
		}
		return c.speakers.Place(p)
	})
}

// RemoveSpeaker deletes the loudspeaker at p.
func (c *Controller) RemoveSpeaker(ctx context.Context, p geom.Point) error {
	return c.do(ctx, func() error {
		if c.speakers == nil {
			return fmt.Errorf("%w: speaker layout", ErrMissingDependency)
		}
		return c.speakers.Remove(p)
	})
}

// SendSpeakers sends the loudspeaker layout.
func (c *Controller) SendSpeakers(ctx context.Context) error {
	return c.do(ctx, func() error {
		if c.speakers == nil {
			return fmt.Errorf("%w: speaker layout", ErrMissingDependency)
		}
		msg, err := c.speakers.Message()
		if err != nil {
			return err
		}
		return c.send(msg)
	})
}
