// Package control serialises every operator action on one goroutine.
//
// The Controller owns the scene, the zone ring, the speaker layout and the
// solo bank. Callers on any goroutine submit actions; Run executes them one
// at a time in submission order. Paced sends run in the background on the
// burst sender and never block the action loop.
package control

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/chabad360/osc-spatial/burst"
	"github.com/chabad360/osc-spatial/geom"
	"github.com/chabad360/osc-spatial/heartbeat"
	"github.com/chabad360/osc-spatial/mixer"
	"github.com/chabad360/osc-spatial/osc"
	"github.com/chabad360/osc-spatial/scene"
	"github.com/chabad360/osc-spatial/snapshot"
	"github.com/chabad360/osc-spatial/speakers"
)

var (
	// ErrMissingDependency is returned by actions whose collaborator was not
	// configured. The action does nothing.
	ErrMissingDependency = errors.New("control: missing dependency")
	// ErrStopped is returned once Run has returned.
	ErrStopped = errors.New("control: controller stopped")
)

// Transmitter sends packets to the engine. *osc.Client implements it.
type Transmitter interface {
	Send(osc.Packet) error
	Ready() bool
	SetHost(host string) error
	Remote() string
}

type action struct {
	fn   func() error
	done chan error
}

// Controller is the single writer of the console state.
type Controller struct {
	scene    *scene.Scene
	tx       Transmitter
	store    *snapshot.Store
	burst    *burst.Sender
	solo     *mixer.SoloBank
	speakers *speakers.Layout
	monitor  *heartbeat.Monitor
	inputs   *mixer.MeterBank
	outputs  *mixer.MeterBank
	master   *mixer.MeterBank
	log      *slog.Logger

	outerRadius  float64
	burstDelay   time.Duration
	startupDelay time.Duration
	autoload     bool

	actions chan action
	stopped chan struct{}
	// runCtx lives as long as Run and carries background bursts.
	runCtx context.Context
}

// Option configures a Controller.
type Option func(*Controller)

func WithTransmitter(tx Transmitter) Option      { return func(c *Controller) { c.tx = tx } }
func WithStore(s *snapshot.Store) Option         { return func(c *Controller) { c.store = s } }
func WithSoloBank(s *mixer.SoloBank) Option      { return func(c *Controller) { c.solo = s } }
func WithSpeakers(l *speakers.Layout) Option     { return func(c *Controller) { c.speakers = l } }
func WithMonitor(m *heartbeat.Monitor) Option    { return func(c *Controller) { c.monitor = m } }
func WithLogger(l *slog.Logger) Option           { return func(c *Controller) { c.log = l } }
func WithBurstDelay(d time.Duration) Option      { return func(c *Controller) { c.burstDelay = d } }
func WithOuterRadius(r float64) Option           { return func(c *Controller) { c.outerRadius = r } }
func WithMeters(in, out *mixer.MeterBank) Option { return func(c *Controller) { c.inputs, c.outputs = in, out } }
func WithMasterMeter(m *mixer.MeterBank) Option  { return func(c *Controller) { c.master = m } }

// WithAutoload loads the most recently used snapshot delay after Run starts.
func WithAutoload(delay time.Duration) Option {
	return func(c *Controller) { c.autoload, c.startupDelay = true, delay }
}

// New returns a controller over sc. Run must be called before any action
// completes.
func New(sc *scene.Scene, opts ...Option) (*Controller, error) {
	if sc == nil {
		return nil, fmt.Errorf("%w: scene", ErrMissingDependency)
	}
	c := &Controller{
		scene:   sc,
		log:     slog.Default(),
		actions: make(chan action),
		stopped: make(chan struct{}),
		runCtx:  context.Background(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.outerRadius <= sc.Zones().Radius() {
		c.outerRadius = sc.Zones().Radius() + 1
	}
	if c.tx != nil {
		c.burst = &burst.Sender{Transmitter: c.tx, Delay: c.burstDelay, Logger: c.log}
	}
	return c, nil
}

// Run executes actions until ctx is done. It must be called exactly once.
func (c *Controller) Run(ctx context.Context) error {
	c.runCtx = ctx
	defer close(c.stopped)
	defer func() {
		if c.burst != nil {
			c.burst.Stop()
		}
	}()

	var startup <-chan time.Time
	if c.autoload {
		t := time.NewTimer(c.startupDelay)
		defer t.Stop()
		startup = t.C
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case a := <-c.actions:
			a.done <- a.fn()
		case <-startup:
			startup = nil
			if _, err := c.loadLastUsed(ctx); err != nil {
				c.log.Warn("startup autoload failed", "err", err)
			}
		}
	}
}

// do submits fn to the action loop and waits for its result.
func (c *Controller) do(ctx context.Context, fn func() error) error {
	a := action{fn: fn, done: make(chan error, 1)}
	select {
	case c.actions <- a:
	case <-c.stopped:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case err := <-a.done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Controller) send(p osc.Packet) error {
	if c.tx == nil {
		return fmt.Errorf("%w: transmitter", ErrMissingDependency)
	}
	return c.tx.Send(p)
}

func (c *Controller) sendAll(ps []osc.Packet) error {
	for _, p := range ps {
		if err := c.send(p); err != nil {
			return err
		}
	}
	return nil
}

func (c *Controller) codec() geom.Codec {
	return geom.Codec{Radius: c.scene.Zones().Radius()}
}
