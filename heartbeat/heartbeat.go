// Package heartbeat tracks whether the audio engine is answering.
//
// A Monitor sends a heartbeat on every tick whether or not the engine is
// connected. Any acknowledgement marks the engine Connected; the connection
// only drops once no acknowledgement has arrived for longer than the timeout.
package heartbeat

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/chabad360/osc-spatial/engine"
	"github.com/chabad360/osc-spatial/osc"
)

const (
	DefaultInterval = time.Second
	DefaultTimeout  = 2 * time.Second
)

// State is the connection state seen by the monitor.
type State int

const (
	Disconnected State = iota
	Connected
)

func (s State) String() string {
	if s == Connected {
		return "connected"
	}
	return "disconnected"
}

// Transmitter is the part of osc.Client the monitor needs.
type Transmitter interface {
	Send(osc.Packet) error
	Ready() bool
}

// Status is a point in time view of the monitor.
type Status struct {
	State   State     `json:"-"`
	Name    string    `json:"state"`
	LastAck time.Time `json:"lastAck,omitzero"`
	Sent    uint64    `json:"sent"`
	Acks    uint64    `json:"acks"`
}

// Monitor is safe for concurrent use. Acks usually arrive on the OSC server
// goroutine while Beat runs on the ticker.
type Monitor struct {
	tx       Transmitter
	interval time.Duration
	timeout  time.Duration
	now      func() time.Time
	log      *slog.Logger

	mu       sync.Mutex
	state    State
	lastAck  time.Time
	sent     uint64
	acks     uint64
	onChange func(State)

	// notifyMu orders callbacks; notified is the last state delivered.
	notifyMu sync.Mutex
	notified State
}

// Option configures a Monitor.
type Option func(*Monitor)

func WithInterval(d time.Duration) Option { return func(m *Monitor) { m.interval = d } }
func WithTimeout(d time.Duration) Option  { return func(m *Monitor) { m.timeout = d } }
func WithLogger(l *slog.Logger) Option    { return func(m *Monitor) { m.log = l } }

// WithClock replaces time.Now. Tests use it to step through timeouts.
func WithClock(now func() time.Time) Option { return func(m *Monitor) { m.now = now } }

// OnChange registers fn to be called after every state transition. fn runs
// on the goroutine that caused the transition, outside the monitor lock.
// Calls are serialised and always carry the state current at delivery, so
// racing transitions collapse rather than arrive out of order.
func OnChange(fn func(State)) Option { return func(m *Monitor) { m.onChange = fn } }

// New returns a Disconnected monitor sending through tx.
func New(tx Transmitter, opts ...Option) *Monitor {
	m := &Monitor{
		tx:       tx,
		interval: DefaultInterval,
		timeout:  DefaultTimeout,
		now:      time.Now,
		log:      slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.interval <= 0 {
		m.interval = DefaultInterval
	}
	if m.timeout <= 0 {
		m.timeout = DefaultTimeout
	}
	return m
}

// Beat sends one heartbeat if the transmitter has a valid remote, then drops
// the connection if the last acknowledgement is too old.
func (m *Monitor) Beat() {
	if m.tx != nil && m.tx.Ready() {
		if err := m.tx.Send(engine.Heartbeat()); err != nil {
			m.log.Debug("heartbeat send failed", "err", err)
		} else {
			m.mu.Lock()
			m.sent++
			m.mu.Unlock()
		}
	}

	m.mu.Lock()
	changed := false
	if m.state == Connected && m.now().Sub(m.lastAck) > m.timeout {
		m.state = Disconnected
		changed = true
	}
	m.mu.Unlock()
	if changed {
		m.notify()
	}
}

// Ack records an acknowledgement from the engine.
func (m *Monitor) Ack() {
	m.mu.Lock()
	m.lastAck = m.now()
	m.acks++
	changed := m.state != Connected
	m.state = Connected
	m.mu.Unlock()
	if changed {
		m.notify()
	}
}

func (m *Monitor) notify() {
	m.notifyMu.Lock()
	defer m.notifyMu.Unlock()

	m.mu.Lock()
	s, fn := m.state, m.onChange
	m.mu.Unlock()
	if s == m.notified {
		return
	}
	m.notified = s

	if s == Connected {
		m.log.Info("engine connected")
	} else {
		m.log.Warn("engine heartbeat lost", "timeout", m.timeout)
	}
	if fn != nil {
		fn(s)
	}
}

// Status returns the current state.
func (m *Monitor) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Status{State: m.state, Name: m.state.String(), LastAck: m.lastAck, Sent: m.sent, Acks: m.acks}
}

// Connected reports whether the engine is currently answering.
func (m *Monitor) Connected() bool {
	return m.Status().State == Connected
}

// Bind routes engine acknowledgements on d to the monitor.
func (m *Monitor) Bind(d *osc.Dispatcher) error {
	return d.AddMethodFunc(engine.AddrHeartbeatAck, func(*osc.Message) { m.Ack() })
}

// Run beats once immediately and then on every interval until ctx is done.
func (m *Monitor) Run(ctx context.Context) error {
	t := time.NewTicker(m.interval)
	defer t.Stop()
	m.Beat()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			m.Beat()
		}
	}
}
