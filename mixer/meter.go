package mixer

import (
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"sync"

	"github.com/chabad360/osc-spatial/osc"
)

// MeterBank tracks the levels reported on prefix1 … prefixN. Levels are
// normalised to [0, 1] against [floor, 0] dB. It is safe for concurrent use.
type MeterBank struct {
	prefix string
	first  int
	floor  float64
	log    *slog.Logger

	mu     sync.RWMutex
	levels []float64
}

// NewMeterBank returns a bank of channels meters numbered from first.
func NewMeterBank(prefix string, first, channels int, floor float64, log *slog.Logger) *MeterBank {
	if log == nil {
		log = slog.Default()
	}
	return &MeterBank{
		prefix: prefix,
		first:  first,
		floor:  floor,
		log:    log,
		levels: make([]float64, channels),
	}
}

// Bind registers one method per channel on d.
func (b *MeterBank) Bind(d *osc.Dispatcher) error {
	for i := range b.levels {
		i := i
		addr := b.prefix + strconv.Itoa(b.first+i)
		if err := d.AddMethodFunc(addr, func(msg *osc.Message) { b.receive(i, msg) }); err != nil {
			return fmt.Errorf("bind %s: %w", addr, err)
		}
	}
	return nil
}

func (b *MeterBank) receive(i int, msg *osc.Message) {
	v, err := msg.Float32(0)
	if err != nil {
		b.log.Debug("meter: ignoring message", "addr", msg.Address, "err", err)
		return
	}
	if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
		b.log.Debug("meter: dropping non-finite level", "addr", msg.Address, "value", v)
		return
	}
	b.Set(i, float64(v))
}

// Set records an amplitude for the channel at the 0-based position i.
// Non-finite amplitudes are ignored.
func (b *MeterBank) Set(i int, amplitude float64) {
	if math.IsNaN(amplitude) || math.IsInf(amplitude, 0) {
		return
	}
	level := DecibelsToUnit(LinearToDecibels(amplitude), b.floor, 0)
	b.mu.Lock()
	if i >= 0 && i < len(b.levels) {
		b.levels[i] = level
	}
	b.mu.Unlock()
}

// Levels returns a copy of the normalised levels.
func (b *MeterBank) Levels() []float64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]float64(nil), b.levels...)
}
