// Package burst sends a sequence of OSC packets with a pause between each.
//
// Starting a new burst stops the one in flight and waits for it to finish
// before the first packet of the new one goes out, so two bursts never
// interleave on the wire.
package burst

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/chabad360/osc-spatial/osc"
)

// DefaultDelay is the pause between packets of one burst.
const DefaultDelay = 100 * time.Millisecond

// Transmitter sends one packet.
type Transmitter interface {
	Send(osc.Packet) error
}

// Sender runs at most one burst at a time. The zero value is not usable; set
// Transmitter before calling Start.
type Sender struct {
	Transmitter Transmitter
	Delay       time.Duration
	Logger      *slog.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// Start supersedes any burst in flight and sends packets in order from a new
// goroutine. The returned channel is closed when the burst ends, either
// because every packet was sent or because it was superseded or ctx ended.
func (s *Sender) Start(ctx context.Context, packets []osc.Packet) <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
		<-s.done
	}

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	s.cancel, s.done = cancel, done

	go func() {
		defer close(done)
		defer cancel()
		s.run(ctx, packets)
	}()
	return done
}

func (s *Sender) run(ctx context.Context, packets []osc.Packet) {
	delay := s.Delay
	if delay <= 0 {
		delay = DefaultDelay
	}

	for i, p := range packets {
		if i > 0 {
			if err := sleepCtx(ctx, delay); err != nil {
				s.logger().Debug("burst stopped", "sent", i, "total", len(packets))
				return
			}
		} else if ctx.Err() != nil {
			return
		}
		if err := s.Transmitter.Send(p); err != nil {
			s.logger().Warn("burst send failed", "index", i, "err", err)
		}
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Stop cancels the burst in flight, if any, and waits for it.
func (s *Sender) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
		<-s.done
		s.cancel, s.done = nil, nil
	}
}

// Wait blocks until the current burst ends.
func (s *Sender) Wait() {
	s.mu.Lock()
	done := s.done
	s.mu.Unlock()
	if done != nil {
		<-done
	}
}

func (s *Sender) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}
