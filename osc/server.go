package osc

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"time"
)

// Server represents an OSC server. The server listens on Addr for incoming
// OSC packets and bundles and hands them to its Dispatcher.
type Server struct {
	Addr        string
	Dispatcher  *Dispatcher
	ReadTimeout time.Duration
	Logger      *slog.Logger
}

// parseError wraps undecodable datagrams so Serve can skip them.
type parseError struct {
	from net.Addr
	err  error
}

func (e *parseError) Error() string { return "osc: bad packet from " + addrString(e.from) + ": " + e.err.Error() }
func (e *parseError) Unwrap() error { return e.err }

// ListenAndServe retrieves incoming OSC packets and dispatches the retrieved
// OSC packets until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.ListenPacket("udp", s.Addr)
	if err != nil {
		return err
	}
	defer ln.Close()

	return s.Serve(ctx, ln)
}

// Serve retrieves incoming OSC packets from the given connection and
// dispatches retrieved OSC packets. The connection is closed when ctx is done,
// in which case Serve returns nil.
func (s *Server) Serve(ctx context.Context, c net.PacketConn) error {
	if s.Dispatcher == nil {
		s.Dispatcher = &Dispatcher{Logger: s.Logger}
	}

	stop := context.AfterFunc(ctx, func() { c.Close() })
	defer stop()

	var tempDelay time.Duration
	for {
		msg, addr, err := s.ReceivePacket(c)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}

			var pe *parseError
			if errors.As(err, &pe) {
				s.logger().Warn("osc: dropping packet", "from", addrString(pe.from), "err", pe.err)
				continue
			}

			var ne net.Error
			if errors.As(err, &ne) && ne.Timeout() {
				tempDelay = 0
				continue
			}
			if errors.As(err, &ne) && !errors.Is(err, net.ErrClosed) {
				if tempDelay == 0 {
					tempDelay = 5 * time.Millisecond
				} else {
					tempDelay *= 2
				}
				if max := 1 * time.Second; tempDelay > max {
					tempDelay = max
				}
				s.logger().Debug("osc: read error, retrying", "err", err, "delay", tempDelay)
				time.Sleep(tempDelay)
				continue
			}
			return err
		}
		tempDelay = 0
		go s.serve(msg, addr)
	}
}

func (s *Server) serve(m Packet, a net.Addr) {
	defer recoverer(s.logger(), a)
	s.Dispatcher.Dispatch(m, a)
}

func (s *Server) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}

// ReceivePacket reads a single OSC packet from c, honouring ReadTimeout.
func (s *Server) ReceivePacket(c net.PacketConn) (Packet, net.Addr, error) {
	if s.ReadTimeout != 0 {
		if err := c.SetReadDeadline(time.Now().Add(s.ReadTimeout)); err != nil {
			return nil, nil, err
		}
	}

	b := make([]byte, MaxPacketSize)
	n, a, err := c.ReadFrom(b)
	if err != nil {
		return nil, a, err
	}

	p, err := ParsePacket(b[:n])
	if err != nil {
		return nil, a, &parseError{from: a, err: err}
	}
	return p, a, nil
}

func addrString(a net.Addr) string {
	if a == nil {
		return "unknown"
	}
	return a.String()
}
