package osc

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"sync"
)

var (
	// ErrNoRemote is returned by Send while the client has no valid target.
	ErrNoRemote = errors.New("osc: client has no remote address")
	// ErrInvalidHost is returned when a host is not an IP literal.
	ErrInvalidHost = errors.New("osc: invalid host")
)

// Client sends OSC Packets to a single remote that may be changed at any time.
// It is safe for concurrent use.
type Client struct {
	mu     sync.RWMutex
	conn   net.PacketConn
	remote *net.UDPAddr
	port   int
}

// NewClient returns a Client with no remote. SetHost must be called before
// anything can be sent; until then Send returns ErrNoRemote.
func NewClient(port int) (*Client, error) {
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("NewClient: invalid port %d", port)
	}
	conn, err := net.ListenPacket("udp", ":0")
	if err != nil {
		return nil, err
	}
	return &Client{conn: conn, port: port}, nil
}

// Dial creates a new OSC Client targeting the specified server.
func Dial(addr string) (*Client, error) {
	a, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return nil, err
	}

	conn, err := net.ListenPacket("udp", ":0")
	if err != nil {
		return nil, err
	}
	return &Client{conn: conn, remote: a, port: a.Port}, nil
}

// SetHost retargets the client to host, keeping the port. host must be an IP
// literal; on error the previous remote is kept.
func (c *Client) SetHost(host string) error {
	ip := net.ParseIP(host)
	if ip == nil {
		return fmt.Errorf("%w: %q", ErrInvalidHost, host)
	}

	c.mu.Lock()
	c.remote = &net.UDPAddr{IP: ip, Port: c.port}
	c.mu.Unlock()
	return nil
}

// Remote returns the current target as host:port, or "" if there is none.
func (c *Client) Remote() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.remote == nil {
		return ""
	}
	return net.JoinHostPort(c.remote.IP.String(), strconv.Itoa(c.remote.Port))
}

// Ready reports whether the client has a valid remote.
func (c *Client) Ready() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.remote != nil
}

// Send sends an OSC Packet to the server.
func (c *Client) Send(packet Packet) error {
	c.mu.RLock()
	remote := c.remote
	c.mu.RUnlock()
	if remote == nil {
		return ErrNoRemote
	}

	data, err := packet.MarshalBinary()
	if err != nil {
		return err
	}

	_, err = c.conn.WriteTo(data, remote)
	return err
}

// Close closes the underlying socket.
func (c *Client) Close() error {
	return c.conn.Close()
}
