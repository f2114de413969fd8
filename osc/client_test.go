package osc

import (
	"errors"
	"net"
	"strconv"
	"testing"
	"time"
)

func TestClient_SetHost(t *testing.T) {
	c, err := NewClient(9000)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	if c.Ready() {
		t.Error("Ready() = true before SetHost")
	}
	if err := c.Send(NewMessage("/heartbeat", int32(1))); !errors.Is(err, ErrNoRemote) {
		t.Errorf("Send() error = %v, want ErrNoRemote", err)
	}

	tests := []struct {
		host    string
		wantErr bool
		remote  string
	}{
		{"192.168.1.20", false, "192.168.1.20:9000"},
		{"not an ip", true, "192.168.1.20:9000"},
		{"", true, "192.168.1.20:9000"},
		{"::1", false, "[::1]:9000"},
	}
	for _, tt := range tests {
		err := c.SetHost(tt.host)
		if (err != nil) != tt.wantErr {
			t.Errorf("SetHost(%q) error = %v, wantErr %v", tt.host, err, tt.wantErr)
		}
		if tt.wantErr && !errors.Is(err, ErrInvalidHost) {
			t.Errorf("SetHost(%q) error = %v, want ErrInvalidHost", tt.host, err)
		}
		if got := c.Remote(); got != tt.remote {
			t.Errorf("Remote() after SetHost(%q) = %s, want %s", tt.host, got, tt.remote)
		}
	}
}

func TestNewClient_invalidPort(t *testing.T) {
	for _, port := range []int{0, -1, 70000} {
		if _, err := NewClient(port); err == nil {
			t.Errorf("NewClient(%d) expected error", port)
		}
	}
}

func TestClient_SendRetargeted(t *testing.T) {
	ln, err := net.ListenPacket("udp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer ln.Close()

	port := ln.LocalAddr().(*net.UDPAddr).Port
	c, err := NewClient(port)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()
	if err := c.SetHost("127.0.0.1"); err != nil {
		t.Fatal(err)
	}
	if got, want := c.Remote(), "127.0.0.1:"+strconv.Itoa(port); got != want {
		t.Errorf("Remote() = %s, want %s", got, want)
	}

	if err := c.Send(NewMessage("/2d", int32(0), int32(90))); err != nil {
		t.Fatal(err)
	}

	p, _, err := (&Server{ReadTimeout: 2 * time.Second}).ReceivePacket(ln)
	if err != nil {
		t.Fatal(err)
	}
	if got := p.(*Message).String(); got != "/2d ,ii 0 90" {
		t.Errorf("received %s", got)
	}
}
