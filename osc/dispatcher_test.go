package osc

import (
	"net"
	"sync"
	"testing"
	"time"
)

func TestDispatcher_AddMethodFunc(t *testing.T) {
	type args struct {
		addr   string
		method MethodFunc
	}
	tests := []struct {
		name    string
		methods map[string]Method
		args    args
		wantErr bool
	}{
		{"valid", nil, args{"/address/test", func(_ *Message) {}}, false},
		{"invalid", nil, args{"/address*/test", func(_ *Message) {}}, true},
		{"no_slash", nil, args{"address", func(_ *Message) {}}, true},
		{"already_exists", map[string]Method{"/address/test": MethodFunc(func(_ *Message) {})}, args{"/address/test", func(_ *Message) {}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := &Dispatcher{
				methods: tt.methods,
			}
			if err := d.AddMethodFunc(tt.args.addr, tt.args.method); (err != nil) != tt.wantErr {
				t.Errorf("AddMethodFunc() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func adder(n int32) MethodFunc {
	return func(msg *Message) {
		msg.Arguments[0] = msg.Arguments[0].(int32) + n
	}
}

var testDispatcher = &Dispatcher{
	methods: map[string]Method{
		"/osc":     adder(1),
		"/os":      adder(2),
		"/osv":     adder(4),
		"/osabc":   adder(8),
		"/osc123":  adder(16),
		"/osc1b3":  adder(32),
		"/oscz":    adder(64),
		"/osc/z":   adder(128),
		"/osc/23f": adder(256),
	},
}

func TestDispatcher_Dispatch(t *testing.T) {
	type args struct {
		packet Packet
		a      net.Addr
	}
	tests := []struct {
		name   string
		args   args
		expect int32
	}{
		{"single", args{NewMessage("/osc", int32(0)), nil}, 1},
		{"c_or_not", args{NewMessage("/os{c,}", int32(0)), nil}, 3},
		{"single_any", args{NewMessage("/os{?,}", int32(0)), nil}, 7},
		{"single_must", args{NewMessage("/os{c,v}", int32(0)), nil}, 5},
		{"match_in_part", args{NewMessage("/osc{?,}z", int32(0)), nil}, 64},
		{"match_multiple_parts", args{NewMessage("/osc/?", int32(0)), nil}, 128},
		{"star_in_part", args{NewMessage("/osc/*", int32(0)), nil}, 384},
		{"no_match", args{NewMessage("/nothing", int32(0)), nil}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testDispatcher.Dispatch(tt.args.packet, tt.args.a)
			p := tt.args.packet.(*Message)
			if p.Arguments[0].(int32) != tt.expect {
				t.Errorf("Dispatch() got = %v, expect %v", p.Arguments[0], tt.expect)
			}
		})
	}
}

func TestDispatcher_DispatchBundle(t *testing.T) {
	var (
		mu  sync.Mutex
		got []string
	)
	done := make(chan struct{}, 2)
	d := &Dispatcher{}
	for _, addr := range []string{"/a", "/b"} {
		if err := d.AddMethodFunc(addr, func(msg *Message) {
			mu.Lock()
			got = append(got, msg.Address)
			mu.Unlock()
			done <- struct{}{}
		}); err != nil {
			t.Fatal(err)
		}
	}

	d.Dispatch(NewBundleWithTime(time.Now().Add(20*time.Millisecond), NewMessage("/a"), NewMessage("/b")), nil)

	for i := 0; i < 2; i++ {
		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("bundle was never dispatched")
		}
	}
	mu.Lock()
	defer mu.Unlock()
	if len(got) != 2 || got[0] != "/a" || got[1] != "/b" {
		t.Errorf("Dispatch() handled %v, want [/a /b]", got)
	}
}

func TestDispatcher_RemoveMethod(t *testing.T) {
	calls := 0
	d := &Dispatcher{}
	_ = d.AddMethodFunc("/a", func(*Message) { calls++ })
	d.Dispatch(NewMessage("/a"), nil)
	d.RemoveMethod("/a")
	d.Dispatch(NewMessage("/a"), nil)
	if calls != 1 {
		t.Errorf("RemoveMethod(): handler called %d times, want 1", calls)
	}
	if err := d.AddMethodFunc("/a", func(*Message) {}); err != nil {
		t.Errorf("AddMethodFunc() after RemoveMethod error = %v", err)
	}
}
