package osc

import (
	"fmt"
	"log/slog"
	"net"
	"regexp"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"
)

// Method is an interface for OSC Methods.
type Method interface {
	HandleMessage(msg *Message)
}

// MethodFunc implements the Method interface. Type definition for an OSC Method function.
type MethodFunc func(msg *Message)

// HandleMessage calls itself with the given OSC Message. Implements the Method interface.
func (f MethodFunc) HandleMessage(msg *Message) {
	f(msg)
}

// Dispatcher handles the dispatching of received OSC Packets to Methods for their given Address.
// The zero value is ready to use.
type Dispatcher struct {
	// Logger receives panics raised by methods run from delayed bundles.
	Logger *slog.Logger

	mu      sync.RWMutex
	methods map[string]Method
}

// AddMethod adds a new OSC Method for the given OSC Address.
func (d *Dispatcher) AddMethod(addr string, method Method) error {
	if strings.ContainsAny(addr, "*?,[]{}# ") {
		return fmt.Errorf("AddMethod: OSC Method may not contain any characters in \"*?,[]{}# \"")
	}
	if !strings.HasPrefix(addr, "/") {
		return fmt.Errorf("AddMethod: OSC Method must start with '/'")
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.methods == nil {
		d.methods = make(map[string]Method)
	}

	if _, ok := d.methods[addr]; ok {
		return fmt.Errorf("AddMethod: OSC Method exists already")
	}

	d.methods[addr] = method
	return nil
}

// AddMethodFunc allows you to just pass a MethodFunc.
func (d *Dispatcher) AddMethodFunc(addr string, method MethodFunc) error {
	return d.AddMethod(addr, method)
}

// RemoveMethod unbinds addr. Unknown addresses are ignored.
func (d *Dispatcher) RemoveMethod(addr string) {
	d.mu.Lock()
	delete(d.methods, addr)
	d.mu.Unlock()
}

// Dispatch dispatches OSC Packets. Messages are handled synchronously, in
// address order; bundles are handled once their timetag is due.
func (d *Dispatcher) Dispatch(packet Packet, a net.Addr) {
	switch p := packet.(type) {
	default:
		panic(fmt.Errorf("dispatch: invalid Packet: %v", p))

	case *Message:
		for _, method := range d.matching(p.Address) {
			method.HandleMessage(p)
		}
	case *Bundle:
		time.AfterFunc(p.Timetag.ExpiresIn(), func() {
			defer recoverer(d.logger(), a)
			for _, elem := range p.Elements {
				d.Dispatch(elem, a)
			}
		})
	}
}

// matching returns the methods whose address matches pattern. The lock is not
// held while methods run, so a method may bind further methods.
func (d *Dispatcher) matching(pattern string) []Method {
	r, err := getRegEx(pattern)
	if err != nil {
		panic(fmt.Errorf("dispatch: invalid address pattern %q: %w", pattern, err))
	}
	// Only addresses with as many parts can match. A radix tree over the parts would avoid the scan.
	aParts := strings.Count(pattern, "/")

	d.mu.RLock()
	addrs := make([]string, 0, 1)
	for addr := range d.methods {
		if aParts == strings.Count(addr, "/") && r.MatchString(addr) {
			addrs = append(addrs, addr)
		}
	}
	sort.Strings(addrs)
	methods := make([]Method, len(addrs))
	for i, addr := range addrs {
		methods[i] = d.methods[addr]
	}
	d.mu.RUnlock()

	return methods
}

func (d *Dispatcher) logger() *slog.Logger {
	if d.Logger != nil {
		return d.Logger
	}
	return slog.Default()
}

func recoverer(log *slog.Logger, a net.Addr) {
	if err := recover(); err != nil {
		buf := make([]byte, 8192)
		buf = buf[:runtime.Stack(buf, false)]
		log.Error("osc: panic while handling packet", "from", a, "panic", err, "stack", string(buf))
	}
}

// getRegEx returns a regexp.Regexp for the given address.
func getRegEx(pattern string) (*regexp.Regexp, error) {
	r := strings.NewReplacer(
		".", `\.`,
		"(", `\(`,
		")", `\)`,
		"*", "[^/]*",
		"{", "(",
		",", "|",
		"}", ")",
		"?", "[^/]",
		"[!", "[^",
	)
	pattern = r.Replace(pattern)

	return regexp.Compile("^" + pattern + "$")
}
