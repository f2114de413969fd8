package osc

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"
)

// ErrArgument is returned by the typed accessors when an argument is missing
// or has a type that cannot be converted.
var ErrArgument = errors.New("osc: bad argument")

// Message represents a single OSC message. An OSC message consists of an OSC
// address pattern and zero or more arguments.
type Message struct {
	Address   string
	Arguments []interface{}
}

// Verify that Messages implements the Packet interface.
var _ Packet = (*Message)(nil)

// NewMessage returns a new Message. The address parameter is the OSC address.
func NewMessage(addr string, args ...interface{}) *Message {
	return &Message{Address: addr, Arguments: args}
}

// Append appends the given arguments to the arguments list. Nothing is appended
// if any of the arguments has an unsupported type.
func (m *Message) Append(args ...interface{}) error {
	for _, a := range args {
		if ToTypeTag(a) == TypeInvalid {
			return fmt.Errorf("Append: unsupported type: %T", a)
		}
	}
	m.Arguments = append(m.Arguments, args...)
	return nil
}

// Clear clears the OSC address and all arguments.
func (m *Message) Clear() {
	m.Address = ""
	m.Arguments = m.Arguments[:0]
}

// Equals reports whether m and o carry the same address and arguments.
func (m *Message) Equals(o *Message) bool {
	return reflect.DeepEqual(m, o)
}

// Match returns true, if the OSC address pattern of the OSC Message matches the given
// address. The match is case sensitive!
func (m *Message) Match(addr string) bool {
	r, err := getRegEx(m.Address)
	if err != nil {
		return false
	}
	return r.MatchString(addr)
}

// TypeTags returns the type tag string.
func (m *Message) TypeTags() (string, error) {
	if m == nil {
		return "", fmt.Errorf("TypeTags: message is nil")
	}
	return GetTypeTag(m.Arguments)
}

// Int32 returns argument i as an int32. Floats are truncated.
func (m *Message) Int32(i int) (int32, error) {
	if i < 0 || i >= len(m.Arguments) {
		return 0, fmt.Errorf("%w: %s has no argument %d", ErrArgument, m.Address, i)
	}
	switch v := m.Arguments[i].(type) {
	case int32:
		return v, nil
	case int64:
		return int32(v), nil
	case float32:
		return int32(v), nil
	case float64:
		return int32(v), nil
	case bool:
		if v {
			return 1, nil
		}
		return 0, nil
	}
	return 0, fmt.Errorf("%w: %s argument %d is %T", ErrArgument, m.Address, i, m.Arguments[i])
}

// Float32 returns argument i as a float32. Integers are converted.
func (m *Message) Float32(i int) (float32, error) {
	if i < 0 || i >= len(m.Arguments) {
		return 0, fmt.Errorf("%w: %s has no argument %d", ErrArgument, m.Address, i)
	}
	switch v := m.Arguments[i].(type) {
	case float32:
		return v, nil
	case float64:
		return float32(v), nil
	case int32:
		return float32(v), nil
	case int64:
		return float32(v), nil
	}
	return 0, fmt.Errorf("%w: %s argument %d is %T", ErrArgument, m.Address, i, m.Arguments[i])
}

// Bool returns argument i as a bool. Non-zero integers are true.
func (m *Message) Bool(i int) (bool, error) {
	if i < 0 || i >= len(m.Arguments) {
		return false, fmt.Errorf("%w: %s has no argument %d", ErrArgument, m.Address, i)
	}
	switch v := m.Arguments[i].(type) {
	case bool:
		return v, nil
	case int32:
		return v != 0, nil
	case int64:
		return v != 0, nil
	}
	return false, fmt.Errorf("%w: %s argument %d is %T", ErrArgument, m.Address, i, m.Arguments[i])
}

// String implements the fmt.Stringer interface.
func (m *Message) String() string {
	if m == nil {
		return ""
	}

	tags, err := m.TypeTags()
	if err != nil || len(m.Arguments) == 0 {
		return m.Address
	}

	var sb strings.Builder
	sb.WriteString(m.Address)
	sb.WriteByte(' ')
	sb.WriteString(tags)

	for _, arg := range m.Arguments {
		switch arg := arg.(type) {
		case bool, int32, int64, float32, float64, string:
			fmt.Fprintf(&sb, " %v", arg)

		case nil:
			sb.WriteString(" Nil")

		case []byte:
			sb.WriteString(" blob")

		case Timetag:
			fmt.Fprintf(&sb, " %d", arg.TimeTag())
		}
	}

	return sb.String()
}

// MarshalBinary implements the encoding.BinaryMarshaler interface.
func (m *Message) MarshalBinary() ([]byte, error) {
	typetags, err := m.TypeTags()
	if err != nil {
		return nil, fmt.Errorf("MarshalBinary: %w", err)
	}

	b := make([]byte, 0, len(m.Address)+len(typetags)+8+len(m.Arguments)*bit32Size)
	b = appendPaddedString(b, m.Address)
	b = appendPaddedString(b, typetags)

	for _, arg := range m.Arguments {
		if b, err = appendArgument(b, arg); err != nil {
			return nil, fmt.Errorf("MarshalBinary: %w", err)
		}
	}

	if len(b) > MaxPacketSize {
		return nil, fmt.Errorf("MarshalBinary: packet too large: %d", len(b))
	}
	return b, nil
}

// UnmarshalBinary implements the encoding.BinaryUnmarshaler
func (m *Message) UnmarshalBinary(data []byte) error {
	if len(data) == 0 || data[0] != '/' {
		return fmt.Errorf("UnmarshalBinary: data not a valid OSC message")
	}

	if (len(data) % bit32Size) != 0 {
		return fmt.Errorf("UnmarshalBinary: data isn't mod 4")
	}

	addr, n, err := parsePaddedString(data)
	if err != nil {
		return fmt.Errorf("UnmarshalBinary: %w", err)
	}

	m.Address = addr
	m.Arguments = nil
	if err = m.parseArguments(data[n:]); err != nil {
		return fmt.Errorf("UnmarshalBinary: %w", err)
	}

	return nil
}

// parseArguments reads the type tag string and every argument it announces.
func (m *Message) parseArguments(data []byte) error {
	// Messages without a type tag string are tolerated as argument-less.
	if len(data) == 0 {
		return nil
	}

	typetags, n, err := parsePaddedString(data)
	if err != nil {
		return fmt.Errorf("parseArguments: %w", err)
	}
	data = data[n:]

	if len(typetags) == 0 || typetags[0] != ',' {
		return fmt.Errorf("unsupported typetag string: %q", typetags)
	}
	if len(typetags) == 1 {
		return nil
	}

	m.Arguments = make([]interface{}, 0, len(typetags)-1)

	need := func(size int) error {
		if len(data) < size {
			return fmt.Errorf("parseArguments: not enough bytes to read")
		}
		return nil
	}

	for _, c := range typetags[1:] {
		switch TypeTag(c) {
		default:
			return fmt.Errorf("unsupported typetag: %c", c)

		case TypeInt32:
			if err := need(bit32Size); err != nil {
				return err
			}
			m.Arguments = append(m.Arguments, int32(binary.BigEndian.Uint32(data)))
			data = data[bit32Size:]

		case TypeInt64:
			if err := need(bit64Size); err != nil {
				return err
			}
			m.Arguments = append(m.Arguments, int64(binary.BigEndian.Uint64(data)))
			data = data[bit64Size:]

		case TypeFloat32:
			if err := need(bit32Size); err != nil {
				return err
			}
			m.Arguments = append(m.Arguments, math.Float32frombits(binary.BigEndian.Uint32(data)))
			data = data[bit32Size:]

		case TypeFloat64:
			if err := need(bit64Size); err != nil {
				return err
			}
			m.Arguments = append(m.Arguments, math.Float64frombits(binary.BigEndian.Uint64(data)))
			data = data[bit64Size:]

		case TypeString:
			str, n, err := parsePaddedString(data)
			if err != nil {
				return fmt.Errorf("parseArguments: %w", err)
			}
			m.Arguments = append(m.Arguments, str)
			data = data[n:]

		case TypeBlob:
			blob, n, err := parseBlob(data)
			if err != nil {
				return fmt.Errorf("parseArguments: %w", err)
			}
			if n > len(data) {
				return fmt.Errorf("parseArguments: blob padding missing")
			}
			m.Arguments = append(m.Arguments, blob)
			data = data[n:]

		case TypeTimeTag:
			if err := need(bit64Size); err != nil {
				return err
			}
			m.Arguments = append(m.Arguments, Timetag(binary.BigEndian.Uint64(data)))
			data = data[bit64Size:]

		case TypeNil:
			m.Arguments = append(m.Arguments, nil)

		case TypeTrue:
			m.Arguments = append(m.Arguments, true)

		case TypeFalse:
			m.Arguments = append(m.Arguments, false)
		}
	}

	return nil
}
