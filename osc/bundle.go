package osc

import (
	"encoding/binary"
	"fmt"
	"time"
)

const (
	bundleTagString = "#bundle"
)

// Bundle represents an OSC bundle. It consists of the OSC-string "#bundle"
// followed by an OSC Time Tag, followed by zero or more OSC bundle/message
// elements. The OSC-timetag is a 64-bit fixed point time tag. See
// http://opensoundcontrol.org/spec-1_0.html for more information.
type Bundle struct {
	Timetag  Timetag
	Elements []Packet
}

// Verify that Bundle implements the Packet interface.
var _ Packet = (*Bundle)(nil)

// NewBundle returns an empty OSC Bundle that is due immediately.
func NewBundle(elems ...Packet) *Bundle {
	return &Bundle{Timetag: NewImmediateTimetag(), Elements: elems}
}

// NewBundleWithTime returns an OSC Bundle due at the given time.
func NewBundleWithTime(t time.Time, elems ...Packet) *Bundle {
	return &Bundle{Timetag: NewTimetagFromTime(t), Elements: elems}
}

// Append appends an OSC bundle or OSC message to the bundle.
func (b *Bundle) Append(pck Packet) error {
	switch t := pck.(type) {
	default:
		return fmt.Errorf("unsupported OSC packet type: only Bundle and Message are supported")

	case *Bundle, *Message:
		b.Elements = append(b.Elements, t)
	}

	return nil
}

// MarshalBinary implements the encoding.BinaryMarshaler interface.
func (b *Bundle) MarshalBinary() ([]byte, error) {
	buf := make([]byte, 0, 16+len(b.Elements)*32)
	buf = appendPaddedString(buf, bundleTagString)
	buf = binary.BigEndian.AppendUint64(buf, uint64(b.Timetag))

	for _, m := range b.Elements {
		bb, err := m.MarshalBinary()
		if err != nil {
			return nil, err
		}

		buf = binary.BigEndian.AppendUint32(buf, uint32(len(bb)))
		buf = append(buf, bb...)
	}

	if len(buf) > MaxPacketSize {
		return nil, fmt.Errorf("MarshalBinary: bundle too large: %d", len(buf))
	}
	return buf, nil
}

// UnmarshalBinary implements the encoding.BinaryUnmarshaler interface.
func (b *Bundle) UnmarshalBinary(data []byte) error {
	if (len(data) % bit32Size) != 0 {
		return fmt.Errorf("UnmarshalBinary: data isn't padded properly")
	}

	if len(data) < 16 {
		return fmt.Errorf("UnmarshalBinary: bundle is too short")
	}

	startTag, n, err := parsePaddedString(data)
	if err != nil {
		return err
	}
	data = data[n:]

	if startTag != bundleTagString {
		return fmt.Errorf("invalid bundle start tag: %s", startTag)
	}

	if len(data) < bit64Size {
		return fmt.Errorf("UnmarshalBinary: bundle has no timetag")
	}
	b.Timetag = Timetag(binary.BigEndian.Uint64(data[:bit64Size]))
	data = data[bit64Size:]
	b.Elements = nil

	for len(data) > 0 {
		if len(data) < bit32Size {
			return fmt.Errorf("UnmarshalBinary: truncated element size")
		}
		length := int(binary.BigEndian.Uint32(data[:bit32Size]))
		data = data[bit32Size:]
		if length <= 0 || length > len(data) {
			return fmt.Errorf("invalid bundle element length: %d", length)
		}

		p, err := ParsePacket(data[:length])
		if err != nil {
			return err
		}
		data = data[length:]
		b.Elements = append(b.Elements, p)
	}

	return nil
}
