package osc

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

const (
	bit32Size = 4
	bit64Size = 8

	// MaxPacketSize is the largest datagram the Server will read.
	MaxPacketSize = 65535

	secondsFrom1900To1970 = 2208988800
)

////
// De/Encoding functions
////

// parseBlob parses an OSC blob from data. It returns the blob and the number of
// bytes consumed, padding included.
func parseBlob(data []byte) ([]byte, int, error) {
	if len(data) < bit32Size {
		return nil, 0, fmt.Errorf("parseBlob: %w", io.ErrUnexpectedEOF)
	}
	blobLen := int(binary.BigEndian.Uint32(data[:bit32Size]))
	data = data[bit32Size:]
	if blobLen < 0 || blobLen > len(data) {
		return nil, 0, fmt.Errorf("parseBlob: invalid blob length %d", blobLen)
	}

	n := bit32Size + blobLen
	blob := make([]byte, blobLen)
	copy(blob, data)
	return blob, n + padBytesNeeded(n), nil
}

// appendBlob appends data as an OSC blob, padded to 32 bits.
func appendBlob(b []byte, data []byte) []byte {
	b = binary.BigEndian.AppendUint32(b, uint32(len(data)))
	b = append(b, data...)
	return appendPadding(b, bit32Size+len(data))
}

// parsePaddedString reads a padded string from data and returns the string and
// the number of bytes consumed.
func parsePaddedString(data []byte) (string, int, error) {
	pos := bytes.IndexByte(data, 0)
	if pos == -1 {
		return "", 0, fmt.Errorf("parsePaddedString: %w", io.ErrUnexpectedEOF)
	}

	n := pos + 1 + padBytesNeeded(pos+1)
	if n > len(data) {
		return "", 0, fmt.Errorf("parsePaddedString: missing padding: %w", io.ErrUnexpectedEOF)
	}
	return string(data[:pos]), n, nil
}

// appendPaddedString appends str, its terminating null and the padding bytes.
func appendPaddedString(b []byte, str string) []byte {
	b = append(b, str...)
	b = append(b, 0)
	return appendPadding(b, len(str)+1)
}

func appendPadding(b []byte, n int) []byte {
	for i := padBytesNeeded(n); i > 0; i-- {
		b = append(b, 0)
	}
	return b
}

// appendArgument appends the binary form of a single argument. Arguments that
// are fully described by their type tag (bool, nil) write nothing.
func appendArgument(b []byte, arg interface{}) ([]byte, error) {
	switch t := arg.(type) {
	default:
		return b, fmt.Errorf("appendArgument: unsupported type: %T", t)

	case bool, nil:
		return b, nil
	case int32:
		return binary.BigEndian.AppendUint32(b, uint32(t)), nil
	case float32:
		return binary.BigEndian.AppendUint32(b, math.Float32bits(t)), nil
	case int64:
		return binary.BigEndian.AppendUint64(b, uint64(t)), nil
	case float64:
		return binary.BigEndian.AppendUint64(b, math.Float64bits(t)), nil
	case string:
		return appendPaddedString(b, t), nil
	case []byte:
		return appendBlob(b, t), nil
	case Timetag:
		return binary.BigEndian.AppendUint64(b, uint64(t)), nil
	}
}

// padBytesNeeded determines how many bytes are needed to fill up to the next 4
// byte length.
func padBytesNeeded(elementLen int) int {
	return (4 - (elementLen % 4)) % 4
}
