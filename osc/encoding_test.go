package osc

import (
	"errors"
	"io"
	"reflect"
	"testing"
)

func TestParsePaddedString(t *testing.T) {
	for _, tt := range []struct {
		buf   []byte // buffer
		want  int    // bytes consumed
		want1 string // resulting string
		err   error
	}{
		{[]byte{'t', 'e', 's', 't', 's', 't', 'r', 'i', 'n', 'g', 0, 0}, 12, "teststring", nil},
		{[]byte{'t', 'e', 's', 't', 'e', 'r', 's', 0}, 8, "testers", nil},
		{[]byte{'t', 'e', 's', 't', 's', 0, 0, 0}, 8, "tests", nil},
		{[]byte{'t', 'e', 's', 0, 0, 0, 0, 0}, 4, "tes", nil}, // OSC uses null terminated strings
		{[]byte{'t', 'e', 's', 't'}, 0, "", io.ErrUnexpectedEOF},
		{[]byte{'t', 'e', 's', 't', 's', 0}, 0, "", io.ErrUnexpectedEOF},
	} {
		got, got1, err := parsePaddedString(tt.buf)
		if !errors.Is(err, tt.err) {
			t.Errorf("%s: Error reading padded string: %s", tt.want1, err)
		}
		if got1 != tt.want {
			t.Errorf("%s: Bytes needed don't match; got = %d, want = %d", tt.want1, got1, tt.want)
		}
		if got != tt.want1 {
			t.Errorf("%s: Strings don't match; got = %q, want = %q", tt.want1, got, tt.want1)
		}
	}
}

func TestAppendPaddedString(t *testing.T) {
	for _, tt := range []struct {
		s    string
		want []byte
	}{
		{"", []byte{0, 0, 0, 0}},
		{"abc", []byte{'a', 'b', 'c', 0}},
		{"abcd", []byte{'a', 'b', 'c', 'd', 0, 0, 0, 0}},
		{"testString", []byte("testString\x00\x00")},
	} {
		if got := appendPaddedString(nil, tt.s); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("appendPaddedString(%q) got = %v, want %v", tt.s, got, tt.want)
		}
	}
}

func TestBlob(t *testing.T) {
	for _, data := range [][]byte{{}, {1}, {1, 2, 3, 4}, {1, 2, 3, 4, 5}} {
		raw := appendBlob(nil, data)
		if len(raw)%4 != 0 {
			t.Errorf("appendBlob(%v) not aligned: %d", data, len(raw))
		}
		got, n, err := parseBlob(raw)
		if err != nil {
			t.Fatalf("parseBlob(%v) error = %v", raw, err)
		}
		if n != len(raw) {
			t.Errorf("parseBlob() consumed %d, want %d", n, len(raw))
		}
		if !reflect.DeepEqual(got, data) {
			t.Errorf("parseBlob() got = %v, want %v", got, data)
		}
	}

	if _, _, err := parseBlob([]byte{0, 0}); err == nil {
		t.Error("parseBlob() expected error on short input")
	}
}

func TestPadBytesNeeded(t *testing.T) {
	for in, want := range map[int]int{0: 0, 1: 3, 2: 2, 3: 1, 4: 0, 32: 0, 63: 1} {
		if n := padBytesNeeded(in); n != want {
			t.Errorf("padBytesNeeded(%d) = %d, want %d", in, n, want)
		}
	}
}

func TestGetTypeTag(t *testing.T) {
	got, err := GetTypeTag([]interface{}{int32(1), float32(1), "s", []byte{}, int64(1), float64(1), Timetag(1), nil, true, false})
	if err != nil {
		t.Fatal(err)
	}
	if want := ",ifsbhdtNTF"; got != want {
		t.Errorf("GetTypeTag() got = %s, want %s", got, want)
	}
	if _, err := GetTypeTag([]interface{}{1}); err == nil {
		t.Error("GetTypeTag() expected error for int")
	}
}
