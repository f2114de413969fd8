package osc

import (
	"errors"
	"reflect"
	"testing"
)

func TestMessage_Append(t *testing.T) {
	message := NewMessage("/address")

	if err := message.Append("string argument", int32(123456789), true); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	if len(message.Arguments) != 3 {
		t.Errorf("Number of arguments should be %d and is %d", 3, len(message.Arguments))
	}

	if err := message.Append(int32(1), 5); err == nil {
		t.Error("Append() should reject int")
	}
	if len(message.Arguments) != 3 {
		t.Errorf("Append() changed arguments on error: %d", len(message.Arguments))
	}
}

func TestMessage_Match(t *testing.T) {
	tc := []struct {
		desc        string
		addr        string
		addrPattern string
		want        bool
	}{
		{"match any part", "/*/b", "/a/b", true},
		{"star does not cross parts", "/*", "/a/b", false},
		{"don't match", "/a/b", "/a", false},
		{"match alternatives", "/a/{foo,bar}", "/a/foo", true},
		{"don't match if address is not part of the alternatives", "/a/{foo,bar}", "/a/bob", false},
		{"single char", "/channelIn/?", "/channelIn/3", true},
		{"range", "/channelOut/[1-4]", "/channelOut/2", true},
		{"negated range", "/channelOut/[!1-4]", "/channelOut/2", false},
	}

	for _, tt := range tc {
		msg := NewMessage(tt.addr)

		got := msg.Match(tt.addrPattern)
		if got != tt.want {
			t.Errorf("%s: msg.Match('%s') = '%t', want = '%t'", tt.desc, tt.addrPattern, got, tt.want)
		}
	}
}

func TestMessage_MarshalBinary(t *testing.T) {
	for _, tt := range messageTestCases {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.obj.MarshalBinary()
			if (err != nil) != tt.wantErr {
				t.Errorf("MarshalBinary() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !reflect.DeepEqual(got, tt.raw) {
				t.Errorf("MarshalBinary() got = %q, want %q", got, tt.raw)
			}
		})
	}
}

func TestMessage_MarshalBinary_unsupported(t *testing.T) {
	m := &Message{Address: "/x", Arguments: []interface{}{uint8(1)}}
	if _, err := m.MarshalBinary(); err == nil {
		t.Error("MarshalBinary() expected error for uint8")
	}
}

func TestMessage_UnmarshalBinary(t *testing.T) {
	for _, tt := range messageTestCases {
		t.Run(tt.name, func(t *testing.T) {
			m := new(Message)
			if err := m.UnmarshalBinary(tt.raw); (err != nil) != tt.wantErr {
				t.Errorf("UnmarshalBinary() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !reflect.DeepEqual(m, tt.obj) {
				t.Errorf("UnmarshalBinary() got = %v, want %v", m, tt.obj)
			}
		})
	}
}

func TestMessage_UnmarshalBinary_invalid(t *testing.T) {
	tests := []struct {
		name string
		raw  []byte
	}{
		{"empty", nil},
		{"no_slash", []byte("abc\x00")},
		{"not_aligned", []byte("/ab\x00,")},
		{"missing_int", []byte("/a\x00\x00,i\x00\x00")},
		{"bad_tag", []byte("/a\x00\x00,x\x00\x00")},
		{"no_comma", []byte("/a\x00\x00i\x00\x00\x00")},
		{"short_blob", []byte("/b\x00\x00,b\x00\x00\x00\x00\x00\x09\x01\x02\x03\x00")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := new(Message).UnmarshalBinary(tt.raw); err == nil {
				t.Errorf("UnmarshalBinary(%q) expected error", tt.raw)
			}
		})
	}
}

func TestMessage_accessors(t *testing.T) {
	m := NewMessage("/x", int32(7), float32(0.5), true, "s")

	if got, err := m.Int32(0); err != nil || got != 7 {
		t.Errorf("Int32(0) got = %v, %v", got, err)
	}
	if got, err := m.Int32(1); err != nil || got != 0 {
		t.Errorf("Int32(1) got = %v, %v", got, err)
	}
	if got, err := m.Float32(0); err != nil || got != 7 {
		t.Errorf("Float32(0) got = %v, %v", got, err)
	}
	if got, err := m.Float32(1); err != nil || got != 0.5 {
		t.Errorf("Float32(1) got = %v, %v", got, err)
	}
	if got, err := m.Bool(2); err != nil || !got {
		t.Errorf("Bool(2) got = %v, %v", got, err)
	}
	if got, err := m.Bool(0); err != nil || !got {
		t.Errorf("Bool(0) got = %v, %v", got, err)
	}
	if _, err := m.Int32(3); !errors.Is(err, ErrArgument) {
		t.Errorf("Int32(3) error = %v, want ErrArgument", err)
	}
	if _, err := m.Float32(9); !errors.Is(err, ErrArgument) {
		t.Errorf("Float32(9) error = %v, want ErrArgument", err)
	}
}

func TestMessage_String(t *testing.T) {
	tests := []struct {
		msg  *Message
		want string
	}{
		{nil, ""},
		{NewMessage("/a"), "/a"},
		{NewMessage("/a", int32(1), "x", nil, []byte{1}), "/a ,isNb 1 x Nil blob"},
	}
	for _, tt := range tests {
		if got := tt.msg.String(); got != tt.want {
			t.Errorf("String() got = %q, want %q", got, tt.want)
		}
	}
}

var result interface{}

func BenchmarkMessageMarshalBinary(b *testing.B) {
	msg := NewMessage("/objectPosition", int32(3), int32(270), int32(45))
	var buf []byte
	b.ReportAllocs()
	b.ResetTimer()
	for n := 0; n < b.N; n++ {
		buf, _ = msg.MarshalBinary()
	}
	result = buf
}

func BenchmarkMessageUnmarshalBinary(b *testing.B) {
	raw, _ := NewMessage("/objectPosition", int32(3), int32(270), int32(45)).MarshalBinary()
	b.ReportAllocs()
	b.ResetTimer()
	for n := 0; n < b.N; n++ {
		m := new(Message)
		_ = m.UnmarshalBinary(raw)
		result = m
	}
}
