package osc

import (
	"reflect"
	"testing"
	"time"
)

func TestBundle_MarshalBinary(t *testing.T) {
	for _, tt := range bundleTestCases {
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

func TestBundle_UnmarshalBinary(t *testing.T) {
	for _, tt := range bundleTestCases {
		t.Run(tt.name, func(t *testing.T) {
			b := new(Bundle)
			if err := b.UnmarshalBinary(tt.raw); (err != nil) != tt.wantErr {
				t.Errorf("UnmarshalBinary() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !reflect.DeepEqual(b, tt.obj) {
				t.Errorf("UnmarshalBinary() got = %v, want %v", b, tt.obj)
			}
		})
	}
}

func TestBundle_UnmarshalBinary_invalid(t *testing.T) {
	tests := []struct {
		name string
		raw  []byte
	}{
		{"short", []byte("#bundle\x00")},
		{"wrong_tag", []byte("#bundlx\x00\x00\x00\x00\x00\x00\x00\x00\x01")},
		{"element_too_long", []byte("#bundle\x00\x00\x00\x00\x00\x00\x00\x00\x01\x00\x00\x00\x40/a\x00\x00")},
		{"element_zero", []byte("#bundle\x00\x00\x00\x00\x00\x00\x00\x00\x01\x00\x00\x00\x00")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := new(Bundle).UnmarshalBinary(tt.raw); err == nil {
				t.Errorf("UnmarshalBinary(%q) expected error", tt.raw)
			}
		})
	}
}

func TestBundle_Append(t *testing.T) {
	b := NewBundle()
	if err := b.Append(NewMessage("/a")); err != nil {
		t.Errorf("Append() error = %v", err)
	}
	if err := b.Append(NewBundleWithTime(time.Now())); err != nil {
		t.Errorf("Append() error = %v", err)
	}
	if err := b.Append(nil); err == nil {
		t.Error("Append(nil) expected error")
	}
	if len(b.Elements) != 2 {
		t.Errorf("Append() got %d elements, want 2", len(b.Elements))
	}
	if b.Timetag != NewImmediateTimetag() {
		t.Errorf("NewBundle() timetag = %v, want immediate", b.Timetag)
	}
}
