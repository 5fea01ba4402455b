package orc

import (
	"bufio"
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDecodeIntRLEv1(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input []byte
		count int
		want  []uint64
	}{
		{
			name:  "same run",
			input: []byte{0x61, 0x00, 0x07},
			count: 100,
			want:  repeatU64(7, 100),
		},
		{
			name:  "delta run",
			input: []byte{0x61, 0xff, 0x64},
			count: 100,
			want:  countdownU64(100, 100),
		},
		{
			name:  "literal",
			input: []byte{0xfb, 0x02, 0x03, 0x06, 0x07, 0x0b},
			count: 5,
			want:  []uint64{2, 3, 6, 7, 11},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r := bufio.NewReader(bytes.NewReader(tt.input))
			got, err := decodeIntRLEv1(r, tt.count)
			if err != nil {
				t.Fatalf("decodeIntRLEv1: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("decodeIntRLEv1() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDecodeIntRLEv1Concatenation(t *testing.T) {
	t.Parallel()

	frame := []byte{0xfb, 0x02, 0x03, 0x06, 0x07, 0x0b} // [2,3,6,7,11]
	combined := append(append(append([]byte{}, frame...), frame...), frame...)

	r := bufio.NewReader(bytes.NewReader(combined))
	got, err := decodeIntRLEv1(r, 15)
	if err != nil {
		t.Fatalf("decodeIntRLEv1: %v", err)
	}
	want := append(append([]uint64{2, 3, 6, 7, 11}, 2, 3, 6, 7, 11), 2, 3, 6, 7, 11)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("concatenation mismatch (-want +got):\n%s", diff)
	}
}

func repeatU64(v uint64, n int) []uint64 {
	out := make([]uint64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func countdownU64(from uint64, n int) []uint64 {
	out := make([]uint64, n)
	for i := range out {
		out[i] = from - uint64(i)
	}
	return out
}
