package safeconv_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Sumatoshi-tech/codeloom/pkg/safeconv"
)

func TestUint64ToInt64(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		in     uint64
		want   int64
		wantOK bool
	}{
		{name: "small_value", in: 42, want: 42, wantOK: true},
		{name: "zero", in: 0, want: 0, wantOK: true},
		{name: "boundary_fits", in: math.MaxInt64, want: math.MaxInt64, wantOK: true},
		{name: "one_past_boundary", in: math.MaxInt64 + 1, want: 0, wantOK: false},
		{name: "max_uint64", in: math.MaxUint64, want: 0, wantOK: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, ok := safeconv.Uint64ToInt64(tc.in)
			assert.Equal(t, tc.wantOK, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestMustInt64ToUint64(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   int64
		want uint64
	}{
		{name: "small_value", in: 42, want: 42},
		{name: "zero", in: 0, want: 0},
		{name: "max_int64", in: math.MaxInt64, want: math.MaxInt64},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.want, safeconv.MustInt64ToUint64(tc.in))
		})
	}
}

func TestMustInt64ToUint64_NegativePanics(t *testing.T) {
	t.Parallel()

	assert.PanicsWithValue(t, "safeconv: negative int64 to uint64 conversion", func() {
		safeconv.MustInt64ToUint64(-1)
	})
}
