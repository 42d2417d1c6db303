package format

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPackRoundTrip(t *testing.T) {
	cases := []struct {
		name  string
		size  uint64
		inUse bool
	}{
		{"min free", MinChunkSize, false},
		{"min busy", MinChunkSize, true},
		{"region free", RegionMinSize, false},
		{"large busy", 1 << 40, true},
		{"max size", SizeMask, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := Pack(tc.size, tc.inUse)
			require.Equal(t, tc.size, WordSizeOf(w))
			require.Equal(t, tc.inUse, WordInUse(w))
		})
	}
}

func TestWithWordSizePreservesFlag(t *testing.T) {
	w := Pack(128, true)
	w = WithWordSize(w, 256)
	require.Equal(t, uint64(256), WordSizeOf(w))
	require.True(t, WordInUse(w))

	w = Pack(128, false)
	w = WithWordSize(w, 256)
	require.Equal(t, uint64(256), WordSizeOf(w))
	require.False(t, WordInUse(w))
}

func TestWithWordFlagPreservesSize(t *testing.T) {
	w := Pack(4096, false)
	w = WithWordFlag(w, true)
	require.True(t, WordInUse(w))
	require.Equal(t, uint64(4096), WordSizeOf(w))

	w = WithWordFlag(w, false)
	require.False(t, WordInUse(w))
	require.Equal(t, uint64(4096), WordSizeOf(w))

	// Clearing an already-clear flag must be a no-op, not a toggle.
	w = WithWordFlag(w, false)
	require.False(t, WordInUse(w))
}

func TestZeroWordIsSentinel(t *testing.T) {
	require.Equal(t, uint64(0), WordSizeOf(0))
	require.False(t, WordInUse(0))
}

func TestAlign8(t *testing.T) {
	cases := []struct{ in, want uint64 }{
		{0, 0},
		{1, 8},
		{8, 8},
		{9, 16},
		{25, 32},
		{40, 40},
		{41, 48},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, Align8(tc.in), "Align8(%d)", tc.in)
	}
}
