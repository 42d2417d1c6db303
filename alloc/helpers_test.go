package alloc

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/heapkit/internal/arena"
	"github.com/joshuapare/heapkit/internal/format"
)

// newTestHeap builds an engine that records every region acquisition.
func newTestHeap(t *testing.T) (*Heap, *[]uint64) {
	t.Helper()
	h, err := New()
	require.NoError(t, err)
	regions := &[]uint64{}
	h.onMap = func(length uint64) {
		*regions = append(*regions, length)
	}
	return h, regions
}

// carve maps a fresh region and hand-shapes it into chunks of the given
// sizes, all marked in use, followed by an in-use remainder chunk filling
// the rest of the region. Returned chunks are not filed in any bin.
func carve(t *testing.T, sizes ...uint64) []*chunk {
	t.Helper()
	var total uint64
	for _, s := range sizes {
		require.Zero(t, s%format.WordSize, "carve size %d unaligned", s)
		require.GreaterOrEqual(t, s, uint64(format.MinChunkSize))
		total += s
	}
	region, err := arena.Map(arena.RegionSize(total + format.MinChunkSize))
	require.NoError(t, err)
	length := uint64(len(region))
	require.GreaterOrEqual(t, length-total, uint64(format.MinChunkSize))

	all := append(append([]uint64{}, sizes...), length-total)
	addr := uintptr(unsafe.Pointer(unsafe.SliceData(region)))
	chunks := make([]*chunk, 0, len(all))
	prevWord := uint64(0)
	for _, s := range all {
		c := chunkAt(addr)
		c.prevWord = prevWord
		c.size = s
		prevWord = format.Pack(s, true)
		addr += uintptr(s)
		chunks = append(chunks, c)
	}
	for i, c := range chunks {
		if i+1 < len(chunks) {
			c.setNextWord(format.Pack(chunks[i+1].size, true))
		} else {
			c.setNextWord(0)
		}
	}
	return chunks[:len(sizes)]
}

// binChunks collects the chunks of bin i in list order.
func binChunks(h *Heap, i int) []*chunk {
	var out []*chunk
	for cur := h.sentinel(i).binNext; cur != 0; cur = chunkAt(cur).binNext {
		out = append(out, chunkAt(cur))
	}
	return out
}

// checkInvariants walks every bin and asserts the reachable-state
// invariants: ascending in-bin order with consistent back-links, minimal
// bin index, legal sizes, agreement of both boundary words describing each
// free chunk, and no free chunk touching another free chunk. Returns the
// free chunk count and the total free bytes.
func checkInvariants(t *testing.T, h *Heap) (count int, bytes uint64) {
	t.Helper()
	for i := range format.NumBins {
		head := h.sentinel(i)
		prevAddr := head.addr()
		prevSize := uint64(0)
		for cur := head.binNext; cur != 0; {
			c := chunkAt(cur)
			count++
			bytes += c.size

			require.Equal(t, prevAddr, c.binPrev, "bin %d: broken back-link", i)
			require.GreaterOrEqual(t, c.size, prevSize, "bin %d not ascending", i)
			require.GreaterOrEqual(t, c.size, uint64(format.MinChunkSize))
			require.Zero(t, c.size%format.WordSize, "bin %d: unaligned size %d", i, c.size)
			require.Equal(t, h.binFor(c.size, 0), i, "chunk of size %d in bin %d", c.size, i)

			if c.hasPrev() {
				left := *(*uint64)(unsafe.Pointer(c.addr() - format.WordSize))
				require.Equal(t, format.Pack(c.size, false), left,
					"bin %d: left view of free chunk disagrees", i)
				require.False(t, c.prevFree(), "two adjacent free chunks")
			}
			if c.hasNext() {
				require.Equal(t, format.Pack(c.size, false), c.next().prevWord,
					"bin %d: right view of free chunk disagrees", i)
				require.False(t, c.nextFree(), "two adjacent free chunks")
			}

			prevAddr, prevSize, cur = cur, c.size, c.binNext
		}
	}
	return count, bytes
}

func sum(xs []uint64) uint64 {
	var total uint64
	for _, x := range xs {
		total += x
	}
	return total
}
