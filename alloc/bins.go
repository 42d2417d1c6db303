package alloc

import "github.com/joshuapare/heapkit/internal/format"

// The free-list registry: 46 doubly-linked bins of free chunks, each headed
// by a fixed sentinel node of size zero that is never dispensed. Within a
// bin, chunks are kept in ascending size order; equal sizes accumulate in
// insertion order. Bin i holds chunks up to bound[i] bytes.

// initBounds fills the bin bound table:
//
//	bins  0..11   40..128   stride 8
//	bins 12..19  144..256   stride 16
//	bins 20..27  288..512   stride 32
//	bins 28..35  576..1024  stride 64
//	bins 36..44  2048..524288  powers of two
//	bin  45      unbounded
func (h *Heap) initBounds() {
	i := 0
	for b := uint64(40); b <= 128; b += 8 {
		h.bounds[i] = b
		i++
	}
	for b := uint64(144); b <= 256; b += 16 {
		h.bounds[i] = b
		i++
	}
	for b := uint64(288); b <= 512; b += 32 {
		h.bounds[i] = b
		i++
	}
	for b := uint64(576); b <= 1024; b += 64 {
		h.bounds[i] = b
		i++
	}
	for b := uint64(2048); b <= 524288; b *= 2 {
		h.bounds[i] = b
		i++
	}
	h.bounds[i] = ^uint64(0)
}

// sentinel returns bin i's dummy head node.
func (h *Heap) sentinel(i int) *chunk {
	return chunkAt(h.sentinels + uintptr(i)*sentinelStride)
}

// binFor returns the lowest bin index at or above from whose bound admits
// size. Allocation-side lookups pass from=1: a rounded request already
// includes overhead and can never need bin 0, which exists only as the
// minimum-size boundary for insertion. Insertion passes from=0.
func (h *Heap) binFor(size uint64, from int) int {
	i := from
	for i < format.NumBins-1 && size > h.bounds[i] {
		i++
	}
	return i
}

// insert files a free chunk into the bin matching its own size, keeping the
// list sorted ascending. A chunk tying an existing size lands after its
// equals, before the first strictly greater element.
func (h *Heap) insert(c *chunk) {
	head := h.sentinel(h.binFor(c.size, 0))

	prev := head
	for cur := prev.binNext; cur != 0; cur = prev.binNext {
		node := chunkAt(cur)
		if c.size < node.size {
			c.binPrev, c.binNext = prev.addr(), cur
			prev.binNext, node.binPrev = c.addr(), c.addr()
			return
		}
		prev = node
	}

	// Largest in the bin: append at the tail.
	prev.binNext = c.addr()
	c.binPrev, c.binNext = prev.addr(), 0
}

// remove unlinks a free chunk from its bin. The sentinel guarantees a
// predecessor always exists, so there is no head special case. The chunk's
// linkage is cleared before it is handed onward.
func (h *Heap) remove(c *chunk) *chunk {
	left := chunkAt(c.binPrev)
	if c.binNext == 0 {
		left.binNext = 0
	} else {
		right := chunkAt(c.binNext)
		left.binNext = c.binNext
		right.binPrev = c.binPrev
	}
	c.clearLinks()
	return c
}

// searchBin walks bin i for the first chunk of at least need bytes. The
// ascending order makes the first hit the smallest fit in the bin. The hit
// is removed and returned; nil reports a miss.
func (h *Heap) searchBin(i int, need uint64) *chunk {
	for cur := h.sentinel(i).binNext; cur != 0; {
		c := chunkAt(cur)
		if c.size >= need {
			return h.remove(c)
		}
		cur = c.binNext
	}
	return nil
}

// searchHigher scans bins above i and returns the smallest chunk of the
// first non-empty one, removed; nil if every higher bin is empty. Any chunk
// in a higher bin is large enough by construction: its size exceeds that
// bin's lower boundary, which is at least bound[i].
func (h *Heap) searchHigher(i int) *chunk {
	for j := i + 1; j < format.NumBins; j++ {
		if first := h.sentinel(j).binNext; first != 0 {
			return h.remove(chunkAt(first))
		}
	}
	return nil
}
