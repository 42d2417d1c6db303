package alloc

import (
	"unsafe"

	"github.com/joshuapare/heapkit/internal/format"
)

// chunk is the view of one chunk's metadata at the start of its byte range.
// The layout inside a region, for a chunk of size S at address p:
//
//	p          size word of the preceding chunk, with its in-use flag
//	           (zero when no chunk precedes in this region)
//	p+8        this chunk's own size
//	p+16       payload while allocated; bin linkage while free
//	p+S-8      size word of the following chunk, with its in-use flag
//	           (zero when no chunk follows in this region)
//
// Every boundary between two chunks is therefore described twice: the left
// chunk's trailing word names the right chunk, and the right chunk's leading
// word names the left chunk. Both views must stay consistent with each
// chunk's own size field; publish keeps them so.
//
// Chunks live only in memory obtained from the arena, never in the Go heap,
// so the linkage fields hold raw addresses the collector does not inspect.
type chunk struct {
	prevWord uint64  // size+flag of the preceding chunk; region sentinel if 0
	size     uint64  // own size, no flag
	binPrev  uintptr // bin linkage, engine-owned while free
	binNext  uintptr // bin linkage, engine-owned while free
}

// sentinelStride spaces the per-bin sentinel nodes inside the engine's
// sentinel block.
const sentinelStride = unsafe.Sizeof(chunk{})

func chunkAt(addr uintptr) *chunk {
	return (*chunk)(unsafe.Pointer(addr))
}

// fromPayload recovers the chunk from the address handed to the caller.
func fromPayload(p unsafe.Pointer) *chunk {
	return chunkAt(uintptr(p) - format.PayloadOffset)
}

func (c *chunk) addr() uintptr {
	return uintptr(unsafe.Pointer(c))
}

// payload is the caller-visible start of the chunk.
func (c *chunk) payload() unsafe.Pointer {
	return unsafe.Pointer(c.addr() + format.PayloadOffset)
}

// trailing points at the chunk's trailing word, which describes the
// following chunk. Valid only while c.size is correct.
func (c *chunk) trailing() *uint64 {
	return (*uint64)(unsafe.Pointer(c.addr() + uintptr(c.size) - format.WordSize))
}

//---- preceding neighbor, through the leading word

func (c *chunk) hasPrev() bool {
	return c.prevWord != 0
}

func (c *chunk) prevSize() uint64 {
	return format.WordSizeOf(c.prevWord)
}

func (c *chunk) prevFree() bool {
	return c.hasPrev() && !format.WordInUse(c.prevWord)
}

func (c *chunk) prev() *chunk {
	return chunkAt(c.addr() - uintptr(c.prevSize()))
}

// setPrevSize rewrites the leading word's size field, preserving the flag.
func (c *chunk) setPrevSize(size uint64) {
	c.prevWord = format.WithWordSize(c.prevWord, size)
}

//---- following neighbor, through the trailing word

func (c *chunk) hasNext() bool {
	return *c.trailing() != 0
}

func (c *chunk) nextSize() uint64 {
	return format.WordSizeOf(*c.trailing())
}

func (c *chunk) nextFree() bool {
	w := *c.trailing()
	return w != 0 && !format.WordInUse(w)
}

func (c *chunk) next() *chunk {
	return chunkAt(c.addr() + uintptr(c.size))
}

// setNextWord rewrites the trailing word wholesale.
func (c *chunk) setNextWord(word uint64) {
	*c.trailing() = word
}

//---- publication

// publish writes this chunk's size and in-use flag into the two neighbor
// words that describe it: the left neighbor's trailing word and the right
// neighbor's leading word. Region edges have no describing word and are
// left alone. Every size- or state-changing transition ends with a publish
// so that both neighbors' views agree with the chunk itself.
func (c *chunk) publish(inUse bool) {
	w := format.Pack(c.size, inUse)
	if c.hasPrev() {
		// The left neighbor's trailing word sits just before us.
		*(*uint64)(unsafe.Pointer(c.addr() - format.WordSize)) = w
	}
	if c.hasNext() {
		c.next().prevWord = w
	}
}

// clearLinks drops the bin linkage after removal so no dangling addresses
// survive into the caller's payload view.
func (c *chunk) clearLinks() {
	c.binPrev, c.binNext = 0, 0
}
