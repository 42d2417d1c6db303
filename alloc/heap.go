package alloc

import (
	"os"
	"unsafe"

	"github.com/rs/zerolog"

	"github.com/joshuapare/heapkit/internal/arena"
	"github.com/joshuapare/heapkit/internal/format"
)

// Diagnostics on mapping failure are permitted but not part of the
// contract; they are emitted only when HEAPKIT_LOG_ALLOC is set.
var (
	logAlloc = os.Getenv("HEAPKIT_LOG_ALLOC") != ""
	diag     = zerolog.New(os.Stderr).With().Timestamp().Str("component", "alloc").Logger()
)

// Heap is the allocator engine: the bin bound table and the sentinel block
// heading the 46 free lists. The sentinel block lives in arena memory, not
// the Go heap, because free chunks hold raw addresses into it.
//
// A Heap is not safe for concurrent use.
type Heap struct {
	sentinels uintptr
	bounds    [format.NumBins]uint64

	// onMap is a test hook observing each region acquisition (nil in
	// production).
	onMap func(length uint64)
}

// New creates an engine with empty bins. The only failure mode is the OS
// refusing the sentinel block's mapping; the caller may retry later.
func New() (*Heap, error) {
	block, err := arena.Map(format.PageSize)
	if err != nil {
		if logAlloc {
			diag.Warn().Err(err).Msg("engine init: sentinel block mapping failed")
		}
		return nil, ErrInit
	}
	h := &Heap{sentinels: uintptr(unsafe.Pointer(unsafe.SliceData(block)))}
	h.initBounds()
	for i := range format.NumBins {
		s := h.sentinel(i)
		s.size = 0
		s.clearLinks()
	}
	return h, nil
}

// Alloc returns a pointer to at least n writable, 8-byte-aligned,
// uninitialized bytes, or nil when n exceeds format.MaxRequest or the OS is
// out of memory. The buffer is
// exclusively the caller's until passed to Free.
func (h *Heap) Alloc(n uint64) unsafe.Pointer {
	if n > format.MaxRequest {
		return nil
	}
	need := format.Align8(n + format.ChunkOverhead)
	if need < format.MinChunkSize {
		need = format.MinChunkSize
	}

	i := h.binFor(need, 1)
	c := h.searchBin(i, need)
	if c == nil {
		c = h.searchHigher(i)
	}
	if c == nil {
		c = h.mapChunk(need)
		if c == nil {
			return nil
		}
	}

	h.split(c, need)
	return c.payload()
}

// AllocBytes is Alloc with the payload returned as a byte slice of length
// n. Freeing requires the payload origin: pass &b[0] (or the pointer from
// Alloc) to Free.
func (h *Heap) AllocBytes(n uint64) []byte {
	p := h.Alloc(n)
	if p == nil {
		return nil
	}
	return unsafe.Slice((*byte)(p), n)
}

// Free returns a buffer obtained from Alloc to the engine: the chunk is
// marked free in both neighbors' views, merged with any free neighbor, and
// filed back into the registry. Freeing a pointer the engine did not hand
// out, or freeing twice, is undefined.
func (h *Heap) Free(p unsafe.Pointer) {
	c := fromPayload(p)
	c.publish(false)
	h.insert(h.coalesce(c))
}

// mapChunk asks the OS for a fresh region sized for need and shapes it into
// a single in-use chunk spanning the whole region, with zero sentinel words
// at both edges.
func (h *Heap) mapChunk(need uint64) *chunk {
	length := arena.RegionSize(need)
	region, err := arena.Map(length)
	if err != nil {
		if logAlloc {
			diag.Warn().Err(err).Uint64("length", length).Msg("region mapping failed")
		}
		return nil
	}
	c := chunkAt(uintptr(unsafe.Pointer(unsafe.SliceData(region))))
	c.prevWord = 0
	c.size = length
	c.setNextWord(0)
	if h.onMap != nil {
		h.onMap(length)
	}
	return c
}

//---- process-wide default engine

// std is the lazily-initialized process-wide heap behind Malloc and Free.
// It is created on the first Malloc and lives until process exit. Failed
// initialization leaves it nil so a later Malloc retries.
var std *Heap

// Malloc allocates n bytes from the process-wide heap, initializing it on
// first use. Returns nil on out-of-memory or initialization failure.
func Malloc(n uint64) unsafe.Pointer {
	if std == nil {
		h, err := New()
		if err != nil {
			return nil
		}
		std = h
	}
	return std.Alloc(n)
}

// Free releases a buffer obtained from Malloc.
func Free(p unsafe.Pointer) {
	if std == nil || p == nil {
		return
	}
	std.Free(p)
}
