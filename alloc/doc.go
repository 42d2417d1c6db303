// Package alloc implements a classical malloc/free heap over anonymous OS
// memory mappings.
//
// # Overview
//
// The engine hands out byte buffers of caller-chosen size and takes them
// back, with the usual contract: a returned buffer is exclusively the
// caller's until freed, holds at least the requested length, is aligned to
// 8 bytes, and arrives uninitialized.
//
// Memory is organized as chunks laid side by side inside OS-mapped regions.
// Each chunk brackets its payload with three 8-byte metadata words:
//
//	+----------------------------------+
//	| size of previous chunk + flag    |
//	+----------------------------------+
//	| size of this chunk               |
//	+----------------------------------+  <- address returned to the caller
//	| payload ...                      |
//	|   (first 16 bytes hold the bin   |
//	|    linkage while the chunk is    |
//	|    free)                         |
//	+----------------------------------+
//	| size of next chunk + flag        |
//	+----------------------------------+
//
// The top bit of a neighbor word flags the described chunk as in use. A
// word of zero marks a region edge. Since the two words around every chunk
// boundary are redundant, each state transition rewrites both.
//
// # Free lists
//
// Free chunks wait in 46 size-segregated bins, each a doubly-linked list
// headed by a fixed sentinel and sorted ascending by size. Allocation takes
// the smallest fit from the matching bin, falls back to the first chunk of
// the next non-empty bin, and finally maps a fresh region (at least 128 KiB;
// oversize requests get their own page-rounded region). Oversized chunks are
// split and the residue refiled; freed chunks merge with free memory
// neighbors before refiling, so no two free chunks ever touch.
//
// Regions are never returned to the operating system; a freed buffer only
// ever goes back into the bins.
//
// # Usage
//
//	p := alloc.Malloc(64)
//	if p == nil {
//		// out of memory
//	}
//	defer alloc.Free(p)
//
// or with an explicit engine:
//
//	h, err := alloc.New()
//	if err != nil { ... }
//	buf := h.AllocBytes(1 << 20)
//
// # Thread safety
//
// The engine is single-threaded by design: no internal locking exists and
// concurrent use of one Heap (or of Malloc/Free) is undefined. Callers
// needing stricter alignment than 8 bytes must over-allocate and align
// themselves.
package alloc
