// Package arena acquires raw memory regions from the operating system for
// the allocator engine. Regions are anonymous, private, read-write, zero
// filled, and page aligned. Once acquired a region is never returned; the
// engine owns it for the life of the process.
package arena

import "github.com/joshuapare/heapkit/internal/format"

// RegionSize returns the mapping length used to satisfy a chunk of `need`
// total bytes. Requests at or below the fixed bulk get exactly the bulk;
// larger requests get one spare page beyond the rounded-up page count.
func RegionSize(need uint64) uint64 {
	if need <= format.RegionMinSize {
		return format.RegionMinSize
	}
	pages := (need+format.PageSize-1)/format.PageSize + 1
	return pages * format.PageSize
}
