package alloc

import "github.com/joshuapare/heapkit/internal/format"

// The boundary manager: every transition that changes a chunk's extent or
// state funnels through split and coalesce, which keep the redundant words
// on both sides of every chunk boundary consistent.

// split cleaves need bytes off the front of c when the remainder would
// still be a legal chunk, files the residue back into the registry, and
// publishes c as allocated. When the remainder would fall below the minimum
// chunk size the caller keeps the whole chunk.
func (h *Heap) split(c *chunk, need uint64) {
	if c.size >= need+format.MinChunkSize {
		rest := c.size - need
		saved := *c.trailing() // describes the old follower; sentinel at a region edge

		c.size = need
		// Synthesize the new internal boundary: our trailing word names the
		// residue, free.
		c.setNextWord(format.Pack(rest, false))

		r := c.next()
		r.size = rest
		r.prevWord = format.Pack(need, false)
		r.setNextWord(saved)
		// The old follower's leading word still names the pre-split chunk;
		// publishing the residue rewrites it.
		r.publish(false)
		h.insert(r)
	}
	c.publish(true)
}

// coalesce merges a just-freed chunk with whichever memory neighbors are
// free, pulling them out of their bins first. At most one merge happens in
// each direction: the no-adjacent-free invariant held before the free, so
// the neighbor beyond a free neighbor is necessarily in use.
func (h *Heap) coalesce(c *chunk) *chunk {
	if c.prevFree() {
		p := h.remove(c.prev())
		c = h.join(p, c)
	}
	if c.nextFree() {
		n := h.remove(c.next())
		c = h.join(c, n)
	}
	return c
}

// join fuses two memory-adjacent free chunks, left first, and publishes the
// merged extent to both outward neighbors. The right chunk's trailing word
// becomes the merged chunk's trailing word in place.
func (h *Heap) join(left, right *chunk) *chunk {
	left.size += right.size
	left.publish(false)
	return left
}
