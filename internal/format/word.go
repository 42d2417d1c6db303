package format

// A neighbor size word packs a chunk's size into the low 63 bits and its
// in-use flag into the top bit. A word of zero is the region sentinel: it
// marks "no chunk on this side" and can never collide with a real chunk
// because sizes are at least MinChunkSize.

// Pack builds a size word from a size and an in-use flag.
func Pack(size uint64, inUse bool) uint64 {
	if inUse {
		return size | FlagMask
	}
	return size
}

// WordSizeOf extracts the size field of a word, masking off the flag.
func WordSizeOf(word uint64) uint64 {
	return word & SizeMask
}

// WordInUse reports whether the chunk described by word is allocated.
func WordInUse(word uint64) bool {
	return word&FlagMask != 0
}

// WithWordSize replaces the size field of word, preserving the flag.
func WithWordSize(word, size uint64) uint64 {
	return (word & FlagMask) | size
}

// WithWordFlag replaces the flag of word, preserving the size field.
func WithWordFlag(word uint64, inUse bool) uint64 {
	if inUse {
		return word | FlagMask
	}
	return word &^ FlagMask
}
