//go:build unix

package arena

import (
	"math"

	"golang.org/x/sys/unix"
)

// Map returns a fresh anonymous private mapping of exactly length bytes.
// The kernel zero-fills the pages. The mapping is intentionally never
// unmapped.
func Map(length uint64) ([]byte, error) {
	if length > math.MaxInt {
		return nil, unix.ENOMEM
	}
	return unix.Mmap(-1, 0, int(length),
		unix.PROT_READ|unix.PROT_WRITE,
		unix.MAP_PRIVATE|unix.MAP_ANON)
}
