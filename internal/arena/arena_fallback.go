//go:build !unix

package arena

import (
	"errors"
	"math"
)

var errTooLarge = errors.New("arena: region too large")

// retained pins fallback regions for the life of the process. The engine
// stores linkage words inside region bytes that the collector cannot see,
// so the backing slices must stay reachable from here.
var retained [][]byte

// Map allocates a plain Go byte slice when no mapping primitive is
// available. The runtime does not move heap objects, so chunk addresses
// inside the slice are stable.
func Map(length uint64) ([]byte, error) {
	if length > math.MaxInt {
		return nil, errTooLarge
	}
	region := make([]byte, length)
	retained = append(retained, region)
	return region, nil
}
