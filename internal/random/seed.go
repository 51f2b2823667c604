// Package random draws tournament seeds from crypto/rand.
package random

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
)

// NewSeed returns a positive seed below 2^31 so it can be passed back on the
// command line to replay the same tournament.
func NewSeed() (int64, error) {
	var b [4]byte
	for {
		if _, err := crand.Read(b[:]); err != nil {
			return 0, fmt.Errorf("read random seed: %w", err)
		}
		if seed := int64(binary.LittleEndian.Uint32(b[:]) & 0x7fffffff); seed != 0 {
			return seed, nil
		}
	}
}
