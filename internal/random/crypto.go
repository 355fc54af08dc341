package random

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"fmt"
)

// cryptoSource implements Source using crypto/rand.
type cryptoSource struct{}

// NewCryptoSource returns a Source backed by crypto/rand.
//
// Postcondition: Every value returned by Float64 is in [0, 1).
func NewCryptoSource() Source {
	return &cryptoSource{}
}

// Float64 reads eight bytes from crypto/rand.
func (c *cryptoSource) Float64(ctx context.Context) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("%w: crypto/rand: %v", ErrUnavailable, err)
	}
	return unitFromUint64(binary.LittleEndian.Uint64(b[:])), nil
}
