package internal

import (
	"encoding/binary"

	"golang.org/x/crypto/sha3"
)

// SeededSource is a deterministic golang.org/x/exp/rand.Source whose stream is
// the SHAKE128 expansion of a seed, so that simulations are reproducible from
// a printable seed string.
type SeededSource struct {
	xof sha3.ShakeHash
	buf [8]byte
}

// NewSeededSource creates a source expanding the given seed
func NewSeededSource(seed string) *SeededSource {
	s := &SeededSource{}
	s.reset([]byte(seed))
	return s
}

func (s *SeededSource) reset(seed []byte) {
	s.xof = sha3.NewShake128()
	s.xof.Write(seed)
}

// Uint64 returns the next 8 bytes of the stream, little endian
func (s *SeededSource) Uint64() uint64 {
	s.xof.Read(s.buf[:])
	return binary.LittleEndian.Uint64(s.buf[:])
}

// Seed restarts the stream from the 8-byte encoding of seed
func (s *SeededSource) Seed(seed uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], seed)
	s.reset(b[:])
}

// Read fills p from the stream; it never fails
func (s *SeededSource) Read(p []byte) (int, error) {
	return s.xof.Read(p)
}
