package crypto

import (
	"crypto/rand"
	"encoding/binary"
	"io"

	"git.gammaspectra.live/P2Pool/lsag/types"
)

// RandomReader Source of all signing nonces unless another is provided. Must be a CSPRNG
var RandomReader io.Reader = rand.Reader

// DeterministicTestGenerator Keccak256 in counter mode over a seed.
// Reproducible, which makes it useful in tests, and unsuitable for anything else.
type DeterministicTestGenerator struct {
	seed    types.Hash
	counter uint64
	buf     types.Hash
	offset  int
}

func NewDeterministicTestGenerator() *DeterministicTestGenerator {
	return NewDeterministicTestGeneratorFromSeed([]byte("LSAG deterministic test generator"))
}

func NewDeterministicTestGeneratorFromSeed(seed []byte) *DeterministicTestGenerator {
	return &DeterministicTestGenerator{
		seed:   Keccak256(seed),
		offset: types.HashSize,
	}
}

func (g *DeterministicTestGenerator) Read(p []byte) (n int, err error) {
	var counter [8]byte
	for n < len(p) {
		if g.offset == types.HashSize {
			binary.LittleEndian.PutUint64(counter[:], g.counter)
			g.buf = Keccak256Var(g.seed[:], counter[:])
			g.counter++
			g.offset = 0
		}
		c := copy(p[n:], g.buf[g.offset:])
		g.offset += c
		n += c
	}
	return n, nil
}

// Permutations Amount of Keccak256 blocks produced so far
func (g *DeterministicTestGenerator) Permutations() uint64 {
	return g.counter
}
