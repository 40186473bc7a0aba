package curve25519

import (
	"io"
)

// RandomScalar Samples a uniform non-zero scalar through wide reduction of 64 bytes read from r.
// Returns nil if r fails. r must be a cryptographically secure source outside of tests
func RandomScalar(k *Scalar, r io.Reader) *Scalar {
	var buf [64]byte
	defer WipeBytes(buf[:])
	for {
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return nil
		}

		BytesToScalar64(k, buf)

		if !IsZeroScalar(k) {
			return k
		}
	}
}

// RandomPoint Use for testing
func RandomPoint[T PointOperations](k *PublicKey[T], r io.Reader) *PublicKey[T] {
	s := RandomScalar(new(Scalar), r)
	if s == nil {
		return nil
	}
	return k.ScalarBaseMult(s)
}
