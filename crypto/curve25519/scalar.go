package curve25519

import (
	"git.gammaspectra.live/P2Pool/edwards25519" //nolint:depguard
)

type Scalar = edwards25519.Scalar

type Point = edwards25519.Point

// basepointOrder is the order of the Ed25519 basepoint, i.e., l = 2^252 + 27742317777372353535851937790883648493.
var basepointOrder = [32]byte{0xed, 0xd3, 0xf5, 0x5c, 0x1a, 0x63, 0x12, 0x58, 0xd6, 0x9c, 0xf7, 0xa2, 0xde, 0xf9, 0xde, 0x14, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x10}

var (
	zeroScalar     = edwards25519.NewScalar()
	scalarOne      = (&PrivateKeyBytes{1}).Scalar()
	scalarMinusOne = new(Scalar).Negate(scalarOne)

	identityPoint = edwards25519.NewIdentityPoint()
)

// ScalarIsReduced32 Whether a is strictly lower than the group order. Variable time
func ScalarIsReduced32[T ~[PrivateKeySize]byte](a T) bool {
	for n := 31; n >= 0; n-- {
		if a[n] < basepointOrder[n] {
			return true
		} else if a[n] > basepointOrder[n] {
			return false
		}
	}

	return false
}

// NewScalarFromBytes Decodes a canonical 32-byte little endian scalar.
// Inputs that are not already reduced modulo the group order fail with ErrInvalidScalar.
func NewScalarFromBytes(buf []byte) (*Scalar, error) {
	if len(buf) != PrivateKeySize {
		return nil, ErrInvalidScalar
	}
	s, err := new(Scalar).SetCanonicalBytes(buf)
	if err != nil {
		return nil, ErrInvalidScalar
	}
	return s, nil
}

//go:nosplit
func BytesToScalar64(c *Scalar, buf [64]byte) {
	_, _ = c.SetUniformBytes(buf[:])
}

// IsZeroScalar Constant time
func IsZeroScalar(s *Scalar) bool {
	return s.Equal(zeroScalar) == 1
}

// WipeScalar Overwrites s with zero. Used on secret material once it is no longer needed
func WipeScalar(s *Scalar) {
	s.Set(zeroScalar)
}

// WipeBytes Overwrites buf with zero bytes
func WipeBytes(buf []byte) {
	clear(buf)
}
