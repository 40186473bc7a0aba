package curve25519

import (
	"encoding/binary"

	"git.gammaspectra.live/P2Pool/edwards25519/field"
)

// DecodeMontgomeryPoint Maps a Curve25519 u coordinate onto Ed25519, choosing the x sign from sign
// Constant time
func DecodeMontgomeryPoint[T PointOperations](r *PublicKey[T], u *field.Element, sign int) *PublicKey[T] {
	if u == nil || u.Equal(_NEGATIVE_ONE) == 1 {
		return nil
	}

	var tmp1, tmp2, y field.Element

	// The birational map is y = (u-1)/(u+1).
	y.Multiply(
		tmp1.Subtract(u, _ONE),
		tmp2.Invert(tmp2.Add(u, _ONE)),
	)

	var yBytes [32]byte
	copy(yBytes[:], y.Bytes())
	yBytes[31] ^= byte(sign << 7)

	return DecodeCompressedPoint(r, yBytes)
}

func elementFromUint64(x uint64) *field.Element {
	var b [32]byte
	binary.LittleEndian.PutUint64(b[:], x)

	e, err := new(field.Element).SetBytes(b[:])
	if err != nil {
		panic(err)
	}
	return e
}

var (
	_ONE          = new(field.Element).One()
	_NEGATIVE_ONE = new(field.Element).Negate(_ONE)

	// _A is equal to 486662, which is a constant of the curve equation for Curve25519 in its Montgomery form.
	_A          = elementFromUint64(486662)
	_NEGATIVE_A = new(field.Element).Negate(_A)
)
