package curve25519

import (
	"git.gammaspectra.live/P2Pool/edwards25519/field"
)

// Elligator2WithUniformBytes Maps 32 uniform bytes onto an Ed25519 point, possibly torsioned.
// The top bit of buf is ignored. Returns nil in the negligible case the map lands on u = -1
// Constant time
func Elligator2WithUniformBytes[T PointOperations, S ~[PublicKeySize]byte](dst *PublicKey[T], buf S) *PublicKey[T] {
	/*
	   Curve25519 is a Montgomery curve with equation `v^2 = u^3 + 486662 u^2 + u`.

	   A Curve25519 point `(u, v)` may be mapped to an Ed25519 point `(x, y)` with the map
	   `(sqrt(-(A + 2)) u / v, (u - 1) / (u + 1))`.
	*/

	var r, o, tmp1, tmp2, tmp3 field.Element
	if _, err := r.SetBytes(buf[:]); err != nil {
		return nil
	}

	// Per Section 5.5 of https://eprint.iacr.org/2013/325, take `u = 2`.
	// This is the smallest quadratic non-residue in the field
	urSquare := r.Square(&r)
	urSquareDouble := urSquare.Add(urSquare, urSquare)

	// non-zero, (p - 1) / 2 is not a square
	onePlusUrSquare := urSquareDouble.Add(_ONE, urSquareDouble)
	onePlusUrSquareInverted := onePlusUrSquare.Invert(onePlusUrSquare)

	upsilon := onePlusUrSquareInverted.Multiply(_NEGATIVE_A, onePlusUrSquareInverted)

	// -upsilon - A == upsilon * u * r^2 for the epsilon = -1 case
	otherCandidate := o.Subtract(tmp1.Negate(upsilon), _A)

	// upsilon is a valid u coordinate iff upsilon^3 + A upsilon^2 + upsilon is a square
	_, epsilon := tmp3.SqrtRatio(
		tmp3.Add(
			tmp3.Multiply(
				tmp1.Add(upsilon, _A),
				tmp2.Square(upsilon),
			),
			upsilon,
		),
		_ONE,
	)

	// select upsilon when epsilon is 1 (isSquare)
	u := r.Select(upsilon, otherCandidate, epsilon)

	// Choosing the odd y coordinate when upsilon was chosen is equivalent to the negative square root in Section 5.2
	return DecodeMontgomeryPoint(dst, u, epsilon)
}
