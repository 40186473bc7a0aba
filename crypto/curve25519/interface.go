package curve25519

// PointOperations Selects how scalar multiplications over Edwards25519 points are performed.
//
// Use ConstantTimeOperations whenever a secret scalar, or a point derived from one, is involved.
// VarTimeOperations is only safe on public data, such as during signature verification.
type PointOperations interface {
	ScalarBaseMult(v *Point, x *Scalar) *Point
	ScalarMult(v *Point, x *Scalar, q *Point) *Point

	// DoubleScalarBaseMult v = a * A + b * G
	DoubleScalarBaseMult(v *Point, a *Scalar, A *Point, b *Scalar) *Point
	// DoubleScalarMult v = a * A + b * B
	DoubleScalarMult(v *Point, a *Scalar, A *Point, b *Scalar, B *Point) *Point

	MultiScalarMult(v *Point, scalars []*Scalar, points []*Point) *Point

	IsTorsionFree(v *Point) bool
}
