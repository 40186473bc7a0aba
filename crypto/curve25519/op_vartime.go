package curve25519

// VarTimeOperations Implements Variable time operations for Edwards25519 points
// Some operations may be implemented as constant time operations if no variable alternative exists
//
// Unsafe to use with private data or scalars
type VarTimeOperations struct{}

func (e VarTimeOperations) ScalarBaseMult(v *Point, x *Scalar) *Point {
	// precomputed base table is already faster than any variable time alternative
	return v.ScalarBaseMult(x)
}

func (e VarTimeOperations) ScalarMult(v *Point, x *Scalar, q *Point) *Point {
	return v.VarTimeMultiScalarMult([]*Scalar{x}, []*Point{q})
}

func (e VarTimeOperations) DoubleScalarBaseMult(v *Point, a *Scalar, A *Point, b *Scalar) *Point {
	return v.VarTimeDoubleScalarBaseMult(a, A, b)
}

func (e VarTimeOperations) DoubleScalarMult(v *Point, a *Scalar, A *Point, b *Scalar, B *Point) *Point {
	return v.VarTimeMultiScalarMult([]*Scalar{a, b}, []*Point{A, B})
}

func (e VarTimeOperations) MultiScalarMult(v *Point, scalars []*Scalar, points []*Point) *Point {
	return v.VarTimeMultiScalarMult(scalars, points)
}

func (e VarTimeOperations) IsTorsionFree(v *Point) bool {
	p := new(Point).VarTimeMultiScalarMult([]*Scalar{scalarMinusOne, scalarOne}, []*Point{v, v})
	return p.Equal(identityPoint) == 1
}

var _ PointOperations = VarTimeOperations{}
