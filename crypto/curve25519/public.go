package curve25519

import (
	"crypto/subtle"
	"errors"

	fasthex "github.com/tmthrgd/go-hex"
)

const PublicKeySize = 32

type VarTimePublicKey = PublicKey[VarTimeOperations]
type ConstantTimePublicKey = PublicKey[ConstantTimeOperations]

// PublicKey An Edwards25519 point. T decides whether scalar multiplications run in constant time.
type PublicKey[T PointOperations] struct {
	p Point
}

// To Copies a point under other operations
func To[T2 PointOperations, T1 PointOperations](u *PublicKey[T1]) *PublicKey[T2] {
	n := new(PublicKey[T2])
	n.p.Set(&u.p)
	return n
}

func (v *PublicKey[T]) op() T {
	var t T
	return t
}

func (v *PublicKey[T]) Set(u *PublicKey[T]) *PublicKey[T] {
	v.p.Set(&u.p)
	return v
}

func (v *PublicKey[T]) Add(p, q *PublicKey[T]) *PublicKey[T] {
	v.p.Add(&p.p, &q.p)
	return v
}

func (v *PublicKey[T]) Subtract(p, q *PublicKey[T]) *PublicKey[T] {
	v.p.Subtract(&p.p, &q.p)
	return v
}

func (v *PublicKey[T]) Negate(p *PublicKey[T]) *PublicKey[T] {
	v.p.Negate(&p.p)
	return v
}

func (v *PublicKey[T]) ScalarBaseMult(x *Scalar) *PublicKey[T] {
	v.op().ScalarBaseMult(&v.p, x)
	return v
}

func (v *PublicKey[T]) ScalarMult(x *Scalar, q *PublicKey[T]) *PublicKey[T] {
	v.op().ScalarMult(&v.p, x, &q.p)
	return v
}

// DoubleScalarBaseMult v = a * A + b * G
func (v *PublicKey[T]) DoubleScalarBaseMult(a *Scalar, A *PublicKey[T], b *Scalar) *PublicKey[T] {
	v.op().DoubleScalarBaseMult(&v.p, a, &A.p, b)
	return v
}

// DoubleScalarMult v = a * A + b * B
func (v *PublicKey[T]) DoubleScalarMult(a *Scalar, A *PublicKey[T], b *Scalar, B *PublicKey[T]) *PublicKey[T] {
	v.op().DoubleScalarMult(&v.p, a, &A.p, b, &B.p)
	return v
}

func (v *PublicKey[T]) MultiScalarMult(scalars []*Scalar, points []*PublicKey[T]) *PublicKey[T] {
	p := make([]*Point, len(points))
	for i := range points {
		p[i] = &points[i].p
	}
	v.op().MultiScalarMult(&v.p, scalars, p)
	return v
}

func (v *PublicKey[T]) MultByCofactor(q *PublicKey[T]) *PublicKey[T] {
	v.p.MultByCofactor(&q.p)
	return v
}

// Equal Returns 1 if v and u are equal, and 0 otherwise. Constant time
func (v *PublicKey[T]) Equal(u *PublicKey[T]) int {
	return v.p.Equal(&u.p)
}

func (v *PublicKey[T]) IsIdentity() bool {
	return v.p.Equal(identityPoint) == 1
}

// IsSmallOrder Whether the point lies within the eight-torsion subgroup, identity included
func (v *PublicKey[T]) IsSmallOrder() bool {
	return new(Point).MultByCofactor(&v.p).Equal(identityPoint) == 1
}

// IsTorsionFree Whether the point lies within the prime-order subgroup
func (v *PublicKey[T]) IsTorsionFree() bool {
	return v.op().IsTorsionFree(&v.p)
}

func (v *PublicKey[T]) Bytes() PublicKeyBytes {
	return PublicKeyBytes(v.p.Bytes())
}

func (v *PublicKey[T]) Slice() []byte {
	return v.p.Bytes()
}

func (v *PublicKey[T]) AppendBinary(preAllocatedBuf []byte) []byte {
	return append(preAllocatedBuf, v.p.Bytes()...)
}

func (v *PublicKey[T]) String() string {
	return fasthex.EncodeToString(v.Slice())
}

func (v *PublicKey[T]) P() *Point {
	return &v.p
}

// SetBytes Decodes a canonically-encoded point, failing with ErrInvalidPoint otherwise.
// Torsioned points and the identity are accepted, see DecodePrimeOrder
func (v *PublicKey[T]) SetBytes(buf []byte) (*PublicKey[T], error) {
	if len(buf) != PublicKeySize {
		return nil, ErrInvalidPoint
	}
	if DecodeCompressedPoint(v, PublicKeyBytes(buf)) == nil {
		return nil, ErrInvalidPoint
	}
	return v, nil
}

func (v PublicKey[T]) MarshalJSON() ([]byte, error) {
	return v.Bytes().MarshalJSON()
}

func (v *PublicKey[T]) UnmarshalJSON(b []byte) error {
	var k PublicKeyBytes
	if err := k.UnmarshalJSON(b); err != nil {
		return err
	}
	if _, err := v.SetBytes(k[:]); err != nil {
		return err
	}
	return nil
}

// DecodeCompressedPoint Decompress a canonically-encoded Ed25519 point.
//
// Ed25519 is of order `8 * basepointOrder`. This function ensures each of those `8 * basepointOrder` points have a
// singular encoding by checking points aren't encoded with an unreduced field element,
// and aren't negative when the negative is equivalent (0 == -0).
//
// Since this decodes an Ed25519 point, it does not check the point is in the prime-order
// subgroup. Torsioned points do have a canonical encoding, and only aren't canonical when
// considered in relation to the prime-order subgroup.
//
// To verify torsion use PublicKey.IsTorsionFree
func DecodeCompressedPoint[T PointOperations, S ~[PublicKeySize]byte](r *PublicKey[T], buf S) *PublicKey[T] {
	if r == nil {
		return nil
	}

	_, err := r.p.SetBytes(buf[:])
	if err != nil {
		return nil
	}

	// Ban points which are either unreduced or -0
	if subtle.ConstantTimeCompare(r.p.Bytes(), buf[:]) == 0 {
		return nil
	}
	return r
}

// DecodePrimeOrder Decodes a point that must be a non-identity member of the prime-order subgroup.
// Every point that is multiplied against a secret-derived challenge, such as key images, must pass this check.
func DecodePrimeOrder[T PointOperations](r *PublicKey[T], buf []byte) (*PublicKey[T], error) {
	if _, err := r.SetBytes(buf); err != nil {
		return nil, err
	}
	if r.IsIdentity() || !r.IsTorsionFree() {
		return nil, ErrInvalidPoint
	}
	return r, nil
}

type PublicKeyBytes [PublicKeySize]byte

func (k *PublicKeyBytes) Slice() []byte {
	return (*k)[:]
}

// Point Returns nil if the bytes are not a canonical point encoding
func (k *PublicKeyBytes) Point() *ConstantTimePublicKey {
	return DecodeCompressedPoint(new(ConstantTimePublicKey), *k)
}

func (k PublicKeyBytes) String() string {
	return fasthex.EncodeToString(k[:])
}

func (k *PublicKeyBytes) UnmarshalJSON(b []byte) error {
	if len(b) == 0 || len(b) == 2 {
		return nil
	}

	if len(b) != PublicKeySize*2+2 {
		return errors.New("wrong key size")
	}

	if _, err := fasthex.Decode(k[:], b[1:len(b)-1]); err != nil {
		return err
	} else {
		return nil
	}
}

func (k PublicKeyBytes) MarshalJSON() ([]byte, error) {
	var buf [PublicKeySize*2 + 2]byte
	buf[0] = '"'
	buf[PublicKeySize*2+1] = '"'
	fasthex.Encode(buf[1:], k[:])
	return buf[:], nil
}
