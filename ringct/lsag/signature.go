package lsag

import (
	"fmt"
	"io"

	"git.gammaspectra.live/P2Pool/lsag/crypto"
	"git.gammaspectra.live/P2Pool/lsag/crypto/curve25519"
	"git.gammaspectra.live/P2Pool/lsag/ringct"
)

type Signature[T curve25519.PointOperations] struct {
	// C0 The challenge at ring index 0
	C0 curve25519.Scalar

	// S The responses for each ring member
	S []curve25519.Scalar

	// KeyImage x * Hp(P_signer), shared by all signatures of the same key
	KeyImage curve25519.PublicKey[T]
}

// Sign Produces an LSAG signature over message, proving knowledge of the secret of ring[signerIndex]
// without revealing signerIndex.
//
// keyPair is not checked against ring[signerIndex], a mismatch produces a signature that does not verify.
func Sign[T curve25519.PointOperations](message []byte, ring ringct.Ring[T], signerIndex int, keyPair *crypto.KeyPair[T], randomReader io.Reader) (Signature[T], error) {
	if len(ring) < ringct.MinRingSize || len(ring) > ringct.MaxRingSize {
		return Signature[T]{}, fmt.Errorf("%w: %d", ringct.ErrInvalidRingSize, len(ring))
	}
	if signerIndex < 0 || signerIndex >= len(ring) {
		return Signature[T]{}, fmt.Errorf("%w: %d", ringct.ErrIndexOutOfRange, signerIndex)
	}

	// everything below touches the secret, so it runs in constant time regardless of T
	ctRing := make(ringct.Ring[curve25519.ConstantTimeOperations], len(ring))
	for i := range ring {
		ctRing[i].P().Set(ring[i].P())
	}

	x := keyPair.Secret.Scalar()

	var H, I curve25519.ConstantTimePublicKey
	crypto.KeyImageGenerator(&H, &ctRing[signerIndex])
	I.ScalarMult(x, &H)

	var alpha, cx curve25519.Scalar
	defer curve25519.WipeScalar(&alpha)
	defer curve25519.WipeScalar(&cx)

	if curve25519.RandomScalar(&alpha, randomReader) == nil {
		return Signature[T]{}, ErrRandomness
	}

	// the signer response is overwritten once the ring closes
	s := make([]curve25519.Scalar, len(ring))
	for i := range s {
		if curve25519.RandomScalar(&s[i], randomReader) == nil {
			return Signature[T]{}, ErrRandomness
		}
	}

	m := modeSign[curve25519.ConstantTimeOperations]{
		SignerIndex: signerIndex,
	}
	m.L.ScalarBaseMult(&alpha)
	m.R.ScalarMult(&alpha, &H)

	c, c0 := core(message, ctRing, &I, s, m)

	// s_signer = alpha - c_signer * x
	cx.Multiply(c, x)
	s[signerIndex].Subtract(&alpha, &cx)

	return Signature[T]{
		C0:       *c0,
		S:        s,
		KeyImage: *curve25519.To[T](&I),
	}, nil
}

// Verify Checks the signature against message and ring.
//
// err is only set, wrapping ErrMalformedSignature, when the signature or ring is structurally invalid.
// A well-formed signature that does not close its challenge chain returns false and no error.
func (s *Signature[T]) Verify(message []byte, ring ringct.Ring[T]) (ok bool, err error) {
	// all inputs are public, use variable time operations regardless of T
	vtRing := make(ringct.Ring[curve25519.VarTimeOperations], len(ring))
	for i := range ring {
		vtRing[i].P().Set(ring[i].P())
	}
	if err = vtRing.Validate(); err != nil {
		return false, malformed(err)
	}

	if len(s.S) != len(vtRing) {
		return false, malformed(fmt.Errorf("%w: %d responses, %d members", ErrInvalidResponseCount, len(s.S), len(vtRing)))
	}

	I := curve25519.To[curve25519.VarTimeOperations](&s.KeyImage)
	if I.IsIdentity() || !I.IsTorsionFree() {
		return false, malformed(ErrInvalidKeyImage)
	}

	c, _ := core(message, vtRing, I, s.S, modeVerify[curve25519.VarTimeOperations]{
		C0: s.C0,
	})

	return c.Equal(&s.C0) == 1, nil
}
