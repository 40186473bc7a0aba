package lsag

import (
	"crypto/subtle"
	"encoding/binary"

	"git.gammaspectra.live/P2Pool/lsag/crypto"
	"git.gammaspectra.live/P2Pool/lsag/crypto/curve25519"
	"git.gammaspectra.live/P2Pool/lsag/ringct"
	"git.gammaspectra.live/P2Pool/lsag/utils"
)

const domainTag = "LSAG_round"

// transcript domain tag || uvarint len(message) || message || ring || I
func transcript[T curve25519.PointOperations](message []byte, ring ringct.Ring[T], I *curve25519.PublicKey[T]) []byte {
	data := make([]byte, 0, len(domainTag)+binary.MaxVarintLen64+len(message)+ring.BufferLength()+3*curve25519.PublicKeySize)
	data = append(data, domainTag...)
	data = utils.AppendCanonicalUvarint(data, uint64(len(message)))
	data = append(data, message...)
	data, _ = ring.AppendBinary(data)
	data = I.AppendBinary(data)
	return data
}

// core Walks the challenge chain, shared by sign and verify
//
//	L_i = s_i * G + c_i * P_i
//	R_i = s_i * Hp(P_i) + c_i * I
//	c_{i+1} = H_s(transcript || L_i || R_i)
//
// Returns the last challenge computed, and c_0 as seen while walking.
// When signing the last challenge is c_signer, when verifying it is c_n which must equal c_0.
func core[T curve25519.PointOperations, T2 mode[T]](message []byte, ring ringct.Ring[T], I *curve25519.PublicKey[T], s []curve25519.Scalar, m T2) (c, c0 *curve25519.Scalar) {
	data := transcript(message, ring, I)
	base := len(data)

	var start, end int
	c = new(curve25519.Scalar)

	data, start, end, *c = m.LoopConfiguration(data, len(ring))

	c0 = new(curve25519.Scalar).Set(c)

	var L, R, H curve25519.PublicKey[T]

	for j := start; j < end; j++ {
		i := j % len(ring)

		// (c_i * P_i) + (s_i * G)
		L.DoubleScalarBaseMult(c, &ring[i], &s[i])

		crypto.KeyImageGenerator(&H, &ring[i])

		// (s_i * Hp(P_i)) + (c_i * I)
		R.DoubleScalarMult(&s[i], &H, c, I)

		data = data[:base]
		data = L.AppendBinary(data)
		data = R.AppendBinary(data)
		crypto.HashToScalar(c, data)

		// c is now c_{i+1}. Selecting without a branch keeps the signer position out of timing
		if subtle.ConstantTimeEq(int32(i), int32(len(ring)-1)) == 1 {
			c0.Set(c)
		} else {
			c0.Set(c0)
		}
	}

	return c, c0
}
