package lsag

import (
	"git.gammaspectra.live/P2Pool/lsag/crypto"
	"git.gammaspectra.live/P2Pool/lsag/crypto/curve25519"
)

type mode[T curve25519.PointOperations] interface {
	LoopConfiguration(data []byte, n int) (out []byte, start, end int, c curve25519.Scalar)
}

type modeVerify[T curve25519.PointOperations] struct {
	C0 curve25519.Scalar
}

func (m modeVerify[T]) LoopConfiguration(data []byte, n int) (out []byte, start, end int, c curve25519.Scalar) {
	return data, 0, n, m.C0
}

type modeSign[T curve25519.PointOperations] struct {
	SignerIndex int
	// L alpha * G
	L curve25519.PublicKey[T]
	// R alpha * Hp(P_signer)
	R curve25519.PublicKey[T]
}

func (m modeSign[T]) LoopConfiguration(data []byte, n int) (out []byte, start, end int, c curve25519.Scalar) {
	data = m.L.AppendBinary(data)
	data = m.R.AppendBinary(data)

	crypto.HashToScalar(&c, data)

	return data, m.SignerIndex + 1, m.SignerIndex + n, c
}

var _ mode[curve25519.ConstantTimeOperations] = modeVerify[curve25519.ConstantTimeOperations]{}
var _ mode[curve25519.ConstantTimeOperations] = modeSign[curve25519.ConstantTimeOperations]{}
