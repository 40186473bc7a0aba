package crypto

import (
	"encoding/binary"
	"hash"

	"git.gammaspectra.live/P2Pool/lsag/crypto/curve25519"
	"git.gammaspectra.live/P2Pool/lsag/types"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/sha3"
)

var (
	hashToScalarKey = []byte("LSAG_hash_to_scalar")
	hashToPointKey  = []byte("LSAG_hash_to_point")
)

func newKeccak256() hash.Hash {
	return sha3.NewLegacyKeccak256()
}

// Keccak256Var Keccak256 over the concatenation of data
func Keccak256Var[T ~string | ~[]byte](data ...T) (result types.Hash) {
	h := newKeccak256()
	for _, b := range data {
		_, _ = h.Write([]byte(b))
	}
	h.Sum(result[:0])

	return
}

func Keccak256[T ~string | ~[]byte](data T) (result types.Hash) {
	h := newKeccak256()
	_, _ = h.Write([]byte(data))
	h.Sum(result[:0])

	return
}

// ScalarDerive BytesToInt512(BLAKE2b-512_key(data)) mod l
func ScalarDerive(out *curve25519.Scalar, key []byte, data ...[]byte) *curve25519.Scalar {
	hasher, err := blake2b.New512(key)
	if err != nil {
		panic(err)
	}
	for _, b := range data {
		_, _ = hasher.Write(b)
	}
	var h [blake2b.Size]byte
	hasher.Sum(h[:0])

	curve25519.BytesToScalar64(out, h)

	return out
}

// HashToScalar Maps the concatenation of data uniformly onto the scalar field.
// Used to derive Fiat-Shamir challenges
func HashToScalar(out *curve25519.Scalar, data ...[]byte) *curve25519.Scalar {
	return ScalarDerive(out, hashToScalarKey, data...)
}

// HashToPoint Maps the concatenation of data onto the prime-order subgroup, with no known discrete logarithm relative to G.
//
// The 64-byte keyed BLAKE2b output is split in halves, each mapped through Elligator 2, the cofactor is cleared
// from both and the results are added. A single Elligator 2 application only reaches about half of the
// curve, the sum of two covers it with negligible bias.
func HashToPoint[T curve25519.PointOperations](dst *curve25519.PublicKey[T], data ...[]byte) *curve25519.PublicKey[T] {
	var counter [4]byte
	var h [blake2b.Size]byte
	var first, second curve25519.PublicKey[T]

	for i := uint32(0); ; i++ {
		hasher, err := blake2b.New512(hashToPointKey)
		if err != nil {
			panic(err)
		}
		for _, b := range data {
			_, _ = hasher.Write(b)
		}
		if i > 0 {
			// only reached if a previous attempt mapped to u = -1 or the identity
			binary.LittleEndian.PutUint32(counter[:], i)
			_, _ = hasher.Write(counter[:])
		}
		hasher.Sum(h[:0])

		if curve25519.Elligator2WithUniformBytes(&first, [curve25519.PublicKeySize]byte(h[:32])) == nil {
			continue
		}
		if curve25519.Elligator2WithUniformBytes(&second, [curve25519.PublicKeySize]byte(h[32:])) == nil {
			continue
		}

		first.MultByCofactor(&first)
		second.MultByCofactor(&second)

		dst.Add(&first, &second)
		if dst.IsIdentity() {
			continue
		}
		return dst
	}
}
