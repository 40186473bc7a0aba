package crypto

import (
	"errors"
	"fmt"
	"io"

	"git.gammaspectra.live/P2Pool/lsag/crypto/curve25519"
)

var ErrSecretSerialization = errors.New("secret keys cannot be serialized")

const redacted = "<redacted>"

// SecretKey Owns a private scalar.
// Its contents never reach fmt, JSON or any other encoding, and Zero wipes them.
type SecretKey struct {
	s curve25519.Scalar
}

func NewSecretKey(s *curve25519.Scalar) (*SecretKey, error) {
	if curve25519.IsZeroScalar(s) {
		return nil, curve25519.ErrInvalidScalar
	}
	k := &SecretKey{}
	k.s.Set(s)
	return k, nil
}

// Scalar Returns the inner scalar. It must not be retained past the lifetime of the key
func (k *SecretKey) Scalar() *curve25519.Scalar {
	return &k.s
}

// Zero Wipes the secret scalar
func (k *SecretKey) Zero() {
	curve25519.WipeScalar(&k.s)
}

func (k SecretKey) String() string {
	return redacted
}

func (k SecretKey) GoString() string {
	return redacted
}

func (k SecretKey) Format(f fmt.State, _ rune) {
	_, _ = io.WriteString(f, redacted)
}

func (k SecretKey) MarshalJSON() ([]byte, error) {
	return nil, ErrSecretSerialization
}

func (k SecretKey) MarshalText() ([]byte, error) {
	return nil, ErrSecretSerialization
}

func (k SecretKey) MarshalBinary() ([]byte, error) {
	return nil, ErrSecretSerialization
}

// KeyPair Spend key material supplied by the wallet. PublicKey = Secret * G
type KeyPair[T curve25519.PointOperations] struct {
	Secret    SecretKey
	PublicKey curve25519.PublicKey[T]
}

// NewKeyPairFromPrivate Copies privateKey, the caller remains responsible for wiping its own copy
func NewKeyPairFromPrivate[T curve25519.PointOperations](privateKey *curve25519.Scalar) (*KeyPair[T], error) {
	if curve25519.IsZeroScalar(privateKey) {
		return nil, curve25519.ErrInvalidScalar
	}
	k := &KeyPair[T]{}
	k.Secret.s.Set(privateKey)
	// constant time regardless of T
	k.PublicKey.P().ScalarBaseMult(&k.Secret.s)
	return k, nil
}

// GenerateKeyPair Samples a new key pair from randomReader
func GenerateKeyPair[T curve25519.PointOperations](randomReader io.Reader) (*KeyPair[T], error) {
	var s curve25519.Scalar
	defer curve25519.WipeScalar(&s)
	if curve25519.RandomScalar(&s, randomReader) == nil {
		return nil, errors.New("could not read randomness")
	}
	return NewKeyPairFromPrivate[T](&s)
}

// Zero Wipes the secret half of the pair
func (k *KeyPair[T]) Zero() {
	k.Secret.Zero()
}
