package crypto

import (
	"sync"

	"git.gammaspectra.live/P2Pool/lsag/crypto/curve25519"
	"github.com/floatdrop/lru"
)

// KeyImageGeneratorCacheSize Amount of ring members whose key image generator is kept around
const KeyImageGeneratorCacheSize = 8192

var keyImageGeneratorCache = lru.New[curve25519.PublicKeyBytes, curve25519.Point](KeyImageGeneratorCacheSize)
var keyImageGeneratorCacheLock sync.Mutex

// KeyImageGenerator Hp(P), the base point a key image for P is computed over.
// Every ring member needs it on every signature and verification, so results are memoized.
func KeyImageGenerator[T curve25519.PointOperations](dst, pub *curve25519.PublicKey[T]) *curve25519.PublicKey[T] {
	key := pub.Bytes()

	keyImageGeneratorCacheLock.Lock()
	p := keyImageGeneratorCache.Get(key)
	if p != nil {
		dst.P().Set(p)
	}
	keyImageGeneratorCacheLock.Unlock()

	if p != nil {
		return dst
	}

	HashToPoint(dst, key[:])

	keyImageGeneratorCacheLock.Lock()
	defer keyImageGeneratorCacheLock.Unlock()
	keyImageGeneratorCache.Set(key, *dst.P())

	return dst
}

// GetKeyImage I = x * Hp(P)
//
// I only depends on the key pair, it is identical for every signature the key produces, which is what allows
// detecting a second spend without learning which ring member produced it.
func GetKeyImage[T curve25519.PointOperations](dst *curve25519.PublicKey[T], pair *KeyPair[T]) *curve25519.PublicKey[T] {
	var generator curve25519.PublicKey[T]
	KeyImageGenerator(&generator, &pair.PublicKey)
	// secret scalar, always constant time
	dst.P().ScalarMult(pair.Secret.Scalar(), generator.P())
	return dst
}
