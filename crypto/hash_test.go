package crypto

import (
	"bytes"
	"testing"

	"git.gammaspectra.live/P2Pool/lsag/crypto/curve25519"
	"git.gammaspectra.live/P2Pool/lsag/types"
)

func TestKeccak256(t *testing.T) {
	// Keccak256 of the empty string, as used by Ethereum and Monero
	expected := types.MustHashFromString("c5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a470")
	if h := Keccak256([]byte{}); h != expected {
		t.Fatalf("expected %s, got %s", expected, h)
	}

	if Keccak256Var("ab", "c") != Keccak256("abc") {
		t.Fatal("Keccak256Var must hash the concatenation of its inputs")
	}
}

func TestHashToScalar(t *testing.T) {
	a := HashToScalar(new(curve25519.Scalar), []byte("message"))
	b := HashToScalar(new(curve25519.Scalar), []byte("mess"), []byte("age"))
	if a.Equal(b) != 1 {
		t.Fatal("expected concatenation to hash identically")
	}

	c := HashToScalar(new(curve25519.Scalar), []byte("message!"))
	if a.Equal(c) == 1 {
		t.Fatal("expected different inputs to hash differently")
	}

	// output is always canonical
	if _, err := curve25519.NewScalarFromBytes(a.Bytes()); err != nil {
		t.Fatal(err)
	}

	// domain separated from a plain scalar derivation
	d := ScalarDerive(new(curve25519.Scalar), []byte("other"), []byte("message"))
	if a.Equal(d) == 1 {
		t.Fatal("expected different keys to hash differently")
	}
}

func testHashToPoint[T curve25519.PointOperations](t *testing.T) {
	rng := NewDeterministicTestGenerator()
	seen := make(map[curve25519.PublicKeyBytes]struct{})

	var buf [40]byte
	for i := 0; i < 256; i++ {
		_, _ = rng.Read(buf[:])

		var p curve25519.PublicKey[T]
		HashToPoint(&p, buf[:])

		if p.IsIdentity() {
			t.Fatalf("identity for input %x", buf)
		}
		if !p.IsTorsionFree() {
			t.Fatalf("torsioned point for input %x", buf)
		}

		var again curve25519.PublicKey[T]
		HashToPoint(&again, buf[:])
		if p.Equal(&again) != 1 {
			t.Fatalf("not deterministic for input %x", buf)
		}

		seen[p.Bytes()] = struct{}{}
	}

	if len(seen) != 256 {
		t.Fatalf("expected 256 distinct points, got %d", len(seen))
	}
}

func TestHashToPoint(t *testing.T) {
	t.Run("ConstantTime", testHashToPoint[curve25519.ConstantTimeOperations])
	t.Run("VarTime", testHashToPoint[curve25519.VarTimeOperations])

	t.Run("Agree", func(t *testing.T) {
		a := HashToPoint(new(curve25519.ConstantTimePublicKey), []byte("agree"))
		b := HashToPoint(new(curve25519.VarTimePublicKey), []byte("agree"))
		if !bytes.Equal(a.Slice(), b.Slice()) {
			t.Fatalf("expected %s, got %s", a, b)
		}
	})
}

func TestDeterministicTestGenerator(t *testing.T) {
	a := NewDeterministicTestGenerator()
	b := NewDeterministicTestGenerator()

	var bufA, bufB [100]byte
	_, _ = a.Read(bufA[:])
	for i := 0; i < len(bufB); i += 7 {
		_, _ = b.Read(bufB[i:min(i+7, len(bufB))])
	}
	if bufA != bufB {
		t.Fatal("expected read sizes to not affect the stream")
	}

	if a.Permutations() != 4 {
		t.Fatalf("expected 4 permutations, got %d", a.Permutations())
	}

	c := NewDeterministicTestGeneratorFromSeed([]byte("other"))
	var bufC [100]byte
	_, _ = c.Read(bufC[:])
	if bufA == bufC {
		t.Fatal("expected different seeds to produce different streams")
	}
}
