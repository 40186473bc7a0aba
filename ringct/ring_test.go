package ringct

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"git.gammaspectra.live/P2Pool/lsag/crypto"
	"git.gammaspectra.live/P2Pool/lsag/crypto/curve25519"
)

func randomRing[T curve25519.PointOperations](t *testing.T, n int, randomReader io.Reader) Ring[T] {
	members := make([]curve25519.PublicKey[T], n)
	for i := range members {
		if curve25519.RandomPoint(&members[i], randomReader) == nil {
			t.Fatal("could not sample point")
		}
	}
	ring, err := NewRing(members...)
	if err != nil {
		t.Fatal(err)
	}
	return ring
}

func testRing[T curve25519.PointOperations](t *testing.T) {
	rng := crypto.NewDeterministicTestGenerator()

	t.Run("Size", func(t *testing.T) {
		if _, err := NewRing[T](); !errors.Is(err, ErrInvalidRingSize) {
			t.Fatalf("expected ErrInvalidRingSize, got %v", err)
		}
		single := randomRing[T](t, 2, rng)[:1]
		if _, err := NewRing(single...); !errors.Is(err, ErrInvalidRingSize) {
			t.Fatalf("expected ErrInvalidRingSize, got %v", err)
		}
		if _, err := NewRing(make([]curve25519.PublicKey[T], MaxRingSize+1)...); !errors.Is(err, ErrInvalidRingSize) {
			t.Fatalf("expected ErrInvalidRingSize, got %v", err)
		}
	})

	t.Run("Duplicate", func(t *testing.T) {
		ring := randomRing[T](t, 3, rng)
		if _, err := NewRing(ring[0], ring[1], ring[0]); !errors.Is(err, ErrDuplicateRingMember) {
			t.Fatalf("expected ErrDuplicateRingMember, got %v", err)
		}
	})

	t.Run("Identity", func(t *testing.T) {
		ring := randomRing[T](t, 3, rng)
		ring[1].P().Set(new(curve25519.Point).Subtract(ring[0].P(), ring[0].P()))
		if _, err := NewRing(ring...); !errors.Is(err, curve25519.ErrInvalidPoint) {
			t.Fatalf("expected ErrInvalidPoint, got %v", err)
		}
	})

	t.Run("Torsion", func(t *testing.T) {
		ring := randomRing[T](t, 3, rng)
		var orderTwo curve25519.PublicKey[T]
		if _, err := orderTwo.SetBytes(append([]byte{0xec}, append(bytes.Repeat([]byte{0xff}, 30), 0x7f)...)); err != nil {
			t.Fatal(err)
		}
		ring[2].Add(&ring[2], &orderTwo)
		if _, err := NewRing(ring...); !errors.Is(err, curve25519.ErrInvalidPoint) {
			t.Fatalf("expected ErrInvalidPoint, got %v", err)
		}
	})

	t.Run("Index", func(t *testing.T) {
		ring := randomRing[T](t, 5, rng)
		for i := range ring {
			if ring.Index(&ring[i]) != i {
				t.Fatalf("expected index %d", i)
			}
		}
		var other curve25519.PublicKey[T]
		curve25519.RandomPoint(&other, rng)
		if ring.Index(&other) != -1 {
			t.Fatal("expected -1 for missing member")
		}
	})

	t.Run("Binary", func(t *testing.T) {
		ring := randomRing[T](t, 11, rng)
		buf := ring.Bytes()
		if len(buf) != ring.BufferLength() {
			t.Fatalf("expected length %d, got %d", ring.BufferLength(), len(buf))
		}

		var decoded Ring[T]
		if err := decoded.FromReader(bytes.NewReader(buf)); err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(decoded.Bytes(), buf) {
			t.Fatal("ring did not survive decoding")
		}

		// truncated
		if err := decoded.FromReader(bytes.NewReader(buf[:len(buf)-1])); !errors.Is(err, io.ErrUnexpectedEOF) {
			t.Fatalf("expected io.ErrUnexpectedEOF, got %v", err)
		}

		// count above the limit
		oversized := []byte{0x81, 0x10}
		if err := decoded.FromReader(bytes.NewReader(oversized)); !errors.Is(err, ErrInvalidRingSize) {
			t.Fatalf("expected ErrInvalidRingSize, got %v", err)
		}

		// non-canonical point, y = p
		nonCanonical := bytes.Clone(buf)
		copy(nonCanonical[1:], append([]byte{0xed}, append(bytes.Repeat([]byte{0xff}, 30), 0x7f)...))
		if err := decoded.FromReader(bytes.NewReader(nonCanonical)); !errors.Is(err, curve25519.ErrInvalidPoint) {
			t.Fatalf("expected ErrInvalidPoint, got %v", err)
		}
	})
}

func TestRing(t *testing.T) {
	t.Run("ConstantTime", testRing[curve25519.ConstantTimeOperations])
	t.Run("VarTime", testRing[curve25519.VarTimeOperations])
}
