package ringct

import (
	"fmt"

	"git.gammaspectra.live/P2Pool/lsag/crypto/curve25519"
	"git.gammaspectra.live/P2Pool/lsag/utils"
)

const (
	MinRingSize = 2
	// MaxRingSize Bounds allocations when decoding untrusted rings
	MaxRingSize = 1024
)

// Ring Ordered set of public keys a signature is made over. The order is part of every transcript
type Ring[T curve25519.PointOperations] []curve25519.PublicKey[T]

// NewRing Copies members into a Ring, see Ring.Validate for the accepted inputs
func NewRing[T curve25519.PointOperations](members ...curve25519.PublicKey[T]) (Ring[T], error) {
	r := make(Ring[T], len(members))
	copy(r, members)
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// Validate Checks the ring size is within [MinRingSize, MaxRingSize] and every member
// is a distinct non-identity point of the prime-order subgroup.
//
// A torsioned member would let its owner produce a second key image for the same secret.
func (r Ring[T]) Validate() error {
	if len(r) < MinRingSize || len(r) > MaxRingSize {
		return fmt.Errorf("%w: %d", ErrInvalidRingSize, len(r))
	}

	seen := make(map[curve25519.PublicKeyBytes]struct{}, len(r))
	for i := range r {
		if r[i].IsIdentity() || !r[i].IsTorsionFree() {
			return fmt.Errorf("ring member #%d: %w", i, curve25519.ErrInvalidPoint)
		}
		k := r[i].Bytes()
		if _, ok := seen[k]; ok {
			return fmt.Errorf("ring member #%d: %w", i, ErrDuplicateRingMember)
		}
		seen[k] = struct{}{}
	}
	return nil
}

// Index Position of pub within the ring, or -1
func (r Ring[T]) Index(pub *curve25519.PublicKey[T]) int {
	for i := range r {
		if r[i].Equal(pub) == 1 {
			return i
		}
	}
	return -1
}

func (r Ring[T]) BufferLength() int {
	return utils.UVarInt64Size(len(r)) + len(r)*curve25519.PublicKeySize
}

func (r Ring[T]) AppendBinary(preAllocatedBuf []byte) (data []byte, err error) {
	data = utils.AppendCanonicalUvarint(preAllocatedBuf, uint64(len(r)))
	for i := range r {
		data = r[i].AppendBinary(data)
	}
	return data, nil
}

func (r Ring[T]) Bytes() []byte {
	buf, _ := r.AppendBinary(make([]byte, 0, r.BufferLength()))
	return buf
}

func (r *Ring[T]) FromReader(reader utils.ReaderAndByteReader) (err error) {
	n, err := utils.ReadCanonicalUvarint(reader)
	if err != nil {
		return err
	}
	if n < MinRingSize || n > MaxRingSize {
		return fmt.Errorf("%w: %d", ErrInvalidRingSize, n)
	}

	ring := make(Ring[T], n)
	var buf curve25519.PublicKeyBytes
	for i := range ring {
		if _, err = utils.ReadFull(reader, buf[:]); err != nil {
			return err
		}
		if _, err = ring[i].SetBytes(buf[:]); err != nil {
			return err
		}
	}

	if err = ring.Validate(); err != nil {
		return err
	}
	*r = ring
	return nil
}

var _ utils.Serializable = &Ring[curve25519.ConstantTimeOperations]{}
