package transaction

import (
	"encoding/binary"
	"io"

	"git.gammaspectra.live/P2Pool/lsag/crypto"
	"git.gammaspectra.live/P2Pool/lsag/crypto/curve25519"
	"git.gammaspectra.live/P2Pool/lsag/ledger"
	"git.gammaspectra.live/P2Pool/lsag/ringct"
	"git.gammaspectra.live/P2Pool/lsag/ringct/lsag"
	"git.gammaspectra.live/P2Pool/lsag/types"
	"git.gammaspectra.live/P2Pool/lsag/utils"
)

const prefixDomain = "LSAG_transaction_prefix"

// Transaction A private transfer record. Amount, Binding and the ring are all covered by the signature,
// changing any of them invalidates it
type Transaction[T curve25519.PointOperations] struct {
	Amount uint64
	// Binding Output data the sender commits to, such as the destination
	Binding []byte

	Signature lsag.SignatureWithRing[T]
}

// PrefixHash The message signed by a transaction
//
//	Keccak256(domain || amount LE64 || ring || uvarint len(binding) || binding)
func PrefixHash[T curve25519.PointOperations](amount uint64, ring ringct.Ring[T], binding []byte) types.Hash {
	var amountBuf [8]byte
	binary.LittleEndian.PutUint64(amountBuf[:], amount)

	return crypto.Keccak256Var(
		[]byte(prefixDomain),
		amountBuf[:],
		ring.Bytes(),
		utils.AppendCanonicalUvarint(nil, uint64(len(binding))),
		binding,
	)
}

// Create Signs a transfer of amount out of ring[signerIndex]
func Create[T curve25519.PointOperations](amount uint64, ring ringct.Ring[T], signerIndex int, keyPair *crypto.KeyPair[T], binding []byte, randomReader io.Reader) (*Transaction[T], error) {
	if len(binding) > MaxBindingSize {
		return nil, ErrBindingTooLarge
	}
	if err := ring.Validate(); err != nil {
		return nil, err
	}

	prefixHash := PrefixHash(amount, ring, binding)

	sig, err := lsag.Sign(prefixHash[:], ring, signerIndex, keyPair, randomReader)
	if err != nil {
		return nil, err
	}

	tx := &Transaction[T]{
		Amount:  amount,
		Binding: make([]byte, len(binding)),
		Signature: lsag.SignatureWithRing[T]{
			Ring:      append(ringct.Ring[T]{}, ring...),
			Signature: sig,
		},
	}
	copy(tx.Binding, binding)
	return tx, nil
}

func (tx *Transaction[T]) PrefixHash() types.Hash {
	return PrefixHash(tx.Amount, tx.Signature.Ring, tx.Binding)
}

func (tx *Transaction[T]) KeyImage() curve25519.PublicKeyBytes {
	return tx.Signature.Signature.KeyImage.Bytes()
}

// Record What a ledger keeps of tx
func (tx *Transaction[T]) Record() ledger.Record {
	return ledger.Record{
		Id:       tx.Id(),
		KeyImage: tx.KeyImage(),
		Amount:   tx.Amount,
		RingSize: len(tx.Signature.Ring),
		BlobSize: tx.BufferLength(),
	}
}
