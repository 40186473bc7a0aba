package transaction

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"

	"git.gammaspectra.live/P2Pool/lsag/crypto"
	"git.gammaspectra.live/P2Pool/lsag/crypto/curve25519"
	"git.gammaspectra.live/P2Pool/lsag/ringct/lsag"
	"git.gammaspectra.live/P2Pool/lsag/types"
	"git.gammaspectra.live/P2Pool/lsag/utils"
)

// MaxBindingSize Bounds allocations when decoding untrusted transactions
const MaxBindingSize = 64 * 1024

var ErrBindingTooLarge = errors.New("binding too large")
var ErrTrailingData = errors.New("trailing data after transaction")

func (tx *Transaction[T]) BufferLength() int {
	return 8 + utils.UVarInt64Size(len(tx.Binding)) + len(tx.Binding) + tx.Signature.BufferLength()
}

// AppendBinary amount LE64 || uvarint len(binding) || binding || signature with ring
func (tx *Transaction[T]) AppendBinary(preAllocatedBuf []byte) (data []byte, err error) {
	data = binary.LittleEndian.AppendUint64(preAllocatedBuf, tx.Amount)
	data = utils.AppendCanonicalUvarint(data, uint64(len(tx.Binding)))
	data = append(data, tx.Binding...)
	return tx.Signature.AppendBinary(data)
}

func (tx *Transaction[T]) Bytes() []byte {
	buf, _ := tx.AppendBinary(make([]byte, 0, tx.BufferLength()))
	return buf
}

// Id Keccak256 of the wire form
func (tx *Transaction[T]) Id() types.Hash {
	return crypto.Keccak256(tx.Bytes())
}

func (tx *Transaction[T]) FromReader(reader utils.ReaderAndByteReader) (err error) {
	if tx.Amount, err = utils.ReadLittleEndianUint64(reader); err != nil {
		return err
	}

	bindingLength, err := utils.ReadCanonicalUvarint(reader)
	if err != nil {
		return err
	}
	if bindingLength > MaxBindingSize {
		return fmt.Errorf("%w: %d", ErrBindingTooLarge, bindingLength)
	}
	tx.Binding = make([]byte, bindingLength)
	if _, err = utils.ReadFull(reader, tx.Binding); err != nil {
		return err
	}

	return tx.Signature.FromReader(reader)
}

// NewTransactionFromBytes Decoding failures are reported as KindMalformed
func NewTransactionFromBytes[T curve25519.PointOperations](buf []byte) (*Transaction[T], error) {
	tx := &Transaction[T]{}
	reader := bytes.NewReader(buf)
	if err := tx.FromReader(reader); err != nil {
		return nil, &TxError{Kind: KindMalformed, Err: err}
	}
	if reader.Len() != 0 {
		return nil, &TxError{Kind: KindMalformed, Err: ErrTrailingData}
	}
	return tx, nil
}

type transactionJSON[T curve25519.PointOperations] struct {
	Id        types.Hash                `json:"id"`
	Amount    uint64                    `json:"amount"`
	Binding   types.Bytes               `json:"binding"`
	Signature lsag.SignatureWithRing[T] `json:"signature"`
	KeyImage  curve25519.PublicKeyBytes `json:"key_image"`
}

func (tx Transaction[T]) MarshalJSON() ([]byte, error) {
	return utils.MarshalJSON(transactionJSON[T]{
		Id:        tx.Id(),
		Amount:    tx.Amount,
		Binding:   tx.Binding,
		Signature: tx.Signature,
		KeyImage:  tx.KeyImage(),
	})
}

var _ utils.Serializable = &Transaction[curve25519.ConstantTimeOperations]{}
