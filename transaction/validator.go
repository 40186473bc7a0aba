package transaction

import (
	"errors"

	"git.gammaspectra.live/P2Pool/lsag/crypto/curve25519"
	"git.gammaspectra.live/P2Pool/lsag/ledger"
	"git.gammaspectra.live/P2Pool/lsag/registry"
	"git.gammaspectra.live/P2Pool/lsag/utils"
)

type ValidatorOptions struct {
	// Routines used by SubmitBatch, <= 0 picks a count based on available CPUs
	Routines int

	// RegistryCapacity Initial key image registry size
	RegistryCapacity uint32
}

var DefaultValidatorOptions = ValidatorOptions{
	Routines:         0,
	RegistryCapacity: 1024,
}

// Validator Accepts transactions into a ledger. A key image is registered if and only if
// the ledger committed its transaction
type Validator[T curve25519.PointOperations] struct {
	ledger   ledger.Ledger
	registry *registry.Registry
	options  ValidatorOptions
}

func NewValidator[T curve25519.PointOperations](l ledger.Ledger, options ValidatorOptions) *Validator[T] {
	return &Validator[T]{
		ledger:   l,
		registry: registry.New(options.RegistryCapacity),
		options:  options,
	}
}

func (v *Validator[T]) Registry() *registry.Registry {
	return v.registry
}

func (v *Validator[T]) IsKeyImageSpent(image curve25519.PublicKeyBytes) bool {
	return v.registry.IsSpent(image) || v.ledger.IsKeyImageSpent(image)
}

// Submit Verifies tx and commits it to the ledger
func (v *Validator[T]) Submit(tx *Transaction[T]) error {
	return v.accept(tx, Verify(tx, v))
}

// SubmitBatch Verifies txs in parallel, then commits the valid ones in order
func (v *Validator[T]) SubmitBatch(txs []*Transaction[T]) []error {
	results := VerifyBatch(txs, v.options.Routines, v)
	for i, tx := range txs {
		results[i] = v.accept(tx, results[i])
	}
	return results
}

func (v *Validator[T]) accept(tx *Transaction[T], verifyErr error) error {
	if verifyErr != nil {
		v.logRejection(tx, verifyErr)
		return verifyErr
	}

	record := tx.Record()

	err := v.registry.Accept(record.KeyImage, func() error {
		return v.ledger.Commit(record)
	})

	if err != nil {
		var txErr *TxError
		if errors.Is(err, registry.ErrDoubleSpend) || errors.Is(err, ledger.ErrKeyImageSpent) {
			txErr = &TxError{Kind: KindDoubleSpend, Err: err}
		} else {
			txErr = &TxError{Kind: KindLedger, Err: err}
		}
		v.logRejection(tx, txErr)
		return txErr
	}

	utils.Logf("Validator", "Accepted transaction %s, key image %s, ring size %d", record.Id, record.KeyImage, record.RingSize)

	return nil
}

func (v *Validator[T]) logRejection(tx *Transaction[T], err error) {
	kind, _ := KindOf(err)
	switch kind {
	case KindMalformed, KindLedger:
		utils.Errorf("Validator", "Rejected transaction %s: %s", tx.Id(), err)
	default:
		utils.Noticef("Validator", "Rejected transaction %s: %s", tx.Id(), err)
	}
}
