package transaction

import (
	"errors"

	"git.gammaspectra.live/P2Pool/lsag/crypto/curve25519"
	"git.gammaspectra.live/P2Pool/lsag/registry"
	"git.gammaspectra.live/P2Pool/lsag/utils"
)

var ErrInvalidSignature = errors.New("invalid transaction signature")

// ErrDoubleSpend Shared with registry, so errors.Is matches either
var ErrDoubleSpend = registry.ErrDoubleSpend

type ErrorKind uint8

const (
	KindMalformed ErrorKind = iota
	KindInvalidSignature
	KindDoubleSpend
	KindLedger
)

func (k ErrorKind) String() string {
	switch k {
	case KindMalformed:
		return "malformed"
	case KindInvalidSignature:
		return "invalid signature"
	case KindDoubleSpend:
		return "double spend"
	case KindLedger:
		return "ledger"
	default:
		return "unknown"
	}
}

// TxError Reason a transaction was rejected
type TxError struct {
	Kind ErrorKind
	Err  error
}

func (e *TxError) Error() string {
	return "transaction rejected, " + e.Kind.String() + ": " + e.Err.Error()
}

func (e *TxError) Unwrap() error {
	return e.Err
}

// KindOf Kind of a rejection, ok is false when err is not a TxError
func KindOf(err error) (kind ErrorKind, ok bool) {
	var txErr *TxError
	if errors.As(err, &txErr) {
		return txErr.Kind, true
	}
	return 0, false
}

type KeyImageChecker interface {
	IsKeyImageSpent(image curve25519.PublicKeyBytes) bool
}

// Verify Checks the signature over the rebuilt prefix hash, then whether the key image was spent according to spent.
// spent may be nil to only check the signature. Returns the first failure as a *TxError
func Verify[T curve25519.PointOperations](tx *Transaction[T], spent KeyImageChecker) error {
	if len(tx.Binding) > MaxBindingSize {
		return &TxError{Kind: KindMalformed, Err: ErrBindingTooLarge}
	}

	prefixHash := tx.PrefixHash()

	ok, err := tx.Signature.Verify(prefixHash[:])
	if err != nil {
		return &TxError{Kind: KindMalformed, Err: err}
	}
	if !ok {
		return &TxError{Kind: KindInvalidSignature, Err: ErrInvalidSignature}
	}

	if spent != nil && spent.IsKeyImageSpent(tx.KeyImage()) {
		return &TxError{Kind: KindDoubleSpend, Err: ErrDoubleSpend}
	}

	return nil
}

// VerifyBatch Verifies txs in parallel across routines goroutines, returning one result per transaction.
// Transactions sharing a key image with an earlier one in txs are reported as double spends.
func VerifyBatch[T curve25519.PointOperations](txs []*Transaction[T], routines int, spent KeyImageChecker) []error {
	results := make([]error, len(txs))

	_ = utils.SplitWork(routines, uint64(len(txs)), func(workIndex uint64, routineIndex int) error {
		results[workIndex] = Verify(txs[workIndex], spent)
		return nil
	}, nil)

	seen := make(map[curve25519.PublicKeyBytes]struct{}, len(txs))
	for i, tx := range txs {
		if results[i] != nil {
			continue
		}
		image := tx.KeyImage()
		if _, ok := seen[image]; ok {
			results[i] = &TxError{Kind: KindDoubleSpend, Err: ErrDoubleSpend}
			continue
		}
		seen[image] = struct{}{}
	}

	return results
}
