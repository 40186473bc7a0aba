package ledger

import (
	"errors"
	"sync"

	"git.gammaspectra.live/P2Pool/lsag/crypto/curve25519"
	"git.gammaspectra.live/P2Pool/lsag/types"
	"github.com/dolthub/swiss"
	"lukechampine.com/uint128"
)

var ErrKeyImageSpent = errors.New("ledger: key image already spent")
var ErrDuplicateTransaction = errors.New("ledger: transaction already committed")

// Record What the ledger keeps of an accepted transaction
type Record struct {
	Id       types.Hash                `json:"id"`
	KeyImage curve25519.PublicKeyBytes `json:"key_image"`
	Amount   uint64                    `json:"amount"`
	RingSize int                       `json:"ring_size"`
	BlobSize int                       `json:"blob_size"`
}

// Ledger External store of accepted transactions
type Ledger interface {
	IsKeyImageSpent(image curve25519.PublicKeyBytes) bool
	Commit(record Record) error
}

// MemoryLedger In-memory Ledger, with no persistence
type MemoryLedger struct {
	lock      sync.RWMutex
	records   *swiss.Map[types.Hash, Record]
	keyImages *swiss.Map[curve25519.PublicKeyBytes, types.Hash]
	total     uint128.Uint128

	listeners []func(record Record)
}

func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{
		records:   swiss.NewMap[types.Hash, Record](64),
		keyImages: swiss.NewMap[curve25519.PublicKeyBytes, types.Hash](64),
	}
}

// OnCommit Registers f to be called after every successful Commit, outside the ledger lock
func (l *MemoryLedger) OnCommit(f func(record Record)) {
	l.lock.Lock()
	defer l.lock.Unlock()
	l.listeners = append(l.listeners, f)
}

func (l *MemoryLedger) IsKeyImageSpent(image curve25519.PublicKeyBytes) bool {
	l.lock.RLock()
	defer l.lock.RUnlock()
	return l.keyImages.Has(image)
}

func (l *MemoryLedger) Commit(record Record) error {
	listeners, err := func() ([]func(record Record), error) {
		l.lock.Lock()
		defer l.lock.Unlock()
		if l.records.Has(record.Id) {
			return nil, ErrDuplicateTransaction
		}
		if l.keyImages.Has(record.KeyImage) {
			return nil, ErrKeyImageSpent
		}
		l.records.Put(record.Id, record)
		l.keyImages.Put(record.KeyImage, record.Id)
		l.total = l.total.Add64(record.Amount)
		return l.listeners, nil
	}()
	if err != nil {
		return err
	}

	for _, f := range listeners {
		f(record)
	}
	return nil
}

func (l *MemoryLedger) Get(id types.Hash) (Record, bool) {
	l.lock.RLock()
	defer l.lock.RUnlock()
	return l.records.Get(id)
}

// SpentBy Id of the transaction that spent image
func (l *MemoryLedger) SpentBy(image curve25519.PublicKeyBytes) (types.Hash, bool) {
	l.lock.RLock()
	defer l.lock.RUnlock()
	return l.keyImages.Get(image)
}

func (l *MemoryLedger) Len() int {
	l.lock.RLock()
	defer l.lock.RUnlock()
	return l.records.Count()
}

// Total Sum of committed amounts. Does not overflow for any amount of uint64 additions this process can perform
func (l *MemoryLedger) Total() uint128.Uint128 {
	l.lock.RLock()
	defer l.lock.RUnlock()
	return l.total
}

var _ Ledger = &MemoryLedger{}
