package registry

import (
	"errors"
	"sync"

	"git.gammaspectra.live/P2Pool/lsag/crypto/curve25519"
	"github.com/dolthub/swiss"
)

var ErrDoubleSpend = errors.New("key image already spent")

// Registry Set of spent key images. Safe for concurrent use
type Registry struct {
	lock   sync.RWMutex
	images *swiss.Map[curve25519.PublicKeyBytes, struct{}]
}

// New capacity is a sizing hint, the registry grows past it
func New(capacity uint32) *Registry {
	return &Registry{
		images: swiss.NewMap[curve25519.PublicKeyBytes, struct{}](capacity),
	}
}

// Register Records image as spent, ErrDoubleSpend if it already was
func (r *Registry) Register(image curve25519.PublicKeyBytes) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	if r.images.Has(image) {
		return ErrDoubleSpend
	}
	r.images.Put(image, struct{}{})
	return nil
}

func (r *Registry) IsSpent(image curve25519.PublicKeyBytes) bool {
	r.lock.RLock()
	defer r.lock.RUnlock()
	return r.images.Has(image)
}

// IsKeyImageSpent Same as IsSpent
func (r *Registry) IsKeyImageSpent(image curve25519.PublicKeyBytes) bool {
	return r.IsSpent(image)
}

func (r *Registry) Len() int {
	r.lock.RLock()
	defer r.lock.RUnlock()
	return r.images.Count()
}

// Accept Runs commit and registers image only if it succeeded, with no other registration able to interleave.
// Of concurrent calls for the same image at most one commit runs, the rest fail with ErrDoubleSpend.
func (r *Registry) Accept(image curve25519.PublicKeyBytes, commit func() error) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	if r.images.Has(image) {
		return ErrDoubleSpend
	}
	if err := commit(); err != nil {
		return err
	}
	r.images.Put(image, struct{}{})
	return nil
}
