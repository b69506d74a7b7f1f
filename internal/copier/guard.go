package copier

import (
	"sync"
	"sync/atomic"
)

// Guard est un jeton à propriétaire unique : une seule copie à la fois.
type Guard struct {
	busy atomic.Bool
}

// TryAcquire prend le jeton s'il est libre. release est idempotent.
func (g *Guard) TryAcquire() (release func(), ok bool) {
	if !g.busy.CompareAndSwap(false, true) {
		return nil, false
	}
	var once sync.Once
	return func() { once.Do(func() { g.busy.Store(false) }) }, true
}

// Busy indique si une copie est en cours.
func (g *Guard) Busy() bool {
	return g.busy.Load()
}
