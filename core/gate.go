package orchestration

import (
	"sync"
	"sync/atomic"
)

// inflight is a single-slot gate: at most one transition holds it. It is a
// gate, not a queue; a caller that loses the race is rejected.
type inflight struct {
	held atomic.Bool
}

// acquire returns a release func that is safe to call more than once.
func (g *inflight) acquire() (func(), bool) {
	if !g.held.CompareAndSwap(false, true) {
		return nil, false
	}
	var once sync.Once
	return func() { once.Do(func() { g.held.Store(false) }) }, true
}

func (g *inflight) isHeld() bool { return g.held.Load() }
