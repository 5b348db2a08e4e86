package ringmgr

import "sync/atomic"

// State is the manager lifecycle state of spec §4.3: Created -> Running ->
// Stopped. Restart after Stopped is unsupported.
type State int32

const (
	StateCreated State = iota
	StateRunning
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateRunning:
		return "running"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

type stateBox struct {
	v atomic.Int32
}

func (b *stateBox) load() State {
	return State(b.v.Load())
}

func (b *stateBox) store(s State) {
	b.v.Store(int32(s))
}

func (b *stateBox) compareAndSwap(old, new State) bool {
	return b.v.CompareAndSwap(int32(old), int32(new))
}
