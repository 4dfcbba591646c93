// The iterator lifecycle state machine (spec.md §3): INIT < OPEN < CLOSING
// < CLOSED < ENDED < DESTROYED, as distinct bit values so that >= comparison
// still expresses the partial order the external API exposes (closed,
// ended, destroyed, done).
//
// Grounded on eventloop/state.go's FastState: an atomic-backed state value
// with a CAS-guarded transition helper. That type's states are not linearly
// ordered (LoopState deliberately keeps legacy numeric values for backward
// compatibility), so here lifecycleState.transition enforces spec.md's requirement
// that the numeric state only increase, the one property FastState doesn't
// need but this package's invariant 1 (spec.md §8) depends on.

package asynciter

import (
	"sync"
	"sync/atomic"
)

// State is one point in an iterator's lifecycle. Values are bit flags so
// that derived booleans (closed, done) can be expressed as threshold
// comparisons while still being totally ordered.
type State uint32

const (
	StateInit      State = 1 << iota // 1
	StateOpen                        // 2
	StateClosing                     // 4
	StateClosed                      // 8
	StateEnded                       // 16
	StateDestroyed                   // 32
)

func (s State) String() string {
	switch s {
	case StateInit:
		return "INIT"
	case StateOpen:
		return "OPEN"
	case StateClosing:
		return "CLOSING"
	case StateClosed:
		return "CLOSED"
	case StateEnded:
		return "ENDED"
	case StateDestroyed:
		return "DESTROYED"
	default:
		return "UNKNOWN"
	}
}

// Closed reports state >= CLOSING.
func (s State) Closed() bool { return s >= StateClosing }

// Ended reports state == ENDED.
func (s State) Ended() bool { return s == StateEnded }

// Destroyed reports state == DESTROYED.
func (s State) Destroyed() bool { return s == StateDestroyed }

// Done reports state >= ENDED (terminal, either ENDED or DESTROYED).
func (s State) Done() bool { return s >= StateEnded }

// lifecycleState is the atomic-backed holder embedded by BaseIterator.
// Unlike eventloop's FastState (which allows same-value CAS loops between
// Running/Sleeping), transitions here are monotonic: a new state is only
// accepted if it is strictly greater than the current one and the current
// one is not already terminal (spec.md invariant 1 and §4.D's
// _changeState contract).
type lifecycleState struct {
	v atomic.Uint32
}

func newLifecycleState() *lifecycleState {
	s := &lifecycleState{}
	s.v.Store(uint32(StateInit))
	return s
}

func (s *lifecycleState) load() State { return State(s.v.Load()) }

// transition attempts newState, returning true iff it was accepted:
// newState > current && current < ENDED.
func (s *lifecycleState) transition(newState State) bool {
	for {
		cur := State(s.v.Load())
		if cur >= StateEnded || newState <= cur {
			return false
		}
		if s.v.CompareAndSwap(uint32(cur), uint32(newState)) {
			return true
		}
	}
}

// readableFlag is the "hint that read() may return non-null" described in
// spec.md §3, mutex-guarded since Readable()/SetReadable() may legitimately
// be called from outside the cooperative scheduler goroutine (e.g. a
// consumer checking Readable() before deciding whether to call Read()).
type readableFlag struct {
	mu    sync.Mutex
	value bool
}

func (f *readableFlag) get() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.value
}

// set stores v and reports whether this was a false->true transition (the
// caller schedules the "readable" emission only in that case).
func (f *readableFlag) set(v bool) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	was := f.value
	f.value = v
	return v && !was
}
