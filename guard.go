// onceGuard enforces spec.md §7's "done callback invoked twice is a hard
// error" contract violation, shared by Destroy, Buffered's _init/_read/
// _flush, and _completeClose.

package asynciter

import "sync/atomic"

type onceGuard struct {
	name string
	used atomic.Bool
}

func newOnceGuard(name string) *onceGuard {
	return &onceGuard{name: name}
}

// fire panics with a *ContractError if this is the second call.
func (g *onceGuard) fire() {
	if !g.used.CompareAndSwap(false, true) {
		panic(newContractError(g.name + ": completion callback invoked twice"))
	}
}

// boolFlag is a one-shot atomic bool, used for destination-ownership claims.
type boolFlag struct {
	v atomic.Bool
}

// set reports true the first time it is called, false on every call after.
func (f *boolFlag) set() bool {
	return f.v.CompareAndSwap(false, true)
}
