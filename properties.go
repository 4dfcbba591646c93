// The property store (spec.md §3, §4.D): a string-keyed value map plus a
// map of callbacks awaiting a name's first assignment. Pure bookkeeping —
// no teacher analogue was needed beyond the scheduling convention already
// established by scheduler.go (setProperty's queued callbacks run on the
// next tick, per spec.md §3).

package asynciter

import "sync"

type propertyStore struct {
	mu      sync.Mutex
	values  map[string]any
	pending map[string][]func(any)
}

func newPropertyStore() *propertyStore {
	return &propertyStore{
		values:  make(map[string]any),
		pending: make(map[string][]func(any)),
	}
}

// get returns the current value for name, without registering a callback.
func (p *propertyStore) get(name string) (any, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	v, ok := p.values[name]
	return v, ok
}

// getOrAwait returns the current value if set; otherwise, if cb is
// non-nil, registers cb to run (via the scheduler) the moment name is
// first assigned.
func (p *propertyStore) getOrAwait(name string, cb func(any)) (any, bool) {
	p.mu.Lock()
	if v, ok := p.values[name]; ok {
		p.mu.Unlock()
		return v, true
	}
	if cb != nil {
		p.pending[name] = append(p.pending[name], cb)
	}
	p.mu.Unlock()
	return nil, false
}

// set assigns value to name and schedules every callback awaiting name's
// first assignment, per spec.md §3: "queued callbacks for that name are
// scheduled (all of them) on the next tick, then removed."
func (p *propertyStore) set(name string, value any) {
	p.mu.Lock()
	p.values[name] = value
	callbacks := p.pending[name]
	delete(p.pending, name)
	p.mu.Unlock()

	for _, cb := range callbacks {
		cb := cb
		schedule(func() { cb(value) })
	}
}

// setAll assigns every key/value pair in values, as if by repeated set.
func (p *propertyStore) setAll(values map[string]any) {
	for k, v := range values {
		p.set(k, v)
	}
}

// snapshot returns a shallow copy of every currently assigned property.
func (p *propertyStore) snapshot() map[string]any {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make(map[string]any, len(p.values))
	for k, v := range p.values {
		out[k] = v
	}
	return out
}

// release drops every stored value and pending callback, per spec.md §3:
// "Properties, buffers, and callbacks are released on _end."
func (p *propertyStore) release() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.values = make(map[string]any)
	p.pending = make(map[string][]func(any))
}
