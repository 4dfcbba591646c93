// Component E (spec.md §4.E): Empty, Single, Array, and Integer iterators.
//
// These are the simplest possible BaseIterator configurations — Empty and
// Single need nothing beyond a readFn hook, so they are literally
// *BaseIterator[T] with self pointing back at themselves. Array needs its
// own struct because it shadows Read and ToArray (spec.md: "toArray returns
// the unread slice directly without re-buffering"); Integer has its own
// struct holding the counter state, and shadows Read.

package asynciter

import (
	"context"
	"math"
)

// Empty returns an iterator that is already ENDED; spec.md §4.E: "one
// scheduled end" — the state is terminal immediately, but the "end" event
// fires on the next tick, via changeState's eventAsync=true path.
func Empty[T any]() Iterator[T] {
	b := newBaseIterator[T](nil)
	b.self = b
	b.changeState(StateEnded, true)
	return b
}

// Single returns an iterator that yields item exactly once. If has is
// false (spec.md's "item === none"), it closes immediately instead.
func Single[T any](item T, has bool) Iterator[T] {
	b := newBaseIterator[T](nil)
	b.self = b
	if !has {
		b.changeState(StateEnded, true)
		return b
	}
	taken := false
	b.readFn = func() (T, bool) {
		if taken {
			var zero T
			return zero, false
		}
		taken = true
		b.Close()
		return item, true
	}
	b.changeState(StateOpen, false)
	b.SetReadable(true)
	return b
}

// --- Array ---

type arrayOptions struct {
	autoStart bool
	preserve  bool
}

// ArrayOption configures FromArray.
type ArrayOption func(*arrayOptions)

// WithArrayAutoStart controls whether a constructed-empty array closes
// itself immediately (the default) or waits to be driven.
func WithArrayAutoStart(autoStart bool) ArrayOption {
	return func(o *arrayOptions) { o.autoStart = autoStart }
}

// WithArrayPreserve controls whether FromArray copies items (the default,
// so the caller's slice can be reused) or adopts it directly, pruning the
// consumed prefix every 64 reads to bound memory (spec.md §4.E).
func WithArrayPreserve(preserve bool) ArrayOption {
	return func(o *arrayOptions) { o.preserve = preserve }
}

func resolveArrayOptions(opts []ArrayOption) *arrayOptions {
	cfg := &arrayOptions{autoStart: true, preserve: true}
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}
	return cfg
}

const arrayPrunePeriod = 64

type arrayIterator[T any] struct {
	*BaseIterator[T]
	items           []T
	pos             int
	preserve        bool
	readsSincePrune int
}

// FromArray returns an iterator over a snapshot (or, with
// WithArrayPreserve(false), a direct adoption) of items.
func FromArray[T any](items []T, opts ...ArrayOption) Iterator[T] {
	cfg := resolveArrayOptions(opts)
	a := &arrayIterator[T]{preserve: cfg.preserve}
	a.BaseIterator = newBaseIterator[T](a)
	if cfg.preserve {
		a.items = append(make([]T, 0, len(items)), items...)
	} else {
		a.items = items
	}

	if len(a.items) == 0 {
		a.changeState(StateOpen, false)
		if cfg.autoStart {
			a.Close()
		}
		return a
	}

	a.changeState(StateOpen, false)
	a.SetReadable(true)
	return a
}

func (a *arrayIterator[T]) Read() (T, bool) {
	if a.Done() || a.pos >= len(a.items) {
		var zero T
		a.SetReadable(false)
		return zero, false
	}
	v := a.items[a.pos]
	a.pos++
	if !a.preserve {
		a.readsSincePrune++
		if a.readsSincePrune >= arrayPrunePeriod {
			a.items = a.items[a.pos:]
			a.pos = 0
			a.readsSincePrune = 0
		}
	}
	if a.pos >= len(a.items) {
		a.Close()
	}
	return v, true
}

// ToArray returns the unread tail directly, without round-tripping through
// the event-buffered generic implementation (spec.md §4.E).
func (a *arrayIterator[T]) ToArray(_ context.Context, limit int) ([]T, error) {
	remaining := len(a.items) - a.pos
	if limit <= 0 || limit >= remaining {
		rest := a.items[a.pos:]
		a.pos = len(a.items)
		a.Close()
		return rest, nil
	}
	rest := append(make([]T, 0, limit), a.items[a.pos:a.pos+limit]...)
	a.pos += limit
	return rest, nil
}

// --- Integer range ---

type integerOptions struct {
	start float64
	step  float64
	end   float64 // NaN means "unspecified": defaults to +/-Inf by step sign
}

// IntegerOption configures NewIntegerIterator.
type IntegerOption func(*integerOptions)

func WithIntegerStart(v float64) IntegerOption { return func(o *integerOptions) { o.start = v } }
func WithIntegerStep(v float64) IntegerOption  { return func(o *integerOptions) { o.step = v } }
func WithIntegerEnd(v float64) IntegerOption   { return func(o *integerOptions) { o.end = v } }

type integerIterator struct {
	*BaseIterator[int64]
	current   int64
	step      int64
	end       float64
	ascending bool
}

// NewIntegerIterator is component E's Integer({start, step, end?}).
// Finite start/step/end are truncated to integers; end defaults to +/-Inf
// matching step's sign; a non-finite start closes the iterator immediately.
func NewIntegerIterator(opts ...IntegerOption) Iterator[int64] {
	cfg := &integerOptions{start: 0, step: 1, end: math.NaN()}
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}

	it := &integerIterator{}
	it.BaseIterator = newBaseIterator[int64](it)

	if math.IsNaN(cfg.start) || math.IsInf(cfg.start, 0) {
		it.changeState(StateOpen, false)
		it.Close()
		return it
	}

	step := int64(cfg.step)
	if step == 0 {
		step = 1
	}
	it.step = step
	it.ascending = step > 0

	if math.IsNaN(cfg.end) {
		if it.ascending {
			cfg.end = math.Inf(1)
		} else {
			cfg.end = math.Inf(-1)
		}
	}
	it.end = math.Trunc(cfg.end)
	it.current = int64(cfg.start)

	it.changeState(StateOpen, false)
	if it.crossesEnd(it.current) {
		it.Close()
		return it
	}
	it.SetReadable(true)
	return it
}

func (it *integerIterator) crossesEnd(v int64) bool {
	if it.ascending {
		return float64(v) > it.end
	}
	return float64(v) < it.end
}

func (it *integerIterator) Read() (int64, bool) {
	if it.Done() {
		return 0, false
	}
	v := it.current
	if it.crossesEnd(v) {
		it.Close()
		return 0, false
	}
	it.current = v + it.step
	if it.crossesEnd(it.current) {
		it.Close()
	}
	return v, true
}

// IntRange is the thin §6 factory: range(start, end, step?), matching the
// boundary cases in spec.md §8 (range(0,0) -> [0], range(5,1) -> [],
// range(1,5,-1) -> []).
func IntRange(start, end int64, step ...int64) Iterator[int64] {
	s := int64(1)
	if len(step) > 0 {
		s = step[0]
	}
	return NewIntegerIterator(
		WithIntegerStart(float64(start)),
		WithIntegerEnd(float64(end)),
		WithIntegerStep(float64(s)),
	)
}
