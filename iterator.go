// Component D (spec.md §4.D): the lifecycle state machine, dual-mode
// (pull/push) emission, and property store shared by every iterator.
//
// Go has no subclassing, so the spec's "subclasses override read/_begin/
// _transform/_destroy" becomes struct-of-function-field hooks — the same
// shape as eventloop/loop.go's loopTestHooks (PrePollSleep, PrePollAwake,
// OnFastPathEntry: function fields the owning struct invokes at defined
// points). Concrete iterators either configure a *BaseIterator[T] directly
// (Empty and Single, which need no more state than a read hook) or embed it
// inside a richer struct: Array and Integer shadow Read, Mapping supplies a
// readFn, and Buffered (and everything built on it) shadows Read/Close/
// Destroy outright.
//
// Every concrete type sets BaseIterator.self to itself so that the dual-mode
// drain loop (which must call the *outermost* Read, not BaseIterator's own
// hook-dispatching Read) and the chaining combinators (Filter, Skip, ...)
// bind to the right object — the Go analogue of a "self" pointer standing
// in for virtual dispatch.
package asynciter

import (
	"context"
	"fmt"
)

// Iterator is the consumer-facing surface implemented by every iterator in
// this package (spec.md §6). Map is deliberately not a method: Go methods
// cannot introduce a new type parameter, so S -> D mapping is the free
// function Map[S, D any] in mapping.go instead (see SPEC_FULL.md's
// "Go-native translation notes").
type Iterator[T any] interface {
	Read() (T, bool)
	Close()
	Destroy(cause any)

	Readable() bool
	SetReadable(v bool)
	Closed() bool
	Ended() bool
	Destroyed() bool
	Done() bool
	State() State

	On(event string, fn EventHandler) ListenerID
	Once(event string, fn EventHandler) ListenerID
	Off(event string, id ListenerID) bool
	ListenerCount(event string) int

	GetProperty(name string, cb func(any)) (any, bool)
	SetProperty(name string, value any)
	GetProperties() map[string]any
	SetProperties(values map[string]any)
	CopyProperties(src Iterator[T], names []string)

	ForEach(cb func(T))
	ToArray(ctx context.Context, limit int) ([]T, error)

	Filter(pred func(T) bool) Iterator[T]
	Uniq(keyFn func(T) any) Iterator[T]
	Prepend(items []T) Iterator[T]
	Append(items []T) Iterator[T]
	Surround(pre, post []T) Iterator[T]
	Skip(n int) Iterator[T]
	Take(n int) Iterator[T]
	Range(start, end int) Iterator[T]
	Transform(opts TransformOptions[T]) Iterator[T]
	Clone() Iterator[T]

	String() string
}

// BaseIterator implements component D directly. Used bare (self == the
// *BaseIterator itself) by Empty and Single; embedded by the array, integer,
// and mapping iterators, and by Buffered and everything built on it, which
// shadow Read/Close/Destroy but still rely on BaseIterator for state,
// events, properties, and the chaining combinators.
type BaseIterator[T any] struct {
	*Emitter

	self  Iterator[T]
	state *lifecycleState

	readable readableFlag

	// drainListener holds the id of the readable->drain subscription
	// active while flow mode is engaged (spec.md §4.D step 2).
	drainListener ListenerID

	properties *propertyStore

	// readFn backs the default Read() when self == this BaseIterator
	// (i.e. the concrete type needed nothing more than a custom read).
	readFn func() (T, bool)

	// destroyFn is the component-specific "_destroy(cause, done)" hook;
	// nil means destruction completes immediately with no extra work.
	destroyFn func(cause any, done func(err error))

	// onDetach unsubscribes from any bound source(s); set by Transform,
	// Union, and Clone. Cleared after running so _end only detaches once.
	onDetach func()

	destClaimed boolFlag
}

// destinationOwner is the "hidden field marking ownership of a source"
// spec.md §9 calls for: a source may have at most one destination bound,
// enforced at O(1) via claimDestination's CAS. Every concrete iterator in
// this package embeds *BaseIterator[T] and so satisfies this automatically;
// Union's per-source binding and Transform's single-source binding both use
// it, and HistoryReader (component L) uses it to install itself as the one
// exception the spec carves out (spec.md §3: "the cloned-iterator path is
// the sole exception").
type destinationOwner interface {
	claimDestination() error
}

func (b *BaseIterator[T]) claimDestination() error {
	if !b.destClaimed.set() {
		return newContractError("source already has a destination")
	}
	return nil
}

var _ destinationOwner = (*BaseIterator[int])(nil)

// claimDestinationOf claims src as owned by a new destination, panicking
// with a *ContractError (spec.md §7: synchronous, fatal) if src already has
// one. If src doesn't support ownership tracking at all (e.g. a
// consumer-supplied Iterator[T] that doesn't embed BaseIterator), nothing is
// claimed or checked and it returns without panicking.
func claimDestinationOf(src any) {
	owner, ok := src.(destinationOwner)
	if !ok {
		return
	}
	if err := owner.claimDestination(); err != nil {
		panic(err)
	}
}

// newBaseIterator constructs a BaseIterator in state INIT. self must be the
// outermost iterator value (itself, if the caller needs nothing more than a
// custom readFn).
func newBaseIterator[T any](self Iterator[T]) *BaseIterator[T] {
	b := &BaseIterator[T]{
		Emitter:    NewEmitter(),
		self:       self,
		state:      newLifecycleState(),
		properties: newPropertyStore(),
	}
	b.armNewListenerHandler()
	return b
}

// --- lifecycle state ---

func (b *BaseIterator[T]) State() State    { return b.state.load() }
func (b *BaseIterator[T]) Closed() bool    { return b.state.load().Closed() }
func (b *BaseIterator[T]) Ended() bool     { return b.state.load().Ended() }
func (b *BaseIterator[T]) Destroyed() bool { return b.state.load().Destroyed() }
func (b *BaseIterator[T]) Done() bool      { return b.state.load().Done() }

// changeState is component D's _changeState: accepts iff newState is
// greater than the current state and the current state isn't already
// terminal. On a transition to ENDED it finishes the iterator (detach
// source, emit "end", release resources), either inline or deferred to the
// scheduler per eventAsync.
func (b *BaseIterator[T]) changeState(newState State, eventAsync bool) bool {
	if !b.state.transition(newState) {
		return false
	}
	if newState == StateEnded {
		finish := b.finishEnd
		if eventAsync {
			schedule(finish)
		} else {
			finish()
		}
	}
	return true
}

func (b *BaseIterator[T]) finishEnd() {
	if b.onDetach != nil {
		b.onDetach()
		b.onDetach = nil
	}
	b.Emit("end")
	b.properties.release()
	b.RemoveAll()
}

// Close transitions OPEN->CLOSED and schedules the ENDED transition
// asynchronously. Idempotent: calling it once closed or done is a no-op.
func (b *BaseIterator[T]) Close() {
	if b.state.load().Closed() {
		return
	}
	if b.changeState(StateClosing, false) {
		b.changeState(StateClosed, false)
		schedule(func() { b.changeState(StateEnded, false) })
	}
}

// Destroy immediately cancels the iterator: the buffer (if any) is
// discarded, "end" is never emitted, and "error" is emitted iff a cause
// exists, before the terminal DESTROYED transition (spec.md §5).
func (b *BaseIterator[T]) Destroy(cause any) {
	if b.state.load().Done() {
		return
	}
	finish := func(err error) {
		final := cause
		if final == nil {
			final = err
		}
		b.finishDestroy(final)
	}
	if b.destroyFn != nil {
		guard := newOnceGuard("_destroy")
		b.destroyFn(cause, func(err error) {
			guard.fire()
			finish(err)
		})
	} else {
		finish(nil)
	}
}

func (b *BaseIterator[T]) finishDestroy(cause any) {
	if cause != nil {
		b.Emit("error", causeOf(cause))
	}
	if !b.state.transition(StateDestroyed) {
		return
	}
	if b.onDetach != nil {
		b.onDetach()
		b.onDetach = nil
	}
	b.properties.release()
	b.RemoveAll()
}

// --- readable flag ---

// Readable reports the current readable hint.
func (b *BaseIterator[T]) Readable() bool { return b.readable.get() }

// SetReadable sets the readable hint, coercing to false when done and
// scheduling a "readable" emission on a false->true transition.
func (b *BaseIterator[T]) SetReadable(v bool) {
	if b.state.load().Done() {
		v = false
	}
	if b.readable.set(v) {
		schedule(func() { b.Emit("readable") })
	}
}

// --- read ---

// Read returns the hook's result, or (zero, false) if no readFn was
// configured or the iterator is done. Concrete types built on Buffered
// shadow this entirely.
func (b *BaseIterator[T]) Read() (T, bool) {
	if b.state.load().Done() {
		var zero T
		return zero, false
	}
	if b.readFn != nil {
		return b.readFn()
	}
	var zero T
	return zero, false
}

// --- dual-mode emission (spec.md §4.D) ---

func (b *BaseIterator[T]) armNewListenerHandler() {
	var id ListenerID
	id = b.On("newListener", func(args ...any) {
		if len(args) == 0 {
			return
		}
		name, _ := args[0].(string)
		if name != "data" {
			return
		}
		b.Off("newListener", id)
		drainID := b.On("readable", func(...any) { b.drain() })
		b.drainListener = drainID
		if b.Readable() {
			schedule(b.drain)
		}
	})
}

func (b *BaseIterator[T]) drain() {
	for b.ListenerCount("data") > 0 {
		v, ok := b.self.Read()
		if !ok {
			break
		}
		b.Emit("data", v)
	}
	if b.ListenerCount("data") == 0 && !b.state.load().Done() {
		b.Off("readable", b.drainListener)
		b.armNewListenerHandler()
	}
}

// --- properties ---

func (b *BaseIterator[T]) GetProperty(name string, cb func(any)) (any, bool) {
	return b.properties.getOrAwait(name, cb)
}

func (b *BaseIterator[T]) SetProperty(name string, value any) { b.properties.set(name, value) }

func (b *BaseIterator[T]) GetProperties() map[string]any { return b.properties.snapshot() }

func (b *BaseIterator[T]) SetProperties(values map[string]any) { b.properties.setAll(values) }

func (b *BaseIterator[T]) CopyProperties(src Iterator[T], names []string) {
	if src == nil {
		return
	}
	props := src.GetProperties()
	for _, name := range names {
		if v, ok := props[name]; ok {
			b.SetProperty(name, v)
		}
	}
}

// --- consumption helpers ---

func (b *BaseIterator[T]) ForEach(cb func(T)) {
	b.On("data", func(args ...any) {
		if len(args) == 0 {
			return
		}
		v, _ := args[0].(T)
		cb(v)
	})
}

type toArrayResult[T any] struct {
	items []T
	err   error
}

// ToArray drains self via flow mode, buffering up to limit items (0 means
// unbounded), and returns once end, error, or limit is reached.
func (b *BaseIterator[T]) ToArray(ctx context.Context, limit int) ([]T, error) {
	resultCh := make(chan toArrayResult[T], 1)
	var items []T
	var dataID, endID, errID ListenerID
	var finished bool

	finish := func(err error) {
		if finished {
			return
		}
		finished = true
		b.Off("data", dataID)
		b.Off("end", endID)
		b.Off("error", errID)
		resultCh <- toArrayResult[T]{items: items, err: err}
	}

	dataID = b.On("data", func(args ...any) {
		if len(args) == 0 {
			return
		}
		v, _ := args[0].(T)
		items = append(items, v)
		if limit > 0 && len(items) >= limit {
			finish(nil)
		}
	})
	endID = b.On("end", func(args ...any) { finish(nil) })
	errID = b.On("error", func(args ...any) {
		var err error
		if len(args) > 0 {
			err, _ = args[0].(error)
		}
		finish(err)
	})

	if b.state.load().Done() {
		finish(nil)
	}

	select {
	case res := <-resultCh:
		return res.items, res.err
	case <-ctx.Done():
		b.Off("data", dataID)
		b.Off("end", endID)
		b.Off("error", errID)
		return items, ctx.Err()
	}
}

// --- chaining combinators (component I under the hood) ---

func (b *BaseIterator[T]) Filter(pred func(T) bool) Iterator[T] {
	return NewSimpleTransform[T](b.self, TransformOptions[T]{Filter: pred})
}

func (b *BaseIterator[T]) Uniq(keyFn func(T) any) Iterator[T] {
	if keyFn == nil {
		keyFn = func(v T) any { return v }
	}
	seen := make(map[any]struct{})
	return NewSimpleTransform[T](b.self, TransformOptions[T]{Filter: func(v T) bool {
		k := keyFn(v)
		if _, ok := seen[k]; ok {
			return false
		}
		seen[k] = struct{}{}
		return true
	}})
}

func (b *BaseIterator[T]) Prepend(items []T) Iterator[T] {
	return NewSimpleTransform[T](b.self, TransformOptions[T]{PrependItems: items})
}

func (b *BaseIterator[T]) Append(items []T) Iterator[T] {
	return NewSimpleTransform[T](b.self, TransformOptions[T]{AppendItems: items})
}

func (b *BaseIterator[T]) Surround(pre, post []T) Iterator[T] {
	return NewSimpleTransform[T](b.self, TransformOptions[T]{PrependItems: pre, AppendItems: post})
}

func (b *BaseIterator[T]) Skip(n int) Iterator[T] {
	return NewSimpleTransform[T](b.self, TransformOptions[T]{Offset: n})
}

func (b *BaseIterator[T]) Take(n int) Iterator[T] {
	return NewSimpleTransform[T](b.self, TransformOptions[T]{Limit: n, hasLimit: true})
}

func (b *BaseIterator[T]) Range(start, end int) Iterator[T] {
	limit := end - start
	if limit < 0 {
		limit = 0
	}
	return NewSimpleTransform[T](b.self, TransformOptions[T]{Offset: start, Limit: limit, hasLimit: true})
}

func (b *BaseIterator[T]) Transform(opts TransformOptions[T]) Iterator[T] {
	return NewSimpleTransform[T](b.self, opts)
}

func (b *BaseIterator[T]) Clone() Iterator[T] {
	return newCloneIterator[T](b.self)
}

func (b *BaseIterator[T]) String() string {
	return fmt.Sprintf("Iterator(%s)", b.state.load())
}

var _ Iterator[int] = (*BaseIterator[int])(nil)
