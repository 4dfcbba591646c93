// Component I (spec.md §4.I): the fixed-order filter -> offset -> map ->
// transform -> limit pipeline, plus prepend/append, layered on Transform.

package asynciter

// TransformOptions configures NewSimpleTransform and BaseIterator's chaining
// combinators (Filter, Skip, Take, Range, ...), each of which is sugar over
// one TransformOptions value (Range and Surround set more than one field).
type TransformOptions[T any] struct {
	// Filter drops an item when it returns false.
	Filter func(T) bool

	// MapFn replaces an item in place; returning keep=false drops it, the
	// same null-skip convention as the free function Map[S, D].
	MapFn func(T) (T, bool)

	// TransformFn is the async per-item step: called with push/next exactly
	// like Transform.transformFn, letting one source item expand into zero
	// or more outputs. If Optional is true and TransformFn never calls
	// push, the item as it stood after MapFn is pushed instead.
	TransformFn func(item T, push func(T), next func())
	Optional    bool

	PrependItems []T
	AppendItems  []T

	Offset   int
	Limit    int
	hasLimit bool
}

// simpleTransformBase has Transform[T]'s fields and promoted methods; it is
// embedded under this name because an embedded field named Transform would
// hide the Transform method that Iterator[T] requires.
type simpleTransformBase[T any] Transform[T]

type simpleTransform[T any] struct {
	*simpleTransformBase[T]
	opts TransformOptions[T]
}

// NewSimpleTransform composes opts into a single Transform[T]: filter,
// offset (skip), map, transform, then limit, in that fixed order
// (spec.md §4.I). PrependItems are pushed ahead of the source's own output;
// AppendItems are pushed once the source has ended, just before this
// iterator closes.
func NewSimpleTransform[T any](source Iterator[T], opts TransformOptions[T]) Iterator[T] {
	st := &simpleTransform[T]{opts: opts}
	st.simpleTransformBase = (*simpleTransformBase[T])(newTransform[T](st, source, nil))

	skipped := 0
	emitted := 0

	st.transformFn = func(item T, push func(T), next func()) {
		if opts.hasLimit && emitted >= opts.Limit {
			st.Close()
			next()
			return
		}
		if opts.Filter != nil && !opts.Filter(item) {
			next()
			return
		}
		if opts.Offset > 0 && skipped < opts.Offset {
			skipped++
			next()
			return
		}
		v := item
		if opts.MapFn != nil {
			mapped, keep := opts.MapFn(item)
			if !keep {
				next()
				return
			}
			v = mapped
		}

		emit := func(out T) {
			emitted++
			push(out)
			if opts.hasLimit && emitted >= opts.Limit {
				st.Close()
			}
		}

		if opts.TransformFn != nil {
			pushed := false
			opts.TransformFn(v,
				func(out T) {
					pushed = true
					emit(out)
				},
				func() {
					if !pushed && opts.Optional {
						emit(v)
					}
					next()
				},
			)
			return
		}

		emit(v)
		next()
	}

	for _, v := range opts.PrependItems {
		st.push(v)
	}

	if len(opts.AppendItems) > 0 {
		st.Buffered.flushHook = func(done func(err error)) {
			for _, v := range opts.AppendItems {
				st.push(v)
			}
			done(nil)
		}
	}

	return st
}
